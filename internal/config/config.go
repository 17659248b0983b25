package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/ThatOtherAndrew/Horologe/internal/draw"
)

type Settings struct {
	Face         string `json:"face"`
	Timezone     string `json:"timezone"`
	DisplayShape string `json:"display_shape"`
	Decal        string `json:"decal"`
	Sprite       string `json:"sprite"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	LogLevel     string `json:"log_level"`
	Seed         uint64 `json:"seed"`
}

var (
	shapes    = []string{"round", "square"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

func Defaults() *Settings {
	return &Settings{
		Face:         "sundial",
		DisplayShape: "round",
		Width:        480,
		Height:       480,
		LogLevel:     "warn",
	}
}

// Square reports whether the configured display is square.
func (s *Settings) Square() bool {
	return s.DisplayShape == "square"
}

func GetSettingsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(homeDir, ".config", "horologe")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.json"), nil
}

func LoadSettings() (*Settings, error) {
	settingsPath, err := GetSettingsPath()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(settingsPath)
}

// LoadSettingsFrom reads settings at path, writing the defaults there if the
// file does not exist. A malformed file or field falls back to the default.
func LoadSettingsFrom(settingsPath string) (*Settings, error) {
	defaultSettings := Defaults()

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Creating default settings file at %s", settingsPath)
			if err := Save(settingsPath, defaultSettings); err != nil {
				log.Printf("Failed to create default settings file: %v", err)
			}
			return defaultSettings, nil
		}
		return nil, err
	}

	// Check for unrecognised keys
	var rawSettings map[string]any
	if err := json.Unmarshal(data, &rawSettings); err != nil {
		log.Printf("Invalid settings file, using defaults: %v", err)
		return defaultSettings, nil
	}

	knownKeys := getKnownKeys(Settings{})
	for key := range rawSettings {
		if !knownKeys[key] {
			log.Printf("Warning: unrecognised setting key '%s' in settings file", key)
		}
	}

	settings := Defaults()
	if err := json.Unmarshal(data, settings); err != nil {
		log.Printf("Invalid settings file, using defaults: %v", err)
		return defaultSettings, nil
	}

	settings.sanitise(defaultSettings)
	return settings, nil
}

// sanitise replaces every invalid field with its default.
func (s *Settings) sanitise(def *Settings) {
	if !slices.Contains(draw.FaceNames(), s.Face) {
		log.Printf("Invalid face %q, must be one of %v, using default %q", s.Face, draw.FaceNames(), def.Face)
		s.Face = def.Face
	}
	if !slices.Contains(shapes, s.DisplayShape) {
		log.Printf("Invalid display_shape %q, must be one of %v, using default %q", s.DisplayShape, shapes, def.DisplayShape)
		s.DisplayShape = def.DisplayShape
	}
	if s.Width <= 0 || s.Height <= 0 {
		log.Printf("Invalid window size %dx%d, using default %dx%d", s.Width, s.Height, def.Width, def.Height)
		s.Width, s.Height = def.Width, def.Height
	}
	if !slices.Contains(logLevels, strings.ToLower(s.LogLevel)) {
		log.Printf("Invalid log_level %q, must be one of %v, using default %q", s.LogLevel, logLevels, def.LogLevel)
		s.LogLevel = def.LogLevel
	}
}

func Save(path string, settings *Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Set parses value into the field tagged key and saves the file. Unlike
// loading, an invalid value is an error and nothing is written.
func Set(path, key, value string) (*Settings, error) {
	settings, err := LoadSettingsFrom(path)
	if err != nil {
		return nil, err
	}

	field, ok := fieldByKey(settings, key)
	if !ok {
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
		field.SetInt(int64(n))
	case reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
		field.SetUint(n)
	default:
		return nil, fmt.Errorf("setting %s has unsupported type %s", key, field.Kind())
	}

	check := *settings
	check.sanitise(Defaults())
	if check != *settings {
		return nil, fmt.Errorf("invalid value %q for %s", value, key)
	}

	if err := Save(path, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Keys lists the setting names in file order.
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, tagName(t.Field(i)))
	}
	return keys
}

func fieldByKey(s *Settings, key string) (reflect.Value, bool) {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tagName(t.Field(i)) == key {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(field reflect.StructField) string {
	// Handle json tags like "field,omitempty"
	return strings.Split(field.Tag.Get("json"), ",")[0]
}

func getKnownKeys(v any) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		if name := tagName(t.Field(i)); name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}
