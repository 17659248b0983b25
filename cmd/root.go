package cmd

import (
	"log"
	"log/slog"
	"os"

	"github.com/ThatOtherAndrew/Horologe/internal/config"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	settings   *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "horologe",
	Short: "GPU-rendered analog clock faces",
	Long: `Horologe draws animated analog clock faces with OpenGL.

The sundial face flies a camera over a radial decal and marks the time with a
glowing stripe. The inferno face builds the hands out of rising sparks.`,
	PersistentPreRunE: loadSettings,
	SilenceUsage:      true,
}

func init() {
	log.SetFlags(0)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.config/horologe/settings.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides the settings file)")
}

func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetSettingsPath()
}

func loadSettings(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	settings, err = config.LoadSettingsFrom(path)
	if err != nil {
		return err
	}

	level := settings.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logger.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(level),
	})))
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
