package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/models"
)

// Decal calibration. The sundial artwork places 12 o'clock at pixel 80.5 and
// spends 864 pixels on a 12-hour sweep.
const (
	TextureScale  = 864.0
	TextureOffset = 80.5

	halfDaySeconds = 12 * 60 * 60
)

// Sampler reads wall-clock time in a replaceable location. The location is
// swapped by the host when it is told the timezone changed.
type Sampler struct {
	mu  sync.Mutex
	now func() time.Time
	loc *time.Location
}

func NewSampler(now func() time.Time) *Sampler {
	if now == nil {
		now = time.Now
	}
	return &Sampler{now: now, loc: time.Local}
}

// Refresh switches to the named zone. An empty name selects the host default.
func (s *Sampler) Refresh(zone string) error {
	loc := time.Local
	if zone != "" {
		var err error
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", zone, err)
		}
	}
	s.mu.Lock()
	s.loc = loc
	s.mu.Unlock()
	return nil
}

func (s *Sampler) Location() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// Now is the raw instant, used for elapsed-time measurements.
func (s *Sampler) Now() time.Time {
	return s.now()
}

func (s *Sampler) Sample() models.ClockTime {
	return models.FromTime(s.now().In(s.Location()))
}

// HalfDaySeconds is the number of seconds since the last noon or midnight.
func HalfDaySeconds(t models.ClockTime) int {
	return (t.Hour%12)*3600 + t.Minute*60 + t.Second
}

// TextureS maps t onto the horizontal texture coordinate of a sundial decal
// of the given width. This is the u_now uniform.
func TextureS(t models.ClockTime, textureWidth int) float32 {
	w := float64(textureWidth)
	seconds := float64(HalfDaySeconds(t))
	return float32(seconds*TextureScale/w/halfDaySeconds + TextureOffset/w)
}

// SwapDayNight reports whether the afternoon colour layout is in effect.
func SwapDayNight(t models.ClockTime) bool {
	return t.Hour > 11
}
