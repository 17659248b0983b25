package spawn

import (
	"math"
	"math/rand/v2"

	"github.com/ThatOtherAndrew/Horologe/internal/models"
)

const (
	HubParticles    = 480
	HourParticles   = 256
	MinuteParticles = 448
	TotalParticles  = HubParticles + HourParticles + MinuteParticles

	HubRadius      = 0.1
	HourReach      = 5
	MinuteReach    = 8
	ParticleJitter = 0.0125

	BezelVertices = 12
	bezelStep     = 150
	bezelRound    = 0.97
	bezelCorner   = 1.1
)

// Region is a contiguous range of particle records in the arena.
type Region struct {
	First int
	Count int
}

var (
	HubRegion    = Region{First: 0, Count: HubParticles}
	HourRegion   = Region{First: HubParticles, Count: HourParticles}
	MinuteRegion = Region{First: HubParticles + HourParticles, Count: MinuteParticles}
)

// SundialQuad is the static full-decal quad as (x, y, s, t) per vertex, drawn
// as a triangle strip.
var SundialQuad = []float32{
	-1, -1, 0, 1,
	-1, 1, 0, 0,
	1, -1, 1, 1,
	1, 1, 1, 0,
}

// Arena is the fixed-capacity particle buffer for the inferno face. The
// backing slice never grows; hands overwrite their own regions in place.
type Arena struct {
	rng  *rand.Rand
	data []float32
}

func New(rng *rand.Rand) *Arena {
	return &Arena{
		rng:  rng,
		data: make([]float32, TotalParticles*models.ParticleFloats),
	}
}

// Floats exposes the packed vertex data.
func (a *Arena) Floats() []float32 {
	return a.data
}

func (a *Arena) Particle(i int) models.Particle {
	o := i * models.ParticleFloats
	return models.Particle{X: a.data[o], Y: a.data[o+1], TimeBase: a.data[o+2], Colour: a.data[o+3]}
}

func (a *Arena) set(i int, p models.Particle) {
	o := i * models.ParticleFloats
	a.data[o] = p.X
	a.data[o+1] = p.Y
	a.data[o+2] = p.TimeBase
	a.data[o+3] = p.Colour
}

func (a *Arena) jitter() float32 {
	return float32(a.rng.Float64()*2*ParticleJitter - ParticleJitter)
}

func (a *Arena) spawn(i int, x, y float64) {
	a.set(i, models.Particle{
		X:        float32(x) + a.jitter(),
		Y:        float32(y) + a.jitter(),
		TimeBase: a.rng.Float32(),
		Colour:   1,
	})
}

// SpawnHub lays the hub ring out evenly around the centre.
func (a *Arena) SpawnHub() {
	for d := range HubParticles {
		angle := float64(d) * 2 * math.Pi / HubParticles
		a.spawn(HubRegion.First+d, HubRadius*math.Sin(angle), HubRadius*math.Cos(angle))
	}
}

// SpawnHands regenerates both hand regions for t. Every particle gets fresh
// jitter and a fresh time base.
func (a *Arena) SpawnHands(t models.ClockTime) {
	hour, minute := HandAngles(t)
	a.spawnHand(HourRegion, hour, HourReach)
	a.spawnHand(MinuteRegion, minute, MinuteReach)
}

func (a *Arena) spawnHand(r Region, degrees float64, reach float64) {
	rad := degrees * math.Pi / 180
	sx, sy := HubRadius*math.Sin(rad), HubRadius*math.Cos(rad)
	ex, ey := sx*reach, sy*reach
	for i := range r.Count {
		f := float64(i) / float64(r.Count)
		a.spawn(r.First+i, sx+(ex-sx)*f, sy+(ey-sy)*f)
	}
}

// HandAngles returns the hour and minute hand angles in degrees clockwise
// from twelve.
func HandAngles(t models.ClockTime) (hour, minute float64) {
	minute = float64(t.Minute)*6 + float64(t.Second)/10
	hour = float64(t.Hour)*30 + float64(t.Minute)/2
	return hour, minute
}

// BezelRadius is the distance of bezel vertex i from the centre. On square
// displays the diagonal vertices are pushed out towards the corners.
func BezelRadius(i int, square bool) float64 {
	angle := (i * bezelStep) % 360
	if square && angle%90 != 0 {
		return bezelCorner
	}
	return bezelRound
}

// Bezel builds the line-loop polygon as packed (x, y) pairs.
func Bezel(square bool) []float32 {
	out := make([]float32, 0, BezelVertices*2)
	for d := range BezelVertices {
		rad := float64(d*bezelStep) * math.Pi / 180
		r := BezelRadius(d, square)
		out = append(out, float32(r*math.Sin(rad)), float32(r*math.Cos(rad)))
	}
	return out
}
