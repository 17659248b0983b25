package models

import (
	"time"
)

type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// FromTime reads the wall-clock fields of t in its own location.
func FromTime(t time.Time) ClockTime {
	h, m, s := t.Clock()
	return ClockTime{Hour: h, Minute: m, Second: s}
}

type PowerMode int

const (
	FullColor PowerMode = iota
	Ambient
)

func (m PowerMode) String() string {
	switch m {
	case FullColor:
		return "full-color"
	case Ambient:
		return "ambient"
	}
	return "unknown"
}

// AnimationState describes one in-flight entrance animation. It is replaced
// wholesale every time the face becomes active.
type AnimationState struct {
	Start         time.Time
	JitterX       float64
	JitterY       float64
	AzimuthRandom float64
	HeightRandom  float64
}

// Particle is one point-sprite record as laid out in the vertex buffer.
type Particle struct {
	X, Y     float32
	TimeBase float32
	Colour   float32
}

const ParticleFloats = 4

// EngineState is everything a face engine mutates between frames.
type EngineState struct {
	Mode    PowerMode
	Visible bool
	Square  bool
	Minute  int
	// Epoch increments on every power-mode change so stale redraw requests
	// can be told apart from current ones.
	Epoch uint64
	Anim  AnimationState
}
