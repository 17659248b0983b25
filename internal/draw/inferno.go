package draw

import (
	"math/rand/v2"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/ThatOtherAndrew/Horologe/internal/shaders"
	"github.com/ThatOtherAndrew/Horologe/internal/spawn"
	"github.com/ThatOtherAndrew/Horologe/internal/texture"
)

// AmbientTimer freezes every particle at one phase.
const AmbientTimer = 0.1

type particleProgram struct {
	program  gpu.Program
	position gpu.Attrib
	timeBase gpu.Attrib
	colour   gpu.Attrib
	sampler  gpu.Uniform
	timer    gpu.Uniform
}

func newParticleProgram(dev gpu.Device, pair shaders.Pair) (particleProgram, error) {
	p, err := shaders.Build(dev, pair)
	if err != nil {
		return particleProgram{}, err
	}
	return particleProgram{
		program:  p,
		position: dev.AttribLocation(p, "a_position"),
		timeBase: dev.AttribLocation(p, "a_timeBase"),
		colour:   dev.AttribLocation(p, "a_colour"),
		sampler:  dev.UniformLocation(p, "s_texture"),
		timer:    dev.UniformLocation(p, "u_timer"),
	}, nil
}

// Inferno draws a ring of rising sparks with two hands of sparks on top,
// framed by a star-shaped bezel in full colour.
type Inferno struct {
	provider texture.Provider
	sprite   string
	arena    *spawn.Arena

	full       particleProgram
	ambient    particleProgram
	line       gpu.Program
	linePos    gpu.Attrib
	tex        texture.Texture
	points     gpu.Buffer
	bezel      gpu.Buffer
	square     bool
	ready      bool
	handsDirty bool
	bezelDirty bool
}

func NewInferno(provider texture.Provider, sprite string, rng *rand.Rand) *Inferno {
	return &Inferno{provider: provider, sprite: sprite, arena: spawn.New(rng)}
}

func (f *Inferno) Name() string { return "inferno" }

// Arena exposes the particle data, mostly for tests and the CPU renderer.
func (f *Inferno) Arena() *spawn.Arena { return f.arena }

func (f *Inferno) Square() bool { return f.square }

func (f *Inferno) ContextReady(dev gpu.Device) error {
	var err error
	if f.full, err = newParticleProgram(dev, shaders.InfernoFull); err != nil {
		return err
	}
	if f.ambient, err = newParticleProgram(dev, shaders.InfernoAmbient); err != nil {
		return err
	}
	if f.line, err = shaders.Build(dev, shaders.Line); err != nil {
		return err
	}
	f.linePos = dev.AttribLocation(f.line, "a_position")

	f.arena.SpawnHub()
	f.points = dev.NewBuffer(f.arena.Floats())
	f.bezel = dev.NewBuffer(spawn.Bezel(f.square))
	f.tex = texture.Texture{}
	f.ready = true
	return nil
}

func (f *Inferno) SurfaceReady(dev gpu.Device, width, height int) error {
	if f.tex.Handle != 0 {
		return nil
	}
	tex, err := texture.Load(dev, f.provider, f.sprite)
	if err != nil {
		return err
	}
	f.tex = tex
	return nil
}

func (f *Inferno) ShapeChanged(square bool) {
	f.square = square
	f.bezelDirty = f.ready
}

func (f *Inferno) Tick(_ *models.EngineState, t models.ClockTime) {
	f.arena.SpawnHands(t)
	f.handsDirty = true
}

func (f *Inferno) bindParticles(dev gpu.Device, p particleProgram, timer float32) {
	dev.UseProgram(p.program)
	dev.Uniform1f(p.timer, timer)
	dev.BindTexture(0, f.tex.Handle)
	dev.Uniform1i(p.sampler, 0)
	stride := models.ParticleFloats
	dev.VertexAttrib(p.position, f.points, 2, stride, 0)
	dev.VertexAttrib(p.timeBase, f.points, 1, stride, 2)
	dev.VertexAttrib(p.colour, f.points, 1, stride, 3)
}

func (f *Inferno) Draw(dev gpu.Device, state *models.EngineState, t models.ClockTime, now time.Time) bool {
	if f.handsDirty {
		dev.UploadBuffer(f.points, f.arena.Floats())
		f.handsDirty = false
	}
	if f.bezelDirty {
		dev.UploadBuffer(f.bezel, spawn.Bezel(f.square))
		f.bezelDirty = false
	}
	dev.SetBlend(gpu.BlendAlpha)

	if state.Mode == models.Ambient {
		f.bindParticles(dev, f.ambient, AmbientTimer)
		dev.DrawArrays(gpu.Points, 0, spawn.TotalParticles)
		return true
	}

	dev.UseProgram(f.line)
	dev.VertexAttrib(f.linePos, f.bezel, 2, 2, 0)
	dev.DrawArrays(gpu.LineLoop, 0, spawn.BezelVertices)

	f.bindParticles(dev, f.full, Timer(state.Anim.Start, now))
	dev.DrawArrays(gpu.Points, 0, spawn.TotalParticles)
	// The fire never settles in full colour.
	return false
}

// Timer is the u_timer value: seconds since the current entrance began.
func Timer(start, now time.Time) float32 {
	if now.Before(start) {
		return 0
	}
	return float32(now.Sub(start).Seconds())
}
