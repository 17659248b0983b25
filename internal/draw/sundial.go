package draw

import (
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/clock"
	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/ThatOtherAndrew/Horologe/internal/shaders"
	"github.com/ThatOtherAndrew/Horologe/internal/spawn"
	"github.com/ThatOtherAndrew/Horologe/internal/texture"
	"github.com/ThatOtherAndrew/Horologe/internal/update"
	"github.com/go-gl/mathgl/mgl32"
)

// FullSize is u_size once the entrance has finished.
const FullSize = 4.0 / 3

type sundialProgram struct {
	program  gpu.Program
	position gpu.Attrib
	texCoord gpu.Attrib
	sampler  gpu.Uniform
	mvp      gpu.Uniform
	now      gpu.Uniform
	size     gpu.Uniform
	swap     gpu.Uniform
}

func newSundialProgram(dev gpu.Device, pair shaders.Pair) (sundialProgram, error) {
	p, err := shaders.Build(dev, pair)
	if err != nil {
		return sundialProgram{}, err
	}
	return sundialProgram{
		program:  p,
		position: dev.AttribLocation(p, "a_position"),
		texCoord: dev.AttribLocation(p, "a_texCoord"),
		sampler:  dev.UniformLocation(p, "s_texture"),
		mvp:      dev.UniformLocation(p, "u_mvpMatrix"),
		now:      dev.UniformLocation(p, "u_now"),
		size:     dev.UniformLocation(p, "u_size"),
		swap:     dev.UniformLocation(p, "u_swap_day_night"),
	}, nil
}

// Sundial sweeps a camera over a radial decal. The hand is a stripe at the
// decal column for the current time.
type Sundial struct {
	provider texture.Provider
	decal    string

	full       sundialProgram
	ambient    sundialProgram
	quad       gpu.Buffer
	tex        texture.Texture
	projection mgl32.Mat4
}

func NewSundial(provider texture.Provider, decal string) *Sundial {
	return &Sundial{provider: provider, decal: decal}
}

func (s *Sundial) Name() string { return "sundial" }

func (s *Sundial) ContextReady(dev gpu.Device) error {
	var err error
	if s.full, err = newSundialProgram(dev, shaders.SundialFull); err != nil {
		return err
	}
	if s.ambient, err = newSundialProgram(dev, shaders.SundialAmbient); err != nil {
		return err
	}
	s.quad = dev.NewBuffer(spawn.SundialQuad)
	s.tex = texture.Texture{}
	return nil
}

func (s *Sundial) SurfaceReady(dev gpu.Device, width, height int) error {
	s.projection = update.Projection(width, height)
	if s.tex.Handle != 0 {
		return nil
	}
	tex, err := texture.Load(dev, s.provider, s.decal)
	if err != nil {
		return err
	}
	s.tex = tex
	return nil
}

func (s *Sundial) Tick(*models.EngineState, models.ClockTime) {}

// Uniforms computes everything the sundial programs need for a frame.
func (s *Sundial) Uniforms(state *models.EngineState, t models.ClockTime, now time.Time) (mgl32.Mat4, shaders.SundialUniforms, bool) {
	return SundialFrame(state, t, now, s.tex.Width, s.projection)
}

// SundialFrame is Uniforms for a decal of the given width seen through
// projection. It needs no GPU state.
func SundialFrame(state *models.EngineState, t models.ClockTime, now time.Time, decalWidth int, projection mgl32.Mat4) (mvp mgl32.Mat4, u shaders.SundialUniforms, settled bool) {
	u.Now = clock.TextureS(t, decalWidth)
	if state.Mode == models.Ambient {
		cam := update.AmbientView(u.Now, state.Anim)
		return update.MVP(projection, cam), u, true
	}
	delta, settled := update.Progress(state.Anim, now)
	cam := update.View(u.Now, delta, state.Anim)
	u.Size = float32(FullSize * delta)
	u.SwapDayNight = clock.SwapDayNight(t)
	return update.MVP(projection, cam), u, settled
}

func (s *Sundial) Draw(dev gpu.Device, state *models.EngineState, t models.ClockTime, now time.Time) bool {
	mvp, u, settled := s.Uniforms(state, t, now)

	prog := s.full
	if state.Mode == models.Ambient {
		prog = s.ambient
	}
	dev.SetBlend(gpu.BlendOff)
	dev.UseProgram(prog.program)
	dev.UniformMatrix4(prog.mvp, mvp)
	dev.Uniform1f(prog.now, u.Now)
	if state.Mode == models.FullColor {
		dev.Uniform1f(prog.size, u.Size)
		swap := float32(0)
		if u.SwapDayNight {
			swap = 1
		}
		dev.Uniform1f(prog.swap, swap)
	}
	dev.BindTexture(0, s.tex.Handle)
	dev.Uniform1i(prog.sampler, 0)
	dev.VertexAttrib(prog.position, s.quad, 2, 4, 0)
	dev.VertexAttrib(prog.texCoord, s.quad, 2, 4, 2)
	dev.DrawArrays(gpu.TriangleStrip, 0, 4)
	return settled
}
