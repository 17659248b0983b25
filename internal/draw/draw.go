package draw

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/clock"
	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/ThatOtherAndrew/Horologe/internal/update"
)

// Face is one clock design. The Driver owns all state that changes between
// frames and passes it in; a Face only holds GPU resources and geometry.
type Face interface {
	Name() string
	// ContextReady creates programs and static buffers.
	ContextReady(dev gpu.Device) error
	// SurfaceReady updates size-dependent matrices. Textures are loaded on
	// the first call after ContextReady and kept across resizes.
	SurfaceReady(dev gpu.Device, width, height int) error
	// Tick recomputes time-dependent geometry.
	Tick(state *models.EngineState, t models.ClockTime)
	// Draw issues the frame and reports whether the picture has come to rest.
	Draw(dev gpu.Device, state *models.EngineState, t models.ClockTime, now time.Time) bool
}

// ShapeAware faces react to the host reporting a round or square display.
type ShapeAware interface {
	ShapeChanged(square bool)
}

// continuation is a request for another frame, valid only in the epoch that
// produced it.
type continuation struct {
	epoch uint64
}

// Driver is the host-facing engine. Hosts forward lifecycle signals to it,
// poll NeedsFrame, and call Draw with the GL context current.
type Driver struct {
	face    Face
	dev     gpu.Device
	sampler *clock.Sampler
	rng     *rand.Rand
	zone    string

	state   models.EngineState
	dirty   bool
	pending *continuation
	surface bool
}

type Option func(*Driver)

// WithSampler supplies the time source. The default reads time.Now in the
// local zone.
func WithSampler(s *clock.Sampler) Option {
	return func(d *Driver) {
		d.sampler = s
	}
}

// WithRand fixes the random source used for camera rerolls.
func WithRand(r *rand.Rand) Option {
	return func(d *Driver) {
		d.rng = r
	}
}

// WithTimezone names the zone to reload whenever the face becomes visible.
// Empty means the host default.
func WithTimezone(zone string) Option {
	return func(d *Driver) {
		d.zone = zone
	}
}

// WithSquare starts the driver on a square display.
func WithSquare(square bool) Option {
	return func(d *Driver) {
		d.state.Square = square
	}
}

func NewDriver(face Face, opts ...Option) *Driver {
	d := &Driver{face: face}
	d.state.Minute = -1
	for _, opt := range opts {
		opt(d)
	}
	if d.sampler == nil {
		d.sampler = clock.NewSampler(nil)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	d.state.Anim = update.Rest(d.sampler.Now())
	if sa, ok := face.(ShapeAware); ok {
		sa.ShapeChanged(d.state.Square)
	}
	return d
}

// State returns a copy of the engine state.
func (d *Driver) State() models.EngineState {
	return d.state
}

func (d *Driver) Face() Face {
	return d.face
}

func (d *Driver) ContextReady(dev gpu.Device) error {
	d.dev = dev
	if err := d.face.ContextReady(dev); err != nil {
		return fmt.Errorf("%s: %w", d.face.Name(), err)
	}
	d.face.Tick(&d.state, d.sampler.Sample())
	logger.Get().Info("context ready", "face", d.face.Name())
	return nil
}

func (d *Driver) SurfaceReady(width, height int) error {
	if d.dev == nil {
		return fmt.Errorf("%s: surface ready before context", d.face.Name())
	}
	d.dev.Viewport(width, height)
	if err := d.face.SurfaceReady(d.dev, width, height); err != nil {
		return fmt.Errorf("%s: %w", d.face.Name(), err)
	}
	d.surface = true
	d.dirty = true
	logger.Get().Info("surface ready", "face", d.face.Name(), "width", width, "height", height)
	return nil
}

// reroll starts a fresh entrance animation and regenerates the hands.
func (d *Driver) reroll() {
	d.state.Anim = update.Reroll(d.rng, d.sampler.Now())
	t := d.sampler.Sample()
	d.state.Minute = t.Minute
	d.face.Tick(&d.state, t)
}

func (d *Driver) SetVisible(visible bool) {
	if visible == d.state.Visible {
		return
	}
	d.state.Visible = visible
	if !visible {
		d.pending = nil
		return
	}
	if err := d.sampler.Refresh(d.zone); err != nil {
		logger.Get().Warn("keeping previous timezone", "error", err)
	}
	d.reroll()
	d.dirty = true
}

func (d *Driver) SetAmbient(ambient bool) {
	mode := models.FullColor
	if ambient {
		mode = models.Ambient
	}
	if mode == d.state.Mode {
		return
	}
	d.state.Mode = mode
	d.state.Epoch++
	if mode == models.FullColor {
		d.reroll()
	} else {
		t := d.sampler.Sample()
		d.state.Minute = t.Minute
		d.face.Tick(&d.state, t)
	}
	d.dirty = true
	logger.Get().Debug("power mode changed", "mode", mode, "epoch", d.state.Epoch)
}

// SetShape records the display shape reported by the host.
func (d *Driver) SetShape(round bool) {
	square := !round
	if square == d.state.Square {
		return
	}
	d.state.Square = square
	if sa, ok := d.face.(ShapeAware); ok {
		sa.ShapeChanged(square)
	}
	d.dirty = true
}

// Tick samples the clock. Geometry is refreshed every call; a redraw is only
// requested when the minute changes.
func (d *Driver) Tick() {
	t := d.sampler.Sample()
	d.face.Tick(&d.state, t)
	if t.Minute != d.state.Minute {
		d.state.Minute = t.Minute
		d.dirty = true
	}
}

func (d *Driver) TimezoneChanged(zone string) error {
	if err := d.sampler.Refresh(zone); err != nil {
		return err
	}
	d.zone = zone
	d.Tick()
	d.dirty = true
	return nil
}

func (d *Driver) Invalidate() {
	d.dirty = true
}

// NeedsFrame reports whether Draw should be called. A continuation left over
// from an earlier power mode is dropped here.
func (d *Driver) NeedsFrame() bool {
	if !d.state.Visible || !d.surface {
		return false
	}
	if d.dirty {
		return true
	}
	if d.pending == nil {
		return false
	}
	if d.pending.epoch != d.state.Epoch || d.state.Mode == models.Ambient {
		logger.Get().Debug("dropping stale continuation", "epoch", d.pending.epoch, "current", d.state.Epoch)
		d.pending = nil
		return false
	}
	return true
}

// Draw renders one frame. In full colour an unsettled face schedules another.
func (d *Driver) Draw() {
	if d.dev == nil || !d.surface {
		return
	}
	d.dirty = false
	d.pending = nil

	d.dev.ClearColor(0, 0, 0, 1)
	d.dev.Clear()
	settled := d.face.Draw(d.dev, &d.state, d.sampler.Sample(), d.sampler.Now())
	if d.state.Mode == models.FullColor && !settled {
		d.pending = &continuation{epoch: d.state.Epoch}
	}
}
