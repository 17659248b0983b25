package draw

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/ThatOtherAndrew/Horologe/internal/clock"
	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/gpu/gputest"
	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/ThatOtherAndrew/Horologe/internal/shaders"
	"github.com/ThatOtherAndrew/Horologe/internal/spawn"
	"github.com/ThatOtherAndrew/Horologe/internal/texture"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	clock  *fakeClock
	rec    *gputest.Recorder
	driver *Driver
}

func newHarness(t *testing.T, face string) *harness {
	t.Helper()
	fc := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	sampler := clock.NewSampler(fc.Now)
	f, err := NewFace(face, FaceOptions{Rand: rand.New(rand.NewPCG(1, 2))})
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{
		clock: fc,
		rec:   gputest.New(),
		driver: NewDriver(f,
			WithSampler(sampler),
			WithRand(rand.New(rand.NewPCG(3, 4))),
			WithTimezone("UTC"),
		),
	}
	if err := h.driver.ContextReady(h.rec); err != nil {
		t.Fatal(err)
	}
	if err := h.driver.SurfaceReady(400, 400); err != nil {
		t.Fatal(err)
	}
	h.driver.SetVisible(true)
	return h
}

func (h *harness) program(t *testing.T) gpu.Program {
	t.Helper()
	for i := len(h.rec.Calls) - 1; i >= 0; i-- {
		if c := h.rec.Calls[i]; c.Op == "UseProgram" {
			return c.Args[0].(gpu.Program)
		}
	}
	t.Fatal("no program in use")
	return 0
}

func (h *harness) uniform(t *testing.T, name string) any {
	t.Helper()
	v, ok := h.rec.Uniform(h.program(t), name)
	if !ok {
		t.Fatalf("uniform %s never set", name)
	}
	return v
}

func TestSundialEntranceSettles(t *testing.T) {
	h := newHarness(t, "sundial")

	if !h.driver.NeedsFrame() {
		t.Fatal("a newly visible face should need a frame")
	}
	h.driver.Draw()

	draws := h.rec.Draws()
	if len(draws) != 1 || draws[0].Args[0] != gpu.TriangleStrip || draws[0].Args[2] != 4 {
		t.Fatalf("draws = %v, want one 4-vertex triangle strip", draws)
	}
	if got := h.uniform(t, "u_size").(float32); got != 0 {
		t.Errorf("u_size at entrance start = %v, want 0", got)
	}
	if h.rec.Blend != gpu.BlendOff {
		t.Error("sundial should draw without blending")
	}
	if !h.driver.NeedsFrame() {
		t.Fatal("unsettled entrance should request another frame")
	}

	h.clock.advance(500 * time.Millisecond)
	h.driver.Draw()
	if got := h.uniform(t, "u_size").(float32); math.Abs(float64(got)-FullSize/2) > 1e-5 {
		t.Errorf("u_size halfway = %v, want %v", got, FullSize/2)
	}

	h.clock.advance(600 * time.Millisecond)
	h.driver.Draw()
	if got := h.uniform(t, "u_size").(float32); math.Abs(float64(got)-FullSize) > 1e-6 {
		t.Errorf("u_size after entrance = %v, want %v", got, FullSize)
	}
	if h.driver.NeedsFrame() {
		t.Error("settled face kept requesting frames")
	}
}

func TestSundialNowUniform(t *testing.T) {
	h := newHarness(t, "sundial")
	h.driver.Draw()
	want := (0.75*clock.TextureScale + clock.TextureOffset) / texture.DecalSize
	if got := h.uniform(t, "u_now").(float32); math.Abs(float64(got)-want) > 1e-4 {
		t.Errorf("u_now at 09:00:00 = %v, want %v", got, want)
	}
	if got := h.uniform(t, "u_swap_day_night").(float32); got != 0 {
		t.Errorf("u_swap_day_night in the morning = %v", got)
	}
}

func TestSundialAfternoonSwap(t *testing.T) {
	h := newHarness(t, "sundial")
	h.clock.advance(6 * time.Hour)
	h.driver.Draw()
	if got := h.uniform(t, "u_swap_day_night").(float32); got != 1 {
		t.Errorf("u_swap_day_night at 15:00 = %v, want 1", got)
	}
}

func TestAmbientCadence(t *testing.T) {
	h := newHarness(t, "sundial")
	h.driver.Draw()
	h.driver.SetAmbient(true)
	if !h.driver.NeedsFrame() {
		t.Fatal("entering ambient should redraw")
	}
	h.rec.Reset()
	h.driver.Draw()

	if _, ok := h.rec.Uniform(h.program(t), "u_size"); ok {
		t.Error("ambient program received u_size")
	}
	if h.driver.NeedsFrame() {
		t.Fatal("ambient frame requested a continuation")
	}

	h.clock.advance(20 * time.Second)
	h.driver.Tick()
	if h.driver.NeedsFrame() {
		t.Error("tick within the same minute requested a frame")
	}
	h.clock.advance(45 * time.Second)
	h.driver.Tick()
	if !h.driver.NeedsFrame() {
		t.Error("minute change did not request a frame")
	}
	h.driver.Draw()
	h.driver.Invalidate()
	if !h.driver.NeedsFrame() {
		t.Error("Invalidate did not request a frame")
	}
}

func TestStaleContinuationDropped(t *testing.T) {
	h := newHarness(t, "sundial")
	h.driver.Draw()
	if h.driver.pending == nil {
		t.Fatal("expected a pending continuation mid-entrance")
	}

	h.driver.SetAmbient(true)
	h.driver.dirty = false
	if h.driver.NeedsFrame() {
		t.Error("continuation from full colour honoured in ambient")
	}
	if h.driver.pending != nil {
		t.Error("stale continuation was kept")
	}

	// A continuation from an older epoch is dropped even in full colour.
	h.driver.SetAmbient(false)
	h.driver.dirty = false
	h.driver.pending = &continuation{epoch: h.driver.state.Epoch - 1}
	if h.driver.NeedsFrame() {
		t.Error("continuation from an older epoch honoured")
	}
}

func TestRerollOnActivation(t *testing.T) {
	h := newHarness(t, "sundial")
	first := h.driver.State().Anim
	if !first.Start.Equal(h.clock.now) {
		t.Errorf("entrance start = %v, want %v", first.Start, h.clock.now)
	}

	h.clock.advance(time.Minute)
	h.driver.SetAmbient(true)
	if h.driver.State().Anim != first {
		t.Error("entering ambient rerolled the camera")
	}

	h.clock.advance(time.Minute)
	h.driver.SetAmbient(false)
	second := h.driver.State().Anim
	if second == first || !second.Start.Equal(h.clock.now) {
		t.Errorf("leaving ambient did not reroll: %+v", second)
	}

	h.driver.SetVisible(false)
	if h.driver.NeedsFrame() {
		t.Error("hidden face requested a frame")
	}
	h.clock.advance(time.Minute)
	h.driver.SetVisible(true)
	if third := h.driver.State().Anim; third == second {
		t.Error("becoming visible did not reroll")
	}
}

func TestEpochCountsModeChanges(t *testing.T) {
	h := newHarness(t, "inferno")
	h.driver.SetAmbient(true)
	h.driver.SetAmbient(true)
	h.driver.SetAmbient(false)
	if got := h.driver.State().Epoch; got != 2 {
		t.Errorf("epoch = %d, want 2", got)
	}
}

func TestInfernoFullColour(t *testing.T) {
	h := newHarness(t, "inferno")
	h.clock.advance(2500 * time.Millisecond)
	h.rec.Reset()
	h.driver.Draw()

	draws := h.rec.Draws()
	if len(draws) != 2 {
		t.Fatalf("draws = %v, want bezel then particles", draws)
	}
	if draws[0].Args[0] != gpu.LineLoop || draws[0].Args[2] != spawn.BezelVertices {
		t.Errorf("first draw = %v, want line loop of %d", draws[0], spawn.BezelVertices)
	}
	if draws[1].Args[0] != gpu.Points || draws[1].Args[2] != spawn.TotalParticles {
		t.Errorf("second draw = %v, want %d points", draws[1], spawn.TotalParticles)
	}
	if got := h.uniform(t, "u_timer").(float32); math.Abs(float64(got)-2.5) > 1e-6 {
		t.Errorf("u_timer = %v, want 2.5", got)
	}
	if h.rec.Blend != gpu.BlendAlpha {
		t.Error("particles drawn without alpha blending")
	}
	if h.rec.Count("UploadBuffer") == 0 {
		t.Error("hands were never uploaded")
	}

	h.clock.advance(time.Hour)
	h.driver.Draw()
	if !h.driver.NeedsFrame() {
		t.Error("full-colour fire stopped animating")
	}
}

func TestInfernoAmbient(t *testing.T) {
	h := newHarness(t, "inferno")
	h.driver.SetAmbient(true)
	h.rec.Reset()
	h.driver.Draw()

	draws := h.rec.Draws()
	if len(draws) != 1 || draws[0].Args[0] != gpu.Points {
		t.Fatalf("ambient draws = %v, want points only", draws)
	}
	if got := h.uniform(t, "u_timer").(float32); got != AmbientTimer {
		t.Errorf("ambient u_timer = %v, want %v", got, float32(AmbientTimer))
	}
	if h.driver.NeedsFrame() {
		t.Error("ambient fire requested a continuation")
	}
}

func TestInfernoHandsFollowTicks(t *testing.T) {
	h := newHarness(t, "inferno")
	h.driver.Draw()
	inferno := h.driver.Face().(*Inferno)
	before := inferno.Arena().Particle(spawn.MinuteRegion.First + spawn.MinuteRegion.Count - 1)

	h.clock.advance(15 * time.Minute)
	h.driver.Tick()
	h.rec.Reset()
	h.driver.Draw()
	after := inferno.Arena().Particle(spawn.MinuteRegion.First + spawn.MinuteRegion.Count - 1)

	// 09:00 has the minute hand up, 09:15 has it pointing right.
	if before.Y < 0.7 || after.X < 0.7 {
		t.Errorf("minute tip moved from %+v to %+v", before, after)
	}
	if h.rec.Count("UploadBuffer") != 1 {
		t.Errorf("UploadBuffer called %d times, want 1", h.rec.Count("UploadBuffer"))
	}
}

func TestAmbientRefreshesHands(t *testing.T) {
	h := newHarness(t, "inferno")
	h.driver.Draw()
	inferno := h.driver.Face().(*Inferno)

	// No tick between 09:00 and entering ambient at 09:15.
	h.clock.advance(15 * time.Minute)
	h.driver.SetAmbient(true)
	tip := inferno.Arena().Particle(spawn.MinuteRegion.First + spawn.MinuteRegion.Count - 1)
	if tip.X < 0.7 {
		t.Errorf("minute tip on entering ambient = %+v, want pointing right", tip)
	}
	if got := h.driver.State().Minute; got != 15 {
		t.Errorf("minute = %d, want 15", got)
	}
}

func TestResizeKeepsTexture(t *testing.T) {
	for _, face := range FaceNames() {
		t.Run(face, func(t *testing.T) {
			h := newHarness(t, face)
			if got := h.rec.Count("NewTexture"); got != 1 {
				t.Fatalf("NewTexture after first surface = %d, want 1", got)
			}
			for i := range 5 {
				if err := h.driver.SurfaceReady(300+i*50, 400); err != nil {
					t.Fatal(err)
				}
			}
			if got := h.rec.Count("NewTexture"); got != 1 {
				t.Errorf("NewTexture after resizes = %d, want 1", got)
			}
			if got := h.rec.Count("Viewport"); got != 6 {
				t.Errorf("Viewport = %d, want 6", got)
			}

			// A new context needs the texture again.
			if err := h.driver.ContextReady(h.rec); err != nil {
				t.Fatal(err)
			}
			if err := h.driver.SurfaceReady(400, 400); err != nil {
				t.Fatal(err)
			}
			if got := h.rec.Count("NewTexture"); got != 2 {
				t.Errorf("NewTexture after context loss = %d, want 2", got)
			}
		})
	}
}

func TestInfernoSquareBezel(t *testing.T) {
	h := newHarness(t, "inferno")
	h.driver.Draw()
	inferno := h.driver.Face().(*Inferno)

	h.driver.SetShape(false)
	if !inferno.Square() || !h.driver.NeedsFrame() {
		t.Fatal("square display not applied")
	}
	h.driver.Draw()

	var bezel []float32
	for _, c := range h.rec.Calls {
		if c.Op == "UploadBuffer" && c.Args[1] == spawn.BezelVertices*2 {
			bezel = h.rec.Buffers[c.Args[0].(gpu.Buffer)]
		}
	}
	if bezel == nil {
		t.Fatal("bezel was not re-uploaded")
	}
	r := math.Hypot(float64(bezel[2]), float64(bezel[3]))
	if math.Abs(r-1.1) > 1e-5 {
		t.Errorf("vertex 1 radius = %v, want 1.1", r)
	}
}

func TestContextErrors(t *testing.T) {
	rec := gputest.New()
	rec.FailCompile = &gpu.ProgramLinkError{Log: "link failed"}
	d := NewDriver(NewSundial(texture.Procedural{}, texture.FaceDecal))
	err := d.ContextReady(rec)
	var linkErr *gpu.ProgramLinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("ContextReady error = %v, want ProgramLinkError", err)
	}
}

func TestSurfaceErrors(t *testing.T) {
	d := NewDriver(NewSundial(texture.Procedural{}, "no-such-decal"))
	if err := d.SurfaceReady(10, 10); err == nil {
		t.Error("SurfaceReady before ContextReady should fail")
	}
	if err := d.ContextReady(gputest.New()); err != nil {
		t.Fatal(err)
	}
	var loadErr *texture.LoadError
	if err := d.SurfaceReady(10, 10); !errors.As(err, &loadErr) {
		t.Fatalf("SurfaceReady error = %v, want LoadError", err)
	}
	d.SetVisible(true)
	if d.NeedsFrame() {
		t.Error("face without a surface requested a frame")
	}
}

func TestTimezoneChanged(t *testing.T) {
	h := newHarness(t, "sundial")
	if err := h.driver.TimezoneChanged("Not/AZone"); err == nil {
		t.Error("expected an error for an unknown zone")
	}
	h.driver.Draw()
	if err := h.driver.TimezoneChanged("Asia/Tokyo"); err != nil {
		t.Fatal(err)
	}
	if !h.driver.NeedsFrame() {
		t.Error("timezone change did not request a frame")
	}
	h.driver.Draw()
	// 09:00 UTC is 18:00 in Tokyo.
	if got := h.uniform(t, "u_swap_day_night").(float32); got != 1 {
		t.Errorf("u_swap_day_night = %v after moving to Tokyo", got)
	}
}

func TestShadersUseDeviceLanguage(t *testing.T) {
	rec := gputest.New()
	rec.Lang = gpu.GLSLES100
	f := NewInferno(texture.Procedural{}, texture.Sprite, rand.New(rand.NewPCG(1, 1)))
	if err := f.ContextReady(rec); err != nil {
		t.Fatal(err)
	}
	want, err := shaders.Source(shaders.InfernoFullFragmentFile, gpu.GLSLES100)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Programs[f.full.program].Fragment != want {
		t.Error("inferno compiled with the wrong dialect")
	}
}

func TestFaceRegistry(t *testing.T) {
	names := FaceNames()
	if len(names) != 2 || names[0] != "sundial" || names[1] != "inferno" {
		t.Errorf("FaceNames() = %v", names)
	}
	for _, n := range names {
		if FaceDescription(n) == "" {
			t.Errorf("face %s has no description", n)
		}
		f, err := NewFace(n, FaceOptions{})
		if err != nil || f.Name() != n {
			t.Errorf("NewFace(%q) = %v, %v", n, f, err)
		}
	}
	if _, err := NewFace("cuckoo", FaceOptions{}); err == nil {
		t.Error("expected an error for an unknown face")
	}
}

var _ ShapeAware = (*Inferno)(nil)

func TestEngineStateDefaults(t *testing.T) {
	d := NewDriver(NewSundial(texture.Procedural{}, texture.FaceDecal), WithSquare(true))
	s := d.State()
	if s.Mode != models.FullColor || s.Visible || !s.Square || s.Epoch != 0 {
		t.Errorf("initial state = %+v", s)
	}
}
