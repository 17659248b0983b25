// Package snapshot renders single clock frames on the CPU using the
// reference shader functions, for previews and golden images without a GPU.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"time"

	fdraw "github.com/ThatOtherAndrew/Horologe/internal/draw"
	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/ThatOtherAndrew/Horologe/internal/shaders"
	"github.com/ThatOtherAndrew/Horologe/internal/spawn"
	"github.com/ThatOtherAndrew/Horologe/internal/texture"
	"github.com/ThatOtherAndrew/Horologe/internal/update"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// Options describes one frame.
type Options struct {
	Face     string
	Provider texture.Provider
	Decal    string
	Sprite   string
	Width    int
	Height   int
	Ambient  bool
	Square   bool
	Time     models.ClockTime
	// Elapsed is the time since the entrance began. Anything past the
	// entrance duration renders the settled face.
	Elapsed time.Duration
	Rand    *rand.Rand
}

func (o *Options) defaults() {
	if o.Provider == nil {
		o.Provider = texture.Procedural{}
	}
	if o.Decal == "" {
		o.Decal = texture.FaceDecal
	}
	if o.Sprite == "" {
		o.Sprite = texture.Sprite
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

func Render(o Options) (*image.NRGBA, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("bad snapshot size %dx%d", o.Width, o.Height)
	}
	o.defaults()

	state := &models.EngineState{Visible: true, Square: o.Square}
	if o.Ambient {
		state.Mode = models.Ambient
	}
	start := time.Unix(0, 0)
	state.Anim = update.Reroll(o.Rand, start)
	now := start.Add(o.Elapsed)

	switch o.Face {
	case "sundial":
		decal, err := o.Provider.Decode(o.Decal)
		if err != nil {
			return nil, &texture.LoadError{ID: o.Decal, Err: err}
		}
		mvp, u, _ := fdraw.SundialFrame(state, o.Time, now, decal.Width, update.Projection(o.Width, o.Height))
		return Sundial(decal, o.Width, o.Height, mvp, o.Ambient, u), nil
	case "inferno":
		sprite, err := o.Provider.Decode(o.Sprite)
		if err != nil {
			return nil, &texture.LoadError{ID: o.Sprite, Err: err}
		}
		arena := spawn.New(o.Rand)
		arena.SpawnHub()
		arena.SpawnHands(o.Time)
		timer := float32(fdraw.AmbientTimer)
		if !o.Ambient {
			timer = fdraw.Timer(start, now)
		}
		return Inferno(sprite, arena, spawn.Bezel(o.Square), o.Width, o.Height, o.Ambient, timer), nil
	}
	return nil, fmt.Errorf("unknown face %q", o.Face)
}

func texel(img *texture.Image, s, t float32) mgl32.Vec4 {
	x := int(math.Floor(float64(s) * float64(img.Width)))
	y := int(math.Floor(float64(t) * float64(img.Height)))
	x = min(max(x, 0), img.Width-1)
	y = min(max(y, 0), img.Height-1)
	c := img.At(x, y)
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func toNRGBA(c mgl32.Vec4) color.NRGBA {
	ch := func(v float32) uint8 {
		return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 255}
}

// Unproject intersects the eye ray through normalised device coordinate
// (x, y) with the decal plane z=0.
func Unproject(inv mgl32.Mat4, x, y float32) (mgl32.Vec2, bool) {
	near := inv.Mul4x1(mgl32.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{x, y, 1, 1})
	if near[3] == 0 || far[3] == 0 {
		return mgl32.Vec2{}, false
	}
	n := near.Vec3().Mul(1 / near[3])
	f := far.Vec3().Mul(1 / far[3])
	dz := f[2] - n[2]
	if dz == 0 {
		return mgl32.Vec2{}, false
	}
	k := -n[2] / dz
	if k < 0 || k > 1 {
		return mgl32.Vec2{}, false
	}
	p := n.Add(f.Sub(n).Mul(k))
	return mgl32.Vec2{p[0], p[1]}, true
}

// Sundial ray-casts every pixel onto the decal quad.
func Sundial(decal *texture.Image, width, height int, mvp mgl32.Mat4, ambient bool, u shaders.SundialUniforms) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	inv := mvp.Inv()
	for py := range height {
		for px := range width {
			x := (float32(px)+0.5)/float32(width)*2 - 1
			y := 1 - (float32(py)+0.5)/float32(height)*2
			colour := shaders.Black
			if p, ok := Unproject(inv, x, y); ok && p[0] >= -1 && p[0] <= 1 && p[1] >= -1 && p[1] <= 1 {
				s, t := (p[0]+1)/2, (1-p[1])/2
				c := texel(decal, s, t)
				if ambient {
					colour = shaders.SundialAmbientFragment(c, s, u.Now)
				} else {
					colour = shaders.SundialFullFragment(c, s, t, u)
				}
			}
			out.SetNRGBA(px, py, toNRGBA(colour))
		}
	}
	return out
}

func toPixel(p mgl32.Vec2, width, height int) (float32, float32) {
	return (p[0] + 1) / 2 * float32(width), (1 - p[1]) / 2 * float32(height)
}

// blendOver applies src-alpha, one-minus-src-alpha blending onto an opaque
// destination.
func blendOver(out *image.NRGBA, x, y int, src mgl32.Vec4) {
	if !(image.Point{x, y}.In(out.Rect)) {
		return
	}
	a := mgl32.Clamp(src[3], 0, 1)
	d := out.NRGBAAt(x, y)
	dst := mgl32.Vec4{float32(d.R) / 255, float32(d.G) / 255, float32(d.B) / 255, 1}
	out.SetNRGBA(x, y, toNRGBA(src.Mul(a).Add(dst.Mul(1-a))))
}

func line(out *image.NRGBA, x0, y0, x1, y1 float32, c mgl32.Vec4) {
	steps := int(math.Ceil(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(y1-y0)))))
	for i := 0; i <= steps; i++ {
		f := float32(0)
		if steps > 0 {
			f = float32(i) / float32(steps)
		}
		blendOver(out, int(x0+(x1-x0)*f), int(y0+(y1-y0)*f), c)
	}
}

// Inferno splats the particle arena as point sprites. In full colour the
// bezel is drawn underneath first.
func Inferno(sprite *texture.Image, arena *spawn.Arena, bezel []float32, width, height int, ambient bool, timer float32) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)

	if !ambient {
		n := len(bezel) / 2
		for i := range n {
			j := (i + 1) % n
			x0, y0 := toPixel(mgl32.Vec2{bezel[2*i], bezel[2*i+1]}, width, height)
			x1, y1 := toPixel(mgl32.Vec2{bezel[2*j], bezel[2*j+1]}, width, height)
			line(out, x0, y0, x1, y1, shaders.LineColour)
		}
	}

	const half = shaders.InfernoPointPx / 2
	for i := range spawn.TotalParticles {
		p := arena.Particle(i)
		pos, blend := shaders.InfernoVertexStage(mgl32.Vec2{p.X, p.Y}, p.TimeBase, timer)
		cx, cy := toPixel(pos, width, height)
		x0, y0 := int(math.Round(float64(cx)))-half, int(math.Round(float64(cy)))-half
		for dy := range shaders.InfernoPointPx {
			for dx := range shaders.InfernoPointPx {
				// Point coordinates run from the top-left corner of the sprite.
				s := (float32(dx) + 0.5) / shaders.InfernoPointPx
				t := (float32(dy) + 0.5) / shaders.InfernoPointPx
				c := texel(sprite, s, t)
				if ambient {
					c = shaders.InfernoAmbientFragment(c)
				} else {
					c = shaders.InfernoFullFragment(c, blend, p.Colour)
				}
				blendOver(out, x0+dx, y0+dy, c)
			}
		}
	}
	return out
}

// Scale resizes img by factor with Catmull-Rom filtering.
func Scale(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
