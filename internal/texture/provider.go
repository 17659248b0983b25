package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"math"
	"os"
	"strconv"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// FileProvider decodes PNG, WebP or BMP artwork. Open defaults to os.Open;
// the Android host swaps in its asset reader.
type FileProvider struct {
	Open func(name string) (io.ReadCloser, error)
}

func (p FileProvider) Decode(id string) (*Image, error) {
	open := p.Open
	if open == nil {
		open = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	f, err := open(id)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromImage(src), nil
}

// Builtin serves the procedural artwork for its own names and passes every
// other id to Files.
type Builtin struct {
	Files Provider
}

func (b Builtin) Decode(id string) (*Image, error) {
	if id == FaceDecal || id == Sprite || b.Files == nil {
		return Procedural{}.Decode(id)
	}
	return b.Files.Decode(id)
}

// Built-in artwork names understood by Procedural.
const (
	FaceDecal  = "face"
	Sprite     = "particle"
	DecalSize  = 1024
	SpriteSize = 64

	hourSpacing = 72
	// Pixel column containing the clock's texture offset (80.5).
	hourOriginPx = 80
	numeralZoom  = 4
)

// Procedural draws the default artwork in memory so the faces run without
// any asset files.
type Procedural struct{}

func (Procedural) Decode(id string) (*Image, error) {
	switch id {
	case FaceDecal:
		return FromImage(decal()), nil
	case Sprite:
		return FromImage(sprite()), nil
	}
	return nil, fmt.Errorf("no built-in artwork named %q", id)
}

// decal paints coloured rings and spokes inside the face disk with grey hour
// numerals laid along the time axis. Black areas are where the hand stripe
// shows.
func decal() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, DecalSize, DecalSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)

	for y := range DecalSize {
		for x := range DecalSize {
			nx := (float64(x)+0.5)/DecalSize*2 - 1
			ny := (float64(y)+0.5)/DecalSize*2 - 1
			r := math.Hypot(nx, ny)
			if r > 1 {
				continue
			}
			angle := math.Atan2(ny, nx)
			ring := r*24 - math.Floor(r*24)
			spoke := math.Abs(math.Sin(angle * 18))
			if ring > 0.35 && spoke > 0.25 {
				continue
			}
			// Channels never match, so the shaders treat these as colour.
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(90 + 150*r),
				G: uint8(40 + 120*(1-r)),
				B: uint8(20 + 60*spoke),
				A: 255,
			})
		}
	}

	drawNumerals(img)
	return img
}

func drawNumerals(dst *image.NRGBA) {
	face := basicfont.Face7x13
	grey := image.NewUniform(color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	glyphH := face.Metrics().Height.Ceil()
	midY := DecalSize / 2

	// The timeline.
	draw.Draw(dst, image.Rect(hourOriginPx, midY-1, hourOriginPx+12*hourSpacing, midY+1), grey, image.Point{}, draw.Src)

	for h := range 12 {
		label := strconv.Itoa(h)
		if h == 0 {
			label = "12"
		}
		small := image.NewNRGBA(image.Rect(0, 0, font.MeasureString(face, label).Ceil(), glyphH))
		d := &font.Drawer{
			Dst:  small,
			Src:  grey,
			Face: face,
			Dot:  fixed.Point26_6{Y: face.Metrics().Ascent},
		}
		d.DrawString(label)

		w := small.Bounds().Dx() * numeralZoom
		cx := hourOriginPx + h*hourSpacing
		top := midY + 8
		draw.NearestNeighbor.Scale(dst, image.Rect(cx-w/2, top, cx-w/2+w, top+glyphH*numeralZoom), small, small.Bounds(), draw.Over, nil)
	}
}

// sprite is a soft white disc fading to transparent at the edge.
func sprite() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	for y := range SpriteSize {
		for x := range SpriteSize {
			nx := (float64(x)+0.5)/SpriteSize*2 - 1
			ny := (float64(y)+0.5)/SpriteSize*2 - 1
			f := math.Max(0, 1-math.Hypot(nx, ny))
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(255 * f * f)})
		}
	}
	return img
}
