// Package texture decodes clock-face artwork and uploads it to the GPU.
//
// Providers hand back pixels packed as 0xAARRGGBB, the layout of a host
// bitmap. Before upload the red and blue channels are swapped so the
// little-endian bytes of each pixel read R, G, B, A.
package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"golang.org/x/image/draw"
)

// Image is a decoded bitmap, rows top to bottom.
type Image struct {
	Width  int
	Height int
	Pixels []uint32
}

type Provider interface {
	Decode(id string) (*Image, error)
}

// LoadError reports artwork that could not be decoded. There is no fallback
// decal.
type LoadError struct {
	ID  string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load texture %q: %v", e.ID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ARGBToABGR swaps the red and blue channels of a packed pixel.
func ARGBToABGR(p uint32) uint32 {
	return p&0xff00ff00 | (p>>16)&0xff | (p&0xff)<<16
}

// Bytes returns the upload-ready RGBA8 bytes of img.
func (img *Image) Bytes() []byte {
	out := make([]byte, len(img.Pixels)*4)
	for i, p := range img.Pixels {
		binary.LittleEndian.PutUint32(out[i*4:], ARGBToABGR(p))
	}
	return out
}

// At returns the texel at (x, y) as non-premultiplied colour.
func (img *Image) At(x, y int) color.NRGBA {
	p := img.Pixels[y*img.Width+x]
	return color.NRGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: uint8(p >> 24)}
}

// FromImage packs any decoded image into host bitmap layout.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)

	img := &Image{Width: b.Dx(), Height: b.Dy(), Pixels: make([]uint32, b.Dx()*b.Dy())}
	for i := range img.Pixels {
		o := i * 4
		r, g, bl, a := nrgba.Pix[o], nrgba.Pix[o+1], nrgba.Pix[o+2], nrgba.Pix[o+3]
		img.Pixels[i] = uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(bl)
	}
	return img
}

// Texture is an uploaded image.
type Texture struct {
	Handle gpu.Texture
	Width  int
	Height int
}

// Load decodes id from p and uploads it with mipmaps and edge clamping.
func Load(dev gpu.Device, p Provider, id string) (Texture, error) {
	img, err := p.Decode(id)
	if err != nil {
		return Texture{}, &LoadError{ID: id, Err: err}
	}
	if img.Width <= 0 || img.Height <= 0 || len(img.Pixels) != img.Width*img.Height {
		return Texture{}, &LoadError{ID: id, Err: fmt.Errorf("bad dimensions %dx%d for %d pixels", img.Width, img.Height, len(img.Pixels))}
	}

	handle := dev.NewTexture(gpu.Pixels{Width: img.Width, Height: img.Height, RGBA: img.Bytes()})
	logger.Get().Info("texture uploaded", "id", id, "width", img.Width, "height", img.Height)
	return Texture{Handle: handle, Width: img.Width, Height: img.Height}, nil
}
