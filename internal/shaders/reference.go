package shaders

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// The functions below evaluate the embedded programs on the CPU, one vertex or
// fragment at a time. They follow the GLSL line for line and are what the
// snapshot renderer and the tests run.

const (
	handStripe     = 0.001
	highlightBand  = 0.004
	bloomPerGreen  = 0.3
	glowCeiling    = 0.6
	greyThreshold  = 0.2
	riseScale      = 0.18
	alphaPeak      = 0.1
	InfernoPointPx = 10
)

var (
	Black      = mgl32.Vec4{0, 0, 0, 1}
	White      = mgl32.Vec4{1, 1, 1, 1}
	LineColour = mgl32.Vec4{0.3, 0.3, 0.4, 1}

	dayTint   = mgl32.Vec4{1, 1, 0, 1}
	nightTint = mgl32.Vec4{0, 1, 1, 1}
)

// SundialUniforms is the full-colour uniform set.
type SundialUniforms struct {
	Size         float32
	Now          float32
	SwapDayNight bool
}

func clamp(v, lo, hi float32) float32 {
	return mgl32.Clamp(v, lo, hi)
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

func mulVec4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func isBlack(c mgl32.Vec4) bool {
	return c[0] == 0 && c[1] == 0 && c[2] == 0
}

func isGrey(c mgl32.Vec4) bool {
	return c[0] == c[1] && c[1] == c[2]
}

// SundialFullFragment shades one decal texel at texture coordinate (s, t).
func SundialFullFragment(colour mgl32.Vec4, s, t float32, u SundialUniforms) mgl32.Vec4 {
	if isBlack(colour) {
		if s < u.Now+handStripe && s > u.Now-handStripe {
			w := (handStripe - abs(s-u.Now)) * 1000
			colour = mgl32.Vec4{w, w, w, 1}
		} else {
			return Black
		}
	} else {
		if isGrey(colour) {
			return colour.Mul(clamp(u.Size*2, 0, 1))
		}
		if s < u.Now+highlightBand && s > u.Now-highlightBand {
			w := (highlightBand - abs(s-u.Now)) * 250
			colour = mgl32.Vec4{w, w, w, 1}.Add(colour)
		}
	}

	length := mgl32.Vec2{(s - 0.5) * 2, (t - 0.5) * 2}.Len()
	if length > u.Size+colour[1]*bloomPerGreen {
		return Black
	}

	glow := clamp((0.3-(u.Size-length))*2, 0, glowCeiling)
	glowVec := mgl32.Vec4{glow, glow, glow, 1}

	if (s > u.Now+handStripe && !u.SwapDayNight) || (s < u.Now-handStripe && u.SwapDayNight) {
		return mulVec4(colour, dayTint).Add(glowVec)
	}
	return mulVec4(colour, nightTint).Add(glowVec)
}

// SundialAmbientFragment never returns anything but Black or White.
func SundialAmbientFragment(colour mgl32.Vec4, s, now float32) mgl32.Vec4 {
	if s < now+handStripe && s > now-handStripe {
		return White
	}
	if colour[3] == 0 || isBlack(colour) {
		return Black
	}
	if isGrey(colour) && colour[0] > greyThreshold {
		return White
	}
	return Black
}

func fract(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

// InfernoVertexStage moves a particle up its looping path and returns the
// clip-space position with the blend phase handed to the fragment stage.
func InfernoVertexStage(pos mgl32.Vec2, timeBase, timer float32) (mgl32.Vec2, float32) {
	blend := fract(timer * timeBase)
	offset := blend * timeBase
	return mgl32.Vec2{pos[0], pos[1] + offset*riseScale}, blend
}

// InfernoAlpha is the triangular fade over one particle cycle.
func InfernoAlpha(blend float32) float32 {
	if blend <= alphaPeak {
		return blend * 0.5
	}
	return 0.5 - blend*0.45
}

// InfernoFullFragment tints a sprite texel red for positive colour and blue
// otherwise.
func InfernoFullFragment(sprite mgl32.Vec4, blend, colour float32) mgl32.Vec4 {
	green := sprite[1] * (1 - blend)
	alpha := InfernoAlpha(blend)
	if colour > 0 {
		return mgl32.Vec4{sprite[0], green, green / 2, sprite[3] * alpha}
	}
	return mgl32.Vec4{green / 2, green, sprite[2], sprite[3] * alpha}
}

// InfernoAmbientFragment passes the sprite through untouched. Unlike the
// sundial, grey texels survive here.
func InfernoAmbientFragment(sprite mgl32.Vec4) mgl32.Vec4 {
	return sprite
}
