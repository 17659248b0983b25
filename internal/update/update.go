package update

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/go-gl/mathgl/mgl32"
)

const EntranceDuration = 1000 * time.Millisecond

const (
	restAzimuth   = math.Pi - 0.3
	azimuthSpread = 0.9
	heightSpread  = 0.5
	JitterLimit   = 0.025

	// cubicWarp slows the look-at target near noon and midnight.
	cubicWarp     = 2.51
	startDistance = 1.4
	eyeBaseHeight = 0.25
	eyeOrbit      = 0.5
	eyeDescent    = 0.2

	frustumScale = 0.01
	farPlane     = 100
)

// Rest is the animation state used before anything has been randomised.
func Rest(now time.Time) models.AnimationState {
	return models.AnimationState{Start: now, AzimuthRandom: restAzimuth}
}

// Reroll starts a new entrance animation with fresh camera randoms.
func Reroll(rng *rand.Rand, now time.Time) models.AnimationState {
	return models.AnimationState{
		Start:         now,
		JitterX:       rng.Float64()*2*JitterLimit - JitterLimit,
		JitterY:       rng.Float64()*2*JitterLimit - JitterLimit,
		AzimuthRandom: math.Pi + rng.Float64()*2*azimuthSpread - azimuthSpread,
		HeightRandom:  rng.Float64() * heightSpread,
	}
}

// Interpolate is an accelerate-decelerate curve on [0,1].
func Interpolate(x float64) float64 {
	return math.Cos((x+1)*math.Pi)/2 + 0.5
}

// Progress returns the eased entrance progress at now and whether the
// animation has finished.
func Progress(anim models.AnimationState, now time.Time) (float64, bool) {
	elapsed := now.Sub(anim.Start)
	if elapsed >= EntranceDuration {
		return 1, true
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return Interpolate(float64(elapsed) / float64(EntranceDuration)), false
}

type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

// View places the camera for the given u_now and entrance progress. As delta
// goes from 0 to 1 the eye spirals in and drops towards its resting spot.
func View(nowS float32, delta float64, anim models.AnimationState) Camera {
	x := (float64(nowS) - 0.5) * 2
	y := x * x * x / cubicWarp
	distance := startDistance - delta
	angle := anim.AzimuthRandom - (1 - delta)
	return Camera{
		Eye: mgl32.Vec3{
			float32(x + distance*eyeOrbit*math.Sin(angle)),
			float32(y + distance*eyeOrbit*math.Cos(angle)),
			float32(eyeBaseHeight + anim.HeightRandom - distance*eyeDescent),
		},
		Target: mgl32.Vec3{float32(x + anim.JitterX), float32(y + anim.JitterY), 0},
		Up:     mgl32.Vec3{0, 0, 1},
	}
}

// AmbientView is the settled framing used in ambient mode. Only the burn-in
// jitter carries over from the last entrance.
func AmbientView(nowS float32, anim models.AnimationState) Camera {
	rest := models.AnimationState{
		JitterX:       anim.JitterX,
		JitterY:       anim.JitterY,
		AzimuthRandom: restAzimuth,
	}
	return View(nowS, 1, rest)
}

func (c Camera) Matrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection is the fixed off-axis frustum for a surface of the given size.
func Projection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Frustum(
		-aspect*frustumScale, aspect*frustumScale,
		-frustumScale, frustumScale,
		frustumScale, farPlane,
	)
}

// MVP combines a projection with a camera.
func MVP(projection mgl32.Mat4, c Camera) mgl32.Mat4 {
	return projection.Mul4(c.Matrix())
}
