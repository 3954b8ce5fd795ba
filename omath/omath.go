package omath

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec64To32 converts a 64 bit vector to a 32 bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}

// WrapAngle wraps an angle in radians into [-π, π].
func WrapAngle(delta float64) float64 {
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	return delta
}

// WrapAngle32 is WrapAngle for float32 angles.
func WrapAngle32(delta float32) float32 {
	for delta > math32.Pi {
		delta -= 2 * math32.Pi
	}
	for delta < -math32.Pi {
		delta += 2 * math32.Pi
	}
	return delta
}

// ApproxEq determines whether two floating point numbers are within eps of each other.
func ApproxEq(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep returns t²(3-2t) for t clamped to [0, 1].
func Smoothstep(t float64) float64 {
	t = ClampFloat(t, 0, 1)
	return t * t * (3 - 2*t)
}

// SmoothstepIntegral returns the integral of Smoothstep over [0, t], for t in [0, 1].
func SmoothstepIntegral(t float64) float64 {
	t = ClampFloat(t, 0, 1)
	t3 := t * t * t
	return t3 - t3*t/2
}

// SafeNormalize normalizes v, returning fallback when v is too short to carry a direction.
func SafeNormalize(v, fallback mgl64.Vec3, eps float64) mgl64.Vec3 {
	l := v.Len()
	if l < eps || math.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}
