package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as degenerate.
const Epsilon = 1e-12

// Lerp linearly interpolates between a and b.
//
// Parameters:
//   - a: value at t = 0
//   - b: value at t = 1
//   - t: blend fraction
//
// Returns:
//   - float64: the blended value
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates two vectors componentwise.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// Clamp limits v to [lo, hi].
func Clamp[T int | float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// SafeNormalize returns v scaled to unit length, or fallback when v is (nearly) zero.
// mgl64's Normalize divides by the length and yields NaN for the zero vector.
//
// Parameters:
//   - v: the vector to normalize
//   - fallback: returned unchanged when v is degenerate
//
// Returns:
//   - mgl64.Vec3: the unit vector or the fallback
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon || !Finite(v) {
		return fallback
	}
	return v.Mul(1 / l)
}

// NearVec3 reports whether every component of a lies within eps of the matching component of b.
// Unlike mgl64's ApproxEqualThreshold the tolerance is absolute, also when a component is zero.
//
// Parameters:
//   - a, b: the vectors to compare
//   - eps: absolute tolerance per component
//
// Returns:
//   - bool: true if |a[i]-b[i]| <= eps for every i
func NearVec3(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if !(math.Abs(a[i]-b[i]) <= eps) {
			return false
		}
	}
	return true
}
