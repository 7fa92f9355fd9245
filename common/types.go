// package common contains plain value types and helpers shared across the engine. They are not
// interface-wrapped structs, just plain structs that express commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is a bounding sphere enclosing the visible scene (terrain plus landmarks).
// A zero Radius means the bounds are unknown.
type Bounds struct {
	// Center is the world-space center of the sphere.
	Center mgl64.Vec3
	// Radius is the sphere radius in world units.
	Radius float64
}

// Empty reports whether the bounds carry no extent.
//
// Returns:
//   - bool: true if Radius is not positive
func (b Bounds) Empty() bool {
	return b.Radius <= 0
}

// Contains reports whether p lies inside the sphere scaled by factor.
// Empty bounds contain every point.
//
// Parameters:
//   - p: the world-space point to test
//   - factor: multiplier applied to the radius (1 = the sphere itself)
//
// Returns:
//   - bool: true if p is inside the scaled sphere
func (b Bounds) Contains(p mgl64.Vec3, factor float64) bool {
	if b.Empty() {
		return true
	}
	return p.Sub(b.Center).Len() <= b.Radius*factor
}

// Ray is a half-line used for picking.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// DefaultBackground is the sky color shown behind the terrain.
var DefaultBackground = Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
