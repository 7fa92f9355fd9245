package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Clip plane limits used when fitting a frustum to the scene bounds.
const (
	// MinNearPlane is the smallest near plane distance handed to the projection.
	MinNearPlane = 0.01

	// NearFarRatio bounds depth precision: near is never smaller than far / NearFarRatio.
	NearFarRatio = 10000.0

	// DefaultFarPlane is used when the scene bounds are unknown.
	DefaultFarPlane = 10000.0
)

// ClipPlanes fits near and far clipping distances around the scene bounds as seen from eye.
// The far plane reaches the back of the bounding sphere and the near plane its front,
// clamped so that the near/far ratio keeps usable depth precision. When the eye is inside
// the sphere the near plane falls back to far / NearFarRatio.
//
// Parameters:
//   - eye: the camera location in world space
//   - bounds: the scene bounding sphere
//
// Returns:
//   - near: near clipping plane distance
//   - far: far clipping plane distance
func ClipPlanes(eye mgl64.Vec3, bounds Bounds) (near, far float64) {
	if bounds.Empty() {
		return MinNearPlane, DefaultFarPlane
	}
	dist := eye.Sub(bounds.Center).Len()
	far = dist + bounds.Radius
	near = dist - bounds.Radius
	near = math.Max(near, far/NearFarRatio)
	near = math.Max(near, MinNearPlane)
	if far <= near {
		far = near * 2
	}
	return near, far
}
