package camera

import (
	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// NodeBuilderOption is a functional option for configuring a Node.
type NodeBuilderOption func(*nodeImpl)

// WithLocation sets the initial camera location.
//
// Parameters:
//   - p: world-space location
//
// Returns:
//   - NodeBuilderOption: functional option to set the location
func WithLocation(p mgl64.Vec3) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.location = p
	}
}

// WithDirection sets the initial view direction. Degenerate vectors are ignored.
//
// Parameters:
//   - d: the view direction
//
// Returns:
//   - NodeBuilderOption: functional option to set the direction
func WithDirection(d mgl64.Vec3) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.direction = common.SafeNormalize(d, n.direction)
	}
}

// WithMode sets the initial camera mode.
func WithMode(m viewpoint.Mode) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.mode = m
	}
}

// WithFov sets the base vertical field of view in radians, before magnification.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - NodeBuilderOption: functional option to set the field of view
func WithFov(fov float64) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.fov = fov
	}
}

// WithViewport sets the initial viewport size in pixels.
func WithViewport(width, height int) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.viewportWidth = max(width, 1)
		n.viewportHeight = max(height, 1)
	}
}

// WithSceneBounds sets the scene bounds used for clip planes, dolly steps and location edits.
func WithSceneBounds(b common.Bounds) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.bounds = b
	}
}

// WithPicker sets the terrain picker used to recompute the look-at point.
func WithPicker(p Picker) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.picker = p
	}
}

// WithAnimation enables animated SetPose transitions stepped by Update at fps frames per second.
// Frequency and damping tune the spring; damping 1 settles without overshoot.
//
// Parameters:
//   - fps: the Update rate
//   - frequency: spring angular frequency
//   - damping: spring damping ratio
//
// Returns:
//   - NodeBuilderOption: functional option to enable animation
func WithAnimation(fps int, frequency, damping float64) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.animation = newPoseAnimation(fps, frequency, damping)
	}
}

// WithLogger sets the node's logger.
func WithLogger(logger zerolog.Logger) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.logger = logger
	}
}
