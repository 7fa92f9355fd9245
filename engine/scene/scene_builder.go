package scene

import (
	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/camera"
	"github.com/Carmen-Shannon/oxy-terrain/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithCamera sets the scene's camera.
//
// Parameters:
//   - cam: the camera looking at the scene
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithRenderer sets the renderer the scene draws with. Scenes without one are headless.
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.r = r
	}
}

// WithBackground sets the initial background color.
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithCrosshair sets the initial crosshair visibility. The crosshair is visible by default.
func WithCrosshair(visible bool) SceneBuilderOption {
	return func(s *scene) {
		s.crosshair = visible
	}
}

// WithAspect sets the camera frame aspect ratio. Non-positive values keep DefaultAspect.
//
// Parameters:
//   - aspect: frame width divided by frame height
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAspect(aspect float64) SceneBuilderOption {
	return func(s *scene) {
		if aspect > 0 {
			s.aspect = aspect
		}
	}
}

// WithBounds sets the terrain bounding sphere.
func WithBounds(b common.Bounds) SceneBuilderOption {
	return func(s *scene) {
		s.bounds = b
	}
}

// WithGround sets the height of the ground plane used for picking.
func WithGround(z float64) SceneBuilderOption {
	return func(s *scene) {
		s.ground = z
	}
}
