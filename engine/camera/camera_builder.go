package camera

import "github.com/go-gl/mathgl/mgl64"

type CameraBuilderOption func(*cameraImpl)

// WithUp sets the camera's world up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up mgl64.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithNode attaches a node to the camera.
// After all options are applied, the camera recomputes its matrices from the node's pose.
//
// Parameters:
//   - n: the node to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the node
func WithNode(n Node) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.node = n
	}
}
