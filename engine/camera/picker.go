package camera

import (
	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/go-gl/mathgl/mgl64"
)

// RayPicker intersects a world-space ray with the scene.
type RayPicker interface {
	PickRay(ray common.Ray) (pos, normal mgl64.Vec3, ok bool)
}

type screenPickerImpl struct {
	camera Camera
	scene  RayPicker
}

// NewScreenPicker creates a Picker that casts the camera's pick ray through a window
// position into scene. Panics if either argument is nil.
//
// Parameters:
//   - cam: the camera providing pick rays
//   - scene: the ray intersector
//
// Returns:
//   - Picker: the window-space picker
func NewScreenPicker(cam Camera, scene RayPicker) Picker {
	if cam == nil {
		panic("camera: camera cannot be nil")
	}
	if scene == nil {
		panic("camera: ray picker cannot be nil")
	}
	return &screenPickerImpl{camera: cam, scene: scene}
}

func (p *screenPickerImpl) Pick(x, y float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	p.camera.Update()
	return p.scene.PickRay(p.camera.PickRay(x, y))
}
