package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/camera"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeLetterbox(t *testing.T) {
	tests := []struct {
		name                     string
		width, height            int
		left, right, bottom, top float64
		vp                       Viewport
	}{
		{"exact fit", 800, 600, 0, 1, 0, 1, Viewport{0, 0, 800, 600}},
		{"wide window", 1000, 600, 0.1, 0.9, 0, 1, Viewport{100, 0, 800, 600}},
		{"tall window", 800, 800, 0, 1, 0.125, 0.875, Viewport{0, 100, 800, 600}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene("field")
			s.ClearChanged()
			l, r, b, top := s.Resize(tt.width, tt.height)
			assert.InDelta(t, tt.left, l, 1e-9)
			assert.InDelta(t, tt.right, r, 1e-9)
			assert.InDelta(t, tt.bottom, b, 1e-9)
			assert.InDelta(t, tt.top, top, 1e-9)
			assert.Equal(t, tt.vp, s.Viewport())
			assert.True(t, s.Changed())
		})
	}
}

func TestResizeTruncatesWidth(t *testing.T) {
	s := NewScene("field", WithAspect(1.5))
	s.Resize(1000, 333)
	// 333 * 1.5 = 499.5, truncated
	assert.Equal(t, 499.0, s.Viewport().Width)
	assert.Equal(t, 250.5, s.Viewport().X)
}

func TestResizeUpdatesNodeViewport(t *testing.T) {
	n := camera.NewNode()
	s := NewScene("field", WithCamera(camera.NewCamera(camera.WithNode(n))))
	s.Resize(1000, 600)
	w, h := n.Viewport()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestPreRender(t *testing.T) {
	s := NewScene("field")
	assert.False(t, s.PreRender(common.DefaultBackground))

	blue := common.Color{B: 1, A: 1}
	assert.True(t, s.PreRender(blue))
	assert.Equal(t, blue, s.Background())
	assert.False(t, s.PreRender(blue))
}

func TestChangedFlags(t *testing.T) {
	s := NewScene("field")
	assert.True(t, s.Changed())
	s.ClearChanged()

	s.Update(false, false)
	assert.False(t, s.Changed())
	s.Update(true, false)
	assert.True(t, s.Changed())
	s.ClearChanged()
	s.Update(false, true)
	assert.True(t, s.Changed())
	s.ClearChanged()

	s.SetCrosshairVisible(false)
	assert.False(t, s.CrosshairVisible())
	assert.True(t, s.Changed())
	s.ClearChanged()
	s.Update(false, false)
	assert.False(t, s.Changed())
}

func TestPickRay(t *testing.T) {
	s := NewScene("field", WithGround(2), WithBounds(common.Bounds{Radius: 50}))

	pos, normal, ok := s.PickRay(common.Ray{Origin: mgl64.Vec3{0, 0, 12}, Direction: mgl64.Vec3{0, 1, -1}.Normalize()})
	require.True(t, ok)
	assert.True(t, common.NearVec3(pos, mgl64.Vec3{0, 10, 2}, 1e-9))
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, normal)

	tests := []struct {
		name string
		ray  common.Ray
	}{
		{"parallel", common.Ray{Origin: mgl64.Vec3{0, 0, 12}, Direction: mgl64.Vec3{0, 1, 0}}},
		{"pointing away", common.Ray{Origin: mgl64.Vec3{0, 0, 12}, Direction: mgl64.Vec3{0, 0, 1}}},
		{"outside bounds", common.Ray{Origin: mgl64.Vec3{0, 0, 102}, Direction: mgl64.Vec3{0, 1, -1}.Normalize()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := s.PickRay(tt.ray)
			assert.False(t, ok)
		})
	}
}

func TestSetBoundsReachesNode(t *testing.T) {
	n := camera.NewNode()
	s := NewScene("field", WithCamera(camera.NewCamera(camera.WithNode(n))))
	b := common.Bounds{Center: mgl64.Vec3{1, 2, 3}, Radius: 40}
	s.SetBounds(b)
	assert.Equal(t, b, n.SceneBounds())
	assert.Equal(t, b, s.Bounds())
}

func TestHeadlessRender(t *testing.T) {
	s := NewScene("field")
	assert.NoError(t, s.Render())
	assert.Nil(t, s.Renderer())
}

func TestScreenPickerThroughScene(t *testing.T) {
	n := camera.NewNode(camera.WithLocation(mgl64.Vec3{0, 0, 10}), camera.WithDirection(mgl64.Vec3{0, 1, -1}))
	cam := camera.NewCamera(camera.WithNode(n))
	s := NewScene("field", WithCamera(cam))
	s.Resize(800, 600)

	x, y := n.Center()
	pos, _, ok := camera.NewScreenPicker(cam, s).Pick(x, y)
	require.True(t, ok)
	assert.True(t, common.NearVec3(pos, mgl64.Vec3{0, 10, 0}, 1e-6))
}
