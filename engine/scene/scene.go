// Package scene holds the field camera scene: the letterboxed terrain view, its background,
// the center crosshair and the ground the camera picks against.
package scene

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/camera"
	"github.com/Carmen-Shannon/oxy-terrain/engine/renderer"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultAspect is the field camera's frame aspect ratio (width / height).
const DefaultAspect = 4.0 / 3.0

// Viewport is the letterboxed camera rectangle inside the window, in pixels.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// Scene is a field camera view of the terrain.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera and marks the scene changed.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer, or nil when the scene is headless.
	Renderer() renderer.Renderer

	// SetRenderer replaces the scene's renderer.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// Background returns the color the view is cleared to.
	Background() common.Color

	// PreRender updates the clear color when the world background changed since the last frame.
	//
	// Parameters:
	//   - bg: the current world background
	//
	// Returns:
	//   - bool: true if the color changed
	PreRender(bg common.Color) bool

	// CrosshairVisible reports whether the center crosshair is drawn.
	CrosshairVisible() bool

	// SetCrosshairVisible shows or hides the center crosshair and marks the scene changed.
	//
	// Parameters:
	//   - visible: true to draw the crosshair
	SetCrosshairVisible(visible bool)

	// Aspect returns the camera frame aspect ratio.
	Aspect() float64

	// Resize fits the camera frame into a width x height window. The frame is as tall as the
	// window unless that makes it wider than the window, in which case it is as wide as the
	// window. The frame is centered. The camera node's viewport becomes the frame size.
	//
	// Parameters:
	//   - width, height: the window size in pixels
	//
	// Returns:
	//   - left, right, bottom, top: the frame edges as fractions of the window size
	Resize(width, height int) (left, right, bottom, top float64)

	// Viewport returns the frame rectangle computed by the last Resize.
	Viewport() Viewport

	// Update folds the world's dirty flags into the scene's changed flag.
	//
	// Parameters:
	//   - worldChanged: something in the world moved or changed appearance
	//   - terrainChanged: the terrain geometry changed
	Update(worldChanged, terrainChanged bool)

	// MarkChanged forces a redraw.
	MarkChanged()

	// Changed reports whether the scene needs a redraw.
	Changed() bool

	// ClearChanged resets the changed flag after a redraw.
	ClearChanged()

	// Bounds returns the bounding sphere of the terrain.
	Bounds() common.Bounds

	// SetBounds replaces the terrain bounds, pushes them to the camera node and marks the scene changed.
	//
	// Parameters:
	//   - b: the new bounds
	SetBounds(b common.Bounds)

	// Ground returns the height of the ground plane.
	Ground() float64

	// SetGround sets the height of the ground plane and marks the scene changed.
	//
	// Parameters:
	//   - z: the ground height
	SetGround(z float64)

	// PickRay intersects ray with the ground plane. Hits behind the ray origin or outside the
	// terrain bounds are misses.
	//
	// Parameters:
	//   - ray: the world-space ray
	//
	// Returns:
	//   - pos: the hit point
	//   - normal: the surface normal at the hit
	//   - ok: true on a hit
	PickRay(ray common.Ray) (pos, normal mgl64.Vec3, ok bool)

	// Render draws one frame: clear to the background, then the crosshair if visible.
	// A headless scene renders nothing.
	//
	// Returns:
	//   - error: error if the frame could not be acquired
	Render() error
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	background common.Color
	crosshair  bool
	aspect     float64
	viewport   Viewport

	changed bool
	bounds  common.Bounds
	ground  float64
}

var _ Scene = &scene{}
var _ camera.RayPicker = &scene{}

// NewScene creates an active scene with the given name.
//
// Parameters:
//   - name: the scene's identifier
//   - options: optional configuration
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.RWMutex{},
		name:       name,
		active:     true,
		background: common.DefaultBackground,
		crosshair:  true,
		aspect:     DefaultAspect,
		changed:    true,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.r != nil {
		s.r.SetClearColor(s.background)
	}
	s.pushBounds()
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
	s.changed = true
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	s.cam = cam
	s.changed = true
	s.mu.Unlock()
	s.pushBounds()
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	s.r = r
	bg := s.background
	s.mu.Unlock()
	if r != nil {
		r.SetClearColor(bg)
	}
}

func (s *scene) Background() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) PreRender(bg common.Color) bool {
	s.mu.Lock()
	if bg == s.background {
		s.mu.Unlock()
		return false
	}
	s.background = bg
	r := s.r
	s.mu.Unlock()

	if r != nil {
		r.SetClearColor(bg)
	}
	return true
}

func (s *scene) CrosshairVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.crosshair
}

func (s *scene) SetCrosshairVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crosshair = visible
	s.changed = true
}

func (s *scene) Aspect() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aspect
}

func (s *scene) Resize(width, height int) (float64, float64, float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 1, 0, 1
	}
	s.mu.Lock()
	vp := letterbox(width, height, s.aspect)
	s.viewport = vp
	s.changed = true
	cam, r := s.cam, s.r
	s.mu.Unlock()

	if cam != nil && cam.Node() != nil {
		cam.Node().SetViewport(int(vp.Width), int(vp.Height))
	}
	if r != nil {
		r.Resize(width, height)
		r.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height))
	}

	w, h := float64(width), float64(height)
	return vp.X / w, (vp.X + vp.Width) / w, vp.Y / h, (vp.Y + vp.Height) / h
}

// letterbox centers a frame of the given aspect in a width x height window.
func letterbox(width, height int, aspect float64) Viewport {
	canvasHeight := float64(height)
	canvasWidth := float64(int(float64(height) * aspect))
	if canvasWidth > float64(width) {
		canvasWidth = float64(width)
		canvasHeight = float64(width) / aspect
	}
	return Viewport{
		X:      (float64(width) - canvasWidth) / 2,
		Y:      (float64(height) - canvasHeight) / 2,
		Width:  canvasWidth,
		Height: canvasHeight,
	}
}

func (s *scene) Viewport() Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport
}

func (s *scene) Update(worldChanged, terrainChanged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = worldChanged || terrainChanged || s.changed
}

func (s *scene) MarkChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = true
}

func (s *scene) Changed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

func (s *scene) ClearChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = false
}

func (s *scene) Bounds() common.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

func (s *scene) SetBounds(b common.Bounds) {
	s.mu.Lock()
	s.bounds = b
	s.changed = true
	s.mu.Unlock()
	s.pushBounds()
}

// pushBounds hands the terrain bounds to the camera node for clip plane fitting.
func (s *scene) pushBounds() {
	s.mu.RLock()
	cam, b := s.cam, s.bounds
	s.mu.RUnlock()
	if cam != nil && cam.Node() != nil && !b.Empty() {
		cam.Node().SetSceneBounds(b)
	}
}

func (s *scene) Ground() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ground
}

func (s *scene) SetGround(z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ground = z
	s.changed = true
}

func (s *scene) PickRay(ray common.Ray) (mgl64.Vec3, mgl64.Vec3, bool) {
	s.mu.RLock()
	ground, bounds := s.ground, s.bounds
	s.mu.RUnlock()

	dz := ray.Direction.Z()
	if math.Abs(dz) < common.Epsilon {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	t := (ground - ray.Origin.Z()) / dz
	if t < 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	pos := ray.At(t)
	if !bounds.Contains(pos, 1) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return pos, mgl64.Vec3{0, 0, 1}, true
}

func (s *scene) Render() error {
	s.mu.RLock()
	r, crosshair := s.r, s.crosshair
	s.mu.RUnlock()
	if r == nil {
		return nil
	}

	if err := r.BeginFrame(); err != nil {
		return err
	}
	if crosshair {
		r.DrawCrosshair()
	}
	r.EndFrame()
	r.Present()
	return nil
}
