package renderer

import (
	"errors"
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoFrame is returned by Frame when no frame has been read back yet.
var ErrNoFrame = errors.New("renderer: no frame available")

// Surface is the window the renderer presents to.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	clearColor common.Color
	readback   bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws the terrain view: a clear to the sky color, the centered crosshair overlay and
// an optional read back of the finished frame for image sequence capture.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// ClearColor returns the color frames are cleared to.
	//
	// Returns:
	//   - common.Color: the clear color
	ClearColor() common.Color

	// SetClearColor sets the color frames are cleared to.
	//
	// Parameters:
	//   - c: the new clear color
	SetClearColor(c common.Color)

	// SetViewport sets the letterboxed camera rectangle in pixels. Overlays are drawn inside it.
	//
	// Parameters:
	//   - x, y: top-left corner
	//   - width, height: rectangle size
	SetViewport(x, y, width, height float32)

	// SetReadback enables copying each finished frame into host memory so Frame can return it.
	//
	// Parameters:
	//   - enable: true to read frames back
	SetReadback(enable bool)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCrosshair draws the crosshair at the center of the viewport.
	// Must be called between BeginFrame and EndFrame.
	DrawCrosshair()

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present after EndFrame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Frame returns the most recently read back frame.
	//
	// Returns:
	//   - image.Image: the frame pixels
	//   - error: ErrNoFrame if readback is off or nothing was drawn yet
	Frame() (image.Image, error)
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer presenting to surface.
// Panics if the GPU adapter or device cannot be acquired.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window providing the platform surface descriptor and size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) Renderer {
	if surface == nil {
		panic("renderer: surface cannot be nil")
	}
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  common.DefaultBackground,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	c := r.clearColor
	r.backend.SetClearColor(c.R, c.G, c.B, c.A)
	r.backend.ConfigureSurface(surface.Width(), surface.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) ClearColor() common.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) SetClearColor(c common.Color) {
	r.mu.Lock()
	r.clearColor = c
	r.mu.Unlock()
	r.backend.SetClearColor(c.R, c.G, c.B, c.A)
}

func (r *renderer) SetViewport(x, y, width, height float32) {
	r.backend.SetViewport(x, y, width, height)
}

func (r *renderer) SetReadback(enable bool) {
	r.mu.Lock()
	r.readback = enable
	r.mu.Unlock()
	r.backend.SetReadback(enable)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCrosshair() {
	r.backend.DrawCrosshair()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Frame() (image.Image, error) {
	r.mu.Lock()
	readback := r.readback
	r.mu.Unlock()
	if !readback {
		return nil, ErrNoFrame
	}
	return r.backend.ReadFrame()
}
