package renderer

import "image"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// backendFrame is the per-frame surface the backends share with the renderer front end.
type backendFrame interface {
	// ConfigureSurface (re)creates the swapchain and size-dependent attachments.
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to.
	SetClearColor(r, g, b, a float64)

	// SetViewport restricts overlay drawing to the given pixel rectangle.
	SetViewport(x, y, width, height float32)

	// SetReadback enables copying each finished frame into host-readable memory.
	SetReadback(enable bool)

	// BeginFrame acquires the swapchain texture and begins the clear pass.
	BeginFrame() error

	// DrawCrosshair draws the center crosshair inside the current pass.
	DrawCrosshair()

	// EndFrame ends the pass and submits it.
	EndFrame()

	// Present displays the frame.
	Present()

	// ReadFrame returns the last frame copied while readback was enabled.
	ReadFrame() (image.Image, error)
}
