package renderer

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	crosshairPipeline    *wgpu.RenderPipeline

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass
	clearColor  wgpu.Color
	viewport    [4]float32 // x, y, width, height in pixels; zero width means the whole surface
	width       int
	height      int

	// Readback state for image sequence capture
	readback       bool
	readbackBuffer *wgpu.Buffer
	readbackReady  bool

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	backendFrame

	Device() *wgpu.Device
	Queue() *wgpu.Queue
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]
	b.width, b.height = width, height

	// CopySrc lets the finished frame be read back for capture.
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// When MSAA is enabled, View is the MSAA texture and ResolveTarget is set per-frame
	// to the swapchain view. When disabled, View is set per-frame to the swapchain view.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView,
				ResolveTarget: nil,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    b.clearColor,
			},
		},
	}

	if b.crosshairPipeline == nil {
		p, err := b.createCrosshairPipeline()
		if err != nil {
			panic(fmt.Sprintf("failed to create crosshair pipeline: %v", err))
		}
		b.crosshairPipeline = p
	}

	if b.readbackBuffer != nil {
		b.readbackBuffer.Release()
		b.readbackBuffer = nil
		b.readbackReady = false
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Readback Buffer",
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
		Size:  uint64(paddedRowSize(width) * height),
	})
	if err != nil {
		panic(err)
	}
	b.readbackBuffer = buf
}

func (b *wgpuRendererBackendImpl) createCrosshairPipeline() (*wgpu.RenderPipeline, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "crosshair",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: crosshairShader,
		},
	})
	if err != nil {
		return nil, err
	}
	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "crosshair",
	})
	if err != nil {
		return nil, err
	}
	return b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "crosshair Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(r, g, bl, a float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = wgpu.Color{R: r, G: g, B: bl, A: a}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) SetViewport(x, y, width, height float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewport = [4]float32{x, y, width, height}
}

func (b *wgpuRendererBackendImpl) SetReadback(enable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readback = enable
	if !enable {
		b.readbackReady = false
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCrosshair() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || b.crosshairPipeline == nil {
		return
	}
	if vp := b.viewport; vp[2] > 0 && vp[3] > 0 {
		b.framePass.SetViewport(vp[0], vp[1], vp[2], vp[3], 0, 1)
	}
	b.framePass.SetPipeline(b.crosshairPipeline)
	b.framePass.Draw(crosshairVertexCount, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	if b.readback && b.readbackBuffer != nil {
		err := b.frameEncoder.CopyTextureToBuffer(
			&wgpu.ImageCopyTexture{
				Texture:  b.frameSurface,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
				Aspect:   wgpu.TextureAspectAll,
			},
			&wgpu.ImageCopyBuffer{
				Buffer: b.readbackBuffer,
				Layout: wgpu.TextureDataLayout{
					Offset:       0,
					BytesPerRow:  uint32(paddedRowSize(b.width)),
					RowsPerImage: uint32(b.height),
				},
			},
			&wgpu.Extent3D{
				Width:              uint32(b.width),
				Height:             uint32(b.height),
				DepthOrArrayLayers: 1,
			},
		)
		b.readbackReady = err == nil
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		b.readbackReady = false
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

// ReadFrame maps the readback buffer, waiting on the device until the copy completes.
func (b *wgpuRendererBackendImpl) ReadFrame() (image.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.readbackReady || b.readbackBuffer == nil {
		return nil, ErrNoFrame
	}
	stride := paddedRowSize(b.width)
	size := uint64(stride * b.height)

	var (
		status wgpu.BufferMapAsyncStatus
		done   bool
	)
	err := b.readbackBuffer.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status, done = s, true
	})
	if err != nil {
		return nil, fmt.Errorf("map readback buffer: %w", err)
	}
	b.device.Poll(true, nil)
	if !done || status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("map readback buffer: status %s", status.String())
	}
	data := b.readbackBuffer.GetMappedRange(0, uint(size))
	img := decodeFrame(data, b.width, b.height, stride, isBGRA(*b.surfaceFormat))
	b.readbackBuffer.Unmap()
	b.readbackReady = false
	return img, nil
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}
