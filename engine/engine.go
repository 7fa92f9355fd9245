// Package engine runs the oxy-terrain main loop: a fixed-rate tick goroutine that owns the
// viewpoint state and an on-demand render goroutine that redraws the field camera scene.
package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/camera"
	"github.com/Carmen-Shannon/oxy-terrain/engine/capture"
	"github.com/Carmen-Shannon/oxy-terrain/engine/controller"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/profiler"
	"github.com/Carmen-Shannon/oxy-terrain/engine/scene"
	"github.com/Carmen-Shannon/oxy-terrain/engine/window"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// postQueueSize bounds the work waiting for the tick goroutine.
const postQueueSize = 256

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration
	posted          chan func()

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window     window.Window
	scene      scene.Scene
	controller controller.Controller
	grabber    capture.Grabber
	logger     zerolog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate   time.Duration
	renderFrameLimit time.Duration

	title      string
	background common.Color
	flyParams  flythrough.Parameters

	suspended      bool
	frameRequested bool
	capturing      bool
	capturePending bool
	captureFrame   int

	// renderMu serializes drawing between the render loop and a capture flush.
	renderMu sync.Mutex
}

// Engine is the main entry point of the viewer.
// It orchestrates the tick loop, the render loop and the window, and acts as the frame
// driver and status sink of the fly-through player.
type Engine interface {
	flythrough.FrameDriver
	flythrough.StatusSink

	// Window returns the underlying window, or nil when running headless.
	Window() window.Window

	// Scene returns the field camera scene.
	Scene() scene.Scene

	// Controller returns the viewpoint controller, or nil before SetController.
	Controller() controller.Controller

	// SetController attaches the viewpoint controller that receives input and tick updates.
	//
	// Parameters:
	//   - c: the controller
	SetController(c controller.Controller)

	// Post queues fn to run on the tick goroutine, which owns the viewpoint state.
	// Calls made after Quit are dropped.
	//
	// Parameters:
	//   - fn: the work to run
	Post(fn func())

	// Suspended reports whether the main loop is suspended by a fly-through.
	Suspended() bool

	// FlyParameters returns the parameters used by the fly-through key binding.
	FlyParameters() flythrough.Parameters

	// SetFlyParameters replaces the parameters used by the fly-through key binding.
	//
	// Parameters:
	//   - p: the new parameters
	SetFlyParameters(p flythrough.Parameters)

	// EnableProfiler enables render statistics in the log.
	EnableProfiler()

	// DisableProfiler disables render statistics.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second. Values <= 0 use 60.
	//
	// Parameters:
	//   - fps: the target tick rate
	SetTickRate(fps float64)

	// SetRenderFrameLimit caps how often the render loop checks for work, in frames per second.
	// Values <= 0 use 60.
	//
	// Parameters:
	//   - fps: the maximum render rate
	SetRenderFrameLimit(fps float64)

	// Run starts the tick and render loops and the window message loop.
	// Blocks until the window closes, or until Quit when headless.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine around a scene. Panics if the scene is nil.
//
// Parameters:
//   - s: the field camera scene
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(s scene.Scene, options ...EngineBuilderOption) Engine {
	if s == nil {
		panic("engine: scene cannot be nil")
	}
	e := &engine{
		mu:               &sync.Mutex{},
		tickRateChannel:  make(chan time.Duration, 1),
		posted:           make(chan func(), postQueueSize),
		quitChannel:      make(chan struct{}),
		scene:            s,
		logger:           zerolog.Nop(),
		engineTickRate:   time.Second / 60,
		renderFrameLimit: time.Second / 60,
		background:       s.Background(),
		flyParams:        flythrough.DefaultParameters(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.grabber == nil {
		e.grabber = capture.NewGrabber(capture.WithLogger(e.logger))
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(e.logger, profiler.DefaultInterval)
	}
	if e.window != nil {
		e.title = common.Coalesce(e.title, "oxy-terrain")
		e.bindWindow()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Controller() controller.Controller {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller
}

func (e *engine) SetController(c controller.Controller) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controller = c
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-e.quitChannel:
		return
	default:
	}
	select {
	case <-e.quitChannel:
	case e.posted <- fn:
	}
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.Quit()
	}
	e.wg.Wait()
	e.grabber.Wait()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()
}

// handleTick runs the fixed-rate tick loop in its own goroutine and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			e.tick()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// tick runs the posted work, advances the camera node's pose animation and, unless a
// fly-through suspended the main loop, the controller's momentum. Any pose change marks
// the scene changed.
func (e *engine) tick() {
	node := e.node()
	before := snapshot(node)

	e.drain()

	if node != nil {
		node.Update()
	}

	e.mu.Lock()
	suspended, ctrl := e.suspended, e.controller
	e.mu.Unlock()
	if !suspended && ctrl != nil {
		ctrl.Update()
	}

	if snapshot(node) != before {
		e.scene.MarkChanged()
	}
}

func (e *engine) drain() {
	for {
		select {
		case fn := <-e.posted:
			fn()
		default:
			return
		}
	}
}

// handleRender redraws the scene whenever it changed or a frame was requested.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("render goroutine recovered from panic")
			e.Quit()
		}
	}()

	e.mu.Lock()
	limit := e.renderFrameLimit
	e.mu.Unlock()
	ticker := time.NewTicker(limit)
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			e.renderFrame()
		}
	}
}

// renderFrame draws one frame if needed and grabs it for the image sequence once a
// requested pose has settled.
//
// Returns:
//   - bool: true if a frame was drawn
func (e *engine) renderFrame() bool {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	s := e.scene
	if !s.Active() {
		return false
	}

	e.mu.Lock()
	bg := e.background
	requested := e.frameRequested
	e.frameRequested = false
	e.mu.Unlock()

	if s.PreRender(bg) {
		s.MarkChanged()
	}
	node := e.node()
	animating := node != nil && node.Animating()
	e.mu.Lock()
	grab := e.capturing && e.capturePending && !animating
	e.mu.Unlock()

	if !requested && !s.Changed() && !grab {
		return false
	}

	if cam := s.Camera(); cam != nil {
		cam.Update()
	}
	if err := s.Render(); err != nil {
		e.logger.Debug().Err(err).Msg("frame skipped")
		return false
	}
	s.ClearChanged()

	grabbed := grab && e.grab()
	e.mu.Lock()
	profiling := e.profilingEnabled
	e.mu.Unlock()
	if profiling {
		e.profiler.Tick(grabbed)
	}
	return true
}

// grab reads the presented frame back and hands it to the grabber.
func (e *engine) grab() bool {
	r := e.scene.Renderer()
	if r == nil {
		return false
	}
	img, err := r.Frame()
	if err != nil {
		e.logger.Warn().Err(err).Msg("frame readback failed")
		return false
	}

	e.mu.Lock()
	frame := e.captureFrame
	e.captureFrame++
	e.capturePending = false
	e.mu.Unlock()

	e.grabber.Capture(frame, img)
	return true
}

// flushCapture draws and grabs the pending frame at the pose it was requested for.
func (e *engine) flushCapture() {
	if node := e.node(); node != nil {
		node.Settle()
	}

	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	s := e.scene
	if cam := s.Camera(); cam != nil {
		cam.Update()
	}
	if err := s.Render(); err != nil {
		e.logger.Warn().Err(err).Msg("last captured frame skipped")
		return
	}
	s.ClearChanged()
	e.grab()
}

func (e *engine) node() camera.Node {
	cam := e.scene.Camera()
	if cam == nil {
		return nil
	}
	return cam.Node()
}

// pose is the part of the camera state that changes what is drawn.
type pose struct {
	location  mgl64.Vec3
	direction mgl64.Vec3
	magIndex  int
}

func snapshot(n camera.Node) pose {
	if n == nil {
		return pose{}
	}
	return pose{location: n.Location(), direction: n.Direction(), magIndex: n.MagIndex()}
}

func (e *engine) SuspendMainLoop(suspend bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suspended = suspend
}

func (e *engine) Suspended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suspended
}

func (e *engine) RequestFrameUpdate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frameRequested = true
	if e.capturing {
		e.capturePending = true
	}
}

// EnableFrameCapture starts writing requested frames under path, or stops with "".
// A requested frame that has not been grabbed yet is settled, drawn and written before
// capture changes. Frame numbers restart at zero each time capture is enabled.
func (e *engine) EnableFrameCapture(path string) {
	e.mu.Lock()
	pending := e.capturing && e.capturePending
	e.mu.Unlock()
	if pending {
		e.flushCapture()
	}

	err := e.grabber.Enable(path)
	if err != nil {
		e.logger.Error().Err(err).Str("path", path).Msg("frame capture disabled")
	}
	enabled := path != "" && err == nil

	e.mu.Lock()
	e.capturing = enabled
	e.capturePending = false
	if enabled {
		e.captureFrame = 0
	}
	e.mu.Unlock()

	if r := e.scene.Renderer(); r != nil {
		r.SetReadback(enabled)
	}
	if enabled {
		e.logger.Info().Str("path", path).Msg("capturing frames")
	}
}

// Status shows fly-through progress in the window title.
func (e *engine) Status(msg string) {
	if e.window != nil {
		e.window.SetTitle(e.title + " | " + msg)
	}
	e.logger.Debug().Msg(msg)
}

// Stopped restores the window title after a fly-through.
func (e *engine) Stopped() {
	if e.window != nil {
		e.window.SetTitle(e.title)
	}
	e.logger.Info().Msg("fly-through finished")
}

func (e *engine) FlyParameters() flythrough.Parameters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flyParams
}

func (e *engine) SetFlyParameters(p flythrough.Parameters) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flyParams = p
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate takes effect immediately when the engine is running.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// replace a pending update rather than block
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetRenderFrameLimit takes effect on the next Run.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
