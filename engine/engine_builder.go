package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/capture"
	"github.com/Carmen-Shannon/oxy-terrain/engine/controller"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/profiler"
	"github.com/Carmen-Shannon/oxy-terrain/engine/window"
	"github.com/rs/zerolog"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables render statistics in the log.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window whose events drive the controller.
// Without a window the engine runs headless until Quit.
//
// Parameters:
//   - w: a pre-configured Window instance
//   - title: the base window title shown next to fly-through progress
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window, title string) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
		e.title = title
	}
}

// WithController attaches the viewpoint controller. A controller that needs the engine as
// its frame driver is attached after construction with SetController instead.
func WithController(c controller.Controller) EngineBuilderOption {
	return func(e *engine) {
		e.controller = c
	}
}

// WithGrabber sets the frame grabber used while a fly-through captures frames.
//
// Parameters:
//   - g: the grabber
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGrabber(g capture.Grabber) EngineBuilderOption {
	return func(e *engine) {
		e.grabber = g
	}
}

// WithFlyParameters sets the parameters used by the fly-through key binding.
func WithFlyParameters(p flythrough.Parameters) EngineBuilderOption {
	return func(e *engine) {
		e.flyParams = p
	}
}

// WithBackground sets the world background color handed to the scene before each frame.
func WithBackground(c common.Color) EngineBuilderOption {
	return func(e *engine) {
		e.background = c
	}
}

// WithRenderFrameLimit sets how often the render loop checks for work, in frames per second.
// Values <= 0 use 60.
//
// Parameters:
//   - fps: maximum render frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithLogger sets the engine's logger. The profiler and default grabber log through it.
func WithLogger(logger zerolog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
		e.profiler = profiler.NewProfiler(logger, profiler.DefaultInterval)
	}
}
