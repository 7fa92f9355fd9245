package controller

import (
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/kinetic"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/rs/zerolog"
)

type ControllerBuilderOption func(*controllerImpl)

// WithClock sets the clock used for momentum timing.
//
// Parameters:
//   - clock: the clock
//
// Returns:
//   - ControllerBuilderOption: a function that sets the clock
func WithClock(clock kinetic.Clock) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.clock = clock
	}
}

// WithBeeper sets the signal played when an edit is rejected.
//
// Parameters:
//   - b: the beeper
//
// Returns:
//   - ControllerBuilderOption: a function that sets the beeper
func WithBeeper(b Beeper) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.beeper = b
	}
}

// WithViewpointList sets the viewpoint list the controller navigates.
//
// Parameters:
//   - l: the viewpoint list, owned by the caller
//
// Returns:
//   - ControllerBuilderOption: a function that sets the list
func WithViewpointList(l *viewpoint.List) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.list = l
	}
}

// WithZoom makes the wheel magnify instead of dolly.
func WithZoom(enable bool) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.zoom = enable
	}
}

// WithScrollDirection sets the wheel direction sign.
func WithScrollDirection(direction int) ControllerBuilderOption {
	return func(c *controllerImpl) {
		if direction != 0 {
			c.scrollDirection = sign(direction)
		}
	}
}

// WithFrameDriver sets the render loop the fly-through player suspends and drives.
//
// Parameters:
//   - d: the frame driver
//
// Returns:
//   - ControllerBuilderOption: a function that sets the frame driver
func WithFrameDriver(d flythrough.FrameDriver) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.driver = d
	}
}

// WithPlayerOptions passes options to the fly-through player built by NewController.
//
// Parameters:
//   - opts: the player options
//
// Returns:
//   - ControllerBuilderOption: a function that stores the player options
func WithPlayerOptions(opts ...flythrough.PlayerBuilderOption) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.playerOpts = append(c.playerOpts, opts...)
	}
}

// WithPlayer sets a ready-made fly-through player, overriding WithFrameDriver and WithPlayerOptions.
func WithPlayer(p flythrough.Player) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.player = p
	}
}

// WithLogger sets the controller's logger.
func WithLogger(logger zerolog.Logger) ControllerBuilderOption {
	return func(c *controllerImpl) {
		c.logger = logger
	}
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
