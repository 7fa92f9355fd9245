package controller

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
)

// flight builds fly lists and controls their playback.
type flight interface {
	// FlyViewpoints resamples the viewpoint list into params.NumFrames evenly spaced frames
	// and loads them into the player. Lists too short to fly are ignored.
	//
	// Parameters:
	//   - params: the fly-through parameters
	//
	// Returns:
	//   - bool: true if a fly list was loaded
	FlyViewpoints(params flythrough.Parameters) bool

	// FlyPath samples path and loads params.NumFrames evenly spaced Hike-mode frames walking
	// it at params.PathHeight. Paths too short to fly and frame counts below two are ignored.
	//
	// Parameters:
	//   - path: the path to follow
	//   - params: the fly-through parameters
	//
	// Returns:
	//   - bool: true if a fly list was loaded
	FlyPath(path CurveSource, params flythrough.Parameters) bool

	// StartFlight starts or resumes playback.
	StartFlight()

	// PauseFlight pauses playback at the current frame.
	PauseFlight()

	// StopFlight stops playback and restores the pre-flight pose.
	StopFlight()

	// FlightState returns the playback state.
	FlightState() flythrough.State

	// FlyList returns the loaded frames.
	FlyList() []*viewpoint.Store

	// Player returns the fly-through player.
	Player() flythrough.Player
}

func (c *controllerImpl) FlyViewpoints(params flythrough.Parameters) bool {
	c.mu.Lock()
	keys := append([]*viewpoint.Store(nil), c.list.Items...)
	c.mu.Unlock()

	list, err := flythrough.FillFlyList(keys, params.NumFrames)
	if err != nil {
		c.logSkipped(err)
		return false
	}
	c.load(list, params)
	return true
}

func (c *controllerImpl) FlyPath(path CurveSource, params flythrough.Parameters) bool {
	if path == nil {
		return false
	}
	if params.NumFrames <= 1 {
		c.logSkipped(flythrough.ErrTooFewFrames)
		return false
	}
	samples := path.Curve(CurveSamplesPerSegment)
	list, err := flythrough.PathFlyList(samples, params.NumFrames, params.PathHeight, c.node.SceneBounds())
	if err != nil {
		c.logSkipped(err)
		return false
	}
	c.load(list, params)
	return true
}

func (c *controllerImpl) load(list []*viewpoint.Store, params flythrough.Parameters) {
	c.player.SetFlyList(list)
	c.player.SetParameters(params)
	c.logger.Debug().Int("frames", len(list)).Msg("fly list loaded")
}

func (c *controllerImpl) logSkipped(err error) {
	if errors.Is(err, flythrough.ErrTooFewFrames) || errors.Is(err, flythrough.ErrTooFewViewpoints) {
		c.logger.Debug().Err(err).Msg("fly-through skipped")
		return
	}
	c.logger.Warn().Err(err).Msg("fly-through failed")
}

func (c *controllerImpl) StartFlight() {
	c.player.Start()
}

func (c *controllerImpl) PauseFlight() {
	c.player.Pause()
}

func (c *controllerImpl) StopFlight() {
	c.player.Stop()
}

func (c *controllerImpl) FlightState() flythrough.State {
	return c.player.State()
}

func (c *controllerImpl) FlyList() []*viewpoint.Store {
	return c.player.FlyList()
}

func (c *controllerImpl) Player() flythrough.Player {
	return c.player
}
