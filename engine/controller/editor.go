package controller

import (
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
)

// editor edits the live pose and saves it into viewpoints.
type editor interface {
	// CurrentPose returns a snapshot of the live pose.
	CurrentPose() *viewpoint.Store

	// SaveViewpoint overwrites s in place with the live pose, keeping its ID and name.
	//
	// Parameters:
	//   - s: the viewpoint to overwrite
	SaveViewpoint(s *viewpoint.Store)

	// ChangeLocation moves the camera. A rejected location beeps.
	//
	// Parameters:
	//   - p: the new location
	//
	// Returns:
	//   - *viewpoint.Store: the live pose after the edit
	//   - error: the node's rejection, if any
	ChangeLocation(p mgl64.Vec3) (*viewpoint.Store, error)

	// ChangeDirection points the camera along d. A rejected direction beeps.
	//
	// Parameters:
	//   - d: the new direction
	//
	// Returns:
	//   - *viewpoint.Store: the live pose after the edit
	//   - error: the node's rejection, if any
	ChangeDirection(d mgl64.Vec3) (*viewpoint.Store, error)

	// ChangeAzimuthElevation points the camera by angles given in degrees.
	//
	// Parameters:
	//   - azDeg: heading clockwise from north
	//   - elDeg: elevation above the horizon
	//
	// Returns:
	//   - *viewpoint.Store: the live pose after the edit
	ChangeAzimuthElevation(azDeg, elDeg float64) *viewpoint.Store

	// ChangeMagnification selects the magnification closest to factor.
	//
	// Parameters:
	//   - factor: the requested magnification
	//
	// Returns:
	//   - *viewpoint.Store: the live pose after the edit
	ChangeMagnification(factor float64) *viewpoint.Store
}

func (c *controllerImpl) CurrentPose() *viewpoint.Store {
	return c.node.Pose("")
}

func (c *controllerImpl) SaveViewpoint(s *viewpoint.Store) {
	if s == nil {
		return
	}
	s.CopyFrom(c.node.Pose(s.Name))
	c.logger.Debug().Str("name", s.Name).Msg("viewpoint saved")
}

func (c *controllerImpl) ChangeLocation(p mgl64.Vec3) (*viewpoint.Store, error) {
	if err := c.node.ChangeLocation(p); err != nil {
		c.beeper.Beep()
		return c.CurrentPose(), err
	}
	return c.CurrentPose(), nil
}

func (c *controllerImpl) ChangeDirection(d mgl64.Vec3) (*viewpoint.Store, error) {
	if err := c.node.ChangeDirection(d); err != nil {
		c.beeper.Beep()
		return c.CurrentPose(), err
	}
	return c.CurrentPose(), nil
}

func (c *controllerImpl) ChangeAzimuthElevation(azDeg, elDeg float64) *viewpoint.Store {
	c.node.ChangeAzimuthElevation(mgl64.DegToRad(azDeg), mgl64.DegToRad(elDeg))
	return c.CurrentPose()
}

func (c *controllerImpl) ChangeMagnification(factor float64) *viewpoint.Store {
	c.node.ChangeMagnification(factor)
	return c.CurrentPose()
}
