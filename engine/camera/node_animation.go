package camera

import (
	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultSpringFrequency is the angular frequency of the pose spring. At 60 updates per
	// second a 100 unit jump settles in well under a second.
	DefaultSpringFrequency = 20.0

	// DefaultSpringDamping is the damping ratio of the pose spring: critically damped.
	DefaultSpringDamping = 1.0

	// settleDistance is how close the animated pose must get to its target before it snaps.
	settleDistance = 1e-3
)

// poseAnimation springs a location and a direction toward a target pose.
// Angular frequency and damping follow the critically damped setup: no overshoot.
type poseAnimation struct {
	spring harmonica.Spring

	active bool
	repick bool

	location, locationVel   mgl64.Vec3
	direction, directionVel mgl64.Vec3
	targetLoc, targetDir    mgl64.Vec3
}

func newPoseAnimation(fps int, frequency, damping float64) *poseAnimation {
	return &poseAnimation{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

func (a *poseAnimation) start(fromLoc, fromDir, toLoc, toDir mgl64.Vec3, repick bool) {
	if !a.active {
		a.locationVel = mgl64.Vec3{}
		a.directionVel = mgl64.Vec3{}
	}
	a.location, a.direction = fromLoc, fromDir
	a.targetLoc, a.targetDir = toLoc, toDir
	a.repick = repick
	a.active = true
}

func (a *poseAnimation) stop() {
	a.active = false
	a.repick = false
}

// step advances the springs by one frame and reports whether the target was reached.
func (a *poseAnimation) step() (loc, dir mgl64.Vec3, done bool) {
	for i := range 3 {
		a.location[i], a.locationVel[i] = a.spring.Update(a.location[i], a.locationVel[i], a.targetLoc[i])
		a.direction[i], a.directionVel[i] = a.spring.Update(a.direction[i], a.directionVel[i], a.targetDir[i])
	}
	if a.location.Sub(a.targetLoc).Len() < settleDistance && a.direction.Sub(a.targetDir).Len() < settleDistance {
		a.active = false
		return a.targetLoc, a.targetDir, true
	}
	return a.location, common.SafeNormalize(a.direction, a.targetDir), false
}
