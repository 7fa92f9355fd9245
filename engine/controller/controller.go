// Package controller turns pointer, wheel and keyboard input into camera node motion and
// manages the viewpoint list and fly-throughs built from it.
package controller

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/kinetic"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Node is the camera node the controller drives.
type Node interface {
	Drag(dx, dy float64)
	Rotate(tiltDeg, azDeg float64)
	Dolly(amount float64)
	Magnify(amount float64)
	TranslateInScreenPlane(dx, dy float64)
	SetLookAt(p *mgl64.Vec3)
	Mode() viewpoint.Mode
	Center() (x, y float64)
	SceneBounds() common.Bounds
	Pose(name string) *viewpoint.Store
	SetPose(s *viewpoint.Store, animate, recomputeLookAt bool)
	ChangeLocation(p mgl64.Vec3) error
	ChangeDirection(d mgl64.Vec3) error
	ChangeAzimuthElevation(az, el float64)
	ChangeMagnification(factor float64)
}

// Picker intersects a window-space position with the terrain.
type Picker interface {
	Pick(x, y float64) (pos, normal mgl64.Vec3, ok bool)
}

// CurveSource is a path that can be sampled into a polyline.
type CurveSource interface {
	Curve(samplesPerSegment int) []mgl64.Vec3
}

// Beeper signals a rejected edit to the user.
type Beeper interface {
	Beep()
}

// CurveSamplesPerSegment is the sampling density used when flying a path.
const CurveSamplesPerSegment = 10

// DefaultScrollDirection maps a wheel turn toward the user to pulling the camera back.
const DefaultScrollDirection = -1

// sanityThreshold is the largest pointer jump, per axis, treated as real motion.
const sanityThreshold = 100

type controllerImpl struct {
	mu *sync.Mutex

	node   Node
	picker Picker
	beeper Beeper
	clock  kinetic.Clock
	scroll kinetic.Scroll
	player flythrough.Player
	logger zerolog.Logger

	driver     flythrough.FrameDriver
	playerOpts []flythrough.PlayerBuilderOption

	// pointer tracking; hasPointer false is the "no previous position" sentinel
	hasPointer      bool
	pointerX        float64
	pointerY        float64
	zoom            bool
	scrollDirection int

	list  *viewpoint.List
	index int
}

// Controller is the viewpoint controller.
// All methods are expected to run on the engine's tick goroutine.
type Controller interface {
	// MouseMove handles pointer motion. Button 0 means no button is held and resets the
	// pointer tracking; 1 pans along the terrain with momentum; 2 pans in the screen plane;
	// 3 orbits. The delta is taken from the previous position and is zero when there is no
	// previous position or the reported jump exceeds 100 pixels on either axis.
	//
	// Parameters:
	//   - x, y: the pointer position
	//   - dx, dy: the motion reported by the event
	//   - button: the held button code
	MouseMove(x, y, dx, dy float64, button int)

	// MousePress records the pointer position and resets the momentum. Button 1 and Hike
	// mode clear the look-at point.
	//
	// Parameters:
	//   - x, y: the pointer position
	//   - button: the pressed button code
	MousePress(x, y float64, button int)

	// MouseRelease starts coasting after a fast flick, otherwise re-picks the look-at point.
	//
	// Parameters:
	//   - x, y: the pointer position
	//   - button: the released button code
	MouseRelease(x, y float64, button int)

	// MouseScroll magnifies when zoom is enabled, otherwise dollies and re-picks the look-at point.
	//
	// Parameters:
	//   - delta: the signed wheel movement
	MouseScroll(delta float64)

	// StepLeft, StepRight, StepUp and StepDown move one unit: a one pixel drag with a
	// modifier held, a one degree rotation without.
	StepLeft(modified bool)
	StepRight(modified bool)
	StepUp(modified bool)
	StepDown(modified bool)

	// UpdateLookAt picks the terrain at the viewport center and makes the hit the look-at point.
	UpdateLookAt()

	// Update advances the momentum by one tick.
	Update()

	// EnableZoom makes the wheel magnify instead of dolly.
	EnableZoom(enable bool)

	// ZoomEnabled reports whether the wheel magnifies.
	ZoomEnabled() bool

	// SetScrollDirection sets the wheel direction sign; zero is ignored.
	SetScrollDirection(direction int)

	// ScrollDirection returns the wheel direction sign.
	ScrollDirection() int

	navigator
	editor
	flight
}

var _ Controller = &controllerImpl{}

// NewController creates a controller driving node and picking with picker.
// Panics if node or picker is nil.
//
// Parameters:
//   - node: the camera node
//   - picker: the terrain picker
//   - options: optional configuration
//
// Returns:
//   - Controller: the new controller
func NewController(node Node, picker Picker, options ...ControllerBuilderOption) Controller {
	if node == nil {
		panic("controller: node cannot be nil")
	}
	if picker == nil {
		panic("controller: picker cannot be nil")
	}
	c := &controllerImpl{
		mu:              &sync.Mutex{},
		node:            node,
		picker:          picker,
		beeper:          nopBeeper{},
		clock:           kinetic.SystemClock{},
		scroll:          kinetic.NewScroll(),
		logger:          zerolog.Nop(),
		driver:          nopDriver{},
		scrollDirection: DefaultScrollDirection,
		list:            viewpoint.NewList(),
		index:           -1,
	}
	for _, option := range options {
		option(c)
	}
	if c.player == nil {
		opts := append([]flythrough.PlayerBuilderOption{flythrough.WithLogger(c.logger)}, c.playerOpts...)
		c.player = flythrough.NewPlayer(nodePoser{node: node}, c.driver, opts...)
	}
	return c
}

// nodePoser adapts the node to the fly-through player.
type nodePoser struct {
	node Node
}

func (p nodePoser) Pose() *viewpoint.Store {
	return p.node.Pose("")
}

func (p nodePoser) SetPose(s *viewpoint.Store, animate, recomputeLookAt bool) {
	p.node.SetPose(s, animate, recomputeLookAt)
}

type nopBeeper struct{}

func (nopBeeper) Beep() {}

type nopDriver struct{}

func (nopDriver) SuspendMainLoop(bool)      {}
func (nopDriver) RequestFrameUpdate()       {}
func (nopDriver) EnableFrameCapture(string) {}
