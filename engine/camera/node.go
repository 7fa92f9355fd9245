package camera

import (
	"errors"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

var (
	// ErrLocationRejected is returned when a location edit is not finite or lies far outside the scene.
	ErrLocationRejected = errors.New("camera: location rejected")

	// ErrDirectionRejected is returned when a direction edit has no length or is not finite.
	ErrDirectionRejected = errors.New("camera: direction rejected")
)

const (
	// maxElevation keeps the camera from tipping over the vertical.
	maxElevation = math.Pi/2 - 1e-3

	// dollyRate is the fraction of the distance to the center of rotation covered per dolly unit.
	dollyRate = 0.1

	// minOrbitDistance is the closest a dolly may push the camera toward the look-at point.
	minOrbitDistance = 0.1

	// locationSlack is how many scene radii away from the scene center a location edit may go.
	locationSlack = 4.0
)

// Picker intersects a window-space position with the terrain.
type Picker interface {
	Pick(x, y float64) (pos, normal mgl64.Vec3, ok bool)
}

type nodeImpl struct {
	mu *sync.Mutex

	location  mgl64.Vec3
	direction mgl64.Vec3
	magIndex  int
	mode      viewpoint.Mode
	lookAt    *mgl64.Vec3

	fov            float64
	viewportWidth  int
	viewportHeight int
	bounds         common.Bounds
	up             mgl64.Vec3

	picker    Picker
	animation *poseAnimation
	logger    zerolog.Logger
}

// Node is the camera node that owns the authoritative camera pose.
// It moves in a Z-up world: drag pans along the terrain (XY) plane, rotation orbits the
// look-at point or, in Hike mode or without a look-at point, turns the camera in place.
type Node interface {
	// Location returns the camera location.
	Location() mgl64.Vec3

	// Direction returns the unit view direction.
	Direction() mgl64.Vec3

	// LookAt returns the center of rotation picked on the terrain, or nil.
	LookAt() *mgl64.Vec3

	// SetLookAt sets or, with nil, clears the center of rotation.
	//
	// Parameters:
	//   - p: the new look-at point or nil
	SetLookAt(p *mgl64.Vec3)

	// Mode returns the camera mode.
	Mode() viewpoint.Mode

	// SetMode changes the camera mode. Hike mode clears the look-at point.
	//
	// Parameters:
	//   - m: the new mode
	SetMode(m viewpoint.Mode)

	// MagIndex returns the index into viewpoint.MagFactors.
	MagIndex() int

	// FieldOfView returns the vertical field of view in radians narrowed by the magnification.
	FieldOfView() float64

	// ClipPlanes returns near and far distances fitted to the scene bounds.
	ClipPlanes() (near, far float64)

	// Viewport returns the viewport size in pixels.
	Viewport() (width, height int)

	// SetViewport sets the viewport size in pixels.
	//
	// Parameters:
	//   - width, height: the viewport size
	SetViewport(width, height int)

	// Center returns the viewport center in window coordinates.
	Center() (x, y float64)

	// SceneBounds returns the bounds of the visible scene.
	SceneBounds() common.Bounds

	// SetSceneBounds sets the bounds of the visible scene.
	//
	// Parameters:
	//   - b: the scene bounds
	SetSceneBounds(b common.Bounds)

	// SetPicker sets the terrain picker used to recompute the look-at point.
	//
	// Parameters:
	//   - p: the picker
	SetPicker(p Picker)

	// Drag pans the camera along the terrain plane as if the terrain were grabbed
	// and moved by dx, dy pixels (window y grows downward).
	//
	// Parameters:
	//   - dx, dy: the drag in pixels
	Drag(dx, dy float64)

	// TranslateInScreenPlane moves the camera along its screen axes by dx, dy pixels
	// (window y grows downward).
	//
	// Parameters:
	//   - dx, dy: the translation in pixels
	TranslateInScreenPlane(dx, dy float64)

	// Rotate tilts by tiltDeg and turns by azDeg degrees around the center of rotation.
	// Tilts that would pass the vertical are dropped.
	//
	// Parameters:
	//   - tiltDeg: rotation about the screen horizontal axis in degrees
	//   - azDeg: rotation about the world up axis in degrees
	Rotate(tiltDeg, azDeg float64)

	// Dolly moves the camera along its view direction. Positive amounts pull the camera
	// back, negative push it in; the step is proportional to the distance to the center
	// of rotation and never passes the look-at point.
	//
	// Parameters:
	//   - amount: the dolly amount
	Dolly(amount float64)

	// Magnify moves the magnification index by the rounded amount, clamped to the table.
	//
	// Parameters:
	//   - amount: the number of table steps
	Magnify(amount float64)

	// Pose returns a snapshot of the current pose named name.
	//
	// Parameters:
	//   - name: the snapshot name
	//
	// Returns:
	//   - *viewpoint.Store: the snapshot
	Pose(name string) *viewpoint.Store

	// SetPose moves the camera to s.
	// With animate the node springs toward the pose over the following Update calls,
	// otherwise it jumps. With recomputeLookAt the look-at point is re-picked at the
	// viewport center once the pose is reached; Hike mode poses clear it instead.
	//
	// Parameters:
	//   - s: the pose to apply
	//   - animate: true to animate the transition
	//   - recomputeLookAt: true to re-pick the look-at point
	SetPose(s *viewpoint.Store, animate, recomputeLookAt bool)

	// Animating reports whether a SetPose transition is in progress.
	Animating() bool

	// Settle ends a SetPose transition in progress by jumping to its target pose.
	Settle()

	// Update advances a pose transition by one animation step.
	Update()

	// ChangeLocation moves the camera to p.
	//
	// Parameters:
	//   - p: the new location
	//
	// Returns:
	//   - error: ErrLocationRejected if p is not finite or far outside the scene bounds
	ChangeLocation(p mgl64.Vec3) error

	// ChangeDirection points the camera along d.
	//
	// Parameters:
	//   - d: the new direction, normalized on assignment
	//
	// Returns:
	//   - error: ErrDirectionRejected if d is zero or not finite
	ChangeDirection(d mgl64.Vec3) error

	// ChangeAzimuthElevation points the camera by heading and elevation in radians.
	//
	// Parameters:
	//   - az: heading clockwise from north
	//   - el: elevation above the horizon
	ChangeAzimuthElevation(az, el float64)

	// ChangeMagnification selects the magnification table entry closest to factor.
	//
	// Parameters:
	//   - factor: the requested magnification
	ChangeMagnification(factor float64)
}

var _ Node = &nodeImpl{}

// NewNode creates a camera node at the origin looking north and slightly down.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the new node
func NewNode(options ...NodeBuilderOption) Node {
	n := &nodeImpl{
		mu:             &sync.Mutex{},
		location:       mgl64.Vec3{0, 0, 10},
		direction:      viewpoint.DirectionFromAngles(0, -math.Pi/6),
		magIndex:       viewpoint.DefaultMagIndex,
		mode:           viewpoint.ModeFree,
		fov:            math.Pi / 4,
		viewportWidth:  1,
		viewportHeight: 1,
		up:             mgl64.Vec3{0, 0, 1},
		logger:         zerolog.Nop(),
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *nodeImpl) Location() mgl64.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

func (n *nodeImpl) Direction() mgl64.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.direction
}

func (n *nodeImpl) LookAt() *mgl64.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lookAt == nil {
		return nil
	}
	p := *n.lookAt
	return &p
}

func (n *nodeImpl) SetLookAt(p *mgl64.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.setLookAtLocked(p)
}

func (n *nodeImpl) Mode() viewpoint.Mode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mode
}

func (n *nodeImpl) SetMode(m viewpoint.Mode) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mode = m
	if m == viewpoint.ModeHike {
		n.lookAt = nil
	}
}

func (n *nodeImpl) MagIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.magIndex
}

func (n *nodeImpl) FieldOfView() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fieldOfViewLocked()
}

func (n *nodeImpl) ClipPlanes() (float64, float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return common.ClipPlanes(n.location, n.bounds)
}

func (n *nodeImpl) Viewport() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.viewportWidth, n.viewportHeight
}

func (n *nodeImpl) SetViewport(width, height int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.viewportWidth = max(width, 1)
	n.viewportHeight = max(height, 1)
}

func (n *nodeImpl) Center() (float64, float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return float64(n.viewportWidth) / 2, float64(n.viewportHeight) / 2
}

func (n *nodeImpl) SceneBounds() common.Bounds {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bounds
}

func (n *nodeImpl) SetSceneBounds(b common.Bounds) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bounds = b
}

func (n *nodeImpl) SetPicker(p Picker) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.picker = p
}

func (n *nodeImpl) Drag(dx, dy float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	right, forward := n.groundAxesLocked()
	scale := n.pixelScaleLocked()
	offset := right.Mul(-dx * scale).Add(forward.Mul(dy * scale))
	n.translateLocked(offset)
}

func (n *nodeImpl) TranslateInScreenPlane(dx, dy float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	right, up := n.screenAxesLocked()
	scale := n.pixelScaleLocked()
	offset := right.Mul(dx * scale).Sub(up.Mul(dy * scale))
	n.translateLocked(offset)
}

func (n *nodeImpl) Rotate(tiltDeg, azDeg float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	center := n.location
	if n.mode != viewpoint.ModeHike && n.lookAt != nil {
		center = *n.lookAt
	}

	right, _ := n.screenAxesLocked()
	q := mgl64.QuatRotate(mgl64.DegToRad(azDeg), n.up)
	tilt := mgl64.QuatRotate(mgl64.DegToRad(tiltDeg), right)
	if tiltDeg != 0 && n.tiltAllowedLocked(tilt.Rotate(n.direction)) {
		q = q.Mul(tilt)
	}

	n.direction = common.SafeNormalize(q.Rotate(n.direction), n.direction)
	n.location = center.Add(q.Rotate(n.location.Sub(center)))
}

func (n *nodeImpl) Dolly(amount float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	dist := n.rotationDistanceLocked()
	step := amount * dollyRate * dist
	if n.lookAt != nil && n.mode != viewpoint.ModeHike {
		ahead := n.lookAt.Sub(n.location).Dot(n.direction)
		if ahead+step < minOrbitDistance {
			step = minOrbitDistance - ahead
		}
	}
	n.location = n.location.Sub(n.direction.Mul(step))
}

func (n *nodeImpl) Magnify(amount float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.magIndex = viewpoint.ClampMagIndex(n.magIndex + int(math.Round(amount)))
}

func (n *nodeImpl) Pose(name string) *viewpoint.Store {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := viewpoint.New(name, n.location, n.direction)
	s.MagIndex = n.magIndex
	s.Mode = n.mode
	s.Near, s.Far = common.ClipPlanes(n.location, n.bounds)
	return s
}

func (n *nodeImpl) SetPose(s *viewpoint.Store, animate, recomputeLookAt bool) {
	if s == nil {
		return
	}
	n.mu.Lock()
	n.magIndex = viewpoint.ClampMagIndex(s.MagIndex)
	n.mode = s.Mode
	if n.mode == viewpoint.ModeHike {
		n.lookAt = nil
		recomputeLookAt = false
	}
	if animate && n.animation != nil {
		n.animation.start(n.location, n.direction, s.Location, s.Direction(), recomputeLookAt)
		n.mu.Unlock()
		return
	}
	if n.animation != nil {
		n.animation.stop()
	}
	n.location = s.Location
	n.direction = s.Direction()
	n.mu.Unlock()

	if recomputeLookAt {
		n.repick()
	}
}

func (n *nodeImpl) Animating() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.animation != nil && n.animation.active
}

func (n *nodeImpl) Settle() {
	n.mu.Lock()
	if n.animation == nil || !n.animation.active {
		n.mu.Unlock()
		return
	}
	n.location, n.direction = n.animation.targetLoc, n.animation.targetDir
	repick := n.animation.repick
	n.animation.stop()
	n.mu.Unlock()

	if repick {
		n.repick()
	}
}

func (n *nodeImpl) Update() {
	n.mu.Lock()
	if n.animation == nil || !n.animation.active {
		n.mu.Unlock()
		return
	}
	var done bool
	n.location, n.direction, done = n.animation.step()
	repick := done && n.animation.repick
	n.mu.Unlock()

	if repick {
		n.repick()
	}
}

func (n *nodeImpl) ChangeLocation(p mgl64.Vec3) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !common.Finite(p) || !n.bounds.Contains(p, locationSlack) {
		n.logger.Debug().Floats64("location", p[:]).Msg("location edit rejected")
		return ErrLocationRejected
	}
	n.translateLocked(p.Sub(n.location))
	return nil
}

func (n *nodeImpl) ChangeDirection(d mgl64.Vec3) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !common.Finite(d) || d.Len() < common.Epsilon {
		return ErrDirectionRejected
	}
	n.direction = d.Normalize()
	return nil
}

func (n *nodeImpl) ChangeAzimuthElevation(az, el float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.direction = viewpoint.DirectionFromAngles(az, common.Clamp(el, -math.Pi/2, math.Pi/2))
}

func (n *nodeImpl) ChangeMagnification(factor float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.magIndex = viewpoint.MagIndexFor(factor)
}

// repick re-picks the look-at point at the viewport center.
// The picker reads the node, so the mutex must not be held.
func (n *nodeImpl) repick() {
	n.mu.Lock()
	picker := n.picker
	cx, cy := float64(n.viewportWidth)/2, float64(n.viewportHeight)/2
	n.mu.Unlock()
	if picker == nil {
		return
	}
	if pos, _, ok := picker.Pick(cx, cy); ok {
		n.SetLookAt(&pos)
	}
}

// setLookAtLocked stores a copy of p. Caller must hold the mutex.
func (n *nodeImpl) setLookAtLocked(p *mgl64.Vec3) {
	if p == nil {
		n.lookAt = nil
		return
	}
	c := *p
	n.lookAt = &c
}

// translateLocked moves the camera and its look-at point together. Caller must hold the mutex.
func (n *nodeImpl) translateLocked(offset mgl64.Vec3) {
	n.location = n.location.Add(offset)
	if n.lookAt != nil {
		moved := n.lookAt.Add(offset)
		n.lookAt = &moved
	}
}

// fieldOfViewLocked narrows the base field of view by the magnification. Caller must hold the mutex.
func (n *nodeImpl) fieldOfViewLocked() float64 {
	return 2 * math.Atan(math.Tan(n.fov/2)/viewpoint.MagFactor(n.magIndex))
}

// rotationDistanceLocked is the distance to the center of rotation, or to the scene center
// when there is no look-at point. Caller must hold the mutex.
func (n *nodeImpl) rotationDistanceLocked() float64 {
	var d float64
	switch {
	case n.lookAt != nil && n.mode != viewpoint.ModeHike:
		d = n.lookAt.Sub(n.location).Len()
	case !n.bounds.Empty():
		d = n.bounds.Center.Sub(n.location).Len()
	default:
		d = math.Abs(n.location.Dot(n.up))
	}
	return math.Max(d, 1)
}

// pixelScaleLocked is the world size of one pixel at the center of rotation. Caller must hold the mutex.
func (n *nodeImpl) pixelScaleLocked() float64 {
	visible := 2 * n.rotationDistanceLocked() * math.Tan(n.fieldOfViewLocked()/2)
	return visible / float64(n.viewportHeight)
}

// tiltAllowedLocked reports whether tilted stays below maxElevation without passing the
// vertical, which would flip the heading. Caller must hold the mutex.
func (n *nodeImpl) tiltAllowedLocked(tilted mgl64.Vec3) bool {
	if math.Abs(math.Asin(common.Clamp(tilted.Dot(n.up), -1, 1))) > maxElevation {
		return false
	}
	before, after := n.flatten(n.direction), n.flatten(tilted)
	return before.Len() < 1e-9 || before.Dot(after) > 0
}

// flatten projects v onto the terrain plane.
func (n *nodeImpl) flatten(v mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.up.Mul(v.Dot(n.up)))
}

// screenAxesLocked returns the camera's right and up axes. Caller must hold the mutex.
func (n *nodeImpl) screenAxesLocked() (right, up mgl64.Vec3) {
	worldUp := n.up
	if math.Abs(n.direction.Dot(worldUp)) > 1-1e-9 {
		worldUp = mgl64.Vec3{0, 1, 0}
	}
	right = common.SafeNormalize(n.direction.Cross(worldUp), mgl64.Vec3{1, 0, 0})
	up = right.Cross(n.direction)
	return right, up
}

// groundAxesLocked returns the screen right and up axes flattened onto the terrain plane.
// Caller must hold the mutex.
func (n *nodeImpl) groundAxesLocked() (right, forward mgl64.Vec3) {
	right, up := n.screenAxesLocked()
	right = common.SafeNormalize(n.flatten(right), mgl64.Vec3{1, 0, 0})
	heading := n.flatten(n.direction)
	if heading.Len() < 1e-6 {
		heading = n.flatten(up)
	}
	forward = common.SafeNormalize(heading, n.up.Cross(right))
	return right, forward
}
