package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/go-gl/mathgl/mgl64"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl64.Vec3

	viewMatrix                  mgl64.Mat4
	projectionMatrix            mgl64.Mat4
	viewProjectionMatrix        mgl64.Mat4
	inverseViewProjectionMatrix mgl64.Mat4

	node Node
}

// Camera defines the interface for the camera system.
// The camera computes view/projection matrices from an attached Node each frame via Update().
// The node owns the pose; the camera only derives matrices and pick rays from it.
type Camera interface {
	// Up returns the world up vector.
	//
	// Returns:
	//   - mgl64.Vec3: the up vector
	Up() mgl64.Vec3

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl64.Mat4: the view matrix
	ViewMatrix() mgl64.Mat4

	// ProjectionMatrix returns the current projection matrix.
	// The field of view is narrowed by the node's magnification factor.
	//
	// Returns:
	//   - mgl64.Mat4: the projection matrix
	ProjectionMatrix() mgl64.Mat4

	// ViewProjectionMatrix returns the combined view-projection matrix.
	//
	// Returns:
	//   - mgl64.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl64.Mat4

	// Project maps a world-space point to window coordinates (origin top left).
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - x, y: window coordinates
	//   - ok: false if the point is behind the camera
	Project(p mgl64.Vec3) (x, y float64, ok bool)

	// PickRay returns the world-space ray through window coordinates x, y (origin top left).
	//
	// Parameters:
	//   - x, y: window coordinates
	//
	// Returns:
	//   - common.Ray: the ray from the camera location through the pixel
	PickRay(x, y float64) common.Ray

	// Node returns the attached Node, or nil.
	Node() Node

	// SetNode attaches a Node and recomputes the matrices.
	//
	// Parameters:
	//   - n: the node to attach
	SetNode(n Node)

	// SetUp sets the world up vector and recomputes matrices.
	//
	// Parameters:
	//   - up: the up vector
	SetUp(up mgl64.Vec3)

	// Update reads the pose from the node and recomputes matrices.
	// Should be called once per frame. If no node is attached, this method does nothing.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with +Z as the world up vector.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                          &sync.Mutex{},
		up:                          mgl64.Vec3{0, 0, 1},
		viewMatrix:                  mgl64.Ident4(),
		projectionMatrix:            mgl64.Ident4(),
		viewProjectionMatrix:        mgl64.Ident4(),
		inverseViewProjectionMatrix: mgl64.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) ViewMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Project(p mgl64.Vec3) (float64, float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.node == nil {
		return 0, 0, false
	}
	w, h := c.node.Viewport()
	clip := c.viewProjectionMatrix.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	x := (ndc[0] + 1) / 2 * float64(w)
	y := (1 - ndc[1]) / 2 * float64(h)
	return x, y, true
}

func (c *cameraImpl) PickRay(x, y float64) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.node == nil {
		return common.Ray{Direction: mgl64.Vec3{0, 1, 0}}
	}
	w, h := c.node.Viewport()
	origin := c.node.Location()
	ndcX := 2*x/float64(max(w, 1)) - 1
	ndcY := 1 - 2*y/float64(max(h, 1))
	far := c.inverseViewProjectionMatrix.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	if math.Abs(far[3]) < common.Epsilon {
		return common.Ray{Origin: origin, Direction: c.node.Direction()}
	}
	target := far.Vec3().Mul(1 / far[3])
	return common.Ray{
		Origin:    origin,
		Direction: common.SafeNormalize(target.Sub(origin), c.node.Direction()),
	}
}

func (c *cameraImpl) Node() Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.node
}

func (c *cameraImpl) SetNode(n Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.node = n
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(up mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.node == nil {
		return
	}
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, view-projection, and inverse view-projection matrices.
// It reads the pose from the attached node. This is a no-op when the node is nil.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.node == nil {
		return
	}
	loc := c.node.Location()
	dir := c.node.Direction()
	near, far := c.node.ClipPlanes()
	w, h := c.node.Viewport()

	up := c.up
	if math.Abs(dir.Dot(up)) > 1-1e-9 {
		// looking straight along the up axis: use the horizontal heading as screen up
		up = mgl64.Vec3{0, 1, 0}
	}
	c.viewMatrix = mgl64.LookAtV(loc, loc.Add(dir), up)
	aspect := float64(max(w, 1)) / float64(max(h, 1))
	c.projectionMatrix = mgl64.Perspective(c.node.FieldOfView(), aspect, near, far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.inverseViewProjectionMatrix = c.viewProjectionMatrix.Inv()
}
