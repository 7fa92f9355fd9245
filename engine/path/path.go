// Package path holds waypoint paths that a fly-through can follow.
package path

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Waypoint is a named point on a path.
type Waypoint struct {
	Name     string
	Position mgl64.Vec3
}

type pathImpl struct {
	mu *sync.Mutex

	name      string
	waypoints []Waypoint
}

// Path is an ordered set of waypoints with a smooth curve through them.
type Path interface {
	// Name returns the path label.
	Name() string

	// Waypoints returns a copy of the waypoints in order.
	Waypoints() []Waypoint

	// Points returns the waypoint positions in order.
	Points() []mgl64.Vec3

	// AddWaypoint appends a waypoint.
	//
	// Parameters:
	//   - name: the waypoint label
	//   - p: the waypoint position
	AddWaypoint(name string, p mgl64.Vec3)

	// Curve samples a Catmull-Rom spline through the waypoints.
	// Each segment contributes samplesPerSegment points starting at its first waypoint, and
	// the last waypoint closes the curve. The end tangents reflect the neighbouring waypoint.
	// Paths with fewer than two waypoints return their points unchanged.
	//
	// Parameters:
	//   - samplesPerSegment: samples per waypoint pair, at least 1
	//
	// Returns:
	//   - []mgl64.Vec3: the sampled curve
	Curve(samplesPerSegment int) []mgl64.Vec3

	// Length returns the length of the straight polyline through the waypoints.
	Length() float64
}

var _ Path = &pathImpl{}

// NewPath creates a path.
//
// Parameters:
//   - options: optional configuration
//
// Returns:
//   - Path: the new path
func NewPath(options ...PathBuilderOption) Path {
	p := &pathImpl{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *pathImpl) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

func (p *pathImpl) Waypoints() []Waypoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Waypoint(nil), p.waypoints...)
}

func (p *pathImpl) Points() []mgl64.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pointsLocked()
}

func (p *pathImpl) AddWaypoint(name string, pos mgl64.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waypoints = append(p.waypoints, Waypoint{Name: name, Position: pos})
}

func (p *pathImpl) Curve(samplesPerSegment int) []mgl64.Vec3 {
	p.mu.Lock()
	pts := p.pointsLocked()
	p.mu.Unlock()

	if len(pts) < 2 {
		return pts
	}
	n := max(samplesPerSegment, 1)
	out := make([]mgl64.Vec3, 0, (len(pts)-1)*n+1)
	last := len(pts) - 1
	for i := 0; i < last; i++ {
		p0 := reflectedNeighbour(pts, i, -1)
		p1, p2 := pts[i], pts[i+1]
		p3 := reflectedNeighbour(pts, i+1, 1)
		for k := range n {
			out = append(out, catmullRom(p0, p1, p2, p3, float64(k)/float64(n)))
		}
	}
	return append(out, pts[last])
}

func (p *pathImpl) Length() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0.0
	for i := 1; i < len(p.waypoints); i++ {
		total += p.waypoints[i].Position.Sub(p.waypoints[i-1].Position).Len()
	}
	return total
}

func (p *pathImpl) pointsLocked() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, len(p.waypoints))
	for i, w := range p.waypoints {
		pts[i] = w.Position
	}
	return pts
}

// reflectedNeighbour returns pts[i+step], or the reflection of pts[i-step] through pts[i]
// past either end.
func reflectedNeighbour(pts []mgl64.Vec3, i, step int) mgl64.Vec3 {
	j := i + step
	if j >= 0 && j < len(pts) {
		return pts[j]
	}
	return pts[i].Mul(2).Sub(pts[i-step])
}

// catmullRom evaluates the uniform Catmull-Rom segment between p1 and p2.
func catmullRom(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t
	a := p1.Mul(2)
	b := p2.Sub(p0).Mul(t)
	c := p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2)
	d := p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(t3)
	return a.Add(b).Add(c).Add(d).Mul(0.5)
}
