package viewpoint

import (
	"math"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DefaultDirection is straight north along the horizon.
var DefaultDirection = mgl64.Vec3{0, 1, 0}

// Store is a snapshot of a camera pose.
// The direction vector is authoritative; azimuth and elevation are derived from it and
// are kept in sync by SetDirection and SetAzimuthElevation.
// Azimuth is measured clockwise from +Y (north) in [0, 2π), elevation from the horizontal
// plane with negative values looking down.
type Store struct {
	// ID identifies the viewpoint across renames and copies into other lists.
	ID uuid.UUID
	// Name is the label shown in the viewpoint list.
	Name string
	// Location is the camera position in world space.
	Location mgl64.Vec3
	// MagIndex indexes MagFactors.
	MagIndex int
	// Mode is the camera mode in effect when the pose was taken.
	Mode Mode
	// Near and Far are the clip distances captured with the pose.
	Near, Far float64

	direction mgl64.Vec3
	azimuth   float64
	elevation float64
}

// New creates a store at location looking along direction with default magnification.
// A zero or non-finite direction falls back to DefaultDirection.
//
// Parameters:
//   - name: the viewpoint label
//   - location: the camera location
//   - direction: the view direction, normalized on assignment
//
// Returns:
//   - *Store: the new store with a fresh ID
func New(name string, location, direction mgl64.Vec3) *Store {
	s := &Store{
		ID:       uuid.New(),
		Name:     name,
		Location: location,
		MagIndex: DefaultMagIndex,
		Mode:     ModeFree,
		Near:     common.MinNearPlane,
		Far:      common.DefaultFarPlane,
	}
	s.SetDirection(direction)
	return s
}

// Direction returns the unit view direction.
func (s *Store) Direction() mgl64.Vec3 {
	if s.direction == (mgl64.Vec3{}) {
		return DefaultDirection
	}
	return s.direction
}

// Azimuth returns the heading in radians, clockwise from north.
func (s *Store) Azimuth() float64 {
	return s.azimuth
}

// Elevation returns the angle above the horizon in radians.
func (s *Store) Elevation() float64 {
	return s.elevation
}

// SetDirection normalizes d, stores it and re-derives azimuth and elevation.
// A degenerate vector keeps the current direction.
//
// Parameters:
//   - d: the new view direction
func (s *Store) SetDirection(d mgl64.Vec3) {
	s.direction = common.SafeNormalize(d, s.Direction())
	s.azimuth, s.elevation = AzimuthElevation(s.direction)
}

// SetAzimuthElevation sets the orientation from angles and re-derives the direction.
// The stored angles are the ones derived back from the direction, so azimuth is wrapped
// into [0, 2π) and elevation clamped to [-π/2, π/2].
//
// Parameters:
//   - az: heading in radians, clockwise from north
//   - el: angle above the horizon in radians
func (s *Store) SetAzimuthElevation(az, el float64) {
	s.SetDirection(DirectionFromAngles(az, el))
}

// SetMagIndex stores i clamped to the magnification table.
func (s *Store) SetMagIndex(i int) {
	s.MagIndex = ClampMagIndex(i)
}

// MagFactor returns the magnification factor of the pose.
func (s *Store) MagFactor() float64 {
	return MagFactor(s.MagIndex)
}

// LookAt returns the point one unit ahead of the location along the direction.
func (s *Store) LookAt() mgl64.Vec3 {
	return s.Location.Add(s.Direction())
}

// Clone returns a copy of the store that keeps the same ID.
func (s *Store) Clone() *Store {
	c := *s
	return &c
}

// CopyFrom overwrites the pose fields from other, keeping this store's ID and name.
//
// Parameters:
//   - other: the pose to copy
func (s *Store) CopyFrom(other *Store) {
	id, name := s.ID, s.Name
	*s = *other
	s.ID, s.Name = id, name
}

// Equal reports whether two stores describe the same pose within tolerance.
// Identity and name are ignored.
//
// Parameters:
//   - other: the store to compare
//   - eps: absolute tolerance for vector and angle comparisons
//
// Returns:
//   - bool: true if location, direction, magnification, mode and clip distances match
func (s *Store) Equal(other *Store, eps float64) bool {
	if other == nil {
		return false
	}
	return common.NearVec3(s.Location, other.Location, eps) &&
		common.NearVec3(s.Direction(), other.Direction(), eps) &&
		s.MagIndex == other.MagIndex &&
		s.Mode == other.Mode &&
		math.Abs(s.Near-other.Near) <= eps &&
		math.Abs(s.Far-other.Far) <= eps
}

// DirectionFromAngles converts azimuth and elevation to a unit direction.
//
// Parameters:
//   - az: heading in radians, clockwise from +Y
//   - el: angle above the horizon in radians
//
// Returns:
//   - mgl64.Vec3: the unit direction
func DirectionFromAngles(az, el float64) mgl64.Vec3 {
	cosEl := math.Cos(el)
	return mgl64.Vec3{math.Sin(az) * cosEl, math.Cos(az) * cosEl, math.Sin(el)}
}

// AzimuthElevation derives heading and elevation from a unit direction.
// A vertical direction has no defined heading and reports azimuth 0.
//
// Parameters:
//   - d: a unit direction
//
// Returns:
//   - az: heading in [0, 2π)
//   - el: elevation in [-π/2, π/2]
func AzimuthElevation(d mgl64.Vec3) (az, el float64) {
	el = math.Asin(common.Clamp(d[2], -1, 1))
	if math.Hypot(d[0], d[1]) < common.Epsilon {
		return 0, el
	}
	az = math.Atan2(d[0], d[1])
	if az < 0 {
		az += 2 * math.Pi
	}
	return az, el
}
