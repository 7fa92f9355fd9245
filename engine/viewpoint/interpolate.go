package viewpoint

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/google/uuid"
)

// Inbetween computes the pose at fraction t between a and b.
// The fraction is clamped to [0, 1]. Location and clip distances are blended linearly.
// The direction is blended componentwise and renormalized, which is only a close
// approximation of a spherical blend when the two directions are near each other; if the
// blend vanishes the start direction is kept. Azimuth and elevation are derived from the
// blended direction and the magnification index is the rounded blend. The result takes
// the mode of a, or of b at t == 1, and is named "<a>-<b>@<t>".
//
// Parameters:
//   - a: the start pose
//   - b: the end pose
//   - t: the blend fraction
//
// Returns:
//   - *Store: a new store with a fresh ID
func Inbetween(a, b *Store, t float64) *Store {
	t = common.Clamp(t, 0, 1)

	out := &Store{
		ID:   uuid.New(),
		Name: fmt.Sprintf("%s-%s@%s", a.Name, b.Name, strconv.FormatFloat(t, 'f', -1, 64)),
	}
	switch t {
	case 0:
		out.copyPose(a)
		return out
	case 1:
		out.copyPose(b)
		return out
	}

	out.Location = common.LerpVec3(a.Location, b.Location, t)
	out.direction = a.Direction()
	out.SetDirection(common.LerpVec3(a.Direction(), b.Direction(), t))
	out.MagIndex = ClampMagIndex(int(math.Round(common.Lerp(float64(a.MagIndex), float64(b.MagIndex), t))))
	out.Mode = a.Mode
	out.Near = common.Lerp(a.Near, b.Near, t)
	out.Far = common.Lerp(a.Far, b.Far, t)
	return out
}

func (s *Store) copyPose(src *Store) {
	s.Location = src.Location
	s.direction = src.Direction()
	s.azimuth = src.azimuth
	s.elevation = src.elevation
	s.MagIndex = src.MagIndex
	s.Mode = src.Mode
	s.Near = src.Near
	s.Far = src.Far
}
