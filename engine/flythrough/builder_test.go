package flythrough

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyframes(locs ...mgl64.Vec3) []*viewpoint.Store {
	keys := make([]*viewpoint.Store, len(locs))
	for i, l := range locs {
		keys[i] = viewpoint.New(string(rune('a'+i)), l, mgl64.Vec3{0, 1, -0.5})
	}
	return keys
}

func pathLength(list []*viewpoint.Store) float64 {
	total := 0.0
	for i := 1; i < len(list); i++ {
		total += list[i].Location.Sub(list[i-1].Location).Len()
	}
	return total
}

// arcPosition returns how far along the keyframe polyline p lies.
func arcPosition(keys []*viewpoint.Store, p mgl64.Vec3) (float64, bool) {
	walked := 0.0
	for i := 0; i+1 < len(keys); i++ {
		a := keys[i].Location
		seg := keys[i+1].Location.Sub(a)
		l := seg.Len()
		if l == 0 {
			if common.NearVec3(a, p, 1e-9) {
				return walked, true
			}
			continue
		}
		f := p.Sub(a).Dot(seg) / (l * l)
		if f >= -1e-9 && f <= 1+1e-9 && common.NearVec3(a.Add(seg.Mul(f)), p, 1e-9) {
			return walked + f*l, true
		}
		walked += l
	}
	return 0, false
}

func TestFillFlyListRejectsDegenerateInput(t *testing.T) {
	keys := keyframes(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0})

	_, err := FillFlyList(keys, 1)
	assert.ErrorIs(t, err, ErrTooFewFrames)

	_, err = FillFlyList(keys[:1], 10)
	assert.ErrorIs(t, err, ErrTooFewViewpoints)

	_, err = FillFlyList(nil, 10)
	assert.ErrorIs(t, err, ErrTooFewViewpoints)
}

func TestFillFlyListLengthAndEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		keys   []*viewpoint.Store
		frames int
	}{
		{"two keys", keyframes(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}), 2},
		{"uneven spacing", keyframes(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 9, 0}, mgl64.Vec3{1, 9, 30}), 17},
		{"duplicate locations", keyframes(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{5, 5, 0}), 10},
		{"many frames", keyframes(mgl64.Vec3{}, mgl64.Vec3{3, 4, 0}, mgl64.Vec3{3, 4, 12}), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := FillFlyList(tt.keys, tt.frames)
			require.NoError(t, err)
			require.Len(t, list, tt.frames+2)

			first, last := tt.keys[0], tt.keys[len(tt.keys)-1]
			assert.True(t, list[0].Equal(first, 1e-12))
			assert.True(t, list[len(list)-1].Equal(last, 1e-12))
			assert.NotEqual(t, first.ID, list[0].ID)

			// frame k sits k steps along the keyframe path
			total := pathLength(tt.keys)
			step := total / float64(tt.frames)
			for k, s := range list {
				require.False(t, math.IsNaN(s.Location.Len()))
				at, ok := arcPosition(tt.keys, s.Location)
				require.True(t, ok, "frame %d off the path: %v", k, s.Location)
				assert.InDelta(t, float64(min(k, tt.frames))*step, at, 1e-6, "frame %d", k)
			}

			// chords cut corners, each by less than one step
			chords := pathLength(list)
			assert.LessOrEqual(t, chords, total+1e-9)
			assert.InDelta(t, total, chords, step*float64(len(tt.keys)-2)+1e-9)
		})
	}
}

func TestFillFlyListEvenSpacingAcrossCorners(t *testing.T) {
	keys := keyframes(mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{10, 10, 0})
	list, err := FillFlyList(keys, 4)
	require.NoError(t, err)

	want := []mgl64.Vec3{{0, 0, 0}, {5, 0, 0}, {10, 0, 0}, {10, 5, 0}, {10, 10, 0}, {10, 10, 0}}
	require.Len(t, list, len(want))
	for i, w := range want {
		assert.True(t, common.NearVec3(list[i].Location, w, 1e-9), "frame %d: %v", i, list[i].Location)
	}
}

func TestFillFlyListCoincidentKeys(t *testing.T) {
	keys := keyframes(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3})
	list, err := FillFlyList(keys, 5)
	require.NoError(t, err)
	require.Len(t, list, 7)
	for _, s := range list[1:6] {
		assert.True(t, s.Equal(keys[0], 1e-12))
	}
}

func TestPathViewpoints(t *testing.T) {
	samples := []mgl64.Vec3{{0, 0, 0}, {0, 10, 0}, {0, 10, 0}, {10, 10, 0}}
	bounds := common.Bounds{Center: mgl64.Vec3{5, 5, 0}, Radius: 50}

	list, err := PathViewpoints(samples, 5, bounds)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, []string{"0", "2", "3"}, viewpoint.NewList(list...).Names())
	assert.Equal(t, mgl64.Vec3{0, 0, 5}, list[0].Location)
	assert.Equal(t, mgl64.Vec3{0, 10, 5}, list[1].Location)
	assert.Equal(t, mgl64.Vec3{10, 10, 5}, list[2].Location)

	assert.InDelta(t, 0, list[0].Azimuth(), 1e-9)
	assert.InDelta(t, math.Pi/2, list[1].Azimuth(), 1e-9)
	for _, s := range list {
		assert.Equal(t, viewpoint.ModeHike, s.Mode)
		assert.InDelta(t, -PathTilt, s.Elevation(), 1e-9)
		near, far := common.ClipPlanes(s.Location, bounds)
		assert.Equal(t, near, s.Near)
		assert.Equal(t, far, s.Far)
	}
	assert.Equal(t, list[1].Direction(), list[2].Direction())
}

func TestPathViewpointsTooFewSamples(t *testing.T) {
	_, err := PathViewpoints([]mgl64.Vec3{{1, 1, 1}}, 5, common.Bounds{})
	assert.ErrorIs(t, err, ErrTooFewViewpoints)

	_, err = PathViewpoints([]mgl64.Vec3{{1, 1, 1}, {1, 1, 1}}, 5, common.Bounds{})
	assert.ErrorIs(t, err, ErrTooFewViewpoints)
}

func TestPathFlyListResamplesPathPoses(t *testing.T) {
	samples := []mgl64.Vec3{{0, 0, 0}, {0, 1, 0}, {0, 30, 0}, {10, 30, 0}}
	bounds := common.Bounds{Center: mgl64.Vec3{0, 15, 0}, Radius: 100}

	list, err := PathFlyList(samples, 20, 5, bounds)
	require.NoError(t, err)
	require.Len(t, list, 22)

	poses, err := PathViewpoints(samples, 5, bounds)
	require.NoError(t, err)
	for k, s := range list {
		assert.Equal(t, viewpoint.ModeHike, s.Mode)
		at, ok := arcPosition(poses, s.Location)
		require.True(t, ok, "frame %d off the path: %v", k, s.Location)
		assert.InDelta(t, 2*float64(min(k, 20)), at, 1e-9, "frame %d", k)
	}

	_, err = PathFlyList(samples, 1, 5, bounds)
	assert.ErrorIs(t, err, ErrTooFewFrames)

	_, err = PathFlyList(samples[:1], 20, 5, bounds)
	assert.ErrorIs(t, err, ErrTooFewViewpoints)
}

func TestParametersInterval(t *testing.T) {
	p := DefaultParameters()
	assert.Equal(t, 100, p.NumFrames)
	assert.Equal(t, 5.0, p.PathHeight)
	assert.Equal(t, int64(100), p.Interval().Milliseconds())

	p.Grab = true
	assert.Equal(t, MinGrabInterval, p.Interval())

	p.MillisPerFrame = 2500
	assert.Equal(t, int64(2500), p.Interval().Milliseconds())
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "00:00:00.000    Frame 0", FormatStatus(0, 100*time.Millisecond))
	assert.Equal(t, "00:00:12.300    Frame 123", FormatStatus(123, 100*time.Millisecond))
	assert.Equal(t, "01:01:01.001", FormatElapsed(3661001*time.Millisecond))
}
