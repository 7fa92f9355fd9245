// Package flythrough builds dense, constant-velocity pose sequences from sparse keyframes
// or paths and plays them back on a scheduler.
package flythrough

import (
	"errors"
	"math"
	"strconv"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

var (
	// ErrTooFewFrames is returned when fewer than two frames are requested.
	ErrTooFewFrames = errors.New("flythrough: at least two frames are required")

	// ErrTooFewViewpoints is returned when fewer than two distinct keyframes are given.
	ErrTooFewViewpoints = errors.New("flythrough: at least two viewpoints are required")
)

// PathTilt is how far below the horizon the camera looks while following a path.
const PathTilt = math.Pi / 20

// FillFlyList resamples keys into numFrames+2 poses spaced evenly by arc length.
// The result starts with a copy of the first keyframe, continues with numFrames poses at
// arc-length distances δ, 2δ, ..., numFrames·δ (δ = total length / numFrames) and ends
// with a copy of the last keyframe. Zero-length segments are skipped. Rounding past the
// end of the path clamps to the end of the last segment with non-zero length. When all
// keyframes share a location every interpolated pose is a copy of the first keyframe.
//
// Parameters:
//   - keys: the keyframes in flight order
//   - numFrames: the number of interpolated frames
//
// Returns:
//   - []*viewpoint.Store: the dense pose list
//   - error: ErrTooFewFrames or ErrTooFewViewpoints
func FillFlyList(keys []*viewpoint.Store, numFrames int) ([]*viewpoint.Store, error) {
	if numFrames <= 1 {
		return nil, ErrTooFewFrames
	}
	if len(keys) <= 1 {
		return nil, ErrTooFewViewpoints
	}

	total := 0.0
	lastGood := -1
	for i := 0; i < len(keys)-1; i++ {
		l := segmentLength(keys, i)
		total += l
		if l > 0 {
			lastGood = i
		}
	}

	out := make([]*viewpoint.Store, 0, numFrames+2)
	out = append(out, frameCopy(keys[0]))

	if lastGood < 0 {
		for range numFrames {
			out = append(out, viewpoint.Inbetween(keys[0], keys[1], 0))
		}
		out = append(out, frameCopy(keys[len(keys)-1]))
		return out, nil
	}

	step := total / float64(numFrames)
	seg := 0
	segLen := segmentLength(keys, 0)
	d := step
	for range numFrames {
		for d > segLen && seg < lastGood {
			d -= segLen
			seg++
			segLen = segmentLength(keys, seg)
		}
		frac := math.Min(d/segLen, 1)
		out = append(out, viewpoint.Inbetween(keys[seg], keys[seg+1], frac))
		d += step
	}
	out = append(out, frameCopy(keys[len(keys)-1]))
	return out, nil
}

// PathViewpoints converts curve samples into Hike-mode poses walking the curve at height.
// Each pose sits on sample i raised by height, heads toward sample i+1 (also raised) and
// looks PathTilt below the horizon. Pairs whose raised samples coincide are skipped.
// A final pose stands on the last look-at point facing the last direction. Clip distances
// are fitted to bounds.
//
// Parameters:
//   - samples: the sampled curve
//   - height: vertical offset above the curve
//   - bounds: the scene bounds used to fit clip distances
//
// Returns:
//   - []*viewpoint.Store: the poses named by sample index
//   - error: ErrTooFewViewpoints if fewer than two distinct samples are given
func PathViewpoints(samples []mgl64.Vec3, height float64, bounds common.Bounds) ([]*viewpoint.Store, error) {
	raise := mgl64.Vec3{0, 0, height}
	var (
		out      []*viewpoint.Store
		lastLook mgl64.Vec3
		lastDir  mgl64.Vec3
		az       float64
	)
	for i := 0; i+1 < len(samples); i++ {
		loc := samples[i].Add(raise)
		look := samples[i+1].Add(raise)
		d := look.Sub(loc)
		if d.Len() == 0 {
			continue
		}
		if math.Hypot(d[0], d[1]) > common.Epsilon {
			az, _ = viewpoint.AzimuthElevation(d.Normalize())
		}
		s := pathPose(strconv.Itoa(i), loc, bounds)
		s.SetAzimuthElevation(az, -PathTilt)
		out = append(out, s)
		lastLook, lastDir = look, s.Direction()
	}
	if len(out) == 0 {
		return nil, ErrTooFewViewpoints
	}
	final := pathPose(strconv.Itoa(len(samples)-1), lastLook, bounds)
	final.SetDirection(lastDir)
	return append(out, final), nil
}

// PathFlyList turns curve samples into a constant-velocity fly list walking the curve.
// The poses from PathViewpoints are resampled with FillFlyList and every frame is
// tagged Hike.
//
// Parameters:
//   - samples: the sampled curve
//   - numFrames: the number of interpolated frames
//   - height: vertical offset above the curve
//   - bounds: the scene bounds used to fit clip distances
//
// Returns:
//   - []*viewpoint.Store: numFrames+2 Hike-mode poses
//   - error: ErrTooFewFrames or ErrTooFewViewpoints
func PathFlyList(samples []mgl64.Vec3, numFrames int, height float64, bounds common.Bounds) ([]*viewpoint.Store, error) {
	if numFrames <= 1 {
		return nil, ErrTooFewFrames
	}
	poses, err := PathViewpoints(samples, height, bounds)
	if err != nil {
		return nil, err
	}
	out, err := FillFlyList(poses, numFrames)
	if err != nil {
		return nil, err
	}
	for _, s := range out {
		s.Mode = viewpoint.ModeHike
	}
	return out, nil
}

func pathPose(name string, loc mgl64.Vec3, bounds common.Bounds) *viewpoint.Store {
	s := viewpoint.New(name, loc, viewpoint.DefaultDirection)
	s.Mode = viewpoint.ModeHike
	s.Near, s.Far = common.ClipPlanes(loc, bounds)
	return s
}

func segmentLength(keys []*viewpoint.Store, i int) float64 {
	return keys[i+1].Location.Sub(keys[i].Location).Len()
}

func frameCopy(s *viewpoint.Store) *viewpoint.Store {
	c := s.Clone()
	c.ID = uuid.New()
	return c
}
