package controller

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = errors.New("rejected")

type fakeNode struct {
	calls    []string
	mode     viewpoint.Mode
	lookAt   *mgl64.Vec3
	location mgl64.Vec3
	bounds   common.Bounds
	poses    []*viewpoint.Store
	reject   bool
}

func (n *fakeNode) record(format string, args ...any) {
	n.calls = append(n.calls, fmt.Sprintf(format, args...))
}

func (n *fakeNode) Drag(dx, dy float64)                   { n.record("drag %g %g", dx, dy) }
func (n *fakeNode) Rotate(tilt, az float64)               { n.record("rotate %g %g", tilt, az) }
func (n *fakeNode) Dolly(amount float64)                  { n.record("dolly %g", amount) }
func (n *fakeNode) Magnify(amount float64)                { n.record("magnify %g", amount) }
func (n *fakeNode) TranslateInScreenPlane(dx, dy float64) { n.record("translate %g %g", dx, dy) }
func (n *fakeNode) Mode() viewpoint.Mode                  { return n.mode }
func (n *fakeNode) Center() (float64, float64)            { return 400, 300 }
func (n *fakeNode) SceneBounds() common.Bounds            { return n.bounds }

func (n *fakeNode) SetLookAt(p *mgl64.Vec3) {
	n.lookAt = p
	if p == nil {
		n.record("lookat nil")
		return
	}
	n.record("lookat %g %g %g", p[0], p[1], p[2])
}

func (n *fakeNode) Pose(name string) *viewpoint.Store {
	s := viewpoint.New(name, n.location, viewpoint.DefaultDirection)
	s.Mode = n.mode
	return s
}

func (n *fakeNode) SetPose(s *viewpoint.Store, animate, recompute bool) {
	n.poses = append(n.poses, s)
	n.location = s.Location
	n.record("setpose %s %t %t", s.Name, animate, recompute)
}

func (n *fakeNode) ChangeLocation(p mgl64.Vec3) error {
	if n.reject {
		return errRejected
	}
	n.location = p
	return nil
}

func (n *fakeNode) ChangeDirection(d mgl64.Vec3) error {
	if n.reject {
		return errRejected
	}
	return nil
}

func (n *fakeNode) ChangeAzimuthElevation(az, el float64) { n.record("azel %.4f %.4f", az, el) }
func (n *fakeNode) ChangeMagnification(f float64)         { n.record("mag %g", f) }

type fakePicker struct {
	hit   bool
	calls int
}

func (p *fakePicker) Pick(x, y float64) (mgl64.Vec3, mgl64.Vec3, bool) {
	p.calls++
	return mgl64.Vec3{x, y, 0}, mgl64.Vec3{0, 0, 1}, p.hit
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(ms int) {
	c.now = c.now.Add(time.Duration(ms) * time.Millisecond)
}

type countingBeeper struct {
	beeps int
}

func (b *countingBeeper) Beep() { b.beeps++ }

type fixture struct {
	ctrl      Controller
	node      *fakeNode
	picker    *fakePicker
	clock     *fakeClock
	beeper    *countingBeeper
	scheduler *flythrough.ManualScheduler
}

func newFixture(t *testing.T, options ...ControllerBuilderOption) *fixture {
	t.Helper()
	f := &fixture{
		node:      &fakeNode{},
		picker:    &fakePicker{hit: true},
		clock:     &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		beeper:    &countingBeeper{},
		scheduler: flythrough.NewManualScheduler(),
	}
	base := []ControllerBuilderOption{
		WithClock(f.clock),
		WithBeeper(f.beeper),
		WithPlayerOptions(flythrough.WithScheduler(f.scheduler)),
	}
	f.ctrl = NewController(f.node, f.picker, append(base, options...)...)
	return f
}

func (f *fixture) reset() {
	f.node.calls = nil
	f.picker.calls = 0
}

func TestNewControllerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewController(nil, &fakePicker{}) })
	assert.Panics(t, func() { NewController(&fakeNode{}, nil) })
}

func TestMouseMoveDeltas(t *testing.T) {
	f := newFixture(t)

	// no previous position: zero delta
	f.ctrl.MouseMove(10, 10, 5, 5, common.MouseScreen)
	f.ctrl.MouseMove(13, 14, 3, 4, common.MouseScreen)
	// a reported jump beyond the threshold is ignored
	f.ctrl.MouseMove(300, 14, 287, 0, common.MouseScreen)
	f.ctrl.MouseMove(301, 12, 1, -2, common.MouseScreen)
	// pointer up resets tracking
	f.ctrl.MouseMove(0, 0, 0, 0, common.MouseNone)
	f.ctrl.MouseMove(50, 50, 49, 38, common.MouseScreen)

	assert.Equal(t, []string{
		"translate -0 -0",
		"translate -3 -4",
		"translate -0 -0",
		"translate -1 2",
		"translate -0 -0",
	}, f.node.calls)
}

func TestMouseMoveModes(t *testing.T) {
	f := newFixture(t)
	f.ctrl.MousePress(0, 0, common.MouseRotate)
	f.reset()
	f.ctrl.MouseMove(2, 3, 2, 3, common.MouseRotate)
	f.ctrl.MouseMove(4, 4, 2, 1, common.MousePan)
	assert.Equal(t, []string{"rotate 3 2", "drag 2 1"}, f.node.calls)
}

func TestMousePressClearsLookAt(t *testing.T) {
	tests := []struct {
		name   string
		button int
		mode   viewpoint.Mode
		clears bool
	}{
		{"pan button", common.MousePan, viewpoint.ModeFree, true},
		{"rotate button", common.MouseRotate, viewpoint.ModeFree, false},
		{"hike mode", common.MouseRotate, viewpoint.ModeHike, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.node.mode = tt.mode
			f.ctrl.MousePress(1, 1, tt.button)
			assert.Equal(t, tt.clears, len(f.node.calls) == 1 && f.node.calls[0] == "lookat nil")
		})
	}
}

func TestKineticFlick(t *testing.T) {
	f := newFixture(t)
	f.ctrl.MousePress(0, 0, common.MousePan)
	f.clock.advance(10)
	f.ctrl.MouseMove(0, 0, 0, 0, common.MousePan)
	f.clock.advance(10)
	f.ctrl.MouseMove(20, 0, 20, 0, common.MousePan)
	f.clock.advance(10)
	f.reset()

	f.ctrl.MouseRelease(20, 0, common.MousePan)
	assert.Zero(t, f.picker.calls, "coasting defers the look-at pick")

	f.ctrl.Update()
	require.Len(t, f.node.calls, 1)
	assert.Contains(t, f.node.calls[0], "drag ")

	f.clock.advance(5000)
	f.ctrl.Update()
	assert.Equal(t, 1, f.picker.calls)
	assert.Equal(t, "lookat 400 300 0", f.node.calls[len(f.node.calls)-1])

	f.reset()
	f.ctrl.Update()
	assert.Empty(t, f.node.calls)
}

func TestSlowReleasePicks(t *testing.T) {
	f := newFixture(t)
	f.ctrl.MousePress(0, 0, common.MousePan)
	f.ctrl.MouseMove(1, 0, 1, 0, common.MousePan)
	f.clock.advance(500)
	f.reset()
	f.ctrl.MouseRelease(1, 0, common.MousePan)
	assert.Equal(t, 1, f.picker.calls)

	f.reset()
	f.ctrl.Update()
	assert.Empty(t, f.node.calls)
}

func TestMouseScroll(t *testing.T) {
	f := newFixture(t)
	f.ctrl.MouseScroll(1)
	assert.Equal(t, []string{"dolly -2", "lookat 400 300 0"}, f.node.calls)

	f.reset()
	f.ctrl.EnableZoom(true)
	assert.True(t, f.ctrl.ZoomEnabled())
	f.ctrl.MouseScroll(1)
	assert.Equal(t, []string{"magnify 1"}, f.node.calls)

	f.reset()
	f.ctrl.SetScrollDirection(5)
	f.ctrl.SetScrollDirection(0)
	assert.Equal(t, 1, f.ctrl.ScrollDirection())
	f.ctrl.MouseScroll(2)
	assert.Equal(t, []string{"magnify -2"}, f.node.calls)
}

func TestUpdateLookAtMiss(t *testing.T) {
	f := newFixture(t)
	f.picker.hit = false
	f.ctrl.UpdateLookAt()
	assert.Empty(t, f.node.calls)
}

func TestKeyboardSteps(t *testing.T) {
	f := newFixture(t)
	for _, modified := range []bool{true, false} {
		f.ctrl.StepLeft(modified)
		f.ctrl.StepRight(modified)
		f.ctrl.StepUp(modified)
		f.ctrl.StepDown(modified)
	}
	assert.Equal(t, []string{
		"drag -1 0", "drag 1 0", "drag 0 1", "drag 0 -1",
		"rotate 0 1", "rotate 0 -1", "rotate 1 0", "rotate -1 0",
	}, f.node.calls)
}

func listOf(n int) *viewpoint.List {
	l := viewpoint.NewList()
	for i := range n {
		l.Insert(-1, viewpoint.New(fmt.Sprint(i), mgl64.Vec3{float64(i) * 10, 0, 0}, viewpoint.DefaultDirection))
	}
	return l
}

func TestNavigationWraps(t *testing.T) {
	f := newFixture(t, WithViewpointList(listOf(3)))
	f.ctrl.NextViewpoint()
	assert.Equal(t, 0, f.ctrl.ViewpointIndex())
	for range 3 {
		f.ctrl.NextViewpoint()
	}
	assert.Equal(t, 0, f.ctrl.ViewpointIndex())

	f.ctrl.PreviousViewpoint()
	assert.Equal(t, 2, f.ctrl.ViewpointIndex())
	assert.Equal(t, "setpose 2 true true", f.node.calls[len(f.node.calls)-1])

	f.ctrl.SetViewpointList(listOf(2))
	assert.Equal(t, -1, f.ctrl.ViewpointIndex())
	f.ctrl.PreviousViewpoint()
	assert.Equal(t, 1, f.ctrl.ViewpointIndex())
}

func TestNavigationEmptyListIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.ctrl.PreviousViewpoint()
	f.ctrl.NextViewpoint()
	assert.Equal(t, -1, f.ctrl.ViewpointIndex())
	assert.Empty(t, f.node.calls)
}

func TestGotoViewpoint(t *testing.T) {
	l := listOf(3)
	f := newFixture(t, WithViewpointList(l))
	f.ctrl.GotoViewpoint(l.At(1).Clone())
	assert.Equal(t, 1, f.ctrl.ViewpointIndex())
	assert.Same(t, l.At(1), f.node.poses[0])

	f.ctrl.GotoViewpoint(viewpoint.New("x", mgl64.Vec3{}, viewpoint.DefaultDirection))
	assert.Equal(t, 1, f.ctrl.ViewpointIndex())
	assert.Len(t, f.node.poses, 1)
}

func TestAddAndRemoveViewpoints(t *testing.T) {
	f := newFixture(t, WithViewpointList(listOf(4)))
	f.node.location = mgl64.Vec3{7, 7, 7}

	added := f.ctrl.AddViewpoint(2, "new")
	assert.Equal(t, 2, f.ctrl.ViewpointIndex())
	assert.Equal(t, 5, f.ctrl.ViewpointCount())
	assert.Equal(t, mgl64.Vec3{7, 7, 7}, added.Location)
	assert.Same(t, added, f.ctrl.ViewpointList().At(2))

	f.ctrl.AddViewpoint(-1, "end")
	assert.Equal(t, 5, f.ctrl.ViewpointIndex())

	f.ctrl.SetViewpointList(listOf(5))
	assert.Equal(t, 2, f.ctrl.RemoveViewpoints([]int{0, 2}))
	assert.Equal(t, 3, f.ctrl.ViewpointCount())
	assert.Equal(t, 2, f.ctrl.RemoveViewpoints([]int{7, -1}))
	assert.Equal(t, 3, f.ctrl.ViewpointCount())
	assert.Equal(t, -1, f.ctrl.RemoveViewpoints([]int{2, 1, 0}))
}

func TestEditing(t *testing.T) {
	f := newFixture(t)
	f.node.location = mgl64.Vec3{1, 2, 3}

	pose := f.ctrl.CurrentPose()
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, pose.Location)

	saved := viewpoint.New("keep", mgl64.Vec3{}, viewpoint.DefaultDirection)
	id := saved.ID
	f.ctrl.SaveViewpoint(saved)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, "keep", saved.Name)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, saved.Location)

	got, err := f.ctrl.ChangeLocation(mgl64.Vec3{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, got.Location)

	f.node.reject = true
	got, err = f.ctrl.ChangeLocation(mgl64.Vec3{9, 9, 9})
	assert.ErrorIs(t, err, errRejected)
	assert.Equal(t, mgl64.Vec3{4, 5, 6}, got.Location)
	_, err = f.ctrl.ChangeDirection(mgl64.Vec3{})
	assert.Error(t, err)
	assert.Equal(t, 2, f.beeper.beeps)

	f.ctrl.ChangeAzimuthElevation(90, -45)
	f.ctrl.ChangeMagnification(2)
	assert.Equal(t, []string{"azel 1.5708 -0.7854", "mag 2"}, f.node.calls)
}

func TestFlyViewpointsTooFewFramesIsNoOp(t *testing.T) {
	f := newFixture(t, WithViewpointList(listOf(3)))
	params := flythrough.DefaultParameters()
	params.NumFrames = 1
	assert.False(t, f.ctrl.FlyViewpoints(params))
	assert.Empty(t, f.ctrl.FlyList())
	assert.Equal(t, 3, f.ctrl.ViewpointCount())
}

func TestFlyViewpointsAndPlay(t *testing.T) {
	f := newFixture(t, WithViewpointList(listOf(3)))
	params := flythrough.DefaultParameters()
	params.NumFrames = 4
	require.True(t, f.ctrl.FlyViewpoints(params))
	require.Len(t, f.ctrl.FlyList(), 6)
	assert.Equal(t, 4, f.ctrl.Player().Parameters().NumFrames)

	f.ctrl.StartFlight()
	assert.Equal(t, flythrough.Playing, f.ctrl.FlightState())
	f.scheduler.Tick(2)
	f.ctrl.PauseFlight()
	assert.Equal(t, flythrough.Paused, f.ctrl.FlightState())
	f.ctrl.StopFlight()
	assert.Equal(t, flythrough.Stopped, f.ctrl.FlightState())
	assert.Equal(t, "setpose  true false", f.node.calls[len(f.node.calls)-1])
}

type line []mgl64.Vec3

func (l line) Curve(int) []mgl64.Vec3 { return l }

func TestFlyPath(t *testing.T) {
	f := newFixture(t)
	params := flythrough.DefaultParameters()
	params.NumFrames = 20
	require.True(t, f.ctrl.FlyPath(line{{0, 0, 0}, {0, 1, 0}, {0, 30, 0}, {10, 30, 0}}, params))
	frames := f.ctrl.FlyList()
	require.Len(t, frames, params.NumFrames+2)
	for _, s := range frames {
		assert.Equal(t, viewpoint.ModeHike, s.Mode)
		assert.InDelta(t, params.PathHeight, s.Location.Z(), 1e-9)
	}
	assert.Equal(t, 20, f.ctrl.Player().Parameters().NumFrames)

	// consecutive interpolated frames advance by the same distance on a straight run
	step := frames[2].Location.Sub(frames[1].Location).Len()
	assert.InDelta(t, step, frames[3].Location.Sub(frames[2].Location).Len(), 1e-9)

	assert.False(t, f.ctrl.FlyPath(line{{1, 1, 1}}, params))
	assert.False(t, f.ctrl.FlyPath(nil, params))

	params.NumFrames = 1
	assert.False(t, f.ctrl.FlyPath(line{{0, 0, 0}, {0, 10, 0}}, params))
	assert.Len(t, f.ctrl.FlyList(), 22)
}
