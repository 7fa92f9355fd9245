package flythrough

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setPoseCall struct {
	store           *viewpoint.Store
	animate, lookAt bool
}

type fakePoser struct {
	pose  *viewpoint.Store
	calls []setPoseCall
}

func (f *fakePoser) Pose() *viewpoint.Store {
	return f.pose.Clone()
}

func (f *fakePoser) SetPose(s *viewpoint.Store, animate, recomputeLookAt bool) {
	f.calls = append(f.calls, setPoseCall{s, animate, recomputeLookAt})
	f.pose = s.Clone()
}

type fakeDriver struct {
	suspended bool
	suspends  []bool
	frames    int
	capture   []string
}

func (f *fakeDriver) SuspendMainLoop(suspend bool) {
	f.suspended = suspend
	f.suspends = append(f.suspends, suspend)
}

func (f *fakeDriver) RequestFrameUpdate() {
	f.frames++
}

func (f *fakeDriver) EnableFrameCapture(path string) {
	f.capture = append(f.capture, path)
}

type fakeSink struct {
	statuses []string
	stopped  int
}

func (f *fakeSink) Status(msg string) {
	f.statuses = append(f.statuses, msg)
}

func (f *fakeSink) Stopped() {
	f.stopped++
}

type playerFixture struct {
	player    Player
	poser     *fakePoser
	driver    *fakeDriver
	sink      *fakeSink
	scheduler *ManualScheduler
	home      *viewpoint.Store
}

func newPlayerFixture(t *testing.T, frames int, params Parameters) *playerFixture {
	t.Helper()
	f := &playerFixture{
		home:      viewpoint.New("home", mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{0, 0, -1}),
		driver:    &fakeDriver{},
		sink:      &fakeSink{},
		scheduler: NewManualScheduler(),
	}
	f.poser = &fakePoser{pose: f.home}
	f.player = NewPlayer(f.poser, f.driver,
		WithScheduler(f.scheduler),
		WithStatusSink(f.sink),
		WithParameters(params),
	)
	list := make([]*viewpoint.Store, frames)
	for i := range list {
		list[i] = viewpoint.New("f", mgl64.Vec3{float64(i), 0, 0}, viewpoint.DefaultDirection)
	}
	f.player.SetFlyList(list)
	return f
}

func TestNewPlayerPanicsOnNilCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewPlayer(nil, &fakeDriver{}) })
	assert.Panics(t, func() { NewPlayer(&fakePoser{}, nil) })
}

func TestPlayerPlaysToEndAndStops(t *testing.T) {
	f := newPlayerFixture(t, 3, DefaultParameters())

	f.player.Start()
	require.Equal(t, Playing, f.player.State())
	assert.True(t, f.driver.suspended)
	assert.Equal(t, 100*time.Millisecond, f.scheduler.Interval())
	assert.Empty(t, f.driver.capture)

	assert.Equal(t, 3, f.scheduler.Tick(10))
	assert.Equal(t, Stopped, f.player.State())
	assert.False(t, f.scheduler.Armed())
	assert.Equal(t, 0, f.player.Index())

	// three frames then the restore
	require.Len(t, f.poser.calls, 4)
	for i, c := range f.poser.calls[:3] {
		assert.Same(t, f.player.FlyList()[i], c.store)
		assert.True(t, c.animate)
		assert.False(t, c.lookAt)
	}
	restore := f.poser.calls[3]
	assert.True(t, restore.store.Equal(f.home, 1e-12))
	assert.True(t, restore.animate)
	assert.False(t, restore.lookAt)

	assert.Equal(t, 3, f.driver.frames)
	assert.Equal(t, []bool{true, false}, f.driver.suspends)
	assert.Equal(t, []string{""}, f.driver.capture)
	assert.Equal(t, []string{
		"00:00:00.000    Frame 0",
		"00:00:00.100    Frame 1",
		"00:00:00.200    Frame 2",
	}, f.sink.statuses)
	assert.Equal(t, 1, f.sink.stopped)
}

func TestPlayerLoopWraps(t *testing.T) {
	params := DefaultParameters()
	params.Loop = true
	f := newPlayerFixture(t, 3, params)

	f.player.Start()
	assert.Equal(t, 7, f.scheduler.Tick(7))
	assert.Equal(t, Playing, f.player.State())
	assert.Equal(t, 1, f.player.Index())
	assert.Equal(t, "00:00:00.000    Frame 0", f.sink.statuses[6])
	assert.Zero(t, f.sink.stopped)
}

func TestPlayerPauseResumePreservesIndex(t *testing.T) {
	f := newPlayerFixture(t, 5, DefaultParameters())

	f.player.Start()
	f.scheduler.Tick(2)
	f.player.Pause()
	assert.Equal(t, Paused, f.player.State())
	assert.False(t, f.scheduler.Armed())
	assert.Equal(t, 2, f.player.Index())
	assert.Zero(t, f.scheduler.Tick(1))

	f.player.Start()
	assert.Equal(t, Playing, f.player.State())
	assert.Equal(t, []bool{true}, f.driver.suspends)
	f.scheduler.Tick(1)
	assert.Same(t, f.player.FlyList()[2], f.poser.calls[2].store)

	f.player.Stop()
	assert.Equal(t, Stopped, f.player.State())
	assert.True(t, f.poser.pose.Equal(f.home, 1e-12))
}

func TestPlayerGrabForcesSlowCadenceAndCapture(t *testing.T) {
	params := DefaultParameters()
	params.Grab = true
	params.ImageSequencePath = "/tmp/frames"
	f := newPlayerFixture(t, 2, params)

	f.player.Start()
	assert.Equal(t, MinGrabInterval, f.scheduler.Interval())
	f.scheduler.Tick(2)
	assert.Equal(t, []string{"/tmp/frames", ""}, f.driver.capture)
	assert.Equal(t, "00:00:01.000    Frame 1", f.sink.statuses[1])
}

func TestPlayerNoOps(t *testing.T) {
	f := newPlayerFixture(t, 0, DefaultParameters())
	f.player.Start()
	assert.Equal(t, Stopped, f.player.State())
	assert.False(t, f.scheduler.Armed())
	assert.Empty(t, f.driver.suspends)

	f.player.Stop()
	f.player.Pause()
	assert.Zero(t, f.sink.stopped)
	assert.Empty(t, f.poser.calls)

	g := newPlayerFixture(t, 2, DefaultParameters())
	g.player.Start()
	g.player.Start()
	assert.Equal(t, []bool{true}, g.driver.suspends)
}

func TestSetFlyListStopsPlayback(t *testing.T) {
	f := newPlayerFixture(t, 4, DefaultParameters())
	f.player.Start()
	f.scheduler.Tick(1)
	f.player.SetFlyList(nil)
	assert.Equal(t, Stopped, f.player.State())
	assert.Equal(t, 1, f.sink.stopped)
	assert.Empty(t, f.player.FlyList())
}

func TestTickerSchedulerDispatchesAndCancels(t *testing.T) {
	posted := make(chan func(), 16)
	s := NewTickerScheduler(func(fn func()) { posted <- fn })

	ticks := make(chan struct{}, 16)
	s.Schedule(time.Millisecond, func() { ticks <- struct{}{} })

	var fn func()
	select {
	case fn = <-posted:
	case <-time.After(time.Second):
		t.Fatal("no tick dispatched")
	}
	fn()
	assert.Len(t, ticks, 1)

	s.Cancel()
	// ticks dispatched before Cancel are dropped when they run
	for {
		select {
		case stale := <-posted:
			stale()
			continue
		default:
		}
		break
	}
	assert.Len(t, ticks, 1)
	s.Cancel()
}
