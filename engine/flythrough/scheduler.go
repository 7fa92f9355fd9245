package flythrough

import (
	"sync"
	"time"
)

// Scheduler is a periodic tick source. Schedule replaces any previously armed callback.
// After Cancel returns no further callback of the cancelled schedule runs.
type Scheduler interface {
	// Schedule arms fn to run every interval.
	//
	// Parameters:
	//   - interval: the time between two calls
	//   - fn: the tick callback
	Schedule(interval time.Duration, fn func())

	// Cancel disarms the scheduler. Cancelling an idle scheduler does nothing.
	Cancel()
}

// Dispatch hands a tick callback to the goroutine that owns the viewpoint state.
type Dispatch func(fn func())

type tickerSchedulerImpl struct {
	mu *sync.Mutex

	dispatch   Dispatch
	generation uint64
	quit       chan struct{}
	quitOnce   *sync.Once
}

var _ Scheduler = &tickerSchedulerImpl{}

// NewTickerScheduler creates a Scheduler backed by a time.Ticker goroutine.
// Ticks are not run on the ticker goroutine but handed to dispatch, typically the engine's
// Post, so they run on the same goroutine as input handling. A tick that was dispatched
// before Cancel but runs after it is dropped.
//
// Parameters:
//   - dispatch: the function that runs tick callbacks; nil runs them on the ticker goroutine
//
// Returns:
//   - Scheduler: the new scheduler
func NewTickerScheduler(dispatch Dispatch) Scheduler {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &tickerSchedulerImpl{
		mu:       &sync.Mutex{},
		dispatch: dispatch,
	}
}

func (s *tickerSchedulerImpl) Schedule(interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	s.generation++
	gen := s.generation
	quit := make(chan struct{})
	s.quit = quit
	s.quitOnce = &sync.Once{}

	guarded := func() {
		s.mu.Lock()
		current := s.generation == gen && s.quit != nil
		s.mu.Unlock()
		if current {
			fn()
		}
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.dispatch(guarded)
			case <-quit:
				return
			}
		}
	}()
}

func (s *tickerSchedulerImpl) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *tickerSchedulerImpl) stopLocked() {
	if s.quit == nil {
		return
	}
	quit := s.quit
	s.quitOnce.Do(func() { close(quit) })
	s.quit = nil
	s.generation++
}

// ManualScheduler is a Scheduler whose ticks are fired explicitly with Tick.
type ManualScheduler struct {
	interval time.Duration
	fn       func()
	armed    bool
	ticks    int
}

var _ Scheduler = &ManualScheduler{}

// NewManualScheduler creates an idle ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule arms fn.
func (m *ManualScheduler) Schedule(interval time.Duration, fn func()) {
	m.interval = interval
	m.fn = fn
	m.armed = true
}

// Cancel disarms the scheduler.
func (m *ManualScheduler) Cancel() {
	m.armed = false
	m.fn = nil
}

// Tick fires the armed callback n times, stopping early if the callback cancels.
//
// Parameters:
//   - n: the number of ticks to fire
//
// Returns:
//   - int: the number of callbacks actually run
func (m *ManualScheduler) Tick(n int) int {
	ran := 0
	for range n {
		if !m.armed || m.fn == nil {
			break
		}
		m.ticks++
		ran++
		m.fn()
	}
	return ran
}

// Armed reports whether a callback is scheduled.
func (m *ManualScheduler) Armed() bool {
	return m.armed
}

// Interval returns the interval of the last Schedule call.
func (m *ManualScheduler) Interval() time.Duration {
	return m.interval
}

// Ticks returns the total number of callbacks run.
func (m *ManualScheduler) Ticks() int {
	return m.ticks
}
