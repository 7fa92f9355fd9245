// Package kinetic models inertial "flick to pan" scrolling: drag samples feed a smoothed
// velocity estimate, and a fast release seeds a coast whose speed decays exponentially
// with wall-clock time, so the deceleration does not depend on the tick rate.
package kinetic

import (
	"math"
	"sync"
	"time"
)

const (
	// TimeConstant is the decay time constant of a coast.
	TimeConstant = 325 * time.Millisecond

	// StopThreshold is the delta at or below which a coast ends.
	StopThreshold = 0.5

	// MinReleaseVelocity is the velocity a release must exceed to start coasting.
	MinReleaseVelocity = 10.0

	// MaxReleaseAge is how recent the last drag sample must be at release.
	MaxReleaseAge = 100 * time.Millisecond

	// amplitudeGain scales the release velocity into the initial coast amplitude.
	amplitudeGain = 0.8

	// velocitySmoothing weights the newest sample in the velocity moving average.
	velocitySmoothing = 0.8
)

// Phase reports what a Step did.
type Phase int

const (
	// Idle means there is no coast in progress.
	Idle Phase = iota
	// Coasting means the returned delta should be applied.
	Coasting
	// Stopped means the coast ended on this step.
	Stopped
)

// Clock supplies the current time. It is injected so tests can drive the decay.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

type scrollImpl struct {
	mu *sync.Mutex

	lastDx, lastDy float64
	velocity       float64
	amplitude      float64
	timestamp      time.Time
}

// Scroll is the kinetic scroll state machine.
// It is Idle while the amplitude is zero and Coasting otherwise.
type Scroll interface {
	// Reset clears velocity and amplitude and restarts the sample clock, as on a button press.
	//
	// Parameters:
	//   - now: the press time
	Reset(now time.Time)

	// Track records a drag sample and updates the velocity moving average.
	//
	// Parameters:
	//   - dx, dy: the pointer delta of this sample
	//   - now: the sample time
	Track(dx, dy float64, now time.Time)

	// Release seeds a coast if the last sample was fast and recent enough.
	//
	// Parameters:
	//   - now: the release time
	//
	// Returns:
	//   - bool: true if the scroll is now coasting
	Release(now time.Time) bool

	// Step advances the coast to now.
	//
	// Parameters:
	//   - now: the tick time
	//
	// Returns:
	//   - dx, dy: the drag to apply while coasting
	//   - Phase: Coasting while moving, Stopped on the step that ends the coast, Idle otherwise
	Step(now time.Time) (dx, dy float64, phase Phase)

	// Delta returns the decayed coast delta after elapsed time since the release.
	//
	// Parameters:
	//   - elapsed: time since the coast was seeded
	//
	// Returns:
	//   - float64: amplitude * exp(-elapsed / TimeConstant)
	Delta(elapsed time.Duration) float64

	// StopAfter returns how long the current coast lasts before the delta drops to StopThreshold.
	//
	// Returns:
	//   - time.Duration: the coast duration rounded up to whole milliseconds, 0 when idle
	StopAfter() time.Duration

	// Velocity returns the current velocity estimate.
	Velocity() float64

	// Amplitude returns the current coast amplitude.
	Amplitude() float64

	// Coasting reports whether a coast is in progress.
	Coasting() bool
}

var _ Scroll = &scrollImpl{}

// NewScroll creates an idle kinetic scroll.
//
// Returns:
//   - Scroll: the new scroll model
func NewScroll() Scroll {
	return &scrollImpl{mu: &sync.Mutex{}}
}

func (s *scrollImpl) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.velocity = 0
	s.amplitude = 0
	s.timestamp = now
}

func (s *scrollImpl) Track(dx, dy float64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := millis(now.Sub(s.timestamp))
	s.timestamp = now
	v := 100 * math.Hypot(dx, dy) / (1 + elapsed)
	s.velocity = velocitySmoothing*v + (1-velocitySmoothing)*s.velocity
	s.lastDx, s.lastDy = dx, dy
}

func (s *scrollImpl) Release(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amplitude = 0
	if math.Abs(s.velocity) <= MinReleaseVelocity || now.Sub(s.timestamp) >= MaxReleaseAge {
		return false
	}
	l := math.Hypot(s.lastDx, s.lastDy)
	if l == 0 {
		return false
	}
	s.lastDx /= l
	s.lastDy /= l
	s.amplitude = amplitudeGain * s.velocity
	s.timestamp = now
	return true
}

func (s *scrollImpl) Step(now time.Time) (float64, float64, Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.amplitude == 0 {
		return 0, 0, Idle
	}
	delta := s.delta(now.Sub(s.timestamp))
	if math.Abs(delta) > StopThreshold {
		return s.lastDx * delta, s.lastDy * delta, Coasting
	}
	s.amplitude = 0
	return 0, 0, Stopped
}

func (s *scrollImpl) Delta(elapsed time.Duration) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delta(elapsed)
}

func (s *scrollImpl) StopAfter() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := math.Abs(s.amplitude)
	if a <= StopThreshold {
		return 0
	}
	ms := math.Ceil(millis(TimeConstant) * math.Log(a/StopThreshold))
	return time.Duration(ms) * time.Millisecond
}

func (s *scrollImpl) Velocity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.velocity
}

func (s *scrollImpl) Amplitude() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amplitude
}

func (s *scrollImpl) Coasting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amplitude != 0
}

func (s *scrollImpl) delta(elapsed time.Duration) float64 {
	return s.amplitude * math.Exp(-millis(elapsed)/millis(TimeConstant))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
