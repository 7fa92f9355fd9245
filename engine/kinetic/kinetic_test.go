package kinetic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

// seed drives the scroll into a coast with the given amplitude along +x.
func seed(t *testing.T, amplitude float64) Scroll {
	t.Helper()
	s := NewScroll()
	s.Reset(at(0))
	// one sample at elapsed 0: v = 0.8 * 100 * d
	d := amplitude / (0.8 * 0.8 * 100)
	s.Track(d, 0, at(0))
	require.True(t, s.Release(at(0)))
	require.InDelta(t, amplitude, s.Amplitude(), 1e-9)
	return s
}

func TestTrackVelocityMovingAverage(t *testing.T) {
	s := NewScroll()
	s.Reset(at(0))
	s.Track(3, 4, at(9))
	// 0.8 * (100 * 5 / 10) + 0.2 * 0
	assert.InDelta(t, 40, s.Velocity(), 1e-9)
	s.Track(0, 10, at(19))
	// 0.8 * (100 * 10 / 11) + 0.2 * 40
	assert.InDelta(t, 0.8*1000.0/11+8, s.Velocity(), 1e-9)
}

func TestReleaseRequiresFastRecentMotion(t *testing.T) {
	tests := []struct {
		name    string
		dx      float64
		release int
		want    bool
	}{
		{"fast and recent", 5, 50, true},
		{"too old", 5, 100, false},
		{"too slow", 0.1, 10, false},
		{"no motion", 0, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScroll()
			s.Reset(at(0))
			s.Track(tt.dx, 0, at(0))
			assert.Equal(t, tt.want, s.Release(at(tt.release)))
			assert.Equal(t, tt.want, s.Coasting())
		})
	}
}

func TestReleaseSeedsAmplitudeAndNormalizesDirection(t *testing.T) {
	s := NewScroll()
	s.Reset(at(0))
	s.Track(3, -4, at(4))
	v := s.Velocity()
	require.True(t, s.Release(at(10)))
	assert.InDelta(t, 0.8*v, s.Amplitude(), 1e-9)

	dx, dy, phase := s.Step(at(10))
	assert.Equal(t, Coasting, phase)
	assert.InDelta(t, 0.6*s.Amplitude(), dx, 1e-9)
	assert.InDelta(t, -0.8*s.Amplitude(), dy, 1e-9)
}

func TestDecayAtTimeConstant(t *testing.T) {
	s := seed(t, 40)
	assert.InDelta(t, 40*math.Exp(-1), s.Delta(325*time.Millisecond), 1e-9)
	assert.InDelta(t, 14.715, s.Delta(325*time.Millisecond), 1e-3)
	assert.Equal(t, 1425*time.Millisecond, s.StopAfter())
}

func TestStepStopsWithinStopAfter(t *testing.T) {
	s := seed(t, 40)
	stop := s.StopAfter()

	dx, _, phase := s.Step(at(325))
	assert.Equal(t, Coasting, phase)
	assert.InDelta(t, 40*math.Exp(-1), dx, 1e-9)

	_, _, phase = s.Step(at(int(stop.Milliseconds()) - 2))
	assert.Equal(t, Coasting, phase)

	_, _, phase = s.Step(at(int(stop.Milliseconds())))
	assert.Equal(t, Stopped, phase)
	assert.False(t, s.Coasting())

	_, _, phase = s.Step(at(5000))
	assert.Equal(t, Idle, phase)
}

func TestResetCancelsCoast(t *testing.T) {
	s := seed(t, 40)
	s.Reset(at(20))
	assert.Zero(t, s.Amplitude())
	assert.Zero(t, s.Velocity())
	assert.Equal(t, time.Duration(0), s.StopAfter())
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	assert.False(t, SystemClock{}.Now().Before(before))
}
