package audio

import (
	"time"

	"github.com/rs/zerolog"
)

// BeeperBuilderOption is a functional option for configuring a Beeper.
type BeeperBuilderOption func(*Beeper)

// WithFrequency sets the tone pitch in Hz.
func WithFrequency(hz float64) BeeperBuilderOption {
	return func(b *Beeper) {
		if hz > 0 {
			b.frequency = hz
		}
	}
}

// WithDuration sets the tone length.
func WithDuration(d time.Duration) BeeperBuilderOption {
	return func(b *Beeper) {
		if d > 0 {
			b.duration = d
		}
	}
}

// WithVolume sets the linear gain in [0, 1]; 0 mutes the beeper.
func WithVolume(gain float64) BeeperBuilderOption {
	return func(b *Beeper) {
		b.volume = gain
	}
}

// WithLogger sets the beeper's logger.
func WithLogger(logger zerolog.Logger) BeeperBuilderOption {
	return func(b *Beeper) {
		b.logger = logger
	}
}
