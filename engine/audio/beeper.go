// Package audio plays the short warning tone used to signal a rejected edit.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const (
	sampleRate = beep.SampleRate(44100)

	// DefaultFrequency is the pitch of the warning tone in Hz.
	DefaultFrequency = 880.0
	// DefaultDuration is the length of the warning tone.
	DefaultDuration = 120 * time.Millisecond

	fadeDuration = 10 * time.Millisecond
)

// Beeper plays the warning tone on the default audio device.
type Beeper struct {
	mu *sync.Mutex

	frequency   float64
	duration    time.Duration
	volume      float64
	logger      zerolog.Logger
	initialized bool
}

// NewBeeper creates a Beeper. Call Init before the first Beep; an uninitialized Beeper is silent.
//
// Parameters:
//   - options: optional configuration
//
// Returns:
//   - *Beeper: the new beeper
func NewBeeper(options ...BeeperBuilderOption) *Beeper {
	b := &Beeper{
		mu:        &sync.Mutex{},
		frequency: DefaultFrequency,
		duration:  DefaultDuration,
		volume:    0.5,
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Init opens the audio device. Safe to call more than once.
//
// Returns:
//   - error: error if the speaker cannot be opened
func (b *Beeper) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	b.initialized = true
	return nil
}

// Beep plays the warning tone without blocking.
func (b *Beeper) Beep() {
	b.mu.Lock()
	initialized := b.initialized
	s := b.streamer()
	b.mu.Unlock()

	if !initialized {
		b.logger.Debug().Msg("beep (audio not initialized)")
		return
	}
	speaker.Play(s)
}

// Close stops playback and releases the audio device.
func (b *Beeper) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.initialized = false
}

func (b *Beeper) streamer() beep.Streamer {
	return withVolume(newTone(b.frequency, b.duration, sampleRate), b.volume)
}

// tone is a sine wave with a linear fade in and out.
type tone struct {
	step     float64
	phase    float64
	position int
	total    int
	fade     int
}

// newTone creates a sine tone streamer.
//
// Parameters:
//   - freq: the pitch in Hz
//   - duration: the tone length
//   - rate: the output sample rate
//
// Returns:
//   - beep.Streamer: the tone
func newTone(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	return &tone{
		step:  freq / float64(rate),
		total: total,
		fade:  min(rate.N(fadeDuration), total/2),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		gain := 1.0
		if t.fade > 0 {
			if t.position < t.fade {
				gain = float64(t.position) / float64(t.fade)
			} else if rest := t.total - t.position; rest < t.fade {
				gain = float64(rest) / float64(t.fade)
			}
		}
		v := gain * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.step
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// withVolume scales s by a linear gain. A gain of zero or less is silent.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
