// Package profiler reports frame rate and memory statistics of the render loop.
package profiler

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is how often statistics are reported.
const DefaultInterval = time.Second

// Profiler tracks frame rate and memory statistics.
// It is driven by the render goroutine and is not safe for concurrent use.
type Profiler struct {
	logger         zerolog.Logger
	frameCount     int
	captured       int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a Profiler that logs at debug level every interval.
// Intervals of zero or less use DefaultInterval.
//
// Parameters:
//   - logger: the destination for the statistics
//   - interval: the reporting interval
//
// Returns:
//   - *Profiler: the new profiler
func NewProfiler(logger zerolog.Logger, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Profiler{
		logger:         logger,
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Tick records one rendered frame, counting it as captured when grabbed is true, and
// logs the statistics once the interval has elapsed.
//
// Parameters:
//   - grabbed: the frame was written to the image sequence
//
// Returns:
//   - bool: true if statistics were logged on this call
func (p *Profiler) Tick(grabbed bool) bool {
	p.frameCount++
	if grabbed {
		p.captured++
	}
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var maxPause time.Duration
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			maxPause = max(maxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
	}

	p.logger.Debug().
		Float64("fps", float64(p.frameCount)/elapsed.Seconds()).
		Int("captured", p.captured).
		Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024).
		Float64("alloc_mb_s", float64(allocDelta)/1024/1024/elapsed.Seconds()).
		Uint32("gc", gcCount).
		Dur("gc_max_pause", maxPause).
		Float64("sys_mb", float64(p.memStats.Sys)/1024/1024).
		Msg("render stats")

	p.frameCount = 0
	p.captured = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
