// Package capture writes rendered frames to disk as a numbered PNG image sequence.
package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/rs/zerolog"
)

// FileName returns the image sequence file name for frame.
//
// Parameters:
//   - frame: the frame number
//
// Returns:
//   - string: the name, e.g. frame_000042.png
func FileName(frame int) string {
	return fmt.Sprintf("frame_%06d.png", frame)
}

// Grabber encodes frames to PNG files on a worker pool.
type Grabber interface {
	// Enable starts writing frames under path, creating the directory if needed.
	// An empty path disables capture.
	//
	// Parameters:
	//   - path: the output directory, or "" to disable
	//
	// Returns:
	//   - error: error if the directory cannot be created
	Enable(path string) error

	// Enabled reports whether frames are being written.
	Enabled() bool

	// Path returns the output directory, "" when disabled.
	Path() string

	// Capture queues img for writing as frame number frame. Does nothing when disabled.
	//
	// Parameters:
	//   - frame: the frame number used in the file name
	//   - img: the frame pixels
	Capture(frame int, img image.Image)

	// Wait blocks until every queued frame has been written.
	Wait()

	// Written returns the number of frames written successfully.
	Written() int
}

type grabberImpl struct {
	mu *sync.Mutex

	path    string
	written int
	pending sync.WaitGroup

	pool    worker.DynamicWorkerPool
	workers int
	logger  zerolog.Logger
	metrics *grabberMetrics
}

var _ Grabber = &grabberImpl{}

// NewGrabber creates a disabled Grabber.
//
// Parameters:
//   - options: optional configuration
//
// Returns:
//   - Grabber: the new grabber
func NewGrabber(options ...GrabberBuilderOption) Grabber {
	g := &grabberImpl{
		mu:      &sync.Mutex{},
		workers: max(runtime.NumCPU()-1, 1),
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(g)
	}
	// Queue size leaves room for a burst of frames while the encoders catch up.
	g.pool = worker.NewDynamicWorkerPool(g.workers, 64, 5*time.Second)
	g.metrics = newGrabberMetrics(g.logger)
	return g
}

func (g *grabberImpl) Enable(path string) error {
	if path != "" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create capture directory %q: %w", path, err)
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.path = path
	if path == "" {
		g.logger.Debug().Msg("frame capture disabled")
	} else {
		g.logger.Info().Str("path", path).Msg("frame capture enabled")
	}
	return nil
}

func (g *grabberImpl) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.path != ""
}

func (g *grabberImpl) Path() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.path
}

func (g *grabberImpl) Capture(frame int, img image.Image) {
	g.mu.Lock()
	path := g.path
	g.mu.Unlock()
	if path == "" || img == nil {
		return
	}

	file := filepath.Join(path, FileName(frame))
	g.pending.Add(1)
	g.pool.SubmitTask(worker.Task{
		ID: frame,
		Do: func() (any, error) {
			defer g.pending.Done()
			if err := writePNG(file, img); err != nil {
				g.logger.Error().Err(err).Str("file", file).Msg("writing frame")
				g.metrics.failures.Add(context.Background(), 1)
				return nil, err
			}
			g.mu.Lock()
			g.written++
			g.mu.Unlock()
			g.metrics.frames.Add(context.Background(), 1)
			return file, nil
		},
	})
}

func (g *grabberImpl) Wait() {
	g.pending.Wait()
}

func (g *grabberImpl) Written() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.written
}

func writePNG(file string, img image.Image) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create %s: %w", file, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", file, cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", file, err)
	}
	return nil
}
