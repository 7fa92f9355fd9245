package capture

import "github.com/rs/zerolog"

// GrabberBuilderOption is a functional option for configuring a Grabber.
type GrabberBuilderOption func(*grabberImpl)

// WithWorkers sets the number of concurrent PNG encoders. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of encoder goroutines (minimum 1)
//
// Returns:
//   - GrabberBuilderOption: option function to apply
func WithWorkers(n int) GrabberBuilderOption {
	return func(g *grabberImpl) {
		g.workers = max(n, 1)
	}
}

// WithLogger sets the grabber's logger.
func WithLogger(logger zerolog.Logger) GrabberBuilderOption {
	return func(g *grabberImpl) {
		g.logger = logger
	}
}
