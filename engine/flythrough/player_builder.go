package flythrough

import "github.com/rs/zerolog"

type PlayerBuilderOption func(*playerImpl)

// WithScheduler sets the tick source. Defaults to a TickerScheduler running ticks on its own goroutine.
//
// Parameters:
//   - s: the scheduler to use
//
// Returns:
//   - PlayerBuilderOption: a function that sets the scheduler
func WithScheduler(s Scheduler) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.scheduler = s
	}
}

// WithStatusSink sets the receiver of playback progress. Defaults to the logger.
//
// Parameters:
//   - sink: the status receiver
//
// Returns:
//   - PlayerBuilderOption: a function that sets the status sink
func WithStatusSink(sink StatusSink) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.sink = sink
	}
}

// WithParameters sets the initial playback parameters.
//
// Parameters:
//   - params: the playback parameters
//
// Returns:
//   - PlayerBuilderOption: a function that sets the parameters
func WithParameters(params Parameters) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.params = params
	}
}

// WithLogger sets the player's logger.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - PlayerBuilderOption: a function that sets the logger
func WithLogger(logger zerolog.Logger) PlayerBuilderOption {
	return func(p *playerImpl) {
		p.logger = logger
	}
}
