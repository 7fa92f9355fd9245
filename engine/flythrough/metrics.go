package flythrough

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"

type playerMetrics struct {
	frames  metric.Int64Counter
	flights metric.Int64Counter
}

// newPlayerMetrics registers the playback counters on the global meter provider,
// which is a no-op until a provider is installed.
func newPlayerMetrics(logger zerolog.Logger) *playerMetrics {
	m := otel.Meter(instrumentationName)
	pm := &playerMetrics{}

	var err error
	pm.frames, err = m.Int64Counter(
		"flythrough.frames.played",
		metric.WithDescription("Total fly-through frames played"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("creating frames counter")
		pm.frames = noop.Int64Counter{}
	}

	pm.flights, err = m.Int64Counter(
		"flythrough.flights.completed",
		metric.WithDescription("Total fly-throughs played to the last frame"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("creating flights counter")
		pm.flights = noop.Int64Counter{}
	}
	return pm
}
