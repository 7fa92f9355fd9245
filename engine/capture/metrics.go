package capture

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-terrain/engine/capture"

type grabberMetrics struct {
	frames   metric.Int64Counter
	failures metric.Int64Counter
}

func newGrabberMetrics(logger zerolog.Logger) *grabberMetrics {
	m := otel.Meter(instrumentationName)
	gm := &grabberMetrics{}

	var err error
	gm.frames, err = m.Int64Counter(
		"capture.frames.written",
		metric.WithDescription("Total frames written to the image sequence"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("creating frames counter")
		gm.frames = noop.Int64Counter{}
	}

	gm.failures, err = m.Int64Counter(
		"capture.frames.failed",
		metric.WithDescription("Total frames that could not be written"),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("creating failures counter")
		gm.failures = noop.Int64Counter{}
	}
	return gm
}
