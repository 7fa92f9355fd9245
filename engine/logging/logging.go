// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-terrain/engine/config"
	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// ParseLevel maps a level name to a zerolog level. Unknown names map to info.
//
// Parameters:
//   - name: the level name, case-insensitive
//
// Returns:
//   - zerolog.Level: the level
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds a logger writing colored console output to stdout, plain console output to
// cfg.File when set and GELF messages to Graylog when enabled. Timestamps are UTC.
// The returned closer releases the file and the Graylog connection.
//
// Parameters:
//   - cfg: the logging settings
//
// Returns:
//   - zerolog.Logger: the logger
//   - io.Closer: releases the sinks
//   - error: an error if a sink cannot be opened
func New(cfg config.LoggingConfig) (zerolog.Logger, io.Closer, error) {
	return NewWithConsole(cfg, os.Stdout)
}

// NewWithConsole is New with the console output redirected to out.
func NewWithConsole(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339},
	}
	closers := multiCloser{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true})
		closers = append(closers, f)
	}

	if cfg.Graylog.Enabled {
		gw, err := gelf.NewWriter(cfg.Graylog.Address)
		if err != nil {
			_ = closers.Close()
			return zerolog.Nop(), nil, fmt.Errorf("failed to connect to graylog at %s: %w", cfg.Graylog.Address, err)
		}
		writers = append(writers, gw)
		closers = append(closers, gw)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(cfg.Level)).
		With().Timestamp().Logger()
	return logger, closers, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
