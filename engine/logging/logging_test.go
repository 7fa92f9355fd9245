package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-terrain/engine/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"info", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.log")
	var console bytes.Buffer

	logger, closer, err := NewWithConsole(config.LoggingConfig{Level: "warn", File: path}, &console)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("viewpoint", "ridge").Msg("location rejected")
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "location rejected")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "viewpoint=ridge")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestNewFailsOnBadFile(t *testing.T) {
	_, _, err := New(config.LoggingConfig{File: filepath.Join(t.TempDir(), "missing", "oxy.log")})
	assert.Error(t, err)
}
