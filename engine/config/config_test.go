package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	require.NoError(t, Load(""))

	assert.Equal(t, LoggingConfig{Level: "info", Graylog: GraylogConfig{Address: "localhost:12201"}}, Logging())
	assert.Equal(t, EngineConfig{TickRate: 60, CaptureWorkers: 4}, Engine())
	assert.Equal(t, WindowConfig{Title: "oxy-terrain", Width: 1280, Height: 720}, Window())
	assert.Equal(t, ControllerConfig{ScrollDirection: -1}, Controller())

	fly := FlyThrough()
	assert.Equal(t, 100, fly.NumFrames)
	assert.Equal(t, 100, fly.MillisPerFrame)
	assert.False(t, fly.Loop)
	assert.Equal(t, "./frames", fly.ImageSequencePath)
	assert.Equal(t, 5.0, fly.PathHeight)

	st := Store()
	assert.Equal(t, "sqlite", st.Driver)
	assert.Equal(t, "oxy-terrain.db", st.Path)

	assert.Equal(t, AudioConfig{Enabled: true, Volume: 0.5}, Audio())
	assert.Equal(t, CameraConfig{Animate: true, Frequency: 20, Damping: 1}, Camera())
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	cfg := `
log:
  level: debug
controller:
  zoom: true
  scroll_direction: 1
fly:
  num_frames: 250
  loop: true
store:
  driver: postgres
  dsn: host=db user=oxy
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	require.NoError(t, Load(path))

	assert.Equal(t, "debug", Logging().Level)
	assert.Equal(t, ControllerConfig{Zoom: true, ScrollDirection: 1}, Controller())
	assert.Equal(t, 250, FlyThrough().NumFrames)
	assert.True(t, FlyThrough().Loop)
	assert.Equal(t, 100, FlyThrough().MillisPerFrame)
	assert.Equal(t, "postgres", Store().Driver)
	assert.Equal(t, "host=db user=oxy", Store().DSN)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("OXY_FLY_MILLIS_PER_FRAME", "40")
	t.Setenv("OXY_WINDOW_TITLE", "ridge tour")
	t.Setenv("OXY_CAMERA_ANIMATE", "false")

	require.NoError(t, Load(""))

	assert.Equal(t, 40, FlyThrough().MillisPerFrame)
	assert.Equal(t, "ridge tour", Window().Title)
	assert.False(t, Camera().Animate)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/oxy-terrain.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
