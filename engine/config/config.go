// Package config loads oxy-terrain settings from defaults, an optional config file and
// OXY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-terrain/engine/camera"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/store"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. OXY_LOG_LEVEL.
const EnvPrefix = "OXY"

// ControllerConfig holds the viewpoint controller settings.
type ControllerConfig struct {
	Zoom            bool
	ScrollDirection int
}

// CameraConfig holds the camera node settings.
// Animate springs the camera between poses instead of jumping.
type CameraConfig struct {
	Animate   bool
	Frequency float64
	Damping   float64
}

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// EngineConfig holds the main loop settings.
type EngineConfig struct {
	TickRate       int
	CaptureWorkers int
	Profile        bool
}

// GraylogConfig holds the optional GELF log sink.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level   string
	File    string
	Graylog GraylogConfig
}

// AudioConfig holds the warning tone settings.
type AudioConfig struct {
	Enabled bool
	Volume  float64
}

// Load sets default values, reads the config file and enables environment overrides.
// With an empty path the file "oxy-terrain" (any format viper reads) is searched for in the
// working directory and $HOME/.config/oxy-terrain, and a missing file is not an error.
//
// Parameters:
//   - path: an explicit config file, or ""
//
// Returns:
//   - error: an error if the file cannot be read
func Load(path string) error {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("engine.tick_rate", 60)
	viper.SetDefault("engine.capture_workers", 4)
	viper.SetDefault("engine.profile", false)

	viper.SetDefault("window.title", "oxy-terrain")
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("controller.zoom", false)
	viper.SetDefault("controller.scroll_direction", -1)

	fly := flythrough.DefaultParameters()
	viper.SetDefault("fly.num_frames", fly.NumFrames)
	viper.SetDefault("fly.millis_per_frame", fly.MillisPerFrame)
	viper.SetDefault("fly.loop", fly.Loop)
	viper.SetDefault("fly.grab", fly.Grab)
	viper.SetDefault("fly.image_sequence_path", "./frames")
	viper.SetDefault("fly.path_height", fly.PathHeight)

	viper.SetDefault("store.driver", store.DriverSQLite)
	viper.SetDefault("store.path", "oxy-terrain.db")
	viper.SetDefault("store.dsn", "")

	viper.SetDefault("camera.animate", true)
	viper.SetDefault("camera.frequency", camera.DefaultSpringFrequency)
	viper.SetDefault("camera.damping", camera.DefaultSpringDamping)
	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.volume", 0.5)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("oxy-terrain")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/oxy-terrain")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Logging returns the logger settings.
func Logging() LoggingConfig {
	return LoggingConfig{
		Level: viper.GetString("log.level"),
		File:  viper.GetString("log.file"),
		Graylog: GraylogConfig{
			Enabled: viper.GetBool("graylog.enabled"),
			Address: viper.GetString("graylog.address"),
		},
	}
}

// Engine returns the main loop settings.
func Engine() EngineConfig {
	return EngineConfig{
		TickRate:       viper.GetInt("engine.tick_rate"),
		CaptureWorkers: viper.GetInt("engine.capture_workers"),
		Profile:        viper.GetBool("engine.profile"),
	}
}

// Window returns the window settings.
func Window() WindowConfig {
	return WindowConfig{
		Title:  viper.GetString("window.title"),
		Width:  viper.GetInt("window.width"),
		Height: viper.GetInt("window.height"),
	}
}

// Controller returns the viewpoint controller settings.
func Controller() ControllerConfig {
	return ControllerConfig{
		Zoom:            viper.GetBool("controller.zoom"),
		ScrollDirection: viper.GetInt("controller.scroll_direction"),
	}
}

// Camera returns the camera node settings.
func Camera() CameraConfig {
	return CameraConfig{
		Animate:   viper.GetBool("camera.animate"),
		Frequency: viper.GetFloat64("camera.frequency"),
		Damping:   viper.GetFloat64("camera.damping"),
	}
}

// FlyThrough returns the fly-through parameters.
func FlyThrough() flythrough.Parameters {
	return flythrough.Parameters{
		NumFrames:         viper.GetInt("fly.num_frames"),
		MillisPerFrame:    viper.GetInt("fly.millis_per_frame"),
		Loop:              viper.GetBool("fly.loop"),
		Grab:              viper.GetBool("fly.grab"),
		ImageSequencePath: viper.GetString("fly.image_sequence_path"),
		PathHeight:        viper.GetFloat64("fly.path_height"),
	}
}

// Store returns the session store selection.
func Store() store.Config {
	return store.Config{
		Driver: viper.GetString("store.driver"),
		Path:   viper.GetString("store.path"),
		DSN:    viper.GetString("store.dsn"),
	}
}

// Audio returns the warning tone settings.
func Audio() AudioConfig {
	return AudioConfig{
		Enabled: viper.GetBool("audio.enabled"),
		Volume:  viper.GetFloat64("audio.volume"),
	}
}
