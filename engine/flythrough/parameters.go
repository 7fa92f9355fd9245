package flythrough

import "time"

// MinGrabInterval is the slowest cadence allowed while frames are being captured,
// leaving each frame time to render and encode.
const MinGrabInterval = 1000 * time.Millisecond

// Parameters configures a fly-through. They are read-only while a flight is playing.
type Parameters struct {
	// NumFrames is the number of interpolated frames between the first and last keyframe.
	NumFrames int `mapstructure:"num_frames" json:"numFrames" yaml:"numFrames"`
	// MillisPerFrame is the playback cadence.
	MillisPerFrame int `mapstructure:"millis_per_frame" json:"millisPerFrame" yaml:"millisPerFrame"`
	// Loop restarts playback at the first frame instead of stopping.
	Loop bool `mapstructure:"loop" json:"loop" yaml:"loop"`
	// Grab writes every played frame to ImageSequencePath.
	Grab bool `mapstructure:"grab" json:"grab" yaml:"grab"`
	// ImageSequencePath is the output directory for captured frames.
	ImageSequencePath string `mapstructure:"image_sequence_path" json:"imageSequencePath" yaml:"imageSequencePath"`
	// PathHeight raises the camera above a flown path.
	PathHeight float64 `mapstructure:"path_height" json:"pathHeight" yaml:"pathHeight"`
}

// DefaultParameters returns 100 frames at 100 ms, no loop, no capture and a path height of 5.
func DefaultParameters() Parameters {
	return Parameters{
		NumFrames:      100,
		MillisPerFrame: 100,
		PathHeight:     5,
	}
}

// Interval returns the playback cadence, raised to MinGrabInterval while grabbing.
//
// Returns:
//   - time.Duration: the time between two played frames
func (p Parameters) Interval() time.Duration {
	d := time.Duration(p.MillisPerFrame) * time.Millisecond
	if p.Grab && d < MinGrabInterval {
		d = MinGrabInterval
	}
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}
