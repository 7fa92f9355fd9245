package flythrough

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as HH:MM:SS.mmm.
//
// Parameters:
//   - d: the elapsed playback time
//
// Returns:
//   - string: the formatted time
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

// FormatStatus renders the status line for frame index played at the given cadence.
//
// Parameters:
//   - index: the frame index
//   - interval: the time between frames
//
// Returns:
//   - string: "HH:MM:SS.mmm    Frame index"
func FormatStatus(index int, interval time.Duration) string {
	return fmt.Sprintf("%s    Frame %d", FormatElapsed(time.Duration(index)*interval), index)
}
