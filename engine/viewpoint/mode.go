package viewpoint

import (
	"fmt"
	"strings"
)

// Mode selects how the camera moves relative to the terrain.
// In Hike mode the camera's own location is the center of rotation; every other mode
// orbits the look-at point picked on the terrain.
type Mode int

const (
	// ModeFree orbits the picked look-at point.
	ModeFree Mode = iota
	// ModeHike keeps the camera at its location and turns it in place.
	ModeHike
	// ModeMap looks straight down onto the terrain.
	ModeMap
	// ModeFrame frames the scene bounds.
	ModeFrame
)

var modeNames = [...]string{"Free", "Hike", "Map", "Frame"}

// String returns the display name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a display name (case-insensitive) to a Mode.
//
// Parameters:
//   - s: the mode name
//
// Returns:
//   - Mode: the parsed mode
//   - error: an error if the name is unknown
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(name, s) {
			return Mode(i), nil
		}
	}
	return ModeFree, fmt.Errorf("unknown viewpoint mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
