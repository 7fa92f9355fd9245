package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA     = 65 // A key (ASCII): add the current viewpoint
	KeyF     = 70 // F key (ASCII): fly through the viewpoint list
	KeyN     = 78 // N key (ASCII): next viewpoint
	KeyP     = 80 // P key (ASCII): previous viewpoint
	KeyS     = 83 // S key (ASCII): stop the fly-through
	KeyZ     = 90 // Z key (ASCII): toggle magnification scrolling
	KeySpace = 32 // Spacebar (ASCII): pause/resume the fly-through
	KeyEsc   = 256 // Escape (GLFW): close the window

	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift    = 340 // Left Shift (GLFW)
	KeyLeftControl  = 341 // Left Control (GLFW)
	KeyRightShift   = 344 // Right Shift (GLFW)
	KeyRightControl = 345 // Right Control (GLFW)
)

// Modifier bits reported alongside key events. Values match glfw.ModifierKey.
const (
	ModShift   = 0x0001
	ModControl = 0x0002
)

// Mouse button codes understood by the viewpoint controller.
// 0 means no button is held (pointer up).
const (
	MouseNone   = 0
	MousePan    = 1 // left button: kinetic pan along the terrain plane
	MouseScreen = 2 // middle button: pan in the screen plane
	MouseRotate = 3 // right button: orbit
)
