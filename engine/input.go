package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
)

// bindWindow forwards window events onto the tick goroutine.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		e.Post(func() { e.scene.Resize(width, height) })
	})
	e.window.SetScrollCallback(func(delta float64) {
		e.Post(func() { e.handleScroll(delta) })
	})
	e.window.SetKeyDownCallback(func(keyCode, mods int) {
		e.Post(func() { e.handleKey(keyCode, mods) })
	})
	e.window.SetMousePressCallback(func(x, y float64, button int) {
		e.Post(func() { e.handleMousePress(x, y, button) })
	})
	e.window.SetMouseReleaseCallback(func(x, y float64, button int) {
		e.Post(func() { e.handleMouseRelease(x, y, button) })
	})
	e.window.SetMouseMoveCallback(func(x, y, dx, dy float64, button int) {
		e.Post(func() { e.handleMouseMove(x, y, dx, dy, button) })
	})
}

// interactive reports whether a controller is attached and no fly-through suspends it.
func (e *engine) interactive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller != nil && !e.suspended
}

// toViewport converts window coordinates to the letterboxed camera frame.
func (e *engine) toViewport(x, y float64) (float64, float64) {
	vp := e.scene.Viewport()
	return x - vp.X, y - vp.Y
}

func (e *engine) handleMousePress(x, y float64, button int) {
	if !e.interactive() {
		return
	}
	x, y = e.toViewport(x, y)
	e.Controller().MousePress(x, y, button)
}

func (e *engine) handleMouseRelease(x, y float64, button int) {
	if !e.interactive() {
		return
	}
	x, y = e.toViewport(x, y)
	e.Controller().MouseRelease(x, y, button)
}

func (e *engine) handleMouseMove(x, y, dx, dy float64, button int) {
	if !e.interactive() {
		return
	}
	x, y = e.toViewport(x, y)
	e.Controller().MouseMove(x, y, dx, dy, button)
}

func (e *engine) handleScroll(delta float64) {
	if !e.interactive() {
		return
	}
	e.Controller().MouseScroll(delta)
}

// handleKey applies the key bindings. Arrow keys step the camera (a one pixel drag with
// Shift or Control held, a one degree turn without); A, N and P edit and walk the viewpoint
// list; F flies the list; Space pauses and resumes; S stops; Z toggles wheel magnification.
// Only the fly-through keys work while a flight suspends the main loop.
func (e *engine) handleKey(keyCode, mods int) {
	ctrl := e.Controller()
	if ctrl == nil {
		return
	}

	switch keyCode {
	case common.KeySpace:
		switch ctrl.FlightState() {
		case flythrough.Playing:
			ctrl.PauseFlight()
		case flythrough.Paused:
			ctrl.StartFlight()
		}
		return
	case common.KeyS:
		ctrl.StopFlight()
		return
	}

	if !e.interactive() {
		return
	}

	modified := mods&(common.ModShift|common.ModControl) != 0
	switch keyCode {
	case common.KeyLeft:
		ctrl.StepLeft(modified)
	case common.KeyRight:
		ctrl.StepRight(modified)
	case common.KeyUp:
		ctrl.StepUp(modified)
	case common.KeyDown:
		ctrl.StepDown(modified)
	case common.KeyA:
		vp := ctrl.AddViewpoint(-1, fmt.Sprintf("Viewpoint %d", ctrl.ViewpointCount()+1))
		e.logger.Info().Str("viewpoint", vp.Name).Msg("viewpoint added")
	case common.KeyN:
		ctrl.NextViewpoint()
	case common.KeyP:
		ctrl.PreviousViewpoint()
	case common.KeyF:
		if ctrl.FlyViewpoints(e.FlyParameters()) {
			ctrl.StartFlight()
		}
	case common.KeyZ:
		ctrl.EnableZoom(!ctrl.ZoomEnabled())
	}
}
