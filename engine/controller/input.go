package controller

import (
	"math"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/kinetic"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
)

func (c *controllerImpl) MouseMove(x, y, dx, dy float64, button int) {
	c.mu.Lock()
	if button == common.MouseNone {
		c.hasPointer = false
		c.mu.Unlock()
		return
	}
	if !c.hasPointer || math.Abs(dx) > sanityThreshold || math.Abs(dy) > sanityThreshold {
		dx, dy = 0, 0
	} else {
		dx, dy = x-c.pointerX, y-c.pointerY
	}
	c.hasPointer = true
	c.pointerX, c.pointerY = x, y
	c.mu.Unlock()

	switch button {
	case common.MousePan:
		c.scroll.Track(dx, dy, c.clock.Now())
		c.node.Drag(dx, dy)
	case common.MouseScreen:
		c.node.TranslateInScreenPlane(-dx, -dy)
	case common.MouseRotate:
		c.node.Rotate(dy, dx)
	}
}

func (c *controllerImpl) MousePress(x, y float64, button int) {
	c.mu.Lock()
	c.hasPointer = true
	c.pointerX, c.pointerY = x, y
	c.mu.Unlock()

	c.scroll.Reset(c.clock.Now())
	if button == common.MousePan || c.node.Mode() == viewpoint.ModeHike {
		c.node.SetLookAt(nil)
	}
}

func (c *controllerImpl) MouseRelease(x, y float64, button int) {
	if c.scroll.Release(c.clock.Now()) {
		c.logger.Trace().Float64("amplitude", c.scroll.Amplitude()).Msg("coasting")
		return
	}
	c.UpdateLookAt()
}

func (c *controllerImpl) MouseScroll(delta float64) {
	c.mu.Lock()
	zoom, direction := c.zoom, float64(c.scrollDirection)
	c.mu.Unlock()

	if zoom {
		c.node.Magnify(-direction * delta)
		return
	}
	c.node.Dolly(direction * 2 * delta)
	c.UpdateLookAt()
}

func (c *controllerImpl) StepLeft(modified bool) {
	if modified {
		c.node.Drag(-1, 0)
	} else {
		c.node.Rotate(0, 1)
	}
}

func (c *controllerImpl) StepRight(modified bool) {
	if modified {
		c.node.Drag(1, 0)
	} else {
		c.node.Rotate(0, -1)
	}
}

func (c *controllerImpl) StepUp(modified bool) {
	if modified {
		c.node.Drag(0, 1)
	} else {
		c.node.Rotate(1, 0)
	}
}

func (c *controllerImpl) StepDown(modified bool) {
	if modified {
		c.node.Drag(0, -1)
	} else {
		c.node.Rotate(-1, 0)
	}
}

func (c *controllerImpl) UpdateLookAt() {
	x, y := c.node.Center()
	if pos, _, ok := c.picker.Pick(x, y); ok {
		c.node.SetLookAt(&pos)
	}
}

func (c *controllerImpl) Update() {
	dx, dy, phase := c.scroll.Step(c.clock.Now())
	switch phase {
	case kinetic.Coasting:
		c.node.Drag(dx, dy)
	case kinetic.Stopped:
		c.UpdateLookAt()
	}
}

func (c *controllerImpl) EnableZoom(enable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = enable
}

func (c *controllerImpl) ZoomEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *controllerImpl) SetScrollDirection(direction int) {
	if direction == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollDirection = sign(direction)
}

func (c *controllerImpl) ScrollDirection() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrollDirection
}
