package controller

import "github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"

// navigator walks and edits the ordered viewpoint list.
type navigator interface {
	// PreviousViewpoint moves to the previous viewpoint, wrapping to the last. No-op on an empty list.
	PreviousViewpoint()

	// NextViewpoint moves to the next viewpoint, wrapping to the first. No-op on an empty list.
	NextViewpoint()

	// GotoViewpoint moves to s if it is in the list, matched by pointer and then by ID.
	//
	// Parameters:
	//   - s: the viewpoint to show
	GotoViewpoint(s *viewpoint.Store)

	// AddViewpoint snapshots the current pose as name and inserts it at index, appending
	// when index is negative or past the end. The new viewpoint becomes the selection.
	//
	// Parameters:
	//   - index: the insertion position
	//   - name: the viewpoint name
	//
	// Returns:
	//   - *viewpoint.Store: the new viewpoint
	AddViewpoint(index int, name string) *viewpoint.Store

	// RemoveViewpoints removes the viewpoints at indices and selects the one before the
	// first removed index, the last one if that is negative, or nothing if the list is empty.
	//
	// Parameters:
	//   - indices: the indices to remove
	//
	// Returns:
	//   - int: the new selection, -1 for none
	RemoveViewpoints(indices []int) int

	// ViewpointIndex returns the selected index, -1 for none.
	ViewpointIndex() int

	// ViewpointCount returns the list length.
	ViewpointCount() int

	// ViewpointList returns the list being navigated.
	ViewpointList() *viewpoint.List

	// SetViewpointList replaces the list being navigated and clears the selection.
	//
	// Parameters:
	//   - l: the new list, owned by the caller
	SetViewpointList(l *viewpoint.List)
}

func (c *controllerImpl) PreviousViewpoint() {
	c.step(-1)
}

func (c *controllerImpl) NextViewpoint() {
	c.step(1)
}

func (c *controllerImpl) step(delta int) {
	c.mu.Lock()
	n := c.list.Len()
	if n == 0 {
		c.mu.Unlock()
		return
	}
	switch {
	case c.index < 0 && delta < 0:
		c.index = n - 1
	case c.index < 0:
		c.index = 0
	default:
		c.index = ((c.index+delta)%n + n) % n
	}
	s := c.list.At(c.index)
	c.mu.Unlock()

	c.node.SetPose(s, true, true)
}

func (c *controllerImpl) GotoViewpoint(s *viewpoint.Store) {
	c.mu.Lock()
	i := c.list.IndexOf(s)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.index = i
	target := c.list.At(i)
	c.mu.Unlock()

	c.node.SetPose(target, true, true)
}

func (c *controllerImpl) AddViewpoint(index int, name string) *viewpoint.Store {
	pose := c.node.Pose(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = c.list.Insert(index, pose)
	c.logger.Debug().Str("name", name).Int("index", c.index).Msg("viewpoint added")
	return pose
}

func (c *controllerImpl) RemoveViewpoints(indices []int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = c.list.Remove(c.index, indices...)
	return c.index
}

func (c *controllerImpl) ViewpointIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *controllerImpl) ViewpointCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}

func (c *controllerImpl) ViewpointList() *viewpoint.List {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

func (c *controllerImpl) SetViewpointList(l *viewpoint.List) {
	if l == nil {
		l = viewpoint.NewList()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = l
	c.index = -1
}
