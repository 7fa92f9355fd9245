package viewpoint

import (
	"slices"
)

// List is the ordered viewpoint list of a session.
// Order defines both navigation order and the fly-through sequence.
type List struct {
	Items []*Store
}

// NewList wraps the given stores in a List.
func NewList(items ...*Store) *List {
	return &List{Items: items}
}

// Len returns the number of viewpoints.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// At returns the viewpoint at index i, or nil if i is out of range.
func (l *List) At(i int) *Store {
	if i < 0 || i >= l.Len() {
		return nil
	}
	return l.Items[i]
}

// IndexOf finds s by pointer identity first and then by ID.
//
// Parameters:
//   - s: the viewpoint to look for
//
// Returns:
//   - int: the index, or -1 if absent
func (l *List) IndexOf(s *Store) int {
	if s == nil || l == nil {
		return -1
	}
	if i := slices.Index(l.Items, s); i >= 0 {
		return i
	}
	return slices.IndexFunc(l.Items, func(item *Store) bool {
		return item.ID == s.ID
	})
}

// Insert places s at index, appending when index is negative or past the end.
//
// Parameters:
//   - index: the insertion position
//   - s: the viewpoint to insert
//
// Returns:
//   - int: the index s ended up at
func (l *List) Insert(index int, s *Store) int {
	if index < 0 || index > len(l.Items) {
		l.Items = append(l.Items, s)
		return len(l.Items) - 1
	}
	l.Items = slices.Insert(l.Items, index, s)
	return index
}

// Remove deletes the viewpoints at the given indices, highest index first so the
// remaining indices stay valid. Out-of-range and duplicate indices are ignored.
// The returned selection is the entry before the lowest removed index, the last entry
// when that would be negative, or -1 when the list is empty. When nothing was removed
// the selection is returned unchanged.
//
// Parameters:
//   - selected: the current selection
//   - indices: the indices to remove, in any order
//
// Returns:
//   - int: the new selected index
func (l *List) Remove(selected int, indices ...int) int {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	lowest := -1
	for i := len(sorted) - 1; i >= 0; i-- {
		idx := sorted[i]
		if idx < 0 || idx >= len(l.Items) {
			continue
		}
		l.Items = slices.Delete(l.Items, idx, idx+1)
		lowest = idx
	}
	if lowest < 0 {
		return selected
	}
	if len(l.Items) == 0 {
		return -1
	}
	sel := lowest - 1
	if sel < 0 {
		sel = len(l.Items) - 1
	}
	return min(sel, len(l.Items)-1)
}

// Clear removes every viewpoint.
func (l *List) Clear() {
	l.Items = nil
}

// Names returns the viewpoint names in list order.
func (l *List) Names() []string {
	names := make([]string, 0, l.Len())
	for _, s := range l.Items {
		names = append(names, s.Name)
	}
	return names
}
