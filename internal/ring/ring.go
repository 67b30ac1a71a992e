// Package ring implements the focus-aware ordered sequence spec.md §3 uses
// at every level of the state tree (monitors, workspaces, containers,
// windows): a slice plus a single "focused index" that arithmetic operations
// keep valid.
package ring

// Ring is an ordered sequence of T with a distinguished focused index. The
// zero value is an empty, unfocused ring.
type Ring[T any] struct {
	items   []T
	focused int
}

// New creates an empty ring.
func New[T any]() *Ring[T] {
	return &Ring[T]{focused: -1}
}

// Len returns the number of items.
func (r *Ring[T]) Len() int { return len(r.items) }

// Empty reports whether the ring has no items.
func (r *Ring[T]) Empty() bool { return len(r.items) == 0 }

// Focused returns the currently focused item and whether one exists.
func (r *Ring[T]) Focused() (T, bool) {
	var zero T
	if r.focused < 0 || r.focused >= len(r.items) {
		return zero, false
	}
	return r.items[r.focused], true
}

// FocusedIndex returns the focused index, or -1 if the ring is empty.
func (r *Ring[T]) FocusedIndex() int { return r.focused }

// At returns the item at index i.
func (r *Ring[T]) At(i int) T { return r.items[i] }

// Set replaces the item at index i.
func (r *Ring[T]) Set(i int, v T) { r.items[i] = v }

// Items returns the backing slice. Callers must not retain it across ring
// mutations.
func (r *Ring[T]) Items() []T { return r.items }

// PushBack appends an item. If it is the first item, it becomes focused.
func (r *Ring[T]) PushBack(v T) {
	r.items = append(r.items, v)
	if r.focused < 0 {
		r.focused = len(r.items) - 1
	}
}

// InsertAt inserts v at index i, shifting later items right. The focused
// index is adjusted so it continues to point at the same logical item.
func (r *Ring[T]) InsertAt(i int, v T) {
	if i < 0 {
		i = 0
	}
	if i > len(r.items) {
		i = len(r.items)
	}
	r.items = append(r.items, v)
	copy(r.items[i+1:], r.items[i:])
	r.items[i] = v
	if r.focused < 0 {
		r.focused = i
	} else if i <= r.focused {
		r.focused++
	}
}

// RemoveAtOpts controls how focus is recomputed after a removal.
type RemoveAtOpts int

const (
	// ClampToLast keeps the focused index as it is, clamping it to the new
	// last index when the removal leaves it out of range.
	ClampToLast RemoveAtOpts = iota
	// PreferPrevious keeps the previously-focused logical item focused
	// when it still exists, only clamping if it was the removed item.
	PreferPrevious
)

// RemoveAt removes the item at index i and returns it. Per spec §3, the
// focused index clamps to the new last index or, when PreferPrevious is
// requested, to the previously focused index (adjusted for the shift).
func (r *Ring[T]) RemoveAt(i int, opts RemoveAtOpts) T {
	removed := r.items[i]
	r.items = append(r.items[:i], r.items[i+1:]...)

	switch {
	case len(r.items) == 0:
		r.focused = -1
	case opts == PreferPrevious:
		switch {
		case i < r.focused:
			r.focused--
		case i == r.focused:
			if r.focused >= len(r.items) {
				r.focused = len(r.items) - 1
			}
			// else: keep pointing at the item that slid into this slot
		}
	default: // ClampToLast
		if r.focused >= len(r.items) {
			r.focused = len(r.items) - 1
		}
	}
	return removed
}

// Swap exchanges the items at i and j.
func (r *Ring[T]) Swap(i, j int) {
	r.items[i], r.items[j] = r.items[j], r.items[i]
}

// FocusIndex sets the focused index directly (must be in range).
func (r *Ring[T]) FocusIndex(i int) {
	if i >= 0 && i < len(r.items) {
		r.focused = i
	}
}

// FocusByPredicate focuses the first item matching pred, returning whether
// a match was found.
func (r *Ring[T]) FocusByPredicate(pred func(T) bool) bool {
	for i, v := range r.items {
		if pred(v) {
			r.focused = i
			return true
		}
	}
	return false
}

// FocusDirection moves the focused index by delta (+1/-1 typically),
// honoring the wrap/clamp policy. It is a no-op on an empty ring.
func (r *Ring[T]) FocusDirection(delta int, policy FocusPolicy) {
	n := len(r.items)
	if n == 0 {
		return
	}
	next := r.focused + delta
	switch policy {
	case Wrap:
		next = ((next % n) + n) % n
	case Clamp:
		if next < 0 {
			next = 0
		}
		if next >= n {
			next = n - 1
		}
	}
	r.focused = next
}

// FocusPolicy mirrors geometry.FocusPolicy without importing geometry, so
// ring stays a leaf, dependency-free package.
type FocusPolicy int

const (
	Wrap FocusPolicy = iota
	Clamp
)

// Rotate shifts every item by delta positions (positive = toward the back),
// wrapping around, and keeps the focused index pointing at the same logical
// item.
func (r *Ring[T]) Rotate(delta int) {
	n := len(r.items)
	if n < 2 {
		return
	}
	delta = ((delta % n) + n) % n
	if delta == 0 {
		return
	}
	rotated := make([]T, n)
	for i := range r.items {
		rotated[(i+delta)%n] = r.items[i]
	}
	r.items = rotated
	if r.focused >= 0 {
		r.focused = (r.focused + delta) % n
	}
}

// IndexOf returns the index of the first item matching pred, or -1.
func (r *Ring[T]) IndexOf(pred func(T) bool) int {
	for i, v := range r.items {
		if pred(v) {
			return i
		}
	}
	return -1
}
