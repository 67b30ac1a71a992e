// Package state implements the hierarchical tree spec §3 describes: a Ring
// of Monitors, each holding a Ring of Workspaces, each holding a Ring of
// Containers (themselves a Ring of Windows) plus a floating set and the
// maximized/monocle slots. The reconciler is the tree's only mutator; this
// package only enforces the tree's own invariants (non-empty containers,
// unique handles, valid focus) and leaves all OS interaction and policy
// decisions to the caller.
package state

import (
	"tilewm/internal/ring"
	"tilewm/internal/wmwindow"
)

// Container is a Ring of Windows. A single-window container renders that
// window full-tile; a multi-window container renders only the focused
// window, the others forming a stack (spec §3 "Container").
type Container struct {
	Windows *ring.Ring[wmwindow.Window]

	// HasTrayMember is set when a window that minimized to the tray was
	// left in place rather than evicted from the tree (spec §4.3.2 "Hide
	// / Cloak / Destroy / Minimize"): the tag lives on the container, not
	// the window, since the window itself may already be gone from the OS
	// side by the time it reappears.
	HasTrayMember bool
}

// NewContainer builds a container seeded with a single window, the only way
// a container is ever created per spec §3's lifecycle rule.
func NewContainer(w wmwindow.Window) *Container {
	r := ring.New[wmwindow.Window]()
	r.PushBack(w)
	return &Container{Windows: r}
}

// Empty reports whether the container has lost its last window. Per spec
// §3, an empty container must be destroyed the moment this becomes true;
// this package never destroys it automatically, since destruction means
// removal from the owning workspace's ring, which only the caller can do.
func (c *Container) Empty() bool {
	return c.Windows.Empty()
}

// Focused returns the container's focused window.
func (c *Container) Focused() (wmwindow.Window, bool) {
	return c.Windows.Focused()
}

// IndexOfHandle returns the index of the window with the given handle, or
// -1 if absent.
func (c *Container) IndexOfHandle(h wmwindow.Handle) int {
	return c.Windows.IndexOf(func(w wmwindow.Window) bool { return w.Handle == h })
}
