package state

import (
	"tilewm/internal/geometry"
	"tilewm/internal/layout"
	"tilewm/internal/ring"
	"tilewm/internal/wmwindow"
)

// ContainerPolicy controls where a newly classified window lands within a
// workspace (spec §3 "window-container policy").
type ContainerPolicy int

const (
	// NewContainerPolicy gives every new window its own container.
	NewContainerPolicy ContainerPolicy = iota
	// AppendToFocusedPolicy adds the new window to the currently focused
	// container instead of creating a new one.
	AppendToFocusedPolicy
)

// LayoutRule is one entry of a workspace's dynamic layout rule list (spec
// §4.2.2): at tile counts >= Threshold, Layout becomes the effective
// layout, overriding the workspace's explicit descriptor.
type LayoutRule struct {
	Threshold int
	Layout    layout.Descriptor
}

// Workspace holds a tiled container ring, a floating set, and the
// maximized/monocle slots (spec §3 "Workspace").
type Workspace struct {
	Name string

	Containers *ring.Ring[*Container]
	Floating   []wmwindow.Window

	// Maximized is the single natively-maximized window, if any.
	Maximized *wmwindow.Window

	// MonocleContainer is the index into Containers currently rendered
	// full-work-area, or -1 when monocle mode is inactive. Stored as an
	// index rather than a pointer per spec §3 "Ownership" so ring
	// mutations can't leave a dangling reference; callers that remove a
	// container below this index must shift or clear it.
	MonocleContainer int

	Layout      layout.Descriptor
	LayoutRules []LayoutRule

	LayoutOptions layout.Options
	Padding       geometry.Padding

	// WorkAreaOffset further insets the monitor's work area for this
	// workspace (e.g. a per-workspace status bar reservation).
	WorkAreaOffset geometry.Padding

	Policy ContainerPolicy

	// TilingDisabled suspends layout application for this workspace: every
	// window keeps its current rect instead of being assigned a tile, as
	// if the whole workspace were floating (spec §4.2.3 "toggle tiling").
	TilingDisabled bool
}

// NewWorkspace returns an empty workspace with sane defaults: BSP layout, no
// monocle, new-container policy.
func NewWorkspace(name string) *Workspace {
	return &Workspace{
		Name:             name,
		Containers:       ring.New[*Container](),
		MonocleContainer: -1,
		Layout:           layout.Descriptor{Kind: layout.BSP},
		Policy:           NewContainerPolicy,
	}
}

// EffectiveLayout resolves the layout to use for n current tiles, applying
// the dynamic layout rule with the largest threshold <= n, or the
// workspace's explicit descriptor if no rule qualifies (spec §4.2.2).
func (w *Workspace) EffectiveLayout(n int) layout.Descriptor {
	best := -1
	var result layout.Descriptor
	found := false
	for _, r := range w.LayoutRules {
		if r.Threshold <= n && r.Threshold > best {
			best = r.Threshold
			result = r.Layout
			found = true
		}
	}
	if found {
		return result
	}
	return w.Layout
}

// SetLayout changes the workspace's explicit layout descriptor. Per spec
// §4.2.2, while any dynamic layout rule is present, explicit changes are
// rejected until the rules are cleared.
func (w *Workspace) SetLayout(desc layout.Descriptor) bool {
	if len(w.LayoutRules) > 0 {
		return false
	}
	w.Layout = desc
	return true
}

// ClearLayoutRules removes every dynamic layout rule, re-enabling explicit
// layout changes.
func (w *Workspace) ClearLayoutRules() {
	w.LayoutRules = nil
}

// TileCount returns the number of tiled containers (what the layout engine
// calls N), excluding floating and maximized windows.
func (w *Workspace) TileCount() int {
	return w.Containers.Len()
}

// AddWindowNewContainer creates a fresh container holding w and focuses it.
func (w *Workspace) AddWindowNewContainer(win wmwindow.Window) *Container {
	c := NewContainer(win)
	w.Containers.PushBack(c)
	w.Containers.FocusIndex(w.Containers.Len() - 1)
	return c
}

// AddWindowAppendFocused adds win to the currently focused container,
// falling back to a new container if the workspace has none yet.
func (w *Workspace) AddWindowAppendFocused(win wmwindow.Window) *Container {
	c, ok := w.Containers.Focused()
	if !ok {
		return w.AddWindowNewContainer(win)
	}
	c.Windows.PushBack(win)
	c.Windows.FocusIndex(c.Windows.Len() - 1)
	return c
}

// AddWindow routes win according to the workspace's container policy.
func (w *Workspace) AddWindow(win wmwindow.Window) *Container {
	switch w.Policy {
	case AppendToFocusedPolicy:
		return w.AddWindowAppendFocused(win)
	default:
		return w.AddWindowNewContainer(win)
	}
}

// FindWindow locates h among the workspace's tiled containers, returning
// the container index, the window's index within it, and whether it was
// found.
func (w *Workspace) FindWindow(h wmwindow.Handle) (containerIdx, windowIdx int, ok bool) {
	for ci, c := range w.Containers.Items() {
		if wi := c.IndexOfHandle(h); wi >= 0 {
			return ci, wi, true
		}
	}
	return -1, -1, false
}

// RemoveWindow removes h from wherever it lives among the tiled containers.
// If its container becomes empty, the container itself is removed from the
// ring (spec §3 "an empty container is destroyed the moment it becomes
// empty"). Reports whether the window was found.
func (w *Workspace) RemoveWindow(h wmwindow.Handle) bool {
	ci, wi, ok := w.FindWindow(h)
	if !ok {
		return false
	}
	c := w.Containers.At(ci)
	c.Windows.RemoveAt(wi, ring.PreferPrevious)
	if c.Empty() {
		w.Containers.RemoveAt(ci, ring.ClampToLast)
		if w.MonocleContainer == ci {
			w.MonocleContainer = -1
		} else if w.MonocleContainer > ci {
			w.MonocleContainer--
		}
	}
	return true
}

// IsFloating reports whether h is in the floating set.
func (w *Workspace) IsFloating(h wmwindow.Handle) bool {
	for _, fw := range w.Floating {
		if fw.Handle == h {
			return true
		}
	}
	return false
}

// AddFloating appends win to the floating set.
func (w *Workspace) AddFloating(win wmwindow.Window) {
	w.Floating = append(w.Floating, win)
}

// RemoveFloating removes h from the floating set, reporting whether it was
// present.
func (w *Workspace) RemoveFloating(h wmwindow.Handle) bool {
	for i, fw := range w.Floating {
		if fw.Handle == h {
			w.Floating = append(w.Floating[:i], w.Floating[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether h is present anywhere in the workspace: tiled,
// floating, or maximized (spec §3 "a window exists on exactly one
// workspace... at any moment" — callers use this to enforce the invariant
// across workspaces).
func (w *Workspace) Contains(h wmwindow.Handle) bool {
	if _, _, ok := w.FindWindow(h); ok {
		return true
	}
	if w.IsFloating(h) {
		return true
	}
	if w.Maximized != nil && w.Maximized.Handle == h {
		return true
	}
	return false
}

// SetMaximized marks win as the workspace's single native-maximized window.
func (w *Workspace) SetMaximized(win wmwindow.Window) {
	cp := win
	w.Maximized = &cp
}

// ClearMaximized removes the maximized slot.
func (w *Workspace) ClearMaximized() {
	w.Maximized = nil
}

// EnterMonocle marks the container at idx as the monocle container.
func (w *Workspace) EnterMonocle(idx int) {
	if idx >= 0 && idx < w.Containers.Len() {
		w.MonocleContainer = idx
	}
}

// ExitMonocle clears monocle mode.
func (w *Workspace) ExitMonocle() {
	w.MonocleContainer = -1
}

// InMonocle reports whether monocle mode is active.
func (w *Workspace) InMonocle() bool {
	return w.MonocleContainer >= 0 && w.MonocleContainer < w.Containers.Len()
}
