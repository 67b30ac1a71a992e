package state

import (
	"fmt"

	"tilewm/internal/geometry"
	"tilewm/internal/ring"
)

// Monitor holds a Ring of Workspaces and the monitor's own bounds (spec §3
// "Monitor"). Identity is by device serial, preferred over the less-stable
// device path, so a monitor can be matched and restored across a display
// topology change (spec §4.3.2 "Display topology change").
type Monitor struct {
	Serial     string
	DevicePath string

	Workspaces *ring.Ring[*Workspace]

	Bounds   geometry.Rect
	WorkArea geometry.Rect

	IndexPreference int

	// LastFocusedWorkspace supports last-workspace toggling; stored as an
	// index, not a pointer, per spec §3 "Ownership".
	LastFocusedWorkspace int

	// Cached marks a monitor whose display has disappeared: its
	// workspaces and windows are retained, hidden, pending restoration
	// when a display matching its Serial reappears (spec §3 lifecycle).
	Cached bool
}

// NewMonitor creates a monitor with one lazily-usable default workspace.
func NewMonitor(serial, devicePath string, bounds geometry.Rect) *Monitor {
	return &Monitor{
		Serial:               serial,
		DevicePath:           devicePath,
		Workspaces:           ring.New[*Workspace](),
		Bounds:               bounds,
		WorkArea:             bounds,
		LastFocusedWorkspace: -1,
	}
}

// EffectiveWorkArea applies outer padding and the monitor's own work-area
// offsets, the first step of layout application (spec §4.3.4 step 1).
func (m *Monitor) EffectiveWorkArea(outerPadding int) geometry.Rect {
	return m.WorkArea.InsetOuter(outerPadding)
}

// WorkspaceAt returns the workspace at index i, creating every workspace up
// to and including i if needed (spec §3 "created lazily when first
// referenced by index").
func (m *Monitor) WorkspaceAt(i int) *Workspace {
	for m.Workspaces.Len() <= i {
		idx := m.Workspaces.Len()
		m.Workspaces.PushBack(NewWorkspace(fmt.Sprintf("%d", idx+1)))
	}
	return m.Workspaces.At(i)
}

// WorkspaceByName returns the workspace with the given explicit name, or
// creates one and appends it if none matches (spec §3 "or name").
func (m *Monitor) WorkspaceByName(name string) *Workspace {
	for _, w := range m.Workspaces.Items() {
		if w.Name == name {
			return w
		}
	}
	w := NewWorkspace(name)
	m.Workspaces.PushBack(w)
	return w
}

// FocusedWorkspace returns the monitor's currently focused workspace,
// creating a first workspace if none exists yet.
func (m *Monitor) FocusedWorkspace() *Workspace {
	if w, ok := m.Workspaces.Focused(); ok {
		return w
	}
	return m.WorkspaceAt(0)
}

// ToggleLastWorkspace swaps focus to LastFocusedWorkspace, recording the
// previously focused index so a second toggle reverts it.
func (m *Monitor) ToggleLastWorkspace() {
	current := m.Workspaces.FocusedIndex()
	if m.LastFocusedWorkspace < 0 || m.LastFocusedWorkspace >= m.Workspaces.Len() {
		return
	}
	m.Workspaces.FocusIndex(m.LastFocusedWorkspace)
	m.LastFocusedWorkspace = current
}

// FocusWorkspace focuses the workspace at index i, recording the
// previously focused index for later toggling.
func (m *Monitor) FocusWorkspace(i int) {
	if i < 0 || i >= m.Workspaces.Len() {
		return
	}
	m.LastFocusedWorkspace = m.Workspaces.FocusedIndex()
	m.Workspaces.FocusIndex(i)
}
