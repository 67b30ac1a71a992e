package state

import (
	"tilewm/internal/ring"
	"tilewm/internal/rules"
	"tilewm/internal/wmwindow"
)

// HidePolicy selects how the reconciler hides windows on non-focused
// workspaces (spec §4.3.4 step 6).
type HidePolicy int

const (
	HidePolicyHide HidePolicy = iota
	HidePolicyMinimize
	HidePolicyCloak
)

// CrossBoundaryPolicy selects what direction-focus does when geometry.Neighbor
// reports no-neighbor (spec §4.1): stay put, or escalate to the adjacent
// workspace or monitor.
type CrossBoundaryPolicy int

const (
	CrossBoundaryNone CrossBoundaryPolicy = iota
	CrossBoundaryWorkspace
	CrossBoundaryMonitor
)

// GlobalOptions bundles the process-wide behavioral knobs the reconciler's
// pipelines read every cycle (spec §4.3.4, §4.3.5): the parts of "the
// active configuration snapshot" (spec §3 "Root state") that influence
// mutation and layout-application behavior rather than window
// classification, which is covered by the rule lists below instead.
type GlobalOptions struct {
	HidePolicy        HidePolicy
	MouseFollowsFocus bool
	CrossBoundary     CrossBoundaryPolicy
	ResizeEpsilon     int
	BorderEnabled     bool
}

// WorkspaceAssignmentRule routes windows matching Rule to the workspace
// named TargetWorkspace on the monitor named TargetMonitor (empty means
// "whichever monitor already owns that workspace name, or the focused
// monitor").
type WorkspaceAssignmentRule struct {
	Rule            rules.Rule
	TargetMonitor   string
	TargetWorkspace string
}

// Root is the whole state tree (spec §3 "Root state"): a Ring of Monitors
// plus the global rule catalogs, paused flag, pending-raise intent, and
// known-windows set used for crash/shutdown restoration.
type Root struct {
	Monitors *ring.Ring[*Monitor]

	IgnoreRules           rules.Set
	FloatRules            rules.Set
	ManageRules           rules.Set
	TrayRules             rules.Set
	ObjectNameChangeRules rules.Set
	LayeredRules          rules.Set
	BorderOverflowRules   rules.Set
	WorkspaceAssignment   []WorkspaceAssignmentRule

	Paused       bool
	PendingRaise bool

	KnownWindows map[wmwindow.Handle]struct{}

	Options GlobalOptions
}

// New returns an empty root state with no monitors.
func New() *Root {
	return &Root{
		Monitors:     ring.New[*Monitor](),
		KnownWindows: make(map[wmwindow.Handle]struct{}),
	}
}

// FocusedMonitor returns the currently focused monitor, or nil if there are
// none.
func (r *Root) FocusedMonitor() *Monitor {
	m, ok := r.Monitors.Focused()
	if !ok {
		return nil
	}
	return m
}

// FocusedWorkspace returns the focused monitor's focused workspace, or nil
// if there are no monitors.
func (r *Root) FocusedWorkspace() *Workspace {
	m := r.FocusedMonitor()
	if m == nil {
		return nil
	}
	return m.FocusedWorkspace()
}

// MonitorBySerial returns the monitor matching serial, including cached
// (disconnected) ones, used to restore a monitor when its display
// reappears (spec §4.3.2 "Display topology change").
func (r *Root) MonitorBySerial(serial string) (*Monitor, bool) {
	for _, m := range r.Monitors.Items() {
		if m.Serial == serial {
			return m, true
		}
	}
	return nil, false
}

// WorkspaceByName searches every monitor for a workspace with the given
// name, returning it along with its owning monitor.
func (r *Root) WorkspaceByName(name string) (*Workspace, *Monitor, bool) {
	for _, m := range r.Monitors.Items() {
		for _, w := range m.Workspaces.Items() {
			if w.Name == name {
				return w, m, true
			}
		}
	}
	return nil, nil, false
}

// FindWindow searches every monitor and workspace for h, returning its
// location. ok is false if h is managed nowhere.
func (r *Root) FindWindow(h wmwindow.Handle) (monitor *Monitor, workspace *Workspace, ok bool) {
	for _, m := range r.Monitors.Items() {
		for _, w := range m.Workspaces.Items() {
			if w.Contains(h) {
				return m, w, true
			}
		}
	}
	return nil, nil, false
}

// MarkKnown records h as having been managed at least once, for
// known-windows crash/shutdown restoration (spec §3 "Root state").
func (r *Root) MarkKnown(h wmwindow.Handle) {
	r.KnownWindows[h] = struct{}{}
}

// IsKnown reports whether h has ever been managed.
func (r *Root) IsKnown(h wmwindow.Handle) bool {
	_, ok := r.KnownWindows[h]
	return ok
}

// ForgetKnown removes h from the known-windows set, used once its
// restoration record is no longer needed (e.g. after a clean shutdown
// writes the final snapshot covering it).
func (r *Root) ForgetKnown(h wmwindow.Handle) {
	delete(r.KnownWindows, h)
}
