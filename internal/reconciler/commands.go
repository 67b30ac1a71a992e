package reconciler

import (
	"tilewm/internal/geometry"
	"tilewm/internal/ipc"
	"tilewm/internal/layout"
	"tilewm/internal/ring"
	"tilewm/internal/rules"
	"tilewm/internal/state"
)

// handleCommand is the control-protocol dispatch table (spec.md §4.5): one
// branch per wire command. Every branch that changes the tree's layout ends
// with postMutation on whatever monitors it touched so the layout pipeline
// and subscription broadcast run exactly once per applied command; branches
// that only change an option or a rule list return without re-rendering.
// The subscription variants are handled directly by ipc.Server and never
// reach here; the default branch covers them defensively.
func (rc *Reconciler) handleCommand(cmd ipc.Command) (any, error) {
	switch c := cmd.(type) {

	// ---- Focus ----
	case *ipc.FocusDirection:
		return nil, rc.cmdFocusDirection(c.Direction)
	case *ipc.FocusCycle:
		return nil, rc.cmdFocusCycle(c.Sense)
	case *ipc.FocusWorkspace:
		return nil, rc.cmdFocusWorkspace(c.Index, c.Name)
	case *ipc.FocusMonitor:
		return nil, rc.cmdFocusMonitor(c.Index)
	case *ipc.FocusLastWorkspace:
		return nil, rc.cmdFocusLastWorkspace()
	case *ipc.FocusStackWindow:
		return nil, rc.cmdFocusStackWindow(c.Index)
	case *ipc.EagerFocusByExecutable:
		return nil, rc.cmdEagerFocusByExecutable(c.Executable)

	// ---- Move / send ----
	case *ipc.MoveDirection:
		return nil, rc.cmdMoveDirection(c.Direction)
	case *ipc.SendToWorkspace:
		return nil, rc.cmdSendToWorkspace(c.Target, c.FollowFocus)
	case *ipc.SendToMonitor:
		return nil, rc.cmdSendToMonitor(c.Index, c.FollowFocus)
	case *ipc.CycleMoveWindow:
		return nil, rc.cmdCycleMoveWindow(c.Sense)
	case *ipc.PromoteToLargest:
		return nil, rc.cmdPromoteToLargest()
	case *ipc.PromoteFocus:
		return nil, rc.cmdPromoteFocus()

	// ---- Stack ----
	case *ipc.StackDirection:
		return nil, rc.cmdStackDirection(c.Direction)
	case *ipc.Unstack:
		return nil, rc.cmdUnstack()
	case *ipc.CycleStack:
		return nil, rc.cmdCycleStack(c.Sense)
	case *ipc.StackAll:
		return nil, rc.cmdStackAll()
	case *ipc.UnstackAll:
		return nil, rc.cmdUnstackAll()

	// ---- Resize ----
	case *ipc.ResizeEdge:
		return nil, rc.cmdResizeEdge(c.Edge, c.Delta)
	case *ipc.ResizeAxis:
		return nil, rc.cmdResizeAxis(c.Axis, c.Delta)
	case *ipc.SetResizeDelta:
		rc.resizeDelta = c.Delta
		return nil, nil

	// ---- Layout ----
	case *ipc.ChangeLayout:
		return nil, rc.cmdChangeLayout(c.Layout)
	case *ipc.AddLayoutRule:
		return nil, rc.cmdAddLayoutRule(c.Threshold, c.Layout)
	case *ipc.RemoveLayoutRule:
		return nil, rc.cmdRemoveLayoutRule(c.Threshold)
	case *ipc.LoadCustomLayout:
		return nil, rc.cmdLoadCustomLayout(c.Path)
	case *ipc.SaveWorkspaceLayout:
		return nil, rc.cmdSaveWorkspaceLayout(c.Name)
	case *ipc.QuickSaveWorkspaceLayout:
		return nil, rc.cmdSaveWorkspaceLayout(quickLayoutKey)
	case *ipc.QuickLoadWorkspaceLayout:
		return nil, rc.cmdLoadWorkspaceLayout(quickLayoutKey)

	// ---- Workspace ----
	case *ipc.CreateWorkspace:
		return nil, rc.cmdCreateWorkspace(c.Name)
	case *ipc.RenameWorkspace:
		return nil, rc.cmdRenameWorkspace(c.Name)
	case *ipc.SetOuterPadding:
		return nil, rc.cmdSetOuterPadding(c.Value)
	case *ipc.SetInnerPadding:
		return nil, rc.cmdSetInnerPadding(c.Value)
	case *ipc.ToggleTiling:
		return nil, rc.cmdToggleTiling()
	case *ipc.SetWorkAreaOffset:
		return nil, rc.cmdSetWorkAreaOffset(c.Left, c.Top, c.Right, c.Bottom)
	case *ipc.ToggleContainerPolicy:
		return nil, rc.cmdToggleContainerPolicy()

	// ---- Monitor ----
	case *ipc.MoveWorkspaceToMonitor:
		return nil, rc.cmdMoveWorkspaceToMonitor(c.MonitorIndex)
	case *ipc.SetMonitorWorkAreaOffset:
		return nil, rc.cmdSetMonitorWorkAreaOffset(c.MonitorIndex, c.Left, c.Top, c.Right, c.Bottom)
	case *ipc.SetMonitorIndexPreference:
		return nil, rc.cmdSetMonitorIndexPreference(c.Serial, c.PreferredSlot)

	// ---- Rules ----
	case *ipc.AddFloatRule:
		return nil, rc.cmdAddRule(&rc.root.FloatRules, c.Rule)
	case *ipc.AddManageRule:
		return nil, rc.cmdAddRule(&rc.root.ManageRules, c.Rule)
	case *ipc.AddIgnoreRule:
		return nil, rc.cmdAddRule(&rc.root.IgnoreRules, c.Rule)
	case *ipc.AddTrayRule:
		return nil, rc.cmdAddRule(&rc.root.TrayRules, c.Rule)
	case *ipc.AddObjectNameChangeRule:
		return nil, rc.cmdAddRule(&rc.root.ObjectNameChangeRules, c.Rule)
	case *ipc.AddLayeredRule:
		return nil, rc.cmdAddRule(&rc.root.LayeredRules, c.Rule)
	case *ipc.AddBorderOverflowRule:
		return nil, rc.cmdAddRule(&rc.root.BorderOverflowRules, c.Rule)
	case *ipc.AddWorkspaceAssignmentRule:
		rc.root.WorkspaceAssignment = append(rc.root.WorkspaceAssignment, state.WorkspaceAssignmentRule{
			Rule:            ruleFromSpec(c.Rule),
			TargetMonitor:   c.TargetMonitor,
			TargetWorkspace: c.TargetWorkspace,
		})
		return nil, nil

	// ---- Global ----
	case *ipc.TogglePause:
		rc.root.Paused = !rc.root.Paused
		return nil, nil
	case *ipc.ToggleFocusFollowsMouse:
		return nil, nil // accepted and ignored: no component implements focus-follows-mouse
	case *ipc.ToggleMouseFollowsFocus:
		rc.root.Options.MouseFollowsFocus = !rc.root.Options.MouseFollowsFocus
		return nil, nil
	case *ipc.ToggleFloat:
		return nil, rc.cmdToggleFloat()
	case *ipc.ToggleMonocle:
		return nil, rc.cmdToggleMonocle()
	case *ipc.ToggleMaximize:
		return nil, rc.cmdToggleMaximize()
	case *ipc.SetHidePolicy:
		return nil, rc.cmdSetHidePolicy(c.Policy)
	case *ipc.SetCrossBoundary:
		return nil, rc.cmdSetCrossBoundary(c.Policy)
	case *ipc.Retile:
		rc.postMutation(rc.root.Monitors.Items(), ipc.Event{Kind: "Retiled"})
		return nil, nil
	case *ipc.CompleteConfiguration:
		rc.postMutation(rc.root.Monitors.Items(), ipc.Event{Kind: "ConfigurationCompleted"})
		return nil, nil
	case *ipc.ReloadConfiguration:
		return nil, nil // the config.Loader's file watch drives applyConfig directly

	// ---- Query / shutdown ----
	case *ipc.QueryState:
		return rc.snapshot(), nil
	case *ipc.Stop:
		return nil, nil

	default:
		return nil, nil
	}
}

const quickLayoutKey = "__quick__"

func ruleFromSpec(spec ipc.RuleSpec) rules.Rule {
	r := rules.Rule{
		Field:    rules.Field(spec.Field),
		Pattern:  spec.Pattern,
		Strategy: rules.Strategy(spec.Strategy),
	}
	r.Compile()
	return r
}

func (rc *Reconciler) cmdAddRule(set *rules.Set, spec ipc.RuleSpec) error {
	*set = append(*set, ruleFromSpec(spec))
	return nil
}

// focusedContext returns the focused monitor and workspace, or
// errInvalidTarget if there are no monitors at all.
func (rc *Reconciler) focusedContext() (*state.Monitor, *state.Workspace, error) {
	mon := rc.root.FocusedMonitor()
	if mon == nil {
		return nil, nil, errInvalidTarget
	}
	return mon, mon.FocusedWorkspace(), nil
}

// containerRects returns the current on-screen rect of each of ws's
// containers, in ring order, matching what the last layout application
// produced — the input geometry.Neighbor needs for directional focus/move.
func containerRects(mon *state.Monitor, ws *state.Workspace) []geometry.Rect {
	area := mon.EffectiveWorkArea(ws.Padding.Outer).InsetOuter(ws.WorkAreaOffset.Outer)
	n := ws.Containers.Len()
	if n == 0 {
		return nil
	}
	desc := ws.EffectiveLayout(n)
	return layout.Apply(desc, n, area, ws.Padding.Inner, ws.LayoutOptions)
}

func parseDirection(s string) (geometry.Direction, bool) {
	switch geometry.Direction(s) {
	case geometry.Left, geometry.Right, geometry.Up, geometry.Down:
		return geometry.Direction(s), true
	}
	return "", false
}

func parseSense(s string) (geometry.CycleDirection, bool) {
	switch geometry.CycleDirection(s) {
	case geometry.Next, geometry.Previous:
		return geometry.CycleDirection(s), true
	}
	return "", false
}

func senseDelta(sense geometry.CycleDirection) int {
	if sense == geometry.Previous {
		return -1
	}
	return 1
}

// ---- Focus ----

func (rc *Reconciler) cmdFocusDirection(dirStr string) error {
	dir, ok := parseDirection(dirStr)
	if !ok {
		return errInvalidTarget
	}
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.InMonocle() || ws.Containers.Len() == 0 {
		return errInvalidTarget
	}

	rects := containerRects(mon, ws)
	idx := geometry.Neighbor(ws.Containers.FocusedIndex(), rects, dir)
	if idx >= 0 {
		ws.Containers.FocusIndex(idx)
		if w, ok := ws.Containers.At(idx).Focused(); ok {
			rc.focusWindow(w.Handle)
		}
		rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
		return nil
	}

	return rc.crossBoundaryFocus(mon, dir)
}

// crossBoundaryFocus escalates a direction-focus command with no in-
// workspace neighbor to the adjacent workspace or monitor, per the active
// CrossBoundaryPolicy (spec.md §4.1 "cross-boundary policy").
func (rc *Reconciler) crossBoundaryFocus(mon *state.Monitor, dir geometry.Direction) error {
	switch rc.root.Options.CrossBoundary {
	case state.CrossBoundaryWorkspace:
		delta := 1
		if dir == geometry.Left || dir == geometry.Up {
			delta = -1
		}
		mon.Workspaces.FocusDirection(delta, ring.Wrap)
		rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
		return nil
	case state.CrossBoundaryMonitor:
		bounds := make([]geometry.Rect, 0, rc.root.Monitors.Len())
		for _, m := range rc.root.Monitors.Items() {
			bounds = append(bounds, m.Bounds)
		}
		idx := geometry.Neighbor(rc.root.Monitors.IndexOf(func(m *state.Monitor) bool { return m == mon }), bounds, dir)
		if idx < 0 {
			return errInvalidTarget
		}
		rc.root.Monitors.FocusIndex(idx)
		target := rc.root.Monitors.At(idx)
		rc.postMutation([]*state.Monitor{mon, target}, ipc.Event{Kind: "FocusChanged"})
		return nil
	default:
		return errInvalidTarget
	}
}

func (rc *Reconciler) cmdFocusCycle(senseStr string) error {
	sense, ok := parseSense(senseStr)
	if !ok {
		return errInvalidTarget
	}
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	ws.Containers.FocusDirection(senseDelta(sense), ring.Wrap)
	if w, ok := ws.Containers.Focused(); ok {
		if win, ok := w.Focused(); ok {
			rc.focusWindow(win.Handle)
		}
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

func (rc *Reconciler) cmdFocusWorkspace(index *int, name *string) error {
	mon := rc.root.FocusedMonitor()
	if mon == nil {
		return errInvalidTarget
	}
	switch {
	case name != nil:
		ws := mon.WorkspaceByName(*name)
		mon.Workspaces.FocusByPredicate(func(w *state.Workspace) bool { return w == ws })
	case index != nil:
		if *index < 0 {
			return errInvalidTarget
		}
		mon.FocusWorkspace(*index)
	default:
		return errInvalidTarget
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

func (rc *Reconciler) cmdFocusMonitor(index int) error {
	if index < 0 || index >= rc.root.Monitors.Len() {
		return errInvalidTarget
	}
	prev := rc.root.FocusedMonitor()
	rc.root.Monitors.FocusIndex(index)
	rc.postMutation([]*state.Monitor{prev, rc.root.Monitors.At(index)}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

func (rc *Reconciler) cmdFocusLastWorkspace() error {
	mon, _, err := rc.focusedContext()
	if err != nil {
		return err
	}
	mon.ToggleLastWorkspace()
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

func (rc *Reconciler) cmdFocusStackWindow(index int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	c, ok := ws.Containers.Focused()
	if !ok || index < 0 || index >= c.Windows.Len() {
		return errInvalidTarget
	}
	c.Windows.FocusIndex(index)
	if w, ok := c.Focused(); ok {
		rc.focusWindow(w.Handle)
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

func (rc *Reconciler) cmdEagerFocusByExecutable(executable string) error {
	for _, m := range rc.root.Monitors.Items() {
		for _, ws := range m.Workspaces.Items() {
			for _, c := range ws.Containers.Items() {
				for _, w := range c.Windows.Items() {
					if w.Executable == executable {
						rc.focusWindow(w.Handle)
						rc.postMutation([]*state.Monitor{m}, ipc.Event{Kind: "FocusChanged"})
						return nil
					}
				}
			}
			for _, w := range ws.Floating {
				if w.Executable == executable {
					rc.focusWindow(w.Handle)
					rc.postMutation([]*state.Monitor{m}, ipc.Event{Kind: "FocusChanged"})
					return nil
				}
			}
		}
	}
	return errInvalidTarget
}

// ---- Move / send ----

func (rc *Reconciler) cmdMoveDirection(dirStr string) error {
	dir, ok := parseDirection(dirStr)
	if !ok {
		return errInvalidTarget
	}
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.InMonocle() || ws.Containers.Len() < 2 {
		return errInvalidTarget
	}
	rects := containerRects(mon, ws)
	focused := ws.Containers.FocusedIndex()
	idx := geometry.Neighbor(focused, rects, dir)
	if idx < 0 {
		return errInvalidTarget
	}
	ws.Containers.Swap(focused, idx)
	ws.Containers.FocusIndex(idx)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowMoved"})
	return nil
}

// resolveWorkspaceTarget finds the workspace a WorkspaceTarget names,
// creating it on the focused monitor if it's named but doesn't exist yet.
func (rc *Reconciler) resolveWorkspaceTarget(target ipc.WorkspaceTarget) (*state.Workspace, *state.Monitor, error) {
	switch {
	case target.Name != nil:
		if ws, mon, ok := rc.root.WorkspaceByName(*target.Name); ok {
			return ws, mon, nil
		}
		mon := rc.root.FocusedMonitor()
		if mon == nil {
			return nil, nil, errInvalidTarget
		}
		return mon.WorkspaceByName(*target.Name), mon, nil
	case target.Index != nil:
		mon := rc.root.FocusedMonitor()
		if mon == nil || *target.Index < 0 {
			return nil, nil, errInvalidTarget
		}
		return mon.WorkspaceAt(*target.Index), mon, nil
	default:
		return nil, nil, errInvalidTarget
	}
}

func (rc *Reconciler) cmdSendToWorkspace(target ipc.WorkspaceTarget, followFocus bool) error {
	srcMon, src, err := rc.focusedContext()
	if err != nil {
		return err
	}
	dst, dstMon, err := rc.resolveWorkspaceTarget(target)
	if err != nil {
		return err
	}
	if dst == src {
		return errInvalidTarget
	}
	ci := src.Containers.FocusedIndex()
	if ci < 0 {
		return errInvalidTarget
	}
	c := src.Containers.RemoveAt(ci, ring.PreferPrevious)
	if src.MonocleContainer == ci {
		src.MonocleContainer = -1
	} else if src.MonocleContainer > ci {
		src.MonocleContainer--
	}
	dst.Containers.PushBack(c)
	dst.Containers.FocusIndex(dst.Containers.Len() - 1)

	affected := []*state.Monitor{srcMon, dstMon}
	if followFocus {
		rc.root.Monitors.FocusByPredicate(func(m *state.Monitor) bool { return m == dstMon })
		dstMon.Workspaces.FocusByPredicate(func(w *state.Workspace) bool { return w == dst })
	}
	rc.postMutation(affected, ipc.Event{Kind: "WindowMoved"})
	return nil
}

func (rc *Reconciler) cmdSendToMonitor(index int, followFocus bool) error {
	if index < 0 || index >= rc.root.Monitors.Len() {
		return errInvalidTarget
	}
	target := rc.root.Monitors.At(index)
	idxVal := target.Workspaces.FocusedIndex()
	if idxVal < 0 {
		idxVal = 0
	}
	return rc.cmdSendToWorkspace(ipc.WorkspaceTarget{Index: &idxVal}, followFocus)
}

func (rc *Reconciler) cmdCycleMoveWindow(senseStr string) error {
	sense, ok := parseSense(senseStr)
	if !ok {
		return errInvalidTarget
	}
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	n := ws.Containers.Len()
	if n < 2 {
		return errInvalidTarget
	}
	focused := ws.Containers.FocusedIndex()
	delta := senseDelta(sense)
	target := ((focused+delta)%n + n) % n
	ws.Containers.Swap(focused, target)
	ws.Containers.FocusIndex(target)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowMoved"})
	return nil
}

func (rc *Reconciler) cmdPromoteToLargest() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.Containers.Len() < 2 {
		return errInvalidTarget
	}
	focused := ws.Containers.FocusedIndex()
	ws.Containers.Swap(focused, 0)
	ws.Containers.FocusIndex(0)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowMoved"})
	return nil
}

func (rc *Reconciler) cmdPromoteFocus() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.Containers.Len() == 0 {
		return errInvalidTarget
	}
	ws.Containers.FocusIndex(0)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

// ---- Stack ----

func (rc *Reconciler) cmdStackDirection(dirStr string) error {
	dir, ok := parseDirection(dirStr)
	if !ok {
		return errInvalidTarget
	}
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	rects := containerRects(mon, ws)
	focused := ws.Containers.FocusedIndex()
	idx := geometry.Neighbor(focused, rects, dir)
	if idx < 0 {
		return errInvalidTarget
	}
	neighbor := ws.Containers.At(idx)
	target := ws.Containers.At(focused)
	for _, w := range neighbor.Windows.Items() {
		target.Windows.PushBack(w)
	}
	target.Windows.FocusIndex(target.Windows.Len() - 1)
	ws.Containers.RemoveAt(idx, ring.PreferPrevious)
	ws.Containers.FocusByPredicate(func(c *state.Container) bool { return c == target })
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "Stacked"})
	return nil
}

func (rc *Reconciler) cmdUnstack() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	c, ok := ws.Containers.Focused()
	if !ok || c.Windows.Len() < 2 {
		return errInvalidTarget
	}
	wi := c.Windows.FocusedIndex()
	w := c.Windows.RemoveAt(wi, ring.PreferPrevious)
	nc := state.NewContainer(w)
	ci := ws.Containers.FocusedIndex()
	ws.Containers.InsertAt(ci+1, nc)
	ws.Containers.FocusIndex(ci + 1)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "Unstacked"})
	return nil
}

func (rc *Reconciler) cmdCycleStack(senseStr string) error {
	sense, ok := parseSense(senseStr)
	if !ok {
		return errInvalidTarget
	}
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	c, ok := ws.Containers.Focused()
	if !ok {
		return errInvalidTarget
	}
	c.Windows.FocusDirection(senseDelta(sense), ring.Wrap)
	if w, ok := c.Focused(); ok {
		rc.focusWindow(w.Handle)
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FocusChanged"})
	return nil
}

func (rc *Reconciler) cmdStackAll() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.Containers.Len() < 2 {
		return errInvalidTarget
	}
	containers := ws.Containers.Items()
	target := containers[0]
	for _, c := range containers[1:] {
		for _, w := range c.Windows.Items() {
			target.Windows.PushBack(w)
		}
	}
	merged := ring.New[*state.Container]()
	merged.PushBack(target)
	ws.Containers = merged
	ws.MonocleContainer = -1
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "Stacked"})
	return nil
}

func (rc *Reconciler) cmdUnstackAll() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	split := ring.New[*state.Container]()
	for _, c := range ws.Containers.Items() {
		for _, w := range c.Windows.Items() {
			split.PushBack(state.NewContainer(w))
		}
	}
	ws.Containers = split
	ws.MonocleContainer = -1
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "Unstacked"})
	return nil
}

// ---- Resize ----

func (rc *Reconciler) cmdResizeEdge(edge string, delta int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if delta == 0 {
		delta = rc.resizeDelta
	}
	frac := float64(delta) / 100.0
	switch edge {
	case "left":
		nudgeRatio(&ws.LayoutOptions.ColumnRatios, -frac)
	case "right":
		nudgeRatio(&ws.LayoutOptions.ColumnRatios, frac)
	case "top":
		nudgeRatio(&ws.LayoutOptions.RowRatios, -frac)
	case "bottom":
		nudgeRatio(&ws.LayoutOptions.RowRatios, frac)
	default:
		return errInvalidTarget
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowResized"})
	return nil
}

func (rc *Reconciler) cmdResizeAxis(axis string, delta int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if delta == 0 {
		delta = rc.resizeDelta
	}
	frac := float64(delta) / 100.0
	switch axis {
	case "horizontal":
		nudgeRatio(&ws.LayoutOptions.ColumnRatios, frac)
	case "vertical":
		nudgeRatio(&ws.LayoutOptions.RowRatios, frac)
	default:
		return errInvalidTarget
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowResized"})
	return nil
}

// ---- Layout ----

func descriptorFromWire(d ipc.LayoutDescriptor) (layout.Descriptor, layout.Options) {
	desc := layout.Descriptor{Kind: layout.Kind(d.Variant), Path: d.CustomPath}
	cols := make([]float64, len(d.ColumnRatios))
	for i, v := range d.ColumnRatios {
		cols[i] = float64(v) / 100.0
	}
	rows := make([]float64, len(d.RowRatios))
	for i, v := range d.RowRatios {
		rows[i] = float64(v) / 100.0
	}
	return desc, layout.Options{
		ColumnRatios: layout.NormalizeRatios(cols),
		RowRatios:    layout.NormalizeRatios(rows),
	}
}

func (rc *Reconciler) cmdChangeLayout(wire ipc.LayoutDescriptor) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	desc, opts := descriptorFromWire(wire)
	if !ws.SetLayout(desc) {
		return errInvalidTarget
	}
	if len(opts.ColumnRatios) > 0 {
		ws.LayoutOptions.ColumnRatios = opts.ColumnRatios
	}
	if len(opts.RowRatios) > 0 {
		ws.LayoutOptions.RowRatios = opts.RowRatios
	}
	ws.LayoutOptions.CustomSpecs = rc.customLayouts
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "LayoutChanged"})
	return nil
}

func (rc *Reconciler) cmdAddLayoutRule(threshold int, wire ipc.LayoutDescriptor) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	desc, _ := descriptorFromWire(wire)
	ws.LayoutRules = append(ws.LayoutRules, state.LayoutRule{Threshold: threshold, Layout: desc})
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "LayoutChanged"})
	return nil
}

func (rc *Reconciler) cmdRemoveLayoutRule(threshold int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	out := ws.LayoutRules[:0]
	for _, r := range ws.LayoutRules {
		if r.Threshold != threshold {
			out = append(out, r)
		}
	}
	ws.LayoutRules = out
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "LayoutChanged"})
	return nil
}

func (rc *Reconciler) cmdLoadCustomLayout(path string) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if _, ok := rc.customLayouts[path]; !ok {
		return errInvalidTarget
	}
	if !ws.SetLayout(layout.Descriptor{Kind: layout.Custom, Path: path}) {
		return errInvalidTarget
	}
	ws.LayoutOptions.CustomSpecs = rc.customLayouts
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "LayoutChanged"})
	return nil
}

func (rc *Reconciler) cmdSaveWorkspaceLayout(name string) error {
	_, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	rc.savedLayouts[name] = savedLayout{
		Layout:        ws.Layout,
		LayoutOptions: ws.LayoutOptions,
		Padding:       ws.Padding,
	}
	return nil
}

func (rc *Reconciler) cmdLoadWorkspaceLayout(name string) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	saved, ok := rc.savedLayouts[name]
	if !ok {
		return errInvalidTarget
	}
	ws.Layout = saved.Layout
	ws.LayoutOptions = saved.LayoutOptions
	ws.Padding = saved.Padding
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "LayoutChanged"})
	return nil
}

// ---- Workspace ----

func (rc *Reconciler) cmdCreateWorkspace(name string) error {
	mon := rc.root.FocusedMonitor()
	if mon == nil {
		return errInvalidTarget
	}
	ws := mon.WorkspaceByName(name)
	mon.Workspaces.FocusByPredicate(func(w *state.Workspace) bool { return w == ws })
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WorkspaceCreated"})
	return nil
}

func (rc *Reconciler) cmdRenameWorkspace(name string) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	ws.Name = name
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WorkspaceRenamed"})
	return nil
}

func (rc *Reconciler) cmdSetOuterPadding(value int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	ws.Padding.Outer = value
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "PaddingChanged"})
	return nil
}

func (rc *Reconciler) cmdSetInnerPadding(value int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	ws.Padding.Inner = value
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "PaddingChanged"})
	return nil
}

func (rc *Reconciler) cmdToggleTiling() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	ws.TilingDisabled = !ws.TilingDisabled
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "TilingToggled"})
	return nil
}

// cmdSetWorkAreaOffset folds the four per-edge offsets into the single
// uniform inset Workspace.WorkAreaOffset models, matching how every other
// caller of it (layout application, manual resize) already treats it as
// one scalar (spec.md §4.3.4 step 1).
func (rc *Reconciler) cmdSetWorkAreaOffset(left, top, right, bottom int) error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	ws.WorkAreaOffset.Outer = (left + top + right + bottom) / 4
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WorkAreaChanged"})
	return nil
}

func (rc *Reconciler) cmdToggleContainerPolicy() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.Policy == state.NewContainerPolicy {
		ws.Policy = state.AppendToFocusedPolicy
	} else {
		ws.Policy = state.NewContainerPolicy
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "ContainerPolicyChanged"})
	return nil
}

// ---- Monitor ----

func (rc *Reconciler) cmdMoveWorkspaceToMonitor(monitorIndex int) error {
	if monitorIndex < 0 || monitorIndex >= rc.root.Monitors.Len() {
		return errInvalidTarget
	}
	srcMon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	dstMon := rc.root.Monitors.At(monitorIndex)
	if dstMon == srcMon {
		return errInvalidTarget
	}
	idx := srcMon.Workspaces.IndexOf(func(w *state.Workspace) bool { return w == ws })
	if idx < 0 {
		return errInvalidTarget
	}
	srcMon.Workspaces.RemoveAt(idx, ring.PreferPrevious)
	dstMon.Workspaces.PushBack(ws)
	dstMon.Workspaces.FocusByPredicate(func(w *state.Workspace) bool { return w == ws })
	rc.postMutation([]*state.Monitor{srcMon, dstMon}, ipc.Event{Kind: "WorkspaceMoved"})
	return nil
}

func (rc *Reconciler) cmdSetMonitorWorkAreaOffset(monitorIndex, left, top, right, bottom int) error {
	if monitorIndex < 0 || monitorIndex >= rc.root.Monitors.Len() {
		return errInvalidTarget
	}
	mon := rc.root.Monitors.At(monitorIndex)
	mon.WorkArea = mon.Bounds.InsetOuter(0)
	mon.WorkArea.Left += left
	mon.WorkArea.Top += top
	mon.WorkArea.Right -= right
	mon.WorkArea.Bottom -= bottom
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WorkAreaChanged"})
	return nil
}

func (rc *Reconciler) cmdSetMonitorIndexPreference(serial string, preferredSlot int) error {
	if rc.cfg != nil {
		if rc.cfg.DisplayIndexPreferences == nil {
			rc.cfg.DisplayIndexPreferences = make(map[int]string)
		}
		rc.cfg.DisplayIndexPreferences[preferredSlot] = serial
	}
	if mon, ok := rc.root.MonitorBySerial(serial); ok {
		mon.IndexPreference = preferredSlot
	}
	return nil
}

// ---- Global ----

func (rc *Reconciler) cmdToggleFloat() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	c, ok := ws.Containers.Focused()
	if !ok {
		return errInvalidTarget
	}
	w, ok := c.Focused()
	if !ok {
		return errInvalidTarget
	}
	ws.RemoveWindow(w.Handle)
	ws.AddFloating(w)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "FloatToggled"})
	return nil
}

func (rc *Reconciler) cmdToggleMonocle() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.InMonocle() {
		ws.ExitMonocle()
	} else {
		idx := ws.Containers.FocusedIndex()
		if idx < 0 {
			return errInvalidTarget
		}
		ws.EnterMonocle(idx)
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "MonocleToggled"})
	return nil
}

func (rc *Reconciler) cmdToggleMaximize() error {
	mon, ws, err := rc.focusedContext()
	if err != nil {
		return err
	}
	if ws.Maximized != nil {
		w := *ws.Maximized
		ws.ClearMaximized()
		rc.unmaximize(w.Handle)
	} else {
		c, ok := ws.Containers.Focused()
		if !ok {
			return errInvalidTarget
		}
		w, ok := c.Focused()
		if !ok {
			return errInvalidTarget
		}
		ws.SetMaximized(w)
		rc.maximize(w.Handle)
	}
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "MaximizeToggled"})
	return nil
}

func (rc *Reconciler) cmdSetHidePolicy(policy string) error {
	switch policy {
	case "hide":
		rc.root.Options.HidePolicy = state.HidePolicyHide
	case "minimize":
		rc.root.Options.HidePolicy = state.HidePolicyMinimize
	case "cloak":
		rc.root.Options.HidePolicy = state.HidePolicyCloak
	default:
		return errInvalidTarget
	}
	return nil
}

func (rc *Reconciler) cmdSetCrossBoundary(policy string) error {
	switch policy {
	case "none":
		rc.root.Options.CrossBoundary = state.CrossBoundaryNone
	case "workspace":
		rc.root.Options.CrossBoundary = state.CrossBoundaryWorkspace
	case "monitor":
		rc.root.Options.CrossBoundary = state.CrossBoundaryMonitor
	default:
		return errInvalidTarget
	}
	return nil
}
