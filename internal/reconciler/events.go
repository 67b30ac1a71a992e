package reconciler

import (
	"tilewm/internal/geometry"
	"tilewm/internal/ipc"
	"tilewm/internal/layout"
	"tilewm/internal/osadapter"
	"tilewm/internal/state"
	"tilewm/internal/wmwindow"
)

// handleOSEvent is the dispatch table spec.md §4.3.2 describes. Every
// branch that mutates the tree ends by calling postMutation on the
// monitors it touched, driving the layout-application pipeline exactly
// once per event.
func (rc *Reconciler) handleOSEvent(ev osadapter.Event) {
	if rc.suppress.consume(ev) {
		return
	}

	switch ev.Kind {
	case osadapter.EventSessionLock:
		rc.suspended = true
		return
	case osadapter.EventSessionUnlock:
		rc.suspended = false
		rc.focusFocusedWindow()
		rc.postMutation(rc.root.Monitors.Items(), ipc.Event{Kind: "SessionUnlocked"})
		return
	case osadapter.EventDisplayTopologyChange:
		rc.handleDisplayTopologyChange()
		return
	}

	if rc.root.Paused || rc.suspended {
		return
	}

	switch ev.Kind {
	case osadapter.EventShow, osadapter.EventUncloak, osadapter.EventCreate,
		osadapter.EventForeground, osadapter.EventMinimizeEnd:
		rc.handleShowLike(ev)
	case osadapter.EventHide, osadapter.EventCloak, osadapter.EventDestroy,
		osadapter.EventMinimizeStart:
		rc.handleHideLike(ev)
	case osadapter.EventLocationChange, osadapter.EventMoveOrSizeEnd:
		rc.handleLocationChange(ev)
	case osadapter.EventObjectNameChange:
		rc.handleObjectNameChange(ev)
	}
}

func (rc *Reconciler) handleShowLike(ev osadapter.Event) {
	if mon, ws, ok := rc.root.FindWindow(ev.Window); ok {
		rc.clearTrayMember(ws, ev.Window)
		rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowReappeared", Data: map[string]any{"handle": uint64(ev.Window)}})
		return
	}

	w, err := rc.adapter.Inspect(rc.ctx, ev.Window)
	if err != nil {
		return
	}
	if stashed, ok := rc.pendingObjectNameChange[w.Handle]; ok && w.Title == "" {
		w.Title = stashed.Title
	}

	outcome, mon := rc.classify(w)
	switch outcome {
	case classifyRejected:
		if rc.root.ObjectNameChangeRules.Matches(w) {
			rc.pendingObjectNameChange[w.Handle] = w
		}
		return
	case classifyIgnored:
		return
	}

	delete(rc.pendingObjectNameChange, w.Handle)
	rc.focusWindow(w.Handle)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowAdded", Data: map[string]any{"handle": uint64(w.Handle)}})
}

func (rc *Reconciler) handleHideLike(ev osadapter.Event) {
	mon, ws, ok := rc.root.FindWindow(ev.Window)
	if !ok {
		return
	}

	if ev.Kind == osadapter.EventDestroy {
		rc.removeWindow(ws, ev.Window)
		rc.root.ForgetKnown(ev.Window)
		rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowRemoved", Data: map[string]any{"handle": uint64(ev.Window)}})
		return
	}

	if w, found := windowInWorkspace(ws, ev.Window); found && rc.root.TrayRules.Matches(w) {
		rc.markTrayMember(ws, ev.Window)
		return
	}

	rc.removeWindow(ws, ev.Window)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowHidden", Data: map[string]any{"handle": uint64(ev.Window)}})
}

func (rc *Reconciler) handleLocationChange(ev osadapter.Event) {
	mon, ws, ok := rc.root.FindWindow(ev.Window)
	if !ok {
		return
	}

	if ws.IsFloating(ev.Window) {
		rc.updateFloatingRect(ws, ev.Window, ev.Rect)
		return
	}

	ci, wi, ok := ws.FindWindow(ev.Window)
	if !ok {
		return
	}
	c := ws.Containers.At(ci)
	win := c.Windows.At(wi)
	if win.LastRect.ApproxEqual(ev.Rect, rc.root.Options.ResizeEpsilon) {
		win.LastRect = ev.Rect
		c.Windows.Set(wi, win)
		return
	}

	rc.applyManualResize(mon, ws, win.LastRect, ev.Rect)
	win.LastRect = ev.Rect
	c.Windows.Set(wi, win)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowResized", Data: map[string]any{"handle": uint64(ev.Window)}})
}

func (rc *Reconciler) handleObjectNameChange(ev osadapter.Event) {
	stashed, pending := rc.pendingObjectNameChange[ev.Window]
	if !pending {
		return
	}
	_ = stashed

	fresh, err := rc.adapter.Inspect(rc.ctx, ev.Window)
	if err != nil {
		delete(rc.pendingObjectNameChange, ev.Window)
		return
	}

	outcome, mon := rc.classify(fresh)
	if outcome == classifyRejected {
		rc.pendingObjectNameChange[ev.Window] = fresh
		return
	}
	delete(rc.pendingObjectNameChange, ev.Window)
	if outcome == classifyIgnored {
		return
	}
	rc.focusWindow(fresh.Handle)
	rc.postMutation([]*state.Monitor{mon}, ipc.Event{Kind: "WindowReclassified", Data: map[string]any{"handle": uint64(fresh.Handle)}})
}

func (rc *Reconciler) handleDisplayTopologyChange() {
	infos, err := rc.adapter.Monitors(rc.ctx)
	if err != nil {
		return
	}

	seen := make(map[string]bool, len(infos))
	var affected []*state.Monitor
	for _, info := range infos {
		seen[info.Serial] = true
		if m, ok := rc.root.MonitorBySerial(info.Serial); ok {
			m.Cached = false
			m.Bounds = info.Bounds
			m.WorkArea = info.WorkArea
			affected = append(affected, m)
			continue
		}
		m := state.NewMonitor(info.Serial, info.DeviceName, info.Bounds)
		m.WorkArea = info.WorkArea
		m.IndexPreference = rc.preferredSlot(info.Serial)
		rc.seedMonitorWorkspaces(m)
		rc.insertMonitor(m)
		affected = append(affected, m)
	}
	for _, m := range rc.root.Monitors.Items() {
		if !seen[m.Serial] {
			m.Cached = true
		}
	}

	rc.postMutation(affected, ipc.Event{Kind: "DisplayTopologyChanged"})
}

// insertMonitor places a newly discovered monitor at its configured
// preferred slot, if any, else appends it (spec.md §4.6
// "displayIndexPreferences").
func (rc *Reconciler) insertMonitor(m *state.Monitor) {
	if m.IndexPreference > 0 && m.IndexPreference <= rc.root.Monitors.Len() {
		rc.root.Monitors.InsertAt(m.IndexPreference, m)
		return
	}
	rc.root.Monitors.PushBack(m)
}

func (rc *Reconciler) preferredSlot(serial string) int {
	if rc.cfg == nil {
		return 0
	}
	for idx, s := range rc.cfg.DisplayIndexPreferences {
		if s == serial {
			return idx
		}
	}
	return 0
}

// windowInWorkspace finds the cached Window value for h anywhere in ws
// (tiled or floating), without mutating anything.
func windowInWorkspace(ws *state.Workspace, h wmwindow.Handle) (wmwindow.Window, bool) {
	if ci, wi, ok := ws.FindWindow(h); ok {
		return ws.Containers.At(ci).Windows.At(wi), true
	}
	for _, fw := range ws.Floating {
		if fw.Handle == h {
			return fw, true
		}
	}
	return wmwindow.Window{}, false
}

// removeWindow evicts h from wherever it lives in ws: the floating set or
// a tiled container (destroying the container if it empties, per the
// "no empty containers" invariant).
func (rc *Reconciler) removeWindow(ws *state.Workspace, h wmwindow.Handle) {
	if ws.RemoveFloating(h) {
		return
	}
	ws.RemoveWindow(h)
}

// markTrayMember tags h's container as having a tray-minimize survivor
// instead of evicting it, per spec.md §4.3.2's tray-minimize scenario: no
// relayout happens for this branch.
func (rc *Reconciler) markTrayMember(ws *state.Workspace, h wmwindow.Handle) {
	ci, _, ok := ws.FindWindow(h)
	if !ok {
		return
	}
	ws.Containers.At(ci).HasTrayMember = true
}

// clearTrayMember removes the tray-survivor tag once the window reappears.
func (rc *Reconciler) clearTrayMember(ws *state.Workspace, h wmwindow.Handle) {
	ci, _, ok := ws.FindWindow(h)
	if !ok {
		return
	}
	ws.Containers.At(ci).HasTrayMember = false
}

// updateFloatingRect records a floating window's new cached rect without
// triggering layout application; floating windows aren't governed by the
// layout engine.
func (rc *Reconciler) updateFloatingRect(ws *state.Workspace, h wmwindow.Handle, rect geometry.Rect) {
	for i, fw := range ws.Floating {
		if fw.Handle == h {
			fw.LastRect = rect
			ws.Floating[i] = fw
			return
		}
	}
}

// applyManualResize implements the Open Question (a) decision: a manual
// drag nudges whichever single axis ratio the active layout reads (index
// 0 of ColumnRatios/RowRatios), the only tunable state BSP and the other
// ratio-driven layouts expose per container pair (spec.md §9 open
// question (a)).
func (rc *Reconciler) applyManualResize(mon *state.Monitor, ws *state.Workspace, old, next geometry.Rect) {
	area := mon.EffectiveWorkArea(ws.Padding.Outer).InsetOuter(ws.WorkAreaOffset.Outer)
	widthDelta := next.Width() - old.Width()
	heightDelta := next.Height() - old.Height()

	if abs(widthDelta) >= abs(heightDelta) {
		if area.Width() <= 0 {
			return
		}
		nudgeRatio(&ws.LayoutOptions.ColumnRatios, float64(widthDelta)/float64(area.Width()))
		return
	}
	if area.Height() <= 0 {
		return
	}
	nudgeRatio(&ws.LayoutOptions.RowRatios, float64(heightDelta)/float64(area.Height()))
}

func nudgeRatio(ratios *[]float64, delta float64) {
	if len(*ratios) == 0 {
		*ratios = []float64{0.5}
	}
	(*ratios)[0] = layout.ClampRatio((*ratios)[0] + delta)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// focusFocusedWindow issues a foreground call for the currently focused
// workspace's focused window, used after focus-affecting mutations that
// don't otherwise change which window the adapter should raise.
func (rc *Reconciler) focusFocusedWindow() {
	ws := rc.root.FocusedWorkspace()
	if ws == nil {
		return
	}
	c, ok := ws.Containers.Focused()
	if !ok {
		return
	}
	w, ok := c.Focused()
	if !ok {
		return
	}
	rc.foreground(w.Handle)
}

// focusWindow moves focus (at every ring level) to h and raises it,
// wherever it lives in the tree.
func (rc *Reconciler) focusWindow(h wmwindow.Handle) {
	mon, ws, ok := rc.root.FindWindow(h)
	if !ok {
		return
	}
	rc.root.Monitors.FocusByPredicate(func(m *state.Monitor) bool { return m == mon })
	mon.Workspaces.FocusByPredicate(func(w *state.Workspace) bool { return w == ws })
	if ci, wi, ok := ws.FindWindow(h); ok {
		ws.Containers.FocusIndex(ci)
		ws.Containers.At(ci).Windows.FocusIndex(wi)
	}
	rc.foreground(h)
}
