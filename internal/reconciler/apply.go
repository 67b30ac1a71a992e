package reconciler

import (
	"tilewm/internal/config"
	"tilewm/internal/geometry"
	"tilewm/internal/ipc"
	"tilewm/internal/layout"
	"tilewm/internal/rules"
	"tilewm/internal/state"
)

// postMutation drives the layout-application pipeline (spec.md §4.3.4) for
// every monitor a mutation touched, then broadcasts the resulting state to
// subscribers. Every mutating branch of the event and command handlers
// funnels through here instead of calling the adapter directly, so no
// caller can forget a step.
func (rc *Reconciler) postMutation(monitors []*state.Monitor, ev ipc.Event) {
	for _, m := range monitors {
		rc.applyMonitor(m)
	}
	if rc.root.Options.MouseFollowsFocus {
		rc.moveMouseToFocus()
	}
	rc.persistKnownWindows()
	rc.emitNotification(ev)
}

// applyMonitor renders every workspace on m: the focused workspace's
// windows are shown and positioned, every other workspace's windows are
// hidden according to the active hide policy (spec.md §4.3.4 steps 1-6).
func (rc *Reconciler) applyMonitor(m *state.Monitor) {
	if m.Cached {
		return
	}
	for i, ws := range m.Workspaces.Items() {
		if i == m.Workspaces.FocusedIndex() {
			rc.applyWorkspaceLayout(m, ws)
		} else {
			rc.hideWorkspace(ws)
		}
	}
}

// applyWorkspaceLayout computes and applies target rectangles for ws's
// tiled containers, respecting the maximized and monocle overrides (spec.md
// §4.3.4 steps 1-5), then shows/positions the floating set and hides
// whatever else the workspace is holding back.
func (rc *Reconciler) applyWorkspaceLayout(m *state.Monitor, ws *state.Workspace) {
	area := m.EffectiveWorkArea(ws.Padding.Outer).InsetOuter(ws.WorkAreaOffset.Outer)

	if ws.TilingDisabled {
		for _, c := range ws.Containers.Items() {
			if w, ok := c.Focused(); ok {
				rc.show(w.Handle)
			}
		}
		rc.showFloating(ws)
		return
	}

	if ws.Maximized != nil {
		if !ws.Maximized.LastRect.ApproxEqual(area, rc.root.Options.ResizeEpsilon) {
			rc.move(ws.Maximized.Handle, area)
			ws.Maximized.LastRect = area
		}
		rc.show(ws.Maximized.Handle)
		for _, c := range ws.Containers.Items() {
			rc.hideContainer(c)
		}
		rc.showFloating(ws)
		return
	}

	containers := ws.Containers.Items()
	n := len(containers)

	if ws.InMonocle() {
		for i, c := range containers {
			if i == ws.MonocleContainer {
				rc.renderContainer(c, area)
			} else {
				rc.hideContainer(c)
			}
		}
		rc.showFloating(ws)
		rc.applyBorder(BorderMonocle, area)
		return
	}

	desc := ws.EffectiveLayout(n)
	rects := layout.Apply(desc, n, area, ws.Padding.Inner, ws.LayoutOptions)
	for i, c := range containers {
		rc.renderContainer(c, rects[i])
	}
	rc.showFloating(ws)

	if f, ok := ws.Containers.Focused(); ok {
		kind := BorderSingle
		if f.Windows.Len() > 1 {
			kind = BorderStack
		}
		idx := ws.Containers.FocusedIndex()
		rc.applyBorder(kind, rects[idx])
	}
}

// renderContainer shows the container's focused window at rect and hides
// the rest of its stack (spec.md §3 "Container": only the focused window of
// a multi-window container is ever visible).
func (rc *Reconciler) renderContainer(c *state.Container, rect geometry.Rect) {
	for i, w := range c.Windows.Items() {
		if i == c.Windows.FocusedIndex() {
			if !w.LastRect.ApproxEqual(rect, rc.root.Options.ResizeEpsilon) {
				rc.move(w.Handle, rect)
				w.LastRect = rect
				c.Windows.Set(i, w)
			}
			rc.show(w.Handle)
		} else {
			rc.hideAccordingToPolicy(w.Handle)
		}
	}
}

// hideContainer hides every window in c, used when a container is shadowed
// by monocle or maximize.
func (rc *Reconciler) hideContainer(c *state.Container) {
	for _, w := range c.Windows.Items() {
		rc.hideAccordingToPolicy(w.Handle)
	}
}

// hideWorkspace hides every window belonging to a non-focused workspace.
func (rc *Reconciler) hideWorkspace(ws *state.Workspace) {
	for _, c := range ws.Containers.Items() {
		rc.hideContainer(c)
	}
	for _, fw := range ws.Floating {
		rc.hideAccordingToPolicy(fw.Handle)
	}
	if ws.Maximized != nil {
		rc.hideAccordingToPolicy(ws.Maximized.Handle)
	}
}

// showFloating positions and shows every floating window at its own cached
// rect: floating windows are the one class the layout engine never touches.
func (rc *Reconciler) showFloating(ws *state.Workspace) {
	for _, fw := range ws.Floating {
		rc.move(fw.Handle, fw.LastRect)
		rc.show(fw.Handle)
	}
}

// applyBorder asks the border subsystem to redraw around the focused tile,
// a no-op when border rendering is disabled or unwired (spec.md §4.3.4 step
// 8).
func (rc *Reconciler) applyBorder(kind BorderKind, rect geometry.Rect) {
	if rc.border == nil || !rc.root.Options.BorderEnabled {
		return
	}
	rc.border.Redraw(kind, rect)
}

// moveMouseToFocus warps the pointer to the center of the focused window's
// rect (spec.md §4.3.4 step 7).
func (rc *Reconciler) moveMouseToFocus() {
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
	x, y := w.LastRect.Center()
	if err := rc.adapter.MovePointer(rc.ctx, x, y); err != nil {
		rc.log.Warn("reconciler: move pointer failed", "error", err)
	}
}

// emitNotification pushes ev with a fresh snapshot to every subscriber, and
// is also the point where a server-less reconciler (as used in tests)
// simply drops the notification.
func (rc *Reconciler) emitNotification(ev ipc.Event) {
	if rc.server == nil {
		return
	}
	rc.server.Broadcast(ipc.Notification{Event: ev, State: rc.snapshot()})
}

// applyConfig swaps in a hot-reloaded configuration document: the global
// rule catalogs, workspace-assignment rules, and behavioral defaults are
// replaced wholesale, then every monitor is re-rendered since padding and
// ratios may have changed (spec.md §4.6 "configuration reload").
func (rc *Reconciler) applyConfig(cfg *config.Config) {
	rc.cfg = cfg

	float, ignore, manage, tray, objectNameChange, layered, borderOverflow := cfg.Rules.Sets()
	rules.CompileAll(float)
	rules.CompileAll(ignore)
	rules.CompileAll(manage)
	rules.CompileAll(tray)
	rules.CompileAll(objectNameChange)
	rules.CompileAll(layered)
	rules.CompileAll(borderOverflow)

	rc.root.FloatRules = float
	rc.root.IgnoreRules = ignore
	rc.root.ManageRules = manage
	rc.root.TrayRules = tray
	rc.root.ObjectNameChangeRules = objectNameChange
	rc.root.LayeredRules = layered
	rc.root.BorderOverflowRules = borderOverflow

	assignments := make([]state.WorkspaceAssignmentRule, 0, len(cfg.WorkspaceRules))
	for _, wr := range cfg.WorkspaceRules {
		assignments = append(assignments, state.WorkspaceAssignmentRule{
			Rule:            wr.Rule.ToRule(),
			TargetMonitor:   wr.TargetMonitor,
			TargetWorkspace: wr.TargetWorkspace,
		})
	}
	rc.root.WorkspaceAssignment = assignments

	rc.root.Options = cfg.Defaults.ToGlobalOptions()

	for _, m := range rc.root.Monitors.Items() {
		rc.seedMonitorWorkspaces(m)
	}

	rc.postMutation(rc.root.Monitors.Items(), ipc.Event{Kind: "ConfigurationReloaded"})
}
