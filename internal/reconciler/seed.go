package reconciler

import (
	"tilewm/internal/config"
	"tilewm/internal/geometry"
	"tilewm/internal/state"
)

// configForMonitor returns the MonitorConfig bound to serial, if any
// (spec.md §4.6 "monitor configurations" — Serial identity, spec §3
// "Monitor"). A config with no matching entry is not an error: the
// monitor simply keeps state.NewMonitor's lazy single-workspace default.
func (rc *Reconciler) configForMonitor(serial string) (config.MonitorConfig, bool) {
	if rc.cfg == nil {
		return config.MonitorConfig{}, false
	}
	for _, mc := range rc.cfg.Monitors {
		if mc.Serial == serial {
			return mc, true
		}
	}
	return config.MonitorConfig{}, false
}

// seedMonitorWorkspaces applies m's bound MonitorConfig, creating any
// named workspace that doesn't exist yet and refreshing the
// layout/padding/policy fields of every one that does. It never touches a
// workspace's Containers, Floating, or Maximized/MonocleContainer state,
// so this is safe to call again on every config reload as well as once at
// monitor-discovery time (spec.md §4.6 "re-parses on file change; the
// reconciler applies the diff without interrupting in-flight operations").
func (rc *Reconciler) seedMonitorWorkspaces(m *state.Monitor) {
	mc, ok := rc.configForMonitor(m.Serial)
	if !ok {
		return
	}
	monitorOffset := mc.WorkAreaOffset.ToPadding()
	for _, wsc := range mc.Workspaces {
		ws := m.WorkspaceByName(wsc.Name)
		ws.Layout = wsc.Layout.ToDescriptor()
		ws.LayoutOptions = wsc.Layout.ToOptions()
		ws.Padding = geometry.Padding{Outer: wsc.OuterPadding, Inner: wsc.InnerPadding}
		ws.Policy = wsc.ToPolicy()

		offset := wsc.WorkAreaOffset.ToPadding()
		offset.Outer += monitorOffset.Outer
		offset.Inner += monitorOffset.Inner
		ws.WorkAreaOffset = offset

		rules := make([]state.LayoutRule, 0, len(wsc.LayoutRules))
		for _, lr := range wsc.LayoutRules {
			rules = append(rules, state.LayoutRule{Threshold: lr.Threshold, Layout: lr.Layout.ToDescriptor()})
		}
		ws.LayoutRules = rules
	}
}
