package reconciler

import (
	"tilewm/internal/state"
	"tilewm/internal/wmwindow"
)

// classifyResult names which branch of the classification pipeline (spec
// §4.3.1) a window landed in.
type classifyResult int

const (
	classifyRejected classifyResult = iota
	classifyIgnored
	classifyFloated
	classifyManaged
)

// classify runs the seven-step classification pipeline spec.md §4.3.1
// describes: ignore rules, float rules, forced management, default
// eligibility, workspace-assignment placement, and container-policy
// insertion. Supplementary tagging (tray/object-name-change/layered/
// border-overflow rule membership) isn't resolved here; those catalogs are
// re-checked against the cached window wherever their effect applies
// (hide handling, object-name-change retry, border rendering).
func (rc *Reconciler) classify(w wmwindow.Window) (classifyResult, *state.Monitor) {
	if rc.root.IgnoreRules.Matches(w) {
		return classifyIgnored, nil
	}
	if rc.root.FloatRules.Matches(w) {
		mon := rc.root.FocusedMonitor()
		if mon == nil {
			return classifyRejected, nil
		}
		ws := mon.FocusedWorkspace()
		ws.AddFloating(w)
		rc.root.MarkKnown(w.Handle)
		return classifyFloated, mon
	}

	forced := rc.root.ManageRules.Matches(w)
	if !forced && !w.Eligible(false) {
		return classifyRejected, nil
	}

	ws, mon := rc.placementTarget(w)
	if ws == nil {
		return classifyRejected, nil
	}
	ws.AddWindow(w)
	rc.root.MarkKnown(w.Handle)
	return classifyManaged, mon
}

// placementTarget resolves which workspace (and owning monitor) a newly
// classified window lands on: the first matching workspace-assignment
// rule, or the focused monitor's focused workspace (spec.md §4.3.1 step
// 6).
func (rc *Reconciler) placementTarget(w wmwindow.Window) (*state.Workspace, *state.Monitor) {
	for _, rule := range rc.root.WorkspaceAssignment {
		if !rule.Rule.Match(w) {
			continue
		}
		mon := rc.root.FocusedMonitor()
		if rule.TargetMonitor != "" {
			if m, ok := rc.root.MonitorBySerial(rule.TargetMonitor); ok {
				mon = m
			}
		} else if rule.TargetWorkspace != "" {
			if ws, m, ok := rc.root.WorkspaceByName(rule.TargetWorkspace); ok {
				return ws, m
			}
		}
		if mon == nil {
			return nil, nil
		}
		if rule.TargetWorkspace == "" {
			return mon.FocusedWorkspace(), mon
		}
		return mon.WorkspaceByName(rule.TargetWorkspace), mon
	}

	mon := rc.root.FocusedMonitor()
	if mon == nil {
		return nil, nil
	}
	return mon.FocusedWorkspace(), mon
}
