package reconciler

import (
	"tilewm/internal/geometry"
	"tilewm/internal/ipc"
	"tilewm/internal/state"
	"tilewm/internal/wmwindow"
)

// snapshot builds the JSON-serializable projection of the live tree used by
// QueryState responses and every subscription push (spec.md §4.5).
func (rc *Reconciler) snapshot() *ipc.StateSnapshot {
	monitors := rc.root.Monitors.Items()
	snap := &ipc.StateSnapshot{
		Paused:         rc.root.Paused,
		FocusedMonitor: rc.root.Monitors.FocusedIndex(),
		Monitors:       make([]ipc.MonitorSnapshot, 0, len(monitors)),
	}
	for _, m := range monitors {
		snap.Monitors = append(snap.Monitors, monitorSnapshot(m))
	}
	return snap
}

func monitorSnapshot(m *state.Monitor) ipc.MonitorSnapshot {
	workspaces := m.Workspaces.Items()
	out := ipc.MonitorSnapshot{
		Serial:           m.Serial,
		Bounds:           rectSnapshot(m.Bounds),
		WorkArea:         rectSnapshot(m.WorkArea),
		FocusedWorkspace: m.Workspaces.FocusedIndex(),
		Workspaces:       make([]ipc.WorkspaceSnapshot, 0, len(workspaces)),
	}
	for _, ws := range workspaces {
		out.Workspaces = append(out.Workspaces, workspaceSnapshot(ws))
	}
	return out
}

func workspaceSnapshot(ws *state.Workspace) ipc.WorkspaceSnapshot {
	containers := ws.Containers.Items()
	out := ipc.WorkspaceSnapshot{
		Name:             ws.Name,
		Layout:           string(ws.EffectiveLayout(ws.TileCount()).Kind),
		MonocleContainer: ws.MonocleContainer,
		FocusedContainer: ws.Containers.FocusedIndex(),
		Containers:       make([]ipc.ContainerSnapshot, 0, len(containers)),
		Floating:         make([]ipc.WindowSnapshot, 0, len(ws.Floating)),
	}
	for _, c := range containers {
		out.Containers = append(out.Containers, containerSnapshot(c))
	}
	for _, fw := range ws.Floating {
		out.Floating = append(out.Floating, windowSnapshot(fw))
	}
	return out
}

func containerSnapshot(c *state.Container) ipc.ContainerSnapshot {
	windows := c.Windows.Items()
	out := ipc.ContainerSnapshot{
		FocusedWindow: c.Windows.FocusedIndex(),
		HasTrayMember: c.HasTrayMember,
		Windows:       make([]ipc.WindowSnapshot, 0, len(windows)),
	}
	for _, w := range windows {
		out.Windows = append(out.Windows, windowSnapshot(w))
	}
	return out
}

func windowSnapshot(w wmwindow.Window) ipc.WindowSnapshot {
	return ipc.WindowSnapshot{
		Handle:     uintptr(w.Handle),
		Title:      w.Title,
		Executable: w.Executable,
		Rect:       rectSnapshot(w.LastRect),
	}
}

func rectSnapshot(r geometry.Rect) ipc.RectSnapshot {
	return ipc.RectSnapshot{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}
