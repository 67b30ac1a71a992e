package state

import (
	"testing"

	"tilewm/internal/geometry"
	"tilewm/internal/layout"
	"tilewm/internal/wmwindow"
)

func win(h wmwindow.Handle, title string) wmwindow.Window {
	return wmwindow.New(h, title, "app.exe", "AppClass", `C:\app.exe`, wmwindow.StyleFlags{Visible: true}, geometry.Rect{})
}

func TestContainerDestroyedWhenEmpty(t *testing.T) {
	w := NewWorkspace("1")
	w.AddWindowNewContainer(win(1, "a"))
	if w.Containers.Len() != 1 {
		t.Fatalf("expected 1 container")
	}
	if !w.RemoveWindow(1) {
		t.Fatalf("expected window to be found")
	}
	if w.Containers.Len() != 0 {
		t.Fatalf("expected container to be destroyed once empty, got %d", w.Containers.Len())
	}
}

func TestAppendToFocusedPolicyGroupsWindows(t *testing.T) {
	w := NewWorkspace("1")
	w.Policy = AppendToFocusedPolicy
	w.AddWindow(win(1, "a"))
	w.AddWindow(win(2, "b"))
	if w.Containers.Len() != 1 {
		t.Fatalf("expected both windows in one container, got %d containers", w.Containers.Len())
	}
	c := w.Containers.At(0)
	if c.Windows.Len() != 2 {
		t.Fatalf("expected 2 windows in container, got %d", c.Windows.Len())
	}
}

func TestNewContainerPolicySeparatesWindows(t *testing.T) {
	w := NewWorkspace("1")
	w.AddWindow(win(1, "a"))
	w.AddWindow(win(2, "b"))
	if w.Containers.Len() != 2 {
		t.Fatalf("expected 2 containers, got %d", w.Containers.Len())
	}
}

func TestFloatingSetDoesNotAffectTileCount(t *testing.T) {
	w := NewWorkspace("1")
	w.AddWindow(win(1, "a"))
	w.AddFloating(win(2, "b"))
	if w.TileCount() != 1 {
		t.Fatalf("floating window should not count as a tile, got %d", w.TileCount())
	}
	if !w.IsFloating(2) {
		t.Fatalf("expected handle 2 to be floating")
	}
	if !w.RemoveFloating(2) {
		t.Fatalf("expected removal to report found")
	}
	if w.IsFloating(2) {
		t.Fatalf("expected handle 2 to no longer be floating")
	}
}

func TestWindowExistsInExactlyOnePlace(t *testing.T) {
	w := NewWorkspace("1")
	w.AddWindow(win(1, "a"))
	if !w.Contains(1) {
		t.Fatalf("expected tiled window to be contained")
	}
	w.AddFloating(win(2, "b"))
	if !w.Contains(2) {
		t.Fatalf("expected floating window to be contained")
	}
	w.SetMaximized(win(3, "c"))
	if !w.Contains(3) {
		t.Fatalf("expected maximized window to be contained")
	}
}

func TestMonocleClearsWhenItsContainerIsRemoved(t *testing.T) {
	w := NewWorkspace("1")
	w.AddWindow(win(1, "a"))
	w.AddWindow(win(2, "b"))
	w.EnterMonocle(1)
	if !w.InMonocle() {
		t.Fatalf("expected monocle active")
	}
	w.RemoveWindow(2)
	if w.InMonocle() {
		t.Fatalf("expected monocle to clear once its container is destroyed")
	}
}

func TestMonocleShiftsWhenEarlierContainerRemoved(t *testing.T) {
	w := NewWorkspace("1")
	w.AddWindow(win(1, "a"))
	w.AddWindow(win(2, "b"))
	w.AddWindow(win(3, "c"))
	w.EnterMonocle(2) // container holding window 3
	w.RemoveWindow(1) // destroys container 0, shifting indices down by one
	if w.MonocleContainer != 1 {
		t.Fatalf("expected monocle index to shift to 1, got %d", w.MonocleContainer)
	}
}

func TestDynamicLayoutRuleResolution(t *testing.T) {
	w := NewWorkspace("1")
	w.Layout = layout.Descriptor{Kind: layout.BSP}
	w.LayoutRules = []LayoutRule{
		{Threshold: 0, Layout: layout.Descriptor{Kind: layout.Columns}},
		{Threshold: 3, Layout: layout.Descriptor{Kind: layout.Grid}},
	}
	if got := w.EffectiveLayout(1).Kind; got != layout.Columns {
		t.Fatalf("n=1: got %v, want Columns", got)
	}
	if got := w.EffectiveLayout(3).Kind; got != layout.Grid {
		t.Fatalf("n=3: got %v, want Grid", got)
	}
	if got := w.EffectiveLayout(10).Kind; got != layout.Grid {
		t.Fatalf("n=10: got %v, want Grid (largest threshold <= n)", got)
	}
}

func TestExplicitLayoutChangeRejectedWhileRulesPresent(t *testing.T) {
	w := NewWorkspace("1")
	w.LayoutRules = []LayoutRule{{Threshold: 0, Layout: layout.Descriptor{Kind: layout.Columns}}}
	if w.SetLayout(layout.Descriptor{Kind: layout.Grid}) {
		t.Fatalf("expected explicit layout change to be rejected while rules are present")
	}
	w.ClearLayoutRules()
	if !w.SetLayout(layout.Descriptor{Kind: layout.Grid}) {
		t.Fatalf("expected explicit layout change to succeed once rules are cleared")
	}
}

func TestMonitorWorkspaceLazyCreation(t *testing.T) {
	m := NewMonitor("SERIAL-1", `\\.\DISPLAY1`, geometry.NewRect(0, 0, 1920, 1080))
	w := m.WorkspaceAt(2)
	if m.Workspaces.Len() != 3 {
		t.Fatalf("expected workspaces 0..2 to exist, got %d", m.Workspaces.Len())
	}
	if w != m.Workspaces.At(2) {
		t.Fatalf("expected WorkspaceAt to return the same instance as stored")
	}
}

func TestMonitorWorkspaceByNameCreatesOnce(t *testing.T) {
	m := NewMonitor("SERIAL-1", `\\.\DISPLAY1`, geometry.NewRect(0, 0, 1920, 1080))
	a := m.WorkspaceByName("media")
	b := m.WorkspaceByName("media")
	if a != b {
		t.Fatalf("expected WorkspaceByName to return the same workspace on repeat lookups")
	}
	if m.Workspaces.Len() != 1 {
		t.Fatalf("expected exactly one workspace to be created, got %d", m.Workspaces.Len())
	}
}

func TestRootFindWindowAcrossMonitors(t *testing.T) {
	r := New()
	m1 := NewMonitor("S1", "", geometry.NewRect(0, 0, 1920, 1080))
	m2 := NewMonitor("S2", "", geometry.NewRect(1920, 0, 1920, 1080))
	r.Monitors.PushBack(m1)
	r.Monitors.PushBack(m2)

	m2.WorkspaceAt(0).AddWindow(win(42, "target"))

	mon, ws, ok := r.FindWindow(42)
	if !ok {
		t.Fatalf("expected to find window 42")
	}
	if mon != m2 {
		t.Fatalf("expected window to be found on m2")
	}
	if ws != m2.Workspaces.At(0) {
		t.Fatalf("expected workspace to be m2's first workspace")
	}
}

func TestKnownWindowsSet(t *testing.T) {
	r := New()
	if r.IsKnown(7) {
		t.Fatalf("expected handle 7 to be unknown initially")
	}
	r.MarkKnown(7)
	if !r.IsKnown(7) {
		t.Fatalf("expected handle 7 to be known after MarkKnown")
	}
	r.ForgetKnown(7)
	if r.IsKnown(7) {
		t.Fatalf("expected handle 7 to be forgotten")
	}
}
