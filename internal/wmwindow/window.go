// Package wmwindow holds the Window handle type: the OS window identity plus
// the cached attributes the reconciler and rule matcher need without making
// a fresh OS call on every lookup (spec §3 "Window").
package wmwindow

import "tilewm/internal/geometry"

// Handle is the platform window identity — an HWND on Windows, opaque
// elsewhere. Two Windows are equal iff their Handles are equal (spec §3).
type Handle uintptr

// StyleFlags mirrors the subset of Win32 window style / extended style bits
// the classification pipeline inspects (spec §4.3.1 step 4).
type StyleFlags struct {
	Visible      bool
	Popup        bool
	ToolWindow   bool
	ChildOfShell bool
}

// Window is the cached metadata the reconciler keeps for a managed or
// candidate window.
type Window struct {
	Handle Handle

	Title        string
	Executable   string // base name, e.g. "notepad.exe"
	Class        string
	ExecPath     string // full path to the executable
	Style        StyleFlags
	LastRect     geometry.Rect
}

// Equal implements the identity rule from spec §3: equality is by handle
// alone, regardless of cached attribute drift.
func (w Window) Equal(other Window) bool {
	return w.Handle == other.Handle
}

// New constructs a Window from a handle and its initially observed
// attributes.
func New(h Handle, title, exe, class, path string, style StyleFlags, rect geometry.Rect) Window {
	return Window{
		Handle:     h,
		Title:      title,
		Executable: exe,
		Class:      class,
		ExecPath:   path,
		Style:      style,
		LastRect:   rect,
	}
}

// Eligible implements the "Default eligibility" check from spec §4.3.1 step
// 4: visible, has a title, never a shell child, and only a tool window /
// popup if forced. Cloak state is not part of StyleFlags and is not checked
// here.
func (w Window) Eligible(forced bool) bool {
	if !w.Style.Visible {
		return false
	}
	if w.Title == "" {
		return false
	}
	if w.Style.ToolWindow && !forced {
		return false
	}
	if w.Style.Popup && !forced {
		return false
	}
	if w.Style.ChildOfShell {
		return false
	}
	return true
}
