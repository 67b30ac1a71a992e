package reconciler

import (
	"tilewm/internal/geometry"
	"tilewm/internal/osadapter"
	"tilewm/internal/state"
	"tilewm/internal/wmwindow"
)

// The methods in this file are the only places the reconciler calls into
// the OS adapter for a mutation that produces a corresponding lifecycle
// event. Each registers the expected follow-up with the suppressor first
// (spec.md §4.3.3), so the event loop recognizes and discards its own
// echo instead of re-entering classification or layout application.

func (rc *Reconciler) move(h wmwindow.Handle, rect geometry.Rect) {
	rc.suppress.expect(h, osadapter.EventLocationChange, rect)
	rc.suppress.expect(h, osadapter.EventMoveOrSizeEnd, rect)
	if err := rc.adapter.Move(rc.ctx, h, rect); err != nil {
		rc.log.Warn("reconciler: move failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) show(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventShow, geometry.Rect{})
	if err := rc.adapter.Show(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: show failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) hide(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventHide, geometry.Rect{})
	if err := rc.adapter.Hide(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: hide failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) minimize(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventMinimizeStart, geometry.Rect{})
	if err := rc.adapter.Minimize(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: minimize failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) restore(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventMinimizeEnd, geometry.Rect{})
	if err := rc.adapter.Restore(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: restore failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) cloak(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventCloak, geometry.Rect{})
	if err := rc.adapter.Cloak(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: cloak failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) uncloak(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventUncloak, geometry.Rect{})
	if err := rc.adapter.Uncloak(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: uncloak failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) maximize(h wmwindow.Handle) {
	if err := rc.adapter.Maximize(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: maximize failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) unmaximize(h wmwindow.Handle) {
	if err := rc.adapter.Unmaximize(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: unmaximize failed", "handle", h, "error", err)
	}
}

func (rc *Reconciler) foreground(h wmwindow.Handle) {
	rc.suppress.expect(h, osadapter.EventForeground, geometry.Rect{})
	if err := rc.adapter.Foreground(rc.ctx, h); err != nil {
		rc.log.Warn("reconciler: foreground failed", "handle", h, "error", err)
	}
}

// hideAccordingToPolicy hides h using whichever of Hide/Minimize/Cloak the
// active GlobalOptions names (spec.md §4.3.4 step 6).
func (rc *Reconciler) hideAccordingToPolicy(h wmwindow.Handle) {
	switch rc.root.Options.HidePolicy {
	case state.HidePolicyMinimize:
		rc.minimize(h)
	case state.HidePolicyCloak:
		rc.cloak(h)
	default:
		rc.hide(h)
	}
}
