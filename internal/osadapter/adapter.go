package osadapter

import (
	"context"
	"errors"

	"tilewm/internal/geometry"
	"tilewm/internal/wmwindow"
)

// ErrPlatformUnsupported is returned by every Adapter/EventSource method on
// platforms this module has no native implementation for (spec §4.4 is
// written against a Win32-class desktop; the stub adapter lets the rest of
// the module build and test everywhere else).
var ErrPlatformUnsupported = errors.New("osadapter: platform not supported")

// MonitorInfo is what the adapter reports about one physical display (spec
// §4.4 "query monitors with their bounds and work areas, device name,
// device serial").
type MonitorInfo struct {
	Serial     string
	DeviceName string
	Bounds     geometry.Rect
	WorkArea   geometry.Rect
	Primary    bool
}

// Adapter is the command-issuing half of the OS boundary (spec §4.4): the
// reconciler calls it to enumerate, inspect, and move windows, and to
// query monitor topology. Implementations must be safe for concurrent use,
// though the reconciler in practice serializes all calls onto one
// goroutine (spec §4.4 "must be thread-safe; the reconciler serializes
// calls").
type Adapter interface {
	// EnumerateWindows lists every top-level window currently known to
	// the OS, regardless of eligibility.
	EnumerateWindows(ctx context.Context) ([]wmwindow.Window, error)

	// Inspect re-reads a window's cached attributes from the OS.
	Inspect(ctx context.Context, h wmwindow.Handle) (wmwindow.Window, error)

	// Move sets a window's position and size without activating it.
	Move(ctx context.Context, h wmwindow.Handle, rect geometry.Rect) error

	Show(ctx context.Context, h wmwindow.Handle) error
	Hide(ctx context.Context, h wmwindow.Handle) error
	Minimize(ctx context.Context, h wmwindow.Handle) error
	Restore(ctx context.Context, h wmwindow.Handle) error
	Cloak(ctx context.Context, h wmwindow.Handle) error
	Uncloak(ctx context.Context, h wmwindow.Handle) error
	Maximize(ctx context.Context, h wmwindow.Handle) error
	Unmaximize(ctx context.Context, h wmwindow.Handle) error

	// Foreground brings h to the foreground, using a side-channel
	// input-attach trick where the OS otherwise refuses foreground
	// changes across process boundaries (spec §4.4).
	Foreground(ctx context.Context, h wmwindow.Handle) error

	// MovePointer relocates the mouse cursor, used by mouse-follows-focus
	// (spec §4.3.4 step 7).
	MovePointer(ctx context.Context, x, y int) error

	// Monitors lists the currently connected displays.
	Monitors(ctx context.Context) ([]MonitorInfo, error)
}

// EventKind tags the lifecycle/topology events an EventSource delivers
// (spec §4.3.2).
type EventKind int

const (
	EventShow EventKind = iota
	EventUncloak
	EventCreate
	EventForeground
	EventHide
	EventCloak
	EventDestroy
	EventMinimizeStart
	EventMinimizeEnd
	EventLocationChange
	EventMoveOrSizeEnd
	EventObjectNameChange
	EventDisplayTopologyChange
	EventSessionLock
	EventSessionUnlock
)

// Event is one OS-observed occurrence the reconciler's event loop consumes.
type Event struct {
	Kind   EventKind
	Window wmwindow.Handle
	Rect   geometry.Rect // populated for LocationChange / MoveOrSizeEnd
}

// EventSource is the notification-delivering half of the OS boundary (spec
// §4.4, §4.3.2). Start begins delivering events on the returned channel;
// the channel is closed once ctx is canceled or Stop is called.
type EventSource interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop() error
}
