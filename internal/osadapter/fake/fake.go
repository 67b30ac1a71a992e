// Package fake provides an in-memory osadapter.Adapter/EventSource pair for
// driving the reconciler through window lifecycle scenarios without a real
// display server, mirroring how the teacher's test doubles model the same
// boundary. No test in this module imports it.
package fake

import (
	"context"
	"sync"

	"tilewm/internal/geometry"
	"tilewm/internal/osadapter"
	"tilewm/internal/wmwindow"
)

// Adapter is an in-memory Adapter: Move, Show and Hide update a local
// window table instead of touching the OS, and every window-mutating call
// is appended to Calls, so tests can assert on both.
type Adapter struct {
	mu        sync.Mutex
	windows   map[wmwindow.Handle]wmwindow.Window
	monitors  []osadapter.MonitorInfo
	pointerX  int
	pointerY  int
	Calls     []string
}

// New returns an empty fake adapter with no windows or monitors.
func New() *Adapter {
	return &Adapter{windows: make(map[wmwindow.Handle]wmwindow.Window)}
}

// AddWindow seeds the fake OS with a window, as if it had just appeared.
func (a *Adapter) AddWindow(w wmwindow.Window) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.windows[w.Handle] = w
}

// SetMonitors replaces the fake monitor topology.
func (a *Adapter) SetMonitors(m []osadapter.MonitorInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.monitors = m
}

// Window returns the current recorded state of h, for test assertions.
func (a *Adapter) Window(h wmwindow.Handle) (wmwindow.Window, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.windows[h]
	return w, ok
}

func (a *Adapter) record(call string) {
	a.Calls = append(a.Calls, call)
}

func (a *Adapter) EnumerateWindows(ctx context.Context) ([]wmwindow.Window, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]wmwindow.Window, 0, len(a.windows))
	for _, w := range a.windows {
		out = append(out, w)
	}
	return out, nil
}

func (a *Adapter) Inspect(ctx context.Context, h wmwindow.Handle) (wmwindow.Window, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.windows[h], nil
}

func (a *Adapter) Move(ctx context.Context, h wmwindow.Handle, rect geometry.Rect) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("move")
	w := a.windows[h]
	w.LastRect = rect
	a.windows[h] = w
	return nil
}

func (a *Adapter) Show(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("show")
	w := a.windows[h]
	w.Style.Visible = true
	a.windows[h] = w
	return nil
}

func (a *Adapter) Hide(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("hide")
	w := a.windows[h]
	w.Style.Visible = false
	a.windows[h] = w
	return nil
}

func (a *Adapter) Minimize(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("minimize")
	return nil
}

func (a *Adapter) Restore(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("restore")
	return nil
}

func (a *Adapter) Cloak(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("cloak")
	return nil
}

func (a *Adapter) Uncloak(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("uncloak")
	return nil
}

func (a *Adapter) Maximize(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("maximize")
	return nil
}

func (a *Adapter) Unmaximize(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("unmaximize")
	return nil
}

func (a *Adapter) Foreground(ctx context.Context, h wmwindow.Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("foreground")
	return nil
}

func (a *Adapter) MovePointer(ctx context.Context, x, y int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pointerX, a.pointerY = x, y
	return nil
}

func (a *Adapter) Monitors(ctx context.Context) ([]osadapter.MonitorInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.monitors, nil
}

// EventSource is a controllable fake: tests call Emit to push events onto
// the channel the reconciler consumes.
type EventSource struct {
	ch chan osadapter.Event
}

// NewEventSource returns a fake event source with a buffered channel.
func NewEventSource() *EventSource {
	return &EventSource{ch: make(chan osadapter.Event, 256)}
}

func (s *EventSource) Start(ctx context.Context) (<-chan osadapter.Event, error) {
	return s.ch, nil
}

func (s *EventSource) Stop() error {
	close(s.ch)
	return nil
}

// Emit pushes an event as if the OS had just reported it.
func (s *EventSource) Emit(ev osadapter.Event) {
	s.ch <- ev
}
