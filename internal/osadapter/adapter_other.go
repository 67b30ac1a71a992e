//go:build !windows

package osadapter

import (
	"context"

	"tilewm/internal/geometry"
	"tilewm/internal/wmwindow"
)

// stubAdapter satisfies Adapter on platforms without a native
// implementation, so the rest of the module builds and unit-tests
// everywhere; real window management only happens under the Windows
// build.
type stubAdapter struct{}

// New returns the platform adapter. On this platform every call fails with
// ErrPlatformUnsupported; callers that need a working adapter for tests
// should use osadapter/fake instead.
func New() Adapter { return stubAdapter{} }

func (stubAdapter) EnumerateWindows(ctx context.Context) ([]wmwindow.Window, error) {
	return nil, ErrPlatformUnsupported
}

func (stubAdapter) Inspect(ctx context.Context, h wmwindow.Handle) (wmwindow.Window, error) {
	return wmwindow.Window{}, ErrPlatformUnsupported
}

func (stubAdapter) Move(ctx context.Context, h wmwindow.Handle, rect geometry.Rect) error {
	return ErrPlatformUnsupported
}

func (stubAdapter) Show(ctx context.Context, h wmwindow.Handle) error       { return ErrPlatformUnsupported }
func (stubAdapter) Hide(ctx context.Context, h wmwindow.Handle) error       { return ErrPlatformUnsupported }
func (stubAdapter) Minimize(ctx context.Context, h wmwindow.Handle) error   { return ErrPlatformUnsupported }
func (stubAdapter) Restore(ctx context.Context, h wmwindow.Handle) error    { return ErrPlatformUnsupported }
func (stubAdapter) Cloak(ctx context.Context, h wmwindow.Handle) error      { return ErrPlatformUnsupported }
func (stubAdapter) Uncloak(ctx context.Context, h wmwindow.Handle) error    { return ErrPlatformUnsupported }
func (stubAdapter) Maximize(ctx context.Context, h wmwindow.Handle) error   { return ErrPlatformUnsupported }
func (stubAdapter) Unmaximize(ctx context.Context, h wmwindow.Handle) error { return ErrPlatformUnsupported }
func (stubAdapter) Foreground(ctx context.Context, h wmwindow.Handle) error { return ErrPlatformUnsupported }

func (stubAdapter) MovePointer(ctx context.Context, x, y int) error { return ErrPlatformUnsupported }

func (stubAdapter) Monitors(ctx context.Context) ([]MonitorInfo, error) {
	return nil, ErrPlatformUnsupported
}

// stubEventSource satisfies EventSource on non-Windows platforms.
type stubEventSource struct{}

// NewEventSource returns the platform event source.
func NewEventSource() EventSource { return stubEventSource{} }

func (stubEventSource) Start(ctx context.Context) (<-chan Event, error) {
	return nil, ErrPlatformUnsupported
}

func (stubEventSource) Stop() error { return nil }
