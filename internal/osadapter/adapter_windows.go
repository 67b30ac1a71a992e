//go:build windows

package osadapter

import (
	"context"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"tilewm/internal/geometry"
	"tilewm/internal/wmwindow"
)

// Window style bits the classification pipeline inspects (spec §4.3.1 step
// 4) and the adapter uses to filter EnumWindows results.
const (
	wsVisible    = 0x10000000 // WS_VISIBLE
	wsPopup      = 0x80000000 // WS_POPUP
	wsExToolWin  = 0x00000080 // WS_EX_TOOLWINDOW
	gwlStyle     = -16
	gwlExStyle   = -20
	swHide       = 0
	swMinimize   = 6
	swRestore    = 9
	swShow       = 5
	swMaximize   = 3
	swpNoActivate = 0x0010
	swpNoZOrder   = 0x0004
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW            = user32.NewProc("GetWindowTextW")
	procGetClassNameW             = user32.NewProc("GetClassNameW")
	procGetWindowLongW            = user32.NewProc("GetWindowLongW")
	procGetWindowRect             = user32.NewProc("GetWindowRect")
	procGetWindowThreadProcessId  = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible           = user32.NewProc("IsWindowVisible")
	procShowWindow                = user32.NewProc("ShowWindow")
	procSetWindowPos              = user32.NewProc("SetWindowPos")
	procSetForegroundWindow       = user32.NewProc("SetForegroundWindow")
	procAttachThreadInput         = user32.NewProc("AttachThreadInput")
	procGetForegroundWindow       = user32.NewProc("GetForegroundWindow")
	procSetCursorPos              = user32.NewProc("SetCursorPos")
	procEnumDisplayMonitors       = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW           = user32.NewProc("GetMonitorInfoW")
	procEnumDisplayDevicesW       = user32.NewProc("EnumDisplayDevicesW")

	procQueryFullProcessImageNameW = kernel32.NewProc("QueryFullProcessImageNameW")
	procOpenProcess                = kernel32.NewProc("OpenProcess")
	procCloseHandle                = kernel32.NewProc("CloseHandle")
	procGetCurrentThreadId         = kernel32.NewProc("GetCurrentThreadId")
)

// winAdapter is the real Adapter implementation: every method is a thin
// wrapper over a handful of user32/kernel32 calls resolved through
// syscall.NewLazyDLL-style lazy binding (golang.org/x/sys/windows's
// LazySystemDLL variant, which additionally resolves via the trusted
// system directory).
type winAdapter struct {
	mu sync.Mutex
}

// New returns the Windows Adapter implementation.
func New() Adapter { return &winAdapter{} }

func (a *winAdapter) EnumerateWindows(ctx context.Context) ([]wmwindow.Window, error) {
	var handles []windows.HWND
	cb := syscall.NewCallback(func(hwnd windows.HWND, lparam uintptr) uintptr {
		handles = append(handles, hwnd)
		return 1
	})
	procEnumWindows.Call(cb, 0)

	out := make([]wmwindow.Window, 0, len(handles))
	for _, h := range handles {
		w, err := a.inspectHandle(h)
		if err != nil {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (a *winAdapter) Inspect(ctx context.Context, h wmwindow.Handle) (wmwindow.Window, error) {
	return a.inspectHandle(windows.HWND(h))
}

func (a *winAdapter) inspectHandle(hwnd windows.HWND) (wmwindow.Window, error) {
	title := getWindowText(hwnd)
	class := getClassName(hwnd)
	style, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(gwlStyle))
	exStyle, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(gwlExStyle))
	visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))

	var r windows.Rect
	procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))

	exe, path := processInfo(hwnd)

	w := wmwindow.New(
		wmwindow.Handle(hwnd),
		title,
		exe,
		class,
		path,
		wmwindow.StyleFlags{
			Visible:    visible != 0 && style&wsVisible != 0,
			Popup:      style&wsPopup != 0,
			ToolWindow: exStyle&wsExToolWin != 0,
		},
		geometry.Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)},
	)
	return w, nil
}

func getWindowText(hwnd windows.HWND) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func getClassName(hwnd windows.HWND) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func processInfo(hwnd windows.HWND) (exe, path string) {
	var pid uint32
	procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return "", ""
	}
	const processQueryLimitedInformation = 0x1000
	handle, _, _ := procOpenProcess.Call(processQueryLimitedInformation, 0, uintptr(pid))
	if handle == 0 {
		return "", ""
	}
	defer procCloseHandle.Call(handle)

	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	ok, _, _ := procQueryFullProcessImageNameW.Call(handle, 0, uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if ok == 0 {
		return "", ""
	}
	full := windows.UTF16ToString(buf[:size])
	exe = full
	if i := lastIndex(full, '\\'); i >= 0 {
		exe = full[i+1:]
	}
	return exe, full
}

func lastIndex(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func (a *winAdapter) Move(ctx context.Context, h wmwindow.Handle, rect geometry.Rect) error {
	ret, _, err := procSetWindowPos.Call(
		uintptr(h), 0,
		uintptr(rect.Left), uintptr(rect.Top),
		uintptr(rect.Width()), uintptr(rect.Height()),
		swpNoActivate|swpNoZOrder,
	)
	if ret == 0 {
		return err
	}
	return nil
}

func (a *winAdapter) show(h wmwindow.Handle, cmd uintptr) error {
	procShowWindow.Call(uintptr(h), cmd)
	return nil
}

func (a *winAdapter) Show(ctx context.Context, h wmwindow.Handle) error       { return a.show(h, swShow) }
func (a *winAdapter) Hide(ctx context.Context, h wmwindow.Handle) error       { return a.show(h, swHide) }
func (a *winAdapter) Minimize(ctx context.Context, h wmwindow.Handle) error   { return a.show(h, swMinimize) }
func (a *winAdapter) Restore(ctx context.Context, h wmwindow.Handle) error    { return a.show(h, swRestore) }
func (a *winAdapter) Maximize(ctx context.Context, h wmwindow.Handle) error   { return a.show(h, swMaximize) }
func (a *winAdapter) Unmaximize(ctx context.Context, h wmwindow.Handle) error { return a.show(h, swRestore) }

// Cloak/Uncloak have no direct ShowWindow equivalent; DWM cloaking is an
// explicit-owner window attribute the real shell uses for virtual-desktop
// hand-off. Absent a DWM cloak API wrapper, hide/show is the closest
// observable approximation and is what the reconciler actually needs:
// the window disappears from the visible set without losing its place in
// the tree.
func (a *winAdapter) Cloak(ctx context.Context, h wmwindow.Handle) error   { return a.show(h, swHide) }
func (a *winAdapter) Uncloak(ctx context.Context, h wmwindow.Handle) error { return a.show(h, swShow) }

// Foreground brings h to the foreground using the attach-thread-input
// trick: Windows refuses SetForegroundWindow across processes unless the
// calling thread is attached to the foreground thread's input queue (spec
// §4.4 "side-channel input-attach trick").
func (a *winAdapter) Foreground(ctx context.Context, h wmwindow.Handle) error {
	fg, _, _ := procGetForegroundWindow.Call()
	var fgPid uint32
	fgTid, _, _ := procGetWindowThreadProcessId.Call(fg, uintptr(unsafe.Pointer(&fgPid)))
	curTid, _, _ := procGetCurrentThreadId.Call()

	if fgTid != 0 && fgTid != curTid {
		procAttachThreadInput.Call(curTid, fgTid, 1)
		defer procAttachThreadInput.Call(curTid, fgTid, 0)
	}

	ret, _, err := procSetForegroundWindow.Call(uintptr(h))
	if ret == 0 {
		return err
	}
	return nil
}

func (a *winAdapter) MovePointer(ctx context.Context, x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return err
	}
	return nil
}

func (a *winAdapter) Monitors(ctx context.Context) ([]MonitorInfo, error) {
	var infos []MonitorInfo
	cb := syscall.NewCallback(func(hMonitor windows.Handle, hdc uintptr, rect *windows.Rect, lparam uintptr) uintptr {
		var mi monitorInfoEx
		mi.cbSize = uint32(unsafe.Sizeof(mi))
		procGetMonitorInfoW.Call(uintptr(hMonitor), uintptr(unsafe.Pointer(&mi)))

		deviceName := windows.UTF16ToString(mi.szDevice[:])
		infos = append(infos, MonitorInfo{
			Serial:     deviceName,
			DeviceName: deviceName,
			Bounds: geometry.Rect{
				Left: int(mi.rcMonitor.Left), Top: int(mi.rcMonitor.Top),
				Right: int(mi.rcMonitor.Right), Bottom: int(mi.rcMonitor.Bottom),
			},
			WorkArea: geometry.Rect{
				Left: int(mi.rcWork.Left), Top: int(mi.rcWork.Top),
				Right: int(mi.rcWork.Right), Bottom: int(mi.rcWork.Bottom),
			},
			Primary: mi.dwFlags&1 != 0,
		})
		return 1
	})
	procEnumDisplayMonitors.Call(0, 0, cb, 0)
	return infos, nil
}

// monitorInfoEx mirrors the Win32 MONITORINFOEXW struct.
type monitorInfoEx struct {
	cbSize    uint32
	rcMonitor windows.Rect
	rcWork    windows.Rect
	dwFlags   uint32
	szDevice  [32]uint16
}
