//go:build windows

package osadapter

import (
	"context"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"tilewm/internal/wmwindow"
)

// WinEvent constants this module subscribes to (spec §4.4's event list).
const (
	eventObjectShow           = 0x8002
	eventObjectHide           = 0x8003
	eventObjectCreate         = 0x8000
	eventObjectDestroy        = 0x8001
	eventSystemForeground     = 0x0003
	eventObjectLocationChange = 0x800B
	eventSystemMinimizeStart  = 0x0016
	eventSystemMinimizeEnd    = 0x0017
	eventObjectNameChange     = 0x800C
	eventObjectCloaked        = 0x8017
	eventObjectUncloaked      = 0x8018
	eventSystemMoveSizeEnd    = 0x000B

	winEventOutOfContext = 0x0000
	winEventSkipOwnProc  = 0x0002

	objidWindow = 0
	childidSelf = 0
)

var (
	procSetWinEventHook   = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent    = user32.NewProc("UnhookWinEvent")
	procGetMessageW       = user32.NewProc("GetMessageW")
	procTranslateMessage  = user32.NewProc("TranslateMessage")
	procDispatchMessageW  = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

const wmQuit = 0x0012

// winEventSource drives a hidden message pump on its own OS thread and
// translates SetWinEventHook callbacks into Events (spec §4.4 "subscribe
// to window lifecycle events... display topology changes... session
// lock/unlock").
type winEventSource struct {
	mu       sync.Mutex
	events   chan Event
	stopOnce sync.Once
	threadID uintptr
	hooks    []uintptr
}

// NewEventSource returns the Windows EventSource implementation.
func NewEventSource() EventSource {
	return &winEventSource{}
}

func (s *winEventSource) Start(ctx context.Context) (<-chan Event, error) {
	s.events = make(chan Event, 256)
	ready := make(chan uintptr, 1)

	go s.pump(ctx, ready)
	s.threadID = <-ready

	return s.events, nil
}

func (s *winEventSource) pump(ctx context.Context, ready chan<- uintptr) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid, _, _ := procGetCurrentThreadId.Call()
	ready <- tid

	cb := syscall.NewCallback(s.onEvent)

	hook := func(min, max uintptr) {
		h, _, _ := procSetWinEventHook.Call(min, max, 0, cb, 0, 0, winEventOutOfContext|winEventSkipOwnProc)
		if h != 0 {
			s.hooks = append(s.hooks, h)
		}
	}
	hook(eventObjectShow, eventObjectHide)
	hook(eventObjectCreate, eventObjectDestroy)
	hook(eventSystemForeground, eventSystemForeground)
	hook(eventObjectLocationChange, eventObjectLocationChange)
	hook(eventSystemMinimizeStart, eventSystemMinimizeEnd)
	hook(eventObjectNameChange, eventObjectNameChange)
	hook(eventObjectCloaked, eventObjectUncloaked)
	hook(eventSystemMoveSizeEnd, eventSystemMoveSizeEnd)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	var msg struct {
		hwnd    windows.HWND
		message uint32
		wParam  uintptr
		lParam  uintptr
		time    uint32
		pt      struct{ x, y int32 }
	}
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if ret == 0 || msg.message == wmQuit {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}

	for _, h := range s.hooks {
		procUnhookWinEvent.Call(h)
	}
	close(s.events)
}

func (s *winEventSource) onEvent(
	hWinEventHook uintptr, event uint32, hwnd windows.HWND,
	idObject, idChild int32, idEventThread, dwmsEventTime uint32,
) uintptr {
	if idObject != objidWindow || idChild != childidSelf || hwnd == 0 {
		return 0
	}

	var kind EventKind
	switch event {
	case eventObjectShow:
		kind = EventShow
	case eventObjectHide:
		kind = EventHide
	case eventObjectCreate:
		kind = EventCreate
	case eventObjectDestroy:
		kind = EventDestroy
	case eventSystemForeground:
		kind = EventForeground
	case eventObjectLocationChange:
		kind = EventLocationChange
	case eventSystemMinimizeStart:
		kind = EventMinimizeStart
	case eventSystemMinimizeEnd:
		kind = EventMinimizeEnd
	case eventObjectNameChange:
		kind = EventObjectNameChange
	case eventObjectCloaked:
		kind = EventCloak
	case eventObjectUncloaked:
		kind = EventUncloak
	case eventSystemMoveSizeEnd:
		kind = EventMoveOrSizeEnd
	default:
		return 0
	}

	select {
	case s.events <- Event{Kind: kind, Window: wmwindow.Handle(hwnd)}:
	default:
		// Backpressure: drop rather than block the hook callback, which
		// runs on the pump thread and must return promptly.
	}
	return 0
}

func (s *winEventSource) Stop() error {
	s.stopOnce.Do(func() {
		if s.threadID != 0 {
			procPostThreadMessageW.Call(s.threadID, wmQuit, 0, 0)
		}
	})
	return nil
}
