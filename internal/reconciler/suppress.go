package reconciler

import (
	"sync"
	"time"

	"tilewm/internal/geometry"
	"tilewm/internal/osadapter"
	"tilewm/internal/wmwindow"
)

// expectation is one outbound call's predicted follow-up OS event.
type expectation struct {
	window  wmwindow.Handle
	kind    osadapter.EventKind
	rect    geometry.Rect
	expires time.Time
}

// suppressor implements the self-induced-event suppression described in
// spec.md §4.3.3: every outbound adapter call the reconciler issues
// registers a short-lived expectation here; the matching inbound OS event
// is consumed instead of re-triggering a tree mutation. Entries expire on
// their own so a call whose event never arrives (the window closed first,
// the OS dropped it) doesn't permanently poison matching.
type suppressor struct {
	mu       sync.Mutex
	horizon  time.Duration
	capacity int
	entries  []expectation
}

func newSuppressor(horizon time.Duration, capacity int) *suppressor {
	return &suppressor{horizon: horizon, capacity: capacity}
}

// expect records an expected follow-up event for an outbound call about to
// be issued.
func (s *suppressor) expect(h wmwindow.Handle, kind osadapter.EventKind, rect geometry.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(time.Now())
	if len(s.entries) >= s.capacity {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, expectation{
		window:  h,
		kind:    kind,
		rect:    rect,
		expires: time.Now().Add(s.horizon),
	})
}

// consume reports whether ev matches a live expectation, removing it if
// so. Location-change-class events additionally require the rect to
// match, since those are the only events the adapter's Move populates a
// predicted rect for.
func (s *suppressor) consume(ev osadapter.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.prune(now)
	for i, e := range s.entries {
		if e.window != ev.Window || e.kind != ev.Kind {
			continue
		}
		if requiresRectMatch(ev.Kind) && !e.rect.ApproxEqual(ev.Rect, 0) {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return true
	}
	return false
}

func (s *suppressor) prune(now time.Time) {
	live := s.entries[:0]
	for _, e := range s.entries {
		if now.Before(e.expires) {
			live = append(live, e)
		}
	}
	s.entries = live
}

func requiresRectMatch(kind osadapter.EventKind) bool {
	return kind == osadapter.EventLocationChange || kind == osadapter.EventMoveOrSizeEnd
}
