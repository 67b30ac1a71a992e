package ring

import "testing"

func TestPushBackFocusesFirst(t *testing.T) {
	r := New[string]()
	r.PushBack("a")
	if v, ok := r.Focused(); !ok || v != "a" {
		t.Fatalf("focused = %v, %v", v, ok)
	}
	r.PushBack("b")
	if v, _ := r.Focused(); v != "a" {
		t.Fatalf("focus should not move on subsequent pushes, got %v", v)
	}
}

func TestRemoveAtClampsToLast(t *testing.T) {
	r := New[int]()
	r.PushBack(1)
	r.PushBack(2)
	r.PushBack(3)
	r.FocusIndex(2)
	r.RemoveAt(2, ClampToLast)
	if r.Len() != 2 {
		t.Fatalf("len = %d", r.Len())
	}
	if idx := r.FocusedIndex(); idx != 1 {
		t.Fatalf("focused index = %d, want 1", idx)
	}
}

func TestRemoveAtEmptyClearsFocus(t *testing.T) {
	r := New[int]()
	r.PushBack(1)
	r.RemoveAt(0, ClampToLast)
	if !r.Empty() {
		t.Fatal("expected empty")
	}
	if _, ok := r.Focused(); ok {
		t.Fatal("expected no focused item")
	}
}

func TestFocusDirectionWrap(t *testing.T) {
	r := New[int]()
	r.PushBack(1)
	r.PushBack(2)
	r.PushBack(3)
	r.FocusIndex(2)
	r.FocusDirection(1, Wrap)
	if r.FocusedIndex() != 0 {
		t.Fatalf("expected wrap to 0, got %d", r.FocusedIndex())
	}
}

func TestFocusDirectionClamp(t *testing.T) {
	r := New[int]()
	r.PushBack(1)
	r.PushBack(2)
	r.FocusIndex(1)
	r.FocusDirection(1, Clamp)
	if r.FocusedIndex() != 1 {
		t.Fatalf("expected clamp to stay at 1, got %d", r.FocusedIndex())
	}
}

func TestInsertAtShiftsFocus(t *testing.T) {
	r := New[int]()
	r.PushBack(1)
	r.PushBack(2)
	r.FocusIndex(1)
	r.InsertAt(0, 99)
	if r.FocusedIndex() != 2 {
		t.Fatalf("expected focus shifted to 2, got %d", r.FocusedIndex())
	}
	if r.At(2) != 2 {
		t.Fatalf("expected original focused item preserved, got %v", r.At(2))
	}
}

func TestRotateKeepsFocusOnItem(t *testing.T) {
	r := New[string]()
	r.PushBack("a")
	r.PushBack("b")
	r.PushBack("c")
	r.FocusIndex(0)
	r.Rotate(1)
	v, _ := r.Focused()
	if v != "a" {
		t.Fatalf("expected focus to follow item a, got %v", v)
	}
	if r.At(1) != "a" {
		t.Fatalf("expected a at index 1 after rotate, got %v", r.At(1))
	}
}

func TestFocusByPredicate(t *testing.T) {
	r := New[int]()
	r.PushBack(10)
	r.PushBack(20)
	r.PushBack(30)
	if !r.FocusByPredicate(func(v int) bool { return v == 20 }) {
		t.Fatal("expected match")
	}
	if r.FocusedIndex() != 1 {
		t.Fatalf("focused index = %d", r.FocusedIndex())
	}
}
