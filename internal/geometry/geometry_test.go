package geometry

import "testing"

func TestSplitHorizontal(t *testing.T) {
	r := NewRect(0, 0, 1920, 1080)
	left, right := SplitHorizontal(r, 0.5)
	if left != (Rect{0, 0, 960, 1080}) {
		t.Fatalf("left = %+v", left)
	}
	if right != (Rect{960, 0, 1920, 1080}) {
		t.Fatalf("right = %+v", right)
	}
}

func TestInsetOuterAndInner(t *testing.T) {
	r := NewRect(0, 0, 1000, 1000)
	outer := r.InsetOuter(10)
	if outer != (Rect{10, 10, 990, 990}) {
		t.Fatalf("outer = %+v", outer)
	}
	inner := outer.InsetInner(20)
	if inner != (Rect{20, 20, 980, 980}) {
		t.Fatalf("inner = %+v", inner)
	}
}

func TestApproxEqual(t *testing.T) {
	a := NewRect(0, 0, 100, 100)
	b := NewRect(1, 0, 100, 100)
	if !a.ApproxEqual(b, 2) {
		t.Fatal("expected approx equal within epsilon")
	}
	if a.ApproxEqual(b, 0) {
		t.Fatal("expected not equal at epsilon 0")
	}
}

func TestNeighborDeterministic(t *testing.T) {
	// Three tiles side by side: focus middle, look left and right.
	tiles := []Rect{
		NewRect(0, 0, 640, 1080),
		NewRect(640, 0, 640, 1080),
		NewRect(1280, 0, 640, 1080),
	}
	if n := Neighbor(1, tiles, Left); n != 0 {
		t.Fatalf("left neighbor = %d, want 0", n)
	}
	if n := Neighbor(1, tiles, Right); n != 2 {
		t.Fatalf("right neighbor = %d, want 2", n)
	}
	if n := Neighbor(0, tiles, Left); n != -1 {
		t.Fatalf("expected no-neighbor at left edge, got %d", n)
	}
}

func TestNeighborPerpendicularTieBreak(t *testing.T) {
	// Focused tile on the left; two candidates to the right at equal
	// along-axis distance but different perpendicular offsets.
	focused := NewRect(0, 400, 400, 200)
	closer := NewRect(400, 420, 400, 160)  // center closer in Y
	farther := NewRect(400, 0, 400, 760)   // center farther in Y but still overlaps
	tiles := []Rect{focused, farther, closer}
	if n := Neighbor(0, tiles, Right); n != 2 {
		t.Fatalf("expected closer perpendicular candidate (index 2), got %d", n)
	}
}
