package layout

import (
	"testing"

	"tilewm/internal/geometry"
)

func TestScenario1_SingleWindowBSP(t *testing.T) {
	area := geometry.NewRect(0, 0, 1920, 1080)
	got := Apply(Descriptor{Kind: BSP}, 1, area, 0, Options{})
	want := []geometry.Rect{{0, 0, 1920, 1080}}
	assertRects(t, got, want)
}

func TestScenario2_BSPSplit(t *testing.T) {
	area := geometry.NewRect(0, 0, 1920, 1080)
	got := Apply(Descriptor{Kind: BSP}, 2, area, 0, Options{})
	want := []geometry.Rect{
		{0, 0, 960, 1080},
		{960, 0, 1920, 1080},
	}
	assertRects(t, got, want)
}

func TestBSPThreeWindowsAlternatesAxis(t *testing.T) {
	area := geometry.NewRect(0, 0, 1920, 1080)
	got := Apply(Descriptor{Kind: BSP}, 3, area, 0, Options{})
	want := []geometry.Rect{
		{0, 0, 960, 1080},
		{960, 0, 1920, 540},
		{960, 540, 1920, 1080},
	}
	assertRects(t, got, want)
}

func TestColumnsEqualWidth(t *testing.T) {
	area := geometry.NewRect(0, 0, 1200, 600)
	got := Apply(Descriptor{Kind: Columns}, 3, area, 0, Options{})
	want := []geometry.Rect{
		{0, 0, 400, 600},
		{400, 0, 800, 600},
		{800, 0, 1200, 600},
	}
	assertRects(t, got, want)
}

func TestGridLayoutTotality(t *testing.T) {
	area := geometry.NewRect(0, 0, 1200, 900)
	for n := 1; n <= 10; n++ {
		got := Apply(Descriptor{Kind: Grid}, n, area, 0, Options{})
		if len(got) != n {
			t.Fatalf("n=%d: got %d rects", n, len(got))
		}
		for _, r := range got {
			if !area.Contains(r) {
				t.Fatalf("n=%d: rect %+v not contained in area", n, r)
			}
			if r.Width() < 1 || r.Height() < 1 {
				t.Fatalf("n=%d: degenerate rect %+v", n, r)
			}
		}
	}
}

func TestGridSevenWindowsThreeColumns(t *testing.T) {
	area := geometry.NewRect(0, 0, 900, 900)
	got := Apply(Descriptor{Kind: Grid}, 7, area, 0, Options{})
	if len(got) != 7 {
		t.Fatalf("got %d rects", len(got))
	}
	// 3 columns, first column 3 rows (full), other two 2 rows each.
	col0 := 0
	for _, r := range got {
		if r.Left == got[0].Left {
			col0++
		}
	}
	if col0 != 3 {
		t.Fatalf("expected 3 tiles in first column, got %d", col0)
	}
}

func TestUltrawideVerticalStackZones(t *testing.T) {
	area := geometry.NewRect(0, 0, 4000, 1000)
	got := Apply(Descriptor{Kind: UltrawideVerticalStack}, 1, area, 0, Options{})
	assertRects(t, got, []geometry.Rect{{0, 0, 4000, 1000}})

	got = Apply(Descriptor{Kind: UltrawideVerticalStack}, 2, area, 0, Options{})
	if len(got) != 2 {
		t.Fatalf("got %d rects", len(got))
	}
	// primary (center, 0.5) then secondary (left, 0.25)
	if got[1].Width() != 1000 {
		t.Fatalf("secondary width = %d, want 1000", got[1].Width())
	}
	if got[0].Width() != 2000 {
		t.Fatalf("primary width = %d, want 2000", got[0].Width())
	}

	got = Apply(Descriptor{Kind: UltrawideVerticalStack}, 4, area, 0, Options{})
	if len(got) != 4 {
		t.Fatalf("n=4: got %d rects", len(got))
	}
}

func TestVerticalStackSingleWindowFullTile(t *testing.T) {
	area := geometry.NewRect(0, 0, 1000, 1000)
	got := Apply(Descriptor{Kind: VerticalStack}, 1, area, 0, Options{})
	assertRects(t, got, []geometry.Rect{{0, 0, 1000, 1000}})
}

func TestVerticalStackMultiple(t *testing.T) {
	area := geometry.NewRect(0, 0, 1000, 1000)
	got := Apply(Descriptor{Kind: VerticalStack}, 3, area, 0, Options{})
	if len(got) != 3 {
		t.Fatalf("got %d", len(got))
	}
	if got[0] != (geometry.Rect{0, 0, 500, 1000}) {
		t.Fatalf("primary = %+v", got[0])
	}
	if got[1].Right != 1000 || got[2].Right != 1000 {
		t.Fatalf("stack tiles should span to the right edge")
	}
}

func TestRightMainVerticalStackMirrored(t *testing.T) {
	area := geometry.NewRect(0, 0, 1000, 1000)
	got := Apply(Descriptor{Kind: RightMainVerticalStack}, 2, area, 0, Options{})
	if got[0].Left != 500 {
		t.Fatalf("primary should be on the right, got %+v", got[0])
	}
}

func TestRatioClampingAndTruncation(t *testing.T) {
	in := []float64{0.05, 0.95, 0.6, 0.5}
	out := NormalizeRatios(in)
	for _, r := range out {
		if r < 0.1 || r > 0.9 {
			t.Fatalf("ratio %v out of bounds", r)
		}
	}
	sum := 0.0
	for _, r := range out {
		sum += r
	}
	if sum >= 1.0 {
		t.Fatalf("prefix sum %v should be < 1", sum)
	}
}

func TestCustomLayoutOverflowToTertiary(t *testing.T) {
	spec := CustomSpec{Columns: []CustomColumn{
		{Kind: ColPrimary, WidthPercent: 0.5},
		{Kind: ColSecondary, Rows: 1},
		{Kind: ColTertiary},
	}}
	opts := Options{CustomSpecs: map[string]CustomSpec{"my.json": spec}}
	area := geometry.NewRect(0, 0, 1000, 1000)
	got := Apply(Descriptor{Kind: Custom, Path: "my.json"}, 5, area, 0, opts)
	if len(got) != 5 {
		t.Fatalf("got %d rects, want 5", len(got))
	}
}

func TestCustomLayoutUndercutUsesEqualColumns(t *testing.T) {
	spec := CustomSpec{Columns: []CustomColumn{
		{Kind: ColPrimary, WidthPercent: 0.5},
		{Kind: ColSecondary, Rows: 1},
		{Kind: ColTertiary},
	}}
	opts := Options{CustomSpecs: map[string]CustomSpec{"my.json": spec}}
	area := geometry.NewRect(0, 0, 900, 900)
	got := Apply(Descriptor{Kind: Custom, Path: "my.json"}, 2, area, 0, opts)
	if len(got) != 2 {
		t.Fatalf("got %d", len(got))
	}
	if got[0].Width() != 450 || got[1].Width() != 450 {
		t.Fatalf("expected equal-width leading columns, got %+v", got)
	}
}

func TestInnerPaddingShrinksTiles(t *testing.T) {
	area := geometry.NewRect(0, 0, 1000, 1000)
	got := Apply(Descriptor{Kind: Columns}, 2, area, 20, Options{})
	if got[0].Right-got[0].Left != 500-20 {
		t.Fatalf("expected tile shrunk by inner padding, got %+v", got[0])
	}
}

func assertRects(t *testing.T, got, want []geometry.Rect) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d rects, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rect %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
