package layout

import "tilewm/internal/geometry"

// bsp implements the static BSP layout (spec §4.2): recursive splits
// alternating horizontal/vertical, starting horizontal, using only the
// first configured ratio at each axis (spec §4.2.1).
func bsp(n int, area geometry.Rect, opts Options) []geometry.Rect {
	out := make([]geometry.Rect, 0, n)
	bspSplit(area, n, true, opts, &out)
	return out
}

func bspSplit(area geometry.Rect, remaining int, horizontal bool, opts Options, out *[]geometry.Rect) {
	if remaining <= 1 {
		*out = append(*out, area)
		return
	}
	if horizontal {
		ratio := ratioAt(opts.ColumnRatios, 0, 0.5)
		first, rest := geometry.SplitHorizontal(area, ratio)
		*out = append(*out, first)
		bspSplit(rest, remaining-1, false, opts, out)
	} else {
		ratio := ratioAt(opts.RowRatios, 0, 0.5)
		first, rest := geometry.SplitVertical(area, ratio)
		*out = append(*out, first)
		bspSplit(rest, remaining-1, true, opts, out)
	}
}
