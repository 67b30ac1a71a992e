package layout

import "tilewm/internal/geometry"

// columns implements the Columns layout: N columns, equal width unless
// overridden progressively by ColumnRatios (spec §4.2).
func columns(n int, area geometry.Rect, opts Options) []geometry.Rect {
	widths := splitExtent(area.Width(), n, opts.ColumnRatios)
	out := make([]geometry.Rect, n)
	x := area.Left
	for i, w := range widths {
		out[i] = geometry.Rect{Left: x, Top: area.Top, Right: x + w, Bottom: area.Bottom}
		x += w
	}
	return out
}

// rows implements the Rows layout, the vertical dual of columns.
func rows(n int, area geometry.Rect, opts Options) []geometry.Rect {
	heights := splitExtent(area.Height(), n, opts.RowRatios)
	out := make([]geometry.Rect, n)
	y := area.Top
	for i, h := range heights {
		out[i] = geometry.Rect{Left: area.Left, Top: y, Right: area.Right, Bottom: y + h}
		y += h
	}
	return out
}
