package layout

import (
	"math"

	"tilewm/internal/geometry"
)

// grid implements the Grid layout (spec §4.2): ceil(sqrt(N)) columns, the
// last columns absorbing one fewer row each so totals add up to N. Column
// widths may be overridden by ColumnRatios; row heights within a column are
// always uniform (RowRatios is ignored, per spec, because the row count
// varies per column).
func grid(n int, area geometry.Rect, opts Options) []geometry.Rect {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	if cols > n {
		cols = n
	}

	rows := int(math.Ceil(float64(n) / float64(cols)))
	deficit := rows*cols - n // number of trailing columns missing the last row

	colWidths := splitExtent(area.Width(), cols, opts.ColumnRatios)

	out := make([]geometry.Rect, 0, n)
	x := area.Left
	for c := 0; c < cols; c++ {
		rowsInCol := rows
		if c >= cols-deficit {
			rowsInCol--
		}
		colRect := geometry.Rect{Left: x, Top: area.Top, Right: x + colWidths[c], Bottom: area.Bottom}
		x += colWidths[c]

		if rowsInCol == 0 {
			continue
		}
		rowHeights := splitExtent(colRect.Height(), rowsInCol, nil)
		y := colRect.Top
		for _, h := range rowHeights {
			out = append(out, geometry.Rect{Left: colRect.Left, Top: y, Right: colRect.Right, Bottom: y + h})
			y += h
		}
	}
	return out
}
