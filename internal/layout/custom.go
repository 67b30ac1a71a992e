package layout

import "tilewm/internal/geometry"

// ColumnKind tags a custom-layout column's role (spec §4.2 "Custom
// layouts").
type ColumnKind string

const (
	ColPrimary   ColumnKind = "Primary"
	ColSecondary ColumnKind = "Secondary"
	ColTertiary  ColumnKind = "Tertiary"
)

// CustomColumn describes one column of a user-supplied custom layout.
type CustomColumn struct {
	Kind ColumnKind

	// WidthPercent is the fixed share of the work-area width this column
	// takes; zero means "equal share" (only meaningful for Primary, per
	// spec: "Primary ... with either a fixed width percentage or equal
	// share").
	WidthPercent float64

	// Rows is the number of horizontal splits a Secondary column is
	// divided into; 0 or 1 means "full height".
	Rows int
}

// CustomSpec is a full custom layout: an ordered list of columns, with at
// most one Primary, any number of Secondary, and at most one Tertiary
// (always last).
type CustomSpec struct {
	Columns []CustomColumn
}

// custom implements the Custom layout variant (spec §4.2): if N undercuts
// or equals the column count, windows occupy leading columns at equal
// width; otherwise each column's configured constraints apply and any
// windows beyond what the fixed columns can hold go to the Tertiary column
// as equal-height rows.
func custom(n int, area geometry.Rect, opts Options) []geometry.Rect {
	// The descriptor's Path selects which CustomSpec to use: Apply copies it
	// into opts.selectedCustomPath, and the spec is looked up in
	// Options.CustomSpecs, which is keyed by path.
	spec, ok := opts.CustomSpecs[opts.selectedCustomPath]
	if !ok || len(spec.Columns) == 0 {
		return columns(n, area, opts)
	}

	if n <= len(spec.Columns) {
		return columns(n, area, opts)
	}

	return customWithOverflow(n, area, spec)
}

func customWithOverflow(n int, area geometry.Rect, spec CustomSpec) []geometry.Rect {
	cols := spec.Columns
	numCols := len(cols)

	// Resolve column widths: Primary may have a fixed WidthPercent; every
	// other column (and Primary when WidthPercent==0) shares the
	// remainder equally.
	widths := make([]int, numCols)
	fixedTotal := 0
	sharedCount := 0
	for _, c := range cols {
		if c.Kind == ColPrimary && c.WidthPercent > 0 {
			fixedTotal += int(float64(area.Width()) * c.WidthPercent)
		} else {
			sharedCount++
		}
	}
	remainingWidth := area.Width() - fixedTotal
	shareWidth := 0
	if sharedCount > 0 {
		shareWidth = remainingWidth / sharedCount
	}
	for i, c := range cols {
		if c.Kind == ColPrimary && c.WidthPercent > 0 {
			widths[i] = int(float64(area.Width()) * c.WidthPercent)
		} else {
			widths[i] = shareWidth
		}
	}

	// Count how many windows the fixed (non-Tertiary) columns can hold.
	fixedSlots := 0
	tertiaryIdx := -1
	for i, c := range cols {
		switch c.Kind {
		case ColPrimary:
			fixedSlots++
		case ColSecondary:
			r := c.Rows
			if r < 1 {
				r = 1
			}
			fixedSlots += r
		case ColTertiary:
			tertiaryIdx = i
		}
	}

	overflow := n - fixedSlots
	if overflow < 0 {
		overflow = 0
	}

	out := make([]geometry.Rect, 0, n)
	x := area.Left
	remainingWindows := n
	for i, c := range cols {
		colRect := geometry.Rect{Left: x, Top: area.Top, Right: x + widths[i], Bottom: area.Bottom}
		x += widths[i]

		switch c.Kind {
		case ColPrimary:
			if remainingWindows <= 0 {
				continue
			}
			out = append(out, colRect)
			remainingWindows--
		case ColSecondary:
			r := c.Rows
			if r < 1 {
				r = 1
			}
			if r > remainingWindows {
				r = remainingWindows
			}
			heights := splitExtent(colRect.Height(), r, nil)
			y := colRect.Top
			for _, h := range heights {
				out = append(out, geometry.Rect{Left: colRect.Left, Top: y, Right: colRect.Right, Bottom: y + h})
				y += h
			}
			remainingWindows -= r
		case ColTertiary:
			if overflow <= 0 {
				continue
			}
			heights := splitExtent(colRect.Height(), overflow, nil)
			y := colRect.Top
			for _, h := range heights {
				out = append(out, geometry.Rect{Left: colRect.Left, Top: y, Right: colRect.Right, Bottom: y + h})
				y += h
			}
			remainingWindows -= overflow
		}
	}
	_ = tertiaryIdx
	return out
}
