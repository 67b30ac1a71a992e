package layout

import "tilewm/internal/geometry"

// verticalStack implements VerticalStack (mirrored==false) and
// RightMainVerticalStack (mirrored==true): a primary column taking
// ColumnRatios[0] (default 0.5) of the width, with the remaining windows
// stacked top-to-bottom in the other column using RowRatios.
func verticalStack(n int, area geometry.Rect, opts Options, mirrored bool) []geometry.Rect {
	if n == 1 {
		return []geometry.Rect{area}
	}
	primaryRatio := ratioAt(opts.ColumnRatios, 0, 0.5)

	var primaryArea, stackArea geometry.Rect
	if mirrored {
		left, right := geometry.SplitHorizontal(area, 1-primaryRatio)
		stackArea, primaryArea = left, right
	} else {
		left, right := geometry.SplitHorizontal(area, primaryRatio)
		primaryArea, stackArea = left, right
	}

	out := make([]geometry.Rect, 0, n)
	out = append(out, primaryArea)
	heights := splitExtent(stackArea.Height(), n-1, opts.RowRatios)
	y := stackArea.Top
	for _, h := range heights {
		out = append(out, geometry.Rect{Left: stackArea.Left, Top: y, Right: stackArea.Right, Bottom: y + h})
		y += h
	}
	return out
}

// horizontalStack is the rotated dual of verticalStack: a primary row on
// top (RowRatios[0], default 0.5) with remaining windows arranged
// left-to-right below, using ColumnRatios.
func horizontalStack(n int, area geometry.Rect, opts Options) []geometry.Rect {
	if n == 1 {
		return []geometry.Rect{area}
	}
	primaryRatio := ratioAt(opts.RowRatios, 0, 0.5)
	primaryArea, stackArea := geometry.SplitVertical(area, primaryRatio)

	out := make([]geometry.Rect, 0, n)
	out = append(out, primaryArea)
	widths := splitExtent(stackArea.Width(), n-1, opts.ColumnRatios)
	x := stackArea.Left
	for _, w := range widths {
		out = append(out, geometry.Rect{Left: x, Top: stackArea.Top, Right: x + w, Bottom: stackArea.Bottom})
		x += w
	}
	return out
}

// ultrawideVerticalStack implements the three-zone layout from spec §4.2:
// secondary (left, ColumnRatios[1] default 0.25), primary (center,
// ColumnRatios[0] default 0.5), tertiary stack (right, remainder split by
// RowRatios). For N=1 primary takes the full area; N=2 primary+secondary
// only; N>=3 the tertiary stack receives N-2 windows.
func ultrawideVerticalStack(n int, area geometry.Rect, opts Options) []geometry.Rect {
	if n == 1 {
		return []geometry.Rect{area}
	}

	primaryRatio := ratioAt(opts.ColumnRatios, 0, 0.5)
	secondaryRatio := ratioAt(opts.ColumnRatios, 1, 0.25)

	secondaryWidth := int(float64(area.Width()) * secondaryRatio)
	primaryWidth := int(float64(area.Width()) * primaryRatio)

	secondaryArea := geometry.Rect{Left: area.Left, Top: area.Top, Right: area.Left + secondaryWidth, Bottom: area.Bottom}
	primaryArea := geometry.Rect{Left: secondaryArea.Right, Top: area.Top, Right: secondaryArea.Right + primaryWidth, Bottom: area.Bottom}
	tertiaryArea := geometry.Rect{Left: primaryArea.Right, Top: area.Top, Right: area.Right, Bottom: area.Bottom}

	if n == 2 {
		return []geometry.Rect{primaryArea, secondaryArea}
	}

	out := make([]geometry.Rect, 0, n)
	out = append(out, primaryArea, secondaryArea)
	heights := splitExtent(tertiaryArea.Height(), n-2, opts.RowRatios)
	y := tertiaryArea.Top
	for _, h := range heights {
		out = append(out, geometry.Rect{Left: tertiaryArea.Left, Top: y, Right: tertiaryArea.Right, Bottom: y + h})
		y += h
	}
	return out
}
