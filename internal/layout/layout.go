// Package layout implements the pure layout engine (spec §4.2): a function
// from (descriptor, tile count, work area, options) to exactly N target
// rectangles. Nothing in this package mutates state or talks to the OS —
// layout is deterministic and side-effect free so the reconciler can call it
// freely and the test suite can assert on literal rectangles (spec §8).
package layout

import "tilewm/internal/geometry"

// Kind tags the layout variant (spec §9 "the only polymorphic surface").
type Kind string

const (
	BSP                      Kind = "BSP"
	Columns                  Kind = "Columns"
	Rows                     Kind = "Rows"
	VerticalStack            Kind = "VerticalStack"
	RightMainVerticalStack   Kind = "RightMainVerticalStack"
	HorizontalStack          Kind = "HorizontalStack"
	UltrawideVerticalStack   Kind = "UltrawideVerticalStack"
	Grid                     Kind = "Grid"
	Custom                   Kind = "Custom"
)

// Descriptor identifies a layout: a built-in Kind, or Custom with a Path
// naming a loaded CustomSpec (resolved by internal/config and passed in via
// Options.CustomSpecs).
type Descriptor struct {
	Kind Kind
	Path string // only set when Kind == Custom
}

// Options carries the per-layout knobs spec §4.2 names, plus resolved
// custom-layout definitions.
type Options struct {
	ColumnRatios []float64 // already normalized, spec §4.2.1
	RowRatios    []float64

	CustomSpecs map[string]CustomSpec

	// selectedCustomPath is set internally by Apply from the descriptor's
	// Path so the Custom-kind implementation can look up the right spec
	// without threading the descriptor through every helper.
	selectedCustomPath string
}

// Padding bundles the outer/inner padding applied around and between tiles.
// Outer padding is expected to already be applied to the work area by the
// caller (spec §4.3.4 step 1); Inner is applied here, per tile.
type Padding = geometry.Padding

// Apply computes exactly N target rectangles for the given descriptor and
// work area. Per the "Layout totality" property (spec §8), every returned
// rectangle is contained in area and at least 1x1, for every N >= 0.
func Apply(desc Descriptor, n int, area geometry.Rect, inner int, opts Options) []geometry.Rect {
	if n <= 0 {
		return nil
	}
	var raw []geometry.Rect
	switch desc.Kind {
	case BSP:
		raw = bsp(n, area, opts)
	case Columns:
		raw = columns(n, area, opts)
	case Rows:
		raw = rows(n, area, opts)
	case VerticalStack:
		raw = verticalStack(n, area, opts, false)
	case RightMainVerticalStack:
		raw = verticalStack(n, area, opts, true)
	case HorizontalStack:
		raw = horizontalStack(n, area, opts)
	case UltrawideVerticalStack:
		raw = ultrawideVerticalStack(n, area, opts)
	case Grid:
		raw = grid(n, area, opts)
	case Custom:
		opts.selectedCustomPath = desc.Path
		raw = custom(n, area, opts)
	default:
		raw = columns(n, area, opts)
	}

	out := make([]geometry.Rect, len(raw))
	for i, r := range raw {
		tile := r
		if inner > 0 {
			tile = r.InsetInner(inner)
		}
		out[i] = clampMinSize(tile)
	}
	return out
}

// clampMinSize guarantees the "no rectangle smaller than 1x1" totality
// property even under pathological padding/area combinations.
func clampMinSize(r geometry.Rect) geometry.Rect {
	if r.Right <= r.Left {
		r.Right = r.Left + 1
	}
	if r.Bottom <= r.Top {
		r.Bottom = r.Top + 1
	}
	return r
}
