// Package geometry provides the screen-coordinate primitives the layout
// engine and state tree build on: rectangles, padding insets, and
// direction-relative neighbor resolution.
package geometry

// Rect is a screen-coordinate rectangle using (left, top, right, bottom),
// matching the OS convention the adapter reports windows and monitors in.
type Rect struct {
	Left, Top, Right, Bottom int
}

// NewRect builds a Rect from an origin and size.
func NewRect(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width is Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height is Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Center returns the rectangle's center point.
func (r Rect) Center() (x, y int) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether other is fully inside r.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right <= r.Right && other.Bottom <= r.Bottom
}

// Equal compares two rectangles for exact equality.
func (r Rect) Equal(other Rect) bool {
	return r == other
}

// ApproxEqual reports whether r and other differ by no more than epsilon on
// every edge. Used by the reconciler's move-call epsilon filter (spec
// §4.3.4 step 5).
func (r Rect) ApproxEqual(other Rect, epsilon int) bool {
	return absInt(r.Left-other.Left) <= epsilon &&
		absInt(r.Top-other.Top) <= epsilon &&
		absInt(r.Right-other.Right) <= epsilon &&
		absInt(r.Bottom-other.Bottom) <= epsilon
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Padding holds outer (work-area shrink) and inner (per-tile shrink) values,
// expressed as the uniform inset applied on every shared edge.
type Padding struct {
	Outer int
	Inner int
}

// InsetOuter shrinks a work area by the outer padding on all four sides.
func (r Rect) InsetOuter(p int) Rect {
	return Rect{
		Left:   r.Left + p,
		Top:    r.Top + p,
		Right:  r.Right - p,
		Bottom: r.Bottom - p,
	}
}

// InsetInner shrinks a tile by half the inner padding on every edge, the
// "shared edge" rule from spec §4.1: each tile gives up half the gap so
// that two adjacent tiles end up separated by exactly `inner` pixels.
func (r Rect) InsetInner(p int) Rect {
	half := p / 2
	return Rect{
		Left:   r.Left + half,
		Top:    r.Top + half,
		Right:  r.Right - half,
		Bottom: r.Bottom - half,
	}
}

// SplitHorizontal splits r into a left part taking `ratio` of the width and
// a right remainder, both inclusive of the shared boundary.
func SplitHorizontal(r Rect, ratio float64) (left, right Rect) {
	splitAt := r.Left + int(float64(r.Width())*ratio)
	left = Rect{Left: r.Left, Top: r.Top, Right: splitAt, Bottom: r.Bottom}
	right = Rect{Left: splitAt, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
	return
}

// SplitVertical splits r into a top part taking `ratio` of the height and a
// bottom remainder.
func SplitVertical(r Rect, ratio float64) (top, bottom Rect) {
	splitAt := r.Top + int(float64(r.Height())*ratio)
	top = Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: splitAt}
	bottom = Rect{Left: r.Left, Top: splitAt, Right: r.Right, Bottom: r.Bottom}
	return
}
