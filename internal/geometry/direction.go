package geometry

// Direction is a cardinal screen direction used for directional focus and
// directional window movement (spec §4.1).
type Direction string

const (
	Left  Direction = "Left"
	Right Direction = "Right"
	Up    Direction = "Up"
	Down  Direction = "Down"
)

// CycleDirection selects the sense of a cyclic operation (stack cycling,
// workspace cycling).
type CycleDirection string

const (
	Previous CycleDirection = "Previous"
	Next     CycleDirection = "Next"
)

// FocusPolicy controls whether ring focus arithmetic wraps around or clamps
// at the ends (spec §4.1).
type FocusPolicy int

const (
	Wrap FocusPolicy = iota
	Clamp
)

// Neighbor resolves the directional neighbor of `focused` among `siblings`
// (which may include focused itself; it is skipped). The neighbor is the
// sibling whose center minimizes along-axis distance among those overlapping
// on the perpendicular axis; ties break by the closer perpendicular distance,
// then by smaller index (spec §4.1, §9 open question (b)).
//
// Returns the index into siblings, or -1 if no sibling qualifies
// ("no-neighbor", escalated by the reconciler to cross-boundary behavior).
func Neighbor(focusedIdx int, siblings []Rect, dir Direction) int {
	if focusedIdx < 0 || focusedIdx >= len(siblings) {
		return -1
	}
	focused := siblings[focusedIdx]
	fx, fy := focused.Center()

	best := -1
	bestAlong := 0
	bestPerp := 0

	for i, r := range siblings {
		if i == focusedIdx {
			continue
		}
		cx, cy := r.Center()

		var along, perp int
		var overlaps bool
		switch dir {
		case Left:
			along = fx - cx
			overlaps = rangesOverlap(focused.Top, focused.Bottom, r.Top, r.Bottom)
			perp = absInt(fy - cy)
		case Right:
			along = cx - fx
			overlaps = rangesOverlap(focused.Top, focused.Bottom, r.Top, r.Bottom)
			perp = absInt(fy - cy)
		case Up:
			along = fy - cy
			overlaps = rangesOverlap(focused.Left, focused.Right, r.Left, r.Right)
			perp = absInt(fx - cx)
		case Down:
			along = cy - fy
			overlaps = rangesOverlap(focused.Left, focused.Right, r.Left, r.Right)
			perp = absInt(fx - cx)
		}
		if along <= 0 || !overlaps {
			continue
		}

		if best == -1 || along < bestAlong ||
			(along == bestAlong && perp < bestPerp) ||
			(along == bestAlong && perp == bestPerp && i < best) {
			best, bestAlong, bestPerp = i, along, perp
		}
	}
	return best
}

func rangesOverlap(aLo, aHi, bLo, bHi int) bool {
	return aLo < bHi && bLo < aHi
}
