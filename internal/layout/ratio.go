package layout

// ClampRatio enforces the [0.1, 0.9] bound spec §4.2.1 requires of every
// configured ratio.
func ClampRatio(r float64) float64 {
	if r < 0.1 {
		return 0.1
	}
	if r > 0.9 {
		return 0.9
	}
	return r
}

// NormalizeRatios clamps every entry to [0.1, 0.9] and truncates the array
// at the point the running sum would reach or exceed 1, so the final
// configured tile is never zero-sized (spec §4.2.1).
func NormalizeRatios(ratios []float64) []float64 {
	out := make([]float64, 0, len(ratios))
	sum := 0.0
	for _, r := range ratios {
		r = ClampRatio(r)
		if sum+r >= 1.0 {
			break
		}
		out = append(out, r)
		sum += r
	}
	return out
}

// ratioAt returns the split ratio to use for the k-th (0-indexed) tile given
// the ratio array and a default. The array is assumed already normalized.
func ratioAt(ratios []float64, k int, def float64) float64 {
	if k < len(ratios) {
		return ratios[k]
	}
	return def
}

// splitExtent divides `extent` (a width or a height) into `n` parts using
// progressive ratios: the k-th part takes ratios[k] of what remains after
// the previous parts, and the final part absorbs whatever is left (spec
// §4.2.1). Once the configured ratio array is exhausted, remaining parts
// split the remainder evenly among themselves (so "N equal-width columns"
// with no overrides truly comes out equal, not 1/N of an ever-shrinking
// remainder).
func splitExtent(extent, n int, ratios []float64) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	remaining := extent
	for k := 0; k < n-1; k++ {
		def := 1.0 / float64(n-k)
		share := int(float64(remaining) * ratioAt(ratios, k, def))
		out[k] = share
		remaining -= share
	}
	out[n-1] = remaining
	return out
}
