package transform

// GridIndexDeltas delta-codes the sorted vertices' cell-index stream: the
// first entry is stored as-is, every following entry is the difference from
// its predecessor (spec.md §4.6.7). Since vertices are sorted by ascending
// cell index the differences are always non-negative.
func GridIndexDeltas(cells []uint32) []int32 {
	out := make([]int32, len(cells))

	for i, c := range cells {
		if i == 0 {
			out[i] = int32(c)
			continue
		}

		out[i] = int32(c) - int32(cells[i-1])
	}

	return out
}

// InverseGridIndexDeltas inverts GridIndexDeltas via running sum.
func InverseGridIndexDeltas(deltas []int32) []uint32 {
	out := make([]uint32, len(deltas))

	var prev int32
	for i, d := range deltas {
		if i == 0 {
			prev = d
		} else {
			prev += d
		}

		out[i] = uint32(prev)
	}

	return out
}
