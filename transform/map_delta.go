package transform

import "math"

// MapDeltas quantizes UV/attribute map values (already reordered into sorted
// vertex order) per component and stores first-order differences between
// consecutive sorted vertices, independent of grid cell (spec.md §4.6.11).
// Only the first `components` entries of each value are read.
func MapDeltas(sortedValues [][4]float32, components int, precision float32) []int32 {
	n := len(sortedValues)
	out := make([]int32, n*components)
	prev := make([]int32, components)

	s := 1 / precision

	for i := 0; i < n; i++ {
		for c := 0; c < components; c++ {
			q := int32(math.Round(float64(s * sortedValues[i][c])))

			if i == 0 {
				out[i*components+c] = q
			} else {
				out[i*components+c] = q - prev[c]
			}
			prev[c] = q
		}
	}

	return out
}

// InverseMapDeltas inverts MapDeltas.
func InverseMapDeltas(deltas []int32, components int, precision float32) [][4]float32 {
	n := len(deltas) / components
	out := make([][4]float32, n)
	prev := make([]int32, components)

	for i := 0; i < n; i++ {
		for c := 0; c < components; c++ {
			d := deltas[i*components+c]

			var q int32
			if i == 0 {
				q = d
			} else {
				q = prev[c] + d
			}
			prev[c] = q

			out[i][c] = float32(q) * precision
		}
	}

	return out
}
