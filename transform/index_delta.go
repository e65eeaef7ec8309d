package transform

import "sort"

// Triangle is a triangle's three vertex-index corners.
type Triangle [3]uint32

func rotateToSmallestFirst(t Triangle) Triangle {
	switch {
	case t[0] <= t[1] && t[0] <= t[2]:
		return t
	case t[1] <= t[0] && t[1] <= t[2]:
		return Triangle{t[1], t[2], t[0]}
	default:
		return Triangle{t[2], t[0], t[1]}
	}
}

// RemapRotateAndSort rewrites every triangle corner through newIndex (the
// permutation produced by SortVertices), rotates each triangle so its
// smallest corner comes first without changing winding order, and sorts the
// triangles ascending by (corner0, corner1) (spec.md §4.6.4).
func RemapRotateAndSort(tris []Triangle, newIndex []uint32) []Triangle {
	out := make([]Triangle, len(tris))
	for i, t := range tris {
		remapped := Triangle{newIndex[t[0]], newIndex[t[1]], newIndex[t[2]]}
		out[i] = rotateToSmallestFirst(remapped)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a][0] != out[b][0] {
			return out[a][0] < out[b][0]
		}

		return out[a][1] < out[b][1]
	})

	return out
}

// IndexDeltas implements the triangle-index delta transform of spec.md
// §4.6.5, run right-to-left over the rotated and sorted triangle list.
func IndexDeltas(tris []Triangle) [][3]int32 {
	n := len(tris)
	out := make([][3]int32, n)

	for i := n - 1; i >= 0; i-- {
		var d1 int32
		if i >= 1 && tris[i][0] == tris[i-1][0] {
			d1 = int32(tris[i][1]) - int32(tris[i-1][1])
		} else {
			d1 = int32(tris[i][1]) - int32(tris[i][0])
		}

		d2 := int32(tris[i][2]) - int32(tris[i][0])

		var d0 int32
		if i >= 1 {
			d0 = int32(tris[i][0]) - int32(tris[i-1][0])
		} else {
			d0 = int32(tris[i][0])
		}

		out[i] = [3]int32{d0, d1, d2}
	}

	return out
}

// InverseIndexDeltas inverts IndexDeltas, replaying the dependency chain
// left-to-right: each triangle's corner 0 must be recovered before corners 1
// and 2, since their encoding branches on corner 0's equality with the
// previous triangle's corner 0.
func InverseIndexDeltas(deltas [][3]int32) []Triangle {
	n := len(deltas)
	out := make([]Triangle, n)

	for i := 0; i < n; i++ {
		d0, d1, d2 := deltas[i][0], deltas[i][1], deltas[i][2]

		var idx0 int32
		if i >= 1 {
			idx0 = d0 + int32(out[i-1][0])
		} else {
			idx0 = d0
		}

		var idx1 int32
		if i >= 1 && uint32(idx0) == out[i-1][0] {
			idx1 = d1 + int32(out[i-1][1])
		} else {
			idx1 = d1 + idx0
		}

		idx2 := d2 + idx0

		out[i] = Triangle{uint32(idx0), uint32(idx1), uint32(idx2)}
	}

	return out
}
