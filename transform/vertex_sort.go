package transform

import (
	"sort"

	"github.com/octmgo/octm/grid"
)

// SortResult is the permutation produced by SortVertices: Order maps a
// sorted position to its original vertex index, NewIndex is its inverse, and
// Cell is each sorted vertex's grid-cell index (spec.md §4.6.3).
type SortResult struct {
	Order    []uint32
	NewIndex []uint32
	Cell     []uint32
}

// SortVertices buckets vertices by grid cell, breaking ties within a cell by
// ascending x coordinate (spec.md §4.6.3). The sort is stable so equal-key
// vertices keep their relative input order, which is what makes the
// transform deterministic across runs of the same input.
func SortVertices(positions [][3]float32, g grid.Grid) SortResult {
	n := len(positions)

	cellOf := make([]uint32, n)
	for i, p := range positions {
		cellOf[i] = g.Cell(p)
	}

	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}

	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if cellOf[ia] != cellOf[ib] {
			return cellOf[ia] < cellOf[ib]
		}

		return positions[ia][0] < positions[ib][0]
	})

	newIndex := make([]uint32, n)
	for pos, orig := range order {
		newIndex[orig] = uint32(pos)
	}

	cell := make([]uint32, n)
	for pos, orig := range order {
		cell[pos] = cellOf[orig]
	}

	return SortResult{Order: order, NewIndex: newIndex, Cell: cell}
}
