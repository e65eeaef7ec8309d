package transform

import (
	"testing"

	"github.com/octmgo/octm/grid"
	"github.com/stretchr/testify/require"
)

func TestSortVerticesGroupsByCell(t *testing.T) {
	g := grid.Grid{Min: [3]float32{0, 0, 0}, Max: [3]float32{4, 4, 4}, Div: [3]uint32{2, 2, 2}}

	positions := [][3]float32{
		{3, 3, 3}, // cell (1,1,1)
		{0, 0, 0}, // cell (0,0,0)
		{0.5, 0, 0},
	}

	res := SortVertices(positions, g)

	require.Equal(t, uint32(1), res.Order[0])
	require.Equal(t, uint32(2), res.Order[1])
	require.Equal(t, uint32(0), res.Order[2])

	require.Equal(t, uint32(2), res.NewIndex[0])
	require.Equal(t, uint32(0), res.NewIndex[1])
	require.Equal(t, uint32(1), res.NewIndex[2])

	require.Equal(t, res.Cell[0], res.Cell[1])
	require.NotEqual(t, res.Cell[0], res.Cell[2])
}

func TestSortVerticesIsPermutation(t *testing.T) {
	g := grid.Grid{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 10}, Div: [3]uint32{3, 3, 3}}
	positions := [][3]float32{{1, 2, 3}, {9, 9, 9}, {0, 0, 0}, {5, 5, 5}}

	res := SortVertices(positions, g)

	seen := make(map[uint32]bool)
	for _, o := range res.Order {
		require.False(t, seen[o])
		seen[o] = true
	}
	require.Len(t, seen, len(positions))

	for orig, pos := range res.NewIndex {
		require.Equal(t, uint32(orig), res.Order[pos])
	}
}
