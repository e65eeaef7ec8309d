package grid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellIndexPacking(t *testing.T) {
	g := Grid{Min: [3]float32{0, 0, 0}, Max: [3]float32{4, 4, 4}, Div: [3]uint32{4, 4, 4}}

	require.Equal(t, uint32(0), g.CellIndex([3]uint32{0, 0, 0}))
	require.Equal(t, uint32(1), g.CellIndex([3]uint32{1, 0, 0}))
	require.Equal(t, uint32(4), g.CellIndex([3]uint32{0, 1, 0}))
	require.Equal(t, uint32(16), g.CellIndex([3]uint32{0, 0, 1}))
	require.Equal(t, uint32(1+4*(2+4*3)), g.CellIndex([3]uint32{1, 2, 3}))
}

func TestCellCoordClampsUpperBound(t *testing.T) {
	g := Grid{Min: [3]float32{0, 0, 0}, Max: [3]float32{4, 4, 4}, Div: [3]uint32{4, 4, 4}}

	c := g.CellCoord([3]float32{100, 100, 100})
	require.Equal(t, [3]uint32{3, 3, 3}, c)
}

func TestOriginInverseOfCellIndex(t *testing.T) {
	g := Grid{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}, Div: [3]uint32{2, 2, 2}}

	idx := g.CellIndex([3]uint32{1, 0, 1})
	origin := g.Origin(idx)
	require.Equal(t, [3]float32{0, -1, 0}, origin)
}

func TestResolutionDegenerateBBox(t *testing.T) {
	div := Resolution([3]float32{0, 0, 0}, 100)
	require.Equal(t, [3]uint32{4, 4, 4}, div)
}

func TestResolutionNonDegenerate(t *testing.T) {
	div := Resolution([3]float32{2, 2, 2}, 1000)
	for _, d := range div {
		require.GreaterOrEqual(t, d, uint32(1))
	}
}
