package transform

import (
	"math"

	"github.com/octmgo/octm/grid"
)

// VertexDeltas quantizes sorted vertex positions relative to their cell
// origin and delta-codes the x component against the previous vertex when
// both share a cell (spec.md §4.6.6). positions and cells must be in sorted
// order (SortResult.Order / SortResult.Cell). y and z are always stored as
// the absolute quantized offset from the cell origin; only x chains.
func VertexDeltas(sortedPositions [][3]float32, cells []uint32, g grid.Grid, vertexPrecision float32) [][3]int32 {
	n := len(sortedPositions)
	out := make([][3]int32, n)

	s := 1 / vertexPrecision
	var prevQX int32

	for i := 0; i < n; i++ {
		origin := g.Origin(cells[i])
		p := sortedPositions[i]

		qx := int32(math.Floor(float64(s*(p[0]-origin[0])) + 0.5))
		qy := int32(math.Floor(float64(s*(p[1]-origin[1])) + 0.5))
		qz := int32(math.Floor(float64(s*(p[2]-origin[2])) + 0.5))

		outQX := qx
		if i >= 1 && cells[i] == cells[i-1] {
			outQX = qx - prevQX
		}
		prevQX = qx

		out[i] = [3]int32{outQX, qy, qz}
	}

	return out
}

// InverseVertexDeltas reconstructs sorted vertex positions from VertexDeltas'
// output.
func InverseVertexDeltas(deltas [][3]int32, cells []uint32, g grid.Grid, vertexPrecision float32) [][3]float32 {
	n := len(deltas)
	out := make([][3]float32, n)

	var prevQX int32

	for i := 0; i < n; i++ {
		qx := deltas[i][0]
		if i >= 1 && cells[i] == cells[i-1] {
			qx += prevQX
		}
		prevQX = qx

		origin := g.Origin(cells[i])
		out[i] = [3]float32{
			origin[0] + float32(qx)*vertexPrecision,
			origin[1] + float32(deltas[i][1])*vertexPrecision,
			origin[2] + float32(deltas[i][2])*vertexPrecision,
		}
	}

	return out
}
