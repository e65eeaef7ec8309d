// Package grid implements MG2's spatial partition (spec.md §3 "Grid", §4.6.2,
// §4.6.3): the axis-aligned bounding box, per-axis division counts, and the
// cell-index packing used to sort and delta-code vertices.
package grid

import "math"

// Grid is an axis-aligned bounding box subdivided into Div[0]*Div[1]*Div[2]
// cells.
type Grid struct {
	Min [3]float32
	Max [3]float32
	Div [3]uint32
}

// CellSize returns the per-axis cell extent: (max-min)/div.
func (g Grid) CellSize() [3]float32 {
	var s [3]float32
	for i := range 3 {
		s[i] = (g.Max[i] - g.Min[i]) / float32(g.Div[i])
	}

	return s
}

// CellCoord returns the per-axis cell coordinate of p, clamped to
// [0, Div[axis]-1] (spec.md §4.6.3: "clamp to div_a - 1 on the upper bound").
func (g Grid) CellCoord(p [3]float32) [3]uint32 {
	size := g.CellSize()

	var c [3]uint32
	for i := range 3 {
		if size[i] <= 0 {
			c[i] = 0
			continue
		}

		idx := int64((p[i] - g.Min[i]) / size[i])
		if idx < 0 {
			idx = 0
		}
		maxIdx := int64(g.Div[i]) - 1
		if idx > maxIdx {
			idx = maxIdx
		}
		c[i] = uint32(idx)
	}

	return c
}

// CellIndex packs a per-axis cell coordinate into the single integer cell
// index spec.md's GLOSSARY defines: ix + d_x*(iy + d_y*iz).
func (g Grid) CellIndex(c [3]uint32) uint32 {
	return c[0] + g.Div[0]*(c[1]+g.Div[1]*c[2])
}

// Cell is a convenience combining CellCoord and CellIndex.
func (g Grid) Cell(p [3]float32) uint32 {
	return g.CellIndex(g.CellCoord(p))
}

// Origin returns the world-space origin of the given cell index: min + cell*size
// (spec.md §4.6.6's g(cell)).
func (g Grid) Origin(cellIndex uint32) [3]float32 {
	size := g.CellSize()

	dx := g.Div[0]
	dy := g.Div[1]

	ix := cellIndex % dx
	iy := (cellIndex / dx) % dy
	iz := cellIndex / (dx * dy)

	return [3]float32{
		g.Min[0] + float32(ix)*size[0],
		g.Min[1] + float32(iy)*size[1],
		g.Min[2] + float32(iz)*size[2],
	}
}

// Resolution implements the grid-resolution heuristic from spec.md §4.6.2:
// given the bounding-box extents and vertex count, derive per-axis division
// counts. This only runs at encode time; the decoder trusts whatever
// divisions are stored in the header (spec.md's "Grid invariance" testable
// property).
func Resolution(extent [3]float32, vertexCount int) [3]uint32 {
	sum := float64(extent[0]) + float64(extent[1]) + float64(extent[2])

	// The degenerate-bbox threshold is explicitly not load-bearing for
	// compatibility (spec.md §9): any small epsilon works since the divisions
	// themselves are what's stored on the wire.
	if sum <= 1e-30 {
		return [3]uint32{4, 4, 4}
	}

	w := math.Cbrt(100 * float64(vertexCount))

	var div [3]uint32
	for i := range 3 {
		d := math.Ceil(w * float64(extent[i]) / sum)
		if d < 1 {
			d = 1
		}
		div[i] = uint32(d)
	}

	return div
}
