// Package mg2 implements the MG2 back-end (spec.md §4.6): lossy, quantized
// mesh compression built on a spatial grid. Vertices are bucketed by grid
// cell and delta-coded against their cell origin, triangles are reordered
// against the resulting vertex permutation and index-delta coded, normals
// are predicted from the reconstructed geometry and stored as a small
// angular deviation, and UV/attribute maps are delta-coded in sorted vertex
// order. Every integer and float stream is packed through the LZMA codec.
package mg2

import (
	"math"

	"github.com/octmgo/octm/errs"
	"github.com/octmgo/octm/grid"
	"github.com/octmgo/octm/mesh"
	"github.com/octmgo/octm/packed"
	"github.com/octmgo/octm/section"
	"github.com/octmgo/octm/transform"
	"github.com/octmgo/octm/wire"
)

// Encode writes MG2H, VERT, GIDX, INDX, NORM (iff m.HasNormals), then one
// TEXC/ATTR per map, in that order (spec.md §4.6.12).
func Encode(w *wire.Writer, m *mesh.Mesh, vertexPrecision, normalPrecision float32, level int) error {
	positions := readPositions(m)

	var min, max [3]float32
	min, max = positions[0], positions[0]
	for _, p := range positions[1:] {
		for c := 0; c < 3; c++ {
			if p[c] < min[c] {
				min[c] = p[c]
			}
			if p[c] > max[c] {
				max[c] = p[c]
			}
		}
	}

	var extent [3]float32
	for c := 0; c < 3; c++ {
		extent[c] = max[c] - min[c]
	}

	div := grid.Resolution(extent, m.VertexCount)
	g := grid.Grid{Min: min, Max: max, Div: div}

	hdr := section.MG2Header{
		VertexPrecision: vertexPrecision,
		NormalPrecision: normalPrecision,
		Min:             min,
		Max:             max,
		Div:             div,
	}
	if err := hdr.Write(w); err != nil {
		return err
	}

	sorted := transform.SortVertices(positions, g)

	sortedPositions := make([][3]float32, m.VertexCount)
	for i, orig := range sorted.Order {
		sortedPositions[i] = positions[orig]
	}

	vertexDeltas := transform.VertexDeltas(sortedPositions, sorted.Cell, g, vertexPrecision)
	flatVertex := flatten3(vertexDeltas)
	if err := w.PutFourCC(section.TagVERT); err != nil {
		return err
	}
	if err := packed.WriteInts(w, flatVertex, m.VertexCount, 3, level); err != nil {
		return err
	}

	gridDeltas := transform.GridIndexDeltas(sorted.Cell)
	if err := w.PutFourCC(section.TagGIDX); err != nil {
		return err
	}
	if err := packed.WriteInts(w, gridDeltas, m.VertexCount, 1, level); err != nil {
		return err
	}

	tris := make([]transform.Triangle, m.TriangleCount)
	for t := range tris {
		tris[t] = transform.Triangle{
			m.Indices.GetI(t, 0),
			m.Indices.GetI(t, 1),
			m.Indices.GetI(t, 2),
		}
	}
	reordered := transform.RemapRotateAndSort(tris, sorted.NewIndex)
	indexDeltas := transform.IndexDeltas(reordered)
	flatIdx := make([]int32, m.TriangleCount*3)
	for t, d := range indexDeltas {
		flatIdx[t*3], flatIdx[t*3+1], flatIdx[t*3+2] = d[0], d[1], d[2]
	}
	if err := w.PutFourCC(section.TagINDX); err != nil {
		return err
	}
	if err := packed.WriteInts(w, flatIdx, m.TriangleCount, 3, level); err != nil {
		return err
	}

	reconstructed := transform.InverseVertexDeltas(vertexDeltas, sorted.Cell, g, vertexPrecision)

	if m.HasNormals {
		smooth := transform.SmoothNormals(reconstructed, reordered)

		// smooth is indexed by sorted-vertex position, the order Decode reads
		// the normal stream in; pair each prediction with the caller's normal
		// of the vertex sorted into that position.
		flatNorm := make([]int32, m.VertexCount*3)
		for i, orig := range sorted.Order {
			v := int(orig)
			n0 := [3]float32{m.Normals.GetF(v, 0), m.Normals.GetF(v, 1), m.Normals.GetF(v, 2)}
			mag, phi, theta := transform.EncodeNormal(n0, smooth[i], normalPrecision)
			flatNorm[i*3], flatNorm[i*3+1], flatNorm[i*3+2] = mag, phi, theta
		}

		if err := w.PutFourCC(section.TagNORM); err != nil {
			return err
		}
		if err := packed.WriteInts(w, flatNorm, m.VertexCount, 3, level); err != nil {
			return err
		}
	}

	for _, uv := range m.UVMaps {
		if err := w.PutFourCC(section.TagTEXC); err != nil {
			return err
		}
		if err := w.PutF32(uv.Precision); err != nil {
			return err
		}
		sortedValues := sortedMapValues(uv.Values, sorted.Order, 2)
		deltas := transform.MapDeltas(sortedValues, 2, uv.Precision)
		if err := packed.WriteInts(w, deltas, m.VertexCount, 2, level); err != nil {
			return err
		}
	}

	for _, am := range m.AttribMaps {
		if err := w.PutFourCC(section.TagATTR); err != nil {
			return err
		}
		if err := w.PutF32(am.Precision); err != nil {
			return err
		}
		// Attribute maps are always 4-wide on the wire (spec.md §3, §4.6.11);
		// components the caller didn't bind (1..3-component maps) pad with 0.
		sortedValues := sortedMapValues(am.Values, sorted.Order, am.Values.Components())
		deltas := transform.MapDeltas(sortedValues, 4, am.Precision)
		if err := packed.WriteInts(w, deltas, m.VertexCount, 4, level); err != nil {
			return err
		}
	}

	return nil
}

// Decode is Encode's inverse. m must already have its views bound with the
// correct counts before Decode runs. Every restored float is checked for
// finiteness and every index against m.VertexCount (spec.md §4.6.13).
func Decode(r *wire.Reader, m *mesh.Mesh) error {
	hdr, err := section.ReadMG2Header(r)
	if err != nil {
		return err
	}
	g := grid.Grid{Min: hdr.Min, Max: hdr.Max, Div: hdr.Div}

	if err := r.FourCC(section.TagVERT); err != nil {
		return err
	}
	flatVertex, err := packed.ReadInts(r, m.VertexCount, 3)
	if err != nil {
		return err
	}
	vertexDeltas := unflatten3(flatVertex, m.VertexCount)

	if err := r.FourCC(section.TagGIDX); err != nil {
		return err
	}
	gridDeltas, err := packed.ReadInts(r, m.VertexCount, 1)
	if err != nil {
		return err
	}
	cells := transform.InverseGridIndexDeltas(gridDeltas)

	sortedPositions := transform.InverseVertexDeltas(vertexDeltas, cells, g, hdr.VertexPrecision)

	if err := r.FourCC(section.TagINDX); err != nil {
		return err
	}
	flatIdx, err := packed.ReadInts(r, m.TriangleCount, 3)
	if err != nil {
		return err
	}
	idxDeltas := make([][3]int32, m.TriangleCount)
	for t := range idxDeltas {
		idxDeltas[t] = [3]int32{flatIdx[t*3], flatIdx[t*3+1], flatIdx[t*3+2]}
	}
	tris := transform.InverseIndexDeltas(idxDeltas)

	// tris reference sorted-vertex indices directly; no further remap needed
	// since the sorted order *is* the decoded vertex order.
	for t, tri := range tris {
		for c := 0; c < 3; c++ {
			if int(tri[c]) >= m.VertexCount {
				return errs.ErrInvalidMesh
			}
			m.Indices.SetI(t, c, tri[c])
		}
	}

	for v, p := range sortedPositions {
		for c := 0; c < 3; c++ {
			if !finite(p[c]) {
				return errs.ErrInvalidMesh
			}
			m.Positions.SetF(v, c, p[c])
		}
	}

	if m.HasNormals {
		if err := r.FourCC(section.TagNORM); err != nil {
			return err
		}
		flatNorm, err := packed.ReadInts(r, m.VertexCount, 3)
		if err != nil {
			return err
		}

		smooth := transform.SmoothNormals(sortedPositions, tris)

		for v := 0; v < m.VertexCount; v++ {
			n := transform.DecodeNormal(flatNorm[v*3], flatNorm[v*3+1], flatNorm[v*3+2], smooth[v], hdr.NormalPrecision)
			for c := 0; c < 3; c++ {
				if !finite(n[c]) {
					return errs.ErrInvalidMesh
				}
				m.Normals.SetF(v, c, n[c])
			}
		}
	}

	for i := range m.UVMaps {
		if err := r.FourCC(section.TagTEXC); err != nil {
			return err
		}
		precision, err := r.F32()
		if err != nil {
			return err
		}
		if precision <= 0 {
			return errs.ErrBadFormat
		}
		deltas, err := packed.ReadInts(r, m.VertexCount, 2)
		if err != nil {
			return err
		}
		values := transform.InverseMapDeltas(deltas, 2, precision)
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 2; c++ {
				if !finite(values[v][c]) {
					return errs.ErrInvalidMesh
				}
				m.UVMaps[i].Values.SetF(v, c, values[v][c])
			}
		}
		m.UVMaps[i].Precision = precision
	}

	for i := range m.AttribMaps {
		if err := r.FourCC(section.TagATTR); err != nil {
			return err
		}
		precision, err := r.F32()
		if err != nil {
			return err
		}
		if precision <= 0 {
			return errs.ErrBadFormat
		}
		boundComponents := m.AttribMaps[i].Values.Components()
		deltas, err := packed.ReadInts(r, m.VertexCount, 4)
		if err != nil {
			return err
		}
		values := transform.InverseMapDeltas(deltas, 4, precision)
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 4; c++ {
				if !finite(values[v][c]) {
					return errs.ErrInvalidMesh
				}
				if c < boundComponents {
					m.AttribMaps[i].Values.SetF(v, c, values[v][c])
				}
			}
		}
		m.AttribMaps[i].Precision = precision
	}

	return nil
}

func readPositions(m *mesh.Mesh) [][3]float32 {
	out := make([][3]float32, m.VertexCount)
	for v := 0; v < m.VertexCount; v++ {
		out[v] = [3]float32{m.Positions.GetF(v, 0), m.Positions.GetF(v, 1), m.Positions.GetF(v, 2)}
	}

	return out
}

func sortedMapValues(v interface {
	GetF(e, c int) float32
}, order []uint32, components int) [][4]float32 {
	out := make([][4]float32, len(order))
	for i, orig := range order {
		for c := 0; c < components; c++ {
			out[i][c] = v.GetF(int(orig), c)
		}
	}

	return out
}

func flatten3(deltas [][3]int32) []int32 {
	out := make([]int32, len(deltas)*3)
	for i, d := range deltas {
		out[i*3], out[i*3+1], out[i*3+2] = d[0], d[1], d[2]
	}

	return out
}

func unflatten3(flat []int32, n int) [][3]int32 {
	out := make([][3]int32, n)
	for i := range out {
		out[i] = [3]int32{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}

	return out
}

func finite(f float32) bool {
	v := float64(f)

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
