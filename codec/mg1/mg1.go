// Package mg1 implements the MG1 back-end (spec.md §4.5): lossless, like
// RAW, but with triangle reordering, index-delta coding, and every section
// piped through the packed-array codec. Positions, normals, and map values
// stay in the caller's order and at full float precision — only MG1's
// integer index stream is delta-coded before packing.
package mg1

import (
	"github.com/octmgo/octm/internal/pool"
	"github.com/octmgo/octm/mesh"
	"github.com/octmgo/octm/packed"
	"github.com/octmgo/octm/section"
	"github.com/octmgo/octm/transform"
	"github.com/octmgo/octm/wire"
)

// Encode writes INDX (reordered, delta-coded, packed), VERT, NORM (iff
// m.HasNormals), then one TEXC/ATTR per map, all packed.
func Encode(w *wire.Writer, m *mesh.Mesh, level int) error {
	tris := make([]transform.Triangle, m.TriangleCount)
	for t := range tris {
		tris[t] = transform.Triangle{
			m.Indices.GetI(t, 0),
			m.Indices.GetI(t, 1),
			m.Indices.GetI(t, 2),
		}
	}

	identity, releaseIdentity := pool.GetUint32Slice(m.VertexCount)
	defer releaseIdentity()
	for i := range identity {
		identity[i] = uint32(i)
	}

	reordered := transform.RemapRotateAndSort(tris, identity)
	indexDeltas := transform.IndexDeltas(reordered)

	flatIdx, releaseIdx := pool.GetInt32Slice(m.TriangleCount * 3)
	defer releaseIdx()
	for t, d := range indexDeltas {
		flatIdx[t*3], flatIdx[t*3+1], flatIdx[t*3+2] = d[0], d[1], d[2]
	}

	if err := w.PutFourCC(section.TagINDX); err != nil {
		return err
	}
	if err := packed.WriteInts(w, flatIdx, m.TriangleCount, 3, level); err != nil {
		return err
	}

	positions, releasePositions := flattenF(m.Positions, m.VertexCount, 3)
	if err := w.PutFourCC(section.TagVERT); err != nil {
		releasePositions()
		return err
	}
	err := packed.WriteFloats(w, positions, m.VertexCount, 3, level)
	releasePositions()
	if err != nil {
		return err
	}

	if m.HasNormals {
		normals, releaseNormals := flattenF(m.Normals, m.VertexCount, 3)
		if err := w.PutFourCC(section.TagNORM); err != nil {
			releaseNormals()
			return err
		}
		err := packed.WriteFloats(w, normals, m.VertexCount, 3, level)
		releaseNormals()
		if err != nil {
			return err
		}
	}

	for _, uv := range m.UVMaps {
		if err := w.PutFourCC(section.TagTEXC); err != nil {
			return err
		}
		flat, release := flattenF(uv.Values, m.VertexCount, 2)
		err := packed.WriteFloats(w, flat, m.VertexCount, 2, level)
		release()
		if err != nil {
			return err
		}
	}

	for _, am := range m.AttribMaps {
		if err := w.PutFourCC(section.TagATTR); err != nil {
			return err
		}
		// Attribute maps are always 4-wide on the wire (spec.md §3, §4.5);
		// components the caller didn't bind (1..3-component maps) pad with 0.
		flat, release := flattenAttrib(am.Values, m.VertexCount)
		err := packed.WriteFloats(w, flat, m.VertexCount, 4, level)
		release()
		if err != nil {
			return err
		}
	}

	return nil
}

// Decode is Encode's inverse. m must already have its views bound with the
// correct counts before Decode runs.
func Decode(r *wire.Reader, m *mesh.Mesh) error {
	if err := r.FourCC(section.TagINDX); err != nil {
		return err
	}
	flatIdx, err := packed.ReadInts(r, m.TriangleCount, 3)
	if err != nil {
		return err
	}

	deltas := make([][3]int32, m.TriangleCount)
	for t := range deltas {
		deltas[t] = [3]int32{flatIdx[t*3], flatIdx[t*3+1], flatIdx[t*3+2]}
	}
	tris := transform.InverseIndexDeltas(deltas)

	for t, tri := range tris {
		for c := 0; c < 3; c++ {
			m.Indices.SetI(t, c, tri[c])
		}
	}

	if err := r.FourCC(section.TagVERT); err != nil {
		return err
	}
	positions, err := packed.ReadFloats(r, m.VertexCount, 3)
	if err != nil {
		return err
	}
	unflattenF(m.Positions, positions, m.VertexCount, 3)

	if m.HasNormals {
		if err := r.FourCC(section.TagNORM); err != nil {
			return err
		}
		normals, err := packed.ReadFloats(r, m.VertexCount, 3)
		if err != nil {
			return err
		}
		unflattenF(m.Normals, normals, m.VertexCount, 3)
	}

	for i := range m.UVMaps {
		if err := r.FourCC(section.TagTEXC); err != nil {
			return err
		}
		values, err := packed.ReadFloats(r, m.VertexCount, 2)
		if err != nil {
			return err
		}
		unflattenF(m.UVMaps[i].Values, values, m.VertexCount, 2)
	}

	for i := range m.AttribMaps {
		if err := r.FourCC(section.TagATTR); err != nil {
			return err
		}
		values, err := packed.ReadFloats(r, m.VertexCount, 4)
		if err != nil {
			return err
		}
		unflattenAttrib(m.AttribMaps[i].Values, values, m.VertexCount)
	}

	return nil
}

func flattenF(v interface {
	GetF(e, c int) float32
}, n, components int) ([]float32, func()) {
	out, release := pool.GetFloat32Slice(n * components)
	for e := 0; e < n; e++ {
		for c := 0; c < components; c++ {
			out[e*components+c] = v.GetF(e, c)
		}
	}

	return out, release
}

func unflattenF(v interface {
	SetF(e, c int, val float32)
}, data []float32, n, components int) {
	for e := 0; e < n; e++ {
		for c := 0; c < components; c++ {
			v.SetF(e, c, data[e*components+c])
		}
	}
}

// flattenAttrib reads v's bound components (1..4) into a 4-wide row-major
// array, zero-padding the components the caller didn't bind.
func flattenAttrib(v interface {
	GetF(e, c int) float32
	Components() int
}, n int) ([]float32, func()) {
	bound := v.Components()
	out, release := pool.GetFloat32Slice(n * 4)
	for e := 0; e < n; e++ {
		for c := 0; c < bound; c++ {
			out[e*4+c] = v.GetF(e, c)
		}
		for c := bound; c < 4; c++ {
			out[e*4+c] = 0
		}
	}

	return out, release
}

// unflattenAttrib is flattenAttrib's inverse: it writes back only the
// components v was actually bound with, discarding the rest.
func unflattenAttrib(v interface {
	SetF(e, c int, val float32)
	Components() int
}, data []float32, n int) {
	bound := v.Components()
	for e := 0; e < n; e++ {
		for c := 0; c < bound; c++ {
			v.SetF(e, c, data[e*4+c])
		}
	}
}

