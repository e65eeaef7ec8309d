// Package raw implements the RAW back-end (spec.md §4.4): an uncompressed,
// unreordered section dump. It exists as a debuggable baseline and as a
// fallback when LZMA is unavailable.
package raw

import (
	"github.com/octmgo/octm/mesh"
	"github.com/octmgo/octm/section"
	"github.com/octmgo/octm/wire"
)

// Encode writes, in order: INDX (count*3 u32), VERT (count*3 f32), NORM (iff
// m.HasNormals), then one TEXC per UV map and one ATTR per attribute map, all
// uncompressed.
func Encode(w *wire.Writer, m *mesh.Mesh) error {
	if err := w.PutFourCC(section.TagINDX); err != nil {
		return err
	}
	for t := 0; t < m.TriangleCount; t++ {
		for c := 0; c < 3; c++ {
			if err := w.PutU32(m.Indices.GetI(t, c)); err != nil {
				return err
			}
		}
	}

	if err := w.PutFourCC(section.TagVERT); err != nil {
		return err
	}
	for v := 0; v < m.VertexCount; v++ {
		for c := 0; c < 3; c++ {
			if err := w.PutF32(m.Positions.GetF(v, c)); err != nil {
				return err
			}
		}
	}

	if m.HasNormals {
		if err := w.PutFourCC(section.TagNORM); err != nil {
			return err
		}
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 3; c++ {
				if err := w.PutF32(m.Normals.GetF(v, c)); err != nil {
					return err
				}
			}
		}
	}

	for _, uv := range m.UVMaps {
		if err := w.PutFourCC(section.TagTEXC); err != nil {
			return err
		}
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 2; c++ {
				if err := w.PutF32(uv.Values.GetF(v, c)); err != nil {
					return err
				}
			}
		}
	}

	for _, am := range m.AttribMaps {
		if err := w.PutFourCC(section.TagATTR); err != nil {
			return err
		}
		// Attribute maps are always 4-wide on the wire (spec.md §3, §4.4);
		// components the caller didn't bind (1..3-component maps) pad with 0.
		boundComponents := am.Values.Components()
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 4; c++ {
				var val float32
				if c < boundComponents {
					val = am.Values.GetF(v, c)
				}
				if err := w.PutF32(val); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Decode is Encode's inverse. m must already have its views bound with the
// correct vertex/triangle counts and the correct number of UV/attribute map
// entries (the two-phase API's contract: bind after reading the header,
// before calling Decode).
func Decode(r *wire.Reader, m *mesh.Mesh) error {
	if err := r.FourCC(section.TagINDX); err != nil {
		return err
	}
	for t := 0; t < m.TriangleCount; t++ {
		for c := 0; c < 3; c++ {
			v, err := r.U32()
			if err != nil {
				return err
			}
			m.Indices.SetI(t, c, v)
		}
	}

	if err := r.FourCC(section.TagVERT); err != nil {
		return err
	}
	for v := 0; v < m.VertexCount; v++ {
		for c := 0; c < 3; c++ {
			f, err := r.F32()
			if err != nil {
				return err
			}
			m.Positions.SetF(v, c, f)
		}
	}

	if m.HasNormals {
		if err := r.FourCC(section.TagNORM); err != nil {
			return err
		}
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 3; c++ {
				f, err := r.F32()
				if err != nil {
					return err
				}
				m.Normals.SetF(v, c, f)
			}
		}
	}

	for i := range m.UVMaps {
		if err := r.FourCC(section.TagTEXC); err != nil {
			return err
		}
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 2; c++ {
				f, err := r.F32()
				if err != nil {
					return err
				}
				m.UVMaps[i].Values.SetF(v, c, f)
			}
		}
	}

	for i := range m.AttribMaps {
		if err := r.FourCC(section.TagATTR); err != nil {
			return err
		}
		boundComponents := m.AttribMaps[i].Values.Components()
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 4; c++ {
				f, err := r.F32()
				if err != nil {
					return err
				}
				if c < boundComponents {
					m.AttribMaps[i].Values.SetF(v, c, f)
				}
			}
		}
	}

	return nil
}
