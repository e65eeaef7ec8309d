// Package mesh binds the caller's typed-array views into a single mesh
// object and validates it against every invariant in spec.md §3: non-empty
// counts, in-range triangle indices, finite floats, positive precisions, and
// unique map names. Both the export-time pre-encode check and the
// import-time post-decode integrity check run the same Validate.
package mesh

import (
	"fmt"
	"math"

	"github.com/octmgo/octm/array"
	"github.com/octmgo/octm/errs"
)

// UVMap is a bound UV-map view plus its name, optional filename and
// precision.
type UVMap struct {
	Name      string
	Filename  string
	Precision float32
	Values    array.View
}

// AttribMap is a bound attribute-map view plus its name and precision.
type AttribMap struct {
	Name      string
	Precision float32
	Values    array.View
}

// Mesh holds every bound array for one encode or decode pass.
type Mesh struct {
	VertexCount   int
	TriangleCount int

	Positions array.View
	Indices   array.View

	HasNormals bool
	Normals    array.View

	UVMaps     []UVMap
	AttribMaps []AttribMap
}

// Validate checks every invariant in spec.md §3 that doesn't already follow
// from a successful array.Bind call.
func (m *Mesh) Validate() error {
	if m.VertexCount < 1 {
		return fmt.Errorf("%w: vertex count must be >= 1", errs.ErrInvalidMesh)
	}
	if m.TriangleCount < 1 {
		return fmt.Errorf("%w: triangle count must be >= 1", errs.ErrInvalidMesh)
	}

	for t := 0; t < m.TriangleCount; t++ {
		for c := 0; c < 3; c++ {
			idx := m.Indices.GetI(t, c)
			if idx >= uint32(m.VertexCount) {
				return fmt.Errorf("%w: triangle %d corner %d index %d out of range (N_v=%d)",
					errs.ErrInvalidMesh, t, c, idx, m.VertexCount)
			}
		}
	}

	for v := 0; v < m.VertexCount; v++ {
		for c := 0; c < 3; c++ {
			if !finite(m.Positions.GetF(v, c)) {
				return fmt.Errorf("%w: non-finite position at vertex %d", errs.ErrInvalidMesh, v)
			}
		}
	}

	if m.HasNormals {
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 3; c++ {
				if !finite(m.Normals.GetF(v, c)) {
					return fmt.Errorf("%w: non-finite normal at vertex %d", errs.ErrInvalidMesh, v)
				}
			}
		}
	}

	seenUV := make(map[string]bool, len(m.UVMaps))
	seenAttrib := make(map[string]bool, len(m.AttribMaps))

	for _, um := range m.UVMaps {
		if seenUV[um.Name] {
			return fmt.Errorf("%w: duplicate UV map name %q", errs.ErrInvalidMesh, um.Name)
		}
		seenUV[um.Name] = true

		if um.Precision <= 0 {
			return fmt.Errorf("%w: UV map %q precision must be positive", errs.ErrInvalidMesh, um.Name)
		}

		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < 2; c++ {
				if !finite(um.Values.GetF(v, c)) {
					return fmt.Errorf("%w: non-finite value in UV map %q at vertex %d", errs.ErrInvalidMesh, um.Name, v)
				}
			}
		}
	}

	for _, am := range m.AttribMaps {
		if seenAttrib[am.Name] {
			return fmt.Errorf("%w: duplicate attribute map name %q", errs.ErrInvalidMesh, am.Name)
		}
		seenAttrib[am.Name] = true

		if am.Precision <= 0 {
			return fmt.Errorf("%w: attribute map %q precision must be positive", errs.ErrInvalidMesh, am.Name)
		}

		components := am.Values.Components()
		for v := 0; v < m.VertexCount; v++ {
			for c := 0; c < components; c++ {
				if !finite(am.Values.GetF(v, c)) {
					return fmt.Errorf("%w: non-finite value in attribute map %q at vertex %d", errs.ErrInvalidMesh, am.Name, v)
				}
			}
		}
	}

	return nil
}

func finite(f float32) bool {
	v := float64(f)

	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
