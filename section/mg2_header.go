package section

import (
	"github.com/octmgo/octm/errs"
	"github.com/octmgo/octm/wire"
)

// MG2Header is the MG2-specific section following the common header
// (spec.md §4.6.1):
//
//	"MG2H"
//	vertex_precision   f32
//	normal_precision   f32
//	min_x, min_y, min_z f32
//	max_x, max_y, max_z f32
//	div_x, div_y, div_z u32
type MG2Header struct {
	VertexPrecision float32
	NormalPrecision float32
	Min             [3]float32
	Max             [3]float32
	Div             [3]uint32
}

// CellSize returns the grid cell size on each axis: (max-min)/div.
func (h MG2Header) CellSize() [3]float32 {
	var s [3]float32
	for i := range 3 {
		s[i] = (h.Max[i] - h.Min[i]) / float32(h.Div[i])
	}

	return s
}

// Write emits the MG2H section.
func (h MG2Header) Write(w *wire.Writer) error {
	if err := w.PutFourCC(TagMG2H); err != nil {
		return err
	}
	if err := w.PutF32(h.VertexPrecision); err != nil {
		return err
	}
	if err := w.PutF32(h.NormalPrecision); err != nil {
		return err
	}
	for i := range 3 {
		if err := w.PutF32(h.Min[i]); err != nil {
			return err
		}
	}
	for i := range 3 {
		if err := w.PutF32(h.Max[i]); err != nil {
			return err
		}
	}
	for i := range 3 {
		if err := w.PutU32(h.Div[i]); err != nil {
			return err
		}
	}

	return nil
}

// ReadMG2Header parses and validates the MG2H section (spec.md §4.6.13:
// "each max >= corresponding min, each div >= 1, both precisions > 0").
func ReadMG2Header(r *wire.Reader) (MG2Header, error) {
	var h MG2Header

	if err := r.FourCC(TagMG2H); err != nil {
		return h, err
	}

	var err error
	if h.VertexPrecision, err = r.F32(); err != nil {
		return h, err
	}
	if h.NormalPrecision, err = r.F32(); err != nil {
		return h, err
	}
	for i := range 3 {
		if h.Min[i], err = r.F32(); err != nil {
			return h, err
		}
	}
	for i := range 3 {
		if h.Max[i], err = r.F32(); err != nil {
			return h, err
		}
	}
	for i := range 3 {
		if h.Div[i], err = r.U32(); err != nil {
			return h, err
		}
	}

	if h.VertexPrecision <= 0 || h.NormalPrecision <= 0 {
		return h, errs.ErrBadFormat
	}
	for i := range 3 {
		if h.Max[i] < h.Min[i] {
			return h, errs.ErrBadFormat
		}
		if h.Div[i] < 1 {
			return h, errs.ErrBadFormat
		}
	}

	return h, nil
}
