package section

import (
	"github.com/octmgo/octm/errs"
	"github.com/octmgo/octm/format"
	"github.com/octmgo/octm/wire"
)

// Header is the common file header every method shares (spec.md §4.2):
//
//	"OCTM"                 (FOURCC)
//	version   u32
//	method    FOURCC
//	vertex_count    u32
//	triangle_count  u32
//	uv_map_count    u32
//	attrib_map_count u32
//	flags           u32
//	comment         string
type Header struct {
	Version        uint32
	Method         format.Method
	VertexCount    uint32
	TriangleCount  uint32
	UVMapCount     uint32
	AttribMapCount uint32
	Flags          uint32
	Comment        string
}

// HasNormals reports whether flag bit 0 is set.
func (h Header) HasNormals() bool {
	return h.Flags&FlagHasNormals != 0
}

// SetHasNormals sets or clears flag bit 0.
func (h *Header) SetHasNormals(v bool) {
	if v {
		h.Flags |= FlagHasNormals
	} else {
		h.Flags &^= FlagHasNormals
	}
}

// Write emits the header, including its terminal comment string.
func (h Header) Write(w *wire.Writer) error {
	if err := w.PutFourCC(TagOCTM); err != nil {
		return err
	}
	if err := w.PutU32(h.Version); err != nil {
		return err
	}
	if err := w.PutFourCC(h.Method.FourCC()); err != nil {
		return err
	}
	if err := w.PutU32(h.VertexCount); err != nil {
		return err
	}
	if err := w.PutU32(h.TriangleCount); err != nil {
		return err
	}
	if err := w.PutU32(h.UVMapCount); err != nil {
		return err
	}
	if err := w.PutU32(h.AttribMapCount); err != nil {
		return err
	}
	if err := w.PutU32(h.Flags); err != nil {
		return err
	}

	return w.PutString(h.Comment)
}

// ReadHeader parses the common header, validating the magic tag, version, and
// method, and the nonzero-count invariant from spec.md §3 and the §8 "decode
// a vertex_count=0 stream" scenario.
func ReadHeader(r *wire.Reader) (Header, error) {
	var h Header

	if err := r.FourCC(TagOCTM); err != nil {
		return h, err
	}

	version, err := r.U32()
	if err != nil {
		return h, err
	}
	if version != CurrentVersion {
		return h, errs.ErrUnsupportedFormatVersion
	}
	h.Version = version

	methodTag, err := r.ReadFourCC()
	if err != nil {
		return h, err
	}
	method, ok := format.MethodFromFourCC(methodTag)
	if !ok {
		return h, errs.ErrBadFormat
	}
	h.Method = method

	if h.VertexCount, err = r.U32(); err != nil {
		return h, err
	}
	if h.TriangleCount, err = r.U32(); err != nil {
		return h, err
	}
	if h.UVMapCount, err = r.U32(); err != nil {
		return h, err
	}
	if h.AttribMapCount, err = r.U32(); err != nil {
		return h, err
	}
	if h.Flags, err = r.U32(); err != nil {
		return h, err
	}
	if h.Comment, err = r.String(); err != nil {
		return h, err
	}

	if h.VertexCount == 0 || h.TriangleCount == 0 {
		return h, errs.ErrBadFormat
	}

	return h, nil
}
