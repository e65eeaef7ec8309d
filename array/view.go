// Package array implements the typed-array view (spec.md §4.1): a descriptor
// over caller-owned, strided memory of one of 8 numeric element types, with
// fixed normalization rules for converting to/from float. Every codec pass
// reads and writes mesh data exclusively through a View; the codec never
// copies a caller's vertex/index/normal/UV/attribute buffer into its own
// representation.
//
// The normalization constants in GetF/SetF are part of the wire ABI (spec.md
// §4.1): they determine what floats actually get written to a stream when a
// caller binds, say, an int16 vertex buffer, so any compliant implementation
// must reproduce them bit-exactly.
package array

import (
	"math"

	"github.com/octmgo/octm/errs"
	"github.com/octmgo/octm/format"
)

// View is a strided, element-type-aware window over caller-owned memory. It
// never copies base; it aliases it for the lifetime of the encode/decode call
// that uses it (spec.md §5).
type View struct {
	base       []byte
	elemType   format.ElementType
	components int
	stride     int // bytes between the start of consecutive elements
}

// requiredComponents returns the fixed component count a bind target allows
// (3 for indices, positions and normals, 2 for UV_MAP). ok is false for
// ATTRIB_MAP, where the caller supplies the count (1..4), and for unknown
// targets.
func requiredComponents(target format.Target) (fixed int, ok bool) {
	switch target {
	case format.TargetIndices, format.TargetPositions, format.TargetNormals:
		return 3, true
	case format.TargetUVMap:
		return 2, true
	case format.TargetAttribMap:
		return 0, false // 1..4, caller-chosen
	default:
		return 0, false
	}
}

// Bind validates and constructs a View over base. stride is in bytes; a
// stride of 0 means "tightly packed" and is computed as
// components * elemType.Size(). Invalid target/component/type combinations
// fail with errs.ErrInvalidArgument (spec.md §4.1).
func Bind(target format.Target, components int, elemType format.ElementType, stride int, base []byte) (View, error) {
	if elemType.Size() == 0 {
		return View{}, errs.ErrInvalidArgument
	}

	if fixed, ok := requiredComponents(target); ok {
		if components != fixed {
			return View{}, errs.ErrInvalidArgument
		}
	} else if target == format.TargetAttribMap {
		if components < 1 || components > 4 {
			return View{}, errs.ErrInvalidArgument
		}
	} else {
		return View{}, errs.ErrInvalidArgument
	}

	elemSize := components * elemType.Size()
	if stride == 0 {
		stride = elemSize
	}
	if stride < elemSize {
		return View{}, errs.ErrInvalidArgument
	}

	return View{base: base, elemType: elemType, components: components, stride: stride}, nil
}

// Components returns the per-element component count this view was bound
// with.
func (v View) Components() int { return v.components }

// ElementType returns the backing numeric type.
func (v View) ElementType() format.ElementType { return v.elemType }

func (v View) offset(element, component int) int {
	return element*v.stride + component*v.elemType.Size()
}

// GetI reads element e, component c as a saturating-converted unsigned
// integer, regardless of the backing type's signedness or width.
func (v View) GetI(e, c int) uint32 {
	off := v.offset(e, c)
	buf := v.base[off : off+v.elemType.Size()]

	switch v.elemType {
	case format.I8:
		return saturateU32(int64(int8(buf[0])))
	case format.U8:
		return uint32(buf[0])
	case format.I16:
		return saturateU32(int64(int16(le16(buf))))
	case format.U16:
		return uint32(le16(buf))
	case format.I32:
		return saturateU32(int64(int32(le32(buf))))
	case format.U32:
		return le32(buf)
	case format.F32:
		f := math.Float32frombits(le32(buf))

		return saturateU32(int64(f))
	case format.F64:
		f := math.Float64frombits(le64(buf))

		return saturateU32(int64(f))
	default:
		return 0
	}
}

// SetI writes v into element e, component c, saturating-casting into the
// backing numeric type.
func (v View) SetI(e, c int, val uint32) {
	off := v.offset(e, c)
	buf := v.base[off : off+v.elemType.Size()]

	switch v.elemType {
	case format.I8:
		buf[0] = byte(clampI64(int64(val), -128, 127))
	case format.U8:
		buf[0] = byte(clampU64(uint64(val), 255))
	case format.I16:
		putLE16(buf, uint16(clampI64(int64(val), -32768, 32767)))
	case format.U16:
		putLE16(buf, uint16(clampU64(uint64(val), 65535)))
	case format.I32:
		putLE32(buf, uint32(int32(clampI64(int64(val), -2147483648, 2147483647))))
	case format.U32:
		putLE32(buf, val)
	case format.F32:
		putLE32(buf, math.Float32bits(float32(val)))
	case format.F64:
		putLE64(buf, math.Float64bits(float64(val)))
	}
}

// GetF reads element e, component c as a float32, applying the ABI
// normalization rules: signed integer types are scaled to [-1,1] by their
// maximum magnitude (/127, /32767, ...), u8 is scaled to [0,1] by /255, wider
// unsigned types are cast as-is, and f32/f64 pass through.
func (v View) GetF(e, c int) float32 {
	off := v.offset(e, c)
	buf := v.base[off : off+v.elemType.Size()]

	switch v.elemType {
	case format.I8:
		return float32(int8(buf[0])) / 127
	case format.U8:
		return float32(buf[0]) / 255
	case format.I16:
		return float32(int16(le16(buf))) / 32767
	case format.U16:
		return float32(le16(buf))
	case format.I32:
		return float32(int32(le32(buf))) / 2147483647
	case format.U32:
		return float32(le32(buf))
	case format.F32:
		return math.Float32frombits(le32(buf))
	case format.F64:
		return float32(math.Float64frombits(le64(buf)))
	default:
		return 0
	}
}

// SetF writes val into element e, component c, applying the inverse of
// GetF's normalization, truncating on overflow.
func (v View) SetF(e, c int, val float32) {
	off := v.offset(e, c)
	buf := v.base[off : off+v.elemType.Size()]

	switch v.elemType {
	case format.I8:
		buf[0] = byte(int8(clampF32(val*127, -128, 127)))
	case format.U8:
		buf[0] = byte(uint8(clampF32(val*255, 0, 255)))
	case format.I16:
		putLE16(buf, uint16(int16(clampF32(val*32767, -32768, 32767))))
	case format.U16:
		putLE16(buf, uint16(clampF32(val, 0, 65535)))
	case format.I32:
		putLE32(buf, uint32(int32(math.Max(-2147483648, math.Min(2147483647, float64(val)*2147483647)))))
	case format.U32:
		putLE32(buf, uint32(clampF32(val, 0, 4294967295)))
	case format.F32:
		putLE32(buf, math.Float32bits(val))
	case format.F64:
		putLE64(buf, math.Float64bits(float64(val)))
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func le64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}

	return v
}
func putLE16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func putLE64(b []byte, v uint64) {
	for i := range 8 {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

func saturateU32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(v)
}

func clampI64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

func clampU64(v uint64, hi uint64) uint64 {
	if v > hi {
		return hi
	}

	return v
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
