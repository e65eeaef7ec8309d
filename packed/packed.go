// Package packed implements the LZMA packed-array codec (spec.md §4.3): byte
// interleaving across an array of fixed-width ints or floats, then LZMA
// compression, with a self-describing wire frame on top.
//
// Wire shape of one packed block:
//
//	u32 payloadLength        // length in bytes of the LZMA payload that follows
//	u8[5] lzmaProps          // properties byte + little-endian dictionary capacity
//	u64 uncompressedLength   // byte length of the interleaved (pre-LZMA) data
//	u8[payloadLength] lzmaPayload
package packed

import (
	"math"

	"github.com/octmgo/octm/endian"
	"github.com/octmgo/octm/errs"
	"github.com/octmgo/octm/internal/pool"
	"github.com/octmgo/octm/lzma"
	"github.com/octmgo/octm/wire"
)

// WriteInts packs count*size int32 values arranged as `size` interleaved
// component streams (component 0 for all count elements, then component 1,
// ...), each stream serialized as 4-byte little-endian two's-complement, and
// LZMA-compresses the concatenation. There is no signedness parameter: a
// caller that stores unsigned values passes them as int32, since the wire
// bytes for a given 32-bit pattern are the same either way (spec.md §4.3: "the four bytes of an i32 v are stored as
// v&0xff, (v>>8)&0xff, (v>>16)&0xff, (v>>24)&0xff").
func WriteInts(w *wire.Writer, data []int32, count, size int, level int) error {
	if count*size != len(data) {
		return errs.ErrInvalidArgument
	}

	bb := pool.GetSectionBuffer()
	defer pool.PutSectionBuffer(bb)
	bb.Grow(len(data) * 4)

	for c := 0; c < size; c++ {
		for i := 0; i < count; i++ {
			v := uint32(data[i*size+c])
			bb.B = endian.Wire.AppendUint32(bb.B, v)
		}
	}

	return writeBlock(w, bb.Bytes(), level)
}

// ReadInts is the inverse of WriteInts: it decompresses and de-interleaves
// count*size int32 values back into row-major order (element i, component c
// at data[i*size+c]).
func ReadInts(r *wire.Reader, count, size int) ([]int32, error) {
	raw, err := readBlock(r)
	if err != nil {
		return nil, err
	}
	if len(raw) != count*size*4 {
		return nil, errs.ErrBadFormat
	}

	out := make([]int32, count*size)
	idx := 0
	for c := 0; c < size; c++ {
		for i := 0; i < count; i++ {
			v := endian.Wire.Uint32(raw[idx*4 : idx*4+4])
			out[i*size+c] = int32(v)
			idx++
		}
	}

	return out, nil
}

// WriteFloats packs count*size float32 values with the byte-plane interleave
// spec.md §4.3 describes: across the full block, all byte-0s, then all
// byte-1s, then byte-2s, then byte-3s of each float's IEEE-754 bit pattern.
// This groups exponent bytes together and sign/high-mantissa bytes together,
// which is what makes LZMA effective on float payloads.
func WriteFloats(w *wire.Writer, data []float32, count, size int, level int) error {
	if count*size != len(data) {
		return errs.ErrInvalidArgument
	}

	n := len(data)

	bb := pool.GetSectionBuffer()
	defer pool.PutSectionBuffer(bb)
	bb.Grow(n * 4)
	bb.SetLength(n * 4)

	for i, f := range data {
		bits := math.Float32bits(f)
		bb.B[i] = byte(bits)
		bb.B[n+i] = byte(bits >> 8)
		bb.B[2*n+i] = byte(bits >> 16)
		bb.B[3*n+i] = byte(bits >> 24)
	}

	return writeBlock(w, bb.Bytes(), level)
}

// ReadFloats is the inverse of WriteFloats.
func ReadFloats(r *wire.Reader, count, size int) ([]float32, error) {
	raw, err := readBlock(r)
	if err != nil {
		return nil, err
	}

	n := count * size
	if len(raw) != n*4 {
		return nil, errs.ErrBadFormat
	}

	out := make([]float32, n)
	for i := range out {
		bits := uint32(raw[i]) | uint32(raw[n+i])<<8 | uint32(raw[2*n+i])<<16 | uint32(raw[3*n+i])<<24
		out[i] = math.Float32frombits(bits)
	}

	return out, nil
}

func writeBlock(w *wire.Writer, raw []byte, level int) error {
	props, payload, err := lzma.Compress(raw, level)
	if err != nil {
		return err
	}

	if err := w.PutU32(uint32(len(payload))); err != nil {
		return err
	}
	if err := w.Write(props[:]); err != nil {
		return err
	}
	if err := w.Write(uint64LEBytes(uint64(len(raw)))); err != nil {
		return err
	}

	return w.Write(payload)
}

func readBlock(r *wire.Reader) ([]byte, error) {
	payloadLen, err := r.U32()
	if err != nil {
		return nil, err
	}

	var props [5]byte
	if err := r.Read(props[:]); err != nil {
		return nil, err
	}

	var lenBuf [8]byte
	if err := r.Read(lenBuf[:]); err != nil {
		return nil, err
	}
	uncompressedLen := uint64LE(lenBuf[:])

	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if err := r.Read(payload); err != nil {
			return nil, err
		}
	}

	raw, err := lzma.Decompress(props, int64(uncompressedLen), payload)
	if err != nil {
		return nil, err
	}

	return raw, nil
}

func uint64LEBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := range 8 {
		b[i] = byte(v >> (8 * uint(i)))
	}

	return b
}

func uint64LE(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}

	return v
}
