// Package wire implements the container's primitive on-disk framing: the
// blocking read/write callback adapter, little-endian u32/f32, length-prefixed
// strings, and FOURCC tags (spec.md §4.2).
package wire

import (
	"math"

	"github.com/octmgo/octm/endian"
	"github.com/octmgo/octm/errs"
)

// ReadFunc is the caller-supplied blocking read callback: it must block until
// either n bytes have been read into buf or the stream is exhausted, returning
// the actual count read. A short count (n < len(buf)) with no error is treated
// the same as an error: end-of-stream.
type ReadFunc func(buf []byte) (n int, err error)

// WriteFunc is the caller-supplied blocking write callback, with the same
// short-count-is-failure contract as ReadFunc.
type WriteFunc func(buf []byte) (n int, err error)

// Reader sequences primitive reads over a ReadFunc, surfacing any short count
// or I/O error as errs.ErrFileError.
type Reader struct {
	read ReadFunc
}

// NewReader wraps a caller's read callback.
func NewReader(read ReadFunc) *Reader {
	return &Reader{read: read}
}

// Read fills buf completely or returns errs.ErrFileError.
func (r *Reader) Read(buf []byte) error {
	n, err := r.read(buf)
	if err != nil || n != len(buf) {
		return errs.ErrFileError
	}

	return nil
}

// U32 reads one little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	var b [4]byte
	if err := r.Read(b[:]); err != nil {
		return 0, err
	}

	return endian.Wire.Uint32(b[:]), nil
}

// F32 reads one IEEE-754 binary32 float.
func (r *Reader) F32() (float32, error) {
	bits, err := r.U32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(bits), nil
}

// String reads a u32 byte-length followed by that many UTF-8 bytes. Empty
// strings (length 0) are legal and return "".
func (r *Reader) String() (string, error) {
	n, err := r.U32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	buf := make([]byte, n)
	if err := r.Read(buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// FourCC reads a four-byte tag and reports whether it matches want.
func (r *Reader) FourCC(want [4]byte) error {
	var got [4]byte
	if err := r.Read(got[:]); err != nil {
		return err
	}
	if got != want {
		return errs.ErrBadFormat
	}

	return nil
}

// ReadFourCC reads a four-byte tag without comparing it against an expected
// value, for call sites that need to branch on the tag (e.g. the method tag
// in the common header, or a decoder that must reject an unexpected section
// tag with errs.ErrBadFormat itself).
func (r *Reader) ReadFourCC() ([4]byte, error) {
	var got [4]byte
	if err := r.Read(got[:]); err != nil {
		return got, err
	}

	return got, nil
}

// Writer sequences primitive writes over a WriteFunc, surfacing any short
// count or I/O error as errs.ErrFileError.
type Writer struct {
	write WriteFunc
}

// NewWriter wraps a caller's write callback.
func NewWriter(write WriteFunc) *Writer {
	return &Writer{write: write}
}

// Write emits buf completely or returns errs.ErrFileError.
func (w *Writer) Write(buf []byte) error {
	n, err := w.write(buf)
	if err != nil || n != len(buf) {
		return errs.ErrFileError
	}

	return nil
}

// PutU32 writes one little-endian uint32.
func (w *Writer) PutU32(v uint32) error {
	var b [4]byte
	endian.Wire.PutUint32(b[:], v)

	return w.Write(b[:])
}

// PutF32 writes one IEEE-754 binary32 float.
func (w *Writer) PutF32(v float32) error {
	return w.PutU32(math.Float32bits(v))
}

// PutString writes a u32 byte-length followed by the UTF-8 bytes of s.
func (w *Writer) PutString(s string) error {
	if err := w.PutU32(uint32(len(s))); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}

	return w.Write([]byte(s))
}

// PutFourCC writes the four-byte tag as-is.
func (w *Writer) PutFourCC(tag [4]byte) error {
	return w.Write(tag[:])
}

// FourCC builds a four-character tag from an ASCII string of exactly 4 bytes
// (the last byte is the conventional NUL terminator for 3-letter method
// names like "RAW\x00").
func FourCC(s string) [4]byte {
	var tag [4]byte
	copy(tag[:], s)

	return tag
}
