// Package lzma is the narrow boundary around a generic LZMA-compatible range
// coder (spec.md §1, §9): compress(bytes, level) -> (props, payload) and its
// inverse. The container is agnostic to everything about the LZMA stream
// beyond the classic 1-byte-properties + 4-byte-dictionary-capacity +
// 8-byte-uncompressed-length header (spec.md §4.3) that this package's
// backing library, github.com/ulikunitz/xz/lzma, already writes in exactly
// that shape.
//
// level is OpenCTM's 0..9 compression-level knob; this package owns the
// (implementation-defined, per spec.md §4.3) mapping from level to dictionary
// capacity.
package lzma

import (
	"bytes"
	"io"

	"github.com/octmgo/octm/errs"
	"github.com/ulikunitz/xz/lzma"
)

// headerSize is the classic LZMA1 stream header: 1 properties byte + 4-byte
// little-endian dictionary capacity + 8-byte little-endian uncompressed size.
const headerSize = 13

// propsSize is the part of the header the container stores per spec.md §4.3's
// "5-byte properties header": the properties byte plus the dictionary
// capacity.
const propsSize = 5

// levelToDictCap maps a 0..9 compression level to an LZMA dictionary
// capacity, normalized to the nearest 2^n or 3*2^n the way the reference
// LZMA SDK's property normalization does (adapted from the dictionary-size
// derivation in the pack's CHD LZMA codec, which performs the same
// normalization from a target size).
func levelToDictCap(level int) int {
	if level < 0 {
		level = 0
	}
	if level > 9 {
		level = 9
	}

	// 1<<16 (64KiB) at level 0 up to 1<<25 (32MiB) at level 9.
	shift := uint(16 + level)

	return 1 << shift
}

// Compress encodes data at the given level and returns the 5-byte properties
// header (properties byte + little-endian dictionary capacity) and the
// compressed payload, with the classic header's own 8-byte length field
// stripped off (the caller is expected to store the uncompressed length
// itself, e.g. packed.WriteInts does).
func Compress(data []byte, level int) (props [propsSize]byte, payload []byte, err error) {
	cfg := lzma.WriterConfig{
		DictCap:      levelToDictCap(level),
		Size:         int64(len(data)),
		SizeInHeader: true,
		EOSMarker:    false,
	}

	var buf bytes.Buffer
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return props, nil, errs.ErrLZMAError
	}
	if _, err := w.Write(data); err != nil {
		return props, nil, errs.ErrLZMAError
	}
	if err := w.Close(); err != nil {
		return props, nil, errs.ErrLZMAError
	}

	raw := buf.Bytes()
	if len(raw) < headerSize {
		return props, nil, errs.ErrLZMAError
	}

	copy(props[:], raw[:propsSize])
	payload = append([]byte(nil), raw[headerSize:]...)

	return props, payload, nil
}

// Decompress reconstructs the classic 13-byte LZMA header from props and
// uncompressedLen, and decodes exactly uncompressedLen bytes from payload.
func Decompress(props [propsSize]byte, uncompressedLen int64, payload []byte) ([]byte, error) {
	if uncompressedLen < 0 {
		return nil, errs.ErrLZMAError
	}

	header := make([]byte, headerSize)
	copy(header[:propsSize], props[:])
	putUint64LE(header[propsSize:], uint64(uncompressedLen))

	full := make([]byte, 0, len(header)+len(payload))
	full = append(full, header...)
	full = append(full, payload...)

	r, err := lzma.NewReader(bytes.NewReader(full))
	if err != nil {
		return nil, errs.ErrLZMAError
	}

	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(r, out); err != nil && err != io.EOF {
		return nil, errs.ErrLZMAError
	}

	return out, nil
}

func putUint64LE(b []byte, v uint64) {
	for i := range 8 {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
