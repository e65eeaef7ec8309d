// Package endian provides the single little-endian engine every wire
// primitive is written with, plus host byte-order detection.
//
// OpenCTM's wire format has no endianness flag: every multi-byte primitive is
// little-endian, full stop (spec.md §4.2). So unlike a format that lets a
// caller pick an engine per stream, this package exposes exactly one wire
// engine. The host-endianness helpers are not used by the other packages:
// package array assembles every multi-byte value byte by byte, whatever the
// host order.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface, matching binary.LittleEndian's method set.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Wire is the one engine every on-disk primitive is encoded with.
var Wire Engine = binary.LittleEndian

// CheckEndianness uses a fixed integer value to determine the host's byte
// order, without relying on build constraints or unsafe struct layouts beyond
// a single pointer reinterpretation.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}
