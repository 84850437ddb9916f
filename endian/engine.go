// Package endian provides the byte-order engine used by wire to encode and
// decode fixed-width protocol fields.
//
// The native protocol is little-endian only, but the engine is kept
// pluggable (rather than hardcoding binary.LittleEndian calls throughout
// wire) so the framing and column codecs can be exercised against a
// big-endian engine in tests without touching call sites.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface, satisfied by binary.LittleEndian and
// binary.BigEndian without any wrapper type.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host's native byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host's native byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine. The wire protocol
// always uses this one; GetBigEndianEngine exists only so tests can assert
// wire's codecs are not hardcoded to a specific byte order.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
