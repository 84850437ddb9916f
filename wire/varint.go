package wire

import "github.com/olapdb/chconn/cherr"

// maxVarintLen bounds an unsigned LEB128 varint to 10 bytes, matching the
// protocol's own limit (§4.1): a well-formed varuint never needs more than
// 10 bytes to represent a 64-bit value.
const maxVarintLen = 10

// PutUvarint encodes v as unsigned LEB128 (7 bits per byte, MSB=continuation)
// into dst, returning the number of bytes written. dst must have room for at
// least maxVarintLen bytes.
func PutUvarint(dst []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		dst[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	dst[i] = byte(v)

	return i + 1
}

// AppendUvarint appends the LEB128 encoding of v to dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	var buf [maxVarintLen]byte
	n := PutUvarint(buf[:], v)

	return append(dst, buf[:n]...)
}

// Uvarint decodes an unsigned LEB128 varint from src, returning the value and
// the number of bytes consumed. It fails with cherr.KindProtocol if src ends
// before a terminating byte, or if decoding exceeds maxVarintLen bytes.
func Uvarint(src []byte) (uint64, int, error) {
	var v uint64
	var shift uint

	for i := 0; i < len(src); i++ {
		if i == maxVarintLen {
			return 0, 0, cherr.New(cherr.KindProtocol, "varint exceeds %d bytes", maxVarintLen).WithReason("VarintOverflow")
		}

		b := src[i]
		if b < 0x80 {
			v |= uint64(b) << shift

			return v, i + 1, nil
		}
		v |= uint64(b&0x7f) << shift
		shift += 7
	}

	return 0, 0, cherr.New(cherr.KindProtocol, "varint truncated").WithReason("UnexpectedEof")
}
