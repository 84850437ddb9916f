package wire

import "github.com/google/uuid"

// UInt128 is an unsigned 128-bit integer as two 64-bit halves, the layout
// wide Decimal columns use on the wire (low half first, §4.1).
type UInt128 struct {
	Low, High uint64
}

// Int128 shares UInt128's layout; sign lives in the top bit of High.
type Int128 UInt128

// UUID holds the 16 raw bytes of a column's UUID value in host byte order
// (not the wire's byte-reversed halves — that transform happens only in
// Reader.UUID/Writer.UUID). Text parsing/formatting delegates to
// github.com/google/uuid, which owns the canonical dashed-hex form; chconn
// owns only the wire layout, which that package has no notion of.
type UUID [16]byte

// ParseUUID parses the canonical dash-separated hex form (§4.8).
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}

	return UUID(u), nil
}

// String formats u in canonical dash-separated hex form.
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// uuidToWire writes the high half (canonical bytes 0-7) first, then the low
// half (canonical bytes 8-15), each half byte-reversed (§4.1).
func uuidToWire(u UUID) []byte {
	out := make([]byte, 16)
	for i := 0; i < 8; i++ {
		out[i] = u[7-i]
	}
	for i := 0; i < 8; i++ {
		out[8+i] = u[15-i]
	}

	return out
}

// uuidFromWire is uuidToWire's inverse.
func uuidFromWire(b []byte) UUID {
	var u UUID
	for i := 0; i < 8; i++ {
		u[7-i] = b[i]
	}
	for i := 0; i < 8; i++ {
		u[15-i] = b[8+i]
	}

	return u
}
