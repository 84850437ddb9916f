package wire

import (
	"bufio"
	"io"
	"math"

	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/endian"
)

// Reader wraps a buffered socket reader with the read_exact semantics §4.1
// requires: every read either returns exactly the requested bytes or fails.
type Reader struct {
	br     *bufio.Reader
	engine endian.EndianEngine
}

// NewReader wraps r in a Reader using the little-endian engine the wire
// protocol always uses; tests may substitute a big-endian engine to prove
// codecs don't hardcode byte order.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024), engine: endian.GetLittleEndianEngine()}
}

// ReadExact reads exactly n bytes or fails with cherr.KindIO /
// cherr.KindProtocol depending on whether the socket or the framing is at
// fault. The returned slice is freshly allocated on every call.
func (r *Reader) ReadExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, cherr.Wrap(cherr.KindProtocol, err, "short read, wanted %d bytes").WithReason("UnexpectedEof")
		}

		return nil, cherr.Wrap(cherr.KindIO, err, "read failed")
	}

	return buf, nil
}

// Uvarint reads one LEB128 unsigned varint a byte at a time (the stream
// doesn't know the encoded length in advance).
func (r *Reader) Uvarint(tag string) (uint64, error) {
	var v uint64
	var shift uint

	for i := 0; ; i++ {
		if i == maxVarintLen {
			return 0, cherr.New(cherr.KindProtocol, "%s: varint exceeds %d bytes", tag, maxVarintLen).WithReason("VarintOverflow")
		}

		b, err := r.br.ReadByte()
		if err != nil {
			return 0, cherr.Wrap(cherr.KindProtocol, err, "%s: varint truncated", tag).WithReason("UnexpectedEof")
		}

		if b < 0x80 {
			v |= uint64(b) << shift

			return v, nil
		}
		v |= uint64(b&0x7f) << shift
		shift += 7
	}
}

// String reads a varuint length followed by that many bytes (§4.1).
func (r *Reader) String() (string, error) {
	n, err := r.Uvarint("string length")
	if err != nil {
		return "", err
	}

	b, err := r.ReadExact(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Bool reads a single byte as a boolean, as block_info fields do.
func (r *Reader) Bool() (bool, error) {
	b, err := r.ReadExact(1)
	if err != nil {
		return false, err
	}

	return b[0] != 0, nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.ReadExact(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()

	return int8(v), err
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.ReadExact(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()

	return int16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.ReadExact(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()

	return int32(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.ReadExact(8)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()

	return int64(v), err
}

func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// UInt128 reads two little-endian uint64 halves, low half first (§4.1: wide
// Decimal backing).
func (r *Reader) UInt128() (UInt128, error) {
	lo, err := r.Uint64()
	if err != nil {
		return UInt128{}, err
	}
	hi, err := r.Uint64()
	if err != nil {
		return UInt128{}, err
	}

	return UInt128{Low: lo, High: hi}, nil
}

func (r *Reader) Int128() (Int128, error) {
	v, err := r.UInt128()

	return Int128(v), err
}

// UUID reads the wire form described in §4.1: two little-endian uint64
// halves, high half first, each half byte-reversed relative to the
// canonical text form.
func (r *Reader) UUID() (UUID, error) {
	b, err := r.ReadExact(16)
	if err != nil {
		return UUID{}, err
	}

	return uuidFromWire(b), nil
}

