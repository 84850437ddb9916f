package wire

import (
	"bufio"
	"io"
	"math"

	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/endian"
)

// Writer wraps a buffered socket writer with the write_all semantics §4.1
// requires: a short write is always retried until the buffer is exhausted
// or an error occurs, never surfaced to the caller as partial.
type Writer struct {
	bw     *bufio.Writer
	engine endian.EndianEngine
	scratch [8]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, 64*1024), engine: endian.GetLittleEndianEngine()}
}

// WriteAll writes b in full, retrying on short writes at the bufio layer;
// bufio.Writer.Write already loops internally, so this just maps the error.
func (w *Writer) WriteAll(b []byte) error {
	if _, err := w.bw.Write(b); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "write failed")
	}

	return nil
}

// Flush pushes buffered bytes to the underlying connection. Callers must
// call this once a full packet has been written.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return cherr.Wrap(cherr.KindIO, err, "flush failed")
	}

	return nil
}

func (w *Writer) Uvarint(v uint64) error {
	var buf [maxVarintLen]byte
	n := PutUvarint(buf[:], v)

	return w.WriteAll(buf[:n])
}

func (w *Writer) String(s string) error {
	if err := w.Uvarint(uint64(len(s))); err != nil {
		return err
	}

	return w.WriteAll([]byte(s))
}

func (w *Writer) Bool(b bool) error {
	if b {
		return w.WriteAll([]byte{1})
	}

	return w.WriteAll([]byte{0})
}

func (w *Writer) Uint8(v uint8) error {
	return w.WriteAll([]byte{v})
}

func (w *Writer) Int8(v int8) error {
	return w.Uint8(uint8(v))
}

func (w *Writer) Uint16(v uint16) error {
	w.engine.PutUint16(w.scratch[:2], v)

	return w.WriteAll(w.scratch[:2])
}

func (w *Writer) Int16(v int16) error {
	return w.Uint16(uint16(v))
}

func (w *Writer) Uint32(v uint32) error {
	w.engine.PutUint32(w.scratch[:4], v)

	return w.WriteAll(w.scratch[:4])
}

func (w *Writer) Int32(v int32) error {
	return w.Uint32(uint32(v))
}

func (w *Writer) Uint64(v uint64) error {
	w.engine.PutUint64(w.scratch[:8], v)

	return w.WriteAll(w.scratch[:8])
}

func (w *Writer) Int64(v int64) error {
	return w.Uint64(uint64(v))
}

func (w *Writer) Float32(v float32) error {
	return w.Uint32(math.Float32bits(v))
}

func (w *Writer) Float64(v float64) error {
	return w.Uint64(math.Float64bits(v))
}

// UInt128 writes two little-endian uint64 halves, low half first.
func (w *Writer) UInt128(v UInt128) error {
	if err := w.Uint64(v.Low); err != nil {
		return err
	}

	return w.Uint64(v.High)
}

func (w *Writer) Int128(v Int128) error {
	return w.UInt128(UInt128(v))
}

// UUID writes the wire form: two little-endian uint64 halves, high half
// first, each byte-reversed relative to canonical text (§4.1).
func (w *Writer) UUID(u UUID) error {
	return w.WriteAll(uuidToWire(u))
}
