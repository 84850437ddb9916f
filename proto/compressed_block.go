package proto

import (
	"encoding/binary"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/internal/pool"
	"github.com/olapdb/chconn/wire"
)

// writeBlock sends b through w. When method is compress.MethodNone, b is
// written verbatim; otherwise its wire bytes are assembled in a pooled
// packet buffer and wrapped in one or more compression envelopes (§4.2:
// "every Data packet body... is replaced by a compression envelope"). A
// block larger than one packet buffer's worth is split across multiple
// envelopes, written back to back, matching §4.2's "a single Data packet
// body may contain multiple envelopes concatenated when large".
func writeBlock(w *wire.Writer, b block.Block, method compress.Method) error {
	if method == compress.MethodNone {
		return block.Encode(w, b)
	}

	buf := pool.GetPacketBuffer()
	defer pool.PutPacketBuffer(buf)

	bw := wire.NewWriter(buf)
	if err := block.Encode(bw, b); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	payload := buf.Bytes()
	for len(payload) > 0 {
		chunkLen := len(payload)
		if chunkLen > pool.PacketBufferDefaultSize {
			chunkLen = pool.PacketBufferDefaultSize
		}

		frame, err := EncodeFrame(method, payload[:chunkLen])
		if err != nil {
			return err
		}
		if err := w.WriteAll(frame); err != nil {
			return err
		}

		payload = payload[chunkLen:]
	}

	return nil
}

// readBlock reads one Block from r. When method is compress.MethodNone it
// reads the wire layout directly; otherwise it pulls as many compression
// envelopes off r as the block's own structure requires, decompressing
// each transparently via envelopeReader.
func readBlock(r *wire.Reader, method compress.Method) (block.Block, error) {
	if method == compress.MethodNone {
		return block.Decode(r)
	}

	return block.Decode(wire.NewReader(&envelopeReader{r: r}))
}

// envelopeReader presents the decompressed bytes of a sequence of back to
// back compression envelopes as a single io.Reader, pulling and
// decompressing the next envelope off r only once the current one is
// exhausted. block.Decode naturally stops asking for bytes once it has
// parsed a complete block, so a block spanning N envelopes is read in
// exactly N calls to fill, no outer envelope count needed.
type envelopeReader struct {
	r   *wire.Reader
	buf []byte
	pos int
}

func (er *envelopeReader) Read(p []byte) (int, error) {
	if er.pos >= len(er.buf) {
		if err := er.fill(); err != nil {
			return 0, err
		}
	}

	n := copy(p, er.buf[er.pos:])
	er.pos += n

	return n, nil
}

func (er *envelopeReader) fill() error {
	header, err := er.r.ReadExact(frameHeaderLen)
	if err != nil {
		return err
	}

	compressedSize := binary.LittleEndian.Uint32(header[17:21])
	total := 16 + int(compressedSize)
	remaining := total - frameHeaderLen
	if remaining < 0 {
		return cherr.New(cherr.KindProtocol, "frame compressed_size smaller than header").WithReason("SizeMismatch")
	}

	rest, err := er.r.ReadExact(remaining)
	if err != nil {
		return err
	}

	full := make([]byte, 0, total)
	full = append(full, header...)
	full = append(full, rest...)

	decoded, _, err := DecodeFrame(full)
	if err != nil {
		return err
	}

	er.buf = decoded
	er.pos = 0

	return nil
}
