// Package proto implements the client/server packet state machine of
// spec §4.6: handshake, Query/Data response loop, INSERT phase, Ping/Reset,
// and Cancel-and-drain, plus the per-packet compression envelope of §4.2.
package proto

import (
	"encoding/binary"

	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/cityhash"
	"github.com/olapdb/chconn/compress"
)

// frameHeaderLen is the envelope header size: checksum(16) + method(1) +
// compressed_size(4) + uncompressed_size(4), per §4.2.
const frameHeaderLen = 16 + 1 + 4 + 4

// EncodeFrame wraps payload in one compression envelope using method.
// compressed_size counts bytes starting at the method byte (method + both
// size fields + the compressed payload); checksum covers everything from
// method to the end of the compressed payload.
func EncodeFrame(method compress.Method, payload []byte) ([]byte, error) {
	codec, err := compress.GetCodec(method)
	if err != nil {
		return nil, cherr.Wrap(cherr.KindCompression, err, "selecting codec for frame")
	}

	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, cherr.Wrap(cherr.KindCompression, err, "compressing frame payload")
	}

	body := make([]byte, 1+4+4+len(compressed))
	body[0] = byte(method)
	binary.LittleEndian.PutUint32(body[1:5], uint32(len(body)))
	binary.LittleEndian.PutUint32(body[5:9], uint32(len(payload)))
	copy(body[9:], compressed)

	sum := cityhash.Sum128(body).Bytes()

	out := make([]byte, 16+len(body))
	copy(out, sum[:])
	copy(out[16:], body)

	return out, nil
}

// DecodeFrame reads one compression envelope from the front of src,
// verifies its checksum and uncompressed size, and returns the decoded
// payload plus the number of bytes of src consumed.
func DecodeFrame(src []byte) (payload []byte, consumed int, err error) {
	if len(src) < frameHeaderLen {
		return nil, 0, cherr.New(cherr.KindIO, "frame header truncated: have %d bytes, need %d", len(src), frameHeaderLen)
	}

	wantChecksum := src[:16]
	method, parseErr := compress.ParseMethod(src[16])
	if parseErr != nil {
		return nil, 0, cherr.Wrap(cherr.KindProtocol, parseErr, "frame method byte")
	}

	compressedSize := binary.LittleEndian.Uint32(src[17:21])
	uncompressedSize := binary.LittleEndian.Uint32(src[21:25])

	total := 16 + int(compressedSize)
	if len(src) < total {
		return nil, 0, cherr.New(cherr.KindIO, "frame body truncated: have %d bytes, need %d", len(src), total)
	}

	body := src[16:total]
	gotChecksum := cityhash.Sum128(body).Bytes()
	if !bytesEqual(gotChecksum[:], wantChecksum) {
		return nil, 0, cherr.New(cherr.KindCompression, "frame checksum mismatch").WithReason("ChecksumMismatch")
	}

	codec, err := compress.GetCodec(method)
	if err != nil {
		return nil, 0, cherr.Wrap(cherr.KindCompression, err, "selecting codec for frame")
	}

	compressedPayload := body[9:]
	decoded, err := codec.Decompress(compressedPayload)
	if err != nil {
		return nil, 0, cherr.Wrap(cherr.KindCompression, err, "decompressing frame payload")
	}
	if uint32(len(decoded)) != uncompressedSize {
		return nil, 0, cherr.New(cherr.KindCompression, "frame uncompressed size mismatch: declared %d, got %d", uncompressedSize, len(decoded)).WithReason("SizeMismatch")
	}

	return decoded, total, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
