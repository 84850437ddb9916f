package compress

import "fmt"

// Method identifies a compression algorithm by its wire byte (spec §4.2,
// §6). The value appears literally in a Data packet's compression envelope.
type Method byte

const (
	MethodNone Method = 0x02
	MethodLZ4  Method = 0x82
	MethodZstd Method = 0x90
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "None"
	case MethodLZ4:
		return "LZ4"
	case MethodZstd:
		return "Zstd"
	default:
		return fmt.Sprintf("Method(0x%02x)", byte(m))
	}
}

// Compressor compresses a byte buffer for one compression envelope.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a byte buffer previously produced by the
// matching Compressor. Returns an error if data is corrupted or was
// compressed with a different method.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one compression method.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats reports the outcome of one compress or decompress call,
// useful for logging and for choosing a method on subsequent packets.
type CompressionStats struct {
	Algorithm           Method
	OriginalSize        int64
	CompressedSize      int64
	Ratio               float64
	CompressionTimeNs   int64
	DecompressionTimeNs int64
}

// CompressionRatio returns CompressedSize / OriginalSize. Values below 1.0
// indicate the envelope shrank the payload.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage (0-100).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

var builtinCodecs = map[Method]Codec{
	MethodNone: NewNoOpCompressor(),
	MethodZstd: NewZstdCompressor(),
	MethodLZ4:  NewLZ4Compressor(),
}

// CreateCodec is a factory for the Codec matching method. target names the
// call site for error messages (e.g. "query compression", "insert block").
func CreateCodec(method Method, target string) (Codec, error) {
	codec, ok := builtinCodecs[method]
	if !ok {
		return nil, fmt.Errorf("compress: invalid %s method %s", target, method)
	}

	return codec, nil
}

// GetCodec retrieves the built-in Codec for method.
func GetCodec(method Method) (Codec, error) {
	if codec, ok := builtinCodecs[method]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("compress: unsupported method %s", method)
}

// ParseMethod validates a method byte read off a compression envelope.
func ParseMethod(b byte) (Method, error) {
	m := Method(b)
	if _, ok := builtinCodecs[m]; !ok {
		return 0, fmt.Errorf("compress: unknown envelope method byte 0x%02x", b)
	}

	return m, nil
}
