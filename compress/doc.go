// Package compress implements the block compressors behind the compression
// envelope used by Data packets (spec §4.2): the compress step on write and
// the decompress step on read.
//
// Three methods are wire-visible: None (0x02), LZ4 (0x82), and Zstd (0x90).
// The envelope format itself — checksum, method byte, compressed/uncompressed
// sizes — lives in the proto package, which calls into a Codec obtained here
// via CreateCodec/GetCodec. This package only owns the byte-for-byte
// compress/decompress step; it has no knowledge of the checksum or the
// envelope's field layout.
//
// # Algorithms
//
// None (compress.MethodNone) is a verbatim copy, used when compression is
// negotiated off or for payloads not worth compressing.
//
// LZ4 (compress.MethodLZ4) favors fast decompression over ratio — the
// default for query-heavy workloads where the client decompresses far more
// often than it compresses.
//
// Zstd (compress.MethodZstd) favors ratio over speed — better for bulk
// INSERT workloads where bandwidth matters more than per-packet latency. The
// default build uses klauspost/compress/zstd (pure Go, always available);
// an optional cgo path through valyala/gozstd exists behind a build tag for
// deployments that can pay the cgo cost for extra speed, but is not compiled
// by default.
package compress
