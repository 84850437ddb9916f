package compress

// ZstdCompressor implements Method Zstd (spec §4.2). It favors compression
// ratio over speed, making it the better default for INSERT-heavy workloads
// where bandwidth dominates over per-packet latency.
//
// The Compress/Decompress methods live in zstd_pure.go (pure Go,
// klauspost/compress/zstd, default build) or zstd_cgo.go (cgo via
// valyala/gozstd, opt-in via a build tag that is never set by default).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
