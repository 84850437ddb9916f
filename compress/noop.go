package compress

// NoOpCompressor implements Method None (spec §4.2): the envelope is still
// checksummed, but the payload itself passes through untouched. Used when
// compression is negotiated off, or for packets too small to be worth it.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged. The returned slice aliases the input;
// callers must not mutate data afterward if they keep the result.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
