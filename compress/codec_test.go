package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethod_String(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		want   string
	}{
		{"none", MethodNone, "None"},
		{"lz4", MethodLZ4, "LZ4"},
		{"zstd", MethodZstd, "Zstd"},
		{"unknown", Method(0x01), "Method(0x01)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.String())
		})
	}
}

func TestGetCodec(t *testing.T) {
	for _, m := range []Method{MethodNone, MethodLZ4, MethodZstd} {
		codec, err := GetCodec(m)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(Method(0xff))
	assert.Error(t, err)
}

func TestCreateCodec(t *testing.T) {
	codec, err := CreateCodec(MethodLZ4, "query compression")
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = CreateCodec(Method(0x01), "query compression")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query compression")
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(0x90)
	require.NoError(t, err)
	assert.Equal(t, MethodZstd, m)

	_, err = ParseMethod(0x00)
	assert.Error(t, err)
}

func TestCodecs_RoundTrip(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog, repeated for a more realistic block payload; the quick brown fox jumps over the lazy dog")

	for _, m := range []Method{MethodNone, MethodLZ4, MethodZstd} {
		t.Run(m.String(), func(t *testing.T) {
			codec, err := GetCodec(m)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, decompressed)
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, m := range []Method{MethodLZ4, MethodZstd} {
		t.Run(m.String(), func(t *testing.T) {
			codec, err := GetCodec(m)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Empty(t, decompressed)
		})
	}
}

func TestCompressionStats(t *testing.T) {
	stats := CompressionStats{Algorithm: MethodZstd, OriginalSize: 1000, CompressedSize: 250}
	assert.InDelta(t, 0.25, stats.CompressionRatio(), 0.0001)
	assert.InDelta(t, 75.0, stats.SpaceSavings(), 0.0001)

	zero := CompressionStats{}
	assert.Equal(t, 0.0, zero.CompressionRatio())
}
