package proto

import (
	"bytes"
	"testing"

	"github.com/olapdb/chconn/block"
	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestBlock(nRows int) block.Block {
	u64, _ := types.Parse("UInt64")
	vals := make([]types.LogicalValue, nRows)
	for i := range vals {
		vals[i] = types.LogicalValue{Kind: types.VUint, Uint: uint64(i)}
	}

	return block.Block{BucketNum: -1, Columns: []block.Column{{Name: "n", Type: u64, Values: vals}}}
}

func TestWriteBlockReadBlock_RoundTrip_None(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	b := makeTestBlock(3)
	require.NoError(t, writeBlock(w, b, compress.MethodNone))
	require.NoError(t, w.Flush())

	r := wire.NewReader(&buf)
	got, err := readBlock(r, compress.MethodNone)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NRows())
}

func TestWriteBlockReadBlock_RoundTrip_LZ4(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	b := makeTestBlock(100)
	require.NoError(t, writeBlock(w, b, compress.MethodLZ4))
	require.NoError(t, w.Flush())

	r := wire.NewReader(&buf)
	got, err := readBlock(r, compress.MethodLZ4)
	require.NoError(t, err)
	require.Len(t, got.Columns, 1)
	assert.Equal(t, 100, got.NRows())
	assert.Equal(t, uint64(42), got.Columns[0].Values[42].Uint)
}

func TestWriteBlockReadBlock_RoundTrip_Zstd(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	b := makeTestBlock(100)
	require.NoError(t, writeBlock(w, b, compress.MethodZstd))
	require.NoError(t, w.Flush())

	r := wire.NewReader(&buf)
	got, err := readBlock(r, compress.MethodZstd)
	require.NoError(t, err)
	assert.Equal(t, 100, got.NRows())
}

// TestWriteBlockReadBlock_SpansMultipleEnvelopes forces the block's encoded
// bytes past pool.PacketBufferDefaultSize, so writeBlock must split it
// across more than one compression envelope and readBlock must transparently
// walk all of them via envelopeReader.
func TestWriteBlockReadBlock_SpansMultipleEnvelopes(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	b := makeTestBlock(200000) // >1MiB of UInt64 values
	require.NoError(t, writeBlock(w, b, compress.MethodLZ4))
	require.NoError(t, w.Flush())

	r := wire.NewReader(&buf)
	got, err := readBlock(r, compress.MethodLZ4)
	require.NoError(t, err)
	assert.Equal(t, 200000, got.NRows())
	assert.Equal(t, uint64(199999), got.Columns[0].Values[199999].Uint)
}
