package wire

import (
	"testing"

	"github.com/olapdb/chconn/cherr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUvarint_RoundTrip(t *testing.T) {
	tests := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, ^uint64(0)}

	for _, v := range tests {
		buf := AppendUvarint(nil, v)
		got, n, err := Uvarint(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestUvarint_Truncated(t *testing.T) {
	_, _, err := Uvarint([]byte{0x80})
	require.Error(t, err)
	assert.True(t, cherr.Is(err, cherr.KindProtocol))
}

func TestUvarint_Overflow(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	_, _, err := Uvarint(buf)
	require.Error(t, err)
	assert.True(t, cherr.Is(err, cherr.KindProtocol))
}

func TestPutUvarint_SingleByteForSmallValues(t *testing.T) {
	var buf [maxVarintLen]byte
	n := PutUvarint(buf[:], 42)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(42), buf[0])
}
