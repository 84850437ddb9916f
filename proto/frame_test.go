package proto

import (
	"testing"

	"github.com/olapdb/chconn/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_RoundTrip_None(t *testing.T) {
	payload := []byte("hello, columnar world")
	frame, err := EncodeFrame(compress.MethodNone, payload)
	require.NoError(t, err)

	got, consumed, err := DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, len(frame), consumed)
	assert.Equal(t, payload, got)
}

func TestFrame_RoundTrip_LZ4(t *testing.T) {
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i % 7)
	}

	frame, err := EncodeFrame(compress.MethodLZ4, payload)
	require.NoError(t, err)

	got, _, err := DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrame_RoundTrip_Zstd(t *testing.T) {
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i % 13)
	}

	frame, err := EncodeFrame(compress.MethodZstd, payload)
	require.NoError(t, err)

	got, _, err := DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrame_DecodeFrame_ChecksumMismatch(t *testing.T) {
	frame, err := EncodeFrame(compress.MethodNone, []byte("data"))
	require.NoError(t, err)

	frame[0] ^= 0xFF // corrupt checksum

	_, _, err = DecodeFrame(frame)
	require.Error(t, err)
}

func TestFrame_DecodeFrame_TruncatedHeader(t *testing.T) {
	_, _, err := DecodeFrame([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestFrame_MultipleEnvelopesConcatenated(t *testing.T) {
	a, err := EncodeFrame(compress.MethodNone, []byte("first"))
	require.NoError(t, err)
	b, err := EncodeFrame(compress.MethodLZ4, []byte("second-payload"))
	require.NoError(t, err)

	combined := append(append([]byte{}, a...), b...)

	got1, n1, err := DecodeFrame(combined)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got1))

	got2, _, err := DecodeFrame(combined[n1:])
	require.NoError(t, err)
	assert.Equal(t, "second-payload", string(got2))
}
