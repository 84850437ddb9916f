package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderWriter_FixedWidthRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Uint8(0xAB))
	require.NoError(t, w.Int8(-5))
	require.NoError(t, w.Uint16(0xBEEF))
	require.NoError(t, w.Int16(-1000))
	require.NoError(t, w.Uint32(0xDEADBEEF))
	require.NoError(t, w.Int32(-70000))
	require.NoError(t, w.Uint64(0x0123456789ABCDEF))
	require.NoError(t, w.Int64(-1))
	require.NoError(t, w.Float32(3.5))
	require.NoError(t, w.Float64(2.71828))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)

	u8, err := r.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	i8, err := r.Int8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)

	u16, err := r.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	i16, err := r.Int16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1000), i16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	i32, err := r.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-70000), i32)

	u64, err := r.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789ABCDEF), u64)

	i64, err := r.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i64)

	f32, err := r.Float32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := r.Float64()
	require.NoError(t, err)
	assert.Equal(t, 2.71828, f64)
}

func TestReaderWriter_StringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.String("hello, native protocol"))
	require.NoError(t, w.String(""))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	s1, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "hello, native protocol", s1)

	s2, err := r.String()
	require.NoError(t, err)
	assert.Equal(t, "", s2)
}

func TestReaderWriter_BoolRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Bool(true))
	require.NoError(t, w.Bool(false))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	b1, err := r.Bool()
	require.NoError(t, err)
	assert.True(t, b1)

	b2, err := r.Bool()
	require.NoError(t, err)
	assert.False(t, b2)
}

func TestReaderWriter_UInt128RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	v := UInt128{Low: 0x1122334455667788, High: 0x99AABBCCDDEEFF00}
	require.NoError(t, w.UInt128(v))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	got, err := r.UInt128()
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestReaderWriter_UUIDRoundTrip(t *testing.T) {
	want, err := ParseUUID("f47ac10b-58cc-4372-a567-0e02b2c3d479")
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.UUID(want))
	require.NoError(t, w.Flush())

	r := NewReader(&buf)
	got, err := r.UUID()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", got.String())
}

func TestUuidWireReversal(t *testing.T) {
	u, err := ParseUUID("00112233-4455-6677-8899-aabbccddeeff")
	require.NoError(t, err)

	wire := uuidToWire(u)
	// High half (canonical bytes 0-7) comes first, byte-reversed.
	assert.Equal(t, []byte{0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00}, wire[0:8])
	// Low half (canonical bytes 8-15) comes second, byte-reversed.
	assert.Equal(t, []byte{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa, 0x99, 0x88}, wire[8:16])

	assert.Equal(t, u, uuidFromWire(wire))
}

func TestReader_ReadExact_ShortRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	_, err := r.ReadExact(5)
	require.Error(t, err)
}
