package column

import (
	"testing"
	"time"

	"github.com/olapdb/chconn/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLogical_Integers(t *testing.T) {
	ty, _ := types.Parse("Int32")
	lv, err := ToLogical(ty, int16(-5))
	require.NoError(t, err)
	assert.Equal(t, int64(-5), lv.Int)
}

func TestToLogical_BoolAsUInt8(t *testing.T) {
	ty, _ := types.Parse("UInt8")
	lv, err := ToLogical(ty, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), lv.Uint)
}

func TestToLogical_String(t *testing.T) {
	ty, _ := types.Parse("String")
	lv, err := ToLogical(ty, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", lv.Str)
}

func TestToLogical_Nullable(t *testing.T) {
	ty, _ := types.Parse("Nullable(String)")

	lv, err := ToLogical(ty, nil)
	require.NoError(t, err)
	assert.True(t, lv.IsNull())

	lv, err = ToLogical(ty, "present")
	require.NoError(t, err)
	assert.Equal(t, "present", lv.Str)
}

func TestToLogical_UUID(t *testing.T) {
	ty, _ := types.Parse("UUID")
	lv, err := ToLogical(ty, "f47ac10b-58cc-4372-a567-0e02b2c3d479")
	require.NoError(t, err)
	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", lv.UUID.String())
}

func TestToLogical_UUID_InvalidText(t *testing.T) {
	ty, _ := types.Parse("UUID")
	_, err := ToLogical(ty, "not-a-uuid")
	require.Error(t, err)
}

func TestToLogical_DateTime_FromTime(t *testing.T) {
	ty, _ := types.Parse("DateTime")
	tm := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	lv, err := ToLogical(ty, tm)
	require.NoError(t, err)
	assert.Equal(t, tm.Unix(), lv.Ticks)
}

func TestToLogical_Decimal_FromFloat(t *testing.T) {
	ty, _ := types.Parse("Decimal(9, 2)")
	lv, err := ToLogical(ty, 12.34)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), int64(lv.Decimal.Low))
}

func TestToLogical_Decimal_LossyRescaleErrors(t *testing.T) {
	ty, _ := types.Parse("Decimal(9, 2)")
	_, err := ToLogical(ty, 1.005)
	require.Error(t, err)
}

func TestToLogical_Enum_ByLabel(t *testing.T) {
	ty, _ := types.Parse("Enum8('a' = 1, 'b' = 2)")
	lv, err := ToLogical(ty, "b")
	require.NoError(t, err)
	assert.Equal(t, int32(2), lv.EnumValue)
}

func TestToLogical_Enum_UndeclaredLabelErrors(t *testing.T) {
	ty, _ := types.Parse("Enum8('a' = 1)")
	_, err := ToLogical(ty, "z")
	require.Error(t, err)
}

func TestToLogical_Array(t *testing.T) {
	ty, _ := types.Parse("Array(UInt64)")
	lv, err := ToLogical(ty, []any{uint64(1), uint64(2), uint64(3)})
	require.NoError(t, err)
	require.Len(t, lv.Array, 3)
	assert.Equal(t, uint64(2), lv.Array[1].Uint)
}

func TestToLogical_Tuple(t *testing.T) {
	ty, _ := types.Parse("Tuple(UInt64, String)")
	lv, err := ToLogical(ty, []any{uint64(9), "x"})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), lv.Tuple[0].Uint)
	assert.Equal(t, "x", lv.Tuple[1].Str)
}

func TestToLogical_Tuple_WrongArityErrors(t *testing.T) {
	ty, _ := types.Parse("Tuple(UInt64, String)")
	_, err := ToLogical(ty, []any{uint64(9)})
	require.Error(t, err)
}

func TestToLogical_Map(t *testing.T) {
	ty, _ := types.Parse("Map(String, UInt64)")
	lv, err := ToLogical(ty, map[any]any{"a": uint64(1)})
	require.NoError(t, err)
	require.Len(t, lv.Map, 1)
	assert.Equal(t, "a", lv.Map[0].Key.Str)
	assert.Equal(t, uint64(1), lv.Map[0].Value.Uint)
}

func TestFromLogical_RoundTripsThroughToLogical(t *testing.T) {
	ty, _ := types.Parse("Nullable(UInt32)")

	lv, err := ToLogical(ty, uint32(42))
	require.NoError(t, err)
	hv, err := FromLogical(ty, lv)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), hv)

	lv, err = ToLogical(ty, nil)
	require.NoError(t, err)
	hv, err = FromLogical(ty, lv)
	require.NoError(t, err)
	assert.Nil(t, hv)
}

func TestFromLogical_Array(t *testing.T) {
	ty, _ := types.Parse("Array(String)")
	lv := types.LogicalValue{Kind: types.VArray, Array: []types.LogicalValue{
		{Kind: types.VString, Str: "a"}, {Kind: types.VString, Str: "b"},
	}}
	hv, err := FromLogical(ty, lv)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, hv)
}
