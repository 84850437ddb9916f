package column

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

func init() {
	register(types.KindUInt8, uintCodec{width: 1})
	register(types.KindUInt16, uintCodec{width: 2})
	register(types.KindUInt32, uintCodec{width: 4})
	register(types.KindUInt64, uintCodec{width: 8})
	register(types.KindInt8, intCodec{width: 1})
	register(types.KindInt16, intCodec{width: 2})
	register(types.KindInt32, intCodec{width: 4})
	register(types.KindInt64, intCodec{width: 8})
	register(types.KindUInt128, uint128Codec{})
	register(types.KindInt128, int128Codec{})
	register(types.KindFloat32, float32Codec{})
	register(types.KindFloat64, float64Codec{})
	register(types.KindDate, dateCodec{})
	register(types.KindDateTime, dateTimeCodec{})
	register(types.KindDateTime64, dateTime64Codec{})
	register(types.KindDecimal, decimalCodec{})
	register(types.KindEnum8, enumCodec{width: 1})
	register(types.KindEnum16, enumCodec{width: 2})
	register(types.KindUUID, uuidCodec{})
}

// uintCodec handles UInt8/16/32/64: n * sizeof(T) contiguous bytes (§4.4).
type uintCodec struct{ width int }

func (c uintCodec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := writeUintWidth(w, c.width, v.Uint); err != nil {
			return err
		}
	}

	return nil
}

func (c uintCodec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := readUintWidth(r, c.width)
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VUint, Uint: v}
	}

	return out, nil
}

type intCodec struct{ width int }

func (c intCodec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := writeUintWidth(w, c.width, uint64(v.Int)); err != nil {
			return err
		}
	}

	return nil
}

func (c intCodec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := readUintWidth(r, c.width)
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VInt, Int: int64(signExtend(v, c.width))}
	}

	return out, nil
}

func writeUintWidth(w *wire.Writer, width int, v uint64) error {
	switch width {
	case 1:
		return w.Uint8(uint8(v))
	case 2:
		return w.Uint16(uint16(v))
	case 4:
		return w.Uint32(uint32(v))
	case 8:
		return w.Uint64(v)
	default:
		return cherr.New(cherr.KindProtocol, "unsupported integer width %d", width)
	}
}

func readUintWidth(r *wire.Reader, width int) (uint64, error) {
	switch width {
	case 1:
		v, err := r.Uint8()
		return uint64(v), err
	case 2:
		v, err := r.Uint16()
		return uint64(v), err
	case 4:
		v, err := r.Uint32()
		return uint64(v), err
	case 8:
		return r.Uint64()
	default:
		return 0, cherr.New(cherr.KindProtocol, "unsupported integer width %d", width)
	}
}

func signExtend(v uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return int64(v)
	}
}

type uint128Codec struct{}

func (c uint128Codec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Int128(v.Decimal); err != nil {
			return err
		}
	}

	return nil
}

func (c uint128Codec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Int128()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VUint, Decimal: v}
	}

	return out, nil
}

type int128Codec struct{}

func (c int128Codec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Int128(v.Decimal); err != nil {
			return err
		}
	}

	return nil
}

func (c int128Codec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Int128()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VInt, Decimal: v}
	}

	return out, nil
}

type float32Codec struct{}

func (c float32Codec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Float32(float32(v.Float)); err != nil {
			return err
		}
	}

	return nil
}

func (c float32Codec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Float32()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VFloat, Float: float64(v)}
	}

	return out, nil
}

type float64Codec struct{}

func (c float64Codec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Float64(v.Float); err != nil {
			return err
		}
	}

	return nil
}

func (c float64Codec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Float64()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VFloat, Float: v}
	}

	return out, nil
}

// dateCodec: Date = UInt16 of days since 1970-01-01 (§4.4).
type dateCodec struct{}

func (c dateCodec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Uint16(uint16(v.Ticks)); err != nil {
			return err
		}
	}

	return nil
}

func (c dateCodec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VDate, Ticks: int64(v)}
	}

	return out, nil
}

// dateTimeCodec: DateTime = UInt32 seconds since epoch (§4.4).
type dateTimeCodec struct{}

func (c dateTimeCodec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Uint32(uint32(v.Ticks)); err != nil {
			return err
		}
	}

	return nil
}

func (c dateTimeCodec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VDateTime, Ticks: int64(v)}
	}

	return out, nil
}

// dateTime64Codec: n * int64 ticks; scale lives only in the Type (§4.4).
type dateTime64Codec struct{}

func (c dateTime64Codec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Int64(v.Ticks); err != nil {
			return err
		}
	}

	return nil
}

func (c dateTime64Codec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.Int64()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VDateTime64, Ticks: v}
	}

	return out, nil
}

// decimalCodec: n * (4|8|16) signed two's complement bytes, width chosen by
// precision (§4.3, §4.4).
type decimalCodec struct{}

func (c decimalCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	width := types.DecimalWidth(t.Precision)
	for _, v := range vals {
		switch width {
		case 4:
			if err := w.Int32(int32(v.Decimal.Low)); err != nil {
				return err
			}
		case 8:
			if err := w.Int64(int64(v.Decimal.Low)); err != nil {
				return err
			}
		default:
			if err := w.Int128(v.Decimal); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c decimalCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	width := types.DecimalWidth(t.Precision)
	out := make([]types.LogicalValue, n)
	for i := range out {
		var dec wire.Int128
		switch width {
		case 4:
			v, err := r.Int32()
			if err != nil {
				return nil, err
			}
			dec = signExtendDecimal(int64(v))
		case 8:
			v, err := r.Int64()
			if err != nil {
				return nil, err
			}
			dec = signExtendDecimal(v)
		default:
			v, err := r.Int128()
			if err != nil {
				return nil, err
			}
			dec = v
		}
		out[i] = types.LogicalValue{Kind: types.VDecimal, Decimal: dec}
	}

	return out, nil
}

func signExtendDecimal(v int64) wire.Int128 {
	high := uint64(0)
	if v < 0 {
		high = ^uint64(0)
	}

	return wire.Int128{Low: uint64(v), High: high}
}

// enumCodec: underlying signed int column. WriteColumn and ReadColumn both
// reject a value that is not one of the Type's declared enum values
// (ValueOutOfRange).
type enumCodec struct{ width int }

func (c enumCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if !enumHasValue(t, v.EnumValue) {
			return cherr.New(cherr.KindValidation, "value %d is not a declared %s label", v.EnumValue, t.Kind).WithReason("ValueOutOfRange")
		}
		if err := writeUintWidth(w, c.width, uint64(v.EnumValue)); err != nil {
			return err
		}
	}

	return nil
}

func (c enumCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		raw, err := readUintWidth(r, c.width)
		if err != nil {
			return nil, err
		}
		ev := int32(signExtend(raw, c.width))
		label, ok := enumLabel(t, ev)
		if !ok {
			return nil, cherr.New(cherr.KindValidation, "value %d is not a declared %s label", ev, t.Kind).WithReason("ValueOutOfRange")
		}
		out[i] = types.LogicalValue{Kind: types.VEnum, EnumValue: ev, Str: label}
	}

	return out, nil
}

func enumHasValue(t types.Type, v int32) bool {
	for _, ev := range t.EnumValues {
		if ev.Value == v {
			return true
		}
	}

	return false
}

func enumLabel(t types.Type, v int32) (string, bool) {
	for _, ev := range t.EnumValues {
		if ev.Value == v {
			return ev.Label, true
		}
	}

	return "", false
}

// uuidCodec: n * 16 bytes, wire layout from §4.1.
type uuidCodec struct{}

func (c uuidCodec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.UUID(v.UUID); err != nil {
			return err
		}
	}

	return nil
}

func (c uuidCodec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		v, err := r.UUID()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VUUID, UUID: v}
	}

	return out, nil
}
