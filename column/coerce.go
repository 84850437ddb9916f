package column

import (
	"math"
	"time"

	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

// ToLogical converts a host-language value into the LogicalValue matching t,
// per the Type Coercion Layer policy (§4.8). Supported host shapes per Kind:
//
//   - integers: any Go integer type, or a bool for a column written as Bool
//   - floats: float32/float64
//   - String/FixedString/Enum label: string, or []byte
//   - Date/DateTime/DateTime64: time.Time, or any Go integer (ticks, unchanged)
//   - UUID: string (canonical dashed hex), or wire.UUID
//   - Decimal: (mantissa int64, same precision/scale as t), or float64
//     (rescaled to t.Scale, erroring on precision loss)
//   - Nullable(T): nil for null, or the inner host value
//   - Array(T): []any
//   - Tuple(...): []any of len(t.Elems)
//   - Map(K,V): []types.MapEntry (pairs already in LogicalValue form, kept
//     in order), or a map[any]any whose keys/values are themselves host
//     values for K/V; Go maps of any other type are rejected
func ToLogical(t types.Type, v any) (types.LogicalValue, error) {
	if t.Kind == types.KindNullable {
		if v == nil {
			return types.Null, nil
		}

		return ToLogical(*t.Elem, v)
	}

	switch t.Kind {
	case types.KindUInt8, types.KindUInt16, types.KindUInt32, types.KindUInt64:
		u, err := toUint(v)
		return types.LogicalValue{Kind: types.VUint, Uint: u}, err
	case types.KindInt8, types.KindInt16, types.KindInt32, types.KindInt64:
		i, err := toInt(v)
		return types.LogicalValue{Kind: types.VInt, Int: i}, err
	case types.KindFloat32, types.KindFloat64:
		f, err := toFloat(v)
		return types.LogicalValue{Kind: types.VFloat, Float: f}, err
	case types.KindString:
		s, err := toString(v)
		return types.LogicalValue{Kind: types.VString, Str: s}, err
	case types.KindFixedString:
		s, err := toString(v)
		return types.LogicalValue{Kind: types.VFixedString, Str: s}, err
	case types.KindUUID:
		return toUUID(v)
	case types.KindDate:
		ticks, err := toDateTicks(v, 0)
		return types.LogicalValue{Kind: types.VDate, Ticks: ticks}, err
	case types.KindDateTime:
		ticks, err := toDateTicks(v, 1)
		return types.LogicalValue{Kind: types.VDateTime, Ticks: ticks}, err
	case types.KindDateTime64:
		ticks, err := toDateTicks(v, int64Pow10(t.DTPrecision))
		return types.LogicalValue{Kind: types.VDateTime64, Ticks: ticks}, err
	case types.KindDecimal:
		return toDecimal(t, v)
	case types.KindEnum8, types.KindEnum16:
		return toEnum(t, v)
	case types.KindArray:
		return toArray(t, v)
	case types.KindTuple:
		return toTuple(t, v)
	case types.KindMap:
		return toMap(t, v)
	default:
		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "ToLogical: unsupported kind %s", t.Kind)
	}
}

// FromLogical converts a LogicalValue back into a plain Go value suitable
// for caller consumption (the inverse of ToLogical).
func FromLogical(t types.Type, v types.LogicalValue) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if t.Kind == types.KindNullable {
		return FromLogical(*t.Elem, v)
	}

	switch t.Kind {
	case types.KindUInt8, types.KindUInt16, types.KindUInt32, types.KindUInt64:
		return v.Uint, nil
	case types.KindInt8, types.KindInt16, types.KindInt32, types.KindInt64:
		return v.Int, nil
	case types.KindFloat32, types.KindFloat64:
		return v.Float, nil
	case types.KindString, types.KindFixedString:
		return v.Str, nil
	case types.KindUUID:
		return v.UUID.String(), nil
	case types.KindDate:
		return epoch.AddDate(0, 0, int(v.Ticks)), nil
	case types.KindDateTime:
		return time.Unix(v.Ticks, 0).UTC(), nil
	case types.KindDateTime64:
		scale := int64Pow10(t.DTPrecision)
		sec := v.Ticks / scale
		frac := v.Ticks % scale
		nsec := frac * (int64(time.Second) / scale)

		return time.Unix(sec, nsec).UTC(), nil
	case types.KindDecimal:
		return v.Decimal, nil
	case types.KindEnum8, types.KindEnum16:
		return v.Str, nil
	case types.KindArray:
		out := make([]any, len(v.Array))
		for i, e := range v.Array {
			hv, err := FromLogical(*t.Elem, e)
			if err != nil {
				return nil, err
			}
			out[i] = hv
		}

		return out, nil
	case types.KindTuple:
		out := make([]any, len(v.Tuple))
		for i, e := range v.Tuple {
			hv, err := FromLogical(t.Elems[i], e)
			if err != nil {
				return nil, err
			}
			out[i] = hv
		}

		return out, nil
	case types.KindMap:
		out := make(map[any]any, len(v.Map))
		for _, e := range v.Map {
			k, err := FromLogical(*t.Key, e.Key)
			if err != nil {
				return nil, err
			}
			val, err := FromLogical(*t.Value, e.Value)
			if err != nil {
				return nil, err
			}
			out[k] = val
		}

		return out, nil
	default:
		return nil, cherr.New(cherr.KindValidation, "FromLogical: unsupported kind %s", t.Kind)
	}
}

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

func int64Pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}

	return v
}

func toUint(v any) (uint64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}

		return 0, nil
	case int:
		return uint64(x), nil
	case int8:
		return uint64(x), nil
	case int16:
		return uint64(x), nil
	case int32:
		return uint64(x), nil
	case int64:
		return uint64(x), nil
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	default:
		return 0, cherr.New(cherr.KindValidation, "cannot coerce %T to an unsigned integer", v)
	}
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}

		return 0, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	default:
		return 0, cherr.New(cherr.KindValidation, "cannot coerce %T to a signed integer", v)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		i, err := toInt(v)
		return float64(i), err
	}
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return "", cherr.New(cherr.KindValidation, "cannot coerce %T to a string", v)
	}
}

func toUUID(v any) (types.LogicalValue, error) {
	switch x := v.(type) {
	case string:
		u, err := wire.ParseUUID(x)
		if err != nil {
			return types.LogicalValue{}, cherr.Wrap(cherr.KindValidation, err, "invalid UUID text %q", x)
		}

		return types.LogicalValue{Kind: types.VUUID, UUID: u}, nil
	case wire.UUID:
		return types.LogicalValue{Kind: types.VUUID, UUID: x}, nil
	default:
		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "cannot coerce %T to a UUID", v)
	}
}

func toDateTicks(v any, scale int64) (int64, error) {
	switch x := v.(type) {
	case time.Time:
		if scale == 0 {
			return int64(x.UTC().Sub(epoch).Hours() / 24), nil
		}
		if scale == 1 {
			return x.Unix(), nil
		}

		return x.Unix()*scale + int64(x.Nanosecond())*scale/int64(time.Second), nil
	default:
		return toInt(v)
	}
}

// toDecimal accepts a raw mantissa (any Go integer) already scaled to
// t.Scale, or a float64 which is rescaled to t.Scale — erroring if the
// rescale is lossy (§4.8).
func toDecimal(t types.Type, v any) (types.LogicalValue, error) {
	if f, ok := v.(float64); ok {
		scaled := f * float64(int64Pow10(t.Scale))
		mantissa := int64(math.Round(scaled))
		if math.Abs(float64(mantissa)-scaled) > 1e-6*math.Max(1, math.Abs(scaled)) {
			return types.LogicalValue{}, cherr.New(cherr.KindValidation, "decimal value %v does not fit scale %d exactly", f, t.Scale).WithReason("ScaleMismatch")
		}

		return types.LogicalValue{Kind: types.VDecimal, Decimal: signExtendDecimal(mantissa)}, nil
	}

	if dec, ok := v.(wire.Int128); ok {
		return types.LogicalValue{Kind: types.VDecimal, Decimal: dec}, nil
	}

	mantissa, err := toInt(v)
	if err != nil {
		return types.LogicalValue{}, err
	}

	return types.LogicalValue{Kind: types.VDecimal, Decimal: signExtendDecimal(mantissa)}, nil
}

func toEnum(t types.Type, v any) (types.LogicalValue, error) {
	if s, ok := v.(string); ok {
		for _, ev := range t.EnumValues {
			if ev.Label == s {
				return types.LogicalValue{Kind: types.VEnum, EnumValue: ev.Value, Str: ev.Label}, nil
			}
		}

		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "%q is not a declared label of %s", s, t.String()).WithReason("ValueOutOfRange")
	}

	raw, err := toInt(v)
	if err != nil {
		return types.LogicalValue{}, err
	}
	label, ok := enumLabel(t, int32(raw))
	if !ok {
		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "%d is not a declared value of %s", raw, t.String()).WithReason("ValueOutOfRange")
	}

	return types.LogicalValue{Kind: types.VEnum, EnumValue: int32(raw), Str: label}, nil
}

func toArray(t types.Type, v any) (types.LogicalValue, error) {
	seq, ok := v.([]any)
	if !ok {
		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "Array(%s) requires a sequence, got %T", t.Elem.String(), v)
	}

	out := make([]types.LogicalValue, len(seq))
	for i, e := range seq {
		lv, err := ToLogical(*t.Elem, e)
		if err != nil {
			return types.LogicalValue{}, err
		}
		out[i] = lv
	}

	return types.LogicalValue{Kind: types.VArray, Array: out}, nil
}

func toTuple(t types.Type, v any) (types.LogicalValue, error) {
	seq, ok := v.([]any)
	if !ok || len(seq) != len(t.Elems) {
		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "Tuple requires a %d-element sequence, got %T", len(t.Elems), v)
	}

	out := make([]types.LogicalValue, len(seq))
	for i, e := range seq {
		lv, err := ToLogical(t.Elems[i], e)
		if err != nil {
			return types.LogicalValue{}, err
		}
		out[i] = lv
	}

	return types.LogicalValue{Kind: types.VTuple, Tuple: out}, nil
}

func toMap(t types.Type, v any) (types.LogicalValue, error) {
	if pairs, ok := v.([]types.MapEntry); ok {
		return types.LogicalValue{Kind: types.VMap, Map: pairs}, nil
	}

	m, ok := v.(map[any]any)
	if !ok {
		return types.LogicalValue{}, cherr.New(cherr.KindValidation, "Map requires a map, got %T", v)
	}

	entries := make([]types.MapEntry, 0, len(m))
	for k, val := range m {
		lk, err := ToLogical(*t.Key, k)
		if err != nil {
			return types.LogicalValue{}, err
		}
		lv, err := ToLogical(*t.Value, val)
		if err != nil {
			return types.LogicalValue{}, err
		}
		entries = append(entries, types.MapEntry{Key: lk, Value: lv})
	}

	return types.LogicalValue{Kind: types.VMap, Map: entries}, nil
}
