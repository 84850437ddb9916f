package column

import (
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

func init() {
	register(types.KindNullable, nullableCodec{})
}

// nullableCodec: n bytes of null mask (1=null, 0=present), then the inner
// column body as if the values were the inner type of length n; null
// positions carry a zero/empty placeholder the reader discards (§4.4).
type nullableCodec struct{}

func (c nullableCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.Bool(v.IsNull()); err != nil {
			return err
		}
	}

	inner := make([]types.LogicalValue, len(vals))
	for i, v := range vals {
		if v.IsNull() {
			inner[i] = zeroValue(*t.Elem)
		} else {
			inner[i] = v
		}
	}

	return WriteColumn(w, *t.Elem, inner)
}

func (c nullableCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	mask := make([]bool, n)
	for i := range mask {
		b, err := r.Bool()
		if err != nil {
			return nil, err
		}
		mask[i] = b
	}

	inner, err := ReadColumn(r, *t.Elem, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.LogicalValue, n)
	for i := range out {
		if mask[i] {
			out[i] = types.Null
		} else {
			out[i] = inner[i]
		}
	}

	return out, nil
}

// zeroValue builds the placeholder LogicalValue written at null positions;
// readers never surface it (they check the mask first), but it must still
// be well-formed for variable-length inner types (e.g. a zero-length string,
// not a zero-length Array element mismatch).
func zeroValue(t types.Type) types.LogicalValue {
	switch t.Kind {
	case types.KindArray:
		return types.LogicalValue{Kind: types.VArray}
	case types.KindTuple:
		elems := make([]types.LogicalValue, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = zeroValue(e)
		}

		return types.LogicalValue{Kind: types.VTuple, Tuple: elems}
	case types.KindEnum8, types.KindEnum16:
		if len(t.EnumValues) == 0 {
			return types.LogicalValue{Kind: types.VEnum}
		}

		return types.LogicalValue{Kind: types.VEnum, EnumValue: t.EnumValues[0].Value, Str: t.EnumValues[0].Label}
	default:
		return types.LogicalValue{}
	}
}
