package column

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

func init() {
	register(types.KindString, stringCodec{})
	register(types.KindFixedString, fixedStringCodec{})
}

// stringCodec: n repetitions of `varuint length || bytes` (§4.4).
type stringCodec struct{}

func (c stringCodec) WriteColumn(w *wire.Writer, _ types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if err := w.String(v.Str); err != nil {
			return err
		}
	}

	return nil
}

func (c stringCodec) ReadColumn(r *wire.Reader, _ types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		s, err := r.String()
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VString, Str: s}
	}

	return out, nil
}

// fixedStringCodec: n * N bytes, zero-padded on write, returned verbatim
// (including trailing zero padding as data) on read (§4.1, §4.4).
type fixedStringCodec struct{}

func (c fixedStringCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	for _, v := range vals {
		if len(v.Str) > t.FixedLen {
			return cherr.New(cherr.KindValidation, "FixedString(%d): value of length %d does not fit", t.FixedLen, len(v.Str)).WithReason("ValueOutOfRange")
		}
		buf := make([]byte, t.FixedLen)
		copy(buf, v.Str)
		if err := w.WriteAll(buf); err != nil {
			return err
		}
	}

	return nil
}

func (c fixedStringCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	out := make([]types.LogicalValue, n)
	for i := range out {
		b, err := r.ReadExact(t.FixedLen)
		if err != nil {
			return nil, err
		}
		out[i] = types.LogicalValue{Kind: types.VFixedString, Str: string(b)}
	}

	return out, nil
}
