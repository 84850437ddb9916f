package column

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/internal/pool"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

func init() {
	register(types.KindArray, arrayCodec{})
}

// arrayCodec: n cumulative end-offsets (uint64), then the nested column
// body of length offsets[n-1] (§4.4). Map reuses this codec entirely by
// being parsed as Array(Tuple(K,V)) — see tuple.go.
type arrayCodec struct{}

func (c arrayCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	var end uint64
	flat := make([]types.LogicalValue, 0, len(vals))
	for _, v := range vals {
		end += uint64(len(v.Array))
		if err := w.Uint64(end); err != nil {
			return err
		}
		flat = append(flat, v.Array...)
	}

	return WriteColumn(w, *t.Elem, flat)
}

func (c arrayCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	offsets, cleanup := pool.GetUint64Slice(n)
	defer cleanup()

	var prev uint64
	for i := 0; i < n; i++ {
		off, err := r.Uint64()
		if err != nil {
			return nil, err
		}
		if off < prev {
			return nil, cherr.New(cherr.KindValidation, "array offsets must be non-decreasing").WithReason("ColumnLengthMismatch")
		}
		offsets[i] = off
		prev = off
	}

	total := 0
	if n > 0 {
		total = int(offsets[n-1])
	}

	flat, err := ReadColumn(r, *t.Elem, total)
	if err != nil {
		return nil, err
	}

	out := make([]types.LogicalValue, n)
	var start uint64
	for i := 0; i < n; i++ {
		out[i] = types.LogicalValue{Kind: types.VArray, Array: flat[start:offsets[i]:offsets[i]]}
		start = offsets[i]
	}

	return out, nil
}
