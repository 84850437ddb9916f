package column

import (
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

func init() {
	register(types.KindTuple, tupleCodec{})
	register(types.KindMap, mapCodec{})
}

// tupleCodec: concatenation of the k element column bodies, each of length
// n, in declared order (§4.4).
type tupleCodec struct{}

func (c tupleCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	for elemIdx, elemType := range t.Elems {
		col := make([]types.LogicalValue, len(vals))
		for i, v := range vals {
			col[i] = v.Tuple[elemIdx]
		}
		if err := WriteColumn(w, elemType, col); err != nil {
			return err
		}
	}

	return nil
}

func (c tupleCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	cols := make([][]types.LogicalValue, len(t.Elems))
	for i, elemType := range t.Elems {
		col, err := ReadColumn(r, elemType, n)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	out := make([]types.LogicalValue, n)
	for row := 0; row < n; row++ {
		tuple := make([]types.LogicalValue, len(t.Elems))
		for col := range t.Elems {
			tuple[col] = cols[col][row]
		}
		out[row] = types.LogicalValue{Kind: types.VTuple, Tuple: tuple}
	}

	return out, nil
}

// mapCodec: encoded exactly as Array(Tuple(K,V)) (§4.4).
type mapCodec struct{}

func (c mapCodec) asArrayType(t types.Type) types.Type {
	tuple := types.Type{Kind: types.KindTuple, Elems: []types.Type{*t.Key, *t.Value}}

	return types.Type{Kind: types.KindArray, Elem: &tuple}
}

func (c mapCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	arrVals := make([]types.LogicalValue, len(vals))
	for i, v := range vals {
		entries := make([]types.LogicalValue, len(v.Map))
		for j, e := range v.Map {
			entries[j] = types.LogicalValue{Kind: types.VTuple, Tuple: []types.LogicalValue{e.Key, e.Value}}
		}
		arrVals[i] = types.LogicalValue{Kind: types.VArray, Array: entries}
	}

	return WriteColumn(w, c.asArrayType(t), arrVals)
}

func (c mapCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	arrVals, err := ReadColumn(r, c.asArrayType(t), n)
	if err != nil {
		return nil, err
	}

	out := make([]types.LogicalValue, n)
	for i, av := range arrVals {
		entries := make([]types.MapEntry, len(av.Array))
		for j, tup := range av.Array {
			entries[j] = types.MapEntry{Key: tup.Tuple[0], Value: tup.Tuple[1]}
		}
		out[i] = types.LogicalValue{Kind: types.VMap, Map: entries}
	}

	return out, nil
}
