// Package column implements the per-Kind column codec (spec §4.4): for
// every type variant, serialize writes a column body of length n;
// deserialize reads one given n and the Type. Generalizes the teacher's
// per-kind encoder/decoder pairing (arloliu/mebo's blob/numeric_*.go,
// blob/text_*.go split on "float64 vs. string") to the full type grammar.
package column

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

// Codec serializes and deserializes one column body for a single Kind.
// WriteColumn must write exactly len(vals) values; ReadColumn must read
// exactly n values. deserialize(serialize(v)) = v for any v matching t.
type Codec interface {
	WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error
	ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error)
}

// registry dispatches by types.Kind. Populated in init() by each codec file
// in this package (fixed.go, string.go, nullable.go, ...).
var registry = map[types.Kind]Codec{}

func register(k types.Kind, c Codec) {
	registry[k] = c
}

// ForType returns the Codec responsible for t.Kind.
func ForType(t types.Type) (Codec, error) {
	c, ok := registry[t.Kind]
	if !ok {
		return nil, cherr.New(cherr.KindUnimplemented, "no column codec for kind %s", t.Kind)
	}

	return c, nil
}

// WriteColumn writes vals as a column of Type t. It does not check len(vals)
// against a row count; block.Encode is responsible for the n_rows
// cross-check (spec §4.5).
func WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	c, err := ForType(t)
	if err != nil {
		return err
	}

	return c.WriteColumn(w, t, vals)
}

// ReadColumn reads n values of Type t.
func ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	c, err := ForType(t)
	if err != nil {
		return nil, err
	}

	return c.ReadColumn(r, t, n)
}
