package column

import (
	"fmt"

	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/internal/hash"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

func init() {
	register(types.KindLowCardinality, lowCardinalityCodec{})
}

// lcHasAdditionalKeys is bit 9 of the flags word; the standard form always
// sets it (§4.4, §9 Design Notes).
const lcHasAdditionalKeys = 1 << 9

// lowCardinalityCodec implements the versioned dictionary encoding of §4.4.
// Index 0 is a reserved sentinel: the null marker when the inner type is
// Nullable, or a type-appropriate placeholder otherwise — the dictionary
// body itself always holds the non-nullable form of the inner type.
type lowCardinalityCodec struct{}

func (c lowCardinalityCodec) innerNonNullable(t types.Type) types.Type {
	if t.Elem.Kind == types.KindNullable {
		return *t.Elem.Elem
	}

	return *t.Elem
}

func (c lowCardinalityCodec) isNullableInner(t types.Type) bool {
	return t.Elem.Kind == types.KindNullable
}

func (c lowCardinalityCodec) WriteColumn(w *wire.Writer, t types.Type, vals []types.LogicalValue) error {
	nullable := c.isNullableInner(t)
	inner := c.innerNonNullable(t)

	dict := []types.LogicalValue{zeroValue(inner)} // index 0: sentinel
	dictIndex := make(map[uint64]int)
	indices := make([]uint64, len(vals))

	for i, v := range vals {
		if nullable && v.IsNull() {
			indices[i] = 0
			continue
		}

		key := dictKey(v)
		idx, ok := dictIndex[key]
		if !ok {
			idx = len(dict)
			dict = append(dict, v)
			dictIndex[key] = idx
		}
		indices[i] = uint64(idx)
	}

	if err := w.Uint64(1); err != nil { // version
		return err
	}

	width := indexWidth(len(dict))
	if err := w.Uint64(lcHasAdditionalKeys | uint64(width)); err != nil {
		return err
	}
	if err := w.Uint64(uint64(len(dict))); err != nil {
		return err
	}
	if err := WriteColumn(w, inner, dict); err != nil {
		return err
	}
	if err := w.Uint64(uint64(len(indices))); err != nil {
		return err
	}

	return writeIndices(w, width, indices)
}

func (c lowCardinalityCodec) ReadColumn(r *wire.Reader, t types.Type, n int) ([]types.LogicalValue, error) {
	version, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, cherr.New(cherr.KindUnimplemented, "unsupported LowCardinality version %d", version)
	}

	flags, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	if flags&lcHasAdditionalKeys == 0 {
		return nil, cherr.New(cherr.KindProtocol, "LowCardinality flags missing additional-keys bit").WithReason("BadLowCardinalityFlags")
	}
	width := widthFromFlags(flags)
	if width < 0 {
		return nil, cherr.New(cherr.KindProtocol, "LowCardinality flags encode unknown index width").WithReason("BadLowCardinalityFlags")
	}

	dictSize, err := r.Uint64()
	if err != nil {
		return nil, err
	}

	nullable := c.isNullableInner(t)
	inner := c.innerNonNullable(t)

	dict, err := ReadColumn(r, inner, int(dictSize))
	if err != nil {
		return nil, err
	}

	indexCount, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	if int(indexCount) != n {
		return nil, cherr.New(cherr.KindValidation, "LowCardinality index_count %d != block n_rows %d", indexCount, n).WithReason("ColumnLengthMismatch")
	}

	indices, err := readIndices(r, width, int(indexCount))
	if err != nil {
		return nil, err
	}

	out := make([]types.LogicalValue, n)
	for i, idx := range indices {
		if idx >= dictSize {
			return nil, cherr.New(cherr.KindValidation, "LowCardinality index %d out of range for dictionary size %d", idx, dictSize).WithReason("ValueOutOfRange")
		}
		if nullable && idx == 0 {
			out[i] = types.Null
			continue
		}
		out[i] = dict[idx]
	}

	return out, nil
}

// indexWidth picks the smallest width in {0:u8,1:u16,2:u32,3:u64} that fits
// dictSize-1 (§9 Design Notes).
func indexWidth(dictSize int) int {
	max := dictSize - 1
	switch {
	case max <= 0xFF:
		return 0
	case max <= 0xFFFF:
		return 1
	case max <= 0xFFFFFFFF:
		return 2
	default:
		return 3
	}
}

func widthFromFlags(flags uint64) int {
	w := int(flags & 0xFF)
	if w > 3 {
		return -1
	}

	return w
}

func writeIndices(w *wire.Writer, width int, indices []uint64) error {
	for _, idx := range indices {
		var err error
		switch width {
		case 0:
			err = w.Uint8(uint8(idx))
		case 1:
			err = w.Uint16(uint16(idx))
		case 2:
			err = w.Uint32(uint32(idx))
		default:
			err = w.Uint64(idx)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func readIndices(r *wire.Reader, width, n int) ([]uint64, error) {
	out := make([]uint64, n)
	for i := range out {
		var v uint64
		var err error
		switch width {
		case 0:
			var b uint8
			b, err = r.Uint8()
			v = uint64(b)
		case 1:
			var b uint16
			b, err = r.Uint16()
			v = uint64(b)
		case 2:
			var b uint32
			b, err = r.Uint32()
			v = uint64(b)
		default:
			v, err = r.Uint64()
		}
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// dictKey derives a dedup key for a LogicalValue being interned into a
// LowCardinality dictionary; only string-backed inner types are expected
// to benefit from dictionary encoding in practice, so this hashes the
// string form and otherwise hashes the formatted form of every field.
func dictKey(v types.LogicalValue) uint64 {
	if v.Kind == types.VString || v.Kind == types.VFixedString {
		return hash.StringKey(v.Str)
	}

	return hash.StringKey(fmt.Sprintf("%v", v))
}
