// Package block implements the block codec of spec §4.5: the unit of data
// exchanged on a Query/Insert exchange, carrying a set of named, typed
// columns of equal length plus the small block_info tag set the server
// expects on every block.
package block

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/column"
	"github.com/olapdb/chconn/types"
	"github.com/olapdb/chconn/wire"
)

// Column is one named, typed column body within a Block.
type Column struct {
	Name   string
	Type   types.Type
	Values []types.LogicalValue
}

// Block is the wire unit of §4.5: an ordered set of same-length columns
// plus the block_info tag pair (is_overflows, bucket_num).
type Block struct {
	IsOverflows bool
	BucketNum   int32
	Columns     []Column
}

// NRows returns the block's row count (the length shared by every column),
// or 0 for a schema-template/sentinel block with no columns.
func (b Block) NRows() int {
	if len(b.Columns) == 0 {
		return 0
	}

	return len(b.Columns[0].Values)
}

// blockInfoBucketNumField and blockInfoOverflowsField are the tagged field
// numbers of §4.5's block_info: 1 = is_overflows (bool), 2 = bucket_num (int32).
const (
	blockInfoOverflowsField = 1
	blockInfoBucketNumField = 2
)

func encodeBlockInfo(w *wire.Writer, b Block) error {
	if err := w.Uvarint(blockInfoOverflowsField); err != nil {
		return err
	}
	if err := w.Bool(b.IsOverflows); err != nil {
		return err
	}
	if err := w.Uvarint(blockInfoBucketNumField); err != nil {
		return err
	}
	if err := w.Int32(b.BucketNum); err != nil {
		return err
	}

	return w.Uvarint(0)
}

// decodeBlockInfo reads tagged fields until field_num=0, tolerating unknown
// field numbers by reading their value per the known wire shape for that
// slot (bool for 1, int32 for 2); anything else is rejected since its
// length isn't self-describing without a field catalog.
func decodeBlockInfo(r *wire.Reader) (isOverflows bool, bucketNum int32, err error) {
	for {
		field, ferr := r.Uvarint("block_info field")
		if ferr != nil {
			return false, 0, ferr
		}
		if field == 0 {
			return isOverflows, bucketNum, nil
		}

		switch field {
		case blockInfoOverflowsField:
			isOverflows, err = r.Bool()
		case blockInfoBucketNumField:
			bucketNum, err = r.Int32()
		default:
			return false, 0, cherr.New(cherr.KindProtocol, "unknown block_info field %d", field)
		}
		if err != nil {
			return false, 0, err
		}
	}
}

// Encode writes b in the §4.5 wire layout: block_info, n_columns, n_rows,
// then per column (name, type_text, body).
func Encode(w *wire.Writer, b Block) error {
	if err := encodeBlockInfo(w, b); err != nil {
		return err
	}

	n := b.NRows()
	for _, col := range b.Columns {
		if len(col.Values) != n {
			return cherr.New(cherr.KindValidation, "column %q has %d rows, block has %d", col.Name, len(col.Values), n).WithReason("ColumnLengthMismatch")
		}
	}

	if err := w.Uvarint(uint64(len(b.Columns))); err != nil {
		return err
	}
	if err := w.Uvarint(uint64(n)); err != nil {
		return err
	}

	for _, col := range b.Columns {
		if err := w.String(col.Name); err != nil {
			return err
		}
		if err := w.String(col.Type.String()); err != nil {
			return err
		}
		if err := column.WriteColumn(w, col.Type, col.Values); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads a Block in the §4.5 wire layout.
func Decode(r *wire.Reader) (Block, error) {
	isOverflows, bucketNum, err := decodeBlockInfo(r)
	if err != nil {
		return Block{}, err
	}

	nColumns, err := r.Uvarint("n_columns")
	if err != nil {
		return Block{}, err
	}
	nRows, err := r.Uvarint("n_rows")
	if err != nil {
		return Block{}, err
	}

	cols := make([]Column, nColumns)
	for i := range cols {
		name, err := r.String()
		if err != nil {
			return Block{}, err
		}
		typeText, err := r.String()
		if err != nil {
			return Block{}, err
		}
		ty, err := types.Parse(typeText)
		if err != nil {
			return Block{}, cherr.Wrap(cherr.KindProtocol, err, "column %q has unparsable type %q", name, typeText)
		}
		vals, err := column.ReadColumn(r, ty, int(nRows))
		if err != nil {
			return Block{}, err
		}
		cols[i] = Column{Name: name, Type: ty, Values: vals}
	}

	return Block{IsOverflows: isOverflows, BucketNum: bucketNum, Columns: cols}, nil
}

// Empty is the sentinel "no input data" block a Query packet is followed
// by, and the terminator of an INSERT's Data stream (§4.6.3, §4.6.4).
// BucketNum defaults to -1 per §3's block_info defaults.
var Empty = Block{BucketNum: -1}
