package block

import (
	"github.com/olapdb/chconn/cherr"
	"github.com/olapdb/chconn/column"
	"github.com/olapdb/chconn/types"
)

// Builder assembles a Block incrementally, one column at a time, from
// parallel Go slices — the shape session.Insert needs to validate a
// caller's data against an INSERT schema template (§4.7's "column names
// must be a subset" rule). Grounded on the teacher's incremental
// column-at-a-time blob construction (arloliu-mebo's blob package builds
// a blob metric-by-metric rather than all at once).
type Builder struct {
	isOverflows bool
	bucketNum   int32
	columns     []Column
	nRows       int
	hasRows     bool
}

// NewBuilder starts an empty Builder with bucket_num defaulted to -1 (§3:
// "is_overflows (bool), bucket_num (int32), both default to false/−1").
func NewBuilder() *Builder {
	return &Builder{bucketNum: -1}
}

// SetOverflows marks the resulting Block as carrying overflow rows (the
// GROUP BY ... WITH TOTALS overflow bucket).
func (b *Builder) SetOverflows(v bool) *Builder {
	b.isOverflows = v
	return b
}

// SetBucketNum sets the block_info bucket number (parallel GROUP BY
// execution tag; -1 when not applicable).
func (b *Builder) SetBucketNum(n int32) *Builder {
	b.bucketNum = n
	return b
}

// AddColumn appends a named, typed column of host values, coerced via
// column.ToLogical. Every column added to the same Builder must have the
// same length; the first call fixes the row count.
func (b *Builder) AddColumn(name string, t types.Type, hostValues []any) error {
	if b.hasRows && len(hostValues) != b.nRows {
		return cherr.New(cherr.KindValidation, "column %q has %d rows, builder already has %d", name, len(hostValues), b.nRows).WithReason("ColumnLengthMismatch")
	}

	vals := make([]types.LogicalValue, len(hostValues))
	for i, hv := range hostValues {
		lv, err := column.ToLogical(t, hv)
		if err != nil {
			return err
		}
		vals[i] = lv
	}

	b.columns = append(b.columns, Column{Name: name, Type: t, Values: vals})
	b.nRows = len(hostValues)
	b.hasRows = true

	return nil
}

// AddLogicalColumn appends a column whose values are already LogicalValues
// (no host coercion), e.g. when relaying a Block read from the wire.
func (b *Builder) AddLogicalColumn(name string, t types.Type, vals []types.LogicalValue) error {
	if b.hasRows && len(vals) != b.nRows {
		return cherr.New(cherr.KindValidation, "column %q has %d rows, builder already has %d", name, len(vals), b.nRows).WithReason("ColumnLengthMismatch")
	}

	b.columns = append(b.columns, Column{Name: name, Type: t, Values: vals})
	b.nRows = len(vals)
	b.hasRows = true

	return nil
}

// Build returns the assembled Block.
func (b *Builder) Build() Block {
	return Block{IsOverflows: b.isOverflows, BucketNum: b.bucketNum, Columns: b.columns}
}
