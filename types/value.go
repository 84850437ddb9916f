package types

import "github.com/olapdb/chconn/wire"

// ValueKind tags which field of LogicalValue is populated. It mirrors Kind
// but collapses the integer/float width variants the host-value side
// doesn't need to distinguish structurally (the Type alongside a
// LogicalValue carries the exact width).
type ValueKind uint8

const (
	VNull ValueKind = iota
	VUint
	VInt
	VFloat
	VBool
	VDecimal
	VString
	VFixedString
	VUUID
	VDate
	VDateTime
	VDateTime64
	VArray
	VTuple
	VMap
	VEnum
	VNothing
)

// MapEntry is one (key, value) pair of a Map LogicalValue.
type MapEntry struct {
	Key   LogicalValue
	Value LogicalValue
}

// LogicalValue is the tagged union described in spec §3: one column value
// in its host-neutral form, independent of wire encoding. Only the field
// matching Kind is meaningful; the rest are zero.
type LogicalValue struct {
	Kind ValueKind

	Uint    uint64
	Int     int64
	Float   float64
	Bool    bool
	UUID    wire.UUID
	Str     string // String, FixedString, Enum label
	Decimal wire.Int128 // also used for UInt128/Int128 leaf values — same bit layout

	// Date/DateTime/DateTime64: ticks since epoch per spec §3; unit and
	// precision live in the companion Type, not here.
	Ticks int64

	Array []LogicalValue
	Tuple []LogicalValue
	Map   []MapEntry

	EnumValue int32
}

// Null is the explicit null marker for a Nullable(T) LogicalValue.
var Null = LogicalValue{Kind: VNull}

// Nothing is the unit value of an all-null Nothing column.
var Nothing = LogicalValue{Kind: VNothing}

func (v LogicalValue) IsNull() bool {
	return v.Kind == VNull
}
