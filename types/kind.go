// Package types implements the server's textual column-type grammar (spec
// §4.3): parsing type descriptions like "Array(Nullable(Decimal(9,3)))"
// into a tagged Type tree, emitting the tree back to canonical text, and
// the LogicalValue tagged union (spec §3) values of that type carry.
package types

// Kind tags a node in a Type tree. Composite kinds (Array, Nullable, Tuple,
// Map, LowCardinality) recurse into Type.Elem/Elems/Key/Value.
type Kind uint8

const (
	KindUnknown Kind = iota

	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindUInt128
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt128
	KindFloat32
	KindFloat64

	KindString
	KindFixedString
	KindUUID
	KindDate
	KindDateTime
	KindDateTime64
	KindDecimal

	KindArray
	KindNullable
	KindTuple
	KindMap
	KindLowCardinality
	KindEnum8
	KindEnum16

	KindNothing
)

// IsComposite reports whether the kind recurses into one or more inner
// Types, as opposed to being a leaf.
func (k Kind) IsComposite() bool {
	switch k {
	case KindArray, KindNullable, KindTuple, KindMap, KindLowCardinality:
		return true
	default:
		return false
	}
}

// identNames maps every recognized grammar identifier to its Kind. The
// DecimalN(S) names (Decimal32/64/128) have no entry here; the parser
// accepts them as aliases, but the canonical emission always uses
// "Decimal(P, S)".
var identNames = map[string]Kind{
	"UInt8":       KindUInt8,
	"UInt16":      KindUInt16,
	"UInt32":      KindUInt32,
	"UInt64":      KindUInt64,
	"UInt128":     KindUInt128,
	"Int8":        KindInt8,
	"Int16":       KindInt16,
	"Int32":       KindInt32,
	"Int64":       KindInt64,
	"Int128":      KindInt128,
	"Float32":     KindFloat32,
	"Float64":     KindFloat64,
	"String":      KindString,
	"FixedString": KindFixedString,
	"UUID":        KindUUID,
	"Date":        KindDate,
	"DateTime":    KindDateTime,
	"DateTime64":  KindDateTime64,
	"Decimal":     KindDecimal,
	"Array":       KindArray,
	"Nullable":    KindNullable,
	"Tuple":       KindTuple,
	"Map":         KindMap,
	"LowCardinality": KindLowCardinality,
	"Enum8":       KindEnum8,
	"Enum16":      KindEnum16,
	"Nothing":     KindNothing,
}

func (k Kind) String() string {
	switch k {
	case KindUInt8:
		return "UInt8"
	case KindUInt16:
		return "UInt16"
	case KindUInt32:
		return "UInt32"
	case KindUInt64:
		return "UInt64"
	case KindUInt128:
		return "UInt128"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindInt128:
		return "Int128"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindFixedString:
		return "FixedString"
	case KindUUID:
		return "UUID"
	case KindDate:
		return "Date"
	case KindDateTime:
		return "DateTime"
	case KindDateTime64:
		return "DateTime64"
	case KindDecimal:
		return "Decimal"
	case KindArray:
		return "Array"
	case KindNullable:
		return "Nullable"
	case KindTuple:
		return "Tuple"
	case KindMap:
		return "Map"
	case KindLowCardinality:
		return "LowCardinality"
	case KindEnum8:
		return "Enum8"
	case KindEnum16:
		return "Enum16"
	case KindNothing:
		return "Nothing"
	default:
		return "Unknown"
	}
}
