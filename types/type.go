package types

import (
	"fmt"
	"strings"
)

// EnumValue is one `'label' = int` pair in an Enum8/Enum16 declaration.
type EnumValue struct {
	Label string
	Value int32
}

// Type is a tagged tree node: a leaf for primitives, or an internal node
// for Array/Nullable/Tuple/Map/LowCardinality/Enum/Decimal/FixedString/
// DateTime/DateTime64 (spec §3). Equality is structural — two Types are
// equal iff every field below compares equal, recursively.
//
// Only the fields relevant to Kind are populated; the rest are zero.
type Type struct {
	Kind Kind

	// Decimal
	Precision int
	Scale     int

	// FixedString
	FixedLen int

	// DateTime / DateTime64
	Timezone   string
	DTPrecision int // DateTime64 only, 0-9

	// Array, Nullable, LowCardinality
	Elem *Type

	// Tuple
	Elems []Type

	// Map
	Key   *Type
	Value *Type

	// Enum8 / Enum16
	EnumValues []EnumValue
}

// Equal reports structural equality between t and other.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case KindDecimal:
		return t.Precision == other.Precision && t.Scale == other.Scale
	case KindFixedString:
		return t.FixedLen == other.FixedLen
	case KindDateTime:
		return t.Timezone == other.Timezone
	case KindDateTime64:
		return t.DTPrecision == other.DTPrecision && t.Timezone == other.Timezone
	case KindArray, KindNullable, KindLowCardinality:
		return t.Elem.Equal(*other.Elem)
	case KindTuple:
		if len(t.Elems) != len(other.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}

		return true
	case KindMap:
		return t.Key.Equal(*other.Key) && t.Value.Equal(*other.Value)
	case KindEnum8, KindEnum16:
		if len(t.EnumValues) != len(other.EnumValues) {
			return false
		}
		for i := range t.EnumValues {
			if t.EnumValues[i] != other.EnumValues[i] {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// String emits the canonical textual form (spec §4.3): identical to what
// Parse accepts, with one space after each comma and around each enum "=".
func (t Type) String() string {
	switch t.Kind {
	case KindDecimal:
		return fmt.Sprintf("Decimal(%d, %d)", t.Precision, t.Scale)
	case KindFixedString:
		return fmt.Sprintf("FixedString(%d)", t.FixedLen)
	case KindDateTime:
		if t.Timezone == "" {
			return "DateTime"
		}

		return fmt.Sprintf("DateTime('%s')", t.Timezone)
	case KindDateTime64:
		if t.Timezone == "" {
			return fmt.Sprintf("DateTime64(%d)", t.DTPrecision)
		}

		return fmt.Sprintf("DateTime64(%d, '%s')", t.DTPrecision, t.Timezone)
	case KindArray:
		return fmt.Sprintf("Array(%s)", t.Elem.String())
	case KindNullable:
		return fmt.Sprintf("Nullable(%s)", t.Elem.String())
	case KindLowCardinality:
		return fmt.Sprintf("LowCardinality(%s)", t.Elem.String())
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}

		return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
	case KindMap:
		return fmt.Sprintf("Map(%s, %s)", t.Key.String(), t.Value.String())
	case KindEnum8, KindEnum16:
		parts := make([]string, len(t.EnumValues))
		for i, ev := range t.EnumValues {
			parts[i] = fmt.Sprintf("'%s' = %d", ev.Label, ev.Value)
		}

		return fmt.Sprintf("%s(%s)", t.Kind, strings.Join(parts, ", "))
	default:
		return t.Kind.String()
	}
}

// DecimalWidth returns the backing integer width in bytes (4, 8, or 16)
// selected by precision per spec §4.3: ≤9→32, ≤18→64, ≤38→128.
func DecimalWidth(precision int) int {
	switch {
	case precision <= 9:
		return 4
	case precision <= 18:
		return 8
	default:
		return 16
	}
}
