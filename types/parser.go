package types

import (
	"strconv"
	"strings"

	"github.com/olapdb/chconn/cherr"
)

// maxDepth guards recursion against hostile/malformed type text (spec §9
// Design Notes: "guard recursion depth to avoid stack exhaustion").
const maxDepth = 32

// Parse parses a type description string (spec §4.3 grammar) into a Type
// tree. Fails with cherr.KindValidation, reason "UnknownType" for an
// unrecognized identifier or "BadTypeArgs" for malformed parameters.
func Parse(text string) (Type, error) {
	p := &parser{src: text}
	t, err := p.parseType(0)
	if err != nil {
		return Type{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Type{}, cherr.New(cherr.KindValidation, "unexpected trailing text %q in type %q", p.src[p.pos:], text).WithReason("BadTypeArgs")
	}

	return t, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			p.pos++
			continue
		}

		break
	}

	return p.src[start:p.pos]
}

func (p *parser) parseInt() (int64, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, cherr.New(cherr.KindValidation, "expected integer at %q", p.src[p.pos:]).WithReason("BadTypeArgs")
	}
	n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		return 0, cherr.Wrap(cherr.KindValidation, err, "bad integer literal").WithReason("BadTypeArgs")
	}

	return n, nil
}

// parseQuoted reads a single-quoted string literal; '' is an escaped quote.
func (p *parser) parseQuoted() (string, error) {
	if p.peek() != '\'' {
		return "", cherr.New(cherr.KindValidation, "expected quoted string at %q", p.src[p.pos:]).WithReason("BadTypeArgs")
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		if p.src[p.pos] == '\'' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'' {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++

			return b.String(), nil
		}
		b.WriteByte(p.src[p.pos])
		p.pos++
	}

	return "", cherr.New(cherr.KindValidation, "unterminated string literal").WithReason("BadTypeArgs")
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return cherr.New(cherr.KindValidation, "expected %q at %q", string(c), p.src[p.pos:]).WithReason("BadTypeArgs")
	}
	p.pos++

	return nil
}

func (p *parser) parseType(depth int) (Type, error) {
	if depth > maxDepth {
		return Type{}, cherr.New(cherr.KindValidation, "type nesting exceeds depth %d", maxDepth).WithReason("BadTypeArgs")
	}

	p.skipSpace()
	ident := p.parseIdent()
	if ident == "" {
		return Type{}, cherr.New(cherr.KindValidation, "expected type name at %q", p.src[p.pos:]).WithReason("UnknownType")
	}

	if maxPrecision, ok := decimalAlias(ident); ok {
		if err := p.expect('('); err != nil {
			return Type{}, err
		}
		p.skipSpace()
		scale, err := p.parseInt()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(')'); err != nil {
			return Type{}, err
		}

		return Type{Kind: KindDecimal, Precision: maxPrecision, Scale: int(scale)}, nil
	}

	kind, ok := identNames[ident]
	if !ok {
		return Type{}, cherr.New(cherr.KindValidation, "unknown type %q", ident).WithReason("UnknownType")
	}

	p.skipSpace()
	if p.peek() != '(' {
		switch kind {
		case KindDateTime:
			return Type{Kind: KindDateTime}, nil
		case KindDecimal, KindFixedString, KindArray, KindNullable, KindLowCardinality, KindTuple, KindMap, KindEnum8, KindEnum16, KindDateTime64:
			return Type{}, cherr.New(cherr.KindValidation, "%s requires arguments", ident).WithReason("BadTypeArgs")
		default:
			return Type{Kind: kind}, nil
		}
	}

	p.pos++ // consume '('
	t, err := p.parseArgs(kind, depth)
	if err != nil {
		return Type{}, err
	}
	if err := p.expect(')'); err != nil {
		return Type{}, err
	}

	return t, nil
}

func (p *parser) parseArgs(kind Kind, depth int) (Type, error) {
	switch kind {
	case KindFixedString:
		n, err := p.parseInt()
		if err != nil {
			return Type{}, err
		}

		return Type{Kind: KindFixedString, FixedLen: int(n)}, nil

	case KindDecimal:
		p.skipSpace()
		precision, err := p.parseInt()
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(','); err != nil {
			return Type{}, err
		}
		p.skipSpace()
		scale, err := p.parseInt()
		if err != nil {
			return Type{}, err
		}

		return Type{Kind: KindDecimal, Precision: int(precision), Scale: int(scale)}, nil

	case KindDateTime:
		p.skipSpace()
		tz, err := p.parseQuoted()
		if err != nil {
			return Type{}, err
		}

		return Type{Kind: KindDateTime, Timezone: tz}, nil

	case KindDateTime64:
		p.skipSpace()
		prec, err := p.parseInt()
		if err != nil {
			return Type{}, err
		}
		tz := ""
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
			tz, err = p.parseQuoted()
			if err != nil {
				return Type{}, err
			}
		}

		return Type{Kind: KindDateTime64, DTPrecision: int(prec), Timezone: tz}, nil

	case KindArray, KindNullable, KindLowCardinality:
		inner, err := p.parseType(depth + 1)
		if err != nil {
			return Type{}, err
		}

		return Type{Kind: kind, Elem: &inner}, nil

	case KindTuple:
		var elems []Type
		for {
			inner, err := p.parseType(depth + 1)
			if err != nil {
				return Type{}, err
			}
			elems = append(elems, inner)
			p.skipSpace()
			if p.peek() != ',' {
				break
			}
			p.pos++
		}

		return Type{Kind: KindTuple, Elems: elems}, nil

	case KindMap:
		key, err := p.parseType(depth + 1)
		if err != nil {
			return Type{}, err
		}
		if err := p.expect(','); err != nil {
			return Type{}, err
		}
		val, err := p.parseType(depth + 1)
		if err != nil {
			return Type{}, err
		}

		return Type{Kind: KindMap, Key: &key, Value: &val}, nil

	case KindEnum8, KindEnum16:
		var values []EnumValue
		for {
			p.skipSpace()
			label, err := p.parseQuoted()
			if err != nil {
				return Type{}, err
			}
			if err := p.expect('='); err != nil {
				return Type{}, err
			}
			p.skipSpace()
			n, err := p.parseInt()
			if err != nil {
				return Type{}, err
			}
			values = append(values, EnumValue{Label: label, Value: int32(n)})
			p.skipSpace()
			if p.peek() != ',' {
				break
			}
			p.pos++
		}

		return Type{Kind: kind, EnumValues: values}, nil

	default:
		return Type{}, cherr.New(cherr.KindValidation, "%s does not take arguments", kind).WithReason("BadTypeArgs")
	}
}

// decimalAlias recognizes Decimal32(S)/Decimal64(S)/Decimal128(S) shorthand,
// normalizing to the (precision, scale) form canonical emission uses. The
// returned precision is the width's maximum (9/18/38), matching
// DecimalWidth's own thresholds.
func decimalAlias(ident string) (int, bool) {
	switch ident {
	case "Decimal32":
		return 9, true
	case "Decimal64":
		return 18, true
	case "Decimal128":
		return 38, true
	default:
		return 0, false
	}
}
