package document

import (
	"fmt"
	"strings"
)

// Primitive and compound type names understood by the engine handoff.
const (
	TypeBoolean   = "Boolean"
	TypeInt       = "Int"
	TypeFloat     = "Float"
	TypeString    = "String"
	TypeFile      = "File"
	TypeDirectory = "Directory"
	TypeArray     = "Array"
	TypeMap       = "Map"
	TypePair      = "Pair"
	TypeObject    = "Object"
)

// Type is a declared type such as `Array[File]+` or `Map[String, Int]?`.
// Names that are not built in refer to structs.
type Type struct {
	Name     string
	Params   []Type
	Optional bool
	NonEmpty bool
}

// ParseType parses a type expression.
func ParseType(text string) (Type, error) {
	p := typeParser{src: strings.TrimSpace(text)}
	t, err := p.parse()
	if err != nil {
		return Type{}, fmt.Errorf("document: invalid type `%s`: %w", text, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Type{}, fmt.Errorf("document: invalid type `%s`: unexpected `%s`", text, p.src[p.pos:])
	}
	return t, nil
}

// IsPrimitive reports whether t is a primitive type.
func (t Type) IsPrimitive() bool {
	switch t.Name {
	case TypeBoolean, TypeInt, TypeFloat, TypeString, TypeFile, TypeDirectory:
		return true
	}
	return false
}

// IsStruct reports whether t names a user-defined struct.
func (t Type) IsStruct() bool {
	switch t.Name {
	case TypeArray, TypeMap, TypePair, TypeObject:
		return false
	}
	return !t.IsPrimitive()
}

func (t Type) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Params) > 0 {
		b.WriteByte('[')
		for i, param := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(param.String())
		}
		b.WriteByte(']')
	}
	if t.NonEmpty {
		b.WriteByte('+')
	}
	if t.Optional {
		b.WriteByte('?')
	}
	return b.String()
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeParser) parse() (Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return Type{}, fmt.Errorf("expected a type name")
	}
	t := Type{Name: p.src[start:p.pos]}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '[' {
		p.pos++
		for {
			param, err := p.parse()
			if err != nil {
				return Type{}, err
			}
			t.Params = append(t.Params, param)
			p.skipSpace()
			if p.pos >= len(p.src) {
				return Type{}, fmt.Errorf("missing `]`")
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == ']' {
				p.pos++
				break
			}
			return Type{}, fmt.Errorf("unexpected `%c`", p.src[p.pos])
		}
	}
	if err := t.checkArity(); err != nil {
		return Type{}, err
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '+' {
		if t.Name != TypeArray {
			return Type{}, fmt.Errorf("only arrays may be non-empty")
		}
		t.NonEmpty = true
		p.pos++
		p.skipSpace()
	}
	if p.pos < len(p.src) && p.src[p.pos] == '?' {
		t.Optional = true
		p.pos++
	}
	return t, nil
}

func (t Type) checkArity() error {
	want := 0
	switch t.Name {
	case TypeArray:
		want = 1
	case TypeMap, TypePair:
		want = 2
	}
	if len(t.Params) != want {
		return fmt.Errorf("`%s` takes %d type parameter(s), found %d", t.Name, want, len(t.Params))
	}
	return nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
