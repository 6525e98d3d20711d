// Package value models the typed literals handed to the execution engine.
//
// Values are immutable once constructed. Compound values copy their contents
// on the way in and on the way out, so a caller holding a Value can never
// observe it change.
package value

import (
	"fmt"
	"math"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a typed literal. The zero Value is None.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	items []Value
	obj   *Object
}

// None returns the none value.
func None() Value { return Value{} }

// Boolean wraps b.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Integer wraps i.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float wraps f.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps s.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array builds an array value from a copy of items.
func Array(items ...Value) Value {
	clone := make([]Value, len(items))
	copy(clone, items)
	return Value{kind: KindArray, items: clone}
}

// FromObject builds an object value from a snapshot of obj.
func FromObject(obj *Object) Value {
	return objectValue(obj.Clone())
}

// objectValue takes ownership of obj without copying it.
func objectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the none value.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsBoolean returns the boolean held by v.
func (v Value) AsBoolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsInteger returns the integer held by v.
func (v Value) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsArray returns a copy of the elements held by v.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	clone := make([]Value, len(v.items))
	copy(clone, v.items)
	return clone, true
}

// Len returns the number of elements of an array or entries of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// AsObject returns a copy of the object held by v.
func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj.Clone(), true
}

// Equal reports whether v and other hold the same kind and contents. Object
// entries must also appear in the same order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindBoolean:
		return v.b == other.b
	case KindInteger:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(other.obj)
	}
	return false
}

// String renders v as a JSON literal. Values that cannot be encoded as JSON
// (non-finite floats) fall back to Go formatting.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		if v.kind == KindFloat {
			return fmt.Sprint(v.f)
		}
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(data)
}
