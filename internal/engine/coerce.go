package engine

import (
	"fmt"

	"github.com/kingrea/wdl/internal/document"
	"github.com/kingrea/wdl/internal/value"
)

// Coerce converts v to the declared type t. Integers widen to floats, strings
// become files and directories, and objects satisfy maps, pairs, structs and
// `Object`. None is accepted only by optional types.
func Coerce(doc *document.Document, t document.Type, v value.Value) (value.Value, error) {
	if v.IsNone() {
		if t.Optional {
			return v, nil
		}
		return value.Value{}, fmt.Errorf("cannot coerce `None` to non-optional type `%s`", t)
	}
	mismatch := func() error {
		return fmt.Errorf("cannot coerce value of type `%s` to type `%s`", v.Kind(), t)
	}
	switch t.Name {
	case document.TypeBoolean:
		if v.Kind() != value.KindBoolean {
			return value.Value{}, mismatch()
		}
		return v, nil
	case document.TypeInt:
		if v.Kind() != value.KindInteger {
			return value.Value{}, mismatch()
		}
		return v, nil
	case document.TypeFloat:
		if i, ok := v.AsInteger(); ok {
			return value.Float(float64(i)), nil
		}
		if v.Kind() != value.KindFloat {
			return value.Value{}, mismatch()
		}
		return v, nil
	case document.TypeString, document.TypeFile, document.TypeDirectory:
		if v.Kind() != value.KindString {
			return value.Value{}, mismatch()
		}
		return v, nil
	case document.TypeArray:
		items, ok := v.AsArray()
		if !ok {
			return value.Value{}, mismatch()
		}
		if t.NonEmpty && len(items) == 0 {
			return value.Value{}, fmt.Errorf("cannot coerce empty array to non-empty type `%s`", t)
		}
		for i, item := range items {
			coerced, err := Coerce(doc, t.Params[0], item)
			if err != nil {
				return value.Value{}, fmt.Errorf("array element %d: %w", i, err)
			}
			items[i] = coerced
		}
		return value.Array(items...), nil
	case document.TypeMap:
		obj, ok := v.AsObject()
		if !ok {
			return value.Value{}, mismatch()
		}
		if !t.Params[0].IsPrimitive() {
			return value.Value{}, fmt.Errorf("map key type `%s` must be primitive", t.Params[0])
		}
		out := value.NewObject()
		for _, key := range obj.Keys() {
			item, _ := obj.Get(key)
			coerced, err := Coerce(doc, t.Params[1], item)
			if err != nil {
				return value.Value{}, fmt.Errorf("map entry `%s`: %w", key, err)
			}
			out.Set(key, coerced)
		}
		return value.FromObject(out), nil
	case document.TypePair:
		obj, ok := v.AsObject()
		if !ok || obj.Len() != 2 {
			return value.Value{}, mismatch()
		}
		out := value.NewObject()
		for i, side := range []string{"left", "right"} {
			item, ok := obj.Get(side)
			if !ok {
				return value.Value{}, fmt.Errorf("pair is missing its `%s` member", side)
			}
			coerced, err := Coerce(doc, t.Params[i], item)
			if err != nil {
				return value.Value{}, fmt.Errorf("pair `%s`: %w", side, err)
			}
			out.Set(side, coerced)
		}
		return value.FromObject(out), nil
	case document.TypeObject:
		if v.Kind() != value.KindObject {
			return value.Value{}, mismatch()
		}
		return v, nil
	}
	return coerceStruct(doc, t, v)
}

func coerceStruct(doc *document.Document, t document.Type, v value.Value) (value.Value, error) {
	st, ok := doc.StructByName(t.Name)
	if !ok {
		return value.Value{}, fmt.Errorf("unknown type `%s`", t.Name)
	}
	obj, ok := v.AsObject()
	if !ok {
		return value.Value{}, fmt.Errorf("cannot coerce value of type `%s` to struct `%s`", v.Kind(), st.Name)
	}
	for _, key := range obj.Keys() {
		if _, ok := findMember(st, key); !ok {
			return value.Value{}, fmt.Errorf("struct `%s` does not have a member named `%s`", st.Name, key)
		}
	}
	out := value.NewObject()
	for _, member := range st.Members {
		item, ok := obj.Get(member.Name)
		if !ok {
			if member.Type.Optional {
				continue
			}
			return value.Value{}, fmt.Errorf("struct `%s` is missing member `%s`", st.Name, member.Name)
		}
		coerced, err := Coerce(doc, member.Type, item)
		if err != nil {
			return value.Value{}, fmt.Errorf("struct member `%s`: %w", member.Name, err)
		}
		out.Set(member.Name, coerced)
	}
	return value.FromObject(out), nil
}

func findMember(st *document.Struct, name string) (document.Decl, bool) {
	for _, member := range st.Members {
		if member.Name == name {
			return member, true
		}
	}
	return document.Decl{}, false
}
