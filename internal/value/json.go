package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseJSON decodes exactly one JSON document into a Value, keeping object
// keys in source order. Numbers without a fraction or exponent become
// integers when they fit in 64 bits; everything else numeric is a float.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err != nil {
		return Value{}, fmt.Errorf("value: decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return Value{}, fmt.Errorf("value: decode json: %w", err)
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return None(), nil
	case bool:
		return Boolean(t), nil
	case json.Number:
		return parseNumber(t.String())
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, items: items}, nil
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return objectValue(obj), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func parseNumber(literal string) (Value, error) {
	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return Integer(i), nil
		}
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", literal, err)
	}
	return Float(f), nil
}

// MarshalJSON encodes v. Floats always carry a fraction or exponent so that
// they decode back as floats.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes data with ParseJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encodeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNone:
		buf.WriteString("null")
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return fmt.Errorf("value: cannot encode %v as json", v.f)
		}
		text := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		buf.WriteString(text)
	case KindString:
		return encodeJSONString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		return v.obj.encodeJSON(buf)
	default:
		return fmt.Errorf("value: unknown kind %s", v.kind)
	}
	return nil
}

// MarshalJSON encodes the object with its keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := o.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Object) encodeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONString(buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := o.entries[key].encodeJSON(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
