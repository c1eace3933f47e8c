// Package document provides an order-preserving JSON document model.
//
// The standard map[string]any decoding loses member order, but inferred
// field order must follow the example document, so objects are kept as
// ordered member lists and values carry an explicit kind tag.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one JSON value with its kind decided at parse time.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Str  string
	Num  json.Number
	Bool bool
	Arr  []Value
	Obj  *Object
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with members in document order.
type Object struct {
	Members []Member
}

// Len returns the number of members
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Get returns the value for key and whether it was present
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Remove deletes key from the object and returns its former value
func (o *Object) Remove(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	for i, m := range o.Members {
		if m.Key == key {
			o.Members = append(o.Members[:i], o.Members[i+1:]...)
			return m.Value, true
		}
	}
	return Value{}, false
}

// IsInt reports whether a number value carries an integral literal.
// Floats are recognized by a fraction or exponent in the source text.
func (v Value) IsInt() bool {
	if v.Kind != KindNumber {
		return false
	}
	return !strings.ContainsAny(string(v.Num), ".eE")
}

// Interface converts the value to plain Go values (map order is lost,
// so this is only used for directive payloads, not for field analysis).
func (v Value) Interface() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindNumber:
		if v.IsInt() {
			if n, err := v.Num.Int64(); err == nil {
				return n
			}
		}
		if f, err := v.Num.Float64(); err == nil {
			return f
		}
		return string(v.Num)
	case KindString:
		return v.Str
	case KindArray:
		out := make([]any, 0, len(v.Arr))
		for _, item := range v.Arr {
			out = append(out, item.Interface())
		}
		return out
	case KindObject:
		out := make(map[string]any, v.Obj.Len())
		for _, m := range v.Obj.Members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// Parse decodes JSON bytes into a Value, preserving object member order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("failed to parse document: %w", err)
	}

	if dec.More() {
		return Value{}, fmt.Errorf("failed to parse document: trailing data after top-level value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return Value{Kind: KindNull}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	obj := &Object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}

		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Members = append(obj.Members, Member{Key: key, Value: val})
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindObject, Obj: obj}, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	var items []Value
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}

	// Consume the closing bracket
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{Kind: KindArray, Arr: items}, nil
}
