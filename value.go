package jpathcache

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String renders the kind name, mostly for test failure messages.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
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

// Value is the runtime representation of a JSON value, per §3 of the
// design notes: a tagged variant over Null/Bool/Integer/Float/String/
// Array/Object. Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Flt  float64
	Str  string
	Arr  []Value
	Obj  *Object
}

// Null is the canonical null value.
var Null = Value{Kind: KindNull}

// IsObject reports whether v holds an Object.
func (v Value) IsObject() bool { return v.Kind == KindObject }

// IsArray reports whether v holds an Array.
func (v Value) IsArray() bool { return v.Kind == KindArray }

// Object is an insertion-ordered, unique-keyed string->Value mapping.
// Insertion order is preserved for deterministic iteration (§3); a
// repeated Set on an existing key overwrites the value in place without
// moving its position, matching how encoding/json.Decoder would never
// itself produce duplicate object keys in valid input but a caller
// materializing defensively should not bother re-ordering if it did.
type Object struct {
	keys []string
	vals map[string]Value
}

// NewObject returns an empty Object ready for Set.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Set inserts or overwrites key with v.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get returns the value stored at key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// readValue pulls one complete JSON value off dec — a scalar, or an
// entire object/array subtree — leaving the decoder positioned just
// past it. dec must have UseNumber enabled so numeric literals can be
// told apart (§3: "no fractional part or exponent" parses as Integer).
func readValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return materialize(dec, tok)
}

func materialize(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		default:
			return Value{}, &decodeError{"unexpected closing delimiter"}
		}
	case nil:
		return Null, nil
	case bool:
		return Value{Kind: KindBool, Bool: t}, nil
	case json.Number:
		return numberValue(t), nil
	case string:
		return Value{Kind: KindString, Str: t}, nil
	default:
		return Null, nil
	}
}

func readObject(dec *json.Decoder) (Value, error) {
	obj := NewObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, _ := keyTok.(string)
		val, err := readValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}
	return Value{Kind: KindObject, Obj: obj}, nil
}

func readArray(dec *json.Decoder) (Value, error) {
	var arr []Value
	for dec.More() {
		v, err := readValue(dec)
		if err != nil {
			return Value{}, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, err
	}
	return Value{Kind: KindArray, Arr: arr}, nil
}

// numberValue classifies a json.Number per §3: no fractional part and
// no exponent parses as Integer, anything else as Float.
func numberValue(n json.Number) Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Value{Kind: KindInt, Int: i}
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{Kind: KindString, Str: s}
	}
	return Value{Kind: KindFloat, Flt: f}
}

// decodeError wraps a streaming structural error (never exported —
// it becomes a QueryFailure and is absorbed before it reaches a caller).
type decodeError struct{ msg string }

func (e *decodeError) Error() string { return e.msg }

// ToInterface converts v into plain Go data (nil, bool, int64, float64,
// string, []any, or map[string]any) suitable for json.Marshal or other
// generic consumers that don't want to deal with the Value tag.
// Object field order is not preserved by the returned map — callers
// that need it should walk v.Obj directly instead.
func ToInterface(v Value) any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Flt
	case KindString:
		return v.Str
	case KindArray:
		out := make([]any, len(v.Arr))
		for i, e := range v.Arr {
			out[i] = ToInterface(e)
		}
		return out
	case KindObject:
		out := make(map[string]any, v.Obj.Len())
		for _, k := range v.Obj.Keys() {
			val, _ := v.Obj.Get(k)
			out[k] = ToInterface(val)
		}
		return out
	default:
		return nil
	}
}
