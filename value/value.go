// Package value defines Kuiper's single runtime data type: a tagged union
// that is structurally JSON.
package value

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "number"
	case KindFloat:
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

// Value is the sole runtime data type: Null, Bool, Integer, Float, String,
// Array, or Object. It is immutable once constructed; every builtin and
// evaluator operation that "modifies" a Value produces a new one.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Object is an insertion-ordered string-keyed map.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty, insertion-ordered object.
func NewObject() *Object {
	return &Object{values: map[string]Value{}}
}

// Set inserts or overwrites key. An overwrite keeps the original insertion
// position, matching Kuiper's duplicate-key rule for object literals.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of entries in the object.
func (o *Object) Len() int {
	return len(o.keys)
}

// Clone returns a shallow copy with its own key-order slice.
func (o *Object) Clone() *Object {
	c := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

var (
	Null  = Value{kind: KindNull}
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool, b: false}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Array(vs []Value) Value {
	return Value{kind: KindArray, arr: vs}
}
func Obj(o *Object) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsInt() bool    { return v.kind == KindInt }
func (v Value) IsFloat() bool  { return v.kind == KindFloat }
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns the bool payload; only valid when IsBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the int64 payload; only valid when IsInt.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the float64 payload; only valid when IsFloat.
func (v Value) AsFloat() float64 { return v.f }

// Float64 returns the numeric value widened to float64, for both Int and Float.
func (v Value) Float64() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// AsString returns the string payload; only valid when IsString.
func (v Value) AsString() string { return v.s }

// AsArray returns the array payload; only valid when IsArray.
func (v Value) AsArray() []Value { return v.arr }

// AsObject returns the object payload; only valid when IsObject.
func (v Value) AsObject() *Object { return v.obj }

// Truthy implements Kuiper's truthiness law: false, null, 0, 0.0, "", [],
// and {} are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) != 0
	case KindObject:
		return v.obj.Len() != 0
	}
	return false
}

// Equal implements Kuiper's == semantics: same kind (with Int/Float treated
// as the same numeric domain) and equal payload; arrays/objects compare
// element-wise/key-wise.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.kind == KindInt && b.kind == KindInt {
			return a.i == b.i
		}
		return a.Float64() == b.Float64()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.Keys() {
			av, _ := a.obj.Get(k)
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two values for <, <=, >, >=. Numbers compare numerically,
// strings lexicographically. ok is false when the pair is not ordered.
func Compare(a, b Value) (cmp int, ok bool) {
	if a.IsNumber() && b.IsNumber() {
		if a.kind == KindInt && b.kind == KindInt {
			switch {
			case a.i < b.i:
				return -1, true
			case a.i > b.i:
				return 1, true
			default:
				return 0, true
			}
		}
		af, bf := a.Float64(), b.Float64()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.kind == KindString && b.kind == KindString {
		return strings.Compare(a.s, b.s), true
	}
	return 0, false
}

// String renders a Value the way Kuiper's string() builtin would, used
// both for coercion and for debugging. Numbers use Go's shortest round-trip
// formatting; finite floats always contain a decimal point or an exponent.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
			s += ".0"
		}
		return s
	case KindString:
		return v.s
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.JSON()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		parts := make([]string, 0, v.obj.Len())
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			parts = append(parts, jsonQuote(k)+":"+val.JSON())
		}
		return "{" + strings.Join(parts, ",") + "}"
	}
	return ""
}

// JSON renders v as a JSON literal, quoting strings.
func (v Value) JSON() string {
	if v.kind == KindString {
		return jsonQuote(v.s)
	}
	return v.String()
}

// jsonQuote escapes s as a JSON string literal. strconv.Quote produces Go
// escapes (\xNN, \uNNNN in Go's own syntax for some runes) that are not
// valid JSON for arbitrary control bytes, so this goes through
// encoding/json instead.
func jsonQuote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}

// TypeName reports the runtime type tag used in error messages: one of
// null, object, array, string, float, int, bool.
func (v Value) TypeName() string {
	switch v.kind {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return v.kind.String()
	}
}

// Is reports whether v's runtime type matches the named tag, supporting
// both the spec's six base tags and the int/float refinements of number.
func (v Value) Is(typeName string) bool {
	switch typeName {
	case "null":
		return v.IsNull()
	case "object":
		return v.IsObject()
	case "array":
		return v.IsArray()
	case "string":
		return v.IsString()
	case "bool":
		return v.IsBool()
	case "number":
		return v.IsNumber()
	case "int":
		return v.IsInt()
	case "float":
		return v.IsFloat()
	default:
		return false
	}
}

// SortStrings is a small helper used by builtins that must present object
// keys or string sets in a stable order.
func SortStrings(ss []string) {
	sort.Strings(ss)
}

func (v Value) GoString() string {
	return fmt.Sprintf("Value(%s, %s)", v.kind, v.String())
}
