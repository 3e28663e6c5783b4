// Package value provides the literal value representation used by the
// parser.
//
// The parser only ever constructs values for literals that appear in
// template source: booleans, none, strings, integers and floats. Anything
// richer (sequences, maps, objects, callables) is the evaluator's business
// and lives outside this module.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind describes the type of a Value.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Value is an immutable scalar constant. The zero value is none.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

// None returns the none value.
func None() Value {
	return Value{kind: KindNone}
}

// FromBool creates a boolean value.
func FromBool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// FromInt creates an integer value.
func FromInt(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// FromFloat creates a float value.
func FromFloat(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// FromString creates a string value.
func FromString(v string) Value {
	return Value{kind: KindString, s: v}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether the value is none.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the float payload.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// String renders the value the way the engine would print it.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	}
	return ""
}

// Repr renders the value for debug output. Strings are quoted, floats
// always carry a decimal point.
func (v Value) Repr() string {
	if v.kind == KindString {
		return fmt.Sprintf("%q", v.s)
	}
	return v.String()
}

// Interface returns the value as a plain Go value (nil, bool, int64,
// float64 or string), which is what generic encoders want.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	}
	return nil
}

func formatFloat(f float64) string {
	rv := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(rv, ".") {
		rv += ".0"
	}
	return rv
}
