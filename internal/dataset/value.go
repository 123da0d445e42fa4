package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the runtime type of a single value or of a whole column.
type Kind uint8

const (
	// Missing marks an absent value. A column never has kind Missing; a column
	// whose values are all missing keeps the kind it was built with.
	Missing Kind = iota
	Text
	Int
	Float
	Bool
)

// String returns the logical type name used by the DDL type maps
// ("text", "int", "float", "bool"). Missing renders as "missing".
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return "missing"
	}
}

// Numeric reports whether k is Int or Float.
func (k Kind) Numeric() bool { return k == Int || k == Float }

// Value is a tagged scalar: text, integer, float, boolean, or missing.
// The zero Value is missing.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Null returns a missing value.
func Null() Value { return Value{} }

// TextOf returns a text value.
func TextOf(s string) Value { return Value{kind: Text, s: s} }

// IntOf returns an integer value.
func IntOf(i int64) Value { return Value{kind: Int, i: i} }

// FloatOf returns a floating-point value. NaN is stored as missing.
func FloatOf(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Float, f: f}
}

// BoolOf returns a boolean value.
func BoolOf(b bool) Value { return Value{kind: Bool, b: b} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == Missing }

// Text returns the text payload; ok is false for non-text values.
func (v Value) Text() (string, bool) { return v.s, v.kind == Text }

// Int returns the integer payload; ok is false for non-integer values.
func (v Value) Int() (int64, bool) { return v.i, v.kind == Int }

// Float returns the value as float64. Integers widen; ok is false for
// anything that is not numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Int:
		return float64(v.i), true
	}
	return 0, false
}

// Bool returns the boolean payload; ok is false for non-boolean values.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// String renders the value the way it is written to delimited files:
// missing is empty, floats always carry a fractional part ("5.0"), booleans
// are "True"/"False".
func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.s
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case Bool:
		if v.b {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Any returns the value as a driver-friendly Go value: nil, string, int64,
// float64 or bool.
func (v Value) Any() any {
	switch v.kind {
	case Text:
		return v.s
	case Int:
		return v.i
	case Float:
		return v.f
	case Bool:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Text:
		return v.s == o.s
	case Int:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case Bool:
		return v.b == o.b
	default:
		return true
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
