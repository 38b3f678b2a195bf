package consoletypes

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the scalar type of a variable value.
type ValueKind int

const (
	// ValueString is a text value.
	ValueString ValueKind = iota
	// ValueNumber is a float64 value.
	ValueNumber
	// ValueBool is a boolean value.
	ValueBool
)

// Value is a scalar variable value: string, number or boolean.
type Value struct {
	kind ValueKind
	s    string
	n    float64
	b    bool
}

// StringValue creates a string Value.
func StringValue(s string) Value {
	return Value{kind: ValueString, s: s}
}

// NumberValue creates a numeric Value.
func NumberValue(n float64) Value {
	return Value{kind: ValueNumber, n: n}
}

// BoolValue creates a boolean Value.
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, b: b}
}

// Kind returns the scalar type.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Number returns the numeric value and whether v is a number.
func (v Value) Number() (float64, bool) {
	return v.n, v.kind == ValueNumber
}

// Bool returns the boolean value and whether v is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == ValueBool
}

// String returns the canonical textual form used for substitution.
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return formatNumber(v.n)
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// JSON returns the value as a JSON literal.
func (v Value) JSON() string {
	switch v.kind {
	case ValueString:
		b, _ := json.Marshal(v.s)
		return string(b)
	default:
		return v.String()
	}
}

// Interface returns the underlying Go value.
func (v Value) Interface() any {
	switch v.kind {
	case ValueNumber:
		return v.n
	case ValueBool:
		return v.b
	default:
		return v.s
	}
}

// MarshalJSON encodes the value as its JSON literal.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.JSON()), nil
}

// formatNumber renders numbers the way a JSON literal would be written back:
// integers without a fraction, exponents only for very large or small magnitudes.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	abs := math.Abs(n)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		exp = strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(exp, "+"), "-"), "0")
		if exp == "" {
			exp = "0"
		}
		sign := "+"
		if strings.Contains(s, "e-") {
			sign = "-"
		}
		return mantissa + "e" + sign + exp
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
