package protocol

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the scalar held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Value is one coerced field value.
// Raw keeps the trimmed source text so string views of numbers ("007", "24.0") survive.
type Value struct {
	Kind  Kind
	Raw   string
	Bool  bool
	Int   int64
	Float float64
}

func StringValue(s string) Value { return Value{Kind: KindString, Raw: s} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Coerce converts a raw field value. Precedence: boolean literal, then number, then string.
// Integral numbers become KindInt, everything else numeric becomes KindFloat.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "true":
		return Value{Kind: KindBool, Raw: s, Bool: true}
	case "false":
		return Value{Kind: KindBool, Raw: s, Bool: false}
	}
	if !isDecimal(s) {
		return Value{Kind: KindString, Raw: s}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: KindInt, Raw: s, Int: i}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{Kind: KindString, Raw: s}
	}
	if i, ok := integral(f); ok {
		return Value{Kind: KindInt, Raw: s, Int: i}
	}
	return Value{Kind: KindFloat, Raw: s, Float: f}
}

// integral reports whether f has no fractional part and fits an int64.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 is exactly representable; anything at or above it overflows.
	if f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// isDecimal accepts [+-]? (digits [. digits*] | . digits) ([eE] [+-]? digits)?
func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := digitsAt(s, i)
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		fracDigits = digitsAt(s, i)
		i += fracDigits
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := digitsAt(s, i)
		if expDigits == 0 {
			return false
		}
		i += expDigits
	}
	return i == len(s)
}

func digitsAt(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '9' {
		n++
	}
	return n
}

// Text renders the value as it would appear after "key=".
func (v Value) Text() string {
	if v.Kind == KindString || v.Raw != "" {
		return v.Raw
	}
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	default:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	}
}

// Any returns the plain Go scalar: bool, int64, float64 or string.
func (v Value) Any() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	default:
		return v.Raw
	}
}

func (v Value) AsBool() (bool, bool) {
	return v.Bool, v.Kind == KindBool
}

// AsInt accepts ints and integral floats.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindFloat:
		return integral(v.Float)
	}
	return 0, false
}

// AsFloat accepts floats and ints.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInt:
		return float64(v.Int), true
	}
	return 0, false
}

// AsString renders any scalar; only KindString reports an exact match.
func (v Value) AsString() (string, bool) {
	return v.Text(), v.Kind == KindString
}
