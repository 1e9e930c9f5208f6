// Package value implements the tagged-union Value type and the
// case-insensitive variable Registry that the evaluator, lowering pass, and
// command dispatcher all read and write.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Tag identifies which of the four arms a Value holds. The tag is
// authoritative: every typed read checks it and fails otherwise.
type Tag int

const (
	Int Tag = iota
	Double
	Bool
	String
)

// String returns the boundary type name used by setValue's third argument:
// Wint, Wdouble, Wbool, Wstring.
func (t Tag) String() string {
	switch t {
	case Int:
		return "Wint"
	case Double:
		return "Wdouble"
	case Bool:
		return "Wbool"
	case String:
		return "Wstring"
	default:
		return "Wunknown"
	}
}

// TagFromName maps a boundary type tag name to a Tag. ok is false for any
// name other than the four recognized spellings.
func TagFromName(name string) (Tag, bool) {
	switch name {
	case "Wint":
		return Int, true
	case "Wdouble":
		return Double, true
	case "Wbool":
		return Bool, true
	case "Wstring":
		return String, true
	default:
		return 0, false
	}
}

// Value is a tagged sum over int64, float64, bool, and string. Exactly one
// payload field is meaningful at a time, selected by tag. Values are copied
// by value; strings are immutable Go strings, so no cloning is needed beyond
// the ordinary copy of the struct.
type Value struct {
	tag Tag
	i   int64
	f   float64
	b   bool
	s   string
}

// NewInt builds an Int value.
func NewInt(i int64) Value { return Value{tag: Int, i: i} }

// NewDouble builds a Double value.
func NewDouble(f float64) Value { return Value{tag: Double, f: f} }

// NewBool builds a Bool value.
func NewBool(b bool) Value { return Value{tag: Bool, b: b} }

// NewString builds a String value.
func NewString(s string) Value { return Value{tag: String, s: s} }

// Tag reports which arm this Value holds.
func (v Value) Tag() Tag { return v.tag }

// AsInt succeeds only when the tag is Int.
func (v Value) AsInt() (int64, bool) {
	if v.tag != Int {
		return 0, false
	}
	return v.i, true
}

// AsDouble succeeds only when the tag is Double.
func (v Value) AsDouble() (float64, bool) {
	if v.tag != Double {
		return 0, false
	}
	return v.f, true
}

// AsBool succeeds only when the tag is Bool.
func (v Value) AsBool() (bool, bool) {
	if v.tag != Bool {
		return false, false
	}
	return v.b, true
}

// AsString succeeds only when the tag is String.
func (v Value) AsString() (string, bool) {
	if v.tag != String {
		return "", false
	}
	return v.s, true
}

// Numeric widens Int, Double, and Bool (true=1, false=0) to a float64 for use
// in the expression evaluator's numeric context. It fails for String.
func (v Value) Numeric() (float64, bool) {
	switch v.tag {
	case Int:
		return float64(v.i), true
	case Double:
		return v.f, true
	case Bool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Display renders the value using invariant decimal formatting for numbers
// (a '.' separator, no grouping, whole numbers printed without a trailing
// ".0") and "True"/"False" for booleans.
func (v Value) Display() string {
	switch v.tag {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Double:
		return formatDouble(v.f)
	case Bool:
		if v.b {
			return "True"
		}
		return "False"
	case String:
		return v.s
	default:
		return ""
	}
}

func formatDouble(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Parse interprets text according to tag, the way setValue's third argument
// does: failure here is reported by the caller as InvalidValue.
func Parse(tag Tag, text string) (Value, error) {
	switch tag {
	case Int:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid Wint literal %q", text)
		}
		return NewInt(i), nil
	case Double:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid Wdouble literal %q", text)
		}
		return NewDouble(f), nil
	case Bool:
		switch text {
		case "true", "True", "TRUE", "1":
			return NewBool(true), nil
		case "false", "False", "FALSE", "0":
			return NewBool(false), nil
		default:
			return Value{}, fmt.Errorf("invalid Wbool literal %q", text)
		}
	case String:
		return NewString(text), nil
	default:
		return Value{}, fmt.Errorf("unknown value tag %v", tag)
	}
}

// Quoted re-quotes a value for substitution back into expression text during
// lowering: strings are wrapped in double quotes, everything else
// uses Display.
func (v Value) Quoted() string {
	if v.tag == String {
		return `"` + v.s + `"`
	}
	return v.Display()
}
