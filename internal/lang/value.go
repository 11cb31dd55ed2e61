package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the runtime type of a Value. Unlike a single
// always-stringly-typed Value, ClariPy/PyLite values are never implicitly
// coerced across types except where the operand-type matrix
// explicitly allows it (text*integer, integer*text), so ValueType is checked
// directly by eval.go rather than papered over by Bool()/Num()/Str() casts.
type ValueType int

const (
	TypeInt ValueType = iota
	TypeFloat
	TypeText
	TypeBool
	TypeList
)

func (t ValueType) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "floating-point number"
	case TypeText:
		return "text"
	case TypeBool:
		return "boolean"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a runtime value produced by evaluating an Expr. It is distinct
// from the AST's literal nodes (Num/Str/Bool/ListLit): a Value is what
// evaluation produces, not what was parsed.
type Value struct {
	typ     ValueType
	integer int64
	float   float64
	text    string
	boolean bool
	list    []Value
}

// NewInt returns an integer Value.
func NewInt(n int64) Value { return Value{typ: TypeInt, integer: n} }

// NewFloat returns a floating-point Value.
func NewFloat(f float64) Value { return Value{typ: TypeFloat, float: f} }

// NewText returns a text Value.
func NewText(s string) Value { return Value{typ: TypeText, text: s} }

// NewBool returns a boolean Value.
func NewBool(b bool) Value { return Value{typ: TypeBool, boolean: b} }

// NewList returns a list Value.
func NewList(elems []Value) Value { return Value{typ: TypeList, list: elems} }

// Type returns the Value's runtime type.
func (v Value) Type() ValueType { return v.typ }

// Truthy follows the same rule Print and If/While conditions use: numbers
// are true unless zero, text is true unless empty, lists are true unless
// empty, booleans are themselves.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeInt:
		return v.integer != 0
	case TypeFloat:
		return v.float != 0
	case TypeText:
		return v.text != ""
	case TypeBool:
		return v.boolean
	case TypeList:
		return len(v.list) != 0
	default:
		return false
	}
}

// String renders the Value the way Print displays it: numbers in their
// natural decimal form, text bare (no quotes), booleans as "true"/"false",
// and lists as a bracketed, comma-separated, recursively-rendered sequence
// with strings re-quoted inside nested display (mirroring Python's own
// print(list) vs print(str) asymmetry).
func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.integer, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case TypeText:
		return v.text
	case TypeBool:
		return strconv.FormatBool(v.boolean)
	case TypeList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.reprInList()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// reprInList is how a Value renders as an element of a containing list's
// String(): identical to String() except text values are shown quoted, the
// same way the Python original's repr() differs from str() for containers.
func (v Value) reprInList() string {
	if v.typ == TypeText {
		return fmt.Sprintf("%q", v.text)
	}
	return v.String()
}

// Equal implements == / != for any pair of like-typed values. Comparing
// across types (other than int vs float) is a TypeError, raised by the
// caller in eval.go, not here.
func (v Value) Equal(other Value) bool {
	switch v.typ {
	case TypeInt:
		if other.typ == TypeFloat {
			return float64(v.integer) == other.float
		}
		return v.integer == other.integer
	case TypeFloat:
		if other.typ == TypeInt {
			return v.float == float64(other.integer)
		}
		return v.float == other.float
	case TypeText:
		return v.text == other.text
	case TypeBool:
		return v.boolean == other.boolean
	case TypeList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// asFloat64 widens an int-or-float Value to float64 for mixed arithmetic.
// Callers must have already checked v.typ is TypeInt or TypeFloat.
func (v Value) asFloat64() float64 {
	if v.typ == TypeInt {
		return float64(v.integer)
	}
	return v.float
}
