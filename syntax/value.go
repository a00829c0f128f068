// Package syntax holds the AST node types, the tagged Value variant, and the
// binary operator vocabulary shared by the fe (front end) and evaluator
// packages. It carries no parsing or evaluation logic of its own.
package syntax

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the tag of a Value.
type ValueType int

const (
	// Number is a 64-bit floating point value. The language does not
	// distinguish int from float at the type level.
	Number ValueType = iota
	String
	Array

	// unit is the result of a call that fell through its function body
	// without reaching a return statement. It is never constructible from
	// source and is rejected by every operator and builtin that consumes a
	// Value; see recurtrace's Open Question resolution in DESIGN.md.
	unit
)

func (t ValueType) String() string {
	switch t {
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case unit:
		return "no value"
	default:
		return "unknown"
	}
}

// Value is a value in the language: a tagged variant holding exactly one of
// a number, a string, or an ordered sequence of Values. The zero Value is a
// Number of 0.
type Value struct {
	t   ValueType
	num float64
	str string
	arr []Value
}

// NumberValue returns a Value of type Number holding n.
func NumberValue(n float64) Value { return Value{t: Number, num: n} }

// StringValue returns a Value of type String holding s.
func StringValue(s string) Value { return Value{t: String, str: s} }

// ArrayValue returns a Value of type Array holding the given elements. The
// slice is not copied; callers should not mutate it afterward.
func ArrayValue(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{t: Array, arr: elems}
}

// UnitValue returns the sentinel value produced by a function call that
// fell through without hitting a return statement.
func UnitValue() Value { return Value{t: unit} }

// Type returns the tag of v.
func (v Value) Type() ValueType { return v.t }

// IsUnit returns whether v is the no-value sentinel.
func (v Value) IsUnit() bool { return v.t == unit }

// Num returns the numeric payload of v. It panics if v is not of type
// Number; callers must check Type() first.
func (v Value) Num() float64 {
	if v.t != Number {
		panic("syntax: Num() called on non-Number Value")
	}
	return v.num
}

// Str returns the string payload of v. It panics if v is not of type
// String; callers must check Type() first.
func (v Value) Str() string {
	if v.t != String {
		panic("syntax: Str() called on non-String Value")
	}
	return v.str
}

// Elems returns the element payload of v. It panics if v is not of type
// Array; callers must check Type() first.
func (v Value) Elems() []Value {
	if v.t != Array {
		panic("syntax: Elems() called on non-Array Value")
	}
	return v.arr
}

// Truthy returns whether v counts as true: a non-zero Number, a non-empty
// String, or a non-empty Array.
func (v Value) Truthy() bool {
	switch v.t {
	case Number:
		return v.num != 0
	case String:
		return v.str != ""
	case Array:
		return len(v.arr) > 0
	default:
		return false
	}
}

// String renders v for display (error messages, call-tree dumps). It is not
// used by the language's own String type; that is Str().
func (v Value) String() string {
	switch v.t {
	case Number:
		return formatNumber(v.num)
	case String:
		return strconv.Quote(v.str)
	case Array:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case unit:
		return "<no value>"
	default:
		return "<unknown>"
	}
}

// MarshalJSON encodes v as its native JSON shape: a Number as a JSON number,
// a String as a JSON string, an Array as a JSON array of the same encoding
// applied recursively. The HTTP collaborator's call-tree response relies on
// this to report argument and return values untouched rather than as
// display text.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.t {
	case Number:
		return json.Marshal(v.num)
	case String:
		return json.Marshal(v.str)
	case Array:
		return json.Marshal(v.arr)
	default:
		return []byte("null"), nil
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Equal reports whether v and o hold the same type and payload, using the
// language's own equality semantics: Number to Number, String to String.
// Equal never compares an Array operand to anything (they are not scalars);
// callers must reject that case before calling Equal.
func (v Value) Equal(o Value) bool {
	if v.t != o.t {
		return false
	}
	switch v.t {
	case Number:
		return v.num == o.num
	case String:
		return v.str == o.str
	default:
		return false
	}
}

// TypeError is returned by Apply when the operand tags are not compatible
// with the requested operation.
type TypeError struct {
	Op   string
	Lhs  ValueType
	Rhs  ValueType
}

func (e TypeError) Error() string {
	return fmt.Sprintf("cannot apply %s to %s and %s", e.Op, e.Lhs, e.Rhs)
}
