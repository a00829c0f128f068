package recurtrace

import (
	"strings"

	"github.com/kallsbrook/recurtrace/syntax"
)

// callBuiltin dispatches a call to one of the four fixed built-in functions,
// per spec.md §4.5. It is used identically for a direct BuiltinCall and for
// the MethodCall sugar that rebinds its first argument afterward; callers
// needing the rebinding behavior do so themselves once this returns.
func callBuiltin(name syntax.Builtin, at syntax.Position, args []syntax.Value) (syntax.Value, error) {
	switch name {
	case syntax.Len:
		return builtinLen(at, args)
	case syntax.Append:
		return builtinAppend(at, args)
	case syntax.Insert:
		return builtinInsert(at, args)
	case syntax.Replace:
		return builtinReplace(at, args)
	default:
		panic("recurtrace: callBuiltin with unknown builtin")
	}
}

func arityError(at syntax.Position, name string, want, got int) error {
	return parseErrorAt(at, "%s() takes %d argument(s), got %d", name, want, got)
}

// builtinLen returns the length of a String or Array argument.
func builtinLen(at syntax.Position, args []syntax.Value) (syntax.Value, error) {
	if len(args) != 1 {
		return syntax.Value{}, arityError(at, "len", 1, len(args))
	}
	switch args[0].Type() {
	case syntax.String:
		return syntax.NumberValue(float64(len(args[0].Str()))), nil
	case syntax.Array:
		return syntax.NumberValue(float64(len(args[0].Elems()))), nil
	default:
		return syntax.Value{}, parseErrorAt(at, "len() requires a string or array, got %s", args[0].Type())
	}
}

// builtinAppend concatenates two strings, or appends y as a single new
// element of array x.
func builtinAppend(at syntax.Position, args []syntax.Value) (syntax.Value, error) {
	if len(args) != 2 {
		return syntax.Value{}, arityError(at, "append", 2, len(args))
	}
	x, y := args[0], args[1]
	switch {
	case x.Type() == syntax.String && y.Type() == syntax.String:
		return syntax.StringValue(x.Str() + y.Str()), nil
	case x.Type() == syntax.Array:
		elems := x.Elems()
		next := make([]syntax.Value, len(elems)+1)
		copy(next, elems)
		next[len(elems)] = y
		return syntax.ArrayValue(next), nil
	default:
		return syntax.Value{}, parseErrorAt(at, "append() requires two strings or an array, got %s and %s", x.Type(), y.Type())
	}
}

// builtinInsert splices v into string x at index i (both must be strings),
// or inserts v as a single new element of array x before index i. An index
// outside [0, length] is clamped rather than rejected, matching the
// permissive splice semantics built-in inserts mirror.
func builtinInsert(at syntax.Position, args []syntax.Value) (syntax.Value, error) {
	if len(args) != 3 {
		return syntax.Value{}, arityError(at, "insert", 3, len(args))
	}
	x, iv, v := args[0], args[1], args[2]
	if iv.Type() != syntax.Number {
		return syntax.Value{}, parseErrorAt(at, "insert() index must be a number, got %s", iv.Type())
	}
	idx := int(iv.Num())

	switch {
	case x.Type() == syntax.String && v.Type() == syntax.String:
		s := x.Str()
		i := clamp(idx, len(s))
		return syntax.StringValue(s[:i] + v.Str() + s[i:]), nil
	case x.Type() == syntax.Array:
		elems := x.Elems()
		i := clamp(idx, len(elems))
		next := make([]syntax.Value, 0, len(elems)+1)
		next = append(next, elems[:i]...)
		next = append(next, v)
		next = append(next, elems[i:]...)
		return syntax.ArrayValue(next), nil
	default:
		return syntax.Value{}, parseErrorAt(at, "insert() requires two strings or an array and a value, got %s and %s", x.Type(), v.Type())
	}
}

func clamp(idx, length int) int {
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

// builtinReplace returns x with every occurrence of a replaced by b; all
// three arguments must be strings.
func builtinReplace(at syntax.Position, args []syntax.Value) (syntax.Value, error) {
	if len(args) != 3 {
		return syntax.Value{}, arityError(at, "replace", 3, len(args))
	}
	x, a, b := args[0], args[1], args[2]
	if x.Type() != syntax.String || a.Type() != syntax.String || b.Type() != syntax.String {
		return syntax.Value{}, parseErrorAt(at, "replace() requires three strings, got %s", joinTypeNames([]syntax.ValueType{x.Type(), a.Type(), b.Type()}))
	}
	return syntax.StringValue(strings.ReplaceAll(x.Str(), a.Str(), b.Str())), nil
}
