package recurtrace

import "github.com/kallsbrook/recurtrace/syntax"

// Frame is one activation of the program's function: the record of a
// single call, its bound parameters, its local variable bindings, its
// return value once it has one, and its place in the call tree.
//
// The tree itself is owned by Context.Root: a Frame's Parent and the stack
// that references it during execution are non-owning back-pointers. Parent
// makes the pointer graph cyclic, so a Frame is not marshaled directly;
// serializers walk Children only, as diag.Snapshot and the server's tree
// builder do.
type Frame struct {
	FrameID int

	// Args holds the evaluated argument values in call order, independent
	// of Values so that a frame's original call signature survives even if
	// the body reassigns a parameter.
	Args []syntax.Value

	// Values is the frame's variable table: parameter bindings plus every
	// name later assigned in the body.
	Values map[string]syntax.Value

	// Retval is nil until the frame returns a value via a ReturnStmt; a
	// frame that falls through its body without one never sets it.
	Retval *syntax.Value

	Parent   *Frame
	Children []*Frame
}

func newFrame(id int, args []syntax.Value, params []syntax.Ident) *Frame {
	values := make(map[string]syntax.Value, len(params))
	for i, param := range params {
		if i < len(args) {
			values[param.Name] = args[i]
		}
	}
	return &Frame{FrameID: id, Args: args, Values: values}
}

// lookup fetches the current value of name, reporting whether it is bound.
func (f *Frame) lookup(name string) (syntax.Value, bool) {
	v, ok := f.Values[name]
	return v, ok
}

// bind assigns name to v in this frame, creating the slot on first use.
func (f *Frame) bind(name string, v syntax.Value) {
	f.Values[name] = v
}
