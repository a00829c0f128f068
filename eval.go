package recurtrace

import (
	"fmt"
	"strings"

	"github.com/kallsbrook/recurtrace/syntax"
)

// signal is how a Block, IfStmt, or LoopStmt communicates a ReturnStmt
// reached deeper in its statements back up to its caller, standing in for
// the exception-based unwinding the original interpreter used.
type signal struct {
	returning bool
	value     syntax.Value
}

var normal = signal{}

func returning(v syntax.Value) signal {
	return signal{returning: true, value: v}
}

// evalValue evaluates expr and rejects the no-value sentinel a fallen-
// through call produces: every consumer of an expression's value other than
// a bare ExprStmt (which evaluates purely for effect) must go through this
// instead of evalExpr directly. See syntax.Value's unit case.
func (ctx *Context) evalValue(frame *Frame, expr syntax.Expr) (syntax.Value, error) {
	v, err := ctx.evalExpr(frame, expr)
	if err != nil {
		return syntax.Value{}, err
	}
	if v.IsUnit() {
		return syntax.Value{}, parseErrorAt(expr.Pos(), "cannot use the result of a call that produced no value")
	}
	return v, nil
}

// Execute runs prog's MainCall against ctx and returns the call's result,
// or the first ParseError, StackError, or IterationError encountered.
// ctx must be freshly constructed (see NewContext) and used for exactly one
// execution; spec.md §5 forbids sharing or reuse.
func Execute(ctx *Context, prog *syntax.Program) (syntax.Value, error) {
	// The top-level MainCall has no enclosing activation of its own, so it
	// is evaluated against an empty, untracked frame: its arguments may be
	// literals or nested calls but can never reference a variable.
	toplevel := &Frame{Values: map[string]syntax.Value{}}
	return ctx.evalMainCall(toplevel, prog.Main)
}

// evalMainCall implements the call semantics of spec.md §4.7 in the exact
// order specified: the frame counter is advanced and the new frame's ID
// taken before arguments are evaluated, guards are checked only after
// argument evaluation completes, and the frame itself is built and linked
// into the tree only once the guard check has passed.
func (ctx *Context) evalMainCall(caller *Frame, call *syntax.MainCall) (syntax.Value, error) {
	if len(call.Args) != len(ctx.FuncDef.Params) {
		return syntax.Value{}, parseErrorAt(call.At, "function takes %d argument(s), got %d", len(ctx.FuncDef.Params), len(call.Args))
	}

	ctx.FrameCount++
	frameID := ctx.FrameCount

	args := make([]syntax.Value, len(call.Args))
	for i, argExpr := range call.Args {
		v, err := ctx.evalValue(caller, argExpr)
		if err != nil {
			return syntax.Value{}, err
		}
		args[i] = v
	}

	if len(ctx.Stack) >= MaxStackLen {
		return syntax.Value{}, StackError{Message: fmt.Sprintf("activation stack depth exceeded %d", MaxStackLen)}
	}
	if ctx.FrameCount >= MaxFrameCount {
		return syntax.Value{}, StackError{Message: fmt.Sprintf("total frame count exceeded %d", MaxFrameCount)}
	}

	frame := newFrame(frameID, args, ctx.FuncDef.Params)
	if ctx.Root == nil {
		ctx.Root = frame
	} else {
		parent := ctx.top()
		frame.Parent = parent
		parent.Children = append(parent.Children, frame)
	}
	ctx.push(frame)

	sig, err := ctx.execBlock(frame, ctx.FuncDef.Body)
	ctx.pop()
	if err != nil {
		return syntax.Value{}, err
	}
	if sig.returning {
		v := sig.value
		frame.Retval = &v
		return v, nil
	}
	return syntax.UnitValue(), nil
}

// execBlock runs a Block's statements in order, stopping at the first
// ReturnStmt reached.
func (ctx *Context) execBlock(frame *Frame, block *syntax.Block) (signal, error) {
	for _, stmt := range block.Stmts {
		sig, err := ctx.execStmt(frame, stmt)
		if err != nil {
			return normal, err
		}
		if sig.returning {
			return sig, nil
		}
	}
	return normal, nil
}

func (ctx *Context) execStmt(frame *Frame, stmt syntax.Stmt) (signal, error) {
	switch s := stmt.(type) {
	case *syntax.AssignStmt:
		return normal, ctx.execAssign(frame, s)
	case *syntax.ReturnStmt:
		v, err := ctx.evalValue(frame, s.Expr)
		if err != nil {
			return normal, err
		}
		return returning(v), nil
	case *syntax.ExprStmt:
		_, err := ctx.evalExpr(frame, s.Expr)
		return normal, err
	case *syntax.IfStmt:
		return ctx.execIf(frame, s)
	case *syntax.LoopStmt:
		return ctx.execLoop(frame, s)
	default:
		panic(fmt.Sprintf("recurtrace: unhandled statement type %T", stmt))
	}
}

func (ctx *Context) execAssign(frame *Frame, s *syntax.AssignStmt) error {
	rhs, err := ctx.evalValue(frame, s.Rhs)
	if err != nil {
		return err
	}
	if s.Target.Index == nil {
		frame.bind(s.Target.Name, rhs)
		return nil
	}

	base, ok := frame.lookup(s.Target.Name)
	if !ok {
		return parseErrorAt(s.Target.At, "undefined: %s", s.Target.Name)
	}
	if base.Type() != syntax.Array {
		return parseErrorAt(s.Target.At, "cannot index into a %s", base.Type())
	}
	idxVal, err := ctx.evalValue(frame, s.Target.Index)
	if err != nil {
		return err
	}
	if idxVal.Type() != syntax.Number {
		return parseErrorAt(s.Target.At, "array index must be a number, got %s", idxVal.Type())
	}
	idx := int(idxVal.Num())
	elems := base.Elems()
	if idx < 0 || idx >= len(elems) {
		return parseErrorAt(s.Target.At, "index %d out of range for array of length %d", idx, len(elems))
	}
	next := make([]syntax.Value, len(elems))
	copy(next, elems)
	next[idx] = rhs
	frame.bind(s.Target.Name, syntax.ArrayValue(next))
	return nil
}

func (ctx *Context) execIf(frame *Frame, s *syntax.IfStmt) (signal, error) {
	cond, err := ctx.evalValue(frame, s.Cond)
	if err != nil {
		return normal, err
	}
	if cond.Truthy() {
		return ctx.execBlock(frame, s.Then)
	}
	if s.Else != nil {
		return ctx.execBlock(frame, s.Else)
	}
	return normal, nil
}

func (ctx *Context) execLoop(frame *Frame, s *syntax.LoopStmt) (signal, error) {
	if err := ctx.execAssign(frame, s.Init); err != nil {
		return normal, err
	}
	iterations := 0
	for {
		cond, err := ctx.evalValue(frame, s.Cond)
		if err != nil {
			return normal, err
		}
		if !cond.Truthy() {
			return normal, nil
		}
		iterations++
		if iterations > IterationLimit {
			return normal, IterationError{Message: fmt.Sprintf("loop exceeded %d iterations", IterationLimit)}
		}
		sig, err := ctx.execBlock(frame, s.Body)
		if err != nil {
			return normal, err
		}
		if sig.returning {
			return sig, nil
		}
		if err := ctx.execAssign(frame, s.Post); err != nil {
			return normal, err
		}
	}
}

// evalExpr evaluates expr against the current bindings of frame.
func (ctx *Context) evalExpr(frame *Frame, expr syntax.Expr) (syntax.Value, error) {
	switch e := expr.(type) {
	case *syntax.NumberLit:
		return syntax.NumberValue(e.Value), nil
	case *syntax.StringLit:
		return syntax.StringValue(e.Value), nil
	case *syntax.ArrayLit:
		elems := make([]syntax.Value, len(e.Elems))
		for i, el := range e.Elems {
			v, err := ctx.evalValue(frame, el)
			if err != nil {
				return syntax.Value{}, err
			}
			elems[i] = v
		}
		return syntax.ArrayValue(elems), nil
	case *syntax.Ident:
		return ctx.evalIdent(frame, e)
	case *syntax.BinaryExpr:
		return ctx.evalBinary(frame, e)
	case *syntax.BuiltinCall:
		args := make([]syntax.Value, len(e.Args))
		for i, a := range e.Args {
			v, err := ctx.evalValue(frame, a)
			if err != nil {
				return syntax.Value{}, err
			}
			args[i] = v
		}
		return callBuiltin(e.Name, e.At, args)
	case *syntax.MethodCall:
		return ctx.evalMethodCall(frame, e)
	case *syntax.MainCall:
		return ctx.evalMainCall(frame, e)
	default:
		panic(fmt.Sprintf("recurtrace: unhandled expression type %T", expr))
	}
}

func (ctx *Context) evalIdent(frame *Frame, id *syntax.Ident) (syntax.Value, error) {
	v, ok := frame.lookup(id.Name)
	if !ok {
		return syntax.Value{}, parseErrorAt(id.At, "undefined: %s", id.Name)
	}
	if id.Index == nil {
		return v, nil
	}
	idxVal, err := ctx.evalValue(frame, id.Index)
	if err != nil {
		return syntax.Value{}, err
	}
	if idxVal.Type() != syntax.Number {
		return syntax.Value{}, parseErrorAt(id.At, "array index must be a number, got %s", idxVal.Type())
	}
	idx := int(idxVal.Num())
	switch v.Type() {
	case syntax.Array:
		elems := v.Elems()
		if idx < 0 || idx >= len(elems) {
			return syntax.Value{}, parseErrorAt(id.At, "index %d out of range for array of length %d", idx, len(elems))
		}
		return elems[idx], nil
	case syntax.String:
		s := v.Str()
		if idx < 0 || idx >= len(s) {
			return syntax.Value{}, parseErrorAt(id.At, "index %d out of range for string of length %d", idx, len(s))
		}
		return syntax.StringValue(string(s[idx])), nil
	default:
		return syntax.Value{}, parseErrorAt(id.At, "cannot index into a %s", v.Type())
	}
}

func (ctx *Context) evalBinary(frame *Frame, e *syntax.BinaryExpr) (syntax.Value, error) {
	if e.Op == syntax.And || e.Op == syntax.Or {
		l, err := ctx.evalValue(frame, e.L)
		if err != nil {
			return syntax.Value{}, err
		}
		if e.Op == syntax.And && !l.Truthy() {
			return syntax.NumberValue(0), nil
		}
		if e.Op == syntax.Or && l.Truthy() {
			return syntax.NumberValue(1), nil
		}
		r, err := ctx.evalValue(frame, e.R)
		if err != nil {
			return syntax.Value{}, err
		}
		if r.Truthy() {
			return syntax.NumberValue(1), nil
		}
		return syntax.NumberValue(0), nil
	}

	l, err := ctx.evalValue(frame, e.L)
	if err != nil {
		return syntax.Value{}, err
	}
	r, err := ctx.evalValue(frame, e.R)
	if err != nil {
		return syntax.Value{}, err
	}
	v, err := syntax.Apply(e.Op, l, r)
	if err != nil {
		return syntax.Value{}, parseErrorAt(e.At, "%s", err)
	}
	return v, nil
}

// evalMethodCall implements `x.f(args...)` as sugar for
// `x = f(x, args...)`: the receiver is evaluated, prepended to the call's
// arguments, dispatched to the built-in, and the result is both the
// expression's value and the receiver's new binding.
func (ctx *Context) evalMethodCall(frame *Frame, m *syntax.MethodCall) (syntax.Value, error) {
	recv, ok := frame.lookup(m.Receiver.Name)
	if !ok {
		return syntax.Value{}, parseErrorAt(m.Receiver.At, "undefined: %s", m.Receiver.Name)
	}
	args := make([]syntax.Value, 0, len(m.Call.Args)+1)
	args = append(args, recv)
	for _, a := range m.Call.Args {
		v, err := ctx.evalValue(frame, a)
		if err != nil {
			return syntax.Value{}, err
		}
		args = append(args, v)
	}
	result, err := callBuiltin(m.Call.Name, m.At, args)
	if err != nil {
		return syntax.Value{}, err
	}
	frame.bind(m.Receiver.Name, result)
	return result, nil
}

// joinTypeNames is a small formatting helper shared by the builtin error
// paths in builtins.go.
func joinTypeNames(types []syntax.ValueType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
