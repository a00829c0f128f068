package recurtrace

import "github.com/kallsbrook/recurtrace/syntax"

// Context owns a single execution of a Program: the call tree it builds, the
// stack of currently active frames, and the running frame counter that
// enforces MaxFrameCount. A Context must not be reused across concurrent
// executions or shared between goroutines; spec.md §5 requires the HTTP
// collaborator to build a fresh one per request.
type Context struct {
	FuncDef *syntax.FunctionDef

	// Root is the first frame created during this execution; it owns the
	// entire call tree reachable through its Children. Nil until the first
	// MainCall runs.
	Root *Frame

	// Stack holds the currently active frames, innermost last. Its
	// entries are the same *Frame values reachable from Root's tree; it
	// does not own them.
	Stack []*Frame

	// FrameCount is the total number of frames created so far, active or
	// already popped.
	FrameCount int
}

// NewContext returns a Context ready to execute fn. fn is normally the
// single FunctionDef obtained from parsing a Program.
func NewContext(fn *syntax.FunctionDef) *Context {
	return &Context{FuncDef: fn}
}

func (c *Context) top() *Frame {
	if len(c.Stack) == 0 {
		return nil
	}
	return c.Stack[len(c.Stack)-1]
}

func (c *Context) push(f *Frame) {
	c.Stack = append(c.Stack, f)
}

func (c *Context) pop() {
	c.Stack = c.Stack[:len(c.Stack)-1]
}
