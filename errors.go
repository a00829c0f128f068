// Package recurtrace parses and executes programs in a small didactic
// C-like expression language and returns a structured trace of every
// function-call activation, suitable for visualizing recursion.
package recurtrace

import (
	"fmt"

	"github.com/kallsbrook/recurtrace/syntax"
)

// ParseError is raised for both grammar violations and runtime evaluation
// failures (undefined identifier, type mismatch, bad index, division by
// zero, arity mismatch). Runtime failures reuse this envelope rather than
// introducing a parallel type, matching the single-error-shape contract the
// HTTP collaborator expects.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

func (e ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error: line %d, col %d: %s", e.Line, e.Col, e.Message)
}

// StackError is raised when the activation stack depth or total frame count
// exceeds its resource ceiling. It always carries the fixed synthetic
// location (1, 0) spec.md prescribes.
type StackError struct {
	Message string
}

func (e StackError) Error() string {
	return fmt.Sprintf("stack error: %s", e.Message)
}

// Line is always 1 for a StackError; see spec.md §7.
func (e StackError) Line() int { return 1 }

// Col is always 0 for a StackError; see spec.md §7.
func (e StackError) Col() int { return 0 }

// IterationError is raised when a single loop instance exceeds its
// iteration ceiling. It always carries the fixed synthetic location (1, 0).
type IterationError struct {
	Message string
}

func (e IterationError) Error() string {
	return fmt.Sprintf("iteration error: %s", e.Message)
}

// Line is always 1 for an IterationError; see spec.md §7.
func (e IterationError) Line() int { return 1 }

// Col is always 0 for an IterationError; see spec.md §7.
func (e IterationError) Col() int { return 0 }

// parseErrorAt builds a ParseError located at the given node's captured
// source position, the runtime-error counterpart of the parser's own
// errorf, which locates against the current token instead.
func parseErrorAt(pos syntax.Position, format string, args ...interface{}) ParseError {
	return ParseError{Line: pos.Line, Col: pos.Col, Message: fmt.Sprintf(format, args...)}
}

// fallbackParseError builds a ParseError with no usable location, per
// spec.md §7's "(1, 0) as a fallback" rule for runtime failures that have no
// attached AST node.
func fallbackParseError(format string, args ...interface{}) ParseError {
	return ParseError{Line: 1, Col: 0, Message: fmt.Sprintf(format, args...)}
}
