package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kallsbrook/recurtrace"
	"github.com/kallsbrook/recurtrace/syntax"
)

func Test_toErrorModel_parseError(t *testing.T) {
	err := recurtrace.ParseError{Line: 3, Col: 7, Message: "undefined: x"}
	m := toErrorModel(err)
	assert.Equal(t, 3, m.Line)
	assert.Equal(t, 7, m.Col)
	assert.Equal(t, "undefined: x", m.Message)
}

func Test_toErrorModel_stackError(t *testing.T) {
	err := recurtrace.StackError{Message: "activation stack depth exceeded 16"}
	m := toErrorModel(err)
	assert.Equal(t, 1, m.Line)
	assert.Equal(t, 0, m.Col)
	assert.Equal(t, "Stack limit exceeded.", m.Message)
}

func Test_toErrorModel_iterationError(t *testing.T) {
	err := recurtrace.IterationError{Message: "loop exceeded 1000 iterations"}
	m := toErrorModel(err)
	assert.Equal(t, 1, m.Line)
	assert.Equal(t, 0, m.Col)
	assert.Equal(t, "Iteration limit exceeded.", m.Message)
}

func Test_buildTreeNode_leaf(t *testing.T) {
	retval := syntax.NumberValue(6)
	f := &recurtrace.Frame{
		FrameID: 1,
		Args:    []syntax.Value{syntax.NumberValue(3)},
		Retval:  &retval,
	}

	node := buildTreeNode(f)

	assert.Equal(t, []syntax.Value{syntax.NumberValue(3)}, node.Args)
	assert.Equal(t, &retval, node.Retval)
	assert.Equal(t, 1, node.Count)
	assert.Empty(t, node.Children)
}

func Test_buildTreeNode_nested(t *testing.T) {
	childRetval := syntax.NumberValue(2)
	child := &recurtrace.Frame{FrameID: 2, Retval: &childRetval}
	parent := &recurtrace.Frame{
		FrameID:  1,
		Children: []*recurtrace.Frame{child},
	}

	node := buildTreeNode(parent)

	assert.Len(t, node.Children, 1)
	assert.Equal(t, 2, node.Children[0].Count)
	assert.Nil(t, node.Retval)
}

func Test_runWithTimeout_runsSuccessfully(t *testing.T) {
	theAPI := API{}
	prog, err := recurtrace.Parse(`fun(n) { return n + 1; } fun(2);`)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	root, execErr := theAPI.runWithTimeout(prog)
	assert.NoError(t, execErr)
	assert.NotNil(t, root)
	assert.NotNil(t, root.Retval)
	assert.Equal(t, syntax.NumberValue(3), *root.Retval)
}

func Test_runWithTimeout_propagatesRuntimeError(t *testing.T) {
	theAPI := API{}
	prog, err := recurtrace.Parse(`fun() { return missing; } fun();`)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	_, execErr := theAPI.runWithTimeout(prog)
	assert.Error(t, execErr)
	var pe recurtrace.ParseError
	assert.ErrorAs(t, execErr, &pe)
}
