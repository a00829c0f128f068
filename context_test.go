package recurtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kallsbrook/recurtrace/syntax"
)

func Test_NewContext(t *testing.T) {
	fn := &syntax.FunctionDef{}
	ctx := NewContext(fn)

	assert.Same(t, fn, ctx.FuncDef)
	assert.Nil(t, ctx.Root)
	assert.Empty(t, ctx.Stack)
	assert.Equal(t, 0, ctx.FrameCount)
}

func Test_Context_topOfEmptyStack(t *testing.T) {
	ctx := NewContext(&syntax.FunctionDef{})
	assert.Nil(t, ctx.top())
}

func Test_Context_pushAndPop(t *testing.T) {
	ctx := NewContext(&syntax.FunctionDef{})
	f1 := &Frame{FrameID: 1}
	f2 := &Frame{FrameID: 2}

	ctx.push(f1)
	assert.Same(t, f1, ctx.top())

	ctx.push(f2)
	assert.Same(t, f2, ctx.top())
	assert.Len(t, ctx.Stack, 2)

	ctx.pop()
	assert.Same(t, f1, ctx.top())
	assert.Len(t, ctx.Stack, 1)

	ctx.pop()
	assert.Nil(t, ctx.top())
	assert.Empty(t, ctx.Stack)
}
