package recurtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kallsbrook/recurtrace/syntax"
)

func Test_newFrame_bindsParamsToArgs(t *testing.T) {
	params := []syntax.Ident{{Name: "a"}, {Name: "b"}}
	args := []syntax.Value{syntax.NumberValue(1), syntax.NumberValue(2)}

	f := newFrame(7, args, params)

	assert.Equal(t, 7, f.FrameID)
	assert.Equal(t, args, f.Args)
	a, ok := f.lookup("a")
	assert.True(t, ok)
	assert.Equal(t, syntax.NumberValue(1), a)
	b, ok := f.lookup("b")
	assert.True(t, ok)
	assert.Equal(t, syntax.NumberValue(2), b)
	assert.Nil(t, f.Retval)
	assert.Nil(t, f.Parent)
	assert.Empty(t, f.Children)
}

func Test_newFrame_fewerArgsThanParams(t *testing.T) {
	params := []syntax.Ident{{Name: "a"}, {Name: "b"}}
	args := []syntax.Value{syntax.NumberValue(1)}

	f := newFrame(1, args, params)

	_, ok := f.lookup("b")
	assert.False(t, ok)
}

func Test_Frame_bindCreatesAndOverwrites(t *testing.T) {
	f := newFrame(1, nil, nil)

	_, ok := f.lookup("x")
	assert.False(t, ok)

	f.bind("x", syntax.NumberValue(10))
	v, ok := f.lookup("x")
	assert.True(t, ok)
	assert.Equal(t, syntax.NumberValue(10), v)

	f.bind("x", syntax.StringValue("now a string"))
	v, ok = f.lookup("x")
	assert.True(t, ok)
	assert.Equal(t, syntax.StringValue("now a string"), v)
}
