package recurtrace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kallsbrook/recurtrace/syntax"
)

func mustParseAndRun(t *testing.T, src string) (syntax.Value, *Context, error) {
	t.Helper()
	prog, err := Parse(src)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	ctx := NewContext(prog.Func)
	v, err := Execute(ctx, prog)
	return v, ctx, err
}

func Test_Execute_simpleReturn(t *testing.T) {
	v, ctx, err := mustParseAndRun(t, `fun(n) { return n + 1; } fun(2);`)
	assert.NoError(t, err)
	assert.Equal(t, syntax.NumberValue(3), v)
	assert.Equal(t, 1, ctx.FrameCount)
	assert.Equal(t, 1, ctx.Root.FrameID)
	assert.Equal(t, []syntax.Value{syntax.NumberValue(2)}, ctx.Root.Args)
	assert.NotNil(t, ctx.Root.Retval)
	assert.Equal(t, syntax.NumberValue(3), *ctx.Root.Retval)
}

func Test_Execute_fallthroughReturnsUnit(t *testing.T) {
	v, _, err := mustParseAndRun(t, `fun() { } fun();`)
	assert.NoError(t, err)
	assert.True(t, v.IsUnit())
}

func Test_Execute_recursionBuildsCallTree(t *testing.T) {
	src := `
	fun(n) {
		if (n < 1) { return 0; }
		return n + fun(n - 1);
	} fun(3);`
	v, ctx, err := mustParseAndRun(t, src)
	assert.NoError(t, err)
	assert.Equal(t, syntax.NumberValue(6), v)

	assert.Equal(t, 4, ctx.FrameCount)
	assert.Len(t, ctx.Root.Children, 1)
	assert.Len(t, ctx.Root.Children[0].Children, 1)
	assert.Len(t, ctx.Root.Children[0].Children[0].Children, 1)
	assert.Empty(t, ctx.Root.Children[0].Children[0].Children[0].Children)
	assert.Empty(t, ctx.Stack)
}

func Test_Execute_arityMismatch(t *testing.T) {
	_, _, err := mustParseAndRun(t, `fun(a, b) { return a; } fun(1);`)
	assert.Error(t, err)
	var pe ParseError
	assert.ErrorAs(t, err, &pe)
}

func Test_Execute_undefinedIdentifier(t *testing.T) {
	_, _, err := mustParseAndRun(t, `fun() { return missing; } fun();`)
	assert.Error(t, err)
	var pe ParseError
	assert.ErrorAs(t, err, &pe)
}

func Test_Execute_stackDepthExceeded(t *testing.T) {
	src := `
	fun(n) {
		return fun(n + 1);
	} fun(0);`
	_, _, err := mustParseAndRun(t, src)
	assert.Error(t, err)
	var se StackError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line())
	assert.Equal(t, 0, se.Col())
}

func Test_Execute_iterationLimitExceeded(t *testing.T) {
	src := `
	fun() {
		i = 0;
		for (i = 0; i < 1; i = i) { }
		return i;
	} fun();`
	_, _, err := mustParseAndRun(t, src)
	assert.Error(t, err)
	var ie IterationError
	assert.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Line())
	assert.Equal(t, 0, ie.Col())
}

func Test_Execute_arrayIndexAssignmentIsCopyOnWrite(t *testing.T) {
	src := `
	fun(xs) {
		ys = xs;
		ys[0] = 9;
		return [xs, ys];
	} fun([1, 2]);`
	v, _, err := mustParseAndRun(t, src)
	assert.NoError(t, err)
	assert.Equal(t, syntax.ArrayValue([]syntax.Value{
		syntax.ArrayValue([]syntax.Value{syntax.NumberValue(1), syntax.NumberValue(2)}),
		syntax.ArrayValue([]syntax.Value{syntax.NumberValue(9), syntax.NumberValue(2)}),
	}), v)
}

func Test_Execute_arrayIndexOutOfRange(t *testing.T) {
	_, _, err := mustParseAndRun(t, `fun(xs) { return xs[5]; } fun([1]);`)
	assert.Error(t, err)
}

func Test_Execute_negativeArrayIndex(t *testing.T) {
	_, _, err := mustParseAndRun(t, `fun(xs) { return xs[-1]; } fun([1]);`)
	assert.Error(t, err)
}

func Test_Execute_stringIndexing(t *testing.T) {
	v, _, err := mustParseAndRun(t, `fun(s) { return s[1]; } fun("hi");`)
	assert.NoError(t, err)
	assert.Equal(t, syntax.StringValue("i"), v)
}

func Test_Execute_indexIntoNonIndexable(t *testing.T) {
	_, _, err := mustParseAndRun(t, `fun(n) { return n[0]; } fun(1);`)
	assert.Error(t, err)
}

func Test_Execute_cannotUseUnitResult(t *testing.T) {
	src := `
	fun(n) {
		if (n > 0) {
			x = fun(n - 1) + 1;
			return x;
		}
	} fun(1);`
	_, _, err := mustParseAndRun(t, src)
	assert.Error(t, err)
}

func Test_Execute_logicalShortCircuit(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect syntax.Value
	}{
		{name: "and short circuits on false left", input: `fun() { return (0 && (1 / 0)); } fun();`, expect: syntax.NumberValue(0)},
		{name: "or short circuits on true left", input: `fun() { return (1 || (1 / 0)); } fun();`, expect: syntax.NumberValue(1)},
		{name: "and evaluates right when left truthy", input: `fun() { return (1 && 0); } fun();`, expect: syntax.NumberValue(0)},
		{name: "or evaluates right when left falsy", input: `fun() { return (0 || 5); } fun();`, expect: syntax.NumberValue(1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, _, err := mustParseAndRun(t, tc.input)
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, v)
		})
	}
}

func Test_Execute_methodCallRebindsReceiver(t *testing.T) {
	v, _, err := mustParseAndRun(t, `fun(xs) { xs.append(4); return xs; } fun([1, 2, 3]);`)
	assert.NoError(t, err)
	assert.Equal(t, syntax.ArrayValue([]syntax.Value{
		syntax.NumberValue(1), syntax.NumberValue(2), syntax.NumberValue(3), syntax.NumberValue(4),
	}), v)
}

func Test_Execute_builtinCall(t *testing.T) {
	v, _, err := mustParseAndRun(t, `fun(xs) { return len(xs); } fun([1, 2, 3]);`)
	assert.NoError(t, err)
	assert.Equal(t, syntax.NumberValue(3), v)
}

func Test_Execute_ifElseBranches(t *testing.T) {
	testCases := []struct {
		name   string
		n      string
		expect syntax.Value
	}{
		{name: "then branch", n: "0", expect: syntax.NumberValue(1)},
		{name: "else branch", n: "1", expect: syntax.NumberValue(2)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := `fun(n) { if (n == 0) { return 1; } else { return 2; } } fun(` + tc.n + `);`
			v, _, err := mustParseAndRun(t, src)
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, v)
		})
	}
}

func Test_Execute_loopAccumulatesAcrossIterations(t *testing.T) {
	src := `
	fun(n) {
		sum = 0;
		i = 0;
		for (i = 0; i < n; i = i + 1) {
			sum = sum + i;
		}
		return sum;
	} fun(5);`
	v, _, err := mustParseAndRun(t, src)
	assert.NoError(t, err)
	assert.Equal(t, syntax.NumberValue(10), v)
}

func Test_joinTypeNames(t *testing.T) {
	got := joinTypeNames([]syntax.ValueType{syntax.Number, syntax.String})
	assert.Equal(t, "number, string", got)
}
