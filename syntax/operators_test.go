package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Apply_arithmetic(t *testing.T) {
	testCases := []struct {
		name   string
		op     BinaryOp
		l, r   Value
		expect Value
	}{
		{name: "add numbers", op: Add, l: NumberValue(2), r: NumberValue(3), expect: NumberValue(5)},
		{name: "add strings", op: Add, l: StringValue("a"), r: StringValue("b"), expect: StringValue("ab")},
		{name: "subtract", op: Sub, l: NumberValue(5), r: NumberValue(2), expect: NumberValue(3)},
		{name: "multiply", op: Mul, l: NumberValue(4), r: NumberValue(2), expect: NumberValue(8)},
		{name: "divide", op: Div, l: NumberValue(6), r: NumberValue(3), expect: NumberValue(2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.op, tc.l, tc.r)
			assert.NoError(t, err)
			assert.True(t, tc.expect.Equal(got))
		})
	}
}

func Test_Apply_typeMismatch(t *testing.T) {
	testCases := []struct {
		name string
		op   BinaryOp
		l, r Value
	}{
		{name: "add number and string", op: Add, l: NumberValue(1), r: StringValue("a")},
		{name: "add array", op: Add, l: ArrayValue(nil), r: ArrayValue(nil)},
		{name: "subtract strings", op: Sub, l: StringValue("a"), r: StringValue("b")},
		{name: "compare number and string", op: Eq, l: NumberValue(1), r: StringValue("1")},
		{name: "relational on strings", op: Less, l: StringValue("a"), r: StringValue("b")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(tc.op, tc.l, tc.r)
			assert.Error(t, err)
			var typeErr TypeError
			assert.ErrorAs(t, err, &typeErr)
		})
	}
}

func Test_Apply_divideByZero(t *testing.T) {
	_, err := Apply(Div, NumberValue(1), NumberValue(0))
	assert.Error(t, err)
}

func Test_Apply_equality(t *testing.T) {
	eq, err := Apply(Eq, NumberValue(3), NumberValue(3))
	assert.NoError(t, err)
	assert.Equal(t, NumberValue(1), eq)

	neq, err := Apply(NotEq, NumberValue(3), NumberValue(4))
	assert.NoError(t, err)
	assert.Equal(t, NumberValue(1), neq)
}

func Test_Apply_relational(t *testing.T) {
	testCases := []struct {
		name   string
		op     BinaryOp
		l, r   float64
		expect bool
	}{
		{name: "less true", op: Less, l: 1, r: 2, expect: true},
		{name: "less false", op: Less, l: 2, r: 1, expect: false},
		{name: "less-eq equal", op: LessEq, l: 2, r: 2, expect: true},
		{name: "greater true", op: Greater, l: 3, r: 2, expect: true},
		{name: "greater-eq equal", op: GreaterEq, l: 2, r: 2, expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.op, NumberValue(tc.l), NumberValue(tc.r))
			assert.NoError(t, err)
			if tc.expect {
				assert.Equal(t, NumberValue(1), got)
			} else {
				assert.Equal(t, NumberValue(0), got)
			}
		})
	}
}

func Test_BinaryOp_Symbol(t *testing.T) {
	assert.Equal(t, "+", Add.Symbol())
	assert.Equal(t, "&&", And.Symbol())
	assert.Equal(t, "||", Or.Symbol())
}

func Test_BinaryOp_IsRelational(t *testing.T) {
	assert.True(t, Less.IsRelational())
	assert.True(t, Eq.IsRelational())
	assert.False(t, Add.IsRelational())
	assert.False(t, And.IsRelational())
}

func Test_BinaryOp_IsLogical(t *testing.T) {
	assert.True(t, And.IsLogical())
	assert.True(t, Or.IsLogical())
	assert.False(t, Eq.IsLogical())
}
