package syntax

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Value_Truthy(t *testing.T) {
	testCases := []struct {
		name   string
		v      Value
		expect bool
	}{
		{name: "zero number", v: NumberValue(0), expect: false},
		{name: "nonzero number", v: NumberValue(-1), expect: true},
		{name: "empty string", v: StringValue(""), expect: false},
		{name: "nonempty string", v: StringValue("a"), expect: true},
		{name: "empty array", v: ArrayValue(nil), expect: false},
		{name: "nonempty array", v: ArrayValue([]Value{NumberValue(1)}), expect: true},
		{name: "unit", v: UnitValue(), expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.v.Truthy())
		})
	}
}

func Test_Value_Equal(t *testing.T) {
	assert.True(t, NumberValue(3).Equal(NumberValue(3)))
	assert.False(t, NumberValue(3).Equal(NumberValue(4)))
	assert.True(t, StringValue("a").Equal(StringValue("a")))
	assert.False(t, StringValue("a").Equal(StringValue("b")))
	assert.False(t, NumberValue(1).Equal(StringValue("1")))
}

func Test_Value_String(t *testing.T) {
	assert.Equal(t, "3", NumberValue(3).String())
	assert.Equal(t, "3.5", NumberValue(3.5).String())
	assert.Equal(t, `"hi"`, StringValue("hi").String())
	assert.Equal(t, "[1, 2]", ArrayValue([]Value{NumberValue(1), NumberValue(2)}).String())
}

func Test_Value_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name   string
		v      Value
		expect string
	}{
		{name: "number", v: NumberValue(3), expect: "3"},
		{name: "string", v: StringValue("hi"), expect: `"hi"`},
		{name: "array", v: ArrayValue([]Value{NumberValue(1), StringValue("x")}), expect: `[1,"x"]`},
		{name: "nested array", v: ArrayValue([]Value{ArrayValue([]Value{NumberValue(1)})}), expect: `[[1]]`},
		{name: "empty array", v: ArrayValue(nil), expect: `[]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.v)
			assert.NoError(t, err)
			assert.JSONEq(t, tc.expect, string(data))
		})
	}
}

func Test_Value_IsUnit(t *testing.T) {
	assert.True(t, UnitValue().IsUnit())
	assert.False(t, NumberValue(0).IsUnit())
}

func Test_Value_panicsOnWrongAccessor(t *testing.T) {
	assert.Panics(t, func() { NumberValue(1).Str() })
	assert.Panics(t, func() { StringValue("a").Num() })
	assert.Panics(t, func() { NumberValue(1).Elems() })
}
