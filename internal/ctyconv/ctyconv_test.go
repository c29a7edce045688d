package ctyconv

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestToNative(t *testing.T) {
	tests := []struct {
		name string
		in   cty.Value
		want any
	}{
		{"string", cty.StringVal("hi"), "hi"},
		{"integer", cty.NumberIntVal(7), int64(7)},
		{"fraction", cty.NumberFloatVal(2.5), 2.5},
		{"bool", cty.True, true},
		{"null", cty.NullVal(cty.String), nil},
		{"unknown", cty.UnknownVal(cty.Number), nil},
		{"nil", cty.NilVal, nil},
		{"tuple", cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("a")}), []any{int64(1), "a"}},
		{"list", cty.ListVal([]cty.Value{cty.True, cty.False}), []any{true, false}},
		{
			"object",
			cty.ObjectVal(map[string]cty.Value{"a": cty.NumberIntVal(1), "b": cty.ObjectVal(map[string]cty.Value{"c": cty.StringVal("d")})}),
			map[string]any{"a": int64(1), "b": map[string]any{"c": "d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNative(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromNative(t *testing.T) {
	v, err := FromNative(map[string]any{
		"n":    3,
		"f":    1.5,
		"s":    "x",
		"b":    false,
		"list": []any{1, "two"},
		"nil":  nil,
	})
	require.NoError(t, err)
	require.True(t, v.Type().IsObjectType())

	assert.True(t, v.GetAttr("n").RawEquals(cty.NumberIntVal(3)))
	assert.True(t, v.GetAttr("f").RawEquals(cty.NumberFloatVal(1.5)))
	assert.True(t, v.GetAttr("s").RawEquals(cty.StringVal("x")))
	assert.True(t, v.GetAttr("b").RawEquals(cty.False))
	assert.True(t, v.GetAttr("nil").IsNull())
	assert.Equal(t, 2, v.GetAttr("list").LengthInt())

	empty, err := FromNative([]any{})
	require.NoError(t, err)
	assert.True(t, empty.RawEquals(cty.EmptyTupleVal))

	_, err = FromNative(struct{}{})
	assert.ErrorContains(t, err, "unsupported Go type")
}

func TestFromNative_YAMLStyleKeys(t *testing.T) {
	v, err := FromNative(map[any]any{1: "one"})
	require.NoError(t, err)
	assert.True(t, v.GetAttr("1").RawEquals(cty.StringVal("one")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "hello", Format(cty.StringVal("hello")))
	assert.Equal(t, "7", Format(cty.NumberIntVal(7)))
	assert.Equal(t, "true", Format(cty.True))
	assert.Equal(t, "null", Format(cty.NullVal(cty.Number)))
	assert.Equal(t, "", Format(cty.NilVal))
	assert.Contains(t, Format(cty.ObjectVal(map[string]cty.Value{"a": cty.NumberIntVal(1)})), "a")
}

func TestTypeString_RoundTrip(t *testing.T) {
	types := []cty.Type{
		cty.String,
		cty.Number,
		cty.List(cty.Number),
		cty.Set(cty.String),
		cty.Map(cty.Bool),
		cty.Object(map[string]cty.Type{"a": cty.Number, "b": cty.List(cty.String)}),
		cty.Tuple([]cty.Type{cty.String, cty.Number}),
	}
	for _, ty := range types {
		s := TypeString(ty)
		t.Run(s, func(t *testing.T) {
			got, err := ParseType(s)
			require.NoError(t, err)
			assert.True(t, ty.Equals(got), "got %s", got.FriendlyName())
		})
	}
	assert.Equal(t, "", TypeString(cty.NilType))
}

func TestTypeString_Capsule(t *testing.T) {
	capsule := cty.Capsule("handle", reflect.TypeOf(0))
	for _, ty := range []cty.Type{
		capsule,
		cty.List(capsule),
		cty.Object(map[string]cty.Type{"h": capsule}),
		cty.Tuple([]cty.Type{cty.String, capsule}),
	} {
		assert.Equal(t, "", TypeString(ty))
	}
}

func TestConform(t *testing.T) {
	t.Run("tuple back to list", func(t *testing.T) {
		in := cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})
		got, err := Conform(in, "list(number)")
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.ListVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})))
	})

	t.Run("empty tuple back to empty list", func(t *testing.T) {
		got, err := Conform(cty.EmptyTupleVal, "list(string)")
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.ListValEmpty(cty.String)))
	})

	t.Run("object back to map", func(t *testing.T) {
		in := cty.ObjectVal(map[string]cty.Value{"x": cty.True})
		got, err := Conform(in, "map(bool)")
		require.NoError(t, err)
		assert.True(t, got.RawEquals(cty.MapVal(map[string]cty.Value{"x": cty.True})))
	})

	t.Run("empty type leaves value", func(t *testing.T) {
		in := cty.StringVal("a")
		got, err := Conform(in, "")
		require.NoError(t, err)
		assert.True(t, got.RawEquals(in))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Conform(cty.StringVal("a"), "list(")
		assert.Error(t, err)
		_, err = Conform(cty.StringVal("a"), "list(number)")
		assert.Error(t, err)
	})
}
