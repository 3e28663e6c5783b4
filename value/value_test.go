package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, KindNone, None().Kind())
	assert.Equal(t, KindBool, FromBool(true).Kind())
	assert.Equal(t, KindInt, FromInt(1).Kind())
	assert.Equal(t, KindFloat, FromFloat(1.5).Kind())
	assert.Equal(t, KindString, FromString("x").Kind())

	var zero Value
	assert.True(t, zero.IsNone(), "the zero value is none")
}

func TestAccessors(t *testing.T) {
	b, ok := FromBool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	i, ok := FromInt(42).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)

	f, ok := FromFloat(1.5).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)

	s, ok := FromString("hello").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = FromInt(42).AsFloat()
	assert.False(t, ok, "no implicit conversion between kinds")
}

func TestString(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{None(), "none"},
		{FromBool(true), "true"},
		{FromBool(false), "false"},
		{FromInt(42), "42"},
		{FromFloat(42.5), "42.5"},
		{FromFloat(1000), "1000.0"},
		{FromString("hi"), "hi"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.String())
	}
}

func TestRepr(t *testing.T) {
	assert.Equal(t, `"hi"`, FromString("hi").Repr())
	assert.Equal(t, "42", FromInt(42).Repr())
	assert.Equal(t, "1.0", FromFloat(1).Repr())
	assert.Equal(t, "none", None().Repr())
}

func TestInterface(t *testing.T) {
	assert.Nil(t, None().Interface())
	assert.Equal(t, true, FromBool(true).Interface())
	assert.Equal(t, int64(42), FromInt(42).Interface())
	assert.Equal(t, 42.5, FromFloat(42.5).Interface())
	assert.Equal(t, "x", FromString("x").Interface())
}
