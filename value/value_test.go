package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"null", Null, false},
		{"false", False, false},
		{"true", True, true},
		{"zero int", Int(0), false},
		{"nonzero int", Int(1), true},
		{"zero float", Float(0), false},
		{"nonzero float", Float(0.1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty array", Array(nil), false},
		{"nonempty array", Array([]Value{Int(1)}), true},
		{"empty object", Obj(NewObject()), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.v.Truthy())
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int(1), Int(1)))
	assert.True(t, Equal(Int(1), Float(1)), "int and float in the same numeric domain compare equal")
	assert.False(t, Equal(Int(1), Int(2)))
	assert.False(t, Equal(String("a"), Int(1)))

	obj1 := NewObject()
	obj1.Set("a", Int(1))
	obj2 := NewObject()
	obj2.Set("a", Int(1))
	assert.True(t, Equal(Obj(obj1), Obj(obj2)))

	obj3 := NewObject()
	obj3.Set("a", Int(2))
	assert.False(t, Equal(Obj(obj1), Obj(obj3)))

	assert.True(t, Equal(Array([]Value{Int(1), Int(2)}), Array([]Value{Int(1), Int(2)})))
	assert.False(t, Equal(Array([]Value{Int(1)}), Array([]Value{Int(1), Int(2)})))
}

func TestCompare(t *testing.T) {
	cmp, ok := Compare(Int(1), Int(2))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = Compare(Float(2.5), Int(2))
	require.True(t, ok)
	assert.Equal(t, 1, cmp)

	cmp, ok = Compare(String("a"), String("b"))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)

	_, ok = Compare(String("a"), Int(1))
	assert.False(t, ok)
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("z", Int(1))
	obj.Set("a", Int(2))
	obj.Set("z", Int(3)) // overwrite keeps original position
	assert.Equal(t, []string{"z", "a"}, obj.Keys())
	v, ok := obj.Get("z")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt())
}

func TestValueStringFormatting(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "3", Int(3).String())
	assert.Equal(t, "3.0", Float(3).String())
	assert.Equal(t, "3.5", Float(3.5).String())
	assert.Equal(t, "hello", String("hello").String())
}

func TestJSONRoundTrip(t *testing.T) {
	src := `{"a":1,"b":[1,2.5,"three",null,true],"c":{"d":false}}`
	v, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	require.True(t, v.IsObject())

	a, ok := v.AsObject().Get("a")
	require.True(t, ok)
	assert.True(t, a.IsInt())
	assert.Equal(t, int64(1), a.AsInt())

	b, ok := v.AsObject().Get("b")
	require.True(t, ok)
	require.True(t, b.IsArray())
	arr := b.AsArray()
	assert.True(t, arr[1].IsFloat())
	assert.Equal(t, 2.5, arr[1].AsFloat())
	assert.True(t, arr[3].IsNull())
	assert.True(t, arr[4].AsBool())

	assert.Equal(t, src, v.JSON())
}

func TestParseJSONRejectsInvalid(t *testing.T) {
	_, err := ParseJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestIs(t *testing.T) {
	assert.True(t, Int(1).Is("number"))
	assert.True(t, Int(1).Is("int"))
	assert.False(t, Int(1).Is("float"))
	assert.True(t, Float(1).Is("float"))
	assert.True(t, Null.Is("null"))
	assert.True(t, Obj(NewObject()).Is("object"))
	assert.False(t, Obj(NewObject()).Is("array"))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", Int(1).TypeName())
	assert.Equal(t, "float", Float(1).TypeName())
	assert.Equal(t, "string", String("x").TypeName())
	assert.Equal(t, "bool", True.TypeName())
	assert.Equal(t, "null", Null.TypeName())
}
