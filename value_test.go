package jpathcache

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeValue(t *testing.T, raw string) Value {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	v, err := readValue(dec)
	require.NoError(t, err)
	return v
}

func TestReadValueInteger(t *testing.T) {
	v := decodeValue(t, `42`)
	assert.Equal(t, KindInt, v.Kind)
	assert.Equal(t, int64(42), v.Int)
}

func TestReadValueFloatHasFractionalPart(t *testing.T) {
	v := decodeValue(t, `8.95`)
	assert.Equal(t, KindFloat, v.Kind)
	assert.Equal(t, 8.95, v.Flt)
}

func TestReadValueFloatHasExponent(t *testing.T) {
	v := decodeValue(t, `1e3`)
	assert.Equal(t, KindFloat, v.Kind)
	assert.Equal(t, float64(1000), v.Flt)
}

func TestReadValueNegativeIntegerStaysInteger(t *testing.T) {
	v := decodeValue(t, `-7`)
	assert.Equal(t, KindInt, v.Kind)
	assert.Equal(t, int64(-7), v.Int)
}

func TestReadValueStringBoolNull(t *testing.T) {
	assert.Equal(t, Value{Kind: KindString, Str: "red"}, decodeValue(t, `"red"`))
	assert.Equal(t, Value{Kind: KindBool, Bool: true}, decodeValue(t, `true`))
	assert.Equal(t, Null, decodeValue(t, `null`))
}

func TestReadValueObjectPreservesInsertionOrder(t *testing.T) {
	v := decodeValue(t, `{"c":1,"a":2,"b":3}`)
	require.True(t, v.IsObject())
	assert.Equal(t, []string{"c", "a", "b"}, v.Obj.Keys())
}

func TestObjectDuplicateKeyOverwritesInPlace(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Value{Kind: KindInt, Int: 1})
	obj.Set("b", Value{Kind: KindInt, Int: 2})
	obj.Set("a", Value{Kind: KindInt, Int: 99})

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(99), v.Int)
}

func TestReadValueArray(t *testing.T) {
	v := decodeValue(t, `[1,2,3]`)
	require.True(t, v.IsArray())
	require.Len(t, v.Arr, 3)
	assert.Equal(t, int64(2), v.Arr[1].Int)
}

func TestReadValueEmptyArrayAndObject(t *testing.T) {
	arr := decodeValue(t, `[]`)
	assert.True(t, arr.IsArray())
	assert.Empty(t, arr.Arr)

	obj := decodeValue(t, `{}`)
	assert.True(t, obj.IsObject())
	assert.Equal(t, 0, obj.Obj.Len())
}

func TestToInterfaceRoundTripsNestedShape(t *testing.T) {
	v := decodeValue(t, `{"title":"Moby Dick","price":8.99,"tags":["fiction","classic"],"isbn":null}`)
	out, ok := ToInterface(v).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Moby Dick", out["title"])
	assert.Equal(t, 8.99, out["price"])
	assert.Nil(t, out["isbn"])
	assert.Equal(t, []any{"fiction", "classic"}, out["tags"])
}
