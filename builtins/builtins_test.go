package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiyamo/pyraf/object"
)

func captured() (map[string]*object.Builtin, *string) {
	var out string
	return New(func(s string) { out += s }), &out
}

func TestBuiltins_Print(t *testing.T) {
	reg, out := captured()
	result := reg["print"].Handler([]object.Value{
		&object.Number{Value: 1}, &object.String{Value: "x"}, object.NilValue,
	})
	assert.Equal(t, object.NilValue, result)
	assert.Equal(t, "1 x nil\n", *out)
}

func TestBuiltins_Len(t *testing.T) {
	reg, _ := captured()
	assert.Equal(t, float64(3), reg["len"].Handler([]object.Value{&object.String{Value: "abc"}}).(*object.Number).Value)
	list := &object.List{Elements: []object.Value{object.NilValue, object.NilValue}}
	assert.Equal(t, float64(2), reg["len"].Handler([]object.Value{list}).(*object.Number).Value)

	errVal := reg["len"].Handler([]object.Value{&object.Number{Value: 1}})
	errObj, ok := errVal.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.TypeError, errObj.Kind)
}

func TestBuiltins_Str(t *testing.T) {
	reg, _ := captured()
	result := reg["str"].Handler([]object.Value{&object.Number{Value: 42}})
	assert.Equal(t, "42", result.(*object.String).Value)
}

func TestBuiltins_Num(t *testing.T) {
	reg, _ := captured()
	result := reg["num"].Handler([]object.Value{&object.String{Value: "3.5"}})
	assert.Equal(t, 3.5, result.(*object.Number).Value)

	errVal := reg["num"].Handler([]object.Value{&object.String{Value: "abc"}})
	errObj, ok := errVal.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.ValueError, errObj.Kind)
}

func TestBuiltins_Type(t *testing.T) {
	reg, _ := captured()
	result := reg["type"].Handler([]object.Value{&object.Boolean{Value: true}})
	assert.Equal(t, "bool", result.(*object.String).Value)
}

func TestCheckArity(t *testing.T) {
	reg, _ := captured()
	err := CheckArity(reg["len"], []object.Value{&object.String{Value: "a"}, &object.String{Value: "b"}})
	require.NotNil(t, err)
	assert.Equal(t, object.ArityError, err.Kind)

	err = CheckArity(reg["print"], nil)
	require.NotNil(t, err)
	assert.Equal(t, object.ArityError, err.Kind)
}
