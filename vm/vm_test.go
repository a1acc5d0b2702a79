package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiyamo/pyraf/builtins"
	"github.com/rafiyamo/pyraf/compiler"
	"github.com/rafiyamo/pyraf/object"
	"github.com/rafiyamo/pyraf/parser"
)

func run(t *testing.T, src string) (object.Value, string) {
	t.Helper()
	var out string
	p, perr := parser.New(src)
	require.Nil(t, perr)
	stmts, perr := p.ParseProgram()
	require.Nil(t, perr)
	chunk, cerr := compiler.New().Compile(stmts)
	require.Nil(t, cerr)

	print := func(s string) { out += s }
	machine := New(print, builtins.New(print))
	return machine.Run(chunk), out
}

func TestVM_ArithmeticAndComparison(t *testing.T) {
	_, out := run(t, `x = 3; y = 4; if (x + y == 7) { print("ok"); } else { print("no"); }`)
	assert.Equal(t, "ok\n", out)
}

func TestVM_WhileLoop(t *testing.T) {
	_, out := run(t, `i = 0; while (i < 3) { print(i); i = i + 1; }`)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestVM_ClosureCapture(t *testing.T) {
	_, out := run(t, `def mk(x){ def add(y){ return x + y; } return add; } a = mk(5); print(a(3)); print(a(10));`)
	assert.Equal(t, "8\n15\n", out)
}

func TestVM_ShortCircuitReturnsOperand(t *testing.T) {
	_, out := run(t, `print(0 or "x"); print(1 and "y"); print(false or nil);`)
	assert.Equal(t, "x\ny\nnil\n", out)
}

func TestVM_ListAndIndex(t *testing.T) {
	_, out := run(t, `L = [10, 20, 30]; print(L[0] + L[2]); print(len(L));`)
	assert.Equal(t, "40\n3\n", out)
}

func TestVM_DivideByZero(t *testing.T) {
	result, _ := run(t, `x = 1 / 0;`)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.DivideByZero, errObj.Kind)
}

func TestVM_StackTraceOnNestedCallError(t *testing.T) {
	result, _ := run(t, `def f(){ return g(); } def g(){ return 1/0; } f();`)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.DivideByZero, errObj.Kind)
	require.Len(t, errObj.Stack, 2)
	assert.Equal(t, "g", errObj.Stack[0].Function)
	assert.Equal(t, "f", errObj.Stack[1].Function)
}

func TestVM_StackOverflow(t *testing.T) {
	result, _ := run(t, `def loop(n){ return loop(n + 1); } loop(0);`)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.StackOverflow, errObj.Kind)
}

func TestVM_ArityError(t *testing.T) {
	result, _ := run(t, `def add(a, b){ return a + b; } add(1);`)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.ArityError, errObj.Kind)
}

func TestVM_IndexOutOfRange(t *testing.T) {
	result, _ := run(t, `L = [1, 2]; x = L[5];`)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.IndexError, errObj.Kind)
}

func TestVM_NonIntegerIndexIsIndexError(t *testing.T) {
	result, _ := run(t, `L = [1, 2]; x = L[1.5];`)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.IndexError, errObj.Kind)
}

func TestVM_StringOrdering(t *testing.T) {
	_, out := run(t, `print("a" < "b"); print("b" < "a"); print("ab" <= "ab"); print("b" > "a"); print("a" >= "b");`)
	assert.Equal(t, "true\nfalse\ntrue\ntrue\nfalse\n", out)
}

func TestVM_StackIsEmptyAfterTopLevelStatements(t *testing.T) {
	var out string
	p, perr := parser.New(`x = 1; y = 2; print(x + y);`)
	require.Nil(t, perr)
	stmts, perr := p.ParseProgram()
	require.Nil(t, perr)
	chunk, cerr := compiler.New().Compile(stmts)
	require.Nil(t, cerr)
	print := func(s string) { out += s }
	machine := New(print, builtins.New(print))
	machine.Run(chunk)
	assert.Empty(t, machine.stack)
}
