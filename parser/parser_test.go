package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiyamo/pyraf/ast"
)

func parseOK(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	p, err := New(src)
	require.Nil(t, err)
	stmts, err := p.ParseProgram()
	require.Nil(t, err)
	return stmts
}

func TestParser_AssignAndArithmeticPrecedence(t *testing.T) {
	stmts := parseOK(t, "x = 1 + 2 * 3;")
	require.Len(t, stmts, 1)
	assign, ok := stmts[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
	bin, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestParser_NotBindsTighterThanAnd(t *testing.T) {
	stmts := parseOK(t, "x = not a and b;")
	assign := stmts[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, top.Op)
	left, ok := top.Left.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, ast.OpNot, left.Op)
}

func TestParser_CallAndIndexBindTighterThanUnaryMinus(t *testing.T) {
	stmts := parseOK(t, "x = -a[0];")
	assign := stmts[0].(*ast.Assign)
	neg, ok := assign.Value.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, ast.OpNeg, neg.Op)
	_, ok = neg.Operand.(*ast.Index)
	assert.True(t, ok)
}

func TestParser_IfElse(t *testing.T) {
	stmts := parseOK(t, "if (x < 1) { y = 1; } else { y = 2; }")
	require.Len(t, stmts, 1)
	ifstmt, ok := stmts[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifstmt.Else)
	assert.Len(t, ifstmt.Then.Stmts, 1)
	assert.Len(t, ifstmt.Else.Stmts, 1)
}

func TestParser_While(t *testing.T) {
	stmts := parseOK(t, "while (x < 10) { x = x + 1; }")
	w, ok := stmts[0].(*ast.While)
	require.True(t, ok)
	assert.Len(t, w.Body.Stmts, 1)
}

func TestParser_FuncDecl(t *testing.T) {
	stmts := parseOK(t, "def add(a, b) { return a + b; }")
	fn, ok := stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.Return)
	require.True(t, ok)
	assert.NotNil(t, ret.X)
}

func TestParser_CallArgs(t *testing.T) {
	stmts := parseOK(t, "print(1, 2, 3);")
	es, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := es.X.(*ast.Call)
	require.True(t, ok)
	assert.Len(t, call.Args, 3)
}

func TestParser_ListLiteralNested(t *testing.T) {
	stmts := parseOK(t, "x = [1, [2, 3]];")
	assign := stmts[0].(*ast.Assign)
	list, ok := assign.Value.(*ast.ListLit)
	require.True(t, ok)
	require.Len(t, list.Elems, 2)
	_, ok = list.Elems[1].(*ast.ListLit)
	assert.True(t, ok)
}

func TestParser_Import(t *testing.T) {
	stmts := parseOK(t, `import "mathutil";`)
	imp, ok := stmts[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "mathutil", imp.Path)
}

func TestParser_ReturnWithoutValue(t *testing.T) {
	stmts := parseOK(t, "def f() { return; }")
	fn := stmts[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.Return)
	assert.Nil(t, ret.X)
}

func TestParser_MissingSemicolonIsError(t *testing.T) {
	p, err := New("x = 1")
	require.Nil(t, err)
	_, perr := p.ParseProgram()
	require.NotNil(t, perr)
	assert.Equal(t, "ParseError", string(perr.Kind))
}

func TestParser_UnexpectedTokenInExpression(t *testing.T) {
	p, err := New("x = ;")
	require.Nil(t, err)
	_, perr := p.ParseProgram()
	require.NotNil(t, perr)
	assert.Equal(t, "ParseError", string(perr.Kind))
}
