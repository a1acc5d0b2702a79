package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/object"
)

func TestChunk_AddConstantAndEmit(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(&object.Number{Value: 42})
	assert.Equal(t, 0, idx)
	off := c.Emit(OpConst, int32(idx), ast.Span{Line: 1, Column: 1})
	assert.Equal(t, 0, off)
	assert.Len(t, c.Code, 1)
}

func TestChunk_AddNameReusesExistingEntry(t *testing.T) {
	c := NewChunk()
	a := c.AddName("x")
	b := c.AddName("y")
	c2 := c.AddName("x")
	assert.Equal(t, a, c2)
	assert.NotEqual(t, a, b)
}

func TestChunk_PatchRewritesOperand(t *testing.T) {
	c := NewChunk()
	off := c.Emit(OpJump, 0, ast.Span{})
	c.Patch(off, 5)
	assert.Equal(t, int32(5), c.Code[off].Operand)
}

func TestDisassemble_RendersOpcodesAndComments(t *testing.T) {
	c := NewChunk()
	idx := c.AddConstant(&object.Number{Value: 7})
	c.Emit(OpConst, int32(idx), ast.Span{Line: 1})
	nameIdx := c.AddName("x")
	c.Emit(OpStore, int32(nameIdx), ast.Span{Line: 1})
	c.Emit(OpReturn, 0, ast.Span{Line: 1})

	out := Disassemble(c, "<script>")
	assert.Contains(t, out, "== <script> ==")
	assert.Contains(t, out, "CONST")
	assert.Contains(t, out, "; 7")
	assert.Contains(t, out, "STORE")
	assert.Contains(t, out, "; x")
	assert.Contains(t, out, "RETURN")
}

func TestDisassemble_RecursesIntoFuncProto(t *testing.T) {
	outer := NewChunk()
	inner := NewChunk()
	inner.Emit(OpReturn, 0, ast.Span{})
	protoIdx := outer.AddConstant(&FuncProto{Name: "f", Params: []string{"a"}, Body: inner})
	outer.Emit(OpMakeFunc, int32(protoIdx), ast.Span{})

	out := Disassemble(outer, "<script>")
	assert.Contains(t, out, "<const 0: f>")
}
