// Package compiler lowers an AST statement sequence into a bytecode.Chunk
// for the stack VM. Forward jumps are emitted with a placeholder operand
// and patched once the jump target offset is known, the same
// emit-then-patch idiom used by every bytecode compiler in the corpus.
package compiler

import (
	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/bytecode"
	"github.com/rafiyamo/pyraf/object"
)

// Compiler emits into a single chunk at a time; compiling a nested
// function pushes a fresh Compiler over a fresh chunk and splices the
// result back as a FuncProto constant in the enclosing chunk.
type Compiler struct {
	chunk *bytecode.Chunk
}

// New creates a Compiler over a fresh, empty chunk.
func New() *Compiler {
	return &Compiler{chunk: bytecode.NewChunk()}
}

// Compile lowers a top-level statement sequence into this Compiler's
// chunk and returns it.
func (c *Compiler) Compile(stmts []ast.Stmt) (*bytecode.Chunk, *object.Error) {
	for _, s := range stmts {
		if err := c.compileStmt(s); err != nil {
			return nil, err
		}
	}
	return c.chunk, nil
}

func (c *Compiler) emit(op bytecode.OpCode, operand int32, span ast.Span) int {
	return c.chunk.Emit(op, operand, span)
}

// emitJump emits a jump with a placeholder operand and returns its
// offset, to be filled in later by patchJump.
func (c *Compiler) emitJump(op bytecode.OpCode, span ast.Span) int {
	return c.emit(op, 0, span)
}

// patchJump sets the jump at offset to land just after the last
// instruction emitted so far.
func (c *Compiler) patchJump(offset int) {
	target := int32(len(c.chunk.Code))
	c.chunk.Patch(offset, target-int32(offset))
}

// patchJumpTo sets the jump at offset to land at an explicit target
// offset, used for backward jumps (loop heads).
func (c *Compiler) patchJumpTo(offset int, target int) {
	c.chunk.Patch(offset, int32(target)-int32(offset))
}

func (c *Compiler) compileStmt(s ast.Stmt) *object.Error {
	switch n := s.(type) {
	case *ast.ExprStmt:
		if err := c.compileExpr(n.X); err != nil {
			return err
		}
		c.emit(bytecode.OpPop, 0, n.Span())
		return nil

	case *ast.Assign:
		if err := c.compileExpr(n.Value); err != nil {
			return err
		}
		nameIdx := c.chunk.AddName(n.Name)
		c.emit(bytecode.OpStore, int32(nameIdx), n.Span())
		return nil

	case *ast.Block:
		for _, stmt := range n.Stmts {
			if err := c.compileStmt(stmt); err != nil {
				return err
			}
		}
		return nil

	case *ast.If:
		return c.compileIf(n)

	case *ast.While:
		return c.compileWhile(n)

	case *ast.FuncDecl:
		proto, err := c.compileFuncProto(n.Name, n.Params, n.Body)
		if err != nil {
			return err
		}
		protoIdx := c.chunk.AddConstant(proto)
		c.emit(bytecode.OpMakeFunc, int32(protoIdx), n.Span())
		nameIdx := c.chunk.AddName(n.Name)
		c.emit(bytecode.OpStore, int32(nameIdx), n.Span())
		return nil

	case *ast.Return:
		if n.X == nil {
			nilIdx := c.chunk.AddConstant(object.NilValue)
			c.emit(bytecode.OpConst, int32(nilIdx), n.Span())
		} else if err := c.compileExpr(n.X); err != nil {
			return err
		}
		c.emit(bytecode.OpReturn, 0, n.Span())
		return nil

	case *ast.Import:
		pathIdx := c.chunk.AddConstant(&object.String{Value: n.Path})
		c.emit(bytecode.OpImport, int32(pathIdx), n.Span())
		return nil

	default:
		return object.NewError(object.TypeError, object.Span{Line: s.Span().Line, Column: s.Span().Column}, "compiler: unhandled statement type %T", s)
	}
}

func (c *Compiler) compileIf(n *ast.If) *object.Error {
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	elseJump := c.emitJump(bytecode.OpJumpIfFalse, n.Span())
	if err := c.compileStmt(n.Then); err != nil {
		return err
	}
	endJump := c.emitJump(bytecode.OpJump, n.Span())
	c.patchJump(elseJump)
	if n.Else != nil {
		if err := c.compileStmt(n.Else); err != nil {
			return err
		}
	}
	c.patchJump(endJump)
	return nil
}

func (c *Compiler) compileWhile(n *ast.While) *object.Error {
	loopStart := len(c.chunk.Code)
	if err := c.compileExpr(n.Cond); err != nil {
		return err
	}
	exitJump := c.emitJump(bytecode.OpJumpIfFalse, n.Span())
	if err := c.compileStmt(n.Body); err != nil {
		return err
	}
	backJump := c.emitJump(bytecode.OpJump, n.Span())
	c.patchJumpTo(backJump, loopStart)
	c.patchJump(exitJump)
	return nil
}

// compileFuncProto compiles a function body into its own chunk, nested
// inside a fresh sub-compiler, and returns the resulting descriptor. A
// body that can fall off its end gets an implicit `return nil;`.
func (c *Compiler) compileFuncProto(name string, params []string, body *ast.Block) (*bytecode.FuncProto, *object.Error) {
	sub := New()
	for _, stmt := range body.Stmts {
		if err := sub.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	if n := len(body.Stmts); n > 0 {
		if _, ok := body.Stmts[n-1].(*ast.Return); ok {
			return &bytecode.FuncProto{Name: name, Params: params, Body: sub.chunk}, nil
		}
	}
	nilIdx := sub.chunk.AddConstant(object.NilValue)
	sub.emit(bytecode.OpConst, int32(nilIdx), body.Span())
	sub.emit(bytecode.OpReturn, 0, body.Span())
	return &bytecode.FuncProto{Name: name, Params: params, Body: sub.chunk}, nil
}
