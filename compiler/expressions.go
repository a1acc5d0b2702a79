package compiler

import (
	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/bytecode"
	"github.com/rafiyamo/pyraf/object"
)

func (c *Compiler) compileExpr(x ast.Expr) *object.Error {
	switch n := x.(type) {
	case *ast.NumberLit:
		idx := c.chunk.AddConstant(&object.Number{Value: n.Value})
		c.emit(bytecode.OpConst, int32(idx), n.Span())
		return nil

	case *ast.StringLit:
		idx := c.chunk.AddConstant(&object.String{Value: n.Value})
		c.emit(bytecode.OpConst, int32(idx), n.Span())
		return nil

	case *ast.BoolLit:
		idx := c.chunk.AddConstant(object.Bool(n.Value))
		c.emit(bytecode.OpConst, int32(idx), n.Span())
		return nil

	case *ast.NilLit:
		idx := c.chunk.AddConstant(object.NilValue)
		c.emit(bytecode.OpConst, int32(idx), n.Span())
		return nil

	case *ast.Ident:
		nameIdx := c.chunk.AddName(n.Name)
		c.emit(bytecode.OpLoad, int32(nameIdx), n.Span())
		return nil

	case *ast.ListLit:
		for _, el := range n.Elems {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emit(bytecode.OpBuildList, int32(len(n.Elems)), n.Span())
		return nil

	case *ast.Index:
		if err := c.compileExpr(n.Target); err != nil {
			return err
		}
		if err := c.compileExpr(n.Index); err != nil {
			return err
		}
		c.emit(bytecode.OpIndex, 0, n.Span())
		return nil

	case *ast.Unary:
		if err := c.compileExpr(n.Operand); err != nil {
			return err
		}
		switch n.Op {
		case ast.OpNeg:
			c.emit(bytecode.OpNeg, 0, n.Span())
		case ast.OpNot:
			c.emit(bytecode.OpNot, 0, n.Span())
		}
		return nil

	case *ast.Binary:
		return c.compileBinary(n)

	case *ast.Call:
		if err := c.compileExpr(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.emit(bytecode.OpCall, int32(len(n.Args)), n.Span())
		return nil

	case *ast.FuncExpr:
		proto, err := c.compileFuncProto("", n.Params, n.Body)
		if err != nil {
			return err
		}
		protoIdx := c.chunk.AddConstant(proto)
		c.emit(bytecode.OpMakeFunc, int32(protoIdx), n.Span())
		return nil

	default:
		return object.NewError(object.TypeError, object.Span{Line: x.Span().Line, Column: x.Span().Column}, "compiler: unhandled expression type %T", x)
	}
}

// compileBinary lowers and/or as short-circuiting jumps:
// `a and b` -> <a>; JUMP_IF_FALSE_KEEP L; POP; <b>; L:
// `a or b` -> <a>; JUMP_IF_TRUE_KEEP L; POP; <b>; L:
// Every other binary operator evaluates both operands unconditionally.
func (c *Compiler) compileBinary(n *ast.Binary) *object.Error {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		if err := c.compileExpr(n.Left); err != nil {
			return err
		}
		var shortCircuit bytecode.OpCode
		if n.Op == ast.OpAnd {
			shortCircuit = bytecode.OpJumpIfFalseKeep
		} else {
			shortCircuit = bytecode.OpJumpIfTrueKeep
		}
		end := c.emitJump(shortCircuit, n.Span())
		c.emit(bytecode.OpPop, 0, n.Span())
		if err := c.compileExpr(n.Right); err != nil {
			return err
		}
		c.patchJump(end)
		return nil
	}

	if err := c.compileExpr(n.Left); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right); err != nil {
		return err
	}

	op, ok := binaryOpCodes[n.Op]
	if !ok {
		return object.NewError(object.TypeError, object.Span{Line: n.Span().Line, Column: n.Span().Column}, "compiler: unknown binary operator %s", n.Op)
	}
	c.emit(op, 0, n.Span())
	return nil
}

var binaryOpCodes = map[ast.BinaryOp]bytecode.OpCode{
	ast.OpAdd: bytecode.OpAdd,
	ast.OpSub: bytecode.OpSub,
	ast.OpMul: bytecode.OpMul,
	ast.OpDiv: bytecode.OpDiv,
	ast.OpMod: bytecode.OpMod,
	ast.OpEq:  bytecode.OpEq,
	ast.OpNeq: bytecode.OpNe,
	ast.OpLt:  bytecode.OpLt,
	ast.OpLte: bytecode.OpLe,
	ast.OpGt:  bytecode.OpGt,
	ast.OpGte: bytecode.OpGe,
}
