// Package bytecode defines the compiled form the compiler emits and the
// VM executes: a flat instruction stream operating on an implicit
// operand stack, a constant pool, a name table, and a parallel span
// table for stack traces. A human-readable disassembly is also
// provided for the `dis` command.
package bytecode

import (
	"fmt"

	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/object"
)

// OpCode identifies one VM instruction.
type OpCode byte

const (
	OpConst OpCode = iota
	OpLoad
	OpStore
	OpPop
	OpNeg
	OpNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpJump
	OpJumpIfFalse
	OpJumpIfFalseKeep
	OpJumpIfTrueKeep
	OpCall
	OpReturn
	OpBuildList
	OpIndex
	OpMakeFunc
	OpImport
)

var opNames = map[OpCode]string{
	OpConst:           "CONST",
	OpLoad:            "LOAD",
	OpStore:           "STORE",
	OpPop:             "POP",
	OpNeg:             "NEG",
	OpNot:             "NOT",
	OpAdd:             "ADD",
	OpSub:             "SUB",
	OpMul:             "MUL",
	OpDiv:             "DIV",
	OpMod:             "MOD",
	OpEq:              "EQ",
	OpNe:              "NE",
	OpLt:              "LT",
	OpLe:              "LE",
	OpGt:              "GT",
	OpGe:              "GE",
	OpJump:            "JUMP",
	OpJumpIfFalse:     "JUMP_IF_FALSE",
	OpJumpIfFalseKeep: "JUMP_IF_FALSE_KEEP",
	OpJumpIfTrueKeep:  "JUMP_IF_TRUE_KEEP",
	OpCall:            "CALL",
	OpReturn:          "RETURN",
	OpBuildList:       "BUILD_LIST",
	OpIndex:           "INDEX",
	OpMakeFunc:        "MAKE_FUNC",
	OpImport:          "IMPORT",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// hasOperand reports whether op carries a single int32 operand in the
// instruction stream (every opcode except the zero-operand ones below).
func hasOperand(op OpCode) bool {
	switch op {
	case OpPop, OpNeg, OpNot, OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpReturn, OpIndex:
		return false
	default:
		return true
	}
}

// Instruction is one decoded bytecode instruction together with the
// source span it was compiled from, used both for VM stack traces and
// for disassembly.
type Instruction struct {
	Op      OpCode
	Operand int32 // meaning depends on Op: constant/name index, arg count, or signed jump offset
	Span    ast.Span
}

// FuncProto is a function descriptor stored in a chunk's constant pool.
// MAKE_FUNC pairs it with the current environment to form a closure.
type FuncProto struct {
	Name   string
	Params []string
	Body   *Chunk
}

// FuncProto satisfies object.Value so it can live in a Chunk's constant
// pool alongside ordinary literals; the VM never treats one as a callable
// directly, it's always unwrapped by OpMakeFunc into a vm.Closure first.
func (f *FuncProto) Type() object.ValueType { return object.FUNCTION }
func (f *FuncProto) Inspect() string {
	return fmt.Sprintf("<func-proto %s/%d>", displayProtoName(f.Name), len(f.Params))
}
func (f *FuncProto) String() string { return f.Inspect() }

func displayProtoName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

// Chunk is one compiled unit: a function body or a top-level module.
// Constants holds every literal value, function descriptor and import
// path used by CONST/MAKE_FUNC/IMPORT; Names holds every identifier
// referenced by LOAD/STORE, so instructions carry compact indices instead
// of repeating strings.
type Chunk struct {
	Code      []Instruction
	Constants []object.Value
	Names     []string
}

// NewChunk creates an empty chunk ready for emission.
func NewChunk() *Chunk {
	return &Chunk{}
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v object.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// AddName interns name in the name table, reusing an existing entry
// when name was already referenced by this chunk.
func (c *Chunk) AddName(name string) int {
	for i, n := range c.Names {
		if n == name {
			return i
		}
	}
	c.Names = append(c.Names, name)
	return len(c.Names) - 1
}

// Emit appends an instruction and returns its offset, used by the
// compiler to later patch jump operands once a branch's end is known.
func (c *Chunk) Emit(op OpCode, operand int32, span ast.Span) int {
	c.Code = append(c.Code, Instruction{Op: op, Operand: operand, Span: span})
	return len(c.Code) - 1
}

// Patch rewrites the operand of the instruction at offset, used for
// jump targets computed after the jump was emitted.
func (c *Chunk) Patch(offset int, operand int32) {
	c.Code[offset].Operand = operand
}
