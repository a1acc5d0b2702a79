package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders chunk as one line per instruction:
// `<offset:04>  <line>  <opcode>  <operand?>  ; <comment?>`, recursing
// into any FuncProto constants so a module's nested function bodies are
// printed after it, each under a header naming the function.
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	disassembleOne(&sb, chunk, name)
	return sb.String()
}

func disassembleOne(sb *strings.Builder, chunk *Chunk, name string) {
	fmt.Fprintf(sb, "== %s ==\n", name)
	for offset, instr := range chunk.Code {
		fmt.Fprintf(sb, "%04d  %4d  %-20s", offset, instr.Span.Line, instr.Op)
		if hasOperand(instr.Op) {
			fmt.Fprintf(sb, " %-6d", instr.Operand)
		} else {
			fmt.Fprint(sb, "       ")
		}
		if comment := operandComment(chunk, instr); comment != "" {
			fmt.Fprintf(sb, "  ; %s", comment)
		}
		fmt.Fprintln(sb)
	}

	for i, c := range chunk.Constants {
		if proto, ok := c.(*FuncProto); ok {
			disassembleOne(sb, proto.Body, fmt.Sprintf("%s.<const %d: %s>", name, i, proto.Name))
		}
	}
}

func operandComment(chunk *Chunk, instr Instruction) string {
	switch instr.Op {
	case OpConst, OpMakeFunc, OpImport:
		if int(instr.Operand) < len(chunk.Constants) {
			return chunk.Constants[instr.Operand].Inspect()
		}
	case OpLoad, OpStore:
		if int(instr.Operand) < len(chunk.Names) {
			return chunk.Names[instr.Operand]
		}
	}
	return ""
}
