package vm

import (
	"strings"

	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/bytecode"
	"github.com/rafiyamo/pyraf/eval"
	"github.com/rafiyamo/pyraf/object"
)

// DefaultMaxDepth mirrors eval.DefaultMaxDepth: recursion is bounded by
// call-frame stack depth, not by the host Go stack.
const DefaultMaxDepth = eval.DefaultMaxDepth

// VM executes a bytecode.Chunk against an explicit operand stack and
// call-frame stack. Its Global environment is its own; the Builtins
// registry passed to New can be the same one an evaluator uses, so both
// engines see the same built-in functions.
type VM struct {
	Global   *object.Environment
	Builtins map[string]*object.Builtin
	Print    func(string)
	Importer eval.Importer
	MaxDepth int

	stack  []object.Value
	frames []frame
}

// New creates a VM with a fresh global environment.
func New(print func(string), builtins map[string]*object.Builtin) *VM {
	return &VM{
		Global:   object.NewEnvironment(nil),
		Builtins: builtins,
		Print:    print,
		MaxDepth: DefaultMaxDepth,
	}
}

func (vm *VM) push(v object.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() object.Value {
	last := len(vm.stack) - 1
	v := vm.stack[last]
	vm.stack = vm.stack[:last]
	return v
}

func (vm *VM) peek() object.Value { return vm.stack[len(vm.stack)-1] }

// Run executes chunk as the top-level module, returning the last popped
// value (mainly for the REPL) or an *object.Error.
func (vm *VM) Run(chunk *bytecode.Chunk) object.Value {
	vm.frames = append(vm.frames, frame{chunk: chunk, env: vm.Global, name: "<script>"})
	result := vm.run()
	vm.frames = vm.frames[:0]
	return result
}

// run is the fetch-decode-dispatch loop. It returns either the last
// popped value when the outermost frame returns, or an *object.Error the
// moment one occurs.
func (vm *VM) run() object.Value {
	var lastPopped object.Value = object.NilValue

	for len(vm.frames) > 0 {
		f := &vm.frames[len(vm.frames)-1]
		if f.ip >= len(f.chunk.Code) {
			vm.frames = vm.frames[:len(vm.frames)-1]
			continue
		}
		instr := f.chunk.Code[f.ip]
		f.ip++

		switch instr.Op {
		case bytecode.OpConst:
			vm.push(f.chunk.Constants[instr.Operand])

		case bytecode.OpLoad:
			name := f.chunk.Names[instr.Operand]
			v, ok := f.env.Get(name)
			if !ok {
				if b, ok := vm.Builtins[name]; ok {
					v = b
				} else {
					return vm.runtimeError(object.NameError, instr.Span, "name %q is not defined", name)
				}
			}
			vm.push(v)

		case bytecode.OpStore:
			name := f.chunk.Names[instr.Operand]
			f.env.Assign(name, vm.pop())

		case bytecode.OpPop:
			lastPopped = vm.pop()

		case bytecode.OpNeg:
			num, ok := vm.pop().(*object.Number)
			if !ok {
				return vm.runtimeError(object.TypeError, instr.Span, "unary - requires a number")
			}
			vm.push(&object.Number{Value: -num.Value})

		case bytecode.OpNot:
			v := vm.pop()
			vm.push(object.Bool(!object.Truthy(v)))

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
			if err := vm.arith(instr); err != nil {
				return err
			}

		case bytecode.OpEq:
			b, a := vm.pop(), vm.pop()
			vm.push(object.Bool(object.Equal(a, b)))

		case bytecode.OpNe:
			b, a := vm.pop(), vm.pop()
			vm.push(object.Bool(!object.Equal(a, b)))

		case bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
			if err := vm.compare(instr); err != nil {
				return err
			}

		case bytecode.OpJump:
			f.ip += int(instr.Operand) - 1

		case bytecode.OpJumpIfFalse:
			cond := vm.pop()
			if !object.Truthy(cond) {
				f.ip += int(instr.Operand) - 1
			}

		case bytecode.OpJumpIfFalseKeep:
			if !object.Truthy(vm.peek()) {
				f.ip += int(instr.Operand) - 1
			}

		case bytecode.OpJumpIfTrueKeep:
			if object.Truthy(vm.peek()) {
				f.ip += int(instr.Operand) - 1
			}

		case bytecode.OpBuildList:
			n := int(instr.Operand)
			elems := make([]object.Value, n)
			copy(elems, vm.stack[len(vm.stack)-n:])
			vm.stack = vm.stack[:len(vm.stack)-n]
			vm.push(&object.List{Elements: elems})

		case bytecode.OpIndex:
			idx := vm.pop()
			target := vm.pop()
			result, err := vm.index(target, idx, instr.Span)
			if err != nil {
				return err
			}
			vm.push(result)

		case bytecode.OpMakeFunc:
			proto := f.chunk.Constants[instr.Operand].(*bytecode.FuncProto)
			vm.push(&Closure{Proto: proto, Env: f.env})

		case bytecode.OpCall:
			if err := vm.call(int(instr.Operand), instr.Span); err != nil {
				return err
			}

		case bytecode.OpReturn:
			result := vm.pop()
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return result
			}
			vm.push(result)

		case bytecode.OpImport:
			path := f.chunk.Constants[instr.Operand].(*object.String).Value
			if err := vm.doImport(path, f.env, instr.Span); err != nil {
				return err
			}

		default:
			return vm.runtimeError(object.TypeError, instr.Span, "vm: unknown opcode %s", instr.Op)
		}
	}

	return lastPopped
}

func (vm *VM) doImport(path string, env *object.Environment, span ast.Span) *object.Error {
	if vm.Importer == nil {
		return vm.runtimeError(object.ImportError, span, "imports are not supported in this context")
	}
	modEnv, err := vm.Importer.Import(path)
	if err != nil {
		return err
	}
	modEnv.CopyInto(env)
	return nil
}

func (vm *VM) arith(instr bytecode.Instruction) *object.Error {
	b, a := vm.pop(), vm.pop()

	if instr.Op == bytecode.OpAdd {
		if as, ok := a.(*object.String); ok {
			bs, ok := b.(*object.String)
			if !ok {
				return vm.runtimeError(object.TypeError, instr.Span, "cannot add %s and %s", a.Type(), b.Type())
			}
			vm.push(&object.String{Value: as.Value + bs.Value})
			return nil
		}
	}

	an, aok := a.(*object.Number)
	bn, bok := b.(*object.Number)
	if !aok || !bok {
		return vm.runtimeError(object.TypeError, instr.Span, "arithmetic requires numbers, got %s and %s", a.Type(), b.Type())
	}

	switch instr.Op {
	case bytecode.OpAdd:
		vm.push(&object.Number{Value: an.Value + bn.Value})
	case bytecode.OpSub:
		vm.push(&object.Number{Value: an.Value - bn.Value})
	case bytecode.OpMul:
		vm.push(&object.Number{Value: an.Value * bn.Value})
	case bytecode.OpDiv:
		if bn.Value == 0 {
			return vm.runtimeError(object.DivideByZero, instr.Span, "division by zero")
		}
		vm.push(&object.Number{Value: an.Value / bn.Value})
	case bytecode.OpMod:
		if bn.Value == 0 {
			return vm.runtimeError(object.DivideByZero, instr.Span, "division by zero")
		}
		vm.push(&object.Number{Value: float64(int64(an.Value) % int64(bn.Value))})
	}
	return nil
}

func (vm *VM) compare(instr bytecode.Instruction) *object.Error {
	b, a := vm.pop(), vm.pop()

	if as, ok := a.(*object.String); ok {
		bs, ok := b.(*object.String)
		if !ok {
			return vm.runtimeError(object.TypeError, instr.Span, "comparison requires two strings, got %s and %s", a.Type(), b.Type())
		}
		cmp := strings.Compare(as.Value, bs.Value)
		switch instr.Op {
		case bytecode.OpLt:
			vm.push(object.Bool(cmp < 0))
		case bytecode.OpLe:
			vm.push(object.Bool(cmp <= 0))
		case bytecode.OpGt:
			vm.push(object.Bool(cmp > 0))
		case bytecode.OpGe:
			vm.push(object.Bool(cmp >= 0))
		}
		return nil
	}

	an, aok := a.(*object.Number)
	bn, bok := b.(*object.Number)
	if !aok || !bok {
		return vm.runtimeError(object.TypeError, instr.Span, "comparison requires numbers, got %s and %s", a.Type(), b.Type())
	}
	switch instr.Op {
	case bytecode.OpLt:
		vm.push(object.Bool(an.Value < bn.Value))
	case bytecode.OpLe:
		vm.push(object.Bool(an.Value <= bn.Value))
	case bytecode.OpGt:
		vm.push(object.Bool(an.Value > bn.Value))
	case bytecode.OpGe:
		vm.push(object.Bool(an.Value >= bn.Value))
	}
	return nil
}

func (vm *VM) index(target, idx object.Value, span ast.Span) (object.Value, *object.Error) {
	list, ok := target.(*object.List)
	if !ok {
		return nil, vm.runtimeErrorAt(object.TypeError, span, "cannot index %s", target.Type())
	}
	num, ok := idx.(*object.Number)
	if !ok || !num.IsInt() {
		return nil, vm.runtimeErrorAt(object.IndexError, span, "list index must be an integer")
	}
	i := int(num.Value)
	if i < 0 || i >= len(list.Elements) {
		return nil, vm.runtimeErrorAt(object.IndexError, span, "list index %d out of range (length %d)", i, len(list.Elements))
	}
	return list.Elements[i], nil
}

// call dispatches CALL n: n argument values plus the callee sit on top
// of the operand stack, callee deepest.
func (vm *VM) call(n int, span ast.Span) *object.Error {
	args := make([]object.Value, n)
	copy(args, vm.stack[len(vm.stack)-n:])
	vm.stack = vm.stack[:len(vm.stack)-n]
	callee := vm.pop()

	switch fn := callee.(type) {
	case *object.Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return vm.runtimeErrorAt(object.ArityError, span, "%s() expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		if fn.Arity == -1 && len(args) == 0 {
			return vm.runtimeErrorAt(object.ArityError, span, "%s() expects at least 1 argument, got 0", fn.Name)
		}
		result := fn.Handler(args)
		if errVal, ok := result.(*object.Error); ok {
			return vm.runtimeErrorAt(errVal.Kind, span, "%s", errVal.Message)
		}
		vm.push(result)
		return nil

	case *Closure:
		if len(args) != len(fn.Proto.Params) {
			return vm.runtimeErrorAt(object.ArityError, span, "%s() expects %d argument(s), got %d", displayName(fn.Proto.Name), len(fn.Proto.Params), len(args))
		}
		if len(vm.frames)-1 >= vm.MaxDepth { // the <script> frame is not a call
			return vm.runtimeErrorAt(object.StackOverflow, span, "maximum recursion depth (%d) exceeded", vm.MaxDepth)
		}
		callEnv := object.NewEnvironment(fn.Env)
		for i, p := range fn.Proto.Params {
			callEnv.Define(p, args[i])
		}
		vm.frames = append(vm.frames, frame{chunk: fn.Proto.Body, env: callEnv, name: displayName(fn.Proto.Name), callSite: object.Span{Line: span.Line, Column: span.Column}})
		return nil

	default:
		return vm.runtimeErrorAt(object.TypeError, span, "%s is not callable", callee.Type())
	}
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

// runtimeError builds an error at the current frame's instruction span,
// capturing every call frame above the top-level <script> frame
// (innermost first).
func (vm *VM) runtimeError(kind object.ErrorKind, span ast.Span, format string, args ...interface{}) *object.Error {
	return vm.runtimeErrorAt(kind, span, format, args...)
}

func (vm *VM) runtimeErrorAt(kind object.ErrorKind, span ast.Span, format string, args ...interface{}) *object.Error {
	err := object.NewError(kind, object.Span{Line: span.Line, Column: span.Column}, format, args...)
	// frames[0] is the top-level <script> frame pushed by Run, not a call.
	for i := len(vm.frames) - 1; i >= 1; i-- {
		err.WithFrame(vm.frames[i].name, vm.frames[i].callSite)
	}
	return err
}
