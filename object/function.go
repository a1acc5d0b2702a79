package object

import (
	"fmt"
	"strings"

	"github.com/rafiyamo/pyraf/ast"
)

// Function is a user-defined closure as executed by the tree-walking
// evaluator: a parameter list, a body block, and the environment in which
// the function was defined. The bytecode engine uses its own closure
// representation (vm.Closure) over a compiled chunk instead of an AST body;
// both satisfy Value so the rest of the runtime (equality, calling
// convention, printing) doesn't care which engine produced the callable.
type Function struct {
	Name   string
	Params []string
	Body   *ast.Block
	Env    *Environment
}

func (f *Function) Type() ValueType { return FUNCTION }

func (f *Function) Inspect() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("<func %s(%s)>", name, strings.Join(f.Params, ", "))
}

func (f *Function) String() string { return f.Inspect() }

// BuiltinFn is the Go-side implementation of a built-in function.
type BuiltinFn func(args []Value) Value

// Builtin wraps a native Go function so it can be called like any other
// PyRaf function value. Arity is fixed for most built-ins; -1 marks a
// variadic builtin (e.g. print(x1, ...)).
type Builtin struct {
	Name    string
	Arity   int
	Handler BuiltinFn
}

func (b *Builtin) Type() ValueType { return BUILTIN }
func (b *Builtin) Inspect() string { return fmt.Sprintf("<builtin %s>", b.Name) }
func (b *Builtin) String() string  { return b.Inspect() }
