// Package eval implements PyRaf's reference semantics: a tree-walking
// evaluator over the AST. It shares object.Value and object.Environment
// with the bytecode engine so both execution paths agree on every
// arithmetic, comparison, and call rule; only control flow differs.
package eval

import (
	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/object"
)

// DefaultMaxDepth bounds call-stack depth so unbounded user recursion
// fails with StackOverflow instead of exhausting the host Go stack.
const DefaultMaxDepth = 1000

// Importer resolves an import path to the environment exported by that
// module. The eval package only depends on this interface, not on any
// concrete cache implementation, so the module package (which needs to
// run an Evaluator over each imported file) can depend on eval without
// creating an import cycle.
type Importer interface {
	Import(path string) (*object.Environment, *object.Error)
}

// Evaluator walks an AST against a chain of lexical environments rooted
// at Global. It keeps an explicit call-frame stack (rather than relying
// on Go's own call stack depth) so every runtime error can be reported
// with a full PyRaf-level stack trace and so recursion is bounded.
type Evaluator struct {
	Global   *object.Environment
	Builtins map[string]*object.Builtin
	Print    func(string)
	Importer Importer
	MaxDepth int

	frames []object.Frame
}

// New creates an Evaluator with a fresh global environment.
func New(print func(string), builtins map[string]*object.Builtin) *Evaluator {
	return &Evaluator{
		Global:   object.NewEnvironment(nil),
		Builtins: builtins,
		Print:    print,
		MaxDepth: DefaultMaxDepth,
	}
}

// Run evaluates a top-level statement sequence against Global. It
// returns the last statement's value (mainly useful for the REPL) or an
// *object.Error the moment one occurs.
func (e *Evaluator) Run(stmts []ast.Stmt) object.Value {
	var result object.Value = object.NilValue
	for _, s := range stmts {
		result = e.evalStmt(s, e.Global)
		if isError(result) {
			return result
		}
		if rv, ok := result.(*object.ReturnValue); ok {
			return rv.Value
		}
	}
	return result
}

func isError(v object.Value) bool {
	_, ok := v.(*object.Error)
	return ok
}

// evalBlock runs a statement list in env, stopping early on the first
// error or the first ReturnValue (which it leaves wrapped so the caller,
// typically callFunction, can unwrap it at the function boundary).
func (e *Evaluator) evalBlock(stmts []ast.Stmt, env *object.Environment) object.Value {
	var result object.Value = object.NilValue
	for _, s := range stmts {
		result = e.evalStmt(s, env)
		if isError(result) {
			return result
		}
		if _, ok := result.(*object.ReturnValue); ok {
			return result
		}
	}
	return result
}

func (e *Evaluator) newError(kind object.ErrorKind, span ast.Span, format string, args ...interface{}) *object.Error {
	err := object.NewError(kind, object.Span{Line: span.Line, Column: span.Column}, format, args...)
	for i := len(e.frames) - 1; i >= 0; i-- {
		err.WithFrame(e.frames[i].Function, e.frames[i].Span)
	}
	return err
}
