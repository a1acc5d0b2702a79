package eval

import (
	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/object"
)

func (e *Evaluator) evalStmt(s ast.Stmt, env *object.Environment) object.Value {
	switch n := s.(type) {
	case *ast.ExprStmt:
		return e.evalExpr(n.X, env)
	case *ast.Assign:
		val := e.evalExpr(n.Value, env)
		if isError(val) {
			return val
		}
		env.Assign(n.Name, val)
		return val
	case *ast.Block:
		return e.evalBlock(n.Stmts, object.NewEnvironment(env))
	case *ast.If:
		return e.evalIf(n, env)
	case *ast.While:
		return e.evalWhile(n, env)
	case *ast.FuncDecl:
		fn := &object.Function{Name: n.Name, Params: n.Params, Body: n.Body, Env: env}
		env.Define(n.Name, fn)
		return fn
	case *ast.Return:
		if n.X == nil {
			return &object.ReturnValue{Value: object.NilValue}
		}
		val := e.evalExpr(n.X, env)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}
	case *ast.Import:
		return e.evalImport(n, env)
	default:
		return e.newError(object.TypeError, s.Span(), "unhandled statement type %T", s)
	}
}

func (e *Evaluator) evalIf(n *ast.If, env *object.Environment) object.Value {
	cond := e.evalExpr(n.Cond, env)
	if isError(cond) {
		return cond
	}
	if object.Truthy(cond) {
		return e.evalBlock(n.Then.Stmts, object.NewEnvironment(env))
	}
	if n.Else != nil {
		return e.evalBlock(n.Else.Stmts, object.NewEnvironment(env))
	}
	return object.NilValue
}

func (e *Evaluator) evalWhile(n *ast.While, env *object.Environment) object.Value {
	for {
		cond := e.evalExpr(n.Cond, env)
		if isError(cond) {
			return cond
		}
		if !object.Truthy(cond) {
			return object.NilValue
		}
		result := e.evalBlock(n.Body.Stmts, object.NewEnvironment(env))
		if isError(result) {
			return result
		}
		if _, ok := result.(*object.ReturnValue); ok {
			return result
		}
	}
}

// evalImport runs the imported module once (the Importer caches by
// path) and copies its exported bindings into env under the module's
// base name, so `import "m.raf"; print(m.sq(4));`-style dotted access
// isn't required for the flat top-level names PyRaf's grammar produces:
// every binding the module defines at its top level becomes visible by
// plain name in the importing environment, matching the single flat
// namespace `import "m.raf";` examples in end-to-end scenarios.
func (e *Evaluator) evalImport(n *ast.Import, env *object.Environment) object.Value {
	if e.Importer == nil {
		return e.newError(object.ImportError, n.Span(), "imports are not supported in this context")
	}
	modEnv, err := e.Importer.Import(n.Path)
	if err != nil {
		return err
	}
	modEnv.CopyInto(env)
	return object.NilValue
}
