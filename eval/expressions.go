package eval

import (
	"strings"

	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/object"
)

func (e *Evaluator) evalExpr(x ast.Expr, env *object.Environment) object.Value {
	switch n := x.(type) {
	case *ast.NumberLit:
		return &object.Number{Value: n.Value}
	case *ast.StringLit:
		return &object.String{Value: n.Value}
	case *ast.BoolLit:
		return object.Bool(n.Value)
	case *ast.NilLit:
		return object.NilValue
	case *ast.Ident:
		if v, ok := env.Get(n.Name); ok {
			return v
		}
		if b, ok := e.Builtins[n.Name]; ok {
			return b
		}
		return e.newError(object.NameError, n.Span(), "name %q is not defined", n.Name)
	case *ast.ListLit:
		return e.evalListLit(n, env)
	case *ast.Index:
		return e.evalIndex(n, env)
	case *ast.Unary:
		return e.evalUnary(n, env)
	case *ast.Binary:
		return e.evalBinary(n, env)
	case *ast.Call:
		return e.evalCall(n, env)
	case *ast.FuncExpr:
		return &object.Function{Params: n.Params, Body: n.Body, Env: env}
	default:
		return e.newError(object.TypeError, x.Span(), "unhandled expression type %T", x)
	}
}

func (e *Evaluator) evalListLit(n *ast.ListLit, env *object.Environment) object.Value {
	elems := make([]object.Value, len(n.Elems))
	for i, el := range n.Elems {
		v := e.evalExpr(el, env)
		if isError(v) {
			return v
		}
		elems[i] = v
	}
	return &object.List{Elements: elems}
}

func (e *Evaluator) evalIndex(n *ast.Index, env *object.Environment) object.Value {
	target := e.evalExpr(n.Target, env)
	if isError(target) {
		return target
	}
	idx := e.evalExpr(n.Index, env)
	if isError(idx) {
		return idx
	}
	list, ok := target.(*object.List)
	if !ok {
		return e.newError(object.TypeError, n.Span(), "cannot index %s", target.Type())
	}
	num, ok := idx.(*object.Number)
	if !ok || !num.IsInt() {
		return e.newError(object.IndexError, n.Span(), "list index must be an integer")
	}
	i := int(num.Value)
	if i < 0 || i >= len(list.Elements) {
		return e.newError(object.IndexError, n.Span(), "list index %d out of range (length %d)", i, len(list.Elements))
	}
	return list.Elements[i]
}

func (e *Evaluator) evalUnary(n *ast.Unary, env *object.Environment) object.Value {
	operand := e.evalExpr(n.Operand, env)
	if isError(operand) {
		return operand
	}
	switch n.Op {
	case ast.OpNeg:
		num, ok := operand.(*object.Number)
		if !ok {
			return e.newError(object.TypeError, n.Span(), "unary - requires a number, got %s", operand.Type())
		}
		return &object.Number{Value: -num.Value}
	case ast.OpNot:
		return object.Bool(!object.Truthy(operand))
	default:
		return e.newError(object.TypeError, n.Span(), "unknown unary operator %s", n.Op)
	}
}

// evalBinary handles `and`/`or` with short-circuit evaluation, returning
// the deciding operand itself (not a coerced bool), then evaluates both
// operands for every other operator.
func (e *Evaluator) evalBinary(n *ast.Binary, env *object.Environment) object.Value {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		left := e.evalExpr(n.Left, env)
		if isError(left) {
			return left
		}
		truthy := object.Truthy(left)
		if n.Op == ast.OpAnd && !truthy {
			return left
		}
		if n.Op == ast.OpOr && truthy {
			return left
		}
		return e.evalExpr(n.Right, env)
	}

	left := e.evalExpr(n.Left, env)
	if isError(left) {
		return left
	}
	right := e.evalExpr(n.Right, env)
	if isError(right) {
		return right
	}

	switch n.Op {
	case ast.OpEq:
		return object.Bool(object.Equal(left, right))
	case ast.OpNeq:
		return object.Bool(!object.Equal(left, right))
	}

	ln, lok := left.(*object.Number)
	rn, rok := right.(*object.Number)

	if n.Op == ast.OpAdd {
		if ls, ok := left.(*object.String); ok {
			if rs, ok := right.(*object.String); ok {
				return &object.String{Value: ls.Value + rs.Value}
			}
			return e.newError(object.TypeError, n.Span(), "cannot add %s and %s", left.Type(), right.Type())
		}
	}

	switch n.Op {
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		if ls, ok := left.(*object.String); ok {
			rs, ok := right.(*object.String)
			if !ok {
				return e.newError(object.TypeError, n.Span(), "operator %s requires two strings, got %s and %s", n.Op, left.Type(), right.Type())
			}
			cmp := strings.Compare(ls.Value, rs.Value)
			switch n.Op {
			case ast.OpLt:
				return object.Bool(cmp < 0)
			case ast.OpLte:
				return object.Bool(cmp <= 0)
			case ast.OpGt:
				return object.Bool(cmp > 0)
			default:
				return object.Bool(cmp >= 0)
			}
		}
	}

	if !lok || !rok {
		return e.newError(object.TypeError, n.Span(), "operator %s requires numbers, got %s and %s", n.Op, left.Type(), right.Type())
	}

	switch n.Op {
	case ast.OpAdd:
		return &object.Number{Value: ln.Value + rn.Value}
	case ast.OpSub:
		return &object.Number{Value: ln.Value - rn.Value}
	case ast.OpMul:
		return &object.Number{Value: ln.Value * rn.Value}
	case ast.OpDiv:
		if rn.Value == 0 {
			return e.newError(object.DivideByZero, n.Span(), "division by zero")
		}
		return &object.Number{Value: ln.Value / rn.Value}
	case ast.OpMod:
		if rn.Value == 0 {
			return e.newError(object.DivideByZero, n.Span(), "division by zero")
		}
		return &object.Number{Value: float64(int64(ln.Value) % int64(rn.Value))}
	case ast.OpLt:
		return object.Bool(ln.Value < rn.Value)
	case ast.OpLte:
		return object.Bool(ln.Value <= rn.Value)
	case ast.OpGt:
		return object.Bool(ln.Value > rn.Value)
	case ast.OpGte:
		return object.Bool(ln.Value >= rn.Value)
	default:
		return e.newError(object.TypeError, n.Span(), "unknown binary operator %s", n.Op)
	}
}

func (e *Evaluator) evalCall(n *ast.Call, env *object.Environment) object.Value {
	callee := e.evalExpr(n.Callee, env)
	if isError(callee) {
		return callee
	}
	args := make([]object.Value, len(n.Args))
	for i, a := range n.Args {
		v := e.evalExpr(a, env)
		if isError(v) {
			return v
		}
		args[i] = v
	}
	return e.callValue(callee, args, n.Span())
}

// callValue dispatches a call to either a user function or a builtin,
// pushing/popping a call-stack frame so runtime errors carry a trace.
func (e *Evaluator) callValue(callee object.Value, args []object.Value, span ast.Span) object.Value {
	switch fn := callee.(type) {
	case *object.Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return e.newError(object.ArityError, span, "%s() expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		if fn.Arity == -1 && len(args) == 0 {
			return e.newError(object.ArityError, span, "%s() expects at least 1 argument, got 0", fn.Name)
		}
		result := fn.Handler(args)
		if errVal, ok := result.(*object.Error); ok {
			return e.newError(errVal.Kind, span, "%s", errVal.Message)
		}
		return result
	case *object.Function:
		return e.callFunction(fn, args, span)
	default:
		return e.newError(object.TypeError, span, "%s is not callable", callee.Type())
	}
}

func (e *Evaluator) callFunction(fn *object.Function, args []object.Value, span ast.Span) object.Value {
	if len(args) != len(fn.Params) {
		return e.newError(object.ArityError, span, "%s() expects %d argument(s), got %d", displayName(fn.Name), len(fn.Params), len(args))
	}
	if len(e.frames) >= e.MaxDepth {
		return e.newError(object.StackOverflow, span, "maximum recursion depth (%d) exceeded", e.MaxDepth)
	}

	callEnv := object.NewEnvironment(fn.Env)
	for i, p := range fn.Params {
		callEnv.Define(p, args[i])
	}

	e.frames = append(e.frames, object.Frame{Function: displayName(fn.Name), Span: object.Span{Line: span.Line, Column: span.Column}})
	result := e.evalBlock(fn.Body.Stmts, callEnv)
	e.frames = e.frames[:len(e.frames)-1]

	if isError(result) {
		return result
	}
	if rv, ok := result.(*object.ReturnValue); ok {
		return rv.Value
	}
	return object.NilValue
}

func displayName(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
