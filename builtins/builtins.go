// Package builtins implements the global functions every PyRaf program
// sees without an import: print, len, str, num, and type. Both execution
// engines share the same registry, built once per run over the engine's
// chosen output writer.
package builtins

import (
	"strconv"
	"strings"

	"github.com/rafiyamo/pyraf/object"
)

// New builds the built-in registry, writing print's output to out.
func New(out func(string)) map[string]*object.Builtin {
	reg := map[string]*object.Builtin{}
	add := func(name string, arity int, fn object.BuiltinFn) {
		reg[name] = &object.Builtin{Name: name, Arity: arity, Handler: fn}
	}

	add("print", -1, func(args []object.Value) object.Value {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		out(strings.Join(parts, " ") + "\n")
		return object.NilValue
	})

	add("len", 1, func(args []object.Value) object.Value {
		switch v := args[0].(type) {
		case *object.String:
			return &object.Number{Value: float64(len(v.Value))}
		case *object.List:
			return &object.Number{Value: float64(len(v.Elements))}
		default:
			return object.NewError(object.TypeError, object.Span{},
				"len() not supported on %s", v.Type())
		}
	})

	add("str", 1, func(args []object.Value) object.Value {
		return &object.String{Value: args[0].String()}
	})

	add("num", 1, func(args []object.Value) object.Value {
		s, ok := args[0].(*object.String)
		if !ok {
			return object.NewError(object.TypeError, object.Span{},
				"num() expects a string, got %s", args[0].Type())
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
		if err != nil {
			return object.NewError(object.ValueError, object.Span{},
				"num(): cannot parse %q as a number", s.Value)
		}
		return &object.Number{Value: f}
	})

	add("type", 1, func(args []object.Value) object.Value {
		return &object.String{Value: string(args[0].Type())}
	})

	return reg
}

// CheckArity reports an ArityError if args doesn't match b's declared
// arity. Variadic builtins (Arity == -1) require at least one argument.
func CheckArity(b *object.Builtin, args []object.Value) *object.Error {
	if b.Arity == -1 {
		if len(args) == 0 {
			return object.NewError(object.ArityError, object.Span{},
				"%s() expects at least 1 argument, got 0", b.Name)
		}
		return nil
	}
	if len(args) != b.Arity {
		return object.NewError(object.ArityError, object.Span{},
			"%s() expects %d argument(s), got %d", b.Name, b.Arity, len(args))
	}
	return nil
}

// CallResult normalizes a builtin's raw return value: *object.Error stays
// an error, everything else is the successful result.
func CallResult(v object.Value) (object.Value, *object.Error) {
	if e, ok := v.(*object.Error); ok {
		return nil, e
	}
	return v, nil
}
