package object

// Environment is a lexical scope: a name-to-value mapping linked to an
// optional parent scope. Lookup walks the parent chain; Assign writes to
// the innermost scope that already binds the name, creating the binding in
// the current scope only when no enclosing scope has it yet. The root
// environment (Parent == nil) holds built-ins and module-level bindings.
type Environment struct {
	vars   map[string]Value
	Parent *Environment
}

// NewEnvironment creates a scope whose parent is the given Environment, or
// a root scope when parent is nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), Parent: parent}
}

// Get looks up name in this scope and, failing that, every enclosing scope.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.vars[name]; ok {
		return v, true
	}
	if e.Parent != nil {
		return e.Parent.Get(name)
	}
	return nil, false
}

// Define binds name in THIS scope only, shadowing any outer binding of the
// same name. Used for function parameters and module-level definitions.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign writes to the innermost scope that already binds name, walking
// outward; if no scope binds it, it creates the binding in the CURRENT
// scope (the scope Assign was called on, not some ancestor). The bool
// result reports whether an existing binding was found and updated (false
// means a new binding was created here).
func (e *Environment) Assign(name string, v Value) bool {
	for scope := e; scope != nil; scope = scope.Parent {
		if _, ok := scope.vars[name]; ok {
			scope.vars[name] = v
			return true
		}
	}
	e.vars[name] = v
	return false
}

// Child creates a new scope nested under e, used for block/call/closure
// boundaries.
func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}

// CopyInto defines every binding of this scope (not its ancestors) into
// dst, used to flatten an imported module's top-level names into the
// importing environment.
func (e *Environment) CopyInto(dst *Environment) {
	for name, v := range e.vars {
		dst.Define(name, v)
	}
}
