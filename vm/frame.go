// Package vm implements the stack-based virtual machine that executes a
// bytecode.Chunk. It must be observably equivalent to the tree-walking
// evaluator for every program the parser accepts: same print output,
// same error kind on failure.
package vm

import (
	"github.com/rafiyamo/pyraf/bytecode"
	"github.com/rafiyamo/pyraf/object"
)

// Closure pairs a compiled function body with the environment it
// closed over at the point MAKE_FUNC executed, the VM's equivalent of
// object.Function for the tree-walking evaluator.
type Closure struct {
	Proto *bytecode.FuncProto
	Env   *object.Environment
}

func (c *Closure) Type() object.ValueType { return object.FUNCTION }
func (c *Closure) Inspect() string {
	name := c.Proto.Name
	if name == "" {
		name = "<anonymous>"
	}
	return "<func " + name + ">"
}
func (c *Closure) String() string { return c.Inspect() }

// frame is one entry of the VM's call-frame stack: the chunk being
// executed, the instruction pointer into it, the environment
// parameters/locals resolve against, and the span of the CALL
// instruction (in the caller) that pushed this frame — the same
// (function_name, call_site_span) pairing the tree-walking evaluator
// keeps, so both engines render identical stack traces.
type frame struct {
	chunk    *bytecode.Chunk
	ip       int
	env      *object.Environment
	name     string
	callSite object.Span
}
