package ast

import (
	"bytes"
	"fmt"
)

const debugIndentSize = 2

// printer walks a tree writing one indented line per node into Buf.
type printer struct {
	indent int
	buf    bytes.Buffer
}

func (p *printer) writeln(format string, args ...interface{}) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte(' ')
	}
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) down(f func()) {
	p.indent += debugIndentSize
	f()
	p.indent -= debugIndentSize
}

// DebugPrint renders a statement tree as an indented, human-readable dump,
// one node per line with its span. Used by the `dis` command path when
// asked to show the parsed tree ahead of its compiled form.
func DebugPrint(stmts []Stmt) string {
	p := &printer{}
	for _, s := range stmts {
		p.stmt(s)
	}
	return p.buf.String()
}

func (p *printer) stmt(s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		p.writeln("ExprStmt @%s: %s", n.Span(), n.X)
		p.down(func() { p.expr(n.X) })
	case *Assign:
		p.writeln("Assign @%s: %s = ...", n.Span(), n.Name)
		p.down(func() { p.expr(n.Value) })
	case *Block:
		p.writeln("Block @%s", n.Span())
		p.down(func() {
			for _, s := range n.Stmts {
				p.stmt(s)
			}
		})
	case *If:
		p.writeln("If @%s: %s", n.Span(), n.Cond)
		p.down(func() {
			p.stmt(n.Then)
			if n.Else != nil {
				p.stmt(n.Else)
			}
		})
	case *While:
		p.writeln("While @%s: %s", n.Span(), n.Cond)
		p.down(func() { p.stmt(n.Body) })
	case *FuncDecl:
		p.writeln("FuncDecl @%s: %s(%v)", n.Span(), n.Name, n.Params)
		p.down(func() { p.stmt(n.Body) })
	case *Return:
		p.writeln("Return @%s", n.Span())
		if n.X != nil {
			p.down(func() { p.expr(n.X) })
		}
	case *Import:
		p.writeln("Import @%s: %q", n.Span(), n.Path)
	default:
		p.writeln("<unknown stmt %T>", n)
	}
}

func (p *printer) expr(e Expr) {
	switch n := e.(type) {
	case *NumberLit:
		p.writeln("NumberLit @%s: %s", n.Span(), n.Text)
	case *StringLit:
		p.writeln("StringLit @%s: %q", n.Span(), n.Value)
	case *BoolLit:
		p.writeln("BoolLit @%s: %t", n.Span(), n.Value)
	case *NilLit:
		p.writeln("NilLit @%s", n.Span())
	case *Ident:
		p.writeln("Ident @%s: %s", n.Span(), n.Name)
	case *ListLit:
		p.writeln("ListLit @%s: len=%d", n.Span(), len(n.Elems))
		p.down(func() {
			for _, el := range n.Elems {
				p.expr(el)
			}
		})
	case *Index:
		p.writeln("Index @%s", n.Span())
		p.down(func() {
			p.expr(n.Target)
			p.expr(n.Index)
		})
	case *Call:
		p.writeln("Call @%s: argc=%d", n.Span(), len(n.Args))
		p.down(func() {
			p.expr(n.Callee)
			for _, a := range n.Args {
				p.expr(a)
			}
		})
	case *Unary:
		p.writeln("Unary @%s: %s", n.Span(), n.Op)
		p.down(func() { p.expr(n.Operand) })
	case *Binary:
		p.writeln("Binary @%s: %s", n.Span(), n.Op)
		p.down(func() {
			p.expr(n.Left)
			p.expr(n.Right)
		})
	case *FuncExpr:
		p.writeln("FuncExpr @%s: params=%v", n.Span(), n.Params)
		p.down(func() { p.stmt(n.Body) })
	default:
		p.writeln("<unknown expr %T>", n)
	}
}
