// Package repl implements the interactive Read-Eval-Print Loop: a
// readline-backed prompt that feeds each line (or multi-line block) to
// either the tree-walking evaluator or the bytecode VM, sharing one
// environment across the whole session so definitions accumulate.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/rafiyamo/pyraf/builtins"
	"github.com/rafiyamo/pyraf/bytecode"
	"github.com/rafiyamo/pyraf/compiler"
	"github.com/rafiyamo/pyraf/eval"
	"github.com/rafiyamo/pyraf/module"
	"github.com/rafiyamo/pyraf/object"
	"github.com/rafiyamo/pyraf/parser"
	"github.com/rafiyamo/pyraf/vm"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const (
	banner  = `PyRaf`
	divider = `--------------------------------------------------------`
	version = "0.1"
	license = "MIT"
)

// Repl is one interactive session. Successive lines share the evaluator's
// (or VM's) global environment so a def or assignment on one line is
// visible to the next.
type Repl struct {
	Prompt string
	UseVM  bool
	Color  bool

	// Importer, when set before Start/ServeConn, is shared across this and
	// other Repl instances (the server command wires one module.Cache
	// into every connection's Repl so imports are deduplicated
	// process-wide, per the concurrency note in the ambient stack). When
	// nil, bind creates a private cache for a standalone session.
	Importer eval.Importer

	evaluator *eval.Evaluator
	machine   *vm.VM
}

// New builds a Repl. Call Start to run it.
func New(prompt string, useVM bool, withColor bool) *Repl {
	return &Repl{Prompt: prompt, UseVM: useVM, Color: withColor}
}

// bind wires a fresh evaluator and VM against out, reusing r.Importer if
// the caller set one, otherwise creating a private module cache.
func (r *Repl) bind(out func(string)) {
	bi := builtins.New(out)
	r.evaluator = eval.New(out, bi)
	r.machine = vm.New(out, bi)

	importer := r.Importer
	if importer == nil {
		importer = module.NewCache(ReadFile, out, bi)
	}
	r.evaluator.Importer = importer
	r.machine.Importer = importer
}

// PrintBanner writes the startup banner and usage hints to writer.
func (r *Repl) PrintBanner(writer io.Writer) {
	if !r.Color {
		io.WriteString(writer, divider+"\n"+banner+"\n"+divider+"\n")
		io.WriteString(writer, "Version: "+version+" | License: "+license+"\n")
		io.WriteString(writer, divider+"\n")
		io.WriteString(writer, "Type PyRaf statements and press enter. Type .exit to quit.\n")
		io.WriteString(writer, divider+"\n")
		return
	}
	blueColor.Fprintf(writer, "%s\n", divider)
	greenColor.Fprintf(writer, "%s\n", banner)
	blueColor.Fprintf(writer, "%s\n", divider)
	yellowColor.Fprintln(writer, "Version: "+version+" | License: "+license)
	blueColor.Fprintf(writer, "%s\n", divider)
	cyanColor.Fprintf(writer, "%s\n", "Type PyRaf statements and press enter.")
	cyanColor.Fprintf(writer, "%s\n", "An unbalanced '{' continues the statement on the next line.")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit.")
	blueColor.Fprintf(writer, "%s\n", divider)
}

// Start runs the REPL loop against writer until the user exits or EOF.
func (r *Repl) Start(writer io.Writer) {
	r.PrintBanner(writer)

	out := func(s string) { io.WriteString(writer, s) }
	r.bind(out)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		source, err := r.readStatement(rl)
		if err != nil {
			io.WriteString(writer, "Good bye!\n")
			return
		}
		if source == "" {
			continue
		}
		if source == ".exit" {
			io.WriteString(writer, "Good bye!\n")
			return
		}
		r.execute(writer, source)
	}
}

// readStatement reads lines from rl, continuing to prompt with "... "
// while the accumulated source has more '{' than '}', so a def/if/while
// body can span multiple lines.
func (r *Repl) readStatement(rl *readline.Instance) (string, error) {
	var b strings.Builder
	depth := 0
	first := true

	for {
		prompt := r.Prompt
		if !first {
			prompt = "... "
		}
		rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(line)
		if first && (trimmed == "" || trimmed == ".exit") {
			return trimmed, nil
		}
		rl.SaveHistory(line)
		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		first = false
		if depth <= 0 {
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// ServeConn runs one REPL session over a raw TCP connection, one per
// server client. chzyer/readline's line-editing and history are a
// terminal feature that doesn't apply over a socket, so this uses plain
// buffered line reads with the same brace-depth continuation rule as
// Start's readline-backed loop.
func (r *Repl) ServeConn(conn net.Conn) {
	out := func(s string) { io.WriteString(conn, s) }
	r.bind(out)
	r.PrintBanner(conn)

	scanner := bufio.NewScanner(conn)
	for {
		io.WriteString(conn, r.Prompt)
		source, ok := r.readStatementFrom(scanner, conn)
		if !ok {
			io.WriteString(conn, "Good bye!\n")
			return
		}
		if source == "" {
			continue
		}
		if source == ".exit" {
			io.WriteString(conn, "Good bye!\n")
			return
		}
		r.execute(conn, source)
	}
}

func (r *Repl) readStatementFrom(scanner *bufio.Scanner, conn net.Conn) (string, bool) {
	var b strings.Builder
	depth := 0
	first := true

	for {
		if !first {
			io.WriteString(conn, "... ")
		}
		if !scanner.Scan() {
			return "", false
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if first && (trimmed == "" || trimmed == ".exit") {
			return trimmed, true
		}
		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		first = false
		if depth <= 0 {
			break
		}
	}
	return strings.TrimSpace(b.String()), true
}

func (r *Repl) execute(writer io.Writer, source string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.printError(writer, "[INTERNAL ERROR] %v", rec)
		}
	}()

	p, perr := parser.New(source)
	if perr != nil {
		r.printError(writer, "%s", perr)
		return
	}
	stmts, perr := p.ParseProgram()
	if perr != nil {
		r.printError(writer, "%s", perr)
		return
	}

	var result object.Value
	if r.UseVM {
		chunk, cerr := compiler.New().Compile(stmts)
		if cerr != nil {
			r.printError(writer, "%s", cerr)
			return
		}
		result = r.machine.Run(chunk)
	} else {
		result = r.evaluator.Run(stmts)
	}

	if errVal, ok := result.(*object.Error); ok {
		r.printError(writer, "%s", errVal)
		return
	}
	if result != nil && result != object.NilValue {
		r.printResult(writer, result.String())
	}
}

func (r *Repl) printError(writer io.Writer, format string, args ...interface{}) {
	if r.Color {
		redColor.Fprintf(writer, format+"\n", args...)
		return
	}
	fmt.Fprintf(writer, format+"\n", args...)
}

func (r *Repl) printResult(writer io.Writer, s string) {
	if r.Color {
		yellowColor.Fprintf(writer, "%s\n", s)
		return
	}
	io.WriteString(writer, s+"\n")
}

// ReadFile is the module.Reader used by the REPL and the server command:
// it reads path as given, so relative paths resolve against the process
// working directory. The run command wraps it in a reader that first
// joins relative paths onto the script's own directory.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DisassembleSource parses and compiles source, returning its bytecode
// listing under a "<script>" header. The `dis` CLI command does not use
// it; it calls bytecode.Disassemble itself, with the file path as header.
func DisassembleSource(source string) (string, *object.Error) {
	p, perr := parser.New(source)
	if perr != nil {
		return "", perr
	}
	stmts, perr := p.ParseProgram()
	if perr != nil {
		return "", perr
	}
	chunk, cerr := compiler.New().Compile(stmts)
	if cerr != nil {
		return "", cerr
	}
	return bytecode.Disassemble(chunk, "<script>"), nil
}
