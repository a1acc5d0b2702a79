package main

import (
	"fmt"
	"os"

	"github.com/teris-io/cli"

	"github.com/rafiyamo/pyraf/ast"
	"github.com/rafiyamo/pyraf/bytecode"
	"github.com/rafiyamo/pyraf/compiler"
	"github.com/rafiyamo/pyraf/parser"
)

var disCommand = cli.NewCommand("dis", "Compile a PyRaf source file and print its bytecode").
	WithArg(cli.NewArg("file", "Path to the .raf source file")).
	WithOption(cli.NewOption("ast", "Print the parsed tree before the compiled bytecode").
		WithType(cli.TypeBool)).
	WithAction(disHandler)

func disHandler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing source file, use --help")
		return -1
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FILE ERROR] cannot read %q: %v\n", path, err)
		return 1
	}
	source := string(data)

	p, perr := parser.New(source)
	if perr != nil {
		renderError(os.Stderr, perr, path, source, cfg.Color)
		return 1
	}
	stmts, perr := p.ParseProgram()
	if perr != nil {
		renderError(os.Stderr, perr, path, source, cfg.Color)
		return 1
	}

	if _, set := options["ast"]; set {
		fmt.Fprint(os.Stdout, ast.DebugPrint(stmts))
	}

	chunk, cerr := compiler.New().Compile(stmts)
	if cerr != nil {
		renderError(os.Stderr, cerr, path, source, cfg.Color)
		return 1
	}

	fmt.Fprint(os.Stdout, bytecode.Disassemble(chunk, path))
	return 0
}
