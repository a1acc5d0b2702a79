package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/teris-io/cli"

	"github.com/rafiyamo/pyraf/builtins"
	"github.com/rafiyamo/pyraf/compiler"
	"github.com/rafiyamo/pyraf/eval"
	"github.com/rafiyamo/pyraf/module"
	"github.com/rafiyamo/pyraf/object"
	"github.com/rafiyamo/pyraf/parser"
	"github.com/rafiyamo/pyraf/repl"
	"github.com/rafiyamo/pyraf/vm"
)

var runCommand = cli.NewCommand("run", "Execute a PyRaf source file").
	WithArg(cli.NewArg("file", "Path to the .raf source file")).
	WithOption(cli.NewOption("vm", "Execute on the bytecode VM instead of the tree-walking evaluator").
		WithType(cli.TypeBool)).
	WithAction(runHandler)

func runHandler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing source file, use --help")
		return -1
	}
	useVM := cfg.VMByDefault
	if _, set := options["vm"]; set {
		useVM = true
	}
	return runFile(args[0], useVM)
}

func runFile(path string, useVM bool) int {
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

	out := func(s string) { fmt.Fprint(os.Stdout, s) }
	bi := builtins.New(out)

	baseDir := filepath.Dir(path)
	reader := relativeReader(baseDir)
	cache := module.NewCache(reader, out, bi)

	var result object.Value
	if useVM {
		chunk, cerr := compiler.New().Compile(stmts)
		if cerr != nil {
			renderError(os.Stderr, cerr, path, source, cfg.Color)
			return 1
		}
		machine := vm.New(out, bi)
		machine.Importer = cache
		machine.MaxDepth = cfg.RecursionLimit
		result = machine.Run(chunk)
	} else {
		ev := eval.New(out, bi)
		ev.Importer = cache
		ev.MaxDepth = cfg.RecursionLimit
		result = ev.Run(stmts)
	}

	if errVal, ok := result.(*object.Error); ok {
		renderError(os.Stderr, errVal, path, source, cfg.Color)
		return 1
	}
	return 0
}

// relativeReader builds a module.Reader resolving import paths relative
// to baseDir, the importing top-level script's own directory.
func relativeReader(baseDir string) module.Reader {
	return func(path string) (string, error) {
		full := path
		if !filepath.IsAbs(path) {
			full = filepath.Join(baseDir, path)
		}
		return repl.ReadFile(full)
	}
}

var (
	errKindColor  = color.New(color.FgRed, color.Bold)
	errLineColor  = color.New(color.FgWhite)
	errCaretColor = color.New(color.FgRed)
	errFrameColor = color.New(color.FgYellow)
)

// renderError prints a runtime error the way §7 describes: kind and
// message, the offending source line with a caret at the column, then
// the call stack innermost-first, each as "at <function> (<file>:L:C)",
// ending with an implicit top-level <script> frame.
func renderError(w *os.File, err *object.Error, file string, source string, useColor bool) {
	lines := splitLines(source)

	if useColor {
		errKindColor.Fprintf(w, "%s: %s\n", err.Kind, err.Message)
	} else {
		fmt.Fprintf(w, "%s: %s\n", err.Kind, err.Message)
	}

	if err.Span.Line >= 1 && err.Span.Line <= len(lines) {
		src := lines[err.Span.Line-1]
		if useColor {
			errLineColor.Fprintf(w, "  %s\n", src)
		} else {
			fmt.Fprintf(w, "  %s\n", src)
		}
		col := err.Span.Column - 1
		if col < 0 {
			col = 0
		}
		caret := "  " + spaces(col) + "^"
		if useColor {
			errCaretColor.Fprintln(w, caret)
		} else {
			fmt.Fprintln(w, caret)
		}
	}

	printFrame := func(name string, span object.Span) {
		line := fmt.Sprintf("at %s (%s:%d:%d)", name, file, span.Line, span.Column)
		if useColor {
			errFrameColor.Fprintln(w, line)
		} else {
			fmt.Fprintln(w, line)
		}
	}
	for _, f := range err.Stack {
		printFrame(f.Function, f.Span)
	}
	printFrame("<script>", err.Span)
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
