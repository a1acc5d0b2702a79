// Command pyraf is the PyRaf command-line entry point: run a script with
// either execution engine, disassemble it to bytecode, or start an
// interactive REPL (locally or served over TCP).
package main

import (
	"os"
	"strings"

	"github.com/teris-io/cli"

	"github.com/rafiyamo/pyraf/config"
)

var description = strings.ReplaceAll(`
PyRaf is a small dynamically typed scripting language with two interchangeable
execution engines: a tree-walking evaluator and a bytecode compiler/VM. Use
'run' to execute a script, 'dis' to inspect its compiled bytecode, 'repl' for
an interactive session, and 'server' to serve REPL sessions over TCP.
`, "\n", " ")

var cfg config.Config

var app = cli.New(description).
	WithCommand(runCommand).
	WithCommand(disCommand).
	WithCommand(replCommand).
	WithCommand(serverCommand)

func main() {
	loaded, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("[CONFIG ERROR] " + err.Error() + "\n")
		os.Exit(1)
	}
	cfg = loaded

	defer func() {
		if rec := recover(); rec != nil {
			os.Stderr.WriteString("[INTERNAL ERROR] ")
			os.Stderr.WriteString(formatRecover(rec))
			os.Stderr.WriteString("\n")
			os.Exit(1)
		}
	}()

	os.Exit(app.Run(os.Args, os.Stdout))
}

func formatRecover(rec interface{}) string {
	if err, ok := rec.(error); ok {
		return err.Error()
	}
	return "panic"
}
