package main

import (
	"os"

	"github.com/teris-io/cli"

	"github.com/rafiyamo/pyraf/repl"
)

var replCommand = cli.NewCommand("repl", "Start an interactive PyRaf session").
	WithOption(cli.NewOption("vm", "Run the session on the bytecode VM instead of the tree-walking evaluator").
		WithType(cli.TypeBool)).
	WithAction(replHandler)

func replHandler(args []string, options map[string]string) int {
	useVM := cfg.VMByDefault
	if _, set := options["vm"]; set {
		useVM = true
	}
	r := repl.New(cfg.Prompt, useVM, cfg.Color)
	r.Start(os.Stdout)
	return 0
}
