package main

import (
	"fmt"
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/teris-io/cli"

	"github.com/rafiyamo/pyraf/builtins"
	"github.com/rafiyamo/pyraf/module"
	"github.com/rafiyamo/pyraf/repl"
)

var serverCyan = color.New(color.FgCyan)

var serverCommand = cli.NewCommand("server", "Serve PyRaf REPL sessions over TCP, one connection per session").
	WithArg(cli.NewArg("port", "TCP port to listen on")).
	WithOption(cli.NewOption("vm", "Run sessions on the bytecode VM instead of the tree-walking evaluator").
		WithType(cli.TypeBool)).
	WithAction(serverHandler)

func serverHandler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing port, use --help")
		return -1
	}
	useVM := cfg.VMByDefault
	if _, set := options["vm"]; set {
		useVM = true
	}

	listener, err := net.Listen("tcp", ":"+args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[SERVER ERROR] failed to listen on :%s: %v\n", args[0], err)
		return 1
	}
	defer listener.Close()
	serverCyan.Printf("PyRaf REPL server listening on :%s\n", args[0])

	// One module cache shared by every connection: PyRaf programs are
	// single-threaded, but the host isn't, and two sessions importing the
	// same path should hit the cache rather than re-run it.
	noop := func(string) {}
	cache := module.NewCache(repl.ReadFile, noop, builtins.New(noop))

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "[SERVER ERROR] accept failed: %v\n", err)
			continue
		}
		go serveClient(conn, cache, useVM)
	}
}

func serveClient(conn net.Conn, cache *module.Cache, useVM bool) {
	defer conn.Close()
	serverCyan.Printf("client connected from %s\n", conn.RemoteAddr())
	r := repl.New(cfg.Prompt, useVM, false) // terminal colors don't survive a raw socket
	r.Importer = cache
	r.ServeConn(conn)
	serverCyan.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
