// Package module implements PyRaf's import cache: a process-wide registry
// that loads each imported file at most once, guards against import
// cycles, and deduplicates concurrent requests for the same path (the
// server command handles one REPL per connection, so two connections
// can race to import the same module at once).
package module

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rafiyamo/pyraf/eval"
	"github.com/rafiyamo/pyraf/object"
	"github.com/rafiyamo/pyraf/parser"
)

// Reader loads the source text for an import path, e.g. reading a file
// relative to the importing script's directory.
type Reader func(path string) (string, error)

// Cache is an eval.Importer backed by a Reader. Zero value is not usable;
// construct with NewCache.
type Cache struct {
	read     Reader
	print    func(string)
	builtins map[string]*object.Builtin

	mu     sync.Mutex
	loaded map[string]*object.Environment
	group  singleflight.Group
}

// NewCache builds an empty cache. print and builtins are forwarded to the
// fresh Evaluator created for each newly loaded module, so imported code
// shares the same print destination as the importing script.
func NewCache(read Reader, print func(string), builtins map[string]*object.Builtin) *Cache {
	return &Cache{
		read:     read,
		print:    print,
		builtins: builtins,
		loaded:   make(map[string]*object.Environment),
	}
}

// Import satisfies eval.Importer. The first call for a given path runs
// the module's top-level statements through a fresh evaluator and caches
// the resulting environment; every later call for the same path returns
// the cached environment without re-running the module. Concurrent
// first-time imports of the same path (e.g. two server connections both
// hitting a fresh module) are deduplicated by the singleflight.Group, not
// rejected as a cycle.
func (c *Cache) Import(path string) (*object.Environment, *object.Error) {
	return c.importChain(path, nil)
}

// importChain resolves path, treating visiting as the chain of paths
// currently being loaded by this call's own import stack. A cycle is
// only an import appearing twice within one such chain; it is never
// inferred from what other, unrelated goroutines happen to be loading at
// the same moment, since the cache itself is shared across every REPL
// server connection.
func (c *Cache) importChain(path string, visiting []string) (*object.Environment, *object.Error) {
	c.mu.Lock()
	if env, ok := c.loaded[path]; ok {
		c.mu.Unlock()
		return env, nil
	}
	c.mu.Unlock()

	for _, p := range visiting {
		if p == path {
			return nil, object.NewError(object.ImportError, object.Span{}, "import cycle detected at %q", path)
		}
	}
	chain := append(append([]string{}, visiting...), path)

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		return c.load(path, chain)
	})

	if err != nil {
		if perr, ok := err.(*object.Error); ok {
			return nil, perr
		}
		return nil, object.NewError(object.ImportError, object.Span{}, "%s", err.Error())
	}

	env := v.(*object.Environment)
	c.mu.Lock()
	c.loaded[path] = env
	c.mu.Unlock()
	return env, nil
}

// load reads, parses, and evaluates one module in a fresh environment,
// wiring in a chainImporter so transitive imports extend this load's own
// chain rather than starting a new one.
func (c *Cache) load(path string, chain []string) (*object.Environment, error) {
	src, ioErr := c.read(path)
	if ioErr != nil {
		return nil, object.NewError(object.ImportError, object.Span{}, "cannot read module %q: %v", path, ioErr)
	}

	p, perr := parser.New(src)
	if perr != nil {
		return nil, perr
	}
	stmts, perr := p.ParseProgram()
	if perr != nil {
		return nil, perr
	}

	ev := eval.New(c.print, c.builtins)
	ev.Importer = &chainImporter{cache: c, chain: chain}
	result := ev.Run(stmts)
	if errVal, ok := result.(*object.Error); ok {
		return nil, errVal
	}
	return ev.Global, nil
}

// chainImporter is the Importer a module's own evaluator sees while it
// loads: its imports extend the chain that led to this module instead of
// starting a fresh one, so cycle detection sees the whole import path.
type chainImporter struct {
	cache *Cache
	chain []string
}

func (ci *chainImporter) Import(path string) (*object.Environment, *object.Error) {
	return ci.cache.importChain(path, ci.chain)
}
