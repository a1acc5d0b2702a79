package module

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiyamo/pyraf/builtins"
	"github.com/rafiyamo/pyraf/object"
)

func memReader(files map[string]string) Reader {
	return func(path string) (string, error) {
		src, ok := files[path]
		if !ok {
			return "", fmt.Errorf("no such module: %s", path)
		}
		return src, nil
	}
}

// slowReader behaves like memReader but sleeps first, widening the window
// in which two goroutines can both observe the path as uncached.
func slowReader(files map[string]string) Reader {
	inner := memReader(files)
	return func(path string) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return inner(path)
	}
}

func TestCache_LoadsOnceAndCachesSecondImport(t *testing.T) {
	var out string
	print := func(s string) { out += s }
	c := NewCache(memReader(map[string]string{
		"m.raf": `print("loaded"); def sq(x){ return x * x; }`,
	}), print, builtins.New(print))

	env1, err := c.Import("m.raf")
	require.Nil(t, err)
	env2, err := c.Import("m.raf")
	require.Nil(t, err)

	assert.Same(t, env1, env2)
	assert.Equal(t, "loaded\n", out)
}

func TestCache_MissingFileIsImportError(t *testing.T) {
	c := NewCache(memReader(map[string]string{}), func(string) {}, builtins.New(func(string) {}))
	_, err := c.Import("nope.raf")
	require.NotNil(t, err)
	assert.Equal(t, object.ImportError, err.Kind)
}

func TestCache_SyntaxErrorInModulePropagates(t *testing.T) {
	c := NewCache(memReader(map[string]string{
		"bad.raf": `x = ;`,
	}), func(string) {}, builtins.New(func(string) {}))
	_, err := c.Import("bad.raf")
	require.NotNil(t, err)
	assert.Equal(t, object.ParseError, err.Kind)
}

func TestCache_SelfImportIsCycleError(t *testing.T) {
	print := func(string) {}
	files := map[string]string{}
	c := NewCache(memReader(files), print, builtins.New(print))
	files["a.raf"] = `import "a.raf";`

	_, err := c.Import("a.raf")
	require.NotNil(t, err)
	assert.Equal(t, object.ImportError, err.Kind)
}

func TestCache_MutualImportIsCycleError(t *testing.T) {
	print := func(string) {}
	files := map[string]string{
		"a.raf": `import "b.raf";`,
		"b.raf": `import "a.raf";`,
	}
	c := NewCache(memReader(files), print, builtins.New(print))

	_, err := c.Import("a.raf")
	require.NotNil(t, err)
	assert.Equal(t, object.ImportError, err.Kind)
}

// TestCache_ConcurrentImportsOfFreshPathAreDeduplicatedNotRejected covers
// two goroutines (standing in for two server connections) importing the
// same never-before-loaded path at once: neither has imported anything
// yet, so neither is in the other's chain, and both must succeed with the
// module loaded exactly once rather than one of them seeing a spurious
// cycle.
func TestCache_ConcurrentImportsOfFreshPathAreDeduplicatedNotRejected(t *testing.T) {
	var loadCount int
	var mu sync.Mutex
	print := func(string) {
		mu.Lock()
		loadCount++
		mu.Unlock()
	}
	c := NewCache(slowReader(map[string]string{
		"shared.raf": `print("loaded"); def sq(x){ return x * x; }`,
	}), print, builtins.New(print))

	var wg sync.WaitGroup
	envs := make([]*object.Environment, 2)
	errs := make([]*object.Error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			envs[i], errs[i] = c.Import("shared.raf")
		}(i)
	}
	wg.Wait()

	require.Nil(t, errs[0])
	require.Nil(t, errs[1])
	assert.Same(t, envs[0], envs[1])
	assert.Equal(t, 1, loadCount)
}
