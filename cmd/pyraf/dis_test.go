package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout swapped for a pipe and returns
// whatever fn wrote to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	fn()
	os.Stdout = orig
	w.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestDisHandler_DefaultPrintsOnlyBytecode(t *testing.T) {
	path := writeTempSource(t, `x = 1 + 2; print(x);`)
	out := captureStdout(t, func() {
		code := disHandler([]string{path}, map[string]string{})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "CONST")
	assert.NotContains(t, out, "ExprStmt")
	assert.NotContains(t, out, "Assign")
}

func TestDisHandler_AstFlagPrintsTreeBeforeBytecode(t *testing.T) {
	path := writeTempSource(t, `x = 1 + 2; print(x);`)
	out := captureStdout(t, func() {
		code := disHandler([]string{path}, map[string]string{"ast": "true"})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "Assign")
	assert.Contains(t, out, "CONST")
	assert.Less(t, indexOf(out, "Assign"), indexOf(out, "CONST"))
}

func writeTempSource(t *testing.T, src string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.raf")
	require.NoError(t, err)
	_, err = f.WriteString(src)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
