package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiyamo/pyraf/object"
)

func TestSplitLines_PreservesLineCount(t *testing.T) {
	lines := splitLines("a\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestSplitLines_TrailingNewlineYieldsEmptyLastLine(t *testing.T) {
	lines := splitLines("a\nb\n")
	assert.Equal(t, []string{"a", "b", ""}, lines)
}

func TestRenderError_WritesKindMessageAndFrames(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	errVal := object.NewError(object.DivideByZero, object.Span{Line: 1, Column: 9}, "division by zero")
	errVal.WithFrame("g", object.Span{Line: 1, Column: 24})
	errVal.WithFrame("f", object.Span{Line: 1, Column: 48})

	renderError(w, errVal, "prog.raf", "def f(){ return g(); } def g(){ return 1/0; } f();\n", false)
	w.Close()

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	out := string(buf[:n])

	assert.Contains(t, out, "DivideByZero: division by zero")
	assert.Contains(t, out, "at g (prog.raf:1:24)")
	assert.Contains(t, out, "at f (prog.raf:1:48)")
	assert.Contains(t, out, "at <script>")
}

func TestSpaces_ReturnsRequestedWidth(t *testing.T) {
	assert.Equal(t, "    ", spaces(4))
	assert.Equal(t, "", spaces(0))
}
