package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PYRAF_CONFIG", filepath.Join(dir, "does-not-exist.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_OverridesOnlyFieldsPresentInFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyraf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vm_by_default: true\nprompt: \"py> \"\n"), 0o644))
	t.Setenv("PYRAF_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.VMByDefault)
	assert.Equal(t, "py> ", cfg.Prompt)
	assert.Equal(t, 1000, cfg.RecursionLimit) // untouched default
	assert.True(t, cfg.Color)                 // untouched default
}

func TestLoad_MalformedFileIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pyraf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recursion_limit: [not, a, number]\n"), 0o644))
	t.Setenv("PYRAF_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
