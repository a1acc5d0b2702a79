// Package config loads the optional pyraf.yaml settings file that tunes
// the CLI and REPL without requiring a flag for every knob: recursion
// depth, default execution engine, color output, and the REPL prompt.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every user-tunable setting. Zero values are never used
// directly; Load always returns a Config seeded with Defaults and then
// overridden field-by-field by whatever pyraf.yaml supplies.
type Config struct {
	RecursionLimit int    `yaml:"recursion_limit"`
	VMByDefault    bool   `yaml:"vm_by_default"`
	Color          bool   `yaml:"color"`
	Prompt         string `yaml:"prompt"`
}

// Defaults mirrors the evaluator's own DefaultMaxDepth and the CLI's
// out-of-the-box look and feel when no pyraf.yaml is present.
func Defaults() Config {
	return Config{
		RecursionLimit: 1000,
		VMByDefault:    false,
		Color:          true,
		Prompt:         "pyraf>> ",
	}
}

// Load reads pyraf.yaml from $PYRAF_CONFIG if set, otherwise from
// "pyraf.yaml" in the working directory. A missing file is not an error:
// Load returns Defaults() unchanged. A present-but-malformed file is.
func Load() (Config, error) {
	cfg := Defaults()

	path := os.Getenv("PYRAF_CONFIG")
	if path == "" {
		path = "pyraf.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), err
	}
	return cfg, nil
}
