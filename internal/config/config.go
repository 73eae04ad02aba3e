// Package config handles the optional stackvm.toml run configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"stackvm/pkg/interpreter"
)

// DefaultFile is looked up in the working directory when no -config flag is given.
const DefaultFile = "stackvm.toml"

// Config represents a stackvm.toml file.
type Config struct {
	Run    Run    `toml:"run"`
	Output Output `toml:"output"`
}

// Run configures interpreter limits.
type Run struct {
	MaxSteps     int  `toml:"max_steps"`      // 0 = unlimited
	MaxCallDepth int  `toml:"max_call_depth"` // 0 = unlimited
	Trace        bool `toml:"trace"`
}

// Output configures what the driver prints besides program output.
type Output struct {
	Color       bool `toml:"color"`
	Disassemble bool `toml:"disassemble"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Run: Run{
			MaxCallDepth: interpreter.DefaultMaxCallDepth,
		},
		Output: Output{
			Color: true,
		},
	}
}

// Load parses the TOML file at path over the defaults. A missing file is
// not an error when optional is set.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if cfg.Run.MaxSteps < 0 {
		return cfg, fmt.Errorf("%s: max_steps must not be negative", path)
	}
	if cfg.Run.MaxCallDepth < 0 {
		return cfg, fmt.Errorf("%s: max_call_depth must not be negative", path)
	}

	return cfg, nil
}

// Options converts the run section into interpreter options.
func (c Config) Options() []interpreter.Option {
	return []interpreter.Option{
		interpreter.WithMaxSteps(c.Run.MaxSteps),
		interpreter.WithMaxCallDepth(c.Run.MaxCallDepth),
		interpreter.WithTrace(c.Run.Trace),
	}
}
