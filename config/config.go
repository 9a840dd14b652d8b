// This file is part of microcore.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the optional TOML configuration layer for the
// microcore command-line tools. Nothing here changes the documented CLI
// contract (spec.md §6): every setting has a default that reproduces the
// undecorated behavior, and a missing or absent config file is not an
// error.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// memorySize is the machine's fixed cell count (spec.md §3). [machine]'s
// memory_size field exists so a config file is self-documenting and so a
// config that disagrees with the hardware is caught at load time; it never
// resizes the emulated machine.
const memorySize = 256

// Config is the on-disk shape of a microcore config.toml.
type Config struct {
	Machine struct {
		StackOverflowLimit  uint8 `toml:"stack_overflow_limit"`
		StackUnderflowLimit uint8 `toml:"stack_underflow_limit"`
		MemorySize          int   `toml:"memory_size"`
	} `toml:"machine"`

	Assembler struct {
		MaxLines   int  `toml:"max_lines"`
		MaxLabels  int  `toml:"max_labels"`
		MaxLineLen int  `toml:"max_line_len"`
		Trace      bool `toml:"trace"`
	} `toml:"assembler"`

	Display struct {
		ColorOutput    bool   `toml:"color_output"`
		NumberBase     string `toml:"number_base"` // "hex" or "dec"
		TraceRegisters bool   `toml:"trace_registers"`
	} `toml:"display"`

	Stats struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
	} `toml:"stats"`
}

// Default returns a Config with the values that reproduce undecorated
// behavior: the spec's default stack limits (STOFR=0, STUFR=255, spec.md
// §4.5), the spec's fixed memory size (spec.md §3), the spec's line/label
// capacities (spec.md §4.2), tracing off, and colorized hex display with a
// full register dump on trace.
func Default() *Config {
	cfg := &Config{}
	cfg.Machine.StackOverflowLimit = 0
	cfg.Machine.StackUnderflowLimit = 255
	cfg.Machine.MemorySize = memorySize
	cfg.Assembler.MaxLines = 1024
	cfg.Assembler.MaxLabels = 128
	cfg.Assembler.MaxLineLen = 256
	cfg.Assembler.Trace = false
	cfg.Display.ColorOutput = true
	cfg.Display.NumberBase = "hex"
	cfg.Display.TraceRegisters = true
	cfg.Stats.Enabled = false
	cfg.Stats.OutputFile = ""
	return cfg
}

// validate rejects a loaded config that disagrees with the hardware it
// describes. memory_size is documentation of a hardware constant, not a
// runtime knob (spec.md §3, §4.8): a file that names any other value is a
// config-load error rather than a silently-ignored field.
func (c *Config) validate() error {
	if c.Machine.MemorySize != memorySize {
		return errors.Errorf("machine.memory_size = %d, the microcore machine is fixed at %d cells", c.Machine.MemorySize, memorySize)
	}
	return nil
}

// Path returns the platform-specific config file path, "~/.config/microcore/
// config.toml" on Unix and its Windows/APPDATA equivalent.
func Path() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "microcore")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "microcore")
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the config file at Path(). A missing file is not an error: it
// yields Default().
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path. A missing file is not an error: it
// yields Default().
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return cfg, nil
}

// Save writes c to Path(), creating the containing directory if needed.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes c to path, creating the containing directory if needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create config file")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}
