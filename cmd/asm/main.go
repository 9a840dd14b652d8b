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

// Command asm is the two-pass assembler CLI (spec.md §6): it reads a
// source file, assembles it, and writes the resulting binary image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mhsharp/microcore/asm"
	"github.com/mhsharp/microcore/config"
	"github.com/mhsharp/microcore/internal/ansi"
	"github.com/mhsharp/microcore/internal/clog"
	"github.com/mhsharp/microcore/vm"
)

func main() {
	var (
		debug      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "asm <input.asm> <output.bin>",
		Short:         "Assemble microcore source into a binary image",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], debug, configPath)
		},
	}
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable per-line assembly trace")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a config.toml overriding built-in defaults")

	if err := cmd.Execute(); err != nil {
		clog.New(os.Stderr, debug).Fatal(err)
	}
}

func run(inputPath, outputPath string, debug bool, configPath string) error {
	log := clog.New(os.Stderr, debug)

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	var trace asm.Tracer
	if debug {
		trace = log.Tracef
	}

	words, err := asm.Assemble(inputPath, in, trace)
	if err != nil {
		return err
	}

	img := vm.ImageFromWords(words)
	if err := img.Save(outputPath); err != nil {
		return err
	}

	color := cfg.Display.ColorOutput && ansi.IsTerminal(os.Stdout)
	banner := fmt.Sprintf("Assembled %d instructions.", len(words))
	fmt.Fprintln(os.Stdout, ansi.Wrap(ansi.Green, banner, color))
	return nil
}
