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

// Command emu is the emulator CLI (spec.md §6): it loads a binary image and
// runs it to completion, reporting a halt or a fault.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhsharp/microcore/config"
	"github.com/mhsharp/microcore/internal/ansi"
	"github.com/mhsharp/microcore/internal/clog"
	"github.com/mhsharp/microcore/internal/errwriter"
	"github.com/mhsharp/microcore/vm"
)

func main() {
	var (
		debug      bool
		stats      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "emu <program.bin>",
		Short:         "Run a microcore binary image to completion",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], debug, stats, cmd.Flags().Changed("stats"), configPath)
		},
	}
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable per-cycle execution trace")
	cmd.Flags().BoolVar(&stats, "stats", false, "print instruction count and elapsed time on exit")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a config.toml overriding built-in defaults")

	if err := cmd.Execute(); err != nil {
		clog.New(os.Stderr, debug).Fatal(err)
	}
}

// statsFlag, statsFlagSet is the --stats flag's value and whether it was
// explicitly passed; an unset flag defers to cfg.Stats.Enabled once the
// config is loaded.
func run(imagePath string, debug, statsFlag, statsFlagSet bool, configPath string) error {
	log := clog.New(os.Stderr, debug)

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	stats := cfg.Stats.Enabled
	if statsFlagSet {
		stats = statsFlag
	}

	color := cfg.Display.ColorOutput && ansi.IsTerminal(os.Stdout)

	img, err := vm.LoadImage(imagePath)
	if err != nil {
		return err
	}

	opts := []vm.Option{
		vm.Output(os.Stdout),
		vm.StackLimits(cfg.Machine.StackOverflowLimit, cfg.Machine.StackUnderflowLimit),
		vm.TraceRegisters(cfg.Display.TraceRegisters),
	}
	if debug {
		opts = append(opts, vm.Trace(log.Tracef))
	}

	inst, err := vm.New(img, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	runErr := inst.Run()
	elapsed := time.Since(start)

	if inst.State() == vm.StateHalted {
		fmt.Fprintln(os.Stdout, ansi.Wrap(ansi.Yellow, "Program halted.", color))
	}

	if stats {
		reportStats(log, cfg, inst.InstructionCount(), elapsed)
	}

	return runErr
}

// reportStats prints the run's instruction count and elapsed time to
// stdout, and additionally to cfg.Stats.OutputFile when one is configured
// (spec.md §4.10, grounded on cmd/retro/main.go's -stats/execStats flag).
func reportStats(log *clog.Logger, cfg *config.Config, instructions int64, elapsed time.Duration) {
	fmt.Fprintf(os.Stdout, "instructions=%d elapsed=%s\n", instructions, elapsed)

	if cfg.Stats.OutputFile == "" {
		return
	}
	f, err := os.Create(cfg.Stats.OutputFile)
	if err != nil {
		log.Errorf("write stats file: %v", err)
		return
	}
	defer f.Close()

	out := errwriter.New(f)
	fmt.Fprintf(out, "{\n")
	fmt.Fprintf(out, "  \"instructions\": %d,\n", instructions)
	fmt.Fprintf(out, "  \"elapsed_ns\": %d\n", elapsed.Nanoseconds())
	fmt.Fprintf(out, "}\n")
	if out.Err != nil {
		log.Errorf("write stats file: %v", out.Err)
	}
}
