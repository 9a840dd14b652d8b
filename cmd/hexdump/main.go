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

// Command hexdump is the peripheral binary-image dumper carried over from
// original_source/hexdump.c: it prints every 16-bit word in a microcore
// image as "0x<address>: 0x<word>", honoring an optional forced endianness.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/pkg/errors"

	"github.com/mhsharp/microcore/internal/errwriter"
)

func main() {
	var (
		forceLE bool
		forceBE bool
	)

	cmd := &cobra.Command{
		Use:           "hexdump <file.bin>",
		Short:         "Dump a microcore binary image as a sequence of 16-bit words",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], forceLE, forceBE)
		},
	}
	cmd.Flags().BoolVar(&forceLE, "le", false, "force little-endian interpretation")
	cmd.Flags().BoolVar(&forceBE, "be", false, "force big-endian interpretation")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, forceLE, forceBE bool) error {
	if forceLE && forceBE {
		return errors.New("--le and --be are mutually exclusive")
	}

	order := byteOrder(forceLE, forceBE)

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open failed")
	}
	defer f.Close()

	bw := bufio.NewWriter(os.Stdout)
	out := errwriter.New(bw)

	r := bufio.NewReader(f)
	addr := 0
	for {
		var w uint16
		if err := binary.Read(r, order, &w); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return errors.Wrap(err, "read failed")
		}
		fmt.Fprintf(out, "0x%04X: 0x%04X\n", addr, w)
		addr++
	}
	if out.Err != nil {
		return out.Err
	}
	return bw.Flush()
}

// byteOrder picks the wire order for word reads: native endianness by
// default, overridden by --le/--be, mirroring original_source/hexdump.c's
// is_little_endian detection and forced-flag handling.
func byteOrder(forceLE, forceBE bool) binary.ByteOrder {
	switch {
	case forceLE:
		return binary.LittleEndian
	case forceBE:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}
