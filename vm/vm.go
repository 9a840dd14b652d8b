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

package vm

import (
	"io"

	"github.com/mhsharp/microcore/isa"
)

// memSize is the number of 16-bit cells in the unified memory (spec.md §3).
const memSize = 256

// Image is the emulator's memory: 256 cells, 16 bits each, holding code,
// data and stack with no segmentation.
type Image [memSize]isa.Word

// State is the emulator's run state (spec.md §4.7). Transitions out of
// Running are one-way: once Halted or Faulted, the machine does not resume.
type State int

const (
	StateReady State = iota
	StateRunning
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateHalted:
		return "HALTED"
	case StateFaulted:
		return "FAULTED"
	default:
		return "UNKNOWN"
	}
}

// Tracer receives one line of per-cycle debug output (spec.md §6, the
// emulator's "-d" flag).
type Tracer func(format string, args ...interface{})

// Option configures an Instance at construction time.
type Option func(*Instance) error

// Output sets the writer OUT prints to. Defaults to io.Discard.
func Output(w io.Writer) Option {
	return func(i *Instance) error { i.output = w; return nil }
}

// Trace installs a per-cycle tracer, invoked once per Step with PC, IR, the
// decoded opcode and operand, the register file, flags and SP (spec.md §6),
// and once more on the step that executes HLT.
func Trace(fn Tracer) Option {
	return func(i *Instance) error { i.trace = fn; return nil }
}

// TraceRegisters controls how much a Trace tracer is told: true (the
// default) reports the full register file alongside PC/IR/opcode/operand;
// false reports only PC/IR/opcode/operand, matching config.Display.
// TraceRegisters (spec.md §4.8).
func TraceRegisters(full bool) Option {
	return func(i *Instance) error { i.traceRegs = full; return nil }
}

// StackLimits overrides the default stack-overflow/underflow registers
// (spec.md §4.5 defaults them to 0 and 255 respectively). Mainly useful for
// tests that want to reach an overflow or underflow without 256 iterations.
func StackLimits(stofr, stufr byte) Option {
	return func(i *Instance) error {
		i.stofr = stofr
		i.stufr = stufr
		return nil
	}
}

// Instance is one microcore machine.
type Instance struct {
	regs [6]byte // indexed by isa.Register; regs[0] is unused scratch

	pc byte
	ir isa.Word

	stofr byte
	stufr byte
	sp    byte

	zf, nf, of bool

	mem Image

	state    State
	insCount int64

	output    io.Writer
	trace     Tracer
	traceRegs bool
}

// New creates a machine whose memory is initialized from mem (spec.md
// §4.5). mem is copied; mutating it afterward does not affect the
// instance.
func New(mem Image, opts ...Option) (*Instance, error) {
	i := &Instance{
		mem:       mem,
		stufr:     255,
		output:    io.Discard,
		trace:     func(string, ...interface{}) {},
		traceRegs: true,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	i.sp = i.stufr
	i.state = StateReady
	return i, nil
}

// Reset restores the register file, flags, PC and SP to their power-on
// values (spec.md §4.5) without touching memory or the configured STOFR/
// STUFR limits.
func (i *Instance) Reset() {
	i.regs = [6]byte{}
	i.pc = 0
	i.ir = 0
	i.zf, i.nf, i.of = false, false, false
	i.sp = i.stufr
	i.state = StateReady
	i.insCount = 0
}

// Register returns the current value of register r. Passing a code outside
// RA..SP returns 0.
func (i *Instance) Register(r isa.Register) byte {
	return i.getReg(byte(r))
}

// PC returns the current program counter.
func (i *Instance) PC() byte { return i.pc }

// SP returns the current stack pointer.
func (i *Instance) SP() byte { return i.sp }

// StackLimits returns the current STOFR/STUFR bounds.
func (i *Instance) StackLimits() (stofr, stufr byte) { return i.stofr, i.stufr }

// Flags returns the zero, negative and overflow flags as last set by
// ADD/SUB/ADDR/SUBR (spec.md §3).
func (i *Instance) Flags() (zf, nf, of bool) { return i.zf, i.nf, i.of }

// State returns the emulator's current run state (spec.md §4.7).
func (i *Instance) State() State { return i.state }

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 { return i.insCount }

// Memory returns the cell at address addr.
func (i *Instance) Memory(addr byte) isa.Word { return i.mem[addr] }

// getReg reads register code; codes outside RA..SP (1..5) read as 0,
// matching MOVR's "unknown register codes are silently no-op" rule
// (spec.md §4.6) generalized to every register-operand opcode.
func (i *Instance) getReg(code byte) byte {
	if code >= 1 && code <= 5 {
		return i.regs[code]
	}
	return 0
}

// setReg writes register code; codes outside RA..SP are silently ignored.
func (i *Instance) setReg(code, v byte) {
	if code >= 1 && code <= 5 {
		i.regs[code] = v
	}
}
