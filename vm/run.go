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
	"fmt"

	"github.com/pkg/errors"

	"github.com/mhsharp/microcore/isa"
)

// Fault describes why the machine entered the FAULTED state (spec.md §7).
type Fault struct {
	PC  byte
	Msg string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at pc=%d", f.Msg, f.PC)
}

func (i *Instance) fault(msg string) error {
	i.state = StateFaulted
	return errors.WithStack(&Fault{PC: i.pc, Msg: msg})
}

// overflow reports whether a push-style operation (PUSH, CALL, SUBSP) would
// cross the stack-overflow limit. Full-descending discipline: the check is
// against SP's current position, before any side effect (spec.md §4.6).
func (i *Instance) overflow() bool { return i.sp <= i.stofr }

// underflow reports whether a pop-style operation (POP, RET, ADDSP) would
// cross the stack-underflow limit.
func (i *Instance) underflow() bool { return i.sp >= i.stufr }

// Run executes instructions until HLT or a fault (spec.md §4.6, §4.7).
func (i *Instance) Run() error {
	for i.state != StateHalted && i.state != StateFaulted {
		if err := i.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step fetches, decodes and executes exactly one instruction, advancing the
// state machine from READY to RUNNING on the first call (spec.md §4.7). It
// returns an error once the machine has faulted; calling Step again after
// HALTED or FAULTED is a programming error.
func (i *Instance) Step() error {
	if i.state == StateHalted || i.state == StateFaulted {
		return errors.Errorf("machine is %s, no resume", i.state)
	}
	i.state = StateRunning

	pc := i.pc
	i.ir = i.mem[i.pc]
	i.pc++ // byte arithmetic wraps mod 256, per spec.md §3

	op, operand := isa.Decode(i.ir)

	if i.traceRegs {
		i.trace("pc=%3d ir=%04X op=%-12s operand=%3d ra=%3d rb=%3d rc=%3d re=%3d sp=%3d zf=%v nf=%v of=%v",
			pc, uint16(i.ir), op, operand,
			i.regs[isa.RegRA], i.regs[isa.RegRB], i.regs[isa.RegRC], i.regs[isa.RegRE],
			i.sp, i.zf, i.nf, i.of)
	} else {
		i.trace("pc=%3d ir=%04X op=%-12s operand=%3d", pc, uint16(i.ir), op, operand)
	}

	switch op {
	case isa.OpMOVR:
		dest, src := isa.DecodeMOVR(operand)
		i.setReg(byte(dest), i.getReg(byte(src)))
	case isa.OpMOVA:
		i.regs[isa.RegRA] = byte(i.mem[operand])
	case isa.OpMOVB:
		i.regs[isa.RegRB] = byte(i.mem[operand])
	case isa.OpMOVC:
		i.regs[isa.RegRC] = byte(i.mem[operand])
	case isa.OpMOVE:
		i.regs[isa.RegRE] = byte(i.mem[operand])
	case isa.OpSTORA:
		i.mem[operand] = isa.Word(i.regs[isa.RegRA])
	case isa.OpSTORB:
		i.mem[operand] = isa.Word(i.regs[isa.RegRB])
	case isa.OpSTORC:
		i.mem[operand] = isa.Word(i.regs[isa.RegRC])
	case isa.OpSTORE:
		i.mem[operand] = isa.Word(i.regs[isa.RegRE])
	case isa.OpLDIMA:
		i.regs[isa.RegRA] = operand
	case isa.OpLDIMB:
		i.regs[isa.RegRB] = operand
	case isa.OpLDIMC:
		i.regs[isa.RegRC] = operand
	case isa.OpLDIME:
		i.regs[isa.RegRE] = operand
	case isa.OpJMP:
		i.pc = operand
	case isa.OpJMPN:
		if i.nf {
			i.pc = operand
		}
	case isa.OpJMPZ:
		if i.zf {
			i.pc = operand
		}
	case isa.OpJMPO:
		if i.of {
			i.pc = operand
		}
	case isa.OpADD:
		i.arith(int(operand), false)
	case isa.OpSUB:
		i.arith(int(operand), true)
	case isa.OpADDR:
		i.arith(int(i.getReg(operand)), false)
	case isa.OpSUBR:
		i.arith(int(i.getReg(operand)), true)
	case isa.OpOUT:
		v := i.regs[isa.RegRA]
		if operand != 0 {
			v = i.getReg(operand)
		}
		fmt.Fprintf(i.output, "OUT: %d\n", v)
	case isa.OpCALL:
		if i.overflow() {
			return i.fault("stack overflow")
		}
		i.sp--
		i.mem[i.sp] = isa.Word(i.pc)
		i.pc = operand
	case isa.OpRET:
		if i.underflow() {
			return i.fault("stack underflow")
		}
		i.pc = byte(i.mem[i.sp])
		i.sp++
	case isa.OpMOVA_PTRB:
		i.regs[isa.RegRA] = byte(i.mem[i.regs[isa.RegRB]])
	case isa.OpSTORA_PTRB:
		i.mem[i.regs[isa.RegRB]] = isa.Word(i.regs[isa.RegRA])
	case isa.OpPUSH:
		if i.overflow() {
			return i.fault("stack overflow")
		}
		i.sp--
		i.mem[i.sp] = isa.Word(i.getReg(operand))
	case isa.OpPOP:
		if i.underflow() {
			return i.fault("stack underflow")
		}
		v := byte(i.mem[i.sp])
		i.sp++
		i.setReg(operand, v)
	case isa.OpADDSP:
		if i.underflow() {
			return i.fault("stack underflow")
		}
		i.sp = byte((int(i.sp) + int(operand)) & 0xFF)
	case isa.OpSUBSP:
		if i.overflow() {
			return i.fault("stack overflow")
		}
		i.sp = byte((int(i.sp) - int(operand)) & 0xFF)
	case isa.OpSSTOF:
		i.stofr = operand
	case isa.OpSSTUF:
		i.stufr = operand
		i.sp = operand
	case isa.OpHLT:
		i.state = StateHalted
		i.trace("HLT at pc=%d", pc)
	default:
		return i.fault("unknown opcode")
	}
	i.insCount++
	return nil
}

// arith implements ADD/SUB/ADDR/SUBR (spec.md §4.6, "Flag law" in §8): the
// operation is computed against RA in a widened signed integer before
// masking back to 8 bits, so flags observe the pre-mask result.
func (i *Instance) arith(addend int, negate bool) {
	ra := int(i.regs[isa.RegRA])
	var pre int
	if negate {
		pre = ra - addend
	} else {
		pre = ra + addend
	}
	i.regs[isa.RegRA] = byte(pre & 0xFF)
	i.zf = i.regs[isa.RegRA] == 0
	i.nf = pre < 0
	i.of = pre < 0 || pre > 255
}
