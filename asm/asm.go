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

// Package asm implements the two-pass assembler for the microcore ISA: a
// lexical layer that strips comments and tokenizes source lines, a symbol
// table that resolves labels across a first pass, and an encoder that maps
// each instruction line to a 16-bit word in a second pass.
//
// Supported opcodes and their operand classes are documented in package isa.
//
// Label syntax: a token ending in ':', and only as the first token of a
// line, defines a label at the current instruction address. An instruction
// may follow the label on the same line, in which case it is encoded at
// that same address; a label with nothing after it names the address of
// whatever comes next. Forward references resolve naturally because the
// full label table is built before any instruction is encoded.
//
// Comment syntax: everything from ';' to end of line.
package asm

import (
	"io"
	"strconv"

	"github.com/mhsharp/microcore/isa"
)

const maxLabels = 128

// Tracer is called (when non-nil) with per-line and per-label tracing
// information, mirroring original_source/ASEMBLER.c's DEBUG_PRINT call
// sites.
type Tracer func(format string, args ...interface{})

// Assemble compiles the assembly source read from r into a stream of
// 16-bit instruction words (spec.md §4.2-§4.3). name is used only to
// identify the source in error messages. trace, if non-nil, receives a
// per-line token dump, a per-label resolution trace, and a per-instruction
// encoded-word trace (original_source/ASEMBLER.c's DEBUG_PRINT call sites).
func Assemble(name string, r io.Reader, trace Tracer) ([]isa.Word, error) {
	if trace == nil {
		trace = func(string, ...interface{}) {}
	}

	lines, err := lex(r, trace)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]int, maxLabels)

	// Pass 1: assign addresses to labels and to every instruction line. A
	// label shares the address of an instruction that follows it on the
	// same line; one with nothing following just names the next address.
	addr := 0
	for i := range lines {
		l := &lines[i]
		if l.label != "" {
			if _, exists := labels[l.label]; !exists && len(labels) >= maxLabels {
				return nil, newErr(l.num, l.label, "label table is full")
			}
			labels[l.label] = addr
			trace("label %q -> address %d", l.label, addr)
		}
		if len(l.tokens) == 0 {
			continue
		}
		addr++
	}

	// Pass 2: encode every remaining line into a 16-bit word.
	image := make([]isa.Word, 0, addr)
	for _, l := range lines {
		if len(l.tokens) == 0 {
			continue
		}
		w, err := encodeLine(l, labels, trace)
		if err != nil {
			return nil, err
		}
		image = append(image, w)
	}
	return image, nil
}

func encodeLine(l tokenLine, labels map[string]int, trace Tracer) (isa.Word, error) {
	mnemonic := l.tokens[0]
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return 0, newErr(l.num, mnemonic, "unknown mnemonic")
	}

	var operand byte
	switch isa.Class(op) {
	case isa.ClassNone:
		operand = 0

	case isa.ClassOutput:
		if len(l.tokens) > 1 {
			r, ok := isa.LookupRegister(l.tokens[1])
			if !ok {
				return 0, newErr(l.num, l.tokens[1], "unknown register")
			}
			operand = byte(r)
		}

	case isa.ClassSingleRegister:
		if len(l.tokens) < 2 {
			return 0, newErr(l.num, mnemonic, "missing register operand")
		}
		r, ok := isa.LookupRegister(l.tokens[1])
		if !ok {
			return 0, newErr(l.num, l.tokens[1], "unknown register")
		}
		operand = byte(r)

	case isa.ClassTwoRegister:
		if len(l.tokens) < 3 {
			return 0, newErr(l.num, mnemonic, "MOVR needs two registers")
		}
		dest, ok := isa.LookupRegister(l.tokens[1])
		if !ok {
			return 0, newErr(l.num, l.tokens[1], "unknown register")
		}
		src, ok := isa.LookupRegister(l.tokens[2])
		if !ok {
			return 0, newErr(l.num, l.tokens[2], "unknown register")
		}
		operand = isa.EncodeMOVR(dest, src)

	case isa.ClassImmediateOrLabel:
		if len(l.tokens) < 2 {
			return 0, newErr(l.num, mnemonic, "missing operand")
		}
		v, err := resolveOperand(l.tokens[1], labels, l.num)
		if err != nil {
			return 0, err
		}
		operand = v
	}

	w := isa.Encode(op, operand)
	trace("line %d: %s -> word 0x%04X (opcode 0x%02X operand 0x%02X)", l.num, mnemonic, uint16(w), byte(op), operand)
	return w, nil
}

// resolveOperand parses an immediate-or-label operand token (spec.md §4.3):
// if it starts with a letter, it names a label; otherwise it is a numeric
// literal, base 16 with a "0x"/"0X" prefix, base 10 otherwise. The result
// is truncated to 8 bits.
func resolveOperand(tok string, labels map[string]int, line int) (byte, error) {
	if len(tok) > 0 && isLetter(tok[0]) {
		addr, ok := labels[tok]
		if !ok {
			return 0, newErr(line, tok, "undefined label")
		}
		return byte(addr), nil
	}
	base := 10
	s := tok
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, newErr(line, tok, "invalid numeric literal")
	}
	return byte(v), nil
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Disassemble renders the instruction word at image[pc] back into source
// form and returns the index of the next instruction. Labels are reduced to
// their numeric addresses (spec.md §8, "Round-trip").
func Disassemble(image []isa.Word, pc int, w io.Writer) (next int, err error) {
	op, operand := isa.Decode(image[pc])
	name := op.String()
	if name == "" {
		name = "DAT " + strconv.Itoa(int(op))
	}
	switch isa.Class(op) {
	case isa.ClassNone:
		_, err = io.WriteString(w, name)
	case isa.ClassOutput:
		if operand == 0 {
			_, err = io.WriteString(w, name)
		} else {
			_, err = io.WriteString(w, name+" "+isa.Register(operand).String())
		}
	case isa.ClassSingleRegister:
		_, err = io.WriteString(w, name+" "+isa.Register(operand).String())
	case isa.ClassTwoRegister:
		dest, src := isa.DecodeMOVR(operand)
		_, err = io.WriteString(w, name+" "+dest.String()+" "+src.String())
	case isa.ClassImmediateOrLabel:
		_, err = io.WriteString(w, name+" "+strconv.Itoa(int(operand)))
	}
	return pc + 1, err
}
