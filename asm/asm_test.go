package asm_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/mhsharp/microcore/asm"
	"github.com/mhsharp/microcore/isa"
)

func assemble(t *testing.T, src string) []isa.Word {
	t.Helper()
	img, err := asm.Assemble("test", strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return img
}

func words(vs ...uint16) []isa.Word {
	out := make([]isa.Word, len(vs))
	for i, v := range vs {
		out[i] = isa.Word(v)
	}
	return out
}

func checkImage(t *testing.T, got, want []isa.Word) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("image length = %d, want %d (%04X vs %04X)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = 0x%04X, want 0x%04X", i, uint16(got[i]), uint16(want[i]))
		}
	}
}

// Scenario 1 from spec.md §8: add and output.
func TestScenarioAddAndOutput(t *testing.T) {
	src := `
LDIMA 5
LDIMB 7
ADDR RB
OUT
HLT
`
	img := assemble(t, src)
	checkImage(t, img, words(0x0A05, 0x0B07, 0x1402, 0x1600, 0xFF00))
}

// Scenario 2: conditional jump with a forward-referenced label.
func TestScenarioConditionalJump(t *testing.T) {
	src := `
LDIMA 0
SUB 0
JMPZ skip
LDIMA 99
skip: OUT
HLT
`
	img := assemble(t, src)
	// LDIMA 0, SUB 0, JMPZ 4, LDIMA 99, OUT, HLT
	checkImage(t, img, words(0x0A00, 0x1300, 0x0F04, 0x0A63, 0x1600, 0xFF00))
}

// Scenario 3: memory round-trip via STORA/MOVA.
func TestScenarioMemoryRoundTrip(t *testing.T) {
	src := `
LDIMA 42
STORA 200
LDIMA 0
MOVA 200
OUT
HLT
`
	img := assemble(t, src)
	checkImage(t, img, words(0x0A2A, 0x06C8, 0x0A00, 0x02C8, 0x1600, 0xFF00))
}

// Scenario 4: pointer store/load via MOVA_PTRB/STORA_PTRB.
func TestScenarioPointerStore(t *testing.T) {
	src := `
LDIMA 9
LDIMB 100
STORA_PTRB
LDIMA 0
MOVA_PTRB
OUT
HLT
`
	img := assemble(t, src)
	checkImage(t, img, words(0x0A09, 0x0B64, 0x1A00, 0x0A00, 0x1900, 0x1600, 0xFF00))
}

// Scenario 5: CALL/RET with a forward reference.
func TestScenarioCallReturn(t *testing.T) {
	src := `
CALL f
HLT
f: LDIMA 1
OUT
RET
`
	img := assemble(t, src)
	checkImage(t, img, words(0x1702, 0xFF00, 0x0A01, 0x1600, 0x1800))
}

func TestBackwardLabelReference(t *testing.T) {
	src := `
loop: LDIMA 1
JMP loop
`
	img := assemble(t, src)
	checkImage(t, img, words(0x0A01, 0x1100))
}

func TestMOVREncoding(t *testing.T) {
	img := assemble(t, "MOVR RC, RA")
	checkImage(t, img, words(0x0131))
}

func TestOutWithExplicitRegister(t *testing.T) {
	img := assemble(t, "OUT RC")
	checkImage(t, img, words(0x1603))
}

func TestHexLiteral(t *testing.T) {
	img := assemble(t, "LDIMA 0x2A")
	checkImage(t, img, words(0x0A2A))
}

func TestCommaSeparatedOperands(t *testing.T) {
	img := assemble(t, "MOVR RA,RB")
	checkImage(t, img, words(0x0112))
}

func TestCommentsAndBlankLines(t *testing.T) {
	src := "  ; a full comment line\nLDIMA 1 ; trailing comment\n\nHLT\n"
	img := assemble(t, src)
	checkImage(t, img, words(0x0A01, 0xFF00))
}

func TestUnknownMnemonic(t *testing.T) {
	_, err := asm.Assemble("t", strings.NewReader("FROB 1"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unknown mnemonic") || !strings.Contains(err.Error(), "near 'FROB'") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUndefinedLabel(t *testing.T) {
	_, err := asm.Assemble("t", strings.NewReader("JMP nowhere\nHLT"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "undefined label") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMOVRMissingSecondRegister(t *testing.T) {
	_, err := asm.Assemble("t", strings.NewReader("MOVR RA"), nil)
	if err == nil || !strings.Contains(err.Error(), "MOVR needs two registers") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUnknownRegister(t *testing.T) {
	_, err := asm.Assemble("t", strings.NewReader("PUSH RX"), nil)
	if err == nil || !strings.Contains(err.Error(), "unknown register") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMissingOperand(t *testing.T) {
	_, err := asm.Assemble("t", strings.NewReader("JMP"), nil)
	if err == nil || !strings.Contains(err.Error(), "missing operand") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLabelTableFull(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 129; i++ {
		b.WriteString("l")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(": HLT\n")
	}
	_, err := asm.Assemble("t", strings.NewReader(b.String()), nil)
	if err == nil || !strings.Contains(err.Error(), "label table is full") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	img := assemble(t, "LDIMA 5\nLDIMB 7\nADDR RB\nOUT\nHLT\n")
	var b strings.Builder
	for pc := 0; pc < len(img); {
		next, err := asm.Disassemble(img, pc, &b)
		if err != nil {
			t.Fatalf("Disassemble: %v", err)
		}
		b.WriteByte('\n')
		pc = next
	}
	want := "LDIMA 5\nLDIMB 7\nADDR RB\nOUT\nHLT\n"
	if got := b.String(); got != want {
		t.Errorf("Disassemble =\n%s\nwant\n%s", got, want)
	}
}
