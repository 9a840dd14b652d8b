package isa

import "testing"

func TestOpcodeValues(t *testing.T) {
	cases := []struct {
		name string
		op   Opcode
		val  byte
	}{
		{"MOVR", OpMOVR, 0x01},
		{"MOVA", OpMOVA, 0x02},
		{"STORE", OpSTORE, 0x09},
		{"LDIME", OpLDIME, 0x0D},
		{"JMP", OpJMP, 0x11},
		{"ADDR", OpADDR, 0x14},
		{"OUT", OpOUT, 0x16},
		{"RET", OpRET, 0x18},
		{"MOVA_PTRB", OpMOVA_PTRB, 0x19},
		{"PUSH", OpPUSH, 0x1B},
		{"SUBSP", OpSUBSP, 0x1E},
		{"SSTOF", OpSSTOF, 0x1F},
		{"SSTUF", OpSSTUF, 0x20},
		{"HLT", OpHLT, 0xFF},
	}
	for _, c := range cases {
		if byte(c.op) != c.val {
			t.Errorf("%s = 0x%02X, want 0x%02X", c.name, byte(c.op), c.val)
		}
		if got, ok := Lookup(c.name); !ok || got != c.op {
			t.Errorf("Lookup(%q) = %v, %v; want %v, true", c.name, got, ok, c.op)
		}
		if s := c.op.String(); s != c.name {
			t.Errorf("Opcode(0x%02X).String() = %q, want %q", byte(c.op), s, c.name)
		}
	}
}

func TestRegisterCodes(t *testing.T) {
	cases := []struct {
		name string
		reg  Register
		val  byte
	}{
		{"RA", RegRA, 1},
		{"RB", RegRB, 2},
		{"RC", RegRC, 3},
		{"RE", RegRE, 4},
		{"SP", RegSP, 5},
	}
	for _, c := range cases {
		if byte(c.reg) != c.val {
			t.Errorf("%s = %d, want %d", c.name, byte(c.reg), c.val)
		}
		if got, ok := LookupRegister(c.name); !ok || got != c.reg {
			t.Errorf("LookupRegister(%q) = %v, %v; want %v, true", c.name, got, ok, c.reg)
		}
	}
	if _, ok := LookupRegister("RZ"); ok {
		t.Error("LookupRegister(\"RZ\") should not resolve")
	}
}

func TestEncodeDecode(t *testing.T) {
	w := Encode(OpLDIMA, 0x2A)
	op, operand := Decode(w)
	if op != OpLDIMA || operand != 0x2A {
		t.Errorf("Decode(Encode(LDIMA, 0x2A)) = %v, 0x%02X", op, operand)
	}
	if w != 0x0A2A {
		t.Errorf("Encode(LDIMA, 0x2A) = 0x%04X, want 0x0A2A", uint16(w))
	}
}

func TestMOVROperand(t *testing.T) {
	b := EncodeMOVR(RegRC, RegRA)
	if b != 0x31 {
		t.Errorf("EncodeMOVR(RC, RA) = 0x%02X, want 0x31", b)
	}
	dest, src := DecodeMOVR(b)
	if dest != RegRC || src != RegRA {
		t.Errorf("DecodeMOVR(0x%02X) = %v, %v", b, dest, src)
	}
}

func TestOperandClasses(t *testing.T) {
	cases := []struct {
		op    Opcode
		class OperandClass
	}{
		{OpRET, ClassNone},
		{OpHLT, ClassNone},
		{OpMOVA_PTRB, ClassNone},
		{OpSTORA_PTRB, ClassNone},
		{OpOUT, ClassOutput},
		{OpPUSH, ClassSingleRegister},
		{OpPOP, ClassSingleRegister},
		{OpADDR, ClassSingleRegister},
		{OpSUBR, ClassSingleRegister},
		{OpMOVR, ClassTwoRegister},
		{OpJMP, ClassImmediateOrLabel},
		{OpCALL, ClassImmediateOrLabel},
		{OpLDIME, ClassImmediateOrLabel},
	}
	for _, c := range cases {
		if got := Class(c.op); got != c.class {
			t.Errorf("Class(%v) = %v, want %v", c.op, got, c.class)
		}
	}
}
