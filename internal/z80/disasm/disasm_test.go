package disasm

import "testing"

type fakeMem map[uint16]byte

func (m fakeMem) Read(addr uint16) byte { return m[addr] }

func mem(bytes ...byte) fakeMem {
	m := fakeMem{}
	for i, b := range bytes {
		m[uint16(i)] = b
	}
	return m
}

func TestLDBCImmediate(t *testing.T) {
	m := mem(0x01, 0x34, 0x12)
	line := Disassemble(m, 0)
	if line.Text != "ld bc,0x1234" {
		t.Fatalf("got %q", line.Text)
	}
	if line.Len() != 3 {
		t.Fatalf("len = %d, want 3", line.Len())
	}
}

func TestNOP(t *testing.T) {
	line := Disassemble(mem(0x00), 0)
	if line.Text != "nop" || line.Len() != 1 {
		t.Fatalf("got %q len %d", line.Text, line.Len())
	}
}

func TestHalt(t *testing.T) {
	line := Disassemble(mem(0x76), 0)
	if line.Text != "halt" {
		t.Fatalf("got %q", line.Text)
	}
}

func TestCBBit(t *testing.T) {
	line := Disassemble(mem(0xCB, 0x46), 0)
	if line.Text != "bit 0,(hl)" || line.Len() != 2 {
		t.Fatalf("got %q len %d", line.Text, line.Len())
	}
}

func TestEDBlock(t *testing.T) {
	line := Disassemble(mem(0xED, 0xB0), 0)
	if line.Text != "ldir" || line.Len() != 2 {
		t.Fatalf("got %q len %d", line.Text, line.Len())
	}
}

func TestJPAbsolute(t *testing.T) {
	line := Disassemble(mem(0xC3, 0x00, 0x80), 0)
	if line.Text != "jp 0x8000" || line.Len() != 3 {
		t.Fatalf("got %q len %d", line.Text, line.Len())
	}
}

func TestUndefinedEDOpcodeIsTwoBytes(t *testing.T) {
	// 0xED 0x00 is an undocumented-NOP form inside the ED misc group.
	line := Disassemble(mem(0xED, 0x00), 0)
	if line.Len() != 2 {
		t.Fatalf("len = %d, want 2", line.Len())
	}
}
