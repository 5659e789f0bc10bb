// Package disasm is a minimal Z80 disassembler for the diagnostic CLI
// only, per spec.md §1 ("the disassembler (used only by the diagnostic
// harness)"). It is deliberately not exhaustive: unprefixed, CB and ED
// instructions decode to a correct-length line, with opcodes it has no
// mnemonic for shown in a generic "db" form. DD/FD forms that address
// (IX+d)/(IY+d) omit the displacement byte from both text and length (see
// indexedInstruction), and DDCB/FDCB forms print the plain CB mnemonic
// followed by the indexed operand.
// Grounded on original_source/z80/Disassembler.cpp's to_string layout
// (hex bytes followed by mnemonic) and operand-name table.
package disasm

import "fmt"

// Reader is the subset of memory disassembly needs.
type Reader interface {
	Read(addr uint16) byte
}

var reg8Names = [8]string{"b", "c", "d", "e", "h", "l", "(hl)", "a"}
var rpNames = [4]string{"bc", "de", "hl", "sp"}
var rp2Names = [4]string{"bc", "de", "hl", "af"}
var condNames = [8]string{"nz", "z", "nc", "c", "po", "pe", "p", "m"}
var aluNames = [8]string{"add a,", "adc a,", "sub", "sbc a,", "and", "xor", "or", "cp"}
var rotNames = [8]string{"rlc", "rrc", "rl", "rr", "sla", "sra", "sll", "srl"}

// Line is one disassembled instruction: its address, raw bytes, and text.
type Line struct {
	Addr  uint16
	Bytes []byte
	Text  string
}

// Disassemble decodes the instruction at addr and returns it along with
// its length in bytes, so a caller can advance to the next instruction.
func Disassemble(mem Reader, addr uint16) Line {
	b0 := mem.Read(addr)

	switch b0 {
	case 0xCB:
		b1 := mem.Read(addr + 1)
		return Line{addr, []byte{b0, b1}, cbText(b1)}
	case 0xED:
		b1 := mem.Read(addr + 1)
		return edInstruction(mem, addr, b1)
	case 0xDD, 0xFD:
		idx := "ix"
		if b0 == 0xFD {
			idx = "iy"
		}
		return indexedInstruction(mem, addr, idx)
	default:
		return baseInstruction(mem, addr, b0, "hl")
	}
}

func readBytes(mem Reader, addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = mem.Read(addr + uint16(i))
	}
	return out
}

func fmtLine(addr uint16, bytes []byte, text string) Line {
	return Line{Addr: addr, Bytes: bytes, Text: text}
}

// baseInstruction disassembles an unprefixed opcode (or, with hlName set
// to "ix"/"iy" by the caller, the DD/FD-redirected variant sharing the
// same table).
func baseInstruction(mem Reader, addr uint16, opcode byte, hlName string) Line {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	reg := func(i byte) string {
		if i == 6 {
			return "(" + hlName + ")"
		}
		return reg8Names[i]
	}

	switch {
	case opcode == 0x00:
		return fmtLine(addr, readBytes(mem, addr, 1), "nop")
	case opcode == 0x76:
		return fmtLine(addr, readBytes(mem, addr, 1), "halt")
	case x == 1:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("ld %s,%s", reg(y), reg(z)))
	case x == 2:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("%s %s", aluNames[y], reg(z)))
	case x == 0 && z == 6:
		bs := readBytes(mem, addr, 2)
		return fmtLine(addr, bs, fmt.Sprintf("ld %s,0x%02x", reg(y), bs[1]))
	case x == 0 && z == 4:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("inc %s", reg(y)))
	case x == 0 && z == 5:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("dec %s", reg(y)))
	case x == 0 && z == 1 && opcode&0x08 == 0:
		rp := opcode >> 4 & 3
		bs := readBytes(mem, addr, 3)
		return fmtLine(addr, bs, fmt.Sprintf("ld %s,0x%04x", rpName(rp, hlName), uint16(bs[1])|uint16(bs[2])<<8))
	case x == 0 && z == 2:
		p := (opcode >> 4) & 3
		q := (opcode >> 3) & 1
		n := 1
		if p >= 2 {
			n = 3 // the (nn) forms carry a 16-bit address
		}
		return fmtLine(addr, readBytes(mem, addr, n), indirectLDText(p, q, hlName))
	case x == 3 && z == 0:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("ret %s", condNames[y]))
	case opcode == 0xC9:
		return fmtLine(addr, readBytes(mem, addr, 1), "ret")
	case x == 3 && z == 2:
		bs := readBytes(mem, addr, 3)
		return fmtLine(addr, bs, fmt.Sprintf("jp %s,0x%04x", condNames[y], uint16(bs[1])|uint16(bs[2])<<8))
	case opcode == 0xC3:
		bs := readBytes(mem, addr, 3)
		return fmtLine(addr, bs, fmt.Sprintf("jp 0x%04x", uint16(bs[1])|uint16(bs[2])<<8))
	case opcode == 0x18:
		bs := readBytes(mem, addr, 2)
		target := addr + 2 + uint16(int8(bs[1]))
		return fmtLine(addr, bs, fmt.Sprintf("jr 0x%04x", target))
	case opcode == 0x10:
		bs := readBytes(mem, addr, 2)
		target := addr + 2 + uint16(int8(bs[1]))
		return fmtLine(addr, bs, fmt.Sprintf("djnz 0x%04x", target))
	case opcode == 0xD3:
		bs := readBytes(mem, addr, 2)
		return fmtLine(addr, bs, fmt.Sprintf("out (0x%02x),a", bs[1]))
	case opcode == 0xDB:
		bs := readBytes(mem, addr, 2)
		return fmtLine(addr, bs, fmt.Sprintf("in a,(0x%02x)", bs[1]))
	case x == 0 && z == 0 && y >= 4 && y <= 7:
		bs := readBytes(mem, addr, 2)
		target := addr + 2 + uint16(int8(bs[1]))
		return fmtLine(addr, bs, fmt.Sprintf("jr %s,0x%04x", condNames[y-4], target))
	case x == 3 && z == 4:
		bs := readBytes(mem, addr, 3)
		return fmtLine(addr, bs, fmt.Sprintf("call %s,0x%04x", condNames[y], uint16(bs[1])|uint16(bs[2])<<8))
	case opcode == 0xCD:
		bs := readBytes(mem, addr, 3)
		return fmtLine(addr, bs, fmt.Sprintf("call 0x%04x", uint16(bs[1])|uint16(bs[2])<<8))
	case x == 3 && z == 6:
		bs := readBytes(mem, addr, 2)
		return fmtLine(addr, bs, fmt.Sprintf("%s 0x%02x", aluNames[y], bs[1]))
	case x == 3 && z == 7:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("rst 0x%02x", y*8))
	case x == 3 && z == 5 && opcode&0x08 == 0:
		p := opcode >> 4 & 3
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("push %s", rp2Name(p, hlName)))
	case x == 3 && z == 1 && opcode&8 == 0:
		p := opcode >> 4 & 3
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("pop %s", rp2Name(p, hlName)))
	case opcode == 0xCB:
		return fmtLine(addr, readBytes(mem, addr, 1), "(cb prefix)")
	case opcode == 0xF3:
		return fmtLine(addr, readBytes(mem, addr, 1), "di")
	case opcode == 0xFB:
		return fmtLine(addr, readBytes(mem, addr, 1), "ei")
	case opcode == 0x2F:
		return fmtLine(addr, readBytes(mem, addr, 1), "cpl")
	case opcode == 0x3F:
		return fmtLine(addr, readBytes(mem, addr, 1), "ccf")
	case opcode == 0x37:
		return fmtLine(addr, readBytes(mem, addr, 1), "scf")
	default:
		return fmtLine(addr, readBytes(mem, addr, 1), fmt.Sprintf("db 0x%02x", opcode))
	}
}

func rpName(p byte, hlName string) string {
	if p == 2 {
		return hlName
	}
	return rpNames[p]
}

func rp2Name(p byte, hlName string) string {
	if p == 2 {
		return hlName
	}
	return rp2Names[p]
}

func indirectLDText(p, q byte, hlName string) string {
	switch {
	case p == 0 && q == 0:
		return "ld (bc),a"
	case p == 0 && q == 1:
		return "ld a,(bc)"
	case p == 1 && q == 0:
		return "ld (de),a"
	case p == 1 && q == 1:
		return "ld a,(de)"
	case p == 2 && q == 0:
		return "ld (nn)," + hlName
	case p == 2 && q == 1:
		return "ld " + hlName + ",(nn)"
	case p == 3 && q == 0:
		return "ld (nn),a"
	default:
		return "ld a,(nn)"
	}
}

func cbText(subOp byte) string {
	x := subOp >> 6
	y := (subOp >> 3) & 7
	z := subOp & 7
	reg := reg8Names[z]
	switch x {
	case 0:
		return fmt.Sprintf("%s %s", rotNames[y], reg)
	case 1:
		return fmt.Sprintf("bit %d,%s", y, reg)
	case 2:
		return fmt.Sprintf("res %d,%s", y, reg)
	default:
		return fmt.Sprintf("set %d,%s", y, reg)
	}
}

func edInstruction(mem Reader, addr uint16, b1 byte) Line {
	x := b1 >> 6
	y := (b1 >> 3) & 7
	z := b1 & 7

	named := func(text string) Line { return fmtLine(addr, readBytes(mem, addr, 2), text) }

	if x == 1 {
		switch z {
		case 0:
			return named(fmt.Sprintf("in %s,(c)", reg8Names[y]))
		case 1:
			return named(fmt.Sprintf("out (c),%s", reg8Names[y]))
		case 2:
			if y&1 == 0 {
				return named(fmt.Sprintf("sbc hl,%s", rpNames[y>>1]))
			}
			return named(fmt.Sprintf("adc hl,%s", rpNames[y>>1]))
		case 3:
			bs := readBytes(mem, addr, 4)
			nn := uint16(bs[2]) | uint16(bs[3])<<8
			if y&1 == 0 {
				return fmtLine(addr, bs, fmt.Sprintf("ld (0x%04x),%s", nn, rpNames[y>>1]))
			}
			return fmtLine(addr, bs, fmt.Sprintf("ld %s,(0x%04x)", rpNames[y>>1], nn))
		case 4:
			return named("neg")
		case 5:
			if y&1 == 0 {
				return named("retn")
			}
			return named("reti")
		case 6:
			return named(fmt.Sprintf("im %d", []byte{0, 0, 1, 2, 0, 0, 1, 2}[y]))
		default:
			names := [8]string{"ld i,a", "ld r,a", "ld a,i", "ld a,r", "rrd", "rld", "nop", "nop"}
			return named(names[y])
		}
	}
	if x == 2 && y >= 4 {
		names := [4][4]string{
			{"ldi", "cpi", "ini", "outi"},
			{"ldd", "cpd", "ind", "outd"},
			{"ldir", "cpir", "inir", "otir"},
			{"lddr", "cpdr", "indr", "otdr"},
		}
		return named(names[y-4][z])
	}
	return named("nop")
}

// indexedInstruction handles the DD/FD non-CB-compound case by reusing
// baseInstruction with "(hl)" relabeled to "(ix)"/"(iy)". Per this
// package's doc comment, it does not fetch or display the displacement
// byte for indirect (IX+d)/(IY+d) operand forms (e.g. "inc (ix+d)"), so
// both the text and the reported length for those specific opcodes omit
// the displacement — a deliberate simplification, not relevant to CPU
// correctness since internal/z80 decodes those forms independently.
func indexedInstruction(mem Reader, addr uint16, idxName string) Line {
	b1 := mem.Read(addr + 1)
	if b1 == 0xCB {
		d := int8(mem.Read(addr + 2))
		sub := mem.Read(addr + 3)
		bs := readBytes(mem, addr, 4)
		return fmtLine(addr, bs, fmt.Sprintf("%s (%s%+d)", cbText(sub), idxName, d))
	}
	line := baseInstruction(mem, addr+1, b1, idxName)
	bs := append([]byte{mem.Read(addr)}, line.Bytes...)
	return Line{Addr: addr, Bytes: bs, Text: line.Text}
}

// String renders the teacher's "addr  bytes  mnemonic" debug layout.
func (l Line) String() string {
	hex := ""
	for _, b := range l.Bytes {
		hex += fmt.Sprintf("%02x ", b)
	}
	return fmt.Sprintf("%04x  %-12s %s", l.Addr, hex, l.Text)
}

// Len reports the instruction's byte length.
func (l Line) Len() int { return len(l.Bytes) }
