package z80

// The ED-prefixed table: 16-bit arithmetic with carry, port I/O, the
// block transfer/search/IO instruction families, and the miscellaneous
// I/R/interrupt-mode group. Grounded on cpu_z80.go's opLDI/opLDIR/opCPI/
// opCPIR/opINI/opOUTI-family handlers and updateLDIFlags/updateLDAIRFlags,
// generalized over the opcode's x/y/z/p/q shape like the base and CB
// tables (see decode.go), rather than the teacher's initEDOps listing.
func (c *CPU) buildEDTable() {
	for op := 0; op < 256; op++ {
		opcode := byte(op)
		x := opcode >> 6
		y := (opcode >> 3) & 7
		z := opcode & 7
		p := y >> 1
		q := y & 1

		switch {
		case x == 1:
			c.edOps[opcode] = c.buildED40(y, z, p, q)
		case x == 2 && y >= 4 && z <= 3:
			c.edOps[opcode] = c.buildEDBlock(y, z)
		}
	}
}

func (c *CPU) buildED40(y, z, p, q byte) opFunc {
	switch z {
	case 0:
		return func(c *CPU) {
			v := c.in(c.Get16(RegBC))
			if y != 6 {
				c.setR8Plain(y, v)
			}
			f := sz53pOf(v) | (c.Flags() & FlagC)
			c.SetFlags(f)
			c.WZ = c.Get16(RegBC) + 1
			c.tick(12)
		}
	case 1:
		return func(c *CPU) {
			v := byte(0)
			if y != 6 {
				v = c.getR8Plain(y)
			}
			c.out(c.Get16(RegBC), v)
			c.WZ = c.Get16(RegBC) + 1
			c.tick(12)
		}
	case 2:
		rp := c.rpTableED(p)
		if q == 0 {
			return func(c *CPU) {
				hl := c.Get16(RegHL)
				c.WZ = hl + 1
				r, f := Sbc16(hl, c.Get16(rp), c.Flags())
				c.Set16(RegHL, r)
				c.SetFlags(f)
				c.tick(15)
			}
		}
		return func(c *CPU) {
			hl := c.Get16(RegHL)
			c.WZ = hl + 1
			r, f := Adc16(hl, c.Get16(rp), c.Flags())
			c.Set16(RegHL, r)
			c.SetFlags(f)
			c.tick(15)
		}
	case 3:
		rp := c.rpTableED(p)
		if q == 0 {
			return func(c *CPU) {
				addr := c.fetchWord()
				v := c.Get16(rp)
				c.write(addr, byte(v))
				c.write(addr+1, byte(v>>8))
				c.WZ = addr + 1
				c.tick(20)
			}
		}
		return func(c *CPU) {
			addr := c.fetchWord()
			lo := c.read(addr)
			hi := c.read(addr + 1)
			c.Set16(rp, uint16(hi)<<8|uint16(lo))
			c.WZ = addr + 1
			c.tick(20)
		}
	case 4:
		return func(c *CPU) { r, f := Neg(c.A); c.A, c.F = r, f.Byte(); c.tick(8) }
	case 5:
		// RETN (y even) and RETI (y odd) are indistinguishable in their
		// effect on this implementation: both pop PC and restore IFF1
		// from IFF2. Grounded on cpu_z80.go's opRETN/opRETI.
		return func(c *CPU) {
			c.PC = c.popWord()
			c.IFF1 = c.IFF2
			c.WZ = c.PC
			c.tick(14)
		}
	case 6:
		im := [8]byte{0, 0, 1, 2, 0, 0, 1, 2}[y]
		return func(c *CPU) { c.IM = im; c.tick(8) }
	default:
		switch y {
		case 0:
			return func(c *CPU) { c.I = c.A; c.tick(9) }
		case 1:
			return func(c *CPU) { c.R = c.A; c.tick(9) }
		case 2:
			return func(c *CPU) {
				c.A = c.I
				c.SetFlags(ldairFlags(c.A, c.IFF2, c.Flags()))
				c.tick(9)
			}
		case 3:
			return func(c *CPU) {
				c.A = c.R
				c.SetFlags(ldairFlags(c.A, c.IFF2, c.Flags()))
				c.tick(9)
			}
		case 4:
			return func(c *CPU) {
				addr := c.Get16(RegHL)
				v := c.read(addr)
				c.write(addr, (v>>4)|(c.A<<4))
				c.A = (c.A & 0xF0) | (v & 0x0F)
				c.SetFlags(sz53pOf(c.A) | (c.Flags() & FlagC))
				c.WZ = addr + 1
				c.tick(18)
			}
		case 5:
			return func(c *CPU) {
				addr := c.Get16(RegHL)
				v := c.read(addr)
				c.write(addr, (v<<4)|(c.A&0x0F))
				c.A = (c.A & 0xF0) | (v >> 4)
				c.SetFlags(sz53pOf(c.A) | (c.Flags() & FlagC))
				c.WZ = addr + 1
				c.tick(18)
			}
		default:
			return func(c *CPU) { c.tick(8) } // undocumented NOP forms
		}
	}
}

// rpTableED resolves BC/DE/HL/SP for the ED 16-bit group; unlike the base
// table's rpTable, ED's HL slot is never replaced by IX/IY (ED cancels a
// preceding DD/FD per decode.go's runIndexedPrefix).
func (c *CPU) rpTableED(p byte) Reg16 {
	switch p {
	case 0:
		return RegBC
	case 1:
		return RegDE
	case 2:
		return RegHL
	default:
		return RegSP
	}
}

func ldairFlags(a byte, iff2 bool, flagsIn Flags) Flags {
	f := sz53Of(a) & (FlagS | Flag5 | Flag3)
	f = f.With(FlagZ, a == 0)
	f = f.With(FlagPV, iff2)
	f |= flagsIn & FlagC
	return f
}

// blockCompareFlags implements CPI/CPD's documented flag derivation: S, Z
// and H come from a plain subtraction; the undocumented 5/3 bits are
// sourced from (A - value - H), not from the subtraction's own result.
func blockCompareFlags(a, value byte) Flags {
	_, subF := Sub8(a, value, false)
	n := a - value
	if subF.HalfCarry() {
		n--
	}
	f := subF & (FlagS | FlagZ | FlagH) | FlagN
	f = f.With(Flag5, n&0x02 != 0)
	f = f.With(Flag3, n&0x08 != 0)
	return f
}

func (c *CPU) buildEDBlock(y, z byte) opFunc {
	switch z {
	case 0:
		dir := int16(1)
		if y == 5 || y == 7 {
			dir = -1
		}
		repeat := y == 6 || y == 7
		return func(c *CPU) {
			hl, de := c.Get16(RegHL), c.Get16(RegDE)
			v := c.read(hl)
			c.write(de, v)
			c.Set16(RegHL, uint16(int32(hl)+int32(dir)))
			c.Set16(RegDE, uint16(int32(de)+int32(dir)))
			bc := c.Get16(RegBC) - 1
			c.Set16(RegBC, bc)

			sum := c.A + v
			f := c.Flags() & (FlagS | FlagZ | FlagC)
			f = f.With(FlagPV, bc != 0)
			f |= Flags(sum) & Flag53
			c.SetFlags(f)
			c.tick(16)

			if repeat && bc != 0 {
				c.PC -= 2
				c.WZ = c.PC + 1
				c.tick(5)
			}
		}
	case 1:
		dir := int16(1)
		if y == 5 || y == 7 {
			dir = -1
		}
		repeat := y == 6 || y == 7
		return func(c *CPU) {
			hl := c.Get16(RegHL)
			v := c.read(hl)
			c.Set16(RegHL, uint16(int32(hl)+int32(dir)))
			bc := c.Get16(RegBC) - 1
			c.Set16(RegBC, bc)

			f := blockCompareFlags(c.A, v)
			f = f.With(FlagPV, bc != 0)
			c.SetFlags(f)
			c.tick(16)

			if dir > 0 {
				c.WZ++
			} else {
				c.WZ--
			}
			if repeat && bc != 0 && !c.Flags().Zero() {
				c.PC -= 2
				c.WZ = c.PC + 1
				c.tick(5)
			}
		}
	case 2:
		dir := int16(1)
		if y == 5 || y == 7 {
			dir = -1
		}
		repeat := y == 6 || y == 7
		return func(c *CPU) {
			hl := c.Get16(RegHL)
			bc := c.Get16(RegBC)
			v := c.in(bc)
			c.write(hl, v)
			c.Set16(RegHL, uint16(int32(hl)+int32(dir)))
			newB := c.B - 1
			c.B = newB
			c.WZ = bc + uint16(dir)

			c.SetFlags(iniIndFlags(newB, v, bc, dir))
			c.tick(16)

			if repeat && newB != 0 {
				c.PC -= 2
				c.tick(5)
			}
		}
	default:
		dir := int16(1)
		if y == 5 || y == 7 {
			dir = -1
		}
		repeat := y == 6 || y == 7
		return func(c *CPU) {
			hl := c.Get16(RegHL)
			v := c.read(hl)
			newHL := uint16(int32(hl) + int32(dir))
			c.Set16(RegHL, newHL)
			newB := c.B - 1
			c.B = newB
			c.out(c.Get16(RegBC), v)
			c.WZ = c.Get16(RegBC) + uint16(dir)

			c.SetFlags(outiOutdFlags(newB, v, newHL))
			c.tick(16)

			if repeat && newB != 0 {
				c.PC -= 2
				c.tick(5)
			}
		}
	}
}

// iniIndFlags implements INI/IND's documented (if intricate) flag
// derivation: S/Z/5/3 come from the decremented B; N is bit 7 of the byte
// read; H and C come from the carry out of val+((C+dir)&0xFF); P/V is the
// parity of that sum's low 3 bits XORed with B.
func iniIndFlags(newB, val byte, bcBefore uint16, dir int16) Flags {
	c := byte(bcBefore)
	temp := uint16(val) + uint16(byte(int16(c)+dir))
	f := sz53Of(newB)
	f = f.With(FlagN, val&0x80 != 0)
	f = f.With(FlagH, temp > 0xFF)
	f = f.With(FlagC, temp > 0xFF)
	f = f.With(FlagPV, !Parity(byte(temp&7)^newB))
	return f
}

// outiOutdFlags implements OUTI/OUTD's documented flag derivation, using
// HL's low byte *after* the increment/decrement in place of INI/IND's
// port-register arithmetic.
func outiOutdFlags(newB, val byte, hlAfter uint16) Flags {
	temp := uint16(val) + uint16(byte(hlAfter))
	f := sz53Of(newB)
	f = f.With(FlagN, val&0x80 != 0)
	f = f.With(FlagH, temp > 0xFF)
	f = f.With(FlagC, temp > 0xFF)
	f = f.With(FlagPV, !Parity(byte(temp&7)^newB))
	return f
}
