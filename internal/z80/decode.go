package z80

// Unprefixed-opcode decoding, following the x/y/z/p/q shape described in
// Young's "Decoding Z80 Opcodes" (and referenced directly by spec.md
// §4.5): x = bits 7-6, y = bits 5-3, z = bits 2-0, p = y>>1, q = y&1. The
// dispatch table is built once, at CPU construction, by iterating every
// opcode and assigning a closure per its decoded shape — generalizing
// cpu_z80.go's initBaseOps (which enumerates ranges with explicit range
// loops plus one-off entries) into a single pass driven by the opcode
// shape instead of hand-listing 256 cases.

func (c *CPU) condTrue(y byte) bool {
	f := c.Flags()
	switch y {
	case 0:
		return !f.Zero()
	case 1:
		return f.Zero()
	case 2:
		return !f.Carry()
	case 3:
		return f.Carry()
	case 4:
		return !f.Parity()
	case 5:
		return f.Parity()
	case 6:
		return !f.Sign()
	default:
		return f.Sign()
	}
}

func (c *CPU) aluApply(y byte, val byte) {
	switch y {
	case 0:
		r, f := Add8(c.A, val, false)
		c.A, c.F = r, f.Byte()
	case 1:
		r, f := Add8(c.A, val, c.Flags().Carry())
		c.A, c.F = r, f.Byte()
	case 2:
		r, f := Sub8(c.A, val, false)
		c.A, c.F = r, f.Byte()
	case 3:
		r, f := Sub8(c.A, val, c.Flags().Carry())
		c.A, c.F = r, f.Byte()
	case 4:
		r, f := And8(c.A, val)
		c.A, c.F = r, f.Byte()
	case 5:
		r, f := Xor8(c.A, val)
		c.A, c.F = r, f.Byte()
	case 6:
		r, f := Or8(c.A, val)
		c.A, c.F = r, f.Byte()
	case 7:
		c.SetFlags(Cmp8(c.A, val))
	}
}

func (c *CPU) rotApply(y byte, v byte) (byte, Flags) {
	switch y {
	case 0:
		return Rlc(v)
	case 1:
		return Rrc(v)
	case 2:
		return Rl(v, c.Flags())
	case 3:
		return Rr(v, c.Flags())
	case 4:
		return Sla(v)
	case 5:
		return Sra(v)
	case 6:
		return Sll(v)
	default:
		return Srl(v)
	}
}

// resolveHL returns the register that plays "HL" for this instruction: HL
// itself unprefixed, or the index register currently selected by a DD/FD
// prefix. The base-table handlers that call it switch HL to IX or IY
// under a prefix; EX DE,HL and EXX do not call it and always act on the
// real HL.
func (c *CPU) resolveHL() Reg16 {
	switch c.indexMode {
	case indexIX:
		return RegIX
	case indexIY:
		return RegIY
	default:
		return RegHL
	}
}

// rpTable resolves the SP-based register-pair slot p (BC, DE, HL/IX/IY, SP).
func (c *CPU) rpTable(p byte) Reg16 {
	switch p {
	case 0:
		return RegBC
	case 1:
		return RegDE
	case 2:
		return c.resolveHL()
	default:
		return RegSP
	}
}

// rp2Table resolves the AF-based register-pair slot p, used by PUSH/POP
// (BC, DE, HL/IX/IY, AF — AF is never replaced by a prefix).
func (c *CPU) rp2Table(p byte) Reg16 {
	switch p {
	case 0:
		return RegBC
	case 1:
		return RegDE
	case 2:
		return c.resolveHL()
	default:
		return RegAF
	}
}

// hlSlotAddr returns the effective address for an 8-bit operand slot of 6
// ((HL) normally, (IX+d)/(IY+d) under a prefix). Under a prefix the
// displacement is fetched and WZ computed exactly once per instruction,
// the first time the slot is touched, per spec.md §4.5's indirect-mode
// pre-pass.
func (c *CPU) hlSlotAddr() uint16 {
	if c.indexMode == indexNone {
		return c.Get16(RegHL)
	}
	if !c.haveIndexed {
		d := c.fetchSignedByte()
		base := c.IX
		if c.indexMode == indexIY {
			base = c.IY
		}
		c.indexedAddr = uint16(int32(base) + int32(d))
		c.haveIndexed = true
		c.WZ = c.indexedAddr
		// 3 T-states to read the displacement byte plus 5 T-states of
		// internal address-computation time, per the reference indexed
		// timings (e.g. INC (IX+d) totals 23 T-states).
		c.tick(8)
	}
	return c.indexedAddr
}

// getR8/setR8 read/write an 8-bit operand slot (0..7), redirecting slots
// 4/5/6 under a DD/FD prefix per cpu_z80.go's readReg8/writeReg8.
func (c *CPU) getR8(slot byte) byte {
	switch slot {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		if c.indexMode == indexIX {
			return byte(c.IX >> 8)
		} else if c.indexMode == indexIY {
			return byte(c.IY >> 8)
		}
		return c.H
	case 5:
		if c.indexMode == indexIX {
			return byte(c.IX)
		} else if c.indexMode == indexIY {
			return byte(c.IY)
		}
		return c.L
	case 6:
		return c.read(c.hlSlotAddr())
	default:
		return c.A
	}
}

func (c *CPU) setR8(slot byte, v byte) {
	switch slot {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		if c.indexMode == indexIX {
			c.IX = c.IX&0x00FF | uint16(v)<<8
		} else if c.indexMode == indexIY {
			c.IY = c.IY&0x00FF | uint16(v)<<8
		} else {
			c.H = v
		}
	case 5:
		if c.indexMode == indexIX {
			c.IX = c.IX&0xFF00 | uint16(v)
		} else if c.indexMode == indexIY {
			c.IY = c.IY&0xFF00 | uint16(v)
		} else {
			c.L = v
		}
	case 6:
		c.write(c.hlSlotAddr(), v)
	default:
		c.A = v
	}
}

// getR8Plain/setR8Plain never redirect — used by the CB table, which (for
// the unprefixed 0xCB form only) always means plain B/C/D/E/H/L/(HL)/A
// even though the CPU could in principle be mid-index (it never is: 0xCB
// after DD/FD is intercepted earlier as the DDCB/FDCB compound form).
func (c *CPU) getR8Plain(slot byte) byte {
	switch slot {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.read(c.Get16(RegHL))
	default:
		return c.A
	}
}

func (c *CPU) setR8Plain(slot byte, v byte) {
	switch slot {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.write(c.Get16(RegHL), v)
	default:
		c.A = v
	}
}

func (c *CPU) jpCond(taken bool) {
	addr := c.fetchWord()
	c.WZ = addr
	if taken {
		c.PC = addr
	}
	c.tick(10)
}

func (c *CPU) jrCond(taken bool) {
	d := c.fetchSignedByte()
	if taken {
		c.PC = uint16(int32(c.PC) + int32(d))
		c.WZ = c.PC
		c.tick(12)
	} else {
		c.tick(7)
	}
}

func (c *CPU) callCond(taken bool) {
	addr := c.fetchWord()
	c.WZ = addr
	if taken {
		c.pushWord(c.PC)
		c.PC = addr
		c.tick(17)
	} else {
		c.tick(10)
	}
}

func (c *CPU) retCond(taken bool, tStatesTaken, tStatesNot int) {
	if taken {
		c.PC = c.popWord()
		c.WZ = c.PC
		c.tick(tStatesTaken)
	} else {
		c.tick(tStatesNot)
	}
}

func (c *CPU) buildBaseTable() {
	for op := 0; op < 256; op++ {
		opcode := byte(op)
		x := opcode >> 6
		y := (opcode >> 3) & 7
		z := opcode & 7
		p := y >> 1
		q := y & 1

		var fn opFunc
		switch x {
		case 0:
			fn = c.buildX0(y, z, p, q)
		case 1:
			fn = c.buildX1(y, z)
		case 2:
			fn = c.buildX2(y, z)
		default:
			fn = c.buildX3(opcode, y, z, p, q)
		}
		c.baseOps[opcode] = fn
	}
}

func (c *CPU) buildX0(y, z, p, q byte) opFunc {
	switch z {
	case 0:
		switch y {
		case 0:
			return func(c *CPU) { c.tick(4) } // NOP
		case 1:
			return func(c *CPU) { c.ExAFAF2(); c.tick(4) }
		case 2:
			return func(c *CPU) { // DJNZ e
				c.B--
				if c.B != 0 {
					d := c.fetchSignedByte()
					c.PC = uint16(int32(c.PC) + int32(d))
					c.WZ = c.PC
					c.tick(13)
				} else {
					c.fetchByte()
					c.tick(8)
				}
			}
		case 3:
			return func(c *CPU) { // JR e
				d := c.fetchSignedByte()
				c.PC = uint16(int32(c.PC) + int32(d))
				c.WZ = c.PC
				c.tick(12)
			}
		default:
			cc := y - 4
			return func(c *CPU) { c.jrCond(c.condTrue(cc)) }
		}
	case 1:
		if q == 0 {
			return func(c *CPU) {
				v := c.fetchWord()
				c.Set16(c.rpTable(p), v)
				c.tick(10)
			}
		}
		return func(c *CPU) {
			r, f := Add16(c.Get16(c.resolveHL()), c.Get16(c.rpTable(p)), c.Flags())
			c.Set16(c.resolveHL(), r)
			c.SetFlags(f)
			c.tick(11)
		}
	case 2:
		return c.buildIndirectLoad(y)
	case 3:
		if q == 0 {
			return func(c *CPU) {
				rp := c.rpTable(p)
				c.Set16(rp, c.Get16(rp)+1)
				c.tick(6)
			}
		}
		return func(c *CPU) {
			rp := c.rpTable(p)
			c.Set16(rp, c.Get16(rp)-1)
			c.tick(6)
		}
	case 4:
		return func(c *CPU) {
			v := c.getR8(y)
			r, f := Inc8(v, c.Flags())
			c.setR8(y, r)
			c.SetFlags(f)
			c.tick(tStatesFor8bitSlot(y, 4, 11))
		}
	case 5:
		return func(c *CPU) {
			v := c.getR8(y)
			r, f := Dec8(v, c.Flags())
			c.setR8(y, r)
			c.SetFlags(f)
			c.tick(tStatesFor8bitSlot(y, 4, 11))
		}
	case 6:
		if y == 6 {
			// LD (HL),n / LD (IX+d),n / LD (IY+d),n: the indexed forms put
			// the displacement before the immediate (DD 36 d n), so the
			// address must be resolved (fetching d) before n is fetched,
			// per spec.md §4.5's immediate-immediate overlap note. This
			// can't reuse hlSlotAddr: that helper charges the generic
			// indexed-access internal delay (5 T-states), but this one
			// opcode uses only 2 — a documented Z80 timing idiosyncrasy —
			// since the cycle that would normally read the target byte is
			// spent reading the immediate instead.
			return func(c *CPU) {
				if c.indexMode == indexNone {
					n := c.fetchByte()
					c.write(c.Get16(RegHL), n)
					c.tick(10)
					return
				}
				d := c.fetchSignedByte()
				base := c.IX
				if c.indexMode == indexIY {
					base = c.IY
				}
				addr := uint16(int32(base) + int32(d))
				c.indexedAddr = addr
				c.haveIndexed = true
				c.WZ = addr
				n := c.fetchByte()
				c.write(addr, n)
				// opcode M1 (4) + displacement read (3) + 2 internal +
				// immediate read (3) + write (3) = 15; runIndexedPrefix
				// adds the DD/FD prefix's own 4, totaling the reference
				// 19 T-states for LD (IX+d),n / LD (IY+d),n.
				c.tick(15)
			}
		}
		return func(c *CPU) {
			n := c.fetchByte()
			c.setR8(y, n)
			c.tick(tStatesFor8bitSlot(y, 7, 10))
		}
	default: // z==7: rotates/misc on A, and DAA/CPL/SCF/CCF
		switch y {
		case 0:
			return func(c *CPU) { r, f := RlcaFast(c.A, c.Flags()); c.A, c.F = r, f.Byte(); c.tick(4) }
		case 1:
			return func(c *CPU) { r, f := RrcaFast(c.A, c.Flags()); c.A, c.F = r, f.Byte(); c.tick(4) }
		case 2:
			return func(c *CPU) { r, f := RlaFast(c.A, c.Flags()); c.A, c.F = r, f.Byte(); c.tick(4) }
		case 3:
			return func(c *CPU) { r, f := RraFast(c.A, c.Flags()); c.A, c.F = r, f.Byte(); c.tick(4) }
		case 4:
			return func(c *CPU) { r, f := Daa(c.A, c.Flags()); c.A, c.F = r, f.Byte(); c.tick(4) }
		case 5:
			return func(c *CPU) { r, f := Cpl(c.A, c.Flags()); c.A, c.F = r, f.Byte(); c.tick(4) }
		case 6:
			return func(c *CPU) { c.SetFlags(Scf(c.A, c.Flags())); c.tick(4) }
		default:
			return func(c *CPU) { c.SetFlags(Ccf(c.A, c.Flags())); c.tick(4) }
		}
	}
}

// tStatesFor8bitSlot returns the memory-slot timing when slot==6 and the
// plain-register timing otherwise (indexed-slot timing, and the DD/FD
// prefix byte itself, are layered on top by hlSlotAddr and
// runIndexedPrefix, matching spec.md §4.5's pre-pass charge).
func tStatesFor8bitSlot(slot byte, regT, memT int) int {
	if slot == 6 {
		return memT
	}
	return regT
}

func (c *CPU) buildIndirectLoad(y byte) opFunc {
	switch y {
	case 0:
		return func(c *CPU) { c.write(c.Get16(RegBC), c.A); c.tick(7) }
	case 1:
		return func(c *CPU) { c.A = c.read(c.Get16(RegBC)); c.WZ = c.Get16(RegBC) + 1; c.tick(7) }
	case 2:
		return func(c *CPU) { c.write(c.Get16(RegDE), c.A); c.tick(7) }
	case 3:
		return func(c *CPU) { c.A = c.read(c.Get16(RegDE)); c.WZ = c.Get16(RegDE) + 1; c.tick(7) }
	case 4:
		return func(c *CPU) {
			addr := c.fetchWord()
			v := c.Get16(c.resolveHL())
			c.write(addr, byte(v))
			c.write(addr+1, byte(v>>8))
			c.WZ = addr + 1
			c.tick(16)
		}
	case 5:
		return func(c *CPU) {
			addr := c.fetchWord()
			lo := c.read(addr)
			hi := c.read(addr + 1)
			c.Set16(c.resolveHL(), uint16(hi)<<8|uint16(lo))
			c.WZ = addr + 1
			c.tick(16)
		}
	case 6:
		return func(c *CPU) {
			addr := c.fetchWord()
			c.write(addr, c.A)
			c.WZ = uint16(c.A)<<8 | ((addr + 1) & 0x00FF)
			c.tick(13)
		}
	default:
		return func(c *CPU) {
			addr := c.fetchWord()
			c.A = c.read(addr)
			c.WZ = uint16(c.A)<<8 | ((addr + 1) & 0x00FF)
			c.tick(13)
		}
	}
}

func (c *CPU) buildX1(y, z byte) opFunc {
	if y == 6 && z == 6 {
		return func(c *CPU) { c.Halted = true; c.tick(4) }
	}
	tStates := 4
	if y == 6 || z == 6 {
		tStates = 7
	}
	return func(c *CPU) {
		v := c.getR8(z)
		c.setR8(y, v)
		c.tick(tStates)
	}
}

func (c *CPU) buildX2(y, z byte) opFunc {
	return func(c *CPU) {
		v := c.getR8(z)
		c.aluApply(y, v)
		c.tick(tStatesFor8bitSlot(z, 4, 7))
	}
}

func (c *CPU) buildX3(opcode, y, z, p, q byte) opFunc {
	switch z {
	case 0:
		return func(c *CPU) { c.retCond(c.condTrue(y), 11, 5) }
	case 1:
		if q == 0 {
			return func(c *CPU) {
				c.Set16(c.rp2Table(p), c.popWord())
				c.tick(10)
			}
		}
		switch y {
		case 1:
			return func(c *CPU) { c.PC = c.popWord(); c.WZ = c.PC; c.tick(10) }
		case 3:
			return func(c *CPU) { c.Exx(); c.tick(4) }
		case 5:
			return func(c *CPU) { c.PC = c.Get16(c.resolveHL()); c.WZ = c.PC; c.tick(4) }
		default:
			return func(c *CPU) { c.SP = c.Get16(c.resolveHL()); c.tick(6) }
		}
	case 2:
		return func(c *CPU) { c.jpCond(c.condTrue(y)) }
	case 3:
		switch y {
		case 0:
			return func(c *CPU) { c.jpCond(true) }
		case 1:
			return (*CPU).opCBPrefix
		case 2:
			return func(c *CPU) {
				n := c.fetchByte()
				c.out(uint16(c.A)<<8|uint16(n), c.A)
				c.WZ = uint16(c.A)<<8 | (uint16(n)+1)&0xFF
				c.tick(11)
			}
		case 3:
			return func(c *CPU) {
				n := c.fetchByte()
				port := uint16(c.A)<<8 | uint16(n)
				c.A = c.in(port)
				c.WZ = port + 1
				c.tick(11)
			}
		case 4:
			return func(c *CPU) {
				lo := c.read(c.SP)
				hi := c.read(c.SP + 1)
				v := uint16(hi)<<8 | uint16(lo)
				hl := c.Get16(c.resolveHL())
				c.write(c.SP, byte(hl))
				c.write(c.SP+1, byte(hl>>8))
				c.Set16(c.resolveHL(), v)
				c.WZ = v
				c.tick(19)
			}
		case 5:
			return func(c *CPU) { c.ExDEHL(); c.tick(4) }
		case 6:
			return func(c *CPU) { c.IFF1, c.IFF2 = false, false; c.iffDelay = 0; c.tick(4) }
		default:
			return func(c *CPU) { c.iffDelay = 2; c.tick(4) }
		}
	case 4:
		return func(c *CPU) { c.callCond(c.condTrue(y)) }
	case 5:
		if q == 0 {
			return func(c *CPU) {
				c.pushWord(c.Get16(c.rp2Table(p)))
				c.tick(11)
			}
		}
		switch p {
		case 0:
			return func(c *CPU) { c.callCond(true) }
		case 1:
			return (*CPU).opDDPrefix
		case 2:
			return (*CPU).opEDPrefix
		default:
			return (*CPU).opFDPrefix
		}
	case 6:
		return func(c *CPU) {
			n := c.fetchByte()
			c.aluApply(y, n)
			c.tick(7)
		}
	default:
		return func(c *CPU) {
			c.pushWord(c.PC)
			c.PC = uint16(y) * 8
			c.WZ = c.PC
			c.tick(11)
		}
	}
}

func (c *CPU) opCBPrefix() {
	opcode := c.fetchOpcode()
	if fn := c.cbOps[opcode]; fn != nil {
		fn(c)
	} else {
		c.tick(8)
	}
}

func (c *CPU) opDDPrefix() { c.runIndexedPrefix(indexIX) }
func (c *CPU) opFDPrefix() { c.runIndexedPrefix(indexIY) }

// runIndexedPrefix handles the non-CB-compound DD/FD case: it sets the
// index mode, reuses the shared base table for the already-fetched second
// opcode byte, and restores indexMode afterward. The DDCB/FDCB compound
// form (opcode2==0xCB) has a different byte order — displacement before
// the final sub-opcode — and is intercepted before reaching the base
// table.
func (c *CPU) runIndexedPrefix(mode indexMode) {
	opcode2 := c.fetchOpcode()
	if opcode2 == 0xCB {
		d := c.fetchSignedByte()
		subOp := c.fetchByte()
		base := c.IX
		if mode == indexIY {
			base = c.IY
		}
		addr := uint16(int32(base) + int32(d))
		c.WZ = addr
		c.execIndexedCB(subOp, addr)
		return
	}

	// A second prefix byte (another DD/FD, or ED) makes this DD/FD a
	// wasted, redundant prefix — 4 T-states with no other effect, per
	// spec.md §9's resolution of undocumented DD/FD chains. Whichever
	// prefix comes last is the one that actually applies.
	if opcode2 == 0xDD || opcode2 == 0xFD || opcode2 == 0xED {
		c.tick(4)
		c.indexMode = indexNone
		if fn := c.baseOps[opcode2]; fn != nil {
			fn(c)
		}
		return
	}

	c.indexMode = mode
	c.haveIndexed = false
	// The DD/FD byte is its own M1 cycle (4 T-states) on top of whatever
	// the redirected opcode2 handler charges for itself; baseOps' timings
	// are all written for the unprefixed form, so this is never folded
	// into them.
	c.tick(4)
	if fn := c.baseOps[opcode2]; fn != nil {
		fn(c)
	} else {
		c.tick(8)
	}
	c.indexMode = indexNone
}

func (c *CPU) opEDPrefix() {
	opcode := c.fetchOpcode()
	if fn := c.edOps[opcode]; fn != nil {
		fn(c)
	} else {
		c.tick(8)
	}
}
