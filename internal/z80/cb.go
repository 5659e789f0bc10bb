package z80

// The CB-prefixed table: rotate/shift (x=0), BIT (x=1), RES (x=2), SET
// (x=3), each addressing register/slot z, with y selecting the rotate
// group or bit number. Grounded on cpu_z80.go's opCBRotateShift/opCBBIT/
// opCBRES/opCBSET, generalized the same way the base table is (see
// decode.go) instead of the teacher's initCBOps range-loop-plus-specials.
func (c *CPU) buildCBTable() {
	for op := 0; op < 256; op++ {
		opcode := byte(op)
		x := opcode >> 6
		y := (opcode >> 3) & 7
		z := opcode & 7

		switch x {
		case 0:
			c.cbOps[opcode] = c.buildCBRotate(y, z)
		case 1:
			c.cbOps[opcode] = c.buildCBBit(y, z)
		case 2:
			c.cbOps[opcode] = c.buildCBRes(y, z)
		default:
			c.cbOps[opcode] = c.buildCBSet(y, z)
		}
	}
}

func (c *CPU) buildCBRotate(y, z byte) opFunc {
	return func(c *CPU) {
		v := c.getR8Plain(z)
		res, f := c.rotApply(y, v)
		c.setR8Plain(z, res)
		c.SetFlags(f)
		if z == 6 {
			c.tick(15)
		} else {
			c.tick(8)
		}
	}
}

func (c *CPU) buildCBBit(y, z byte) opFunc {
	mask := byte(1) << y
	return func(c *CPU) {
		v := c.getR8Plain(z)
		busNoise := v
		if z == 6 {
			busNoise = byte(c.WZ >> 8)
		}
		c.SetFlags(Bit(v, mask, c.Flags(), busNoise))
		if z == 6 {
			c.tick(12)
		} else {
			c.tick(8)
		}
	}
}

func (c *CPU) buildCBRes(y, z byte) opFunc {
	mask := ^(byte(1) << y)
	return func(c *CPU) {
		res := c.getR8Plain(z) & mask
		c.setR8Plain(z, res)
		if z == 6 {
			c.tick(15)
		} else {
			c.tick(8)
		}
	}
}

func (c *CPU) buildCBSet(y, z byte) opFunc {
	mask := byte(1) << y
	return func(c *CPU) {
		res := c.getR8Plain(z) | mask
		c.setR8Plain(z, res)
		if z == 6 {
			c.tick(15)
		} else {
			c.tick(8)
		}
	}
}

// execIndexedCB executes the DDCB/FDCB compound form: subOp's rotate/
// BIT/RES/SET operates on the byte at addr (already IX+d or IY+d), and
// for every group except BIT, the result is also copied into the z-slot
// register when z != 6 — the well-documented "shadow copy" quirk of the
// indexed CB forms. Grounded on cpu_z80.go's cbIndexedRotateShift/
// cbIndexedBIT/cbIndexedRES/cbIndexedSET.
func (c *CPU) execIndexedCB(subOp byte, addr uint16) {
	x := subOp >> 6
	y := (subOp >> 3) & 7
	z := subOp & 7

	switch x {
	case 0:
		v := c.read(addr)
		res, f := c.rotApply(y, v)
		c.write(addr, res)
		if z != 6 {
			c.setR8Plain(z, res)
		}
		c.SetFlags(f)
		c.tick(23)
	case 1:
		v := c.read(addr)
		mask := byte(1) << y
		c.SetFlags(Bit(v, mask, c.Flags(), byte(c.WZ>>8)))
		c.tick(20)
	case 2:
		res := c.read(addr) &^ (byte(1) << y)
		c.write(addr, res)
		if z != 6 {
			c.setR8Plain(z, res)
		}
		c.tick(23)
	default:
		res := c.read(addr) | (byte(1) << y)
		c.write(addr, res)
		if z != 6 {
			c.setR8Plain(z, res)
		}
		c.tick(23)
	}
}
