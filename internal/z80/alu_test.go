package z80

import "testing"

func TestAdd8Basic(t *testing.T) {
	cases := []struct {
		a, b     byte
		carryIn  bool
		want     byte
		wantC    bool
		wantH    bool
		wantPV   bool
		wantZero bool
	}{
		{0x00, 0x00, false, 0x00, false, false, false, true},
		{0x0F, 0x01, false, 0x10, false, true, false, false},
		{0xFF, 0x01, false, 0x00, true, true, false, true},
		{0x7F, 0x01, false, 0x80, false, true, true, false},
		{0x7F, 0x00, true, 0x80, false, true, true, false},
	}
	for _, c := range cases {
		res, f := Add8(c.a, c.b, c.carryIn)
		if res != c.want {
			t.Errorf("Add8(%#x,%#x,%v) = %#x, want %#x", c.a, c.b, c.carryIn, res, c.want)
		}
		if f.Carry() != c.wantC {
			t.Errorf("Add8(%#x,%#x,%v) carry = %v, want %v", c.a, c.b, c.carryIn, f.Carry(), c.wantC)
		}
		if f.HalfCarry() != c.wantH {
			t.Errorf("Add8(%#x,%#x,%v) half-carry = %v, want %v", c.a, c.b, c.carryIn, f.HalfCarry(), c.wantH)
		}
		if f.Overflow() != c.wantPV {
			t.Errorf("Add8(%#x,%#x,%v) overflow = %v, want %v", c.a, c.b, c.carryIn, f.Overflow(), c.wantPV)
		}
		if f.Zero() != c.wantZero {
			t.Errorf("Add8(%#x,%#x,%v) zero = %v, want %v", c.a, c.b, c.carryIn, f.Zero(), c.wantZero)
		}
		if f.Subtract() {
			t.Errorf("Add8 must not set N")
		}
	}
}

func TestSub8Basic(t *testing.T) {
	res, f := Sub8(0x00, 0x01, false)
	if res != 0xFF {
		t.Fatalf("0-1 = %#x, want 0xFF", res)
	}
	if !f.Carry() {
		t.Fatalf("0-1 should borrow (set carry)")
	}
	if !f.Subtract() {
		t.Fatalf("Sub8 must set N")
	}

	res, f = Sub8(0x80, 0x01, false)
	if res != 0x7F || !f.Overflow() {
		t.Fatalf("0x80-1 = %#x overflow=%v, want 0x7F overflow=true", res, f.Overflow())
	}
}

func TestCmp8Uses5And3FromOperand(t *testing.T) {
	f := Cmp8(0x00, 0x28) // operand has bits 5 and 3 set
	if !f.Flag5Set() || !f.Flag3Set() {
		t.Fatalf("Cmp8 should source 5/3 from the operand, got %v", f)
	}
}

func TestInc8PreservesCarry(t *testing.T) {
	res, f := Inc8(0x7F, FlagC)
	if res != 0x80 {
		t.Fatalf("inc 0x7F = %#x, want 0x80", res)
	}
	if !f.Overflow() {
		t.Fatalf("inc 0x7F should set P/V (overflow into sign)")
	}
	if !f.Carry() {
		t.Fatalf("Inc8 must preserve incoming carry")
	}
}

func TestDec8PreservesCarryAndSetsN(t *testing.T) {
	res, f := Dec8(0x80, 0)
	if res != 0x7F {
		t.Fatalf("dec 0x80 = %#x, want 0x7F", res)
	}
	if !f.Overflow() {
		t.Fatalf("dec 0x80 should set P/V")
	}
	if !f.Subtract() {
		t.Fatalf("Dec8 must set N")
	}
}

func TestAnd8SetsHalfCarry(t *testing.T) {
	res, f := And8(0xFF, 0x0F)
	if res != 0x0F {
		t.Fatalf("and = %#x, want 0x0F", res)
	}
	if !f.HalfCarry() {
		t.Fatalf("And8 must always set H")
	}
	if f.Carry() || f.Subtract() {
		t.Fatalf("And8 must clear C and N")
	}
}

func TestOr8AndXor8ClearHalfCarry(t *testing.T) {
	_, f := Or8(0x0F, 0xF0)
	if f.HalfCarry() {
		t.Fatalf("Or8 must clear H")
	}
	_, f = Xor8(0xFF, 0xFF)
	if f.HalfCarry() || !f.Zero() {
		t.Fatalf("Xor8(x,x) should be zero with H clear, got %v", f)
	}
}

func TestAdd16PreservesSZPVFromIncoming(t *testing.T) {
	incoming := FlagS | FlagZ | FlagPV
	_, f := Add16(0x0F00, 0x0100, incoming)
	if !f.Sign() || !f.Zero() || !f.Overflow() {
		t.Fatalf("Add16 must preserve S/Z/P-V from incoming flags, got %v", f)
	}
	_, f = Add16(0xFFFF, 0x0001, 0)
	if !f.Carry() {
		t.Fatalf("Add16(0xFFFF,1) should set carry")
	}
}

func TestAdc16ComputesFreshSZPV(t *testing.T) {
	res, f := Adc16(0x7FFF, 0x0001, 0)
	if res != 0x8000 {
		t.Fatalf("adc16 = %#x, want 0x8000", res)
	}
	if !f.Overflow() {
		t.Fatalf("adc16 0x7FFF+1 should overflow into sign")
	}
	if !f.Sign() {
		t.Fatalf("adc16 result 0x8000 should set sign")
	}
}

func TestSbc16ComputesFreshSZPV(t *testing.T) {
	res, f := Sbc16(0x0000, 0x0001, 0)
	if res != 0xFFFF {
		t.Fatalf("sbc16 = %#x, want 0xFFFF", res)
	}
	if !f.Carry() {
		t.Fatalf("sbc16 0-1 should set carry (borrow)")
	}
	if !f.Sign() {
		t.Fatalf("sbc16 result 0xFFFF should set sign")
	}
}

func TestDaaAfterAddition(t *testing.T) {
	// 0x09 + 0x01 in BCD should decimal-adjust to 0x10.
	sum, f := Add8(0x09, 0x01, false)
	res, _ := Daa(sum, f)
	if res != 0x10 {
		t.Fatalf("DAA(0x0A) = %#x, want 0x10", res)
	}
}

func TestCplSetsHAndN(t *testing.T) {
	res, f := Cpl(0x3C, 0)
	if res != 0xC3 {
		t.Fatalf("cpl 0x3C = %#x, want 0xC3", res)
	}
	if !f.HalfCarry() || !f.Subtract() {
		t.Fatalf("Cpl must set H and N")
	}
}

func TestNegZero(t *testing.T) {
	res, f := Neg(0x00)
	if res != 0x00 || f.Carry() {
		t.Fatalf("NEG 0 should give 0 with no carry, got res=%#x carry=%v", res, f.Carry())
	}
}

func TestNegOverflowCase(t *testing.T) {
	res, f := Neg(0x80)
	if res != 0x80 || !f.Overflow() {
		t.Fatalf("NEG 0x80 should give 0x80 with overflow, got res=%#x overflow=%v", res, f.Overflow())
	}
}

func TestScfSetsCarryPreservesSZPV(t *testing.T) {
	incoming := FlagS | FlagZ | FlagPV
	f := Scf(0x00, incoming)
	if !f.Carry() || !f.Sign() || !f.Zero() || !f.Overflow() {
		t.Fatalf("Scf should set carry and preserve S/Z/P-V, got %v", f)
	}
	if f.HalfCarry() || f.Subtract() {
		t.Fatalf("Scf must clear H and N")
	}
}

func TestCcfTogglesCarryAndSetsHFromOldCarry(t *testing.T) {
	f := Ccf(0x00, FlagC)
	if f.Carry() {
		t.Fatalf("Ccf should clear carry when it was set")
	}
	if !f.HalfCarry() {
		t.Fatalf("Ccf should copy the old carry into H")
	}

	f = Ccf(0x00, 0)
	if !f.Carry() {
		t.Fatalf("Ccf should set carry when it was clear")
	}
}

func TestRotatesCarryOut(t *testing.T) {
	res, f := Rlc(0x80)
	if res != 0x01 || !f.Carry() {
		t.Fatalf("RLC 0x80 = %#x carry=%v, want 0x01 carry=true", res, f.Carry())
	}
	res, f = Rrc(0x01)
	if res != 0x80 || !f.Carry() {
		t.Fatalf("RRC 0x01 = %#x carry=%v, want 0x80 carry=true", res, f.Carry())
	}
}

func TestRlRrUseIncomingCarry(t *testing.T) {
	res, f := Rl(0x80, 0)
	if res != 0x00 || !f.Carry() {
		t.Fatalf("RL 0x80 with carry-in 0 = %#x carry=%v, want 0x00 carry=true", res, f.Carry())
	}
	res, f = Rl(0x00, FlagC)
	if res != 0x01 {
		t.Fatalf("RL 0x00 with carry-in 1 = %#x, want 0x01", res)
	}

	res, f = Rr(0x01, 0)
	if res != 0x00 || !f.Carry() {
		t.Fatalf("RR 0x01 with carry-in 0 = %#x carry=%v, want 0x00 carry=true", res, f.Carry())
	}
}

func TestShiftsSlaSraSllSrl(t *testing.T) {
	if res, f := Sla(0x80); res != 0x00 || !f.Carry() {
		t.Fatalf("SLA 0x80 = %#x carry=%v, want 0x00 carry=true", res, f.Carry())
	}
	if res, _ := Sra(0x81); res != 0xC0 {
		t.Fatalf("SRA 0x81 = %#x, want 0xC0 (sign-extended)", res)
	}
	if res, f := Sll(0x80); res != 0x01 || !f.Carry() {
		t.Fatalf("SLL 0x80 = %#x carry=%v, want 0x01 carry=true", res, f.Carry())
	}
	if res, f := Srl(0x01); res != 0x00 || !f.Carry() {
		t.Fatalf("SRL 0x01 = %#x carry=%v, want 0x00 carry=true", res, f.Carry())
	}
}

func TestFastAccumulatorRotatesPreserveSZPV(t *testing.T) {
	incoming := FlagS | FlagZ | FlagPV
	_, f := RlcaFast(0x80, incoming)
	if !f.Sign() || !f.Zero() || !f.Overflow() {
		t.Fatalf("RlcaFast must preserve incoming S/Z/P-V, got %v", f)
	}
	if f.HalfCarry() || f.Subtract() {
		t.Fatalf("RlcaFast must clear H and N")
	}
}

func TestBitSourcesUndocFromBusNoiseNotOperand(t *testing.T) {
	// Operand has bits 3/5 clear; busNoise (standing in for WZ's high byte
	// on indirect forms) has them set. 5/3 in the result must come from
	// busNoise, not the tested byte — this is the teacher's confirmed bug,
	// fixed here for the (HL)/(IX+d)/(IY+d) BIT forms.
	f := Bit(0x01, 0x01, 0, 0x28)
	if !f.Flag3Set() || !f.Flag5Set() {
		t.Fatalf("Bit must source 5/3 from busNoise, got %v", f)
	}
	if f.Zero() {
		t.Fatalf("bit 0 of 0x01 is set, Z must be clear")
	}
}

func TestBitZeroWhenTestedBitClear(t *testing.T) {
	f := Bit(0x00, 0x01, 0, 0)
	if !f.Zero() || !f.Overflow() {
		t.Fatalf("bit 0 of 0x00 is clear: Z and P/V must both be set, got %v", f)
	}
	if !f.HalfCarry() {
		t.Fatalf("Bit always sets H")
	}
}

func TestBitSetsSignOnlyForBit7(t *testing.T) {
	f := Bit(0x80, 0x80, 0, 0)
	if !f.Sign() {
		t.Fatalf("BIT 7 on a set bit 7 should set S")
	}
	f = Bit(0x80, 0x01, 0, 0)
	if f.Sign() {
		t.Fatalf("BIT 0 must never set S even if bit 7 happens to be set in the operand")
	}
}

func TestParity(t *testing.T) {
	if !Parity(0x00) {
		t.Fatalf("Parity(0) should be even")
	}
	if Parity(0x01) {
		t.Fatalf("Parity(1) should be odd")
	}
	if !Parity(0xFF) {
		t.Fatalf("Parity(0xFF) should be even (8 bits set)")
	}
}
