package z80

import "testing"

func TestRegistersReset(t *testing.T) {
	r := &Registers{}
	r.Reset()

	if r.A != 0xFF || r.F != 0xFF || r.B != 0xFF || r.C != 0xFF {
		t.Fatalf("main registers not all 0xFF after reset: %+v", r)
	}
	if r.SP != 0xFFFF || r.IX != 0xFFFF || r.IY != 0xFFFF {
		t.Fatalf("SP/IX/IY not 0xFFFF after reset: SP=%04X IX=%04X IY=%04X", r.SP, r.IX, r.IY)
	}
	if r.PC != 0 || r.I != 0 || r.R != 0 || r.WZ != 0 {
		t.Fatalf("PC/I/R/WZ not zero after reset: PC=%04X I=%02X R=%02X WZ=%04X", r.PC, r.I, r.R, r.WZ)
	}
}

func TestRegistersGetSet8(t *testing.T) {
	r := &Registers{}
	r.Set8(RegA, 0x42)
	r.Set8(RegB, 0x01)
	r.Set8(RegIXH, 0x12)
	r.Set8(RegIXL, 0x34)

	if r.Get8(RegA) != 0x42 || r.Get8(RegB) != 0x01 {
		t.Fatalf("A/B mismatch")
	}
	if r.Get16(RegIX) != 0x1234 {
		t.Fatalf("IX = %04X, want 0x1234", r.Get16(RegIX))
	}
	if r.Get8(RegIXH) != 0x12 || r.Get8(RegIXL) != 0x34 {
		t.Fatalf("IXH/IXL readback mismatch")
	}
}

func TestRegistersGetSet16(t *testing.T) {
	r := &Registers{}
	r.Set16(RegHL, 0xBEEF)
	if r.H != 0xBE || r.L != 0xEF {
		t.Fatalf("H/L = %02X/%02X, want BE/EF", r.H, r.L)
	}
	if r.Get16(RegHL) != 0xBEEF {
		t.Fatalf("Get16(RegHL) = %04X, want BEEF", r.Get16(RegHL))
	}
}

func TestRegistersFlagsRoundTrip(t *testing.T) {
	r := &Registers{}
	r.SetFlags(FlagS | FlagC)
	if r.F != byte(FlagS|FlagC) {
		t.Fatalf("F = %02X, want %02X", r.F, byte(FlagS|FlagC))
	}
	if !r.Flags().Sign() || !r.Flags().Carry() {
		t.Fatalf("Flags() did not report S/C set")
	}
}

func TestRegistersExx(t *testing.T) {
	r := &Registers{B: 1, C: 2, D: 3, E: 4, H: 5, L: 6, B2: 11, C2: 12, D2: 13, E2: 14, H2: 15, L2: 16}
	r.Exx()
	if r.B != 11 || r.C != 12 || r.D != 13 || r.E != 14 || r.H != 15 || r.L != 16 {
		t.Fatalf("Exx did not swap into main set: %+v", r)
	}
	r.Exx()
	if r.B != 1 || r.C != 2 || r.D != 3 || r.E != 4 || r.H != 5 || r.L != 6 {
		t.Fatalf("Exx is not its own inverse: %+v", r)
	}
}

func TestRegistersExAFAF2(t *testing.T) {
	r := &Registers{A: 0x12, F: 0x34, A2: 0x56, F2: 0x78}
	r.ExAFAF2()
	if r.A != 0x56 || r.F != 0x78 || r.A2 != 0x12 || r.F2 != 0x34 {
		t.Fatalf("ExAFAF2 mismatch: %+v", r)
	}
	r.ExAFAF2()
	if r.A != 0x12 || r.F != 0x34 {
		t.Fatalf("ExAFAF2 is not its own inverse: %+v", r)
	}
}

func TestRegistersExDEHL(t *testing.T) {
	r := &Registers{D: 0x11, E: 0x22, H: 0x33, L: 0x44}
	r.ExDEHL()
	if r.D != 0x33 || r.E != 0x44 || r.H != 0x11 || r.L != 0x22 {
		t.Fatalf("ExDEHL mismatch: %+v", r)
	}
}
