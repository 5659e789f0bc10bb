package z80

import "testing"

func TestFlagsFromByteRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		f := FlagsFromByte(byte(i))
		if f.Byte() != byte(i) {
			t.Fatalf("round trip for 0x%02X gave 0x%02X", i, f.Byte())
		}
	}
}

func TestFlagsPredicates(t *testing.T) {
	f := FlagC | FlagZ | Flag5
	if !f.Carry() || !f.Zero() || !f.Flag5Set() {
		t.Fatalf("expected Carry, Zero and Flag5 set, got %v", f)
	}
	if f.Subtract() || f.HalfCarry() || f.Sign() || f.Flag3Set() || f.Parity() {
		t.Fatalf("unexpected bit set in %v", f)
	}
}

func TestFlagsWith(t *testing.T) {
	f := Flags(0)
	f = f.With(FlagC, true)
	if !f.Carry() {
		t.Fatalf("With(FlagC, true) did not set carry")
	}
	f = f.With(FlagC, false)
	if f.Carry() {
		t.Fatalf("With(FlagC, false) did not clear carry")
	}
	if f != 0 {
		t.Fatalf("expected zero flags after clearing, got %v", f)
	}
}

func TestFlagsString(t *testing.T) {
	f := FlagS | FlagZ | FlagC
	got := f.String()
	if got[0] != 'S' || got[1] != 'Z' || got[7] != 'C' {
		t.Fatalf("String() = %q, want S and Z set and C set at expected positions", got)
	}
}

func TestSz53TableZero(t *testing.T) {
	f := sz53Of(0)
	if !f.Zero() {
		t.Fatalf("sz53Of(0) should set Zero")
	}
	if f.Sign() || f.Flag3Set() || f.Flag5Set() {
		t.Fatalf("sz53Of(0) should not set S/3/5")
	}
}

func TestSz53TableSignAndUndoc(t *testing.T) {
	f := sz53Of(0xA8) // 1010 1000: bit7 set (S), bit5 set (5), bit3 set (3)
	if !f.Sign() || !f.Flag5Set() || !f.Flag3Set() {
		t.Fatalf("sz53Of(0xA8) = %v, want S,5,3 set", f)
	}
	if f.Zero() {
		t.Fatalf("sz53Of(0xA8) should not set Zero")
	}
}

func TestSz53pTableParity(t *testing.T) {
	cases := []struct {
		v        byte
		wantEven bool
	}{
		{0x00, true},
		{0x01, false},
		{0x03, true},
		{0xFF, true},
		{0x0F, true},
		{0x07, false},
	}
	for _, c := range cases {
		f := sz53pOf(c.v)
		if f.Parity() != c.wantEven {
			t.Errorf("sz53pOf(0x%02X).Parity() = %v, want %v", c.v, f.Parity(), c.wantEven)
		}
	}
}
