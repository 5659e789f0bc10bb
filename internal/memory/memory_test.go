package memory

import "testing"

func TestReadUnconditional(t *testing.T) {
	m := New(4)
	m.RawWrite(0, 0x10, 0xAB)
	if got := m.Read(0x0010); got != 0xAB {
		t.Fatalf("Read(0x0010) = %#x, want 0xAB", got)
	}
}

func TestWriteDiscardedOnROMSlot(t *testing.T) {
	m := New(4)
	m.Write(0x0000, 0x42)
	if got := m.Read(0x0000); got != 0x00 {
		t.Fatalf("write to ROM slot should be discarded, read back %#x", got)
	}
}

func TestWriteReadIdentityOnWritableSlot(t *testing.T) {
	m := New(4)
	m.Write(0x8000, 0x55)
	if got := m.Read(0x8000); got != 0x55 {
		t.Fatalf("write then read at 0x8000 = %#x, want 0x55", got)
	}
}

func TestRead16LittleEndian(t *testing.T) {
	m := New(4)
	m.Write(0x8000, 0x34)
	m.Write(0x8001, 0x12)
	if got := m.Read16(0x8000); got != 0x1234 {
		t.Fatalf("Read16(0x8000) = %#x, want 0x1234", got)
	}
}

func TestRead16WrapsAtTopOfSlot(t *testing.T) {
	m := New(4)
	m.Write(0xFFFF, 0x34)
	m.Write(0x0000, 0x00) // slot 0 is ROM; this is a no-op, confirming wrap lands on the ROM slot
	if got := m.Read16(0xFFFF); got != 0x0034 {
		t.Fatalf("Read16(0xFFFF) = %#x, want 0x0034 (wraps into ROM slot which reads as 0)", got)
	}
}

func TestRawWriteBypassesROMFlag(t *testing.T) {
	m := New(4)
	m.RawWrite(0, 0x00, 0x99)
	if got := m.RawRead(0, 0x00); got != 0x99 {
		t.Fatalf("RawWrite/RawRead on ROM bank = %#x, want 0x99", got)
	}
	// The primary Read path should see it too, since bank 0 is still
	// mapped to logical slot 0.
	if got := m.Read(0x0000); got != 0x99 {
		t.Fatalf("Read(0x0000) after RawWrite = %#x, want 0x99", got)
	}
}

func TestSetPageTableRemaps(t *testing.T) {
	m := New(5)
	m.RawWrite(4, 0x00, 0x77)
	var table [NumPages]int
	table[1] = 4
	table[0], table[2], table[3] = 0, 2, 3
	m.SetPageTable(table)
	if got := m.Read(PageSize); got != 0x77 {
		t.Fatalf("after remapping slot 1 to bank 4, Read(PageSize) = %#x, want 0x77", got)
	}
}

func TestSetROMFlagsProtectsArbitrarySlot(t *testing.T) {
	m := New(4)
	var flags [NumPages]bool
	flags[2] = true
	m.SetROMFlags(flags)
	m.Write(0x8000, 0xAA) // third 16K slot (slot 2), now read-only
	if got := m.Read(0x8000); got != 0x00 {
		t.Fatalf("write to newly-protected slot should be discarded, got %#x", got)
	}
}

func TestAccessObserverFires(t *testing.T) {
	m := New(4)
	var reads, writes int
	m.SetObserver(func(addr uint16, write bool, tState int) {
		if write {
			writes++
		} else {
			reads++
		}
	})
	m.Write(0x8000, 0x01)
	m.Read(0x8000)
	if writes != 1 || reads != 1 {
		t.Fatalf("observer saw writes=%d reads=%d, want 1 and 1", writes, reads)
	}
}

func TestAccessObserverSilentOnDiscardedWrite(t *testing.T) {
	m := New(4)
	fired := false
	m.SetObserver(func(addr uint16, write bool, tState int) { fired = true })
	m.Write(0x0000, 0xFF) // ROM slot, write is a no-op
	if fired {
		t.Fatalf("observer should not fire for a write discarded by the ROM flag")
	}
}
