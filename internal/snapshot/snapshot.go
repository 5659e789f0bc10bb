// Package snapshot loads the ZX Spectrum ".sna" snapshot format: a 27-byte
// register header followed by a 48 KiB RAM image. Grounded on
// original_source/spectrum/Snapshot.cpp, whose exact field layout and the
// "pop PC from the stack last, after everything else" load order spec.md
// §6 leaves ambiguous are followed precisely (see SPEC_FULL.md's
// supplemented-features section).
package snapshot

import (
	"fmt"
	"io"

	"github.com/specbolt/zxspectrum/internal/z80"
)

const (
	headerSize = 27
	ramSize    = 48 * 1024
	// ExpectedSize is the only valid ".sna" file size: header + 48K RAM.
	ExpectedSize = headerSize + ramSize
)

// Machine is the subset of the top-level machine a snapshot needs to pose
// its register and memory writes against.
type Machine interface {
	CPU() *z80.CPU
	WriteRAM(addr uint16, value byte)
	SetBorder(color byte)
}

// Load reads a complete ".sna" image from r and applies it to m: memory
// bytes 0..49151 are written to addresses 16384..65535, every register
// field is restored, and PC is finally reconstructed by popping it from
// the stack (SP having already been set from the header), matching the
// interrupt-stacked-PC convention the format was built around.
func Load(r io.Reader, m Machine) error {
	buf := make([]byte, ExpectedSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("snapshot: read failed: %w", err)
	}
	if n != ExpectedSize {
		return fmt.Errorf("snapshot: wrong size: got %d bytes, want %d", n, ExpectedSize)
	}
	if _, err := io.ReadFull(r, make([]byte, 1)); err == nil {
		return fmt.Errorf("snapshot: wrong size: more than %d bytes, want %d", ExpectedSize, ExpectedSize)
	}

	h := buf[:headerSize]
	ram := buf[headerSize:]

	for i, b := range ram {
		m.WriteRAM(uint16(0x4000+i), b)
	}

	c := m.CPU()
	word := func(off int) uint16 { return uint16(h[off]) | uint16(h[off+1])<<8 }

	c.I = h[0]
	c.Set16(z80.RegHL2, word(1))
	c.Set16(z80.RegDE2, word(3))
	c.Set16(z80.RegBC2, word(5))
	c.Set16(z80.RegAF2, word(7))
	c.Set16(z80.RegHL, word(9))
	c.Set16(z80.RegDE, word(11))
	c.Set16(z80.RegBC, word(13))
	c.Set16(z80.RegIY, word(15))
	c.Set16(z80.RegIX, word(17))

	iff2 := h[19] != 0
	c.IFF1, c.IFF2 = iff2, iff2
	c.R = h[20]
	c.Set16(z80.RegAF, word(21))
	c.SP = word(23)
	c.IM = h[25]
	m.SetBorder(h[26] & 0x07)

	// The format stores PC pre-pushed onto the stack, in the style of an
	// interrupt acknowledge; popping it here (last, after SP is already
	// in place) is equivalent to the original's z80.retn() trick. Only PC
	// and SP change here; IFF1/IFF2 were already set from the header.
	c.PC = c.PopPC()
	return nil
}
