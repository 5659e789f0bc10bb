// Package machine wires the CPU to Memory, Video, Audio and Keyboard into
// the complete ZX Spectrum 48K core, and drives it frame by frame. Grounded
// on original_source/spectrum/Spectrum.cpp's run_cycles loop (poll video
// after every instruction, latch the border from the ULA port on each
// step) and on spec.md §2's control-flow description and §6's CPU driver
// surface (execute_one/run_frame/add_in_handler/add_out_handler/
// interrupt/iff1/iff2/halted/pc/cycle_count).
package machine

import (
	"github.com/specbolt/zxspectrum/internal/audio"
	"github.com/specbolt/zxspectrum/internal/keyboard"
	"github.com/specbolt/zxspectrum/internal/memory"
	"github.com/specbolt/zxspectrum/internal/video"
	"github.com/specbolt/zxspectrum/internal/z80"
)

// romBank is the Memory bank holding the ROM; banks48K is the 48K map's
// bank count: one 16K ROM bank plus three 16K RAM banks (spec.md §3's 48K
// map).
const (
	romBank  = 0
	banks48K = 4
)

// OutHandler and InHandler are the chainable port callbacks spec.md §6
// asks the driver surface to support: multiple devices may share a port
// address, each inspecting or contributing to it in registration order.
type OutHandler func(port uint16, value byte)
type InHandler func(port uint16) (value byte, ok bool)

// Machine is the complete core: CPU, paged Memory, the ULA video scanner,
// the audio mixer, and the keyboard matrix, bound together as the single
// Bus the CPU drives all I/O through.
type Machine struct {
	mem *memory.Memory
	cpu *z80.CPU
	vid *video.ULA
	aud *audio.Mixer
	kbd *keyboard.Matrix

	tapeEar bool

	outHandlers []OutHandler
	inHandlers  []InHandler
}

// New constructs a Machine with a freshly zeroed ROM bank (callers load a
// real ROM image with LoadROM before running) and resets the CPU to its
// post-power-on state.
func New() *Machine {
	mem := memory.New(banks48K)
	m := &Machine{
		mem: mem,
		vid: video.New(mem),
		aud: audio.New(),
		kbd: keyboard.New(),
	}
	m.cpu = z80.New(m)
	m.cpu.Reset()
	return m
}

// LoadROM writes data (expected to be exactly 16 KiB) into bank 0, the
// ROM bank, via the raw back-door write so it lands regardless of the
// read-only flag guarding normal writes to that slot.
func (m *Machine) LoadROM(data []byte) {
	for i, b := range data {
		if i >= memory.PageSize {
			break
		}
		m.mem.RawWrite(romBank, i, b)
	}
}

// CPU returns the underlying CPU, for inspection (pc/iff1/iff2/halted/
// cycle_count) and for the snapshot loader to pose register writes against.
func (m *Machine) CPU() *z80.CPU { return m.cpu }

// Video, Audio and Keyboard expose the peripherals for the host frontend.
func (m *Machine) Video() *video.ULA       { return m.vid }
func (m *Machine) Audio() *audio.Mixer     { return m.aud }
func (m *Machine) Keyboard() *keyboard.Matrix { return m.kbd }

// WriteRAM writes directly to a RAM address through the normal paged path
// (the snapshot loader's target range, 0x4000-0xFFFF, is never ROM in the
// 48K map so this always lands).
func (m *Machine) WriteRAM(addr uint16, value byte) { m.mem.Write(addr, value) }

// SetBorder latches the border color outside of a port write, for the
// snapshot loader restoring a saved border.
func (m *Machine) SetBorder(color byte) { m.vid.SetBorder(color) }

// AddOutHandler registers an additional port-write observer/device,
// chained after the built-in ULA port handling.
func (m *Machine) AddOutHandler(h OutHandler) { m.outHandlers = append(m.outHandlers, h) }

// AddInHandler registers an additional port-read device. Per spec.md §6,
// when multiple handlers answer the same port, their returned bytes are
// ANDed together (open-collector-style floor), the same way port 0xFE
// itself ANDs keyboard and EAR bits onto the low byte.
func (m *Machine) AddInHandler(h InHandler) { m.inHandlers = append(m.inHandlers, h) }

// Read implements z80.Bus.
func (m *Machine) Read(addr uint16) byte { return m.mem.Read(addr) }

// Write implements z80.Bus.
func (m *Machine) Write(addr uint16, value byte) { m.mem.Write(addr, value) }

// Out implements z80.Bus: only even-A0 addresses hit the ULA port per
// spec.md §6; border, tape-out, and beeper bits are latched from bits 0-4.
func (m *Machine) Out(port uint16, value byte) {
	if port&0x01 == 0 {
		m.vid.SetBorder(value & 0x07)
		m.tapeEar = value&0x08 != 0
		beeperOn := value&0x10 != 0
		m.aud.SetOutput(int64(m.cpu.Cycles), beeperOn, m.tapeEar)
	}
	for _, h := range m.outHandlers {
		h(port, value)
	}
}

// In implements z80.Bus: a low byte of 0xFE selects the keyboard/EAR port;
// the high byte's zero bits select which keyboard half-rows answer. Bit 6
// carries the EAR/tape input bit; unselected bits read high. Chained
// in-handlers are ANDed on top, matching the "multiple devices floor each
// other" contract of spec.md §6.
func (m *Machine) In(port uint16) byte {
	v := byte(0xFF)
	if port&0x01 == 0 {
		v = m.kbd.ReadRows(byte(port >> 8))
		if m.tapeEar {
			v |= 0x40
		} else {
			v &^= 0x40
		}
	}
	for _, h := range m.inHandlers {
		if got, ok := h(port); ok {
			v &= got
		}
	}
	return v
}

// Tick implements z80.Bus: it is the only place T-states reach Video and
// Audio, keeping the single-threaded cooperative model of spec.md §5 —
// the CPU's own Step never calls into Video/Audio directly.
func (m *Machine) Tick(tStates int) {
	if m.vid.Poll(tStates) {
		m.cpu.SetIRQ(true, 0xFF)
	}
}

// RunFrame executes instructions until at least one full video frame
// (TStatesPerFrame T-states) has elapsed, matching spec.md §2's frame
// driver: the vertical-blank interrupt is raised by Tick the instant the
// 312th scanline completes, and is held asserted until explicitly cleared
// here once the frame boundary is reached, so the CPU's interrupt-accept
// check (in Step) sees it for at least one fetch.
func (m *Machine) RunFrame() error {
	budget := video.TStatesPerFrame
	consumed := 0
	for consumed < budget {
		before := m.cpu.Cycles
		if err := m.cpu.Step(); err != nil {
			return err
		}
		consumed += int(m.cpu.Cycles - before)
	}
	m.cpu.SetIRQ(false, 0xFF)
	return nil
}

// ExecuteOne executes exactly one instruction (or HALT idle tick, or
// interrupt acceptance) and returns the T-states it consumed.
func (m *Machine) ExecuteOne() (int, error) {
	before := m.cpu.Cycles
	if err := m.cpu.Step(); err != nil {
		return 0, err
	}
	return int(m.cpu.Cycles - before), nil
}

// Interrupt asserts the maskable IRQ line for external callers (e.g. a
// diagnostic harness driving the CPU without running a real frame).
func (m *Machine) Interrupt() { m.cpu.SetIRQ(true, 0xFF) }

// Reset puts the CPU and the keyboard back to their post-power-on state
// and clears the tape EAR bit. Video, audio and memory state are left as
// they are; in particular the ROM bank's contents are untouched — Reset
// does not re-load the ROM image.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.kbd.Reset()
	m.tapeEar = false
}
