// Package video implements the ZX Spectrum ULA raster scanner: it advances
// alongside the CPU T-state by T-state, latches one line record per
// scanline, and renders those records into an RGBA framebuffer on demand.
// Grounded on the teacher's video_ula.go/ula_constants.go (memory layout,
// attribute parsing, non-linear pixel addressing, 15-color palette), with
// its goroutine-driven triple-buffer/compositor machinery dropped: spec.md
// §5 mandates a single-threaded cooperative core, so Poll/BlitTo are called
// synchronously from the machine's run_frame loop instead of a 60Hz render
// goroutine racing the CPU thread.
package video

const (
	DisplayWidth  = 256
	DisplayHeight = 192

	BorderLeft, BorderRight = 32, 32
	BorderTop, BorderBottom = 32, 32

	FrameWidth  = DisplayWidth + BorderLeft + BorderRight   // 320
	FrameHeight = DisplayHeight + BorderTop + BorderBottom  // 256

	linesPerFrame  = 312
	tStatesPerLine = 224
	TStatesPerFrame = linesPerFrame * tStatesPerLine // 69888

	attrBase  = 0x5800
	cellsX    = 32

	flashFrames = 16
)

// normalColor and brightColor hold the Spectrum's 8 base colors at normal
// and BRIGHT intensity. Grounded on ula_constants.go's ULAColorNormal/
// ULAColorBright tables.
var normalColor = [8][3]byte{
	{0, 0, 0}, {0, 0, 205}, {205, 0, 0}, {205, 0, 205},
	{0, 205, 0}, {0, 205, 205}, {205, 205, 0}, {205, 205, 205},
}

var brightColor = [8][3]byte{
	{0, 0, 0}, {0, 0, 255}, {255, 0, 0}, {255, 0, 255},
	{0, 255, 0}, {0, 255, 255}, {255, 255, 0}, {255, 255, 255},
}

// Memory is the subset of internal/memory.Memory the scanner reads from:
// plain addressed reads, no side effects, no write-protection concerns.
type Memory interface {
	Read(addr uint16) byte
}

// lineRecord is one scanline's worth of latched state: border color always,
// plus the 32 (pixel, attribute) byte pairs for display lines.
type lineRecord struct {
	border  byte
	display bool
	pixels  [cellsX]byte
	attrs   [cellsX]byte
}

// ULA is the video raster scanner. Poll advances it by a T-state delta;
// BlitTo renders the most recently completed frame's line records.
type ULA struct {
	mem Memory

	totalCycles    int
	nextLineCycles int
	lineIndex      int

	lines [linesPerFrame]lineRecord

	border byte

	flashCounter int
	flashOn      bool
}

func New(mem Memory) *ULA {
	u := &ULA{mem: mem, nextLineCycles: tStatesPerLine}
	return u
}

// SetBorder latches the border color (bits 0-2 of an OUT to port 0xFE).
func (u *ULA) SetBorder(color byte) { u.border = color & 0x07 }

// BorderColor reports the latched border color, for diagnostics.
func (u *ULA) BorderColor() byte { return u.border }

// spectrumScreenAddr computes the non-linear bitmap byte address for a
// given (screen-line, column) pair. Grounded on video_ula.go's
// GetBitmapAddress / spec.md §4.6's y76/y543/y210 bit-slice formula.
func spectrumScreenAddr(y, column int) uint16 {
	y76 := (y & 0xC0) << 5
	y543 := (y & 0x38) << 2
	y210 := (y & 0x07) << 8
	return uint16(0x4000 + y76 + y543 + y210 + column)
}

// Poll advances the scanner by delta T-states, latching any scanlines that
// complete within that span. It returns true exactly once per frame, the
// moment the 312th line completes, signalling vertical blank to the caller.
func (u *ULA) Poll(delta int) bool {
	u.totalCycles += delta
	vblank := false

	for u.totalCycles >= u.nextLineCycles {
		u.latchLine(u.lineIndex)
		u.lineIndex++
		u.nextLineCycles += tStatesPerLine

		if u.lineIndex >= linesPerFrame {
			u.lineIndex = 0
			u.flashCounter++
			if u.flashCounter >= flashFrames {
				u.flashCounter = 0
				u.flashOn = !u.flashOn
			}
			vblank = true
		}
	}
	return vblank
}

func (u *ULA) latchLine(line int) {
	rec := &u.lines[line]
	rec.border = u.border

	screenY := line - BorderTop
	rec.display = screenY >= 0 && screenY < DisplayHeight
	if !rec.display {
		return
	}

	charRow := screenY >> 3
	for col := 0; col < cellsX; col++ {
		rec.pixels[col] = u.mem.Read(spectrumScreenAddr(screenY, col))
		rec.attrs[col] = u.mem.Read(uint16(attrBase + charRow*cellsX + col))
	}
}

// BlitTo renders the frame's latched line records into dst as tightly
// packed RGBA bytes (len(dst) must be FrameWidth*FrameHeight*4).
func (u *ULA) BlitTo(dst []byte) {
	for y := 0; y < linesPerFrame && y < FrameHeight; y++ {
		rec := &u.lines[y]
		rowOff := y * FrameWidth * 4
		borderRGB := u.colorFor(rec.border, false)

		if !rec.display {
			for x := 0; x < FrameWidth; x++ {
				putRGBA(dst, rowOff+x*4, borderRGB)
			}
			continue
		}

		for x := 0; x < BorderLeft; x++ {
			putRGBA(dst, rowOff+x*4, borderRGB)
		}
		for x := 0; x < BorderRight; x++ {
			putRGBA(dst, rowOff+(BorderLeft+DisplayWidth+x)*4, borderRGB)
		}

		for col := 0; col < cellsX; col++ {
			pixels := rec.pixels[col]
			attr := rec.attrs[col]
			ink := attr & 0x07
			paper := (attr >> 3) & 0x07
			bright := attr&0x40 != 0
			invert := attr&0x80 != 0 && u.flashOn

			for bit := 0; bit < 8; bit++ {
				set := pixels&(0x80>>uint(bit)) != 0
				useInk := set != invert
				color := paper
				if useInk {
					color = ink
				}
				px := BorderLeft + col*8 + bit
				putRGBA(dst, rowOff+px*4, u.colorFor(color, bright))
			}
		}
	}
}

func (u *ULA) colorFor(index byte, bright bool) [3]byte {
	if bright {
		return brightColor[index&0x07]
	}
	return normalColor[index&0x07]
}

func putRGBA(dst []byte, off int, rgb [3]byte) {
	dst[off] = rgb[0]
	dst[off+1] = rgb[1]
	dst[off+2] = rgb[2]
	dst[off+3] = 0xFF
}
