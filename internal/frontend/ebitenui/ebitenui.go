//go:build !headless

// Package ebitenui presents the emulated ULA framebuffer in a window and
// forwards key events into internal/keyboard. Grounded on the teacher's
// video_backend_ebiten.go EbitenOutput (Update/Draw/Layout shape, a
// mutex-guarded frame buffer written by the core and read by Draw) and
// oisee-z80-optimizer's use of AppendInputChars for printable-key capture;
// re-targeted from IntuitionEngine's 640x480 generic raster onto the
// Spectrum's fixed 320x256 ULA frame.
package ebitenui

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/specbolt/zxspectrum/internal/keyboard"
	"github.com/specbolt/zxspectrum/internal/machine"
	"github.com/specbolt/zxspectrum/internal/video"
)

const windowScale = 2

// Window is an ebiten.Game driving one Machine: it steps a frame's worth
// of emulation per Update, blits the ULA's framebuffer into an ebiten
// image per Draw, and polls host keys into the machine's keyboard matrix.
type Window struct {
	m *machine.Machine

	mu  sync.Mutex
	img *ebiten.Image
	buf []byte

	// pressed holds the runes latched down by the previous Update's
	// pollKeys, so they can be released one frame later: AppendInputChars
	// reports a typed character, never a key-up, so without this every
	// letter would latch forever.
	pressed []keyboard.Key
}

// New wraps m for display. The caller still owns running ebiten.RunGame.
func New(m *machine.Machine) *Window {
	return &Window{
		m:   m,
		buf: make([]byte, video.FrameWidth*video.FrameHeight*4),
	}
}

// Update runs one emulated frame and samples the host keyboard.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	w.pollKeys()
	if err := w.m.RunFrame(); err != nil {
		return fmt.Errorf("ebitenui: frame execution failed: %w", err)
	}

	w.mu.Lock()
	w.m.Video().BlitTo(w.buf)
	w.mu.Unlock()
	return nil
}

func (w *Window) pollKeys() {
	kbd := w.m.Keyboard()

	for _, k := range w.pressed {
		kbd.KeyUp(k)
	}
	w.pressed = w.pressed[:0]

	for _, r := range ebiten.AppendInputChars(nil) {
		if k, ok := keyboard.Lookup(r); ok {
			kbd.KeyDown(k)
			w.pressed = append(w.pressed, k)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsKeyJustPressed(ebiten.KeyShiftRight) {
		kbd.KeyDown(keyboard.CapsShift)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyShiftLeft) || inpututil.IsKeyJustReleased(ebiten.KeyShiftRight) {
		kbd.KeyUp(keyboard.CapsShift)
	}
}

// Draw copies the most recently rendered frame into the screen image.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(video.FrameWidth, video.FrameHeight)
	}
	w.mu.Lock()
	w.img.WritePixels(w.buf)
	w.mu.Unlock()
	screen.DrawImage(w.img, nil)
}

// Layout reports the fixed, unscaled Spectrum display geometry; ebiten
// stretches it to the window size.
func (w *Window) Layout(_, _ int) (int, int) {
	return video.FrameWidth, video.FrameHeight
}

// Run opens the window and blocks until it is closed.
func Run(m *machine.Machine, title string) error {
	ebiten.SetWindowSize(video.FrameWidth*windowScale, video.FrameHeight*windowScale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(New(m))
}
