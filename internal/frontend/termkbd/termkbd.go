// Package termkbd feeds raw stdin keystrokes into internal/keyboard for
// the CLI's headless run mode, where there is no windowing toolkit to
// capture key events from. Grounded on the teacher's terminal_host.go
// TerminalHost: raw-mode stdin via golang.org/x/term so single keypresses
// arrive unbuffered and unechoed, read in a background goroutine, with
// Stop restoring the terminal to its original state.
package termkbd

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/specbolt/zxspectrum/internal/keyboard"
)

// Host drains raw stdin bytes into a keyboard.Matrix. Held-key release is
// approximated with a short timeout, since a raw terminal reports a
// keypress, never a key-up, for ordinary keys.
type Host struct {
	kbd *keyboard.Matrix

	fd           int
	oldState     *term.State
	nonblockSet  bool
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	releaseAfter time.Duration
}

// NewHost wires a termkbd.Host to kbd.
func NewHost(kbd *keyboard.Matrix) *Host {
	return &Host{
		kbd:          kbd,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		releaseAfter: 80 * time.Millisecond,
	}
}

// Start puts stdin into raw, non-blocking mode and begins routing bytes.
func (h *Host) Start() error {
	h.fd = int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldState)
		close(h.done)
		return err
	}
	h.nonblockSet = true

	go h.loop()
	return nil
}

func (h *Host) loop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == '\r' {
				b = '\n'
			}
			if k, ok := keyboard.Lookup(rune(b)); ok {
				h.kbd.KeyDown(k)
				go h.scheduleRelease(k)
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

func (h *Host) scheduleRelease(k keyboard.Key) {
	time.Sleep(h.releaseAfter)
	h.kbd.KeyUp(k)
}

// Stop restores the terminal and stops the reader goroutine.
func (h *Host) Stop() {
	h.stopped.Do(func() { close(h.stopCh) })
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
	}
	if h.oldState != nil {
		_ = term.Restore(h.fd, h.oldState)
	}
}
