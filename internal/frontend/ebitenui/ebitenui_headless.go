//go:build headless

// Headless stub: the same Run entrypoint, for build configurations (and
// CI) with no display, matching the teacher's video_backend_headless.go
// pattern of a parallel `headless`-tagged file with no ebiten import.
package ebitenui

import "github.com/specbolt/zxspectrum/internal/machine"

// Run drives the machine with RunFrame in a tight loop instead of opening
// a window, since there is nowhere to present the framebuffer.
func Run(m *machine.Machine, _ string) error {
	for {
		if err := m.RunFrame(); err != nil {
			return err
		}
	}
}
