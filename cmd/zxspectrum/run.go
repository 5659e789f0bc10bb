package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specbolt/zxspectrum/internal/frontend/audioout"
	"github.com/specbolt/zxspectrum/internal/frontend/ebitenui"
	"github.com/specbolt/zxspectrum/internal/frontend/termkbd"
	"github.com/specbolt/zxspectrum/internal/machine"
	"github.com/specbolt/zxspectrum/internal/snapshot"
)

func newRunCmd() *cobra.Command {
	var romPath, snapshotPath string
	var headless bool
	var frames int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a ROM image, optionally restoring a .sna snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("reading ROM: %w", err)
			}

			m := machine.New()
			m.LoadROM(rom)

			if snapshotPath != "" {
				f, err := os.Open(snapshotPath)
				if err != nil {
					return fmt.Errorf("opening snapshot: %w", err)
				}
				defer f.Close()
				if err := snapshot.Load(f, m); err != nil {
					return err
				}
			}

			if headless {
				return runHeadless(m, frames)
			}
			return runWindowed(m)
		},
	}

	cmd.Flags().StringVar(&romPath, "rom", "", "path to a 16KiB ROM image (required)")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to a .sna snapshot to load after the ROM image")
	cmd.Flags().BoolVar(&headless, "headless", false, "run without a window, reading the keyboard from stdin")
	cmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames in headless mode (0 = run forever)")
	_ = cmd.MarkFlagRequired("rom")
	return cmd
}

func runHeadless(m *machine.Machine, frames int) error {
	host := termkbd.NewHost(m.Keyboard())
	if err := host.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "zxspectrum: raw stdin unavailable (%v), running without keyboard input\n", err)
	} else {
		defer host.Stop()
	}

	player, err := audioout.New(m.Audio())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zxspectrum: audio unavailable: %v\n", err)
	} else {
		player.Start()
		defer player.Close()
	}

	for n := 0; frames == 0 || n < frames; n++ {
		if err := m.RunFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}
	return nil
}

func runWindowed(m *machine.Machine) error {
	player, err := audioout.New(m.Audio())
	if err != nil {
		fmt.Fprintf(os.Stderr, "zxspectrum: audio unavailable: %v\n", err)
	} else {
		player.Start()
		defer player.Close()
	}
	return ebitenui.Run(m, "ZX Spectrum 48K")
}
