// Command zxspectrum is the ZX Spectrum 48K emulator's driver CLI: run a
// snapshot or ROM, exercise the zexdoc document-compliance test ROM, or
// disassemble a ROM image for debugging. Grounded in
// oisee-z80-optimizer/cmd/z80opt/main.go's cobra subcommand structure
// (root command plus one cobra.Command per operation, flags bound with
// Flags().*Var).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "zxspectrum",
		Short: "ZX Spectrum 48K / Z80 cycle-accurate emulator",
	}

	root.AddCommand(newRunCmd(), newZexdocCmd(), newDebugCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
