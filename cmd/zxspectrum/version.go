package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...";
// it defaults to "dev" for local builds.
var version = "dev"

// newVersionCmd reports the build version plus the Go toolchain/OS/arch it
// was built with. Grounded on the teacher's features.go printFeatures,
// trimmed to what this emulator actually has to report: there is no
// per-build feature-flag registry here, so the "Compiled features" listing
// is dropped rather than printed empty.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the emulator's version and build info",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("zxspectrum %s\n", version)
			fmt.Printf("  Go version: %s\n", runtime.Version())
			fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
