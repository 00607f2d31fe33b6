// Package cmd implements the semtrim command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for semtrim
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semtrim",
		Short: "Find SELinux policy modules that label paths present on this system",
		Long: `Semtrim analyzes the file-context patterns of SELinux policy modules
and reports, per module, whether any path they label actually exists on the
running system. Modules that label nothing present can be left unloaded.

It reads compiled module packages (.pp, optionally bzip2/gzip compressed)
and plain file-context files (.fc).`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCheckCommand())

	return cmd
}
