package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show droidcfg version information.

Displays:
  - droidcfg version, commit, and build date
  - CUE SDK version the schemas are evaluated with
  - Highest known Android API level`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	return nil
}
