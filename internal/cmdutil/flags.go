// Package cmdutil provides shared command utilities for droidcfg commands.
// It centralizes flag groups, the profile load pipeline, and error output.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/output"
)

// OutputFlags holds the --output flag of commands that print a profile.
type OutputFlags struct {
	Format string
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "output", "o", string(output.FormatYAML),
		fmt.Sprintf("Output format: %v", output.ValidFormats()))
}

// Parsed returns the validated output format.
func (f *OutputFlags) Parsed() (output.OutputFormat, error) {
	return output.ParseOutputFormat(f.Format)
}

// WriteFlags holds flags of commands that write a file.
type WriteFlags struct {
	Out   string
	Force bool
}

// AddTo registers the write flags on the given cobra command. defaultOut is
// shown in help; an empty Out means stdout unless the command says otherwise.
func (f *WriteFlags) AddTo(cmd *cobra.Command, defaultOut, usage string) {
	cmd.Flags().StringVar(&f.Out, "out", defaultOut, usage)
	cmd.Flags().BoolVarP(&f.Force, "force", "f", false,
		"Overwrite the output file if it exists")
}

// ResolveProfilePath returns the profile path from command args,
// defaulting to the configured default profile.
func ResolveProfilePath(args []string, defaultProfile string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultProfile
}
