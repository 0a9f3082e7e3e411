package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/cmdutil"
	"github.com/safespot/droidcfg/internal/output"
	"github.com/safespot/droidcfg/internal/profile"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare two profiles",
		Long: `Compare two build profiles field by field.

Either side may be a build.gradle.kts file, which is imported first. This
shows whether a checked-in build file has drifted from its profile.
Defaults are applied to both sides before comparing.

Examples:
  # Compare two profiles
  droidcfg diff staging.yaml release.yaml

  # Check a build file against its profile
  droidcfg diff android/app/droidcfg.yaml android/app/build.gradle.kts`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	pl, err := cmdutil.NewPipeline()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	sides := make([]*profile.Profile, 2)
	for i, path := range args {
		p, err := loadAny(pl, path)
		if err != nil {
			cmdutil.PrintLoadError(path, err)
			return cmdutil.Exit(err, true)
		}
		sides[i] = p.WithDefaults()
	}

	report, err := profile.Diff(sides[0], sides[1], profile.DiffOptions{
		UseColor: output.IsStdoutTTY(),
		FromName: args[0],
		ToName:   args[1],
	})
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	out := cmd.OutOrStdout()
	if report == "" {
		fmt.Fprintln(out, output.FormatCheckmark("no differences"))
		return nil
	}
	fmt.Fprintln(out, report)
	return nil
}

// loadAny reads a profile file or imports a build.gradle.kts.
func loadAny(pl *cmdutil.Pipeline, path string) (*profile.Profile, error) {
	if strings.HasSuffix(path, ".kts") {
		doc, err := readBuildFile(path)
		if err != nil {
			return nil, err
		}
		for _, stmt := range doc.Unrecognized {
			output.ProfileLogger(path).Debug("not compared", "line", stmt.Line, "statement", stmt.Text)
		}
		return doc.Profile, nil
	}
	return pl.LoadFile(path)
}
