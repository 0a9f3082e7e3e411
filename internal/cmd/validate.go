package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/safespot/droidcfg/internal/cmdutil"
	"github.com/safespot/droidcfg/internal/output"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [profile...]",
		Short: "Validate build profiles",
		Long: `Validate one or more build profiles.

Each profile is loaded, its flutter.versionCode and flutter.versionName
references are resolved from the Flutter project, and every rule is checked:
identifiers, SDK level ordering, Java and Kotlin levels, desugaring, signing
configs and version values. All errors of a profile are reported together.

Several profiles are checked concurrently.

Exit codes:
  0  all profiles are valid
  2  a profile failed validation (or had warnings with --strict)
  3  a profile could not be parsed
  5  a profile or its Flutter project was not found

Examples:
  # Validate the default profile (droidcfg.yaml)
  droidcfg validate

  # Validate several profiles, failing on warnings
  droidcfg validate --strict android/app/droidcfg.yaml staging.toml`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{GetSettings().DefaultProfile}
	}

	opts, err := loadOptions()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	results := make([]*cmdutil.LoadResult, len(paths))
	errs := make([]error, len(paths))

	check := func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for i, path := range paths {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				pl, err := cmdutil.NewPipeline()
				if err != nil {
					return err
				}
				results[i], errs[i] = pl.Load(path, opts)
				return nil
			})
		}
		return g.Wait()
	}

	if len(paths) > 1 {
		err = output.RunWithSpinner(cmd.Context(), check,
			output.WithTitle(fmt.Sprintf("Validating %d profiles", len(paths))))
	} else {
		err = check(cmd.Context())
	}
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	out := cmd.OutOrStdout()
	var firstErr error
	valid := 0
	for i, path := range paths {
		if res := results[i]; res != nil {
			cmdutil.PrintWarnings(path, res.Warnings)
		}

		status := output.StatusValid
		switch {
		case errs[i] != nil:
			cmdutil.PrintLoadError(path, errs[i])
			status = output.StatusInvalid
			if firstErr == nil {
				firstErr = errs[i]
			}
		case len(results[i].Warnings) > 0:
			status = output.StatusWarnings
			valid++
		default:
			valid++
		}
		fmt.Fprintln(out, output.FormatProfileLine(path, status))
	}

	if firstErr != nil {
		return cmdutil.Exit(firstErr, true)
	}

	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("%d of %d profile(s) valid", valid, len(paths))))
	return nil
}
