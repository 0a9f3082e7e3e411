package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/cmdutil"
	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/gradle"
	"github.com/safespot/droidcfg/internal/output"
	"github.com/safespot/droidcfg/internal/profile"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	var writeFlags cmdutil.WriteFlags

	cmd := &cobra.Command{
		Use:   "import <build.gradle.kts>",
		Short: "Convert an existing build.gradle.kts into a profile",
		Long: `Import the Android application module's build.gradle.kts as a build profile.

Statements droidcfg does not model are listed as warnings with their line
numbers; the import still succeeds. Signing passwords written as literals
are never imported.

Without --out the profile is printed as YAML. The format of --out follows
its extension (.yaml, .yml, .json or .toml).

Examples:
  # Preview the profile
  droidcfg import android/app/build.gradle.kts

  # Write it next to the build file
  droidcfg import android/app/build.gradle.kts --out android/app/droidcfg.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, &writeFlags)
		},
	}

	writeFlags.AddTo(cmd, "", "Profile file to write (default: print YAML to stdout)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string, writeFlags *cmdutil.WriteFlags) error {
	src := args[0]

	doc, err := readBuildFile(src)
	if err != nil {
		cmdutil.PrintLoadError(src, err)
		return cmdutil.Exit(err, true)
	}

	log := output.ProfileLogger(src)
	for _, stmt := range doc.Unrecognized {
		log.Warn("not imported", "line", stmt.Line, "statement", stmt.Text)
	}
	for _, w := range doc.Warnings {
		log.Warn(w)
	}

	// The build file already builds, so rule violations are reported
	// but do not stop the import.
	warnings, verr := profile.Validate(doc.Profile.WithDefaults())
	cmdutil.PrintWarnings(src, warnings)
	var verrs profile.ValidationErrors
	if errors.As(verr, &verrs) {
		for _, e := range verrs {
			log.Warn(e.Message, "field", e.Field)
		}
	}

	out := cmd.OutOrStdout()
	if writeFlags.Out == "" {
		return profile.Encode(out, doc.Profile, profile.FormatYAML)
	}

	if _, err := os.Stat(writeFlags.Out); err == nil && !writeFlags.Force {
		return cmdutil.Exit(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  "profile already exists",
			Location: writeFlags.Out,
			Hint:     "Use --force to overwrite it.",
			Cause:    oerrors.ErrValidation,
		}, false)
	}

	if err := profile.WriteFile(writeFlags.Out, doc.Profile); err != nil {
		return cmdutil.Exit(err, false)
	}
	fmt.Fprintln(out, output.FormatProfileLine(writeFlags.Out, output.StatusWritten))
	return nil
}

// readBuildFile opens and parses a build.gradle.kts file.
func readBuildFile(path string) (*gradle.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("build file does not exist", path, "")
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return gradle.Parse(f, path)
}
