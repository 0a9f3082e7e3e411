package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/cmdutil"
	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/gradle"
	"github.com/safespot/droidcfg/internal/output"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "render [profile]",
		Short: "Render build.gradle.kts from a profile",
		Long: `Render the Gradle Kotlin DSL build file of the Android application module.

The profile is validated first; nothing is written for an invalid profile.
Version references stay flutter.versionCode and flutter.versionName so the
Flutter tool keeps supplying them at build time.

By default the file is written next to the profile. Use --out - to print it.

Examples:
  # Render android/app/build.gradle.kts
  droidcfg render android/app/droidcfg.yaml

  # Preview without writing
  droidcfg render --out -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, outFlag)
		},
	}

	cmd.Flags().StringVar(&outFlag, "out", "",
		"Output file, or - for stdout (default: build.gradle.kts next to the profile)")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, outPath string) error {
	opts, err := loadOptions()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	pl, err := cmdutil.NewPipeline()
	if err != nil {
		return cmdutil.Exit(err, false)
	}

	path := cmdutil.ResolveProfilePath(args, GetSettings().DefaultProfile)
	res, err := pl.Load(path, opts)
	if res != nil {
		cmdutil.PrintWarnings(path, res.Warnings)
	}
	if err != nil {
		cmdutil.PrintLoadError(path, err)
		return cmdutil.Exit(err, true)
	}

	var buf bytes.Buffer
	if err := gradle.Render(&buf, res.Validated.Profile()); err != nil {
		return cmdutil.Exit(err, false)
	}

	out := cmd.OutOrStdout()
	if outPath == "-" {
		_, err := out.Write(buf.Bytes())
		return err
	}
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(path), gradle.FileName)
	}

	status, err := writeIfChanged(outPath, buf.Bytes())
	if err != nil {
		return cmdutil.Exit(err, false)
	}
	fmt.Fprintln(out, output.FormatProfileLine(outPath, status))
	return nil
}

// writeIfChanged writes data to path unless the file already holds it.
func writeIfChanged(path string, data []byte) (string, error) {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, data):
		return output.StatusUnchanged, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", oerrors.Wrap(oerrors.ErrPermission, fmt.Sprintf("could not create directory for %s", path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", oerrors.Wrap(oerrors.ErrPermission, fmt.Sprintf("could not write %s", path))
	}
	return output.StatusWritten, nil
}
