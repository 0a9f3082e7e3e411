package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/cmdutil"
	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/output"
	"github.com/safespot/droidcfg/internal/profile"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var (
		force  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a default build profile",
		Long: `Create a build profile holding the Android configuration droidcfg
ships with: Java 17 with core library desugaring, SDK levels 21/35/35, and
version values taken from the Flutter project.

The profile is written to <dir>/droidcfg.<format>; dir defaults to the
current directory. Run this inside android/app so flutter.source ("../..")
points at the Flutter project root.

Examples:
  # Create android/app/droidcfg.yaml
  droidcfg init android/app

  # Create a TOML profile, replacing an existing one
  droidcfg init --format toml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, format, force)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(profile.FormatYAML),
		"Profile format: yaml, json or toml")
	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite an existing profile")

	return cmd
}

func runInit(cmd *cobra.Command, args []string, format string, force bool) error {
	switch profile.Format(format) {
	case profile.FormatYAML, profile.FormatJSON, profile.FormatTOML:
	default:
		return cmdutil.Exit(oerrors.NewValidationError(
			fmt.Sprintf("unsupported profile format %q", format), "", "format",
			"Use yaml, json or toml."), false)
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	path := filepath.Join(dir, "droidcfg."+format)

	if _, err := os.Stat(path); err == nil && !force {
		return cmdutil.Exit(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  "profile already exists",
			Location: path,
			Hint:     "Use --force to overwrite it.",
			Cause:    oerrors.ErrValidation,
		}, false)
	}

	if err := profile.WriteFile(path, profile.Default()); err != nil {
		return cmdutil.Exit(oerrors.Wrap(oerrors.ErrPermission, err.Error()), false)
	}

	output.Debug("profile created", "path", path, "format", format)
	fmt.Fprintln(cmd.OutOrStdout(), output.FormatProfileLine(path, output.StatusWritten))
	return nil
}
