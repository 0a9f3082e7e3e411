package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/config"
	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the droidcfg CLI configuration.

Creates ~/.droidcfg/config.yaml with every setting at its default and a
comment naming the environment variable that overrides it.

Examples:
  # Initialize configuration
  droidcfg config init

  # Overwrite existing configuration
  droidcfg config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
	}

	if _, err := os.Stat(paths.ConfigFile); err == nil && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: paths.ConfigFile,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	// Create directories with secure permissions (0700)
	if err := os.MkdirAll(paths.HomeDir, 0o700); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.droidcfg directory")
	}

	// Write config.yaml with secure permissions (0600)
	if err := os.WriteFile(paths.ConfigFile, []byte(config.DefaultConfigTemplate), 0o600); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write config.yaml")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.FormatCheckmark("Configuration initialized at "+paths.ConfigFile))
	fmt.Fprintln(out, "Validate with: droidcfg config vet")

	return nil
}
