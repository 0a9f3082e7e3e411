package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/config"
	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the droidcfg CLI configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML with only known keys and well-typed values
  3. Environment overrides (DROIDCFG_*) hold valid values

The config path is resolved using precedence:
  --config flag > DROIDCFG_CONFIG env > ~/.droidcfg/config.yaml

Examples:
  # Validate default configuration
  droidcfg config vet

  # Validate custom config path
  droidcfg config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: configFlag,
	})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path")
	}

	configPath, err := config.ExpandPath(pathResult.ConfigPath)
	if err != nil {
		return err
	}

	output.Debug("validating config",
		"path", configPath,
		"source", pathResult.Source,
	)

	// Check 1: Config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &oerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: configPath,
			Hint:     "Run 'droidcfg config init' to create default configuration",
			Cause:    oerrors.ErrNotFound,
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return err
	}

	// Check 2: file contents against the schema
	if err := validator.ValidateFile(configPath); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}

	// Check 3: values with environment overrides applied
	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return err
	}
	if err := validator.Validate(cfg); err != nil {
		return fmt.Errorf("with environment overrides: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Configuration is valid: "+configPath))
	return nil
}
