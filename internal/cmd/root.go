// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/safespot/droidcfg/internal/cmdutil"
	"github.com/safespot/droidcfg/internal/config"
	oerrors "github.com/safespot/droidcfg/internal/errors"
	"github.com/safespot/droidcfg/internal/flutter"
	"github.com/safespot/droidcfg/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	strictFlag     bool
	projectFlag    string
	timestampsFlag bool

	// Resolved settings (loaded during PersistentPreRunE)
	settings *config.Settings
)

// NewRootCmd creates the root command for the droidcfg CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "droidcfg",
		Short: "Android build profile tooling for Flutter apps",
		Long: `droidcfg keeps the Android build configuration of a Flutter application
in a declarative profile. It validates the profile, resolves the version
values the Flutter tool supplies, and renders android/app/build.gradle.kts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (env: DROIDCFG_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Treat validation warnings as errors (env: DROIDCFG_STRICT)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Flutter project root (env: DROIDCFG_PROJECT, default: the profile's flutter.source)")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewRenderCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration, resolves settings and sets up logging.
func initializeGlobals(cmd *cobra.Command) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: configFlag,
	})
	if err != nil {
		return err
	}

	cfg, loader := loadConfig(pathResult.ConfigPath)

	flags := cmd.Flags()
	resolved, values := config.ResolveSettings(config.ResolveOptions{
		ConfigPath: pathResult,
		Config:     cfg,
		Loader:     loader,
		Flags: map[string]config.FlagValue{
			"project":        {Value: projectFlag, Changed: flags.Changed("project")},
			"strict":         {Value: strictFlag, Changed: flags.Changed("strict")},
			"log.timestamps": {Value: timestampsFlag, Changed: flags.Changed("timestamps")},
		},
	})
	settings = resolved

	output.SetupLogging(output.LogConfig{
		Verbose:    verboseFlag,
		Timestamps: resolved.Timestamps,
	})

	if verboseFlag {
		config.LogResolvedValues(values)
	}

	return nil
}

// loadConfig reads the config file. A broken config file must not block
// commands like `config init`, so it is skipped with a warning and only the
// environment is read; `config vet` reports the problem in full.
func loadConfig(path string) (*config.Config, *config.Loader) {
	loader := config.NewLoader()
	cfg, err := loader.Load(path)
	if err == nil {
		return cfg, loader
	}
	output.Warn("ignoring config file", "path", path, "error", err)

	cfg, err = loader.LoadEnv()
	if err != nil {
		output.Warn("ignoring environment configuration", "error", err)
		return &config.Config{}, nil
	}
	return cfg, loader
}

// GetSettings returns the resolved global settings. Commands executed
// without the root command see the built-in defaults.
func GetSettings() *config.Settings {
	if settings != nil {
		return settings
	}
	defaults := config.DefaultConfig()
	return &config.Settings{
		DefaultProfile: defaults.DefaultProfile,
		MinTargetSdk:   defaults.Store.MinTargetSdk,
	}
}

// loadOptions builds the profile load options from the global settings.
func loadOptions() (cmdutil.LoadOptions, error) {
	s := GetSettings()
	code, name := config.VersionOverrides()
	if err := config.ParseVersionCodeOverride(code); err != nil {
		return cmdutil.LoadOptions{}, oerrors.NewValidationError(err.Error(), "", "", "")
	}
	return cmdutil.LoadOptions{
		Project:      s.Project,
		Strict:       s.Strict,
		MinTargetSdk: s.MinTargetSdk,
		Overrides:    flutter.Overrides{VersionCode: code, VersionName: name},
	}, nil
}
