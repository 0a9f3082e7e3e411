// Package config provides configuration loading and management.
package config

// StoreConfig contains app store related settings.
type StoreConfig struct {
	// MinTargetSdk is the targetSdk below which validate warns that the
	// store will refuse the upload.
	// Env: DROIDCFG_STORE_MIN_TARGET_SDK, Default: 34
	MinTargetSdk int `mapstructure:"minTargetSdk" json:"minTargetSdk,omitempty" yaml:"minTargetSdk,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Config represents the droidcfg CLI configuration.
// Loaded from ~/.droidcfg/config.yaml, validated against an embedded CUE schema.
type Config struct {
	// DefaultProfile is the profile commands use when none is given.
	// Env: DROIDCFG_PROFILE, Default: droidcfg.yaml
	DefaultProfile string `mapstructure:"defaultProfile" json:"defaultProfile,omitempty" yaml:"defaultProfile,omitempty"`

	// Project is the Flutter project root that external version references
	// are read from. Empty means the profile's flutter.source.
	// Env: DROIDCFG_PROJECT
	Project string `mapstructure:"project" json:"project,omitempty" yaml:"project,omitempty"`

	// Strict turns validation warnings into errors.
	// Env: DROIDCFG_STRICT, Default: false
	Strict bool `mapstructure:"strict" json:"strict,omitempty" yaml:"strict,omitempty"`

	// Store contains app store related settings.
	Store StoreConfig `mapstructure:"store" json:"store,omitempty" yaml:"store,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" json:"log,omitempty" yaml:"log,omitempty"`
}

// Built-in defaults.
const (
	DefaultProfileFile  = "droidcfg.yaml"
	DefaultMinTargetSdk = 34
)

// DefaultConfig returns a Config with all default values populated.
// Used by `droidcfg config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		DefaultProfile: DefaultProfileFile,
		Store: StoreConfig{
			MinTargetSdk: DefaultMinTargetSdk,
		},
	}
}

// WithDefaults returns a copy of c with unset fields filled from DefaultConfig.
func (c *Config) WithDefaults() *Config {
	out := *c
	defaults := DefaultConfig()
	if out.DefaultProfile == "" {
		out.DefaultProfile = defaults.DefaultProfile
	}
	if out.Store.MinTargetSdk == 0 {
		out.Store.MinTargetSdk = defaults.Store.MinTargetSdk
	}
	return &out
}
