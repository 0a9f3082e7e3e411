package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for droidcfg configuration.
const envPrefix = "DROIDCFG"

// Environment variables read outside the config file.
const (
	EnvConfig      = "DROIDCFG_CONFIG"
	EnvVersionCode = "DROIDCFG_VERSION_CODE"
	EnvVersionName = "DROIDCFG_VERSION_NAME"
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"defaultProfile":     "DROIDCFG_PROFILE",
	"project":            "DROIDCFG_PROJECT",
	"strict":             "DROIDCFG_STRICT",
	"store.minTargetSdk": "DROIDCFG_STORE_MIN_TARGET_SDK",
	"log.timestamps":     "DROIDCFG_LOG_TIMESTAMPS",
}

// EnvVar returns the environment variable bound to a config key.
func EnvVar(key string) string {
	return envBindings[key]
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper

	// file holds the settings read from the config file, before
	// environment overrides are applied.
	file map[string]any
	path string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}
	l.path = expandedPath

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	// A missing config file is fine: defaults and env vars still apply.
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
		}
	}
	l.file = l.v.AllSettings()

	return l.bindEnv()
}

// LoadEnv loads configuration from environment variables only. It stands in
// for Load when the config file cannot be read, so DROIDCFG_* overrides
// still apply.
func (l *Loader) LoadEnv() (*Config, error) {
	l.v = viper.New()
	l.file = nil
	return l.bindEnv()
}

func (l *Loader) bindEnv() (*Config, error) {
	l.v.SetEnvPrefix(envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, env := range envBindings {
		_ = l.v.BindEnv(key, env)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}

// Path returns the expanded path of the last loaded config file.
func (l *Loader) Path() string {
	return l.path
}

// FileValue returns the value the config file sets for key, if any.
func (l *Loader) FileValue(key string) (any, bool) {
	var cur any = l.file
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
