package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/safespot/droidcfg/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records the winning value of a setting and the values it
// shadowed.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

// FlagValue is a command-line flag's view of a setting.
type FlagValue struct {
	Value   any
	Changed bool
}

// Settings are the effective global settings after resolution.
type Settings struct {
	ConfigPath     string
	DefaultProfile string
	Project        string
	Strict         bool
	MinTargetSdk   int
	Timestamps     *bool
}

// ResolveOptions contains the inputs of ResolveSettings.
type ResolveOptions struct {
	// ConfigPath is the resolved config file path.
	ConfigPath ResolveConfigPathResult

	// Config is the loaded configuration, environment overrides applied.
	Config *Config

	// Loader is the loader that produced Config. It tells file values apart
	// from environment values. May be nil.
	Loader *Loader

	// Flags holds the global flags keyed by config key.
	Flags map[string]FlagValue
}

// ResolveSettings applies flag > env > config > default precedence to every
// global setting.
func ResolveSettings(opts ResolveOptions) (*Settings, []ResolvedValue) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}
	defaults := DefaultConfig()

	values := []ResolvedValue{{
		Key:      "config",
		Value:    opts.ConfigPath.ConfigPath,
		Source:   opts.ConfigPath.Source,
		Shadowed: toAnyMap(opts.ConfigPath.Shadowed),
	}}

	resolve := func(key string, merged, def any, isSet bool) ResolvedValue {
		rv := resolveKey(key, opts.Flags[key], opts.Loader, merged, isSet, def)
		values = append(values, rv)
		return rv
	}

	s := &Settings{ConfigPath: opts.ConfigPath.ConfigPath}

	s.DefaultProfile, _ = resolve("defaultProfile", cfg.DefaultProfile, defaults.DefaultProfile, cfg.DefaultProfile != "").Value.(string)
	s.Project, _ = resolve("project", cfg.Project, "", cfg.Project != "").Value.(string)
	s.Strict, _ = resolve("strict", cfg.Strict, false, cfg.Strict).Value.(bool)
	s.MinTargetSdk, _ = resolve("store.minTargetSdk", cfg.Store.MinTargetSdk, defaults.Store.MinTargetSdk, cfg.Store.MinTargetSdk != 0).Value.(int)

	if cfg.Log.Timestamps != nil {
		s.Timestamps = output.BoolPtr(*cfg.Log.Timestamps)
	}
	var merged any
	if s.Timestamps != nil {
		merged = *s.Timestamps
	}
	if rv := resolve("log.timestamps", merged, true, s.Timestamps != nil); rv.Source == SourceFlag {
		b, _ := rv.Value.(bool)
		s.Timestamps = output.BoolPtr(b)
	}

	return s, values
}

// resolveKey picks the winning source of one setting. merged is the config
// value with environment overrides applied, as the loader produced it.
func resolveKey(key string, flag FlagValue, l *Loader, merged any, isSet bool, def any) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}

	envRaw, envSet := os.LookupEnv(EnvVar(key))
	envSet = envSet && envRaw != ""

	var fileValue any
	fileSet := false
	if l != nil {
		fileValue, fileSet = l.FileValue(key)
	} else if isSet && !envSet {
		fileValue, fileSet = merged, true
	}

	var candidates []ResolvedValue
	if flag.Changed {
		candidates = append(candidates, ResolvedValue{Value: flag.Value, Source: SourceFlag})
	}
	if envSet {
		candidates = append(candidates, ResolvedValue{Value: merged, Source: SourceEnv})
	}
	if fileSet {
		candidates = append(candidates, ResolvedValue{Value: fileValue, Source: SourceConfig})
	}
	candidates = append(candidates, ResolvedValue{Value: def, Source: SourceDefault})

	winner := candidates[0]
	rv.Value = winner.Value
	rv.Source = winner.Source
	if winner.Source == SourceConfig {
		// Keep the typed value the loader decoded.
		rv.Value = merged
	}
	for _, c := range candidates[1:] {
		if c.Source == SourceDefault {
			continue
		}
		rv.Shadowed[c.Source] = c.Value
	}
	return rv
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) DROIDCFG_CONFIG env, (3) ~/.droidcfg/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	// Resolve using precedence: flag > env > default
	if opts.FlagValue != "" {
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	} else if envValue != "" {
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	} else {
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// VersionOverrides returns the DROIDCFG_VERSION_CODE and DROIDCFG_VERSION_NAME
// values, which win over every Flutter project source.
func VersionOverrides() (code, name string) {
	return os.Getenv(EnvVersionCode), os.Getenv(EnvVersionName)
}

// ParseVersionCodeOverride checks DROIDCFG_VERSION_CODE early so that a typo
// fails before any profile is read.
func ParseVersionCodeOverride(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("%s=%q is not an integer", EnvVersionCode, s)
	}
	return nil
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		sources := make([]string, 0, len(v.Shadowed))
		for source := range v.Shadowed {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)
		for _, source := range sources {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", v.Shadowed[ConfigSource(source)],
			)
		}
	}
}

func toAnyMap(m map[ConfigSource]string) map[ConfigSource]any {
	out := make(map[ConfigSource]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
