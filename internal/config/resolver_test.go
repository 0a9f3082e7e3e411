package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
	t.Setenv(EnvConfig, "")
}

func findValue(t *testing.T, values []ResolvedValue, key string) ResolvedValue {
	t.Helper()
	for _, v := range values {
		if v.Key == key {
			return v
		}
	}
	t.Fatalf("no resolved value for %q", key)
	return ResolvedValue{}
}

func resolveFrom(t *testing.T, content string, flags map[string]FlagValue) (*Settings, []ResolvedValue) {
	t.Helper()
	loader := NewLoader()
	cfg, err := loader.Load(writeConfig(t, content))
	require.NoError(t, err)
	return ResolveSettings(ResolveOptions{Config: cfg, Loader: loader, Flags: flags})
}

func TestResolveSettings_Defaults(t *testing.T) {
	clearEnv(t)

	s, values := resolveFrom(t, "", nil)

	assert.Equal(t, DefaultProfileFile, s.DefaultProfile)
	assert.Equal(t, DefaultMinTargetSdk, s.MinTargetSdk)
	assert.False(t, s.Strict)
	assert.Empty(t, s.Project)
	assert.Nil(t, s.Timestamps)

	rv := findValue(t, values, "strict")
	assert.Equal(t, SourceDefault, rv.Source)
	assert.Empty(t, rv.Shadowed)
}

func TestResolveSettings_ConfigFallback(t *testing.T) {
	clearEnv(t)

	s, values := resolveFrom(t, "strict: true\nstore:\n  minTargetSdk: 35\n", nil)

	assert.True(t, s.Strict)
	assert.Equal(t, 35, s.MinTargetSdk)
	assert.Equal(t, SourceConfig, findValue(t, values, "strict").Source)
	assert.Equal(t, SourceConfig, findValue(t, values, "store.minTargetSdk").Source)
}

func TestResolveSettings_EnvPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("DROIDCFG_PROJECT", "/env/project")

	s, values := resolveFrom(t, "project: /file/project\n", nil)

	assert.Equal(t, "/env/project", s.Project)
	rv := findValue(t, values, "project")
	assert.Equal(t, SourceEnv, rv.Source)
	assert.Equal(t, "/file/project", rv.Shadowed[SourceConfig])
	assert.NotContains(t, rv.Shadowed, SourceFlag)
}

func TestResolveSettings_FlagPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("DROIDCFG_PROJECT", "/env/project")

	s, values := resolveFrom(t, "project: /file/project\nlog:\n  timestamps: true\n", map[string]FlagValue{
		"project":        {Value: "/flag/project", Changed: true},
		"strict":         {Value: false, Changed: false},
		"log.timestamps": {Value: false, Changed: true},
	})

	assert.Equal(t, "/flag/project", s.Project)
	rv := findValue(t, values, "project")
	assert.Equal(t, SourceFlag, rv.Source)
	assert.Equal(t, "/env/project", rv.Shadowed[SourceEnv])
	assert.Equal(t, "/file/project", rv.Shadowed[SourceConfig])

	require.NotNil(t, s.Timestamps)
	assert.False(t, *s.Timestamps)
	assert.Equal(t, SourceDefault, findValue(t, values, "strict").Source)
}

func TestResolveSettings_WithoutLoader(t *testing.T) {
	clearEnv(t)

	s, values := ResolveSettings(ResolveOptions{Config: &Config{Strict: true}})

	assert.True(t, s.Strict)
	assert.Equal(t, SourceConfig, findValue(t, values, "strict").Source)
	assert.Equal(t, DefaultProfileFile, s.DefaultProfile)
}

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv("DROIDCFG_CONFIG", "/env/path/config.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/path/config.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "/flag/path/config.yaml", result.ConfigPath)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/path/config.yaml", result.Shadowed[SourceEnv])
	assert.Contains(t, result.Shadowed, SourceDefault)
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	t.Setenv("DROIDCFG_CONFIG", "/env/path/config.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/env/path/config.yaml", result.ConfigPath)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveConfigPath_Default(t *testing.T) {
	t.Setenv("DROIDCFG_CONFIG", "")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{})
	require.NoError(t, err)

	assert.Equal(t, SourceDefault, result.Source)
	assert.Equal(t, filepath.Join(".droidcfg", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(result.ConfigPath)), filepath.Base(result.ConfigPath)))
	assert.Empty(t, result.Shadowed)
}

func TestParseVersionCodeOverride(t *testing.T) {
	assert.NoError(t, ParseVersionCodeOverride(""))
	assert.NoError(t, ParseVersionCodeOverride("42"))

	err := ParseVersionCodeOverride("4two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DROIDCFG_VERSION_CODE")
}

func TestVersionOverrides(t *testing.T) {
	t.Setenv("DROIDCFG_VERSION_CODE", "7")
	t.Setenv("DROIDCFG_VERSION_NAME", "1.2.3")

	code, name := VersionOverrides()
	assert.Equal(t, "7", code)
	assert.Equal(t, "1.2.3", name)
}

func TestResolveSettings_EnvOnlyLoader(t *testing.T) {
	clearEnv(t)
	t.Setenv("DROIDCFG_PROJECT", "/work/safe_spot")
	t.Setenv("DROIDCFG_STRICT", "true")

	loader := NewLoader()
	_, err := loader.Load(writeConfig(t, "store: [unclosed\n"))
	require.Error(t, err)

	cfg, err := loader.LoadEnv()
	require.NoError(t, err)
	s, values := ResolveSettings(ResolveOptions{Config: cfg, Loader: loader})

	assert.Equal(t, "/work/safe_spot", s.Project)
	assert.True(t, s.Strict)
	assert.Equal(t, DefaultMinTargetSdk, s.MinTargetSdk)

	project := findValue(t, values, "project")
	assert.Equal(t, SourceEnv, project.Source)
	assert.Equal(t, "/work/safe_spot", project.Value)
	assert.Empty(t, project.Shadowed)
}
