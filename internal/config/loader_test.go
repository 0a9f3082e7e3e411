package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		path := writeConfig(t, `
defaultProfile: profiles/release.yaml
project: ~/src/safe_spot
strict: true
store:
  minTargetSdk: 35
log:
  timestamps: false
`)

		cfg, err := NewLoader().Load(path)

		require.NoError(t, err)
		assert.Equal(t, "profiles/release.yaml", cfg.DefaultProfile)
		assert.Equal(t, "~/src/safe_spot", cfg.Project)
		assert.True(t, cfg.Strict)
		assert.Equal(t, 35, cfg.Store.MinTargetSdk)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
	})

	t.Run("returns empty config for missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nonexistent.yaml")

		cfg, err := NewLoader().Load(path)

		require.NoError(t, err)
		assert.Empty(t, cfg.DefaultProfile)
		assert.False(t, cfg.Strict)
	})

	t.Run("loads from environment variables", func(t *testing.T) {
		t.Setenv("DROIDCFG_PROJECT", "/env/project")
		t.Setenv("DROIDCFG_STRICT", "true")
		t.Setenv("DROIDCFG_STORE_MIN_TARGET_SDK", "33")

		cfg, err := NewLoader().Load(writeConfig(t, ""))

		require.NoError(t, err)
		assert.Equal(t, "/env/project", cfg.Project)
		assert.True(t, cfg.Strict)
		assert.Equal(t, 33, cfg.Store.MinTargetSdk)
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("DROIDCFG_PROFILE", "env.yaml")

		loader := NewLoader()
		cfg, err := loader.Load(writeConfig(t, "defaultProfile: file.yaml\n"))

		require.NoError(t, err)
		assert.Equal(t, "env.yaml", cfg.DefaultProfile)

		fileValue, ok := loader.FileValue("defaultProfile")
		assert.True(t, ok)
		assert.Equal(t, "file.yaml", fileValue)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := NewLoader().Load(writeConfig(t, "store: [unclosed\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}

func TestLoaderLoadWithDefaults(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(writeConfig(t, ""))

	require.NoError(t, err)
	assert.Equal(t, DefaultProfileFile, cfg.DefaultProfile)
	assert.Equal(t, DefaultMinTargetSdk, cfg.Store.MinTargetSdk)
}

func TestLoaderFileValue(t *testing.T) {
	loader := NewLoader()
	_, err := loader.Load(writeConfig(t, "store:\n  minTargetSdk: 35\n"))
	require.NoError(t, err)

	v, ok := loader.FileValue("store.minTargetSdk")
	assert.True(t, ok)
	assert.EqualValues(t, 35, v)

	_, ok = loader.FileValue("store.missing")
	assert.False(t, ok)
	_, ok = loader.FileValue("project")
	assert.False(t, ok)
}

func TestConfigFileExists(t *testing.T) {
	t.Run("returns true for existing file", func(t *testing.T) {
		exists, err := ConfigFileExists(writeConfig(t, ""))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("returns false for missing file", func(t *testing.T) {
		exists, err := ConfigFileExists(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("uses DROIDCFG_CONFIG when empty", func(t *testing.T) {
		t.Setenv("DROIDCFG_CONFIG", writeConfig(t, ""))
		exists, err := ConfigFileExists("")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
