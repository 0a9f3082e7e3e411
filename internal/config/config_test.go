package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "droidcfg.yaml", cfg.DefaultProfile)
	assert.Equal(t, 34, cfg.Store.MinTargetSdk)
	assert.False(t, cfg.Strict)
	assert.Empty(t, cfg.Project)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestConfigWithDefaults(t *testing.T) {
	t.Run("fills unset fields", func(t *testing.T) {
		cfg := (&Config{Strict: true}).WithDefaults()
		assert.Equal(t, DefaultProfileFile, cfg.DefaultProfile)
		assert.Equal(t, DefaultMinTargetSdk, cfg.Store.MinTargetSdk)
		assert.True(t, cfg.Strict)
	})

	t.Run("keeps set fields", func(t *testing.T) {
		in := &Config{DefaultProfile: "release.toml", Store: StoreConfig{MinTargetSdk: 35}}
		cfg := in.WithDefaults()
		assert.Equal(t, "release.toml", cfg.DefaultProfile)
		assert.Equal(t, 35, cfg.Store.MinTargetSdk)
	})

	t.Run("does not modify the receiver", func(t *testing.T) {
		in := &Config{}
		_ = in.WithDefaults()
		assert.Empty(t, in.DefaultProfile)
	})
}
