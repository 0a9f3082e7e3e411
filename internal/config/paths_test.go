package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	paths, err := DefaultPaths()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".droidcfg"), paths.HomeDir)
	assert.Equal(t, filepath.Join(home, ".droidcfg", "config.yaml"), paths.ConfigFile)
}

func TestGetConfigFile(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("DROIDCFG_CONFIG", "/custom/config.yaml")
		path, err := GetConfigFile()
		require.NoError(t, err)
		assert.Equal(t, "/custom/config.yaml", path)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("DROIDCFG_CONFIG", "")
		path, err := GetConfigFile()
		require.NoError(t, err)
		assert.Equal(t, "config.yaml", filepath.Base(path))
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "absolute", in: "/etc/droidcfg.yaml", want: "/etc/droidcfg.yaml"},
		{name: "tilde only", in: "~", want: home},
		{name: "tilde path", in: "~/.droidcfg/config.yaml", want: filepath.Join(home, ".droidcfg", "config.yaml")},
		{name: "other user", in: "~bob/config.yaml", want: "~bob/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
