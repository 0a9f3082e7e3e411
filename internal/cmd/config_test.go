package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespot/droidcfg/internal/config"
	oerrors "github.com/safespot/droidcfg/internal/errors"
)

func TestNewConfigInitCmd(t *testing.T) {
	cmd := NewConfigInitCmd()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestConfigInit_CreatesFile(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized")

	dir := filepath.Join(home, ".droidcfg")
	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	home := isolate(t)
	configFile := filepath.Join(home, ".droidcfg", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(configFile), 0o700))
	require.NoError(t, os.WriteFile(configFile, []byte("# old config\n"), 0o600))

	_, err := execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)

	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate, string(content))
}

func TestConfigVet(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		wantErr  string
		wantCode int
	}{
		{
			name:    "default template",
			content: config.DefaultConfigTemplate,
		},
		{
			name:     "unknown key",
			content:  "registry: example.com\n",
			wantErr:  "registry",
			wantCode: oerrors.ExitValidationError,
		},
		{
			name:     "level out of range",
			content:  "store:\n  minTargetSdk: 99\n",
			wantErr:  "minTargetSdk",
			wantCode: oerrors.ExitValidationError,
		},
		{
			name:     "bad environment override",
			content:  "strict: false\n",
			env:      map[string]string{"DROIDCFG_PROFILE": "profile.txt"},
			wantErr:  "environment overrides",
			wantCode: oerrors.ExitValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			out, err := execute(t, "config", "vet", "--config", path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Contains(t, out, "Configuration is valid")
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.wantCode, oerrors.ExitCodeFor(err))
		})
	}
}

func TestConfigVet_NotFound(t *testing.T) {
	isolate(t)

	_, err := execute(t, "config", "vet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "droidcfg config init")
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFor(err))
}
