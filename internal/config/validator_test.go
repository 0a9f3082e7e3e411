package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidatorValidate(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name      string
		cfg       *Config
		wantField string
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "empty", cfg: &Config{}},
		{name: "toml profile", cfg: &Config{DefaultProfile: "app.toml"}},
		{name: "unknown profile extension", cfg: &Config{DefaultProfile: "app.ini"}, wantField: "defaultProfile"},
		{name: "store floor too high", cfg: &Config{Store: StoreConfig{MinTargetSdk: 99}}, wantField: "store.minTargetSdk"},
		{name: "store floor negative", cfg: &Config{Store: StoreConfig{MinTargetSdk: -1}}, wantField: "store.minTargetSdk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestValidatorValidateFile(t *testing.T) {
	v := newValidator(t)

	t.Run("valid file", func(t *testing.T) {
		assert.NoError(t, v.ValidateFile(writeConfig(t, "strict: true\nstore:\n  minTargetSdk: 34\n")))
	})

	t.Run("empty file", func(t *testing.T) {
		assert.NoError(t, v.ValidateFile(writeConfig(t, "")))
	})

	t.Run("unknown key", func(t *testing.T) {
		err := v.ValidateFile(writeConfig(t, "registry: ghcr.io/org\n"))
		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs), "got %v", err)
		assert.Equal(t, "registry", verrs[0].Field)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := v.ValidateFile(writeConfig(t, "strict: yes please\n"))
		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs), "got %v", err)
		assert.Equal(t, "strict", verrs[0].Field)
	})

	t.Run("missing file", func(t *testing.T) {
		err := v.ValidateFile("/nonexistent/config.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}

func TestValidationErrorsError(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidationErrors(nil).Error())

	errs := ValidationErrors{{Field: "strict", Message: "conflicting values"}}
	assert.Contains(t, errs.Error(), "config validation failed:")
	assert.Contains(t, errs.Error(), "  strict: conflicting values")
}

func TestDefaultConfigTemplate(t *testing.T) {
	path := writeConfig(t, DefaultConfigTemplate)

	require.NoError(t, newValidator(t).ValidateFile(path))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DefaultProfile, cfg.DefaultProfile)
	assert.Equal(t, DefaultConfig().Store.MinTargetSdk, cfg.Store.MinTargetSdk)
	assert.False(t, cfg.Strict)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.True(t, *cfg.Log.Timestamps)
}
