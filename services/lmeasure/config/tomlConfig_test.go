package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testString = `
ExecutablePath = "/usr/local/bin/lmeasure"
TimeoutInSeconds = 15
TempDir = ""
CatalogFile = ""
ListenAddress = "0.0.0.0:8080"
MaxConcurrentInvocations = 4
LedgerPath = "db/ledger.db"
LedgerRetentionSeconds = 604800

[[DiagnosticRules]]
Pattern = "Segmentation fault"
Kind = "ToolFailure"
Message = "the tool crashed"
`

func createExpectedConfig() Config {
	return Config{
		ExecutablePath:           "/usr/local/bin/lmeasure",
		TimeoutInSeconds:         15,
		ListenAddress:            "0.0.0.0:8080",
		MaxConcurrentInvocations: 4,
		LedgerPath:               "db/ledger.db",
		LedgerRetentionSeconds:   604800,
		DiagnosticRules: []DiagnosticRuleConfig{
			{
				Pattern: "Segmentation fault",
				Kind:    "ToolFailure",
				Message: "the tool crashed",
			},
		},
	}
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{}

	err := toml.Unmarshal([]byte(testString), &cfg)
	assert.Nil(t, err)
	assert.Equal(t, createExpectedConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file should error", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))

		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
	t.Run("invalid file should error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.Nil(t, os.WriteFile(path, []byte("ExecutablePath = ["), 0644))

		cfg, err := LoadConfig(path)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "failed to decode config file")
	})
	t.Run("should work", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.Nil(t, os.WriteFile(path, []byte(testString), 0644))

		cfg, err := LoadConfig(path)
		require.Nil(t, err)
		assert.Equal(t, createExpectedConfig(), *cfg)
	})
}

func TestConfig_CheckValidity(t *testing.T) {
	t.Parallel()

	t.Run("missing executable should error", func(t *testing.T) {
		cfg := createExpectedConfig()
		cfg.ExecutablePath = ""

		assert.ErrorContains(t, cfg.CheckValidity(), "ExecutablePath is not set")
	})
	t.Run("zero timeout should error", func(t *testing.T) {
		cfg := createExpectedConfig()
		cfg.TimeoutInSeconds = 0

		assert.ErrorContains(t, cfg.CheckValidity(), "TimeoutInSeconds")
	})
	t.Run("zero concurrency should error", func(t *testing.T) {
		cfg := createExpectedConfig()
		cfg.MaxConcurrentInvocations = 0

		assert.ErrorContains(t, cfg.CheckValidity(), "MaxConcurrentInvocations")
	})
	t.Run("empty rule pattern should error", func(t *testing.T) {
		cfg := createExpectedConfig()
		cfg.DiagnosticRules[0].Pattern = ""

		assert.ErrorContains(t, cfg.CheckValidity(), "DiagnosticRules[0]")
	})
	t.Run("should work", func(t *testing.T) {
		assert.Nil(t, createExpectedConfig().CheckValidity())
	})
}
