package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DiagnosticRuleConfig declares an extra pattern to look for in the tool diagnostics
type DiagnosticRuleConfig struct {
	Pattern string `toml:"Pattern"`
	Kind    string `toml:"Kind"`
	Message string `toml:"Message"`
}

// Config maps to the config.toml file for the lmeasure service
type Config struct {
	ExecutablePath           string                 `toml:"ExecutablePath"`
	TimeoutInSeconds         uint32                 `toml:"TimeoutInSeconds"`
	TempDir                  string                 `toml:"TempDir"`
	CatalogFile              string                 `toml:"CatalogFile"`
	ListenAddress            string                 `toml:"ListenAddress"`
	MaxConcurrentInvocations int                    `toml:"MaxConcurrentInvocations"`
	LedgerPath               string                 `toml:"LedgerPath"`
	LedgerRetentionSeconds   int                    `toml:"LedgerRetentionSeconds"`
	DiagnosticRules          []DiagnosticRuleConfig `toml:"DiagnosticRules"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}

// CheckValidity returns an error for settings the service can not start with.
// The executable path has no default: it must always be configured.
func (cfg Config) CheckValidity() error {
	if len(cfg.ExecutablePath) == 0 {
		return errors.New("ExecutablePath is not set")
	}
	if cfg.TimeoutInSeconds == 0 {
		return errors.New("TimeoutInSeconds must be positive")
	}
	if cfg.MaxConcurrentInvocations <= 0 {
		return errors.New("MaxConcurrentInvocations must be positive")
	}
	for i, rule := range cfg.DiagnosticRules {
		if len(rule.Pattern) == 0 {
			return fmt.Errorf("DiagnosticRules[%d] has an empty Pattern", i)
		}
	}

	return nil
}
