package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultOutDir       = "dist/docker"
	defaultTemplatesDir = "config-templates"
	defaultBaseConfig   = "config.yaml"
	defaultSecretsFile  = ".secrets.yaml"
)

// DefaultLocalPath is the distinguished local override file, resolved next
// to the base config and merged automatically when it exists and no explicit
// --local path is given.
const DefaultLocalPath = "config.local.yaml"

// Config aggregates the tool's runtime settings resolved from multiple
// sources. Precedence: CLI flags > Environment variables > Defaults
type Config struct {
	OutDir       string
	TemplatesDir string
	BaseConfig   string
	// LocalConfig is an explicit local layer path; empty means auto-detect
	// DefaultLocalPath. An explicit path that does not exist is fatal at run
	// time, the auto-detected one is optional.
	LocalConfig string
	SkipLocal   bool
	SecretsFile string
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	OutDir       *string
	TemplatesDir *string
	BaseConfig   *string
	LocalConfig  *string
	SkipLocal    *bool
	SecretsFile  *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		OutDir:       defaultOutDir,
		TemplatesDir: defaultTemplatesDir,
		BaseConfig:   defaultBaseConfig,
		SecretsFile:  defaultSecretsFile,
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if out := strings.TrimSpace(os.Getenv("CONFIGURE_OUT")); out != "" {
		cfg.OutDir = out
	}

	if templates := strings.TrimSpace(os.Getenv("CONFIGURE_TEMPLATES")); templates != "" {
		cfg.TemplatesDir = templates
	}

	if base := strings.TrimSpace(os.Getenv("CONFIGURE_BASE")); base != "" {
		cfg.BaseConfig = base
	}

	if local := strings.TrimSpace(os.Getenv("CONFIGURE_LOCAL")); local != "" {
		cfg.LocalConfig = local
	}

	if skip := strings.TrimSpace(os.Getenv("CONFIGURE_SKIP_LOCAL")); skip != "" {
		if value, err := strconv.ParseBool(skip); err == nil {
			cfg.SkipLocal = value
		}
	}

	if secretsFile := strings.TrimSpace(os.Getenv("CONFIGURE_SECRETS")); secretsFile != "" {
		cfg.SecretsFile = secretsFile
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.OutDir != nil && *overrides.OutDir != "" {
		cfg.OutDir = *overrides.OutDir
	}

	if overrides.TemplatesDir != nil && *overrides.TemplatesDir != "" {
		cfg.TemplatesDir = *overrides.TemplatesDir
	}

	if overrides.BaseConfig != nil && *overrides.BaseConfig != "" {
		cfg.BaseConfig = *overrides.BaseConfig
	}

	if overrides.LocalConfig != nil && *overrides.LocalConfig != "" {
		cfg.LocalConfig = *overrides.LocalConfig
	}

	if overrides.SkipLocal != nil {
		cfg.SkipLocal = *overrides.SkipLocal
	}

	if overrides.SecretsFile != nil && *overrides.SecretsFile != "" {
		cfg.SecretsFile = *overrides.SecretsFile
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.OutDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if cfg.TemplatesDir == "" {
		return fmt.Errorf("templates directory cannot be empty")
	}
	if cfg.BaseConfig == "" {
		return fmt.Errorf("base config path cannot be empty")
	}
	if cfg.SecretsFile == "" {
		return fmt.Errorf("secret store path cannot be empty")
	}
	if cfg.SkipLocal && cfg.LocalConfig != "" {
		return fmt.Errorf("an explicit local config conflicts with skipping the local layer")
	}
	return nil
}
