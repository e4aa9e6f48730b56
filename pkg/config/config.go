package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/schemalens-ai/schemalens-engine/pkg/llm"
)

// Config holds all configuration for schemalens-engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values for fields
// that support both. Secrets (database URL, API keys) must only come from
// environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// DatabaseURL is the PostgreSQL connection URL for the task store.
	// When empty, tasks are kept in memory and lost on restart.
	DatabaseURL string `yaml:"-" env:"DATABASE_URL"` // Secret - not in YAML

	// MigrationsPath is where task store migration files live.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// ThresholdsPath optionally points at a YAML file overriding the
	// built-in analysis thresholds.
	ThresholdsPath string `yaml:"thresholds_path" env:"THRESHOLDS_PATH" env-default:""`

	// TaskTimeoutMinutes bounds how long a single analysis task may run.
	TaskTimeoutMinutes int `yaml:"task_timeout_minutes" env:"TASK_TIMEOUT_MINUTES" env-default:"10"`

	// LLM selects the provider used for schema redesign. Leaving the
	// provider empty runs the pipeline offline (report only, no redesign).
	LLM llm.Config `yaml:"llm"`
}

// Load reads configuration from the given YAML file with environment
// variable overrides. A missing file is not an error: configuration then
// comes from environment variables and defaults alone. The version
// parameter is injected at build time and set on the returned Config.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.TaskTimeoutMinutes <= 0 {
		return nil, fmt.Errorf("task_timeout_minutes must be positive, got %d", cfg.TaskTimeoutMinutes)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddr + ":" + c.Port
}
