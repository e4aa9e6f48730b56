package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Providers accepted by NewFromConfig.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and configures a provider. An empty Provider means the
// redesign steps are disabled and the pipeline runs offline.
type Config struct {
	Provider string `yaml:"provider" env:"LLM_PROVIDER"`
	Model    string `yaml:"model" env:"LLM_MODEL"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"`
}

// Enabled reports whether a provider is configured.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// NewFromConfig creates the configured provider's client. Returns nil without
// error when no provider is configured.
func NewFromConfig(cfg Config, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:   cfg.APIKey,
			Model:    cfg.Model,
			Endpoint: cfg.Endpoint,
		}, logger)
	case ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
