package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable ConfigFromEnv reads.
const EnvPrefix = "TABLEQUEST_"

// Config selects a backend and holds the settings for each of them.
type Config struct {
	// Provider is one of the registered backend names or "mock".
	Provider string `env:"LLM_PROVIDER" envDefault:"anthropic"`

	Anthropic  Backend `envPrefix:"ANTHROPIC_"`
	OpenAI     Backend `envPrefix:"OPENAI_"`
	Gemini     Backend `envPrefix:"GEMINI_"`
	OpenRouter Backend `envPrefix:"OPENROUTER_"`

	Retry RetryConfig `envPrefix:"LLM_RETRY_"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
}

// Backend is the per-provider part of Config. An empty Model or BaseURL
// falls back to the backend default.
type Backend struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"`
	BaseURL string `env:"BASE_URL"`
}

type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// DefaultConfig is what ConfigFromEnv yields with nothing set.
func DefaultConfig() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: map[string]string{}})
	return cfg
}

// ConfigFromEnv reads TABLEQUEST_* variables over the defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse llm env: %w", err)
	}
	return cfg, nil
}

// backend returns the settings for the named provider, or nil.
func (c *Config) backend(name string) *Backend {
	switch name {
	case "anthropic":
		return &c.Anthropic
	case "openai":
		return &c.OpenAI
	case "gemini":
		return &c.Gemini
	case "openrouter":
		return &c.OpenRouter
	}
	return nil
}

// DiscoverConfig looks for the vendors' own API key variables in
// registry order and selects the first backend that has one.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, spec := range backends {
		if key := os.Getenv(spec.keyVar); key != "" {
			cfg.Provider = spec.name
			cfg.backend(spec.name).APIKey = key
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected backend exists and has a key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	spec, ok := lookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.backend(spec.name).APIKey == "" {
		return fmt.Errorf("%s%sAPI_KEY is required for the %s provider", EnvPrefix, spec.envPrefix, spec.name)
	}
	return nil
}
