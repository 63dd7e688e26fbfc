package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/tablequest/internal/store"
)

// backendSpec registers one hosted provider.
type backendSpec struct {
	name string
	// keyVar is the vendor's own API key variable, used for discovery.
	keyVar string
	// envPrefix is the Config field prefix under EnvPrefix.
	envPrefix    string
	defaultModel string
	// aliases map short model names to full model IDs.
	aliases map[string]string
	open    func(ctx context.Context, b Backend, model string) (Provider, error)
}

// backends is in discovery order.
var backends = []backendSpec{
	{
		name:         "gemini",
		keyVar:       "GEMINI_API_KEY",
		envPrefix:    "GEMINI_",
		defaultModel: "gemini-flash",
		aliases: map[string]string{
			"gemini-flash": "gemini-2.0-flash",
			"gemini-pro":   "gemini-2.0-pro",
		},
		open: newGemini,
	},
	{
		name:         "openai",
		keyVar:       "OPENAI_API_KEY",
		envPrefix:    "OPENAI_",
		defaultModel: "gpt-4o-mini",
		open:         newOpenAI,
	},
	{
		name:         "anthropic",
		keyVar:       "ANTHROPIC_API_KEY",
		envPrefix:    "ANTHROPIC_",
		defaultModel: "claude-haiku",
		aliases: map[string]string{
			"claude-haiku":  "claude-haiku-4-5-20251001",
			"claude-sonnet": "claude-sonnet-4-20250514",
		},
		open: newAnthropic,
	},
	{
		name:         "openrouter",
		keyVar:       "OPENROUTER_API_KEY",
		envPrefix:    "OPENROUTER_",
		defaultModel: "google/gemini-2.0-flash-001",
		open: func(ctx context.Context, b Backend, model string) (Provider, error) {
			if b.BaseURL == "" {
				b.BaseURL = openRouterBaseURL
			}
			return newOpenAI(ctx, b, model)
		},
	},
}

const openRouterBaseURL = "https://openrouter.ai/api/v1"

func lookupBackend(name string) (backendSpec, bool) {
	for _, spec := range backends {
		if spec.name == name {
			return spec, true
		}
	}
	return backendSpec{}, false
}

// model resolves the configured model name, applying the default and
// aliases. Unknown names pass through as model IDs.
func (s backendSpec) model(configured string) string {
	if configured == "" {
		configured = s.defaultModel
	}
	if id, ok := s.aliases[configured]; ok {
		return id
	}
	return configured
}

// NewProvider opens the configured backend and wraps it so that calls go
// caller → timeout → retry → logging → backend. The mock backend is
// returned bare.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if cfg.Provider == "mock" {
		return NewMockProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, _ := lookupBackend(cfg.Provider)
	b := *cfg.backend(spec.name)

	base, err := spec.open(ctx, b, spec.model(b.Model))
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", spec.name, err)
	}

	p := WithLogging(base, spec.name, eventRepo, logger)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}

// NewProviderFromEnv builds a provider from TABLEQUEST_* variables. When
// those name no usable backend it falls back to DiscoverConfig, keeping
// the retry and timeout settings. ErrNotConfigured means nothing was
// found.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if verr := cfg.Validate(); verr != nil {
		found, ok := DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrNotConfigured, verr)
		}
		found.Retry, found.Timeout = cfg.Retry, cfg.Timeout
		cfg = found
	}
	return NewProvider(ctx, cfg, eventRepo, logger)
}
