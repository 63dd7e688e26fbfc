package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var vendorKeys = []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range vendorKeys {
		t.Setenv(k, "")
	}
	for _, k := range []string{"LLM_PROVIDER", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENAI_MODEL", "LLM_TIMEOUT", "LLM_RETRY_MAX_ATTEMPTS"} {
		t.Setenv(EnvPrefix+k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	want := RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: 10 * time.Second, Multiplier: 2}
	if cfg.Retry != want {
		t.Errorf("Retry = %+v, want %+v", cfg.Retry, want)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("TABLEQUEST_LLM_PROVIDER", "openai")
	t.Setenv("TABLEQUEST_OPENAI_API_KEY", "sk-1")
	t.Setenv("TABLEQUEST_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("TABLEQUEST_LLM_TIMEOUT", "5s")
	t.Setenv("TABLEQUEST_LLM_RETRY_MAX_ATTEMPTS", "1")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "sk-1" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second || cfg.Retry.MaxAttempts != 1 {
		t.Errorf("Timeout = %s, MaxAttempts = %d", cfg.Timeout, cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.MaxWait != 10*time.Second {
		t.Errorf("unset MaxWait = %s, want default", cfg.Retry.MaxWait)
	}
}

func TestConfigFromEnv_BadDuration(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("TABLEQUEST_LLM_TIMEOUT", "soon")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for unparsable timeout")
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("DiscoverConfig found a key in a clean environment")
	}

	t.Setenv("OPENROUTER_API_KEY", "or")
	t.Setenv("ANTHROPIC_API_KEY", "an")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "an" {
		t.Errorf("cfg = %+v, ok = %v; want anthropic ahead of openrouter", cfg, ok)
	}

	t.Setenv("GEMINI_API_KEY", "ge")
	if cfg, _ := DiscoverConfig(); cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini first", cfg.Provider)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"anthropic without key", func(c *Config) {}, "TABLEQUEST_ANTHROPIC_API_KEY"},
		{"anthropic with key", func(c *Config) { c.Anthropic.APIKey = "k" }, ""},
		{"openrouter without key", func(c *Config) { c.Provider = "openrouter" }, "TABLEQUEST_OPENROUTER_API_KEY"},
		{"gemini with key", func(c *Config) { c.Provider = "gemini"; c.Gemini.APIKey = "k" }, ""},
		{"mock", func(c *Config) { c.Provider = "mock" }, ""},
		{"unknown", func(c *Config) { c.Provider = "watson" }, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("Validate() = %v, want nil", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestBackendModel(t *testing.T) {
	tests := []struct {
		backend, configured, want string
	}{
		{"anthropic", "", "claude-haiku-4-5-20251001"},
		{"anthropic", "claude-sonnet", "claude-sonnet-4-20250514"},
		{"anthropic", "claude-opus-4-5", "claude-opus-4-5"},
		{"gemini", "", "gemini-2.0-flash"},
		{"openai", "", "gpt-4o-mini"},
		{"openrouter", "meta-llama/llama-3-8b", "meta-llama/llama-3-8b"},
	}
	for _, tt := range tests {
		spec, ok := lookupBackend(tt.backend)
		if !ok {
			t.Fatalf("backend %q not registered", tt.backend)
		}
		if got := spec.model(tt.configured); got != tt.want {
			t.Errorf("%s.model(%q) = %q, want %q", tt.backend, tt.configured, got, tt.want)
		}
	}
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}

	cfg.OpenRouter.APIKey = ""
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewProviderFromEnv(t *testing.T) {
	clearLLMEnv(t)

	if _, err := NewProviderFromEnv(context.Background(), nil, nil); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	p, err := NewProviderFromEnv(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("NewProviderFromEnv: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("ModelID() = %q, want gpt-4o-mini", p.ModelID())
	}

	t.Setenv("TABLEQUEST_LLM_PROVIDER", "mock")
	p, err = NewProviderFromEnv(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("NewProviderFromEnv(mock): %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Errorf("provider = %T, want *MockProvider", p)
	}
}
