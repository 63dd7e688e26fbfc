package tips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/llm"
)

// Input is what a tip request knows about the player's trouble.
type Input struct {
	Fact         drill.Fact
	WrongAnswers []int
}

// Service hands out tips, asking the LLM when one is configured and
// caching its answers per fact.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[drill.Fact]Tip
}

// NewService creates a tip service. provider may be nil, in which case
// only built-in tips are served.
func NewService(provider llm.Provider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With("component", "tips"),
		cache:    make(map[drill.Fact]Tip),
	}
}

// Enabled reports whether the service can ask an LLM.
func (s *Service) Enabled() bool { return s != nil && s.provider != nil }

// Generate returns a tip for in.Fact. The returned Tip is always usable:
// when the LLM is missing or fails, the built-in tip is returned together
// with the error.
func (s *Service) Generate(ctx context.Context, in Input) (Tip, error) {
	if !s.Enabled() {
		return Builtin(in.Fact), nil
	}

	s.mu.Lock()
	cached, ok := s.cache[in.Fact]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	tip, err := s.generate(ctx, in)
	if err != nil {
		s.logger.Warn("tip generation failed, using builtin", "fact", in.Fact.String(), "err", err)
		return Builtin(in.Fact), err
	}

	s.mu.Lock()
	s.cache[in.Fact] = tip
	s.mu.Unlock()
	return tip, nil
}

type tipOutput struct {
	Tip   string `json:"tip"`
	Trick string `json:"trick"`
}

func (s *Service) generate(ctx context.Context, in Input) (Tip, error) {
	ctx = llm.WithPurpose(ctx, "tip")

	req := llm.Request{
		System: tipSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTipUserMessage(in)},
		},
		Schema:      TipSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Tip{}, fmt.Errorf("tip generation: %w", err)
	}

	var out tipOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Tip{}, fmt.Errorf("parse tip response: %w", err)
	}
	if strings.TrimSpace(out.Tip) == "" {
		return Tip{}, fmt.Errorf("parse tip response: empty tip")
	}

	return Tip{
		Fact:   in.Fact,
		Text:   strings.TrimSpace(out.Tip),
		Trick:  strings.TrimSpace(out.Trick),
		Source: SourceLLM,
	}, nil
}
