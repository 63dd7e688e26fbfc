package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/tablequest/internal/store"
)

const tracerName = "github.com/abhisek/tablequest/internal/llm"

type loggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
}

// WithLogging traces each call, logs it, and appends it to the
// llm_request_events table when repo is non-nil. A failed event write is
// logged and never fails the call.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingProvider{
		inner:    p,
		provider: providerName,
		repo:     repo,
		logger:   logger.With("component", "llm", "provider", providerName),
	}
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		RequestBody: transcript(req),
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.provider", ev.Provider),
		attribute.String("llm.model", ev.Model),
		attribute.String("llm.purpose", ev.Purpose),
	))
	defer span.End()

	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev.LatencyMs = time.Since(start).Milliseconds()
	ev.Success = err == nil

	log := l.logger.With("purpose", ev.Purpose, "latency_ms", ev.LatencyMs)
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		span.SetAttributes(
			attribute.Int("llm.input_tokens", ev.InputTokens),
			attribute.Int("llm.output_tokens", ev.OutputTokens),
		)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, ev.ErrorMessage)
		log.Warn("llm request failed", "model", ev.Model, "err", err)
	} else {
		log.Debug("llm request", "model", ev.Model, "input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)
	}

	if l.repo != nil {
		if werr := l.repo.AppendLLMRequest(ctx, ev); werr != nil {
			l.logger.Error("record llm request", "err", werr)
		}
	}
	return resp, err
}

// transcript renders a request the way `tablequest llm view` shows it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		def, _ := json.Marshal(req.Schema.Definition)
		fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
	}
	return b.String()
}
