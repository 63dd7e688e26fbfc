// Package llm talks to hosted language models. Every backend returns
// structured JSON validated against a Schema, and is wrapped with event
// logging and retries by NewProvider.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single-shot prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the backend for JSON matching it and the
	// reply is validated before it is returned. Without a schema the
	// reply is passed through as raw text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// StopReason is normalized across backends.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// complete turns a backend reply into a Response, enforcing req.Schema.
// A reply that fails validation after being cut off at the token limit
// is reported as truncated rather than invalid.
func complete(req Request, text, model string, stop StopReason, usage Usage) (*Response, error) {
	content := json.RawMessage(text)
	if req.Schema != nil {
		if err := req.Schema.Validate(content); err != nil {
			if stop == StopMaxTokens {
				return nil, &ErrMaxTokensExceeded{Content: content}
			}
			return nil, err
		}
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}
