package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// serveJSON starts a server answering every request with status and body.
// The last request body is stored in *got when got is non-nil.
func serveJSON(t *testing.T, status int, header http.Header, body any, got *map[string]any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

var tipSchema = &Schema{
	Name: "fact-tip",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"tip": map[string]any{"type": "string"}},
		"required":   []any{"tip"},
	},
}

func tipRequest() Request {
	return Request{
		System:    "You coach times tables.",
		Messages:  []Message{{Role: RoleUser, Content: "7 x 8"}},
		Schema:    tipSchema,
		MaxTokens: 200,
	}
}

func TestAnthropic_Generate(t *testing.T) {
	var sent map[string]any
	url := serveJSON(t, http.StatusOK, nil, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": `{"tip":"7, 14, 28, 56"}`}},
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 12},
	}, &sent)

	p, _ := newAnthropic(context.Background(), Backend{APIKey: "k", BaseURL: url}, "claude-haiku-4-5-20251001")
	resp, err := p.Generate(context.Background(), tipRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"tip":"7, 14, 28, 56"}` {
		t.Errorf("Content = %s", resp.Content)
	}
	if resp.Usage.Total() != 62 || resp.StopReason != StopEnd {
		t.Errorf("resp = %+v", resp)
	}
	if sent["output_config"] == nil {
		t.Errorf("request carried no output_config: %v", sent)
	}
}

func TestAnthropic_Errors(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "x", "message": "nope"}}
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl) && rl.RetryAfter == 7*time.Second
		}},
		{http.StatusUnauthorized, func(err error) bool {
			var rq *ErrRequest
			return errors.As(err, &rq) && rq.Status == http.StatusUnauthorized
		}},
		{http.StatusInternalServerError, func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
	}
	for _, tt := range tests {
		url := serveJSON(t, tt.status, http.Header{"Retry-After": {"7"}}, errBody, nil)
		p, _ := newAnthropic(context.Background(), Backend{APIKey: "k", BaseURL: url}, "m")
		_, err := p.Generate(context.Background(), tipRequest())
		if !tt.check(err) {
			t.Errorf("status %d: err = %T %v", tt.status, err, err)
		}
	}
}

func openAIReply(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 10, "total_tokens": 50},
	}
}

func TestOpenAI_Generate(t *testing.T) {
	var sent map[string]any
	url := serveJSON(t, http.StatusOK, nil, openAIReply(`{"tip":"double 7 three times"}`, "stop"), &sent)

	p, _ := newOpenAI(context.Background(), Backend{APIKey: "k", BaseURL: url + "/v1"}, "gpt-4o-mini")
	resp, err := p.Generate(context.Background(), tipRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Model != "gpt-4o-mini" || resp.Usage.InputTokens != 40 {
		t.Errorf("resp = %+v", resp)
	}
	msgs, _ := sent["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("first message role = %v", first["role"])
	}
	format, _ := sent["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", sent["response_format"])
	}
}

func TestOpenAI_TruncatedReply(t *testing.T) {
	url := serveJSON(t, http.StatusOK, nil, openAIReply(`{"tip":"dou`, "length"), nil)
	p, _ := newOpenAI(context.Background(), Backend{APIKey: "k", BaseURL: url + "/v1"}, "gpt-4o-mini")

	_, err := p.Generate(context.Background(), tipRequest())
	var truncated *ErrMaxTokensExceeded
	if !errors.As(err, &truncated) {
		t.Fatalf("err = %T %v, want ErrMaxTokensExceeded", err, err)
	}
}

func TestOpenAI_RateLimited(t *testing.T) {
	url := serveJSON(t, http.StatusTooManyRequests, nil,
		map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}}, nil)
	p, _ := newOpenAI(context.Background(), Backend{APIKey: "k", BaseURL: url + "/v1"}, "gpt-4o-mini")

	_, err := p.Generate(context.Background(), tipRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T %v, want ErrRateLimit", err, err)
	}
}

func TestGemini_Generate(t *testing.T) {
	var sent map[string]any
	url := serveJSON(t, http.StatusOK, nil, map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": `{"tip":"5, 6, 7, 8: 56 = 7 x 8"}`}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 30, "candidatesTokenCount": 9, "totalTokenCount": 39},
		"modelVersion":  "gemini-2.0-flash",
	}, &sent)

	p, err := newGemini(context.Background(), Backend{APIKey: "k", BaseURL: url + "/"}, "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	resp, err := p.Generate(context.Background(), tipRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(resp.Content), "56") || resp.Usage.OutputTokens != 9 {
		t.Errorf("resp = %+v", resp)
	}
	cfg, _ := sent["generationConfig"].(map[string]any)
	if cfg["responseMimeType"] != "application/json" || cfg["responseJsonSchema"] == nil {
		t.Errorf("generationConfig = %v", cfg)
	}
}

func TestGemini_ServerError(t *testing.T) {
	url := serveJSON(t, http.StatusServiceUnavailable, nil,
		map[string]any{"error": map[string]any{"code": 503, "message": "overloaded"}}, nil)
	p, err := newGemini(context.Background(), Backend{APIKey: "k", BaseURL: url + "/"}, "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	_, err = p.Generate(context.Background(), tipRequest())
	var un *ErrProviderUnavailable
	if !errors.As(err, &un) {
		t.Fatalf("err = %T %v, want ErrProviderUnavailable", err, err)
	}
}
