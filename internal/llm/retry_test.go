package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newTestRetry(p Provider, attempts int) (*retryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}).(*retryProvider)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func ok() MockResponse { return MockResponse{Content: json.RawMessage(`{}`)} }

func TestRetry(t *testing.T) {
	unavailable := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		script    []MockResponse
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", []MockResponse{ok()}, 3, 1, false},
		{"transient then ok", []MockResponse{unavailable, unavailable, ok()}, 3, 3, false},
		{"gives up", []MockResponse{unavailable, unavailable, unavailable, ok()}, 3, 3, true},
		{"rejected request", []MockResponse{{Err: &ErrRequest{Status: 401, Err: errors.New("key")}}, ok()}, 3, 1, true},
		{"truncated", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok()}, 3, 1, true},
		{"invalid retried once", []MockResponse{invalid, invalid, ok()}, 5, 2, true},
		{"invalid then ok", []MockResponse{invalid, ok()}, 3, 2, false},
		{"zero attempts still calls", []MockResponse{ok()}, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			r, _ := newTestRetry(mock, tt.attempts)
			_, err := r.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_Backoff(t *testing.T) {
	fail := MockResponse{Err: &ErrProviderUnavailable{}}
	r, waits := newTestRetry(NewMockProvider(fail, fail, fail, fail), 4)
	r.Generate(context.Background(), Request{})

	if len(*waits) != 3 {
		t.Fatalf("slept %d times, want 3", len(*waits))
	}
	bounds := [][2]time.Duration{{80, 120}, {160, 240}, {240, 360}}
	for i, w := range *waits {
		lo, hi := bounds[i][0]*time.Millisecond, bounds[i][1]*time.Millisecond
		if w < lo || w > hi {
			t.Errorf("wait %d = %s, want within [%s, %s]", i, w, lo, hi)
		}
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	r, waits := newTestRetry(NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 4 * time.Second}}, ok()), 3)
	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 4*time.Second {
		t.Errorf("waits = %v, want [4s]", *waits)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, ok())
	r, _ := newTestRetry(mock, 3)

	if _, err := r.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

type deadlineProbe struct{ deadline time.Time }

func (d *deadlineProbe) ModelID() string { return "probe" }
func (d *deadlineProbe) Generate(ctx context.Context, _ Request) (*Response, error) {
	d.deadline, _ = ctx.Deadline()
	return &Response{}, nil
}

func TestWithTimeout(t *testing.T) {
	probe := &deadlineProbe{}
	if WithTimeout(probe, 0) != Provider(probe) {
		t.Error("zero timeout should not wrap")
	}

	p := WithTimeout(probe, time.Minute)
	p.Generate(context.Background(), Request{})
	if left := time.Until(probe.deadline); left <= 0 || left > time.Minute {
		t.Errorf("deadline in %s, want within a minute", left)
	}
	if p.ModelID() != "probe" {
		t.Errorf("ModelID() = %q", p.ModelID())
	}
}
