package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Each test gets its own named in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tq.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.KVRepo().Set(ctx, "points", "42"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.KVRepo().Get(ctx, "points")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestKVRepo(t *testing.T) {
	s := openTestStore(t)
	kv := s.KVRepo()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "theme", "pastel"))
	require.NoError(t, kv.Set(ctx, "theme", "ocean"))
	require.NoError(t, kv.Set(ctx, "points", "10"))

	v, ok, err := kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ocean", v)

	all, err := kv.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "ocean", "points": "10"}, all)

	require.NoError(t, kv.Delete(ctx, "theme"))
	require.NoError(t, kv.Delete(ctx, "theme"))
	_, ok, err = kv.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := repo.AppendSessionEvent(ctx, SessionEventData{
			SessionID:        fmt.Sprintf("s-%d", i),
			Mode:             "practice",
			Tables:           []int{2, 7},
			CorrectAnswers:   20 + i,
			WrongAttempts:    i,
			SkippedQuestions: 1,
			Accuracy:         90,
			Duration:         95 * time.Second,
			StartedAt:        started,
			NewBadges:        []string{"first-steps", "novice"},
		})
		require.NoError(t, err)
	}

	events, err := repo.QuerySessionEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)

	latest := events[0]
	assert.Equal(t, "s-2", latest.SessionID)
	assert.Equal(t, []int{2, 7}, latest.Tables)
	assert.Equal(t, 22, latest.CorrectAnswers)
	assert.Equal(t, 95*time.Second, latest.Duration)
	assert.Equal(t, []string{"first-steps", "novice"}, latest.NewBadges)
	assert.True(t, latest.StartedAt.Equal(started))
	assert.Greater(t, latest.Sequence, events[1].Sequence)

	older, err := repo.QuerySessionEvents(ctx, QueryOpts{Before: events[1].Sequence})
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, "s-0", older[0].SessionID)
}

func TestFactStatsAndWeakest(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s", QuestionID: "7-8", Multiplicand: 7, Multiplier: 8, Given: 54, Attempt: 1},
		{SessionID: "s", QuestionID: "7-8", Multiplicand: 7, Multiplier: 8, Given: 56, Correct: true, Attempt: 2},
		{SessionID: "s", QuestionID: "2-3", Multiplicand: 2, Multiplier: 3, Given: 6, Correct: true, Attempt: 1},
		{SessionID: "s", QuestionID: "6-9", Multiplicand: 6, Multiplier: 9, Given: 52, Attempt: 1},
		{SessionID: "s", QuestionID: "6-9", Multiplicand: 6, Multiplier: 9, Skipped: true, Attempt: 3},
	}
	for _, a := range answers {
		require.NoError(t, repo.AppendAnswerEvent(ctx, a))
	}

	stats, err := repo.FactStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, FactStat{Multiplicand: 2, Multiplier: 3, Attempts: 1, Correct: 1}, stats[0])
	assert.Equal(t, FactStat{Multiplicand: 6, Multiplier: 9, Attempts: 1, Correct: 0, Skips: 1}, stats[1])
	assert.Equal(t, FactStat{Multiplicand: 7, Multiplier: 8, Attempts: 2, Correct: 1}, stats[2])

	weak := WeakestFacts(stats, 2)
	require.Len(t, weak, 2)
	assert.Equal(t, 6, weak[0].Multiplicand)
	assert.Equal(t, 7, weak[1].Multiplicand)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock-model", Purpose: "tip",
		InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true,
		RequestBody: "[user]\n7 x 8", ResponseBody: `{"tip":"5,6,7,8"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock-model", Purpose: "tip",
		InputTokens: 50, OutputTokens: 10, LatencyMs: 100, ErrorMessage: "boom",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.False(t, events[0].Success)

	got, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"tip":"5,6,7,8"}`, got.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	usage, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "tip", usage[0].Purpose)
	assert.Equal(t, 2, usage[0].Calls)
	assert.Equal(t, 150, usage[0].InputTokens)
	assert.Equal(t, int64(200), usage[0].AvgLatencyMs)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.KVRepo().Set(ctx, "points", "5"))
	require.NoError(t, s.EventRepo().AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s", Multiplicand: 2, Multiplier: 2}))

	require.NoError(t, s.Reset(ctx))

	all, err := s.KVRepo().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	stats, err := s.EventRepo().FactStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)

	// The answer event above took sequence 1; numbering continues after Reset.
	require.NoError(t, s.EventRepo().AppendSessionEvent(ctx, SessionEventData{SessionID: "after", Mode: "practice"}))
	sessions, err := s.EventRepo().QuerySessionEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(2), sessions[0].Sequence)
}
