package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// apply adds the filters to sel and orders newest first.
func (o QueryOpts) apply(sel *entsql.Selector) *entsql.Selector {
	var preds []*entsql.Predicate
	if o.After > 0 {
		preds = append(preds, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		preds = append(preds, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", o.From.UTC()))
	}
	if !o.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", o.To.UTC()))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	sel = sel.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		sel = sel.Limit(o.Limit)
	}
	return sel
}

// SessionEventData captures one finished play session.
type SessionEventData struct {
	SessionID        string
	Mode             string
	Tables           []int
	CorrectAnswers   int
	WrongAttempts    int
	SkippedQuestions int
	Accuracy         int
	Duration         time.Duration
	StartedAt        time.Time
	NewBadges        []string
}

// SessionEvent is a stored session record.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AnswerEventData captures one resolved submission or skip.
type AnswerEventData struct {
	SessionID    string
	QuestionID   string
	Multiplicand int
	Multiplier   int
	Given        int
	Correct      bool
	Skipped      bool
	Attempt      int
	TimeMs       int64
}

// FactStat aggregates every recorded answer for one multiplication fact.
type FactStat struct {
	Multiplicand int
	Multiplier   int
	Attempts     int
	Correct      int
	Skips        int
}

// Accuracy returns Correct/Attempts in 0.0-1.0, 0 with no attempts.
func (f FactStat) Accuracy() float64 {
	if f.Attempts == 0 {
		return 0
	}
	return float64(f.Correct) / float64(f.Attempts)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by purpose or by model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// KVRepo stores small string values under string keys.
type KVRepo interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set upserts the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// All returns every entry.
	All(ctx context.Context) (map[string]string, error)
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a finished session.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns sessions, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error)

	// AppendAnswerEvent records a resolved question attempt.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// FactStats aggregates all answer events per fact.
	FactStats(ctx context.Context) ([]FactStat, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
