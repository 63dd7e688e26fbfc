package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"go.opentelemetry.io/otel/attribute"
)

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// insert stamps a row with the next sequence number and the current time.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	ctx, span := startSpan(ctx, "store.Append", attribute.String("db.table", table))
	defer span.End()

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return spanErr(span, err)
	}

	query, args := builder().
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seqNum, time.Now().UTC()}, vals...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return spanErr(span, fmt.Errorf("insert %s: %w", table, err))
	}
	return nil
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, tableSessions,
		[]string{"session_id", "mode", "tables", "correct_answers", "wrong_attempts",
			"skipped_questions", "accuracy", "duration_ms", "started_at", "new_badges"},
		[]any{data.SessionID, data.Mode, joinInts(data.Tables), data.CorrectAnswers, data.WrongAttempts,
			data.SkippedQuestions, data.Accuracy, data.Duration.Milliseconds(), data.StartedAt.UTC(),
			strings.Join(data.NewBadges, ",")},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	ctx, span := startSpan(ctx, "store.QuerySessionEvents")
	defer span.End()

	sel := builder().
		Select("id", "sequence", "timestamp", "session_id", "mode", "tables", "correct_answers",
			"wrong_attempts", "skipped_questions", "accuracy", "duration_ms", "started_at", "new_badges").
		From(entsql.Table(tableSessions))
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("query session events: %w", err))
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var (
			e              SessionEvent
			tables, badges string
			durationMs     int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.Mode, &tables,
			&e.CorrectAnswers, &e.WrongAttempts, &e.SkippedQuestions, &e.Accuracy, &durationMs,
			&e.StartedAt, &badges); err != nil {
			return nil, spanErr(span, fmt.Errorf("scan session event: %w", err))
		}
		e.Tables = splitInts(tables)
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if badges != "" {
			e.NewBadges = strings.Split(badges, ",")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, tableAnswers,
		[]string{"session_id", "question_id", "multiplicand", "multiplier", "given",
			"correct", "skipped", "attempt", "time_ms"},
		[]any{data.SessionID, data.QuestionID, data.Multiplicand, data.Multiplier, data.Given,
			data.Correct, data.Skipped, data.Attempt, data.TimeMs},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) FactStats(ctx context.Context) ([]FactStat, error) {
	ctx, span := startSpan(ctx, "store.FactStats")
	defer span.End()

	query, args := builder().
		Select("multiplicand", "multiplier", "correct", "skipped").
		From(entsql.Table(tableAnswers)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("query answer events: %w", err))
	}
	defer rows.Close()

	type factKey struct{ a, b int }
	byFact := make(map[factKey]*FactStat)
	for rows.Next() {
		var (
			a, b             int
			correct, skipped bool
		)
		if err := rows.Scan(&a, &b, &correct, &skipped); err != nil {
			return nil, spanErr(span, fmt.Errorf("scan answer event: %w", err))
		}
		fs, ok := byFact[factKey{a, b}]
		if !ok {
			fs = &FactStat{Multiplicand: a, Multiplier: b}
			byFact[factKey{a, b}] = fs
		}
		if skipped {
			fs.Skips++
			continue
		}
		fs.Attempts++
		if correct {
			fs.Correct++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, err)
	}

	out := make([]FactStat, 0, len(byFact))
	for _, fs := range byFact {
		out = append(out, *fs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Multiplicand != out[j].Multiplicand {
			return out[i].Multiplicand < out[j].Multiplicand
		}
		return out[i].Multiplier < out[j].Multiplier
	})
	return out, nil
}

// WeakestFacts orders facts by accuracy ascending, then by skips and attempts
// descending, and returns at most n of them.
func WeakestFacts(stats []FactStat, n int) []FactStat {
	out := append([]FactStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Accuracy(), out[j].Accuracy()
		if ai != aj {
			return ai < aj
		}
		if out[i].Skips != out[j].Skips {
			return out[i].Skips > out[j].Skips
		}
		return out[i].Attempts > out[j].Attempts
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, tableLLM,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs,
			data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

var llmColumns = []string{"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body"}

func scanLLMEvent(sc interface{ Scan(...any) error }) (LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := sc.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := builder().Select(llmColumns...).From(entsql.Table(tableLLM))
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	query, args := builder().
		Select(llmColumns...).
		From(entsql.Table(tableLLM)).
		Where(entsql.EQ("id", id)).
		Query()

	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model")
}

func (r *eventRepo) llmUsage(ctx context.Context, groupBy string) ([]LLMUsage, error) {
	query, args := builder().
		Select(
			groupBy,
			entsql.Count("*"),
			entsql.Sum("input_tokens"),
			entsql.Sum("output_tokens"),
			entsql.Avg("latency_ms"),
		).
		From(entsql.Table(tableLLM)).
		GroupBy(groupBy).
		OrderBy(groupBy).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", groupBy, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u      LLMUsage
			key    string
			avgLat float64
		)
		if err := rows.Scan(&key, &u.Calls, &u.InputTokens, &u.OutputTokens, &avgLat); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		if groupBy == "model" {
			u.Model = key
		} else {
			u.Purpose = key
		}
		u.AvgLatencyMs = int64(avgLat)
		out = append(out, u)
	}
	return out, rows.Err()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, p := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
