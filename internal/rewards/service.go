package rewards

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/store"
)

const tracerName = "github.com/abhisek/tablequest/internal/rewards"

// Wallet is a read-only snapshot of the player's economy state.
type Wallet struct {
	Points int
	Progress
	CurrentTheme string
	OwnedThemes  []string
	OwnedBadges  []string
	OwnedPets    []string
	ActivePet    string
}

// Owns reports whether the wallet holds the item.
func (w Wallet) Owns(kind Kind, id string) bool {
	switch kind {
	case KindTheme:
		return slices.Contains(w.OwnedThemes, id)
	case KindBadge:
		return slices.Contains(w.OwnedBadges, id)
	case KindPet:
		return slices.Contains(w.OwnedPets, id)
	}
	return false
}

// Service manages points, lifetime stats, achievements and the shop. It
// implements the session collaborators; store failures there are logged and
// never surface to the session.
type Service struct {
	mu     sync.Mutex
	vault  *Vault
	events store.EventRepo
	logger *slog.Logger
}

// NewService creates a Service. events may be nil to skip history recording.
func NewService(kv store.KVRepo, events store.EventRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		vault:  NewVault(kv),
		events: events,
		logger: logger.With("component", "rewards"),
	}
}

// Vault exposes the typed key-value accessors.
func (s *Service) Vault() *Vault { return s.vault }

func (s *Service) logErr(op string, err error) {
	if err != nil {
		s.logger.Error("rewards store failure", "op", op, "err", err)
	}
}

// AddPoints credits n points and returns the new balance.
func (s *Service) AddPoints(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()

	cur, err := s.vault.Points(ctx)
	s.logErr("read points", err)
	cur += n
	s.logErr("save points", s.vault.SetPoints(ctx, cur))
	return cur
}

// TotalCorrectAnswers returns the lifetime correct-answer count.
func (s *Service) TotalCorrectAnswers() int {
	n, err := s.vault.TotalCorrect(context.Background())
	s.logErr("read total correct", err)
	return n
}

// SaveTotalCorrectAnswers overwrites the lifetime correct-answer count.
func (s *Service) SaveTotalCorrectAnswers(n int) {
	s.logErr("save total correct", s.vault.SetTotalCorrect(context.Background(), n))
}

// RecordSession counts a finished session and raises the best accuracy.
func (s *Service) RecordSession(accuracy int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()

	n, err := s.vault.Sessions(ctx)
	s.logErr("read sessions", err)
	s.logErr("save sessions", s.vault.SetSessions(ctx, n+1))
	s.logErr("save best accuracy", s.vault.RaiseBestAccuracy(ctx, accuracy))
}

// Evaluate unlocks every badge whose requirement is now met, using the
// session accuracy for accuracy badges, and returns the new badge IDs.
func (s *Service) Evaluate(accuracy int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, span := otel.Tracer(tracerName).Start(context.Background(), "rewards.Evaluate")
	defer span.End()

	p, err := s.progress(ctx)
	if err != nil {
		s.logErr("read progress", err)
		return nil
	}
	owned, err := s.vault.OwnedBadges(ctx)
	if err != nil {
		s.logErr("read owned badges", err)
		return nil
	}

	unlocked := Unlockable(p, owned, &accuracy)
	if len(unlocked) == 0 {
		return nil
	}
	if err := s.vault.AddOwnedBadges(ctx, unlocked...); err != nil {
		s.logErr("save owned badges", err)
		return nil
	}
	span.SetAttributes(attribute.StringSlice("rewards.badges", unlocked))
	s.logger.Info("badges unlocked", "badges", unlocked)
	return unlocked
}

// SessionFinished appends the session to the history log.
func (s *Service) SessionFinished(sum session.Summary) {
	if s.events == nil {
		return
	}
	err := s.events.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:        sum.Session.ID,
		Mode:             string(sum.Session.Mode),
		Tables:           sum.Session.Tables,
		CorrectAnswers:   sum.Session.CorrectAnswers,
		WrongAttempts:    sum.Session.WrongAttempts,
		SkippedQuestions: sum.Session.SkippedQuestions,
		Accuracy:         sum.Accuracy,
		Duration:         sum.Session.Duration(),
		StartedAt:        sum.Session.StartTime,
		NewBadges:        sum.NewBadges,
	})
	s.logErr("append session event", err)
}

// RecordAnswer appends a resolved attempt to the answer log.
func (s *Service) RecordAnswer(a session.Answer) {
	if s.events == nil {
		return
	}
	err := s.events.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:    a.SessionID,
		QuestionID:   a.QuestionID,
		Multiplicand: a.Fact.Multiplicand,
		Multiplier:   a.Fact.Multiplier,
		Given:        a.Given,
		Correct:      a.Correct,
		Skipped:      a.Skipped,
		Attempt:      a.Attempt,
		TimeMs:       a.ResponseTime.Milliseconds(),
	})
	s.logErr("append answer event", err)
}

func (s *Service) progress(ctx context.Context) (Progress, error) {
	var p Progress
	var err error
	if p.TotalCorrect, err = s.vault.TotalCorrect(ctx); err != nil {
		return p, err
	}
	if p.Sessions, err = s.vault.Sessions(ctx); err != nil {
		return p, err
	}
	if p.BestAccuracy, err = s.vault.BestAccuracy(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// Progress returns the lifetime counters badges are checked against.
func (s *Service) Progress(ctx context.Context) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress(ctx)
}

// Reset wipes points, stats and every owned item.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range allKeys {
		if err := s.vault.kv.Delete(ctx, k); err != nil {
			return fmt.Errorf("reset %s: %w", k, err)
		}
	}
	s.logger.Info("rewards reset")
	return nil
}

// Wallet loads the full economy snapshot.
func (s *Service) Wallet(ctx context.Context) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var w Wallet
	var err error
	if w.Points, err = s.vault.Points(ctx); err != nil {
		return w, fmt.Errorf("load points: %w", err)
	}
	if w.Progress, err = s.progress(ctx); err != nil {
		return w, fmt.Errorf("load progress: %w", err)
	}
	if w.CurrentTheme, err = s.vault.CurrentTheme(ctx); err != nil {
		return w, fmt.Errorf("load theme: %w", err)
	}
	if w.OwnedThemes, err = s.vault.OwnedThemes(ctx); err != nil {
		return w, fmt.Errorf("load themes: %w", err)
	}
	if w.OwnedBadges, err = s.vault.OwnedBadges(ctx); err != nil {
		return w, fmt.Errorf("load badges: %w", err)
	}
	if w.OwnedPets, err = s.vault.OwnedPets(ctx); err != nil {
		return w, fmt.Errorf("load pets: %w", err)
	}
	if w.ActivePet, err = s.vault.ActivePet(ctx); err != nil {
		return w, fmt.Errorf("load active pet: %w", err)
	}
	return w, nil
}

// SpendPoints deducts n points if the balance covers it.
func (s *Service) SpendPoints(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spend(ctx, n)
}

func (s *Service) spend(ctx context.Context, n int) error {
	cur, err := s.vault.Points(ctx)
	if err != nil {
		return fmt.Errorf("load points: %w", err)
	}
	if cur < n {
		return ErrInsufficientPoints
	}
	return s.vault.SetPoints(ctx, cur-n)
}

// Buy purchases a theme, purchasable badge or pet.
func (s *Service) Buy(ctx context.Context, kind Kind, id string) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "rewards.Buy", attributeItem(kind, id)...)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	price, ok := Price(kind, id)
	if !ok {
		return &PurchaseError{Kind: kind, ID: id, Err: ErrUnknownItem}
	}

	var owned []string
	switch kind {
	case KindTheme:
		owned, err = s.vault.OwnedThemes(ctx)
	case KindBadge:
		owned, err = s.vault.OwnedBadges(ctx)
	case KindPet:
		owned, err = s.vault.OwnedPets(ctx)
	}
	if err != nil {
		return fmt.Errorf("load owned %s: %w", kind, err)
	}
	if slices.Contains(owned, id) {
		return &PurchaseError{Kind: kind, ID: id, Price: price, Err: ErrAlreadyOwned}
	}

	have, err := s.vault.Points(ctx)
	if err != nil {
		return fmt.Errorf("load points: %w", err)
	}
	if have < price {
		return &PurchaseError{Kind: kind, ID: id, Price: price, Have: have, Err: ErrInsufficientPoints}
	}
	if err := s.vault.SetPoints(ctx, have-price); err != nil {
		return fmt.Errorf("spend points: %w", err)
	}

	switch kind {
	case KindTheme:
		err = s.vault.AddOwnedThemes(ctx, id)
	case KindBadge:
		err = s.vault.AddOwnedBadges(ctx, id)
	case KindPet:
		err = s.vault.AddOwnedPets(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	s.logger.Info("item purchased", "kind", kind, "id", id, "price", price)
	return nil
}

// EquipTheme switches to an owned theme.
func (s *Service) EquipTheme(ctx context.Context, id string) error {
	if _, ok := LookupTheme(id); !ok {
		return fmt.Errorf("equip theme %q: %w", id, ErrUnknownItem)
	}
	owned, err := s.vault.OwnedThemes(ctx)
	if err != nil {
		return fmt.Errorf("load themes: %w", err)
	}
	if !slices.Contains(owned, id) {
		return fmt.Errorf("equip theme %q: %w", id, ErrNotOwned)
	}
	return s.vault.SetCurrentTheme(ctx, id)
}

// SetActivePet makes an owned pet the companion. Selecting the active pet
// again, or passing "", clears it.
func (s *Service) SetActivePet(ctx context.Context, id string) error {
	if id == "" {
		return s.vault.SetActivePet(ctx, "")
	}
	if _, ok := LookupPet(id); !ok {
		return fmt.Errorf("select pet %q: %w", id, ErrUnknownItem)
	}
	owned, err := s.vault.OwnedPets(ctx)
	if err != nil {
		return fmt.Errorf("load pets: %w", err)
	}
	if !slices.Contains(owned, id) {
		return fmt.Errorf("select pet %q: %w", id, ErrNotOwned)
	}
	active, err := s.vault.ActivePet(ctx)
	if err != nil {
		return fmt.Errorf("load active pet: %w", err)
	}
	if active == id {
		id = ""
	}
	return s.vault.SetActivePet(ctx, id)
}

func attributeItem(kind Kind, id string) []trace.SpanStartOption {
	return []trace.SpanStartOption{trace.WithAttributes(
		attribute.String("rewards.kind", string(kind)),
		attribute.String("rewards.item", id),
	)}
}
