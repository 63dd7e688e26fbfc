package session

import (
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tablequest/internal/drill"
)

// Deps wires the controller to its collaborators. Nil fields are no-ops.
type Deps struct {
	Points       PointsStore
	Lifetime     LifetimeStats
	Stats        SessionStats
	Achievements AchievementEvaluator
	Sink         SummarySink
	Answers      AnswerRecorder
	Celebrate    CelebrateFunc

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Rand drives pool shuffling and endless selection. Nil means time-seeded.
	Rand *rand.Rand

	// Now defaults to time.Now.
	Now func() time.Time

	// NewID defaults to uuid.NewString.
	NewID func() string
}

// Outcome reports what a Submit did.
type Outcome struct {
	// Evaluated is false when the submit was ignored.
	Evaluated bool
	Correct   bool
	Given     int
	Attempts  int
}

// Controller drives one session: it serves questions, evaluates answers,
// applies the retry/skip rule and finalizes the session exactly once.
//
// The controller is not safe for concurrent use. Delays are expressed as
// Tasks (see Tasks and Fire) which the host arms on its own event loop.
type Controller struct {
	cfg      Config
	deps     Deps
	logger   *slog.Logger
	now      func() time.Time
	selector *drill.Selector
	deferred *Deferred

	pool    drill.Pool
	current int
	lastID  string
	state   State
	session Session

	input         string
	attempts      int
	endlessWins   int
	questionStart time.Time
	pendingTask   TaskID

	started   bool
	finalized bool
	closed    bool
	summary   *Summary
}

// New creates a controller for cfg. Call Start to build the pool.
func New(cfg Config, deps Deps) *Controller {
	var nop nopCollaborators
	if deps.Points == nil {
		deps.Points = nop
	}
	if deps.Lifetime == nil {
		deps.Lifetime = nop
	}
	if deps.Stats == nil {
		deps.Stats = nop
	}
	if deps.Achievements == nil {
		deps.Achievements = nop
	}
	if deps.Sink == nil {
		deps.Sink = nop
	}
	if deps.Answers == nil {
		deps.Answers = nop
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Rand == nil {
		deps.Rand = drill.NewRand()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if cfg.Mode == "" {
		cfg.Mode = drill.ModePractice
	}
	cfg.Tables = drill.UniqueTables(cfg.Tables)

	return &Controller{
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger.With("component", "session"),
		now:      deps.Now,
		selector: drill.NewSelector(deps.Rand),
		deferred: NewDeferred(),
		current:  -1,
	}
}

// Start creates the session record, builds the pool and serves the first
// question. An empty pool completes the session immediately.
func (c *Controller) Start() {
	if c.started || c.closed {
		return
	}
	c.started = true
	c.pool = drill.Generate(c.cfg.Tables, c.cfg.Mode, c.deps.Rand)
	c.session = Session{
		ID:        c.deps.NewID(),
		StartTime: c.now(),
		Mode:      c.cfg.Mode,
		Tables:    append([]int(nil), c.cfg.Tables...),
	}
	c.logger.Info("session started",
		"session_id", c.session.ID,
		"mode", c.cfg.Mode,
		"tables", c.cfg.Tables,
		"pool_size", len(c.pool),
	)

	if c.cfg.Mode == drill.ModePractice && drill.AllComplete(c.Progress()) {
		c.finalize()
		return
	}
	c.advance()
}

// Config returns the session configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Current returns the question being asked, if any.
func (c *Controller) Current() (drill.Question, bool) {
	if c.current < 0 || c.current >= len(c.pool) {
		return drill.Question{}, false
	}
	return c.pool[c.current], true
}

// Pool returns a copy of the question pool.
func (c *Controller) Pool() drill.Pool {
	return append(drill.Pool(nil), c.pool...)
}

// Progress returns per-table completion derived from the pool.
func (c *Controller) Progress() []drill.TableProgress {
	return drill.ComputeProgress(c.pool, c.cfg.Tables)
}

// Session returns a copy of the session record.
func (c *Controller) Session() Session {
	s := c.session
	s.Tables = append([]int(nil), c.session.Tables...)
	return s
}

// Summary returns the finalized summary, or nil while the session runs.
func (c *Controller) Summary() *Summary { return c.summary }

// Attempts is the number of wrong answers on the current question.
func (c *Controller) Attempts() int { return c.attempts }

// EndlessWins is the number of correct answers in an endless session.
func (c *Controller) EndlessWins() int { return c.endlessWins }

// Input returns the digits typed so far.
func (c *Controller) Input() string { return c.input }

// Done reports whether the session has been finalized.
func (c *Controller) Done() bool { return c.finalized }

// CanSkip reports whether Skip would currently be accepted.
func (c *Controller) CanSkip() bool {
	if c.closed || c.finalized || !c.cfg.SkipEnabled || c.current < 0 {
		return false
	}
	if c.attempts < RetryCeiling {
		return false
	}
	return c.state == StateAwaitingInput || c.state == StateRetrying
}

// CanEndSession reports whether an endless session may be ended now.
func (c *Controller) CanEndSession() bool {
	return !c.closed && !c.finalized &&
		c.cfg.Mode == drill.ModeEndless &&
		c.endlessWins >= EndlessWinThreshold
}

// PressDigit appends a digit to the answer buffer. Ignored outside
// AwaitingInput, for non-digits, or once the buffer is full.
func (c *Controller) PressDigit(r rune) bool {
	if !c.acceptingInput() || r < '0' || r > '9' || len(c.input) >= MaxInputDigits {
		return false
	}
	c.input += string(r)
	return true
}

// Backspace removes the last typed digit.
func (c *Controller) Backspace() bool {
	if !c.acceptingInput() || c.input == "" {
		return false
	}
	c.input = c.input[:len(c.input)-1]
	return true
}

// ClearInput empties the answer buffer.
func (c *Controller) ClearInput() {
	if c.acceptingInput() {
		c.input = ""
	}
}

func (c *Controller) acceptingInput() bool {
	return !c.closed && c.state == StateAwaitingInput && c.current >= 0
}

// Submit evaluates the buffered answer. It is ignored unless the controller
// is awaiting input, and an empty buffer is a silent no-op.
func (c *Controller) Submit() Outcome {
	if !c.acceptingInput() || c.input == "" {
		return Outcome{}
	}
	c.state = StateEvaluating

	given, _ := strconv.Atoi(c.input)
	attempt := c.attempts + 1
	q := &c.pool[c.current]
	correct := given == q.Answer
	elapsed := c.now().Sub(c.questionStart)

	if correct {
		q.Completed = true
		c.session.CorrectAnswers++
		if c.cfg.Mode == drill.ModeEndless {
			c.endlessWins++
		}
		c.deps.Points.AddPoints(PointsPerCorrect)
		c.deps.Lifetime.SaveTotalCorrectAnswers(c.deps.Lifetime.TotalCorrectAnswers() + 1)
	} else {
		c.session.WrongAttempts++
		c.attempts++
	}

	c.deps.Answers.RecordAnswer(Answer{
		SessionID:    c.session.ID,
		QuestionID:   q.ID,
		Fact:         q.Fact(),
		Given:        given,
		Correct:      correct,
		Attempt:      attempt,
		ResponseTime: elapsed,
	})
	out := Outcome{Evaluated: true, Correct: correct, Given: given, Attempts: c.attempts}

	if !correct {
		c.state = StateRetrying
		c.pendingTask = c.deferred.Schedule(FailureDelay, c.reopenInput)
		return out
	}

	if c.deps.Celebrate != nil {
		c.deps.Celebrate(*q, CelebrationDelay)
	}
	c.state = StateCelebrating
	if c.checkComplete() {
		return out
	}
	c.pendingTask = c.deferred.Schedule(CelebrationDelay, c.advance)
	return out
}

// Skip gives up on the current question. Only allowed when skipping is
// enabled, the retry ceiling has been reached and no evaluation or
// celebration is in flight.
func (c *Controller) Skip() bool {
	if !c.CanSkip() {
		return false
	}
	c.deferred.Cancel(c.pendingTask)
	c.pendingTask = 0

	q := &c.pool[c.current]
	q.Skipped = true
	c.session.SkippedQuestions++
	c.deps.Answers.RecordAnswer(Answer{
		SessionID:    c.session.ID,
		QuestionID:   q.ID,
		Fact:         q.Fact(),
		Skipped:      true,
		Attempt:      c.attempts,
		ResponseTime: c.now().Sub(c.questionStart),
	})
	c.logger.Debug("question skipped", "session_id", c.session.ID, "question", q.ID)

	if c.checkComplete() {
		return true
	}
	c.advance()
	return true
}

// EndSession finalizes an endless session once the win threshold is met.
func (c *Controller) EndSession() bool {
	if !c.CanEndSession() {
		return false
	}
	c.finalize()
	return true
}

// Tasks returns deferred tasks scheduled since the last call. The host must
// arm a timer for each and call Fire with its ID when it expires.
func (c *Controller) Tasks() []Task {
	return c.deferred.Take()
}

// Fire runs a deferred task. Cancelled, stale or post-Close IDs are ignored.
func (c *Controller) Fire(id TaskID) bool {
	if c.closed {
		return false
	}
	return c.deferred.Fire(id)
}

// Close tears the controller down, cancelling all pending deferred work.
func (c *Controller) Close() {
	c.closed = true
	c.deferred.CancelAll()
	c.pendingTask = 0
}

func (c *Controller) reopenInput() {
	c.pendingTask = 0
	c.input = ""
	c.state = StateAwaitingInput
}

// advance serves the next question or finalizes when nothing is left.
func (c *Controller) advance() {
	c.pendingTask = 0
	if c.current >= 0 {
		c.lastID = c.pool[c.current].ID
	}

	sel := c.selector.Next(c.pool, c.cfg.Mode, c.lastID)
	if sel.Complete {
		c.current = -1
		c.finalize()
		return
	}
	if sel.Reset {
		c.logger.Debug("endless pool exhausted, flags reset", "session_id", c.session.ID)
	}

	c.current = sel.Index
	c.attempts = 0
	c.input = ""
	c.questionStart = c.now()
	c.state = StateAwaitingInput
}

// checkComplete finalizes a practice session whose tables are all done.
func (c *Controller) checkComplete() bool {
	if c.cfg.Mode != drill.ModePractice {
		return false
	}
	if !drill.AllComplete(c.Progress()) {
		return false
	}
	c.finalize()
	return true
}

func (c *Controller) finalize() {
	if c.finalized {
		return
	}
	c.finalized = true
	c.deferred.CancelAll()
	c.pendingTask = 0
	c.state = StateCompleted
	c.input = ""

	c.session.EndTime = c.now()
	accuracy := c.session.Accuracy()
	c.deps.Stats.RecordSession(accuracy)
	badges := c.deps.Achievements.Evaluate(accuracy)

	summary := Summary{
		Session:   c.Session(),
		Accuracy:  accuracy,
		NewBadges: badges,
	}
	c.summary = &summary
	c.logger.Info("session finished",
		"session_id", c.session.ID,
		"correct", c.session.CorrectAnswers,
		"wrong", c.session.WrongAttempts,
		"skipped", c.session.SkippedQuestions,
		"accuracy", accuracy,
		"new_badges", len(badges),
	)
	c.deps.Sink.SessionFinished(summary)
}
