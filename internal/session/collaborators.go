package session

import (
	"time"

	"github.com/abhisek/tablequest/internal/drill"
)

// PointsStore credits points to the player's balance.
type PointsStore interface {
	AddPoints(n int) int
}

// LifetimeStats holds the running total of correct answers across sessions.
type LifetimeStats interface {
	TotalCorrectAnswers() int
	SaveTotalCorrectAnswers(n int)
}

// SessionStats records a finished session's accuracy.
type SessionStats interface {
	RecordSession(accuracy int)
}

// AchievementEvaluator unlocks badges and returns the IDs of new ones.
type AchievementEvaluator interface {
	Evaluate(accuracy int) []string
}

// SummarySink receives the finalized session exactly once.
type SummarySink interface {
	SessionFinished(Summary)
}

// AnswerRecorder is told about every resolved submission or skip.
type AnswerRecorder interface {
	RecordAnswer(Answer)
}

// SummaryFunc adapts a plain function to SummarySink.
type SummaryFunc func(Summary)

func (f SummaryFunc) SessionFinished(s Summary) { f(s) }

// CelebrateFunc is invoked fire-and-forget when a question is answered
// correctly. d is how long the celebration stays on screen.
type CelebrateFunc func(q drill.Question, d time.Duration)

type nopCollaborators struct{}

func (nopCollaborators) AddPoints(int) int           { return 0 }
func (nopCollaborators) TotalCorrectAnswers() int    { return 0 }
func (nopCollaborators) SaveTotalCorrectAnswers(int) {}
func (nopCollaborators) RecordSession(int)           {}
func (nopCollaborators) Evaluate(int) []string       { return nil }
func (nopCollaborators) SessionFinished(Summary)     {}
func (nopCollaborators) RecordAnswer(Answer)         {}
