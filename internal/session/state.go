package session

import (
	"time"

	"github.com/abhisek/tablequest/internal/drill"
)

const (
	// CelebrationDelay is how long a correct answer is celebrated before the
	// next question is served.
	CelebrationDelay = 2 * time.Second

	// FailureDelay is how long wrong-answer feedback stays up before input
	// reopens.
	FailureDelay = 1 * time.Second

	// RetryCeiling is the number of wrong attempts after which the question
	// may be skipped.
	RetryCeiling = 3

	// EndlessWinThreshold is the number of correct answers needed before an
	// endless session can be ended voluntarily.
	EndlessWinThreshold = 20

	// MaxInputDigits caps the answer buffer.
	MaxInputDigits = 4

	// PointsPerCorrect is awarded for every correct answer.
	PointsPerCorrect = 1
)

// State is the controller's position in the answer cycle.
type State int

const (
	StateAwaitingInput State = iota // Waiting for digits / submit
	StateEvaluating                 // Checking the submitted answer
	StateCelebrating                // Showing success before advancing
	StateRetrying                   // Showing failure before reopening input
	StateCompleted                  // Session finalized
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateEvaluating:
		return "evaluating"
	case StateCelebrating:
		return "celebrating"
	case StateRetrying:
		return "retrying"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Config is the player's choice for a new session.
type Config struct {
	// Tables are the selected multiplication tables (2..12).
	Tables []int

	// Mode selects practice or endless play.
	Mode drill.Mode

	// SkipEnabled allows skipping after RetryCeiling wrong attempts.
	SkipEnabled bool
}

// Session is the running record of one play-through.
type Session struct {
	ID               string
	CorrectAnswers   int
	WrongAttempts    int
	SkippedQuestions int
	StartTime        time.Time
	EndTime          time.Time // zero until finalized
	Mode             drill.Mode
	Tables           []int
}

// Accuracy is the rounded percentage of correct submissions, 0 with none.
func (s Session) Accuracy() int {
	return Accuracy(s.CorrectAnswers, s.WrongAttempts)
}

// Duration is the elapsed play time; zero until the session ends.
func (s Session) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// AverageTime is the mean time per correct answer.
func (s Session) AverageTime() time.Duration {
	if s.CorrectAnswers == 0 {
		return 0
	}
	return s.Duration() / time.Duration(s.CorrectAnswers)
}

// Accuracy rounds correct/(correct+wrong) to a whole percentage.
func Accuracy(correct, wrong int) int {
	total := correct + wrong
	if total == 0 {
		return 0
	}
	return (correct*200 + total) / (total * 2)
}

// Summary is handed to the summary sink once the session is finalized.
type Summary struct {
	Session   Session
	Accuracy  int
	NewBadges []string
}

// Answer describes one resolved submission or skip.
type Answer struct {
	SessionID    string
	QuestionID   string
	Fact         drill.Fact
	Given        int
	Correct      bool
	Skipped      bool
	Attempt      int
	ResponseTime time.Duration
}

// PerformanceMessage is the headline shown for a final accuracy.
func PerformanceMessage(accuracy int) string {
	switch {
	case accuracy >= 90:
		return "Outstanding!"
	case accuracy >= 80:
		return "Great job!"
	case accuracy >= 70:
		return "Good work!"
	case accuracy >= 60:
		return "Keep practicing!"
	default:
		return "Don't give up!"
	}
}
