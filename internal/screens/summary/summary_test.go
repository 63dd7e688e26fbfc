package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/session"
)

func testSummary() session.Summary {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return session.Summary{
		Session: session.Session{
			ID:               "s1",
			CorrectAnswers:   12,
			WrongAttempts:    3,
			SkippedQuestions: 1,
			StartTime:        start,
			EndTime:          start.Add(90 * time.Second),
			Mode:             drill.ModePractice,
			Tables:           []int{7},
		},
		Accuracy:  80,
		NewBadges: []string{"novice", "mystery"},
	}
}

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (stubScreen) Title() string                             { return "stub" }

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), -1, nil)
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), 1234, nil)
	view := s.View(100, 30)

	for _, want := range []string{
		"Great job!",
		"80% accuracy",
		"Correct: 12",
		"Time: 1:30",
		"Avg per answer: 7.5s",
		"+12 points",
		"balance 1,234",
		"Novice Arithmancer",
		"mystery",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_UnknownBalance(t *testing.T) {
	view := New(testSummary(), -1, nil).View(100, 30)
	if strings.Contains(view, "balance") {
		t.Error("balance should be hidden when unknown")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary(), -1, nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected Enter to return home")
	}
}

func TestSummaryScreen_PlayAgain(t *testing.T) {
	s := New(testSummary(), -1, nil)
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'p', Text: "p"}); cmd != nil {
		t.Error("play again should be ignored without a factory")
	}
	if len(s.KeyHints()) != 1 {
		t.Errorf("hints = %d, want 1", len(s.KeyHints()))
	}

	s = New(testSummary(), -1, func() screen.Screen { return stubScreen{} })
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'p', Text: "p"})
	if cmd == nil {
		t.Fatal("expected command on P")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected a ReplaceScreenMsg")
	}
	if msg.Screen.Title() != "stub" {
		t.Errorf("replacement title = %q, want %q", msg.Screen.Title(), "stub")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{61500 * time.Millisecond, "1:02"},
		{12 * time.Minute, "12:00"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
