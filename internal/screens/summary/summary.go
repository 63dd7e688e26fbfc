package summary

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

var keys = struct {
	Home, Again key.Binding
}{
	Home:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("Enter", "Home")),
	Again: key.NewBinding(key.WithKeys("p", "P"), key.WithHelp("P", "Play again")),
}

// SummaryScreen displays the result of a finished session.
type SummaryScreen struct {
	summary session.Summary
	balance int
	again   func() screen.Screen
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.BackInterceptor = (*SummaryScreen)(nil)

// New creates a summary screen. balance is the point balance after the
// session, or negative when unknown. again builds a fresh session with the
// same settings and may be nil.
func New(sum session.Summary, balance int, again func() screen.Screen) *SummaryScreen {
	return &SummaryScreen{summary: sum, balance: balance, again: again}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

// InterceptsBack routes Esc to the Home binding.
func (s *SummaryScreen) InterceptsBack() bool { return true }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	again := keys.Again
	again.SetEnabled(s.again != nil)
	return layout.HintsFrom(keys.Home, again)
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(kmsg, keys.Home):
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case key.Matches(kmsg, keys.Again) && s.again != nil:
		next := s.again()
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		session.PerformanceMessage(sum.Accuracy)))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s complete", sum.Session.Mode.Title())))
	b.WriteString("\n\n")

	accColor := theme.Success
	if sum.Accuracy < 70 {
		accColor = theme.Accent
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(accColor).Bold(true),
		fmt.Sprintf("%d%% accuracy", sum.Accuracy)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Correct: %d    Wrong: %d    Skipped: %d",
		sum.Session.CorrectAnswers, sum.Session.WrongAttempts, sum.Session.SkippedQuestions)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), stats))
	b.WriteString("\n")

	timing := fmt.Sprintf("Time: %s    Avg per answer: %s",
		FormatDuration(sum.Session.Duration()), FormatSeconds(sum.Session.AverageTime()))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), timing))
	b.WriteString("\n\n")

	earned := sum.Session.CorrectAnswers * session.PointsPerCorrect
	points := fmt.Sprintf("★ +%d points", earned)
	if s.balance >= 0 {
		points += fmt.Sprintf("  (balance %s)", layout.FormatCount(s.balance))
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true), points))
	b.WriteString("\n")

	if len(sum.NewBadges) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 40)))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "New badges"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, id := range sum.NewBadges {
			line := id
			if badge, ok := rewards.LookupBadge(id); ok {
				line = fmt.Sprintf("%s %s: %s", badge.Icon, badge.Name, badge.Description)
			}
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent), line))
			b.WriteString("\n")
		}
	}

	return lipgloss.PlaceVertical(height, lipgloss.Center, b.String())
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// FormatSeconds renders d in seconds with one decimal.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
