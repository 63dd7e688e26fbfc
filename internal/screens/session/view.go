package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/drill"
	sess "github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/ui/components"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

const sidebarWidth = 30

func (s *SessionScreen) View(width, height int) string {
	if s.quitConfirm {
		return renderQuitConfirm(width, height)
	}

	q, ok := s.ctrl.Current()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Wrapping up..."))
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	card := s.renderQuestionCard(q)
	if layout.IsCompactWidth(width) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderCompanion()))
	} else {
		side := lipgloss.JoinVertical(lipgloss.Left, s.renderCompanion(), "", s.renderProgress())
		row := lipgloss.JoinHorizontal(lipgloss.Top, card, "    ", side)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
	}

	if s.tip != nil {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderTip(width)))
	}

	return b.String()
}

func (s *SessionScreen) renderInfoLine(width int) string {
	cfg := s.ctrl.Config()
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s  ·  Tables %s", cfg.Mode.Title(), joinTables(cfg.Tables)))

	var counter string
	if cfg.Mode == drill.ModeEndless {
		counter = fmt.Sprintf("Wins %d", s.ctrl.EndlessWins())
	} else {
		done, total := drill.Totals(s.ctrl.Progress())
		counter = fmt.Sprintf("Q %d/%d", done, total)
	}
	if s.streak > 1 {
		counter += fmt.Sprintf("  🔥 %d", s.streak)
	}
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *SessionScreen) renderQuestionCard(q drill.Question) string {
	var b strings.Builder

	input := s.ctrl.Input()
	if input == "" {
		input = "_"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%s = ", q.Fact())))
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true).
		Render(input))
	b.WriteString("\n\n")

	switch s.ctrl.State() {
	case sess.StateCelebrating:
		b.WriteString(theme.Correct.Render(fmt.Sprintf("✓ Correct! +%d", sess.PointsPerCorrect)))
	case sess.StateRetrying:
		b.WriteString(theme.Incorrect.Render("✗ Not quite, try again"))
	default:
		switch {
		case s.ctrl.CanSkip():
			b.WriteString(theme.Hint.Render("Stuck? Press S to skip this one."))
		case s.ctrl.Attempts() > 0:
			b.WriteString(theme.Hint.Render(fmt.Sprintf("Attempt %d", s.ctrl.Attempts()+1)))
		default:
			b.WriteString(theme.Hint.Render("Type your answer and press Enter"))
		}
	}

	if s.ctrl.CanEndSession() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("Press E to end the session"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 4).
		Align(lipgloss.Center).
		Width(36).
		Render(b.String())
}

func (s *SessionScreen) renderCompanion() string {
	mood := components.MoodIdle
	switch s.ctrl.State() {
	case sess.StateCelebrating:
		mood = components.MoodCheering
	case sess.StateRetrying:
		mood = components.MoodWorried
	}
	return components.Companion(s.pet.Emoji, s.pet.Name, mood)
}

func (s *SessionScreen) renderProgress() string {
	var lines []string
	if s.ctrl.Config().Mode == drill.ModeEndless {
		wins := min(s.ctrl.EndlessWins(), sess.EndlessWinThreshold)
		lines = append(lines, components.NewProgressBar("Goal", wins, sess.EndlessWinThreshold, sidebarWidth).View())
	} else {
		for _, tp := range s.ctrl.Progress() {
			label := fmt.Sprintf("%2d×", tp.TableID)
			lines = append(lines, components.NewProgressBar(label, tp.Completed, tp.Total, sidebarWidth).View())
		}
	}
	return strings.Join(lines, "\n")
}

func (s *SessionScreen) renderTip(width int) string {
	tip := s.tip
	head := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("💡 %s = %d", tip.Fact, tip.Fact.Answer()))

	body := tip.Text
	if tip.Trick != "" {
		body += "\n" + lipgloss.NewStyle().Italic(true).Foreground(theme.Secondary).Render(tip.Trick)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 2).
		Width(min(width-8, 70)).
		Render(head + "\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(body))
}

func renderQuitConfirm(width, height int) string {
	msg := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Leave this session?") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("The session ends without a summary.") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.Primary).Render("Y: leave    N: keep playing")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Error).
		Padding(1, 4).
		Align(lipgloss.Center).
		Render(msg)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func joinTables(tables []int) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, ", ")
}
