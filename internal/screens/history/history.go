package history

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/screens/summary"
	"github.com/abhisek/tablequest/internal/store"
	"github.com/abhisek/tablequest/internal/ui/components"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

// Limit is how many sessions the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionEvent
	Err      error
}

var (
	detailsKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Details"))
	backKey    = key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back"))
)

// HistoryScreen lists past sessions, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionEvent
	selected  int
	offset    int // first visible row
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := repo.QuerySessionEvents(context.Background(), store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return layout.HintsFrom(detailsKey, components.MenuKeys.Up, backKey)
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, backKey):
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, components.MenuKeys.Up):
			if s.selected > 0 {
				s.selected--
			}
		case key.Matches(msg, components.MenuKeys.Down):
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case key.Matches(msg, detailsKey):
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch {
	case s.errMsg != "":
		return "\n\n" + components.Centered(lipgloss.NewStyle().Foreground(theme.Error), width, "Error: "+s.errMsg)
	case !s.loaded:
		return "\n\n" + components.Centered(dim, width, "Loading history...")
	case len(s.sessions) == 0:
		return "\n\n" + components.Centered(dim.Italic(true), width, "No sessions yet. Start a game!")
	}

	s.scrollTo(height - 1)
	var rows []string
	used := 0
	for i := s.offset; i < len(s.sessions) && (used == 0 || used+s.rowHeight(i) <= height-1); i++ {
		used += s.rowHeight(i)
		rows = append(rows, s.row(i))
		if s.expanded[i] {
			rows = append(rows, dim.Render(strings.Join(details(s.sessions[i]), "\n")))
		}
	}
	return "\n" + components.Centered(lipgloss.NewStyle(), width, strings.Join(rows, "\n"))
}

func (s *HistoryScreen) row(i int) string {
	ev := s.sessions[i]
	marker, style := "  ", lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		marker, style = "▸ ", style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(fmt.Sprintf("%s%s  %-16s  %5s  %3d correct  %3d%%",
		marker,
		ev.StartedAt.Local().Format("Jan 02 15:04"),
		drill.Mode(ev.Mode).Title(),
		summary.FormatDuration(ev.Duration),
		ev.CorrectAnswers,
		ev.Accuracy))
}

func (s *HistoryScreen) rowHeight(i int) int {
	if s.expanded[i] {
		return 1 + len(details(s.sessions[i]))
	}
	return 1
}

// scrollTo moves offset so the selected row fits in lines.
func (s *HistoryScreen) scrollTo(lines int) {
	if s.selected < s.offset {
		s.offset = s.selected
	}
	for s.offset < s.selected {
		used := 0
		for i := s.offset; i <= s.selected; i++ {
			used += s.rowHeight(i)
		}
		if used <= lines {
			break
		}
		s.offset++
	}
}

func details(ev store.SessionEvent) []string {
	tables := make([]string, len(ev.Tables))
	for i, t := range ev.Tables {
		tables[i] = fmt.Sprint(t)
	}
	lines := []string{
		fmt.Sprintf("    Tables %s", strings.Join(tables, ", ")),
		fmt.Sprintf("    %d wrong, %d skipped", ev.WrongAttempts, ev.SkippedQuestions),
	}
	for _, id := range ev.NewBadges {
		name := id
		if b, ok := rewards.LookupBadge(id); ok {
			name = b.Icon + " " + b.Name
		}
		lines = append(lines, "    New badge: "+name)
	}
	return lines
}
