// Package welcome is the splash screen shown at startup.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/ui/components"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

// Animation timeline. The mascot starts cheering at cheerAt, the banner
// appears at bannerAt and the clock stops at settledAt.
const (
	frame     = 100 * time.Millisecond
	cheerAt   = 500 * time.Millisecond
	bannerAt  = 1500 * time.Millisecond
	settledAt = 4500 * time.Millisecond
)

const Tagline = "Master your times tables!"

var sparkles = []string{"★", "✦", "×"}

type tickMsg time.Time

// WelcomeScreen animates until a key is pressed, then replaces itself
// with the screen built by next.
type WelcomeScreen struct {
	next    func() screen.Screen
	elapsed time.Duration
	frames  int
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.done {
			return w, nil
		}
		w.elapsed = min(w.elapsed+frame, settledAt)
		w.frames++
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.leave()
	}
	return w, nil
}

// leave builds the next screen once; later calls return nil.
func (w *WelcomeScreen) leave() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	next := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (w *WelcomeScreen) View(width, height int) string {
	mascot := components.Companion("", "", components.MoodIdle)
	if w.elapsed >= cheerAt {
		mascot = sparkle(components.Companion("", "", components.MoodCheering), sparkles[w.frames%len(sparkles)])
	}

	parts := []string{mascot}
	if w.elapsed >= bannerAt {
		parts = append(parts,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(Tagline),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

// sparkle frames every other line of art with the glyph s in alternating
// colors.
func sparkle(art, s string) string {
	a := lipgloss.NewStyle().Foreground(theme.Accent).Render(s)
	b := lipgloss.NewStyle().Foreground(theme.Secondary).Render(s)

	lines := strings.Split(art, "\n")
	for i, l := range lines {
		switch i % 3 {
		case 0:
			lines[i] = a + "  " + l + "  " + b
		case 1:
			lines[i] = "   " + l + "   "
		case 2:
			lines[i] = b + "  " + l + "  " + a
		}
	}
	return strings.Join(lines, "\n")
}
