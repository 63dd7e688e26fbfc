// Package setup is the pre-game screen where the player picks tables, the
// game mode and whether skipping is allowed.
package setup

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	sessionscreen "github.com/abhisek/tablequest/internal/screens/session"
	sess "github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/ui/components"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

type keyMap struct {
	Left, Right, Toggle   key.Binding
	All, Random, Clear    key.Binding
	Mode, Skip, Type      key.Binding
	Start, Apply, Dismiss key.Binding
}

var keys = keyMap{
	Left:    key.NewBinding(key.WithKeys("left", "h", "up", "k"), key.WithHelp("←→", "Move")),
	Right:   key.NewBinding(key.WithKeys("right", "l", "down", "j")),
	Toggle:  key.NewBinding(key.WithKeys("space"), key.WithHelp("Space", "Toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("A", "All")),
	Random:  key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Random")),
	Clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("C", "Clear")),
	Mode:    key.NewBinding(key.WithKeys("m", "tab"), key.WithHelp("M", "Mode")),
	Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("S", "Skip rule")),
	Type:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Type tables")),
	Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Start")),
	Apply:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Apply")),
	Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Cancel")),
}

var modes = []drill.Mode{drill.ModePractice, drill.ModeEndless}

// SetupScreen collects a session.Config and starts the game.
type SetupScreen struct {
	deps     sessionscreen.Deps
	rng      *rand.Rand
	selected map[int]bool
	cursor   int
	mode     components.Choice
	skip     bool
	field    components.TextInput
	errMsg   string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.BackInterceptor = (*SetupScreen)(nil)

// New creates a setup screen with skipping enabled and no tables selected.
func New(deps sessionscreen.Deps) *SetupScreen {
	labels := make([]string, len(modes))
	for i, m := range modes {
		labels[i] = m.Title()
	}
	return &SetupScreen{
		deps:     deps,
		rng:      drill.NewRand(),
		selected: make(map[int]bool),
		cursor:   drill.MinTable,
		mode:     components.NewChoice(labels, 0),
		skip:     true,
		field:    components.NewTextInput("e.g. 2,3,7-9", 20, tableRune),
	}
}

func tableRune(r rune) bool {
	return unicode.IsDigit(r) || r == ',' || r == '-' || r == ' '
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Game"
}

// InterceptsBack lets Esc close the tables field instead of the screen.
func (s *SetupScreen) InterceptsBack() bool { return s.field.Focused() }

// Config returns the session settings currently chosen.
func (s *SetupScreen) Config() sess.Config {
	return sess.Config{
		Tables:      s.tables(),
		Mode:        modes[s.mode.Selected],
		SkipEnabled: s.skip,
	}
}

func (s *SetupScreen) tables() []int {
	var out []int
	for t := drill.MinTable; t <= drill.MaxTable; t++ {
		if s.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s *SetupScreen) setTables(tables []int) {
	clear(s.selected)
	for _, t := range tables {
		s.selected[t] = true
	}
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.field.Focused() {
		return layout.HintsFrom(keys.Apply, keys.Dismiss)
	}
	start := keys.Start
	start.SetEnabled(len(s.tables()) > 0)
	return layout.HintsFrom(keys.Left, keys.Toggle, keys.All, keys.Random, keys.Mode, keys.Skip, keys.Type, start)
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.field.Focused() {
			var cmd tea.Cmd
			s.field, cmd = s.field.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.field.Focused() {
		return s.updateField(kmsg)
	}

	s.errMsg = ""
	switch {
	case key.Matches(kmsg, keys.Left):
		if s.cursor > drill.MinTable {
			s.cursor--
		}
	case key.Matches(kmsg, keys.Right):
		if s.cursor < drill.MaxTable {
			s.cursor++
		}
	case key.Matches(kmsg, keys.Toggle):
		s.selected[s.cursor] = !s.selected[s.cursor]
	case key.Matches(kmsg, keys.All):
		for t := drill.MinTable; t <= drill.MaxTable; t++ {
			s.selected[t] = true
		}
	case key.Matches(kmsg, keys.Random):
		s.setTables(drill.RandomTables(s.rng))
	case key.Matches(kmsg, keys.Clear):
		clear(s.selected)
	case key.Matches(kmsg, keys.Mode):
		s.mode = s.mode.Next()
	case key.Matches(kmsg, keys.Skip):
		s.skip = !s.skip
	case key.Matches(kmsg, keys.Type):
		s.field.SetValue(joinInts(s.tables()))
		return s, s.field.Focus()
	case key.Matches(kmsg, keys.Start):
		return s, s.start()
	}
	return s, nil
}

func (s *SetupScreen) updateField(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Dismiss):
		s.field.Blur()
		return s, nil
	case key.Matches(msg, keys.Apply):
		tables, err := drill.ParseTables(s.field.Value())
		if err != nil {
			s.field.SetError(err.Error())
			return s, nil
		}
		s.setTables(tables)
		s.field.SetError("")
		s.field.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.field, cmd = s.field.Update(msg)
	return s, cmd
}

func (s *SetupScreen) start() tea.Cmd {
	cfg := s.Config()
	if len(cfg.Tables) == 0 {
		s.errMsg = "Pick at least one table"
		return nil
	}
	next := sessionscreen.New(cfg, s.deps)
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, theme.Title.Width(cw).Render("Choose your tables"))

	cells := make([]string, 0, drill.MaxTable-drill.MinTable+1)
	for t := drill.MinTable; t <= drill.MaxTable; t++ {
		cells = append(cells, s.renderCell(t))
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, grid))

	selected := "none"
	if t := s.tables(); len(t) > 0 {
		selected = joinInts(t)
	}
	sections = append(sections, theme.Subtitle.Width(cw).Render("Selected: "+selected))

	if s.field.Focused() {
		sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, s.field.View()))
	}

	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, "Mode  "+s.mode.View()))
	sections = append(sections, theme.Hint.Width(cw).Align(lipgloss.Center).Render(modeBlurb(modes[s.mode.Selected])))

	skip := "off"
	if s.skip {
		skip = "on"
	}
	sections = append(sections, theme.Body.Width(cw).Align(lipgloss.Center).
		Render(fmt.Sprintf("Skip after %d misses: %s", sess.RetryCeiling, skip)))

	if s.errMsg != "" {
		sections = append(sections, theme.Incorrect.Width(cw).Align(lipgloss.Center).Render(s.errMsg))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (s *SetupScreen) renderCell(t int) string {
	label := fmt.Sprintf("%d", t)
	style := lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Border(lipgloss.RoundedBorder())

	switch {
	case s.selected[t]:
		style = style.Foreground(theme.BgDark).Background(theme.Primary).Bold(true).BorderForeground(theme.Primary)
	default:
		style = style.Foreground(theme.Text).BorderForeground(theme.Border)
	}
	if t == s.cursor && !s.field.Focused() {
		style = style.BorderForeground(theme.Highlight)
	}
	return style.Render(label)
}

func modeBlurb(m drill.Mode) string {
	if m == drill.ModeEndless {
		return fmt.Sprintf("Keep going as long as you like. End any time after %d wins.", sess.EndlessWinThreshold)
	}
	return "Answer every fact once. Finishes when all tables are done."
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}
