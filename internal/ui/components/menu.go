package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/ui/theme"
)

type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Disabled items are drawn dimmed and
// skipped by the cursor.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = max(m.step(1), 0)
	return m
}

// MenuKeys are the bindings a Menu responds to.
var MenuKeys = struct {
	Up, Down, Select key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Navigate")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Select")),
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	press, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(press, MenuKeys.Up):
		m.Selected = m.step(-1)
	case key.Matches(press, MenuKeys.Down):
		m.Selected = m.step(1)
	case key.Matches(press, MenuKeys.Select):
		if item, ok := m.current(); ok && item.Action != nil && !item.Disabled {
			return m, item.Action()
		}
	}
	return m, nil
}

// step returns the next enabled index in direction dir, or the current one.
func (m Menu) step(dir int) int {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

func (m Menu) current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

func (m Menu) SelectedLabel() string {
	item, _ := m.current()
	return item.Label
}

// ButtonWidth is the width of one bordered menu button.
const ButtonWidth = 22

// Render draws the menu centered in width. Items are bordered buttons, or
// single highlighted lines when compact.
func (m Menu) Render(width int, compact bool) string {
	rows := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		rows = append(rows, menuRow(item, i == m.Selected, compact))
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

func menuRow(item MenuItem, selected, compact bool) string {
	fg := theme.Text
	if item.Disabled {
		fg = theme.TextDim
		selected = false
	}

	if compact {
		if selected {
			return lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Highlight).
				Bold(true).
				Render(" ▸ " + item.Label + " ")
		}
		return lipgloss.NewStyle().Foreground(fg).Render("   " + item.Label)
	}

	button := lipgloss.NewStyle().
		Width(ButtonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return button.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Highlight).
			BorderForeground(theme.Highlight).
			Render("▸ " + item.Label)
	}
	return button.Foreground(fg).BorderForeground(theme.Border).Render(item.Label)
}
