package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/ui/theme"
)

// Choice is a horizontal single-choice selector.
type Choice struct {
	Options  []string
	Selected int
}

// NewChoice creates a selector with the given option selected.
func NewChoice(options []string, selected int) Choice {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Choice{Options: options, Selected: selected}
}

// Next selects the following option, wrapping around.
func (c Choice) Next() Choice {
	if len(c.Options) > 0 {
		c.Selected = (c.Selected + 1) % len(c.Options)
	}
	return c
}

// View renders the options, highlighting the selected one.
func (c Choice) View() string {
	parts := make([]string, 0, len(c.Options))
	for i, opt := range c.Options {
		if i == c.Selected {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Primary).
				Bold(true).
				Padding(0, 1).
				Render(opt))
		} else {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Padding(0, 1).
				Render(opt))
		}
	}
	return strings.Join(parts, " ")
}
