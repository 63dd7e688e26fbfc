package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/screens/welcome"
	"github.com/abhisek/tablequest/internal/ui/components"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

func renderTitle(cw int, compact bool) string {
	w := cw
	if compact {
		w = 0
	}
	return components.Centered(lipgloss.NewStyle(), cw, welcome.RenderBanner(w))
}

// statItem is one figure of the lifetime stats bar.
type statItem struct {
	icon, value, label string
	color              lipgloss.Style
}

func renderStatsBar(points, correct, sessions, cw int, compact bool) string {
	items := []statItem{
		{"★", layout.FormatCount(points), "POINTS", lipgloss.NewStyle().Foreground(theme.Highlight)},
		{"✓", layout.FormatCount(correct), "CORRECT", lipgloss.NewStyle().Foreground(theme.Success)},
		{"▶", layout.FormatCount(sessions), "PLAYED", lipgloss.NewStyle().Foreground(theme.Secondary)},
	}

	parts := make([]string, len(items))
	sep := "  "
	for i, it := range items {
		text := it.icon + " " + it.value + " " + it.label
		if compact {
			text = it.icon + it.value
		}
		parts[i] = it.color.Bold(true).Render(text)
	}
	if compact {
		sep = " "
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, sep))
}

// renderCompanion shows the active pet, or the mascot when none is set.
func renderCompanion(pet rewards.Pet, cw int) string {
	return components.Centered(lipgloss.NewStyle(), cw,
		components.Companion(pet.Emoji, pet.Name, components.MoodIdle))
}

func renderNote(text string, color lipgloss.Style, cw int) string {
	return components.Centered(color, cw, text)
}
