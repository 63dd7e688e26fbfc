package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/ui/theme"
)

// Mood selects which companion art to display.
type Mood int

const (
	MoodIdle     Mood = iota // Waiting for an answer
	MoodCheering             // Correct answer
	MoodWorried              // Wrong answer
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ 2×3 │
└─────┘`

const mascotCheering = `┌─────┐
│ ★ ★ │
│  ▿  │
│ 2×3 │
└─╥═╥─┘
  ╚═╝`

const mascotWorried = `┌─────┐
│ ◉ ◉ │ ?
│  ︵  │
│ 2×3 │
└─────┘`

var petLines = map[Mood]string{
	MoodIdle:     "is watching",
	MoodCheering: "cheers!",
	MoodWorried:  "says try again",
}

// Companion renders the player's pet, or the default mascot when emoji is "".
func Companion(emoji, name string, mood Mood) string {
	fg := theme.Primary
	switch mood {
	case MoodCheering:
		fg = theme.Highlight
	case MoodWorried:
		fg = theme.Accent
	}
	style := lipgloss.NewStyle().Foreground(fg)

	if emoji == "" {
		art := mascotIdle
		switch mood {
		case MoodCheering:
			art = mascotCheering
		case MoodWorried:
			art = mascotWorried
		}
		return style.Render(art)
	}

	line := emoji + "  " + lipgloss.NewStyle().Bold(true).Render(name)
	return line + "\n" + style.Italic(true).Render(petLines[mood])
}
