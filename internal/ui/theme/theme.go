package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is the set of swappable colors. Fields are hex strings.
type Palette struct {
	Primary    string
	Secondary  string
	Accent     string
	Background string
}

// Default is the palette used before a player theme is applied.
var Default = Palette{
	Primary:    "#C084FC",
	Secondary:  "#F9A8D4",
	Accent:     "#FDE68A",
	Background: "#1E1B2E",
}

// Color palette. Primary, Secondary, Accent and BgCard follow the
// equipped theme; the rest are fixed.
var (
	Primary   color.Color = lipgloss.Color(Default.Primary)
	Secondary color.Color = lipgloss.Color(Default.Secondary)
	Accent    color.Color = lipgloss.Color(Default.Accent)
	BgCard    color.Color = lipgloss.Color(Default.Background)

	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	Border    = lipgloss.Color("#334155") // Slate
	Highlight = lipgloss.Color("#FACC15") // Gold
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
)

// Components
var (
	Card           lipgloss.Style
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
)

func init() { rebuild() }

// Apply switches the themed colors and rebuilds every style. Empty fields
// keep the default color.
func Apply(p Palette) {
	Primary = pick(p.Primary, Default.Primary)
	Secondary = pick(p.Secondary, Default.Secondary)
	Accent = pick(p.Accent, Default.Accent)
	BgCard = pick(p.Background, Default.Background)
	rebuild()
}

func pick(hex, fallback string) color.Color {
	if hex == "" {
		hex = fallback
	}
	return lipgloss.Color(hex)
}

func rebuild() {
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	ProgressFilled = lipgloss.NewStyle().
		Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
		Background(Border)
}
