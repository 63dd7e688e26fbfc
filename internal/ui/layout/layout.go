// Package layout draws the frame shared by every screen: a header bar
// with the player's points, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abhisek/tablequest/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Screens drop side panels below this width.
	CompactWidth = 100
)

type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool { return width < CompactWidth }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// TooSmall fills the terminal with a centered resize notice.
func TooSmall(width, height int) string {
	notice := fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(notice))
}

// HeaderInfo is the player state shown on the right of the header.
type HeaderInfo struct {
	Points int
	Pet    string // emoji of the active pet, "" for none
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// Chrome is everything drawn around the active screen.
type Chrome struct {
	Title string
	Info  HeaderInfo
	Hints []KeyHint
}

// Render draws the chrome at the given terminal size. body receives the
// space left between header and footer.
func (c Chrome) Render(width, height int, body func(width, height int) string) string {
	head := c.header(width)
	foot := c.footer(width)
	h := max(height-lipgloss.Height(head)-lipgloss.Height(foot), 0)
	content := lipgloss.NewStyle().Width(width).Height(h).Render(body(width, h))
	return lipgloss.JoinVertical(lipgloss.Left, head, content, foot)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

func (c Chrome) header(width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  TableQuest")
	title := lipgloss.NewStyle().Foreground(theme.Text).Render(c.Title)
	status := lipgloss.NewStyle().Foreground(theme.Highlight).Render("★ " + FormatCount(c.Info.Points) + " pts")
	if c.Info.Pet != "" {
		status = c.Info.Pet + "  " + status
	}

	// The title is centered on the bar, not on the gap between brand and status.
	inner := max(width-4, 0)
	bw, tw, sw := lipgloss.Width(brand), lipgloss.Width(title), lipgloss.Width(status)
	before := max((inner-tw)/2-bw, 1)
	after := max(inner-bw-before-tw-sw, 1)

	return bar(width).Render(brand + strings.Repeat(" ", before) + title + strings.Repeat(" ", after) + status)
}

func (c Chrome) footer(width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range c.Hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteByte(' ')
		b.WriteString(descStyle.Render(h.Description))
	}
	return bar(width).Render(b.String())
}
