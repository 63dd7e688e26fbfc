package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/ui/theme"
)

const bannerArt = `▀█▀ ▄▀█ █▄▄ █   █▀▀ █▀█ █ █ █▀▀ █▀ ▀█▀
 █  █▀█ █▄█ █▄▄ ██▄ ▀▀█ █▄█ ██▄ ▄█  █ `

const bannerCompact = "T · A · B · L · E · Q · U · E · S · T"

// bannerMinWidth is the narrowest width that fits bannerArt.
const bannerMinWidth = 40

// RenderBanner returns the TABLEQUEST banner styled in the highlight color.
// Uses a compact fallback for widths narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
