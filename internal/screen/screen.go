package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tablequest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackInterceptor is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type BackInterceptor interface {
	InterceptsBack() bool
}

// Closer is implemented by screens holding resources that must be
// released when the router drops them.
type Closer interface {
	Close()
}

// RefreshHeaderMsg asks the app to reload the player info shown in the
// header, e.g. after points change.
type RefreshHeaderMsg struct{}

// RefreshHeader is a tea.Cmd emitting RefreshHeaderMsg.
func RefreshHeader() tea.Msg { return RefreshHeaderMsg{} }
