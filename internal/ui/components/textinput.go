package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a per-rune filter and an error line.
type TextInput struct {
	Model   textinput.Model
	Allowed func(r rune) bool // nil accepts everything
	errMsg  string
}

// NewTextInput creates a new styled text input. It starts blurred.
func NewTextInput(placeholder string, limit int, allowed func(rune) bool) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	return TextInput{Model: ti, Allowed: allowed}
}

// Focus focuses the input and clears any previous error.
func (t *TextInput) Focus() tea.Cmd {
	t.errMsg = ""
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool { return t.Model.Focused() }

// Update handles messages, dropping printable keys the filter rejects.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && t.Allowed != nil {
		for _, r := range kmsg.Text {
			if !t.Allowed(r) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input with the last error beneath it.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.errMsg != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.errMsg)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) { t.Model.SetValue(s) }

// SetError shows msg under the input; "" clears it.
func (t *TextInput) SetError(msg string) { t.errMsg = msg }
