package layout

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
)

func TestChromeRender(t *testing.T) {
	c := Chrome{
		Title: "Practice",
		Info:  HeaderInfo{Points: 12345, Pet: "🐱"},
		Hints: []KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Back"}},
	}

	var gotW, gotH int
	out := c.Render(100, 30, func(w, h int) string {
		gotW, gotH = w, h
		return "body"
	})

	if gotW != 100 {
		t.Errorf("body width = %d, want 100", gotW)
	}
	// Header and footer are one line of text plus a border each.
	if gotH != 30-6 {
		t.Errorf("body height = %d, want %d", gotH, 30-6)
	}
	if h := lipgloss.Height(out); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
	for _, want := range []string{"TableQuest", "Practice", "12,345 pts", "🐱", "Enter", "Submit", "body"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestChromeRender_TinyHeight(t *testing.T) {
	var gotH int
	Chrome{}.Render(80, 3, func(w, h int) string { gotH = h; return "" })
	if gotH != 0 {
		t.Errorf("body height = %d, want 0", gotH)
	}
}

func TestTooSmall(t *testing.T) {
	if !IsTooSmall(79, 40) || !IsTooSmall(120, 23) || IsTooSmall(80, 24) {
		t.Error("IsTooSmall boundaries are wrong")
	}
	out := TooSmall(60, 20)
	if !strings.Contains(out, "80 x 24") || !strings.Contains(out, "60 x 20") {
		t.Errorf("TooSmall = %q", out)
	}
}

func TestHintsFrom(t *testing.T) {
	skip := key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Skip"))
	skip.SetEnabled(false)
	hints := HintsFrom(
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Submit")),
		skip,
	)
	if len(hints) != 1 || hints[0] != (KeyHint{Key: "Enter", Description: "Submit"}) {
		t.Errorf("HintsFrom = %+v", hints)
	}
}
