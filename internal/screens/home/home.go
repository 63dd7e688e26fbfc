package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/screens/history"
	sessionscreen "github.com/abhisek/tablequest/internal/screens/session"
	"github.com/abhisek/tablequest/internal/screens/setup"
	"github.com/abhisek/tablequest/internal/store"
	"github.com/abhisek/tablequest/internal/ui/components"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

// UpdateAvailableMsg tells the home screen a newer release exists.
type UpdateAvailableMsg struct {
	Version string
}

type walletLoadedMsg struct {
	Wallet rewards.Wallet
	Err    error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps sessionscreen.Deps
	menu components.Menu

	points        int
	correct       int
	sessions      int
	pet           rewards.Pet
	latestVersion string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. events may be nil, which disables history.
func New(deps sessionscreen.Deps, events store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START GAME", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(deps)}
			}
		}},
		{Label: "HISTORY", Disabled: events == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(events)}
			}
		}},
		{Label: "EXIT GAME", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

// Init reloads the wallet; it runs again whenever the player returns home.
func (h *HomeScreen) Init() tea.Cmd {
	svc := h.deps.Rewards
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		w, err := svc.Wallet(context.Background())
		return walletLoadedMsg{Wallet: w, Err: err}
	}
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return layout.HintsFrom(components.MenuKeys.Up, components.MenuKeys.Select)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case walletLoadedMsg:
		if msg.Err != nil {
			if h.deps.Logger != nil {
				h.deps.Logger.Warn("load wallet", "error", msg.Err)
			}
			return h, nil
		}
		h.points = msg.Wallet.Points
		h.correct = msg.Wallet.TotalCorrect
		h.sessions = msg.Wallet.Sessions
		h.pet, _ = rewards.LookupPet(msg.Wallet.ActivePet)
		return h, nil

	case UpdateAvailableMsg:
		h.latestVersion = msg.Version
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes the header and footer bars (3 lines each) and the
	// cabinet border.
	compact := height+8 < 30 || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderCompanion(h.pet, cw))
	}
	sections = append(sections,
		renderStatsBar(h.points, h.correct, h.sessions, cw, compact),
		h.menu.Render(cw, compact),
	)
	if !compact && !h.deps.Tips.Enabled() {
		sections = append(sections, renderNote("Set an LLM API key for AI memory tips",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true), cw))
	}
	if h.latestVersion != "" {
		sections = append(sections, renderNote("New version "+h.latestVersion+" available, run tablequest update",
			lipgloss.NewStyle().Foreground(theme.Accent), cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
