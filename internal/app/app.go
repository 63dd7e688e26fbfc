package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/screens/home"
	sessionscreen "github.com/abhisek/tablequest/internal/screens/session"
	"github.com/abhisek/tablequest/internal/screens/welcome"
	"github.com/abhisek/tablequest/internal/selfupdate"
	"github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/store"
	"github.com/abhisek/tablequest/internal/tips"
	"github.com/abhisek/tablequest/internal/ui/layout"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

const updateCheckTimeout = 5 * time.Second

// Options holds dependencies for the TUI.
type Options struct {
	Rewards *rewards.Service
	Tips    *tips.Service
	Events  store.EventRepo
	Logger  *slog.Logger

	// Start, when set, skips the menus and opens a session directly.
	Start *session.Config

	// Version and Checker enable the update note on the home screen.
	Version string
	Checker *selfupdate.Checker
}

type headerLoadedMsg struct {
	Info    layout.HeaderInfo
	Palette theme.Palette
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts    Options
	router  *router.Router
	home    *home.HomeScreen
	header  layout.HeaderInfo
	initCmd tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel starting at the splash screen, or in
// a session when opts.Start is set.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	deps := sessionscreen.Deps{Rewards: opts.Rewards, Tips: opts.Tips, Logger: opts.Logger}
	homeScreen := home.New(deps, opts.Events)

	m := AppModel{opts: opts, home: homeScreen}
	switch {
	case opts.Start != nil:
		m.router = router.New(homeScreen)
		m.initCmd = m.router.Push(sessionscreen.New(*opts.Start, deps))
	default:
		splash := welcome.New(func() screen.Screen { return homeScreen })
		m.router = router.New(splash)
		m.initCmd = splash.Init()
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.loadHeader(), m.checkUpdate())
}

func (m AppModel) loadHeader() tea.Cmd {
	svc := m.opts.Rewards
	if svc == nil {
		return nil
	}
	logger := m.opts.Logger
	return func() tea.Msg {
		w, err := svc.Wallet(context.Background())
		if err != nil {
			logger.Warn("load header", "error", err)
			return nil
		}
		var pet string
		if p, ok := rewards.LookupPet(w.ActivePet); ok {
			pet = p.Emoji
		}
		return headerLoadedMsg{
			Info:    layout.HeaderInfo{Points: w.Points, Pet: pet},
			Palette: theme.Palette(rewards.ThemeByID(w.CurrentTheme).Palette),
		}
	}
}

func (m AppModel) checkUpdate() tea.Cmd {
	checker, version := m.opts.Checker, m.opts.Version
	if checker == nil || version == "" || version == selfupdate.DevVersion {
		return nil
	}
	logger := m.opts.Logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), updateCheckTimeout)
		defer cancel()
		res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			logger.Debug("update check", "error", err)
			return nil
		}
		if !res.UpdateAvailable {
			return nil
		}
		return home.UpdateAvailableMsg{Version: res.LatestVersion}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerLoadedMsg:
		m.header = msg.Info
		theme.Apply(msg.Palette)
		return m, nil

	case screen.RefreshHeaderMsg:
		return m, m.loadHeader()

	case home.UpdateAvailableMsg:
		// The home screen may not be on top yet.
		_, cmd := m.home.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptsBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.TooSmall(m.width, m.height))
		return v
	}

	active := m.router.Active()
	chrome := layout.Chrome{Info: m.header, Hints: m.footerHints(active)}
	if active != nil {
		chrome.Title = active.Title()
	}
	v.SetContent(chrome.Render(m.width, m.height, m.router.View))
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() == 1 {
		hints = []layout.KeyHint{{Key: "Any key", Description: "Continue"}}
	}

	bi, intercepts := active.(screen.BackInterceptor)
	if m.router.Depth() > 1 && (!intercepts || !bi.InterceptsBack()) && !hasKey(hints, "Esc") {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func hasKey(hints []layout.KeyHint, key string) bool {
	for _, h := range hints {
		if h.Key == key {
			return true
		}
	}
	return false
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
