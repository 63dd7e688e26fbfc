package session

import (
	"context"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/screens/summary"
	sess "github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/tips"
	"github.com/abhisek/tablequest/internal/ui/layout"
)

// tipAfterAttempts is the wrong-attempt count that triggers a tip.
const tipAfterAttempts = 2

const tipTimeout = 15 * time.Second

// Deps are the services a play session talks to. Every field may be nil.
type Deps struct {
	Rewards *rewards.Service
	Tips    *tips.Service
	Logger  *slog.Logger
}

// SessionScreen implements screen.Screen for an active drill session.
type SessionScreen struct {
	cfg    sess.Config
	deps   Deps
	logger *slog.Logger
	ctrl   *sess.Controller

	// schedule arms a timer for a deferred task.
	schedule func(sess.Task) tea.Cmd

	pet        rewards.Pet
	questionID string
	wrong      []int
	streak     int

	tip    *tips.Tip
	tipFor drill.Fact

	quitConfirm bool
	finished    bool
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.BackInterceptor = (*SessionScreen)(nil)

// New creates a session screen for cfg. The session starts in Init.
func New(cfg sess.Config, deps Deps) *SessionScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := &SessionScreen{
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger.With("component", "gameplay"),
		schedule: tickTask,
	}

	cd := sess.Deps{
		Logger:    deps.Logger,
		Celebrate: func(drill.Question, time.Duration) { s.streak++ },
	}
	if deps.Rewards != nil {
		cd.Points = deps.Rewards
		cd.Lifetime = deps.Rewards
		cd.Stats = deps.Rewards
		cd.Achievements = deps.Rewards
		cd.Answers = deps.Rewards
		cd.Sink = deps.Rewards
	}
	s.ctrl = sess.New(cfg, cd)

	if deps.Rewards != nil {
		if w, err := deps.Rewards.Wallet(context.Background()); err != nil {
			s.logger.Warn("load wallet", "err", err)
		} else if p, ok := rewards.LookupPet(w.ActivePet); ok {
			s.pet = p
		}
	}
	return s
}

func tickTask(t sess.Task) tea.Cmd {
	id := t.ID
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return taskFiredMsg{ID: id}
	})
}

func (s *SessionScreen) Init() tea.Cmd {
	s.ctrl.Start()
	return s.sync()
}

func (s *SessionScreen) Title() string {
	return s.ctrl.Config().Mode.Title()
}

// InterceptsBack keeps the app from popping the screen mid-session.
func (s *SessionScreen) InterceptsBack() bool { return !s.finished }

// Close stops the controller's pending celebration and retry timers.
func (s *SessionScreen) Close() { s.ctrl.Close() }

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return layout.HintsFrom(keys.Confirm, keys.Cancel)
	}
	skip, end := keys.Skip, keys.End
	skip.SetEnabled(s.ctrl.CanSkip())
	end.SetEnabled(s.ctrl.CanEndSession())
	return layout.HintsFrom(keys.Submit, keys.Erase, skip, end, keys.Quit)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case taskFiredMsg:
		s.ctrl.Fire(msg.ID)
		return s, s.sync()

	case tipReadyMsg:
		if msg.Err != nil {
			s.logger.Debug("tip fell back to builtin", "fact", msg.Fact.String(), "err", msg.Err)
		}
		if msg.Fact == s.tipFor {
			tip := msg.Tip
			s.tip = &tip
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}

	if s.quitConfirm {
		switch {
		case key.Matches(msg, keys.Confirm):
			s.ctrl.Close()
			s.finished = true
			s.logger.Info("session abandoned", "session_id", s.ctrl.Session().ID)
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, keys.Cancel):
			s.quitConfirm = false
		}
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		s.quitConfirm = true
		return s, nil
	case key.Matches(msg, keys.Submit):
		return s, s.submit()
	case key.Matches(msg, keys.Erase):
		s.ctrl.Backspace()
		return s, nil
	case key.Matches(msg, keys.Clear):
		s.ctrl.ClearInput()
		return s, nil
	case key.Matches(msg, keys.Skip):
		return s, s.skip()
	case key.Matches(msg, keys.End):
		if s.ctrl.EndSession() {
			return s, s.sync()
		}
		return s, nil
	}

	for _, r := range msg.Text {
		s.ctrl.PressDigit(r)
	}
	return s, nil
}

func (s *SessionScreen) submit() tea.Cmd {
	q, ok := s.ctrl.Current()
	if !ok {
		return nil
	}
	out := s.ctrl.Submit()
	if !out.Evaluated {
		return nil
	}

	var cmds []tea.Cmd
	if out.Correct {
		s.tip = nil
		s.tipFor = drill.Fact{}
		cmds = append(cmds, screen.RefreshHeader)
	} else {
		s.streak = 0
		s.wrong = append(s.wrong, out.Given)
		if out.Attempts == tipAfterAttempts {
			cmds = append(cmds, s.requestTip(q.Fact()))
		}
	}
	cmds = append(cmds, s.sync())
	return tea.Batch(cmds...)
}

func (s *SessionScreen) skip() tea.Cmd {
	q, ok := s.ctrl.Current()
	if !ok || !s.ctrl.Skip() {
		return nil
	}
	s.streak = 0
	wrong := s.wrong
	s.wrong = nil
	var tipCmd tea.Cmd
	if s.tip == nil || s.tip.Fact != q.Fact() {
		tipCmd = s.requestTipWith(q.Fact(), wrong)
	}
	return tea.Batch(tipCmd, s.sync())
}

func (s *SessionScreen) requestTip(f drill.Fact) tea.Cmd {
	return s.requestTipWith(f, append([]int(nil), s.wrong...))
}

func (s *SessionScreen) requestTipWith(f drill.Fact, wrong []int) tea.Cmd {
	s.tipFor = f
	svc := s.deps.Tips
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), tipTimeout)
		defer cancel()
		tip, err := svc.Generate(ctx, tips.Input{Fact: f, WrongAnswers: wrong})
		return tipReadyMsg{Fact: f, Tip: tip, Err: err}
	}
}

// sync arms timers for newly scheduled tasks, tracks question changes and
// hands over to the summary once the session is finalized.
func (s *SessionScreen) sync() tea.Cmd {
	if q, ok := s.ctrl.Current(); ok && q.ID != s.questionID {
		s.questionID = q.ID
		s.wrong = nil
	}

	if s.ctrl.Done() {
		if s.finished {
			return nil
		}
		s.finished = true
		return s.showSummary()
	}

	var cmds []tea.Cmd
	for _, t := range s.ctrl.Tasks() {
		cmds = append(cmds, s.schedule(t))
	}
	return tea.Batch(cmds...)
}

func (s *SessionScreen) showSummary() tea.Cmd {
	sum := s.ctrl.Summary()
	if sum == nil {
		return nil
	}

	balance := -1
	if s.deps.Rewards != nil {
		if w, err := s.deps.Rewards.Wallet(context.Background()); err != nil {
			s.logger.Warn("load wallet", "err", err)
		} else {
			balance = w.Points
		}
	}

	cfg, deps := s.cfg, s.deps
	again := func() screen.Screen { return New(cfg, deps) }
	next := summary.New(*sum, balance, again)

	return tea.Batch(
		screen.RefreshHeader,
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}
