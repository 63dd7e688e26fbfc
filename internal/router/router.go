// Package router keeps the stack of screens the TUI navigates through.
// Screens ask for navigation by returning one of the *Msg commands below;
// the app feeds every message to Router.Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tablequest/internal/screen"
)

type PushScreenMsg struct {
	Screen screen.Screen
}

type PopScreenMsg struct{}

// PopToRootMsg returns to the bottom screen and re-runs its Init so it
// can refresh.
type PopToRootMsg struct{}

// ReplaceScreenMsg swaps the top screen without changing the depth.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens. The bottom screen is never removed.
// Screens leaving the stack are closed when they implement screen.Closer.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	r.truncate(len(r.stack) - 1)
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	top := len(r.stack) - 1
	closeScreen(r.stack[top])
	r.stack[top] = s
	return s.Init()
}

func (r *Router) PopToRoot() tea.Cmd {
	r.truncate(1)
	return r.stack[0].Init()
}

// truncate shrinks the stack to n screens, never below one.
func (r *Router) truncate(n int) {
	n = max(n, 1)
	for i := len(r.stack) - 1; i >= n; i-- {
		closeScreen(r.stack[i])
		r.stack[i] = nil
	}
	if n < len(r.stack) {
		r.stack = r.stack[:n]
	}
}

func closeScreen(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

// Active returns the top screen, or nil for an empty router.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}

	if len(r.stack) == 0 {
		return nil
	}
	top := len(r.stack) - 1
	next, cmd := r.stack[top].Update(msg)
	r.stack[top] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
