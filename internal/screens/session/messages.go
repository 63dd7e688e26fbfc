package session

import (
	"github.com/abhisek/tablequest/internal/drill"
	sess "github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/tips"
)

// taskFiredMsg is sent when the timer armed for a deferred task expires.
type taskFiredMsg struct {
	ID sess.TaskID
}

// tipReadyMsg carries a tip requested for a fact.
type tipReadyMsg struct {
	Fact drill.Fact
	Tip  tips.Tip
	Err  error
}
