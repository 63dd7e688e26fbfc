package home

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screens/history"
	sessionscreen "github.com/abhisek/tablequest/internal/screens/session"
	"github.com/abhisek/tablequest/internal/screens/setup"
	"github.com/abhisek/tablequest/internal/store"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestHomeScreen_StartPushesSetup(t *testing.T) {
	h := New(sessionscreen.Deps{}, nil)

	_, cmd := h.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok, "expected PushScreenMsg")
	if _, ok := push.Screen.(*setup.SetupScreen); !ok {
		t.Errorf("pushed %T, want *setup.SetupScreen", push.Screen)
	}
}

func TestHomeScreen_HistoryDisabledWithoutStore(t *testing.T) {
	h := New(sessionscreen.Deps{}, nil)

	h.Update(specialKey(tea.KeyDown))
	if got := h.menu.SelectedLabel(); got != "EXIT GAME" {
		t.Errorf("selected = %q, want %q", got, "EXIT GAME")
	}
}

func TestHomeScreen_History(t *testing.T) {
	st := openStore(t)
	h := New(sessionscreen.Deps{}, st.EventRepo())

	h.Update(specialKey(tea.KeyDown))
	_, cmd := h.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok, "expected PushScreenMsg")
	if _, ok := push.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("pushed %T, want *history.HistoryScreen", push.Screen)
	}
}

func TestHomeScreen_LoadsWallet(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	svc := rewards.NewService(st.KVRepo(), st.EventRepo(), nil)
	require.NoError(t, svc.Vault().SetPoints(ctx, 1500))
	require.NoError(t, svc.Buy(ctx, rewards.KindPet, "cat"))
	require.NoError(t, svc.SetActivePet(ctx, "cat"))

	h := New(sessionscreen.Deps{Rewards: svc}, st.EventRepo())
	cmd := h.Init()
	require.NotNil(t, cmd)
	h.Update(cmd())

	if h.points != 1420 {
		t.Errorf("points = %d, want %d", h.points, 1420)
	}
	view := h.View(120, 40)
	for _, want := range []string{"1,420", "🐱", "Whiskers the Wise"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHomeScreen_Notes(t *testing.T) {
	h := New(sessionscreen.Deps{}, nil)

	if !strings.Contains(h.View(120, 40), "LLM API key") {
		t.Error("expected the tips note without an LLM")
	}

	h.Update(UpdateAvailableMsg{Version: "v1.2.0"})
	if !strings.Contains(h.View(120, 40), "New version v1.2.0") {
		t.Error("expected the update note")
	}
}

func TestHomeScreen_Title(t *testing.T) {
	h := New(sessionscreen.Deps{}, nil)
	if h.Title() != "Home" {
		t.Errorf("Title = %q, want %q", h.Title(), "Home")
	}
}
