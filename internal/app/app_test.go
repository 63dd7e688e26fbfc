package app

import (
	"context"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/router"
	"github.com/abhisek/tablequest/internal/screen"
	"github.com/abhisek/tablequest/internal/screens/home"
	sessionscreen "github.com/abhisek/tablequest/internal/screens/session"
	"github.com/abhisek/tablequest/internal/screens/welcome"
	"github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/store"
	"github.com/abhisek/tablequest/internal/ui/theme"
)

// interceptor records whether it saw Esc.
type interceptor struct {
	intercept bool
	gotEsc    bool
}

func (s *interceptor) Init() tea.Cmd { return nil }
func (s *interceptor) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "esc" {
		s.gotEsc = true
	}
	return s, nil
}
func (s *interceptor) View(int, int) string { return "" }
func (s *interceptor) Title() string        { return "Stub" }
func (s *interceptor) InterceptsBack() bool { return s.intercept }

func esc() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEscape} }

func TestApp_StartsWithSplash(t *testing.T) {
	m := newAppModel(Options{})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("active = %T, want *welcome.WelcomeScreen", m.router.Active())
	}
}

func TestApp_StartJumpsIntoSession(t *testing.T) {
	m := newAppModel(Options{Start: &session.Config{Tables: []int{3}}})

	require.Equal(t, 2, m.router.Depth())
	if _, ok := m.router.Active().(*sessionscreen.SessionScreen); !ok {
		t.Errorf("active = %T, want *session.SessionScreen", m.router.Active())
	}
}

func TestApp_EscPopsUnlessIntercepted(t *testing.T) {
	m := newAppModel(Options{})
	stub := &interceptor{}
	m.router.Push(stub)

	_, cmd := m.Update(esc())
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
	assert.False(t, stub.gotEsc)

	stub.intercept = true
	_, cmd = m.Update(esc())
	assert.Nil(t, cmd)
	assert.True(t, stub.gotEsc, "intercepting screen should receive Esc")
}

func TestApp_FooterHints(t *testing.T) {
	m := newAppModel(Options{})
	stub := &interceptor{}
	m.router.Push(stub)

	hints := m.footerHints(stub)
	assert.True(t, hasKey(hints, "Esc"))

	stub.intercept = true
	hints = m.footerHints(stub)
	assert.False(t, hasKey(hints, "Esc"))
	assert.True(t, hasKey(hints, "Ctrl+C"))
}

func TestApp_HeaderFollowsWallet(t *testing.T) {
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	t.Cleanup(func() { theme.Apply(theme.Default) })

	ctx := context.Background()
	svc := rewards.NewService(st.KVRepo(), st.EventRepo(), nil)
	require.NoError(t, svc.Vault().SetPoints(ctx, 5000))
	require.NoError(t, svc.Buy(ctx, rewards.KindTheme, "ocean"))
	require.NoError(t, svc.EquipTheme(ctx, "ocean"))

	m := newAppModel(Options{Rewards: svc})
	_, cmd := m.Update(screen.RefreshHeaderMsg{})
	require.NotNil(t, cmd)

	updated, _ := m.Update(cmd())
	m = updated.(AppModel)

	ocean := rewards.ThemeByID("ocean")
	assert.Equal(t, 5000-ocean.Price, m.header.Points)
	assert.Equal(t, lipgloss.Color(ocean.Palette.Primary), theme.Primary)
}

func TestApp_UpdateNoteReachesHome(t *testing.T) {
	m := newAppModel(Options{})
	m.Update(home.UpdateAvailableMsg{Version: "v9.9.9"})

	assert.Contains(t, m.home.View(120, 40), "v9.9.9")
}
