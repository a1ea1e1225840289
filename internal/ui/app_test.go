package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsoverview/internal/compositor"
	"wsoverview/internal/compositor/sim"
	"wsoverview/internal/config"
	"wsoverview/internal/loop"
	"wsoverview/internal/overview"
	"wsoverview/internal/prefs"
	"wsoverview/internal/trace"
)

type testApp struct {
	model *AppModel
	tea   tea.Model
	sim   *sim.Compositor
	clock *loop.Manual
	prefs *prefs.Store
}

func newTestApp(t *testing.T, workspaces int) *testApp {
	t.Helper()
	clock := loop.NewManual(time.Unix(0, 0))
	s := sim.New(clock, sim.Options{OpenDuration: time.Second, CloseDuration: time.Second}, workspaces,
		compositor.Rect{Width: 1920, Height: 1080})
	p := prefs.New(nil)
	tm := trace.NewManager(10, nil, nil)
	c := overview.New(overview.Deps{
		Workspaces: s,
		Monitors:   s,
		Layers:     s,
		Grabber:    s,
		Drags:      s,
		Stage:      s,
		Prefs:      p,
		Scheduler:  clock,
		Tracer:     trace.NewRecorder(tm, clock.Now),
		Now:        clock.Now,
	}, config.DefaultOverview())
	t.Cleanup(c.Close)
	m := NewAppModel(AppDeps{Controller: c, Sim: s, Prefs: p, Traces: tm, Now: clock.Now})
	t.Cleanup(m.Close)
	a := m.AsTeaModel()
	a.Init()
	return &testApp{model: m, tea: a, sim: s, clock: clock, prefs: p}
}

// send delivers msg and then runs the resulting commands synchronously,
// feeding their messages back in, the way the program loop would.
func (a *testApp) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 50, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(tea.QuitMsg); ok {
			continue
		}
		if batch, ok := next.(tea.BatchMsg); ok {
			for _, cmd := range batch {
				if cmd != nil {
					queue = append(queue, cmd())
				}
			}
			continue
		}
		_, cmd := a.tea.Update(next)
		if cmd != nil {
			if out := cmd(); out != nil {
				queue = append(queue, out)
			}
		}
	}
}

func (a *testApp) keys(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		a.send(t, keyMsg(k))
	}
}

func (a *testApp) open(t *testing.T) {
	t.Helper()
	a.keys(t, "o")
	a.clock.Advance(200 * time.Millisecond)
	require.Equal(t, overview.StateOpen, a.model.Controller.State())
}

func TestApp_StartsOnDesktop(t *testing.T) {
	a := newTestApp(t, 3)
	assert.Equal(t, ModeDesktop, a.model.Mode)
	assert.Equal(t, PanelDesktop, a.model.Focus.Current)
	assert.Equal(t, compositor.FocusTarget(PanelDesktop), a.sim.KeyFocus())
}

func TestApp_ToggleOpensAndCloses(t *testing.T) {
	a := newTestApp(t, 3)

	a.keys(t, "o")
	assert.Equal(t, overview.StateOpening, a.model.Controller.State())
	assert.Equal(t, ModeOverview, a.model.Mode)
	assert.Equal(t, PanelOverview, a.model.Focus.Current)
	assert.True(t, a.sim.Grabbed())

	a.keys(t, "o")
	assert.Equal(t, "ignored: Opening", a.model.Status)

	a.clock.Advance(200 * time.Millisecond)
	a.keys(t, "esc")
	assert.Equal(t, overview.StateClosing, a.model.Controller.State())
	assert.Equal(t, ModeDesktop, a.model.Mode)

	a.clock.Advance(290 * time.Millisecond)
	a.send(t, RunMsg{})
	assert.Equal(t, overview.StateClosed, a.model.Controller.State())
	assert.False(t, a.sim.Grabbed())
	assert.Equal(t, compositor.FocusTarget(PanelDesktop), a.sim.KeyFocus())
	assert.Equal(t, PanelDesktop, a.model.Focus.Current)
}

func TestApp_GrabDeniedStatus(t *testing.T) {
	a := newTestApp(t, 2)
	a.sim.DenyGrab(true)
	a.keys(t, "o")
	assert.Equal(t, overview.StateClosed, a.model.Controller.State())
	assert.Equal(t, "grab denied", a.model.Status)
}

func TestApp_ArrowsReachActiveWorkspace(t *testing.T) {
	a := newTestApp(t, 2)
	a.open(t)
	a.sim.ResetJournal()

	a.keys(t, "down", "enter")

	assert.Equal(t, []string{"select:0:down", "activate-selected:0"}, a.sim.Journal()[:2])
}

func TestApp_ArrowsIgnoredOnDesktop(t *testing.T) {
	a := newTestApp(t, 2)
	a.sim.ResetJournal()
	a.keys(t, "down")
	assert.Empty(t, a.sim.Journal())
}

func TestApp_WheelSwitchesWorkspace(t *testing.T) {
	a := newTestApp(t, 3)
	a.open(t)

	a.send(t, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 1, a.sim.ActiveIndex())

	a.send(t, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonWheelDown})
	a.send(t, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 2, a.sim.ActiveIndex(), "wheel clicks are not debounced")
}

func TestApp_SwipeKeysAreDebounced(t *testing.T) {
	a := newTestApp(t, 3)
	a.open(t)

	a.keys(t, "]", "]")
	assert.Equal(t, 1, a.sim.ActiveIndex())

	a.clock.Advance(500 * time.Millisecond)
	a.keys(t, "]")
	assert.Equal(t, 2, a.sim.ActiveIndex())
}

func TestApp_TabAwayClosesOverview(t *testing.T) {
	a := newTestApp(t, 2)
	a.open(t)

	a.keys(t, "tab")

	assert.Equal(t, compositor.FocusTarget(PanelTopBar), a.sim.KeyFocus())
	assert.Equal(t, overview.StateClosing, a.model.Controller.State())
	assert.Equal(t, PanelTopBar, a.model.Focus.Current)
}

func TestApp_WorkspaceLeaderBindings(t *testing.T) {
	a := newTestApp(t, 2)

	a.keys(t, " ", "w", "a")
	assert.Equal(t, 3, a.sim.NumWorkspaces())
	assert.Equal(t, 3, a.model.Controller.Rail().Len())

	a.keys(t, " ", "w", "n")
	assert.Equal(t, 1, a.sim.ActiveIndex())

	a.keys(t, " ", "w", "x")
	assert.Equal(t, 2, a.sim.NumWorkspaces())
	assert.Equal(t, 2, a.model.Controller.Rail().Len())
}

func TestApp_OpenWindowKeepsEmptyWorkspaceAtEnd(t *testing.T) {
	a := newTestApp(t, 1)
	a.keys(t, " ", "w", "o")
	assert.Equal(t, 2, a.sim.NumWorkspaces())
	assert.Equal(t, 2, a.model.Controller.Rail().Len())
	assert.Equal(t, []string{"terminal"}, a.model.Controller.Rail().Views()[0].IconGroup().Icons())
	assert.Equal(t, "opened terminal-1", a.model.Status)
}

func TestApp_MonitorBindingsRebuildOverlays(t *testing.T) {
	a := newTestApp(t, 2)
	a.keys(t, " ", "m", "a")
	assert.Equal(t, 2, a.sim.NumMonitors())
	assert.Equal(t, 1, a.model.Controller.Overlays().Len())

	a.keys(t, " ", "m", "x")
	assert.Equal(t, 1, a.sim.NumMonitors())
	assert.Equal(t, 0, a.model.Controller.Overlays().Len())

	a.keys(t, " ", "m", "x")
	assert.Equal(t, "only the primary monitor is left", a.model.Status)
}

func TestApp_PreferenceToggleRunsOffUpdate(t *testing.T) {
	a := newTestApp(t, 2)
	a.keys(t, " ", "m", "a")
	require.Equal(t, 1, a.model.Controller.Overlays().Len())

	a.keys(t, " ", "p", "p")

	assert.False(t, a.prefs.Bool(prefs.WorkspacesOnlyOnPrimary))
	assert.Equal(t, 0, a.model.Controller.Overlays().Len())
	assert.Equal(t, "workspaces-only-on-primary = false", a.model.Status)
}

func TestApp_StaticWorkspacesReconcile(t *testing.T) {
	a := newTestApp(t, 2)
	a.keys(t, " ", "p", "d")
	assert.False(t, a.prefs.Bool(prefs.DynamicWorkspaces))
	assert.Equal(t, 4, a.sim.NumWorkspaces(), "static mode uses num-workspaces")
	assert.Equal(t, 4, a.model.Controller.Rail().Len())
}

func TestApp_TracePanel(t *testing.T) {
	a := newTestApp(t, 2)
	a.send(t, tea.WindowSizeMsg{Width: 160, Height: 40})
	a.open(t)
	a.keys(t, " ", "t")
	require.True(t, a.model.TraceView.IsVisible())

	view := a.tea.View()
	assert.Contains(t, view, "Session")
	assert.Contains(t, view, "opening")
}

func TestApp_ViewShowsStateAndHelp(t *testing.T) {
	a := newTestApp(t, 2)
	a.send(t, tea.WindowSizeMsg{Width: 160, Height: 40})

	view := a.tea.View()
	assert.Contains(t, view, "Desktop")
	assert.Contains(t, view, "Workspace 1 of 2")
	assert.Contains(t, view, "Overview")

	a.keys(t, " ")
	view = a.tea.View()
	assert.Contains(t, view, "Workspace")
	assert.Contains(t, view, "cancel")
}

func TestApp_QuitKey(t *testing.T) {
	a := newTestApp(t, 1)
	_, cmd := a.tea.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestWheelScroll(t *testing.T) {
	tests := []struct {
		button tea.MouseButton
		want   ScrollMsg
	}{
		{tea.MouseButtonWheelUp, ScrollMsg{DY: -1}},
		{tea.MouseButtonWheelDown, ScrollMsg{DY: 1}},
		{tea.MouseButtonWheelLeft, ScrollMsg{DX: -1}},
		{tea.MouseButtonWheelRight, ScrollMsg{DX: 1}},
	}
	for _, tt := range tests {
		got, ok := wheelScroll(tea.MouseMsg{Action: tea.MouseActionPress, Button: tt.button})
		if !ok || got != tt.want {
			t.Errorf("button %v: expected %+v, got %+v (ok=%v)", tt.button, tt.want, got, ok)
		}
	}
	if _, ok := wheelScroll(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}); ok {
		t.Error("left click should not scroll")
	}
}

func TestOverviewKey(t *testing.T) {
	tests := map[string]overview.Key{
		"esc":   overview.KeyEscape,
		"up":    overview.KeyUp,
		"down":  overview.KeyDown,
		"left":  overview.KeyLeft,
		"right": overview.KeyRight,
		"enter": overview.KeyEnter,
		"x":     overview.KeyOther,
	}
	for k, want := range tests {
		if got := overviewKey(keyMsg(k)); got != want {
			t.Errorf("%q: expected %v, got %v", k, want, got)
		}
	}
}

func TestApp_StatusClearsOnSuccessfulToggle(t *testing.T) {
	a := newTestApp(t, 2)
	a.send(t, statusMsg("hello"))
	require.Equal(t, "hello", a.model.Status)
	a.keys(t, "o")
	assert.Empty(t, a.model.Status)
}
