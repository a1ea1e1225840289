package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"wsoverview/internal/compositor"
	"wsoverview/internal/compositor/sim"
	"wsoverview/internal/logging"
	"wsoverview/internal/overview"
	"wsoverview/internal/prefs"
	"wsoverview/internal/scroll"
	"wsoverview/internal/trace"
)

// AppDeps are the pieces the front end drives. Traces and Log may be nil.
type AppDeps struct {
	Controller *overview.Controller
	Sim        *sim.Compositor
	Prefs      *prefs.Store
	Traces     *trace.Manager
	Log        *zap.Logger
	Now        func() time.Time
}

// AppModel is the root model. It turns key, mouse and timer messages into
// controller and compositor calls, then renders the result.
type AppModel struct {
	Mode       AppMode
	Controller *overview.Controller
	Sim        *sim.Compositor
	Prefs      *prefs.Store
	Traces     *trace.Manager
	Overview   *OverviewView
	TraceView  *TraceView
	Focus      *FocusManager
	KeyHandler *KeyHandler
	Status     string

	log     *zap.Logger
	now     func() time.Time
	width   int
	height  int
	windows int
	unsubs  []func()
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model. Key focus starts on the
// desktop.
func NewAppModel(deps AppDeps) *AppModel {
	reg := NewKeybindRegistry()
	registerBindings(reg)
	m := &AppModel{
		Mode:       ModeDesktop,
		Controller: deps.Controller,
		Sim:        deps.Sim,
		Prefs:      deps.Prefs,
		Traces:     deps.Traces,
		TraceView:  NewTraceView(),
		Focus:      NewFocusManager(PanelTopBar, PanelDesktop),
		KeyHandler: NewKeyHandler(reg),
		log:        logging.OrNop(deps.Log).Named("ui"),
		now:        deps.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.Overview = NewOverviewView(m.Controller, m.Sim, m.Focus)
	m.Focus.OnChange = func(from, to string) {
		m.Sim.SetKeyFocus(compositor.FocusTarget(to))
		if m.Controller.IsOpen() && !m.Sim.KeyFocusWithin(overview.RootFocus) {
			m.Controller.HandleFocusLoss()
		}
	}
	m.Focus.SetFocus(PanelDesktop)
	if m.Prefs != nil {
		m.unsubs = append(m.unsubs,
			m.Prefs.OnChange(prefs.DynamicWorkspaces, m.reconcileWorkspaces),
			m.Prefs.OnChange(prefs.NumWorkspaces, m.reconcileWorkspaces),
		)
	}
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Close drops the model's preference subscriptions.
func (m *AppModel) Close() {
	for _, u := range m.unsubs {
		u()
	}
	m.unsubs = nil
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	a.sync()
	return tea.Batch(a.Overview.Init(), a.TraceView.Init())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.sync()
	return a, cmd
}

func (a *appModelAdapter) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RunMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
	case statusMsg:
		a.Status = string(msg)
	case tea.WindowSizeMsg:
		a.setSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.MouseMsg:
		if ev, ok := wheelScroll(msg); ok {
			return msgCmd(ev)
		}
	case ToggleMsg:
		from := a.Controller.State()
		if !a.Controller.Toggle() {
			if from.Animating() {
				a.Status = fmt.Sprintf("ignored: %s", from)
			} else {
				a.Status = "grab denied"
			}
			return nil
		}
		a.Status = ""
	case ScrollMsg:
		a.Controller.HandlePointerScroll(scroll.Event{DX: msg.DX, DY: msg.DY, Time: a.now()})
	case AddWorkspaceMsg:
		if _, err := a.Sim.AddWorkspace(a.Sim.ActiveIndex() + 1); err != nil {
			a.Status = err.Error()
		}
	case RemoveWorkspaceMsg:
		if err := a.Sim.RemoveWorkspace(a.Sim.ActiveIndex()); err != nil {
			a.Status = err.Error()
		}
	case NextWorkspaceMsg:
		a.Sim.ActivateIndex((a.Sim.ActiveIndex() + 1) % a.Sim.NumWorkspaces())
	case AddWindowMsg:
		a.addWindow()
	case AddMonitorMsg:
		g := a.Sim.Geometry(a.Sim.Primary())
		a.Sim.AddMonitor(g.Width, g.Height)
	case RemoveMonitorMsg:
		a.removeMonitor()
	case TogglePrefMsg:
		if a.Prefs == nil {
			return nil
		}
		return setPrefCmd(a.Prefs, msg.Name, !a.Prefs.Bool(msg.Name))
	case FocusNextMsg:
		a.Focus.Next()
	case FocusPrevMsg:
		a.Focus.Prev()
	case ToggleTraceMsg:
		a.TraceView.SetVisible(!a.TraceView.IsVisible())
		a.setSize(a.width, a.height)
	}
	return nil
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Keybind system (leader key, single-key commands)
	if a.KeyHandler != nil {
		if consumed, keyCmd := a.KeyHandler.Handle(msg, a.Mode); consumed {
			return keyCmd
		}
	}
	// The overview holds the keyboard while it is shown
	if a.Controller.IsOpen() && a.Sim.KeyFocusWithin(overview.RootFocus) {
		if a.Controller.HandleKey(overviewKey(msg)) {
			return nil
		}
	}
	if a.TraceView.IsVisible() {
		_, cmd := a.TraceView.Update(msg)
		return cmd
	}
	return nil
}

func (a *appModelAdapter) addWindow() {
	a.windows++
	app := windowApps[(a.windows-1)%len(windowApps)]
	id := fmt.Sprintf("%s-%d", app, a.windows)
	a.Sim.AddWindow(id, app, a.Sim.ActiveIndex(), (a.windows-1)%a.Sim.NumMonitors())
	a.reconcileWorkspaces(prefs.DynamicWorkspaces)
	a.Status = "opened " + id
}

func (a *appModelAdapter) removeMonitor() {
	for i := a.Sim.NumMonitors() - 1; i >= 0; i-- {
		if i == a.Sim.Primary() {
			continue
		}
		if err := a.Sim.RemoveMonitor(i); err != nil {
			a.Status = err.Error()
		}
		return
	}
	a.Status = "only the primary monitor is left"
}

// reconcileWorkspaces applies the workspace preferences to the compositor.
func (m *AppModel) reconcileWorkspaces(string) {
	if m.Prefs == nil {
		return
	}
	m.Sim.Reconcile(m.Prefs.Bool(prefs.DynamicWorkspaces), m.Prefs.Int(prefs.NumWorkspaces))
}

// sync pulls compositor state into the UI after every message.
func (a *appModelAdapter) sync() {
	state := a.Controller.State()
	if state == overview.StateClosed && a.Sim.KeyFocus() == overview.RootFocus {
		// The grab is gone; focus returns to the desktop.
		a.Sim.SetKeyFocus(PanelDesktop)
	}
	if a.Controller.IsOpen() {
		a.Mode = ModeOverview
		a.Focus.Order = []string{PanelOverview, PanelTopBar, PanelDesktop}
	} else {
		a.Mode = ModeDesktop
		a.Focus.Order = []string{PanelTopBar, PanelDesktop}
	}
	if !a.Focus.Sync(string(a.Sim.KeyFocus())) {
		a.log.Debug("key focus outside known panels", zap.String("focus", string(a.Sim.KeyFocus())))
	}
	if a.Traces != nil && a.TraceView.IsVisible() {
		a.TraceView.Refresh(a.Traces.GetRecentTraces())
	}
}

func (a *appModelAdapter) setSize(width, height int) {
	a.width, a.height = width, height
	traceWidth := 0
	if a.TraceView.IsVisible() {
		traceWidth = width / 3
		a.TraceView.SetSize(traceWidth, height-4)
	}
	a.Overview.SetSize(width-traceWidth, height-4)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	title := Styles.Title.Render("wsoverview") + " " + Styles.Muted.Render(a.Mode.String())
	body := a.Overview.View()
	if a.TraceView.IsVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, a.TraceView.View())
	}
	out := title + "\n" + body
	if a.Status != "" {
		out += "\n" + Styles.Status.Render(a.Status)
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		out += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	} else if a.KeyHandler != nil {
		h := help.New()
		h.Width = a.width
		out += "\n" + h.View(NewKeyMap(a.KeyHandler.Registry, a.KeyHandler, a.Mode))
	}
	return out
}

// overviewKey maps a terminal key to the overview's key set.
func overviewKey(msg tea.KeyMsg) overview.Key {
	switch msg.Type {
	case tea.KeyEsc:
		return overview.KeyEscape
	case tea.KeyUp:
		return overview.KeyUp
	case tea.KeyDown:
		return overview.KeyDown
	case tea.KeyLeft:
		return overview.KeyLeft
	case tea.KeyRight:
		return overview.KeyRight
	case tea.KeyEnter:
		return overview.KeyEnter
	}
	return overview.KeyOther
}

// wheelScroll turns a mouse wheel press into a discrete scroll.
func wheelScroll(msg tea.MouseMsg) (ScrollMsg, bool) {
	if msg.Action != tea.MouseActionPress {
		return ScrollMsg{}, false
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return ScrollMsg{DY: -1}, true
	case tea.MouseButtonWheelDown:
		return ScrollMsg{DY: 1}, true
	case tea.MouseButtonWheelLeft:
		return ScrollMsg{DX: -1}, true
	case tea.MouseButtonWheelRight:
		return ScrollMsg{DX: 1}, true
	}
	return ScrollMsg{}, false
}
