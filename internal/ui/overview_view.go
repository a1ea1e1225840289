package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wsoverview/internal/compositor/sim"
	"wsoverview/internal/overview"
	"wsoverview/internal/ui/textutil"
)

// journalTail is how many compositor journal entries the view shows.
const journalTail = 8

// OverviewView renders the simulated screen: the desktop while the overview
// is closed, the workspace rail and overlays while it is shown, and the
// compositor state underneath.
type OverviewView struct {
	Controller *overview.Controller
	Sim        *sim.Compositor
	Focus      *FocusManager
	width      int
	height     int
}

var _ View = (*OverviewView)(nil)

// NewOverviewView creates a view over c and s.
func NewOverviewView(c *overview.Controller, s *sim.Compositor, focus *FocusManager) *OverviewView {
	return &OverviewView{Controller: c, Sim: s, Focus: focus, width: 80, height: 24}
}

// Init implements View.
func (v *OverviewView) Init() tea.Cmd { return nil }

// Update implements View. Input reaches the controller through the app
// model, so the view itself only tracks its size.
func (v *OverviewView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		v.SetSize(msg.Width, msg.Height)
	}
	return v, nil
}

// SetSize sets the area the view may draw into.
func (v *OverviewView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View implements View.
func (v *OverviewView) View() string {
	if v.Controller == nil || v.Sim == nil {
		return Styles.Empty.Render("no compositor")
	}
	var sections []string
	sections = append(sections, v.renderHeader())
	if v.Controller.Visible() {
		sections = append(sections, v.renderRail(), v.renderIcons(), v.renderOverlays())
	} else {
		sections = append(sections, v.renderDesktop())
	}
	sections = append(sections, v.renderCompositor(), v.renderJournal())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *OverviewView) renderHeader() string {
	state := v.Controller.State()
	style := Styles.Status
	if state.Animating() {
		style = Styles.Warning
	}
	return Styles.Title.Render("Overview") + " " + style.Render(state.String())
}

func (v *OverviewView) renderDesktop() string {
	active := v.Sim.ActiveIndex()
	var apps []string
	if views := v.Controller.Rail().Views(); active < len(views) {
		apps = views[active].IconGroup().Icons()
	}
	title := fmt.Sprintf("Workspace %d of %d", active+1, v.Sim.NumWorkspaces())
	body := Styles.Empty.Render("(empty)")
	if len(apps) > 0 {
		body = Styles.Normal.Render(strings.Join(apps, "  "))
	}
	return v.panel(PanelDesktop).Render(Styles.Selected.Render(title) + "\n" + body)
}

// cellWidth is the inner width of one workspace cell, matching
// Styles.Workspace.
const cellWidth = 16

func (v *OverviewView) renderRail() string {
	r := v.Controller.Rail()
	cells := make([]string, 0, r.Len())
	for _, wv := range r.Views() {
		style := Styles.Workspace
		if wv.Active() {
			style = Styles.WorkspaceActive
		}
		title := fmt.Sprintf("WS %d", wv.Index()+1)
		if wv.Opened() {
			title += " ▪"
		}
		lines := []string{Styles.Selected.Render(title)}
		icons := wv.IconGroup().Icons()
		if len(icons) == 0 {
			lines = append(lines, Styles.Empty.Render("(empty)"))
		}
		for _, app := range icons {
			lines = append(lines, textutil.Truncate(app, cellWidth))
		}
		lines = append(lines, Styles.Muted.Render(fmt.Sprintf("x=%d", wv.X())))
		cells = append(cells, style.Render(strings.Join(lines, "\n")))
	}
	info := Styles.Muted.Render(fmt.Sprintf("rail x=%d  %s", r.X(), r.Duration()))
	return v.panel(PanelOverview).Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n" + info)
}

func (v *OverviewView) renderIcons() string {
	icons := v.Controller.Rail().Icons()
	return Styles.Muted.Render(fmt.Sprintf("icons x=%.1f y=%.0f width=%.0f  %s",
		icons.X(), icons.Y(), icons.TotalWidth(), icons.Duration()))
}

func (v *OverviewView) renderOverlays() string {
	overlays := v.Controller.Overlays().Overlays()
	if len(overlays) == 0 {
		return Styles.Muted.Render("no overlays")
	}
	boxes := make([]string, 0, len(overlays))
	for _, o := range overlays {
		g := o.Geometry()
		state := "hidden"
		switch {
		case o.Visible() && o.Opened():
			state = "open"
		case o.Visible():
			state = "shown"
		}
		text := fmt.Sprintf("monitor %d %dx%d\n%s, %d windows", o.ID(), g.Width, g.Height, state, len(o.Windows()))
		boxes = append(boxes, Styles.Overlay.Render(text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (v *OverviewView) renderCompositor() string {
	bg, win, top := v.Sim.LayersVisible()
	grab := "released"
	if v.Sim.Grabbed() {
		grab = "held"
	}
	lines := []string{
		fmt.Sprintf("layers  background=%s windows=%s top=%s", onOff(bg), onOff(win), onOff(top)),
		fmt.Sprintf("grab    %s", grab),
		fmt.Sprintf("focus   %s", v.Sim.KeyFocus()),
		fmt.Sprintf("monitors %d (primary %d)", v.Sim.NumMonitors(), v.Sim.Primary()),
	}
	return v.panel(PanelTopBar).Render(strings.Join(lines, "\n"))
}

func (v *OverviewView) renderJournal() string {
	journal := v.Sim.Journal()
	if len(journal) > journalTail {
		journal = journal[len(journal)-journalTail:]
	}
	if len(journal) == 0 {
		return Styles.Empty.Render("journal empty")
	}
	return Styles.Hint.Render(strings.Join(journal, " · "))
}

// panel frames a section, highlighted when it holds key focus.
func (v *OverviewView) panel(id string) lipgloss.Style {
	if v.Focus != nil && v.Focus.Current == id {
		return Styles.PanelFocused
	}
	return Styles.Panel
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
