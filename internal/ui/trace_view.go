package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"wsoverview/internal/trace"
	"wsoverview/internal/ui/textutil"
)

// TraceView lists recent overview sessions as ASCII span trees
type TraceView struct {
	traces   []*trace.Trace
	viewport viewport.Model
	width    int
	height   int
	visible  bool
}

// Ensure TraceView implements View
var _ View = (*TraceView)(nil)

// NewTraceView creates a new trace view
func NewTraceView() *TraceView {
	vp := viewport.New(50, 20)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1)
	return &TraceView{
		viewport: vp,
		width:    50,
		height:   20,
	}
}

// Init implements View
func (v *TraceView) Init() tea.Cmd {
	return v.viewport.Init()
}

// Update implements View
func (v *TraceView) Update(msg tea.Msg) (View, tea.Cmd) {
	if !v.visible {
		return v, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j":
			v.viewport.LineDown(1)
			return v, nil
		case "k":
			v.viewport.LineUp(1)
			return v, nil
		case "ctrl+d", "pgdown":
			v.viewport.PageDown()
			return v, nil
		case "ctrl+u", "pgup":
			v.viewport.PageUp()
			return v, nil
		case "g", "home":
			v.viewport.GotoTop()
			return v, nil
		case "G", "end":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View implements View
func (v *TraceView) View() string {
	if !v.visible {
		return ""
	}
	return v.viewport.View()
}

// SetSize sets the size of the trace view
func (v *TraceView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = height
	v.refreshContent()
}

// SetVisible sets whether the trace view is visible
func (v *TraceView) SetVisible(visible bool) {
	v.visible = visible
	if visible {
		v.refreshContent()
	}
}

// IsVisible returns whether the trace view is visible
func (v *TraceView) IsVisible() bool {
	return v.visible
}

// Refresh replaces the sessions shown, newest first.
func (v *TraceView) Refresh(traces []*trace.Trace) {
	v.traces = traces
	if v.visible {
		v.refreshContent()
	}
}

// refreshContent rebuilds the viewport content from the current traces
func (v *TraceView) refreshContent() {
	if len(v.traces) == 0 {
		v.viewport.SetContent(Styles.Empty.Render("No sessions yet"))
		return
	}

	var lines []string
	for i, t := range v.traces {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, v.renderTrace(t)...)
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
}

func (v *TraceView) renderTrace(t *trace.Trace) []string {
	statusIcon := "✓"
	statusColor := ColorOK
	durationStr := ""
	if t.RootSpan != nil {
		durationStr = formatDuration(t.RootSpan.Duration)
	}
	if t.Status == "running" {
		statusIcon = "●"
		statusColor = ColorWarning
		durationStr = "running..."
	}
	header := fmt.Sprintf("Session %s (%s) %s",
		shortTraceID(t.ID),
		durationStr,
		lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Render(statusIcon+" "+t.Status))
	lines := []string{Styles.Title.Render(header)}
	if t.RootSpan != nil && len(t.RootSpan.Attributes) > 0 {
		lines = append(lines, Styles.Muted.Render("  "+spanAttrs(t.RootSpan.Attributes)))
	}

	if t.RootSpan == nil || len(t.RootSpan.Children) == 0 {
		return append(lines, Styles.Muted.Render("  (no transitions)"))
	}
	children := t.RootSpan.Children
	for i, child := range children {
		lines = append(lines, v.renderSpan(child, "", i == len(children)-1)...)
	}
	return lines
}

// formatDuration formats a duration with millisecond precision. Zero
// means the span is still open.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Millisecond)
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// renderSpan recursively renders a span and its children as a tree
// Returns the lines for this span and its children
func (v *TraceView) renderSpan(span *trace.Span, prefix string, isLast bool) []string {
	connector := "├─"
	if isLast {
		connector = "└─"
	}

	name := span.Name
	if name == "" {
		name = "(unnamed)"
	}
	if outcome, ok := span.Attributes["outcome"]; ok {
		name += " [" + outcome + "]"
	}

	// Reserve room for duration and status
	maxName := v.width - textutil.VisualWidth(prefix) - 16
	if maxName < 8 {
		maxName = 8
	}
	name = textutil.Truncate(name, maxName)

	statusIcon, statusColor := "✓", ColorOK
	durationStr := formatDuration(span.Duration)
	if durationStr == "" {
		statusIcon, statusColor = "●", ColorWarning
	}
	line := prefix + connector + " " + name
	if durationStr != "" {
		line += " " + Styles.Muted.Render(durationStr)
	}
	line += " " + lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Render(statusIcon)
	lines := []string{line}

	childPrefix := prefix + "│  "
	if isLast {
		childPrefix = prefix + "   "
	}
	for i, child := range span.Children {
		lines = append(lines, v.renderSpan(child, childPrefix, i == len(span.Children)-1)...)
	}
	return lines
}

// spanAttrs renders attributes as sorted key=value pairs.
func spanAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + attrs[k]
	}
	return strings.Join(parts, " ")
}

// shortTraceID returns a shortened version of the trace ID for display
func shortTraceID(id string) string {
	if len(id) > 16 {
		return id[:16]
	}
	return id
}
