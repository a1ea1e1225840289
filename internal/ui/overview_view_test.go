package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsoverview/internal/trace"
)

func TestOverviewView_Desktop(t *testing.T) {
	a := newTestApp(t, 3)
	a.sim.AddWindow("t1", "terminal", 0, 0)

	out := a.model.Overview.View()

	assert.Contains(t, out, "Closed")
	assert.Contains(t, out, "Workspace 1 of 3")
	assert.Contains(t, out, "terminal")
	assert.Contains(t, out, "grab    released")
	assert.NotContains(t, out, "WS 1")
}

func TestOverviewView_RailWhileShown(t *testing.T) {
	a := newTestApp(t, 2)
	a.sim.AddWindow("b1", "a-browser-with-a-very-long-application-id", 1, 0)
	a.open(t)

	out := a.model.Overview.View()

	assert.Contains(t, out, "Open")
	assert.Contains(t, out, "WS 1")
	assert.Contains(t, out, "WS 2")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "a-browser-with-…")
	assert.Contains(t, out, "x=1770")
	assert.Contains(t, out, "grab    held")
	assert.Contains(t, out, "focus   overview")
	assert.Contains(t, out, "no overlays")
}

func TestOverviewView_Overlays(t *testing.T) {
	a := newTestApp(t, 2)
	a.keys(t, " ", "m", "a")
	a.sim.AddWindow("m1", "mail", 0, 1)
	a.open(t)

	out := a.model.Overview.View()
	assert.Contains(t, out, "monitor 1 1920x1080")
	assert.Contains(t, out, "open, 1 windows")
}

func TestOverviewView_JournalTail(t *testing.T) {
	a := newTestApp(t, 2)
	a.sim.ResetJournal()
	for i := 0; i < journalTail+4; i++ {
		a.sim.CancelAll("tag")
	}
	a.sim.SetKeyFocus("last")

	out := a.model.Overview.View()
	assert.Equal(t, journalTail-1, strings.Count(out, "drag-cancel:tag"))
	assert.Contains(t, out, "focus:last")
}

func TestTraceView_RendersSessions(t *testing.T) {
	t0 := time.Unix(100, 0)
	tr := &trace.Trace{
		ID:     "0123456789abcdef0123456789abcdef",
		Status: "completed",
		RootSpan: &trace.Span{
			Name:       "overview.session",
			Duration:   1500 * time.Millisecond,
			StartTime:  t0,
			Attributes: map[string]string{"workspaces": "3"},
			Children: []*trace.Span{
				{Name: "opening", Duration: 120 * time.Millisecond, Attributes: map[string]string{"outcome": "completed"}},
				{Name: "closing", Attributes: map[string]string{}},
			},
		},
	}
	v := NewTraceView()
	v.SetSize(80, 20)
	v.SetVisible(true)
	v.Refresh([]*trace.Trace{tr})

	out := v.View()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Session 0123456789abcdef")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "workspaces=3")
	assert.Contains(t, out, "├─ opening [completed] 120ms")
	assert.Contains(t, out, "└─ closing ●")
}

func TestTraceView_HiddenAndEmpty(t *testing.T) {
	v := NewTraceView()
	assert.Empty(t, v.View())

	v.SetVisible(true)
	assert.Contains(t, v.View(), "No sessions yet")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, ""},
		{200 * time.Millisecond, "200ms"},
		{290*time.Millisecond + 400*time.Microsecond, "290ms"},
		{2500 * time.Millisecond, "2.5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
