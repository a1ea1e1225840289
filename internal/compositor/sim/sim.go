// Package sim is an in-memory compositor. It implements every collaborator
// the overview consumes, keeps an ordered journal of the calls it receives,
// and exposes mutators (add/remove workspaces, monitors, windows) so a front
// end or a test can drive topology changes.
//
// Like the real thing it is single-threaded: call it from the event loop.
package sim

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wsoverview/internal/compositor"
	"wsoverview/internal/loop"
)

// ErrLastWorkspace is returned when removing the only workspace.
var ErrLastWorkspace = errors.New("cannot remove the last workspace")

// ErrPrimaryMonitor is returned when removing the primary monitor.
var ErrPrimaryMonitor = errors.New("cannot remove the primary monitor")

// Options configures the simulated clone animations. A zero duration
// completes animations on the next loop turn.
type Options struct {
	OpenDuration  time.Duration
	CloseDuration time.Duration
}

// Compositor is the simulated compositor.
type Compositor struct {
	sched loop.Scheduler
	opts  Options

	workspaces []*Workspace
	active     *Workspace
	wsSubs     []*wsSub

	monitors    []compositor.Rect
	primary     int
	monitorSubs []*monitorSub

	background *Layer
	windowsL   *Layer
	topWindows *Layer

	grabbed         bool
	keepKeybindings bool
	denyGrab        bool

	focus   compositor.FocusTarget
	windows []*Window
	clones  []*Clone

	clock   uint32
	journal []string
}

type wsSub struct{ l compositor.WorkspaceListener }

type monitorSub struct{ fn func() }

// New creates a compositor with n workspaces (at least one), the first of
// them active, and a single primary monitor of the given geometry.
func New(sched loop.Scheduler, opts Options, n int, primary compositor.Rect) *Compositor {
	c := &Compositor{
		sched:    sched,
		opts:     opts,
		monitors: []compositor.Rect{primary},
	}
	c.background = &Layer{c: c, name: "background", visible: true}
	c.windowsL = &Layer{c: c, name: "window", visible: true}
	c.topWindows = &Layer{c: c, name: "top-window", visible: true}
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		c.workspaces = append(c.workspaces, &Workspace{c: c, index: i})
	}
	c.active = c.workspaces[0]
	return c
}

var (
	_ compositor.WorkspaceSource = (*Compositor)(nil)
	_ compositor.MonitorSource   = (*Compositor)(nil)
	_ compositor.Layers          = (*Compositor)(nil)
	_ compositor.Grabber         = (*Compositor)(nil)
	_ compositor.DragCanceller   = (*Compositor)(nil)
	_ compositor.Stage           = (*Compositor)(nil)
)

func (c *Compositor) record(format string, args ...any) {
	c.journal = append(c.journal, fmt.Sprintf(format, args...))
}

// Journal returns every recorded call in order.
func (c *Compositor) Journal() []string {
	return append([]string(nil), c.journal...)
}

// JournalCount counts journal entries equal to entry.
func (c *Compositor) JournalCount(entry string) int {
	n := 0
	for _, e := range c.journal {
		if e == entry {
			n++
		}
	}
	return n
}

// ResetJournal clears the journal.
func (c *Compositor) ResetJournal() { c.journal = nil }

// ---- workspaces ----

// Workspaces implements compositor.WorkspaceSource.
func (c *Compositor) Workspaces() []compositor.Workspace {
	out := make([]compositor.Workspace, len(c.workspaces))
	for i, w := range c.workspaces {
		out[i] = w
	}
	return out
}

// Active implements compositor.WorkspaceSource.
func (c *Compositor) Active() compositor.Workspace {
	if c.active == nil {
		return nil
	}
	return c.active
}

// ActiveIndex returns the active workspace's index.
func (c *Compositor) ActiveIndex() int { return c.active.index }

// NumWorkspaces returns the live workspace count.
func (c *Compositor) NumWorkspaces() int { return len(c.workspaces) }

// CurrentTime implements compositor.WorkspaceSource. It is a monotonically
// increasing event timestamp.
func (c *Compositor) CurrentTime() uint32 {
	c.clock++
	return c.clock
}

// Subscribe implements compositor.WorkspaceSource.
func (c *Compositor) Subscribe(l compositor.WorkspaceListener) func() {
	s := &wsSub{l: l}
	c.wsSubs = append(c.wsSubs, s)
	return func() {
		for i, x := range c.wsSubs {
			if x == s {
				c.wsSubs = append(c.wsSubs[:i], c.wsSubs[i+1:]...)
				return
			}
		}
	}
}

func (c *Compositor) listeners() []compositor.WorkspaceListener {
	out := make([]compositor.WorkspaceListener, len(c.wsSubs))
	for i, s := range c.wsSubs {
		out[i] = s.l
	}
	return out
}

func (c *Compositor) reindex() {
	for i, w := range c.workspaces {
		w.index = i
	}
}

// AddWorkspace inserts a new empty workspace at index and notifies.
func (c *Compositor) AddWorkspace(index int) (*Workspace, error) {
	if index < 0 || index > len(c.workspaces) {
		return nil, fmt.Errorf("add workspace at %d of %d: index out of range", index, len(c.workspaces))
	}
	w := &Workspace{c: c}
	c.workspaces = append(c.workspaces, nil)
	copy(c.workspaces[index+1:], c.workspaces[index:])
	c.workspaces[index] = w
	c.reindex()
	for _, l := range c.listeners() {
		l.WorkspaceAdded(index)
	}
	return w, nil
}

// RemoveWorkspace removes the workspace at index. Its windows move to the
// previous workspace (or the next one when removing the first). Removing the
// active workspace switches to that neighbor first.
func (c *Compositor) RemoveWorkspace(index int) error {
	if len(c.workspaces) <= 1 {
		return ErrLastWorkspace
	}
	if index < 0 || index >= len(c.workspaces) {
		return fmt.Errorf("remove workspace %d of %d: index out of range", index, len(c.workspaces))
	}
	w := c.workspaces[index]
	neighbor := index - 1
	if neighbor < 0 {
		neighbor = 1
	}
	target := c.workspaces[neighbor]
	if c.active == w {
		c.activate(target)
	}
	for _, win := range c.windows {
		if win.ws == w {
			win.ws = target
		}
	}
	c.workspaces = append(c.workspaces[:index], c.workspaces[index+1:]...)
	c.reindex()
	w.index = -1
	for _, l := range c.listeners() {
		l.WorkspaceRemoved(index)
	}
	return nil
}

// ActivateIndex activates the workspace at index.
func (c *Compositor) ActivateIndex(index int) {
	if index < 0 || index >= len(c.workspaces) {
		return
	}
	c.workspaces[index].Activate(c.CurrentTime())
}

func (c *Compositor) activate(w *Workspace) {
	if w == c.active || w.index < 0 {
		return
	}
	from := c.active.index
	c.active = w
	dir := compositor.DirectionRight
	if w.index < from {
		dir = compositor.DirectionLeft
	}
	c.record("switch:%d->%d", from, w.index)
	for _, l := range c.listeners() {
		l.WorkspaceSwitched(from, w.index, dir)
	}
}

// Reconcile applies workspace preferences. With static workspaces the set is
// grown or shrunk at the end to num. With dynamic workspaces an empty
// workspace is kept at the end.
func (c *Compositor) Reconcile(dynamic bool, num int) {
	if !dynamic {
		if num < 1 {
			num = 1
		}
		for len(c.workspaces) < num {
			c.AddWorkspace(len(c.workspaces))
		}
		for len(c.workspaces) > num {
			c.RemoveWorkspace(len(c.workspaces) - 1)
		}
		return
	}
	last := c.workspaces[len(c.workspaces)-1]
	for _, win := range c.windows {
		if win.ws == last {
			c.AddWorkspace(len(c.workspaces))
			return
		}
	}
}

// Workspace is a simulated workspace handle.
type Workspace struct {
	c     *Compositor
	index int
}

// Index implements compositor.Workspace.
func (w *Workspace) Index() int { return w.index }

// Activate implements compositor.Workspace.
func (w *Workspace) Activate(timestamp uint32) { w.c.activate(w) }

// ---- monitors ----

// NumMonitors implements compositor.MonitorSource.
func (c *Compositor) NumMonitors() int { return len(c.monitors) }

// Primary implements compositor.MonitorSource.
func (c *Compositor) Primary() int { return c.primary }

// Geometry implements compositor.MonitorSource.
func (c *Compositor) Geometry(monitor int) compositor.Rect {
	if monitor < 0 || monitor >= len(c.monitors) {
		return compositor.Rect{}
	}
	return c.monitors[monitor]
}

// OnMonitorsChanged implements compositor.MonitorSource.
func (c *Compositor) OnMonitorsChanged(fn func()) func() {
	s := &monitorSub{fn: fn}
	c.monitorSubs = append(c.monitorSubs, s)
	return func() {
		for i, x := range c.monitorSubs {
			if x == s {
				c.monitorSubs = append(c.monitorSubs[:i], c.monitorSubs[i+1:]...)
				return
			}
		}
	}
}

func (c *Compositor) monitorsChanged() {
	subs := append([]*monitorSub(nil), c.monitorSubs...)
	for _, s := range subs {
		s.fn()
	}
}

// SetMonitors replaces the topology and notifies.
func (c *Compositor) SetMonitors(monitors []compositor.Rect, primary int) {
	c.monitors = append([]compositor.Rect(nil), monitors...)
	if primary < 0 || primary >= len(c.monitors) {
		primary = 0
	}
	c.primary = primary
	c.monitorsChanged()
}

// AddMonitor appends a monitor to the right of the last one and notifies.
func (c *Compositor) AddMonitor(width, height int) int {
	last := c.monitors[len(c.monitors)-1]
	c.monitors = append(c.monitors, compositor.Rect{X: last.X + last.Width, Width: width, Height: height})
	c.monitorsChanged()
	return len(c.monitors) - 1
}

// RemoveMonitor removes a non-primary monitor and notifies. Windows on it
// move to the primary.
func (c *Compositor) RemoveMonitor(monitor int) error {
	if monitor == c.primary {
		return ErrPrimaryMonitor
	}
	if monitor < 0 || monitor >= len(c.monitors) {
		return fmt.Errorf("remove monitor %d of %d: index out of range", monitor, len(c.monitors))
	}
	c.monitors = append(c.monitors[:monitor], c.monitors[monitor+1:]...)
	if c.primary > monitor {
		c.primary--
	}
	for _, w := range c.windows {
		switch {
		case w.monitor == monitor:
			w.monitor = c.primary
		case w.monitor > monitor:
			w.monitor--
		}
	}
	c.monitorsChanged()
	return nil
}

// ---- layers, grab, drag, focus ----

// Background implements compositor.Layers.
func (c *Compositor) Background() compositor.Layer { return c.background }

// Windows implements compositor.Layers.
func (c *Compositor) Windows() compositor.Layer { return c.windowsL }

// TopWindows implements compositor.Layers.
func (c *Compositor) TopWindows() compositor.Layer { return c.topWindows }

// LayersVisible reports background, window, and top-window visibility.
func (c *Compositor) LayersVisible() (background, windows, top bool) {
	return c.background.visible, c.windowsL.visible, c.topWindows.visible
}

// Layer is a simulated stacking group.
type Layer struct {
	c       *Compositor
	name    string
	visible bool
}

// Show implements compositor.Layer.
func (l *Layer) Show() {
	l.visible = true
	l.c.record("show:%s", l.name)
}

// Hide implements compositor.Layer.
func (l *Layer) Hide() {
	l.visible = false
	l.c.record("hide:%s", l.name)
}

// Visible reports whether the layer is shown.
func (l *Layer) Visible() bool { return l.visible }

// BeginModal implements compositor.Grabber.
func (c *Compositor) BeginModal(keepKeybindings bool) bool {
	if c.denyGrab {
		c.record("grab:denied")
		return false
	}
	c.grabbed = true
	c.keepKeybindings = keepKeybindings
	c.record("grab:begin")
	return true
}

// EndModal implements compositor.Grabber.
func (c *Compositor) EndModal() {
	c.grabbed = false
	c.record("grab:end")
}

// Grabbed reports whether the modal grab is held.
func (c *Compositor) Grabbed() bool { return c.grabbed }

// DenyGrab makes subsequent BeginModal calls fail.
func (c *Compositor) DenyGrab(deny bool) { c.denyGrab = deny }

// CancelAll implements compositor.DragCanceller.
func (c *Compositor) CancelAll(tag string) {
	c.record("drag-cancel:%s", tag)
}

// SetKeyFocus implements compositor.Focus.
func (c *Compositor) SetKeyFocus(target compositor.FocusTarget) {
	c.focus = target
	c.record("focus:%s", target)
}

// KeyFocus returns the current key focus target.
func (c *Compositor) KeyFocus() compositor.FocusTarget { return c.focus }

// KeyFocusWithin implements compositor.Focus.
func (c *Compositor) KeyFocusWithin(root compositor.FocusTarget) bool {
	return c.focus == root || strings.HasPrefix(string(c.focus), string(root)+"/")
}
