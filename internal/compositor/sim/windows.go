package sim

import (
	"time"

	"wsoverview/internal/compositor"
)

// Window is a simulated toplevel.
type Window struct {
	c       *Compositor
	id      string
	app     string
	ws      *Workspace
	monitor int
}

// AddWindow places a window of app on the workspace at index and on monitor.
func (c *Compositor) AddWindow(id, app string, workspace, monitor int) *Window {
	if workspace < 0 || workspace >= len(c.workspaces) {
		workspace = c.active.index
	}
	w := &Window{c: c, id: id, app: app, ws: c.workspaces[workspace], monitor: monitor}
	c.windows = append(c.windows, w)
	return w
}

// ID implements compositor.Window.
func (w *Window) ID() string { return w.id }

// App is the window's application id.
func (w *Window) App() string { return w.app }

// Workspace implements compositor.Window.
func (w *Window) Workspace() compositor.Workspace { return w.ws }

// Activate implements compositor.Window.
func (w *Window) Activate(timestamp uint32) {
	w.c.record("activate-window:%s", w.id)
}

func (c *Compositor) windowsOnWorkspace(ws *Workspace) []*Window {
	var out []*Window
	for _, w := range c.windows {
		if w.ws == ws {
			out = append(out, w)
		}
	}
	return out
}

// WindowsOn implements compositor.Stage.
func (c *Compositor) WindowsOn(monitor int) []compositor.Window {
	var out []compositor.Window
	for _, w := range c.windows {
		if w.monitor == monitor {
			out = append(out, w)
		}
	}
	return out
}

// NewClone implements compositor.Stage.
func (c *Compositor) NewClone(ws compositor.Workspace) compositor.Clone {
	sw, _ := ws.(*Workspace)
	cl := &Clone{c: c, ws: sw}
	cl.container = &Container{c: c, ws: sw, selected: -1}
	c.clones = append(c.clones, cl)
	return cl
}

// LiveClones returns the number of clones not yet destroyed.
func (c *Compositor) LiveClones() int { return len(c.clones) }

// Clone is a simulated workspace clone. Animations complete through the
// scheduler after the configured duration.
type Clone struct {
	c         *Compositor
	ws        *Workspace
	container *Container
	destroyed bool
}

// Raise implements compositor.Clone.
func (cl *Clone) Raise() { cl.c.record("raise:%d", cl.ws.index) }

// Open implements compositor.Clone.
func (cl *Clone) Open(done func()) {
	cl.c.record("open:%d", cl.ws.index)
	cl.finish(cl.c.opts.OpenDuration, done)
}

// Close implements compositor.Clone.
func (cl *Clone) Close(done func()) {
	cl.c.record("close:%d", cl.ws.index)
	cl.finish(cl.c.opts.CloseDuration, done)
}

func (cl *Clone) finish(d time.Duration, done func()) {
	if done == nil || cl.c.sched == nil {
		return
	}
	cl.c.sched.AfterFunc(d, func() {
		if !cl.destroyed {
			done()
		}
	})
}

// Container implements compositor.Clone.
func (cl *Clone) Container() compositor.WindowContainer { return cl.container }

// Icons implements compositor.Clone.
func (cl *Clone) Icons() []string {
	var out []string
	for _, w := range cl.c.windowsOnWorkspace(cl.ws) {
		out = append(out, w.app)
	}
	return out
}

// Destroy implements compositor.Clone. The compositor forgets the clone; a
// second Destroy is a no-op.
func (cl *Clone) Destroy() {
	if cl.destroyed {
		return
	}
	cl.destroyed = true
	for i, x := range cl.c.clones {
		if x == cl {
			cl.c.clones = append(cl.c.clones[:i], cl.c.clones[i+1:]...)
			break
		}
	}
	cl.c.record("destroy-clone")
}

// Container is a simulated window grid. Selection moves through the
// workspace's windows in creation order.
type Container struct {
	c         *Compositor
	ws        *Workspace
	selected  int
	listeners []*selSub
}

type selSub struct{ fn func(compositor.Window) }

// SelectNextWindow implements compositor.WindowContainer.
func (ct *Container) SelectNextWindow(direction compositor.Direction) {
	ct.c.record("select:%d:%s", ct.ws.index, direction)
	wins := ct.c.windowsOnWorkspace(ct.ws)
	if len(wins) == 0 {
		ct.selected = -1
		return
	}
	step := 1
	if direction == compositor.DirectionLeft || direction == compositor.DirectionUp {
		step = -1
	}
	switch {
	case ct.selected < 0:
		ct.selected = 0
	default:
		ct.selected += step
	}
	if ct.selected < 0 {
		ct.selected = 0
	}
	if ct.selected >= len(wins) {
		ct.selected = len(wins) - 1
	}
}

// Selected returns the selected window, if any.
func (ct *Container) Selected() (*Window, bool) {
	wins := ct.c.windowsOnWorkspace(ct.ws)
	if ct.selected < 0 || ct.selected >= len(wins) {
		return nil, false
	}
	return wins[ct.selected], true
}

// ActivateSelectedWindow implements compositor.WindowContainer. The selected
// window, if any, is reported to window-selected listeners.
func (ct *Container) ActivateSelectedWindow() {
	ct.c.record("activate-selected:%d", ct.ws.index)
	w, ok := ct.Selected()
	if !ok {
		return
	}
	subs := append([]*selSub(nil), ct.listeners...)
	for _, s := range subs {
		s.fn(w)
	}
}

// OnWindowSelected implements compositor.WindowContainer.
func (ct *Container) OnWindowSelected(fn func(compositor.Window)) func() {
	s := &selSub{fn: fn}
	ct.listeners = append(ct.listeners, s)
	return func() {
		for i, x := range ct.listeners {
			if x == s {
				ct.listeners = append(ct.listeners[:i], ct.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of window-selected registrations.
func (ct *Container) Listeners() int { return len(ct.listeners) }
