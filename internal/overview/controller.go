// Package overview is the multitasking overview: a scaled-down rail of every
// workspace that the user opens, navigates and closes again while the rest
// of the desktop is hidden behind an exclusive input grab.
//
// The Controller owns the open/closed state. Everything it drives (rails,
// monitor overlays, the modal session) receives that state as a signal and
// never changes it. All methods must be called from the event loop.
package overview

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wsoverview/internal/compositor"
	"wsoverview/internal/config"
	"wsoverview/internal/logging"
	"wsoverview/internal/loop"
	"wsoverview/internal/metrics"
	"wsoverview/internal/modal"
	"wsoverview/internal/monitor"
	"wsoverview/internal/prefs"
	"wsoverview/internal/rail"
	"wsoverview/internal/scroll"
	"wsoverview/internal/trace"
)

// iconGap separates the icon rail from the bottom edge of the primary monitor.
const iconGap = 16

// Preferences is the part of the preference store the overview reads.
type Preferences interface {
	Bool(name string) bool
	OnChange(name string, fn func(name string)) (unsubscribe func())
}

// Deps are the collaborators a Controller drives. Metrics, Tracer and Log may
// be nil. Now defaults to time.Now.
type Deps struct {
	Workspaces compositor.WorkspaceSource
	Monitors   compositor.MonitorSource
	Layers     compositor.Layers
	Grabber    compositor.Grabber
	Drags      compositor.DragCanceller
	Stage      compositor.Stage
	Prefs      Preferences
	Scheduler  loop.Scheduler

	Metrics *metrics.Metrics
	Tracer  *trace.Recorder
	Log     *zap.Logger
	Now     func() time.Time
}

// Controller coordinates the overview's open/close lifecycle and routes
// input to the active workspace.
type Controller struct {
	deps Deps
	cfg  config.OverviewConfig
	log  *zap.Logger
	now  func() time.Time

	rail     *rail.WorkspaceRail
	icons    *rail.IconRail
	overlays *monitor.Set
	scroll   *scroll.Debouncer
	modal    *modal.Session
	dragTag  string

	state   State
	visible bool

	// Each transition gets a generation. The timer and the per-view
	// completions of a stale generation are ignored.
	gen     uint64
	pending int
	timer   loop.Timer
	started time.Time

	unsubs []func()
}

// New builds the rails for the current workspaces and overlays for the
// current monitors, and subscribes to workspace, monitor and preference
// changes. Call Close to drop the subscriptions.
func New(deps Deps, cfg config.OverviewConfig) *Controller {
	c := &Controller{
		deps:    deps,
		cfg:     cfg,
		log:     logging.OrNop(deps.Log).Named("overview"),
		now:     deps.Now,
		dragTag: "overview-" + uuid.NewString(),
	}
	if c.now == nil {
		c.now = time.Now
	}

	width := c.primaryGeometry().Width
	c.icons = rail.NewIconRail(rail.IconRailOptions{
		IconSize:           cfg.IconSize,
		Spacing:            cfg.IconSpacing,
		Margin:             cfg.IconMargin,
		RepositionDuration: cfg.RepositionDuration,
	}, width)
	c.rail = rail.New(deps.Workspaces, deps.Stage, c.icons, rail.Options{
		ViewWidth:          width,
		OverlapMargin:      cfg.OverlapMargin,
		RepositionDuration: cfg.RepositionDuration,
		OnWindowSelected:   c.windowSelected,
	}, c.log)
	c.overlays = monitor.NewSet(deps.Monitors, deps.Stage, func() bool {
		return deps.Prefs.Bool(prefs.WorkspacesOnlyOnPrimary)
	}, c.log)
	c.scroll = scroll.New(scroll.Options{Window: cfg.ScrollDebounce, Deadzone: cfg.ScrollDeadzone}, c.now)
	c.modal = modal.NewSession(deps.Grabber, deps.Layers, deps.Stage, RootFocus, cfg.KeepKeybindings, c.log)

	c.rail.Populate()
	c.overlays.Rebuild()
	c.positionIcons()

	c.unsubs = append(c.unsubs,
		deps.Workspaces.Subscribe(c),
		deps.Monitors.OnMonitorsChanged(c.MonitorsChanged),
		deps.Prefs.OnChange(prefs.WorkspacesOnlyOnPrimary, c.PreferenceChanged),
	)
	deps.Metrics.SetWorkspaces(c.rail.Len())
	deps.Metrics.SetOverlays(c.overlays.Len())
	return c
}

var _ compositor.WorkspaceListener = (*Controller)(nil)

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// IsOpen reports whether the overview is opening or open.
func (c *Controller) IsOpen() bool {
	return c.state == StateOpening || c.state == StateOpen
}

// Visible reports whether the overview is on screen. It stays true through
// Closing until the transition completes.
func (c *Controller) Visible() bool { return c.visible }

// Rail returns the workspace rail.
func (c *Controller) Rail() *rail.WorkspaceRail { return c.rail }

// Overlays returns the secondary monitor overlays.
func (c *Controller) Overlays() *monitor.Set { return c.overlays }

// DragTag is the tag drags started from the overview carry.
func (c *Controller) DragTag() string { return c.dragTag }

// ModalHeld reports whether the exclusive grab is held.
func (c *Controller) ModalHeld() bool { return c.modal.Held() }

// Toggle starts opening a closed overview or closing an open one. It returns
// false when the toggle was rejected: a transition is still animating, or the
// compositor refused the input grab.
//
// The state flips immediately. Closing teardown (layers, grab, overlays) runs
// when the transition finishes, either once every view reports its
// animation done or when the completion timer fires, whichever comes first.
func (c *Controller) Toggle() bool {
	if c.state.Animating() {
		c.deps.Metrics.IncRejected()
		c.log.Debug("toggle rejected while animating", zap.Stringer("state", c.state))
		return false
	}

	opening := c.state == StateClosed
	if opening {
		c.overlays.OpenAll()
		if err := c.modal.Acquire(); err != nil {
			c.overlays.CloseAll()
			c.overlays.HideAll()
			c.deps.Metrics.IncInvariant("grab_denied")
			c.log.Warn("overview not opened", zap.Error(err))
			return false
		}
		c.state = StateOpening
		c.visible = true
		c.positionIcons()
		c.deps.Tracer.SessionStart(map[string]string{"workspaces": strconv.Itoa(c.rail.Len())})
	} else {
		c.state = StateClosing
		c.deps.Drags.CancelAll(c.dragTag)
		c.overlays.CloseAll()
	}
	c.rail.SetOpen(opening)

	direction := c.direction()
	c.deps.Metrics.IncToggle(direction)
	c.deps.Tracer.TransitionStart(direction, nil)
	c.log.Debug("toggle", zap.Stringer("state", c.state))

	if v, ok := c.rail.ActiveView(); ok {
		c.rail.Raise(v)
	} else {
		c.invariant("no_active_view", ErrNoActiveView)
	}
	c.rail.Reposition(false)

	c.gen++
	gen := c.gen
	c.started = c.now()
	views := c.rail.Views()
	c.pending = len(views)
	for _, v := range views {
		done := func() { c.viewDone(gen) }
		if opening {
			v.Open(done)
		} else {
			v.Close(done)
		}
	}

	d := c.cfg.CloseDuration
	if opening {
		d = c.cfg.OpenDuration
	}
	c.timer = c.deps.Scheduler.AfterFunc(d, func() { c.finish(gen, "timer") })
	return true
}

func (c *Controller) direction() string {
	if c.state == StateOpening {
		return "opening"
	}
	return "closing"
}

func (c *Controller) viewDone(gen uint64) {
	if gen != c.gen || !c.state.Animating() {
		return
	}
	c.pending--
	if c.pending <= 0 {
		c.finish(gen, "completed")
	}
}

// finish ends transition gen. Only the first caller for a generation has an
// effect.
func (c *Controller) finish(gen uint64, outcome string) {
	if gen != c.gen || !c.state.Animating() {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	direction := c.direction()
	c.deps.Metrics.ObserveTransition(direction, c.now().Sub(c.started))
	c.deps.Tracer.TransitionEnd(map[string]string{"outcome": outcome})

	if c.state == StateOpening {
		c.state = StateOpen
	} else {
		if err := c.modal.Release(); err != nil {
			c.invariant("modal_release", err)
		}
		c.visible = false
		c.overlays.HideAll()
		c.state = StateClosed
		c.deps.Tracer.SessionEnd(nil)
	}
	c.log.Debug("transition finished", zap.String("direction", direction), zap.String("outcome", outcome))
}

// HandleKey routes a key press while the overview is open. It reports whether
// the key was consumed.
func (c *Controller) HandleKey(key Key) bool {
	if !c.IsOpen() {
		return false
	}
	if key == KeyEscape {
		c.Toggle()
		return true
	}
	if key == KeyOther {
		return false
	}
	v, ok := c.rail.ActiveView()
	if !ok {
		c.invariant("no_active_view", ErrNoActiveView)
		return false
	}
	if dir, ok := key.direction(); ok {
		v.Container().SelectNextWindow(dir)
		return true
	}
	// KeyEnter, KeyKPEnter
	v.Container().ActivateSelectedWindow()
	return true
}

// HandlePointerScroll turns scroll input into a switch to the neighboring
// workspace. Scrolling is ignored while the overview is not open. It reports
// whether a workspace was activated.
func (c *Controller) HandlePointerScroll(ev scroll.Event) bool {
	if !c.IsOpen() {
		return false
	}
	step, source := c.scroll.Step(ev)
	if step == 0 {
		return false
	}
	c.deps.Metrics.IncScrollStep(string(source))

	active := c.deps.Workspaces.Active()
	if active == nil {
		return false
	}
	workspaces := c.deps.Workspaces.Workspaces()
	target := active.Index() + step
	if target < 0 || target >= len(workspaces) {
		return false
	}
	workspaces[target].Activate(c.deps.Workspaces.CurrentTime())
	return true
}

// HandleFocusLoss closes the overview when key focus has left it.
func (c *Controller) HandleFocusLoss() {
	if c.IsOpen() && !c.deps.Stage.KeyFocusWithin(RootFocus) {
		c.log.Debug("focus left the overview")
		c.Toggle()
	}
}

// WorkspaceAdded implements compositor.WorkspaceListener.
func (c *Controller) WorkspaceAdded(index int) {
	if _, err := c.rail.Add(index); err != nil {
		c.invariant("add_out_of_range", err)
		return
	}
	c.deps.Metrics.SetWorkspaces(c.rail.Len())
}

// WorkspaceRemoved implements compositor.WorkspaceListener.
func (c *Controller) WorkspaceRemoved(index int) {
	if err := c.rail.Remove(index); err != nil {
		kind := "removal"
		switch {
		case errors.Is(err, rail.ErrNoRemovalCandidate):
			kind = "no_removal_candidate"
		case errors.Is(err, rail.ErrAmbiguousRemoval):
			kind = "ambiguous_removal"
		}
		c.invariant(kind, err)
		return
	}
	c.deps.Metrics.SetWorkspaces(c.rail.Len())
}

// WorkspaceSwitched implements compositor.WorkspaceListener.
func (c *Controller) WorkspaceSwitched(from, to int, direction compositor.Direction) {
	c.rail.Reposition(c.state != StateClosed)
}

// MonitorsChanged re-lays the overview out for a new monitor topology.
func (c *Controller) MonitorsChanged() {
	width := c.primaryGeometry().Width
	c.rail.SetViewWidth(width)
	c.icons.SetViewport(width)
	c.positionIcons()
	c.overlays.Rebuild()
	c.rail.Reposition(false)
	c.deps.Metrics.SetOverlays(c.overlays.Len())
}

// PreferenceChanged reacts to the workspaces-only-on-primary preference.
// Other names are ignored.
func (c *Controller) PreferenceChanged(name string) {
	if name != prefs.WorkspacesOnlyOnPrimary {
		return
	}
	c.overlays.Rebuild()
	c.deps.Metrics.SetOverlays(c.overlays.Len())
}

// windowSelected activates the chosen window. A window on another workspace
// switches to that workspace and keeps the overview up.
func (c *Controller) windowSelected(w compositor.Window) {
	ts := c.deps.Workspaces.CurrentTime()
	if ws := w.Workspace(); ws != nil && ws != c.deps.Workspaces.Active() {
		ws.Activate(ts)
		return
	}
	w.Activate(ts)
	if c.IsOpen() {
		c.Toggle()
	}
}

// Close drops every subscription and releases the grab if it is still held.
func (c *Controller) Close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.modal.Held() {
		if err := c.modal.Release(); err != nil {
			c.log.Warn("release on close", zap.Error(err))
		}
	}
}

func (c *Controller) primaryGeometry() compositor.Rect {
	return c.deps.Monitors.Geometry(c.deps.Monitors.Primary())
}

// positionIcons puts the icon rail along the bottom of the primary monitor,
// below the workspace content.
func (c *Controller) positionIcons() {
	g := c.primaryGeometry()
	c.icons.SetY(g.Y + g.Height - c.icons.Height() - iconGap)
}

func (c *Controller) invariant(kind string, err error) {
	c.deps.Metrics.IncInvariant(kind)
	c.log.Warn("invariant violated, ignoring", zap.String("kind", kind), zap.Error(err))
}
