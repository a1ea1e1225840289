// Package rail lays out the overview's workspaces: the WorkspaceRail of
// per-workspace views and the IconRail that mirrors it.
package rail

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wsoverview/internal/compositor"
	"wsoverview/internal/logging"
)

var (
	// ErrIndexOutOfRange is returned by Add for an index outside the rail
	// or the live workspace set.
	ErrIndexOutOfRange = errors.New("workspace index out of range")
	// ErrNoRemovalCandidate means every view still maps to a live workspace.
	ErrNoRemovalCandidate = errors.New("no view without a live workspace")
	// ErrAmbiguousRemoval means more than one view lost its workspace.
	ErrAmbiguousRemoval = errors.New("several views without a live workspace")
)

// Options configures a WorkspaceRail.
type Options struct {
	ViewWidth          int
	OverlapMargin      int
	RepositionDuration time.Duration
	// OnWindowSelected receives window-selected notifications from every
	// view's container. Registration is scoped to the view's lifetime.
	OnWindowSelected func(compositor.Window)
}

// WorkspaceRail holds exactly one WorkspaceView per live workspace, ordered
// by workspace index. The whole rail slides as one so the active workspace
// sits at the viewport origin.
type WorkspaceRail struct {
	source compositor.WorkspaceSource
	stage  compositor.Stage
	icons  *IconRail
	opts   Options
	log    *zap.Logger

	views  []*WorkspaceView
	zorder []*WorkspaceView // bottom to top

	x        int
	duration time.Duration
	open     bool
}

// New creates an empty rail. Call Populate to build views for the workspaces
// that already exist.
func New(source compositor.WorkspaceSource, stage compositor.Stage, icons *IconRail, opts Options, log *zap.Logger) *WorkspaceRail {
	return &WorkspaceRail{
		source: source,
		stage:  stage,
		icons:  icons,
		opts:   opts,
		log:    logging.OrNop(log),
	}
}

// Populate adds a view for every live workspace and lays the rail out.
func (r *WorkspaceRail) Populate() {
	for i := range r.source.Workspaces() {
		r.insert(i)
	}
	r.Reposition(false)
}

// SetOpen delivers the controller's open/closed signal. The rail never
// changes it on its own.
func (r *WorkspaceRail) SetOpen(open bool) { r.open = open }

// SetViewWidth updates the per-view width used by the layout.
func (r *WorkspaceRail) SetViewWidth(width int) { r.opts.ViewWidth = width }

// Views returns the views in index order.
func (r *WorkspaceRail) Views() []*WorkspaceView {
	return append([]*WorkspaceView(nil), r.views...)
}

// ZOrder returns the views bottom to top.
func (r *WorkspaceRail) ZOrder() []*WorkspaceView {
	return append([]*WorkspaceView(nil), r.zorder...)
}

// Len returns the number of views.
func (r *WorkspaceRail) Len() int { return len(r.views) }

// X is the rail's own offset.
func (r *WorkspaceRail) X() int { return r.x }

// Duration is the transition duration of the last reposition.
func (r *WorkspaceRail) Duration() time.Duration { return r.duration }

// Icons returns the icon rail kept in step with this rail.
func (r *WorkspaceRail) Icons() *IconRail { return r.icons }

// Add builds a view for the workspace now at index and inserts it at that
// position. If the overview is open the new view starts opening right away so
// it matches its already visible siblings.
func (r *WorkspaceRail) Add(index int) (*WorkspaceView, error) {
	if index < 0 || index > len(r.views) || index >= len(r.source.Workspaces()) {
		return nil, fmt.Errorf("add workspace %d (rail has %d): %w", index, len(r.views), ErrIndexOutOfRange)
	}
	v := r.insert(index)
	r.Reposition(r.open)
	if r.open {
		v.Open(nil)
	}
	return v, nil
}

func (r *WorkspaceRail) insert(index int) *WorkspaceView {
	ws := r.source.Workspaces()[index]
	clone := r.stage.NewClone(ws)
	v := &WorkspaceView{
		workspace: ws,
		clone:     clone,
		icons:     newIconGroup(ws, clone),
	}
	if r.opts.OnWindowSelected != nil {
		v.unsubscribe = clone.Container().OnWindowSelected(r.opts.OnWindowSelected)
	}
	r.views = append(r.views, nil)
	copy(r.views[index+1:], r.views[index:])
	r.views[index] = v
	r.zorder = append(r.zorder, v)
	r.icons.Register(v.icons, index)
	return v
}

// Remove reconciles the rail against the live workspace set after a removal
// notification. The view whose workspace handle is no longer live is the one
// removed; index is only used for logging since indices have already shifted.
func (r *WorkspaceRail) Remove(index int) error {
	live := make(map[compositor.Workspace]bool)
	for _, ws := range r.source.Workspaces() {
		live[ws] = true
	}
	pos := -1
	for i, v := range r.views {
		if live[v.workspace] {
			continue
		}
		if pos >= 0 {
			return fmt.Errorf("remove workspace %d: %w", index, ErrAmbiguousRemoval)
		}
		pos = i
	}
	if pos < 0 {
		return fmt.Errorf("remove workspace %d: %w", index, ErrNoRemovalCandidate)
	}

	v := r.views[pos]
	r.icons.Unregister(v.icons)
	r.views = append(r.views[:pos], r.views[pos+1:]...)
	for i, z := range r.zorder {
		if z == v {
			r.zorder = append(r.zorder[:i], r.zorder[i+1:]...)
			break
		}
	}
	v.destroy()
	r.log.Debug("workspace view removed", zap.Int("index", index), zap.Int("position", pos))
	r.Reposition(r.open)
	return nil
}

// ActiveView returns the view bound to the active workspace.
func (r *WorkspaceRail) ActiveView() (*WorkspaceView, bool) {
	active := r.source.Active()
	if active == nil {
		return nil, false
	}
	for _, v := range r.views {
		if v.workspace == active {
			return v, true
		}
	}
	return nil, false
}

// Raise stacks v above its siblings.
func (r *WorkspaceRail) Raise(v *WorkspaceView) {
	for i, z := range r.zorder {
		if z == v {
			r.zorder = append(r.zorder[:i], r.zorder[i+1:]...)
			break
		}
	}
	r.zorder = append(r.zorder, v)
	v.clone.Raise()
}

// Reposition assigns each view its slot and slides the rail so the active
// view is at the origin, then re-centers the icon rail on the same index.
// Adjacent slots overlap by OverlapMargin so neighbors peek in at the edges.
func (r *WorkspaceRail) Reposition(animate bool) {
	d := time.Duration(0)
	if animate {
		d = r.opts.RepositionDuration
	}
	active := -1
	if ws := r.source.Active(); ws != nil {
		active = ws.Index()
	}
	step := r.opts.ViewWidth - r.opts.OverlapMargin
	r.x = 0
	for i, v := range r.views {
		v.x = i * step
		v.active = i == active
		v.duration = d
		if v.active {
			r.x = -v.x
		}
	}
	r.duration = d
	r.icons.Reposition(animate, active)
}
