package rail

import (
	"time"

	"wsoverview/internal/compositor"
)

// WorkspaceView wraps one workspace on the rail: its clone, its icon group,
// and the position the last layout pass gave it.
type WorkspaceView struct {
	workspace compositor.Workspace
	clone     compositor.Clone
	icons     *IconGroup

	x        int
	duration time.Duration
	active   bool
	opened   bool

	unsubscribe func()
}

// Workspace returns the backing workspace handle.
func (v *WorkspaceView) Workspace() compositor.Workspace { return v.workspace }

// Index is the backing workspace's current index.
func (v *WorkspaceView) Index() int { return v.workspace.Index() }

// X is the view's target x position on the rail.
func (v *WorkspaceView) X() int { return v.x }

// Duration is the transition duration of the last reposition.
func (v *WorkspaceView) Duration() time.Duration { return v.duration }

// Active reports whether this view shows the active workspace.
func (v *WorkspaceView) Active() bool { return v.active }

// Opened reports whether the view's last started animation was an open.
func (v *WorkspaceView) Opened() bool { return v.opened }

// IconGroup returns the view's icon summary.
func (v *WorkspaceView) IconGroup() *IconGroup { return v.icons }

// Container returns the view's window container.
func (v *WorkspaceView) Container() compositor.WindowContainer { return v.clone.Container() }

// Open starts the open animation. done runs when it finishes.
func (v *WorkspaceView) Open(done func()) {
	v.opened = true
	v.clone.Open(done)
}

// Close starts the close animation. done runs when it finishes.
func (v *WorkspaceView) Close(done func()) {
	v.opened = false
	v.clone.Close(done)
}

func (v *WorkspaceView) destroy() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.clone.Destroy()
}
