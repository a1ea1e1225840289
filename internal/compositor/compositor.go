// Package compositor declares the collaborators the overview consumes from the
// rest of the compositor: workspaces, monitors, stacking layers, the modal
// grab, drag-and-drop, and the per-workspace clones that render windows.
//
// Nothing in this package renders. Implementations live in subpackages (sim
// for the in-memory compositor, x11 for a real monitor source).
package compositor

// Direction is a keyboard or motion direction.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "unknown"
	}
}

// Rect is a monitor or actor geometry in stage units.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Workspace is an ordered workspace handle. Index is contiguous 0..N-1 and
// shifts when an earlier workspace is removed; a removed handle reports -1.
type Workspace interface {
	Index() int
	Activate(timestamp uint32)
}

// Window is a managed toplevel window.
type Window interface {
	ID() string
	Workspace() Workspace
	Activate(timestamp uint32)
}

// WorkspaceListener receives workspace structure notifications.
type WorkspaceListener interface {
	WorkspaceAdded(index int)
	WorkspaceRemoved(index int)
	WorkspaceSwitched(from, to int, direction Direction)
}

// WorkspaceSource is the ordered live workspace set.
type WorkspaceSource interface {
	Workspaces() []Workspace
	Active() Workspace
	CurrentTime() uint32
	Subscribe(l WorkspaceListener) (unsubscribe func())
}

// MonitorSource reports monitor topology.
type MonitorSource interface {
	NumMonitors() int
	Primary() int
	Geometry(monitor int) Rect
	OnMonitorsChanged(fn func()) (unsubscribe func())
}

// Layer is one of the compositor's stacking groups.
type Layer interface {
	Show()
	Hide()
}

// Layers exposes the groups the overview hides while it is up.
type Layers interface {
	Background() Layer
	Windows() Layer
	TopWindows() Layer
}

// Grabber owns the exclusive input grab. BeginModal reports whether the grab
// was granted.
type Grabber interface {
	BeginModal(keepKeybindings bool) bool
	EndModal()
}

// DragCanceller cancels drag operations by tag.
type DragCanceller interface {
	CancelAll(tag string)
}

// FocusTarget names an actor that can hold keyboard focus. Targets form a
// path-like hierarchy: "overview/workspace/2" lies inside "overview".
type FocusTarget string

// Focus controls keyboard focus on the stage.
type Focus interface {
	SetKeyFocus(target FocusTarget)
	KeyFocusWithin(root FocusTarget) bool
}

// WindowContainer is the per-workspace window grid.
type WindowContainer interface {
	SelectNextWindow(direction Direction)
	ActivateSelectedWindow()
	OnWindowSelected(fn func(Window)) (unsubscribe func())
}

// Clone is the rendered, scaled-down copy of one workspace. Open and Close
// start animations and return immediately; done, when non-nil, runs on the
// event loop once the animation finished.
type Clone interface {
	Raise()
	Open(done func())
	Close(done func())
	Container() WindowContainer
	Icons() []string
	Destroy()
}

// Stage creates clones and answers focus queries.
type Stage interface {
	Focus
	NewClone(ws Workspace) Clone
	WindowsOn(monitor int) []Window
}
