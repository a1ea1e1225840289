package overview

import (
	"errors"

	"wsoverview/internal/compositor"
)

// ErrNoActiveView means no WorkspaceView is bound to the active workspace.
var ErrNoActiveView = errors.New("no view for the active workspace")

// RootFocus is the focus target of the overview. Focus inside its subtree
// counts as focus within the overview.
const RootFocus compositor.FocusTarget = "overview"

// State is the overview's position in its open/close cycle. Opening and
// Closing are the animating states; only the transition's completion leaves
// them.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpening:
		return "Opening"
	case StateOpen:
		return "Open"
	case StateClosing:
		return "Closing"
	default:
		return "Unknown"
	}
}

// Animating reports whether a transition is in flight.
func (s State) Animating() bool {
	return s == StateOpening || s == StateClosing
}

// Key is a key the overview reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyKPEnter
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyEnter:
		return "Return"
	case KeyKPEnter:
		return "KP_Enter"
	default:
		return "Other"
	}
}

func (k Key) direction() (compositor.Direction, bool) {
	switch k {
	case KeyUp:
		return compositor.DirectionUp, true
	case KeyDown:
		return compositor.DirectionDown, true
	case KeyLeft:
		return compositor.DirectionLeft, true
	case KeyRight:
		return compositor.DirectionRight, true
	}
	return 0, false
}
