package ui

// RunMsg carries a callback posted to the event loop (expired timers,
// deferred preference notifications). Update runs Fn.
type RunMsg struct {
	Fn func()
}

// ToggleMsg opens or closes the overview (o).
type ToggleMsg struct{}

// ScrollMsg is a pointer scroll. Wheel clicks are discrete (one axis, ±1);
// touchpad-style deltas are smooth.
type ScrollMsg struct {
	DX, DY float64
}

// AddWorkspaceMsg appends a workspace after the active one (SPC w a).
type AddWorkspaceMsg struct{}

// RemoveWorkspaceMsg removes the active workspace (SPC w x).
type RemoveWorkspaceMsg struct{}

// NextWorkspaceMsg switches to the next workspace, wrapping (SPC w n).
type NextWorkspaceMsg struct{}

// AddWindowMsg opens a new window on the active workspace (SPC w o).
type AddWindowMsg struct{}

// AddMonitorMsg plugs in another monitor (SPC m a).
type AddMonitorMsg struct{}

// RemoveMonitorMsg unplugs the last non-primary monitor (SPC m x).
type RemoveMonitorMsg struct{}

// TogglePrefMsg flips a boolean preference (SPC p p, SPC p d).
type TogglePrefMsg struct {
	Name string
}

// FocusNextMsg moves key focus to the next panel (tab).
type FocusNextMsg struct{}

// FocusPrevMsg moves key focus to the previous panel (shift+tab).
type FocusPrevMsg struct{}

// ToggleTraceMsg shows or hides the session trace panel (SPC t).
type ToggleTraceMsg struct{}

// statusMsg replaces the status line.
type statusMsg string
