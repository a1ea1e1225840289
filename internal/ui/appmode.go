package ui

// AppMode is what the simulated screen currently shows. Bindings can be
// limited to one mode.
type AppMode int

const (
	ModeDesktop AppMode = iota
	ModeOverview
)

func (m AppMode) String() string {
	switch m {
	case ModeDesktop:
		return "Desktop"
	case ModeOverview:
		return "Overview"
	default:
		return "Unknown"
	}
}
