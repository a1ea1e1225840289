package ui

// Panel IDs in focus order.
const (
	PanelOverview = "overview"
	PanelTopBar   = "top-bar"
	PanelDesktop  = "desktop"
)

// FocusManager tracks and rotates key focus across panels.
type FocusManager struct {
	Current  string   // ID of the focused panel
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// NewFocusManager creates a manager over order, focused on the first panel.
func NewFocusManager(order ...string) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next advances focus to the next panel in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	return f.move(1)
}

// Prev moves focus to the previous panel in order.
func (f *FocusManager) Prev() string {
	return f.move(-1)
}

func (f *FocusManager) move(step int) string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.index(f.Current)
	if idx < 0 && step < 0 {
		idx = 0
	}
	n := len(f.Order)
	f.set(f.Order[((idx+step)%n+n)%n], true)
	return f.Current
}

// SetFocus sets focus to the given panel ID and notifies OnChange.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.index(id) < 0 {
		return false
	}
	f.set(id, true)
	return true
}

// Sync records a focus change that already happened elsewhere without
// notifying OnChange.
func (f *FocusManager) Sync(id string) bool {
	if f.index(id) < 0 {
		return false
	}
	f.set(id, false)
	return true
}

func (f *FocusManager) set(id string, notify bool) {
	from := f.Current
	f.Current = id
	if notify && f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}

func (f *FocusManager) index(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}
