package ui

import tea "github.com/charmbracelet/bubbletea"

// View is one region of the simulator screen (overview, trace panel) with
// its own Init/Update/View cycle. Update returns the view to keep.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
