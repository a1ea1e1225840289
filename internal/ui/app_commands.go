package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"wsoverview/internal/prefs"
)

// msgCmd returns a command that emits msg.
func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// registerBindings installs the simulator's key bindings. Single keys drive
// the overview and the pointer; SPC-prefixed sequences change topology and
// preferences.
func registerBindings(reg *KeybindRegistry) {
	reg.BindWithDesc("o", msgCmd(ToggleMsg{}), "Overview")
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("tab", msgCmd(FocusNextMsg{}), "Focus next")
	reg.BindWithDesc("shift+tab", msgCmd(FocusPrevMsg{}), "Focus prev")

	overviewOnly := []AppMode{ModeOverview}
	reg.BindWithDescForMode("[", msgCmd(ScrollMsg{DX: -2}), "Swipe left", overviewOnly)
	reg.BindWithDescForMode("]", msgCmd(ScrollMsg{DX: 2}), "Swipe right", overviewOnly)
	reg.BindWithDescForMode("{", msgCmd(ScrollMsg{DY: -1}), "Wheel up", overviewOnly)
	reg.BindWithDescForMode("}", msgCmd(ScrollMsg{DY: 1}), "Wheel down", overviewOnly)

	reg.BindWithDesc("SPC w a", msgCmd(AddWorkspaceMsg{}), "Add workspace")
	reg.BindWithDesc("SPC w x", msgCmd(RemoveWorkspaceMsg{}), "Remove workspace")
	reg.BindWithDesc("SPC w n", msgCmd(NextWorkspaceMsg{}), "Next workspace")
	reg.BindWithDesc("SPC w o", msgCmd(AddWindowMsg{}), "Open window")
	reg.BindWithDesc("SPC m a", msgCmd(AddMonitorMsg{}), "Add monitor")
	reg.BindWithDesc("SPC m x", msgCmd(RemoveMonitorMsg{}), "Remove monitor")
	reg.BindWithDesc("SPC p p", msgCmd(TogglePrefMsg{Name: prefs.WorkspacesOnlyOnPrimary}), "Only on primary")
	reg.BindWithDesc("SPC p d", msgCmd(TogglePrefMsg{Name: prefs.DynamicWorkspaces}), "Dynamic workspaces")
	reg.BindWithDesc("SPC t", msgCmd(ToggleTraceMsg{}), "Traces")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
}

// setPrefCmd writes a preference off the update goroutine. The store
// delivers change notifications through the event loop, which sends them
// back to the program; doing that from inside Update would block on the
// program's own message channel.
func setPrefCmd(store *prefs.Store, name string, value any) tea.Cmd {
	return func() tea.Msg {
		store.Set(name, value)
		return statusMsg(fmt.Sprintf("%s = %v", name, value))
	}
}

// windowApps cycles through app ids for windows opened from the keyboard.
var windowApps = []string{"terminal", "browser", "editor", "files", "mail"}
