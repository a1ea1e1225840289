package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp renders the transient which-key box shown after SPC.
// It lists the next keys of the sequence typed so far (e.g. "a", "x" after
// "SPC w") for the current mode, prefixed with that sequence.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil || keyHandler.Registry == nil {
		return ""
	}
	seq := strings.Join(keyHandler.Buffer, " ")
	bindings := hintBindings(keyHandler.Registry.LeaderHints(seq, mode), true)
	if len(bindings) == 0 {
		return ""
	}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = Styles.Hint
	h.Styles.ShortSeparator = Styles.Hint

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)

	if seq == "" {
		seq = keyHandler.LeaderSeq
	}
	return box.Render(Styles.Hint.Render(seq) + " " + h.ShortHelpView(bindings))
}
