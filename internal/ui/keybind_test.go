package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeybindRegistry_BindLookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("SPC q", tea.Quit)
	reg.Bind("j", nil)

	if reg.Lookup("q", ModeDesktop) == nil {
		t.Error("expected q to be bound")
	}
	if reg.Lookup("SPC q", ModeDesktop) == nil {
		t.Error("expected SPC q to be bound")
	}
	if reg.Lookup("unknown", ModeDesktop) != nil {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", func() tea.Msg {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	// Press space -> leader waiting (Bubble Tea reports space as " ")
	consumed, cmd := h.Handle(keyMsg(" "), ModeDesktop)
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting {
		t.Error("expected leader waiting after space")
	}

	// Press x -> execute SPC x
	consumed, cmd = h.Handle(keyMsg("x"), ModeDesktop)
	if !consumed {
		t.Errorf("x: expected consumed")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if cmd != nil {
		cmd()
		if !executed {
			t.Error("expected command to execute")
		}
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeDesktop)
	if !h.LeaderWaiting {
		t.Fatal("expected leader waiting")
	}

	consumed, cmd := h.Handle(keyMsg("esc"), ModeDesktop)
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_SingleKey(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg("q"), ModeDesktop)
	if !consumed || cmd == nil {
		t.Errorf("q: consumed=%v cmd=%v", consumed, cmd)
	}
}

func TestKeyHandler_UnboundFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	h := NewKeyHandler(reg)

	consumed, _ := h.Handle(keyMsg("j"), ModeDesktop)
	if consumed {
		t.Error("unbound j should not be consumed")
	}
}

func TestKeyHandler_NestedLeaderSequence(t *testing.T) {
	reg := NewKeybindRegistry()
	var got string
	reg.Bind("SPC w a", func() tea.Msg {
		got = "add"
		return nil
	})
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeDesktop)
	consumed, cmd := h.Handle(keyMsg("w"), ModeDesktop)
	if !consumed || cmd != nil || !h.LeaderWaiting {
		t.Fatalf("w: consumed=%v cmd=%v waiting=%v", consumed, cmd != nil, h.LeaderWaiting)
	}
	_, cmd = h.Handle(keyMsg("a"), ModeDesktop)
	if cmd == nil {
		t.Fatal("a: expected command")
	}
	cmd()
	if got != "add" {
		t.Errorf("expected SPC w a to run, got %q", got)
	}
}

func TestKeyHandler_UnknownLeaderSequenceResets(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC w a", tea.Quit)
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModeDesktop)
	consumed, cmd := h.Handle(keyMsg("z"), ModeDesktop)
	if !consumed || cmd != nil {
		t.Errorf("z: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting || h.Buffer != nil {
		t.Error("unknown sequence should leave leader mode")
	}
}

func TestKeybindRegistry_LeaderHintsUseSubmenuLabels(t *testing.T) {
	reg := NewKeybindRegistry()
	registerBindings(reg)

	top := reg.LeaderHints("", ModeDesktop)
	for key, want := range map[string]string{"w": "Workspace", "m": "Monitor", "p": "Preference", "t": "Traces", "q": "Quit"} {
		if top[key] != want {
			t.Errorf("SPC %s: expected %q, got %q", key, want, top[key])
		}
	}

	ws := reg.LeaderHints("SPC w", ModeDesktop)
	if ws["a"] != "Add workspace" || ws["x"] != "Remove workspace" {
		t.Errorf("SPC w hints: got %v", ws)
	}
}

func TestKeybindRegistry_HintsFilterByMode(t *testing.T) {
	reg := NewKeybindRegistry()
	registerBindings(reg)

	desktop := reg.Hints(ModeDesktop)
	if _, ok := desktop["]"]; ok {
		t.Error("swipe keys should not be hinted on the desktop")
	}
	if desktop["o"] != "Overview" {
		t.Errorf("o: expected Overview, got %q", desktop["o"])
	}
	if _, ok := desktop["SPC q"]; ok {
		t.Error("leader sequences are not single-key hints")
	}

	if reg.Hints(ModeOverview)["]"] != "Swipe right" {
		t.Error("swipe keys should be hinted in the overview")
	}
}

func TestKeyMap_ShortHelpFollowsLeaderState(t *testing.T) {
	reg := NewKeybindRegistry()
	registerBindings(reg)
	h := NewKeyHandler(reg)
	km := NewKeyMap(reg, h, ModeDesktop)

	for _, b := range km.ShortHelp() {
		if b.Help().Key == "esc" {
			t.Error("esc cancel only applies in leader mode")
		}
	}

	h.Handle(keyMsg(" "), ModeDesktop)
	bindings := km.ShortHelp()
	if len(bindings) == 0 || bindings[len(bindings)-1].Help().Key != "esc" {
		t.Errorf("leader mode: expected trailing esc binding, got %d bindings", len(bindings))
	}
}

func TestKeyHandler_ModeLimitedBindings(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDescForMode("]", tea.Quit, "Swipe right", []AppMode{ModeOverview})
	h := NewKeyHandler(reg)

	if consumed, cmd := h.Handle(keyMsg("]"), ModeDesktop); consumed || cmd != nil {
		t.Errorf("desktop: expected ] to fall through, got consumed=%v", consumed)
	}
	if consumed, cmd := h.Handle(keyMsg("]"), ModeOverview); !consumed || cmd == nil {
		t.Errorf("overview: expected ] to fire, got consumed=%v", consumed)
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
