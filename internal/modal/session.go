// Package modal owns the exclusive input grab the overview holds while it is
// on screen.
package modal

import (
	"errors"

	"go.uber.org/zap"

	"wsoverview/internal/compositor"
	"wsoverview/internal/logging"
)

var (
	ErrAlreadyHeld = errors.New("modal session already held")
	ErrNotHeld     = errors.New("modal session not held")
	ErrGrabDenied  = errors.New("compositor denied the modal grab")
)

// Session acquires the grab, hides the desktop layers and moves key focus
// into the overview. Release undoes all of it. Each Acquire pairs with exactly
// one Release.
type Session struct {
	grabber         compositor.Grabber
	layers          compositor.Layers
	focus           compositor.Focus
	root            compositor.FocusTarget
	keepKeybindings bool
	log             *zap.Logger

	held bool
}

// NewSession creates a released session. root is the focus target that
// receives key focus on Acquire.
func NewSession(grabber compositor.Grabber, layers compositor.Layers, focus compositor.Focus,
	root compositor.FocusTarget, keepKeybindings bool, log *zap.Logger) *Session {
	return &Session{
		grabber:         grabber,
		layers:          layers,
		focus:           focus,
		root:            root,
		keepKeybindings: keepKeybindings,
		log:             logging.OrNop(log),
	}
}

// Held reports whether the grab is held.
func (s *Session) Held() bool { return s.held }

// Acquire takes the grab. When the compositor refuses it the layers and focus
// are left alone and ErrGrabDenied is returned.
func (s *Session) Acquire() error {
	if s.held {
		return ErrAlreadyHeld
	}
	if !s.grabber.BeginModal(s.keepKeybindings) {
		s.log.Warn("modal grab denied")
		return ErrGrabDenied
	}
	s.held = true
	s.layers.Background().Hide()
	s.layers.Windows().Hide()
	s.layers.TopWindows().Hide()
	s.focus.SetKeyFocus(s.root)
	s.log.Debug("modal session acquired")
	return nil
}

// Release shows the layers again and ends the grab.
func (s *Session) Release() error {
	if !s.held {
		return ErrNotHeld
	}
	s.layers.Background().Show()
	s.layers.Windows().Show()
	s.layers.TopWindows().Show()
	s.grabber.EndModal()
	s.held = false
	s.log.Debug("modal session released")
	return nil
}
