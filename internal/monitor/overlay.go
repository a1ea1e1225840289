// Package monitor builds the overview surfaces for secondary monitors when
// workspaces only span the primary monitor.
package monitor

import (
	"go.uber.org/zap"

	"wsoverview/internal/compositor"
	"wsoverview/internal/logging"
)

// Overlay is the overview surface of one non-primary monitor.
type Overlay struct {
	id       int
	geometry compositor.Rect
	stage    compositor.Stage

	visible bool
	opened  bool
	windows []string
}

// ID returns the monitor index.
func (o *Overlay) ID() int { return o.id }

// Geometry returns the monitor rectangle.
func (o *Overlay) Geometry() compositor.Rect { return o.geometry }

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool { return o.visible }

// Opened reports whether the overlay's last animation was an open.
func (o *Overlay) Opened() bool { return o.opened }

// Windows returns the window ids captured when the overlay last opened.
func (o *Overlay) Windows() []string { return append([]string(nil), o.windows...) }

// Show makes the overlay visible.
func (o *Overlay) Show() { o.visible = true }

// Hide makes the overlay invisible.
func (o *Overlay) Hide() { o.visible = false }

// Open snapshots the monitor's windows and starts the open animation.
func (o *Overlay) Open() {
	o.windows = o.windows[:0]
	for _, w := range o.stage.WindowsOn(o.id) {
		o.windows = append(o.windows, w.ID())
	}
	o.opened = true
}

// Close starts the close animation. The overlay stays visible until Hide.
func (o *Overlay) Close() { o.opened = false }

// OnlyOnPrimary answers whether workspaces are confined to the primary
// monitor.
type OnlyOnPrimary func() bool

// Set owns one Overlay per non-primary monitor. It is rebuilt from scratch
// whenever topology or the only-on-primary preference changes.
type Set struct {
	monitors compositor.MonitorSource
	stage    compositor.Stage
	enabled  OnlyOnPrimary
	log      *zap.Logger

	overlays []*Overlay
	open     bool
}

// NewSet creates an empty set. Call Rebuild to populate it.
func NewSet(monitors compositor.MonitorSource, stage compositor.Stage, enabled OnlyOnPrimary, log *zap.Logger) *Set {
	return &Set{
		monitors: monitors,
		stage:    stage,
		enabled:  enabled,
		log:      logging.OrNop(log),
	}
}

// Overlays returns the current overlays in monitor order.
func (s *Set) Overlays() []*Overlay {
	return append([]*Overlay(nil), s.overlays...)
}

// Len returns the number of overlays.
func (s *Set) Len() int { return len(s.overlays) }

// Rebuild discards every overlay and creates fresh ones. When the overview
// is open the new overlays are shown and opened immediately.
func (s *Set) Rebuild() {
	for _, o := range s.overlays {
		o.Hide()
	}
	s.overlays = nil
	if !s.enabled() {
		s.log.Debug("monitor overlays disabled")
		return
	}
	primary := s.monitors.Primary()
	for i := 0; i < s.monitors.NumMonitors(); i++ {
		if i == primary {
			continue
		}
		o := &Overlay{id: i, geometry: s.monitors.Geometry(i), stage: s.stage}
		if s.open {
			o.Show()
			o.Open()
		}
		s.overlays = append(s.overlays, o)
	}
	s.log.Debug("monitor overlays rebuilt", zap.Int("count", len(s.overlays)))
}

// OpenAll shows and opens every overlay.
func (s *Set) OpenAll() {
	s.open = true
	for _, o := range s.overlays {
		o.Show()
		o.Open()
	}
}

// CloseAll starts every overlay's close animation.
func (s *Set) CloseAll() {
	s.open = false
	for _, o := range s.overlays {
		o.Close()
	}
}

// HideAll hides every overlay.
func (s *Set) HideAll() {
	for _, o := range s.overlays {
		o.Hide()
	}
}
