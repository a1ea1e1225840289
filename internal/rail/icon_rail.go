package rail

import "time"

// IconRailOptions sizes the icon rail.
type IconRailOptions struct {
	IconSize           int
	Spacing            int
	Margin             int
	RepositionDuration time.Duration
}

// IconRail is the horizontal strip of icon groups, one per workspace, in
// workspace order. It re-centers on the active workspace whenever the
// WorkspaceRail repositions.
type IconRail struct {
	opts     IconRailOptions
	groups   []*IconGroup
	viewport float64
	x, y     float64
	duration time.Duration
}

// NewIconRail creates an empty icon rail for a viewport of the given width.
func NewIconRail(opts IconRailOptions, viewport int) *IconRail {
	return &IconRail{opts: opts, viewport: float64(viewport)}
}

// Register inserts g at position index, clamped to the current bounds.
func (r *IconRail) Register(g *IconGroup, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(r.groups) {
		index = len(r.groups)
	}
	r.groups = append(r.groups, nil)
	copy(r.groups[index+1:], r.groups[index:])
	r.groups[index] = g
}

// Unregister removes g. Returns false if g was not registered.
func (r *IconRail) Unregister(g *IconGroup) bool {
	for i, x := range r.groups {
		if x == g {
			r.groups = append(r.groups[:i], r.groups[i+1:]...)
			return true
		}
	}
	return false
}

// Groups returns the registered groups in rail order.
func (r *IconRail) Groups() []*IconGroup {
	return append([]*IconGroup(nil), r.groups...)
}

// SetViewport updates the width the rail is laid out against.
func (r *IconRail) SetViewport(width int) { r.viewport = float64(width) }

// SetY places the rail vertically.
func (r *IconRail) SetY(y int) { r.y = float64(y) }

// Height is the rail's height: one icon row.
func (r *IconRail) Height() int { return r.opts.IconSize }

// X returns the rail's horizontal offset.
func (r *IconRail) X() float64 { return r.x }

// Y returns the rail's vertical position.
func (r *IconRail) Y() float64 { return r.y }

// Duration is the transition duration of the last reposition.
func (r *IconRail) Duration() time.Duration { return r.duration }

// TotalWidth is the summed width of every icon slot.
func (r *IconRail) TotalWidth() float64 {
	return float64(len(r.groups) * (r.opts.IconSize + r.opts.Spacing))
}

// Reposition lays out the rail around the workspace at active. A rail that
// fits the viewport is centered; a wider one follows the active slot but is
// clamped so it never scrolls past its first or last icon by more than the
// margin.
func (r *IconRail) Reposition(animate bool, active int) {
	r.x = iconRailX(r.viewport, r.TotalWidth(), active, r.opts)
	r.duration = 0
	if animate {
		r.duration = r.opts.RepositionDuration
	}
}

func iconRailX(viewport, total float64, active int, opts IconRailOptions) float64 {
	if total <= viewport {
		return (viewport - total) / 2
	}
	margin := float64(opts.Margin)
	x := -float64(active)*float64(opts.Spacing+opts.IconSize) + viewport/2
	lo, hi := viewport-total-margin, margin
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return x
}
