// Package scroll turns raw pointer scroll input into workspace navigation
// steps.
package scroll

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Source classifies the device an event came from.
type Source string

const (
	SourceNone     Source = ""
	SourceDiscrete Source = "discrete"
	SourceSmooth   Source = "smooth"
)

// Event is one scroll delta. Time is the event timestamp; a zero Time is
// replaced by the debouncer's clock.
type Event struct {
	DX, DY float64
	Time   time.Time
}

// Options configures a Debouncer.
type Options struct {
	// Window is the minimum gap between accepted smooth steps.
	Window time.Duration
	// Deadzone is the smallest smooth delta that counts as a step.
	Deadzone float64
}

// DefaultOptions returns a 500ms window and a 0.3 deadzone.
func DefaultOptions() Options {
	return Options{Window: 500 * time.Millisecond, Deadzone: 0.3}
}

// Debouncer maps scroll events to -1 (previous), 0 (none) or +1 (next).
// Discrete wheel clicks always step. Smooth deltas step at most once per
// window.
type Debouncer struct {
	opts    Options
	limiter *rate.Limiter
	now     func() time.Time
}

// New creates a Debouncer. A nil now uses time.Now.
func New(opts Options, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	return &Debouncer{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.Window), 1),
		now:     now,
	}
}

// Step classifies ev and returns the navigation step it produces.
func (d *Debouncer) Step(ev Event) (int, Source) {
	if step, ok := discrete(ev); ok {
		return step, SourceDiscrete
	}

	delta := ev.DY
	if math.Abs(ev.DX) > math.Abs(ev.DY) {
		delta = ev.DX
	}
	if math.Abs(delta) < d.opts.Deadzone {
		return 0, SourceNone
	}

	at := ev.Time
	if at.IsZero() {
		at = d.now()
	}
	if !d.limiter.AllowN(at, 1) {
		return 0, SourceNone
	}
	return sign(delta), SourceSmooth
}

// discrete reports wheel clicks: a magnitude of exactly 1 on one axis and
// nothing on the other.
func discrete(ev Event) (int, bool) {
	switch {
	case math.Abs(ev.DX) == 1 && ev.DY == 0:
		return sign(ev.DX), true
	case math.Abs(ev.DY) == 1 && ev.DX == 0:
		return sign(ev.DY), true
	}
	return 0, false
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
