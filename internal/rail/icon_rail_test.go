package rail

import (
	"testing"
	"time"
)

func railWith(n, viewport int) *IconRail {
	r := NewIconRail(testIconOpts(), viewport)
	for i := 0; i < n; i++ {
		r.Register(&IconGroup{}, i)
	}
	return r
}

func TestIconRail_CentersWhenItFits(t *testing.T) {
	tests := []struct {
		n, viewport int
		want        float64
	}{
		{0, 1000, 500},
		{1, 1000, 460},
		{4, 1000, 340},
		{5, 1001, 300.5},
		{10, 800, 0}, // exactly fills the viewport
	}
	for _, tt := range tests {
		r := railWith(tt.n, tt.viewport)
		r.Reposition(false, 0)
		if r.X() != tt.want {
			t.Errorf("n=%d viewport=%d: expected x=%v, got %v", tt.n, tt.viewport, tt.want, r.X())
		}
	}
}

func TestIconRail_ClampLaw(t *testing.T) {
	const viewport = 500
	for n := 7; n <= 40; n++ {
		r := railWith(n, viewport)
		total := r.TotalWidth()
		lo, hi := viewport-total-64, 64.0
		for active := 0; active < n; active++ {
			r.Reposition(false, active)
			if x := r.X(); x < lo || x > hi {
				t.Errorf("n=%d active=%d: x=%v outside [%v, %v]", n, active, x, lo, hi)
			}
		}
	}
}

func TestIconRail_FollowsActiveInsideBounds(t *testing.T) {
	// 20 slots of 80 = 1600 wide against a 500 viewport.
	r := railWith(20, 500)

	r.Reposition(false, 0)
	if r.X() != 64 {
		t.Errorf("active=0: expected clamp to left margin 64, got %v", r.X())
	}

	r.Reposition(false, 10)
	if want := -10.0*80 + 250; r.X() != want {
		t.Errorf("active=10: expected %v, got %v", want, r.X())
	}

	r.Reposition(false, 19)
	if want := 500.0 - 1600 - 64; r.X() != want {
		t.Errorf("active=19: expected clamp to %v, got %v", want, r.X())
	}
}

func TestIconRail_AnimationDuration(t *testing.T) {
	r := railWith(3, 1000)
	r.Reposition(true, 1)
	if r.Duration() != 200*time.Millisecond {
		t.Errorf("animated: expected 200ms, got %v", r.Duration())
	}
	r.Reposition(false, 1)
	if r.Duration() != 0 {
		t.Errorf("instant: expected 0, got %v", r.Duration())
	}
}

func TestIconRail_RegisterUnregisterOrder(t *testing.T) {
	r := NewIconRail(testIconOpts(), 1000)
	a, b, c := &IconGroup{}, &IconGroup{}, &IconGroup{}
	r.Register(a, 0)
	r.Register(c, 1)
	r.Register(b, 1)

	got := r.Groups()
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("expected order a,b,c, got %v", got)
	}
	if !r.Unregister(b) {
		t.Error("Unregister(b): expected true")
	}
	if r.Unregister(b) {
		t.Error("Unregister(b) twice: expected false")
	}
	if got := r.Groups(); len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("after unregister: expected a,c, got %v", got)
	}
}
