package scroll

import (
	"testing"
	"time"
)

var epoch = time.Unix(1000, 0)

func at(ms int) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

func TestStep_Discrete(t *testing.T) {
	d := New(DefaultOptions(), nil)
	tests := []struct {
		ev   Event
		want int
	}{
		{Event{DY: 1}, 1},
		{Event{DY: -1}, -1},
		{Event{DX: 1}, 1},
		{Event{DX: -1}, -1},
	}
	for _, tt := range tests {
		step, src := d.Step(Event{DX: tt.ev.DX, DY: tt.ev.DY, Time: epoch})
		if step != tt.want || src != SourceDiscrete {
			t.Errorf("Step(%+v): expected %d discrete, got %d %q", tt.ev, tt.want, step, src)
		}
	}
}

func TestStep_DiscreteIsNotDebounced(t *testing.T) {
	d := New(DefaultOptions(), nil)
	for i := 0; i < 5; i++ {
		if step, _ := d.Step(Event{DY: 1, Time: at(i)}); step != 1 {
			t.Fatalf("click %d: expected step 1, got %d", i, step)
		}
	}
}

func TestStep_Deadzone(t *testing.T) {
	d := New(DefaultOptions(), nil)
	for _, ev := range []Event{
		{DX: 0.29, DY: 0.1},
		{DX: -0.2, DY: -0.29},
		{},
	} {
		ev.Time = epoch
		if step, src := d.Step(ev); step != 0 || src != SourceNone {
			t.Errorf("Step(%+v): expected no step, got %d %q", ev, step, src)
		}
	}
	// Deadzone events do not open a debounce window.
	if step, _ := d.Step(Event{DY: 0.5, Time: epoch}); step != 1 {
		t.Errorf("after deadzone events: expected step 1, got %d", step)
	}
}

func TestStep_SmoothUsesLargerAxis(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   int
	}{
		{0.4, -2.0, -1},
		{-3.0, 0.5, -1},
		{0.8, 0.2, 1},
		{1.0, 1.0, 1}, // both axes: not a wheel click
	}
	for _, tt := range tests {
		d := New(DefaultOptions(), nil)
		step, src := d.Step(Event{DX: tt.dx, DY: tt.dy, Time: epoch})
		if step != tt.want || src != SourceSmooth {
			t.Errorf("Step(%v, %v): expected %d smooth, got %d %q", tt.dx, tt.dy, tt.want, step, src)
		}
	}
}

func TestStep_SmoothWindow(t *testing.T) {
	d := New(DefaultOptions(), nil)

	steps := 0
	for _, ms := range []int{0, 100, 250, 499} {
		if step, _ := d.Step(Event{DY: 2, Time: at(ms)}); step != 0 {
			steps++
		}
	}
	if steps != 1 {
		t.Fatalf("events within 500ms: expected 1 step, got %d", steps)
	}

	if step, _ := d.Step(Event{DY: -2, Time: at(500)}); step != -1 {
		t.Errorf("after the window: expected step -1, got %d", step)
	}
	if step, _ := d.Step(Event{DY: -2, Time: at(700)}); step != 0 {
		t.Errorf("window restarted: expected no step, got %d", step)
	}
}

func TestStep_UsesClockForZeroTime(t *testing.T) {
	now := epoch
	d := New(DefaultOptions(), func() time.Time { return now })

	if step, _ := d.Step(Event{DX: 0.6}); step != 1 {
		t.Fatalf("first: expected step 1, got %d", step)
	}
	now = now.Add(100 * time.Millisecond)
	if step, _ := d.Step(Event{DX: 0.6}); step != 0 {
		t.Errorf("within window: expected no step, got %d", step)
	}
	now = now.Add(time.Second)
	if step, _ := d.Step(Event{DX: 0.6}); step != 1 {
		t.Errorf("after window: expected step 1, got %d", step)
	}
}
