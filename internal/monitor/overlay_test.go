package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsoverview/internal/compositor"
	"wsoverview/internal/compositor/sim"
	"wsoverview/internal/loop"
)

func newSetWithMonitors(t *testing.T, extra int, enabled *bool) (*Set, *sim.Compositor) {
	t.Helper()
	c := sim.New(loop.NewManual(time.Unix(0, 0)), sim.Options{}, 1, compositor.Rect{Width: 1920, Height: 1080})
	for i := 0; i < extra; i++ {
		c.AddMonitor(1280, 1024)
	}
	s := NewSet(c, c, func() bool { return *enabled }, nil)
	s.Rebuild()
	return s, c
}

func TestRebuild_OnePerSecondaryMonitor(t *testing.T) {
	enabled := true
	s, _ := newSetWithMonitors(t, 2, &enabled)

	require.Equal(t, 2, s.Len())
	ids := []int{s.Overlays()[0].ID(), s.Overlays()[1].ID()}
	assert.Equal(t, []int{1, 2}, ids)
	assert.Equal(t, 1920, s.Overlays()[0].Geometry().X)
}

func TestRebuild_DisabledByPreference(t *testing.T) {
	enabled := false
	s, _ := newSetWithMonitors(t, 2, &enabled)
	assert.Equal(t, 0, s.Len())

	enabled = true
	s.Rebuild()
	assert.Equal(t, 2, s.Len())
}

func TestRebuild_SkipsPrimary(t *testing.T) {
	enabled := true
	s, c := newSetWithMonitors(t, 0, &enabled)
	c.SetMonitors([]compositor.Rect{{Width: 800, Height: 600}, {X: 800, Width: 1920, Height: 1080}}, 1)
	s.Rebuild()
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Overlays()[0].ID())
}

func TestOpenCloseHide(t *testing.T) {
	enabled := true
	s, c := newSetWithMonitors(t, 1, &enabled)
	c.AddWindow("w1", "term", 0, 1)
	c.AddWindow("w2", "term", 0, 0)

	s.OpenAll()
	o := s.Overlays()[0]
	assert.True(t, o.Visible())
	assert.True(t, o.Opened())
	assert.Equal(t, []string{"w1"}, o.Windows())

	s.CloseAll()
	assert.False(t, o.Opened())
	assert.True(t, o.Visible(), "overlay stays visible until the deferred hide")

	s.HideAll()
	assert.False(t, o.Visible())
}

func TestRebuild_WhileOpenOpensNewOverlays(t *testing.T) {
	enabled := true
	s, c := newSetWithMonitors(t, 1, &enabled)
	s.OpenAll()
	old := s.Overlays()[0]

	c.AddMonitor(1024, 768)
	s.Rebuild()

	assert.False(t, old.Visible(), "discarded overlays are hidden")
	require.Equal(t, 2, s.Len())
	for _, o := range s.Overlays() {
		assert.True(t, o.Visible())
		assert.True(t, o.Opened())
	}
}
