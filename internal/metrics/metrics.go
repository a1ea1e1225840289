// Package metrics holds the Prometheus collectors for the overview.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all overview collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Toggles            *prometheus.CounterVec
	TogglesRejected    prometheus.Counter
	ScrollSteps        *prometheus.CounterVec
	InvariantFailures  *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec
	Workspaces         prometheus.Gauge
	Overlays           prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Toggles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "overview_toggles_total",
				Help: "Accepted overview toggles",
			},
			[]string{"direction"},
		),
		TogglesRejected: f.NewCounter(
			prometheus.CounterOpts{
				Name: "overview_toggles_rejected_total",
				Help: "Toggles rejected because a transition was animating",
			},
		),
		ScrollSteps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "overview_scroll_steps_total",
				Help: "Navigation steps issued from scroll input",
			},
			[]string{"source"},
		),
		InvariantFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "overview_invariant_failures_total",
				Help: "Invariant violations that were logged and ignored",
			},
			[]string{"kind"},
		),
		TransitionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "overview_transition_duration_seconds",
				Help:    "Time from toggle to transition completion",
				Buckets: []float64{.05, .1, .15, .2, .25, .3, .4, .5, 1},
			},
			[]string{"direction"},
		),
		Workspaces: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "overview_workspaces",
				Help: "Workspace views currently on the rail",
			},
		),
		Overlays: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "overview_monitor_overlays",
				Help: "Secondary monitor overlays currently built",
			},
		),
	}
}

// IncToggle counts an accepted toggle.
func (m *Metrics) IncToggle(direction string) {
	if m == nil {
		return
	}
	m.Toggles.WithLabelValues(direction).Inc()
}

// IncRejected counts a toggle rejected while animating.
func (m *Metrics) IncRejected() {
	if m == nil {
		return
	}
	m.TogglesRejected.Inc()
}

// IncScrollStep counts a navigation step by source ("discrete" or "smooth").
func (m *Metrics) IncScrollStep(source string) {
	if m == nil {
		return
	}
	m.ScrollSteps.WithLabelValues(source).Inc()
}

// IncInvariant counts a logged-and-ignored invariant failure.
func (m *Metrics) IncInvariant(kind string) {
	if m == nil {
		return
	}
	m.InvariantFailures.WithLabelValues(kind).Inc()
}

// ObserveTransition records how long a transition took to finish.
func (m *Metrics) ObserveTransition(direction string, d time.Duration) {
	if m == nil {
		return
	}
	m.TransitionDuration.WithLabelValues(direction).Observe(d.Seconds())
}

// SetWorkspaces sets the workspace gauge.
func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.Workspaces.Set(float64(n))
}

// SetOverlays sets the overlay gauge.
func (m *Metrics) SetOverlays(n int) {
	if m == nil {
		return
	}
	m.Overlays.Set(float64(n))
}
