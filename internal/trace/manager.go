package trace

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"wsoverview/internal/logging"
)

// Span is a started or completed span. Duration is zero while in progress.
type Span struct {
	TraceID    string            `json:"trace_id"`
	SpanID     string            `json:"span_id"`
	ParentID   string            `json:"parent_id,omitempty"`
	Name       string            `json:"name"`
	StartTime  time.Time         `json:"start_time"`
	Duration   time.Duration     `json:"duration"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*Span           `json:"children,omitempty"`
}

// Trace is one overview session
type Trace struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	RootSpan  *Span     `json:"root_span"`
	Status    string    `json:"status"` // "running" or "completed"
}

// Exporter ships completed traces somewhere
type Exporter interface {
	ExportTrace(ctx context.Context, t *Trace) error
	Shutdown(ctx context.Context) error
}

// Manager stores recent traces. HandleEvent runs on the event loop; the
// getters may be called from the metrics server goroutine.
type Manager struct {
	mu           sync.RWMutex
	traces       map[string]*Trace      // traceID -> Trace
	pendingSpans map[string]*TraceEvent // spanID -> start event (waiting for end)
	recentIDs    []string               // Ring buffer of recent trace IDs
	maxTraces    int
	onChange     func()
	exporter     Exporter
	log          *zap.Logger
}

// NewManager creates a manager keeping maxTraces sessions (10 when <= 0).
// exporter may be nil.
func NewManager(maxTraces int, exporter Exporter, log *zap.Logger) *Manager {
	if maxTraces <= 0 {
		maxTraces = 10
	}
	return &Manager{
		traces:       make(map[string]*Trace),
		pendingSpans: make(map[string]*TraceEvent),
		recentIDs:    make([]string, 0, maxTraces),
		maxTraces:    maxTraces,
		exporter:     exporter,
		log:          logging.OrNop(log),
	}
}

// HandleEvent processes an incoming trace event
// - start events create the span immediately with Duration=0
// - end events find the matching span and set its Duration
// Returns the affected Trace, or nil when the event was ignored.
func (m *Manager) HandleEvent(event TraceEvent) *Trace {
	m.mu.Lock()
	var (
		t      *Trace
		export bool
	)
	switch {
	case event.Type.isStart():
		t = m.handleStart(event)
	case event.Type.isEnd():
		t = m.handleEnd(event)
		export = t != nil && event.Type == EventSessionEnd
	}
	if t != nil && m.onChange != nil {
		m.onChange()
	}
	exporter := m.exporter
	m.mu.Unlock()

	if export && exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := exporter.ExportTrace(ctx, t); err != nil {
			m.log.Warn("trace export failed", zap.String("trace_id", t.ID), zap.Error(err))
		}
	}
	return t
}

// Must be called with m.mu held.
func (m *Manager) handleStart(event TraceEvent) *Trace {
	m.pendingSpans[event.SpanID] = &event

	span := &Span{
		TraceID:    event.TraceID,
		SpanID:     event.SpanID,
		ParentID:   event.ParentID,
		Name:       event.Name,
		StartTime:  event.Timestamp,
		Attributes: make(map[string]string, len(event.Attributes)),
	}
	for k, v := range event.Attributes {
		span.Attributes[k] = v
	}

	t, exists := m.traces[event.TraceID]
	if event.Type == EventSessionStart {
		if !exists {
			t = &Trace{ID: event.TraceID}
			m.traces[event.TraceID] = t
			m.addToRecentIDs(event.TraceID)
		}
		t.StartTime = event.Timestamp
		t.Status = "running"
		t.RootSpan = span
		return t
	}

	if !exists || t.RootSpan == nil {
		m.log.Debug("transition without session", zap.String("trace_id", event.TraceID))
		delete(m.pendingSpans, event.SpanID)
		return nil
	}
	parent := findSpanByID(t.RootSpan, event.ParentID)
	if parent == nil {
		parent = t.RootSpan
	}
	parent.Children = append(parent.Children, span)
	return t
}

// Must be called with m.mu held.
func (m *Manager) handleEnd(event TraceEvent) *Trace {
	start, found := m.pendingSpans[event.SpanID]
	if !found {
		return nil
	}
	delete(m.pendingSpans, event.SpanID)

	t := m.traces[event.TraceID]
	if t == nil {
		return nil
	}
	if span := findSpanByID(t.RootSpan, event.SpanID); span != nil {
		span.Duration = event.Timestamp.Sub(start.Timestamp)
		for k, v := range event.Attributes {
			span.Attributes[k] = v
		}
	}
	if event.Type == EventSessionEnd {
		t.EndTime = event.Timestamp
		t.Status = "completed"
	}
	return t
}

// findSpanByID recursively searches for a span by ID in the trace tree
func findSpanByID(root *Span, spanID string) *Span {
	if root == nil {
		return nil
	}
	if root.SpanID == spanID {
		return root
	}
	for _, child := range root.Children {
		if found := findSpanByID(child, spanID); found != nil {
			return found
		}
	}
	return nil
}

// addToRecentIDs adds a trace ID to the recent list, evicting old ones if needed
func (m *Manager) addToRecentIDs(traceID string) {
	m.recentIDs = append(m.recentIDs, traceID)
	if len(m.recentIDs) > m.maxTraces {
		oldest := m.recentIDs[0]
		m.recentIDs = m.recentIDs[1:]
		delete(m.traces, oldest)
	}
}

// GetTrace returns a trace by ID
func (m *Manager) GetTrace(id string) *Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.traces[id]
}

// GetActiveTrace returns the running session, if any
func (m *Manager) GetActiveTrace() *Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.traces {
		if t.Status == "running" {
			return t
		}
	}
	return nil
}

// GetRecentTraces returns recent traces (newest first)
func (m *Manager) GetRecentTraces() []*Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Trace, 0, len(m.recentIDs))
	for i := len(m.recentIDs) - 1; i >= 0; i-- {
		if t, ok := m.traces[m.recentIDs[i]]; ok {
			result = append(result, t)
		}
	}
	return result
}

// SetOnChange sets callback for state changes (thread-safe)
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Shutdown flushes pending exports and closes the exporter.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	exporter := m.exporter
	m.mu.Unlock()

	if exporter != nil {
		return exporter.Shutdown(ctx)
	}
	return nil
}
