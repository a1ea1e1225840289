package trace

import "time"

// Recorder turns overview lifecycle calls into trace events. It is driven from
// the event loop only. A nil Recorder records nothing.
type Recorder struct {
	manager *Manager
	now     func() time.Time

	traceID     string
	sessionSpan string
	transition  *TraceEvent
}

// NewRecorder creates a Recorder feeding m. A nil now uses time.Now.
func NewRecorder(m *Manager, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{manager: m, now: now}
}

// SessionStart opens a new session span. An unfinished session is ended first.
func (r *Recorder) SessionStart(attrs map[string]string) {
	if r == nil {
		return
	}
	if r.traceID != "" {
		r.SessionEnd(map[string]string{"outcome": "abandoned"})
	}
	r.traceID = NewTraceID()
	r.sessionSpan = NewSpanID()
	r.manager.HandleEvent(TraceEvent{
		TraceID:    r.traceID,
		SpanID:     r.sessionSpan,
		Type:       EventSessionStart,
		Name:       "session",
		Timestamp:  r.now(),
		Attributes: attrs,
	})
}

// SessionEnd closes the current session, ending any open transition.
func (r *Recorder) SessionEnd(attrs map[string]string) {
	if r == nil || r.traceID == "" {
		return
	}
	if r.transition != nil {
		r.TransitionEnd(map[string]string{"outcome": "abandoned"})
	}
	r.manager.HandleEvent(TraceEvent{
		TraceID:    r.traceID,
		SpanID:     r.sessionSpan,
		Type:       EventSessionEnd,
		Name:       "session",
		Timestamp:  r.now(),
		Attributes: attrs,
	})
	r.traceID, r.sessionSpan = "", ""
}

// TransitionStart opens a child span named name under the current session.
func (r *Recorder) TransitionStart(name string, attrs map[string]string) {
	if r == nil || r.traceID == "" {
		return
	}
	if r.transition != nil {
		r.TransitionEnd(map[string]string{"outcome": "abandoned"})
	}
	ev := TraceEvent{
		TraceID:    r.traceID,
		SpanID:     NewSpanID(),
		ParentID:   r.sessionSpan,
		Type:       EventTransitionStart,
		Name:       name,
		Timestamp:  r.now(),
		Attributes: attrs,
	}
	r.transition = &ev
	r.manager.HandleEvent(ev)
}

// TransitionEnd closes the current transition span.
func (r *Recorder) TransitionEnd(attrs map[string]string) {
	if r == nil || r.transition == nil {
		return
	}
	start := r.transition
	r.transition = nil
	r.manager.HandleEvent(TraceEvent{
		TraceID:    start.TraceID,
		SpanID:     start.SpanID,
		ParentID:   start.ParentID,
		Type:       EventTransitionEnd,
		Name:       start.Name,
		Timestamp:  r.now(),
		Attributes: attrs,
	})
}
