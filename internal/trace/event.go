// Package trace records overview sessions as span trees. A session spans one
// open-to-closed occupancy; its children are the opening and closing
// transitions.
package trace

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of trace event
type EventType string

const (
	EventSessionStart    EventType = "session_start"    // Overview starts opening
	EventSessionEnd      EventType = "session_end"      // Overview is closed again
	EventTransitionStart EventType = "transition_start" // Opening or closing begins
	EventTransitionEnd   EventType = "transition_end"   // Transition finished
)

func (t EventType) isStart() bool {
	return t == EventSessionStart || t == EventTransitionStart
}

func (t EventType) isEnd() bool {
	return t == EventSessionEnd || t == EventTransitionEnd
}

// TraceEvent is a single start or end event of a span
type TraceEvent struct {
	TraceID    string            `json:"trace_id"`   // One ID per session
	SpanID     string            `json:"span_id"`    // Unique ID for this span
	ParentID   string            `json:"parent_id"`  // Parent span ID (empty for the session)
	Type       EventType         `json:"type"`       // Event type
	Name       string            `json:"name"`       // "session", "opening", "closing"
	Timestamp  time.Time         `json:"timestamp"`  // When the event occurred
	Attributes map[string]string `json:"attributes"` // Additional metadata
}

// NewTraceID returns a random 16-byte trace ID as 32 hex characters.
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// NewSpanID returns a random 8-byte span ID as 16 hex characters.
func NewSpanID() string {
	id := uuid.New()
	return hex.EncodeToString(id[8:])
}
