package trace

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandler_ServesRecentTraces(t *testing.T) {
	m := NewManager(10, nil, nil)
	first, second := NewTraceID(), NewTraceID()
	m.HandleEvent(sessionStart(first, NewSpanID(), t0))
	m.HandleEvent(sessionStart(second, NewSpanID(), t0))

	rec := httptest.NewRecorder()
	Handler(m).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/traces", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /traces: expected 200, got %d", rec.Code)
	}
	var got []Trace
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != second || got[1].ID != first {
		t.Errorf("expected newest first [%s %s], got %+v", second, first, got)
	}
}

func TestHandler_RejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler(NewManager(1, nil, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/traces", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /traces: expected 405, got %d", rec.Code)
	}
}
