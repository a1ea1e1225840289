package trace

import (
	"encoding/json"
	"net/http"
)

// Handler serves the recent sessions as JSON on GET. Mounted next to the
// metrics endpoint.
func Handler(m *Manager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		// Traces are mutated by the event loop; encode under the read lock.
		m.mu.RLock()
		defer m.mu.RUnlock()

		recent := make([]*Trace, 0, len(m.recentIDs))
		for i := len(m.recentIDs) - 1; i >= 0; i-- {
			if t, ok := m.traces[m.recentIDs[i]]; ok {
				recent = append(recent, t)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(recent); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
