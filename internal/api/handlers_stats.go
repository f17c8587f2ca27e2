package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	c := s.orchestrator.Counter()
	if c.Stats() == nil {
		jsonError(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stats":         c.Stats().Snapshot(),
		"cache_entries": c.CacheLen(),
		"queue_depth":   s.orchestrator.QueueDepth(),
	})
}
