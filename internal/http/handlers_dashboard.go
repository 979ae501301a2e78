package http

import (
	"net/http"
	"time"
)

// handleDashboard serves the aggregated dashboard snapshot for a date range.
// Snapshots are cached per range for a short TTL and the cache is cleared on
// every ledger write.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}

	cacheKey := string(rng)
	if snap, hit := s.snapshotCache.Get(cacheKey); hit {
		writeJSON(w, http.StatusOK, snap)
		return
	}

	snap, err := s.dashboard.Snapshot(r.Context(), rng, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s.snapshotCache.Set(cacheKey, snap)
	s.snapshotFeed.Publish(snap)

	writeJSON(w, http.StatusOK, snap)
}
