package api

import "net/http"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.General(r.Context())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}
