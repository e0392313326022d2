package handler

import "net/http"

// handleAdminStats handles GET /admin/stats. The route is wrapped in
// middleware.RequireAdmin, so only admin-role tokens reach this handler.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
