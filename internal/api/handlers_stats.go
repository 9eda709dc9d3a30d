package api

import (
	"net/http"
)

func (s *Server) handleContentStats(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		jsonError(w, "content stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"content_api": s.content.Stats(),
		"catalog":     s.catalog.Summary(),
	})
}
