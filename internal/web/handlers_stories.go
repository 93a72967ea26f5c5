package web

import (
	"net/http"
	"strconv"
)

// handlePublicStories serves the shared success stories. Public by
// definition: no session required.
func (s *Server) handlePublicStories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	stories, total := s.coordinator.PublicStories(limit, offset)
	respondJSON(w, http.StatusOK, map[string]any{
		"stories": newCompletionViews(stories),
		"total":   total,
	})
}
