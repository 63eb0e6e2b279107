package server

import (
	"net/http"

	"locallibrary/services/catalog/internal/view"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.app.Index(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.IndexView, view.Index{
		Title:     "Local Library Home",
		Dashboard: dashboard,
	})
}
