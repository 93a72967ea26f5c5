package web

import (
	"net/http"

	"teamup-app/internal/completion"
	"teamup-app/internal/store"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	store       store.Store
	coordinator *completion.Coordinator
}

func NewServer(store store.Store, coordinator *completion.Coordinator) *Server {
	return &Server{store: store, coordinator: coordinator}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Get("/api/me", s.handleMe)

	r.Get("/api/listings", s.handleListingsList)
	r.Post("/api/listings", s.handleListingCreate)

	r.Post("/api/completions", s.handleCompletionCreate)
	r.Get("/api/completions", s.handleCompletionsMine)
	r.Post("/api/completions/{completionID}/confirm", s.handleCompletionConfirm)
	r.Patch("/api/completions/{completionID}/story", s.handleStoryUpdate)

	r.Get("/api/stories", s.handlePublicStories)

	return r
}
