package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"locallibrary/internal/ratelimit"
	"locallibrary/internal/util"
	"locallibrary/pkg/domain"
	"locallibrary/services/catalog/internal/app"
)

// Renderer turns a view name and its data into a component.
type Renderer interface {
	Component(name string, data any) (templ.Component, error)
}

// FormLimiter throttles form submissions per client key.
type FormLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	Views          Renderer
	Limiter        FormLimiter
	TrustedProxies *util.TrustedProxies
	MaxFormBytes   int64
}

// Server exposes the catalog pages.
type Server struct {
	app          *app.App
	views        Renderer
	limiter      FormLimiter
	trusted      *util.TrustedProxies
	maxFormBytes int64
	mux          *chi.Mux
}

// New constructs the server with routes configured. Limiter is optional.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("server: app is required")
	}
	if cfg.Views == nil {
		return nil, errors.New("server: views are required")
	}
	maxFormBytes := cfg.MaxFormBytes
	if maxFormBytes <= 0 {
		maxFormBytes = 1 << 20
	}
	s := &Server{
		app:          cfg.App,
		views:        cfg.Views,
		limiter:      cfg.Limiter,
		trusted:      cfg.TrustedProxies,
		maxFormBytes: maxFormBytes,
		mux:          chi.NewRouter(),
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("catalog", util.WithSecurityHeaders(s.mux)))
}

func (s *Server) routes() {
	r := s.mux
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/catalog", s.handleIndex)

	r.Route(domain.AuthorsPath, func(r chi.Router) {
		r.Get("/", s.handleAuthorList)
		r.Get("/create", s.handleAuthorCreateForm)
		r.With(s.limitForms).Post("/create", s.handleAuthorCreate)
		r.Get("/{id}", s.handleAuthorDetail)
		r.Get("/{id}/delete", s.handleAuthorDeleteForm)
		r.With(s.limitForms).Post("/{id}/delete", s.handleAuthorDelete)
		r.Get("/{id}/update", s.handleAuthorUpdateForm)
		r.With(s.limitForms).Post("/{id}/update", s.handleAuthorUpdate)
	})
	r.Route(domain.BooksPath, func(r chi.Router) {
		r.Get("/", s.handleBookList)
		r.Get("/create", s.handleBookCreateForm)
		r.With(s.limitForms).Post("/create", s.handleBookCreate)
		r.Get("/{id}", s.handleBookDetail)
		r.Get("/{id}/delete", s.handleBookDeleteForm)
		r.With(s.limitForms).Post("/{id}/delete", s.handleBookDelete)
		r.Get("/{id}/update", s.handleBookUpdateForm)
		r.With(s.limitForms).Post("/{id}/update", s.handleBookUpdate)
	})
	r.Route(domain.GenresPath, func(r chi.Router) {
		r.Get("/", s.handleGenreList)
		r.Get("/create", s.handleGenreCreateForm)
		r.With(s.limitForms).Post("/create", s.handleGenreCreate)
		r.Get("/{id}", s.handleGenreDetail)
		r.Get("/{id}/delete", s.handleGenreDeleteForm)
		r.With(s.limitForms).Post("/{id}/delete", s.handleGenreDelete)
		r.Get("/{id}/update", s.handleGenreUpdateForm)
		r.With(s.limitForms).Post("/{id}/update", s.handleGenreUpdate)
	})
	r.Route(domain.BookInstancesPath, func(r chi.Router) {
		r.Get("/", s.handleBookInstanceList)
		r.Get("/create", s.handleBookInstanceCreateForm)
		r.With(s.limitForms).Post("/create", s.handleBookInstanceCreate)
		r.Get("/{id}", s.handleBookInstanceDetail)
		r.Get("/{id}/delete", s.handleBookInstanceDeleteForm)
		r.With(s.limitForms).Post("/{id}/delete", s.handleBookInstanceDelete)
		r.Get("/{id}/update", s.handleBookInstanceUpdateForm)
		r.With(s.limitForms).Post("/{id}/update", s.handleBookInstanceUpdate)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
