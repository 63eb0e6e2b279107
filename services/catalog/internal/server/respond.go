package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"locallibrary/internal/util"
	"locallibrary/services/catalog/internal/app"
	"locallibrary/services/catalog/internal/view"
)

// render buffers the page so a template failure can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	component, err := s.views.Component(name, data)
	if err == nil {
		var buf bytes.Buffer
		if err = component.Render(r.Context(), &buf); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
			_, _ = buf.WriteTo(w)
			return
		}
	}
	util.LoggerFromContext(r.Context()).Error("render view", "view", name, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// fail is the single place errors leave the catalog as responses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again later."
	var appErr *app.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case app.KindNotFound:
			status = http.StatusNotFound
			message = appErr.Message
		case app.KindValidation:
			status = http.StatusBadRequest
			message = appErr.Message
		}
	}

	logger := util.LoggerFromContext(r.Context())
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"kind", app.KindOf(err).String(),
		"err", err,
	)
	s.renderError(w, r, status, message)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, view.ErrorView, view.Error{
		Title:     http.StatusText(status),
		Status:    status,
		Message:   message,
		RequestID: util.RequestIDFromRequest(r),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "Page not found")
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// formValues parses the url-encoded body of a POST.
func (s *Server) formValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return nil, &app.Error{Kind: app.KindValidation, Message: "Invalid form submission", Err: err}
	}
	return r.PostForm, nil
}

// limitForms rejects form posts over the per-client quota. Redis failures
// let the request through.
func (s *Server) limitForms(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := util.ClientIP(r, s.trusted)
		decision, err := s.limiter.Allow(r.Context(), key)
		if err != nil {
			util.LoggerFromContext(r.Context()).Warn("form rate limit unavailable", "client_ip", key, "err", err)
			next.ServeHTTP(w, r)
			return
		}
		if !decision.Allowed {
			retry := int(math.Ceil(decision.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
			s.renderError(w, r, http.StatusTooManyRequests, "Too many form submissions. Please wait a moment and try again.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
