package server

import (
	"errors"
	"net/http"

	"locallibrary/pkg/domain"
	"locallibrary/services/catalog/internal/app"
	"locallibrary/services/catalog/internal/view"
)

func (s *Server) handleGenreList(w http.ResponseWriter, r *http.Request) {
	genres, err := s.app.ListGenres(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.GenreListView, view.GenreList{Title: "Genre List", Genres: genres})
}

func (s *Server) handleGenreDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.app.GenreDetail(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.GenreDetailView, view.GenreDetail{
		Title: "Genre Detail",
		Genre: detail.Genre,
		Books: detail.Books,
	})
}

func (s *Server) handleGenreCreateForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, view.GenreFormView, view.GenreForm{Title: "Create Genre"})
}

func (s *Server) handleGenreCreate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	genre, err := s.app.CreateGenre(r.Context(), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.render(w, r, invalidFormStatus, view.GenreFormView, view.GenreForm{
			Title:  "Create Genre",
			Genre:  genre,
			Errors: fields,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, genre.URL())
}

func (s *Server) handleGenreDeleteForm(w http.ResponseWriter, r *http.Request) {
	detail, found, err := s.app.GenreDeleteInfo(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		redirect(w, r, domain.GenresPath)
		return
	}
	s.renderGenreDelete(w, r, detail)
}

func (s *Server) handleGenreDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := s.formValues(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := s.app.DeleteGenre(r.Context(), pathID(r))
	if errors.Is(err, app.ErrHasDependents) {
		s.renderGenreDelete(w, r, detail)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, domain.GenresPath)
}

func (s *Server) renderGenreDelete(w http.ResponseWriter, r *http.Request, detail app.GenreDetail) {
	s.render(w, r, http.StatusOK, view.GenreDeleteView, view.GenreDetail{
		Title: "Delete Genre",
		Genre: detail.Genre,
		Books: detail.Books,
	})
}

func (s *Server) handleGenreUpdateForm(w http.ResponseWriter, r *http.Request) {
	genre, err := s.app.GenreForUpdate(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.GenreFormView, view.GenreForm{Title: "Update Genre", Genre: genre})
}

func (s *Server) handleGenreUpdate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	genre, err := s.app.UpdateGenre(r.Context(), pathID(r), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.render(w, r, invalidFormStatus, view.GenreFormView, view.GenreForm{
			Title:  "Update Genre",
			Genre:  genre,
			Errors: fields,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, genre.URL())
}
