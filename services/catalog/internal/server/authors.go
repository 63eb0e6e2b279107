package server

import (
	"errors"
	"net/http"

	"locallibrary/pkg/domain"
	"locallibrary/services/catalog/internal/app"
	"locallibrary/services/catalog/internal/view"
)

// Failed submissions re-render their form with this status.
const invalidFormStatus = http.StatusUnprocessableEntity

func (s *Server) handleAuthorList(w http.ResponseWriter, r *http.Request) {
	authors, err := s.app.ListAuthors(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.AuthorListView, view.AuthorList{Title: "Author List", Authors: authors})
}

func (s *Server) handleAuthorDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.app.AuthorDetail(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.AuthorDetailView, view.AuthorDetail{
		Title:  "Author Detail",
		Author: detail.Author,
		Books:  detail.Books,
	})
}

func (s *Server) handleAuthorCreateForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, view.AuthorFormView, view.AuthorForm{Title: "Create Author"})
}

func (s *Server) handleAuthorCreate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	author, err := s.app.CreateAuthor(r.Context(), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.render(w, r, invalidFormStatus, view.AuthorFormView, view.AuthorForm{
			Title:  "Create Author",
			Author: author,
			Errors: fields,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, author.URL())
}

func (s *Server) handleAuthorDeleteForm(w http.ResponseWriter, r *http.Request) {
	detail, found, err := s.app.AuthorDeleteInfo(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		redirect(w, r, domain.AuthorsPath)
		return
	}
	s.renderAuthorDelete(w, r, detail)
}

func (s *Server) handleAuthorDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := s.formValues(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := s.app.DeleteAuthor(r.Context(), pathID(r))
	if errors.Is(err, app.ErrHasDependents) {
		s.renderAuthorDelete(w, r, detail)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, domain.AuthorsPath)
}

func (s *Server) renderAuthorDelete(w http.ResponseWriter, r *http.Request, detail app.AuthorDetail) {
	s.render(w, r, http.StatusOK, view.AuthorDeleteView, view.AuthorDetail{
		Title:  "Delete Author",
		Author: detail.Author,
		Books:  detail.Books,
	})
}

func (s *Server) handleAuthorUpdateForm(w http.ResponseWriter, r *http.Request) {
	author, err := s.app.AuthorForUpdate(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.AuthorFormView, view.AuthorForm{Title: "Update Author", Author: author})
}

func (s *Server) handleAuthorUpdate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	author, err := s.app.UpdateAuthor(r.Context(), pathID(r), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.render(w, r, invalidFormStatus, view.AuthorFormView, view.AuthorForm{
			Title:  "Update Author",
			Author: author,
			Errors: fields,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, author.URL())
}
