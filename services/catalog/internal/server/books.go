package server

import (
	"errors"
	"net/http"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
	"locallibrary/services/catalog/internal/app"
	"locallibrary/services/catalog/internal/view"
)

func (s *Server) handleBookList(w http.ResponseWriter, r *http.Request) {
	books, err := s.app.ListBooks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.BookListView, view.BookList{Title: "Book List", Books: books})
}

func (s *Server) handleBookDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.app.BookDetail(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.BookDetailView, view.BookDetail{
		Title:     detail.Book.Title,
		Book:      detail.Book,
		Instances: detail.Instances,
	})
}

func (s *Server) handleBookCreateForm(w http.ResponseWriter, r *http.Request) {
	s.renderBookForm(w, r, http.StatusOK, "Create Book", domain.Book{}, nil)
}

func (s *Server) handleBookCreate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	book, err := s.app.CreateBook(r.Context(), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.renderBookForm(w, r, invalidFormStatus, "Create Book", book, fields)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, book.URL())
}

// renderBookForm loads the author and genre choices the form offers.
func (s *Server) renderBookForm(w http.ResponseWriter, r *http.Request, status int, title string, book domain.Book, fields []form.FieldError) {
	data, err := s.app.BookFormData(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, status, view.BookFormView, view.BookForm{
		Title:   title,
		Book:    book,
		Authors: data.Authors,
		Genres:  data.Genres,
		Errors:  fields,
	})
}

func (s *Server) handleBookDeleteForm(w http.ResponseWriter, r *http.Request) {
	detail, found, err := s.app.BookDeleteInfo(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		redirect(w, r, domain.BooksPath)
		return
	}
	s.renderBookDelete(w, r, detail)
}

func (s *Server) handleBookDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := s.formValues(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := s.app.DeleteBook(r.Context(), pathID(r))
	if errors.Is(err, app.ErrHasDependents) {
		s.renderBookDelete(w, r, detail)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, domain.BooksPath)
}

func (s *Server) renderBookDelete(w http.ResponseWriter, r *http.Request, detail app.BookDetail) {
	s.render(w, r, http.StatusOK, view.BookDeleteView, view.BookDetail{
		Title:     "Delete Book",
		Book:      detail.Book,
		Instances: detail.Instances,
	})
}

func (s *Server) handleBookUpdateForm(w http.ResponseWriter, r *http.Request) {
	book, err := s.app.BookForUpdate(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderBookForm(w, r, http.StatusOK, "Update Book", book, nil)
}

func (s *Server) handleBookUpdate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	book, err := s.app.UpdateBook(r.Context(), pathID(r), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.renderBookForm(w, r, invalidFormStatus, "Update Book", book, fields)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, book.URL())
}
