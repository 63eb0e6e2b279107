package server

import (
	"net/http"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
	"locallibrary/services/catalog/internal/app"
	"locallibrary/services/catalog/internal/view"
)

func (s *Server) handleBookInstanceList(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.ListBookInstances(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, view.BookInstanceListView, view.BookInstanceList{
		Title:     "Book Instance List",
		Instances: items,
	})
}

func (s *Server) handleBookInstanceDetail(w http.ResponseWriter, r *http.Request) {
	bi, err := s.app.BookInstanceDetail(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	title := "Book:"
	if bi.Book != nil {
		title = "Book: " + bi.Book.Title
	}
	s.render(w, r, http.StatusOK, view.BookInstanceDetailView, view.BookInstanceDetail{Title: title, Instance: bi})
}

func (s *Server) handleBookInstanceCreateForm(w http.ResponseWriter, r *http.Request) {
	s.renderBookInstanceForm(w, r, http.StatusOK, "Create BookInstance",
		domain.BookInstance{Status: domain.StatusMaintenance}, nil)
}

func (s *Server) handleBookInstanceCreate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bi, err := s.app.CreateBookInstance(r.Context(), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.renderBookInstanceForm(w, r, invalidFormStatus, "Create BookInstance", bi, fields)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, bi.URL())
}

// renderBookInstanceForm loads the book choices the form offers.
func (s *Server) renderBookInstanceForm(w http.ResponseWriter, r *http.Request, status int, title string, bi domain.BookInstance, fields []form.FieldError) {
	books, err := s.app.BookChoices(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, status, view.BookInstanceFormView, view.BookInstanceForm{
		Title:    title,
		Instance: bi,
		Books:    books,
		Statuses: domain.InstanceStatuses,
		Errors:   fields,
	})
}

func (s *Server) handleBookInstanceDeleteForm(w http.ResponseWriter, r *http.Request) {
	bi, found, err := s.app.BookInstanceDeleteInfo(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !found {
		redirect(w, r, domain.BookInstancesPath)
		return
	}
	s.render(w, r, http.StatusOK, view.BookInstanceDeleteView, view.BookInstanceDetail{
		Title:    "Delete BookInstance",
		Instance: bi,
	})
}

func (s *Server) handleBookInstanceDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := s.formValues(w, r); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.app.DeleteBookInstance(r.Context(), pathID(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, domain.BookInstancesPath)
}

func (s *Server) handleBookInstanceUpdateForm(w http.ResponseWriter, r *http.Request) {
	bi, err := s.app.BookInstanceForUpdate(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.renderBookInstanceForm(w, r, http.StatusOK, "Update BookInstance", bi, nil)
}

func (s *Server) handleBookInstanceUpdate(w http.ResponseWriter, r *http.Request) {
	values, err := s.formValues(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bi, err := s.app.UpdateBookInstance(r.Context(), pathID(r), values)
	if fields := app.FieldErrors(err); fields != nil {
		s.renderBookInstanceForm(w, r, invalidFormStatus, "Update BookInstance", bi, fields)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, bi.URL())
}
