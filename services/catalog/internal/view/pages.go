package view

import (
	"time"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
)

// View names.
const (
	IndexView              = "index"
	AuthorListView         = "author_list"
	AuthorDetailView       = "author_detail"
	AuthorFormView         = "author_form"
	AuthorDeleteView       = "author_delete"
	BookListView           = "book_list"
	BookDetailView         = "book_detail"
	BookFormView           = "book_form"
	BookDeleteView         = "book_delete"
	GenreListView          = "genre_list"
	GenreDetailView        = "genre_detail"
	GenreFormView          = "genre_form"
	GenreDeleteView        = "genre_delete"
	BookInstanceListView   = "bookinstance_list"
	BookInstanceDetailView = "bookinstance_detail"
	BookInstanceFormView   = "bookinstance_form"
	BookInstanceDeleteView = "bookinstance_delete"
	ErrorView              = "error"
)

// Names lists every view the renderer must provide.
var Names = []string{
	IndexView,
	AuthorListView, AuthorDetailView, AuthorFormView, AuthorDeleteView,
	BookListView, BookDetailView, BookFormView, BookDeleteView,
	GenreListView, GenreDetailView, GenreFormView, GenreDeleteView,
	BookInstanceListView, BookInstanceDetailView, BookInstanceFormView, BookInstanceDeleteView,
	ErrorView,
}

type Index struct {
	Title     string
	Dashboard domain.Dashboard
}

type AuthorList struct {
	Title   string
	Authors []domain.Author
}

// AuthorDetail backs both the detail and the delete confirmation views.
type AuthorDetail struct {
	Title  string
	Author domain.Author
	Books  []domain.Book
}

type AuthorForm struct {
	Title  string
	Author domain.Author
	Errors []form.FieldError
}

// DateInput echoes what was typed into field when it failed validation,
// otherwise the stored date.
func (f AuthorForm) DateInput(field string, t *time.Time) string {
	return dateInput(f.Errors, field, t)
}

type BookList struct {
	Title string
	Books []domain.Book
}

// BookDetail backs both the detail and the delete confirmation views.
type BookDetail struct {
	Title     string
	Book      domain.Book
	Instances []domain.BookInstance
}

type BookForm struct {
	Title   string
	Book    domain.Book
	Authors []domain.Author
	Genres  []domain.Genre
	Errors  []form.FieldError
}

type GenreList struct {
	Title  string
	Genres []domain.Genre
}

// GenreDetail backs both the detail and the delete confirmation views.
type GenreDetail struct {
	Title string
	Genre domain.Genre
	Books []domain.Book
}

type GenreForm struct {
	Title  string
	Genre  domain.Genre
	Errors []form.FieldError
}

type BookInstanceList struct {
	Title     string
	Instances []domain.BookInstance
}

// BookInstanceDetail backs both the detail and the delete confirmation views.
type BookInstanceDetail struct {
	Title    string
	Instance domain.BookInstance
}

type BookInstanceForm struct {
	Title    string
	Instance domain.BookInstance
	Books    []domain.Book
	Statuses []domain.InstanceStatus
	Errors   []form.FieldError
}

func (f BookInstanceForm) DateInput(field string, t *time.Time) string {
	return dateInput(f.Errors, field, t)
}

func dateInput(errs []form.FieldError, field string, t *time.Time) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Value
		}
	}
	return domain.FormatDate(t)
}

type Error struct {
	Title     string
	Status    int
	Message   string
	RequestID string
}
