package view

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
)

func renderString(t *testing.T, r *Renderer, name string, data any) string {
	t.Helper()
	c, err := r.Component(name, data)
	if err != nil {
		t.Fatalf("component %s: %v", name, err)
	}
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestEveryViewRendersZeroData(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	data := map[string]any{
		IndexView:              Index{Title: "Home"},
		AuthorListView:         AuthorList{Title: "Authors"},
		AuthorDetailView:       AuthorDetail{Title: "Author"},
		AuthorFormView:         AuthorForm{Title: "Create Author"},
		AuthorDeleteView:       AuthorDetail{Title: "Delete Author"},
		BookListView:           BookList{Title: "Books"},
		BookDetailView:         BookDetail{Title: "Book"},
		BookFormView:           BookForm{Title: "Create Book"},
		BookDeleteView:         BookDetail{Title: "Delete Book"},
		GenreListView:          GenreList{Title: "Genres"},
		GenreDetailView:        GenreDetail{Title: "Genre"},
		GenreFormView:          GenreForm{Title: "Create Genre"},
		GenreDeleteView:        GenreDetail{Title: "Delete Genre"},
		BookInstanceListView:   BookInstanceList{Title: "Copies"},
		BookInstanceDetailView: BookInstanceDetail{Title: "Copy"},
		BookInstanceFormView:   BookInstanceForm{Title: "Create Copy", Statuses: domain.InstanceStatuses},
		BookInstanceDeleteView: BookInstanceDetail{Title: "Delete Copy"},
		ErrorView:              Error{Title: "Not Found", Status: 404, Message: "Book copy not found"},
	}
	for _, name := range Names {
		d, ok := data[name]
		if !ok {
			t.Fatalf("no fixture for view %s", name)
		}
		out := renderString(t, r, name, d)
		if !strings.Contains(out, "<html") {
			t.Fatalf("view %s missing layout: %s", name, out)
		}
	}
}

func TestUnknownView(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Component("missing", nil); err == nil {
		t.Fatal("expected error for unknown view")
	}
}

func TestStoredEscapesAreNotDoubled(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out := renderString(t, r, AuthorListView, AuthorList{
		Title:   "Authors",
		Authors: []domain.Author{{ID: "a1", FirstName: "Flann", FamilyName: "O&#39;Brien"}},
	})
	if !strings.Contains(out, "O&#39;Brien, Flann") {
		t.Fatalf("expected single escaped name, got %s", out)
	}
	if strings.Contains(out, "&amp;#39;") {
		t.Fatalf("name escaped twice: %s", out)
	}
	if !strings.Contains(out, `href="/authors/a1"`) {
		t.Fatalf("missing author link: %s", out)
	}
}

func TestFormEchoesValuesAndErrors(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	born := time.Date(1775, time.December, 16, 0, 0, 0, 0, time.UTC)
	out := renderString(t, r, AuthorFormView, AuthorForm{
		Title:  "Create Author",
		Author: domain.Author{FirstName: "Jane", DateOfBirth: &born},
		Errors: []form.FieldError{{Field: "family_name", Msg: "Family name must be specified."}},
	})
	for _, want := range []string{`value="Jane"`, `value="1775-12-16"`, "Family name must be specified."} {
		if !strings.Contains(out, want) {
			t.Fatalf("form missing %q: %s", want, out)
		}
	}
}

func TestBookFormMarksSelections(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out := renderString(t, r, BookFormView, BookForm{
		Title:   "Update Book",
		Book:    domain.Book{Title: "Emma", AuthorID: "a2", GenreIDs: []string{"g1"}},
		Authors: []domain.Author{{ID: "a1", FirstName: "Mary", FamilyName: "Shelley"}, {ID: "a2", FirstName: "Jane", FamilyName: "Austen"}},
		Genres:  []domain.Genre{{ID: "g1", Name: "Romance"}, {ID: "g2", Name: "Horror"}},
	})
	if !strings.Contains(out, `<option value="a2" selected>`) {
		t.Fatalf("author a2 not selected: %s", out)
	}
	if strings.Contains(out, `<option value="a1" selected>`) {
		t.Fatalf("author a1 should not be selected: %s", out)
	}
	if !strings.Contains(out, `value="g1" checked>`) || strings.Contains(out, `value="g2" checked>`) {
		t.Fatalf("genre checkboxes wrong: %s", out)
	}
}

func TestBookInstanceDueBackHiddenWhenAvailable(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	due := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	out := renderString(t, r, BookInstanceDetailView, BookInstanceDetail{
		Title:    "Copy",
		Instance: domain.BookInstance{ID: "c1", Imprint: "Penguin", Status: domain.StatusAvailable, DueBack: &due},
	})
	if strings.Contains(out, "Due back") {
		t.Fatalf("available copy should not show due date: %s", out)
	}
	out = renderString(t, r, BookInstanceDetailView, BookInstanceDetail{
		Title:    "Copy",
		Instance: domain.BookInstance{ID: "c1", Imprint: "Penguin", Status: domain.StatusLoaned, DueBack: &due},
	})
	if !strings.Contains(out, "2024-04-01") {
		t.Fatalf("loaned copy should show due date: %s", out)
	}
}

func TestFormEchoesRejectedDates(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out := renderString(t, r, AuthorFormView, AuthorForm{
		Title:  "Create Author",
		Author: domain.Author{FirstName: "Jane", FamilyName: "Austen"},
		Errors: []form.FieldError{{Field: "date_of_death", Value: "1817-02-30", Msg: "Invalid date of death"}},
	})
	if !strings.Contains(out, `name="date_of_death" value="1817-02-30"`) {
		t.Fatalf("rejected date not echoed: %s", out)
	}
	if !strings.Contains(out, `name="date_of_birth" value=""`) {
		t.Fatalf("untouched date should stay empty: %s", out)
	}

	out = renderString(t, r, BookInstanceFormView, BookInstanceForm{
		Title:    "Create Copy",
		Statuses: domain.InstanceStatuses,
		Errors:   []form.FieldError{{Field: "due_back", Value: "next week", Msg: "Invalid date"}},
	})
	if !strings.Contains(out, `name="due_back" value="next week"`) {
		t.Fatalf("rejected due date not echoed: %s", out)
	}
}
