package app

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/store"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	cfg := StoreConfig(mem)
	var seq int
	cfg.NewID = func() string {
		seq++
		return "id-" + strconv.Itoa(seq)
	}
	cfg.Now = func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, mem
}

func TestNewRequiresRepositories(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without repositories")
	}
}

func TestCreateAuthorPersistsSanitizedValues(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()

	author, err := a.CreateAuthor(ctx, url.Values{"first_name": {" Jane "}, "family_name": {"Austen"}})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	stored, ok, err := mem.GetAuthor(ctx, author.ID)
	if err != nil || !ok {
		t.Fatalf("stored author missing: ok=%v err=%v", ok, err)
	}
	if stored.FirstName != "Jane" || stored.FamilyName != "Austen" {
		t.Fatalf("unexpected stored author: %+v", stored)
	}
	if stored.DateOfBirth != nil || stored.DateOfDeath != nil {
		t.Fatalf("expected unset dates, got %v %v", stored.DateOfBirth, stored.DateOfDeath)
	}
	if author.URL() != "/authors/"+author.ID {
		t.Fatalf("url = %q", author.URL())
	}
}

func TestCreateAuthorRejectsMissingFamilyName(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()

	author, err := a.CreateAuthor(ctx, url.Values{"first_name": {"Jane"}, "family_name": {""}})
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if author.FirstName != "Jane" {
		t.Fatalf("expected echoed input, got %+v", author)
	}
	found := false
	for _, fe := range FieldErrors(err) {
		if fe.Field == "family_name" && fe.Msg == "Family name must be specified." {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing family_name error in %+v", FieldErrors(err))
	}
	if n, _ := mem.CountAuthors(ctx); n != 0 {
		t.Fatalf("expected nothing persisted, got %d authors", n)
	}
}

func TestCreateAuthorRejectsBadDate(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.CreateAuthor(context.Background(), url.Values{
		"first_name":    {"Jane"},
		"family_name":   {"Austen"},
		"date_of_death": {"yesterday"},
	})
	fields := FieldErrors(err)
	if len(fields) != 1 || fields[0].Msg != "Invalid date of death" {
		t.Fatalf("unexpected field errors: %+v", fields)
	}
}

func TestDeleteAuthorBlockedByBooks(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	seedAuthorWithBook(t, mem)

	detail, err := a.DeleteAuthor(ctx, "a1")
	if !errors.Is(err, ErrHasDependents) {
		t.Fatalf("expected ErrHasDependents, got %v", err)
	}
	if len(detail.Books) != 1 || detail.Books[0].ID != "b1" {
		t.Fatalf("expected dependent book in detail, got %+v", detail.Books)
	}
	if _, ok, _ := mem.GetAuthor(ctx, "a1"); !ok {
		t.Fatalf("author must not be removed")
	}
}

func TestDeleteAuthorWithoutBooks(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	if err := mem.SaveAuthor(ctx, domain.Author{ID: "a2", FirstName: "Ann", FamilyName: "Radcliffe"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := a.DeleteAuthor(ctx, "a2"); err != nil {
		t.Fatalf("delete author: %v", err)
	}
	if _, ok, _ := mem.GetAuthor(ctx, "a2"); ok {
		t.Fatalf("author should be removed")
	}
	if _, err := a.DeleteAuthor(ctx, "a2"); err != nil {
		t.Fatalf("deleting a missing author should be a no-op, got %v", err)
	}
}

func TestDetailNotFound(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{name: "author", call: func() error { _, err := a.AuthorDetail(ctx, "nope"); return err }, msg: "Author not found"},
		{name: "book", call: func() error { _, err := a.BookDetail(ctx, "nope"); return err }, msg: "Book not found"},
		{name: "genre", call: func() error { _, err := a.GenreDetail(ctx, "nope"); return err }, msg: "Genre not found"},
		{name: "book instance", call: func() error { _, err := a.BookInstanceDetail(ctx, "nope"); return err }, msg: "Book copy not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var appErr *Error
			if !errors.As(err, &appErr) || appErr.Kind != KindNotFound {
				t.Fatalf("expected not found error, got %v", err)
			}
			if appErr.Message != tc.msg {
				t.Fatalf("message = %q, want %q", appErr.Message, tc.msg)
			}
		})
	}
}

func TestUpdateAuthorKeepsIdentifier(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	seedAuthorWithBook(t, mem)

	updated, err := a.UpdateAuthor(ctx, "a1", url.Values{
		"first_name":    {"Pat"},
		"family_name":   {"Rothfuss"},
		"date_of_birth": {"1973-06-06"},
	})
	if err != nil {
		t.Fatalf("update author: %v", err)
	}
	if updated.ID != "a1" {
		t.Fatalf("id changed to %q", updated.ID)
	}
	stored, _, _ := mem.GetAuthor(ctx, "a1")
	if stored.FirstName != "Pat" || domain.FormatDate(stored.DateOfBirth) != "1973-06-06" {
		t.Fatalf("unexpected stored author: %+v", stored)
	}
	if n, _ := mem.CountAuthors(ctx); n != 1 {
		t.Fatalf("update must not create a new author, count=%d", n)
	}
}

func TestUpdateAuthorMissing(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.UpdateAuthor(context.Background(), "nope", url.Values{"first_name": {"A"}, "family_name": {"B"}})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateBookResolvesReferences(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	seedAuthorWithBook(t, mem)
	if err := mem.SaveGenre(ctx, domain.Genre{ID: "g1", Name: "Fantasy"}); err != nil {
		t.Fatalf("seed genre: %v", err)
	}

	book, err := a.CreateBook(ctx, url.Values{
		"title":   {"The Slow Regard of Silent Things"},
		"author":  {"a1"},
		"summary": {"Auri."},
		"isbn":    {"9780756410438"},
		"genre":   {"g1", "missing"},
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	if len(book.GenreIDs) != 1 || book.GenreIDs[0] != "g1" {
		t.Fatalf("unexpected genres: %v", book.GenreIDs)
	}

	_, err = a.CreateBook(ctx, url.Values{
		"title":   {"Orphan"},
		"author":  {"ghost"},
		"summary": {"s"},
		"isbn":    {"1"},
	})
	fields := FieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "author" {
		t.Fatalf("expected author error, got %+v (err=%v)", fields, err)
	}
}

func TestDeleteBookBlockedByInstances(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	seedAuthorWithBook(t, mem)
	if err := mem.SaveBookInstance(ctx, domain.BookInstance{ID: "i1", BookID: "b1", Imprint: "Gollancz", Status: domain.StatusAvailable}); err != nil {
		t.Fatalf("seed instance: %v", err)
	}

	if _, err := a.DeleteBook(ctx, "b1"); !errors.Is(err, ErrHasDependents) {
		t.Fatalf("expected ErrHasDependents, got %v", err)
	}
	if err := a.DeleteBookInstance(ctx, "i1"); err != nil {
		t.Fatalf("delete instance: %v", err)
	}
	if _, err := a.DeleteBook(ctx, "b1"); err != nil {
		t.Fatalf("delete book: %v", err)
	}
}

func TestCreateGenreReturnsExistingByName(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	if err := mem.SaveGenre(ctx, domain.Genre{ID: "g1", Name: "Fantasy"}); err != nil {
		t.Fatalf("seed genre: %v", err)
	}

	genre, err := a.CreateGenre(ctx, url.Values{"name": {"fantasy"}})
	if err != nil {
		t.Fatalf("create genre: %v", err)
	}
	if genre.ID != "g1" {
		t.Fatalf("expected existing genre, got %+v", genre)
	}
	if n, _ := mem.CountGenres(ctx); n != 1 {
		t.Fatalf("expected no new genre, count=%d", n)
	}

	if _, err := a.CreateGenre(ctx, url.Values{"name": {"SF"}}); KindOf(err) != KindValidation {
		t.Fatalf("expected short name to fail validation, got %v", err)
	}
}

func TestBookInstanceDefaultsAndValidation(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	seedAuthorWithBook(t, mem)

	bi, err := a.CreateBookInstance(ctx, url.Values{"book": {"b1"}, "imprint": {"DAW, 2007"}})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if bi.Status != domain.StatusMaintenance || bi.DueBack != nil {
		t.Fatalf("unexpected defaults: %+v", bi)
	}

	_, err = a.CreateBookInstance(ctx, url.Values{"book": {"b1"}, "imprint": {"x"}, "status": {"Lost"}, "due_back": {"soon"}})
	fields := FieldErrors(err)
	if len(fields) != 2 || fields[0].Msg != "Invalid status" || fields[1].Msg != "Invalid date" {
		t.Fatalf("unexpected field errors: %+v", fields)
	}
}

func TestIndexCounts(t *testing.T) {
	a, mem := newTestApp(t)
	ctx := context.Background()
	seedAuthorWithBook(t, mem)
	_ = mem.SaveGenre(ctx, domain.Genre{ID: "g1", Name: "Fantasy"})
	_ = mem.SaveBookInstance(ctx, domain.BookInstance{ID: "i1", BookID: "b1", Status: domain.StatusAvailable})
	_ = mem.SaveBookInstance(ctx, domain.BookInstance{ID: "i2", BookID: "b1", Status: domain.StatusLoaned})

	d, err := a.Index(ctx)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	want := domain.Dashboard{BookCount: 1, BookInstanceCount: 2, AvailableInstanceCount: 1, AuthorCount: 1, GenreCount: 1}
	if d != want {
		t.Fatalf("dashboard = %+v, want %+v", d, want)
	}
}

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) CountGenres(context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestIndexPropagatesStoreFailure(t *testing.T) {
	a, err := New(StoreConfig(failingStore{store.NewMemoryStore()}))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	_, err = a.Index(context.Background())
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func seedAuthorWithBook(t *testing.T, mem *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	if err := mem.SaveAuthor(ctx, domain.Author{ID: "a1", FirstName: "Patrick", FamilyName: "Rothfuss"}); err != nil {
		t.Fatalf("seed author: %v", err)
	}
	if err := mem.SaveBook(ctx, domain.Book{ID: "b1", Title: "The Name of the Wind", AuthorID: "a1", Summary: "Kvothe.", ISBN: "9780756404079"}); err != nil {
		t.Fatalf("seed book: %v", err)
	}
}
