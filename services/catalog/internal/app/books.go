package app

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
)

var bookSchema = form.Schema{
	form.NewField("title", form.Trim(), form.Required("Title must not be empty."), form.Escape()),
	form.NewField("author", form.Trim(), form.Required("Author must not be empty."), form.Escape()),
	form.NewField("summary", form.Trim(), form.Required("Summary must not be empty."), form.Escape()),
	form.NewField("isbn", form.Trim(), form.Required("ISBN must not be empty"), form.Escape()),
	form.NewField("genre", form.Trim(), form.Escape()).Multi(),
}

// BookDetail is a book with its copies.
type BookDetail struct {
	Book      domain.Book
	Instances []domain.BookInstance
}

// BookFormData holds the choices the book form offers.
type BookFormData struct {
	Authors []domain.Author
	Genres  []domain.Genre
}

// ListBooks returns every book ordered by title with authors populated.
func (a *App) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := a.books.ListBooks(ctx)
	if err != nil {
		return nil, Internal(fmt.Errorf("list books: %w", err))
	}
	return books, nil
}

// BookDetail loads a book and its copies.
func (a *App) BookDetail(ctx context.Context, id string) (BookDetail, error) {
	detail, found, err := a.loadBook(ctx, id)
	if err != nil {
		return BookDetail{}, err
	}
	if !found {
		return BookDetail{}, NotFound("Book not found")
	}
	return detail, nil
}

func (a *App) loadBook(ctx context.Context, id string) (BookDetail, bool, error) {
	var (
		detail BookDetail
		found  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		detail.Book, found, err = a.books.GetBook(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Instances, err = a.instances.ListBookInstancesByBook(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return BookDetail{}, false, Internal(fmt.Errorf("load book %s: %w", id, err))
	}
	return detail, found, nil
}

// BookFormData loads authors and genres for the book form.
func (a *App) BookFormData(ctx context.Context) (BookFormData, error) {
	var data BookFormData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Authors, err = a.authors.ListAuthors(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Genres, err = a.genres.ListGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return BookFormData{}, Internal(fmt.Errorf("load book form data: %w", err))
	}
	return data, nil
}

// CreateBook validates the submission and stores a new book.
func (a *App) CreateBook(ctx context.Context, values url.Values) (domain.Book, error) {
	book, errs, err := a.bookFromForm(ctx, values)
	if err != nil {
		return book, err
	}
	if len(errs) > 0 {
		return book, Invalid(errs)
	}
	now := a.now()
	book.ID = a.newID()
	book.CreatedAt = now
	book.UpdatedAt = now
	if err := a.books.SaveBook(ctx, book); err != nil {
		return book, Internal(fmt.Errorf("save book: %w", err))
	}
	return book, nil
}

// BookDeleteInfo loads what the delete confirmation shows.
func (a *App) BookDeleteInfo(ctx context.Context, id string) (BookDetail, bool, error) {
	return a.loadBook(ctx, id)
}

// DeleteBook removes a book that has no copies; otherwise it returns
// ErrHasDependents with the copies.
func (a *App) DeleteBook(ctx context.Context, id string) (BookDetail, error) {
	detail, found, err := a.loadBook(ctx, id)
	if err != nil || !found {
		return detail, err
	}
	if len(detail.Instances) > 0 {
		return detail, ErrHasDependents
	}
	if err := a.books.DeleteBook(ctx, id); err != nil {
		return detail, Internal(fmt.Errorf("delete book %s: %w", id, err))
	}
	return detail, nil
}

// BookForUpdate loads the book to pre-fill the update form.
func (a *App) BookForUpdate(ctx context.Context, id string) (domain.Book, error) {
	book, found, err := a.books.GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, Internal(fmt.Errorf("get book %s: %w", id, err))
	}
	if !found {
		return domain.Book{}, NotFound("Book not found")
	}
	return book, nil
}

// UpdateBook validates the submission and rewrites the book in place.
func (a *App) UpdateBook(ctx context.Context, id string, values url.Values) (domain.Book, error) {
	existing, err := a.BookForUpdate(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	book, errs, err := a.bookFromForm(ctx, values)
	book.ID = existing.ID
	book.CreatedAt = existing.CreatedAt
	if err != nil {
		return book, err
	}
	if len(errs) > 0 {
		return book, Invalid(errs)
	}
	book.UpdatedAt = a.now()
	if err := a.books.SaveBook(ctx, book); err != nil {
		return book, Internal(fmt.Errorf("update book %s: %w", id, err))
	}
	return book, nil
}

// bookFromForm validates the form and resolves the author and genre references.
// Unknown genre ids are dropped; an unknown author is a field error.
func (a *App) bookFromForm(ctx context.Context, values url.Values) (domain.Book, []form.FieldError, error) {
	res := bookSchema.Validate(values)
	book := domain.Book{
		Title:    res.Get("title"),
		AuthorID: res.Get("author"),
		Summary:  res.Get("summary"),
		ISBN:     res.Get("isbn"),
	}
	errs := res.Errors()
	if book.AuthorID != "" && !res.HasError("author") {
		_, found, err := a.authors.GetAuthor(ctx, book.AuthorID)
		if err != nil {
			return book, nil, Internal(fmt.Errorf("get author %s: %w", book.AuthorID, err))
		}
		if !found {
			errs = append(errs, form.FieldError{Field: "author", Value: book.AuthorID, Msg: "Author must be an existing author."})
		}
	}
	for _, genreID := range res.List("genre") {
		_, found, err := a.genres.GetGenre(ctx, genreID)
		if err != nil {
			return book, nil, Internal(fmt.Errorf("get genre %s: %w", genreID, err))
		}
		if found && !book.HasGenre(genreID) {
			book.GenreIDs = append(book.GenreIDs, genreID)
		}
	}
	return book, errs, nil
}
