package app

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
)

var genreSchema = form.Schema{
	form.NewField("name",
		form.Trim(),
		form.MinLen(3, "Genre name must contain at least 3 characters"),
		form.MaxLen(100, "Genre name must contain at most 100 characters"),
		form.Escape(),
	),
}

// GenreDetail is a genre with the books tagged with it.
type GenreDetail struct {
	Genre domain.Genre
	Books []domain.Book
}

// ListGenres returns every genre ordered by name.
func (a *App) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := a.genres.ListGenres(ctx)
	if err != nil {
		return nil, Internal(fmt.Errorf("list genres: %w", err))
	}
	return genres, nil
}

// GenreDetail loads a genre and its books.
func (a *App) GenreDetail(ctx context.Context, id string) (GenreDetail, error) {
	detail, found, err := a.loadGenre(ctx, id)
	if err != nil {
		return GenreDetail{}, err
	}
	if !found {
		return GenreDetail{}, NotFound("Genre not found")
	}
	return detail, nil
}

func (a *App) loadGenre(ctx context.Context, id string) (GenreDetail, bool, error) {
	var (
		detail GenreDetail
		found  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		detail.Genre, found, err = a.genres.GetGenre(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Books, err = a.books.ListBooksByGenre(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return GenreDetail{}, false, Internal(fmt.Errorf("load genre %s: %w", id, err))
	}
	return detail, found, nil
}

// CreateGenre validates the submission and stores a new genre. When a genre
// with the same name already exists it is returned instead.
func (a *App) CreateGenre(ctx context.Context, values url.Values) (domain.Genre, error) {
	res := genreSchema.Validate(values)
	genre := domain.Genre{Name: res.Get("name")}
	if !res.Valid() {
		return genre, Invalid(res.Errors())
	}
	existing, found, err := a.genres.FindGenreByName(ctx, genre.Name)
	if err != nil {
		return genre, Internal(fmt.Errorf("find genre %q: %w", genre.Name, err))
	}
	if found {
		return existing, nil
	}
	now := a.now()
	genre.ID = a.newID()
	genre.CreatedAt = now
	genre.UpdatedAt = now
	if err := a.genres.SaveGenre(ctx, genre); err != nil {
		return genre, Internal(fmt.Errorf("save genre: %w", err))
	}
	return genre, nil
}

// GenreDeleteInfo loads what the delete confirmation shows.
func (a *App) GenreDeleteInfo(ctx context.Context, id string) (GenreDetail, bool, error) {
	return a.loadGenre(ctx, id)
}

// DeleteGenre removes a genre no book uses; otherwise it returns
// ErrHasDependents with the books.
func (a *App) DeleteGenre(ctx context.Context, id string) (GenreDetail, error) {
	detail, found, err := a.loadGenre(ctx, id)
	if err != nil || !found {
		return detail, err
	}
	if len(detail.Books) > 0 {
		return detail, ErrHasDependents
	}
	if err := a.genres.DeleteGenre(ctx, id); err != nil {
		return detail, Internal(fmt.Errorf("delete genre %s: %w", id, err))
	}
	return detail, nil
}

// GenreForUpdate loads the genre to pre-fill the update form.
func (a *App) GenreForUpdate(ctx context.Context, id string) (domain.Genre, error) {
	genre, found, err := a.genres.GetGenre(ctx, id)
	if err != nil {
		return domain.Genre{}, Internal(fmt.Errorf("get genre %s: %w", id, err))
	}
	if !found {
		return domain.Genre{}, NotFound("Genre not found")
	}
	return genre, nil
}

// UpdateGenre validates the submission and renames the genre in place.
func (a *App) UpdateGenre(ctx context.Context, id string, values url.Values) (domain.Genre, error) {
	existing, err := a.GenreForUpdate(ctx, id)
	if err != nil {
		return domain.Genre{}, err
	}
	res := genreSchema.Validate(values)
	genre := domain.Genre{ID: existing.ID, Name: res.Get("name"), CreatedAt: existing.CreatedAt}
	if !res.Valid() {
		return genre, Invalid(res.Errors())
	}
	genre.UpdatedAt = a.now()
	if err := a.genres.SaveGenre(ctx, genre); err != nil {
		return genre, Internal(fmt.Errorf("update genre %s: %w", id, err))
	}
	return genre, nil
}
