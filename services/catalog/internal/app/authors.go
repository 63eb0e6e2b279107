package app

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
)

var authorSchema = form.Schema{
	form.NewField("first_name",
		form.Trim(),
		form.Required("First name must be specified."),
		form.MaxLen(100, "First name must be at most 100 characters."),
		form.Escape(),
		form.Alphanumeric("First name has non-alphanumeric characters."),
	),
	form.NewField("family_name",
		form.Trim(),
		form.Required("Family name must be specified."),
		form.MaxLen(100, "Family name must be at most 100 characters."),
		form.Escape(),
		form.Alphanumeric("Family name has non-alphanumeric characters."),
	),
	form.NewField("date_of_birth", form.Trim(), form.ISODate("Invalid date of birth")).Optional(),
	form.NewField("date_of_death", form.Trim(), form.ISODate("Invalid date of death")).Optional(),
}

// AuthorDetail is an author with the books written by them.
type AuthorDetail struct {
	Author domain.Author
	Books  []domain.Book
}

// ListAuthors returns every author ordered by family name.
func (a *App) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	authors, err := a.authors.ListAuthors(ctx)
	if err != nil {
		return nil, Internal(fmt.Errorf("list authors: %w", err))
	}
	return authors, nil
}

// AuthorDetail loads an author and their books.
func (a *App) AuthorDetail(ctx context.Context, id string) (AuthorDetail, error) {
	detail, found, err := a.loadAuthor(ctx, id)
	if err != nil {
		return AuthorDetail{}, err
	}
	if !found {
		return AuthorDetail{}, NotFound("Author not found")
	}
	return detail, nil
}

func (a *App) loadAuthor(ctx context.Context, id string) (AuthorDetail, bool, error) {
	var (
		detail AuthorDetail
		found  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		detail.Author, found, err = a.authors.GetAuthor(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Books, err = a.books.ListBooksByAuthor(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return AuthorDetail{}, false, Internal(fmt.Errorf("load author %s: %w", id, err))
	}
	return detail, found, nil
}

// CreateAuthor validates the submission and stores a new author. On
// validation failure the echoed author is returned with an Invalid error.
func (a *App) CreateAuthor(ctx context.Context, values url.Values) (domain.Author, error) {
	author, res := authorFromForm(values)
	if !res.Valid() {
		return author, Invalid(res.Errors())
	}
	now := a.now()
	author.ID = a.newID()
	author.CreatedAt = now
	author.UpdatedAt = now
	if err := a.authors.SaveAuthor(ctx, author); err != nil {
		return author, Internal(fmt.Errorf("save author: %w", err))
	}
	return author, nil
}

// AuthorDeleteInfo loads what the delete confirmation shows. found is false
// when the author does not exist.
func (a *App) AuthorDeleteInfo(ctx context.Context, id string) (AuthorDetail, bool, error) {
	return a.loadAuthor(ctx, id)
}

// DeleteAuthor removes an author that has no books. It returns
// ErrHasDependents, together with the books, when any remain. Deleting a
// missing author is a no-op.
func (a *App) DeleteAuthor(ctx context.Context, id string) (AuthorDetail, error) {
	detail, found, err := a.loadAuthor(ctx, id)
	if err != nil || !found {
		return detail, err
	}
	if len(detail.Books) > 0 {
		return detail, ErrHasDependents
	}
	if err := a.authors.DeleteAuthor(ctx, id); err != nil {
		return detail, Internal(fmt.Errorf("delete author %s: %w", id, err))
	}
	return detail, nil
}

// AuthorForUpdate loads the author to pre-fill the update form.
func (a *App) AuthorForUpdate(ctx context.Context, id string) (domain.Author, error) {
	author, found, err := a.authors.GetAuthor(ctx, id)
	if err != nil {
		return domain.Author{}, Internal(fmt.Errorf("get author %s: %w", id, err))
	}
	if !found {
		return domain.Author{}, NotFound("Author not found")
	}
	return author, nil
}

// UpdateAuthor validates the submission and rewrites the author in place,
// keeping its identifier.
func (a *App) UpdateAuthor(ctx context.Context, id string, values url.Values) (domain.Author, error) {
	existing, err := a.AuthorForUpdate(ctx, id)
	if err != nil {
		return domain.Author{}, err
	}
	author, res := authorFromForm(values)
	author.ID = existing.ID
	author.CreatedAt = existing.CreatedAt
	if !res.Valid() {
		return author, Invalid(res.Errors())
	}
	author.UpdatedAt = a.now()
	if err := a.authors.SaveAuthor(ctx, author); err != nil {
		return author, Internal(fmt.Errorf("update author %s: %w", id, err))
	}
	return author, nil
}

func authorFromForm(values url.Values) (domain.Author, form.Result) {
	res := authorSchema.Validate(values)
	return domain.Author{
		FirstName:   res.Get("first_name"),
		FamilyName:  res.Get("family_name"),
		DateOfBirth: res.Date("date_of_birth"),
		DateOfDeath: res.Date("date_of_death"),
	}, res
}
