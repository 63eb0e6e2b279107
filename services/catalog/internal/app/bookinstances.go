package app

import (
	"context"
	"fmt"
	"net/url"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/form"
)

var bookInstanceSchema = form.Schema{
	form.NewField("book", form.Trim(), form.Required("Book must be specified"), form.Escape()),
	form.NewField("imprint", form.Trim(), form.Required("Imprint must be specified"), form.Escape()),
	form.NewField("status", form.Trim(), form.Escape(), form.OneOf(statusValues(), "Invalid status")).Optional(),
	form.NewField("due_back", form.Trim(), form.ISODate("Invalid date")).Optional(),
}

func statusValues() []string {
	out := make([]string, 0, len(domain.InstanceStatuses))
	for _, s := range domain.InstanceStatuses {
		out = append(out, string(s))
	}
	return out
}

// ListBookInstances returns every copy with its book populated.
func (a *App) ListBookInstances(ctx context.Context) ([]domain.BookInstance, error) {
	items, err := a.instances.ListBookInstances(ctx)
	if err != nil {
		return nil, Internal(fmt.Errorf("list book instances: %w", err))
	}
	return items, nil
}

// BookInstanceDetail loads one copy with its book.
func (a *App) BookInstanceDetail(ctx context.Context, id string) (domain.BookInstance, error) {
	bi, found, err := a.instances.GetBookInstance(ctx, id)
	if err != nil {
		return domain.BookInstance{}, Internal(fmt.Errorf("get book instance %s: %w", id, err))
	}
	if !found {
		return domain.BookInstance{}, NotFound("Book copy not found")
	}
	return bi, nil
}

// BookChoices lists the books a copy can belong to, ordered by title.
func (a *App) BookChoices(ctx context.Context) ([]domain.Book, error) {
	books, err := a.books.ListBooks(ctx)
	if err != nil {
		return nil, Internal(fmt.Errorf("list book choices: %w", err))
	}
	return books, nil
}

// CreateBookInstance validates the submission and stores a new copy.
func (a *App) CreateBookInstance(ctx context.Context, values url.Values) (domain.BookInstance, error) {
	bi, errs, err := a.bookInstanceFromForm(ctx, values)
	if err != nil {
		return bi, err
	}
	if len(errs) > 0 {
		return bi, Invalid(errs)
	}
	now := a.now()
	bi.ID = a.newID()
	bi.CreatedAt = now
	bi.UpdatedAt = now
	if err := a.instances.SaveBookInstance(ctx, bi); err != nil {
		return bi, Internal(fmt.Errorf("save book instance: %w", err))
	}
	return bi, nil
}

// BookInstanceDeleteInfo loads what the delete confirmation shows.
func (a *App) BookInstanceDeleteInfo(ctx context.Context, id string) (domain.BookInstance, bool, error) {
	bi, found, err := a.instances.GetBookInstance(ctx, id)
	if err != nil {
		return domain.BookInstance{}, false, Internal(fmt.Errorf("get book instance %s: %w", id, err))
	}
	return bi, found, nil
}

// DeleteBookInstance removes a copy. Nothing depends on copies.
func (a *App) DeleteBookInstance(ctx context.Context, id string) error {
	if err := a.instances.DeleteBookInstance(ctx, id); err != nil {
		return Internal(fmt.Errorf("delete book instance %s: %w", id, err))
	}
	return nil
}

// BookInstanceForUpdate loads the copy to pre-fill the update form.
func (a *App) BookInstanceForUpdate(ctx context.Context, id string) (domain.BookInstance, error) {
	return a.BookInstanceDetail(ctx, id)
}

// UpdateBookInstance validates the submission and rewrites the copy in place.
func (a *App) UpdateBookInstance(ctx context.Context, id string, values url.Values) (domain.BookInstance, error) {
	existing, err := a.BookInstanceForUpdate(ctx, id)
	if err != nil {
		return domain.BookInstance{}, err
	}
	bi, errs, err := a.bookInstanceFromForm(ctx, values)
	bi.ID = existing.ID
	bi.CreatedAt = existing.CreatedAt
	if err != nil {
		return bi, err
	}
	if len(errs) > 0 {
		return bi, Invalid(errs)
	}
	bi.UpdatedAt = a.now()
	if err := a.instances.SaveBookInstance(ctx, bi); err != nil {
		return bi, Internal(fmt.Errorf("update book instance %s: %w", id, err))
	}
	return bi, nil
}

func (a *App) bookInstanceFromForm(ctx context.Context, values url.Values) (domain.BookInstance, []form.FieldError, error) {
	res := bookInstanceSchema.Validate(values)
	status := domain.StatusMaintenance
	if parsed, ok := domain.ParseInstanceStatus(res.Get("status")); ok {
		status = parsed
	}
	bi := domain.BookInstance{
		BookID:  res.Get("book"),
		Imprint: res.Get("imprint"),
		Status:  status,
		DueBack: res.Date("due_back"),
	}
	errs := res.Errors()
	if bi.BookID != "" && !res.HasError("book") {
		_, found, err := a.books.GetBook(ctx, bi.BookID)
		if err != nil {
			return bi, nil, Internal(fmt.Errorf("get book %s: %w", bi.BookID, err))
		}
		if !found {
			errs = append(errs, form.FieldError{Field: "book", Value: bi.BookID, Msg: "Book must be an existing book."})
		}
	}
	return bi, errs, nil
}
