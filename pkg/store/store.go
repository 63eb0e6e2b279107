package store

import (
	"context"

	"locallibrary/pkg/domain"
)

// AuthorStore persists authors.
type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	GetAuthor(ctx context.Context, id string) (domain.Author, bool, error)
	SaveAuthor(ctx context.Context, a domain.Author) error
	DeleteAuthor(ctx context.Context, id string) error
	CountAuthors(ctx context.Context) (int64, error)
}

// BookStore persists books. Reads populate the author; GetBook also populates genres.
type BookStore interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id string) (domain.Book, bool, error)
	ListBooksByAuthor(ctx context.Context, authorID string) ([]domain.Book, error)
	ListBooksByGenre(ctx context.Context, genreID string) ([]domain.Book, error)
	SaveBook(ctx context.Context, b domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	CountBooks(ctx context.Context) (int64, error)
}

// GenreStore persists genres.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenre(ctx context.Context, id string) (domain.Genre, bool, error)
	FindGenreByName(ctx context.Context, name string) (domain.Genre, bool, error)
	SaveGenre(ctx context.Context, g domain.Genre) error
	DeleteGenre(ctx context.Context, id string) error
	CountGenres(ctx context.Context) (int64, error)
}

// BookInstanceStore persists book copies. Reads populate the book.
type BookInstanceStore interface {
	ListBookInstances(ctx context.Context) ([]domain.BookInstance, error)
	GetBookInstance(ctx context.Context, id string) (domain.BookInstance, bool, error)
	ListBookInstancesByBook(ctx context.Context, bookID string) ([]domain.BookInstance, error)
	SaveBookInstance(ctx context.Context, bi domain.BookInstance) error
	DeleteBookInstance(ctx context.Context, id string) error
	CountBookInstances(ctx context.Context) (int64, error)
	CountBookInstancesByStatus(ctx context.Context, status domain.InstanceStatus) (int64, error)
}

// Store bundles every per-kind repository.
type Store interface {
	AuthorStore
	BookStore
	GenreStore
	BookInstanceStore
}
