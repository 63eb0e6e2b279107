package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"locallibrary/pkg/domain"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the catalog in-process. It mirrors GormStore ordering
// and populate behaviour so it can stand in for postgres in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	authors   map[string]domain.Author
	books     map[string]domain.Book
	genres    map[string]domain.Genre
	instances map[string]domain.BookInstance
	order     []string // book instance insertion order
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		authors:   make(map[string]domain.Author),
		books:     make(map[string]domain.Book),
		genres:    make(map[string]domain.Genre),
		instances: make(map[string]domain.BookInstance),
	}
}

// authors

// ListAuthors returns authors ordered by family name, then first name.
func (m *MemoryStore) ListAuthors(_ context.Context) ([]domain.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Author, 0, len(m.authors))
	for _, a := range m.authors {
		res = append(res, a)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].FamilyName != res[j].FamilyName {
			return res[i].FamilyName < res[j].FamilyName
		}
		return res[i].FirstName < res[j].FirstName
	})
	return res, nil
}

// GetAuthor retrieves an author by ID.
func (m *MemoryStore) GetAuthor(_ context.Context, id string) (domain.Author, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.authors[id]
	return a, ok, nil
}

// SaveAuthor stores or replaces an author.
func (m *MemoryStore) SaveAuthor(_ context.Context, a domain.Author) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.authors[a.ID]; ok {
		a.CreatedAt = existing.CreatedAt
	}
	m.authors[a.ID] = a
	return nil
}

// DeleteAuthor removes an author.
func (m *MemoryStore) DeleteAuthor(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.authors, id)
	return nil
}

// CountAuthors returns number of authors.
func (m *MemoryStore) CountAuthors(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.authors)), nil
}

// books

// ListBooks returns books ordered by title with authors populated.
func (m *MemoryStore) ListBooks(_ context.Context) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterBooks(func(domain.Book) bool { return true }, true), nil
}

// ListBooksByAuthor returns the books written by an author.
func (m *MemoryStore) ListBooksByAuthor(_ context.Context, authorID string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterBooks(func(b domain.Book) bool { return b.AuthorID == authorID }, false), nil
}

// ListBooksByGenre returns the books tagged with a genre.
func (m *MemoryStore) ListBooksByGenre(_ context.Context, genreID string) ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterBooks(func(b domain.Book) bool { return b.HasGenre(genreID) }, false), nil
}

func (m *MemoryStore) filterBooks(keep func(domain.Book) bool, withAuthor bool) []domain.Book {
	res := make([]domain.Book, 0, len(m.books))
	for _, b := range m.books {
		if !keep(b) {
			continue
		}
		b.GenreIDs = append([]string(nil), b.GenreIDs...)
		if withAuthor {
			b.Author = m.authorRef(b.AuthorID)
		}
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Title < res[j].Title })
	return res
}

// GetBook retrieves a book with its author and genres.
func (m *MemoryStore) GetBook(_ context.Context, id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	if !ok {
		return domain.Book{}, false, nil
	}
	return m.populateBook(b), true, nil
}

func (m *MemoryStore) populateBook(b domain.Book) domain.Book {
	b.Author = m.authorRef(b.AuthorID)
	genres := make([]domain.Genre, 0, len(b.GenreIDs))
	for _, genreID := range b.GenreIDs {
		if g, ok := m.genres[genreID]; ok {
			genres = append(genres, g)
		}
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	b.Genres = genres
	b.GenreIDs = make([]string, 0, len(genres))
	for _, g := range genres {
		b.GenreIDs = append(b.GenreIDs, g.ID)
	}
	return b
}

func (m *MemoryStore) authorRef(id string) *domain.Author {
	a, ok := m.authors[id]
	if !ok {
		return nil
	}
	return &a
}

// SaveBook stores or replaces a book. Populated fields are not persisted.
func (m *MemoryStore) SaveBook(_ context.Context, b domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.books[b.ID]; ok {
		b.CreatedAt = existing.CreatedAt
	}
	b.Author = nil
	b.Genres = nil
	b.GenreIDs = dedupe(b.GenreIDs)
	m.books[b.ID] = b
	return nil
}

// DeleteBook removes a book.
func (m *MemoryStore) DeleteBook(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

// CountBooks returns number of books.
func (m *MemoryStore) CountBooks(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.books)), nil
}

// genres

// ListGenres returns genres ordered by name.
func (m *MemoryStore) ListGenres(_ context.Context) ([]domain.Genre, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Genre, 0, len(m.genres))
	for _, g := range m.genres {
		res = append(res, g)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

// GetGenre retrieves a genre by ID.
func (m *MemoryStore) GetGenre(_ context.Context, id string) (domain.Genre, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.genres[id]
	return g, ok, nil
}

// FindGenreByName looks up a genre by name, ignoring case.
func (m *MemoryStore) FindGenreByName(_ context.Context, name string) (domain.Genre, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.genres {
		if strings.EqualFold(g.Name, name) {
			return g, true, nil
		}
	}
	return domain.Genre{}, false, nil
}

// SaveGenre stores or replaces a genre.
func (m *MemoryStore) SaveGenre(_ context.Context, g domain.Genre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.genres[g.ID]; ok {
		g.CreatedAt = existing.CreatedAt
	}
	m.genres[g.ID] = g
	return nil
}

// DeleteGenre removes a genre and unlinks it from books.
func (m *MemoryStore) DeleteGenre(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.genres, id)
	for bookID, b := range m.books {
		if !b.HasGenre(id) {
			continue
		}
		kept := make([]string, 0, len(b.GenreIDs))
		for _, genreID := range b.GenreIDs {
			if genreID != id {
				kept = append(kept, genreID)
			}
		}
		b.GenreIDs = kept
		m.books[bookID] = b
	}
	return nil
}

// CountGenres returns number of genres.
func (m *MemoryStore) CountGenres(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.genres)), nil
}

// book instances

// ListBookInstances returns copies in insertion order with books populated.
func (m *MemoryStore) ListBookInstances(_ context.Context) ([]domain.BookInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterInstances(func(domain.BookInstance) bool { return true }, true), nil
}

// ListBookInstancesByBook returns the copies of one book.
func (m *MemoryStore) ListBookInstancesByBook(_ context.Context, bookID string) ([]domain.BookInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filterInstances(func(bi domain.BookInstance) bool { return bi.BookID == bookID }, false), nil
}

func (m *MemoryStore) filterInstances(keep func(domain.BookInstance) bool, withBook bool) []domain.BookInstance {
	res := make([]domain.BookInstance, 0, len(m.order))
	for _, id := range m.order {
		bi, ok := m.instances[id]
		if !ok || !keep(bi) {
			continue
		}
		if withBook {
			bi.Book = m.bookRef(bi.BookID)
		}
		res = append(res, bi)
	}
	return res
}

func (m *MemoryStore) bookRef(id string) *domain.Book {
	b, ok := m.books[id]
	if !ok {
		return nil
	}
	b.GenreIDs = append([]string(nil), b.GenreIDs...)
	return &b
}

// GetBookInstance retrieves a copy with its book populated.
func (m *MemoryStore) GetBookInstance(_ context.Context, id string) (domain.BookInstance, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bi, ok := m.instances[id]
	if !ok {
		return domain.BookInstance{}, false, nil
	}
	bi.Book = m.bookRef(bi.BookID)
	return bi, true, nil
}

// SaveBookInstance stores or replaces a copy and tracks insertion order.
func (m *MemoryStore) SaveBookInstance(_ context.Context, bi domain.BookInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.instances[bi.ID]; ok {
		bi.CreatedAt = existing.CreatedAt
	} else {
		m.order = append(m.order, bi.ID)
	}
	bi.Book = nil
	m.instances[bi.ID] = bi
	return nil
}

// DeleteBookInstance removes a copy.
func (m *MemoryStore) DeleteBookInstance(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.instances, id)
	filtered := m.order[:0]
	for _, item := range m.order {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	m.order = filtered
	return nil
}

// CountBookInstances returns number of copies.
func (m *MemoryStore) CountBookInstances(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.instances)), nil
}

// CountBookInstancesByStatus returns number of copies in a status.
func (m *MemoryStore) CountBookInstancesByStatus(_ context.Context, status domain.InstanceStatus) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, bi := range m.instances {
		if bi.Status == status {
			n++
		}
	}
	return n, nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
