package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
	"locallibrary/pkg/domain"
)

const migrateLockID int64 = 51105110

var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.SetupJoinTable(&BookModel{}, "Genres", &BookGenreModel{}); err != nil {
		return nil, fmt.Errorf("setup book genres join table: %w", err)
	}
	if err := withMigrationLock(db, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&AuthorModel{}, &GenreModel{}, &BookModel{}, &BookGenreModel{}, &BookInstanceModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// authors

// ListAuthors returns all authors ordered by family name.
func (s *GormStore) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	var models []AuthorModel
	if err := s.db.WithContext(ctx).Order("family_name ASC").Order("first_name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Author, 0, len(models))
	for _, m := range models {
		res = append(res, authorFromModel(m))
	}
	return res, nil
}

// GetAuthor retrieves an author by ID.
func (s *GormStore) GetAuthor(ctx context.Context, id string) (domain.Author, bool, error) {
	var model AuthorModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Author{}, false, nil
		}
		return domain.Author{}, false, err
	}
	return authorFromModel(model), true, nil
}

// SaveAuthor stores or updates an author.
func (s *GormStore) SaveAuthor(ctx context.Context, a domain.Author) error {
	model := authorToModel(a)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "family_name", "date_of_birth", "date_of_death", "updated_at"}),
	}).Create(&model).Error
}

// DeleteAuthor removes an author.
func (s *GormStore) DeleteAuthor(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&AuthorModel{}, "id = ?", id).Error
}

// CountAuthors returns number of authors.
func (s *GormStore) CountAuthors(ctx context.Context) (int64, error) {
	return s.count(ctx, &AuthorModel{})
}

// books

// ListBooks returns all books ordered by title with authors populated.
func (s *GormStore) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.listBooks(s.db.WithContext(ctx).Preload("Author"))
}

// ListBooksByAuthor returns the books written by an author.
func (s *GormStore) ListBooksByAuthor(ctx context.Context, authorID string) ([]domain.Book, error) {
	return s.listBooks(s.db.WithContext(ctx).Where("author_id = ?", authorID))
}

// ListBooksByGenre returns the books tagged with a genre.
func (s *GormStore) ListBooksByGenre(ctx context.Context, genreID string) ([]domain.Book, error) {
	return s.listBooks(s.db.WithContext(ctx).
		Joins("JOIN book_genres ON book_genres.book_id = book_models.id").
		Where("book_genres.genre_id = ?", genreID))
}

func (s *GormStore) listBooks(tx *gorm.DB) ([]domain.Book, error) {
	var models []BookModel
	if err := tx.Order("title ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// GetBook retrieves a book with its author and genres.
func (s *GormStore) GetBook(ctx context.Context, id string) (domain.Book, bool, error) {
	var model BookModel
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", func(tx *gorm.DB) *gorm.DB { return tx.Order("name ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Book{}, false, nil
		}
		return domain.Book{}, false, err
	}
	return bookFromModel(model), true, nil
}

// SaveBook stores or updates a book and replaces its genre set.
func (s *GormStore) SaveBook(ctx context.Context, b domain.Book) error {
	model := bookToModel(b)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "author_id", "summary", "isbn", "updated_at"}),
		}).Create(&model).Error; err != nil {
			return err
		}
		if err := tx.Delete(&BookGenreModel{}, "book_id = ?", b.ID).Error; err != nil {
			return err
		}
		if len(b.GenreIDs) == 0 {
			return nil
		}
		rows := make([]BookGenreModel, 0, len(b.GenreIDs))
		for _, genreID := range b.GenreIDs {
			rows = append(rows, BookGenreModel{BookID: b.ID, GenreID: genreID})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

// DeleteBook removes a book and its genre links.
func (s *GormStore) DeleteBook(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&BookGenreModel{}, "book_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&BookModel{}, "id = ?", id).Error
	})
}

// CountBooks returns number of books.
func (s *GormStore) CountBooks(ctx context.Context) (int64, error) {
	return s.count(ctx, &BookModel{})
}

// genres

// ListGenres returns all genres ordered by name.
func (s *GormStore) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	var models []GenreModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Genre, 0, len(models))
	for _, m := range models {
		res = append(res, genreFromModel(m))
	}
	return res, nil
}

// GetGenre retrieves a genre by ID.
func (s *GormStore) GetGenre(ctx context.Context, id string) (domain.Genre, bool, error) {
	return s.findGenre(s.db.WithContext(ctx).Where("id = ?", id))
}

// FindGenreByName looks up a genre by name, ignoring case.
func (s *GormStore) FindGenreByName(ctx context.Context, name string) (domain.Genre, bool, error) {
	return s.findGenre(s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name))
}

func (s *GormStore) findGenre(tx *gorm.DB) (domain.Genre, bool, error) {
	var model GenreModel
	if err := tx.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Genre{}, false, nil
		}
		return domain.Genre{}, false, err
	}
	return genreFromModel(model), true, nil
}

// SaveGenre stores or updates a genre.
func (s *GormStore) SaveGenre(ctx context.Context, g domain.Genre) error {
	model := genreToModel(g)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&model).Error
}

// DeleteGenre removes a genre and any book links pointing at it.
func (s *GormStore) DeleteGenre(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&BookGenreModel{}, "genre_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&GenreModel{}, "id = ?", id).Error
	})
}

// CountGenres returns number of genres.
func (s *GormStore) CountGenres(ctx context.Context) (int64, error) {
	return s.count(ctx, &GenreModel{})
}

// book instances

// ListBookInstances returns all copies with their books populated.
func (s *GormStore) ListBookInstances(ctx context.Context) ([]domain.BookInstance, error) {
	return s.listBookInstances(s.db.WithContext(ctx).Preload("Book"))
}

// ListBookInstancesByBook returns the copies of one book.
func (s *GormStore) ListBookInstancesByBook(ctx context.Context, bookID string) ([]domain.BookInstance, error) {
	return s.listBookInstances(s.db.WithContext(ctx).Where("book_id = ?", bookID))
}

func (s *GormStore) listBookInstances(tx *gorm.DB) ([]domain.BookInstance, error) {
	var models []BookInstanceModel
	if err := tx.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.BookInstance, 0, len(models))
	for _, m := range models {
		res = append(res, bookInstanceFromModel(m))
	}
	return res, nil
}

// GetBookInstance retrieves a copy with its book populated.
func (s *GormStore) GetBookInstance(ctx context.Context, id string) (domain.BookInstance, bool, error) {
	var model BookInstanceModel
	if err := s.db.WithContext(ctx).Preload("Book").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.BookInstance{}, false, nil
		}
		return domain.BookInstance{}, false, err
	}
	return bookInstanceFromModel(model), true, nil
}

// SaveBookInstance stores or updates a copy.
func (s *GormStore) SaveBookInstance(ctx context.Context, bi domain.BookInstance) error {
	model := bookInstanceToModel(bi)
	return s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"book_id", "imprint", "status", "due_back", "updated_at"}),
	}).Create(&model).Error
}

// DeleteBookInstance removes a copy.
func (s *GormStore) DeleteBookInstance(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&BookInstanceModel{}, "id = ?", id).Error
}

// CountBookInstances returns number of copies.
func (s *GormStore) CountBookInstances(ctx context.Context) (int64, error) {
	return s.count(ctx, &BookInstanceModel{})
}

// CountBookInstancesByStatus returns number of copies in a status.
func (s *GormStore) CountBookInstancesByStatus(ctx context.Context, status domain.InstanceStatus) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&BookInstanceModel{}).Where("status = ?", string(status)).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *GormStore) count(ctx context.Context, model any) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(t.UTC())
	return &d
}

func fromDate(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d).UTC()
	return &t
}

func authorToModel(a domain.Author) AuthorModel {
	return AuthorModel{
		ID:          a.ID,
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: toDate(a.DateOfBirth),
		DateOfDeath: toDate(a.DateOfDeath),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func authorFromModel(m AuthorModel) domain.Author {
	return domain.Author{
		ID:          m.ID,
		FirstName:   m.FirstName,
		FamilyName:  m.FamilyName,
		DateOfBirth: fromDate(m.DateOfBirth),
		DateOfDeath: fromDate(m.DateOfDeath),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func genreToModel(g domain.Genre) GenreModel {
	return GenreModel{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func genreFromModel(m GenreModel) domain.Genre {
	return domain.Genre{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:        b.ID,
		Title:     b.Title,
		AuthorID:  b.AuthorID,
		Summary:   b.Summary,
		ISBN:      b.ISBN,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// bookFromModel converts a row; associations are only populated when preloaded.
func bookFromModel(m BookModel) domain.Book {
	book := domain.Book{
		ID:        m.ID,
		Title:     m.Title,
		AuthorID:  m.AuthorID,
		Summary:   m.Summary,
		ISBN:      m.ISBN,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Author.ID != "" {
		author := authorFromModel(m.Author)
		book.Author = &author
	}
	if len(m.Genres) > 0 {
		book.GenreIDs = make([]string, 0, len(m.Genres))
		book.Genres = make([]domain.Genre, 0, len(m.Genres))
		for _, g := range m.Genres {
			book.GenreIDs = append(book.GenreIDs, g.ID)
			book.Genres = append(book.Genres, genreFromModel(g))
		}
	}
	return book
}

func bookInstanceToModel(bi domain.BookInstance) BookInstanceModel {
	return BookInstanceModel{
		ID:        bi.ID,
		BookID:    bi.BookID,
		Imprint:   bi.Imprint,
		Status:    string(bi.Status),
		DueBack:   toDate(bi.DueBack),
		CreatedAt: bi.CreatedAt,
		UpdatedAt: bi.UpdatedAt,
	}
}

func bookInstanceFromModel(m BookInstanceModel) domain.BookInstance {
	status := domain.InstanceStatus(m.Status)
	if status == "" {
		status = domain.StatusMaintenance
	}
	bi := domain.BookInstance{
		ID:        m.ID,
		BookID:    m.BookID,
		Imprint:   m.Imprint,
		Status:    status,
		DueBack:   fromDate(m.DueBack),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Book.ID != "" {
		book := bookFromModel(m.Book)
		bi.Book = &book
	}
	return bi
}
