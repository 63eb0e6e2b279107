package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"locallibrary/pkg/domain"
	"locallibrary/pkg/store"
)

// Config holds the repositories the catalog operations depend on.
type Config struct {
	Authors   store.AuthorStore
	Books     store.BookStore
	Genres    store.GenreStore
	Instances store.BookInstanceStore
	Now       func() time.Time
	NewID     func() string
}

// StoreConfig fills every repository from a single backing store.
func StoreConfig(s store.Store) Config {
	return Config{Authors: s, Books: s, Genres: s, Instances: s}
}

// App implements the catalog operations behind the HTTP controllers.
type App struct {
	authors   store.AuthorStore
	books     store.BookStore
	genres    store.GenreStore
	instances store.BookInstanceStore
	now       func() time.Time
	newID     func() string
}

// New constructs the application from injected repositories.
func New(cfg Config) (*App, error) {
	if cfg.Authors == nil || cfg.Books == nil || cfg.Genres == nil || cfg.Instances == nil {
		return nil, errors.New("app: every repository is required")
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := cfg.NewID
	if newID == nil {
		newID = store.NewID
	}
	return &App{
		authors:   cfg.Authors,
		books:     cfg.Books,
		genres:    cfg.Genres,
		instances: cfg.Instances,
		now:       now,
		newID:     newID,
	}, nil
}

// Index gathers the dashboard counts concurrently.
func (a *App) Index(ctx context.Context) (domain.Dashboard, error) {
	var d domain.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.BookCount, err = a.books.CountBooks(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.BookInstanceCount, err = a.instances.CountBookInstances(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.AvailableInstanceCount, err = a.instances.CountBookInstancesByStatus(gctx, domain.StatusAvailable)
		return err
	})
	g.Go(func() (err error) {
		d.AuthorCount, err = a.authors.CountAuthors(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.GenreCount, err = a.genres.CountGenres(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Dashboard{}, Internal(fmt.Errorf("count catalog: %w", err))
	}
	return d, nil
}
