// Command populatedb loads a small sample catalog: authors, genres, books and
// their copies.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"locallibrary/internal/util"
	"locallibrary/pkg/store"
)

func main() {
	driver := flag.String("driver", "postgres", "store driver: postgres or memory")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string (defaults to DATABASE_URL)")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	util.InitLogger(*logLevel)

	var (
		repo       store.Store
		closeStore func() error
	)
	switch *driver {
	case "memory":
		repo, closeStore = store.NewMemoryStore(), func() error { return nil }
	case "postgres":
		if *dsn == "" {
			log.Fatal("populatedb: -dsn or DATABASE_URL is required for the postgres driver")
		}
		gs, err := store.NewGormStore(*dsn)
		if err != nil {
			log.Fatalf("populatedb: open store: %v", err)
		}
		repo, closeStore = gs, gs.Close
	default:
		log.Fatalf("populatedb: unknown driver %q", *driver)
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Error("close store", "err", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	counts, err := seed(ctx, repo, store.NewID, time.Now().UTC())
	if err != nil {
		log.Fatalf("populatedb: %v", err)
	}
	slog.Info("catalog populated",
		"authors", counts.Authors,
		"genres", counts.Genres,
		"books", counts.Books,
		"bookinstances", counts.Instances,
	)
}
