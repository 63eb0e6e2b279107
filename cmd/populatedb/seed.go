package main

import (
	"context"
	"fmt"
	"time"

	"locallibrary/pkg/domain"
	"locallibrary/pkg/store"
)

type seedCounts struct {
	Authors, Genres, Books, Instances int
}

type sampleAuthor struct {
	key, first, family string
	born, died         string
}

type sampleBook struct {
	key, title, author, summary, isbn string
	genres                            []string
}

type sampleCopy struct {
	book, imprint string
	status        domain.InstanceStatus
	dueBack       string
}

var sampleAuthors = []sampleAuthor{
	{key: "rothfuss", first: "Patrick", family: "Rothfuss", born: "1973-06-06"},
	{key: "bova", first: "Ben", family: "Bova", born: "1932-11-08"},
	{key: "asimov", first: "Isaac", family: "Asimov", born: "1920-01-02", died: "1992-04-06"},
	{key: "billings", first: "Bob", family: "Billings"},
	{key: "jones", first: "Jim", family: "Jones", born: "1971-12-16"},
}

var sampleGenres = []string{"Fantasy", "Science Fiction", "French Poetry"}

var sampleBooks = []sampleBook{
	{
		key: "wind", title: "The Name of the Wind (The Kingkiller Chronicle, #1)", author: "rothfuss",
		summary: "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon.",
		isbn:    "9781473211896", genres: []string{"Fantasy"},
	},
	{
		key: "fear", title: "The Wise Man's Fear (The Kingkiller Chronicle, #2)", author: "rothfuss",
		summary: "Picking up the tale of Kvothe Kingkiller once again, we follow him into exile.",
		isbn:    "9788401352836", genres: []string{"Fantasy"},
	},
	{
		key: "slow", title: "The Slow Regard of Silent Things (Kingkiller Chronicle)", author: "rothfuss",
		summary: "Deep below the University, there is a dark place. Few people know of it.",
		isbn:    "9780756411336", genres: []string{"Fantasy"},
	},
	{
		key: "apes", title: "Apes and Angels", author: "bova",
		summary: "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity.",
		isbn:    "9780765379528", genres: []string{"Science Fiction"},
	},
	{
		key: "death", title: "Death Wave", author: "bova",
		summary: "In Ben Bova's previous novel New Earth, Jordan Kell led the first human mission beyond the solar system.",
		isbn:    "9780765379504", genres: []string{"Science Fiction"},
	},
	{key: "test1", title: "Test Book 1", author: "asimov", summary: "Summary of test book 1", isbn: "ISBN111111", genres: []string{"French Poetry", "Fantasy"}},
	{key: "test2", title: "Test Book 2", author: "asimov", summary: "Summary of test book 2", isbn: "ISBN222222"},
}

var sampleCopies = []sampleCopy{
	{book: "wind", imprint: "London Gollancz, 2014.", status: domain.StatusAvailable},
	{book: "fear", imprint: "Gollancz, 2011.", status: domain.StatusLoaned, dueBack: "2026-11-01"},
	{book: "slow", imprint: "Gollancz, 2015."},
	{book: "apes", imprint: "New York Tom Doherty Associates, 2016.", status: domain.StatusAvailable},
	{book: "apes", imprint: "New York Tom Doherty Associates, 2016.", status: domain.StatusAvailable},
	{book: "apes", imprint: "New York Tom Doherty Associates, 2016.", status: domain.StatusAvailable},
	{book: "death", imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: domain.StatusAvailable},
	{book: "death", imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: domain.StatusMaintenance},
	{book: "death", imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: domain.StatusLoaned},
	{book: "test1", imprint: "Imprint XXX2", status: domain.StatusReserved},
	{book: "test2", imprint: "Imprint XXX3"},
}

// seed writes the sample catalog. Genres that already exist by name are reused.
func seed(ctx context.Context, repo store.Store, newID func() string, now time.Time) (seedCounts, error) {
	var counts seedCounts

	authorIDs := make(map[string]string, len(sampleAuthors))
	for _, sa := range sampleAuthors {
		a := domain.Author{
			ID:          newID(),
			FirstName:   sa.first,
			FamilyName:  sa.family,
			DateOfBirth: mustDate(sa.born),
			DateOfDeath: mustDate(sa.died),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.SaveAuthor(ctx, a); err != nil {
			return counts, fmt.Errorf("save author %s: %w", sa.family, err)
		}
		authorIDs[sa.key] = a.ID
		counts.Authors++
	}

	genreIDs := make(map[string]string, len(sampleGenres))
	for _, name := range sampleGenres {
		existing, found, err := repo.FindGenreByName(ctx, name)
		if err != nil {
			return counts, fmt.Errorf("find genre %s: %w", name, err)
		}
		if found {
			genreIDs[name] = existing.ID
			continue
		}
		g := domain.Genre{ID: newID(), Name: name, CreatedAt: now, UpdatedAt: now}
		if err := repo.SaveGenre(ctx, g); err != nil {
			return counts, fmt.Errorf("save genre %s: %w", name, err)
		}
		genreIDs[name] = g.ID
		counts.Genres++
	}

	bookIDs := make(map[string]string, len(sampleBooks))
	for _, sb := range sampleBooks {
		b := domain.Book{
			ID:        newID(),
			Title:     sb.title,
			AuthorID:  authorIDs[sb.author],
			Summary:   sb.summary,
			ISBN:      sb.isbn,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, g := range sb.genres {
			b.GenreIDs = append(b.GenreIDs, genreIDs[g])
		}
		if err := repo.SaveBook(ctx, b); err != nil {
			return counts, fmt.Errorf("save book %q: %w", sb.title, err)
		}
		bookIDs[sb.key] = b.ID
		counts.Books++
	}

	for i, sc := range sampleCopies {
		status := sc.status
		if status == "" {
			status = domain.StatusMaintenance
		}
		bi := domain.BookInstance{
			ID:        newID(),
			BookID:    bookIDs[sc.book],
			Imprint:   sc.imprint,
			Status:    status,
			DueBack:   mustDate(sc.dueBack),
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			UpdatedAt: now,
		}
		if err := repo.SaveBookInstance(ctx, bi); err != nil {
			return counts, fmt.Errorf("save copy of %s: %w", sc.book, err)
		}
		counts.Instances++
	}
	return counts, nil
}

func mustDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		panic(fmt.Sprintf("sample date %q: %v", raw, err))
	}
	return &t
}
