package domain

import (
	"testing"
	"time"
)

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{name: "both parts", author: Author{FirstName: "Jane", FamilyName: "Austen"}, want: "Austen, Jane"},
		{name: "missing first name", author: Author{FamilyName: "Austen"}, want: ""},
		{name: "missing family name", author: Author{FirstName: "Jane"}, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.author.Name(); got != tc.want {
				t.Fatalf("name = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAuthorLifespan(t *testing.T) {
	born := time.Date(1775, time.December, 16, 0, 0, 0, 0, time.UTC)
	died := time.Date(1817, time.July, 18, 0, 0, 0, 0, time.UTC)

	if got := (Author{}).Lifespan(); got != "" {
		t.Fatalf("lifespan without dates = %q, want empty", got)
	}
	if got := (Author{DateOfBirth: &born}).Lifespan(); got != "1775-12-16 - " {
		t.Fatalf("lifespan with birth only = %q", got)
	}
	if got := (Author{DateOfBirth: &born, DateOfDeath: &died}).Lifespan(); got != "1775-12-16 - 1817-07-18" {
		t.Fatalf("lifespan = %q", got)
	}
}

func TestCanonicalPaths(t *testing.T) {
	if got := (Author{ID: "a1"}).URL(); got != "/authors/a1" {
		t.Fatalf("author url = %q", got)
	}
	if got := (Book{ID: "b1"}).URL(); got != "/books/b1" {
		t.Fatalf("book url = %q", got)
	}
	if got := (Genre{ID: "g1"}).URL(); got != "/genres/g1" {
		t.Fatalf("genre url = %q", got)
	}
	if got := (BookInstance{ID: "i1"}).URL(); got != "/bookinstances/i1" {
		t.Fatalf("book instance url = %q", got)
	}
}

func TestParseInstanceStatus(t *testing.T) {
	if status, ok := ParseInstanceStatus(" loaned "); !ok || status != StatusLoaned {
		t.Fatalf("parse loaned = %q, %v", status, ok)
	}
	if _, ok := ParseInstanceStatus("lost"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}
