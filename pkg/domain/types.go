package domain

import (
	"strings"
	"time"
)

type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses lists the statuses in the order forms present them.
var InstanceStatuses = []InstanceStatus{
	StatusMaintenance,
	StatusAvailable,
	StatusLoaned,
	StatusReserved,
}

// ParseInstanceStatus matches a status case-insensitively.
func ParseInstanceStatus(raw string) (InstanceStatus, bool) {
	raw = strings.TrimSpace(raw)
	for _, status := range InstanceStatuses {
		if strings.EqualFold(string(status), raw) {
			return status, true
		}
	}
	return "", false
}

const dateLayout = "2006-01-02"

type Author struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	FamilyName  string     `json:"familyName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	DateOfDeath *time.Time `json:"dateOfDeath,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Name returns "family, first", or an empty string when either part is missing.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders the birth and death dates as "born - died".
func (a Author) Lifespan() string {
	if a.DateOfBirth == nil && a.DateOfDeath == nil {
		return ""
	}
	return formatDate(a.DateOfBirth) + " - " + formatDate(a.DateOfDeath)
}

func (a Author) URL() string { return AuthorPath(a.ID) }

type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"authorId"`
	Author    *Author   `json:"author,omitempty"`
	Summary   string    `json:"summary"`
	ISBN      string    `json:"isbn"`
	GenreIDs  []string  `json:"genreIds"`
	Genres    []Genre   `json:"genres,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b Book) URL() string { return BookPath(b.ID) }

// HasGenre reports whether the book references the genre id.
func (b Book) HasGenre(id string) bool {
	for _, genreID := range b.GenreIDs {
		if genreID == id {
			return true
		}
	}
	return false
}

type Genre struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g Genre) URL() string { return GenrePath(g.ID) }

type BookInstance struct {
	ID        string         `json:"id"`
	BookID    string         `json:"bookId"`
	Book      *Book          `json:"book,omitempty"`
	Imprint   string         `json:"imprint"`
	Status    InstanceStatus `json:"status"`
	DueBack   *time.Time     `json:"dueBack,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (bi BookInstance) URL() string { return BookInstancePath(bi.ID) }

// DueBackFormatted renders the due date, or an empty string when unset.
func (bi BookInstance) DueBackFormatted() string { return formatDate(bi.DueBack) }

// Dashboard holds the aggregate counts shown on the index page.
type Dashboard struct {
	BookCount              int64 `json:"bookCount"`
	BookInstanceCount      int64 `json:"bookInstanceCount"`
	AvailableInstanceCount int64 `json:"availableInstanceCount"`
	AuthorCount            int64 `json:"authorCount"`
	GenreCount             int64 `json:"genreCount"`
}

// FormatDate renders an optional date as YYYY-MM-DD.
func FormatDate(t *time.Time) string { return formatDate(t) }

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
