package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence. Text columns hold HTML-escaped input,
// which can be several times longer than what was validated, so they are unsized.
type AuthorModel struct {
	ID          string `gorm:"primaryKey"`
	FirstName   string `gorm:"not null"`
	FamilyName  string `gorm:"not null;index"`
	DateOfBirth *datatypes.Date
	DateOfDeath *datatypes.Date
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type GenreModel struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type BookModel struct {
	ID        string       `gorm:"primaryKey"`
	Title     string       `gorm:"not null;index"`
	AuthorID  string       `gorm:"not null;index"`
	Author    AuthorModel  `gorm:"foreignKey:AuthorID"`
	Summary   string       `gorm:"type:text;not null"`
	ISBN      string       `gorm:"column:isbn;not null"`
	Genres    []GenreModel `gorm:"many2many:book_genres;joinForeignKey:BookID;joinReferences:GenreID"`
	CreatedAt time.Time    `gorm:"not null"`
	UpdatedAt time.Time    `gorm:"not null"`
}

// BookGenreModel is the join row behind BookModel.Genres.
type BookGenreModel struct {
	BookID  string `gorm:"primaryKey"`
	GenreID string `gorm:"primaryKey;index"`
}

func (BookGenreModel) TableName() string { return "book_genres" }

type BookInstanceModel struct {
	ID        string    `gorm:"primaryKey"`
	BookID    string    `gorm:"not null;index"`
	Book      BookModel `gorm:"foreignKey:BookID"`
	Imprint   string    `gorm:"not null"`
	Status    string    `gorm:"not null;index"`
	DueBack   *datatypes.Date
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}
