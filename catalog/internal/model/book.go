package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BookNameMaxLen  = 255
	BookBriefMaxLen = 2048
	ISBNLen         = 13
)

// MaxPrice is the highest accepted book price.
var MaxPrice = decimal.RequireFromString("999999999.00")

type Book struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Brief       *string         `db:"brief"`
	PhotoKey    *string         `db:"photo_key"`
	ISBN        string          `db:"isbn"`
	Price       decimal.Decimal `db:"price"`
	PublishDate time.Time       `db:"publish_date"`
	AuthorID    uuid.UUID       `db:"author_id"`
}

// BookView is the read projection of a book joined with its author.
type BookView struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Brief       *string         `db:"brief"`
	PhotoKey    *string         `db:"photo_key"`
	ISBN        string          `db:"isbn"`
	Price       decimal.Decimal `db:"price"`
	PublishDate time.Time       `db:"publish_date"`
	AuthorID    uuid.UUID       `db:"author_id"`
	AuthorName  string          `db:"author_name"`
}

type CreateBookRequest struct {
	Name        string           `json:"name" validate:"notblank,max=255"`
	Brief       *string          `json:"brief" validate:"omitempty,max=2048"`
	ISBN        string           `json:"isbn" validate:"notblank,len=13"`
	Price       *decimal.Decimal `json:"price" validate:"required,decimal_max=999999999.00"`
	PublishDate *Date            `json:"publishDate" validate:"required"`
	AuthorID    uuid.UUID        `json:"authorId" validate:"required"`
}

// UpdateBookRequest: blank strings and nil values keep the stored value.
type UpdateBookRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Brief       *string          `json:"brief" validate:"omitempty,max=2048"`
	ISBN        *string          `json:"isbn" validate:"omitempty,len=13"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,decimal_max=999999999.00"`
	PublishDate *Date            `json:"publishDate"`
}

type BookCreated struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Brief       *string         `json:"brief"`
	ISBN        string          `json:"isbn"`
	Price       decimal.Decimal `json:"price"`
	PublishDate Date            `json:"publishDate"`
	AuthorID    uuid.UUID       `json:"authorId"`
}

type BookDetails struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Brief       *string         `json:"brief"`
	ISBN        string          `json:"isbn"`
	Price       decimal.Decimal `json:"price"`
	PublishDate Date            `json:"publishDate"`
	Author      AuthorSummary   `json:"author"`
	Genres      []GenreResponse `json:"genres"`
}

type BookSummary struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	AuthorName string          `json:"authorName"`
}

func (b Book) Created() BookCreated {
	return BookCreated{
		ID:          b.ID,
		Name:        b.Name,
		Brief:       b.Brief,
		ISBN:        b.ISBN,
		Price:       b.Price,
		PublishDate: NewDate(b.PublishDate),
		AuthorID:    b.AuthorID,
	}
}

// BookDetailsFromView builds the details from the read projection and the linked genres.
func BookDetailsFromView(v BookView, genres []Genre) BookDetails {
	return BookDetails{
		ID:          v.ID,
		Name:        v.Name,
		Brief:       v.Brief,
		ISBN:        v.ISBN,
		Price:       v.Price,
		PublishDate: NewDate(v.PublishDate),
		Author:      AuthorSummary{ID: v.AuthorID, Name: v.AuthorName},
		Genres:      GenreSet(genres),
	}
}

// BookDetailsFromBook builds the details from a loaded book, its author and its genres.
// For equal data it yields the same value as BookDetailsFromView.
func BookDetailsFromBook(b Book, author Author, genres []Genre) BookDetails {
	return BookDetails{
		ID:          b.ID,
		Name:        b.Name,
		Brief:       b.Brief,
		ISBN:        b.ISBN,
		Price:       b.Price,
		PublishDate: NewDate(b.PublishDate),
		Author:      author.Summary(),
		Genres:      GenreSet(genres),
	}
}

func (v BookView) Summary() BookSummary {
	return BookSummary{ID: v.ID, Name: v.Name, Price: v.Price, AuthorName: v.AuthorName}
}
