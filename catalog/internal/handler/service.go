package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type AuthorService interface {
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.AuthorCreated, error)
	GetAuthor(ctx context.Context, id uuid.UUID) (model.AuthorDetails, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) error
	UpdateAuthor(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (model.AuthorDetails, error)
	ListAuthors(ctx context.Context, page int) (model.Page[model.AuthorSummary], error)
}

type BookService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.BookCreated, error)
	GetBook(ctx context.Context, id uuid.UUID) (model.BookDetails, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (model.BookDetails, error)
	ListBooks(ctx context.Context, page int) (model.Page[model.BookSummary], error)
	SearchBooks(ctx context.Context, query string, page int) (model.Page[model.BookSummary], error)
	AddBookGenre(ctx context.Context, bookID, genreID uuid.UUID) error
	RemoveBookGenre(ctx context.Context, bookID, genreID uuid.UUID) error
}

type GenreService interface {
	CreateGenre(ctx context.Context, req model.GenreRequest) (model.GenreResponse, error)
	GetGenre(ctx context.Context, id uuid.UUID) (model.GenreResponse, error)
	DeleteGenre(ctx context.Context, id uuid.UUID) error
	UpdateGenre(ctx context.Context, id uuid.UUID, req model.UpdateGenreRequest) (model.GenreResponse, error)
	ListGenres(ctx context.Context, page int) (model.Page[model.GenreResponse], error)
}

// CatalogService is everything the router serves.
type CatalogService interface {
	AuthorService
	BookService
	GenreService
}

var _ CatalogService = (*service.Service)(nil)
