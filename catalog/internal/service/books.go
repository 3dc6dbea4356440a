package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

func bookNotFound(id uuid.UUID, extra string) error {
	return errs.NotFound(fmt.Sprintf("Book %s not found", id), extra)
}

func isbnTaken() error {
	return errs.Conflict("Already exists a book with this isbn", errs.ExtraISBN)
}

// checkISBNFree fails with Conflict when another book already uses isbn.
// The unique constraint on books.isbn backs this check up.
func (s *Service) checkISBNFree(ctx context.Context, isbn string) error {
	_, err := s.repo.GetBookByISBN(ctx, isbn)
	switch {
	case err == nil:
		return isbnTaken()
	case isMissing(err):
		return nil
	default:
		return err
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.BookCreated, error) {
	book := model.Book{
		ID:          uuid.New(),
		Name:        req.Name,
		Brief:       req.Brief,
		ISBN:        req.ISBN,
		AuthorID:    req.AuthorID,
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.PublishDate != nil {
		book.PublishDate = req.PublishDate.Time
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkISBNFree(ctx, book.ISBN); err != nil {
			return err
		}
		if _, err := s.repo.GetAuthor(ctx, book.AuthorID); err != nil {
			if isMissing(err) {
				return errs.NotFound(fmt.Sprintf("Author %s not found", book.AuthorID), errs.ExtraAuthor)
			}
			return err
		}
		var err error
		book, err = s.repo.CreateBook(ctx, book)
		return err
	})
	if err != nil {
		return model.BookCreated{}, err
	}
	s.log.Debug("book created", zap.Stringer("id", book.ID), zap.String("isbn", book.ISBN))
	return book.Created(), nil
}

// GetBook reads the books_view projection and the book's genres concurrently.
func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (model.BookDetails, error) {
	var (
		view   model.BookView
		genres []model.Genre
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view, err = s.repo.GetBookView(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = s.repo.ListBookGenres(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		if isMissing(err) {
			return model.BookDetails{}, bookNotFound(id, "")
		}
		return model.BookDetails{}, errors.Wrap(err, "get book")
	}
	return model.BookDetailsFromView(view, genres), nil
}

func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetBook(ctx, id); err != nil {
			if isMissing(err) {
				return bookNotFound(id, "")
			}
			return err
		}
		return s.repo.DeleteBook(ctx, id)
	})
}

func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (model.BookDetails, error) {
	var details model.BookDetails
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		book, err := s.repo.GetBook(ctx, id)
		if err != nil {
			if isMissing(err) {
				return bookNotFound(id, "")
			}
			return err
		}

		if present(req.Name) {
			book.Name = *req.Name
		}
		if present(req.Brief) {
			book.Brief = req.Brief
		}
		if present(req.ISBN) && *req.ISBN != book.ISBN {
			if err := s.checkISBNFree(ctx, *req.ISBN); err != nil {
				return err
			}
			book.ISBN = *req.ISBN
		}
		if req.Price != nil {
			book.Price = *req.Price
		}
		if req.PublishDate != nil && !req.PublishDate.IsZero() {
			book.PublishDate = req.PublishDate.Time
		}
		if err := s.repo.UpdateBook(ctx, book); err != nil {
			return err
		}

		author, err := s.repo.GetAuthor(ctx, book.AuthorID)
		if err != nil {
			return errors.Wrap(err, "load book author")
		}
		genres, err := s.repo.ListBookGenres(ctx, book.ID)
		if err != nil {
			return errors.Wrap(err, "load book genres")
		}
		details = model.BookDetailsFromBook(book, author, genres)
		return nil
	})
	if err != nil {
		return model.BookDetails{}, err
	}
	return details, nil
}

func (s *Service) ListBooks(ctx context.Context, page int) (model.Page[model.BookSummary], error) {
	books, err := s.repo.ListBookViews(ctx, page, model.PageSize)
	if err != nil {
		return model.Page[model.BookSummary]{}, err
	}
	return model.MapPage(books, model.BookView.Summary), nil
}

func (s *Service) SearchBooks(ctx context.Context, query string, page int) (model.Page[model.BookSummary], error) {
	books, err := s.repo.SearchBookViews(ctx, query, page, model.PageSize)
	if err != nil {
		return model.Page[model.BookSummary]{}, err
	}
	return model.MapPage(books, model.BookView.Summary), nil
}

func (s *Service) AddBookGenre(ctx context.Context, bookID, genreID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetBook(ctx, bookID); err != nil {
			if isMissing(err) {
				return bookNotFound(bookID, errs.ExtraBook)
			}
			return err
		}
		if _, err := s.repo.GetGenre(ctx, genreID); err != nil {
			if isMissing(err) {
				return genreNotFound(genreID, errs.ExtraGenre)
			}
			return err
		}
		_, err := s.repo.GetBookGenre(ctx, bookID, genreID)
		switch {
		case err == nil:
			return errs.Conflict("Already exists an genre attached in this book", errs.ExtraGenre)
		case !isMissing(err):
			return err
		}
		_, err = s.repo.CreateBookGenre(ctx, model.BookGenre{ID: uuid.New(), BookID: bookID, GenreID: genreID})
		return err
	})
}

func (s *Service) RemoveBookGenre(ctx context.Context, bookID, genreID uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		link, err := s.repo.GetBookGenre(ctx, bookID, genreID)
		if err != nil {
			if isMissing(err) {
				return errs.NotFound(
					fmt.Sprintf("Book genre with bookId %s and genreId %s not found", bookID, genreID),
					errs.ExtraBookGenre)
			}
			return err
		}
		return s.repo.DeleteBookGenre(ctx, link.ID)
	})
}
