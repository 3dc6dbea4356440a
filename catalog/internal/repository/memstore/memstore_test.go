package memstore_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/shopspring/decimal"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/repository/memstore"
)

func setup(t *testing.T) (*is.I, *memstore.Store) {
	is := is.New(t)
	store, err := memstore.New()
	is.NoErr(err)
	return is, store
}

func seedBook(is *is.I, s *memstore.Store, isbn string) (model.Author, model.Book) {
	ctx := context.Background()
	author, err := s.CreateAuthor(ctx, model.Author{ID: uuid.New(), Name: "Author " + isbn})
	is.NoErr(err)
	book, err := s.CreateBook(ctx, model.Book{
		ID:          uuid.New(),
		Name:        "Book " + isbn,
		ISBN:        isbn,
		Price:       decimal.NewFromInt(10),
		PublishDate: time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC),
		AuthorID:    author.ID,
	})
	is.NoErr(err)
	return author, book
}

func TestStore_AuthorRoundTrip(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()

	a := model.Author{ID: uuid.New(), Name: "Borges"}
	_, err := s.CreateAuthor(ctx, a)
	is.NoErr(err)

	got, err := s.GetAuthor(ctx, a.ID)
	is.NoErr(err)
	is.Equal(got, a)

	a.Name = "J. L. Borges"
	is.NoErr(s.UpdateAuthor(ctx, a))
	got, err = s.GetAuthor(ctx, a.ID)
	is.NoErr(err)
	is.Equal(got.Name, "J. L. Borges")

	_, err = s.GetAuthor(ctx, uuid.New())
	is.True(errors.Is(err, errs.ErrNotFound))
}

func TestStore_ListInInsertionOrder(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()

	var want []uuid.UUID
	for i := 0; i < 12; i++ {
		g := model.Genre{ID: uuid.New(), Name: fmt.Sprintf("g%d", i)}
		_, err := s.CreateGenre(ctx, g)
		is.NoErr(err)
		want = append(want, g.ID)
	}

	p0, err := s.ListGenres(ctx, 0, 10)
	is.NoErr(err)
	is.Equal(len(p0.Items), 10)
	is.Equal(p0.TotalElements, 12)
	is.Equal(p0.TotalPages, 2)
	for i, g := range p0.Items {
		is.Equal(g.ID, want[i])
	}

	p1, err := s.ListGenres(ctx, 1, 10)
	is.NoErr(err)
	is.Equal(len(p1.Items), 2)
	is.Equal(p1.Items[1].ID, want[11])

	p9, err := s.ListGenres(ctx, 9, 10)
	is.NoErr(err)
	is.Equal(len(p9.Items), 0)
	is.True(p9.Items != nil) // empty pages encode as []

	for _, page := range []int{922337203685477581, math.MaxInt} {
		huge, err := s.ListGenres(ctx, page, 10)
		is.NoErr(err)
		is.Equal(len(huge.Items), 0)
		is.Equal(huge.TotalElements, 12)
	}
}

func TestStore_UniqueISBN(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()
	author, book := seedBook(is, s, "1111111111111")

	_, err := s.CreateBook(ctx, model.Book{ID: uuid.New(), Name: "dup", ISBN: book.ISBN, AuthorID: author.ID})
	is.True(errors.Is(err, errs.ErrConflict))
	is.Equal(errs.ExtraOf(err), errs.ExtraISBN)

	_, other := seedBook(is, s, "2222222222222")
	other.ISBN = book.ISBN
	err = s.UpdateBook(ctx, other)
	is.True(errors.Is(err, errs.ErrConflict))

	got, err := s.GetBookByISBN(ctx, "2222222222222")
	is.NoErr(err)
	is.Equal(got.ID, other.ID) // failed update left the row untouched
}

func TestStore_CreateBookUnknownAuthor(t *testing.T) {
	is, s := setup(t)
	_, err := s.CreateBook(context.Background(), model.Book{ID: uuid.New(), ISBN: "3333333333333", AuthorID: uuid.New()})
	is.True(errors.Is(err, errs.ErrNotFound))
	is.Equal(errs.ExtraOf(err), errs.ExtraAuthor)
}

func TestStore_BookView(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()
	author, book := seedBook(is, s, "4444444444444")

	v, err := s.GetBookView(ctx, book.ID)
	is.NoErr(err)
	is.Equal(v.AuthorName, author.Name)
	is.Equal(v.AuthorID, author.ID)
	is.Equal(v.ISBN, book.ISBN)

	found, err := s.SearchBookViews(ctx, "4444", 0, 10)
	is.NoErr(err)
	is.Equal(found.TotalElements, 1)

	none, err := s.SearchBookViews(ctx, "book", 0, 10)
	is.NoErr(err)
	is.Equal(none.TotalElements, 0) // case sensitive
}

func TestStore_BookGenreLinks(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()
	_, book := seedBook(is, s, "5555555555555")
	genre, err := s.CreateGenre(ctx, model.Genre{ID: uuid.New(), Name: "Essay"})
	is.NoErr(err)

	link, err := s.CreateBookGenre(ctx, model.BookGenre{ID: uuid.New(), BookID: book.ID, GenreID: genre.ID})
	is.NoErr(err)

	_, err = s.CreateBookGenre(ctx, model.BookGenre{ID: uuid.New(), BookID: book.ID, GenreID: genre.ID})
	is.True(errors.Is(err, errs.ErrConflict))

	_, err = s.CreateBookGenre(ctx, model.BookGenre{ID: uuid.New(), BookID: uuid.New(), GenreID: genre.ID})
	is.Equal(errs.ExtraOf(err), errs.ExtraBook)

	got, err := s.GetBookGenre(ctx, book.ID, genre.ID)
	is.NoErr(err)
	is.Equal(got, link)

	genres, err := s.ListBookGenres(ctx, book.ID)
	is.NoErr(err)
	is.Equal(genres, []model.Genre{genre})

	is.NoErr(s.DeleteBookGenre(ctx, link.ID))
	_, err = s.GetBookGenre(ctx, book.ID, genre.ID)
	is.True(errors.Is(err, errs.ErrNotFound))
}

func TestStore_DeleteAuthorCascades(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()
	author, book := seedBook(is, s, "6666666666666")
	genre, err := s.CreateGenre(ctx, model.Genre{ID: uuid.New(), Name: "Drama"})
	is.NoErr(err)
	link, err := s.CreateBookGenre(ctx, model.BookGenre{ID: uuid.New(), BookID: book.ID, GenreID: genre.ID})
	is.NoErr(err)

	is.NoErr(s.DeleteAuthor(ctx, author.ID))

	_, err = s.GetBook(ctx, book.ID)
	is.True(errors.Is(err, errs.ErrNotFound))
	err = s.DeleteBookGenre(ctx, link.ID)
	is.True(errors.Is(err, errs.ErrNotFound))
	_, err = s.GetGenre(ctx, genre.ID)
	is.NoErr(err) // genres outlive their books
}

func TestStore_WithTxRollback(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()
	boom := errors.New("boom")
	id := uuid.New()

	err := s.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.CreateGenre(ctx, model.Genre{ID: id, Name: "Ghost"}); err != nil {
			return err
		}
		if _, err := s.GetGenre(ctx, id); err != nil {
			return err
		}
		return boom
	})
	is.Equal(err, boom)

	_, err = s.GetGenre(ctx, id)
	is.True(errors.Is(err, errs.ErrNotFound))
}

func TestStore_WithTxPanicReleasesWriter(t *testing.T) {
	is, s := setup(t)
	ctx := context.Background()
	id := uuid.New()

	func() {
		defer func() {
			is.True(recover() != nil)
		}()
		_ = s.WithTx(ctx, func(ctx context.Context) error {
			if _, err := s.CreateGenre(ctx, model.Genre{ID: id, Name: "Lost"}); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	_, err := s.GetGenre(ctx, id)
	is.True(errors.Is(err, errs.ErrNotFound))

	done := make(chan error, 1)
	go func() {
		_, err := s.CreateGenre(ctx, model.Genre{ID: uuid.New(), Name: "Found"})
		done <- err
	}()
	select {
	case err := <-done:
		is.NoErr(err)
	case <-time.After(2 * time.Second):
		t.Fatal("write blocked after a panicking transaction")
	}
}
