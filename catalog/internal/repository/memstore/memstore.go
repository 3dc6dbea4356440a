package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/repository"
)

const (
	tableAuthors    = "authors"
	tableBooks      = "books"
	tableGenres     = "genres"
	tableBooksGenre = "books_genre"

	indexID       = "id"
	indexISBN     = "isbn"
	indexAuthor   = "author_id"
	indexBook     = "book_id"
	indexGenre    = "genre_id"
	indexBookPair = "book_genre"
)

// Store keeps the catalog in memory. Rows carry a Seq number so listings
// follow insertion order. Write transactions are serialised by go-memdb,
// so the explicit uniqueness checks below cannot race.
type Store struct {
	db  *memdb.MemDB
	seq atomic.Uint64
}

var _ repository.Repository = (*Store)(nil)

func New() (*Store, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableAuthors: {
				Name: tableAuthors,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.UUIDFieldIndex{Field: "ID"}},
				},
			},
			tableBooks: {
				Name: tableBooks,
				Indexes: map[string]*memdb.IndexSchema{
					indexID:     {Name: indexID, Unique: true, Indexer: &memdb.UUIDFieldIndex{Field: "ID"}},
					indexISBN:   {Name: indexISBN, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ISBN"}},
					indexAuthor: {Name: indexAuthor, Indexer: &memdb.UUIDFieldIndex{Field: "AuthorID"}},
				},
			},
			tableGenres: {
				Name: tableGenres,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.UUIDFieldIndex{Field: "ID"}},
				},
			},
			tableBooksGenre: {
				Name: tableBooksGenre,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {Name: indexID, Unique: true, Indexer: &memdb.UUIDFieldIndex{Field: "ID"}},
					indexBookPair: {
						Name:   indexBookPair,
						Unique: true,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.UUIDFieldIndex{Field: "BookID"},
								&memdb.UUIDFieldIndex{Field: "GenreID"},
							},
						},
					},
					indexBook:  {Name: indexBook, Indexer: &memdb.UUIDFieldIndex{Field: "BookID"}},
					indexGenre: {Name: indexGenre, Indexer: &memdb.UUIDFieldIndex{Field: "GenreID"}},
				},
			},
		},
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("memstore schema: %w", err)
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("memstore init: %w", err)
	}
	return &Store{db: db}, nil
}

type authorRow struct {
	ID        string
	Seq       uint64
	Name      string
	Biography *string
}

type bookRow struct {
	ID          string
	Seq         uint64
	Name        string
	Brief       *string
	PhotoKey    *string
	ISBN        string
	Price       decimal.Decimal
	PublishDate time.Time
	AuthorID    string
}

type genreRow struct {
	ID   string
	Seq  uint64
	Name string
}

type bookGenreRow struct {
	ID      string
	BookID  string
	GenreID string
}

func (r authorRow) model() model.Author {
	return model.Author{ID: uuid.MustParse(r.ID), Name: r.Name, Biography: r.Biography}
}

func (r bookRow) model() model.Book {
	return model.Book{
		ID:          uuid.MustParse(r.ID),
		Name:        r.Name,
		Brief:       r.Brief,
		PhotoKey:    r.PhotoKey,
		ISBN:        r.ISBN,
		Price:       r.Price,
		PublishDate: r.PublishDate,
		AuthorID:    uuid.MustParse(r.AuthorID),
	}
}

func (r genreRow) model() model.Genre {
	return model.Genre{ID: uuid.MustParse(r.ID), Name: r.Name}
}

func (r bookGenreRow) model() model.BookGenre {
	return model.BookGenre{ID: uuid.MustParse(r.ID), BookID: uuid.MustParse(r.BookID), GenreID: uuid.MustParse(r.GenreID)}
}

type txKey struct{}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memdb.Txn); ok {
		return fn(ctx)
	}
	txn := s.db.Txn(true)
	defer txn.Abort() // no-op after Commit, releases the writer lock on panic
	if err := fn(context.WithValue(ctx, txKey{}, txn)); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// read returns the transaction bound to ctx or a fresh snapshot.
func (s *Store) read(ctx context.Context) (*memdb.Txn, func()) {
	if txn, ok := ctx.Value(txKey{}).(*memdb.Txn); ok {
		return txn, func() {}
	}
	txn := s.db.Txn(false)
	return txn, txn.Abort
}

// write runs fn in the transaction bound to ctx or in its own one.
func (s *Store) write(ctx context.Context, fn func(txn *memdb.Txn) error) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txKey{}).(*memdb.Txn))
	})
}

func first[T any](txn *memdb.Txn, table, index string, args ...interface{}) (T, error) {
	var zero T
	raw, err := txn.First(table, index, args...)
	if err != nil {
		return zero, fmt.Errorf("%s lookup by %s: %w", table, index, err)
	}
	if raw == nil {
		return zero, errs.ErrNotFound
	}
	return raw.(T), nil
}

func all[T any](txn *memdb.Txn, table, index string, args ...interface{}) ([]T, error) {
	it, err := txn.Get(table, index, args...)
	if err != nil {
		return nil, fmt.Errorf("%s scan by %s: %w", table, index, err)
	}
	var out []T
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, obj.(T))
	}
	return out, nil
}

type sequenced interface {
	seqNo() uint64
}

func (r authorRow) seqNo() uint64 { return r.Seq }
func (r bookRow) seqNo() uint64 { return r.Seq }
func (r genreRow) seqNo() uint64 { return r.Seq }

func allInOrder[T sequenced](txn *memdb.Txn, table string) ([]T, error) {
	rows, err := all[T](txn, table, indexID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seqNo() < rows[j].seqNo() })
	return rows, nil
}

func paginate[T any](items []T, page, size int) model.Page[T] {
	total := len(items)
	start := total
	// page > total/size also keeps page*size from overflowing
	if size > 0 && page <= total/size {
		start = page * size
	}
	end := start + size
	if end > total {
		end = total
	}
	return model.NewPage(items[start:end], page, size, total)
}

// -- Authors --

func (s *Store) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	err := s.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableAuthors, authorRow{
			ID:        author.ID.String(),
			Seq:       s.seq.Add(1),
			Name:      author.Name,
			Biography: author.Biography,
		})
	})
	if err != nil {
		return model.Author{}, err
	}
	return author, nil
}

func (s *Store) GetAuthor(ctx context.Context, id uuid.UUID) (model.Author, error) {
	txn, done := s.read(ctx)
	defer done()
	row, err := first[authorRow](txn, tableAuthors, indexID, id.String())
	if err != nil {
		return model.Author{}, err
	}
	return row.model(), nil
}

func (s *Store) UpdateAuthor(ctx context.Context, author model.Author) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[authorRow](txn, tableAuthors, indexID, author.ID.String())
		if err != nil {
			return err
		}
		row.Name = author.Name
		row.Biography = author.Biography
		return txn.Insert(tableAuthors, row)
	})
}

func (s *Store) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[authorRow](txn, tableAuthors, indexID, id.String())
		if err != nil {
			return err
		}
		books, err := all[bookRow](txn, tableBooks, indexAuthor, row.ID)
		if err != nil {
			return err
		}
		for _, b := range books {
			if err := deleteBook(txn, b); err != nil {
				return err
			}
		}
		return txn.Delete(tableAuthors, row)
	})
}

func (s *Store) ListAuthors(ctx context.Context, page, size int) (model.Page[model.Author], error) {
	txn, done := s.read(ctx)
	defer done()
	rows, err := allInOrder[authorRow](txn, tableAuthors)
	if err != nil {
		return model.Page[model.Author]{}, err
	}
	return model.MapPage(paginate(rows, page, size), authorRow.model), nil
}

// -- Books --

func (s *Store) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	err := s.write(ctx, func(txn *memdb.Txn) error {
		if _, err := first[authorRow](txn, tableAuthors, indexID, book.AuthorID.String()); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.NotFound("Author not found", errs.ExtraAuthor)
			}
			return err
		}
		if _, err := first[bookRow](txn, tableBooks, indexISBN, book.ISBN); err == nil {
			return errs.Conflict("Already exists a book with this isbn", errs.ExtraISBN)
		}
		return txn.Insert(tableBooks, bookRow{
			ID:          book.ID.String(),
			Seq:         s.seq.Add(1),
			Name:        book.Name,
			Brief:       book.Brief,
			PhotoKey:    book.PhotoKey,
			ISBN:        book.ISBN,
			Price:       book.Price,
			PublishDate: book.PublishDate,
			AuthorID:    book.AuthorID.String(),
		})
	})
	if err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (s *Store) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	txn, done := s.read(ctx)
	defer done()
	row, err := first[bookRow](txn, tableBooks, indexID, id.String())
	if err != nil {
		return model.Book{}, err
	}
	return row.model(), nil
}

func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	txn, done := s.read(ctx)
	defer done()
	row, err := first[bookRow](txn, tableBooks, indexISBN, isbn)
	if err != nil {
		return model.Book{}, err
	}
	return row.model(), nil
}

func (s *Store) UpdateBook(ctx context.Context, book model.Book) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[bookRow](txn, tableBooks, indexID, book.ID.String())
		if err != nil {
			return err
		}
		if other, err := first[bookRow](txn, tableBooks, indexISBN, book.ISBN); err == nil && other.ID != row.ID {
			return errs.Conflict("Already exists a book with this isbn", errs.ExtraISBN)
		}
		row.Name = book.Name
		row.Brief = book.Brief
		row.ISBN = book.ISBN
		row.Price = book.Price
		row.PublishDate = book.PublishDate
		return txn.Insert(tableBooks, row)
	})
}

func (s *Store) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[bookRow](txn, tableBooks, indexID, id.String())
		if err != nil {
			return err
		}
		return deleteBook(txn, row)
	})
}

func deleteBook(txn *memdb.Txn, row bookRow) error {
	if _, err := txn.DeleteAll(tableBooksGenre, indexBook, row.ID); err != nil {
		return fmt.Errorf("delete book genres: %w", err)
	}
	return txn.Delete(tableBooks, row)
}

// -- Book view --

func view(txn *memdb.Txn, b bookRow) (model.BookView, error) {
	a, err := first[authorRow](txn, tableAuthors, indexID, b.AuthorID)
	if err != nil {
		return model.BookView{}, fmt.Errorf("book %s author: %w", b.ID, err)
	}
	return model.BookView{
		ID:          uuid.MustParse(b.ID),
		Name:        b.Name,
		Brief:       b.Brief,
		PhotoKey:    b.PhotoKey,
		ISBN:        b.ISBN,
		Price:       b.Price,
		PublishDate: b.PublishDate,
		AuthorID:    uuid.MustParse(b.AuthorID),
		AuthorName:  a.Name,
	}, nil
}

func (s *Store) GetBookView(ctx context.Context, id uuid.UUID) (model.BookView, error) {
	txn, done := s.read(ctx)
	defer done()
	row, err := first[bookRow](txn, tableBooks, indexID, id.String())
	if err != nil {
		return model.BookView{}, err
	}
	return view(txn, row)
}

func (s *Store) ListBookViews(ctx context.Context, page, size int) (model.Page[model.BookView], error) {
	return s.bookViews(ctx, func(bookRow) bool { return true }, page, size)
}

func (s *Store) SearchBookViews(ctx context.Context, query string, page, size int) (model.Page[model.BookView], error) {
	return s.bookViews(ctx, func(b bookRow) bool { return strings.Contains(b.Name, query) }, page, size)
}

func (s *Store) bookViews(ctx context.Context, match func(bookRow) bool, page, size int) (model.Page[model.BookView], error) {
	txn, done := s.read(ctx)
	defer done()
	rows, err := allInOrder[bookRow](txn, tableBooks)
	if err != nil {
		return model.Page[model.BookView]{}, err
	}
	matched := make([]bookRow, 0, len(rows))
	for _, r := range rows {
		if match(r) {
			matched = append(matched, r)
		}
	}
	p := paginate(matched, page, size)
	views := make([]model.BookView, 0, len(p.Items))
	for _, r := range p.Items {
		v, err := view(txn, r)
		if err != nil {
			return model.Page[model.BookView]{}, err
		}
		views = append(views, v)
	}
	return model.Page[model.BookView]{Paging: p.Paging, Items: views}, nil
}

// -- Genres --

func (s *Store) CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	err := s.write(ctx, func(txn *memdb.Txn) error {
		return txn.Insert(tableGenres, genreRow{ID: genre.ID.String(), Seq: s.seq.Add(1), Name: genre.Name})
	})
	if err != nil {
		return model.Genre{}, err
	}
	return genre, nil
}

func (s *Store) GetGenre(ctx context.Context, id uuid.UUID) (model.Genre, error) {
	txn, done := s.read(ctx)
	defer done()
	row, err := first[genreRow](txn, tableGenres, indexID, id.String())
	if err != nil {
		return model.Genre{}, err
	}
	return row.model(), nil
}

func (s *Store) UpdateGenre(ctx context.Context, genre model.Genre) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[genreRow](txn, tableGenres, indexID, genre.ID.String())
		if err != nil {
			return err
		}
		row.Name = genre.Name
		return txn.Insert(tableGenres, row)
	})
}

func (s *Store) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[genreRow](txn, tableGenres, indexID, id.String())
		if err != nil {
			return err
		}
		if _, err := txn.DeleteAll(tableBooksGenre, indexGenre, row.ID); err != nil {
			return fmt.Errorf("delete genre links: %w", err)
		}
		return txn.Delete(tableGenres, row)
	})
}

func (s *Store) ListGenres(ctx context.Context, page, size int) (model.Page[model.Genre], error) {
	txn, done := s.read(ctx)
	defer done()
	rows, err := allInOrder[genreRow](txn, tableGenres)
	if err != nil {
		return model.Page[model.Genre]{}, err
	}
	return model.MapPage(paginate(rows, page, size), genreRow.model), nil
}

// -- Book genres --

func (s *Store) CreateBookGenre(ctx context.Context, link model.BookGenre) (model.BookGenre, error) {
	err := s.write(ctx, func(txn *memdb.Txn) error {
		if _, err := first[bookRow](txn, tableBooks, indexID, link.BookID.String()); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.NotFound("Book not found", errs.ExtraBook)
			}
			return err
		}
		if _, err := first[genreRow](txn, tableGenres, indexID, link.GenreID.String()); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return errs.NotFound("Genre not found", errs.ExtraGenre)
			}
			return err
		}
		if _, err := first[bookGenreRow](txn, tableBooksGenre, indexBookPair, link.BookID.String(), link.GenreID.String()); err == nil {
			return errs.Conflict("Already exists an genre attached in this book", errs.ExtraGenre)
		}
		return txn.Insert(tableBooksGenre, bookGenreRow{
			ID:      link.ID.String(),
			BookID:  link.BookID.String(),
			GenreID: link.GenreID.String(),
		})
	})
	if err != nil {
		return model.BookGenre{}, err
	}
	return link, nil
}

func (s *Store) GetBookGenre(ctx context.Context, bookID, genreID uuid.UUID) (model.BookGenre, error) {
	txn, done := s.read(ctx)
	defer done()
	row, err := first[bookGenreRow](txn, tableBooksGenre, indexBookPair, bookID.String(), genreID.String())
	if err != nil {
		return model.BookGenre{}, err
	}
	return row.model(), nil
}

func (s *Store) DeleteBookGenre(ctx context.Context, id uuid.UUID) error {
	return s.write(ctx, func(txn *memdb.Txn) error {
		row, err := first[bookGenreRow](txn, tableBooksGenre, indexID, id.String())
		if err != nil {
			return err
		}
		return txn.Delete(tableBooksGenre, row)
	})
}

func (s *Store) ListBookGenres(ctx context.Context, bookID uuid.UUID) ([]model.Genre, error) {
	txn, done := s.read(ctx)
	defer done()
	links, err := all[bookGenreRow](txn, tableBooksGenre, indexBook, bookID.String())
	if err != nil {
		return nil, err
	}
	genres := make([]model.Genre, 0, len(links))
	for _, l := range links {
		g, err := first[genreRow](txn, tableGenres, indexID, l.GenreID)
		if err != nil {
			return nil, fmt.Errorf("genre %s: %w", l.GenreID, err)
		}
		genres = append(genres, g.model())
	}
	return genres, nil
}
