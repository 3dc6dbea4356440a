package repository

import (
	"context"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

// Transactor runs fn inside one transaction. Nested calls join the outer one.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuthorRepository interface {
	CreateAuthor(ctx context.Context, author model.Author) (model.Author, error)
	GetAuthor(ctx context.Context, id uuid.UUID) (model.Author, error)
	UpdateAuthor(ctx context.Context, author model.Author) error
	DeleteAuthor(ctx context.Context, id uuid.UUID) error
	ListAuthors(ctx context.Context, page, size int) (model.Page[model.Author], error)
}

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (model.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) error
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

// BookViewRepository reads the books_view projection.
type BookViewRepository interface {
	GetBookView(ctx context.Context, id uuid.UUID) (model.BookView, error)
	ListBookViews(ctx context.Context, page, size int) (model.Page[model.BookView], error)
	SearchBookViews(ctx context.Context, query string, page, size int) (model.Page[model.BookView], error)
}

type GenreRepository interface {
	CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error)
	GetGenre(ctx context.Context, id uuid.UUID) (model.Genre, error)
	UpdateGenre(ctx context.Context, genre model.Genre) error
	DeleteGenre(ctx context.Context, id uuid.UUID) error
	ListGenres(ctx context.Context, page, size int) (model.Page[model.Genre], error)
}

type BookGenreRepository interface {
	CreateBookGenre(ctx context.Context, link model.BookGenre) (model.BookGenre, error)
	GetBookGenre(ctx context.Context, bookID, genreID uuid.UUID) (model.BookGenre, error)
	DeleteBookGenre(ctx context.Context, id uuid.UUID) error
	ListBookGenres(ctx context.Context, bookID uuid.UUID) ([]model.Genre, error)
}

type Repository interface {
	Transactor
	AuthorRepository
	BookRepository
	BookViewRepository
	GenreRepository
	BookGenreRepository
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

var _ Repository = (*repository)(nil)

const (
	authorsTableName    = `authors`
	booksTableName      = `books`
	booksViewName       = `books_view`
	genresTableName     = `genres`
	booksGenreTableName = `books_genre`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

func (r *repository) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func getOne[T any](ctx context.Context, q querier, b sq.SelectBuilder) (T, error) {
	var zero T
	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, translate(err)
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errs.ErrNotFound
		}
		return zero, err
	}
	return item, nil
}

func insertOne[T any](ctx context.Context, q querier, b sq.InsertBuilder) (T, error) {
	var zero T
	query, args, err := b.ToSql()
	if err != nil {
		return zero, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return zero, translate(err)
	}
	defer rows.Close()

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return zero, translate(err)
	}
	return item, nil
}

// listPage runs the page query and the matching count query. page is zero based.
// A page whose offset does not fit in a bigint is past the end and comes back empty.
func listPage[T any](ctx context.Context, q querier, b, count sq.SelectBuilder, page, size int) (model.Page[T], error) {
	var items []T
	if offset, ok := pageOffset(page, size); ok {
		query, args, err := b.Limit(uint64(size)).Offset(offset).ToSql()
		if err != nil {
			return model.Page[T]{}, err
		}
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return model.Page[T]{}, err
		}
		defer rows.Close()

		items, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		if err != nil {
			return model.Page[T]{}, errors.Wrap(err, "pgx.CollectRows")
		}
	}

	countQuery, countArgs, err := count.ToSql()
	if err != nil {
		return model.Page[T]{}, err
	}
	var total int
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return model.Page[T]{}, errors.Wrap(err, "count")
	}
	return model.NewPage(items, page, size, total), nil
}

func pageOffset(page, size int) (uint64, bool) {
	if page < 0 || size <= 0 || page > math.MaxInt/size {
		return 0, false
	}
	return uint64(page * size), true
}

func execAffecting(ctx context.Context, q querier, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
