package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

var genreColumns = []string{"id", "name"}

func (r *repository) CreateGenre(ctx context.Context, genre model.Genre) (model.Genre, error) {
	b := qb.Insert(genresTableName).
		Columns(genreColumns...).
		Values(genre.ID, genre.Name).
		Suffix("returning id, name")
	return insertOne[model.Genre](ctx, r.conn(ctx), b)
}

func (r *repository) GetGenre(ctx context.Context, id uuid.UUID) (model.Genre, error) {
	b := qb.Select(genreColumns...).
		From(genresTableName).
		Where(sq.Eq{"id": id})
	return getOne[model.Genre](ctx, r.conn(ctx), b)
}

func (r *repository) UpdateGenre(ctx context.Context, genre model.Genre) error {
	b := qb.Update(genresTableName).
		Set("name", genre.Name).
		Where(sq.Eq{"id": genre.ID})
	return execAffecting(ctx, r.conn(ctx), b)
}

// DeleteGenre also drops the genre's book links (ON DELETE CASCADE).
func (r *repository) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	b := qb.Delete(genresTableName).Where(sq.Eq{"id": id})
	return execAffecting(ctx, r.conn(ctx), b)
}

func (r *repository) ListGenres(ctx context.Context, page, size int) (model.Page[model.Genre], error) {
	b := qb.Select(genreColumns...).
		From(genresTableName).
		OrderBy("created_at", "id")
	count := qb.Select("count(*)").From(genresTableName)
	return listPage[model.Genre](ctx, r.conn(ctx), b, count, page, size)
}

var bookGenreColumns = []string{"id", "book_id", "genre_id"}

func (r *repository) CreateBookGenre(ctx context.Context, link model.BookGenre) (model.BookGenre, error) {
	b := qb.Insert(booksGenreTableName).
		Columns(bookGenreColumns...).
		Values(link.ID, link.BookID, link.GenreID).
		Suffix("returning id, book_id, genre_id")
	return insertOne[model.BookGenre](ctx, r.conn(ctx), b)
}

func (r *repository) GetBookGenre(ctx context.Context, bookID, genreID uuid.UUID) (model.BookGenre, error) {
	b := qb.Select(bookGenreColumns...).
		From(booksGenreTableName).
		Where(sq.Eq{"book_id": bookID, "genre_id": genreID})
	return getOne[model.BookGenre](ctx, r.conn(ctx), b)
}

func (r *repository) DeleteBookGenre(ctx context.Context, id uuid.UUID) error {
	b := qb.Delete(booksGenreTableName).Where(sq.Eq{"id": id})
	return execAffecting(ctx, r.conn(ctx), b)
}

func (r *repository) ListBookGenres(ctx context.Context, bookID uuid.UUID) ([]model.Genre, error) {
	query, args, err := qb.Select("g.id", "g.name").
		From(genresTableName + " g").
		Join(fmt.Sprintf("%s bg on bg.genre_id = g.id", booksGenreTableName)).
		Where(sq.Eq{"bg.book_id": bookID}).
		OrderBy("g.name", "g.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Genre])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	return genres, nil
}
