package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

var authorColumns = []string{"id", "name", "biography"}

func (r *repository) CreateAuthor(ctx context.Context, author model.Author) (model.Author, error) {
	b := qb.Insert(authorsTableName).
		Columns(authorColumns...).
		Values(author.ID, author.Name, author.Biography).
		Suffix("returning id, name, biography")
	return insertOne[model.Author](ctx, r.conn(ctx), b)
}

func (r *repository) GetAuthor(ctx context.Context, id uuid.UUID) (model.Author, error) {
	b := qb.Select(authorColumns...).
		From(authorsTableName).
		Where(sq.Eq{"id": id})
	return getOne[model.Author](ctx, r.conn(ctx), b)
}

func (r *repository) UpdateAuthor(ctx context.Context, author model.Author) error {
	b := qb.Update(authorsTableName).
		SetMap(map[string]interface{}{
			"name":      author.Name,
			"biography": author.Biography,
		}).
		Where(sq.Eq{"id": author.ID})
	return execAffecting(ctx, r.conn(ctx), b)
}

// DeleteAuthor relies on ON DELETE CASCADE for the author's books and their genre links.
func (r *repository) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	b := qb.Delete(authorsTableName).Where(sq.Eq{"id": id})
	return execAffecting(ctx, r.conn(ctx), b)
}

func (r *repository) ListAuthors(ctx context.Context, page, size int) (model.Page[model.Author], error) {
	b := qb.Select(authorColumns...).
		From(authorsTableName).
		OrderBy("created_at", "id")
	count := qb.Select("count(*)").From(authorsTableName)
	return listPage[model.Author](ctx, r.conn(ctx), b, count, page, size)
}
