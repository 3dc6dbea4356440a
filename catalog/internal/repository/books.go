package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

var (
	bookColumns     = []string{"id", "name", "brief", "photo_key", "isbn", "price", "publish_date", "author_id"}
	bookViewColumns = append(append([]string{}, bookColumns...), "author_name")
)

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	b := qb.Insert(booksTableName).
		Columns(bookColumns...).
		Values(book.ID, book.Name, book.Brief, book.PhotoKey, book.ISBN, book.Price, book.PublishDate, book.AuthorID).
		Suffix("returning " + strings.Join(bookColumns, ", "))
	return insertOne[model.Book](ctx, r.conn(ctx), b)
}

func (r *repository) GetBook(ctx context.Context, id uuid.UUID) (model.Book, error) {
	b := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id})
	return getOne[model.Book](ctx, r.conn(ctx), b)
}

func (r *repository) GetBookByISBN(ctx context.Context, isbn string) (model.Book, error) {
	b := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"isbn": isbn})
	return getOne[model.Book](ctx, r.conn(ctx), b)
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) error {
	b := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"name":         book.Name,
			"brief":        book.Brief,
			"isbn":         book.ISBN,
			"price":        book.Price,
			"publish_date": book.PublishDate,
		}).
		Where(sq.Eq{"id": book.ID})
	return execAffecting(ctx, r.conn(ctx), b)
}

// DeleteBook relies on ON DELETE CASCADE for the book's genre links.
func (r *repository) DeleteBook(ctx context.Context, id uuid.UUID) error {
	b := qb.Delete(booksTableName).Where(sq.Eq{"id": id})
	return execAffecting(ctx, r.conn(ctx), b)
}

func (r *repository) GetBookView(ctx context.Context, id uuid.UUID) (model.BookView, error) {
	b := qb.Select(bookViewColumns...).
		From(booksViewName).
		Where(sq.Eq{"id": id})
	return getOne[model.BookView](ctx, r.conn(ctx), b)
}

func (r *repository) ListBookViews(ctx context.Context, page, size int) (model.Page[model.BookView], error) {
	b := qb.Select(bookViewColumns...).
		From(booksViewName).
		OrderBy("created_at", "id")
	count := qb.Select("count(*)").From(booksViewName)
	return listPage[model.BookView](ctx, r.conn(ctx), b, count, page, size)
}

func (r *repository) SearchBookViews(ctx context.Context, query string, page, size int) (model.Page[model.BookView], error) {
	cond := searchCond(query)
	b := qb.Select(bookViewColumns...).
		From(booksViewName).
		Where(cond).
		OrderBy("created_at", "id")
	count := qb.Select("count(*)").From(booksViewName).Where(cond)
	r.log.Debug("SearchBookViews", zap.String("query", query), zap.Int("page", page))
	return listPage[model.BookView](ctx, r.conn(ctx), b, count, page, size)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchCond matches query as a literal substring of the book name.
func searchCond(query string) sq.Sqlizer {
	return sq.Like{"name": "%" + likeEscaper.Replace(query) + "%"}
}
