package repository

import (
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
)

// Constraint names declared in the migrations.
const (
	constraintBookISBN      = "books_isbn_key"
	constraintBookGenrePair = "books_genre_book_id_genre_id_key"
	constraintBookAuthor    = "fk_author_id"
	constraintLinkBook      = "fk_book_id"
	constraintLinkGenre     = "fk_genre_id"
)

// translate turns constraint violations into domain errors so that a lost
// check-then-insert race still ends up as a Conflict or NotFound.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintBookISBN:
			return errs.Conflict("Already exists a book with this isbn", errs.ExtraISBN)
		case constraintBookGenrePair:
			return errs.Conflict("Already exists an genre attached in this book", errs.ExtraGenre)
		}
		return errs.Conflict(pgErr.Message, "")
	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintBookAuthor:
			return errs.NotFound("Author not found", errs.ExtraAuthor)
		case constraintLinkBook:
			return errs.NotFound("Book not found", errs.ExtraBook)
		case constraintLinkGenre:
			return errs.NotFound("Genre not found", errs.ExtraGenre)
		}
	}
	return errors.Wrap(err, pgErr.Code)
}
