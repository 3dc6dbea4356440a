package errs

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Extra hints telling clients which resource caused a NotFound or Conflict.
const (
	ExtraAuthor    = "author"
	ExtraBook      = "book"
	ExtraGenre     = "genre"
	ExtraBookGenre = "book_genre"
	ExtraISBN      = "isbn"
)

type NotFoundError struct {
	Message string
	Extra   string
}

func NotFound(msg, extra string) *NotFoundError {
	return &NotFoundError{Message: msg, Extra: extra}
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ConflictError struct {
	Message string
	Extra   string
}

func Conflict(msg, extra string) *ConflictError {
	return &ConflictError{Message: msg, Extra: extra}
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ExtraOf returns the hint carried by a NotFound or Conflict error.
func ExtraOf(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Extra
	}
	var c *ConflictError
	if errors.As(err, &c) {
		return c.Extra
	}
	return ""
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	Details   string    `json:"details"`
	Extra     string    `json:"extra,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
