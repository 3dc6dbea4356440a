package service

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/repository"
)

// Service holds the catalog rules. Every operation follows the same shape:
// load or 404, check or 409, persist, shape the response.
type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log.Named("service"),
		repo: repo,
	}
}

// isMissing reports a plain repository miss, not a translated domain error.
func isMissing(err error) bool {
	var nf *errs.NotFoundError
	return errors.Is(err, errs.ErrNotFound) && !errors.As(err, &nf)
}

// present is the partial update rule for strings: nil or blank keeps the stored value.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
