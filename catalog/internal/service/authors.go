package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

func authorNotFound(id uuid.UUID) error {
	return errs.NotFound(fmt.Sprintf("Author %s not found", id), "")
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.AuthorCreated, error) {
	author, err := s.repo.CreateAuthor(ctx, model.Author{
		ID:        uuid.New(),
		Name:      req.Name,
		Biography: req.Biography,
	})
	if err != nil {
		return model.AuthorCreated{}, err
	}
	s.log.Debug("author created", zap.Stringer("id", author.ID))
	return model.AuthorCreated{ID: author.ID, Name: author.Name, Biography: author.Biography}, nil
}

func (s *Service) GetAuthor(ctx context.Context, id uuid.UUID) (model.AuthorDetails, error) {
	author, err := s.repo.GetAuthor(ctx, id)
	if err != nil {
		if isMissing(err) {
			return model.AuthorDetails{}, authorNotFound(id)
		}
		return model.AuthorDetails{}, err
	}
	return author.Details(), nil
}

func (s *Service) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetAuthor(ctx, id); err != nil {
			if isMissing(err) {
				return authorNotFound(id)
			}
			return err
		}
		return s.repo.DeleteAuthor(ctx, id)
	})
}

func (s *Service) UpdateAuthor(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (model.AuthorDetails, error) {
	var author model.Author
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		author, err = s.repo.GetAuthor(ctx, id)
		if err != nil {
			if isMissing(err) {
				return authorNotFound(id)
			}
			return err
		}
		if present(req.Name) {
			author.Name = *req.Name
		}
		if present(req.Biography) {
			author.Biography = req.Biography
		}
		return s.repo.UpdateAuthor(ctx, author)
	})
	if err != nil {
		return model.AuthorDetails{}, err
	}
	return author.Details(), nil
}

func (s *Service) ListAuthors(ctx context.Context, page int) (model.Page[model.AuthorSummary], error) {
	authors, err := s.repo.ListAuthors(ctx, page, model.PageSize)
	if err != nil {
		return model.Page[model.AuthorSummary]{}, err
	}
	return model.MapPage(authors, model.Author.Summary), nil
}
