package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

func genreNotFound(id uuid.UUID, extra string) error {
	return errs.NotFound(fmt.Sprintf("Genre %s not found", id), extra)
}

func (s *Service) CreateGenre(ctx context.Context, req model.GenreRequest) (model.GenreResponse, error) {
	genre, err := s.repo.CreateGenre(ctx, model.Genre{ID: uuid.New(), Name: req.Name})
	if err != nil {
		return model.GenreResponse{}, err
	}
	return genre.Response(), nil
}

func (s *Service) GetGenre(ctx context.Context, id uuid.UUID) (model.GenreResponse, error) {
	genre, err := s.repo.GetGenre(ctx, id)
	if err != nil {
		if isMissing(err) {
			return model.GenreResponse{}, genreNotFound(id, "")
		}
		return model.GenreResponse{}, err
	}
	return genre.Response(), nil
}

// DeleteGenre removes the genre together with its book links.
func (s *Service) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetGenre(ctx, id); err != nil {
			if isMissing(err) {
				return genreNotFound(id, "")
			}
			return err
		}
		return s.repo.DeleteGenre(ctx, id)
	})
}

func (s *Service) UpdateGenre(ctx context.Context, id uuid.UUID, req model.UpdateGenreRequest) (model.GenreResponse, error) {
	var genre model.Genre
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		var err error
		genre, err = s.repo.GetGenre(ctx, id)
		if err != nil {
			if isMissing(err) {
				return genreNotFound(id, "")
			}
			return err
		}
		if present(req.Name) {
			genre.Name = *req.Name
		}
		return s.repo.UpdateGenre(ctx, genre)
	})
	if err != nil {
		return model.GenreResponse{}, err
	}
	return genre.Response(), nil
}

func (s *Service) ListGenres(ctx context.Context, page int) (model.Page[model.GenreResponse], error) {
	genres, err := s.repo.ListGenres(ctx, page, model.PageSize)
	if err != nil {
		return model.Page[model.GenreResponse]{}, err
	}
	return model.MapPage(genres, model.Genre.Response), nil
}
