package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

func (h *Handler) CreateGenre(c echo.Context) error {
	var req model.GenreRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	genre, err := h.genreSvc.CreateGenre(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return created(c, "genres", genre.ID, genre)
}

func (h *Handler) GetGenre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	genre, err := h.genreSvc.GetGenre(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) UpdateGenre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateGenreRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	genre, err := h.genreSvc.UpdateGenre(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *Handler) DeleteGenre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err = h.genreSvc.DeleteGenre(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListGenres(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	genres, err := h.genreSvc.ListGenres(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genres)
}
