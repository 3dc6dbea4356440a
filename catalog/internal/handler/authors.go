package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	author, err := h.authorSvc.CreateAuthor(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return created(c, "authors", author.ID, author)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	author, err := h.authorSvc.GetAuthor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateAuthorRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	author, err := h.authorSvc.UpdateAuthor(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err = h.authorSvc.DeleteAuthor(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListAuthors(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	authors, err := h.authorSvc.ListAuthors(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authors)
}
