package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	book, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return created(c, "books", book.ID, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.bookSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	book, err := h.bookSvc.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err = h.bookSvc.DeleteBook(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListBooks(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	books, err := h.bookSvc.ListBooks(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) SearchBooks(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	books, err := h.bookSvc.SearchBooks(c.Request().Context(), c.QueryParam("query"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) AddBookGenre(c echo.Context) error {
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	genreID, err := pathID(c, "genreId")
	if err != nil {
		return err
	}
	if err = h.bookSvc.AddBookGenre(c.Request().Context(), bookID, genreID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RemoveBookGenre(c echo.Context) error {
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	genreID, err := pathID(c, "genreId")
	if err != nil {
		return err
	}
	if err = h.bookSvc.RemoveBookGenre(c.Request().Context(), bookID, genreID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
