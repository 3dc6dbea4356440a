package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	md "github.com/Astemirdum/bookstore-catalog/pkg/middleware"
	"github.com/Astemirdum/bookstore-catalog/pkg/validate"
	_ "github.com/Astemirdum/bookstore-catalog/swagger"
)

const apiPrefix = "/api/v1"

type Handler struct {
	authorSvc AuthorService
	bookSvc   BookService
	genreSvc  GenreService
	log       *zap.Logger
}

func New(svc CatalogService, log *zap.Logger) *Handler {
	return &Handler{
		authorSvc: svc,
		bookSvc:   svc,
		genreSvc:  svc,
		log:       log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = h.errorHandler
	e.Validator = validate.NewCustomValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(apiPrefix,
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	h.routes(api)
	return e
}

func (h *Handler) routes(api *echo.Group) {
	api.POST("/authors", h.CreateAuthor)
	api.GET("/authors/list", h.ListAuthors)
	api.GET("/authors/:id", h.GetAuthor)
	api.PUT("/authors/:id", h.UpdateAuthor)
	api.DELETE("/authors/:id", h.DeleteAuthor)

	api.POST("/books", h.CreateBook)
	api.GET("/books/list", h.ListBooks)
	api.GET("/books/search", h.SearchBooks)
	api.GET("/books/:id", h.GetBook)
	api.PUT("/books/:id", h.UpdateBook)
	api.DELETE("/books/:id", h.DeleteBook)
	api.POST("/books/:bookId/genres/:genreId/add", h.AddBookGenre)
	api.DELETE("/books/:bookId/genres/:genreId/remove", h.RemoveBookGenre)

	api.POST("/genres", h.CreateGenre)
	api.GET("/genres/list", h.ListGenres)
	api.GET("/genres/:id", h.GetGenre)
	api.PUT("/genres/:id", h.UpdateGenre)
	api.DELETE("/genres/:id", h.DeleteGenre)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// errorHandler writes every failure in one of two shapes: a field to message
// map for payload validation, or an errs.ErrorResponse.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		verrs  validate.ValidationErrors
		httpEr *echo.HTTPError
		code   = http.StatusInternalServerError
		msg    = err.Error()
	)
	switch {
	case errors.As(err, &verrs):
		if werr := c.JSON(http.StatusBadRequest, verrs); werr != nil {
			h.log.Error("write validation errors", zap.Error(werr))
		}
		return
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.As(err, &httpEr):
		code = httpEr.Code
		msg = fmt.Sprint(httpEr.Message)
		if httpEr.Internal != nil {
			h.log.Debug("http error", zap.Int("code", code), zap.Error(httpEr.Internal))
		}
	default:
		h.log.Error("unhandled error",
			zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}

	resp := errs.ErrorResponse{
		Message:   msg,
		Details:   "uri=" + c.Request().URL.Path,
		Extra:     errs.ExtraOf(err),
		Timestamp: time.Now().UTC(),
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s is invalid", name)).SetInternal(err)
	}
	return id, nil
}

// pageParam reads the zero based page number; missing means 0.
func pageParam(c echo.Context) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
	}
	return page, nil
}

// bind decodes the body and validates it.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		var httpEr *echo.HTTPError
		if errors.As(err, &httpEr) {
			return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Validate(req)
}

func created(c echo.Context, resource string, id uuid.UUID, body interface{}) error {
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%s/%s", apiPrefix, resource, id))
	return c.JSON(http.StatusCreated, body)
}
