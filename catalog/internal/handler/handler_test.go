package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-catalog/catalog/internal/errs"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/handler"
	"github.com/Astemirdum/bookstore-catalog/catalog/internal/model"

	service_mocks "github.com/Astemirdum/bookstore-catalog/catalog/internal/handler/mocks"
)

var (
	authorID = uuid.MustParse("83575e12-7ce0-48ee-9931-51919ff3c9ee")
	bookID   = uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27")
	genreID  = uuid.MustParse("0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11")
)

type request struct {
	method, target, body string
}

type response struct {
	expectedCode     int
	expectedBody     string
	expectedLocation string
}

type mockBehavior func(r *service_mocks.MockCatalogService)

func serve(t *testing.T, behavior mockBehavior, req request) *httptest.ResponseRecorder {
	t.Helper()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockCatalogService(c)
	behavior(svc)
	h := handler.New(svc, zap.NewExample().Named("test"))

	r := httptest.NewRequest(req.method, req.target, http.NoBody)
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.target, strings.NewReader(req.body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(w, r)
	return w
}

// errorBody drops the timestamp so error responses can be compared verbatim.
func errorBody(t *testing.T, body string) string {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	ts, ok := m["timestamp"].(string)
	require.True(t, ok, "timestamp missing in %s", body)
	_, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	delete(m, "timestamp")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}

func check(t *testing.T, w *httptest.ResponseRecorder, want response) {
	t.Helper()
	require.Equal(t, want.expectedCode, w.Code)
	got := strings.Trim(w.Body.String(), "\n")
	if w.Code >= http.StatusBadRequest && strings.Contains(got, `"timestamp"`) {
		got = errorBody(t, got)
	}
	require.Equal(t, want.expectedBody, got)
	require.Equal(t, want.expectedLocation, w.Header().Get(echo.HeaderLocation))
}

func TestHandler_CreateAuthor(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateAuthor(gomock.Any(), model.CreateAuthorRequest{Name: "Bjarne Stroustrup"}).
					Return(model.AuthorCreated{ID: authorID, Name: "Bjarne Stroustrup"}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/authors", body: `{"id":"ignored","name":"Bjarne Stroustrup"}`},
			response: response{
				expectedCode:     http.StatusCreated,
				expectedBody:     `{"id":"83575e12-7ce0-48ee-9931-51919ff3c9ee","name":"Bjarne Stroustrup","biography":null}`,
				expectedLocation: "/api/v1/authors/83575e12-7ce0-48ee-9931-51919ff3c9ee",
			},
		},
		{
			name:         "err. blank name",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/authors", body: `{"name":"   "}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"name":"provide name"}`,
			},
		},
		{
			name:         "err. too long",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/authors", body: `{"name":"` + strings.Repeat("a", 61) + `"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"name":"name max length is 60 characters"}`,
			},
		},
		{
			name:         "err. malformed body",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodPost, target: "/api/v1/authors", body: `{"name":`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"details":"uri=/api/v1/authors","message":"malformed request body"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), bookID).
					Return(model.BookDetails{
						ID:          bookID,
						Name:        "The C++ Programming Language",
						ISBN:        "9780321563842",
						Price:       decimal.NewFromInt(60),
						PublishDate: model.NewDate(time.Date(2013, 5, 19, 0, 0, 0, 0, time.UTC)),
						Author:      model.AuthorSummary{ID: authorID, Name: "Bjarne Stroustrup"},
						Genres:      []model.GenreResponse{{ID: genreID, Name: "Programming"}},
					}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/" + bookID.String()},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","name":"The C++ Programming Language","brief":null,"isbn":"9780321563842","price":"60","publishDate":"2013-05-19","author":{"id":"83575e12-7ce0-48ee-9931-51919ff3c9ee","name":"Bjarne Stroustrup"},"genres":[{"id":"0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11","name":"Programming"}]}`,
			},
		},
		{
			name: "err. not found",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), bookID).
					Return(model.BookDetails{}, errs.NotFound("Book "+bookID.String()+" not found", ""))
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/" + bookID.String()},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"details":"uri=/api/v1/books/f7cdc58f-2caf-4b15-9727-f89dcc629b27","message":"Book f7cdc58f-2caf-4b15-9727-f89dcc629b27 not found"}`,
			},
		},
		{
			name:         "err. bad id",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodGet, target: "/api/v1/books/42"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"details":"uri=/api/v1/books/42","message":"id is invalid"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), bookID).
					Return(model.BookDetails{}, errors.New("db internal"))
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/" + bookID.String()},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"details":"uri=/api/v1/books/f7cdc58f-2caf-4b15-9727-f89dcc629b27","message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req model.CreateBookRequest) (model.BookCreated, error) {
						return model.BookCreated{
							ID:          bookID,
							Name:        req.Name,
							ISBN:        req.ISBN,
							Price:       *req.Price,
							PublishDate: *req.PublishDate,
							AuthorID:    req.AuthorID,
						}, nil
					})
			},
			request: request{
				method: http.MethodPost, target: "/api/v1/books",
				body: `{"name":"TC++PL","isbn":"9780321563842","price":60,"publishDate":"2013-05-19","authorId":"83575e12-7ce0-48ee-9931-51919ff3c9ee"}`,
			},
			response: response{
				expectedCode:     http.StatusCreated,
				expectedBody:     `{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","name":"TC++PL","brief":null,"isbn":"9780321563842","price":"60","publishDate":"2013-05-19","authorId":"83575e12-7ce0-48ee-9931-51919ff3c9ee"}`,
				expectedLocation: "/api/v1/books/f7cdc58f-2caf-4b15-9727-f89dcc629b27",
			},
		},
		{
			name:         "err. blank publish date",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request: request{
				method: http.MethodPost, target: "/api/v1/books",
				body: `{"name":"TC++PL","isbn":"9780321563842","price":"60","publishDate":"","authorId":"83575e12-7ce0-48ee-9931-51919ff3c9ee"}`,
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"details":"uri=/api/v1/books","message":"malformed request body"}`,
			},
		},
		{
			name:         "err. validation",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request: request{
				method: http.MethodPost, target: "/api/v1/books",
				body: `{"name":"TC++PL","isbn":"123","price":"1000000000"}`,
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"authorId":"provide authorId","isbn":"isbn length is 13 characters","price":"price must be less than or equal to 999999999.00","publishDate":"provide publishDate"}`,
			},
		},
		{
			name: "err. isbn taken",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(gomock.Any(), gomock.Any()).
					Return(model.BookCreated{}, errs.Conflict("Already exists a book with this isbn", errs.ExtraISBN))
			},
			request: request{
				method: http.MethodPost, target: "/api/v1/books",
				body: `{"name":"TC++PL","isbn":"9780321563842","price":"60.00","publishDate":"2013-05-19","authorId":"83575e12-7ce0-48ee-9931-51919ff3c9ee"}`,
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"details":"uri=/api/v1/books","extra":"isbn","message":"Already exists a book with this isbn"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_UpdateBook(t *testing.T) {
	t.Parallel()
	name := "New name"
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok. partial",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					UpdateBook(gomock.Any(), bookID, model.UpdateBookRequest{Name: &name}).
					Return(model.BookDetails{ID: bookID, Name: name, Genres: []model.GenreResponse{}}, nil)
			},
			request: request{method: http.MethodPut, target: "/api/v1/books/" + bookID.String(), body: `{"name":"New name"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","name":"New name","brief":null,"isbn":"","price":"0","publishDate":"0001-01-01","author":{"id":"00000000-0000-0000-0000-000000000000","name":""},"genres":[]}`,
			},
		},
		{
			name:         "err. blank publish date",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodPut, target: "/api/v1/books/" + bookID.String(), body: `{"publishDate":""}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"details":"uri=/api/v1/books/f7cdc58f-2caf-4b15-9727-f89dcc629b27","message":"malformed request body"}`,
			},
		},
		{
			name:         "err. isbn length",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodPut, target: "/api/v1/books/" + bookID.String(), body: `{"isbn":"97803"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"isbn":"isbn length is 13 characters"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok. default page",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(gomock.Any(), 0).
					Return(model.NewPage([]model.BookSummary{
						{ID: bookID, Name: "TC++PL", Price: decimal.NewFromInt(60), AuthorName: "Bjarne Stroustrup"},
					}, 0, model.PageSize, 11), nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/list"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":10,"totalElements":11,"totalPages":2,"items":[{"id":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","name":"TC++PL","price":"60","authorName":"Bjarne Stroustrup"}]}`,
			},
		},
		{
			name: "ok. empty page",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(gomock.Any(), 5).
					Return(model.NewPage[model.BookSummary](nil, 5, model.PageSize, 11), nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/list?page=5"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":5,"pageSize":10,"totalElements":11,"totalPages":2,"items":[]}`,
			},
		},
		{
			name:         "err. negative page",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodGet, target: "/api/v1/books/list?page=-1"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"details":"uri=/api/v1/books/list","message":"page is invalid"}`,
			},
		},
		{
			name:         "err. page not a number",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			request:      request{method: http.MethodGet, target: "/api/v1/books/list?page=abc"},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"details":"uri=/api/v1/books/list","message":"page is invalid"}`,
			},
		},
		{
			name: "ok. huge page",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooks(gomock.Any(), 922337203685477581).
					Return(model.NewPage[model.BookSummary](nil, 922337203685477581, model.PageSize, 11), nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/list?page=922337203685477581"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":922337203685477581,"pageSize":10,"totalElements":11,"totalPages":2,"items":[]}`,
			},
		},
		{
			name: "ok. search",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					SearchBooks(gomock.Any(), "C++", 1).
					Return(model.NewPage[model.BookSummary](nil, 1, model.PageSize, 0), nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books/search?query=C%2B%2B&page=1"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":1,"pageSize":10,"totalElements":0,"totalPages":0,"items":[]}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_BookGenres(t *testing.T) {
	t.Parallel()
	addTarget := "/api/v1/books/" + bookID.String() + "/genres/" + genreID.String() + "/add"
	removeTarget := "/api/v1/books/" + bookID.String() + "/genres/" + genreID.String() + "/remove"
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok. add",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().AddBookGenre(gomock.Any(), bookID, genreID).Return(nil)
			},
			request:  request{method: http.MethodPost, target: addTarget},
			response: response{expectedCode: http.StatusNoContent},
		},
		{
			name: "err. add twice",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().AddBookGenre(gomock.Any(), bookID, genreID).
					Return(errs.Conflict("Already exists an genre attached in this book", errs.ExtraGenre))
			},
			request: request{method: http.MethodPost, target: addTarget},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"details":"uri=` + addTarget + `","extra":"genre","message":"Already exists an genre attached in this book"}`,
			},
		},
		{
			name: "err. add to missing book",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().AddBookGenre(gomock.Any(), bookID, genreID).
					Return(errs.NotFound("Book "+bookID.String()+" not found", errs.ExtraBook))
			},
			request: request{method: http.MethodPost, target: addTarget},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"details":"uri=` + addTarget + `","extra":"book","message":"Book f7cdc58f-2caf-4b15-9727-f89dcc629b27 not found"}`,
			},
		},
		{
			name: "ok. remove",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().RemoveBookGenre(gomock.Any(), bookID, genreID).Return(nil)
			},
			request:  request{method: http.MethodDelete, target: removeTarget},
			response: response{expectedCode: http.StatusNoContent},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_Genres(t *testing.T) {
	t.Parallel()
	blank := ""
	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		request      request
		response     response
	}{
		{
			name: "ok. create",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().CreateGenre(gomock.Any(), model.GenreRequest{Name: "Drama"}).
					Return(model.GenreResponse{ID: genreID, Name: "Drama"}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/genres", body: `{"name":"Drama"}`},
			response: response{
				expectedCode:     http.StatusCreated,
				expectedBody:     `{"id":"0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11","name":"Drama"}`,
				expectedLocation: "/api/v1/genres/0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11",
			},
		},
		{
			name: "ok. update with blank name",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().UpdateGenre(gomock.Any(), genreID, model.UpdateGenreRequest{Name: &blank}).
					Return(model.GenreResponse{ID: genreID, Name: "Drama"}, nil)
			},
			request: request{method: http.MethodPut, target: "/api/v1/genres/" + genreID.String(), body: `{"name":""}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":"0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11","name":"Drama"}`,
			},
		},
		{
			name: "err. delete missing",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().DeleteGenre(gomock.Any(), genreID).
					Return(errs.NotFound("Genre "+genreID.String()+" not found", ""))
			},
			request: request{method: http.MethodDelete, target: "/api/v1/genres/" + genreID.String()},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"details":"uri=/api/v1/genres/0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11","message":"Genre 0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11 not found"}`,
			},
		},
		{
			name: "ok. list",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().ListGenres(gomock.Any(), 0).
					Return(model.NewPage([]model.GenreResponse{{ID: genreID, Name: "Drama"}}, 0, model.PageSize, 1), nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/genres/list"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":10,"totalElements":1,"totalPages":1,"items":[{"id":"0b6a3e4c-6a8f-4c1e-9d55-3c2f1f0a9e11","name":"Drama"}]}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check(t, serve(t, tt.mockBehavior, tt.request), tt.response)
		})
	}
}

func TestHandler_Manage(t *testing.T) {
	t.Parallel()
	w := serve(t, func(r *service_mocks.MockCatalogService) {}, request{method: http.MethodGet, target: "/manage/health"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())

	w = serve(t, func(r *service_mocks.MockCatalogService) {}, request{method: http.MethodGet, target: "/api/v1/unknown"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, `{"details":"uri=/api/v1/unknown","message":"Not Found"}`, errorBody(t, w.Body.String()))
}
