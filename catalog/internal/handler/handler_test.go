package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/handler"
	"github.com/arthalon/library-catalog/catalog/internal/model"
	"github.com/arthalon/library-catalog/pkg/validate"

	service_mocks "github.com/arthalon/library-catalog/catalog/internal/handler/mocks"
)

func authorsPage(page, size, total, n int) model.ListAuthors {
	items := make([]model.Author, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, model.Author{
			ID:        (page-1)*size + i + 1,
			FirstName: fmt.Sprintf("Christian %d", i),
			LastName:  fmt.Sprintf("Surname %d", i),
		})
	}
	return model.ListAuthors{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: total},
		Items:  items,
	}
}

func TestHandler_ListAuthors(t *testing.T) {
	t.Parallel()
	type input struct {
		page, size int
	}
	type response struct {
		expectedCode  int
		expectedItems int
		expectedTotal int
	}
	type mockBehavior func(r *service_mocks.MockCatalogService, inp input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			// 13 authors: page 1 carries 10
			name: "first page of thirteen",
			mockBehavior: func(r *service_mocks.MockCatalogService, inp input) {
				r.EXPECT().
					ListAuthors(gomock.Any(), inp.page, inp.size).
					Return(authorsPage(1, 10, 13, 10), nil)
			},
			input: input{page: 1, size: 10},
			response: response{
				expectedCode:  http.StatusOK,
				expectedItems: 10,
				expectedTotal: 13,
			},
		},
		{
			// 13 authors: page 2 carries the remaining 3
			name: "second page of thirteen",
			mockBehavior: func(r *service_mocks.MockCatalogService, inp input) {
				r.EXPECT().
					ListAuthors(gomock.Any(), inp.page, inp.size).
					Return(authorsPage(2, 10, 13, 3), nil)
			},
			input: input{page: 2, size: 10},
			response: response{
				expectedCode:  http.StatusOK,
				expectedItems: 3,
				expectedTotal: 13,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockCatalogService, inp input) {
				r.EXPECT().
					ListAuthors(gomock.Any(), inp.page, inp.size).
					Return(model.ListAuthors{}, errors.New("db internal"))
			},
			input: input{page: 1, size: 10},
			response: response{
				expectedCode: http.StatusInternalServerError,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/authors", h.ListAuthors)

			r := httptest.NewRequest(
				http.MethodGet, fmt.Sprintf("/authors?page=%d&size=%d", tt.input.page, tt.input.size), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if w.Code != http.StatusOK {
				return
			}
			var list model.ListAuthors
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
			require.Len(t, list.Items, tt.response.expectedItems)
			require.Equal(t, tt.response.expectedTotal, list.TotalElements)
			require.True(t, list.Paginated())
		})
	}
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		id           string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			id:   "7",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), 7).
					Return(model.BookDetail{
						Book: model.Book{
							ID:      7,
							Title:   "Book Title",
							Summary: "My book summary",
							ISBN:    "9781234567897",
							Author:  "Smith, John",
							Genres:  []model.Genre{{ID: 1, Name: "Fantasy"}},
						},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `"title":"Book Title"`,
			},
		},
		{
			name: "err. not found",
			id:   "42",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(gomock.Any(), 42).
					Return(model.BookDetail{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. bad id",
			id:           "abc",
			mockBehavior: func(r *service_mocks.MockCatalogService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books/:id", h.GetBook)

			r := httptest.NewRequest(http.MethodGet, "/books/"+tt.id, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Contains(t, w.Body.String(), tt.response.expectedBody)
			}
		})
	}
}

func TestHandler_Summary(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockCatalogService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, nil, nil, log)

	e := echo.New()
	e.GET("/summary", h.Summary)

	svc.EXPECT().Summary(gomock.Any()).Return(model.Summary{
		NumBooks:              3,
		NumInstances:          9,
		NumInstancesAvailable: 4,
		NumAuthors:            2,
		NumGenres:             5,
	}, nil)

	r := httptest.NewRequest(http.MethodGet, "/summary", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t,
		`{"numBooks":3,"numInstances":9,"numInstancesAvailable":4,"numAuthors":2,"numGenres":5}`,
		w.Body.String())
}
