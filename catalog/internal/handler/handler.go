package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	md "github.com/arthalon/library-catalog/pkg/middleware"
	"github.com/arthalon/library-catalog/pkg/validate"
)

const LoginURL = "/api/v1/login"

type Handler struct {
	catalogSvc CatalogService
	loanSvc    LoanService
	authSvc    AuthService
	log        *zap.Logger
}

func New(catalogSvc CatalogService, loanSvc LoanService, authSvc AuthService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalogSvc,
		loanSvc:    loanSvc,
		authSvc:    authSvc,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/summary", h.Summary)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)
	api.GET("/authors", h.ListAuthors)
	api.GET("/authors/:id", h.GetAuthor)
	api.GET("/instances/:instanceUid", h.GetInstance)

	api.POST("/register", h.Register)
	api.GET("/login", h.LoginChallenge)
	api.POST("/login", h.Login)

	api.POST("/authors", h.CreateAuthor, md.SessionAuth(LoginURL))
	api.POST("/books", h.CreateBook, md.SessionAuth(LoginURL))
	api.POST("/instances", h.CreateInstance, md.SessionAuth(LoginURL))

	loans := api.Group("/loans", md.SessionAuth(LoginURL))
	loans.GET("/my", h.MyBorrowed)
	loans.GET("/borrowed", h.AllBorrowed)
	loans.GET("/:instanceUid/renew", h.RenewForm)
	loans.POST("/:instanceUid/renew", h.Renew)
	loans.POST("/:instanceUid/checkout", h.Checkout)
	loans.POST("/:instanceUid/return", h.Return)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Summary(c echo.Context) error {
	counts, err := h.catalogSvc.Summary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, counts)
}

func parsePaging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return 0, 0, errors.New("page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return 0, 0, errors.New("size is invalid")
		}
	}
	return page, size, nil
}

func validationError(c echo.Context, field string, err error) error {
	return c.JSON(http.StatusBadRequest, errs.ValidationErrorResponse{
		Message: "invalid " + field,
		Errors:  map[string]string{field: err.Error()},
	})
}
