package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/model"
	"github.com/arthalon/library-catalog/pkg/auth"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authSvc.RegisterUser(c.Request().Context(), req); err != nil {
		if errors.Is(err, errs.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusCreated, "ok")
}

// LoginChallenge answers the redirect target for unauthenticated requests.
// The "next" query param carries the path to retry after POSTing credentials.
func (h *Handler) LoginChallenge(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"message": "authentication required",
		"login":   LoginURL,
		"next":    c.QueryParam("next"),
	})
}

func (h *Handler) Login(c echo.Context) error {
	var credentials model.AuthRequest
	if err := c.Bind(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authSvc.Authenticate(c.Request().Context(), credentials)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, model.AuthResponse{Token: token})
}
