package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/arthalon/library-catalog/catalog/internal/errs"
	"github.com/arthalon/library-catalog/catalog/internal/model"
	"github.com/arthalon/library-catalog/pkg/auth"
	md "github.com/arthalon/library-catalog/pkg/middleware"
)

const allBorrowedURL = "/api/v1/loans/borrowed"

// requireCapability redirects callers without the capability away before
// any resource is looked up, so gated identifiers cannot be probed.
func (h *Handler) requireCapability(c echo.Context, capability string) error {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return md.RedirectToLogin(c, LoginURL)
	}
	allowed, err := h.authSvc.HasCapability(c.Request().Context(), id.Role, capability)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !allowed {
		return md.RedirectToLogin(c, LoginURL)
	}
	return nil
}

func (h *Handler) MyBorrowed(c echo.Context) error {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return md.RedirectToLogin(c, LoginURL)
	}
	page, size, err := parsePaging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	loans, err := h.loanSvc.ListBorrowed(c.Request().Context(), id.Username, page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) AllBorrowed(c echo.Context) error {
	if err := h.requireCapability(c, auth.CapRenewInstances); err != nil {
		return err
	}
	page, size, err := parsePaging(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	loans, err := h.loanSvc.ListBorrowed(c.Request().Context(), "", page, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) RenewForm(c echo.Context) error {
	if err := h.requireCapability(c, auth.CapRenewInstances); err != nil {
		return err
	}
	instanceUid := c.Param("instanceUid")

	form, err := h.loanSvc.RenewalProposal(c.Request().Context(), instanceUid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, form)
}

func (h *Handler) Renew(c echo.Context) error {
	if err := h.requireCapability(c, auth.CapRenewInstances); err != nil {
		return err
	}
	instanceUid := c.Param("instanceUid")

	var req model.RenewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.loanSvc.Renew(c.Request().Context(), instanceUid, req.RenewalDate.Time); err != nil {
		switch {
		case errors.Is(err, errs.ErrRenewalInPast), errors.Is(err, errs.ErrRenewalTooFar):
			return validationError(c, "renewalDate", err)
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrNotOnLoan):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusSeeOther, allBorrowedURL)
}

func (h *Handler) Checkout(c echo.Context) error {
	if err := h.requireCapability(c, auth.CapRenewInstances); err != nil {
		return err
	}
	instanceUid := c.Param("instanceUid")

	var req model.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inst, err := h.loanSvc.Checkout(c.Request().Context(), instanceUid, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrNotAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, errs.ErrUnknownBorrower):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inst)
}

func (h *Handler) Return(c echo.Context) error {
	if err := h.requireCapability(c, auth.CapRenewInstances); err != nil {
		return err
	}
	instanceUid := c.Param("instanceUid")

	inst, err := h.loanSvc.Return(c.Request().Context(), instanceUid)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrNotOnLoan):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inst)
}
