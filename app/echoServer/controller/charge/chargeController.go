package charge

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/jwtx"
	"github.com/Horsetech80/pagtracker-sub003/model"
	chargerepo "github.com/Horsetech80/pagtracker-sub003/repository/charge"
	efipayrepo "github.com/Horsetech80/pagtracker-sub003/repository/efipay"
	chargesvc "github.com/Horsetech80/pagtracker-sub003/service/charge"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc chargesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": code, "message": msg})
}

func (ct *Controller) mapErr(c echo.Context, err error) error {
	var apiErr *efipayrepo.APIError
	switch {
	case errors.As(err, &apiErr):
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("efipay call failed", "kind", apiErr.Kind, "status", apiErr.Status,
			"nome", apiErr.Nome, "detail", apiErr.Detail, "req_id", rid)
		return fail(c, apiErr.HTTPStatus(), string(apiErr.Kind), apiErr.Nome)
	case errors.Is(err, efipayrepo.ErrInvalidAmount),
		errors.Is(err, efipayrepo.ErrInvalidKey),
		errors.Is(err, efipayrepo.ErrInvalidDocument),
		errors.Is(err, efipayrepo.ErrInvalidExpiry):
		return fail(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, chargerepo.ErrNotFound):
		return fail(c, http.StatusNotFound, "not_found", "charge not found")
	case errors.Is(err, chargerepo.ErrDuplicateTxid):
		return fail(c, http.StatusConflict, "duplicate_txid", "txid already registered")
	case errors.Is(err, chargerepo.ErrTerminalStatus):
		return fail(c, http.StatusUnprocessableEntity, "terminal_status", "charge status is terminal")
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("charge operation failed", "err", err, "req_id", rid, "path", c.Path())
		return fail(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// Create a PIX charge
// @Summary Create immediate PIX charge and QR code
// @Tags    pix
// @Accept  json
// @Produce json
// @Param   payload body model.CreateChargeReq true "Charge payload"
// @Success 201 {object} map[string]any
// @Failure 400,409,502 {object} map[string]any
// @Router  /api/pix/cobranca [post]
func (ct *Controller) Create(c echo.Context) error {
	var req model.CreateChargeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "invalid json")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("charge validation failed", "path", c.Path(), "err", err)
		return fail(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	userID, _ := jwtx.UserIDFromContext(c)

	ch, err := ct.Svc.Create(c.Request().Context(), tenantID, userID, req)
	if err != nil {
		return ct.mapErr(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data": echo.Map{
			"id":            ch.ID,
			"txid":          ch.Txid,
			"status":        ch.Status,
			"location":      ch.LinkPagamento,
			"qr_code":       ch.QRCode,
			"qr_code_image": ch.QRCodeImage,
			"expires_at":    ch.ExpiresAt,
		},
	})
}

// GET /api/pix/cobranca/:id
func (ct *Controller) Get(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	ch, err := ct.Svc.Get(c.Request().Context(), tenantID, c.Param("id"))
	if err != nil {
		return ct.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": ch})
}

// GET /api/pix/cobranca?limit=
func (ct *Controller) List(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	charges, err := ct.Svc.List(c.Request().Context(), tenantID, limit)
	if err != nil {
		return ct.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": charges})
}

// PATCH /api/pix/cobranca/:id
func (ct *Controller) Patch(c echo.Context) error {
	var req model.PatchChargeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "invalid json")
	}
	if err := ct.V.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	ch, err := ct.Svc.PatchStatus(c.Request().Context(), tenantID, c.Param("id"), req.Status)
	if err != nil {
		return ct.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": ch})
}

// CreateKey provisions a random receiving key at the provider.
// @Summary Create random (evp) PIX key
// @Tags    pix
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router  /api/pix/chave [post]
func (ct *Controller) CreateKey(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	chave, err := ct.Svc.CreateKey(c.Request().Context(), tenantID)
	if err != nil {
		return ct.mapErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"chave": chave}})
}

// DELETE /api/pix/cobranca/:id
func (ct *Controller) Delete(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	if err := ct.Svc.Delete(c.Request().Context(), tenantID, c.Param("id")); err != nil {
		return ct.mapErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
