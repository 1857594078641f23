package wallet

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/jwtx"
	"github.com/Horsetech80/pagtracker-sub003/model"
	withdrawalrepo "github.com/Horsetech80/pagtracker-sub003/repository/withdrawal"
	withdrawalsvc "github.com/Horsetech80/pagtracker-sub003/service/withdrawal"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc withdrawalsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": code, "message": msg})
}

// Withdraw creates a pending payout request.
// @Summary Request withdrawal to a PIX key
// @Tags    wallet
// @Accept  json
// @Produce json
// @Param   payload body model.CreateWithdrawalReq true "Withdrawal payload"
// @Success 201 {object} map[string]any
// @Failure 400,422 {object} map[string]any
// @Router  /api/wallet/withdraw [post]
func (ct *Controller) Withdraw(c echo.Context) error {
	var req model.CreateWithdrawalReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "invalid json")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("withdrawal validation failed", "path", c.Path(), "err", err)
		return fail(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	userID, _ := jwtx.UserIDFromContext(c)

	w, err := ct.Svc.Create(c.Request().Context(), tenantID, userID, req,
		c.RealIP(), c.Request().UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, withdrawalsvc.ErrAmountOutOfRange),
			errors.Is(err, withdrawalsvc.ErrAmountBelowFee):
			return fail(c, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, withdrawalrepo.ErrInsufficientBalance):
			return fail(c, http.StatusUnprocessableEntity, "insufficient_balance", "amount exceeds available balance")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("withdrawal create failed", "err", err, "req_id", rid)
			return fail(c, http.StatusInternalServerError, "internal_error", "internal error")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": w})
}

// Withdrawals lists the tenant's payout requests, newest first.
// @Summary List withdrawal requests
// @Tags    wallet
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /api/wallet/withdrawals [get]
func (ct *Controller) Withdrawals(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	ws, err := ct.Svc.List(c.Request().Context(), tenantID, limit)
	if err != nil {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("withdrawal list failed", "err", err, "req_id", rid)
		return fail(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": ws})
}

// Balance returns the tenant's available balance in cents, plus the
// EfiPay account saldo when the provider is reachable.
// @Summary Available wallet balance
// @Tags    wallet
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /api/wallet/balance [get]
func (ct *Controller) Balance(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized", "tenant scope missing")
	}

	info, err := ct.Svc.Balance(c.Request().Context(), tenantID)
	if err != nil {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("balance query failed", "err", err, "req_id", rid)
		return fail(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": info})
}
