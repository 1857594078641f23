package admin

import (
	"errors"
	"log/slog"
	"net/http"

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

// ProcessWithdrawal approves or rejects a pending request.
// @Summary Approve/reject a withdrawal request
// @Tags    admin
// @Accept  json
// @Produce json
// @Param   payload body model.ProcessWithdrawalReq true "Decision payload"
// @Success 200 {object} map[string]any
// @Failure 400,403,404,422 {object} map[string]any
// @Router  /api/admin/withdrawals/{id}/process [post]
func (ct *Controller) ProcessWithdrawal(c echo.Context) error {
	role, err := jwtx.RoleFromContext(c)
	if err != nil || role != "admin" {
		return fail(c, http.StatusForbidden, "forbidden", "admin role required")
	}

	var req model.ProcessWithdrawalReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "invalid json")
	}
	if err := ct.V.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	adminID, _ := jwtx.UserIDFromContext(c)

	w, err := ct.Svc.Process(c.Request().Context(), c.Param("id"), adminID, req)
	if err != nil {
		switch {
		case errors.Is(err, withdrawalsvc.ErrReasonRequired),
			errors.Is(err, withdrawalsvc.ErrInvalidAction):
			return fail(c, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, withdrawalrepo.ErrNotFound):
			return fail(c, http.StatusNotFound, "not_found", "withdrawal not found")
		case errors.Is(err, withdrawalrepo.ErrNotPending):
			return fail(c, http.StatusUnprocessableEntity, "not_pending", "withdrawal already processed")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("withdrawal process failed", "err", err, "req_id", rid)
			return fail(c, http.StatusInternalServerError, "internal_error", "internal error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": w})
}
