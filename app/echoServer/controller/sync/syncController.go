package sync

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/jwtx"
	syncsvc "github.com/Horsetech80/pagtracker-sub003/service/sync"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc syncsvc.Service
	Log *slog.Logger
}

type syncReq struct {
	Txid     string `json:"txid,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Post reconciles either one charge (txid set) or a tenant batch.
// @Summary Reconcile local charge status with EfiPay
// @Tags    pix
// @Accept  json
// @Produce json
// @Success 200 {object} map[string]any
// @Router  /api/pix/sync [post]
func (ct *Controller) Post(c echo.Context) error {
	var req syncReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_body", "message": "invalid json"})
	}

	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "tenant scope missing"})
	}
	if req.TenantID == "" {
		req.TenantID = tenantID
	}
	if req.TenantID != tenantID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden", "message": "cannot sync another tenant"})
	}

	if req.Txid != "" {
		ch, err := ct.Svc.SyncChargeByTxid(c.Request().Context(), req.Txid)
		if err != nil {
			if errors.Is(err, syncsvc.ErrUnknownTxid) {
				return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "not_found", "message": "txid not found"})
			}
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("single charge sync failed", "txid", req.Txid, "err", err, "req_id", rid)
			return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "error": "sync_failed", "message": "provider query failed"})
		}
		// txid lookup is not tenant scoped; never confirm another
		// tenant's txid exists
		if ch.TenantID != tenantID {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "not_found", "message": "txid not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": ch})
	}

	res, err := ct.Svc.SyncCharges(c.Request().Context(), req.TenantID)
	if err != nil {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("batch sync failed", "tenant_id", req.TenantID, "err", err, "req_id", rid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal_error", "message": "sync failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": res})
}

// Get is the scripted invocation variant: GET /api/pix/sync?tenant_id=
func (ct *Controller) Get(c echo.Context) error {
	tenantID, err := jwtx.TenantIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "tenant scope missing"})
	}
	if q := c.QueryParam("tenant_id"); q != "" && q != tenantID {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden", "message": "cannot sync another tenant"})
	}

	res, err := ct.Svc.SyncCharges(c.Request().Context(), tenantID)
	if err != nil {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("batch sync failed", "tenant_id", tenantID, "err", err, "req_id", rid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal_error", "message": "sync failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": res})
}
