package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	paymentsvc "github.com/Horsetech80/pagtracker-sub003/service/payment"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

// HandleEfiPay ingests EfiPay's payment notification.
// @Summary EfiPay PIX webhook
// @Tags    webhook
// @Accept  json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any "malformed body"
// @Failure 401 {object} map[string]any "bad signature"
// @Router  /api/webhook [post]
func (ct *Controller) HandleEfiPay(c echo.Context) error {
	sig := c.Request().Header.Get("x-efipay-signature")
	if sig == "" {
		sig = c.Request().Header.Get("x-signature")
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_body", "message": "could not read body"})
	}

	if err := ct.Svc.HandleWebhook(c.Request().Context(), sig, raw); err != nil {
		switch {
		case errors.Is(err, paymentsvc.ErrBadSignature):
			ct.Log.Warn("webhook rejected: signature mismatch", "ip", c.RealIP())
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "bad_signature", "message": "signature mismatch"})
		case errors.Is(err, paymentsvc.ErrBadPayload):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "bad_payload", "message": "body must be JSON with a pix array"})
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("webhook processing failed", "err", err, "req_id", rid)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal_error", "message": "internal error"})
		}
	}

	// the provider only needs receipt acknowledged
	return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}
