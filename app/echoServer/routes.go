package echoServer

import (
	"net/http"

	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/admin"
	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/auth"
	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/charge"
	syncctl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/sync"
	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/wallet"
	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/webhook"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth    *auth.Controller
	Charge  *charge.Controller
	Webhook *webhook.Controller
	Sync    *syncctl.Controller
	Wallet  *wallet.Controller
	Admin   *admin.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/v1/users/register", c.Auth.Register)
	e.POST("/v1/users/login", c.Auth.Login)

	// provider push, authenticated by HMAC signature instead of JWT
	e.POST("/api/webhook", c.Webhook.HandleEfiPay)

	// Auth
	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{
				"success": false, "error": "unauthorized", "message": "missing or invalid token",
			})
		},
	}))

	// Charges
	api.POST("/pix/cobranca", c.Charge.Create)
	api.GET("/pix/cobranca", c.Charge.List)
	api.GET("/pix/cobranca/:id", c.Charge.Get)
	api.PATCH("/pix/cobranca/:id", c.Charge.Patch)
	api.DELETE("/pix/cobranca/:id", c.Charge.Delete)
	api.POST("/pix/chave", c.Charge.CreateKey)

	// Reconciliation
	api.POST("/pix/sync", c.Sync.Post)
	api.GET("/pix/sync", c.Sync.Get)

	// Wallet
	api.POST("/wallet/withdraw", c.Wallet.Withdraw)
	api.GET("/wallet/withdrawals", c.Wallet.Withdrawals)
	api.GET("/wallet/balance", c.Wallet.Balance)

	// Admin
	api.POST("/admin/withdrawals/:id/process", c.Admin.ProcessWithdrawal)
}
