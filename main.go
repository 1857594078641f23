// Package main PagTracker PIX API.
//
// @title           PagTracker PIX API
// @version         1.0
// @description     PIX charge lifecycle, EfiPay integration, webhooks and withdrawals.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"os"

	"github.com/Horsetech80/pagtracker-sub003/app/echoServer"
	adminctrl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/admin"
	authctrl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/auth"
	chargectrl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/charge"
	syncctrl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/sync"
	walletctrl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/wallet"
	webhookctrl "github.com/Horsetech80/pagtracker-sub003/app/echoServer/controller/webhook"
	"github.com/Horsetech80/pagtracker-sub003/app/echoServer/validation"
	"github.com/Horsetech80/pagtracker-sub003/config"
	chargerepo "github.com/Horsetech80/pagtracker-sub003/repository/charge"
	efipayrepo "github.com/Horsetech80/pagtracker-sub003/repository/efipay"
	userrepo "github.com/Horsetech80/pagtracker-sub003/repository/user"
	withdrawalrepo "github.com/Horsetech80/pagtracker-sub003/repository/withdrawal"
	authsvc "github.com/Horsetech80/pagtracker-sub003/service/auth"
	chargesvc "github.com/Horsetech80/pagtracker-sub003/service/charge"
	paymentsvc "github.com/Horsetech80/pagtracker-sub003/service/payment"
	syncsvc "github.com/Horsetech80/pagtracker-sub003/service/sync"
	withdrawalsvc "github.com/Horsetech80/pagtracker-sub003/service/withdrawal"
	"github.com/Horsetech80/pagtracker-sub003/util/database"
	"github.com/Horsetech80/pagtracker-sub003/util/httpx"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Pool.Close()

	// EfiPay requires mTLS; without the certificate the client still
	// starts so local development against a mock provider works.
	efiClient := httpx.Client()
	if cfg.EfiPayCertPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.EfiPayCertPath, cfg.EfiPayCertPath)
		if err != nil {
			log.Error("efipay certificate load failed", "path", cfg.EfiPayCertPath, "err", err)
			os.Exit(1)
		}
		efiClient = httpx.ClientWithCert(cert)
	} else {
		log.Warn("EFIPAY_CERT_PATH not set, provider calls go out without mTLS")
	}

	// repos
	cr := chargerepo.New(db)
	wr := withdrawalrepo.New(db)
	ur := userrepo.New(db)
	ep := efipayrepo.NewHTTP(
		cfg.EfiPayBaseURL,
		efipayrepo.StaticCredentials(cfg.EfiPayClientID, cfg.EfiPayClientSecret),
		efipayrepo.NewTokenCache(),
		efiClient,
	)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	cs := chargesvc.New(cr, ep, cfg.EfiPayPixKey)
	ps := paymentsvc.New(cr, cfg.WebhookSecret, log)
	ss := syncsvc.New(cr, ep, log)
	ws := withdrawalsvc.New(wr, ep, log)

	// controllers
	val := validation.New()
	v := val.Core()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	chargeC := &chargectrl.Controller{Svc: cs, V: v, Log: log}
	webhookC := &webhookctrl.Controller{Svc: ps, Log: log}
	syncC := &syncctrl.Controller{Svc: ss, Log: log}
	walletC := &walletctrl.Controller{Svc: ws, V: v, Log: log}
	adminC := &adminctrl.Controller{Svc: ws, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = val

	e.GET("/health", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"message": "database unreachable",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Charge:  chargeC,
		Webhook: webhookC,
		Sync:    syncC,
		Wallet:  walletC,
		Admin:   adminC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
