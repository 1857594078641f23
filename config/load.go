package config

import (
	"log/slog"
	"os"
)

func Load() App {
	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),

		EfiPayBaseURL:      getenv("EFIPAY_BASE_URL", "https://pix.api.efipay.com.br"),
		EfiPayClientID:     os.Getenv("EFIPAY_CLIENT_ID"),
		EfiPayClientSecret: os.Getenv("EFIPAY_CLIENT_SECRET"),
		EfiPayCertPath:     os.Getenv("EFIPAY_CERT_PATH"),
		EfiPayPixKey:       os.Getenv("EFIPAY_PIX_KEY"),
		WebhookSecret:      os.Getenv("EFIPAY_WEBHOOK_SECRET"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
