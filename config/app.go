package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	EfiPayBaseURL      string `env:"EFIPAY_BASE_URL"`
	EfiPayClientID     string `env:"EFIPAY_CLIENT_ID"`
	EfiPayClientSecret string `env:"EFIPAY_CLIENT_SECRET"`
	EfiPayCertPath     string `env:"EFIPAY_CERT_PATH"`
	EfiPayPixKey       string `env:"EFIPAY_PIX_KEY"`
	WebhookSecret      string `env:"EFIPAY_WEBHOOK_SECRET"`
}
