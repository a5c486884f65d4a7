package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string `env:"BOOKSTORE_APP_NAME" envDefault:"bookstore-api"`
	AppEnv       string `env:"BOOKSTORE_APP_ENV" envDefault:"local"`
	HTTPHost     string `env:"BOOKSTORE_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `env:"BOOKSTORE_HTTP_PORT" envDefault:"8080"`
	HTTPBasePath string `env:"BOOKSTORE_HTTP_BASE_PATH" envDefault:"/api/v1"`

	DBHost     string `env:"BOOKSTORE_DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"BOOKSTORE_DB_PORT" envDefault:"5432"`
	DBUser     string `env:"BOOKSTORE_DB_USER" envDefault:"app"`
	DBPassword string `env:"BOOKSTORE_DB_PASSWORD" envDefault:"app_password"`
	DBName     string `env:"BOOKSTORE_DB_NAME" envDefault:"bookstore"`
	DBSSLMode  string `env:"BOOKSTORE_DB_SSLMODE" envDefault:"disable"`

	JWTSecret     string        `env:"BOOKSTORE_JWT_SECRET"`
	JWTPrivateKey string        `env:"BOOKSTORE_JWT_PRIVATE_KEY"`
	JWTPublicKey  string        `env:"BOOKSTORE_JWT_PUBLIC_KEY"`
	JWTAudience   string        `env:"BOOKSTORE_JWT_AUDIENCE" envDefault:"frontend"`
	JWTIssuer     string        `env:"BOOKSTORE_JWT_ISSUER" envDefault:"bookstore-api"`
	AccessTTL     time.Duration `env:"BOOKSTORE_JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"BOOKSTORE_JWT_REFRESH_TTL" envDefault:"720h"`

	NATSURL             string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSVerifySubject   string `env:"NATS_SUBJECT_VERIFY_JWT" envDefault:"auth.verifyJWT"`
	NATSActivitySubject string `env:"NATS_SUBJECT_ACTIVITY" envDefault:"bookstore.activity"`

	PasscheckURL     string        `env:"BOOKSTORE_PASSCHECK_URL"`
	PasscheckTimeout time.Duration `env:"BOOKSTORE_PASSCHECK_TIMEOUT" envDefault:"3s"`

	DashboardActivityLimit int `env:"BOOKSTORE_DASHBOARD_ACTIVITY_LIMIT" envDefault:"10"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
