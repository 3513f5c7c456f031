package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	JWTSecret  string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"shuttergrid"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"shuttergrid_dev_password"`
	DBName     string `env:"DB_NAME" envDefault:"shuttergrid"`

	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:"localhost:9000"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"images"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`

	// PublicBaseURL is the externally visible address used when building
	// public URLs for uploaded objects.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:9000"`
}

func Load() (*Config, error) {
	// Best effort: a missing .env is fine, real env vars still apply.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from env: %w", err)
	}
	return cfg, nil
}
