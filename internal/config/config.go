package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port      string
	JWTSecret string
	JWTTTL    time.Duration
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MigrationsPath  string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
}

// Load reads configuration from the environment. If path is non-empty, the
// .env file at that location is loaded first; a missing file is not an error
// so the same binary runs in containers with real env vars.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.App.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	cfg.App.JWTTTL = 24 * time.Hour

	for _, v := range []struct {
		dst  *string
		name string
	}{
		{&cfg.Postgres.Host, "DB_HOST"},
		{&cfg.Postgres.Port, "DB_PORT"},
		{&cfg.Postgres.User, "DB_USER"},
		{&cfg.Postgres.Password, "DB_PASSWORD"},
		{&cfg.Postgres.DBName, "DB_NAME"},
	} {
		*v.dst = os.Getenv(v.name)
		if *v.dst == "" {
			return nil, fmt.Errorf("config: %s is required", v.name)
		}
	}

	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2
	cfg.Postgres.MaxConnLifetime = 30 * time.Minute

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
