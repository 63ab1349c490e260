package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	DBDriver      string
	DatabaseURL   string
	MigrationsURL string

	// Empty RedisURL runs with an in-process lock and logged events
	RedisURL      string
	EventsChannel string

	JWTSecret string

	LockWait time.Duration
	LockTTL  time.Duration

	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	lockWait, err := parseDuration("LOCK_WAIT", "5s")
	if err != nil {
		return nil, err
	}
	lockTTL, err := parseDuration("LOCK_TTL", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "production"),
		LogLevel:           parseLevel(getEnv("LOG_LEVEL", "info")),
		DBDriver:           getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL:        getEnv("DATABASE_URL", "gymit.db?_journal_mode=WAL&_foreign_keys=on"),
		MigrationsURL:      getEnv("MIGRATIONS_URL", "file://migrations"),
		RedisURL:           getEnv("REDIS_URL", ""),
		EventsChannel:      getEnv("EVENTS_CHANNEL", "gymit:events"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		LockWait:           lockWait,
		LockTTL:            lockTTL,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	// The fixed development secret is only accepted when ENV=development is set explicitly
	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required unless ENV=development")
		}
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = "dev-secret"
	}
	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
