// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shivanand-hulikatti/tour-guide-booking/internal/database"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port      string
	LogFormat string
	Storage   string
	Database  database.Config
	RedisURL  string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	CSRFKey       string
	AllowOrigins  []string

	ResendAPIKey string
	MailFrom     string

	SeedDemo     bool
	DemoEmail    string
	DemoPassword string
	DemoName     string
}

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Storage:   strings.ToLower(getEnv("STORAGE", StorageMemory)),
		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tourguide"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL: os.Getenv("REDIS_URL"),

		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret-change-me"),
		CSRFKey:       getEnv("CSRF_KEY", "dev-csrf-key-32-bytes-change-me!"),
		AllowOrigins:  splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "Tour Guide <bookings@guiatur.com>"),

		DemoEmail:    getEnv("DEMO_EMAIL", "admin@guiatur.com"),
		DemoPassword: getEnv("DEMO_PASSWORD", "senha123"),
		DemoName:     getEnv("DEMO_NAME", "Guia de Demonstração"),
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "168h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", "false")); err != nil {
		return Config{}, fmt.Errorf("COOKIE_SECURE: %w", err)
	}
	if cfg.SeedDemo, err = strconv.ParseBool(getEnv("SEED_DEMO", "true")); err != nil {
		return Config{}, fmt.Errorf("SEED_DEMO: %w", err)
	}

	switch cfg.Storage {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("STORAGE must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.Storage)
	}
	if len(cfg.CSRFKey) != 32 {
		return Config{}, fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(cfg.CSRFKey))
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			continue
		}
		if u, err := url.Parse(o); err != nil || u.Scheme == "" || u.Host == "" {
			return Config{}, fmt.Errorf("CORS_ALLOW_ORIGINS: %q is not an origin like https://example.com", o)
		}
	}
	return cfg, nil
}

// Logger builds the process logger for LOG_FORMAT (json or text).
func (c Config) Logger() *slog.Logger {
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// splitList parses a comma-separated setting, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
