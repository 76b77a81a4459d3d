package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"go-dairy-ledger/pkg/database"
	"go-dairy-ledger/pkg/logger"
)

// MinSecretLength is the shortest JWT_SECRET accepted in production.
const MinSecretLength = 32

var ErrWeakSecret = errors.New("JWT_SECRET must be set to at least 32 characters in production")

type Config struct {
	Env          string
	Port         string
	CORSOrigins  string
	CookieSecure bool

	Database database.Config
	Log      logger.Config

	JWTSecret  string
	SessionTTL time.Duration

	AppRoot   string // base for relative logo paths
	UploadDir string // dairy logos and the placeholder image
	ReportDir string // spreadsheet export location

	RedisAddr       string // empty keeps the export lock in-process
	ProfitCostBasis string // "current" or "historical"
}

func Load() *Config {
	ttlHours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 24
	}

	cfg := &Config{
		Env:          strings.ToLower(getEnv("APP_ENV", "development")),
		Port:         getEnv("PORT", "3000"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		Database: database.Config{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", database.DriverPostgres)),
			DSN:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "dairy_ledger"),
			Port:     getEnv("DB_PORT", "5432"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Log: logger.Config{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnv("LOG_DEVELOPMENT", "false") == "true",
		},
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SessionTTL:      time.Duration(ttlHours) * time.Hour,
		AppRoot:         getEnv("APP_ROOT", "."),
		UploadDir:       getEnv("UPLOAD_DIR", "static/logos"),
		ReportDir:       getEnv("REPORT_DIR", "static/reports"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ProfitCostBasis: strings.ToLower(getEnv("PROFIT_COST_BASIS", "current")),
	}

	return cfg
}

// Production reports whether APP_ENV is "production".
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Validate rejects settings that must not reach production. Development
// keeps running with a warning instead.
func (c *Config) Validate() error {
	if c.Production() && len(c.JWTSecret) < MinSecretLength {
		return ErrWeakSecret
	}
	return nil
}

// Warnings lists settings that are fine for development but not production.
func (c *Config) Warnings() []string {
	var warns []string
	if c.JWTSecret == "" {
		warns = append(warns, "JWT_SECRET is not set, using the built-in development secret")
	} else if len(c.JWTSecret) < MinSecretLength {
		warns = append(warns, "JWT_SECRET is shorter than 32 characters")
	}
	if c.CORSOrigins == "*" {
		warns = append(warns, "CORS_ORIGINS allows every origin")
	}
	return warns
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
