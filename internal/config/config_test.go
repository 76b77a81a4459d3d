package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "CORS_ORIGINS", "COOKIE_SECURE", "SESSION_TTL_HOURS", "JWT_SECRET", "REDIS_ADDR", "PROFIT_COST_BASIS", "DB_DRIVER", "APP_ENV"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.NoError(t, cfg.Validate(), "development runs with the fallback secret")
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "current", cfg.ProfitCostBasis)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("PROFIT_COST_BASIS", "Historical")
	t.Setenv("DB_DRIVER", "MySQL")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "historical", cfg.ProfitCostBasis)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoadBadTTLFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "-3")
	assert.Equal(t, 24*time.Hour, Load().SessionTTL)
}

func TestWarnings(t *testing.T) {
	cfg := &Config{CORSOrigins: "*"}
	assert.Len(t, cfg.Warnings(), 2)

	cfg = &Config{JWTSecret: "short", CORSOrigins: "https://ledger.example"}
	assert.Equal(t, []string{"JWT_SECRET is shorter than 32 characters"}, cfg.Warnings())

	cfg = &Config{JWTSecret: "0123456789abcdef0123456789abcdef", CORSOrigins: "https://ledger.example"}
	assert.Empty(t, cfg.Warnings())
}

func TestValidateProductionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("JWT_SECRET", "")
	cfg := Load()
	assert.True(t, cfg.Production())
	assert.ErrorIs(t, cfg.Validate(), ErrWeakSecret)

	t.Setenv("JWT_SECRET", "too-short")
	assert.ErrorIs(t, Load().Validate(), ErrWeakSecret)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	assert.NoError(t, Load().Validate())
}
