package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Password: "secret"},
		JWT:      JWTConfig{Secret: "jwt-secret"},
		App:      AppConfig{Timezone: "UTC", LogLevel: "info"},
		QR:       QRConfig{Validity: 24 * time.Hour},
		Payroll: PayrollConfig{
			AllowanceRate: decimal.RequireFromString("0.10"),
			TaxRate:       decimal.RequireFromString("0.15"),
			PensionRate:   decimal.RequireFromString("0.05"),
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.QR.Validity)
	assert.True(t, cfg.Payroll.AllowanceRate.Equal(decimal.RequireFromString("0.10")))
	assert.True(t, cfg.Payroll.TaxRate.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, cfg.Payroll.PensionRate.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.AllowedOrigins)
	assert.False(t, cfg.OAuth2Google.Enabled())
}

func TestLoad_RateFromEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("PAYROLL_TAX_RATE", "0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Payroll.TaxRate.Equal(decimal.RequireFromString("0.2")))
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing db password", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Password = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rate out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.Payroll.TaxRate = decimal.RequireFromString("1.5")
		assert.ErrorContains(t, cfg.Validate(), "PAYROLL_TAX_RATE")
	})

	t.Run("bad timezone", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Timezone = "Mars/Olympus"
		assert.Error(t, cfg.Validate())
	})

	t.Run("google partially configured", func(t *testing.T) {
		cfg := validConfig()
		cfg.OAuth2Google.ClientID = "id"
		assert.ErrorContains(t, cfg.Validate(), "CLIENT_SECRET")
	})
}

func TestSlogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "DEBUG"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.App.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
