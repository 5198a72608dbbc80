package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, 300, cfg.UI.SearchDebounceMs)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "development falls back to a dev secret")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://loja.example, https://admin.loja.example")
	t.Setenv("TOAST_DURATION_MS", "5000")
	t.Setenv("POSTAL_RATE_PER_SEC", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://loja.example", "https://admin.loja.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5000, cfg.UI.ToastDurationMs)
	assert.InDelta(t, 2.5, cfg.Postal.RatePerSec, 0.0001)
}

func TestLoad_UnsetEnvironmentNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("JWT_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestValidate(t *testing.T) {
	t.Run("production requires a jwt secret", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "db"},
			Auth:     AuthConfig{TokenTTL: time.Hour},
			App:      AppConfig{Environment: "production"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("only development and test fall back to a dev secret", func(t *testing.T) {
		for env, wantErr := range map[string]bool{"development": false, "test": false, "staging": true, "": true} {
			cfg := &Config{
				Server:   ServerConfig{Port: "8080"},
				Database: DatabaseConfig{Host: "db"},
				Auth:     AuthConfig{TokenTTL: time.Hour},
				App:      AppConfig{Environment: env},
			}
			err := cfg.Validate()
			if wantErr {
				assert.Error(t, err, env)
				continue
			}
			require.NoError(t, err, env)
			assert.NotEmpty(t, cfg.Auth.JWTSecret)
		}
	})

	t.Run("dsn alone is enough", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{DSN: "postgres://x"},
			Auth:     AuthConfig{JWTSecret: "k", TokenTTL: time.Hour},
		}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 10, cfg.UI.PageSize)
	})
}
