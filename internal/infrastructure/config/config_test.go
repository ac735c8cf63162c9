package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"SHOP_APP_NAME",
	"SHOP_APP_ENV",
	"SHOP_APP_PORT",
	"SHOP_APP_DEFAULT_SHOP_ID",
	"SHOP_DATABASE_DRIVER",
	"SHOP_DATABASE_PATH",
	"SHOP_DATABASE_HOST",
	"SHOP_DATABASE_PORT",
	"SHOP_DATABASE_USER",
	"SHOP_DATABASE_PASSWORD",
	"SHOP_DATABASE_DBNAME",
	"SHOP_DATABASE_SSLMODE",
	"SHOP_DATABASE_MAX_OPEN_CONNS",
	"SHOP_DATABASE_MAX_IDLE_CONNS",
	"SHOP_REDIS_ENABLED",
	"SHOP_REDIS_REQUIRED",
	"SHOP_CHECKOUT_DEFAULT_CURRENCY",
	"SHOP_CHECKOUT_ALERT_THROTTLE_WINDOW",
	"SHOP_HTTP_CORS_ALLOW_ORIGINS",
	"SHOP_TELEMETRY_SAMPLING_RATIO",
	"SHOP_TELEMETRY_DB_LOG_FULL_SQL",
}

// withCleanEnv saves the SHOP_ variables, clears them, and restores them when the test ends.
func withCleanEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string, len(configEnvKeys))
	for _, k := range configEnvKeys {
		original[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		withCleanEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shopcore", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "shopcore", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.False(t, cfg.Redis.Required)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, "EUR", cfg.Checkout.DefaultCurrency)
		assert.Equal(t, 24*time.Hour, cfg.Checkout.AlertThrottleWindow)
		assert.Equal(t, 50, cfg.Checkout.AdjustmentHistory)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("loads values from environment variables with SHOP prefix", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_APP_NAME", "test-shop")
		os.Setenv("SHOP_APP_ENV", "testing")
		os.Setenv("SHOP_APP_PORT", "9000")
		os.Setenv("SHOP_DATABASE_HOST", "testdb.local")
		os.Setenv("SHOP_DATABASE_PORT", "5433")
		os.Setenv("SHOP_DATABASE_USER", "testuser")
		os.Setenv("SHOP_DATABASE_PASSWORD", "testpass")
		os.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("SHOP_REDIS_ENABLED", "true")
		os.Setenv("SHOP_REDIS_REQUIRED", "true")
		os.Setenv("SHOP_CHECKOUT_DEFAULT_CURRENCY", "SEK")
		os.Setenv("SHOP_CHECKOUT_ALERT_THROTTLE_WINDOW", "1h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-shop", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.True(t, cfg.Redis.Required)
		assert.Equal(t, "SEK", cfg.Checkout.DefaultCurrency)
		assert.Equal(t, time.Hour, cfg.Checkout.AlertThrottleWindow)
	})

	t.Run("sqlite driver gets a default path", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_DATABASE_DRIVER", "sqlite")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "shopcore.db", cfg.Database.Path)
		assert.Equal(t, "shopcore.db", cfg.Database.DSN())
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects malformed default currency", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_CHECKOUT_DEFAULT_CURRENCY", "EURO")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_currency")
	})

	t.Run("rejects a default shop that is not a UUID", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_APP_DEFAULT_SHOP_ID", "main-shop")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_shop_id")
	})

	t.Run("accepts a default shop UUID", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_APP_DEFAULT_SHOP_ID", "00000000-0000-0000-0000-000000000001")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.App.DefaultShopID)
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("SHOP_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func() {
		os.Setenv("SHOP_APP_ENV", "production")
		os.Setenv("SHOP_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SHOP_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Unsetenv("SHOP_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("SHOP_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("SHOP_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be postgres in production")
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("SHOP_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})

	t.Run("rejects full SQL logging in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("SHOP_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads values from an explicit toml file", func(t *testing.T) {
		withCleanEnv(t)
		path := filepath.Join(t.TempDir(), "shop.toml")
		content := `
[app]
name = "file-shop"

[database]
driver = "sqlite"
path = ":memory:"

[checkout]
default_currency = "SEK"
prices_include_tax = true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "file-shop", cfg.App.Name)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.DSN())
		assert.Equal(t, "SEK", cfg.Checkout.DefaultCurrency)
		assert.True(t, cfg.Checkout.PricesIncludeTax)
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		withCleanEnv(t)
		path := filepath.Join(t.TempDir(), "shop.toml")
		require.NoError(t, os.WriteFile(path, []byte("[app]\nname = \"file-shop\"\n"), 0o600))
		os.Setenv("SHOP_APP_NAME", "env-shop")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "env-shop", cfg.App.Name)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		withCleanEnv(t)

		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
