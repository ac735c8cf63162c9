package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config is the process configuration. Field names map to TOML sections and
// to SHOP_<SECTION>_<KEY> environment variables.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
	// DefaultShopID serves requests that carry no X-Shop-ID header.
	// Empty makes the header mandatory.
	DefaultShopID string `mapstructure:"default_shop_id"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres or sqlite
	Path            string `mapstructure:"path"`   // sqlite file, ":memory:" for an in-process database
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// RedisConfig locates the shared alert throttle.
// Without Redis the throttle is kept in process memory. Required refuses
// that fallback when Redis is enabled but unreachable.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Required bool   `mapstructure:"required"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"` // empty allows no cross-origin requests
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
}

// CheckoutConfig holds pricing defaults used when a request omits them
type CheckoutConfig struct {
	DefaultCurrency     string        `mapstructure:"default_currency"`
	PricesIncludeTax    bool          `mapstructure:"prices_include_tax"`
	AlertThrottleWindow time.Duration `mapstructure:"alert_throttle_window"`
	AdjustmentHistory   int           `mapstructure:"adjustment_history"`
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTLP gRPC host:port
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// defaults lists every key viper should know about. A key missing here is
// not bound to its environment variable.
var defaults = map[string]any{
	"app.name":            "shopcore",
	"app.env":             "development",
	"app.port":            "8080",
	"app.default_shop_id": "",

	"database.driver":             "postgres",
	"database.path":               "",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "shopcore",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.auto_migrate":       false,

	"redis.enabled":  false,
	"redis.required": false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      15 * time.Second,
	"http.idle_timeout":       time.Minute,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      2 << 20,
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "X-Request-ID", "X-Shop-ID"},
	"http.trusted_proxies":    []string{},

	"checkout.default_currency":      "EUR",
	"checkout.prices_include_tax":    false,
	"checkout.alert_throttle_window": 24 * time.Hour,
	"checkout.adjustment_history":    50,

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "shopcore",
	"telemetry.insecure":                false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
}

// Load reads config.toml from the working directory or /etc/shopcore
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads the given TOML file, or searches the default locations
// when file is empty. SHOP_ environment variables override the file, which
// overrides the built-in defaults.
func LoadFile(file string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/shopcore")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "shopcore.db"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	db := c.Database
	if c.App.DefaultShopID != "" {
		if _, err := uuid.Parse(c.App.DefaultShopID); err != nil {
			return fmt.Errorf("app.default_shop_id must be a UUID: %w", err)
		}
	}
	if db.Driver != "postgres" && db.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", db.Driver)
	}
	switch {
	case db.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			db.MaxIdleConns, db.MaxOpenConns)
	}
	if len(c.Checkout.DefaultCurrency) != 3 {
		return fmt.Errorf("checkout.default_currency must be an ISO 4217 code, got %q", c.Checkout.DefaultCurrency)
	}
	if c.Checkout.AlertThrottleWindow < 0 {
		return errors.New("checkout.alert_throttle_window cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be within [0, 1], got %g", c.Telemetry.SamplingRatio)
	}
	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

// validateProduction refuses settings that are only safe on a developer machine
func (c *Config) validateProduction() error {
	switch {
	case c.Database.Driver != "postgres":
		return errors.New("database.driver must be postgres in production")
	case c.Database.Password == "":
		return errors.New("database.password is required in production")
	case c.Database.SSLMode == "disable":
		return errors.New("database.sslmode cannot be 'disable' in production")
	case slices.Contains(c.HTTP.CORSAllowOrigins, "*"):
		return errors.New("http.cors_allow_origins cannot contain '*' in production")
	case c.Telemetry.DBLogFullSQL:
		return errors.New("telemetry.db_log_full_sql must be false in production")
	}
	return nil
}

// DSN is the sqlite path, or a postgres URL with escaped credentials
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
