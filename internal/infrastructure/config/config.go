// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is used when no base URL is configured.
const DefaultAPIBaseURL = "http://localhost:5000/api"

// Session store drivers
const (
	SessionDriverMemory = "memory"
	SessionDriverSQLite = "sqlite"
	SessionDriverRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	API        APIConfig        `mapstructure:"api"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// APIConfig describes how to reach the recipe backend
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Retry             RetryConfig   `mapstructure:"retry"`
}

// RetryConfig is the opt-in retry policy for backend calls.
// MaxAttempts of 1 means a single attempt.
type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// SessionConfig contains local session storage and expiry-check settings
type SessionConfig struct {
	Driver          string        `mapstructure:"driver"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	CheckInterval   time.Duration `mapstructure:"check_interval"`
	ProtectedMarker string        `mapstructure:"protected_marker"`
	LoginPath       string        `mapstructure:"login_path"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics bool    `mapstructure:"enable_metrics"`
	EnableTracing bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint  string  `mapstructure:"otlp_endpoint"`
	SamplingRate  float64 `mapstructure:"sampling_rate"`
	// MetricsFile receives a Prometheus text dump on shutdown when metrics are enabled
	MetricsFile string `mapstructure:"metrics_file"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/recipeweb")
	}

	v.SetEnvPrefix("RECIPEWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.base_url", "RECIPEWEB_API_BASE_URL", "API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind api url: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// defaultSQLitePath places the session file in the user's config directory,
// falling back to the working directory
func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "recipeweb-session.db"
	}
	return filepath.Join(dir, "recipeweb", "session.db")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "recipeweb")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "warn")
	v.SetDefault("app.log_format", "console")

	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("api.requests_per_second", 0)
	v.SetDefault("api.burst", 1)
	v.SetDefault("api.retry.max_attempts", 1)
	v.SetDefault("api.retry.initial_interval", "200ms")
	v.SetDefault("api.retry.max_interval", "5s")

	v.SetDefault("session.driver", SessionDriverSQLite)
	v.SetDefault("session.sqlite_path", defaultSQLitePath())
	v.SetDefault("session.check_interval", "5m")
	v.SetDefault("session.protected_marker", "/profile")
	v.SetDefault("session.login_path", "/login")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.database", 0)

	v.SetDefault("monitoring.enable_metrics", false)
	v.SetDefault("monitoring.enable_tracing", false)
	v.SetDefault("monitoring.otlp_endpoint", "localhost:4318")
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.metrics_file", "recipeweb.prom")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}

	if c.API.Retry.MaxAttempts < 1 {
		return fmt.Errorf("api.retry.max_attempts must be at least 1")
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative")
	}

	if c.Session.CheckInterval <= 0 {
		return fmt.Errorf("session.check_interval must be positive")
	}

	switch c.Session.Driver {
	case SessionDriverMemory, SessionDriverSQLite, SessionDriverRedis:
	default:
		return fmt.Errorf("session.driver must be one of memory, sqlite, redis; got %q", c.Session.Driver)
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
