package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// StoreConfig selects where wellness logs are read from
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig configures the direct Postgres log store
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// LogConfig configures internal/logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalysisConfig bounds analysis windows
type AnalysisConfig struct {
	DefaultWindowDays int    `mapstructure:"default_window_days"`
	MaxWindowDays     int    `mapstructure:"max_window_days"`
	DefaultTZOffset   string `mapstructure:"default_tz_offset"`
}

// CORSConfig lists allowed browser origins. Entries may use a single
// leading wildcard label, e.g. https://*.example.com.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Analysis defaults
const (
	DefaultWindowDays    = 30
	DefaultMaxWindowDays = 366
	DefaultTZOffset      = "+00:00"
)

// DefaultAnalysisConfig returns the analysis section's defaults
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DefaultWindowDays: DefaultWindowDays,
		MaxWindowDays:     DefaultMaxWindowDays,
		DefaultTZOffset:   DefaultTZOffset,
	}
}

var tzOffsetPattern = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return decode(v)
}

// LoadDatabase reads only the database section. It is used by commands that
// talk to Postgres directly and need no Supabase credentials.
func LoadDatabase() (*DatabaseConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if config.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return &config.Database, nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("BREATHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables used by the hosting platform
	_ = v.BindEnv("server.port", "BREATHE_SERVER_PORT", "PORT")
	_ = v.BindEnv("supabase.url", "BREATHE_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", "BREATHE_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("database.url", "BREATHE_DATABASE_URL", "DATABASE_URL")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.driver", DriverSupabase)

	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("analysis.default_window_days", DefaultWindowDays)
	v.SetDefault("analysis.max_window_days", DefaultMaxWindowDays)
	v.SetDefault("analysis.default_tz_offset", DefaultTZOffset)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_second", 5.0)
	v.SetDefault("ratelimit.burst", 20)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Comma-separated env values arrive as a single element
	if len(config.CORS.AllowedOrigins) == 1 && strings.Contains(config.CORS.AllowedOrigins[0], ",") {
		config.CORS.AllowedOrigins = strings.Split(config.CORS.AllowedOrigins[0], ",")
	}
	for i, o := range config.CORS.AllowedOrigins {
		config.CORS.AllowedOrigins[i] = strings.TrimSpace(o)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	// Supabase Auth verifies every request, whichever store holds the logs
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}

	switch c.Store.Driver {
	case DriverSupabase:
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when store.driver is %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want %q or %q)", c.Store.Driver, DriverSupabase, DriverPostgres)
	}

	if c.Analysis.DefaultWindowDays < 1 {
		return fmt.Errorf("analysis.default_window_days must be at least 1")
	}
	if c.Analysis.MaxWindowDays < c.Analysis.DefaultWindowDays {
		return fmt.Errorf("analysis.max_window_days must be >= analysis.default_window_days")
	}
	if !tzOffsetPattern.MatchString(c.Analysis.DefaultTZOffset) {
		return fmt.Errorf("analysis.default_tz_offset must look like +HH:MM, got %q", c.Analysis.DefaultTZOffset)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("ratelimit.requests_per_second and ratelimit.burst must be positive")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
