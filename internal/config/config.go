package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/joestump/catalog-core/internal/slug"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Slug    slug.Config
	Catalog struct {
		SaveRetries int
	}
	API struct {
		RateLimit float64
		Burst     int
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads config from environment (CATALOG_ prefix) and optional
// catalog.yaml, and requires a database to be configured.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("CATALOG_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("CATALOG_DB_DSN is required")
	}
	return cfg, nil
}

// Read is Load without the database requirement, for commands that never
// open one.
func Read() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("catalog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	def := slug.DefaultConfig()
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("slug.max_length", def.MaxLength)
	v.SetDefault("slug.suffix_length", def.SuffixLength)
	v.SetDefault("slug.max_attempts", def.MaxAttempts)
	v.SetDefault("catalog.save_retries", 3)
	v.SetDefault("api.rate_limit", 0)
	v.SetDefault("api.burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Slug = slug.Config{
		MaxLength:    v.GetInt("slug.max_length"),
		SuffixLength: v.GetInt("slug.suffix_length"),
		MaxAttempts:  v.GetInt("slug.max_attempts"),
	}
	cfg.Catalog.SaveRetries = v.GetInt("catalog.save_retries")
	cfg.API.RateLimit = v.GetFloat64("api.rate_limit")
	cfg.API.Burst = v.GetInt("api.burst")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	if err := cfg.Slug.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slug config: %w", err)
	}
	if cfg.Catalog.SaveRetries < 0 {
		return nil, fmt.Errorf("CATALOG_CATALOG_SAVE_RETRIES must not be negative")
	}
	if cfg.API.RateLimit < 0 {
		return nil, fmt.Errorf("CATALOG_API_RATE_LIMIT must not be negative")
	}
	if cfg.API.RateLimit > 0 && cfg.API.Burst < 1 {
		return nil, fmt.Errorf("CATALOG_API_BURST must be at least 1 when rate limiting is on")
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_LOG_LEVEL: %w", err)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("CATALOG_LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}
	return cfg, nil
}

// NewLogger builds the process logger from the log section.
func (c *Config) NewLogger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
