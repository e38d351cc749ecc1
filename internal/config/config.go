// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	History  HistoryConfig  `mapstructure:"history"`
	Search   SearchConfig   `mapstructure:"search"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds caching settings for recent-search lists.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RecentTTL time.Duration `mapstructure:"recent_ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// HistoryConfig holds saved-search history settings.
type HistoryConfig struct {
	Retention time.Duration `mapstructure:"retention"`  // how long saved searches are kept
	Interval  time.Duration `mapstructure:"interval"`   // prune scheduler cadence
	Timeout   time.Duration `mapstructure:"timeout"`    // per prune run
	OnStartup bool          `mapstructure:"on_startup"` // prune once at boot
}

// SearchConfig holds the search-state configuration: facet fields, the
// sanitizer allow-list and the document show route.
type SearchConfig struct {
	Facets      []FacetConfig `mapstructure:"facets"`
	AllowedKeys []string      `mapstructure:"allowed_keys"`
	RequestKeys []string      `mapstructure:"request_keys"`
	Show        ShowConfig    `mapstructure:"show"`
}

// FacetConfig declares one facet field.
type FacetConfig struct {
	Name   string `mapstructure:"name"`
	Key    string `mapstructure:"key"`
	Single bool   `mapstructure:"single"`
}

// ShowConfig holds document show-route settings.
type ShowConfig struct {
	Controller    string   `mapstructure:"controller"`
	DocumentTypes []string `mapstructure:"document_types"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "catalog-search-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "catalog_search")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.recent_ttl", "15m")
	v.SetDefault("cache.key_prefix", "catalog-search")

	// History defaults
	v.SetDefault("history.retention", "720h") // 30 days
	v.SetDefault("history.interval", "12h")
	v.SetDefault("history.timeout", "1m")
	v.SetDefault("history.on_startup", false)

	// Search defaults: a minimal catalog facet set; deployments override
	// this wholesale in config.yaml
	v.SetDefault("search.facets", []map[string]any{
		{"name": "genre", "key": "genre"},
		{"name": "author", "key": "author_facet"},
		{"name": "language", "key": "language"},
		{"name": "format", "key": "format", "single": true},
	})
	v.SetDefault("search.allowed_keys", []string{"search_field", "view"})
	v.SetDefault("search.request_keys", []string{"facet.page", "facet.sort", "facet.prefix"})
	v.SetDefault("search.show.controller", "catalog")
	v.SetDefault("search.show.document_types", []string{})
}
