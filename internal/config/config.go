// Package config provides configuration management for the oddsboard service.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Ratings   RatingsConfig   `mapstructure:"ratings"`
	Refresh   RefreshConfig   `mapstructure:"refresh" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the public HTTP API configuration
type ServerConfig struct {
	Port            int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// OddsAPIConfig represents The Odds API configuration
type OddsAPIConfig struct {
	BaseURL    string   `mapstructure:"base_url" validate:"required,url"`
	APIKey     string   `mapstructure:"api_key"`
	Regions    string   `mapstructure:"regions" validate:"required"`
	Bookmakers []string `mapstructure:"bookmakers" validate:"required,min=1"`
	CacheTTLSec int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// ProvidersConfig represents upstream fetch behavior shared by all providers
type ProvidersConfig struct {
	Leagues           []string `mapstructure:"leagues" validate:"required,min=1,leagues"`
	TimeoutSec        int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	PerFetchBudgetSec int      `mapstructure:"per_fetch_budget_seconds" validate:"required,gt=0"`
	MaxRetries        int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64  `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// RatingsConfig represents the Elo rating store configuration.
// Postgres is optional; the in-memory store is the default.
type RatingsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Backend  string `mapstructure:"backend" validate:"omitempty,oneof=memory postgres"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
}

// RefreshConfig represents the periodic board refresh schedule
type RefreshConfig struct {
	Cron        string `mapstructure:"cron" validate:"required"`
	BoardTTLSec int    `mapstructure:"board_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port string `mapstructure:"port"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RatingsDSN returns a PostgreSQL DSN for the ratings store
func (c *Config) RatingsDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Ratings.User,
		c.Ratings.Password,
		c.Ratings.Host,
		c.Ratings.Port,
		c.Ratings.Name,
		c.Ratings.SSLMode,
	)
}
