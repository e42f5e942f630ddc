// Package config provides configuration management for the Puckcast engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	RankFeed    RankFeedConfig    `mapstructure:"rank_feed" validate:"required"`
	Compute     ComputeConfig     `mapstructure:"compute" validate:"required"`
	Board       BoardConfig       `mapstructure:"board" validate:"required"`
	Predictions PredictionsConfig `mapstructure:"predictions" validate:"required"`
	Ingestion   IngestionConfig   `mapstructure:"ingestion" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Features    FeaturesConfig    `mapstructure:"features" validate:"required"`
	Daemon      DaemonConfig      `mapstructure:"daemon" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// RankFeedConfig represents the upstream ranking feed configuration
type RankFeedConfig struct {
	APIURL            string  `mapstructure:"api_url" validate:"required,url"`
	StreamURL         string  `mapstructure:"stream_url" validate:"required"`
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	StreamToken       string  `mapstructure:"stream_token"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"required,gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
}

// ComputeConfig represents the rating and forecast computation configuration
type ComputeConfig struct {
	Season                  string `mapstructure:"season" validate:"required,season"`
	RatingVariant           string `mapstructure:"rating_variant" validate:"required,variant"`
	LargeEnrollmentMin      int    `mapstructure:"large_enrollment_min" validate:"required,gt=0"`
	MonteCarloTrials        int    `mapstructure:"monte_carlo_trials" validate:"required,gt=0"`
	RecomputeTimeoutSeconds int    `mapstructure:"recompute_timeout_seconds" validate:"required,gt=0"`
	SnapshotRetention       int    `mapstructure:"snapshot_retention" validate:"required,gt=0"`
}

// BoardConfig represents the odds board configuration
type BoardConfig struct {
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CachePurgeSeconds int     `mapstructure:"cache_purge_seconds" validate:"required,gt=0"`
	VigPercent        float64 `mapstructure:"vig_percent" validate:"gte=0,lte=20"`
}

// PredictionsConfig represents head-to-head game prediction configuration
type PredictionsConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" validate:"required,gte=0,lte=1"`
}

// IngestionConfig represents ranking feed ingestion configuration
type IngestionConfig struct {
	Sources  []FeedSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// FeedSourceConfig represents a single upstream feed source
type FeedSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey    string `mapstructure:"api_key"`
}

// ScheduleConfig represents the computation and polling schedule
type ScheduleConfig struct {
	NightlyRecompute        string `mapstructure:"nightly_recompute" validate:"required"`
	FeedPollIntervalSeconds int    `mapstructure:"feed_poll_interval_seconds" validate:"required,gt=0"`
	TrendingBaseline        string `mapstructure:"trending_baseline" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	StreamEnabled          bool `mapstructure:"stream_enabled"`
	GamePredictionsEnabled bool `mapstructure:"game_predictions_enabled"`
	SimulationEnabled      bool `mapstructure:"simulation_enabled"`
	AutoPublishEnabled     bool `mapstructure:"auto_publish_enabled"`
}

// DaemonConfig represents daemon-specific configuration
type DaemonConfig struct {
	HealthPort                string `mapstructure:"health_port"`
	ShutdownGraceSeconds      int    `mapstructure:"shutdown_grace_seconds" validate:"required,gt=0"`
	MaxConsecutiveFeedErrors  int    `mapstructure:"max_consecutive_feed_errors" validate:"required,gt=0"`
	FeedRestartBackoffSeconds int    `mapstructure:"feed_restart_backoff_seconds" validate:"required,gt=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// FeedTimeout returns the per-request timeout for the ranking feed client
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.RankFeed.TimeoutSeconds) * time.Second
}

// BoardCacheTTL returns the odds board cache lifetime
func (c *Config) BoardCacheTTL() time.Duration {
	return time.Duration(c.Board.CacheTTLSeconds) * time.Second
}

// RecomputeTimeout returns the deadline for a full season recompute pass
func (c *Config) RecomputeTimeout() time.Duration {
	return time.Duration(c.Compute.RecomputeTimeoutSeconds) * time.Second
}
