package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents the HTTP bridge configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"` // HTTP server port
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"` // Max request body in bytes
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// MaxDeliver is how often a job failing with a retryable error is
	// handed to the worker before it is dropped (default: 3)
	MaxDeliver int `mapstructure:"max_deliver"`

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "statcalc")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "statcalc-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// WorkerConfig controls the queue-driven analysis worker
type WorkerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	RequestSubject string `mapstructure:"request_subject"` // Subject analysis requests arrive on
	ReplySubject   string `mapstructure:"reply_subject"`   // Subject replies are published to
	Compression    string `mapstructure:"compression"`     // none or snappy
}

// AnalysisConfig holds the defaults applied when a request leaves a
// parameter out.
type AnalysisConfig struct {
	MovingAverageWindow int     `mapstructure:"moving_average_window"`
	EMAAlpha            float64 `mapstructure:"ema_alpha"`
	OutlierThreshold    float64 `mapstructure:"outlier_threshold"` // IQR fence multiplier
	AnomalyMethod       string  `mapstructure:"anomaly_method"`
	AnomalyThreshold    float64 `mapstructure:"anomaly_threshold"` // z-score cutoff
	AnomalyMinPoints    int     `mapstructure:"anomaly_min_points"`
	ForecastMethod      string  `mapstructure:"forecast_method"`
	ForecastHorizon     int     `mapstructure:"forecast_horizon"` // Days
	TrendWindow         int     `mapstructure:"trend_window"`
	Timezone            string  `mapstructure:"timezone"` // Used to date forecasts (e.g., "Asia/Tokyo", "+09:00", "UTC")
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if c.Queue.MaxDeliver < 0 {
		return fmt.Errorf("queue config: max_deliver cannot be negative")
	}

	if err := c.Worker.Validate(); err != nil {
		return fmt.Errorf("worker config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Validate validates auth configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate validates worker configuration
func (c *WorkerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.RequestSubject == "" {
		return fmt.Errorf("worker.request_subject is required")
	}

	if c.ReplySubject == "" {
		return fmt.Errorf("worker.reply_subject is required")
	}

	if c.RequestSubject == c.ReplySubject {
		return fmt.Errorf("worker.request_subject and worker.reply_subject cannot be the same")
	}

	if c.Compression != "" && c.Compression != "none" && c.Compression != "snappy" {
		return fmt.Errorf("worker.compression must be 'none' or 'snappy'")
	}

	return nil
}

// Validate validates analysis defaults
func (c *AnalysisConfig) Validate() error {
	if c.MovingAverageWindow < 1 {
		return fmt.Errorf("analysis.moving_average_window must be at least 1")
	}

	if c.EMAAlpha <= 0 || c.EMAAlpha > 1 {
		return fmt.Errorf("analysis.ema_alpha must be in (0, 1]")
	}

	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("analysis.outlier_threshold must be positive")
	}

	if c.AnomalyThreshold <= 0 {
		return fmt.Errorf("analysis.anomaly_threshold must be positive")
	}

	if c.ForecastHorizon < 1 || c.ForecastHorizon > 365 {
		return fmt.Errorf("analysis.forecast_horizon must be between 1 and 365")
	}

	if c.TrendWindow < 1 {
		return fmt.Errorf("analysis.trend_window must be at least 1")
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			if _, ok := offsetZone(c.Timezone); !ok {
				return fmt.Errorf("analysis.timezone %q is neither an IANA name nor a +hh:mm offset", c.Timezone)
			}
		}
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
