package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // Current directory
		v.AddConfigPath("./configs")     // Project configs directory
		v.AddConfigPath("./config")      // Alternative config directory
		v.AddConfigPath("/etc/statcalc") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Environment overrides: STATCALC_SERVER_HTTP_PORT, STATCALC_QUEUE_TYPE, ...
	v.SetEnvPrefix("STATCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("auth.enabled", false)

	// Queue defaults
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.max_deliver", d.Queue.MaxDeliver)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)
	v.SetDefault("queue.redis_group", d.Queue.RedisGroup)
	v.SetDefault("queue.kafka_group_id", d.Queue.KafkaGroupID)

	// Worker defaults
	v.SetDefault("worker.enabled", d.Worker.Enabled)
	v.SetDefault("worker.request_subject", d.Worker.RequestSubject)
	v.SetDefault("worker.reply_subject", d.Worker.ReplySubject)
	v.SetDefault("worker.compression", d.Worker.Compression)

	// Analysis defaults
	v.SetDefault("analysis.moving_average_window", d.Analysis.MovingAverageWindow)
	v.SetDefault("analysis.ema_alpha", d.Analysis.EMAAlpha)
	v.SetDefault("analysis.outlier_threshold", d.Analysis.OutlierThreshold)
	v.SetDefault("analysis.anomaly_method", d.Analysis.AnomalyMethod)
	v.SetDefault("analysis.anomaly_threshold", d.Analysis.AnomalyThreshold)
	v.SetDefault("analysis.anomaly_min_points", d.Analysis.AnomalyMinPoints)
	v.SetDefault("analysis.forecast_method", d.Analysis.ForecastMethod)
	v.SetDefault("analysis.forecast_horizon", d.Analysis.ForecastHorizon)
	v.SetDefault("analysis.trend_window", d.Analysis.TrendWindow)
	v.SetDefault("analysis.timezone", d.Analysis.Timezone)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5580,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			BodyLimit:    4 * 1024 * 1024,
		},
		Queue: QueueConfig{
			Type:         "nats",
			URL:          "nats://localhost:4222",
			MaxDeliver:   3,
			RedisStream:  "statcalc",
			RedisGroup:   "statcalc-group",
			KafkaGroupID: "statcalc-worker",
		},
		Worker: WorkerConfig{
			Enabled:        false,
			RequestSubject: "statcalc.analysis.request",
			ReplySubject:   "statcalc.analysis.reply",
			Compression:    "none",
		},
		Analysis: AnalysisConfig{
			MovingAverageWindow: 7,
			EMAAlpha:            0.3,
			OutlierThreshold:    1.5,
			AnomalyMethod:       "zscore",
			AnomalyThreshold:    2.0,
			AnomalyMinPoints:    10,
			ForecastMethod:      "sma",
			ForecastHorizon:     30,
			TrendWindow:         7,
			Timezone:            "UTC",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
