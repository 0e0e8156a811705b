// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Analyzer   AnalyzerConfig   `koanf:"analyzer"`
	Fusion     FusionConfig     `koanf:"fusion"`
	Queue      QueueConfig      `koanf:"queue"`
	Capture    CaptureConfig    `koanf:"capture"`
	Pipeline   PipelineConfig   `koanf:"pipeline"`
	Simulation SimulationConfig `koanf:"simulation"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Blocklist  BlocklistConfig  `koanf:"blocklist"`
	Alert      AlertConfig      `koanf:"alert"`
	Database   DatabaseConfig   `koanf:"database"`
	NATS       NATSConfig       `koanf:"nats"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// AnalyzerConfig configures the recurrence analyzer.
type AnalyzerConfig struct {
	WindowSize int     `koanf:"window_size"`
	Epsilon    float64 `koanf:"epsilon"` // bytes; two points recur when |a-b| < epsilon
}

// FusionConfig configures the fusion thresholds.
type FusionConfig struct {
	CriticalDET    float64 `koanf:"critical_det"`
	HighConfidence float64 `koanf:"high_confidence"`
}

// QueueConfig configures the capture queue.
type QueueConfig struct {
	Capacity int `koanf:"capacity"`
}

// CaptureConfig configures the NATS packet producer.
type CaptureConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Subject     string        `koanf:"subject"`
	StopTimeout time.Duration `koanf:"stop_timeout"`
}

// PipelineConfig configures the consumer loop and its buffered sinks.
type PipelineConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"`
	BatchSize    int           `koanf:"batch_size"`
	SinkBuffer   int           `koanf:"sink_buffer"` // per webhook/publisher sink
}

// SimulationConfig configures the idle fallback generator.
type SimulationConfig struct {
	Enabled        bool    `koanf:"enabled"`
	MaliciousRatio float64 `koanf:"malicious_ratio"`
	RatePerSecond  float64 `koanf:"rate_per_second"`
	Seed           uint64  `koanf:"seed"`
}

// Classifier backends.
const (
	ClassifierBackendNone = "none"
	ClassifierBackendHTTP = "http"
	ClassifierBackendNATS = "nats"
)

// ClassifierConfig configures the external classifier ensemble.
type ClassifierConfig struct {
	Backend                 string        `koanf:"backend"`
	URL                     string        `koanf:"url"`
	Subject                 string        `koanf:"subject"`
	Timeout                 time.Duration `koanf:"timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
}

// Blocklist backends.
const (
	BlocklistBackendMemory = "memory"
	BlocklistBackendSQL    = "sql"
	BlocklistBackendBadger = "badger"
)

// BlocklistConfig configures the block registry.
type BlocklistConfig struct {
	Backend    string `koanf:"backend"`
	BadgerPath string `koanf:"badger_path"` // empty = in-memory Badger
	CacheSize  int    `koanf:"cache_size"`  // 0 disables the IsBlocked cache
}

// AlertConfig configures the webhook notified of malicious verdicts.
type AlertConfig struct {
	WebhookURL    string        `koanf:"webhook_url"` // empty disables alerts
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
	Timeout       time.Duration `koanf:"timeout"`
}

// Database drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// DatabaseConfig configures the SQL store for traffic logs and blocks.
type DatabaseConfig struct {
	Driver       string `koanf:"driver"`
	Path         string `koanf:"path"` // DuckDB file; empty = in-memory
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads"` // 0 = DuckDB default
	DSN          string `koanf:"dsn"`     // PostgreSQL connection string
	MaxOpenConns int    `koanf:"max_open_conns"`
}

// NATSConfig configures the NATS connection used for capture, scoring and
// verdict publishing.
type NATSConfig struct {
	Enabled         bool   `koanf:"enabled"`
	URL             string `koanf:"url"`
	EmbeddedServer  bool   `koanf:"embedded_server"`
	EmbeddedPort    int    `koanf:"embedded_port"`
	VerdictTopic    string `koanf:"verdict_topic"`
	PublishVerdicts bool   `koanf:"publish_verdicts"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`

	// DebugSample keeps one in N debug events. 0 keeps all.
	DebugSample uint32 `koanf:"debug_sample"`
}

// SupervisorConfig configures the suture supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
