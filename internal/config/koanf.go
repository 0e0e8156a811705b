// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/rqaguard/config.yaml",
	"/etc/rqaguard/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			WindowSize: 50,
			Epsilon:    100,
		},
		Fusion: FusionConfig{
			CriticalDET:    90,
			HighConfidence: 0.8,
		},
		Queue: QueueConfig{
			Capacity: 1024,
		},
		Capture: CaptureConfig{
			Enabled:     false,
			Subject:     "rqaguard.packets",
			StopTimeout: time.Second,
		},
		Pipeline: PipelineConfig{
			PollInterval: 100 * time.Millisecond,
			BatchSize:    64,
			SinkBuffer:   256,
		},
		Simulation: SimulationConfig{
			Enabled:        true,
			MaliciousRatio: 0.15,
			RatePerSecond:  2,
			Seed:           0,
		},
		Classifier: ClassifierConfig{
			Backend:                 ClassifierBackendNone,
			URL:                     "",
			Subject:                 "rqaguard.score",
			Timeout:                 2 * time.Second,
			BreakerFailureThreshold: 5,
			BreakerTimeout:          30 * time.Second,
		},
		Blocklist: BlocklistConfig{
			Backend:    BlocklistBackendSQL,
			BadgerPath: "",
			CacheSize:  4096,
		},
		Alert: AlertConfig{
			WebhookURL:    "",
			RatePerSecond: 1,
			Burst:         5,
			Timeout:       5 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverDuckDB,
			Path:         "/data/rqaguard.duckdb",
			MaxMemory:    "1GB",
			Threads:      0,
			DSN:          "",
			MaxOpenConns: 0, // driver default
		},
		NATS: NATSConfig{
			Enabled:         false,
			URL:             "nats://127.0.0.1:4222",
			EmbeddedServer:  false,
			EmbeddedPort:    4222,
			VerdictTopic:    "rqaguard.verdicts",
			PublishVerdicts: true,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left as they are.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Detection
	"rqa_window_size":        "analyzer.window_size",
	"rqa_epsilon":            "analyzer.epsilon",
	"fusion_critical_det":    "fusion.critical_det",
	"fusion_high_confidence": "fusion.high_confidence",

	// Capture and pipeline
	"queue_capacity":             "queue.capacity",
	"capture_enabled":            "capture.enabled",
	"capture_subject":            "capture.subject",
	"capture_stop_timeout":       "capture.stop_timeout",
	"pipeline_poll_interval":     "pipeline.poll_interval",
	"pipeline_batch_size":        "pipeline.batch_size",
	"pipeline_sink_buffer":       "pipeline.sink_buffer",
	"simulation_enabled":         "simulation.enabled",
	"simulation_malicious_ratio": "simulation.malicious_ratio",
	"simulation_rate":            "simulation.rate_per_second",
	"simulation_seed":            "simulation.seed",

	// Classifier
	"classifier_backend":           "classifier.backend",
	"classifier_url":               "classifier.url",
	"classifier_subject":           "classifier.subject",
	"classifier_timeout":           "classifier.timeout",
	"classifier_breaker_threshold": "classifier.breaker_failure_threshold",
	"classifier_breaker_timeout":   "classifier.breaker_timeout",

	// Storage
	"blocklist_backend":     "blocklist.backend",
	"blocklist_badger_path": "blocklist.badger_path",
	"blocklist_cache_size":  "blocklist.cache_size",
	"alert_webhook_url":     "alert.webhook_url",
	"alert_rate":            "alert.rate_per_second",
	"alert_burst":           "alert.burst",
	"alert_timeout":         "alert.timeout",
	"db_driver":             "database.driver",
	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"database_dsn":          "database.dsn",
	"db_max_open_conns":     "database.max_open_conns",

	// Messaging
	"nats_enabled":       "nats.enabled",
	"nats_url":           "nats.url",
	"nats_embedded":      "nats.embedded_server",
	"nats_embedded_port": "nats.embedded_port",
	"nats_verdict_topic": "nats.verdict_topic",
	"publish_verdicts":   "nats.publish_verdicts",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",

	// Logging
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"log_debug_sample": "logging.debug_sample",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RQA_WINDOW_SIZE -> analyzer.window_size
//   - CLASSIFIER_URL -> classifier.url
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped variables are skipped so the environment cannot pollute config.
	return ""
}
