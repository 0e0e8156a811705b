// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package config

import (
	"fmt"
	"net/url"

	"github.com/tomtom215/rqaguard/internal/logging"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateAnalyzer,
		c.validateFusion,
		c.validateCapture,
		c.validatePipeline,
		c.validateSimulation,
		c.validateClassifier,
		c.validateBlocklist,
		c.validateAlert,
		c.validateDatabase,
		c.validateNATS,
		c.validateServer,
		c.validateLogging,
		c.validateSupervisor,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	if c.Analyzer.WindowSize < 2 {
		return fmt.Errorf("RQA_WINDOW_SIZE must be at least 2, got %d", c.Analyzer.WindowSize)
	}
	if c.Analyzer.Epsilon <= 0 {
		return fmt.Errorf("RQA_EPSILON must be positive, got %v", c.Analyzer.Epsilon)
	}
	return nil
}

func (c *Config) validateFusion() error {
	if c.Fusion.CriticalDET < 0 || c.Fusion.CriticalDET > 100 {
		return fmt.Errorf("FUSION_CRITICAL_DET must be within [0, 100], got %v", c.Fusion.CriticalDET)
	}
	if c.Fusion.HighConfidence <= 0 || c.Fusion.HighConfidence > 1 {
		return fmt.Errorf("FUSION_HIGH_CONFIDENCE must be within (0, 1], got %v", c.Fusion.HighConfidence)
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Queue.Capacity < 1 {
		return fmt.Errorf("QUEUE_CAPACITY must be at least 1, got %d", c.Queue.Capacity)
	}
	if !c.Capture.Enabled {
		return nil
	}
	if !c.NATS.Enabled {
		return fmt.Errorf("CAPTURE_ENABLED=true requires NATS_ENABLED=true")
	}
	if c.Capture.Subject == "" {
		return fmt.Errorf("CAPTURE_SUBJECT is required when CAPTURE_ENABLED=true")
	}
	if c.Capture.StopTimeout <= 0 {
		return fmt.Errorf("CAPTURE_STOP_TIMEOUT must be positive, got %v", c.Capture.StopTimeout)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.PollInterval <= 0 {
		return fmt.Errorf("PIPELINE_POLL_INTERVAL must be positive, got %v", c.Pipeline.PollInterval)
	}
	if c.Pipeline.BatchSize < 1 {
		return fmt.Errorf("PIPELINE_BATCH_SIZE must be at least 1, got %d", c.Pipeline.BatchSize)
	}
	if c.Pipeline.SinkBuffer < 1 {
		return fmt.Errorf("PIPELINE_SINK_BUFFER must be at least 1, got %d", c.Pipeline.SinkBuffer)
	}
	return nil
}

func (c *Config) validateSimulation() error {
	if c.Simulation.MaliciousRatio < 0 || c.Simulation.MaliciousRatio > 1 {
		return fmt.Errorf("SIMULATION_MALICIOUS_RATIO must be within [0, 1], got %v", c.Simulation.MaliciousRatio)
	}
	if c.Simulation.Enabled && c.Simulation.RatePerSecond <= 0 {
		return fmt.Errorf("SIMULATION_RATE must be positive when SIMULATION_ENABLED=true, got %v", c.Simulation.RatePerSecond)
	}
	return nil
}

func (c *Config) validateClassifier() error {
	switch c.Classifier.Backend {
	case ClassifierBackendNone:
		return nil
	case ClassifierBackendHTTP:
		if c.Classifier.URL == "" {
			return fmt.Errorf("CLASSIFIER_URL is required when CLASSIFIER_BACKEND=http")
		}
		if err := validateHTTPURL(c.Classifier.URL); err != nil {
			return fmt.Errorf("CLASSIFIER_URL is invalid: %w", err)
		}
	case ClassifierBackendNATS:
		if !c.NATS.Enabled {
			return fmt.Errorf("CLASSIFIER_BACKEND=nats requires NATS_ENABLED=true")
		}
		if c.Classifier.Subject == "" {
			return fmt.Errorf("CLASSIFIER_SUBJECT is required when CLASSIFIER_BACKEND=nats")
		}
	default:
		return fmt.Errorf("CLASSIFIER_BACKEND must be none, http or nats, got %q", c.Classifier.Backend)
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT must be positive, got %v", c.Classifier.Timeout)
	}
	if c.Classifier.BreakerFailureThreshold == 0 {
		return fmt.Errorf("CLASSIFIER_BREAKER_THRESHOLD must be at least 1")
	}
	return nil
}

func (c *Config) validateBlocklist() error {
	switch c.Blocklist.Backend {
	case BlocklistBackendMemory, BlocklistBackendSQL, BlocklistBackendBadger:
	default:
		return fmt.Errorf("BLOCKLIST_BACKEND must be memory, sql or badger, got %q", c.Blocklist.Backend)
	}
	if c.Blocklist.CacheSize < 0 {
		return fmt.Errorf("BLOCKLIST_CACHE_SIZE must not be negative, got %d", c.Blocklist.CacheSize)
	}
	return nil
}

func (c *Config) validateAlert() error {
	if c.Alert.WebhookURL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Alert.WebhookURL); err != nil {
		return fmt.Errorf("ALERT_WEBHOOK_URL is invalid: %w", err)
	}
	if c.Alert.RatePerSecond <= 0 {
		return fmt.Errorf("ALERT_RATE must be positive, got %v", c.Alert.RatePerSecond)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be duckdb or postgres, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must not be negative, got %d", c.Database.MaxOpenConns)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true and NATS_EMBEDDED=false")
	}
	if c.NATS.EmbeddedServer && (c.NATS.EmbeddedPort < -1 || c.NATS.EmbeddedPort > 65535) {
		return fmt.Errorf("NATS_EMBEDDED_PORT must be within [-1, 65535], got %d", c.NATS.EmbeddedPort)
	}
	if c.NATS.PublishVerdicts && c.NATS.VerdictTopic == "" {
		return fmt.Errorf("NATS_VERDICT_TOPIC is required when PUBLISH_VERDICTS=true")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be within [1, 65535], got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Server.RateLimitReqs)
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	if c.Supervisor.FailureThreshold <= 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_THRESHOLD must be positive, got %v", c.Supervisor.FailureThreshold)
	}
	if c.Supervisor.FailureBackoff <= 0 {
		return fmt.Errorf("SUPERVISOR_FAILURE_BACKOFF must be positive, got %v", c.Supervisor.FailureBackoff)
	}
	return nil
}

// validateHTTPURL checks that raw is an absolute http(s) URL with a host.
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
