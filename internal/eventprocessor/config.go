// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import (
	"time"
)

// DefaultVerdictTopic is the Watermill topic verdicts are published to.
const DefaultVerdictTopic = "rqaguard.verdicts"

// NATSConfig configures the NATS transport for the verdict publisher.
type NATSConfig struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns reconnect defaults for url.
func DefaultNATSConfig(url string) NATSConfig {
	return NATSConfig{
		URL:           url,
		MaxReconnects: -1, // unlimited
		ReconnectWait: 2 * time.Second,
	}
}

// CircuitBreakerConfig configures the publish circuit breaker.
type CircuitBreakerConfig struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state count reset period
	Timeout     time.Duration // open duration before probing

	// FailureThreshold trips on consecutive failures; 0 disables it.
	FailureThreshold uint32

	// FailureRatio trips once MinRequests publishes in an Interval have
	// failed at this ratio or worse; 0 disables it.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultCircuitBreakerConfig returns the publish breaker defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "verdict-publisher",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		FailureRatio:     0.5,
		MinRequests:      20,
	}
}

// ServerConfig configures the embedded NATS server.
type ServerConfig struct {
	Host       string
	Port       int // -1 picks a random free port
	MaxPayload int32
}

// DefaultServerConfig returns defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:       "127.0.0.1",
		Port:       4222,
		MaxPayload: 1024 * 1024,
	}
}
