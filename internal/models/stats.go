// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package models

import (
	"math"
	"time"
)

// Stats summarises processed traffic.
// Captured and Simulated always add up to Total.
type Stats struct {
	Total              int64            `json:"total_traffic"`
	Captured           int64            `json:"captured"`
	Simulated          int64            `json:"simulated"`
	Malicious          int64            `json:"malicious_count"`
	Blocked            int64            `json:"blocked_count"`
	Degraded           int64            `json:"degraded_count"`
	DetectionRate      float64          `json:"detection_rate"`
	ThreatDistribution map[string]int64 `json:"threat_distribution"`
	LabelDistribution  map[string]int64 `json:"label_distribution"`
}

// ComputeDetectionRate sets DetectionRate to Malicious/Total as a percentage
// rounded to two decimals, or 0 when nothing was processed.
func (s *Stats) ComputeDetectionRate() {
	if s.Total == 0 {
		s.DetectionRate = 0
		return
	}
	s.DetectionRate = math.Round(float64(s.Malicious)/float64(s.Total)*10000) / 100
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	QueueDepth        int     `json:"queue_depth"`
	QueueDropped      int64   `json:"queue_dropped"`
	ClassifierState   string  `json:"classifier_state"`
	Uptime            float64 `json:"uptime_seconds"`
}

// APIResponse is the envelope used by all HTTP endpoints.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured details.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - DATABASE_ERROR: store failure
//   - NOT_FOUND: resource doesn't exist
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
