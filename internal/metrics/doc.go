// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package metrics provides Prometheus metrics for RQAGuard.

All collectors are registered on the default registry via promauto and are
exposed at /metrics by the API server:

	curl http://localhost:8080/metrics

# Available Metrics

Detection:
  - rqaguard_observations_processed_total{source}
  - rqaguard_observation_duration_seconds
  - rqaguard_verdicts_total{label, threat_level, rule}
  - rqaguard_degraded_verdicts_total
  - rqaguard_rqa_recurrence_rate_percent, rqaguard_rqa_determinism_percent

Classifier:
  - rqaguard_classifier_calls_total{outcome}
  - rqaguard_classifier_breaker_state (0=closed, 1=half-open, 2=open)

Blocklist and sinks:
  - rqaguard_block_operations_total{result}
  - rqaguard_block_cache_lookups_total{result}
  - rqaguard_sink_failures_total{sink}
  - rqaguard_verdict_publishes_total{result}

Capture:
  - rqaguard_capture_queue_depth
  - rqaguard_capture_queue_dropped_total
  - rqaguard_capture_events_total{result}

Database and HTTP:
  - rqaguard_db_query_duration_seconds{operation, table}
  - rqaguard_db_query_errors_total{operation, table}
  - rqaguard_http_requests_total{method, endpoint, status}
  - rqaguard_http_request_duration_seconds{method, endpoint}
  - rqaguard_websocket_connections

# Usage

Components call the Record* and Update* helpers rather than touching the
collectors directly:

	start := time.Now()
	verdict := p.Process(ctx, obs)
	metrics.RecordObservation(obs.Source(), time.Since(start))
*/
package metrics
