// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package config provides centralized configuration management for RQAGuard.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/rqaguard/config.yaml, /etc/rqaguard/config.yml
 3. Environment variables, mapped explicitly by envTransformFunc

Environment variables that are not in the mapping are ignored.

# Environment Variables

Detection:
  - RQA_WINDOW_SIZE: Recurrence window length (default: 50)
  - RQA_EPSILON: Recurrence threshold in bytes (default: 100)
  - FUSION_CRITICAL_DET: DET percentage above which rqa_critical fires (default: 90)
  - FUSION_HIGH_CONFIDENCE: Confidence at or above which verdicts are High (default: 0.8)

Capture and pipeline:
  - QUEUE_CAPACITY: Capture queue capacity (default: 1024)
  - CAPTURE_ENABLED: Consume packet events from NATS (default: false)
  - CAPTURE_SUBJECT: Packet event subject (default: rqaguard.packets)
  - CAPTURE_STOP_TIMEOUT: Bounded wait for the producer on shutdown (default: 1s)
  - PIPELINE_POLL_INTERVAL: Consumer tick (default: 100ms)
  - PIPELINE_BATCH_SIZE: Observations drained per tick (default: 64)
  - PIPELINE_SINK_BUFFER: Records buffered per webhook/publisher sink before drops (default: 256)
  - SIMULATION_ENABLED: Synthesize traffic when the queue is idle (default: true)
  - SIMULATION_MALICIOUS_RATIO: Share of attack-shaped samples (default: 0.15)
  - SIMULATION_RATE: Synthetic observations per second (default: 2)
  - SIMULATION_SEED: Generator seed, 0 for clock (default: 0)

Classifier:
  - CLASSIFIER_BACKEND: none, http or nats (default: none)
  - CLASSIFIER_URL: Scoring endpoint for the http backend
  - CLASSIFIER_SUBJECT: Request subject for the nats backend (default: rqaguard.score)
  - CLASSIFIER_TIMEOUT: Per-call timeout (default: 2s)
  - CLASSIFIER_BREAKER_THRESHOLD: Consecutive failures that open the breaker (default: 5)
  - CLASSIFIER_BREAKER_TIMEOUT: Open-state duration (default: 30s)

Storage:
  - BLOCKLIST_BACKEND: memory, sql or badger (default: sql)
  - BLOCKLIST_BADGER_PATH: Badger directory, empty for in-memory
  - BLOCKLIST_CACHE_SIZE: IsBlocked LRU size, 0 disables (default: 4096)
  - DB_DRIVER: duckdb or postgres (default: duckdb)
  - DUCKDB_PATH: DuckDB file, empty for in-memory (default: /data/rqaguard.duckdb)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS: DuckDB tuning
  - DATABASE_DSN: PostgreSQL connection string
  - DB_MAX_OPEN_CONNS: Connection pool size (default: 1 for duckdb)

Messaging:
  - NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_EMBEDDED_PORT
  - NATS_VERDICT_TOPIC: Verdict event topic (default: rqaguard.verdicts)
  - PUBLISH_VERDICTS: Publish verdict events (default: true)

Server and logging:
  - HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - SUPERVISOR_FAILURE_THRESHOLD, SUPERVISOR_FAILURE_DECAY,
    SUPERVISOR_FAILURE_BACKOFF, SUPERVISOR_SHUTDOWN_TIMEOUT

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Config is immutable after Load and safe for concurrent reads.
*/
package config
