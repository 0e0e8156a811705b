// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package main is the entry point for the RQAGuard server.
//
// RQAGuard scores a stream of network observations. Each observation goes
// through a sliding-window recurrence analyzer and an external two-model
// classifier ensemble. The fusion engine combines both into a verdict, and
// malicious sources are added to the blocklist.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Database: DuckDB file (default) or PostgreSQL for traffic logs
//  3. NATS (optional): embedded server or external URL
//  4. Classifier: HTTP or NATS backend behind a circuit breaker
//  5. Blocklist: memory, SQL or Badger registry behind an LRU cache
//  6. Sinks: database, WebSocket hub, Watermill verdict publisher, alert webhook
//  7. Pipeline: capture queue, consumer loop, simulation fallback
//  8. HTTP Server: REST API, WebSocket feed and Prometheus metrics
//
// All long-running parts run under a suture supervisor tree.
//
// # Configuration
//
// Environment variables override the config file, for example:
//
//	DB_DRIVER=postgres DATABASE_DSN="host=db user=rqaguard sslmode=disable"
//	CLASSIFIER_BACKEND=http CLASSIFIER_URL=http://models:8500/v1/score
//	NATS_ENABLED=true NATS_EMBEDDED=true CAPTURE_ENABLED=true
//	ALERT_WEBHOOK_URL=https://hooks.example.org/ids
//	SIMULATION_ENABLED=false
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
// server, the consumer and the capture feed, then the stores are closed.
package main
