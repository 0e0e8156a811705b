// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package api serves the RQAGuard HTTP API with the chi router.
//
// Endpoints:
//
//	GET  /health                      liveness and dependency status
//	GET  /metrics                     Prometheus exposition
//	GET  /api/v1/health               same as /health, rate limited
//	GET  /api/v1/stats                traffic statistics
//	GET  /api/v1/blocked              blocked sources, oldest first
//	GET  /api/v1/blocked/{addr}       one blocked source or 404
//	GET  /api/v1/logs                 recent traffic log records
//	POST /api/v1/observations         ingest observations into the capture queue
//	GET  /api/v1/ws                   websocket verdict feed
//
// Every JSON response uses the models.APIResponse envelope:
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":3}}
//	{"status":"error","data":null,"error":{"code":"VALIDATION_ERROR","message":"..."},"metadata":{...}}
//
// # Middleware
//
// Global: request ID with logging context, real IP, panic recovery, CORS
// (go-chi/cors). The /api/v1 group adds per-IP rate limiting
// (go-chi/httprate) and Prometheus request metrics labelled by route pattern.
//
// The API has no authentication; it is meant for a private network next to
// the dashboard that consumes it.
package api
