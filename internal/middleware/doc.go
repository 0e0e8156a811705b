// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package middleware provides chi-compatible HTTP middleware shared by the
// API router.
//
//   - RequestID: assigns or propagates X-Request-ID and stores it, with a
//     fresh correlation ID, in the logging context.
//   - PrometheusMetrics: records request counts and latency labelled by the
//     matched chi route pattern, so path parameters such as blocked
//     addresses never become metric labels.
//
// Both have the func(http.Handler) http.Handler shape accepted by r.Use().
package middleware
