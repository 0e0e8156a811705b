// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package services adapts RQAGuard components to suture.Service.
//
//   - HTTPServerService: ListenAndServe/Shutdown servers such as *http.Server.
//   - RunnerService: components with RunWithContext(ctx) error, such as the
//     pipeline consumer and the websocket hub.
//   - ShutdownService: components already running at construction that
//     only need an orderly Shutdown(ctx), such as the embedded NATS server.
//
// capture.Feed implements suture.Service itself and needs no wrapper.
package services
