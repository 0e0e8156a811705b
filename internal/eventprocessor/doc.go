// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package eventprocessor publishes fused verdicts over Watermill and hosts the
// optional embedded NATS server.
//
// # Verdict Publishing
//
// VerdictPublisher is a pipeline log sink. Each LogRecord is encoded with
// goccy/go-json and published to the verdict topic (default
// "rqaguard.verdicts") through any Watermill message.Publisher:
//
//	┌──────────┐ Append  ┌──────────────────┐ Publish  ┌──────────────────────┐
//	│ Pipeline │───────► │ VerdictPublisher │────────► │ gochannel (in-proc)  │
//	└──────────┘         │  + gobreaker     │          │ watermill-nats (NATS)│
//	                     └──────────────────┘          └──────────────────────┘
//
// Message metadata carries label, threat_level, source and malicious so that
// downstream consumers can route without decoding the payload.
//
// A circuit breaker guards the transport: when the broker is unreachable,
// Append fails fast and the pipeline keeps processing. Failures are counted in
// rqaguard_verdict_publishes_total{result="error"}.
//
// # Transports
//
//   - NewGoChannel: in-process pub/sub, used when NATS is disabled and in tests
//   - NewNATSPublisher: core NATS (JetStream disabled) via watermill-nats
//   - NewNATSSubscriber: core NATS subscriber without a queue group
//
// # Relay
//
// VerdictRelay is the bus consumer that feeds the websocket hub. It
// subscribes to the verdict topic, decodes each message and acks it, even
// when decoding or delivery fails. The feed is live, so nothing is redelivered.
//
// # Embedded Server
//
// EmbeddedServer runs nats-server in-process for single-node deployments. It
// carries packet events, classifier request/reply and verdicts on one broker.
//
//	srv, err := eventprocessor.NewEmbeddedServer(eventprocessor.ServerConfig{Host: "127.0.0.1", Port: 4222})
//	defer srv.Shutdown(ctx)
package eventprocessor
