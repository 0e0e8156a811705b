// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package classifier is the client side of the external classifier ensemble.
//
// Models are trained and served elsewhere. This package only sends an encoded
// feature vector and reads back two verdicts (primary and secondary). Every
// failure to obtain verdicts is reported as ErrModelUnavailable so that the
// pipeline can degrade instead of failing.
//
// Backends:
//
//   - HTTPEnsemble: JSON over HTTP POST to a model-serving endpoint.
//   - NATSEnsemble: the same JSON payloads over NATS request/reply.
//   - Unavailable: always fails; used when no backend is configured.
//
// Guard wraps any backend in a circuit breaker so that a dead model server
// costs one fast failure per observation rather than one timeout.
//
// Wire format:
//
//	request:  {"features": {"duration": 0, "protocol_type": 1, ...}}
//	response: {"primary":   {"label": "DoS", "confidence": 0.91},
//	           "secondary": {"label": "DoS", "confidence": 0.74}}
//
// A null or missing secondary yields ErrSecondaryUnavailable together with
// a valid primary verdict.
package classifier
