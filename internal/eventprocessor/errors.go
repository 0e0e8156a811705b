// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import "errors"

// ErrPublisherClosed is returned by Append after Close.
var ErrPublisherClosed = errors.New("eventprocessor: publisher is closed")

// ErrNilPublisher is returned when a VerdictPublisher is built without a transport.
var ErrNilPublisher = errors.New("eventprocessor: publisher cannot be nil")

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("eventprocessor: invalid configuration")

// ErrServerNotReady is returned when the embedded NATS server does not accept
// connections within the startup timeout.
var ErrServerNotReady = errors.New("eventprocessor: NATS server not ready")

// ErrSubscriptionClosed is returned by VerdictRelay when the subscriber
// closes its channel before the run context ends.
var ErrSubscriptionClosed = errors.New("eventprocessor: subscription closed")

// ErrNilSubscriber is returned when a VerdictRelay is built without a
// subscriber or sink.
var ErrNilSubscriber = errors.New("eventprocessor: subscriber and sink are required")
