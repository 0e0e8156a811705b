// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import (
	"context"
	"fmt"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
)

// DefaultPacketSubject is the subject edge sensors publish packet events on.
const DefaultPacketSubject = "rqaguard.packets"

// Producer pushes observations into a sink until ctx is canceled.
type Producer interface {
	Run(ctx context.Context, sink Offerer) error
}

// NATSProducer consumes packet events from a NATS subject.
type NATSProducer struct {
	conn    *natsgo.Conn
	subject string
}

// NewNATSProducer creates a producer on an existing connection.
func NewNATSProducer(conn *natsgo.Conn, subject string) *NATSProducer {
	if subject == "" {
		subject = DefaultPacketSubject
	}
	return &NATSProducer{conn: conn, subject: subject}
}

// Run implements Producer. Messages are handled on the subscription's
// delivery goroutine, so the sink sees a single writer per producer.
func (p *NATSProducer) Run(ctx context.Context, sink Offerer) error {
	logger := logging.WithComponent("capture")

	sub, err := p.conn.Subscribe(p.subject, func(m *natsgo.Msg) {
		obs, err := DecodePacket(m.Data)
		if err != nil {
			metrics.RecordCaptureEvent(false)
			logger.Debug().Err(err).Str("subject", m.Subject).Msg("Skipping malformed packet event")
			return
		}
		metrics.RecordCaptureEvent(true)
		if sink.Offer(obs) {
			logger.Debug().Msg("Capture queue full, dropped oldest observation")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", p.subject, err)
	}
	logger.Info().Str("subject", p.subject).Msg("Packet capture started")

	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil && p.conn.IsConnected() {
		logger.Warn().Err(err).Msg("Unsubscribe failed")
	}
	logger.Info().Str("subject", p.subject).Msg("Packet capture stopped")
	return ctx.Err()
}

// String implements fmt.Stringer.
func (p *NATSProducer) String() string {
	return "nats-producer:" + p.subject
}
