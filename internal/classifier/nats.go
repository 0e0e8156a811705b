// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package classifier

import (
	"context"
	"time"

	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/rqaguard/internal/features"
)

// DefaultScoreSubject is the request subject served by the model workers.
const DefaultScoreSubject = "rqaguard.score"

// NATSEnsemble scores observations over NATS request/reply.
type NATSEnsemble struct {
	conn    *natsgo.Conn
	subject string
	timeout time.Duration
}

// NewNATSEnsemble creates a NATS backend on an existing connection.
func NewNATSEnsemble(conn *natsgo.Conn, subject string, timeout time.Duration) *NATSEnsemble {
	if subject == "" {
		subject = DefaultScoreSubject
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &NATSEnsemble{conn: conn, subject: subject, timeout: timeout}
}

// Score implements Ensemble.
func (n *NATSEnsemble) Score(ctx context.Context, v features.Vector) (Result, error) {
	if n.conn == nil || n.conn.IsClosed() {
		return Result{}, unavailable("request", natsgo.ErrConnectionClosed)
	}

	data, err := encodeRequest(v)
	if err != nil {
		return Result{}, unavailable("encode request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg, err := n.conn.RequestWithContext(ctx, n.subject, data)
	if err != nil {
		return Result{}, unavailable("request "+n.subject, err)
	}
	return decodeResponse(msg.Data)
}

// String implements fmt.Stringer.
func (n *NATSEnsemble) String() string {
	return "nats:" + n.subject
}
