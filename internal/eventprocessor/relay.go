// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// RecordSink receives relayed verdicts. *websocket.Hub satisfies it.
type RecordSink interface {
	Append(ctx context.Context, rec models.LogRecord) error
}

// VerdictRelay subscribes to the verdict topic and hands every decoded
// record to a local sink. It is how the live feed consumes the bus.
type VerdictRelay struct {
	subscriber message.Subscriber
	topic      string
	name       string
	sink       RecordSink
}

// NewVerdictRelay relays topic from sub into sink. name labels sink
// failures in logs and metrics. An empty topic selects DefaultVerdictTopic.
func NewVerdictRelay(sub message.Subscriber, topic, name string, sink RecordSink) (*VerdictRelay, error) {
	if sub == nil || sink == nil {
		return nil, ErrNilSubscriber
	}
	if topic == "" {
		topic = DefaultVerdictTopic
	}
	return &VerdictRelay{subscriber: sub, topic: topic, name: name, sink: sink}, nil
}

// Topic returns the subscribed topic.
func (r *VerdictRelay) Topic() string {
	return r.topic
}

// RunWithContext subscribes and relays until ctx is cancelled. Every
// message is acked: the feed is live, so undecodable or undeliverable
// verdicts are skipped rather than redelivered.
func (r *VerdictRelay) RunWithContext(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, r.topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.topic, err)
	}
	logging.Info().Str("topic", r.topic).Str("sink", r.name).Msg("Verdict relay subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("%s: %w", r.topic, ErrSubscriptionClosed)
			}
			r.handle(ctx, msg)
			msg.Ack()
		}
	}
}

func (r *VerdictRelay) handle(ctx context.Context, msg *message.Message) {
	rec, err := DecodeVerdict(msg)
	if err != nil {
		logging.Warn().Err(err).Str("topic", r.topic).Msg("Skipping undecodable verdict")
		return
	}

	ctx = logging.ContextWithObservationID(ctx, rec.ID)
	if err := r.sink.Append(ctx, rec); err != nil {
		metrics.RecordSinkFailure(r.name)
		logging.Ctx(ctx).Debug().Err(err).Str("sink", r.name).Msg("Relayed verdict not delivered")
	}
}

// NewNATSSubscriber returns a watermill-nats subscriber on core NATS. There
// is no queue group, so every instance receives every verdict.
func NewNATSSubscriber(cfg NATSConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: NATS URL is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		AckWaitTimeout:   5 * time.Second,
		CloseTimeout:     5 * time.Second,
		NatsOptions:      natsOptions(cfg, "rqaguard-verdict-relay", logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill NATS subscriber: %w", err)
	}
	return sub, nil
}
