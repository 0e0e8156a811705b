// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// Metadata keys set on every verdict message.
const (
	MetadataLabel       = "label"
	MetadataThreatLevel = "threat_level"
	MetadataSource      = "source"
	MetadataMalicious   = "malicious"
)

// VerdictPublisher publishes LogRecords to a Watermill topic with circuit
// breaker protection.
type VerdictPublisher struct {
	publisher message.Publisher
	topic     string
	breaker   *gobreaker.CircuitBreaker[struct{}]

	mu     sync.RWMutex
	closed bool
}

// NewVerdictPublisher wraps pub. An empty topic selects DefaultVerdictTopic;
// a nil breaker publishes unguarded.
func NewVerdictPublisher(pub message.Publisher, topic string, breaker *gobreaker.CircuitBreaker[struct{}]) (*VerdictPublisher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if topic == "" {
		topic = DefaultVerdictTopic
	}
	return &VerdictPublisher{publisher: pub, topic: topic, breaker: breaker}, nil
}

// NewGoChannel returns an in-process Watermill pub/sub.
func NewGoChannel(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)
}

// NewNATSPublisher returns a watermill-nats publisher on core NATS.
// Verdicts are a live feed, so JetStream persistence is disabled.
func NewNATSPublisher(cfg NATSConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: NATS URL is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(cfg, "rqaguard-verdicts", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill NATS publisher: %w", err)
	}
	return pub, nil
}

// Topic returns the topic verdicts are published to.
func (p *VerdictPublisher) Topic() string {
	return p.topic
}

// Append publishes rec. It implements the pipeline log sink.
func (p *VerdictPublisher) Append(ctx context.Context, rec models.LogRecord) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := EncodeVerdict(rec)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)

	if p.breaker != nil {
		_, err = p.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, p.publisher.Publish(p.topic, msg)
		})
	} else {
		err = p.publisher.Publish(p.topic, msg)
	}
	metrics.RecordVerdictPublish(err)
	if err != nil {
		return fmt.Errorf("publish verdict %s: %w", msg.UUID, err)
	}
	return nil
}

// Close closes the underlying publisher. Further Appends fail.
func (p *VerdictPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// EncodeVerdict builds the Watermill message for rec. The record ID is used
// as the message UUID when present.
func EncodeVerdict(rec models.LogRecord) (*message.Message, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode verdict: %w", err)
	}
	id := rec.ID
	if id == "" {
		id = watermill.NewUUID()
	}

	msg := message.NewMessage(id, payload)
	msg.Metadata.Set(MetadataLabel, rec.Label)
	msg.Metadata.Set(MetadataThreatLevel, rec.ThreatLevel)
	msg.Metadata.Set(MetadataMalicious, strconv.FormatBool(rec.Malicious))
	source := models.SourceCaptured
	if rec.Simulated {
		source = models.SourceSimulated
	}
	msg.Metadata.Set(MetadataSource, source)
	return msg, nil
}

// DecodeVerdict is the inverse of EncodeVerdict.
func DecodeVerdict(msg *message.Message) (models.LogRecord, error) {
	var rec models.LogRecord
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		return models.LogRecord{}, fmt.Errorf("decode verdict %s: %w", msg.UUID, err)
	}
	return rec, nil
}
