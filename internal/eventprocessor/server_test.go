// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/rs/zerolog"

	"github.com/tomtom215/rqaguard/internal/logging"
)

func startEmbedded(t *testing.T) *EmbeddedServer {
	t.Helper()
	cfg := DefaultServerConfig()
	cfg.Port = -1
	srv, err := NewEmbeddedServer(cfg)
	if err != nil {
		t.Fatalf("NewEmbeddedServer() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func TestEmbeddedServer_Lifecycle(t *testing.T) {
	srv := startEmbedded(t)
	if !srv.IsRunning() {
		t.Fatal("server not running")
	}
	if srv.ClientURL() == "" {
		t.Fatal("empty client URL")
	}

	nc, err := Connect(DefaultNATSConfig(srv.ClientURL()), "lifecycle-test", logging.NewWatermillAdapter("test"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer nc.Close()
	if !nc.IsConnected() {
		t.Error("connection not established")
	}
	if n := srv.NumClients(); n != 1 {
		t.Errorf("NumClients() = %d, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if srv.IsRunning() {
		t.Error("server still running after Shutdown")
	}
}

func TestNATSLogger(t *testing.T) {
	var buf bytes.Buffer
	l := natsLogger{zerolog.New(&buf)}

	l.Noticef("Listening for client connections on %s", "127.0.0.1:4222")
	l.Fatalf("bind %d", 4222)

	out := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"message":"Listening for client connections on 127.0.0.1:4222"`,
		`"fatal":true`,
		`"message":"bind 4222"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestVerdictPublisher_NATS(t *testing.T) {
	srv := startEmbedded(t)
	logger := logging.NewWatermillAdapter("test")

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:         srv.ClientURL(),
		Unmarshaler: &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		t.Fatalf("NewSubscriber() error = %v", err)
	}
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	msgs, err := sub.Subscribe(ctx, DefaultVerdictTopic)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	natsPub, err := NewNATSPublisher(DefaultNATSConfig(srv.ClientURL()), logger)
	if err != nil {
		t.Fatalf("NewNATSPublisher() error = %v", err)
	}
	p, err := NewVerdictPublisher(natsPub, DefaultVerdictTopic, nil)
	if err != nil {
		t.Fatalf("NewVerdictPublisher() error = %v", err)
	}
	defer p.Close()

	// Core NATS has no persistence: republish until the subscription is live.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := p.Append(ctx, testRecord()); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		select {
		case msg := <-msgs:
			msg.Ack()
			rec, err := DecodeVerdict(msg)
			if err != nil {
				t.Fatalf("DecodeVerdict() error = %v", err)
			}
			if rec.SourceAddr != "10.0.0.9" {
				t.Errorf("received %+v", rec)
			}
			if msg.Metadata.Get(MetadataLabel) != "DoS" {
				t.Errorf("label metadata = %q", msg.Metadata.Get(MetadataLabel))
			}
			return
		case <-ticker.C:
		case <-ctx.Done():
			t.Fatal("no verdict received over NATS")
		}
	}
}
