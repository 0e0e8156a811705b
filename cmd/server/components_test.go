// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/rqaguard/internal/blocklist"
	"github.com/tomtom215/rqaguard/internal/classifier"
	"github.com/tomtom215/rqaguard/internal/config"
	"github.com/tomtom215/rqaguard/internal/database"
	"github.com/tomtom215/rqaguard/internal/features"
	"github.com/tomtom215/rqaguard/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Driver: config.DriverDuckDB, MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewClassifier(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.ClassifierConfig
		wantErr     bool
		wantBreaker bool
	}{
		{name: "none", cfg: config.ClassifierConfig{Backend: config.ClassifierBackendNone}},
		{name: "empty", cfg: config.ClassifierConfig{}},
		{name: "http", cfg: config.ClassifierConfig{Backend: config.ClassifierBackendHTTP, URL: "http://127.0.0.1:1/score"}, wantBreaker: true},
		{name: "nats without connection", cfg: config.ClassifierConfig{Backend: config.ClassifierBackendNATS}, wantErr: true},
		{name: "unknown", cfg: config.ClassifierConfig{Backend: "grpc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ens, breaker, err := newClassifier(&tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newClassifier() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (breaker != nil) != tt.wantBreaker {
				t.Errorf("breaker = %v, want present=%v", breaker, tt.wantBreaker)
			}
			if breaker != nil && breaker.State() != "closed" {
				t.Errorf("State() = %q, want closed", breaker.State())
			}
			if !tt.wantBreaker {
				if _, err := ens.Score(context.Background(), features.Vector{}); !errors.Is(err, classifier.ErrModelUnavailable) {
					t.Errorf("Score() error = %v, want ErrModelUnavailable", err)
				}
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	tests := []struct {
		name    string
		cfg     config.BlocklistConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.BlocklistConfig{Backend: config.BlocklistBackendMemory}},
		{name: "sql cached", cfg: config.BlocklistConfig{Backend: config.BlocklistBackendSQL, CacheSize: 16}},
		{name: "badger in memory", cfg: config.BlocklistConfig{Backend: config.BlocklistBackendBadger}},
		{name: "unknown", cfg: config.BlocklistConfig{Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, closer, err := newRegistry(ctx, &tt.cfg, db)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer closer.Close()

			addr := "10.1.1." + tt.name[:1]
			inserted, err := reg.Block(ctx, addr, "DoS")
			if err != nil || !inserted {
				t.Fatalf("Block() = %v, %v; want true, nil", inserted, err)
			}
			inserted, err = reg.Block(ctx, addr, "Probe")
			if err != nil || inserted {
				t.Errorf("second Block() = %v, %v; want false, nil", inserted, err)
			}
			if blocked, _ := reg.IsBlocked(ctx, addr); !blocked {
				t.Error("IsBlocked() = false, want true")
			}
		})
	}
}

func TestNewRegistry_CacheWrapsBackend(t *testing.T) {
	cfg := config.BlocklistConfig{Backend: config.BlocklistBackendMemory, CacheSize: 8}
	reg, closer, err := newRegistry(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("newRegistry() error = %v", err)
	}
	defer closer.Close()
	if _, ok := reg.(*blocklist.CachedRegistry); !ok {
		t.Errorf("registry type = %T, want *blocklist.CachedRegistry", reg)
	}
}

// recordingSink keeps every relayed record.
type recordingSink struct {
	mu      sync.Mutex
	records []models.LogRecord
}

func (s *recordingSink) Append(_ context.Context, rec models.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingSink) first() (models.LogRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return models.LogRecord{}, false
	}
	return s.records[0], true
}

func TestNewVerdictBus_Disabled(t *testing.T) {
	bus, err := newVerdictBus(&config.NATSConfig{PublishVerdicts: false}, nil)
	if err != nil || bus != nil {
		t.Errorf("newVerdictBus() = %v, %v; want nil, nil", bus, err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("nil bus Close() = %v", err)
	}
}

// Without NATS the default config publishes to the in-process channel; the
// live feed relay must be its consumer.
func TestNewVerdictBus_InProcessFeedsRelay(t *testing.T) {
	cfg := config.NATSConfig{Enabled: false, PublishVerdicts: true, VerdictTopic: "test.verdicts"}
	bus, err := newVerdictBus(&cfg, nil)
	if err != nil {
		t.Fatalf("newVerdictBus() error = %v", err)
	}
	defer bus.Close()
	if bus.publisher.Topic() != "test.verdicts" {
		t.Errorf("Topic() = %q, want test.verdicts", bus.publisher.Topic())
	}

	feed := &recordingSink{}
	relay, err := bus.relay("websocket", feed)
	if err != nil {
		t.Fatalf("relay() error = %v", err)
	}
	if relay.Topic() != "test.verdicts" {
		t.Errorf("relay Topic() = %q, want test.verdicts", relay.Topic())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- relay.RunWithContext(ctx) }()

	// The channel is not persistent; publish until the relay has subscribed.
	rec := models.LogRecord{ID: "r1", Label: "DoS", Malicious: true}
	for {
		if err := bus.publisher.Append(ctx, rec); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if got, ok := feed.first(); ok {
			if got.ID != "r1" || got.Label != "DoS" || !got.Malicious {
				t.Errorf("relayed %+v", got)
			}
			break
		}
		select {
		case <-ctx.Done():
			t.Fatal("published verdict never reached the relay sink")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunWithContext() = %v, want context.Canceled", err)
	}
}

func TestInitNATS_Disabled(t *testing.T) {
	nc, err := initNATS(&config.NATSConfig{Enabled: false}, nil)
	if err != nil || nc != nil {
		t.Errorf("initNATS() = %v, %v; want nil, nil", nc, err)
	}
	nc.Close()
}
