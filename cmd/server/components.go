// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dgraph-io/badger/v4"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/rqaguard/internal/api"
	"github.com/tomtom215/rqaguard/internal/blocklist"
	"github.com/tomtom215/rqaguard/internal/classifier"
	"github.com/tomtom215/rqaguard/internal/config"
	"github.com/tomtom215/rqaguard/internal/database"
	"github.com/tomtom215/rqaguard/internal/eventprocessor"
	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/supervisor"
	"github.com/tomtom215/rqaguard/internal/supervisor/services"
)

// natsComponents holds the NATS server and client connection, if enabled.
type natsComponents struct {
	server *eventprocessor.EmbeddedServer
	conn   *natsgo.Conn
	url    string
}

// Close drains the client connection. The embedded server is stopped by its
// supervisor service.
func (n *natsComponents) Close() {
	if n == nil || n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		logging.Warn().Err(err).Msg("NATS drain failed")
	}
}

// initNATS starts the embedded server when configured and opens the shared
// client connection. It returns nil when NATS is disabled.
func initNATS(cfg *config.NATSConfig, tree *supervisor.SupervisorTree) (*natsComponents, error) {
	if !cfg.Enabled {
		logging.Info().Msg("NATS disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	nc := &natsComponents{url: cfg.URL}
	if cfg.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig()
		serverCfg.Port = cfg.EmbeddedPort
		srv, err := eventprocessor.NewEmbeddedServer(serverCfg)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS server: %w", err)
		}
		nc.server = srv
		nc.url = srv.ClientURL()
		tree.AddCaptureService(services.NewShutdownService("nats-server", srv, tree.Config().ShutdownTimeout))
		logging.Info().Str("url", nc.url).Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", nc.url).Msg("Using external NATS server")
	}

	conn, err := eventprocessor.Connect(eventprocessor.DefaultNATSConfig(nc.url), "rqaguard", logging.NewWatermillAdapter("nats"))
	if err != nil {
		return nil, err
	}
	nc.conn = conn
	return nc, nil
}

// newClassifier builds the ensemble backend and wraps it in a circuit
// breaker. The returned BreakerState is nil when no backend is configured.
func newClassifier(cfg *config.ClassifierConfig, nc *natsComponents) (classifier.Ensemble, api.BreakerState, error) {
	var backend classifier.Ensemble
	switch cfg.Backend {
	case config.ClassifierBackendHTTP:
		backend = classifier.NewHTTPEnsemble(classifier.HTTPConfig{URL: cfg.URL, Timeout: cfg.Timeout}, nil)
	case config.ClassifierBackendNATS:
		if nc == nil || nc.conn == nil {
			return nil, nil, errors.New("classifier backend nats requires NATS_ENABLED=true")
		}
		backend = classifier.NewNATSEnsemble(nc.conn, cfg.Subject, cfg.Timeout)
	case config.ClassifierBackendNone, "":
		logging.Warn().Msg("No classifier backend configured; verdicts use recurrence metrics only")
		return classifier.Unavailable{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}

	guard := classifier.NewGuard(backend, classifier.BreakerConfig{
		FailureThreshold: cfg.BreakerFailureThreshold,
		Timeout:          cfg.BreakerTimeout,
	})
	logging.Info().Str("backend", cfg.Backend).Msg("Classifier ensemble configured")
	return guard, guard, nil
}

// newRegistry opens the configured blocklist backend. The returned closer
// releases backend resources and is never nil.
func newRegistry(ctx context.Context, cfg *config.BlocklistConfig, db *database.DB) (blocklist.Registry, io.Closer, error) {
	var (
		reg    blocklist.Registry
		closer io.Closer = nopCloser{}
	)
	switch cfg.Backend {
	case config.BlocklistBackendMemory:
		reg = blocklist.NewMemoryRegistry()
	case config.BlocklistBackendSQL, "":
		sqlReg := blocklist.NewSQLRegistry(db.Conn())
		if err := sqlReg.InitSchema(ctx); err != nil {
			return nil, nil, err
		}
		reg = sqlReg
	case config.BlocklistBackendBadger:
		bdb, err := blocklist.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		reg = blocklist.NewBadgerRegistry(bdb)
		closer = badgerCloser{bdb}
	default:
		return nil, nil, fmt.Errorf("unknown blocklist backend %q", cfg.Backend)
	}

	if cfg.CacheSize > 0 {
		cached, err := blocklist.NewCachedRegistry(reg, cfg.CacheSize)
		if err != nil {
			closer.Close() //nolint:errcheck
			return nil, nil, err
		}
		reg = cached
	}
	logging.Info().Str("backend", cfg.Backend).Int("cache_size", cfg.CacheSize).Msg("Blocklist ready")
	return reg, closer, nil
}

// verdictBus is the verdict publisher and the subscriber the live feed
// reads the same topic from.
type verdictBus struct {
	publisher  *eventprocessor.VerdictPublisher
	subscriber message.Subscriber
}

// Close closes both ends. The in-process channel is shared by both and
// tolerates a second Close.
func (b *verdictBus) Close() error {
	if b == nil {
		return nil
	}
	return errors.Join(b.publisher.Close(), b.subscriber.Close())
}

// newVerdictBus publishes verdicts over NATS when it is enabled and over an
// in-process channel otherwise. Either way the live feed subscribes to the
// topic, so the bus always has a consumer. It returns nil when publishing
// is off.
func newVerdictBus(cfg *config.NATSConfig, nc *natsComponents) (*verdictBus, error) {
	if !cfg.PublishVerdicts {
		return nil, nil
	}
	logger := logging.NewWatermillAdapter("verdict-bus")

	var (
		pub message.Publisher
		sub message.Subscriber
	)
	if nc != nil {
		natsCfg := eventprocessor.DefaultNATSConfig(nc.url)
		var err error
		if pub, err = eventprocessor.NewNATSPublisher(natsCfg, logger); err != nil {
			return nil, err
		}
		if sub, err = eventprocessor.NewNATSSubscriber(natsCfg, logger); err != nil {
			pub.Close() //nolint:errcheck
			return nil, err
		}
	} else {
		pubsub := eventprocessor.NewGoChannel(logger)
		pub, sub = pubsub, pubsub
	}

	breaker := eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig())
	publisher, err := eventprocessor.NewVerdictPublisher(pub, cfg.VerdictTopic, breaker)
	if err != nil {
		return nil, errors.Join(err, pub.Close(), sub.Close())
	}
	return &verdictBus{publisher: publisher, subscriber: sub}, nil
}

// relay feeds sink from the bus topic.
func (b *verdictBus) relay(name string, sink eventprocessor.RecordSink) (*eventprocessor.VerdictRelay, error) {
	return eventprocessor.NewVerdictRelay(b.subscriber, b.publisher.Topic(), name, sink)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type badgerCloser struct{ db *badger.DB }

func (b badgerCloser) Close() error { return b.db.Close() }
