// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/rqaguard/internal/api"
	"github.com/tomtom215/rqaguard/internal/capture"
	"github.com/tomtom215/rqaguard/internal/config"
	"github.com/tomtom215/rqaguard/internal/database"
	"github.com/tomtom215/rqaguard/internal/detection"
	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/pipeline"
	"github.com/tomtom215/rqaguard/internal/rqa"
	"github.com/tomtom215/rqaguard/internal/simulate"
	"github.com/tomtom215/rqaguard/internal/supervisor"
	"github.com/tomtom215/rqaguard/internal/supervisor/services"
	ws "github.com/tomtom215/rqaguard/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Caller:      cfg.Logging.Caller,
		Timestamp:   true,
		DebugSample: cfg.Logging.DebugSample,
	})
	logging.Info().Str("version", version).Msg("Starting RQAGuard with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	nc, err := initNATS(&cfg.NATS, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}
	defer nc.Close()

	ensemble, breaker, err := newClassifier(&cfg.Classifier, nc)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize classifier")
	}

	registry, registryCloser, err := newRegistry(ctx, &cfg.Blocklist, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize blocklist")
	}
	defer func() {
		if err := registryCloser.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing blocklist")
		}
	}()

	hub := ws.NewHub()
	sinks := pipeline.NewMultiSink().Add("database", db)

	bus, err := newVerdictBus(&cfg.NATS, nc)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize verdict bus")
	}
	if bus != nil {
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing verdict bus")
			}
		}()
		publisher := pipeline.NewAsyncSink("publisher", bus.publisher, cfg.Pipeline.SinkBuffer)
		sinks.Add(publisher.Name(), publisher)
		tree.AddDetectionService(services.NewRunnerService("verdict-publisher", publisher))

		// The live feed reads the bus instead of the pipeline.
		relay, err := bus.relay("websocket", hub)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize verdict relay")
		}
		tree.AddDetectionService(services.NewRunnerService("verdict-relay", relay))
		logging.Info().Str("topic", relay.Topic()).Msg("Verdict publishing enabled")
	} else {
		sinks.Add("websocket", hub)
	}

	if cfg.Alert.WebhookURL != "" {
		notifier, err := detection.NewWebhookNotifier(detection.WebhookConfig{
			URL:           cfg.Alert.WebhookURL,
			RatePerSecond: cfg.Alert.RatePerSecond,
			Burst:         cfg.Alert.Burst,
			Timeout:       cfg.Alert.Timeout,
		}, nil)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize alert webhook")
		}
		alerts := pipeline.NewAsyncSink(notifier.Name(), notifier, cfg.Pipeline.SinkBuffer)
		sinks.Add(alerts.Name(), alerts)
		tree.AddDetectionService(services.NewRunnerService("alert-webhook", alerts))
		logging.Info().Float64("rate_per_second", cfg.Alert.RatePerSecond).Msg("Alert webhook enabled")
	}

	pipe, err := pipeline.New(pipeline.Deps{
		Analyzer: rqa.New(rqa.Config{
			WindowSize: cfg.Analyzer.WindowSize,
			Epsilon:    cfg.Analyzer.Epsilon,
		}),
		Engine: detection.NewEngine(detection.Thresholds{
			CriticalDET:    cfg.Fusion.CriticalDET,
			HighConfidence: cfg.Fusion.HighConfidence,
		}),
		Ensemble: ensemble,
		Registry: registry,
		Sink:     sinks,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create pipeline")
	}
	logging.Info().Strs("sinks", sinks.Names()).Msg("Detection pipeline ready")

	queue := capture.NewQueue(cfg.Queue.Capacity)

	consumerCfg := pipeline.ConsumerConfig{
		PollInterval:   cfg.Pipeline.PollInterval,
		BatchSize:      cfg.Pipeline.BatchSize,
		SimulationRate: cfg.Simulation.RatePerSecond,
	}
	if cfg.Simulation.Enabled {
		consumerCfg.Generator = simulate.New(simulate.Config{
			MaliciousRatio: cfg.Simulation.MaliciousRatio,
			Seed:           cfg.Simulation.Seed,
		})
		logging.Info().Float64("rate_per_second", cfg.Simulation.RatePerSecond).Msg("Simulation fallback enabled")
	}
	consumer, err := pipeline.NewConsumer(pipe, queue, consumerCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create consumer")
	}

	if cfg.Capture.Enabled {
		if nc == nil {
			logging.Warn().Msg("Capture enabled but NATS is disabled; packet feed not started")
		} else {
			producer := capture.NewNATSProducer(nc.conn, cfg.Capture.Subject)
			tree.AddCaptureService(capture.NewFeed(producer, queue, cfg.Capture.StopTimeout))
			logging.Info().Str("subject", cfg.Capture.Subject).Msg("Packet feed added to supervisor tree")
		}
	}

	tree.AddDetectionService(services.NewRunnerService("pipeline-consumer", consumer))
	tree.AddDetectionService(services.NewRunnerService("websocket-hub", hub))

	deps := api.Deps{
		Store:    db,
		Live:     pipe,
		Registry: registry,
		Queue:    queue,
		Hub:      hub,
		Version:  version,
	}
	if breaker != nil {
		deps.Classifier = breaker
	}
	handler := api.NewHandler(deps)
	router := api.NewRouter(handler, api.MiddlewareConfigFromServer(&cfg.Server))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	layers := tree.Services()
	logging.Info().
		Strs("capture", layers[supervisor.LayerCapture]).
		Strs("detection", layers[supervisor.LayerDetection]).
		Strs("api", layers[supervisor.LayerAPI]).
		Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// The channel delivers exactly one value, when the root supervisor returns.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		stop()
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	captured, simulated := consumer.Processed()
	logging.Info().
		Uint64("captured", captured).
		Uint64("simulated", simulated).
		Msg("Application stopped gracefully")
}
