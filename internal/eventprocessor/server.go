// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/rqaguard/internal/logging"
)

const serverReadyTimeout = 10 * time.Second

// EmbeddedServer is an in-process core NATS server carrying capture events,
// classifier requests and verdicts when no external broker is configured.
type EmbeddedServer struct {
	ns *server.Server
}

// NewEmbeddedServer starts the server and blocks until it accepts
// connections. Server logs go to the global logger under component
// "nats-server"; debug output follows the global level.
func NewEmbeddedServer(cfg ServerConfig) (*EmbeddedServer, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: "rqaguard",
		Host:       cfg.Host,
		Port:       cfg.Port,
		MaxPayload: cfg.MaxPayload,
		NoSigs:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	debug := zerolog.GlobalLevel() <= zerolog.DebugLevel
	ns.SetLoggerV2(natsLogger{logging.WithComponent("nats-server")}, debug, false, false)

	go ns.Start()
	if !ns.ReadyForConnections(serverReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("%w after %s on %s:%d", ErrServerNotReady, serverReadyTimeout, cfg.Host, cfg.Port)
	}
	return &EmbeddedServer{ns: ns}, nil
}

func (s *EmbeddedServer) ClientURL() string { return s.ns.ClientURL() }

// IsRunning lets the supervisor's shutdown service skip a stopped server.
func (s *EmbeddedServer) IsRunning() bool { return s.ns.Running() }

// NumClients reports live client connections.
func (s *EmbeddedServer) NumClients() int { return s.ns.NumClients() }

// Shutdown stops the server. Waiting for it to finish is bounded by ctx.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.ns.Shutdown()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.ns.WaitForShutdown()
	}()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("NATS server shutdown: %w", ctx.Err())
	}
}

// natsLogger implements server.Logger on zerolog. Notices are info.
type natsLogger struct {
	l zerolog.Logger
}

func (n natsLogger) Noticef(format string, v ...any) { n.l.Info().Msgf(format, v...) }
func (n natsLogger) Warnf(format string, v ...any)   { n.l.Warn().Msgf(format, v...) }
func (n natsLogger) Errorf(format string, v ...any)  { n.l.Error().Msgf(format, v...) }
func (n natsLogger) Debugf(format string, v ...any)  { n.l.Debug().Msgf(format, v...) }
func (n natsLogger) Tracef(format string, v ...any)  { n.l.Trace().Msgf(format, v...) }

// Fatalf logs at error level. The server shuts itself down after a fatal
// condition and exiting the process here would skip supervisor cleanup.
func (n natsLogger) Fatalf(format string, v ...any) { n.l.Error().Bool("fatal", true).Msgf(format, v...) }
