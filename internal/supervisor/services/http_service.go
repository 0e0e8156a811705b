// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/rqaguard/internal/logging"
)

// HTTPServer is satisfied by *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
}

// HTTPServerService serves HTTP until its context ends. Shutdown drains
// in-flight requests for up to the shutdown timeout; connections still
// open after that are closed forcibly.
//
//	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
type HTTPServerService struct {
	server  HTTPServer
	timeout time.Duration
}

// NewHTTPServerService wraps server. A non-positive timeout means 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{server: server, timeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	served := make(chan error, 1)
	go func() { served <- h.server.ListenAndServe() }()

	select {
	case err := <-served:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	if err := h.drain(); err != nil {
		return err
	}
	<-served
	return ctx.Err()
}

// drain runs Shutdown on a fresh context, since the service context is
// already done, and falls back to Close.
func (h *HTTPServerService) drain() error {
	sctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	err := h.server.Shutdown(sctx)
	if err == nil {
		return nil
	}
	logging.Warn().Err(err).Dur("timeout", h.timeout).Msg("HTTP drain incomplete, closing connections")
	if cerr := h.server.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return fmt.Errorf("http server shutdown failed: %w", err)
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
