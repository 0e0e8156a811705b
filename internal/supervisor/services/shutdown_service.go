// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// Shutdowner is a component that is already running and stops on Shutdown.
// *eventprocessor.EmbeddedServer satisfies it.
type Shutdowner interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// ShutdownService ties a running component's lifetime to the supervisor.
// It cannot restart the component, so a component found stopped ends the
// service with suture.ErrDoNotRestart.
type ShutdownService struct {
	component       Shutdowner
	name            string
	shutdownTimeout time.Duration
}

// NewShutdownService wraps component. A non-positive timeout means 10s.
func NewShutdownService(name string, component Shutdowner, shutdownTimeout time.Duration) *ShutdownService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &ShutdownService{component: component, name: name, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *ShutdownService) Serve(ctx context.Context) error {
	if !s.component.IsRunning() {
		return fmt.Errorf("%s is not running: %w", s.name, suture.ErrDoNotRestart)
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.component.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown failed: %w", s.name, err)
	}
	return ctx.Err()
}

func (s *ShutdownService) String() string {
	return s.name
}
