// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package api

import (
	"context"
	"time"

	"github.com/tomtom215/rqaguard/internal/blocklist"
	"github.com/tomtom215/rqaguard/internal/capture"
	"github.com/tomtom215/rqaguard/internal/database"
	"github.com/tomtom215/rqaguard/internal/models"
	ws "github.com/tomtom215/rqaguard/internal/websocket"
)

// TrafficStore is the persisted traffic log. *database.DB implements it.
type TrafficStore interface {
	Stats(ctx context.Context) (models.Stats, error)
	RecentLogs(ctx context.Context, filter database.LogFilter) ([]models.LogRecord, error)
	Ping(ctx context.Context) error
}

// LiveStats reports in-memory totals. *pipeline.Pipeline implements it.
type LiveStats interface {
	Stats() models.Stats
}

// IngestQueue is the capture queue seen by the ingest endpoint.
type IngestQueue interface {
	capture.Offerer
	Len() int
	Dropped() uint64
}

// BreakerState reports the classifier circuit breaker state.
type BreakerState interface {
	State() string
}

// Deps are the collaborators of Handler. Registry is required. A nil Store
// serves statistics from Live and disables /logs. A nil Queue disables
// ingest and a nil Hub disables the websocket feed.
type Deps struct {
	Store      TrafficStore
	Live       LiveStats
	Registry   blocklist.Registry
	Queue      IngestQueue
	Hub        *ws.Hub
	Classifier BreakerState
	Version    string
}

// Handler holds the API endpoint implementations.
type Handler struct {
	store      TrafficStore
	live       LiveStats
	registry   blocklist.Registry
	queue      IngestQueue
	hub        *ws.Hub
	classifier BreakerState
	version    string
	startTime  time.Time
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	if d.Version == "" {
		d.Version = "dev"
	}
	return &Handler{
		store:      d.Store,
		live:       d.Live,
		registry:   d.Registry,
		queue:      d.Queue,
		hub:        d.Hub,
		classifier: d.Classifier,
		version:    d.Version,
		startTime:  time.Now(),
	}
}
