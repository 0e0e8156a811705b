// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/rqaguard/internal/models"
	ws "github.com/tomtom215/rqaguard/internal/websocket"
)

// Health status values.
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

const healthPingTimeout = 2 * time.Second

// Health reports service status. It answers 200 while degraded because
// detection keeps running without the database or the classifier.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := models.HealthStatus{
		Status:          HealthHealthy,
		Version:         h.version,
		ClassifierState: "disabled",
		Uptime:          time.Since(h.startTime).Seconds(),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		status.DatabaseConnected = h.store.Ping(ctx) == nil
		cancel()
		if !status.DatabaseConnected {
			status.Status = HealthDegraded
		}
	}
	if h.queue != nil {
		status.QueueDepth = h.queue.Len()
		status.QueueDropped = int64(h.queue.Dropped())
	}
	if h.classifier != nil {
		status.ClassifierState = h.classifier.State()
		if status.ClassifierState == "open" {
			status.Status = HealthDegraded
		}
	}

	respondJSON(w, r, http.StatusOK, status, start)
}

// WebSocket upgrades the connection and subscribes it to the verdict feed.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondErrorMessage(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Live feed is disabled")
		return
	}
	ws.ServeWS(h.hub, w, r)
}
