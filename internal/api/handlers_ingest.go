// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
	"github.com/tomtom215/rqaguard/internal/validation"
)

const (
	// maxIngestBody bounds the request body.
	maxIngestBody = 1 << 20
	// MaxIngestBatch bounds observations per request.
	MaxIngestBatch = 500
)

// ObservationInput is one ingested observation.
type ObservationInput struct {
	Timestamp  *time.Time         `json:"timestamp"`
	SourceAddr string             `json:"src_ip" validate:"required,ip"`
	DestAddr   string             `json:"dst_ip" validate:"omitempty,ip"`
	Protocol   string             `json:"protocol" validate:"omitempty,protocol"`
	Service    string             `json:"service" validate:"max=32"`
	Flag       string             `json:"flag" validate:"max=8"`
	Bytes      float64            `json:"bytes" validate:"gte=0"`
	Features   map[string]float64 `json:"features" validate:"max=64"`
}

// IngestRequest is the POST /observations body.
type IngestRequest struct {
	Observations []ObservationInput `json:"observations" validate:"required,min=1,max=500,dive"`
}

// IngestResponse reports how the batch was queued.
type IngestResponse struct {
	Accepted int `json:"accepted"`
	// Dropped counts older queued observations evicted to make room.
	Dropped    int `json:"dropped"`
	QueueDepth int `json:"queue_depth"`
}

func (in *ObservationInput) observation(now time.Time) models.Observation {
	ts := now
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		ts = in.Timestamp.UTC()
	}
	proto := in.Protocol
	if proto == "" {
		proto = models.ProtocolOther
	}
	return models.Observation{
		ID:         uuid.NewString(),
		Timestamp:  ts,
		SourceAddr: in.SourceAddr,
		DestAddr:   in.DestAddr,
		Protocol:   proto,
		Service:    strings.ToLower(in.Service),
		Flag:       strings.ToUpper(in.Flag),
		Bytes:      in.Bytes,
		Features:   in.Features,
	}
}

// IngestObservations validates a batch and offers it to the capture queue.
// The queue never blocks; a full queue evicts its oldest entries.
func (h *Handler) IngestObservations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.queue == nil {
		respondErrorMessage(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Ingest is disabled")
		return
	}

	var req IngestRequest
	body := http.MaxBytesReader(w, r.Body, maxIngestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondErrorMessage(w, r, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
			return
		}
		respondErrorMessage(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		for range req.Observations {
			metrics.RecordCaptureEvent(false)
		}
		respondError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	now := time.Now().UTC()
	resp := IngestResponse{Accepted: len(req.Observations)}
	for i := range req.Observations {
		if h.queue.Offer(req.Observations[i].observation(now)) {
			resp.Dropped++
		}
		metrics.RecordCaptureEvent(true)
	}
	resp.QueueDepth = h.queue.Len()

	logging.Ctx(r.Context()).Debug().
		Int("accepted", resp.Accepted).
		Int("dropped", resp.Dropped).
		Msg("Observations ingested")
	respondJSON(w, r, http.StatusAccepted, resp, start)
}
