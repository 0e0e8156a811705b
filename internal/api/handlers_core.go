// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/rqaguard/internal/blocklist"
	"github.com/tomtom215/rqaguard/internal/database"
	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/models"
	"github.com/tomtom215/rqaguard/internal/validation"
)

// Stats source values.
const (
	StatsSourceDatabase = "database"
	StatsSourceMemory   = "memory"
)

// StatsResponse is the /stats payload.
type StatsResponse struct {
	models.Stats
	// BlockedEntities is the registry size; Blocked counts log records.
	BlockedEntities int    `json:"blocked_entities"`
	Source          string `json:"source"`
}

// Stats serves persisted traffic statistics, falling back to the
// in-memory totals when the store is missing or failing.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	resp := StatsResponse{Source: StatsSourceMemory}
	if h.store != nil {
		s, err := h.store.Stats(ctx)
		if err == nil {
			resp.Stats = s
			resp.Source = StatsSourceDatabase
		} else {
			logging.Ctx(ctx).Warn().Err(err).Msg("Stats query failed, serving in-memory totals")
		}
	}
	if resp.Source == StatsSourceMemory {
		if h.live == nil {
			respondErrorMessage(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Statistics unavailable")
			return
		}
		resp.Stats = h.live.Stats()
	}

	entities, err := h.registry.List(ctx)
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	resp.BlockedEntities = len(entities)

	respondJSON(w, r, http.StatusOK, resp, start)
}

// Blocked lists every blocked source.
func (h *Handler) Blocked(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entities, err := h.registry.List(r.Context())
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, entities, start)
}

// BlockedEntity returns the entry for {addr} or 404.
func (h *Handler) BlockedEntity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	addr := chi.URLParam(r, "addr")

	blocked, err := h.registry.IsBlocked(r.Context(), addr)
	if errors.Is(err, blocklist.ErrInvalidAddress) {
		respondErrorMessage(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Address is required")
		return
	}
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	if !blocked {
		respondErrorMessage(w, r, http.StatusNotFound, ErrCodeNotFound, "Address is not blocked")
		return
	}

	entities, err := h.registry.List(r.Context())
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	for i := range entities {
		if entities[i].Address == addr {
			respondJSON(w, r, http.StatusOK, entities[i], start)
			return
		}
	}
	// Blocked but not listed yet: answer from IsBlocked alone.
	respondJSON(w, r, http.StatusOK, models.BlockedEntity{Address: addr}, start)
}

// LogsRequest holds the /logs query parameters.
type LogsRequest struct {
	Limit         int    `json:"limit" validate:"gte=0,lte=1000"`
	MaliciousOnly bool   `json:"malicious"`
	Source        string `json:"source" validate:"omitempty,source"`
	Since         string `json:"since" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// Filter converts the request to a store filter. The request must be valid.
func (req *LogsRequest) Filter() database.LogFilter {
	f := database.LogFilter{
		Limit:         req.Limit,
		MaliciousOnly: req.MaliciousOnly,
		Source:        req.Source,
	}
	if req.Since != "" {
		// Validated as RFC3339 above.
		f.Since, _ = time.Parse(time.RFC3339, req.Since)
	}
	return f
}

// Logs serves recent traffic log records, newest first.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.store == nil {
		respondErrorMessage(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Traffic log store is not configured")
		return
	}

	q := r.URL.Query()
	req := LogsRequest{
		Source: q.Get("source"),
		Since:  q.Get("since"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondErrorMessage(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer")
			return
		}
		req.Limit = n
	}
	if v := q.Get("malicious"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondErrorMessage(w, r, http.StatusBadRequest, ErrCodeValidation, "malicious must be a boolean")
			return
		}
		req.MaliciousOnly = b
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	records, err := h.store.RecentLogs(r.Context(), req.Filter())
	if err != nil {
		respondDatabaseError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, records, start)
}
