// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/models"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// respondJSON writes data in the success envelope. start is when handling
// began and feeds query_time_ms.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	writeJSON(w, r, status, &models.APIResponse{
		Status: statusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError writes apiErr in the error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	writeJSON(w, r, status, &models.APIResponse{
		Status:   statusError,
		Error:    apiErr,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

func respondErrorMessage(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondError(w, r, status, &models.APIError{Code: code, Message: message})
}

// respondDatabaseError logs err and hides its text from the client.
func respondDatabaseError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Store query failed")
	respondErrorMessage(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "A database error occurred")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to encode JSON response")
	}
}
