// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/rqaguard/internal/logging"
)

// RequestIDHeader is read from incoming requests and set on every response.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds propagated IDs; longer values are replaced.
const maxRequestIDLength = 128

// RequestID attaches a request ID to the response header and the request
// context. An upstream X-Request-ID is kept when it is reasonably short.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
