// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package validation validates API request structs with
// go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Field names in error messages
// are taken from json tags so they match what clients sent.
//
// Custom tags:
//
//   - protocol: one of tcp, udp, icmp, other (case-sensitive)
//   - source: captured or simulated
//
// Example:
//
//	type LogsRequest struct {
//	    Limit  int    `json:"limit" validate:"min=0,max=1000"`
//	    Source string `json:"source" validate:"omitempty,source"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondError(w, r, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
package validation
