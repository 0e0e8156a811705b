// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package models defines the data types shared between capture, the detection
// pipeline, storage backends, and the HTTP API.
//
// Observation is the unit of work flowing from a packet source into the
// pipeline. LogRecord is what the pipeline emits per observation. BlockedEntity
// is the row kept by the block registry. Stats summarises processed traffic.
//
// All types use JSON tags compatible with goccy/go-json.
package models
