// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package models

import (
	"time"
)

// LogRecord is the per-observation record emitted to log sinks.
// It carries the observation summary, the fused verdict, both classifier
// verdicts, the recurrence metrics and whether the source ended up blocked.
type LogRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	SourceAddr  string    `json:"src_ip"`
	DestAddr    string    `json:"dst_ip"`
	Protocol    string    `json:"protocol"`
	Service     string    `json:"service"`
	Bytes       float64   `json:"bytes"`
	Label       string    `json:"prediction"`
	Malicious   bool      `json:"is_malicious"`
	Confidence  float64   `json:"confidence"`
	ThreatLevel string    `json:"threat_level"`
	Rule        string    `json:"rule"`

	PrimaryLabel        string  `json:"primary_label"`
	PrimaryConfidence   float64 `json:"primary_confidence"`
	SecondaryLabel      string  `json:"secondary_label"`
	SecondaryConfidence float64 `json:"secondary_confidence"`

	RR  float64 `json:"rqa_rr"`
	DET float64 `json:"rqa_det"`

	Blocked   bool `json:"is_blocked"`
	Simulated bool `json:"simulated"`

	// Degraded is set when the classifier ensemble was unavailable and the
	// verdict came from the structural-only path.
	Degraded bool `json:"degraded"`
}

// BlockedEntity is a blocked source address. The first reason recorded for an
// address is kept for the lifetime of the registry.
type BlockedEntity struct {
	Address   string    `json:"address"`
	BlockedAt time.Time `json:"blocked_at"`
	Reason    string    `json:"reason"`
}
