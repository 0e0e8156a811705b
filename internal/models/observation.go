// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package models

import (
	"time"
)

// Protocol tags used on observations.
const (
	ProtocolTCP   = "tcp"
	ProtocolUDP   = "udp"
	ProtocolICMP  = "icmp"
	ProtocolOther = "other"
)

// Observation source names used in logs, metrics and statistics.
const (
	SourceCaptured  = "captured"
	SourceSimulated = "simulated"
)

// Observation is one captured or synthesized traffic event.
//
// Bytes is the scalar fed to the recurrence analyzer. Features holds the
// auxiliary numeric fields keyed by feature schema name; missing keys encode
// as zero. RR and DET are attached by the pipeline after the window update.
type Observation struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	SourceAddr string             `json:"src_ip"`
	DestAddr   string             `json:"dst_ip"`
	Protocol   string             `json:"protocol"`
	Service    string             `json:"service"`
	Flag       string             `json:"flag"`
	Bytes      float64            `json:"bytes"`
	Features   map[string]float64 `json:"features,omitempty"`

	// Simulated marks observations produced by the synthetic generator.
	// They are counted and logged separately from captured traffic.
	Simulated bool `json:"simulated"`

	RR  float64 `json:"rqa_rr"`
	DET float64 `json:"rqa_det"`
}

// Source returns SourceSimulated or SourceCaptured.
func (o *Observation) Source() string {
	if o.Simulated {
		return SourceSimulated
	}
	return SourceCaptured
}
