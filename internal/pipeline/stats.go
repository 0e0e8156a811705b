// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package pipeline

import (
	"maps"
	"sync"

	"github.com/tomtom215/rqaguard/internal/models"
)

// StatsTracker accumulates statistics for records processed since start.
// The persisted totals come from the traffic log store; this view stays
// available when the database is down.
type StatsTracker struct {
	mu    sync.Mutex
	stats models.Stats
}

// NewStatsTracker returns an empty tracker.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{stats: models.Stats{
		ThreatDistribution: make(map[string]int64),
		LabelDistribution:  make(map[string]int64),
	}}
}

// Record adds rec to the totals.
func (t *StatsTracker) Record(rec *models.LogRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := &t.stats
	s.Total++
	if rec.Simulated {
		s.Simulated++
	} else {
		s.Captured++
	}
	if rec.Malicious {
		s.Malicious++
	}
	if rec.Blocked {
		s.Blocked++
	}
	if rec.Degraded {
		s.Degraded++
	}
	s.ThreatDistribution[rec.ThreatLevel]++
	s.LabelDistribution[rec.Label]++
}

// Snapshot returns a copy of the current totals with the detection rate set.
func (t *StatsTracker) Snapshot() models.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats
	s.ThreatDistribution = maps.Clone(t.stats.ThreatDistribution)
	s.LabelDistribution = maps.Clone(t.stats.LabelDistribution)
	s.ComputeDetectionRate()
	return s
}
