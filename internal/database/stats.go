// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"context"
	"time"

	"github.com/tomtom215/rqaguard/internal/models"
)

// COUNT(*) FILTER returns BIGINT on both engines; SUM over booleans does not.
const (
	trafficTotalsSQL = `SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE simulated),
	COUNT(*) FILTER (WHERE malicious),
	COUNT(*) FILTER (WHERE blocked),
	COUNT(*) FILTER (WHERE degraded)
FROM traffic_logs`
	threatDistributionSQL = "SELECT threat_level, COUNT(*) FROM traffic_logs GROUP BY threat_level"
	labelDistributionSQL  = "SELECT label, COUNT(*) FROM traffic_logs GROUP BY label"
)

// Stats aggregates the persisted traffic log. Captured is derived as
// Total minus Simulated.
func (db *DB) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, trafficTotalsSQL).
		Scan(&s.Total, &s.Simulated, &s.Malicious, &s.Blocked, &s.Degraded)
	if err = observe("SELECT", trafficTable, start, err); err != nil {
		return models.Stats{}, err
	}
	s.Captured = s.Total - s.Simulated
	s.ComputeDetectionRate()

	if s.ThreatDistribution, err = db.distribution(ctx, threatDistributionSQL); err != nil {
		return models.Stats{}, err
	}
	if s.LabelDistribution, err = db.distribution(ctx, labelDistributionSQL); err != nil {
		return models.Stats{}, err
	}
	return s, nil
}

func (db *DB) distribution(ctx context.Context, query string) (map[string]int64, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	if err = observe("SELECT", trafficTable, start, err); err != nil {
		return nil, err
	}
	defer closeRows(rows)

	dist := make(map[string]int64)
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, &OpError{Op: "SCAN", Table: trafficTable, Err: err}
		}
		dist[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, &OpError{Op: "SELECT", Table: trafficTable, Err: err}
	}
	return dist, nil
}
