// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/rqaguard/internal/models"
)

const (
	// DefaultRecentLimit is used when LogFilter.Limit is not set.
	DefaultRecentLimit = 50
	// MaxRecentLimit caps a single RecentLogs page.
	MaxRecentLimit = 1000
)

const trafficColumns = "id, ts, src_addr, dst_addr, protocol, service, byte_size, " +
	"label, malicious, confidence, threat_level, fusion_rule, " +
	"primary_label, primary_confidence, secondary_label, secondary_confidence, " +
	"rr, det, blocked, simulated, degraded"

const insertTrafficSQL = "INSERT INTO traffic_logs (" + trafficColumns + ") VALUES " +
	"($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)"

// LogFilter narrows RecentLogs.
type LogFilter struct {
	Limit         int
	MaliciousOnly bool
	// Source is "captured", "simulated" or empty for both.
	Source string
	Since  time.Time
}

// Append writes one traffic log row. A missing ID or timestamp is filled in.
// Append implements the pipeline log sink.
func (db *DB) Append(ctx context.Context, rec models.LogRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, insertTrafficSQL,
		rec.ID, rec.Timestamp, rec.SourceAddr, rec.DestAddr, rec.Protocol, rec.Service, rec.Bytes,
		rec.Label, rec.Malicious, rec.Confidence, rec.ThreatLevel, rec.Rule,
		rec.PrimaryLabel, rec.PrimaryConfidence, rec.SecondaryLabel, rec.SecondaryConfidence,
		rec.RR, rec.DET, rec.Blocked, rec.Simulated, rec.Degraded,
	)
	return observe("INSERT", trafficTable, start, err)
}

// RecentLogs returns the newest traffic log rows matching filter, newest first.
func (db *DB) RecentLogs(ctx context.Context, filter LogFilter) ([]models.LogRecord, error) {
	query, args := buildRecentLogsQuery(filter)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err = observe("SELECT", trafficTable, start, err); err != nil {
		return nil, err
	}
	defer closeRows(rows)

	records := make([]models.LogRecord, 0)
	for rows.Next() {
		rec, err := scanLogRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &OpError{Op: "SELECT", Table: trafficTable, Err: err}
	}
	return records, nil
}

// buildRecentLogsQuery renders the RecentLogs statement and its arguments.
func buildRecentLogsQuery(filter LogFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.MaliciousOnly {
		where = append(where, "malicious")
	}
	switch filter.Source {
	case models.SourceCaptured:
		where = append(where, "NOT simulated")
	case models.SourceSimulated:
		where = append(where, "simulated")
	}
	if !filter.Since.IsZero() {
		where = append(where, "ts >= "+next(filter.Since))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(trafficColumns)
	b.WriteString(" FROM traffic_logs")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ts DESC, id DESC LIMIT ")
	b.WriteString(next(clampLimit(filter.Limit)))
	return b.String(), args
}

// clampLimit applies the default and the upper bound to a requested page size.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return min(limit, MaxRecentLimit)
}

func scanLogRecord(rows *sql.Rows) (models.LogRecord, error) {
	var rec models.LogRecord
	err := rows.Scan(
		&rec.ID, &rec.Timestamp, &rec.SourceAddr, &rec.DestAddr, &rec.Protocol, &rec.Service, &rec.Bytes,
		&rec.Label, &rec.Malicious, &rec.Confidence, &rec.ThreatLevel, &rec.Rule,
		&rec.PrimaryLabel, &rec.PrimaryConfidence, &rec.SecondaryLabel, &rec.SecondaryConfidence,
		&rec.RR, &rec.DET, &rec.Blocked, &rec.Simulated, &rec.Degraded,
	)
	if err != nil {
		return models.LogRecord{}, &OpError{Op: "SCAN", Table: trafficTable, Err: err}
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}
