// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"context"
	"fmt"
)

const trafficTable = "traffic_logs"

// Column names avoid reserved words on both engines (ts, fusion_rule, byte_size).
var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS traffic_logs (
	id                   TEXT PRIMARY KEY,
	ts                   TIMESTAMP NOT NULL,
	src_addr             TEXT NOT NULL,
	dst_addr             TEXT NOT NULL,
	protocol             TEXT NOT NULL,
	service              TEXT NOT NULL,
	byte_size            DOUBLE PRECISION NOT NULL,
	label                TEXT NOT NULL,
	malicious            BOOLEAN NOT NULL,
	confidence           DOUBLE PRECISION NOT NULL,
	threat_level         TEXT NOT NULL,
	fusion_rule          TEXT NOT NULL,
	primary_label        TEXT NOT NULL,
	primary_confidence   DOUBLE PRECISION NOT NULL,
	secondary_label      TEXT NOT NULL,
	secondary_confidence DOUBLE PRECISION NOT NULL,
	rr                   DOUBLE PRECISION NOT NULL,
	det                  DOUBLE PRECISION NOT NULL,
	blocked              BOOLEAN NOT NULL,
	simulated            BOOLEAN NOT NULL,
	degraded             BOOLEAN NOT NULL
)`,
	"CREATE INDEX IF NOT EXISTS idx_traffic_logs_ts ON traffic_logs (ts)",
}

// InitSchema creates the traffic_logs table and its index if they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, q := range schemaQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create %s: %w", trafficTable, err)
		}
	}
	return nil
}
