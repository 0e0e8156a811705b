// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package blocklist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

const blockedTable = "blocked_entities"

// Queries use $n placeholders, accepted by both DuckDB and PostgreSQL.
const (
	createBlockedTableSQL = `CREATE TABLE IF NOT EXISTS blocked_entities (
	address    TEXT PRIMARY KEY,
	blocked_at TIMESTAMP NOT NULL,
	reason     TEXT NOT NULL
)`
	insertBlockedSQL = "INSERT INTO blocked_entities (address, blocked_at, reason) VALUES ($1, $2, $3) ON CONFLICT (address) DO NOTHING"
	selectBlockedSQL = "SELECT 1 FROM blocked_entities WHERE address = $1"
	listBlockedSQL   = "SELECT address, blocked_at, reason FROM blocked_entities ORDER BY blocked_at, address"
)

// SQLRegistry stores blocked addresses in the blocked_entities table.
// The primary key makes concurrent Block calls for one address insert once.
type SQLRegistry struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLRegistry creates a registry on an open database handle.
func NewSQLRegistry(db *sql.DB) *SQLRegistry {
	return &SQLRegistry{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// InitSchema creates the blocked_entities table if it does not exist.
func (r *SQLRegistry) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBlockedTableSQL); err != nil {
		return fmt.Errorf("create %s: %w", blockedTable, err)
	}
	return nil
}

// Block implements Registry.
func (r *SQLRegistry) Block(ctx context.Context, addr, reason string) (bool, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}

	start := time.Now()
	res, err := r.db.ExecContext(ctx, insertBlockedSQL, addr, r.now(), reason)
	metrics.RecordDBQuery("INSERT", blockedTable, time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("insert blocked entity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// IsBlocked implements Registry.
func (r *SQLRegistry) IsBlocked(ctx context.Context, addr string) (bool, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}

	start := time.Now()
	var one int
	err = r.db.QueryRowContext(ctx, selectBlockedSQL, addr).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("SELECT", blockedTable, time.Since(start), nil)
		return false, nil
	}
	metrics.RecordDBQuery("SELECT", blockedTable, time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("query blocked entity: %w", err)
	}
	return true, nil
}

// List implements Registry.
func (r *SQLRegistry) List(ctx context.Context) ([]models.BlockedEntity, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, listBlockedSQL)
	metrics.RecordDBQuery("SELECT", blockedTable, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("list blocked entities: %w", err)
	}
	defer rows.Close()

	out := make([]models.BlockedEntity, 0)
	for rows.Next() {
		var e models.BlockedEntity
		if err := rows.Scan(&e.Address, &e.BlockedAt, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan blocked entity: %w", err)
		}
		e.BlockedAt = e.BlockedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked entities: %w", err)
	}
	return out, nil
}
