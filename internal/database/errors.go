// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
)

// ErrUnsupportedDriver is returned by New for an unknown driver name.
var ErrUnsupportedDriver = errors.New("database: unsupported driver")

// OpError is a failed statement. Callers match driver errors through Unwrap.
type OpError struct {
	Op    string // INSERT, SELECT, SCAN
	Table string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("database: %s %s: %v", strings.ToLower(e.Op), e.Table, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// observe records latency and outcome for a statement started at start and
// wraps a failure in an OpError.
func observe(op, table string, start time.Time, err error) error {
	metrics.RecordDBQuery(op, table, time.Since(start), err)
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Table: table, Err: err}
}

// closeRows is deferred after every successful query.
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close result rows")
	}
}
