// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package database owns the SQL connection and the traffic_logs table.

Two drivers are supported behind database/sql:

  - duckdb (default): embedded, file-backed or in-memory when the path is empty
  - postgres: github.com/lib/pq, selected with DB_DRIVER=postgres and DATABASE_DSN

All statements use $n placeholders, which both engines accept, so the same
SQL runs on either driver. The blocked_entities table lives in the
blocklist package and shares the connection returned by Conn.

# Traffic Log

DB implements the pipeline log sink: every processed observation is written
as one row by Append. RecentLogs and Stats serve the read-only API.

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	_ = db.Append(ctx, record)
	stats, err := db.Stats(ctx)

# Connection Pool

DuckDB serializes writers inside the engine; the pool defaults to a single
connection for it unless DB_MAX_OPEN_CONNS is set. PostgreSQL defaults to 10.
*/
package database
