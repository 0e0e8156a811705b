// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"

	"github.com/tomtom215/rqaguard/internal/config"
	"github.com/tomtom215/rqaguard/internal/logging"
)

const (
	defaultPostgresConns = 10
	connMaxLifetime      = time.Hour
	connMaxIdleTime      = 5 * time.Minute
	initTimeout          = 30 * time.Second
)

// DB wraps the SQL connection and provides traffic log access.
type DB struct {
	conn   *sql.DB
	driver string
}

// New opens the configured database, verifies the connection and creates
// the traffic_logs table if needed.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverDuckDB
	}

	var (
		conn *sql.DB
		err  error
	)
	switch driver {
	case config.DriverDuckDB:
		conn, err = openDuckDB(cfg)
	case config.DriverPostgres:
		conn, err = sql.Open("postgres", cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	db := &DB{conn: conn, driver: driver}
	db.configureConnectionPool(cfg.MaxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if err := db.InitSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Info().
		Str("driver", driver).
		Str("path", cfg.Path).
		Msg("Database ready")
	return db, nil
}

// NewWithConn wraps an already open connection without touching the schema.
// Tests use it with go-sqlmock.
func NewWithConn(conn *sql.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

func openDuckDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	// An empty path opens an in-memory database.
	if cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}
	return sql.Open("duckdb", duckDBConnString(cfg))
}

// duckDBConnString builds the DuckDB DSN with tuning options as query parameters.
func duckDBConnString(cfg *config.DatabaseConfig) string {
	params := url.Values{}
	if cfg.MaxMemory != "" {
		params.Set("max_memory", cfg.MaxMemory)
	}
	if cfg.Threads > 0 {
		params.Set("threads", strconv.Itoa(cfg.Threads))
	}
	if len(params) == 0 {
		return cfg.Path
	}
	return cfg.Path + "?" + params.Encode()
}

func (db *DB) configureConnectionPool(maxOpen int) {
	if maxOpen <= 0 {
		maxOpen = 1
		if db.driver == config.DriverPostgres {
			maxOpen = defaultPostgresConns
		}
	}
	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(min(maxOpen, 2))
	db.conn.SetConnMaxLifetime(connMaxLifetime)
	db.conn.SetConnMaxIdleTime(connMaxIdleTime)
}

// Conn returns the underlying connection, shared with the SQL block registry.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the driver name: duckdb or postgres.
func (db *DB) Driver() string {
	return db.driver
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}
