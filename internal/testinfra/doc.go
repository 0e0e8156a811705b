// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package testinfra starts Docker containers for integration tests with
// testcontainers-go.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/...
//
// # PostgreSQL
//
//	func TestSQLRegistry_Postgres(t *testing.T) {
//	    pg, ctx := testinfra.StartPostgres(t)
//	    db, err := sql.Open("postgres", pg.DSN)
//	    ...
//	}
//
// StartPostgres skips the test when no container provider is healthy and
// terminates the container when the test ends.
package testinfra
