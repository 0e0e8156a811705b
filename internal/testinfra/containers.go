// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// containerBudget bounds image pull plus startup for one container.
const containerBudget = 3 * time.Minute

// RequireDocker skips t in -short mode or when testcontainers cannot reach
// a healthy container provider.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartPostgres runs a PostgreSQL container for the duration of t and
// returns it with a context bounded by the container budget. The container
// is terminated in t's cleanup.
func StartPostgres(t *testing.T, opts ...PostgresOption) (*PostgresContainer, context.Context) {
	t.Helper()
	RequireDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), containerBudget)
	t.Cleanup(cancel)

	pg, err := NewPostgresContainer(ctx, opts...)
	if pg != nil {
		testcontainers.CleanupContainer(t, pg.Container)
	}
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	return pg, ctx
}
