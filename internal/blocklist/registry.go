// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package blocklist records source addresses that produced malicious verdicts.
//
// A Registry is append-only and idempotent: the first Block call for an
// address records it with its timestamp and reason, later calls for the same
// address are no-ops that report inserted=false. Entries are never removed.
//
// Backends:
//
//   - MemoryRegistry: process-local map, lost on restart.
//   - SQLRegistry: blocked_entities table in DuckDB or PostgreSQL.
//   - BadgerRegistry: embedded key-value store for single-node durability.
//   - CachedRegistry: LRU of positive answers in front of any backend.
package blocklist

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tomtom215/rqaguard/internal/models"
)

// ErrInvalidAddress is returned for an empty or blank address.
var ErrInvalidAddress = errors.New("blocklist: invalid address")

// Registry is the set of blocked source addresses.
type Registry interface {
	// Block records addr if it is not already blocked and reports whether
	// a new entry was created.
	Block(ctx context.Context, addr, reason string) (bool, error)

	// IsBlocked reports whether addr has been blocked.
	IsBlocked(ctx context.Context, addr string) (bool, error)

	// List returns all entries ordered by block time, then address.
	List(ctx context.Context) ([]models.BlockedEntity, error)
}

func normalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", ErrInvalidAddress
	}
	return addr, nil
}

func sortEntities(entities []models.BlockedEntity) {
	sort.Slice(entities, func(i, j int) bool {
		if !entities[i].BlockedAt.Equal(entities[j].BlockedAt) {
			return entities[i].BlockedAt.Before(entities[j].BlockedAt)
		}
		return entities[i].Address < entities[j].Address
	})
}
