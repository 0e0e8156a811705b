// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package blocklist

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/rqaguard/internal/models"
)

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]models.BlockedEntity
	now     func() time.Time
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]models.BlockedEntity),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Block implements Registry.
func (m *MemoryRegistry) Block(_ context.Context, addr, reason string) (bool, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[addr]; ok {
		return false, nil
	}
	m.entries[addr] = models.BlockedEntity{Address: addr, BlockedAt: m.now(), Reason: reason}
	return true, nil
}

// IsBlocked implements Registry.
func (m *MemoryRegistry) IsBlocked(_ context.Context, addr string) (bool, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[addr]
	return ok, nil
}

// List implements Registry.
func (m *MemoryRegistry) List(_ context.Context) ([]models.BlockedEntity, error) {
	m.mu.RLock()
	out := make([]models.BlockedEntity, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.RUnlock()

	sortEntities(out)
	return out, nil
}

// Len returns the number of blocked addresses.
func (m *MemoryRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
