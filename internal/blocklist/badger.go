// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package blocklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/rqaguard/internal/models"
)

const (
	blockKeyPrefix = "block:"

	// maxConflictRetries bounds retries of a Block transaction that lost a
	// write conflict to a concurrent Block for the same address.
	maxConflictRetries = 5
)

// BadgerRegistry stores blocked addresses in BadgerDB.
type BadgerRegistry struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerRegistry creates a registry on an open BadgerDB.
func NewBadgerRegistry(db *badger.DB) *BadgerRegistry {
	return &BadgerRegistry{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// OpenBadger opens a BadgerDB at dir. An empty dir opens an in-memory store.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// Block implements Registry.
func (r *BadgerRegistry) Block(ctx context.Context, addr, reason string) (bool, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}
	key := []byte(blockKeyPrefix + addr)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		inserted := false
		err := r.db.Update(func(txn *badger.Txn) error {
			_, err := txn.Get(key)
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("get blocked entity: %w", err)
			}

			data, err := json.Marshal(models.BlockedEntity{Address: addr, BlockedAt: r.now(), Reason: reason})
			if err != nil {
				return fmt.Errorf("marshal blocked entity: %w", err)
			}
			if err := txn.Set(key, data); err != nil {
				return fmt.Errorf("set blocked entity: %w", err)
			}
			inserted = true
			return nil
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return false, err
		}
		return inserted, nil
	}
}

// IsBlocked implements Registry.
func (r *BadgerRegistry) IsBlocked(_ context.Context, addr string) (bool, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return false, err
	}

	found := false
	err = r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(blockKeyPrefix + addr))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get blocked entity: %w", err)
		}
		found = true
		return nil
	})
	return found, err
}

// List implements Registry.
func (r *BadgerRegistry) List(_ context.Context) ([]models.BlockedEntity, error) {
	out := make([]models.BlockedEntity, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(blockKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var e models.BlockedEntity
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode blocked entity: %w", err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEntities(out)
	return out, nil
}
