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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// fakeClock returns strictly increasing timestamps one second apart.
type fakeClock struct {
	mu   sync.Mutex
	next time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{next: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

type registryFactory struct {
	name string
	new  func(t *testing.T, clock *fakeClock) Registry
}

func registryFactories() []registryFactory {
	return []registryFactory{
		{"memory", func(_ *testing.T, clock *fakeClock) Registry {
			r := NewMemoryRegistry()
			r.now = clock.Now
			return r
		}},
		{"badger", func(t *testing.T, clock *fakeClock) Registry {
			db, err := OpenBadger("")
			if err != nil {
				t.Fatalf("open badger: %v", err)
			}
			t.Cleanup(func() { _ = db.Close() })
			r := NewBadgerRegistry(db)
			r.now = clock.Now
			return r
		}},
		{"duckdb", func(t *testing.T, clock *fakeClock) Registry {
			db, err := sql.Open("duckdb", "")
			if err != nil {
				t.Fatalf("open duckdb: %v", err)
			}
			t.Cleanup(func() { _ = db.Close() })
			// One connection serializes writers, as the server does.
			db.SetMaxOpenConns(1)
			r := NewSQLRegistry(db)
			r.now = clock.Now
			if err := r.InitSchema(context.Background()); err != nil {
				t.Fatalf("init schema: %v", err)
			}
			return r
		}},
		{"cached", func(t *testing.T, clock *fakeClock) Registry {
			inner := NewMemoryRegistry()
			inner.now = clock.Now
			r, err := NewCachedRegistry(inner, 16)
			if err != nil {
				t.Fatalf("cache: %v", err)
			}
			return r
		}},
	}
}

func TestRegistryBlockIsIdempotent(t *testing.T) {
	for _, f := range registryFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			r := f.new(t, newFakeClock())

			inserted, err := r.Block(ctx, "10.0.0.5", "DoS")
			if err != nil || !inserted {
				t.Fatalf("first Block = (%v, %v), want (true, nil)", inserted, err)
			}
			inserted, err = r.Block(ctx, "10.0.0.5", "Probe")
			if err != nil || inserted {
				t.Fatalf("second Block = (%v, %v), want (false, nil)", inserted, err)
			}

			list, err := r.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("len(List) = %d, want 1", len(list))
			}
			if list[0].Reason != "DoS" {
				t.Errorf("reason = %q, want first reason DoS", list[0].Reason)
			}
		})
	}
}

func TestRegistryIsBlocked(t *testing.T) {
	for _, f := range registryFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			r := f.new(t, newFakeClock())

			blocked, err := r.IsBlocked(ctx, "10.0.0.9")
			if err != nil || blocked {
				t.Fatalf("IsBlocked before = (%v, %v), want (false, nil)", blocked, err)
			}
			if _, err := r.Block(ctx, "10.0.0.9", "Anomaly(RQA)"); err != nil {
				t.Fatalf("Block: %v", err)
			}
			blocked, err = r.IsBlocked(ctx, "10.0.0.9")
			if err != nil || !blocked {
				t.Fatalf("IsBlocked after = (%v, %v), want (true, nil)", blocked, err)
			}
		})
	}
}

func TestRegistryListOrder(t *testing.T) {
	for _, f := range registryFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			r := f.new(t, newFakeClock())

			addrs := []string{"192.168.1.20", "10.0.0.1", "172.16.0.3"}
			for _, a := range addrs {
				if _, err := r.Block(ctx, a, "DoS"); err != nil {
					t.Fatalf("Block(%s): %v", a, err)
				}
			}

			list, err := r.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != len(addrs) {
				t.Fatalf("len(List) = %d, want %d", len(list), len(addrs))
			}
			for i, a := range addrs {
				if list[i].Address != a {
					t.Errorf("List[%d] = %s, want %s", i, list[i].Address, a)
				}
				if i > 0 && !list[i].BlockedAt.After(list[i-1].BlockedAt) {
					t.Errorf("List[%d] not after List[%d]", i, i-1)
				}
			}
		})
	}
}

func TestRegistryInvalidAddress(t *testing.T) {
	for _, f := range registryFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			r := f.new(t, newFakeClock())

			for _, addr := range []string{"", "   "} {
				if _, err := r.Block(ctx, addr, "DoS"); !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("Block(%q) err = %v, want ErrInvalidAddress", addr, err)
				}
				if _, err := r.IsBlocked(ctx, addr); !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("IsBlocked(%q) err = %v, want ErrInvalidAddress", addr, err)
				}
			}
			list, err := r.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 0 {
				t.Errorf("len(List) = %d, want 0", len(list))
			}
		})
	}
}

func TestRegistryConcurrentBlockSameAddress(t *testing.T) {
	for _, f := range registryFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			r := f.new(t, newFakeClock())

			const workers = 32
			var inserted atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					ok, err := r.Block(ctx, "203.0.113.7", fmt.Sprintf("worker-%d", i))
					if err != nil {
						t.Errorf("Block: %v", err)
						return
					}
					if ok {
						inserted.Add(1)
					}
				}(i)
			}
			wg.Wait()

			if n := inserted.Load(); n != 1 {
				t.Fatalf("inserted %d times, want exactly 1", n)
			}
			list, err := r.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("len(List) = %d, want 1", len(list))
			}
		})
	}
}
