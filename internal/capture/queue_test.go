// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import (
	"sync"
	"testing"

	"github.com/tomtom215/rqaguard/internal/models"
)

func obsWithBytes(b float64) models.Observation {
	return models.Observation{SourceAddr: "10.0.0.1", DestAddr: "10.0.0.2", Bytes: b}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	for i := 1; i <= 3; i++ {
		if dropped := q.Offer(obsWithBytes(float64(i))); dropped {
			t.Fatalf("Offer(%d) dropped", i)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	for i := 1; i <= 3; i++ {
		obs, ok := q.Poll()
		if !ok || obs.Bytes != float64(i) {
			t.Fatalf("Poll = (%v, %v), want (%d, true)", obs.Bytes, ok, i)
		}
	}
}

func TestQueuePollEmptyDoesNotBlock(t *testing.T) {
	q := NewQueue(2)
	if _, ok := q.Poll(); ok {
		t.Fatal("Poll on empty queue returned ok")
	}
}

func TestQueueDropsOldest(t *testing.T) {
	q := NewQueue(3)
	for i := 1; i <= 3; i++ {
		q.Offer(obsWithBytes(float64(i)))
	}
	if !q.Offer(obsWithBytes(4)) {
		t.Fatal("Offer on full queue did not report a drop")
	}
	if !q.Offer(obsWithBytes(5)) {
		t.Fatal("Offer on full queue did not report a drop")
	}
	if q.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", q.Dropped())
	}
	if q.Len() != q.Cap() {
		t.Errorf("Len = %d, want %d", q.Len(), q.Cap())
	}

	var got []float64
	for {
		obs, ok := q.Poll()
		if !ok {
			break
		}
		got = append(got, obs.Bytes)
	}
	want := []float64{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("drained %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("drained %v, want %v", got, want)
		}
	}
}

func TestQueueDefaultCapacity(t *testing.T) {
	if c := NewQueue(0).Cap(); c != DefaultQueueCapacity {
		t.Errorf("Cap = %d, want %d", c, DefaultQueueCapacity)
	}
}

func TestQueueConcurrent(t *testing.T) {
	q := NewQueue(64)
	const producers, perProducer = 4, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Offer(obsWithBytes(float64(i)))
			}
		}()
	}

	polled := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		if _, ok := q.Poll(); ok {
			polled++
			continue
		}
		select {
		case <-done:
			for {
				if _, ok := q.Poll(); !ok {
					break
				}
				polled++
			}
			if total := uint64(polled) + q.Dropped(); total != producers*perProducer {
				t.Fatalf("polled %d + dropped %d != %d", polled, q.Dropped(), producers*perProducer)
			}
			return
		default:
		}
	}
}
