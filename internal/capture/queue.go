// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import (
	"sync"

	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// DefaultQueueCapacity is the default number of queued observations.
const DefaultQueueCapacity = 1024

// Offerer accepts observations without blocking.
type Offerer interface {
	// Offer enqueues obs and reports whether an older observation was
	// discarded to make room.
	Offer(obs models.Observation) bool
}

// Source yields queued observations without blocking.
type Source interface {
	Poll() (models.Observation, bool)
}

// Queue is a bounded FIFO of observations that drops the oldest entry when
// full. It is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	buf     []models.Observation
	head    int
	size    int
	dropped uint64
}

// NewQueue creates a queue holding at most capacity observations.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{buf: make([]models.Observation, capacity)}
}

// Offer implements Offerer.
func (q *Queue) Offer(obs models.Observation) bool {
	q.mu.Lock()
	dropped := false
	if q.size == len(q.buf) {
		q.buf[q.head] = models.Observation{}
		q.head = (q.head + 1) % len(q.buf)
		q.size--
		q.dropped++
		dropped = true
	}
	q.buf[(q.head+q.size)%len(q.buf)] = obs
	q.size++
	depth := q.size
	q.mu.Unlock()

	if dropped {
		metrics.RecordQueueDrop()
	}
	metrics.UpdateQueueDepth(depth)
	return dropped
}

// Poll implements Source.
func (q *Queue) Poll() (models.Observation, bool) {
	q.mu.Lock()
	if q.size == 0 {
		q.mu.Unlock()
		return models.Observation{}, false
	}
	obs := q.buf[q.head]
	q.buf[q.head] = models.Observation{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	depth := q.size
	q.mu.Unlock()

	metrics.UpdateQueueDepth(depth)
	return obs, true
}

// Len returns the number of queued observations.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Dropped returns the number of observations discarded since creation.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
