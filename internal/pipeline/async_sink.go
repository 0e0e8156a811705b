// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// DefaultSinkBuffer is the buffer size used by NewAsyncSink when the
// requested size is not positive.
const DefaultSinkBuffer = 256

// DefaultFlushTimeout bounds delivery of buffered records after the run
// context is cancelled.
const DefaultFlushTimeout = 5 * time.Second

// AsyncSink moves a slow sink (webhook, message bus) off the Process path.
// Append queues the record and returns immediately; when the buffer is full
// the record is dropped and counted. RunWithContext delivers queued records
// to the wrapped sink and must be running for anything to arrive.
type AsyncSink struct {
	name         string
	next         LogSink
	records      chan models.LogRecord
	flushTimeout time.Duration
	dropped      atomic.Uint64
}

// NewAsyncSink wraps next under name with a buffer of size records.
func NewAsyncSink(name string, next LogSink, size int) *AsyncSink {
	if size <= 0 {
		size = DefaultSinkBuffer
	}
	return &AsyncSink{
		name:         name,
		next:         next,
		records:      make(chan models.LogRecord, size),
		flushTimeout: DefaultFlushTimeout,
	}
}

// Name returns the sink name used in logs and metric labels.
func (s *AsyncSink) Name() string {
	return s.name
}

// Dropped returns the number of records dropped on a full buffer.
func (s *AsyncSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Pending returns the number of buffered records.
func (s *AsyncSink) Pending() int {
	return len(s.records)
}

// Append implements LogSink. It never blocks and never fails.
func (s *AsyncSink) Append(_ context.Context, rec models.LogRecord) error {
	select {
	case s.records <- rec:
	default:
		s.drop(1)
	}
	return nil
}

// RunWithContext delivers buffered records until ctx is cancelled, then
// flushes what is left within the flush timeout.
func (s *AsyncSink) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.flush()
			return ctx.Err()
		case rec := <-s.records:
			s.deliver(ctx, rec)
		}
	}
}

func (s *AsyncSink) deliver(ctx context.Context, rec models.LogRecord) {
	ctx = logging.ContextWithObservationID(ctx, rec.ID)
	if err := s.next.Append(ctx, rec); err != nil {
		metrics.RecordSinkFailure(s.name)
		logging.Ctx(ctx).Warn().Err(err).Str("sink", s.name).Msg("Log sink append failed")
	}
}

func (s *AsyncSink) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.flushTimeout)
	defer cancel()

	for ctx.Err() == nil {
		select {
		case rec := <-s.records:
			s.deliver(ctx, rec)
		default:
			return
		}
	}
	if n := len(s.records); n > 0 {
		s.drop(n)
		logging.Warn().Str("sink", s.name).Int("dropped", n).Msg("Log sink flush timed out")
	}
}

func (s *AsyncSink) drop(n int) {
	s.dropped.Add(uint64(n))
	metrics.RecordSinkDrops(s.name, n)
}
