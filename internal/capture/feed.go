// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/rqaguard/internal/logging"
)

// DefaultStopTimeout bounds how long Serve waits for the producer on shutdown.
const DefaultStopTimeout = time.Second

// Feed runs a Producer in its own goroutine.
type Feed struct {
	producer    Producer
	sink        Offerer
	stopTimeout time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewFeed creates a stopped feed.
func NewFeed(producer Producer, sink Offerer, stopTimeout time.Duration) *Feed {
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}
	return &Feed{producer: producer, sink: sink, stopTimeout: stopTimeout}
}

// Start launches the producer. It returns ErrAlreadyRunning if a previous
// run has not exited.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done != nil {
		select {
		case <-f.done:
		default:
			return ErrAlreadyRunning
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	f.cancel = cancel
	f.done = done
	f.err = nil

	go func() {
		defer close(done)
		err := f.producer.Run(runCtx, f.sink)
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Str("component", "capture").Msg("Producer exited with error")
			f.mu.Lock()
			f.err = err
			f.mu.Unlock()
		}
	}()
	return nil
}

// Stop signals the producer to stop and waits up to wait for it to exit.
// It returns ErrStopTimeout if the producer is still running afterwards.
func (f *Feed) Stop(wait time.Duration) error {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
		return f.Err()
	case <-timer.C:
		return ErrStopTimeout
	}
}

// Running reports whether the producer goroutine is alive.
func (f *Feed) Running() bool {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Err returns the error of the last run, if it failed.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Serve runs the feed until ctx is canceled or the producer fails, then
// stops it within the configured timeout.
func (f *Feed) Serve(ctx context.Context) error {
	if err := f.Start(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	done := f.done
	f.mu.Unlock()

	select {
	case <-ctx.Done():
		if err := f.Stop(f.stopTimeout); err != nil {
			return err
		}
		return ctx.Err()
	case <-done:
		if err := f.Err(); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// String names the feed in supervisor logs.
func (f *Feed) String() string {
	return "capture-feed"
}
