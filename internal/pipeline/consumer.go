// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/rqaguard/internal/capture"
	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/models"
)

// Generator produces synthetic observations. The boolean result is the
// generator's ground truth and is not used for detection.
type Generator interface {
	Next() (models.Observation, bool)
}

// ConsumerConfig configures the polling loop.
type ConsumerConfig struct {
	PollInterval time.Duration // default 100ms
	BatchSize    int           // default 64

	// Generator, when set, supplies one synthetic observation on ticks
	// where the source was empty, at most SimulationRate per second.
	Generator      Generator
	SimulationRate float64
}

// Consumer polls a source and feeds the pipeline.
type Consumer struct {
	pipeline  *Pipeline
	source    capture.Source
	interval  time.Duration
	batchSize int
	generator Generator
	limiter   *rate.Limiter

	captured  atomic.Uint64
	simulated atomic.Uint64
}

// NewConsumer creates a consumer for source.
func NewConsumer(p *Pipeline, source capture.Source, cfg ConsumerConfig) (*Consumer, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	c := &Consumer{
		pipeline:  p,
		source:    source,
		interval:  cfg.PollInterval,
		batchSize: cfg.BatchSize,
		generator: cfg.Generator,
	}
	if c.interval <= 0 {
		c.interval = 100 * time.Millisecond
	}
	if c.batchSize <= 0 {
		c.batchSize = 64
	}
	if c.generator != nil {
		r := cfg.SimulationRate
		if r <= 0 {
			r = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), 1)
	}
	return c, nil
}

// RunWithContext polls until ctx is done and returns ctx.Err().
func (c *Consumer) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	logging.Info().
		Dur("poll_interval", c.interval).
		Int("batch_size", c.batchSize).
		Bool("simulation", c.generator != nil).
		Msg("Consumer started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().
				Uint64("captured", c.captured.Load()).
				Uint64("simulated", c.simulated.Load()).
				Msg("Consumer stopped")
			return ctx.Err()
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// tick drains up to one batch and falls back to the generator when idle.
func (c *Consumer) tick(ctx context.Context) {
	n := 0
	for n < c.batchSize {
		if ctx.Err() != nil {
			return
		}
		obs, ok := c.source.Poll()
		if !ok {
			break
		}
		c.pipeline.Process(ctx, obs)
		c.captured.Add(1)
		n++
	}
	if n > 0 || c.generator == nil || !c.limiter.Allow() {
		return
	}

	obs, _ := c.generator.Next()
	obs.Simulated = true
	c.pipeline.Process(ctx, obs)
	c.simulated.Add(1)
}

// Processed returns how many captured and simulated observations were processed.
func (c *Consumer) Processed() (captured, simulated uint64) {
	return c.captured.Load(), c.simulated.Load()
}
