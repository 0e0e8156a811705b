// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package classifier

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/rqaguard/internal/features"
	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
)

// BreakerConfig configures the circuit breaker around an ensemble backend.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "classifier",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Guard wraps an Ensemble in a circuit breaker. While open, Score fails
// immediately with ErrModelUnavailable.
type Guard struct {
	next Ensemble
	cb   *gobreaker.CircuitBreaker[Result]
}

// NewGuard wraps next. A partial result (ErrSecondaryUnavailable) counts as
// a success for the breaker.
func NewGuard(next Ensemble, cfg BreakerConfig) *Guard {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}

	logger := logging.WithComponent("classifier")
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrSecondaryUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetClassifierBreakerState(to.String())
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Classifier circuit breaker state changed")
		},
	}
	metrics.SetClassifierBreakerState(gobreaker.StateClosed.String())
	return &Guard{next: next, cb: gobreaker.NewCircuitBreaker[Result](settings)}
}

// Score implements Ensemble.
func (g *Guard) Score(ctx context.Context, v features.Vector) (Result, error) {
	res, err := g.cb.Execute(func() (Result, error) {
		return g.next.Score(ctx, v)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Result{}, unavailable("breaker "+g.cb.Name(), err)
	}
	return res, err
}

// State returns the breaker state: closed, half-open or open.
func (g *Guard) State() string {
	return g.cb.State().String()
}
