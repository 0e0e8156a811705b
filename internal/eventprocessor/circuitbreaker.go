// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package eventprocessor

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
)

// NewCircuitBreaker guards verdict publishing. It trips on a run of
// FailureThreshold consecutive failures, or when at least MinRequests
// publishes in the current Interval failed at FailureRatio or worse.
// Cancelled publishes say nothing about broker health and are not counted
// as failures.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[struct{}] {
	metrics.SetPublisherBreakerState(gobreaker.StateClosed.String())

	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		ReadyToTrip:  tripPolicy(cfg),
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, context.Canceled) },
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetPublisherBreakerState(to.String())
			ev := logging.Info()
			if to == gobreaker.StateOpen {
				ev = logging.Warn()
			}
			ev.Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("Verdict publisher breaker changed state")
		},
	})
}

func tripPolicy(cfg CircuitBreakerConfig) func(gobreaker.Counts) bool {
	return func(c gobreaker.Counts) bool {
		if cfg.FailureThreshold > 0 && c.ConsecutiveFailures >= cfg.FailureThreshold {
			return true
		}
		if cfg.FailureRatio <= 0 || c.Requests < cfg.MinRequests || c.Requests == 0 {
			return false
		}
		return float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureRatio
	}
}
