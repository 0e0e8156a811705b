// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// scope is the set of IDs carried through a context. It is copied on every
// change so parent contexts never see values added by children.
type scope struct {
	requestID     string
	correlationID string
	observationID string
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, edit func(*scope)) context.Context {
	s := scopeFrom(ctx)
	edit(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// GenerateCorrelationID returns a short random ID (8 hex characters).
func GenerateCorrelationID() string {
	id := uuid.New()
	return id.String()[:8]
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *scope) { s.correlationID = id })
}

func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns "" when no correlation ID is set.
func CorrelationIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).correlationID
}

// ContextWithRequestID records the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = id })
}

func RequestIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// ContextWithObservationID tags everything logged while one observation is
// processed, from fusion through blocking and the log sinks.
func ContextWithObservationID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *scope) { s.observationID = id })
}

func ObservationIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).observationID
}

// Ctx returns the global logger with every ID in ctx attached.
//
//	logging.Ctx(ctx).Info().Str("src", addr).Msg("Source blocked")
func Ctx(ctx context.Context) *zerolog.Logger {
	s := scopeFrom(ctx)
	l := current.Load()
	if s == (scope{}) {
		return l
	}
	zc := l.With()
	for _, f := range [...]struct{ key, val string }{
		{"request_id", s.requestID},
		{"correlation_id", s.correlationID},
		{"observation_id", s.observationID},
	} {
		if f.val != "" {
			zc = zc.Str(f.key, f.val)
		}
	}
	out := zc.Logger()
	return &out
}

// WithComponent returns a child logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
