// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// LogSink receives one record per processed observation.
type LogSink interface {
	Append(ctx context.Context, rec models.LogRecord) error
}

// DiscardSink drops every record.
type DiscardSink struct{}

// Append implements LogSink.
func (DiscardSink) Append(context.Context, models.LogRecord) error { return nil }

type namedSink struct {
	name string
	sink LogSink
}

// MultiSink fans a record out to several sinks. Every sink is attempted;
// failures are counted per sink name and joined into the returned error.
type MultiSink struct {
	sinks []namedSink
}

// NewMultiSink creates an empty fan-out sink.
func NewMultiSink() *MultiSink {
	return &MultiSink{}
}

// Add registers sink under name. Nil sinks are ignored.
func (m *MultiSink) Add(name string, sink LogSink) *MultiSink {
	if sink != nil {
		m.sinks = append(m.sinks, namedSink{name: name, sink: sink})
	}
	return m
}

// Len returns the number of registered sinks.
func (m *MultiSink) Len() int {
	return len(m.sinks)
}

// Names returns the registered sink names in order.
func (m *MultiSink) Names() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.name
	}
	return names
}

// Append implements LogSink.
func (m *MultiSink) Append(ctx context.Context, rec models.LogRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.sink.Append(ctx, rec); err != nil {
			metrics.RecordSinkFailure(s.name)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
