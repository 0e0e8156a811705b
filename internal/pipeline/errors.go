// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package pipeline

import "errors"

var (
	// ErrNoRegistry is returned by New without a block registry.
	ErrNoRegistry = errors.New("pipeline: block registry is required")

	// ErrNoSource is returned by NewConsumer without a source.
	ErrNoSource = errors.New("pipeline: observation source is required")
)
