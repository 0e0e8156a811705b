// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package capture

import "errors"

var (
	// ErrAlreadyRunning is returned by Feed.Start when the feed is running.
	ErrAlreadyRunning = errors.New("capture: feed already running")

	// ErrStopTimeout is returned by Feed.Stop when the producer did not
	// exit within the wait.
	ErrStopTimeout = errors.New("capture: producer did not stop in time")

	// ErrMalformedEvent is returned for packet events that cannot be mapped.
	ErrMalformedEvent = errors.New("capture: malformed packet event")
)
