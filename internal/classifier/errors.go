// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when no verdicts could be obtained.
	ErrModelUnavailable = errors.New("classifier: model unavailable")

	// ErrSecondaryUnavailable is returned with a valid primary verdict when
	// the secondary model produced nothing. It matches ErrModelUnavailable.
	ErrSecondaryUnavailable = fmt.Errorf("%w: secondary verdict missing", ErrModelUnavailable)
)

// unavailable wraps cause so that errors.Is(err, ErrModelUnavailable) holds.
func unavailable(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrModelUnavailable, op, cause)
}
