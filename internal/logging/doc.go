// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package logging provides centralized zerolog-based structured logging for RQAGuard.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("src", addr).Str("label", "DoS").Msg("Source blocked")
//	logging.Err(err).Msg("Traffic log append failed")
//
//	// Context-aware logging
//	logging.Ctx(ctx).Debug().Float64("det", det).Msg("Metrics computed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// chain is never emitted.
//
// # Adapters
//
// Two adapters route third-party logging through the global logger:
//
//   - NewSlogLogger returns an *slog.Logger for sutureslog.
//   - NewWatermillAdapter returns a watermill.LoggerAdapter for the
//     verdict publisher and the NATS transport.
//
// # Sampling
//
// Config.DebugSample keeps one in N debug and trace events. Info and above
// are never sampled.
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger sits
// behind an atomic pointer, so Init can run while other goroutines log.
package logging
