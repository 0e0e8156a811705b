// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

/*
Package pipeline turns observations into verdicts and side effects.

For each observation Process runs, in order:

 1. add the byte size to the recurrence window and compute RR/DET
 2. encode features and score them with the classifier ensemble
 3. fuse the structural and classifier signals
 4. block the source address when the verdict is malicious
 5. append a LogRecord to the sink (best effort)
 6. update in-memory statistics and Prometheus metrics

Classifier failures degrade instead of failing: a missing secondary verdict
is replaced by the primary, and a fully unavailable ensemble falls back to
the structural-only verdict with the record flagged Degraded. Registry and
sink errors are logged and counted; they never stop processing.

Sinks that talk to the network (webhook, message bus) are wrapped in an
AsyncSink: a bounded buffer drained by its own run loop. Process never waits
on them, and records that do not fit in the buffer are dropped and counted.

The Consumer drives Process from a capture.Source on a ticker and, when the
source is idle and simulation is enabled, from the synthetic generator at a
bounded rate.
*/
package pipeline
