// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package detection provides the fusion engine that turns the recurrence
// signal and two classifier verdicts into a single detection outcome.
//
// Detection Architecture:
//
//	Observation -> RQA window -> DET ----------.
//	            \                              v
//	             -> Classifier ensemble -> Fusion Engine -> Verdict -> Block registry
//	                (primary, secondary)                         \
//	                                                              -> Log sinks
//
// Fusion Rules (ordered, first match wins):
//   - rqa_critical: DET above the critical threshold marks the source as an
//     automated anomaly regardless of classifier output.
//   - classifier_agree / classifier_disagree: any non-Normal label makes the
//     observation malicious; agreement averages confidences, disagreement
//     takes the strictly more confident verdict (primary on ties).
//   - all_normal: both classifiers say Normal.
//
// When the ensemble is unavailable, FuseStructural applies only the first
// rule and otherwise returns a neutral, non-malicious verdict.
//
// The engine holds only its thresholds and is safe for concurrent use.
//
// WebhookNotifier is a log sink that posts malicious verdicts to an HTTP
// endpoint, rate limited with golang.org/x/time/rate.
package detection
