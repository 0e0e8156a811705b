// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package rqa implements recurrence quantification analysis over a sliding
// window of scalar observations (packet sizes in bytes).
//
// For the N windowed values x_0..x_{N-1} the recurrence indicator is
//
//	R[i][j] = 1 if |x_i - x_j| < epsilon, else 0
//
// Two measures are derived from it:
//
//   - RR (recurrence rate): off-diagonal recurrent pairs over N*N - N.
//   - DET (determinism): recurrent points lying on diagonal runs of length
//     two or more, over all off-diagonal recurrent points. Runs are counted
//     on the upper diagonals (offsets 1..N-1) and doubled for the symmetric
//     lower triangle.
//
// Both are reported as percentages rounded to one decimal. With fewer than
// two points both are zero.
//
// An Analyzer is owned by a single goroutine. It performs no locking.
package rqa
