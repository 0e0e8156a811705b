// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package rqa

import (
	"math"
)

const (
	// DefaultWindowSize is the default sliding window capacity.
	DefaultWindowSize = 50

	// DefaultEpsilon is the default recurrence threshold in bytes.
	DefaultEpsilon = 100.0
)

// Config holds analyzer parameters.
type Config struct {
	// WindowSize is the window capacity W. Default: 50
	WindowSize int

	// Epsilon is the distance below which two values recur. Default: 100
	Epsilon float64
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize: DefaultWindowSize,
		Epsilon:    DefaultEpsilon,
	}
}

// Metrics holds recurrence rate and determinism as percentages in [0,100].
type Metrics struct {
	RR  float64 `json:"rr"`
	DET float64 `json:"det"`
}

// Analyzer keeps the most recent WindowSize values and computes RR/DET over them.
type Analyzer struct {
	cfg Config

	// buf is a ring buffer; head is the index of the oldest value.
	buf  []float64
	head int
	size int
}

// New creates an analyzer. Non-positive parameters fall back to the defaults.
func New(cfg Config) *Analyzer {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	return &Analyzer{
		cfg: cfg,
		buf: make([]float64, cfg.WindowSize),
	}
}

// Config returns the analyzer configuration after defaults were applied.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Len returns the number of values currently in the window.
func (a *Analyzer) Len() int {
	return a.size
}

// Add appends value to the window, evicting the oldest value when full.
func (a *Analyzer) Add(value float64) {
	capacity := len(a.buf)
	if a.size < capacity {
		a.buf[(a.head+a.size)%capacity] = value
		a.size++
		return
	}
	a.buf[a.head] = value
	a.head = (a.head + 1) % capacity
}

// Window returns a copy of the windowed values, oldest first.
func (a *Analyzer) Window() []float64 {
	out := make([]float64, a.size)
	for i := range a.size {
		out[i] = a.buf[(a.head+i)%len(a.buf)]
	}
	return out
}

// ComputeMetrics returns RR and DET for the current window.
//
// The indicator matrix is symmetric with a unit diagonal, so only the upper
// triangle is visited: each offset k walks the diagonal (i, i+k) once,
// accumulating recurrent pairs for RR and run lengths for DET.
func (a *Analyzer) ComputeMetrics() Metrics {
	return compute(a.Window(), a.cfg.Epsilon)
}

func compute(values []float64, epsilon float64) Metrics {
	n := len(values)
	if n < 2 {
		return Metrics{}
	}

	var recurrentUpper, diagonalPoints int
	for k := 1; k < n; k++ {
		run := 0
		for i := 0; i+k < n; i++ {
			if math.Abs(values[i]-values[i+k]) < epsilon {
				recurrentUpper++
				run++
				continue
			}
			if run >= 2 {
				diagonalPoints += run
			}
			run = 0
		}
		if run >= 2 {
			diagonalPoints += run
		}
	}

	// sum(indicator) - N counts both triangles.
	recurrent := 2 * recurrentUpper
	rr := float64(recurrent) / float64(n*n-n)

	var det float64
	if recurrent > 0 {
		det = float64(2*diagonalPoints) / float64(recurrent)
	}

	return Metrics{
		RR:  roundPercent(rr),
		DET: roundPercent(det),
	}
}

// roundPercent converts a fraction to a percentage rounded to one decimal,
// clamped to [0,100].
func roundPercent(fraction float64) float64 {
	p := math.Round(fraction*1000) / 10
	return math.Max(0, math.Min(100, p))
}
