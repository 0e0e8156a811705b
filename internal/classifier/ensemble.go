// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package classifier

import (
	"context"
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rqaguard/internal/detection"
	"github.com/tomtom215/rqaguard/internal/features"
)

// Result holds the two verdicts returned by the ensemble.
type Result struct {
	Primary   detection.ClassifierVerdict
	Secondary detection.ClassifierVerdict
}

// Ensemble scores a feature vector.
type Ensemble interface {
	Score(ctx context.Context, v features.Vector) (Result, error)
}

// Unavailable is an Ensemble that always fails with ErrModelUnavailable.
type Unavailable struct{}

// Score implements Ensemble.
func (Unavailable) Score(context.Context, features.Vector) (Result, error) {
	return Result{}, ErrModelUnavailable
}

type scoreRequest struct {
	Features map[string]float64 `json:"features"`
}

type wireVerdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type scoreResponse struct {
	Primary   *wireVerdict `json:"primary"`
	Secondary *wireVerdict `json:"secondary"`
}

func encodeRequest(v features.Vector) ([]byte, error) {
	return json.Marshal(scoreRequest{Features: v.Map()})
}

// decodeResponse parses a scoring response. A missing primary is a failure;
// a missing secondary returns the primary with ErrSecondaryUnavailable.
func decodeResponse(data []byte) (Result, error) {
	var resp scoreResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Result{}, unavailable("decode response", err)
	}
	if resp.Primary == nil {
		return Result{}, unavailable("decode response", errors.New("primary verdict missing"))
	}
	res := Result{Primary: resp.Primary.verdict()}
	if resp.Secondary == nil {
		return res, ErrSecondaryUnavailable
	}
	res.Secondary = resp.Secondary.verdict()
	return res, nil
}

func (w *wireVerdict) verdict() detection.ClassifierVerdict {
	return detection.ClassifierVerdict{
		Label:      detection.Label(w.Label),
		Confidence: w.Confidence,
	}.Normalize()
}
