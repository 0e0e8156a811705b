// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/rqaguard/internal/features"
)

// maxResponseBytes bounds the scoring response read from the model server.
const maxResponseBytes = 64 << 10

// HTTPConfig configures the HTTP backend.
type HTTPConfig struct {
	// URL is the scoring endpoint, e.g. http://models:8500/v1/score.
	URL string

	// Timeout bounds each scoring call. Default: 2s
	Timeout time.Duration
}

// HTTPEnsemble scores observations against a model-serving HTTP endpoint.
type HTTPEnsemble struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPEnsemble creates an HTTP backend. A nil client uses a dedicated
// client without a global timeout; the per-call context bounds each request.
func NewHTTPEnsemble(cfg HTTPConfig, client *http.Client) *HTTPEnsemble {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPEnsemble{url: cfg.URL, timeout: cfg.Timeout, client: client}
}

// Score implements Ensemble.
func (h *HTTPEnsemble) Score(ctx context.Context, v features.Vector) (Result, error) {
	body, err := encodeRequest(v)
	if err != nil {
		return Result{}, unavailable("encode request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, unavailable("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Result{}, unavailable("post", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, unavailable("read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, unavailable("post", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return decodeResponse(data)
}

// String implements fmt.Stringer.
func (h *HTTPEnsemble) String() string {
	return "http:" + h.url
}
