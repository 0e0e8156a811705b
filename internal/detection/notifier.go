// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package detection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
)

// Alert outcomes, used as metric labels.
const (
	AlertSent        = "sent"
	AlertError       = "error"
	AlertRateLimited = "rate_limited"
)

// ErrNoWebhookURL is returned by NewWebhookNotifier without a URL.
var ErrNoWebhookURL = errors.New("detection: webhook URL is required")

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	URL     string
	Headers map[string]string // e.g. Authorization

	// RatePerSecond and Burst bound outgoing alerts. Alerts over the limit
	// are dropped, never queued. Default: 1/s, burst 5
	RatePerSecond float64
	Burst         int

	// Timeout bounds each POST. Default: 5s
	Timeout time.Duration
}

// WebhookPayload is the JSON body posted for each alert.
type WebhookPayload struct {
	EventType string           `json:"event_type"` // malicious_verdict
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
	Record    models.LogRecord `json:"record"`
}

// WebhookNotifier posts malicious verdicts to an HTTP endpoint. It
// implements the pipeline log sink so it can sit next to the database.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewWebhookNotifier creates a notifier. A nil client gets one with cfg.Timeout.
func NewWebhookNotifier(cfg WebhookConfig, client *http.Client) (*WebhookNotifier, error) {
	if cfg.URL == "" {
		return nil, ErrNoWebhookURL
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &WebhookNotifier{
		url:     cfg.URL,
		headers: headers,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		now:     time.Now,
	}, nil
}

// Name returns the notifier name.
func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Append posts rec when it is malicious. Benign records and records over
// the rate limit return nil.
func (n *WebhookNotifier) Append(ctx context.Context, rec models.LogRecord) error {
	if !rec.Malicious {
		return nil
	}
	if !n.limiter.Allow() {
		metrics.RecordAlert(AlertRateLimited)
		return nil
	}

	err := n.send(ctx, rec)
	if err != nil {
		metrics.RecordAlert(AlertError)
		return err
	}
	metrics.RecordAlert(AlertSent)
	return nil
}

func (n *WebhookNotifier) send(ctx context.Context, rec models.LogRecord) error {
	body, err := json.Marshal(WebhookPayload{
		EventType: "malicious_verdict",
		Timestamp: n.now().UTC(),
		Source:    "rqaguard",
		Record:    rec,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
