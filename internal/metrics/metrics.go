// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Detection Metrics
	ObservationsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_observations_processed_total",
			Help: "Total number of observations run through the detection pipeline",
		},
		[]string{"source"}, // "captured", "simulated"
	)

	ObservationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rqaguard_observation_duration_seconds",
			Help:    "Time to process one observation end to end",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 2.5},
		},
	)

	VerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_verdicts_total",
			Help: "Total number of fused verdicts",
		},
		[]string{"label", "threat_level", "rule"},
	)

	DegradedVerdicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rqaguard_degraded_verdicts_total",
			Help: "Verdicts produced without one or both classifier verdicts",
		},
	)

	RQARecurrenceRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rqaguard_rqa_recurrence_rate_percent",
			Help: "Most recent recurrence rate of the byte-size window",
		},
	)

	RQADeterminism = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rqaguard_rqa_determinism_percent",
			Help: "Most recent determinism of the byte-size window",
		},
	)

	// Classifier Metrics
	ClassifierCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_classifier_calls_total",
			Help: "Classifier ensemble calls by outcome",
		},
		[]string{"outcome"}, // "ok", "partial", "unavailable"
	)

	ClassifierBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rqaguard_classifier_breaker_state",
			Help: "Classifier circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	PublisherBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rqaguard_publisher_breaker_state",
			Help: "Verdict publisher circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Blocklist Metrics
	BlockOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_block_operations_total",
			Help: "Block attempts by result",
		},
		[]string{"result"}, // "inserted", "existing", "error"
	)

	BlockCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_block_cache_lookups_total",
			Help: "Blocklist cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// Sink Metrics
	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_sink_failures_total",
			Help: "Failed traffic log appends by sink",
		},
		[]string{"sink"},
	)

	SinkDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_sink_dropped_total",
			Help: "Traffic log records dropped because a sink buffer was full",
		},
		[]string{"sink"},
	)

	VerdictPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_verdict_publishes_total",
			Help: "Verdict events published to the message bus by result",
		},
		[]string{"result"}, // "success", "error"
	)

	// Capture Metrics
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rqaguard_capture_queue_depth",
			Help: "Observations waiting in the capture queue",
		},
	)

	QueueDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rqaguard_capture_queue_dropped_total",
			Help: "Observations discarded because the capture queue was full",
		},
	)

	CaptureEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_capture_events_total",
			Help: "Packet events received by the capture producer",
		},
		[]string{"result"}, // "accepted", "malformed"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rqaguard_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation", "table"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rqaguard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Alert Metrics
	AlertNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rqaguard_alert_notifications_total",
			Help: "Webhook alert attempts for malicious verdicts",
		},
		[]string{"outcome"}, // "sent", "error", "rate_limited"
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rqaguard_websocket_connections",
			Help: "Current number of live feed WebSocket clients",
		},
	)
)

// RecordObservation records one processed observation.
func RecordObservation(source string, duration time.Duration) {
	ObservationsProcessed.WithLabelValues(source).Inc()
	ObservationDuration.Observe(duration.Seconds())
}

// RecordVerdict records a fused verdict.
func RecordVerdict(label, threatLevel, rule string, degraded bool) {
	VerdictsTotal.WithLabelValues(label, threatLevel, rule).Inc()
	if degraded {
		DegradedVerdicts.Inc()
	}
}

// UpdateRQA sets the latest recurrence metrics.
func UpdateRQA(rr, det float64) {
	RQARecurrenceRate.Set(rr)
	RQADeterminism.Set(det)
}

// RecordClassifierCall records the outcome of an ensemble call.
func RecordClassifierCall(outcome string) {
	ClassifierCalls.WithLabelValues(outcome).Inc()
}

// SetClassifierBreakerState records a breaker state by its gobreaker name.
func SetClassifierBreakerState(state string) {
	setBreakerState(ClassifierBreakerState, state)
}

// SetPublisherBreakerState is SetClassifierBreakerState for the verdict
// publisher's breaker.
func SetPublisherBreakerState(state string) {
	setBreakerState(PublisherBreakerState, state)
}

func setBreakerState(g prometheus.Gauge, state string) {
	switch state {
	case "closed":
		g.Set(0)
	case "half-open":
		g.Set(1)
	case "open":
		g.Set(2)
	}
}

// RecordBlock records a block attempt.
func RecordBlock(inserted bool, err error) {
	switch {
	case err != nil:
		BlockOperations.WithLabelValues("error").Inc()
	case inserted:
		BlockOperations.WithLabelValues("inserted").Inc()
	default:
		BlockOperations.WithLabelValues("existing").Inc()
	}
}

// RecordBlockCacheLookup records a blocklist cache hit or miss.
func RecordBlockCacheLookup(hit bool) {
	if hit {
		BlockCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	BlockCacheLookups.WithLabelValues("miss").Inc()
}

// RecordSinkFailure records a failed append to the named sink.
func RecordSinkFailure(sink string) {
	SinkFailures.WithLabelValues(sink).Inc()
}

// RecordSinkDrops records n records dropped by the named buffered sink.
func RecordSinkDrops(sink string, n int) {
	SinkDrops.WithLabelValues(sink).Add(float64(n))
}

// RecordVerdictPublish records a verdict publish attempt.
func RecordVerdictPublish(err error) {
	if err != nil {
		VerdictPublishes.WithLabelValues("error").Inc()
		return
	}
	VerdictPublishes.WithLabelValues("success").Inc()
}

// UpdateQueueDepth sets the capture queue depth.
func UpdateQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

// RecordQueueDrop records one observation discarded by the capture queue.
func RecordQueueDrop() {
	QueueDropped.Inc()
}

// RecordCaptureEvent records a packet event received by a producer.
func RecordCaptureEvent(accepted bool) {
	if accepted {
		CaptureEvents.WithLabelValues("accepted").Inc()
		return
	}
	CaptureEvents.WithLabelValues("malformed").Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAlert records a webhook alert outcome.
func RecordAlert(outcome string) {
	AlertNotifications.WithLabelValues(outcome).Inc()
}

// UpdateWSConnections sets the live feed client count.
func UpdateWSConnections(n int) {
	WSConnections.Set(float64(n))
}
