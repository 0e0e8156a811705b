// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/rqaguard/internal/blocklist"
	"github.com/tomtom215/rqaguard/internal/classifier"
	"github.com/tomtom215/rqaguard/internal/detection"
	"github.com/tomtom215/rqaguard/internal/features"
	"github.com/tomtom215/rqaguard/internal/logging"
	"github.com/tomtom215/rqaguard/internal/metrics"
	"github.com/tomtom215/rqaguard/internal/models"
	"github.com/tomtom215/rqaguard/internal/rqa"
)

// Classifier call outcomes, used as metric labels.
const (
	OutcomeOK          = "ok"
	OutcomePartial     = "partial"
	OutcomeUnavailable = "unavailable"
)

// Deps are the collaborators of a Pipeline. Registry is required; the
// others fall back to defaults when nil.
type Deps struct {
	Analyzer *rqa.Analyzer
	Encoder  *features.Encoder
	Ensemble classifier.Ensemble
	Engine   *detection.Engine
	Registry blocklist.Registry
	Sink     LogSink
}

// Pipeline processes observations one at a time.
type Pipeline struct {
	// mu serializes Process; the analyzer window is not safe for concurrent use.
	mu sync.Mutex

	analyzer *rqa.Analyzer
	encoder  *features.Encoder
	ensemble classifier.Ensemble
	engine   *detection.Engine
	registry blocklist.Registry
	sink     LogSink
	stats    *StatsTracker
	now      func() time.Time
}

// New builds a pipeline from d.
func New(d Deps) (*Pipeline, error) {
	if d.Registry == nil {
		return nil, ErrNoRegistry
	}
	p := &Pipeline{
		analyzer: d.Analyzer,
		encoder:  d.Encoder,
		ensemble: d.Ensemble,
		engine:   d.Engine,
		registry: d.Registry,
		sink:     d.Sink,
		stats:    NewStatsTracker(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	if p.analyzer == nil {
		p.analyzer = rqa.New(rqa.DefaultConfig())
	}
	if p.encoder == nil {
		p.encoder = features.NewEncoder()
	}
	if p.ensemble == nil {
		p.ensemble = classifier.Unavailable{}
	}
	if p.engine == nil {
		p.engine = detection.NewEngine(detection.DefaultThresholds())
	}
	if p.sink == nil {
		p.sink = DiscardSink{}
	}
	return p, nil
}

// Stats returns in-memory totals for records processed by this pipeline.
func (p *Pipeline) Stats() models.Stats {
	return p.stats.Snapshot()
}

// Window returns a copy of the current recurrence window.
func (p *Pipeline) Window() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.analyzer.Window()
}

// Process runs one observation through the pipeline and returns its verdict.
// It never fails: classifier, registry and sink errors degrade or are logged.
func (p *Pipeline) Process(ctx context.Context, obs models.Observation) detection.Verdict {
	start := time.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if obs.ID == "" {
		obs.ID = uuid.NewString()
	}
	if obs.Timestamp.IsZero() {
		obs.Timestamp = p.now()
	}
	ctx = logging.ContextWithObservationID(ctx, obs.ID)

	p.analyzer.Add(obs.Bytes)
	m := p.analyzer.ComputeMetrics()
	obs.RR, obs.DET = m.RR, m.DET
	metrics.UpdateRQA(m.RR, m.DET)

	verdict, degraded := p.fuse(ctx, &obs)
	blocked := p.block(ctx, obs.SourceAddr, &verdict)

	rec := newLogRecord(&obs, &verdict, blocked, degraded)
	if err := p.sink.Append(ctx, rec); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Log sink append failed")
	}

	p.stats.Record(&rec)
	metrics.RecordVerdict(string(verdict.Label), string(verdict.ThreatLevel), string(verdict.Rule), degraded)
	metrics.RecordObservation(obs.Source(), time.Since(start))

	if verdict.Malicious {
		logging.Ctx(ctx).Info().
			Str("src", obs.SourceAddr).
			Str("label", string(verdict.Label)).
			Str("threat_level", string(verdict.ThreatLevel)).
			Str("rule", string(verdict.Rule)).
			Float64("det", obs.DET).
			Bool("simulated", obs.Simulated).
			Msg("Malicious traffic detected")
	}
	return verdict
}

// fuse scores the observation and applies the fusion rules. The second
// result reports whether the structural-only fallback was used.
func (p *Pipeline) fuse(ctx context.Context, obs *models.Observation) (detection.Verdict, bool) {
	res, err := p.ensemble.Score(ctx, p.encoder.Encode(obs))
	switch {
	case err == nil:
		metrics.RecordClassifierCall(OutcomeOK)
		return p.engine.Fuse(obs.DET, res.Primary, res.Secondary), false

	case errors.Is(err, classifier.ErrSecondaryUnavailable):
		metrics.RecordClassifierCall(OutcomePartial)
		return p.engine.Fuse(obs.DET, res.Primary, res.Primary), false

	default:
		metrics.RecordClassifierCall(OutcomeUnavailable)
		logging.Ctx(ctx).Debug().Err(err).Msg("Classifier unavailable, structural verdict only")
		return p.engine.FuseStructural(obs.DET), true
	}
}

// block blocks addr when the verdict is malicious and reports whether addr
// is blocked after the call.
func (p *Pipeline) block(ctx context.Context, addr string, v *detection.Verdict) bool {
	if !v.Malicious {
		return false
	}

	inserted, err := p.registry.Block(ctx, addr, string(v.Label))
	metrics.RecordBlock(inserted, err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("src", addr).Msg("Block failed")
		// The address may have been blocked by an earlier observation.
		blocked, lookupErr := p.registry.IsBlocked(ctx, addr)
		return lookupErr == nil && blocked
	}
	if inserted {
		logging.Ctx(ctx).Warn().
			Str("src", addr).
			Str("reason", string(v.Label)).
			Msg("Source blocked")
	}
	return true
}

func newLogRecord(obs *models.Observation, v *detection.Verdict, blocked, degraded bool) models.LogRecord {
	return models.LogRecord{
		ID:                  obs.ID,
		Timestamp:           obs.Timestamp,
		SourceAddr:          obs.SourceAddr,
		DestAddr:            obs.DestAddr,
		Protocol:            obs.Protocol,
		Service:             obs.Service,
		Bytes:               obs.Bytes,
		Label:               string(v.Label),
		Malicious:           v.Malicious,
		Confidence:          v.Confidence,
		ThreatLevel:         string(v.ThreatLevel),
		Rule:                string(v.Rule),
		PrimaryLabel:        string(v.Primary.Label),
		PrimaryConfidence:   v.Primary.Confidence,
		SecondaryLabel:      string(v.Secondary.Label),
		SecondaryConfidence: v.Secondary.Confidence,
		RR:                  obs.RR,
		DET:                 obs.DET,
		Blocked:             blocked,
		Simulated:           obs.Simulated,
		Degraded:            degraded,
	}
}
