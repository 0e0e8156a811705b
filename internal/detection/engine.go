// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package detection

// Engine applies the fusion rules. It has no mutable state.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates a fusion engine. Zero thresholds fall back to defaults.
func NewEngine(t Thresholds) *Engine {
	d := DefaultThresholds()
	if t.CriticalDET <= 0 {
		t.CriticalDET = d.CriticalDET
	}
	if t.HighConfidence <= 0 {
		t.HighConfidence = d.HighConfidence
	}
	return &Engine{thresholds: t}
}

// Thresholds returns the engine thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Fuse combines the DET percentage with the primary and secondary verdicts.
func (e *Engine) Fuse(det float64, primary, secondary ClassifierVerdict) Verdict {
	v := Verdict{DET: det, Primary: primary, Secondary: secondary}

	if det > e.thresholds.CriticalDET {
		return e.critical(v)
	}

	if primary.Label != LabelNormal || secondary.Label != LabelNormal {
		v.Malicious = true
		if primary.Label == secondary.Label {
			v.Rule = RuleClassifierAgree
			v.Label = primary.Label
			v.Confidence = (primary.Confidence + secondary.Confidence) / 2
		} else {
			v.Rule = RuleClassifierDisagree
			winner := primary
			if secondary.Confidence > primary.Confidence {
				winner = secondary
			}
			v.Label = winner.Label
			v.Confidence = winner.Confidence
		}
		v.ThreatLevel = e.threatLevel(v.Rule, v.Confidence)
		return v
	}

	v.Rule = RuleAllNormal
	v.Label = LabelNormal
	v.Confidence = (primary.Confidence + secondary.Confidence) / 2
	v.ThreatLevel = e.threatLevel(v.Rule, v.Confidence)
	return v
}

// FuseStructural is used when no classifier verdicts are available. Only the
// rqa_critical rule can mark the observation malicious.
func (e *Engine) FuseStructural(det float64) Verdict {
	v := Verdict{DET: det, Primary: UnknownVerdict, Secondary: UnknownVerdict}
	if det > e.thresholds.CriticalDET {
		return e.critical(v)
	}
	v.Rule = RuleStructuralOnly
	v.Label = LabelUnknown
	v.ThreatLevel = e.threatLevel(v.Rule, 0)
	return v
}

func (e *Engine) critical(v Verdict) Verdict {
	v.Rule = RuleRQACritical
	v.Label = LabelAnomalyRQA
	v.Malicious = true
	v.Confidence = CriticalConfidence
	v.ThreatLevel = e.threatLevel(v.Rule, v.Confidence)
	return v
}

// threatLevel is the only place severity is assigned.
func (e *Engine) threatLevel(rule Rule, confidence float64) ThreatLevel {
	switch rule {
	case RuleRQACritical:
		return ThreatCritical
	case RuleClassifierAgree, RuleClassifierDisagree:
		// Inclusive boundary.
		if confidence >= e.thresholds.HighConfidence {
			return ThreatHigh
		}
		return ThreatMedium
	default:
		return ThreatLow
	}
}
