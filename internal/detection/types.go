// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package detection

import (
	"math"
	"strings"
)

// Label is a classifier or fused traffic label.
type Label string

const (
	LabelNormal  Label = "Normal"
	LabelDoS     Label = "DoS"
	LabelProbe   Label = "Probe"
	LabelR2L     Label = "R2L"
	LabelU2R     Label = "U2R"
	LabelUnknown Label = "Unknown"

	// LabelAnomalyRQA is produced only by the rqa_critical rule.
	LabelAnomalyRQA Label = "Anomaly(RQA)"
)

// ClassifierLabels lists the closed set of labels a classifier may return,
// in the index order used by model-serving backends.
var ClassifierLabels = []Label{LabelNormal, LabelDoS, LabelProbe, LabelR2L, LabelU2R, LabelUnknown}

// ParseLabel maps a classifier label string to a Label.
// Matching is case-insensitive; anything outside the closed set is Unknown.
func ParseLabel(s string) Label {
	s = strings.TrimSpace(s)
	for _, l := range ClassifierLabels {
		if strings.EqualFold(s, string(l)) {
			return l
		}
	}
	return LabelUnknown
}

// LabelFromIndex maps a class index to a Label, clamping out-of-range indices
// to Unknown.
func LabelFromIndex(i int) Label {
	if i < 0 || i >= len(ClassifierLabels) {
		return LabelUnknown
	}
	return ClassifierLabels[i]
}

// ThreatLevel is the ordinal severity of a verdict.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "Low"
	ThreatMedium   ThreatLevel = "Medium"
	ThreatHigh     ThreatLevel = "High"
	ThreatCritical ThreatLevel = "Critical"
)

// ThreatLevels lists all threat levels in ascending severity.
var ThreatLevels = []ThreatLevel{ThreatLow, ThreatMedium, ThreatHigh, ThreatCritical}

// Rule identifies the fusion rule that produced a verdict.
type Rule string

const (
	RuleRQACritical        Rule = "rqa_critical"
	RuleClassifierAgree    Rule = "classifier_agree"
	RuleClassifierDisagree Rule = "classifier_disagree"
	RuleAllNormal          Rule = "all_normal"
	RuleStructuralOnly     Rule = "structural_only"
)

// ClassifierVerdict is one classifier's opinion about an observation.
type ClassifierVerdict struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Normalize returns a copy with the label mapped into the closed set and the
// confidence clamped to [0,1]. NaN confidence becomes 0.
func (v ClassifierVerdict) Normalize() ClassifierVerdict {
	v.Label = ParseLabel(string(v.Label))
	switch {
	case math.IsNaN(v.Confidence) || v.Confidence < 0:
		v.Confidence = 0
	case v.Confidence > 1:
		v.Confidence = 1
	}
	return v
}

// UnknownVerdict is the neutral verdict substituted when scoring fails.
var UnknownVerdict = ClassifierVerdict{Label: LabelUnknown, Confidence: 0}

// Verdict is the fused detection outcome for one observation.
type Verdict struct {
	Label       Label       `json:"label"`
	Malicious   bool        `json:"is_malicious"`
	Confidence  float64     `json:"confidence"`
	ThreatLevel ThreatLevel `json:"threat_level"`
	Rule        Rule        `json:"rule"`

	// Inputs, carried for logging.
	DET       float64           `json:"rqa_det"`
	Primary   ClassifierVerdict `json:"primary"`
	Secondary ClassifierVerdict `json:"secondary"`
}

// Thresholds configures the fusion rules.
type Thresholds struct {
	// CriticalDET is the DET percentage above which rqa_critical fires.
	// Default: 90
	CriticalDET float64

	// HighConfidence is the confidence at or above which a classifier-driven
	// malicious verdict is High rather than Medium.
	// Default: 0.8
	HighConfidence float64
}

// DefaultThresholds returns the default fusion thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalDET:    90,
		HighConfidence: 0.8,
	}
}

// CriticalConfidence is the fixed confidence of rqa_critical verdicts.
const CriticalConfidence = 0.95
