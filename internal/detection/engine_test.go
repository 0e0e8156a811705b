// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package detection

import (
	"math"
	"testing"
)

func verdict(l Label, c float64) ClassifierVerdict {
	return ClassifierVerdict{Label: l, Confidence: c}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine(Thresholds{})
	if e.Thresholds() != DefaultThresholds() {
		t.Errorf("expected default thresholds, got %+v", e.Thresholds())
	}
}

func TestEngine_Fuse(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	tests := []struct {
		name          string
		det           float64
		primary       ClassifierVerdict
		secondary     ClassifierVerdict
		wantLabel     Label
		wantMalicious bool
		wantConf      float64
		wantThreat    ThreatLevel
		wantRule      Rule
	}{
		{
			name:          "critical DET overrides classifiers",
			det:           95,
			primary:       verdict(LabelNormal, 0.99),
			secondary:     verdict(LabelNormal, 0.99),
			wantLabel:     LabelAnomalyRQA,
			wantMalicious: true,
			wantConf:      0.95,
			wantThreat:    ThreatCritical,
			wantRule:      RuleRQACritical,
		},
		{
			name:          "critical DET with disagreeing classifiers",
			det:           90.1,
			primary:       verdict(LabelDoS, 0.2),
			secondary:     verdict(LabelProbe, 0.3),
			wantLabel:     LabelAnomalyRQA,
			wantMalicious: true,
			wantConf:      0.95,
			wantThreat:    ThreatCritical,
			wantRule:      RuleRQACritical,
		},
		{
			name:          "DET equal to threshold is not critical",
			det:           90,
			primary:       verdict(LabelNormal, 0.6),
			secondary:     verdict(LabelNormal, 0.8),
			wantLabel:     LabelNormal,
			wantMalicious: false,
			wantConf:      0.7,
			wantThreat:    ThreatLow,
			wantRule:      RuleAllNormal,
		},
		{
			name:          "agreeing classifiers average confidence",
			det:           0,
			primary:       verdict(LabelDoS, 0.9),
			secondary:     verdict(LabelDoS, 0.7),
			wantLabel:     LabelDoS,
			wantMalicious: true,
			wantConf:      0.8,
			wantThreat:    ThreatHigh,
			wantRule:      RuleClassifierAgree,
		},
		{
			name:          "agreeing classifiers with low confidence are Medium",
			det:           10,
			primary:       verdict(LabelR2L, 0.5),
			secondary:     verdict(LabelR2L, 0.6),
			wantLabel:     LabelR2L,
			wantMalicious: true,
			wantConf:      0.55,
			wantThreat:    ThreatMedium,
			wantRule:      RuleClassifierAgree,
		},
		{
			name:          "malicious flag with Normal label from more confident secondary",
			det:           0,
			primary:       verdict(LabelProbe, 0.6),
			secondary:     verdict(LabelNormal, 0.9),
			wantLabel:     LabelNormal,
			wantMalicious: true,
			wantConf:      0.9,
			wantThreat:    ThreatHigh,
			wantRule:      RuleClassifierDisagree,
		},
		{
			name:          "more confident primary wins",
			det:           0,
			primary:       verdict(LabelU2R, 0.85),
			secondary:     verdict(LabelProbe, 0.4),
			wantLabel:     LabelU2R,
			wantMalicious: true,
			wantConf:      0.85,
			wantThreat:    ThreatHigh,
			wantRule:      RuleClassifierDisagree,
		},
		{
			name:          "disagreement won at exactly the high threshold is High",
			det:           0,
			primary:       verdict(LabelProbe, 0.3),
			secondary:     verdict(LabelDoS, 0.8),
			wantLabel:     LabelDoS,
			wantMalicious: true,
			wantConf:      0.8,
			wantThreat:    ThreatHigh,
			wantRule:      RuleClassifierDisagree,
		},
		{
			name:          "tie prefers primary",
			det:           0,
			primary:       verdict(LabelDoS, 0.7),
			secondary:     verdict(LabelProbe, 0.7),
			wantLabel:     LabelDoS,
			wantMalicious: true,
			wantConf:      0.7,
			wantThreat:    ThreatMedium,
			wantRule:      RuleClassifierDisagree,
		},
		{
			name:          "tie prefers primary even when it is Normal",
			det:           0,
			primary:       verdict(LabelNormal, 0.5),
			secondary:     verdict(LabelDoS, 0.5),
			wantLabel:     LabelNormal,
			wantMalicious: true,
			wantConf:      0.5,
			wantThreat:    ThreatMedium,
			wantRule:      RuleClassifierDisagree,
		},
		{
			name:          "both Unknown is malicious",
			det:           0,
			primary:       UnknownVerdict,
			secondary:     UnknownVerdict,
			wantLabel:     LabelUnknown,
			wantMalicious: true,
			wantConf:      0,
			wantThreat:    ThreatMedium,
			wantRule:      RuleClassifierAgree,
		},
		{
			name:          "all normal",
			det:           45.5,
			primary:       verdict(LabelNormal, 0.9),
			secondary:     verdict(LabelNormal, 0.95),
			wantLabel:     LabelNormal,
			wantMalicious: false,
			wantConf:      0.925,
			wantThreat:    ThreatLow,
			wantRule:      RuleAllNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Fuse(tt.det, tt.primary, tt.secondary)
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %s, want %s", got.Label, tt.wantLabel)
			}
			if got.Malicious != tt.wantMalicious {
				t.Errorf("Malicious = %v, want %v", got.Malicious, tt.wantMalicious)
			}
			if !approx(got.Confidence, tt.wantConf) {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if got.ThreatLevel != tt.wantThreat {
				t.Errorf("ThreatLevel = %s, want %s", got.ThreatLevel, tt.wantThreat)
			}
			if got.Rule != tt.wantRule {
				t.Errorf("Rule = %s, want %s", got.Rule, tt.wantRule)
			}
			if got.Primary != tt.primary || got.Secondary != tt.secondary {
				t.Error("verdict must carry its classifier inputs")
			}
		})
	}
}

func TestEngine_Fuse_CriticalIsExact(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	for _, l := range ClassifierLabels {
		got := e.Fuse(95, verdict(l, 0.1), verdict(LabelDoS, 1))
		if got.Confidence != 0.95 {
			t.Errorf("label %s: confidence = %v, want exactly 0.95", l, got.Confidence)
		}
		if got.ThreatLevel != ThreatCritical || !got.Malicious {
			t.Errorf("label %s: expected malicious Critical, got %+v", l, got)
		}
	}
}

func TestEngine_Fuse_Deterministic(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	a := e.Fuse(12, verdict(LabelProbe, 0.6), verdict(LabelNormal, 0.9))
	b := e.Fuse(12, verdict(LabelProbe, 0.6), verdict(LabelNormal, 0.9))
	if a != b {
		t.Errorf("expected identical verdicts, got %+v and %+v", a, b)
	}
}

func TestEngine_FuseStructural(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	t.Run("critical DET still fires", func(t *testing.T) {
		got := e.FuseStructural(97.2)
		if !got.Malicious || got.ThreatLevel != ThreatCritical || got.Label != LabelAnomalyRQA {
			t.Errorf("unexpected verdict %+v", got)
		}
	})

	t.Run("otherwise neutral", func(t *testing.T) {
		got := e.FuseStructural(40)
		if got.Malicious {
			t.Error("structural-only verdict must not be malicious")
		}
		if got.Label != LabelUnknown || got.Confidence != 0 || got.ThreatLevel != ThreatLow {
			t.Errorf("unexpected verdict %+v", got)
		}
		if got.Rule != RuleStructuralOnly {
			t.Errorf("Rule = %s, want %s", got.Rule, RuleStructuralOnly)
		}
	})
}

func TestEngine_CustomThresholds(t *testing.T) {
	e := NewEngine(Thresholds{CriticalDET: 50, HighConfidence: 0.95})

	if got := e.Fuse(60, verdict(LabelNormal, 1), verdict(LabelNormal, 1)); got.ThreatLevel != ThreatCritical {
		t.Errorf("expected Critical above custom DET threshold, got %s", got.ThreatLevel)
	}
	if got := e.Fuse(0, verdict(LabelDoS, 0.9), verdict(LabelDoS, 0.9)); got.ThreatLevel != ThreatMedium {
		t.Errorf("expected Medium below custom confidence threshold, got %s", got.ThreatLevel)
	}
}
