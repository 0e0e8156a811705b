// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package detection

import (
	"math"
	"testing"
)

func TestParseLabel(t *testing.T) {
	tests := map[string]Label{
		"Normal":       LabelNormal,
		"dos":          LabelDoS,
		" PROBE ":      LabelProbe,
		"r2l":          LabelR2L,
		"U2R":          LabelU2R,
		"unknown":      LabelUnknown,
		"":             LabelUnknown,
		"neptune":      LabelUnknown,
		"Anomaly(RQA)": LabelUnknown,
	}
	for in, want := range tests {
		if got := ParseLabel(in); got != want {
			t.Errorf("ParseLabel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLabelFromIndex(t *testing.T) {
	if LabelFromIndex(1) != LabelDoS {
		t.Errorf("index 1 should be DoS")
	}
	if LabelFromIndex(-1) != LabelUnknown || LabelFromIndex(42) != LabelUnknown {
		t.Error("out of range indices should map to Unknown")
	}
}

func TestClassifierVerdict_Normalize(t *testing.T) {
	tests := []struct {
		in   ClassifierVerdict
		want ClassifierVerdict
	}{
		{ClassifierVerdict{"dos", 0.5}, ClassifierVerdict{LabelDoS, 0.5}},
		{ClassifierVerdict{"Probe", 1.7}, ClassifierVerdict{LabelProbe, 1}},
		{ClassifierVerdict{"x", -0.2}, ClassifierVerdict{LabelUnknown, 0}},
		{ClassifierVerdict{"Normal", math.NaN()}, ClassifierVerdict{LabelNormal, 0}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
