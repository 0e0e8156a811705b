// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package simulate

import (
	"strings"
	"testing"
)

func TestGeneratorFlagsSimulated(t *testing.T) {
	g := New(Config{Seed: 1})
	for i := 0; i < 100; i++ {
		obs, _ := g.Next()
		if !obs.Simulated {
			t.Fatal("generated observation not flagged simulated")
		}
		if obs.ID == "" {
			t.Fatal("generated observation without ID")
		}
	}
}

func TestGeneratorRanges(t *testing.T) {
	g := New(Config{Seed: 42, MaliciousRatio: 0.5})
	for i := 0; i < 2000; i++ {
		obs, malicious := g.Next()
		if malicious {
			if obs.Bytes < 10000 || obs.Bytes > 1000000 {
				t.Fatalf("malicious src bytes %v out of range", obs.Bytes)
			}
			if c := obs.Features["count"]; c < 50 || c > 500 {
				t.Fatalf("malicious count %v out of range", c)
			}
		} else if obs.Bytes < 100 || obs.Bytes > 10000 {
			t.Fatalf("normal src bytes %v out of range", obs.Bytes)
		}
		if !strings.HasPrefix(obs.SourceAddr, "192.168.") || !strings.HasPrefix(obs.DestAddr, "10.0.") {
			t.Fatalf("unexpected addresses %s -> %s", obs.SourceAddr, obs.DestAddr)
		}
	}
}

func TestGeneratorRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		lo    int
		hi    int
	}{
		{"never", 0, 0, 0},
		{"always", 1, 1000, 1000},
		{"default", DefaultMaliciousRatio, 100, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Config{Seed: 7, MaliciousRatio: tt.ratio})
			n := 0
			for i := 0; i < 1000; i++ {
				if _, m := g.Next(); m {
					n++
				}
			}
			if n < tt.lo || n > tt.hi {
				t.Errorf("malicious count %d not in [%d, %d]", n, tt.lo, tt.hi)
			}
		})
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	a, b := New(Config{Seed: 99}), New(Config{Seed: 99})
	for i := 0; i < 50; i++ {
		x, _ := a.Next()
		y, _ := b.Next()
		if x.Bytes != y.Bytes || x.SourceAddr != y.SourceAddr || x.Service != y.Service {
			t.Fatalf("sequences diverged at %d", i)
		}
	}
}
