// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package simulate synthesizes traffic observations for demos and for the
// pipeline's idle fallback. Every observation it produces is flagged
// Simulated so that statistics and sinks can keep it apart from captured
// traffic.
package simulate

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/rqaguard/internal/models"
)

// DefaultMaliciousRatio is the share of generated observations shaped like
// an attack.
const DefaultMaliciousRatio = 0.15

var (
	protocols = []string{models.ProtocolTCP, models.ProtocolUDP, models.ProtocolICMP}
	services  = []string{"http", "ftp", "smtp", "telnet", "ssh", "domain", "private"}
	flags     = []string{"SF", "S0", "REJ", "RSTR", "SH"}
)

// Config configures the generator.
type Config struct {
	// MaliciousRatio is the probability in [0,1] of an attack-shaped sample.
	// Default: 0.15
	MaliciousRatio float64

	// Seed makes the sequence reproducible. Zero seeds from the clock.
	Seed uint64
}

// Generator produces synthetic observations. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	ratio float64
	now   func() time.Time
}

// New creates a generator.
func New(cfg Config) *Generator {
	if cfg.MaliciousRatio < 0 || cfg.MaliciousRatio > 1 {
		cfg.MaliciousRatio = DefaultMaliciousRatio
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ratio: cfg.MaliciousRatio,
		now:   time.Now,
	}
}

// Next returns one synthetic observation and whether it was shaped like an
// attack. The shape is ground truth for demos only; detection never sees it.
func (g *Generator) Next() (models.Observation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	malicious := g.rng.Float64() < g.ratio

	var f map[string]float64
	var srcBytes float64
	if malicious {
		srcBytes = float64(g.between(10000, 1000000))
		f = map[string]float64{
			"duration":           float64(g.between(100, 5000)),
			"dst_bytes":          float64(g.between(0, 1000)),
			"wrong_fragment":     float64(g.between(1, 3)),
			"urgent":             float64(g.between(0, 2)),
			"hot":                float64(g.between(5, 20)),
			"num_failed_logins":  float64(g.between(1, 5)),
			"num_compromised":    float64(g.between(1, 10)),
			"num_root":           float64(g.between(1, 5)),
			"num_file_creations": float64(g.between(0, 3)),
			"count":              float64(g.between(50, 500)),
			"srv_count":          float64(g.between(1, 50)),
		}
	} else {
		srcBytes = float64(g.between(100, 10000))
		f = map[string]float64{
			"duration":  float64(g.between(0, 100)),
			"dst_bytes": float64(g.between(100, 10000)),
			"hot":       float64(g.between(0, 2)),
			"count":     float64(g.between(1, 10)),
			"srv_count": float64(g.between(1, 10)),
		}
	}
	f["same_srv_rate"] = 1
	f["dst_host_count"] = float64(g.between(1, 255))
	f["dst_host_srv_count"] = float64(g.between(1, 255))
	f["dst_host_same_srv_rate"] = 1

	obs := models.Observation{
		ID:         uuid.NewString(),
		Timestamp:  g.now().UTC(),
		SourceAddr: fmt.Sprintf("192.168.%d.%d", g.between(1, 254), g.between(1, 254)),
		DestAddr:   fmt.Sprintf("10.0.%d.%d", g.between(1, 254), g.between(1, 254)),
		Protocol:   protocols[g.rng.IntN(len(protocols))],
		Service:    services[g.rng.IntN(len(services))],
		Flag:       flags[g.rng.IntN(len(flags))],
		Bytes:      srcBytes,
		Features:   f,
		Simulated:  true,
	}
	return obs, malicious
}

// between returns a uniform integer in [lo, hi]. Caller holds g.mu.
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}
