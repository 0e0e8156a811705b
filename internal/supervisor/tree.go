// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/tomtom215/rqaguard/internal/config"
)

// Layer names one child supervisor. Failures in one layer back off that
// layer only.
type Layer string

const (
	// LayerCapture holds producers: the capture feed and the embedded broker.
	LayerCapture Layer = "capture"
	// LayerDetection holds the pipeline consumer and the verdict fan-out.
	LayerDetection Layer = "detection"
	// LayerAPI holds the HTTP server.
	LayerAPI Layer = "api"
)

// layerOrder is the order layers are added to the root, and so started.
var layerOrder = [...]Layer{LayerCapture, LayerDetection, LayerAPI}

// TreeConfig tunes suture's restart backoff. Zero fields take defaults.
type TreeConfig struct {
	FailureThreshold float64       // failures before backoff (5)
	FailureDecay     float64       // seconds for the failure count to decay (30)
	FailureBackoff   time.Duration // pause once the threshold is hit (15s)
	ShutdownTimeout  time.Duration // per-service stop budget (10s)
}

func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// TreeConfigFrom maps the supervisor config section.
func TreeConfigFrom(cfg config.SupervisorConfig) TreeConfig {
	return TreeConfig{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		ShutdownTimeout:  cfg.ShutdownTimeout,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the process root: one suture supervisor per Layer under
// a root that only restarts layers.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	config TreeConfig

	mu    sync.Mutex
	names map[Layer][]string
}

// NewSupervisorTree builds the tree. Supervisor events go to logger through
// sutureslog.
func NewSupervisorTree(logger *slog.Logger, cfg TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, fmt.Errorf("supervisor: nil logger")
	}
	cfg = cfg.withDefaults()

	rootSpec := cfg.spec()
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root:   suture.New("rqaguard", rootSpec),
		layers: make(map[Layer]*suture.Supervisor, len(layerOrder)),
		config: cfg,
		names:  make(map[Layer][]string, len(layerOrder)),
	}
	// Child supervisors pick up the root's event hook when added.
	for _, l := range layerOrder {
		child := suture.New(string(l)+"-layer", cfg.spec())
		t.layers[l] = child
		t.root.Add(child)
	}
	return t, nil
}

// Config returns the configuration after defaults.
func (t *SupervisorTree) Config() TreeConfig {
	return t.config
}

// Add places svc under layer. Adding to an unknown layer panics; layers are
// fixed at construction.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	sup, ok := t.layers[layer]
	if !ok {
		panic(fmt.Sprintf("supervisor: unknown layer %q", layer))
	}
	t.mu.Lock()
	t.names[layer] = append(t.names[layer], fmt.Sprint(svc))
	t.mu.Unlock()
	return sup.Add(svc)
}

func (t *SupervisorTree) AddCaptureService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerCapture, svc)
}

func (t *SupervisorTree) AddDetectionService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerDetection, svc)
}

func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerAPI, svc)
}

// Services lists the names of the services added to each layer, in the
// order they were added.
func (t *SupervisorTree) Services() map[Layer][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Layer][]string, len(t.names))
	for l, names := range t.names {
		out[l] = append([]string(nil), names...)
	}
	return out
}

// Serve blocks until ctx is done.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree in a goroutine. The channel receives one
// value, the result of Serve, and is never closed.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
