// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a child supervisor of the root.
type Layer string

// Layers, in the order they are added to the root.
const (
	LayerData  Layer = "data-layer"  // dataset ingestion
	LayerModel Layer = "model-layer" // artifact reloading
	LayerAPI   Layer = "api-layer"   // HTTP server
)

var layers = [...]Layer{LayerData, LayerModel, LayerAPI}

// TreeConfig tunes restart behaviour. It applies to the root and every
// layer.
type TreeConfig struct {
	FailureThreshold float64       // failures before backoff, default 5
	FailureDecay     float64       // seconds for the failure count to decay, default 30
	FailureBackoff   time.Duration // pause once over the threshold, default 15s
	ShutdownTimeout  time.Duration // per-service stop deadline, default 10s
}

// DefaultTreeConfig matches suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
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

// SupervisorTree isolates the server's long-running services by layer so
// a restart loop in ingestion or reloading never takes the HTTP listener
// down with it.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	config TreeConfig

	mu       sync.Mutex
	services map[Layer][]string
}

// NewSupervisorTree builds the root "fashintel" and its three layers.
// Supervisor events go to logger. Zero config fields take defaults.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, fmt.Errorf("supervisor tree: nil logger")
	}
	config = config.withDefaults()

	rootSpec := config.spec()
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root:     suture.New("fashintel", rootSpec),
		layers:   make(map[Layer]*suture.Supervisor, len(layers)),
		config:   config,
		services: make(map[Layer][]string, len(layers)),
	}
	// Layers inherit the root's event hook when added.
	for _, l := range layers {
		sup := suture.New(string(l), config.spec())
		t.layers[l] = sup
		t.root.Add(sup)
	}
	return t, nil
}

// Add starts svc under layer, or queues it until Serve if the tree is not
// running yet. It panics on an unknown layer.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	sup, ok := t.layers[layer]
	if !ok {
		panic(fmt.Sprintf("supervisor: unknown layer %q", layer))
	}
	t.mu.Lock()
	t.services[layer] = append(t.services[layer], serviceName(svc))
	t.mu.Unlock()
	return sup.Add(svc)
}

// Remove stops and removes a service added with Add.
func (t *SupervisorTree) Remove(layer Layer, token suture.ServiceToken) error {
	sup, ok := t.layers[layer]
	if !ok {
		return fmt.Errorf("supervisor: unknown layer %q", layer)
	}
	return sup.Remove(token)
}

// Services lists the names registered per layer, for startup logs.
func (t *SupervisorTree) Services() map[Layer][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Layer][]string, len(t.services))
	for l, names := range t.services {
		out[l] = append([]string(nil), names...)
	}
	return out
}

// ServeBackground runs the tree until ctx is canceled. The channel
// receives exactly one value and is never closed; read it once.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived ShutdownTimeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

func serviceName(svc suture.Service) string {
	if s, ok := svc.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", svc)
}
