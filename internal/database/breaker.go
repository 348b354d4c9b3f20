// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/fashintel/internal/metrics"
)

// BreakerPolicy decides when the catalog breaker opens and how long it
// stays open. Zero fields take the defaults below.
type BreakerPolicy struct {
	MinRequests  uint32        // requests in a window before tripping is considered, default 10
	FailureRatio float64       // storage failures / requests that trips, default 0.6
	Window       time.Duration // closed-state counting window, default 1m
	OpenFor      time.Duration // time spent open before probing, default 2m
	Probes       uint32        // requests allowed while half-open, default 3
}

func (p BreakerPolicy) withDefaults() BreakerPolicy {
	if p.MinRequests == 0 {
		p.MinRequests = 10
	}
	if p.FailureRatio <= 0 || p.FailureRatio > 1 {
		p.FailureRatio = 0.6
	}
	if p.Window <= 0 {
		p.Window = time.Minute
	}
	if p.OpenFor <= 0 {
		p.OpenFor = 2 * time.Minute
	}
	if p.Probes == 0 {
		p.Probes = 3
	}
	return p
}

func (p BreakerPolicy) trips(c gobreaker.Counts) (float64, bool) {
	if c.Requests < p.MinRequests {
		return 0, false
	}
	ratio := float64(c.TotalFailures) / float64(c.Requests)
	return ratio, ratio >= p.FailureRatio
}

// Breaker guards catalog reads so a failing MongoDB is rejected quickly
// instead of every request waiting out the driver timeouts.
//
// Only storage-unavailable errors count as failures. Not-found results and
// query errors leave the breaker closed.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

// NewBreaker creates a breaker named name.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreaker(name string, policy BreakerPolicy, logger zerolog.Logger) *Breaker {
	policy = policy.withDefaults()
	b := &Breaker{
		name:   name,
		logger: logger.With().Str("circuit_breaker", name).Logger(),
	}
	metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(gobreaker.StateClosed))

	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: policy.Probes,
		Interval:    policy.Window,
		Timeout:     policy.OpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			ratio, trip := policy.trips(c)
			if trip {
				b.logger.Warn().
					Uint32("requests", c.Requests).
					Uint32("failures", c.TotalFailures).
					Float64("failure_ratio", ratio).
					Msg("Catalog store failing, opening circuit")
			}
			return trip
		},
		IsSuccessful:  countsAsSuccess,
		OnStateChange: b.transition,
	})
	return b
}

// countsAsSuccess keeps caller mistakes and misses out of the failure count.
func countsAsSuccess(err error) bool {
	return err == nil || !IsStorageUnavailable(classify(err))
}

func (b *Breaker) transition(name string, from, to gobreaker.State) {
	f, t := from.String(), to.String()
	b.logger.Info().Str("from", f).Str("to", t).Msg("Circuit breaker state change")
	metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
	metrics.CircuitBreakerTransitions.WithLabelValues(name, f, t).Inc()
}

// State returns the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		b.logger.Debug().Err(err).Msg("Catalog read rejected")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	default:
		outcome = "failure"
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, outcome).Inc()
	return result, err
}

// guarded runs fn through b. A nil breaker runs fn directly.
func guarded[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	var zero T
	result, err := b.execute(func() (any, error) { return fn() })
	if err != nil || result == nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker %s: unexpected result type %T", b.name, result)
	}
	return typed, nil
}

// stateToFloat is the gauge value: 0 closed, 1 half-open, 2 open.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return -1
}
