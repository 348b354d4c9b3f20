// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultStartTimeout = 60 * time.Second

var (
	dockerOnce sync.Once
	dockerErr  error
)

// SkipIfNoDocker skips t when no Docker daemon answers. The probe runs
// once per test binary.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()
	if err := dockerHealth(); err != nil {
		t.Skipf("Skipping test: Docker not available: %v", err)
	}
}

func dockerHealth() error {
	dockerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		provider, err := testcontainers.NewDockerProvider()
		if err != nil {
			dockerErr = err
			return
		}
		defer provider.Close() //nolint:errcheck
		dockerErr = provider.Health(ctx)
	})
	return dockerErr
}

// CleanupContainer terminates c, logging rather than failing on error.
func CleanupContainer(t *testing.T, ctx context.Context, c testcontainers.Container) {
	t.Helper()
	if c == nil {
		return
	}
	if err := c.Terminate(ctx); err != nil {
		t.Logf("Warning: failed to terminate container: %v", err)
	}
}

// Option configures a test container.
type Option func(*startOptions)

type startOptions struct {
	image        string
	startTimeout time.Duration
}

// WithImage overrides the image, e.g. to pin the production server version.
func WithImage(image string) Option {
	return func(o *startOptions) { o.image = image }
}

// WithStartTimeout bounds how long to wait for the readiness log line.
func WithStartTimeout(timeout time.Duration) Option {
	return func(o *startOptions) { o.startTimeout = timeout }
}

// applyOptions resolves the image as: option, then the env var named by
// imageEnv, then def.
func applyOptions(def, imageEnv string, opts []Option) *startOptions {
	o := &startOptions{image: def, startTimeout: defaultStartTimeout}
	if imageEnv != "" {
		if img := os.Getenv(imageEnv); img != "" {
			o.image = img
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// serviceSpec describes a single-port server container.
type serviceSpec struct {
	name     string // for error messages
	port     string // e.g. "27017/tcp"
	scheme   string // endpoint scheme, e.g. "mongodb"
	readyLog string
	cmd      []string
}

// startService runs spec and returns the container with its endpoint,
// "scheme://host:port".
func startService(ctx context.Context, spec serviceSpec, o *startOptions) (testcontainers.Container, string, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        o.image,
			ExposedPorts: []string{spec.port},
			Cmd:          spec.cmd,
			WaitingFor: wait.ForAll(
				wait.ForLog(spec.readyLog),
				wait.ForListeningPort(spec.port),
			).WithStartupTimeout(o.startTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("create %s container: %w", spec.name, err)
	}

	endpoint, err := c.PortEndpoint(ctx, spec.port, spec.scheme)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("get %s endpoint: %w", spec.name, err)
	}
	return c, endpoint, nil
}
