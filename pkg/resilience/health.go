package resilience

import (
	"context"
	"sync/atomic"
	"time"
)

// ProbeFunc performs one lightweight liveness check.
type ProbeFunc func(ctx context.Context) error

// HealthMonitor keeps a boolean healthy flag for the generative backend so
// the UI can pre-warn the user instead of waiting for an in-flight failure.
// The flag starts pessimistic and flips on the first successful probe.
type HealthMonitor struct {
	probe    ProbeFunc
	interval time.Duration
	timeout  time.Duration
	healthy  atomic.Bool
}

func NewHealthMonitor(probe ProbeFunc, interval, timeout time.Duration) *HealthMonitor {
	return &HealthMonitor{
		probe:    probe,
		interval: interval,
		timeout:  timeout,
	}
}

// Start probes immediately and then on every tick until ctx is done.
// Intended to run as a background goroutine from the container.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs one on-demand probe and updates the flag.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ok := m.probe(probeCtx) == nil
	m.healthy.Store(ok)
	return ok
}

// Healthy reports the last observed backend state.
func (m *HealthMonitor) Healthy() bool {
	return m.healthy.Load()
}
