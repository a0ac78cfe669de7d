// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package admission

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/fleetscope/fleetscope/pkg/errors"
)

const (
	// DefaultMaxConcurrent is the global cap on in-flight collections.
	DefaultMaxConcurrent = 3

	// DefaultMinInterval is the minimum spacing between collection
	// attempts against the same target.
	DefaultMinInterval = 60 * time.Second

	// DefaultFailureThreshold is the number of consecutive failures
	// that opens a target's circuit breaker.
	DefaultFailureThreshold = 3

	// DefaultPauseDuration is how long an open breaker blocks a target
	// before allowing a half-open trial.
	DefaultPauseDuration = 5 * time.Minute
)

// Config tunes the admission controller. Zero values fall back to the
// package defaults.
type Config struct {
	MaxConcurrent    int64
	MinInterval      time.Duration
	FailureThreshold int
	PauseDuration    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.MinInterval <= 0 {
		c.MinInterval = DefaultMinInterval
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.PauseDuration <= 0 {
		c.PauseDuration = DefaultPauseDuration
	}
	return c
}

// Permit represents an admitted collection attempt. The holder must
// call Controller.Release exactly once with the attempt's outcome.
type Permit struct {
	target   string
	halfOpen bool
	released bool
}

// Target returns the target the permit was issued for.
func (p *Permit) Target() string {
	return p.target
}

// breaker tracks consecutive failures for one target. A breaker is
// open when failures reached the threshold; openedAt records the open
// time and trialInFlight serializes half-open probes.
type breaker struct {
	failures      int
	openedAt      time.Time
	trialInFlight bool
}

// Controller admits or denies collection attempts. One controller
// serves all targets; its per-target state is guarded by a single
// mutex because the state is tiny and contention is bounded by the
// concurrency cap.
type Controller struct {
	cfg Config
	sem *semaphore.Weighted

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	breakers map[string]*breaker

	// now is swappable for tests.
	now func() time.Time
}

// New creates an admission controller with the given configuration.
func New(cfg Config) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrent),
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*breaker),
		now:      time.Now,
	}
}

// Acquire requests permission to collect from target. It returns a
// permit, or a structured error with code ErrCodeRateLimited when the
// target was attempted too recently, ErrCodeCircuitOpen when the
// target's breaker is open, or ErrCodeTimeout when ctx expires while
// waiting on the concurrency semaphore.
//
// Per-target checks run before the semaphore so a rate-limited or
// broken target never consumes a concurrency slot.
func (c *Controller) Acquire(ctx context.Context, target string) (*Permit, error) {
	c.mu.Lock()

	br := c.breakers[target]
	halfOpen := false
	if br != nil && br.failures >= c.cfg.FailureThreshold {
		elapsed := c.now().Sub(br.openedAt)
		if elapsed < c.cfg.PauseDuration {
			c.mu.Unlock()
			denialTotal.WithLabelValues(target, "circuit_open").Inc()
			return nil, errors.NewWithContext(errors.ErrCodeCircuitOpen,
				"target paused after repeated failures",
				map[string]any{
					"target":       target,
					"failures":     br.failures,
					"retry_after":  br.openedAt.Add(c.cfg.PauseDuration),
				})
		}
		// Pause elapsed: allow exactly one trial attempt at a time.
		if br.trialInFlight {
			c.mu.Unlock()
			denialTotal.WithLabelValues(target, "circuit_open").Inc()
			return nil, errors.NewWithContext(errors.ErrCodeCircuitOpen,
				"half-open trial already in flight",
				map[string]any{"target": target})
		}
		br.trialInFlight = true
		halfOpen = true
	}

	lim := c.limiters[target]
	if lim == nil {
		lim = rate.NewLimiter(rate.Every(c.cfg.MinInterval), 1)
		c.limiters[target] = lim
	}
	if !lim.Allow() {
		if halfOpen {
			br.trialInFlight = false
		}
		c.mu.Unlock()
		denialTotal.WithLabelValues(target, "rate_limited").Inc()
		return nil, errors.NewWithContext(errors.ErrCodeRateLimited,
			"target attempted too recently",
			map[string]any{"target": target, "min_interval": c.cfg.MinInterval.String()})
	}
	c.mu.Unlock()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		c.clearTrial(target, halfOpen)
		denialTotal.WithLabelValues(target, "timeout").Inc()
		return nil, errors.Wrap(errors.ErrCodeTimeout,
			"timed out waiting for a collection slot", err)
	}

	acquireTotal.WithLabelValues(target).Inc()
	inFlight.Inc()
	return &Permit{target: target, halfOpen: halfOpen}, nil
}

// Release returns the permit's concurrency slot and records the
// attempt's outcome for the target's circuit breaker. Success resets
// the breaker; failure counts toward the threshold and re-opens an
// already-tripped breaker for a fresh pause.
func (c *Controller) Release(p *Permit, success bool) {
	if p == nil || p.released {
		return
	}
	p.released = true
	c.sem.Release(1)
	inFlight.Dec()

	c.mu.Lock()
	defer c.mu.Unlock()

	br := c.breakers[p.target]
	if br == nil {
		br = &breaker{}
		c.breakers[p.target] = br
	}
	if p.halfOpen {
		br.trialInFlight = false
	}

	if success {
		if br.failures >= c.cfg.FailureThreshold {
			slog.Info("circuit closed", "target", p.target)
			breakerTransitions.WithLabelValues(p.target, "closed").Inc()
		}
		br.failures = 0
		return
	}

	br.failures++
	failureTotal.WithLabelValues(p.target).Inc()
	if br.failures >= c.cfg.FailureThreshold {
		br.openedAt = c.now()
		slog.Warn("circuit opened",
			"target", p.target,
			"failures", br.failures,
			"pause", c.cfg.PauseDuration.String())
		breakerTransitions.WithLabelValues(p.target, "open").Inc()
	}
}

// Paused reports whether the target's breaker is currently blocking
// attempts, and if so, when the pause ends.
func (c *Controller) Paused(target string) (bool, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	br := c.breakers[target]
	if br == nil || br.failures < c.cfg.FailureThreshold {
		return false, time.Time{}
	}
	until := br.openedAt.Add(c.cfg.PauseDuration)
	if !c.now().Before(until) {
		return false, time.Time{}
	}
	return true, until
}

func (c *Controller) clearTrial(target string, halfOpen bool) {
	if !halfOpen {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if br := c.breakers[target]; br != nil {
		br.trialInFlight = false
	}
}
