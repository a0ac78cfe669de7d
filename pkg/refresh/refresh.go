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

package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fleetscope/fleetscope/pkg/admission"
	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/errors"
	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/store"
)

const (
	defaultInterval = 5 * time.Minute
	defaultTimeout  = 60 * time.Second
)

// Config tunes the refresh loop.
type Config struct {
	// Interval between periodic refresh cycles.
	Interval time.Duration

	// Timeout bounds one collector's Collect call.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Orchestrator runs collection cycles and holds the last known fleet
// snapshot.
type Orchestrator struct {
	cfg        Config
	admit      *admission.Controller
	store      *store.Store
	collectors []collector.Collector

	mu      sync.RWMutex
	current *store.Snapshot
}

// New creates an orchestrator over the given collectors. Collector
// order sets merge precedence: later collectors overwrite conflicting
// fields.
func New(cfg Config, admit *admission.Controller, st *store.Store, collectors ...collector.Collector) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg.withDefaults(),
		admit:      admit,
		store:      st,
		collectors: collectors,
	}
}

// Current returns the last known snapshot, falling back to the on-disk
// cache when the process has not refreshed yet. Returns nil when no
// state exists anywhere.
func (o *Orchestrator) Current() *store.Snapshot {
	o.mu.RLock()
	snap := o.current
	o.mu.RUnlock()
	if snap != nil {
		return snap
	}

	cached, err := o.store.Latest(0)
	if err != nil || cached == nil {
		return nil
	}
	o.mu.Lock()
	if o.current == nil {
		o.current = cached
	}
	snap = o.current
	o.mu.Unlock()
	return snap
}

// Refresh runs one collection cycle: fan out over all collectors,
// merge, commit, publish. Returns the resulting snapshot. A collector
// that is denied or fails does not drop its targets from the snapshot:
// its last recorded output stands in, original observation times
// intact, so callers can judge staleness. When the cycle yields
// nothing at all, the last known snapshot is returned along with a
// collector error.
func (o *Orchestrator) Refresh(ctx context.Context) (*store.Snapshot, error) {
	start := time.Now()

	results := make([]*collector.Result, len(o.collectors))
	g, _ := errgroup.WithContext(ctx)
	for i, col := range o.collectors {
		g.Go(func() error {
			results[i] = o.collectOne(ctx, col)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; partial cycles are legal

	fresh := 0
	for i := range results {
		if results[i] != nil {
			fresh++
		}
	}
	if fresh == 0 {
		refreshTotal.WithLabelValues("empty").Inc()
		return o.Current(), errors.New(errors.ErrCodeCollector,
			"refresh cycle produced no data")
	}

	for i, col := range o.collectors {
		if results[i] != nil {
			if err := o.store.SaveSnapshot(col.Name(), results[i].Clusters); err != nil {
				// Only durability is lost; the cycle proceeds.
				slog.Warn("collector snapshot not persisted", "collector", col.Name(), "error", err)
			}
			continue
		}
		var clusters map[string]*model.ClusterState
		if _, ok, err := o.store.GetLatest(col.Name(), 0, &clusters); err == nil && ok {
			slog.Debug("reusing last collected state", "collector", col.Name())
			results[i] = &collector.Result{Clusters: clusters}
		}
	}

	merged := fillFromPrevious(o.Current(), mergeResults(results))
	if len(merged) == 0 {
		refreshTotal.WithLabelValues("empty").Inc()
		return o.Current(), errors.New(errors.ErrCodeCollector,
			"refresh cycle produced no data")
	}

	sum := summarize(merged)
	snap := &store.Snapshot{
		Clusters: merged,
		Summary:  &sum,
	}

	if err := o.store.Commit(snap); err != nil {
		// Readers still get the fresh snapshot; only durability is lost.
		slog.Error("snapshot commit failed", "error", err)
		refreshTotal.WithLabelValues("uncommitted").Inc()
	} else {
		refreshTotal.WithLabelValues("success").Inc()
	}

	o.mu.Lock()
	o.current = snap
	o.mu.Unlock()

	refreshDuration.Observe(time.Since(start).Seconds())
	refreshClusters.Set(float64(len(merged)))
	return snap, nil
}

// collectOne gates one collector through admission and runs it under
// the per-collector timeout. Any failure is logged and yields nil.
func (o *Orchestrator) collectOne(ctx context.Context, col collector.Collector) *collector.Result {
	name := col.Name()
	if !col.Available(ctx) {
		slog.Debug("collector unavailable", "collector", name)
		collectorSkips.WithLabelValues(name, "unavailable").Inc()
		return nil
	}

	permit, err := o.admit.Acquire(ctx, name)
	if err != nil {
		slog.Warn("collection not admitted", "collector", name, "error", err)
		collectorSkips.WithLabelValues(name, admissionReason(err)).Inc()
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	res, err := col.Collect(cctx)
	cancel()
	o.admit.Release(permit, err == nil)

	if err != nil {
		slog.Warn("collection failed", "collector", name, "error", err)
		collectorSkips.WithLabelValues(name, "error").Inc()
		return nil
	}
	slog.Debug("collection complete", "collector", name, "clusters", len(res.Clusters))
	return res
}

func admissionReason(err error) string {
	switch {
	case errors.IsRateLimited(err):
		return "rate_limited"
	case errors.IsCircuitOpen(err):
		return "circuit_open"
	case errors.IsTimeout(err):
		return "timeout"
	}
	return "denied"
}

// Run refreshes on every interval tick until the context is
// canceled. Callers that need an immediate first snapshot call
// Refresh before Run.
func (o *Orchestrator) Run(ctx context.Context) error {
	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.Refresh(ctx); err != nil {
				slog.Warn("refresh failed", "error", err)
			}
		}
	}
}

// Systems returns the system observations from the last known
// snapshot, or nil when none exists.
func (o *Orchestrator) Systems() []model.SystemStatus {
	snap := o.Current()
	if snap == nil {
		return nil
	}
	systems := make([]model.SystemStatus, 0, len(snap.Clusters))
	for _, cs := range snap.Clusters {
		if cs.Status.System != "" {
			systems = append(systems, cs.Status)
		}
	}
	return systems
}
