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

// Package session collects allocation, queue, and node state by running
// summary commands on cluster login nodes through a gateway Runner.
// Every parse is defensive: a target that answers garbage contributes
// nothing, a target that answers partially contributes what it gave.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/normalize"
)

const (
	// Name identifies this collector in config and logs.
	Name = "session"

	defaultListTarget   = "clusters"
	defaultListCommand  = "ls --status=on -o table --owned"
	defaultUsageCommand = "show_usage"
	defaultQueueCommand = "show_queues"
)

// Config tunes the session collector.
type Config struct {
	// Runner carries commands to login nodes.
	Runner collector.Runner

	// Targets are cluster URIs to poll; the last path element names
	// the system. When empty and Discover is set, the target list is
	// fetched through the gateway instead.
	Targets []string

	// Discover lists active clusters through the gateway before
	// polling.
	Discover bool

	ListTarget   string
	ListCommand  string
	UsageCommand string
	QueueCommand string
}

func (c Config) withDefaults() Config {
	if c.ListTarget == "" {
		c.ListTarget = defaultListTarget
	}
	if c.ListCommand == "" {
		c.ListCommand = defaultListCommand
	}
	if c.UsageCommand == "" {
		c.UsageCommand = defaultUsageCommand
	}
	if c.QueueCommand == "" {
		c.QueueCommand = defaultQueueCommand
	}
	return c
}

// Collector polls login nodes for scheduler state.
type Collector struct {
	cfg Config
	now func() time.Time
}

// New creates a session collector.
func New(cfg Config) *Collector {
	return &Collector{cfg: cfg.withDefaults(), now: time.Now}
}

// Name returns the collector identifier.
func (c *Collector) Name() string {
	return Name
}

// DisplayName returns the human-readable collector name.
func (c *Collector) DisplayName() string {
	return "Login Sessions"
}

// Available reports whether the gateway transport is usable.
func (c *Collector) Available(ctx context.Context) bool {
	if c.cfg.Runner == nil {
		return false
	}
	if a, ok := c.cfg.Runner.(interface{ Available() bool }); ok {
		return a.Available()
	}
	return true
}

// Collect polls every target and assembles per-system cluster state.
// Targets that fail are logged and skipped; the call errors only when
// no target yields data.
func (c *Collector) Collect(ctx context.Context) (res *collector.Result, err error) {
	start := c.now()
	defer func() { collector.ObserveCollect(Name, start, err) }()

	if c.cfg.Runner == nil {
		return nil, collector.CollectError(Name, fmt.Errorf("no runner configured"))
	}

	targets := c.cfg.Targets
	if len(targets) == 0 && c.cfg.Discover {
		targets, err = c.discover(ctx)
		if err != nil {
			return nil, err
		}
	}

	res = collector.NewResult(Name)
	if len(targets) == 0 {
		return res, nil
	}

	var polled int
	for _, target := range targets {
		if ctx.Err() != nil {
			return nil, collector.TimeoutError(Name, 0, ctx.Err())
		}
		if c.pollTarget(ctx, res, target) {
			polled++
		}
	}
	if polled == 0 {
		return nil, collector.CollectError(Name,
			fmt.Errorf("all %d targets failed", len(targets)))
	}
	return res, nil
}

func (c *Collector) discover(ctx context.Context) ([]string, error) {
	out, err := c.cfg.Runner.Run(ctx, c.cfg.ListTarget, c.cfg.ListCommand)
	if err != nil {
		return nil, collector.CollectError(Name, fmt.Errorf("cluster discovery: %w", err))
	}
	return ParseClusterTable(out), nil
}

// pollTarget runs the usage and queue commands on one target and folds
// the results into res. Returns false when neither command produced
// output.
func (c *Collector) pollTarget(ctx context.Context, res *collector.Result, target string) bool {
	name := systemName(target)
	observed := c.now().UTC()

	var (
		allocs []model.AllocationInfo
		tables QueueTables
		anyOK  bool
	)

	if out, err := c.cfg.Runner.Run(ctx, target, c.cfg.UsageCommand); err != nil {
		slog.Warn("usage command failed", "collector", Name, "target", target, "error", err)
	} else {
		allocs = ParseUsage(out, observed)
		anyOK = true
	}

	if out, err := c.cfg.Runner.Run(ctx, target, c.cfg.QueueCommand); err != nil {
		slog.Warn("queue command failed", "collector", Name, "target", target, "error", err)
	} else {
		tables = ParseQueueTables(name, out, observed)
		anyOK = true
	}

	if !anyOK {
		return false
	}

	sys := model.SystemStatus{
		System:      name,
		DisplayName: normalize.DisplayName(name),
		Scheduler:   schedulerName(tables.Queues),
		LoginHost:   target,
		Status:      model.StatusUp,
		ObservedAt:  observed,
	}
	sys.Cores, sys.Nodes = pools(tables.Nodes)

	cs := res.Cluster(sys.Slug())
	cs.Status = sys
	cs.Queues = tables.Queues
	cs.Allocations = allocs
	return true
}

// systemName extracts the system name from a cluster URI like
// "user/clusters/narwhal".
func systemName(target string) string {
	if i := strings.LastIndex(target, "/"); i >= 0 {
		return target[i+1:]
	}
	return target
}

// schedulerName infers the scheduler family from queue naming.
func schedulerName(queues []model.QueueInfo) string {
	names := make([]string, 0, len(queues))
	for _, q := range queues {
		names = append(names, q.Name)
	}
	if s := normalize.DetectScheduler(normalize.Hints{QueueNames: names}); s != normalize.SchedulerUnknown {
		return string(s)
	}
	return ""
}

var _ collector.Collector = (*Collector)(nil)
