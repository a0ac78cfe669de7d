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

// Package storage collects filesystem capacity from cluster login
// nodes by running df on the well-known user mounts. Centers deny df
// on some mounts; a mount that fails is skipped, not fatal.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/normalize"
)

const (
	// Name identifies this collector in config and logs.
	Name = "storage"

	gib = 1024 * 1024 * 1024
)

// defaultMounts are the user-visible mounts every center provides.
var defaultMounts = []string{"$HOME", "$WORKDIR", "/scratch"}

// Config tunes the storage collector.
type Config struct {
	// Runner carries commands to login nodes.
	Runner collector.Runner

	// Targets are cluster URIs to poll; the last path element names
	// the system.
	Targets []string

	// Mounts are the paths to probe with df.
	Mounts []string
}

// Collector polls login nodes for filesystem usage.
type Collector struct {
	cfg Config
	now func() time.Time
}

// New creates a storage collector.
func New(cfg Config) *Collector {
	if len(cfg.Mounts) == 0 {
		cfg.Mounts = defaultMounts
	}
	return &Collector{cfg: cfg, now: time.Now}
}

// Name returns the collector identifier.
func (c *Collector) Name() string {
	return Name
}

// DisplayName returns the human-readable collector name.
func (c *Collector) DisplayName() string {
	return "Storage Capacity"
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

// Collect runs df for each configured mount on each target. The call
// errors only when every target fails outright.
func (c *Collector) Collect(ctx context.Context) (res *collector.Result, err error) {
	start := c.now()
	defer func() { collector.ObserveCollect(Name, start, err) }()

	if c.cfg.Runner == nil {
		return nil, collector.CollectError(Name, fmt.Errorf("no runner configured"))
	}

	res = collector.NewResult(Name)
	if len(c.cfg.Targets) == 0 {
		return res, nil
	}

	var polled int
	for _, target := range c.cfg.Targets {
		if ctx.Err() != nil {
			return nil, collector.TimeoutError(Name, 0, ctx.Err())
		}
		if c.pollTarget(ctx, res, target) {
			polled++
		}
	}
	if polled == 0 {
		return nil, collector.CollectError(Name,
			fmt.Errorf("all %d targets failed", len(c.cfg.Targets)))
	}
	return res, nil
}

func (c *Collector) pollTarget(ctx context.Context, res *collector.Result, target string) bool {
	name := systemName(target)
	observed := c.now().UTC()

	var infos []model.StorageInfo
	for _, mount := range c.cfg.Mounts {
		out, err := c.cfg.Runner.Run(ctx, target, "df -h "+mount)
		if err != nil {
			slog.Debug("df failed", "collector", Name, "target", target, "mount", mount, "error", err)
			continue
		}
		info, ok := ParseDF(out)
		if !ok {
			slog.Debug("unparsable df output", "collector", Name, "target", target, "mount", mount)
			continue
		}
		info.System = name
		info.MountPoint = mount
		info.ObservedAt = observed
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return false
	}

	cs := res.Cluster(model.SystemStatus{System: name}.Slug())
	cs.Storage = append(cs.Storage, infos...)
	return true
}

// ParseDF extracts one filesystem row from df -h output. df wraps the
// data row onto two lines when the filesystem name is long; both forms
// parse. Returns false when no usable row is present.
func ParseDF(out string) (model.StorageInfo, bool) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return model.StorageInfo{}, false
	}

	// A complete row has six fields; a wrapped row's continuation line
	// has only five because the filesystem sits on the line above.
	parts := strings.Fields(lines[len(lines)-1])
	if len(parts) < 6 && len(lines) > 2 {
		joined := lines[len(lines)-2] + " " + lines[len(lines)-1]
		parts = strings.Fields(joined)
	}
	if len(parts) < 5 {
		return model.StorageInfo{}, false
	}

	total, ok1 := sizeBytes(parts[1])
	used, ok2 := sizeBytes(parts[2])
	avail, ok3 := sizeBytes(parts[3])
	pct, err := strconv.ParseFloat(strings.TrimSuffix(parts[4], "%"), 64)
	if !ok1 || !ok2 || !ok3 || err != nil {
		return model.StorageInfo{}, false
	}

	return model.StorageInfo{
		Filesystem:     parts[0],
		TotalBytes:     total,
		UsedBytes:      used,
		AvailableBytes: avail,
		PercentUsed:    pct,
	}, true
}

// sizeBytes converts a df -h size like 1.5T or 100G to bytes.
func sizeBytes(raw string) (int64, bool) {
	g, ok := normalize.MemoryGB(raw)
	if !ok {
		return 0, false
	}
	return int64(g * gib), true
}

// systemName extracts the system name from a cluster URI like
// "user/clusters/narwhal".
func systemName(target string) string {
	if i := strings.LastIndex(target, "/"); i >= 0 {
		return target[i+1:]
	}
	return target
}

var _ collector.Collector = (*Collector)(nil)
