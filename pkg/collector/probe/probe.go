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

// Package probe collects state from the host the process runs on. When
// fleetscope runs directly on a login node there is no gateway hop:
// core counts, load, memory, and filesystem usage come straight from
// the local kernel.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/model"
	"github.com/fleetscope/fleetscope/pkg/normalize"
)

// Name identifies this collector in config and logs.
const Name = "probe"

// Config tunes the local probe.
type Config struct {
	// System overrides the system name; defaults to the hostname.
	System string

	// Mounts are the filesystems to report on.
	Mounts []string
}

// Collector reads local host state.
type Collector struct {
	cfg Config
	now func() time.Time

	// seams for tests
	hostInfo  func(context.Context) (*host.InfoStat, error)
	cpuCounts func(context.Context, bool) (int, error)
	cpuUsage  func(context.Context, time.Duration, bool) ([]float64, error)
	memory    func(context.Context) (*mem.VirtualMemoryStat, error)
	diskUsage func(context.Context, string) (*disk.UsageStat, error)
}

// New creates a local probe collector.
func New(cfg Config) *Collector {
	if len(cfg.Mounts) == 0 {
		cfg.Mounts = []string{"/"}
	}
	return &Collector{
		cfg:       cfg,
		now:       time.Now,
		hostInfo:  host.InfoWithContext,
		cpuCounts: cpu.CountsWithContext,
		cpuUsage:  cpu.PercentWithContext,
		memory:    mem.VirtualMemoryWithContext,
		diskUsage: disk.UsageWithContext,
	}
}

// Name returns the collector identifier.
func (c *Collector) Name() string {
	return Name
}

// DisplayName returns the human-readable collector name.
func (c *Collector) DisplayName() string {
	return "Local Probe"
}

// Available always holds: the local kernel is always reachable.
func (c *Collector) Available(_ context.Context) bool {
	return true
}

// Collect reads host identity, CPU occupancy, memory, and filesystem
// usage for the local machine.
func (c *Collector) Collect(ctx context.Context) (res *collector.Result, err error) {
	start := c.now()
	defer func() { collector.ObserveCollect(Name, start, err) }()

	info, err := c.hostInfo(ctx)
	if err != nil {
		return nil, collector.CollectError(Name, fmt.Errorf("host info: %w", err))
	}
	name := c.cfg.System
	if name == "" {
		name = info.Hostname
	}
	observed := c.now().UTC()

	sys := model.SystemStatus{
		System:      name,
		DisplayName: normalize.DisplayName(name),
		LoginHost:   info.Hostname,
		Status:      model.StatusUp,
		RawStatus:   fmt.Sprintf("up %s", (time.Duration(info.Uptime) * time.Second).String()),
		ObservedAt:  observed,
	}

	if counts, cerr := c.cpuCounts(ctx, true); cerr != nil {
		slog.Debug("cpu count read failed", "collector", Name, "error", cerr)
	} else {
		var pct float64
		if usage, uerr := c.cpuUsage(ctx, 0, false); uerr == nil && len(usage) > 0 {
			pct = usage[0]
		}
		sys.Cores = corePool(counts, pct)
	}

	var storage []model.StorageInfo
	if vm, merr := c.memory(ctx); merr != nil {
		slog.Debug("memory read failed", "collector", Name, "error", merr)
	} else {
		storage = append(storage, memoryInfo(name, vm, observed))
	}
	for _, mount := range c.cfg.Mounts {
		du, derr := c.diskUsage(ctx, mount)
		if derr != nil {
			slog.Debug("disk usage read failed", "collector", Name, "mount", mount, "error", derr)
			continue
		}
		storage = append(storage, diskInfo(name, mount, du, observed))
	}

	res = collector.NewResult(Name)
	cs := res.Cluster(sys.Slug())
	cs.Status = sys
	cs.Storage = storage
	return res, nil
}

// corePool maps a core count and an aggregate utilization percentage
// onto a resource pool.
func corePool(counts int, pct float64) *model.ResourcePool {
	if counts <= 0 {
		return nil
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	allocated := int64(math.Round(float64(counts) * pct / 100))
	return &model.ResourcePool{
		Unit:     model.UnitCores,
		Capacity: model.Capacity{Total: int64(counts)},
		Availability: model.Availability{
			Allocated: allocated,
			Idle:      int64(counts) - allocated,
		},
	}
}

// memoryInfo reports RAM as a capacity entry so the same exhaustion
// thresholds apply to it as to filesystems.
func memoryInfo(system string, vm *mem.VirtualMemoryStat, observed time.Time) model.StorageInfo {
	return model.StorageInfo{
		System:         system,
		MountPoint:     "mem",
		StorageType:    "memory",
		TotalBytes:     int64(vm.Total),
		UsedBytes:      int64(vm.Used),
		AvailableBytes: int64(vm.Available),
		PercentUsed:    vm.UsedPercent,
		ObservedAt:     observed,
	}
}

func diskInfo(system, mount string, du *disk.UsageStat, observed time.Time) model.StorageInfo {
	return model.StorageInfo{
		System:         system,
		MountPoint:     mount,
		Filesystem:     du.Fstype,
		StorageType:    "disk",
		TotalBytes:     int64(du.Total),
		UsedBytes:      int64(du.Used),
		AvailableBytes: int64(du.Free),
		PercentUsed:    du.UsedPercent,
		ObservedAt:     observed,
	}
}

var _ collector.Collector = (*Collector)(nil)
