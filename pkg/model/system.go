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

package model

import (
	"strings"
	"time"
	"unicode"
)

// SystemStatus is one observation of an HPC system. Instances are
// created fresh on every poll cycle and never mutated; a refresh
// produces a new value that supersedes the previous one in the cache.
type SystemStatus struct {
	// System is the canonical system identifier.
	System string `json:"system" yaml:"system"`

	// DisplayName is the human-readable system name.
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`

	// Site is the hosting site or center identifier.
	Site string `json:"site,omitempty" yaml:"site,omitempty"`

	// Organization is the owning organization.
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// Scheduler is the detected scheduler family (PBS, SLURM, ...).
	Scheduler string `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`

	// LoginHost is the login node hostname, when derivable.
	LoginHost string `json:"login_host,omitempty" yaml:"login_host,omitempty"`

	Status OperationalStatus `json:"status" yaml:"status"`

	// StatusReason explains a non-UP status.
	StatusReason string `json:"status_reason,omitempty" yaml:"status_reason,omitempty"`

	// Cores and Nodes summarize compute capacity and availability.
	Cores *ResourcePool `json:"cores,omitempty" yaml:"cores,omitempty"`
	Nodes *ResourcePool `json:"nodes,omitempty" yaml:"nodes,omitempty"`

	// SourceURL records where the observation came from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// RawStatus is the raw status text before normalization.
	RawStatus string `json:"raw_status,omitempty" yaml:"raw_status,omitempty"`

	// ObservedAt is when this observation was made, not when it was
	// stored. Consumers judge staleness from it.
	ObservedAt time.Time `json:"observed_at" yaml:"observed_at"`
}

// Slug returns the system identifier reduced to lowercase alphanumerics,
// suitable for file names and lookup keys.
func (s SystemStatus) Slug() string {
	var b strings.Builder
	for _, r := range strings.ToLower(s.System) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// QueueInfo is the normalized view of one scheduler queue or partition.
type QueueInfo struct {
	System string     `json:"system" yaml:"system"`
	Name   string     `json:"name" yaml:"name"`
	State  QueueState `json:"state" yaml:"state"`
	Type   QueueType  `json:"queue_type" yaml:"queue_type"`

	// MaxWalltimeSeconds is the walltime limit in seconds; 0 with
	// WalltimeUnlimited set means no limit.
	MaxWalltimeSeconds int64  `json:"max_walltime_seconds" yaml:"max_walltime_seconds"`
	MaxWalltimeDisplay string `json:"max_walltime_display,omitempty" yaml:"max_walltime_display,omitempty"`
	WalltimeUnlimited  bool   `json:"walltime_unlimited,omitempty" yaml:"walltime_unlimited,omitempty"`

	RunningJobs int `json:"running_jobs" yaml:"running_jobs"`
	PendingJobs int `json:"pending_jobs" yaml:"pending_jobs"`
	HeldJobs    int `json:"held_jobs,omitempty" yaml:"held_jobs,omitempty"`

	// Cores tracks the queue's core pool.
	Cores ResourcePool `json:"cores" yaml:"cores"`

	// WaitEstimateSeconds is a derived queue-wait estimate; nil when no
	// estimate is possible.
	WaitEstimateSeconds *int64 `json:"wait_estimate_seconds,omitempty" yaml:"wait_estimate_seconds,omitempty"`

	ObservedAt time.Time `json:"observed_at" yaml:"observed_at"`
}

// EstimateWaitSeconds derives a rough queue-wait estimate from queue
// depth: an empty queue starts within about five minutes, otherwise
// thirty minutes per pending job capped at eight hours.
func EstimateWaitSeconds(pendingJobs int) int64 {
	if pendingJobs == 0 {
		return 5 * 60
	}
	est := int64(pendingJobs) * 30 * 60
	const maxWait = 8 * 60 * 60
	if est > maxWait {
		return maxWait
	}
	return est
}

// StorageInfo is the normalized view of one filesystem on a system.
type StorageInfo struct {
	System      string `json:"system" yaml:"system"`
	MountPoint  string `json:"mount_point" yaml:"mount_point"`
	Filesystem  string `json:"filesystem,omitempty" yaml:"filesystem,omitempty"`
	StorageType string `json:"storage_type,omitempty" yaml:"storage_type,omitempty"`

	TotalBytes     int64 `json:"total_bytes" yaml:"total_bytes"`
	UsedBytes      int64 `json:"used_bytes" yaml:"used_bytes"`
	AvailableBytes int64 `json:"available_bytes" yaml:"available_bytes"`

	PercentUsed float64 `json:"percent_used" yaml:"percent_used"`

	ObservedAt time.Time `json:"observed_at" yaml:"observed_at"`
}

// Status derives the storage health from the usage percentage:
// below 80% is healthy, 80-95% is a warning, 95% and above is critical.
func (s StorageInfo) Status() StorageStatus {
	switch {
	case s.PercentUsed >= 95:
		return StorageCritical
	case s.PercentUsed >= 80:
		return StorageWarning
	default:
		return StorageHealthy
	}
}

// FleetSummary aggregates one observation cycle across the fleet.
type FleetSummary struct {
	TotalSystems    int            `json:"total_systems" yaml:"total_systems"`
	StatusCounts    map[string]int `json:"status_counts" yaml:"status_counts"`
	SiteCounts      map[string]int `json:"site_counts,omitempty" yaml:"site_counts,omitempty"`
	SchedulerCounts map[string]int `json:"scheduler_counts,omitempty" yaml:"scheduler_counts,omitempty"`

	// UptimeRatio is the fraction of systems observed UP, 0..1.
	UptimeRatio float64 `json:"uptime_ratio" yaml:"uptime_ratio"`
}

// Summarize computes fleet-wide counts from a set of system observations.
func Summarize(systems []SystemStatus) FleetSummary {
	sum := FleetSummary{
		TotalSystems:    len(systems),
		StatusCounts:    map[string]int{},
		SiteCounts:      map[string]int{},
		SchedulerCounts: map[string]int{},
	}
	up := 0
	for _, s := range systems {
		sum.StatusCounts[s.Status.String()]++
		if s.Site != "" {
			sum.SiteCounts[strings.ToUpper(s.Site)]++
		}
		if s.Scheduler != "" {
			sum.SchedulerCounts[strings.ToUpper(s.Scheduler)]++
		}
		if s.Status == StatusUp {
			up++
		}
	}
	if len(systems) > 0 {
		sum.UptimeRatio = float64(up) / float64(len(systems))
	}
	return sum
}
