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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetscope/fleetscope/pkg/model"
)

func TestDetectSchedulerExplicit(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		expected Scheduler
	}{
		{name: "pbs", hint: "PBS Professional", expected: SchedulerPBS},
		{name: "torque", hint: "Torque", expected: SchedulerPBS},
		{name: "slurm", hint: "slurm 23.02", expected: SchedulerSlurm},
		{name: "lsf", hint: "IBM LSF", expected: SchedulerLSF},
		{name: "sge", hint: "Grid Engine", expected: SchedulerSGE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectScheduler(Hints{Scheduler: tt.hint}))
		})
	}
}

func TestDetectSchedulerFromIndicators(t *testing.T) {
	assert.Equal(t, SchedulerPBS, DetectScheduler(Hints{Indicators: []string{"pbs_version"}}))
	assert.Equal(t, SchedulerPBS, DetectScheduler(Hints{Indicators: []string{"qmgr"}}))
	assert.Equal(t, SchedulerSlurm, DetectScheduler(Hints{Indicators: []string{"sinfo"}}))
	assert.Equal(t, SchedulerSlurm, DetectScheduler(Hints{Indicators: []string{"sbatch", "squeue"}}))
}

func TestDetectSchedulerFromQueueNames(t *testing.T) {
	// PBS queue names carry an @server suffix.
	assert.Equal(t, SchedulerPBS, DetectScheduler(Hints{QueueNames: []string{"debug@pbs01"}}))
	assert.Equal(t, SchedulerUnknown, DetectScheduler(Hints{QueueNames: []string{"debug", "standard"}}))
}

func TestDetectSchedulerUnknown(t *testing.T) {
	assert.Equal(t, SchedulerUnknown, DetectScheduler(Hints{}))
}

func TestNodeStatePBS(t *testing.T) {
	tests := []struct {
		raw      string
		expected NodeState
	}{
		{raw: "free", expected: NodeIdle},
		{raw: "job-exclusive", expected: NodeAllocated},
		{raw: "job-busy", expected: NodeAllocated},
		{raw: "offline", expected: NodeDown},
		{raw: "resv-exclusive", expected: NodeReserved},
		{raw: "maintenance", expected: NodeMaintenance},
		{raw: "stale", expected: NodeDown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NodeStateFor(tt.raw, SchedulerPBS))
		})
	}
}

func TestNodeStateSlurm(t *testing.T) {
	tests := []struct {
		raw      string
		expected NodeState
	}{
		{raw: "idle", expected: NodeIdle},
		{raw: "alloc", expected: NodeAllocated},
		{raw: "mix", expected: NodeMixed},
		{raw: "drain", expected: NodeDraining},
		{raw: "drng", expected: NodeDraining},
		{raw: "maint", expected: NodeMaintenance},
		{raw: "powered_off", expected: NodeOffline},
		{raw: "powering_down", expected: NodeDraining},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NodeStateFor(tt.raw, SchedulerSlurm))
		})
	}
}

func TestNodeStateModifiersStripped(t *testing.T) {
	assert.Equal(t, NodeDown, NodeStateFor("down*", SchedulerSlurm))
	assert.Equal(t, NodeIdle, NodeStateFor("idle~", SchedulerSlurm))
	assert.Equal(t, NodeAllocated, NodeStateFor("alloc#", SchedulerSlurm))
}

func TestNodeStateCrossSchedulerFallback(t *testing.T) {
	// A PBS-only state still resolves when tagged with the wrong scheduler.
	assert.Equal(t, NodeAllocated, NodeStateFor("job-exclusive", SchedulerSlurm))
	assert.Equal(t, NodeMixed, NodeStateFor("mix", SchedulerPBS))
}

func TestNodeStateGenericFallback(t *testing.T) {
	assert.Equal(t, NodeDown, NodeStateFor("hardware_error", SchedulerUnknown))
	assert.Equal(t, NodeDraining, NodeStateFor("drain-pending", SchedulerUnknown))
	assert.Equal(t, NodeUnknown, NodeStateFor("zorp", SchedulerUnknown))
}

func TestQueueState(t *testing.T) {
	assert.Equal(t, model.QueueActive, QueueStateFor("started", SchedulerPBS))
	assert.Equal(t, model.QueueInactive, QueueStateFor("stopped", SchedulerPBS))
	assert.Equal(t, model.QueueActive, QueueStateFor("up", SchedulerSlurm))
	assert.Equal(t, model.QueueActive, QueueStateFor("up*", SchedulerSlurm))
	assert.Equal(t, model.QueueDraining, QueueStateFor("drain", SchedulerSlurm))
	assert.Equal(t, model.QueueOffline, QueueStateFor("down", SchedulerSlurm))

	// Unknown input defaults to ACTIVE.
	assert.Equal(t, model.QueueActive, QueueStateFor("whatever", SchedulerUnknown))
}

func TestJobState(t *testing.T) {
	assert.Equal(t, JobPending, JobStateFor("Q", SchedulerPBS))
	assert.Equal(t, JobRunning, JobStateFor("R", SchedulerPBS))
	assert.Equal(t, JobRunning, JobStateFor("E", SchedulerPBS))
	assert.Equal(t, JobHeld, JobStateFor("H", SchedulerPBS))
	assert.Equal(t, JobPending, JobStateFor("PD", SchedulerSlurm))
	assert.Equal(t, JobRunning, JobStateFor("CG", SchedulerSlurm))
	assert.Equal(t, JobFailed, JobStateFor("TO", SchedulerSlurm))
	assert.Equal(t, JobCancelled, JobStateFor("CA", SchedulerSlurm))
	assert.Equal(t, JobFailed, JobStateFor("OOM", SchedulerSlurm))
	assert.Equal(t, JobSuspended, JobStateFor("S", SchedulerSlurm))

	// Lowercase input and unknowns.
	assert.Equal(t, JobPending, JobStateFor("pd", SchedulerSlurm))
	assert.Equal(t, JobPending, JobStateFor("mystery", SchedulerUnknown))
}

func TestSystemStatusFromText(t *testing.T) {
	tests := []struct {
		raw      string
		expected model.OperationalStatus
	}{
		{raw: "Narwhal is currently Up.", expected: model.StatusUp},
		{raw: "available", expected: model.StatusUp},
		{raw: "system is down", expected: model.StatusDown},
		{raw: "unavailable", expected: model.StatusDown},
		{raw: "degraded performance", expected: model.StatusDegraded},
		{raw: "limited availability", expected: model.StatusDegraded},
		{raw: "scheduled maintenance", expected: model.StatusMaintenance},
		{raw: "???", expected: model.StatusUnknown},
		{raw: "", expected: model.StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SystemStatusFromText(tt.raw), "input %q", tt.raw)
	}
}

func TestParseWalltime(t *testing.T) {
	tests := []struct {
		raw     string
		seconds int64
	}{
		{raw: "24:00:00", seconds: 86400},
		{raw: "01:30:00", seconds: 5400},
		{raw: "2:00:00:00", seconds: 172800},  // DD:HH:MM:SS
		{raw: "1-12:00:00", seconds: 129600},  // Slurm D-HH:MM:SS
		{raw: "04:30", seconds: 16200},        // HH:MM
		{raw: "90", seconds: 5400},            // bare minutes
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			secs, display := ParseWalltime(tt.raw)
			assert.Equal(t, tt.seconds, secs)
			assert.NotEmpty(t, display)
		})
	}
}

func TestParseWalltimeUnlimited(t *testing.T) {
	for _, raw := range []string{"", "-", "INFINITE", "unlimited", "N/A"} {
		secs, display := ParseWalltime(raw)
		assert.Zero(t, secs)
		assert.Equal(t, "unlimited", display)
		assert.True(t, IsUnlimitedWalltime(raw))
	}
	assert.False(t, IsUnlimitedWalltime("24:00:00"))
}

func TestParseWalltimeUnparsable(t *testing.T) {
	for _, raw := range []string{"later", "12:xx:00", "1-2", "1:2:3:4:5"} {
		secs, display := ParseWalltime(raw)
		assert.Zero(t, secs, "input %q", raw)
		assert.Equal(t, raw, display, "unparsable input passes through")
	}
}

func TestWalltimeRoundTrip(t *testing.T) {
	seconds := []int64{0, 59, 60, 3600, 5400, 86399, 86400, 129600, 31 * 86400}
	for _, s := range seconds {
		formatted := FormatWalltime(s)
		parsed, _ := ParseWalltime(formatted)
		assert.Equal(t, s, parsed, "round trip of %d via %q", s, formatted)
	}
}

func TestFormatWalltime(t *testing.T) {
	assert.Equal(t, "23:59:59", FormatWalltime(86399))
	assert.Equal(t, "12:00:00", FormatWalltime(43200))
	assert.Equal(t, "1-00:00:00", FormatWalltime(86400))
	assert.Equal(t, "00:00:00", FormatWalltime(-5))
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{seconds: 30, expected: "30 seconds"},
		{seconds: 60, expected: "1 minute"},
		{seconds: 1800, expected: "30 minutes"},
		{seconds: 3600, expected: "1 hour"},
		{seconds: 86400, expected: "1 day"},
		{seconds: 86400 + 2*3600, expected: "1 day, 2 hours"},
		{seconds: 3 * 86400, expected: "3 days"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, humanDuration(tt.seconds))
	}
}

func TestResourceName(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "ncpus", expected: "cores"},
		{raw: "PPN", expected: "cores"},
		{raw: "procs", expected: "cores"},
		{raw: "nodect", expected: "nodes"},
		{raw: "nnodes", expected: "nodes"},
		{raw: "ngpus", expected: "gpus"},
		{raw: "gres/gpu", expected: "gpus"},
		{raw: "vmem", expected: "memory_gb"},
		{raw: "walltime", expected: "walltime"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ResourceName(tt.raw))
	}
}

func TestMemoryGB(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{raw: "128gb", expected: 128, ok: true},
		{raw: "128g", expected: 128, ok: true},
		{raw: "131072mb", expected: 128, ok: true},
		{raw: "134217728kb", expected: 128, ok: true},
		{raw: "2tb", expected: 2048, ok: true},
		{raw: "137438953472b", expected: 128, ok: true},
		{raw: "nope", ok: false},
		{raw: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := MemoryGB(tt.raw)
		assert.Equal(t, tt.ok, ok, "input %q", tt.raw)
		if tt.ok {
			assert.InDelta(t, tt.expected, got, 0.001, "input %q", tt.raw)
		}
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Pw Cluster", DisplayName("pw_cluster"))
	assert.Equal(t, "Fleet Status", DisplayName("fleet-status"))
	assert.Equal(t, "Narwhal", DisplayName("narwhal"))
}
