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
	"strings"

	"github.com/fleetscope/fleetscope/pkg/model"
)

// NodeState is the canonical compute-node state.
type NodeState string

const (
	NodeIdle        NodeState = "IDLE"
	NodeAllocated   NodeState = "ALLOCATED"
	NodeMixed       NodeState = "MIXED"
	NodeDraining    NodeState = "DRAINING"
	NodeDown        NodeState = "DOWN"
	NodeReserved    NodeState = "RESERVED"
	NodeMaintenance NodeState = "MAINTENANCE"
	NodeOffline     NodeState = "OFFLINE"
	NodeUnknown     NodeState = "UNKNOWN"
)

// JobState is the canonical job state.
type JobState string

const (
	JobPending   JobState = "PENDING"
	JobRunning   JobState = "RUNNING"
	JobHeld      JobState = "HELD"
	JobSuspended JobState = "SUSPENDED"
	JobCompleted JobState = "COMPLETED"
	JobFailed    JobState = "FAILED"
	JobCancelled JobState = "CANCELLED"
)

var pbsNodeStates = map[string]NodeState{
	"free":           NodeIdle,
	"job-exclusive":  NodeAllocated,
	"job-busy":       NodeAllocated,
	"busy":           NodeAllocated,
	"state-unknown":  NodeUnknown,
	"offline":        NodeDown,
	"down":           NodeDown,
	"resv-exclusive": NodeReserved,
	"maintenance":    NodeMaintenance,
	"stale":          NodeDown,
}

var slurmNodeStates = map[string]NodeState{
	"idle":           NodeIdle,
	"alloc":          NodeAllocated,
	"allocated":      NodeAllocated,
	"mix":            NodeMixed,
	"mixed":          NodeMixed,
	"down":           NodeDown,
	"drain":          NodeDraining,
	"draining":       NodeDraining,
	"drained":        NodeDraining,
	"drng":           NodeDraining,
	"maint":          NodeMaintenance,
	"resv":           NodeReserved,
	"reserved":       NodeReserved,
	"reboot":         NodeMaintenance,
	"fail":           NodeDown,
	"failing":        NodeDown,
	"future":         NodeOffline,
	"unknown":        NodeUnknown,
	"unk":            NodeUnknown,
	"no_respond":     NodeDown,
	"not_responding": NodeDown,
	"powered_off":    NodeOffline,
	"powering_down":  NodeDraining,
	"powering_up":    NodeOffline,
}

var pbsQueueStates = map[string]model.QueueState{
	"started":  model.QueueActive,
	"enabled":  model.QueueActive,
	"true":     model.QueueActive,
	"stopped":  model.QueueInactive,
	"disabled": model.QueueInactive,
	"false":    model.QueueInactive,
}

var slurmPartitionStates = map[string]model.QueueState{
	"up":       model.QueueActive,
	"down":     model.QueueOffline,
	"drain":    model.QueueDraining,
	"inactive": model.QueueInactive,
	"inact":    model.QueueInactive,
}

var pbsJobStates = map[string]JobState{
	"Q": JobPending,
	"R": JobRunning,
	"E": JobRunning, // exiting, still running
	"H": JobHeld,
	"T": JobPending, // transit
	"W": JobPending, // waiting
	"S": JobSuspended,
	"F": JobCompleted,
	"X": JobCompleted,
	"C": JobCompleted,
	"B": JobRunning, // array job running
	"M": JobPending, // moved to another server
}

var slurmJobStates = map[string]JobState{
	"PD":         JobPending,
	"PENDING":    JobPending,
	"R":          JobRunning,
	"RUNNING":    JobRunning,
	"CG":         JobRunning, // completing
	"COMPLETING": JobRunning,
	"CD":         JobCompleted,
	"COMPLETED":  JobCompleted,
	"F":          JobFailed,
	"FAILED":     JobFailed,
	"CA":         JobCancelled,
	"CANCELLED":  JobCancelled,
	"TO":         JobFailed,
	"TIMEOUT":    JobFailed,
	"NF":         JobFailed,
	"NODE_FAIL":  JobFailed,
	"S":          JobSuspended,
	"SUSPENDED":  JobSuspended,
	"ST":         JobSuspended, // stopped
	"PR":         JobFailed,    // preempted
	"PREEMPTED":  JobFailed,
	"BF":         JobFailed, // boot fail
	"DL":         JobFailed, // deadline
	"OOM":        JobFailed,
	"RQ":         JobPending,
	"REQUEUED":   JobPending,
	"RS":         JobPending, // resizing
	"RV":         JobPending, // revoked
}

// stripModifiers removes scheduler state decorations like the Slurm
// trailing asterisk before map lookup.
func stripModifiers(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '*', '+', '~', '#', '!', '%', '$':
			return -1
		}
		return r
	}, s)
}

// NodeStateFor normalizes a raw node state for the given scheduler.
// Unknown input falls through scheduler-specific maps, then both maps,
// then keyword heuristics, and finally degrades to NodeUnknown.
func NodeStateFor(raw string, sched Scheduler) NodeState {
	s := stripModifiers(strings.ToLower(strings.TrimSpace(raw)))

	switch sched {
	case SchedulerPBS:
		if v, ok := pbsNodeStates[s]; ok {
			return v
		}
	case SchedulerSlurm:
		if v, ok := slurmNodeStates[s]; ok {
			return v
		}
	}
	if v, ok := pbsNodeStates[s]; ok {
		return v
	}
	if v, ok := slurmNodeStates[s]; ok {
		return v
	}

	switch {
	case strings.Contains(s, "down"), strings.Contains(s, "fail"), strings.Contains(s, "error"):
		return NodeDown
	case strings.Contains(s, "drain"):
		return NodeDraining
	case strings.Contains(s, "maint"):
		return NodeMaintenance
	case strings.Contains(s, "idle"), strings.Contains(s, "free"):
		return NodeIdle
	case strings.Contains(s, "alloc"), strings.Contains(s, "busy"):
		return NodeAllocated
	}
	return NodeUnknown
}

// QueueStateFor normalizes a raw queue or partition state for the given
// scheduler. Unknown input defaults to ACTIVE: schedulers only report
// non-default states when something is wrong.
func QueueStateFor(raw string, sched Scheduler) model.QueueState {
	s := stripModifiers(strings.ToLower(strings.TrimSpace(raw)))

	switch sched {
	case SchedulerPBS:
		if v, ok := pbsQueueStates[s]; ok {
			return v
		}
	case SchedulerSlurm:
		if v, ok := slurmPartitionStates[s]; ok {
			return v
		}
	}
	if v, ok := pbsQueueStates[s]; ok {
		return v
	}
	if v, ok := slurmPartitionStates[s]; ok {
		return v
	}

	switch s {
	case "up", "active", "enabled", "started", "running", "true":
		return model.QueueActive
	case "down", "offline", "disabled":
		return model.QueueOffline
	}
	if strings.Contains(s, "drain") {
		return model.QueueDraining
	}
	return model.QueueActive
}

// JobStateFor normalizes a raw job state code for the given scheduler.
// Unknown input defaults to PENDING.
func JobStateFor(raw string, sched Scheduler) JobState {
	s := strings.ToUpper(strings.TrimSpace(raw))

	switch sched {
	case SchedulerPBS:
		if v, ok := pbsJobStates[s]; ok {
			return v
		}
	case SchedulerSlurm:
		if v, ok := slurmJobStates[s]; ok {
			return v
		}
	}
	if v, ok := pbsJobStates[s]; ok {
		return v
	}
	if v, ok := slurmJobStates[s]; ok {
		return v
	}

	switch s {
	case "QUEUED", "WAITING":
		return JobPending
	case "EXECUTING":
		return JobRunning
	case "FINISHED":
		return JobCompleted
	case "HOLD":
		return JobHeld
	}
	return JobPending
}

// SystemStatusFromText normalizes free-form status text (for example an
// HTML status caption) to an operational status.
func SystemStatusFromText(raw string) model.OperationalStatus {
	t := strings.ToLower(strings.TrimSpace(raw))
	// Down cues first: "unavailable" must not match the "available" cue.
	switch {
	case containsAny(t, "down", "offline", "unavailable"):
		return model.StatusDown
	case containsAny(t, "degrad", "limited", "partial", "impact"):
		return model.StatusDegraded
	case containsAny(t, "maint", "outage window"):
		return model.StatusMaintenance
	case containsAny(t, "up", "available", "operational", "online"):
		return model.StatusUp
	default:
		return model.StatusUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
