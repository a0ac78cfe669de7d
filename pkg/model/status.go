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

import "strings"

// OperationalStatus is the normalized operational status of an HPC system.
type OperationalStatus string

const (
	StatusUp          OperationalStatus = "UP"
	StatusDown        OperationalStatus = "DOWN"
	StatusDegraded    OperationalStatus = "DEGRADED"
	StatusMaintenance OperationalStatus = "MAINTENANCE"
	StatusUnknown     OperationalStatus = "UNKNOWN"
)

// String returns the string representation of the status.
func (s OperationalStatus) String() string {
	return string(s)
}

// OperationalStatuses is the list of all recognized system statuses.
var OperationalStatuses = []OperationalStatus{
	StatusUp,
	StatusDown,
	StatusDegraded,
	StatusMaintenance,
	StatusUnknown,
}

// ParseOperationalStatus parses a raw status string into an
// OperationalStatus. Unrecognized input maps to StatusUnknown rather
// than failing.
func ParseOperationalStatus(s string) OperationalStatus {
	v := OperationalStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range OperationalStatuses {
		if v == known {
			return known
		}
	}
	return StatusUnknown
}

// QueueState is the normalized state of a scheduler queue or partition.
type QueueState string

const (
	QueueActive   QueueState = "ACTIVE"
	QueueInactive QueueState = "INACTIVE"
	QueueDraining QueueState = "DRAINING"
	QueueOffline  QueueState = "OFFLINE"
)

func (s QueueState) String() string {
	return string(s)
}

// QueueType classifies a queue by its intended workload.
type QueueType string

const (
	QueueTypeBatch       QueueType = "BATCH"
	QueueTypeDebug       QueueType = "DEBUG"
	QueueTypeGPU         QueueType = "GPU"
	QueueTypeBigMem      QueueType = "BIGMEM"
	QueueTypeInteractive QueueType = "INTERACTIVE"
)

// QueueTypeFromName classifies a queue from its name when the scheduler
// does not report a type. Defaults to BATCH.
func QueueTypeFromName(name string) QueueType {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "debug"), strings.Contains(n, "test"):
		return QueueTypeDebug
	case strings.Contains(n, "gpu"):
		return QueueTypeGPU
	case strings.Contains(n, "bigmem"), strings.Contains(n, "himem"), strings.Contains(n, "large"):
		return QueueTypeBigMem
	case strings.Contains(n, "interactive"), strings.Contains(n, "login"):
		return QueueTypeInteractive
	default:
		return QueueTypeBatch
	}
}

// AllocationStatus is the health of a compute-time allocation.
type AllocationStatus string

const (
	AllocationHealthy   AllocationStatus = "HEALTHY"
	AllocationLow       AllocationStatus = "LOW"
	AllocationCritical  AllocationStatus = "CRITICAL"
	AllocationExhausted AllocationStatus = "EXHAUSTED"
	AllocationExpired   AllocationStatus = "EXPIRED"
)

// StorageStatus is the health of a storage filesystem.
type StorageStatus string

const (
	StorageHealthy  StorageStatus = "HEALTHY"
	StorageWarning  StorageStatus = "WARNING"
	StorageCritical StorageStatus = "CRITICAL"
)
