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

// ClusterState is everything observed about one system in one poll
// cycle: the system status plus the queue, allocation, and storage
// records it owns for that cycle.
type ClusterState struct {
	Status      SystemStatus     `json:"status" yaml:"status"`
	Queues      []QueueInfo      `json:"queues,omitempty" yaml:"queues,omitempty"`
	Allocations []AllocationInfo `json:"allocations,omitempty" yaml:"allocations,omitempty"`
	Storage     []StorageInfo    `json:"storage,omitempty" yaml:"storage,omitempty"`
}

// AllocationRemainingPercent returns the aggregate percent of the
// system's grants still remaining, and false when no allocation data
// exists.
func (c ClusterState) AllocationRemainingPercent() (float64, bool) {
	var allocated, remaining float64
	for _, a := range c.Allocations {
		allocated += a.AllocatedHours
		remaining += a.RemainingHours
	}
	if allocated <= 0 {
		return 0, false
	}
	return remaining / allocated * 100, true
}
