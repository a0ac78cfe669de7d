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

import "fmt"

// Unit identifies what a ResourcePool counts.
type Unit string

const (
	UnitCores Unit = "cores"
	UnitNodes Unit = "nodes"
	UnitGPUs  Unit = "gpus"
	UnitBytes Unit = "bytes"
)

// Capacity is the static side of a resource pool: what exists and what
// policy allows to be handed out. It changes only with hardware or
// policy changes.
type Capacity struct {
	// Total is the number of resources that exist.
	Total int64 `json:"total" yaml:"total"`

	// Allocatable is the number of resources that could be allocated.
	// Never exceeds Total. Zero means "same as Total".
	Allocatable int64 `json:"allocatable,omitempty" yaml:"allocatable,omitempty"`
}

// EffectiveAllocatable returns Allocatable, defaulting to Total when unset.
func (c Capacity) EffectiveAllocatable() int64 {
	if c.Allocatable == 0 {
		return c.Total
	}
	return c.Allocatable
}

// Availability is the dynamic side of a resource pool. The buckets need
// not sum to capacity: fragmentation and unaccounted resources are
// legal.
type Availability struct {
	Idle      int64 `json:"idle" yaml:"idle"`
	Allocated int64 `json:"allocated" yaml:"allocated"`
	Pending   int64 `json:"pending,omitempty" yaml:"pending,omitempty"`
	Reserved  int64 `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	Offline   int64 `json:"offline,omitempty" yaml:"offline,omitempty"`
}

// Accounted returns the sum of all availability buckets.
func (a Availability) Accounted() int64 {
	return a.Idle + a.Allocated + a.Pending + a.Reserved + a.Offline
}

// ResourcePool pairs static capacity with dynamic availability for one
// resource unit.
type ResourcePool struct {
	Unit         Unit         `json:"unit" yaml:"unit"`
	Capacity     Capacity     `json:"capacity" yaml:"capacity"`
	Availability Availability `json:"availability" yaml:"availability"`
}

// Validate checks the pool invariants: allocatable never exceeds total,
// and the availability buckets never exceed total by more than slack
// units. Observational data is allowed to be inconsistent up to slack
// because schedulers report capacity and load at different instants.
func (p ResourcePool) Validate(slack int64) error {
	if p.Capacity.Allocatable > p.Capacity.Total {
		return fmt.Errorf("pool %s: allocatable %d exceeds total %d",
			p.Unit, p.Capacity.Allocatable, p.Capacity.Total)
	}
	if acc := p.Availability.Accounted(); acc > p.Capacity.Total+slack {
		return fmt.Errorf("pool %s: accounted %d exceeds total %d by more than slack %d",
			p.Unit, acc, p.Capacity.Total, slack)
	}
	return nil
}

// UtilizationPercent returns allocated resources as a percentage of
// total capacity. Zero-capacity pools report 0.
func (p ResourcePool) UtilizationPercent() float64 {
	if p.Capacity.Total == 0 {
		return 0
	}
	return float64(p.Availability.Allocated) / float64(p.Capacity.Total) * 100
}
