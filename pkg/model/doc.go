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

// Package model defines the canonical entities for HPC scheduler state.
//
// # Capacity vs Availability
//
// The central distinction in this package is between capacity and
// availability:
//
//   - Capacity: total/maximum resources. Static, changes only when
//     hardware is added or removed, or allocation policy changes.
//   - Availability: currently idle/occupied/queued resources. Dynamic,
//     changes constantly as jobs start and complete.
//
// ResourcePool carries both sides for one resource unit (cores, nodes,
// gpus, or bytes).
//
// # Explicit Units
//
// Every numeric field carries its unit in the field name: seconds,
// cores, bytes, hours. Durations derived for computation are integers
// in seconds; allocation grants are floats in compute hours.
//
// # Status Values
//
// All statuses are normalized enumerations:
//
//   - System: UP, DOWN, DEGRADED, MAINTENANCE, UNKNOWN
//   - Queue: ACTIVE, INACTIVE, DRAINING, OFFLINE
//   - Storage: HEALTHY, WARNING, CRITICAL
//   - Allocation: HEALTHY, LOW, CRITICAL, EXHAUSTED, EXPIRED
//   - Insight severity: CRITICAL, WARNING, INFO, SUGGESTION
//
// Derived statuses (allocation and storage health) are computed by pure
// threshold functions kept separate from any storage concern; values in
// this package never mutate after construction. A refresh cycle builds
// a fresh set of instances that supersedes the previous one.
package model
