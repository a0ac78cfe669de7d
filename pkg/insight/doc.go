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

// Package insight turns fleet snapshots into actionable output: queue
// recommendations for job submission, load-balance suggestions across
// the fleet, and severity-ranked insights about allocations, storage,
// and system health.
//
// Everything in this package is a pure function of its inputs. The
// same snapshot always yields the same recommendations in the same
// order, so output is safe to diff between runs.
package insight
