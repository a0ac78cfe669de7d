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

// Package refresh orchestrates collection cycles. One refresh fans out
// over the registered collectors in parallel, gates each through the
// admission controller, merges whatever came back into a single fleet
// snapshot, and commits it to the store.
//
// # Degradation
//
// A refresh never fails because one source failed. Collectors that are
// unavailable, denied admission, or erroring are skipped and the cycle
// proceeds with the rest. Only a cycle that produces nothing at all
// reports an error, and even then the last known snapshot stays
// readable. A persistence failure downgrades to a logged error: the
// in-memory snapshot is updated regardless so readers see fresh data.
//
// # Concurrency
//
// Collector fan-out uses an errgroup; the merged snapshot sits behind
// a read-write mutex so request handlers never block collection.
package refresh
