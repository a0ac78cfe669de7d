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

// Package store persists fleet state on the local filesystem under two
// asymmetric read paths.
//
// The cache directory holds keyed entries (fleet_status,
// cluster_usage, queue_status, storage_status), each a single JSON
// document replaced atomically on every commit and meant for instant
// "last known" reads. The history directory holds one append-only
// JSONL file per collector, each line a timestamped record of what
// that collector produced, meant for queryable history and for
// standing in when a collector's next poll is denied or fails.
//
// Commit appends the merged snapshot to history before installing the
// cache views, so a failed append never leaves a cache entry pointing
// at an unrecorded snapshot.
//
// Readers tolerate missing or corrupt entries: both read as "no data
// yet" so a damaged file degrades to a fresh collection rather than an
// error loop.
package store
