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

// Package admission gates collection work against remote scheduler
// endpoints. Every collection attempt must acquire a permit first; the
// controller enforces a global concurrency cap, a per-target minimum
// interval between attempts, and a per-target circuit breaker that
// pauses collection after repeated failures.
//
// Denials are advisory, not fatal: a denied caller is expected to fall
// back to cached data rather than retry.
package admission
