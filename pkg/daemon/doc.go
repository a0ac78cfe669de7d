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

// Package daemon assembles and runs the fleetscoped long-running
// service: the periodic refresh loop plus the ops HTTP server.
//
// # Lifecycle
//
//  1. Load configuration (FLEETSCOPE_CONFIG or the default search path).
//  2. Build the enabled collectors, the admission controller, and the
//     snapshot store.
//  3. Start the ops HTTP server and the refresh loop together; the
//     readiness probe flips to ready once the first collection cycle
//     has run.
//  4. On SIGINT/SIGTERM, stop the loop and drain the server.
//
// The refresh loop and the server run in one errgroup: if either
// fails, the other is shut down and the daemon exits non-zero.
package daemon
