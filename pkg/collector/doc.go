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

// Package collector defines the interface for gathering scheduler state
// from remote systems, plus the shared plumbing its implementations
// need: a command runner for login-node access and a typed timeout
// error.
//
// # Core Interface
//
// Every source implements Collector:
//
//	type Collector interface {
//	    Name() string
//	    DisplayName() string
//	    Available(ctx context.Context) bool
//	    Collect(ctx context.Context) (*Result, error)
//	}
//
// Collect returns a Result holding partial cluster state; the refresh
// layer merges results from all sources into one snapshot. Collectors
// never block past their context: a source that hangs is cut off and
// reported as a timeout.
//
// # Defensive Parsing
//
// Raw scheduler and status-page output is hostile input. Parsers in
// the subpackages skip rows they cannot understand rather than failing
// the whole collection, and record the raw text a value was derived
// from.
//
// # Available Collectors
//
// fleet: scrapes an HPC center status page for fleet-wide system
// availability.
//
// session: runs scheduler summary commands on login nodes through a
// Runner and parses usage, queue, and node tables.
//
// storage: runs df on login nodes and reports filesystem pressure.
//
// probe: inspects the local host with gopsutil, used for self-hosted
// deployments where the monitor runs on the cluster itself.
package collector
