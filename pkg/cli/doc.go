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

// Package cli implements the fleetscope command-line interface.
//
// # Overview
//
// The fleetscope CLI collects scheduler state across HPC centers into a
// local snapshot cache and answers queue-selection questions from it.
// Collection is the only command that talks to the centers; every other
// command reads the cached snapshot, so repeated queries cost nothing
// against rate-limited login nodes.
//
// # Commands
//
// collect - run one collection cycle:
//
//	fleetscope collect [--timeout 5m] [--output FILE] [--format json|yaml|table]
//
// Runs every enabled collector once under admission control, merges the
// results, and commits the snapshot to the cache and history.
//
// status - fleet summary:
//
//	fleetscope status [--systems]
//
// Shows the fleet summary and snapshot age; --systems adds a per-system
// listing.
//
// recommend - rank queues for a job:
//
//	fleetscope recommend --walltime 4h --cores 256 [--gpus 4] [--type debug] [--limit 5]
//
// balance - split a batch of jobs:
//
//	fleetscope balance --jobs 100 [--walltime 4h] [--type gpu] [--avoid mustang]
//
// insights - notable fleet conditions:
//
//	fleetscope insights [--min-severity warning]
//
// prune - trim snapshot history:
//
//	fleetscope prune [--retention 168h]
//
// # Global Flags
//
//	--config      config file path (FLEETSCOPE_CONFIG)
//	--log-level   log level: debug, info, warn, error (LOG_LEVEL)
//
// # Output Formats
//
// JSON (default), YAML, and a hierarchical FIELD/VALUE table for
// terminal viewing. Output goes to stdout unless --output names a file.
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to
// specialized packages:
//   - pkg/refresh - collection orchestration
//   - pkg/insight - recommendations, balancing, insights
//   - pkg/store - snapshot cache and history
//   - pkg/serializer - output formatting
//   - pkg/logging - structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/fleetscope/fleetscope/pkg/cli.version=1.0.0'"
package cli
