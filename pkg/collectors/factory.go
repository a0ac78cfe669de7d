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

// Package collectors assembles the concrete collector set from
// configuration. It exists so the CLI and the daemon build identical
// fleets from the same config without importing each other.
package collectors

import (
	"github.com/fleetscope/fleetscope/pkg/collector"
	"github.com/fleetscope/fleetscope/pkg/collector/fleet"
	"github.com/fleetscope/fleetscope/pkg/collector/probe"
	"github.com/fleetscope/fleetscope/pkg/collector/session"
	"github.com/fleetscope/fleetscope/pkg/collector/storage"
	"github.com/fleetscope/fleetscope/pkg/config"
)

// FromConfig builds the enabled collectors. Order sets merge
// precedence: the status page provides the baseline, gateway sessions
// and storage probes refine it, and the local probe comes last.
func FromConfig(cfg *config.Config) []collector.Collector {
	var cols []collector.Collector

	if cfg.Collectors.Fleet.Enabled {
		cols = append(cols, fleet.New(fleet.Config{
			URL:      cfg.Collectors.Fleet.URL,
			Insecure: cfg.Collectors.Fleet.Insecure,
		}))
	}

	if cfg.Collectors.Session.Enabled || cfg.Collectors.Storage.Enabled {
		// Session and storage collection share one gateway runner so
		// admission spacing applies to the binary, not per collector.
		runner := collector.NewExecRunner(cfg.Collectors.Session.Binary)
		runner.Timeout = cfg.CommandTimeout()

		if cfg.Collectors.Session.Enabled {
			cols = append(cols, session.New(session.Config{
				Runner:   runner,
				Targets:  cfg.Collectors.Session.Targets,
				Discover: cfg.Collectors.Session.Discover,
			}))
		}
		if cfg.Collectors.Storage.Enabled {
			cols = append(cols, storage.New(storage.Config{
				Runner:  runner,
				Targets: cfg.Collectors.Storage.Targets,
				Mounts:  cfg.Collectors.Storage.Mounts,
			}))
		}
	}

	if cfg.Collectors.Probe.Enabled {
		cols = append(cols, probe.New(probe.Config{
			System: cfg.Collectors.Probe.System,
			Mounts: cfg.Collectors.Probe.Mounts,
		}))
	}

	return cols
}
